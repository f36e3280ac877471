package structure

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/marray/array"
	"github.com/arloliu/marray/errs"
	"github.com/arloliu/marray/format"
)

type stationSchema struct {
	sm      *Members
	temp    *Member
	count   *Member
	station *Member
	code    *Member
	flags   *Member
}

func newStationSchema(t *testing.T) stationSchema {
	t.Helper()

	var s stationSchema
	var err error

	s.sm = NewMembers("station")
	s.temp, err = s.sm.AddMember("temp", "", "K", format.KindFloat, nil)
	require.NoError(t, err)
	s.count, err = s.sm.AddMember("count", "", "", format.KindUInt, nil)
	require.NoError(t, err)
	s.station, err = s.sm.AddMember("station", "", "", format.KindString, nil)
	require.NoError(t, err)
	s.code, err = s.sm.AddMember("code", "", "", format.KindChar, []int{4})
	require.NoError(t, err)
	s.flags, err = s.sm.AddMember("flags", "", "", format.KindBoolean, []int{2})
	require.NoError(t, err)
	_, err = s.sm.Layout()
	require.NoError(t, err)

	return s
}

func TestEncoder_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		opts []EncoderOption
	}{
		{"big endian", nil},
		{"little endian", []EncoderOption{WithEncoderLittleEndian()}},
		{"native endian", []EncoderOption{WithEncoderNativeEndian()}},
		{"padded records", []EncoderOption{WithEncoderRecordSize(32)}},
		{"s2", []EncoderOption{WithEncoderCompression(format.CompressionS2)}},
		{"zstd", []EncoderOption{WithEncoderCompression(format.CompressionZstd), WithEncoderLittleEndian()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStationSchema(t)

			enc, err := NewEncoder(s.sm, tt.opts...)
			require.NoError(t, err)
			require.True(t, s.sm.IsFrozen())

			require.NoError(t, enc.AddRecord(map[string]any{
				"temp":    float32(281.5),
				"count":   uint32(4000000000),
				"station": "Boston",
				"code":    "KBOS",
				"flags":   []bool{true, false},
			}))
			require.NoError(t, enc.AddRecord(map[string]any{
				"temp": 290.25,
				"code": "LAX",
			}))
			require.Equal(t, 2, enc.Records())

			opts := enc.ArrayOptions()
			payload, err := enc.Finish()
			require.NoError(t, err)

			arr, err := NewArrayStructureBB(s.sm, []int{enc.Records()}, payload, opts...)
			require.NoError(t, err)
			require.Equal(t, 2, arr.RecordCount())

			temp, err := arr.ScalarFloat(1, s.temp)
			require.NoError(t, err)
			require.Equal(t, float32(290.25), temp)

			count, err := arr.ConvertLong(0, s.count)
			require.NoError(t, err)
			require.Equal(t, int64(4000000000), count)

			station, err := arr.ScalarString(0, s.station)
			require.NoError(t, err)
			require.Equal(t, "Boston", station)

			station, err = arr.ScalarString(1, s.station)
			require.NoError(t, err)
			require.Empty(t, station)

			code, err := arr.ScalarString(1, s.code)
			require.NoError(t, err)
			require.Equal(t, "LAX", code)

			flags, err := arr.MemberArray(0, s.flags)
			require.NoError(t, err)
			require.True(t, flags.BooleanAt(0))
			require.False(t, flags.BooleanAt(1))

			count, err = arr.ConvertLong(1, s.count)
			require.NoError(t, err)
			require.Zero(t, count)
		})
	}
}

func TestEncoder_CompressedPayload(t *testing.T) {
	for _, comp := range []format.CompressionType{format.CompressionS2, format.CompressionLZ4, format.CompressionZstd} {
		t.Run(comp.String(), func(t *testing.T) {
			s := newStationSchema(t)
			enc, err := NewEncoder(s.sm, WithEncoderCompression(comp))
			require.NoError(t, err)

			const n = 200
			for i := range n {
				require.NoError(t, enc.AddRecord(map[string]any{
					"temp":    float32(270 + i%20),
					"count":   uint32(i), //nolint: gosec
					"station": "Boston",
					"code":    "KBOS",
				}))
			}

			opts := enc.ArrayOptions()
			payload, err := enc.Finish()
			require.NoError(t, err)
			require.Less(t, len(payload), n*s.sm.StructureSize())

			stats := enc.Stats()
			require.Equal(t, comp, stats.Algorithm)
			require.Equal(t, n*s.sm.StructureSize(), stats.OriginalSize)
			require.Equal(t, len(payload), stats.CompressedSize)
			require.Less(t, stats.CompressionRatio(), 1.0)

			arr, err := NewArrayStructureBB(s.sm, []int{n}, payload, opts...)
			require.NoError(t, err)

			for _, rec := range []int{0, 77, n - 1} {
				count, err := arr.ConvertLong(rec, s.count)
				require.NoError(t, err)
				require.Equal(t, int64(rec), count)

				temp, err := arr.ScalarFloat(rec, s.temp)
				require.NoError(t, err)
				require.Equal(t, float32(270+rec%20), temp)
			}
			require.Len(t, arr.Heap(), n)
		})
	}
}

func TestEncoder_AddRecordErrors(t *testing.T) {
	s := newStationSchema(t)
	enc, err := NewEncoder(s.sm)
	require.NoError(t, err)

	err = enc.AddRecord(map[string]any{"missing": 1.0})
	require.ErrorIs(t, err, errs.ErrMemberNotFound)

	err = enc.AddRecord(map[string]any{"temp": "warm"})
	require.ErrorIs(t, err, errs.ErrKindMismatch)

	err = enc.AddRecord(map[string]any{"flags": []bool{true}})
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	err = enc.AddRecord(map[string]any{"temp": nil})
	require.ErrorIs(t, err, errs.ErrUnsupportedKind)

	require.Zero(t, enc.Records())

	require.NoError(t, enc.AddRecord(map[string]any{"temp": 1.0}))
	payload, err := enc.Finish()
	require.NoError(t, err)
	require.Len(t, payload, s.sm.StructureSize())
	require.Equal(t, format.CompressionNone, enc.Stats().Algorithm)
	require.Equal(t, len(payload), enc.Stats().CompressedSize)

	_, err = enc.Finish()
	require.ErrorIs(t, err, errs.ErrIllegalArgument)
	require.ErrorIs(t, enc.AddRecord(nil), errs.ErrIllegalArgument)
}

func TestEncoder_ArrayValues(t *testing.T) {
	sm := NewMembers("grid")
	cells, err := sm.AddMember("cells", "", "", format.KindShort, []int{2, 2})
	require.NoError(t, err)
	_, err = sm.Layout()
	require.NoError(t, err)

	enc, err := NewEncoder(sm, WithEncoderLittleEndian())
	require.NoError(t, err)

	values, err := array.FromSlice([]int16{1, -2, 3, -4}, 2, 2)
	require.NoError(t, err)
	require.NoError(t, enc.AddRecord(map[string]any{"cells": values}))

	opts := enc.ArrayOptions()
	payload, err := enc.Finish()
	require.NoError(t, err)

	arr, err := NewArrayStructureBB(sm, []int{1}, payload, opts...)
	require.NoError(t, err)

	got, err := arr.ShortSlice(0, cells)
	require.NoError(t, err)
	require.Equal(t, []int16{1, -2, 3, -4}, got)
}

func TestNewEncoder_Errors(t *testing.T) {
	inner := NewMembers("inner")
	_, err := inner.AddMember("x", "", "", format.KindInt, nil)
	require.NoError(t, err)

	nested := NewMembers("nested")
	_, err = nested.Add(Member{Name: "in", Kind: format.KindStructure, Members: inner})
	require.NoError(t, err)

	_, err = NewEncoder(nested)
	require.ErrorIs(t, err, errs.ErrUnsupportedKind)
	require.False(t, nested.IsFrozen())

	dated := NewMembers("dated")
	_, err = dated.AddMember("when", "", "", format.KindDate, nil)
	require.NoError(t, err)
	_, err = NewEncoder(dated)
	require.ErrorIs(t, err, errs.ErrUnsupportedKind)

	s := newStationSchema(t)
	_, err = NewEncoder(s.sm, WithEncoderRecordSize(4))
	require.ErrorIs(t, err, errs.ErrIllegalArgument)

	_, err = NewEncoder(s.sm, WithEncoderRecordSize(0))
	require.ErrorIs(t, err, errs.ErrIllegalArgument)

	_, err = NewEncoder(s.sm, WithEncoderCompression(format.CompressionType(0x7F)))
	require.ErrorIs(t, err, errs.ErrIllegalArgument)

	_, err = NewEncoder(nil)
	require.ErrorIs(t, err, errs.ErrIllegalArgument)
}

func TestEncoder_FailedRecordLeavesHeapUnchanged(t *testing.T) {
	sm := NewMembers("pairs")
	name, err := sm.AddMember("name", "", "", format.KindString, nil)
	require.NoError(t, err)
	_, err = sm.AddMember("pair", "", "", format.KindInt, []int{2})
	require.NoError(t, err)
	_, err = sm.Layout()
	require.NoError(t, err)

	enc, err := NewEncoder(sm)
	require.NoError(t, err)

	err = enc.AddRecord(map[string]any{"name": "x", "pair": []int32{1, 2, 3}})
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
	require.Zero(t, enc.Records())

	require.NoError(t, enc.AddRecord(map[string]any{"name": "y", "pair": []int32{1, 2}}))

	opts := enc.ArrayOptions()
	payload, err := enc.Finish()
	require.NoError(t, err)
	require.Len(t, payload, sm.StructureSize())

	arr, err := NewArrayStructureBB(sm, []int{1}, payload, opts...)
	require.NoError(t, err)
	require.Equal(t, []any{"y"}, arr.Heap())

	got, err := arr.ScalarString(0, name)
	require.NoError(t, err)
	require.Equal(t, "y", got)
}
