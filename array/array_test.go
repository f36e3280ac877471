package array

import (
	"errors"
	"testing"

	"github.com/arloliu/marray/errs"
	"github.com/arloliu/marray/format"
	"github.com/arloliu/marray/index"
	"github.com/stretchr/testify/require"
)

func iota64(n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i)
	}

	return data
}

func requireForbidden(t *testing.T, fn func()) {
	t.Helper()
	requirePanicIs(t, errs.ErrForbiddenConversion, fn)
}

func requirePanicIs(t *testing.T, target error, fn func()) {
	t.Helper()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.Is(err, target), "got %v", err)
	}()
	fn()
}

func TestFactory(t *testing.T) {
	t.Run("ZeroFilled", func(t *testing.T) {
		a, err := Factory(format.KindInt, 2, 3)
		require.NoError(t, err)
		require.Equal(t, format.KindInt, a.Kind())
		require.Equal(t, []int{2, 3}, a.Shape())
		require.Equal(t, 6, a.Size())
		require.Equal(t, []int32{0, 0, 0, 0, 0, 0}, a.Storage())
	})

	t.Run("UnsupportedKind", func(t *testing.T) {
		_, err := Factory(format.DataKind(0xEE), 2)
		require.ErrorIs(t, err, errs.ErrUnsupportedKind)
	})

	t.Run("FromSliceShapeMismatch", func(t *testing.T) {
		_, err := FromSlice(iota64(5), 2, 3)
		require.ErrorIs(t, err, errs.ErrShapeMismatch)
	})

	t.Run("FromSliceUnsupported", func(t *testing.T) {
		_, err := FromSlice([]struct{}{{}})
		require.ErrorIs(t, err, errs.ErrUnsupportedKind)
	})

	t.Run("FromSliceAliases", func(t *testing.T) {
		data := []int16{1, 2, 3}
		a, err := FromSlice(data)
		require.NoError(t, err)
		require.Equal(t, format.KindShort, a.Kind())
		a.SetShortAt(1, 9)
		require.Equal(t, int16(9), data[1])
	})

	t.Run("FromDoublesCopies", func(t *testing.T) {
		vals := []float64{1, 2, 3}
		a := FromDoubles(vals...)
		vals[0] = 100
		require.InDelta(t, 1.0, a.DoubleAt(0), 0)
	})
}

func TestIterator(t *testing.T) {
	t.Run("ExhaustedPanics", func(t *testing.T) {
		grid, err := FromSlice(iota64(6), 2, 3)
		require.NoError(t, err)
		row, err := grid.Slice(0, 0)
		require.NoError(t, err)

		for _, it := range []*Iterator{row.Iterator(), row.IndexIterator()} {
			var got []float64
			for it.HasNext() {
				got = append(got, it.DoubleNext())
			}
			require.Equal(t, []float64{0, 1, 2}, got)

			requirePanicIs(t, errs.ErrIndexOutOfBounds, func() { it.DoubleNext() })
			requirePanicIs(t, errs.ErrIndexOutOfBounds, func() { it.SetDoubleNext(9) })
			require.Equal(t, 2.0, it.DoubleCurrent())
		}
		require.True(t, row.Iterator().IsFast())
		require.Equal(t, 3.0, grid.DoubleAt(3))
	})

	t.Run("VisitsEveryElementOnce", func(t *testing.T) {
		a, err := FromSlice(iota64(24), 2, 3, 4)
		require.NoError(t, err)

		it := a.Iterator()
		require.True(t, it.IsFast())

		var got []float64
		for it.HasNext() {
			got = append(got, it.DoubleNext())
		}
		require.Equal(t, iota64(24), got)
		require.False(t, it.HasNext())
	})

	t.Run("FastMatchesIndex", func(t *testing.T) {
		a, err := FromSlice(iota64(24), 2, 3, 4)
		require.NoError(t, err)

		fast, slow := a.Iterator(), a.IndexIterator()
		require.False(t, slow.IsFast())
		for fast.HasNext() {
			require.True(t, slow.HasNext())
			require.Equal(t, slow.LongNext(), fast.LongNext())
			require.Equal(t, slow.CurrentCounter(), fast.CurrentCounter())
		}
		require.False(t, slow.HasNext())
	})

	t.Run("TransposedView", func(t *testing.T) {
		a, err := FromSlice(iota64(6), 2, 3)
		require.NoError(t, err)
		tr, err := a.Transpose(0, 1)
		require.NoError(t, err)

		it := tr.Iterator()
		require.False(t, it.IsFast())

		var got []float64
		for it.HasNext() {
			got = append(got, it.DoubleNext())
		}
		require.Equal(t, []float64{0, 3, 1, 4, 2, 5}, got)
	})

	t.Run("MatchesIndexAccess", func(t *testing.T) {
		a, err := FromSlice(iota64(24), 2, 3, 4)
		require.NoError(t, err)
		view, err := a.Section(index.All(2), index.Range{First: 0, Last: 2, Stride: 2}, index.Range{First: 1, Last: 3})
		require.NoError(t, err)

		ix := view.Index()
		it := view.Iterator()
		for pos := range ix.Positions() {
			_, err := ix.Set(pos...)
			require.NoError(t, err)
			require.Equal(t, view.Double(ix), it.DoubleNext(), "pos %v", pos)
		}
		require.False(t, it.HasNext())
	})

	t.Run("SetRoundTrip", func(t *testing.T) {
		a, err := Factory(format.KindLong, 3, 2)
		require.NoError(t, err)

		w := a.Iterator()
		for n := int64(0); w.HasNext(); n++ {
			w.SetLongNext(n * 10)
		}

		r := a.IndexIterator()
		for n := int64(0); r.HasNext(); n++ {
			require.Equal(t, n*10, r.LongNext())
			require.Equal(t, n*10, r.LongCurrent())
		}
	})

	t.Run("CurrentBeforeNext", func(t *testing.T) {
		a := FromDoubles(7, 8)
		it := a.Iterator()
		require.InDelta(t, 7.0, it.DoubleCurrent(), 0)
		it.SetDoubleCurrent(1)
		require.InDelta(t, 1.0, it.DoubleNext(), 0)
		require.InDelta(t, 8.0, it.DoubleNext(), 0)
	})

	t.Run("CurrentCounter", func(t *testing.T) {
		a, err := Factory(format.KindByte, 2, 3)
		require.NoError(t, err)

		for _, it := range []*Iterator{a.Iterator(), a.IndexIterator()} {
			for range 5 {
				it.ByteNext()
			}
			require.Equal(t, []int{1, 1}, it.CurrentCounter())
		}
	})

	t.Run("Empty", func(t *testing.T) {
		a, err := Factory(format.KindDouble, 3, 0)
		require.NoError(t, err)
		require.False(t, a.Iterator().HasNext())
		require.False(t, a.IndexIterator().HasNext())
	})
}

func TestSequences(t *testing.T) {
	a, err := FromSlice([]string{"a", "b", "c"})
	require.NoError(t, err)

	var got []any
	for n, v := range a.All() {
		require.Len(t, got, n)
		got = append(got, v)
	}
	require.Equal(t, []any{"a", "b", "c"}, got)

	sum := 0.0
	for _, v := range FromDoubles(1, 2, 3, 4).Doubles() {
		sum += v
		if v == 3 {
			break
		}
	}
	require.InDelta(t, 6.0, sum, 0)
}

func TestConversions(t *testing.T) {
	t.Run("NumericWidening", func(t *testing.T) {
		a, err := FromSlice([]int8{-3, 5})
		require.NoError(t, err)
		require.InDelta(t, -3.0, a.DoubleAt(0), 0)
		require.Equal(t, int64(5), a.LongAt(1))
		require.InDelta(t, float32(5), a.FloatAt(1), 0)
	})

	t.Run("NumericNarrowing", func(t *testing.T) {
		a, err := FromSlice([]int64{1<<33 + 5})
		require.NoError(t, err)
		require.Equal(t, int32(5), a.IntAt(0))
	})

	t.Run("CharAsString", func(t *testing.T) {
		a, err := Factory(format.KindChar, 2)
		require.NoError(t, err)
		a.SetCharAt(0, 'x')
		require.Equal(t, "x", a.StringAt(0))
		require.Equal(t, byte('x'), a.CharAt(0))
	})

	t.Run("ObjectIntoNumeric", func(t *testing.T) {
		a := FromDoubles(0)
		a.SetObjectAt(0, int32(4))
		require.InDelta(t, 4.0, a.DoubleAt(0), 0)
	})

	t.Run("Forbidden", func(t *testing.T) {
		str, err := FromSlice([]string{"x"})
		require.NoError(t, err)
		dbl := FromDoubles(1)
		flags, err := FromSlice([]bool{true})
		require.NoError(t, err)

		requireForbidden(t, func() { str.DoubleAt(0) })
		requireForbidden(t, func() { str.SetLongAt(0, 1) })
		requireForbidden(t, func() { dbl.BooleanAt(0) })
		requireForbidden(t, func() { dbl.StringAt(0) })
		requireForbidden(t, func() { dbl.SetObjectAt(0, "nope") })
		requireForbidden(t, func() { flags.LongAt(0) })
		requireForbidden(t, func() { flags.Iterator().DoubleNext() })
	})
}

func TestScalar(t *testing.T) {
	t.Run("Long", func(t *testing.T) {
		s, err := NewScalar(int64(42))
		require.NoError(t, err)
		require.True(t, s.IsScalar())
		require.Equal(t, format.KindLong, s.Kind())
		require.Equal(t, 0, s.Rank())
		require.Equal(t, 1, s.Size())

		require.InDelta(t, 42.0, s.DoubleAt(0), 0)
		require.Equal(t, int32(42), s.IntAt(0))
		require.Equal(t, int64(42), s.LongAt(3), "offset is ignored")

		s.SetLongAt(0, 7)
		s.SetDoubleAt(0, 1.5)
		require.Equal(t, int64(42), s.LongAt(0), "setters are ignored")

		it := s.Iterator()
		require.True(t, it.HasNext())
		require.Equal(t, int64(42), it.LongNext())
		require.False(t, it.HasNext())
	})

	t.Run("IntNormalized", func(t *testing.T) {
		s, err := NewScalar(9)
		require.NoError(t, err)
		require.Equal(t, format.KindLong, s.Kind())
		require.Equal(t, int64(9), s.ObjectAt(0))
		require.Equal(t, []int64{9}, s.Storage())
	})

	t.Run("String", func(t *testing.T) {
		s, err := NewScalar("hi")
		require.NoError(t, err)
		require.Equal(t, "hi", s.StringAt(0))
		requireForbidden(t, func() { s.DoubleAt(0) })
	})

	t.Run("CopyIsMutable", func(t *testing.T) {
		s, err := NewScalar(2.5)
		require.NoError(t, err)
		c := s.Copy()
		require.False(t, c.IsScalar())
		c.SetDoubleAt(0, 1)
		require.InDelta(t, 1.0, c.DoubleAt(0), 0)
		require.InDelta(t, 2.5, s.DoubleAt(0), 0)
	})

	t.Run("Unsupported", func(t *testing.T) {
		_, err := NewScalar(struct{}{})
		require.ErrorIs(t, err, errs.ErrUnsupportedKind)

		_, err = NewScalarKind(format.DataKind(0), 1)
		require.ErrorIs(t, err, errs.ErrUnsupportedKind)
	})

	t.Run("KindMismatch", func(t *testing.T) {
		tests := []struct {
			kind  format.DataKind
			value any
		}{
			{format.KindDouble, "abc"},
			{format.KindInt, true},
			{format.KindBoolean, 1},
			{format.KindString, 3.5},
			{format.KindDate, "2024-01-01"},
			{format.KindObject, nil},
		}

		for _, tt := range tests {
			_, err := NewScalarKind(tt.kind, tt.value)
			require.ErrorIs(t, err, errs.ErrKindMismatch, "%s from %T", tt.kind, tt.value)
		}
	})

	t.Run("KindConversion", func(t *testing.T) {
		s, err := NewScalarKind(format.KindInt, int64(42))
		require.NoError(t, err)
		require.Equal(t, int32(42), s.IntAt(0))

		c, err := NewScalarKind(format.KindComplex, complex64(1+2i))
		require.NoError(t, err)
		require.Equal(t, complex128(1+2i), c.ObjectAt(0))
	})
}

func TestViews(t *testing.T) {
	a, err := FromSlice(iota64(24), 2, 3, 4)
	require.NoError(t, err)

	t.Run("SliceSharesStorage", func(t *testing.T) {
		v, err := a.Slice(0, 1)
		require.NoError(t, err)
		require.Equal(t, []int{3, 4}, v.Shape())
		require.InDelta(t, 12.0, v.Iterator().DoubleNext(), 0)

		ix := v.Index()
		_, err = ix.Set(2, 3)
		require.NoError(t, err)
		v.SetDouble(ix, -1)
		require.InDelta(t, -1.0, a.DoubleAt(23), 0)
		a.SetDoubleAt(23, 23)
	})

	t.Run("Flip", func(t *testing.T) {
		v, err := FromDoubles(0, 1, 2).Flip(0)
		require.NoError(t, err)
		require.Equal(t, []float64{2, 1, 0}, v.Storage())
	})

	t.Run("ReshapeCanonical", func(t *testing.T) {
		v, err := a.Reshape(6, 4)
		require.NoError(t, err)
		require.True(t, v.IsCanonical())
		f, ok := v.Float64s()
		require.True(t, ok)
		require.Len(t, f, 24)
	})

	t.Run("ReshapeTransposedCopies", func(t *testing.T) {
		tr, err := a.Permute(2, 0, 1)
		require.NoError(t, err)
		_, ok := tr.Float64s()
		require.False(t, ok)

		flat, err := tr.Reshape(24)
		require.NoError(t, err)
		got, ok := flat.Float64s()
		require.True(t, ok)
		require.Equal(t, tr.Storage(), got)
	})

	t.Run("ReduceDim", func(t *testing.T) {
		b, err := FromSlice(iota64(3), 1, 3)
		require.NoError(t, err)
		r, err := b.ReduceDim(0)
		require.NoError(t, err)
		require.Equal(t, []int{3}, r.Shape())
		require.Equal(t, []int{3}, b.Reduce().Shape())
	})

	t.Run("Dump", func(t *testing.T) {
		require.Equal(t, "double[3] {1, 2, 3}", FromDoubles(1, 2, 3).Dump())
	})
}
