package structure

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/marray/errs"
	"github.com/arloliu/marray/format"
)

// seqPart builds an array of n records of sm whose "seq" member counts up from first.
func seqPart(t *testing.T, sm *Members, n, first int) *ArrayStructureBB {
	t.Helper()

	seq, err := sm.Lookup("seq")
	require.NoError(t, err)

	size := sm.StructureSize()
	buf := make([]byte, n*size)
	for rec := range n {
		binary.BigEndian.PutUint32(buf[rec*size+seq.DataParam:], uint32(first+rec)) //nolint: gosec
	}

	arr, err := NewArrayStructureBB(sm, []int{n}, buf)
	require.NoError(t, err)

	return arr
}

func seqSchema(t *testing.T, padFirst bool) *Members {
	t.Helper()

	sm := NewMembers("seq")
	if padFirst {
		_, err := sm.AddMember("pad", "", "", format.KindLong, nil)
		require.NoError(t, err)
	}
	_, err := sm.AddMember("seq", "", "", format.KindInt, nil)
	require.NoError(t, err)
	_, err = sm.Layout()
	require.NoError(t, err)

	return sm
}

func TestComposite_Routing(t *testing.T) {
	sm := seqSchema(t, false)
	parts := []RecordReader{seqPart(t, sm, 3, 0), seqPart(t, sm, 5, 3), seqPart(t, sm, 2, 8)}

	c, err := NewComposite(nil, parts, 10)
	require.NoError(t, err)
	require.Same(t, sm, c.Members())
	require.Equal(t, 10, c.RecordCount())
	require.Equal(t, 3, c.Parts())
	require.Equal(t, []int{0, 3, 8}, c.Start())

	part, local, err := c.Route(4)
	require.NoError(t, err)
	require.Equal(t, 1, part)
	require.Equal(t, 1, local)

	part, local, err = c.Route(8)
	require.NoError(t, err)
	require.Equal(t, 2, part)
	require.Equal(t, 0, local)

	_, _, err = c.Route(10)
	require.ErrorIs(t, err, errs.ErrIllegalArgument)
	_, _, err = c.Route(-1)
	require.ErrorIs(t, err, errs.ErrIllegalArgument)

	seq, err := sm.Lookup("seq")
	require.NoError(t, err)
	for rec := range 10 {
		v, err := c.ScalarInt(rec, seq)
		require.NoError(t, err)
		require.Equal(t, int32(rec), v) //nolint: gosec
	}

	_, err = c.ScalarInt(10, seq)
	require.ErrorIs(t, err, errs.ErrIllegalArgument)
}

func TestComposite_EmptyPart(t *testing.T) {
	sm := seqSchema(t, false)
	parts := []RecordReader{seqPart(t, sm, 2, 0), seqPart(t, sm, 0, 0), seqPart(t, sm, 3, 2)}

	c, err := NewComposite(sm, parts, 5)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 2}, c.Start())

	part, local, err := c.Route(2)
	require.NoError(t, err)
	require.Equal(t, 2, part)
	require.Equal(t, 0, local)
}

func TestComposite_MatchesMembersByName(t *testing.T) {
	plain := seqSchema(t, false)
	padded := seqSchema(t, true)
	parts := []RecordReader{seqPart(t, plain, 2, 0), seqPart(t, padded, 2, 2)}

	c, err := NewComposite(plain, parts, 4)
	require.NoError(t, err)

	seq, err := plain.Lookup("seq")
	require.NoError(t, err)

	v, err := c.ScalarInt(3, seq)
	require.NoError(t, err)
	require.Equal(t, int32(3), v)

	d, err := c.ConvertDouble(2, seq)
	require.NoError(t, err)
	require.Equal(t, 2.0, d)

	sd, err := c.StructureData(3)
	require.NoError(t, err)
	require.Same(t, padded, sd.Members())

	arr, err := c.MemberArray(1, seq)
	require.NoError(t, err)
	require.Equal(t, int32(1), arr.IntAt(0))

	_, err = c.ScalarInt(0, &Member{Name: "missing", Kind: format.KindInt})
	require.ErrorIs(t, err, errs.ErrMemberNotFound)
	_, err = c.ScalarInt(0, nil)
	require.ErrorIs(t, err, errs.ErrMemberNotFound)

	_, err = c.ScalarDouble(0, seq)
	require.ErrorIs(t, err, errs.ErrKindMismatch)
}

func TestComposite_ConstructionErrors(t *testing.T) {
	sm := seqSchema(t, false)
	parts := []RecordReader{seqPart(t, sm, 3, 0), seqPart(t, sm, 2, 3)}

	_, err := NewComposite(nil, parts, 6)
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	_, err = NewComposite(nil, nil, 0)
	require.ErrorIs(t, err, errs.ErrIllegalArgument)

	c, err := NewComposite(sm, nil, 0)
	require.NoError(t, err)
	require.Equal(t, 0, c.RecordCount())
}

func TestComposite_ExtractMemberArrayNotSupported(t *testing.T) {
	sm := seqSchema(t, false)
	c, err := NewComposite(nil, []RecordReader{seqPart(t, sm, 1, 0)}, 1)
	require.NoError(t, err)

	seq, err := sm.Lookup("seq")
	require.NoError(t, err)

	_, err = c.ExtractMemberArray(seq)
	require.ErrorIs(t, err, errs.ErrNotSupported)
}

func TestComposite_Nested(t *testing.T) {
	inner := seqSchema(t, false)
	outer := NewMembers("outer")
	_, err := outer.AddMember("seq", "", "", format.KindInt, nil)
	require.NoError(t, err)
	_, err = outer.Layout()
	require.NoError(t, err)

	// a composite can itself be a part
	c1, err := NewComposite(nil, []RecordReader{seqPart(t, inner, 2, 0)}, 2)
	require.NoError(t, err)
	c2, err := NewComposite(nil, []RecordReader{c1, seqPart(t, outer, 2, 2)}, 4)
	require.NoError(t, err)

	seq, err := inner.Lookup("seq")
	require.NoError(t, err)
	v, err := c2.ScalarInt(3, seq)
	require.NoError(t, err)
	require.Equal(t, int32(3), v)

	v, err = c2.ScalarInt(1, seq)
	require.NoError(t, err)
	require.Equal(t, int32(1), v)
}
