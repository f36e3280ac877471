package structure

import "github.com/arloliu/marray/array"

// StructureData is one decoded record. Members are addressed by the *Member
// values of the record's schema.
//
// The typed scalar accessors require the member kind to match (the signed and
// unsigned kinds of one width both match) and return errs.ErrKindMismatch
// otherwise. ConvertDouble and ConvertLong accept any numeric kind.
type StructureData interface {
	Members() *Members

	ScalarDouble(m *Member) (float64, error)
	ScalarFloat(m *Member) (float32, error)
	ScalarLong(m *Member) (int64, error)
	ScalarInt(m *Member) (int32, error)
	ScalarShort(m *Member) (int16, error)
	ScalarByte(m *Member) (int8, error)
	ScalarChar(m *Member) (byte, error)
	ScalarString(m *Member) (string, error)
	ScalarStructure(m *Member) (StructureData, error)

	ConvertDouble(m *Member) (float64, error)
	ConvertLong(m *Member) (int64, error)

	// MemberArray returns the member's value as an array of the member shape.
	MemberArray(m *Member) (*array.Array, error)
}

// RecordReader decodes members of numbered records. ArrayStructureBB and
// Composite implement it; StructureData(rec) binds a record number into a
// StructureData.
type RecordReader interface {
	Members() *Members
	RecordCount() int
	StructureData(rec int) (StructureData, error)

	ScalarDouble(rec int, m *Member) (float64, error)
	ScalarFloat(rec int, m *Member) (float32, error)
	ScalarLong(rec int, m *Member) (int64, error)
	ScalarInt(rec int, m *Member) (int32, error)
	ScalarShort(rec int, m *Member) (int16, error)
	ScalarByte(rec int, m *Member) (int8, error)
	ScalarChar(rec int, m *Member) (byte, error)
	ScalarString(rec int, m *Member) (string, error)
	ScalarStructure(rec int, m *Member) (StructureData, error)

	ConvertDouble(rec int, m *Member) (float64, error)
	ConvertLong(rec int, m *Member) (int64, error)

	MemberArray(rec int, m *Member) (*array.Array, error)
}

// recordView is a record number bound to its reader.
type recordView struct {
	r   RecordReader
	rec int
}

var _ StructureData = recordView{}

// Record returns the record number the view is bound to.
func (v recordView) Record() int { return v.rec }

func (v recordView) Members() *Members { return v.r.Members() }

func (v recordView) ScalarDouble(m *Member) (float64, error)  { return v.r.ScalarDouble(v.rec, m) }
func (v recordView) ScalarFloat(m *Member) (float32, error)   { return v.r.ScalarFloat(v.rec, m) }
func (v recordView) ScalarLong(m *Member) (int64, error)      { return v.r.ScalarLong(v.rec, m) }
func (v recordView) ScalarInt(m *Member) (int32, error)       { return v.r.ScalarInt(v.rec, m) }
func (v recordView) ScalarShort(m *Member) (int16, error)     { return v.r.ScalarShort(v.rec, m) }
func (v recordView) ScalarByte(m *Member) (int8, error)       { return v.r.ScalarByte(v.rec, m) }
func (v recordView) ScalarChar(m *Member) (byte, error)       { return v.r.ScalarChar(v.rec, m) }
func (v recordView) ScalarString(m *Member) (string, error)   { return v.r.ScalarString(v.rec, m) }
func (v recordView) ConvertDouble(m *Member) (float64, error) { return v.r.ConvertDouble(v.rec, m) }
func (v recordView) ConvertLong(m *Member) (int64, error)     { return v.r.ConvertLong(v.rec, m) }

func (v recordView) ScalarStructure(m *Member) (StructureData, error) {
	return v.r.ScalarStructure(v.rec, m)
}

func (v recordView) MemberArray(m *Member) (*array.Array, error) {
	return v.r.MemberArray(v.rec, m)
}
