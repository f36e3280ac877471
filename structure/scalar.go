package structure

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/arloliu/marray/array"
	"github.com/arloliu/marray/errs"
	"github.com/arloliu/marray/format"
)

// StructureDataScalar is a single record built member by member, each member
// backed by its own array. It is used for computed records that have no byte
// buffer behind them.
//
// Note: a StructureDataScalar is NOT safe for concurrent AddMember calls.
type StructureDataScalar struct {
	members *Members
	values  map[*Member]*array.Array
}

var _ StructureData = (*StructureDataScalar)(nil)

// NewStructureDataScalar creates an empty record with a schema called name.
func NewStructureDataScalar(name string) *StructureDataScalar {
	return &StructureDataScalar{
		members: NewMembers(name),
		values:  make(map[*Member]*array.Array),
	}
}

// Members returns the record schema.
func (s *StructureDataScalar) Members() *Members { return s.members }

// AddMember adds a member holding value and returns it.
//
// value may be an *array.Array, a Go slice accepted by array.FromSlice, a
// scalar accepted by array.NewScalar, or a StructureData (stored as a scalar
// structure member). Anything else fails with errs.ErrUnsupportedKind.
func (s *StructureDataScalar) AddMember(name, desc, units string, value any) (*Member, error) {
	arr, err := toArray(value)
	if err != nil {
		return nil, fmt.Errorf("member %q: %w", name, err)
	}

	m := Member{Name: name, Desc: desc, Units: units, Kind: arr.Kind(), Shape: arr.Shape()}
	if sd, ok := value.(StructureData); ok {
		m.Members = sd.Members()
	}

	stored, err := s.members.Add(m)
	if err != nil {
		return nil, err
	}
	s.values[stored] = arr

	return stored, nil
}

// toArray converts a member value to an array.
func toArray(value any) (*array.Array, error) {
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil value", errs.ErrUnsupportedKind)
	case *array.Array:
		return v, nil
	case StructureData:
		return array.NewScalarKind(format.KindStructure, v)
	}

	if reflect.TypeOf(value).Kind() == reflect.Slice {
		return array.FromSlice(value)
	}

	return array.NewScalar(value)
}

func (s *StructureDataScalar) lookup(m *Member, kinds ...format.DataKind) (*array.Array, error) {
	arr, ok := s.values[m]
	if !ok {
		return nil, memberNotFound(s.members, m)
	}
	if err := checkKind(m, kinds...); err != nil {
		return nil, err
	}
	if arr.Size() == 0 {
		return nil, checkNotEmpty(m)
	}

	return arr, nil
}

// ScalarDouble returns the value of a double member. The other typed Scalar
// readers below require the member kind to match theirs.
func (s *StructureDataScalar) ScalarDouble(m *Member) (float64, error) {
	arr, err := s.lookup(m, format.KindDouble)
	if err != nil {
		return 0, err
	}

	return arr.Iterator().DoubleNext(), nil
}

func (s *StructureDataScalar) ScalarFloat(m *Member) (float32, error) {
	arr, err := s.lookup(m, format.KindFloat)
	if err != nil {
		return 0, err
	}

	return arr.Iterator().FloatNext(), nil
}

func (s *StructureDataScalar) ScalarLong(m *Member) (int64, error) {
	arr, err := s.lookup(m, format.KindLong, format.KindULong)
	if err != nil {
		return 0, err
	}

	return arr.Iterator().LongNext(), nil
}

func (s *StructureDataScalar) ScalarInt(m *Member) (int32, error) {
	arr, err := s.lookup(m, format.KindInt, format.KindUInt)
	if err != nil {
		return 0, err
	}

	return arr.Iterator().IntNext(), nil
}

func (s *StructureDataScalar) ScalarShort(m *Member) (int16, error) {
	arr, err := s.lookup(m, format.KindShort, format.KindUShort)
	if err != nil {
		return 0, err
	}

	return arr.Iterator().ShortNext(), nil
}

func (s *StructureDataScalar) ScalarByte(m *Member) (int8, error) {
	arr, err := s.lookup(m, format.KindByte, format.KindUByte)
	if err != nil {
		return 0, err
	}

	return arr.Iterator().ByteNext(), nil
}

func (s *StructureDataScalar) ScalarChar(m *Member) (byte, error) {
	arr, err := s.lookup(m, format.KindChar)
	if err != nil {
		return 0, err
	}

	return arr.Iterator().CharNext(), nil
}

// ScalarString returns a string member, or a char member joined up to the first NUL.
func (s *StructureDataScalar) ScalarString(m *Member) (string, error) {
	arr, err := s.lookup(m, format.KindString, format.KindChar)
	if err != nil {
		return "", err
	}

	it := arr.Iterator()
	if m.Kind == format.KindString {
		str, _ := it.ObjectNext().(string)
		return str, nil
	}

	var sb strings.Builder
	for it.HasNext() {
		c := it.CharNext()
		if c == 0 {
			break
		}
		sb.WriteByte(c)
	}

	return sb.String(), nil
}

// ScalarStructure returns a nested structure member.
func (s *StructureDataScalar) ScalarStructure(m *Member) (StructureData, error) {
	arr, err := s.lookup(m, format.KindStructure)
	if err != nil {
		return nil, err
	}

	sd, ok := arr.Iterator().ObjectNext().(StructureData)
	if !ok {
		return nil, fmt.Errorf("%w: member %q does not hold a structure", errs.ErrKindMismatch, m.Name)
	}

	return sd, nil
}

func (s *StructureDataScalar) numeric(m *Member) (*array.Array, error) {
	arr, err := s.lookup(m)
	if err != nil {
		return nil, err
	}
	if !m.Kind.IsNumeric() {
		return nil, fmt.Errorf("%w: member %q is %s, want a numeric kind", errs.ErrKindMismatch, m.Name, m.Kind)
	}

	return arr, nil
}

// ConvertDouble returns any numeric member widened to float64.
func (s *StructureDataScalar) ConvertDouble(m *Member) (float64, error) {
	arr, err := s.numeric(m)
	if err != nil {
		return 0, err
	}

	return arr.Iterator().DoubleNext(), nil
}

// ConvertLong returns any numeric member converted to int64.
func (s *StructureDataScalar) ConvertLong(m *Member) (int64, error) {
	arr, err := s.numeric(m)
	if err != nil {
		return 0, err
	}

	return arr.Iterator().LongNext(), nil
}

// MemberArray returns the array backing m. It is shared, not copied.
func (s *StructureDataScalar) MemberArray(m *Member) (*array.Array, error) {
	arr, ok := s.values[m]
	if !ok {
		return nil, memberNotFound(s.members, m)
	}

	return arr, nil
}
