package structure

import (
	"bytes"
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/marray/array"
	"github.com/arloliu/marray/endian"
	"github.com/arloliu/marray/errs"
	"github.com/arloliu/marray/format"
	"github.com/arloliu/marray/internal/pool"
)

// elementReader decodes one element from the front of b.
type elementReader[T any] func(order endian.EndianEngine, b []byte) T

func readDouble(order endian.EndianEngine, b []byte) float64 {
	return math.Float64frombits(order.Uint64(b))
}

func readFloat(order endian.EndianEngine, b []byte) float32 {
	return math.Float32frombits(order.Uint32(b))
}

func readLong(order endian.EndianEngine, b []byte) int64  { return int64(order.Uint64(b)) } //nolint: gosec
func readInt(order endian.EndianEngine, b []byte) int32   { return int32(order.Uint32(b)) } //nolint: gosec
func readShort(order endian.EndianEngine, b []byte) int16 { return int16(order.Uint16(b)) } //nolint: gosec
func readByte(_ endian.EndianEngine, b []byte) int8       { return int8(b[0]) }             //nolint: gosec
func readChar(_ endian.EndianEngine, b []byte) byte       { return b[0] }

// checkKind reports errs.ErrKindMismatch unless m has one of the given kinds.
// No kinds means any kind.
func checkKind(m *Member, kinds ...format.DataKind) error {
	if len(kinds) == 0 || slices.Contains(kinds, m.Kind) {
		return nil
	}

	return fmt.Errorf("%w: member %q is %s, want %v", errs.ErrKindMismatch, m.Name, m.Kind, kinds)
}

// checkNotEmpty rejects scalar reads of a member with no elements.
func checkNotEmpty(m *Member) error {
	if m.Size() == 0 {
		return fmt.Errorf("%w: member %q has no elements", errs.ErrIndexOutOfBounds, m.Name)
	}

	return nil
}

// locate returns the byte offset and byte order of member m in record rec,
// checking the member kind.
func (a *ArrayStructureBB) locate(rec int, m *Member, kinds ...format.DataKind) (int, endian.EndianEngine, error) {
	off, err := a.ByteOffset(rec, m)
	if err != nil {
		return 0, nil, err
	}
	if err := checkKind(m, kinds...); err != nil {
		return 0, nil, err
	}

	return off, a.orderFor(m), nil
}

func decodeScalar[T any](a *ArrayStructureBB, rec int, m *Member, read elementReader[T], kinds ...format.DataKind) (T, error) {
	var zero T

	off, order, err := a.locate(rec, m, kinds...)
	if err != nil {
		return zero, err
	}
	if err := checkNotEmpty(m); err != nil {
		return zero, err
	}

	return read(order, a.buf[off:]), nil
}

func decodeSlice[T any](a *ArrayStructureBB, rec int, m *Member, read elementReader[T], kinds ...format.DataKind) ([]T, error) {
	off, order, err := a.locate(rec, m, kinds...)
	if err != nil {
		return nil, err
	}

	width := m.ElementSize()
	out := make([]T, m.Size())
	for i := range out {
		out[i] = read(order, a.buf[off+i*width:])
	}

	return out, nil
}

// ScalarDouble decodes the first element of a double member.
func (a *ArrayStructureBB) ScalarDouble(rec int, m *Member) (float64, error) {
	return decodeScalar(a, rec, m, readDouble, format.KindDouble)
}

// ScalarFloat decodes the first element of a float member.
func (a *ArrayStructureBB) ScalarFloat(rec int, m *Member) (float32, error) {
	return decodeScalar(a, rec, m, readFloat, format.KindFloat)
}

// ScalarLong decodes the first element of a long or ulong member.
// Unsigned values keep their bit pattern; use ConvertLong to widen them.
func (a *ArrayStructureBB) ScalarLong(rec int, m *Member) (int64, error) {
	return decodeScalar(a, rec, m, readLong, format.KindLong, format.KindULong)
}

// ScalarInt decodes the first element of an int or uint member.
func (a *ArrayStructureBB) ScalarInt(rec int, m *Member) (int32, error) {
	return decodeScalar(a, rec, m, readInt, format.KindInt, format.KindUInt)
}

// ScalarShort decodes the first element of a short or ushort member.
func (a *ArrayStructureBB) ScalarShort(rec int, m *Member) (int16, error) {
	return decodeScalar(a, rec, m, readShort, format.KindShort, format.KindUShort)
}

// ScalarByte decodes the first element of a byte or ubyte member.
func (a *ArrayStructureBB) ScalarByte(rec int, m *Member) (int8, error) {
	return decodeScalar(a, rec, m, readByte, format.KindByte, format.KindUByte)
}

// ScalarChar decodes the first element of a char member.
func (a *ArrayStructureBB) ScalarChar(rec int, m *Member) (byte, error) {
	return decodeScalar(a, rec, m, readChar, format.KindChar)
}

// DoubleSlice decodes every element of a double member.
func (a *ArrayStructureBB) DoubleSlice(rec int, m *Member) ([]float64, error) {
	return decodeSlice(a, rec, m, readDouble, format.KindDouble)
}

// FloatSlice decodes every element of a float member.
func (a *ArrayStructureBB) FloatSlice(rec int, m *Member) ([]float32, error) {
	return decodeSlice(a, rec, m, readFloat, format.KindFloat)
}

// LongSlice decodes every element of a long or ulong member.
func (a *ArrayStructureBB) LongSlice(rec int, m *Member) ([]int64, error) {
	return decodeSlice(a, rec, m, readLong, format.KindLong, format.KindULong)
}

// IntSlice decodes every element of an int or uint member.
func (a *ArrayStructureBB) IntSlice(rec int, m *Member) ([]int32, error) {
	return decodeSlice(a, rec, m, readInt, format.KindInt, format.KindUInt)
}

// ShortSlice decodes every element of a short or ushort member.
func (a *ArrayStructureBB) ShortSlice(rec int, m *Member) ([]int16, error) {
	return decodeSlice(a, rec, m, readShort, format.KindShort, format.KindUShort)
}

// ByteSlice decodes every element of a byte or ubyte member.
func (a *ArrayStructureBB) ByteSlice(rec int, m *Member) ([]int8, error) {
	return decodeSlice(a, rec, m, readByte, format.KindByte, format.KindUByte)
}

// CharSlice decodes every element of a char member.
func (a *ArrayStructureBB) CharSlice(rec int, m *Member) ([]byte, error) {
	return decodeSlice(a, rec, m, readChar, format.KindChar)
}

// ScalarString decodes a string member through the object heap, or a char
// member as text ending at the first NUL.
func (a *ArrayStructureBB) ScalarString(rec int, m *Member) (string, error) {
	off, order, err := a.locate(rec, m, format.KindString, format.KindChar)
	if err != nil {
		return "", err
	}

	if m.Kind == format.KindChar {
		return charsToString(a.buf[off : off+m.Size()]), nil
	}
	if err := checkNotEmpty(m); err != nil {
		return "", err
	}

	return a.heapString(readInt(order, a.buf[off:]))
}

func (a *ArrayStructureBB) heapString(i int32) (string, error) {
	obj, err := a.heap.get(i)
	if err != nil {
		return "", err
	}
	s, ok := obj.(string)
	if !ok {
		return "", fmt.Errorf("%w: heap object %d is %T, not string", errs.ErrKindMismatch, i, obj)
	}

	return s, nil
}

func charsToString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}

	return string(b)
}

// ScalarStructure decodes the first nested record of a structure member.
func (a *ArrayStructureBB) ScalarStructure(rec int, m *Member) (StructureData, error) {
	nested, err := a.NestedArray(rec, m)
	if err != nil {
		return nil, err
	}

	return nested.StructureData(0)
}

// rawFloat converts the element of numeric kind k at the front of b to float64.
// Unsigned kinds are zero-extended.
func rawFloat(order endian.EndianEngine, b []byte, k format.DataKind) (float64, bool) {
	switch k {
	case format.KindDouble:
		return readDouble(order, b), true
	case format.KindFloat:
		return float64(readFloat(order, b)), true
	case format.KindULong:
		return float64(order.Uint64(b)), true
	default:
		v, ok := rawLong(order, b, k)
		return float64(v), ok
	}
}

// rawLong converts the element of numeric kind k at the front of b to int64.
// Unsigned kinds are zero-extended; floating point values truncate.
func rawLong(order endian.EndianEngine, b []byte, k format.DataKind) (int64, bool) {
	switch k {
	case format.KindByte:
		return int64(readByte(order, b)), true
	case format.KindUByte, format.KindChar:
		return int64(b[0]), true
	case format.KindShort:
		return int64(readShort(order, b)), true
	case format.KindUShort:
		return int64(order.Uint16(b)), true
	case format.KindInt:
		return int64(readInt(order, b)), true
	case format.KindUInt:
		return int64(order.Uint32(b)), true
	case format.KindLong, format.KindULong:
		return readLong(order, b), true
	case format.KindFloat:
		return int64(readFloat(order, b)), true
	case format.KindDouble:
		return int64(readDouble(order, b)), true
	default:
		return 0, false
	}
}

func (a *ArrayStructureBB) numeric(rec int, m *Member) (int, endian.EndianEngine, error) {
	off, order, err := a.locate(rec, m)
	if err != nil {
		return 0, nil, err
	}
	if !m.Kind.IsNumeric() {
		return 0, nil, fmt.Errorf("%w: member %q is %s, want a numeric kind", errs.ErrKindMismatch, m.Name, m.Kind)
	}

	if err := checkNotEmpty(m); err != nil {
		return 0, nil, err
	}

	return off, order, nil
}

// ConvertDouble decodes the first element of any numeric member as float64.
func (a *ArrayStructureBB) ConvertDouble(rec int, m *Member) (float64, error) {
	off, order, err := a.numeric(rec, m)
	if err != nil {
		return 0, err
	}
	v, _ := rawFloat(order, a.buf[off:], m.Kind)

	return v, nil
}

// ConvertLong decodes the first element of any numeric member as int64.
func (a *ArrayStructureBB) ConvertLong(rec int, m *Member) (int64, error) {
	off, order, err := a.numeric(rec, m)
	if err != nil {
		return 0, err
	}
	v, _ := rawLong(order, a.buf[off:], m.Kind)

	return v, nil
}

// element decodes the element of kind k at the front of b, boxed in the
// storage type array.Factory uses for k.
func (a *ArrayStructureBB) element(order endian.EndianEngine, b []byte, k format.DataKind) (any, error) {
	switch k {
	case format.KindByte:
		return readByte(order, b), nil
	case format.KindUByte, format.KindChar:
		return b[0], nil
	case format.KindShort:
		return readShort(order, b), nil
	case format.KindUShort:
		return order.Uint16(b), nil
	case format.KindInt:
		return readInt(order, b), nil
	case format.KindUInt:
		return order.Uint32(b), nil
	case format.KindLong:
		return readLong(order, b), nil
	case format.KindULong:
		return order.Uint64(b), nil
	case format.KindFloat:
		return readFloat(order, b), nil
	case format.KindDouble:
		return readDouble(order, b), nil
	case format.KindBoolean:
		return b[0] != 0, nil
	case format.KindString:
		return a.heapString(readInt(order, b))
	default:
		return nil, fmt.Errorf("%w: decode %s", errs.ErrUnsupportedKind, k)
	}
}

// fillMember decodes the value of m at off into dst starting at element base.
func (a *ArrayStructureBB) fillMember(dst *array.Array, base, off int, order endian.EndianEngine, m *Member) error {
	width := m.ElementSize()
	for i := range m.Size() {
		v, err := a.element(order, a.buf[off+i*width:], m.Kind)
		if err != nil {
			return err
		}
		dst.SetObjectAt(base+i, v)
	}

	return nil
}

// fillNested stores the nested records of structure member m in record rec into
// dst starting at element base.
func (a *ArrayStructureBB) fillNested(dst *array.Array, base, rec int, m *Member) error {
	nested, err := a.NestedArray(rec, m)
	if err != nil {
		return err
	}
	for i, sd := range nested.Records() {
		dst.SetObjectAt(base+i, sd)
	}

	return nil
}

// MemberArray decodes member m of record rec into an array of the member shape.
// Structure members yield an array of StructureData.
func (a *ArrayStructureBB) MemberArray(rec int, m *Member) (*array.Array, error) {
	off, order, err := a.locate(rec, m)
	if err != nil {
		return nil, err
	}

	dst, err := array.Factory(m.Kind, m.Shape...)
	if err != nil {
		return nil, err
	}

	if m.Kind == format.KindStructure {
		err = a.fillNested(dst, 0, rec, m)
	} else {
		err = a.fillMember(dst, 0, off, order, m)
	}
	if err != nil {
		return nil, err
	}

	return dst, nil
}

// ExtractMemberArray decodes member m across every record into one array whose
// shape is the outer shape followed by the member shape.
func (a *ArrayStructureBB) ExtractMemberArray(m *Member) (*array.Array, error) {
	if !a.members.contains(m) {
		return nil, memberNotFound(a.members, m)
	}

	shape := append(a.ix.Shape(), m.Shape...)
	dst, err := array.Factory(m.Kind, shape...)
	if err != nil {
		return nil, err
	}

	size := m.Size()
	order := a.orderFor(m)
	for rec := range a.ix.Size() {
		if m.Kind == format.KindStructure {
			err = a.fillNested(dst, rec*size, rec, m)
		} else {
			err = a.fillMember(dst, rec*size, a.recordBase(rec)+m.DataParam, order, m)
		}
		if err != nil {
			return nil, err
		}
	}

	return dst, nil
}

// SetMemberData encodes data into member m of record rec, in place.
//
// The member kind selects the encoding. Numeric members accept any numeric
// array, boolean members boolean arrays, string members string arrays (added
// to the heap), and char members either chars or one string padded with NULs.
//
// Returns:
//   - errs.ErrUnsupportedKind for structure members
//   - errs.ErrKindMismatch if data cannot be encoded as the member kind
//   - errs.ErrShapeMismatch if data and member sizes differ
func (a *ArrayStructureBB) SetMemberData(rec int, m *Member, data *array.Array) error {
	off, order, err := a.locate(rec, m)
	if err != nil {
		return err
	}

	scratch := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(scratch)

	b, err := appendMember(scratch.B, order, m, data, a.heap.add)
	if err != nil {
		return err
	}
	copy(a.buf[off:off+m.ByteSize()], b)
	scratch.B = b

	return nil
}

// writable reports whether an array of kind src can be encoded as a member of kind dst.
func writable(dst, src format.DataKind) bool {
	switch {
	case dst == format.KindString:
		return src == format.KindString
	case dst == format.KindBoolean:
		return src == format.KindBoolean
	case dst.IsNumeric():
		return src.IsNumeric()
	default:
		return false
	}
}

// appendMember appends the encoded value of m, taken from data, to b.
func appendMember(b []byte, order endian.EndianEngine, m *Member, data *array.Array, addHeap func(any) int32) ([]byte, error) {
	if m.Kind == format.KindStructure || m.ElementSize() == 0 {
		return b, fmt.Errorf("%w: member %q of kind %s has no write path", errs.ErrUnsupportedKind, m.Name, m.Kind)
	}

	if m.Kind == format.KindChar && data.Kind() == format.KindString && data.Size() == 1 {
		s, _ := data.Iterator().ObjectNext().(string)
		text := make([]byte, m.Size())
		copy(text, s)

		return append(b, text...), nil
	}

	if !writable(m.Kind, data.Kind()) {
		return b, fmt.Errorf("%w: cannot encode %s data as member %q of kind %s",
			errs.ErrKindMismatch, data.Kind(), m.Name, m.Kind)
	}
	if data.Size() != m.Size() {
		return b, fmt.Errorf("%w: member %q holds %d elements, data has %d",
			errs.ErrShapeMismatch, m.Name, m.Size(), data.Size())
	}

	it := data.Iterator()
	for it.HasNext() {
		switch m.Kind {
		case format.KindByte, format.KindUByte, format.KindChar:
			b = append(b, byte(it.LongNext())) //nolint: gosec
		case format.KindShort, format.KindUShort:
			b = order.AppendUint16(b, uint16(it.LongNext())) //nolint: gosec
		case format.KindInt, format.KindUInt:
			b = order.AppendUint32(b, uint32(it.LongNext())) //nolint: gosec
		case format.KindLong, format.KindULong:
			b = order.AppendUint64(b, uint64(it.LongNext())) //nolint: gosec
		case format.KindFloat:
			b = order.AppendUint32(b, math.Float32bits(it.FloatNext()))
		case format.KindDouble:
			b = order.AppendUint64(b, math.Float64bits(it.DoubleNext()))
		case format.KindBoolean:
			if it.BooleanNext() {
				b = append(b, 1)
			} else {
				b = append(b, 0)
			}
		case format.KindString:
			b = order.AppendUint32(b, uint32(addHeap(it.ObjectNext()))) //nolint: gosec
		}
	}

	return b, nil
}
