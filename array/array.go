// Package array provides a type-erased, strided N-dimensional array.
//
// An Array pairs an index.Index, which describes the logical shape and how it
// maps onto storage offsets, with one flat storage buffer holding elements of a
// single format.DataKind. Views created by Reshape, Transpose, Section and the
// other view methods share the storage of the array they came from.
//
// # Element access
//
// Every element kind is reachable through the same accessor families:
//
//	Double / Float / Long / Int / Short / Byte / Char / Boolean / Object
//
// Each family has an index form (Double(ix)) and a physical-offset form
// (DoubleAt(off)). Numeric families convert between numeric kinds with Go's
// conversion rules, so reading an int view of a long array truncates.
// Like reflect.Value, an accessor panics with an error wrapping
// errs.ErrForbiddenConversion when the storage cannot be viewed as the requested
// family, for example Double on a string array.
//
// # Iteration
//
// Iterator walks the logical elements in canonical order. When the layout is
// canonical it runs a bare counter over storage offsets; otherwise it steps an
// index.Index. All and Doubles expose the same walk as iter.Seq2 sequences.
//
// # Thread Safety
//
// Arrays are safe for concurrent reads. Concurrent writes to the same element
// are not synchronized. Iterators and indexes are single-goroutine cursors.
package array

import (
	"fmt"
	"iter"
	"strings"

	"github.com/arloliu/marray/errs"
	"github.com/arloliu/marray/format"
	"github.com/arloliu/marray/index"
)

// Array is a strided view over a flat storage buffer.
type Array struct {
	kind  format.DataKind
	ix    *index.Index // layout only; its position is never moved
	store storage
}

func newArray(ix *index.Index, store storage) *Array {
	return &Array{kind: store.kind(), ix: ix, store: store}
}

// Kind returns the element kind.
func (a *Array) Kind() format.DataKind { return a.kind }

// Shape returns a copy of the shape.
func (a *Array) Shape() []int { return a.ix.Shape() }

// Rank returns the number of dimensions.
func (a *Array) Rank() int { return a.ix.Rank() }

// Size returns the number of logical elements.
func (a *Array) Size() int { return a.ix.Size() }

// IsCanonical reports whether the logical elements occupy consecutive storage
// offsets in canonical order.
func (a *Array) IsCanonical() bool { return a.ix.IsCanonical() }

// IsScalar reports whether the array is a scalar wrapper.
func (a *Array) IsScalar() bool {
	_, ok := a.store.(*scalarStorage)
	return ok
}

// Index returns a fresh Index positioned at the first element, for the caller to step.
func (a *Array) Index() *index.Index { return a.ix.Clone() }

func (a *Array) forbidden(family string) error {
	return fmt.Errorf("%w: %s array as %s", errs.ErrForbiddenConversion, a.kind, family)
}

// DoubleAt returns the element at storage offset off as float64.
func (a *Array) DoubleAt(off int) float64 {
	v, ok := a.store.float(off)
	if !ok {
		panic(a.forbidden("double"))
	}

	return v
}

// FloatAt returns the element at storage offset off as float32.
func (a *Array) FloatAt(off int) float32 { return float32(a.DoubleAt(off)) }

// LongAt returns the element at storage offset off as int64.
func (a *Array) LongAt(off int) int64 {
	v, ok := a.store.integer(off)
	if !ok {
		panic(a.forbidden("long"))
	}

	return v
}

// IntAt returns the element at storage offset off as int32.
func (a *Array) IntAt(off int) int32 { return int32(a.LongAt(off)) } //nolint: gosec

// ShortAt returns the element at storage offset off as int16.
func (a *Array) ShortAt(off int) int16 { return int16(a.LongAt(off)) } //nolint: gosec

// ByteAt returns the element at storage offset off as int8.
func (a *Array) ByteAt(off int) int8 { return int8(a.LongAt(off)) } //nolint: gosec

// CharAt returns the element at storage offset off as an 8-bit character.
func (a *Array) CharAt(off int) byte { return byte(a.LongAt(off)) } //nolint: gosec

// BooleanAt returns the element at storage offset off as bool.
func (a *Array) BooleanAt(off int) bool {
	v, ok := a.store.boolean(off)
	if !ok {
		panic(a.forbidden("boolean"))
	}

	return v
}

// ObjectAt returns the element at storage offset off boxed in its storage type.
func (a *Array) ObjectAt(off int) any { return a.store.object(off) }

// StringAt returns the element at storage offset off as a string. Char arrays
// yield one-character strings.
func (a *Array) StringAt(off int) string {
	switch v := a.store.object(off).(type) {
	case string:
		return v
	case uint8:
		if a.kind == format.KindChar {
			return string(rune(v))
		}
	}
	panic(a.forbidden("String"))
}

// SetDoubleAt stores v at storage offset off.
func (a *Array) SetDoubleAt(off int, v float64) {
	if !a.store.setFloat(off, v) {
		panic(a.forbidden("double"))
	}
}

// SetFloatAt stores v at storage offset off.
func (a *Array) SetFloatAt(off int, v float32) { a.SetDoubleAt(off, float64(v)) }

// SetLongAt stores v at storage offset off.
func (a *Array) SetLongAt(off int, v int64) {
	if !a.store.setInteger(off, v) {
		panic(a.forbidden("long"))
	}
}

// SetIntAt stores v at storage offset off.
func (a *Array) SetIntAt(off int, v int32) { a.SetLongAt(off, int64(v)) }

// SetShortAt stores v at storage offset off.
func (a *Array) SetShortAt(off int, v int16) { a.SetLongAt(off, int64(v)) }

// SetByteAt stores v at storage offset off.
func (a *Array) SetByteAt(off int, v int8) { a.SetLongAt(off, int64(v)) }

// SetCharAt stores v at storage offset off.
func (a *Array) SetCharAt(off int, v byte) { a.SetLongAt(off, int64(v)) }

// SetBooleanAt stores v at storage offset off.
func (a *Array) SetBooleanAt(off int, v bool) {
	if !a.store.setBoolean(off, v) {
		panic(a.forbidden("boolean"))
	}
}

// SetObjectAt stores v at storage offset off. The value must be assignable to
// the storage type, or numeric for numeric storage.
func (a *Array) SetObjectAt(off int, v any) {
	if !a.store.setObject(off, v) {
		panic(fmt.Errorf("%w: %T into %s array", errs.ErrForbiddenConversion, v, a.kind))
	}
}

// Double returns the element at the current position of ix.
func (a *Array) Double(ix *index.Index) float64 { return a.DoubleAt(ix.CurrentElement()) }

// Float returns the element at the current position of ix.
func (a *Array) Float(ix *index.Index) float32 { return a.FloatAt(ix.CurrentElement()) }

// Long returns the element at the current position of ix.
func (a *Array) Long(ix *index.Index) int64 { return a.LongAt(ix.CurrentElement()) }

// Int returns the element at the current position of ix.
func (a *Array) Int(ix *index.Index) int32 { return a.IntAt(ix.CurrentElement()) }

// Short returns the element at the current position of ix.
func (a *Array) Short(ix *index.Index) int16 { return a.ShortAt(ix.CurrentElement()) }

// Byte returns the element at the current position of ix.
func (a *Array) Byte(ix *index.Index) int8 { return a.ByteAt(ix.CurrentElement()) }

// Char returns the element at the current position of ix.
func (a *Array) Char(ix *index.Index) byte { return a.CharAt(ix.CurrentElement()) }

// Boolean returns the element at the current position of ix.
func (a *Array) Boolean(ix *index.Index) bool { return a.BooleanAt(ix.CurrentElement()) }

// Object returns the element at the current position of ix.
func (a *Array) Object(ix *index.Index) any { return a.ObjectAt(ix.CurrentElement()) }

// SetDouble stores v at the current position of ix.
func (a *Array) SetDouble(ix *index.Index, v float64) { a.SetDoubleAt(ix.CurrentElement(), v) }

// SetFloat stores v at the current position of ix.
func (a *Array) SetFloat(ix *index.Index, v float32) { a.SetFloatAt(ix.CurrentElement(), v) }

// SetLong stores v at the current position of ix.
func (a *Array) SetLong(ix *index.Index, v int64) { a.SetLongAt(ix.CurrentElement(), v) }

// SetInt stores v at the current position of ix.
func (a *Array) SetInt(ix *index.Index, v int32) { a.SetIntAt(ix.CurrentElement(), v) }

// SetShort stores v at the current position of ix.
func (a *Array) SetShort(ix *index.Index, v int16) { a.SetShortAt(ix.CurrentElement(), v) }

// SetByte stores v at the current position of ix.
func (a *Array) SetByte(ix *index.Index, v int8) { a.SetByteAt(ix.CurrentElement(), v) }

// SetChar stores v at the current position of ix.
func (a *Array) SetChar(ix *index.Index, v byte) { a.SetCharAt(ix.CurrentElement(), v) }

// SetBoolean stores v at the current position of ix.
func (a *Array) SetBoolean(ix *index.Index, v bool) { a.SetBooleanAt(ix.CurrentElement(), v) }

// SetObject stores v at the current position of ix.
func (a *Array) SetObject(ix *index.Index, v any) { a.SetObjectAt(ix.CurrentElement(), v) }

// Iterator returns a canonical-order iterator, choosing the counter fast path
// when the layout is canonical.
func (a *Array) Iterator() *Iterator {
	if a.ix.IsCanonical() {
		return newFastIterator(a)
	}

	return newIndexIterator(a)
}

// IndexIterator returns a canonical-order iterator that always steps an Index.
func (a *Array) IndexIterator() *Iterator {
	return newIndexIterator(a)
}

// All yields each element number in canonical order with its boxed value.
func (a *Array) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		it := a.Iterator()
		for n := 0; it.HasNext(); n++ {
			if !yield(n, it.ObjectNext()) {
				return
			}
		}
	}
}

// Doubles yields each element number in canonical order with its float64 value.
func (a *Array) Doubles() iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		it := a.Iterator()
		for n := 0; it.HasNext(); n++ {
			if !yield(n, it.DoubleNext()) {
				return
			}
		}
	}
}

// Float64s returns the backing slice of a canonical double array, in canonical
// order. The slice aliases the array storage.
func (a *Array) Float64s() ([]float64, bool) {
	s, ok := a.store.(*numbers[float64])
	if !ok || !a.ix.IsCanonical() {
		return nil, false
	}
	off := a.ix.Offset()

	return s.data[off : off+a.ix.Size()], true
}

// Copy returns a canonical array holding a copy of the logical elements.
// A scalar wrapper copies into ordinary rank-0 storage.
func (a *Array) Copy() *Array {
	store, err := newStorage(a.kind, a.Size())
	if err != nil {
		// every existing array kind has a storage representation
		panic(err)
	}

	it := a.Iterator()
	for n := 0; it.HasNext(); n++ {
		store.setObject(n, it.ObjectNext())
	}
	ix, _ := index.New(a.ix.Shape())

	return newArray(ix, store)
}

// Storage returns the logical elements as a freshly allocated Go slice of the
// storage type, for example []float64 or []string, in canonical order.
func (a *Array) Storage() any {
	return a.Copy().store.slice()
}

func (a *Array) view(ix *index.Index, err error) (*Array, error) {
	if err != nil {
		return nil, err
	}

	return &Array{kind: a.kind, ix: ix, store: a.store}, nil
}

// Reshape returns a view with a new shape of the same size. Non-canonical
// arrays are copied first.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	src := a
	if !a.ix.IsCanonical() {
		src = a.Copy()
	}

	return src.view(src.ix.Reshape(shape))
}

// Transpose returns a view with dimensions d1 and d2 exchanged.
func (a *Array) Transpose(d1, d2 int) (*Array, error) { return a.view(a.ix.Transpose(d1, d2)) }

// Permute returns a view with its dimensions reordered.
func (a *Array) Permute(dims ...int) (*Array, error) { return a.view(a.ix.Permute(dims)) }

// Flip returns a view with dimension dim reversed.
func (a *Array) Flip(dim int) (*Array, error) { return a.view(a.ix.Flip(dim)) }

// Slice returns a rank-1 smaller view with dimension dim fixed at value.
func (a *Array) Slice(dim, value int) (*Array, error) { return a.view(a.ix.Slice(dim, value)) }

// Section returns a view selecting one range per dimension.
func (a *Array) Section(ranges ...index.Range) (*Array, error) {
	return a.view(a.ix.Section(ranges))
}

// Reduce returns a view with all length-1 dimensions removed.
func (a *Array) Reduce() *Array {
	v, _ := a.view(a.ix.Reduce(), nil)
	return v
}

// ReduceDim returns a view with the length-1 dimension dim removed.
func (a *Array) ReduceDim(dim int) (*Array, error) { return a.view(a.ix.ReduceDim(dim)) }

// Dump renders the elements in canonical order, for diagnostics.
func (a *Array) Dump() string {
	var sb strings.Builder
	sb.WriteString(a.kind.String())
	fmt.Fprintf(&sb, "%v {", a.ix.Shape())
	for n, v := range a.All() {
		if n > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, v)
	}
	sb.WriteString("}")

	return sb.String()
}
