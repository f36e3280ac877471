package array

import (
	"fmt"

	"github.com/arloliu/marray/errs"
	"github.com/arloliu/marray/index"
)

// Iterator is a forward-only cursor over an array's logical elements in
// canonical order (last dimension fastest). It cannot be restarted; ask the
// array for a new one to iterate again.
//
// The Next accessors advance to the next element and then read or write it.
// The Current accessors use the element the last Next moved to (the first
// element before any Next). A Next call after the last element panics with an
// error wrapping errs.ErrIndexOutOfBounds.
//
// Note: an Iterator is NOT thread-safe.
type Iterator struct {
	arr   *Array
	size  int
	count int // elements produced so far
	cur   int // storage offset of the current element

	// fast path: storage offsets are base, base+1, ...
	fast bool
	base int

	// ix steps the layout on the general path. On the fast path it is only
	// materialized by CurrentCounter.
	ix *index.Index
}

func newFastIterator(a *Array) *Iterator {
	return &Iterator{
		arr:  a,
		size: a.ix.Size(),
		fast: true,
		base: a.ix.Offset(),
		cur:  a.ix.Offset(),
	}
}

func newIndexIterator(a *Array) *Iterator {
	ix := a.ix.Clone()

	return &Iterator{
		arr:  a,
		size: ix.Size(),
		ix:   ix,
		cur:  ix.CurrentElement(),
	}
}

// IsFast reports whether the iterator walks storage with a bare counter.
func (it *Iterator) IsFast() bool { return it.fast }

// HasNext reports whether another element remains.
func (it *Iterator) HasNext() bool { return it.count < it.size }

func (it *Iterator) next() int {
	if it.count >= it.size {
		panic(fmt.Errorf("%w: iterator exhausted after %d elements", errs.ErrIndexOutOfBounds, it.size))
	}

	switch {
	case it.fast:
		it.cur = it.base + it.count
	case it.count > 0:
		it.cur = it.ix.Incr()
	default:
		it.cur = it.ix.CurrentElement()
	}
	it.count++

	return it.cur
}

// CurrentCounter returns the multi-dimensional position of the current element.
// It is meant for diagnostics; on the fast path it builds an Index on demand.
func (it *Iterator) CurrentCounter() []int {
	if !it.fast {
		return it.ix.Current()
	}

	if it.ix == nil {
		it.ix, _ = index.New(it.arr.ix.Shape())
	}
	if it.count > 0 {
		_ = it.ix.SetCurrentCounter(it.count - 1)
	}

	return it.ix.Current()
}

// DoubleNext advances and returns the next element as a float64. DoubleCurrent,
// SetDoubleNext and SetDoubleCurrent follow the same Next/Current rules.
func (it *Iterator) DoubleNext() float64        { return it.arr.DoubleAt(it.next()) }
func (it *Iterator) DoubleCurrent() float64     { return it.arr.DoubleAt(it.cur) }
func (it *Iterator) SetDoubleNext(v float64)    { it.arr.SetDoubleAt(it.next(), v) }
func (it *Iterator) SetDoubleCurrent(v float64) { it.arr.SetDoubleAt(it.cur, v) }

// FloatNext advances and returns the next element as a float32.
func (it *Iterator) FloatNext() float32        { return it.arr.FloatAt(it.next()) }
func (it *Iterator) FloatCurrent() float32     { return it.arr.FloatAt(it.cur) }
func (it *Iterator) SetFloatNext(v float32)    { it.arr.SetFloatAt(it.next(), v) }
func (it *Iterator) SetFloatCurrent(v float32) { it.arr.SetFloatAt(it.cur, v) }

// LongNext advances and returns the next element as an int64.
func (it *Iterator) LongNext() int64        { return it.arr.LongAt(it.next()) }
func (it *Iterator) LongCurrent() int64     { return it.arr.LongAt(it.cur) }
func (it *Iterator) SetLongNext(v int64)    { it.arr.SetLongAt(it.next(), v) }
func (it *Iterator) SetLongCurrent(v int64) { it.arr.SetLongAt(it.cur, v) }

// IntNext advances and returns the next element as an int32.
func (it *Iterator) IntNext() int32        { return it.arr.IntAt(it.next()) }
func (it *Iterator) IntCurrent() int32     { return it.arr.IntAt(it.cur) }
func (it *Iterator) SetIntNext(v int32)    { it.arr.SetIntAt(it.next(), v) }
func (it *Iterator) SetIntCurrent(v int32) { it.arr.SetIntAt(it.cur, v) }

// ShortNext advances and returns the next element as an int16.
func (it *Iterator) ShortNext() int16        { return it.arr.ShortAt(it.next()) }
func (it *Iterator) ShortCurrent() int16     { return it.arr.ShortAt(it.cur) }
func (it *Iterator) SetShortNext(v int16)    { it.arr.SetShortAt(it.next(), v) }
func (it *Iterator) SetShortCurrent(v int16) { it.arr.SetShortAt(it.cur, v) }

// ByteNext advances and returns the next element as an int8.
func (it *Iterator) ByteNext() int8        { return it.arr.ByteAt(it.next()) }
func (it *Iterator) ByteCurrent() int8     { return it.arr.ByteAt(it.cur) }
func (it *Iterator) SetByteNext(v int8)    { it.arr.SetByteAt(it.next(), v) }
func (it *Iterator) SetByteCurrent(v int8) { it.arr.SetByteAt(it.cur, v) }

// CharNext advances and returns the next element as a char.
func (it *Iterator) CharNext() byte        { return it.arr.CharAt(it.next()) }
func (it *Iterator) CharCurrent() byte     { return it.arr.CharAt(it.cur) }
func (it *Iterator) SetCharNext(v byte)    { it.arr.SetCharAt(it.next(), v) }
func (it *Iterator) SetCharCurrent(v byte) { it.arr.SetCharAt(it.cur, v) }

// BooleanNext advances and returns the next element as a bool.
func (it *Iterator) BooleanNext() bool        { return it.arr.BooleanAt(it.next()) }
func (it *Iterator) BooleanCurrent() bool     { return it.arr.BooleanAt(it.cur) }
func (it *Iterator) SetBooleanNext(v bool)    { it.arr.SetBooleanAt(it.next(), v) }
func (it *Iterator) SetBooleanCurrent(v bool) { it.arr.SetBooleanAt(it.cur, v) }

// ObjectNext advances and returns the next element boxed as any.
func (it *Iterator) ObjectNext() any        { return it.arr.ObjectAt(it.next()) }
func (it *Iterator) ObjectCurrent() any     { return it.arr.ObjectAt(it.cur) }
func (it *Iterator) SetObjectNext(v any)    { it.arr.SetObjectAt(it.next(), v) }
func (it *Iterator) SetObjectCurrent(v any) { it.arr.SetObjectAt(it.cur, v) }
