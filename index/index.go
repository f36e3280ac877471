// Package index translates multi-dimensional array coordinates to linear storage offsets.
//
// An Index holds a shape, a stride per dimension, a base offset and a mutable
// current position. The storage offset of the current position is
//
//	offset + Σ current[d]*stride[d]
//
// Strides default to canonical row-major order (last dimension fastest) and can
// be rewritten by the view operations (Transpose, Permute, Flip, Slice, Section)
// to describe a different walk over the same storage without copying it.
//
// Ranks 0 through 4 take unrolled arithmetic paths, and rank 3 additionally an
// unrolled Incr. These paths produce exactly the offsets of the general loop.
//
// An Index carries cursor state and is NOT safe for concurrent use. Give each
// goroutine its own Index (see Clone); the array storage itself can be shared.
package index

import (
	"fmt"
	"iter"
	"slices"

	"github.com/arloliu/marray/errs"
)

// Index maps a current position in a shape to a linear storage offset.
type Index struct {
	shape     []int
	stride    []int
	current   []int
	offset    int
	size      int
	rank      int
	canonical bool
}

// Range selects First..Last (inclusive) with the given Stride along one dimension.
// A zero Stride is treated as 1.
type Range struct {
	First  int
	Last   int
	Stride int
}

// All returns the Range covering a whole dimension of length n.
func All(n int) Range {
	return Range{First: 0, Last: n - 1, Stride: 1}
}

// New creates an Index over shape with canonical row-major strides.
//
// Returns errs.ErrInvalidShape if any dimension is negative.
func New(shape []int) (*Index, error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}

	return newIndex(slices.Clone(shape), CanonicalStrides(shape), 0), nil
}

// NewStrided creates an Index with an explicit stride and base offset, describing
// a view over storage laid out by someone else.
func NewStrided(shape, stride []int, offset int) (*Index, error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	if len(shape) != len(stride) {
		return nil, fmt.Errorf("%w: shape rank %d, stride rank %d", errs.ErrShapeMismatch, len(shape), len(stride))
	}

	return newIndex(slices.Clone(shape), slices.Clone(stride), offset), nil
}

// MustNew is like New but panics on an invalid shape. It is intended for
// shapes known to be valid, such as literals in tests.
func MustNew(shape ...int) *Index {
	ix, err := New(shape)
	if err != nil {
		panic(err)
	}

	return ix
}

func newIndex(shape, stride []int, offset int) *Index {
	ix := &Index{
		shape:   shape,
		stride:  stride,
		current: make([]int, len(shape)),
		offset:  offset,
		size:    ComputeSize(shape),
		rank:    len(shape),
	}
	ix.canonical = isCanonical(shape, stride)

	return ix
}

func validateShape(shape []int) error {
	for d, n := range shape {
		if n < 0 {
			return fmt.Errorf("%w: %w: shape[%d]=%d", errs.ErrInvalidShape, errs.ErrIndexOutOfBounds, d, n)
		}
	}

	return nil
}

// ComputeSize returns the number of elements of shape. A rank 0 shape has one element.
func ComputeSize(shape []int) int {
	size := 1
	for _, n := range shape {
		size *= n
	}

	return size
}

// CanonicalStrides returns the row-major strides of shape.
func CanonicalStrides(shape []int) []int {
	stride := make([]int, len(shape))
	product := 1
	for d := len(shape) - 1; d >= 0; d-- {
		stride[d] = product
		product *= shape[d]
	}

	return stride
}

// isCanonical reports whether walking stride in canonical order visits
// consecutive storage slots. Dimensions of length 1 never move, so their
// stride does not matter.
func isCanonical(shape, stride []int) bool {
	product := 1
	for d := len(shape) - 1; d >= 0; d-- {
		if shape[d] != 1 && stride[d] != product {
			return false
		}
		product *= shape[d]
	}

	return true
}

// Rank returns the number of dimensions.
func (ix *Index) Rank() int { return ix.rank }

// Size returns the number of elements.
func (ix *Index) Size() int { return ix.size }

// Offset returns the base storage offset.
func (ix *Index) Offset() int { return ix.offset }

// Shape returns a copy of the shape.
func (ix *Index) Shape() []int { return slices.Clone(ix.shape) }

// Stride returns a copy of the strides.
func (ix *Index) Stride() []int { return slices.Clone(ix.stride) }

// Dim returns the length of dimension d.
func (ix *Index) Dim(d int) int { return ix.shape[d] }

// IsCanonical reports whether the storage of this index is walked in canonical
// order, so that element i in canonical order lives at Offset()+i.
func (ix *Index) IsCanonical() bool { return ix.canonical }

// Current returns a copy of the current position.
func (ix *Index) Current() []int { return slices.Clone(ix.current) }

// Clone returns an independent Index with the same layout and position.
func (ix *Index) Clone() *Index {
	c := newIndex(slices.Clone(ix.shape), slices.Clone(ix.stride), ix.offset)
	copy(c.current, ix.current)

	return c
}

// Set moves the index to coords.
//
// Every coordinate is checked before any is applied: the first coordinate
// outside [0, shape[d]) fails with errs.ErrIndexOutOfBounds and leaves the
// position unchanged. The index itself is returned to allow chaining:
//
//	off := must(ix.Set(1, 2, 3)).CurrentElement()
func (ix *Index) Set(coords ...int) (*Index, error) {
	if len(coords) != ix.rank {
		return nil, fmt.Errorf("%w: %d coordinates for rank %d", errs.ErrShapeMismatch, len(coords), ix.rank)
	}
	for d, v := range coords {
		if v < 0 || v >= ix.shape[d] {
			return nil, fmt.Errorf("%w: dim %d value %d not in [0,%d)", errs.ErrIndexOutOfBounds, d, v, ix.shape[d])
		}
	}
	copy(ix.current, coords)

	return ix, nil
}

// SetDim moves dimension dim to value, with the same bound check as Set.
func (ix *Index) SetDim(dim, value int) (*Index, error) {
	if dim < 0 || dim >= ix.rank {
		return nil, fmt.Errorf("%w: dim %d for rank %d", errs.ErrIndexOutOfBounds, dim, ix.rank)
	}
	if value < 0 || value >= ix.shape[dim] {
		return nil, fmt.Errorf("%w: dim %d value %d not in [0,%d)", errs.ErrIndexOutOfBounds, dim, value, ix.shape[dim])
	}
	ix.current[dim] = value

	return ix, nil
}

// SetCurrentCounter moves the index to the n-th element in canonical order.
func (ix *Index) SetCurrentCounter(n int) error {
	if n < 0 || n >= ix.size {
		return fmt.Errorf("%w: element %d not in [0,%d)", errs.ErrIndexOutOfBounds, n, ix.size)
	}
	for d := ix.rank - 1; d >= 0; d-- {
		ix.current[d] = n % ix.shape[d]
		n /= ix.shape[d]
	}

	return nil
}

// CurrentElement returns the storage offset of the current position.
func (ix *Index) CurrentElement() int {
	c, s := ix.current, ix.stride

	switch ix.rank {
	case 0:
		return ix.offset
	case 1:
		return ix.offset + c[0]*s[0]
	case 2:
		return ix.offset + c[0]*s[0] + c[1]*s[1]
	case 3:
		return ix.offset + c[0]*s[0] + c[1]*s[1] + c[2]*s[2]
	case 4:
		return ix.offset + c[0]*s[0] + c[1]*s[1] + c[2]*s[2] + c[3]*s[3]
	default:
		return ix.currentElementGeneral()
	}
}

func (ix *Index) currentElementGeneral() int {
	value := ix.offset
	for d, c := range ix.current {
		value += c * ix.stride[d]
	}

	return value
}

// Incr advances the position by one element in canonical order and returns the
// new storage offset. After the last element it wraps to the zero position.
func (ix *Index) Incr() int {
	if ix.rank == 3 {
		return ix.incr3()
	}

	return ix.incrGeneral()
}

func (ix *Index) incrGeneral() int {
	for d := ix.rank - 1; d >= 0; d-- {
		ix.current[d]++
		if ix.current[d] < ix.shape[d] {
			break
		}
		ix.current[d] = 0
	}

	return ix.currentElementGeneral()
}

func (ix *Index) incr3() int {
	c, sh, s := ix.current, ix.shape, ix.stride

	c[2]++
	if c[2] >= sh[2] {
		c[2] = 0
		c[1]++
		if c[1] >= sh[1] {
			c[1] = 0
			c[0]++
			if c[0] >= sh[0] {
				c[0] = 0
			}
		}
	}

	return ix.offset + c[0]*s[0] + c[1]*s[1] + c[2]*s[2]
}

// Positions yields every position of the shape in canonical order.
//
// The yielded slice is reused between iterations; copy it to keep it. The
// receiver's own position is not touched.
func (ix *Index) Positions() iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if ix.size == 0 {
			return
		}

		pos := make([]int, ix.rank)
		for range ix.size {
			if !yield(pos) {
				return
			}
			for d := ix.rank - 1; d >= 0; d-- {
				pos[d]++
				if pos[d] < ix.shape[d] {
					break
				}
				pos[d] = 0
			}
		}
	}
}

// Reduce returns a view with every dimension of length 1 removed.
func (ix *Index) Reduce() *Index {
	shape := make([]int, 0, ix.rank)
	stride := make([]int, 0, ix.rank)
	for d, n := range ix.shape {
		if n != 1 {
			shape = append(shape, n)
			stride = append(stride, ix.stride[d])
		}
	}

	return newIndex(shape, stride, ix.offset)
}

// ReduceDim returns a view with dimension dim removed. The dimension must have length 1.
func (ix *Index) ReduceDim(dim int) (*Index, error) {
	if dim < 0 || dim >= ix.rank {
		return nil, fmt.Errorf("%w: dim %d for rank %d", errs.ErrIndexOutOfBounds, dim, ix.rank)
	}
	if ix.shape[dim] != 1 {
		return nil, fmt.Errorf("%w: cannot reduce dim %d of length %d", errs.ErrShapeMismatch, dim, ix.shape[dim])
	}

	return newIndex(slices.Delete(slices.Clone(ix.shape), dim, dim+1), slices.Delete(slices.Clone(ix.stride), dim, dim+1), ix.offset), nil
}

// Slice returns a view with dimension dim fixed at value, reducing the rank by one.
func (ix *Index) Slice(dim, value int) (*Index, error) {
	if dim < 0 || dim >= ix.rank {
		return nil, fmt.Errorf("%w: dim %d for rank %d", errs.ErrIndexOutOfBounds, dim, ix.rank)
	}
	if value < 0 || value >= ix.shape[dim] {
		return nil, fmt.Errorf("%w: dim %d value %d not in [0,%d)", errs.ErrIndexOutOfBounds, dim, value, ix.shape[dim])
	}
	offset := ix.offset + value*ix.stride[dim]

	return newIndex(slices.Delete(slices.Clone(ix.shape), dim, dim+1), slices.Delete(slices.Clone(ix.stride), dim, dim+1), offset), nil
}

// Reshape returns a canonical view with a new shape of the same size.
// Only canonical indexes can be reshaped without copying storage.
func (ix *Index) Reshape(shape []int) (*Index, error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	if ComputeSize(shape) != ix.size {
		return nil, fmt.Errorf("%w: reshape %v (size %d) to %v", errs.ErrShapeMismatch, ix.shape, ix.size, shape)
	}
	if !ix.canonical {
		return nil, fmt.Errorf("%w: reshape of a non-canonical view", errs.ErrNotSupported)
	}

	return newIndex(slices.Clone(shape), CanonicalStrides(shape), ix.offset), nil
}

// Transpose returns a view with dimensions d1 and d2 exchanged.
func (ix *Index) Transpose(d1, d2 int) (*Index, error) {
	if d1 < 0 || d1 >= ix.rank || d2 < 0 || d2 >= ix.rank {
		return nil, fmt.Errorf("%w: transpose dims %d,%d for rank %d", errs.ErrIndexOutOfBounds, d1, d2, ix.rank)
	}
	shape, stride := slices.Clone(ix.shape), slices.Clone(ix.stride)
	shape[d1], shape[d2] = shape[d2], shape[d1]
	stride[d1], stride[d2] = stride[d2], stride[d1]

	return newIndex(shape, stride, ix.offset), nil
}

// Permute returns a view whose dimension i is dimension dims[i] of the receiver.
func (ix *Index) Permute(dims []int) (*Index, error) {
	if len(dims) != ix.rank {
		return nil, fmt.Errorf("%w: permutation of length %d for rank %d", errs.ErrShapeMismatch, len(dims), ix.rank)
	}
	seen := make([]bool, ix.rank)
	shape := make([]int, ix.rank)
	stride := make([]int, ix.rank)
	for i, d := range dims {
		if d < 0 || d >= ix.rank || seen[d] {
			return nil, fmt.Errorf("%w: invalid permutation %v", errs.ErrIllegalArgument, dims)
		}
		seen[d] = true
		shape[i] = ix.shape[d]
		stride[i] = ix.stride[d]
	}

	return newIndex(shape, stride, ix.offset), nil
}

// Flip returns a view with dimension dim walked in reverse.
func (ix *Index) Flip(dim int) (*Index, error) {
	if dim < 0 || dim >= ix.rank {
		return nil, fmt.Errorf("%w: dim %d for rank %d", errs.ErrIndexOutOfBounds, dim, ix.rank)
	}
	stride := slices.Clone(ix.stride)
	offset := ix.offset
	if ix.shape[dim] > 0 {
		offset += stride[dim] * (ix.shape[dim] - 1)
	}
	stride[dim] = -stride[dim]

	return newIndex(slices.Clone(ix.shape), stride, offset), nil
}

// Section returns a view selecting ranges[d] along each dimension d.
func (ix *Index) Section(ranges []Range) (*Index, error) {
	if len(ranges) != ix.rank {
		return nil, fmt.Errorf("%w: %d ranges for rank %d", errs.ErrShapeMismatch, len(ranges), ix.rank)
	}

	shape := make([]int, ix.rank)
	stride := make([]int, ix.rank)
	offset := ix.offset
	for d, r := range ranges {
		step := r.Stride
		if step == 0 {
			step = 1
		}
		if step < 0 || r.First < 0 || r.Last < r.First || r.Last >= ix.shape[d] {
			return nil, fmt.Errorf("%w: range %d:%d:%d on dim %d of length %d",
				errs.ErrIndexOutOfBounds, r.First, r.Last, step, d, ix.shape[d])
		}
		shape[d] = (r.Last-r.First)/step + 1
		stride[d] = ix.stride[d] * step
		offset += r.First * ix.stride[d]
	}

	return newIndex(shape, stride, offset), nil
}

func (ix *Index) String() string {
	return fmt.Sprintf("shape=%v stride=%v offset=%d current=%v", ix.shape, ix.stride, ix.offset, ix.current)
}
