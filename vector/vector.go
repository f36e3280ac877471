// Package vector provides MAVector, a rank-1 double vector over an array.
//
// Reductions run through gonum's BLAS level-1 routines. A canonical double
// array is handed to BLAS in place; any other layout or numeric kind is first
// gathered into a pooled scratch slice.
package vector

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"

	"github.com/arloliu/marray/array"
	"github.com/arloliu/marray/errs"
	"github.com/arloliu/marray/format"
	"github.com/arloliu/marray/index"
	"github.com/arloliu/marray/internal/pool"
)

// MAVector is a rank-1 vector of doubles backed by an array.
//
// Elements are read and written through the array's double accessors, so a
// vector over a float or integer array converts on every access.
//
// Note: an MAVector is NOT thread-safe; it owns a cursor for Get and Set.
type MAVector struct {
	arr *array.Array
	ix  *index.Index
}

// New creates a zero vector of n elements.
func New(n int) (*MAVector, error) {
	arr, err := array.Factory(format.KindDouble, n)
	if err != nil {
		return nil, err
	}

	return wrap(arr), nil
}

// FromValues creates a vector holding a copy of values.
func FromValues(values ...float64) *MAVector {
	return wrap(array.FromDoubles(values...))
}

// FromArray wraps a rank-1 numeric array. The vector shares its storage.
//
// Returns errs.ErrShapeMismatch if the array is not rank 1 and
// errs.ErrKindMismatch if its kind is not numeric.
func FromArray(a *array.Array) (*MAVector, error) {
	if a.Rank() != 1 {
		return nil, fmt.Errorf("%w: vector needs rank 1, array has rank %d", errs.ErrShapeMismatch, a.Rank())
	}
	if !a.Kind().IsNumeric() {
		return nil, fmt.Errorf("%w: vector over %s array", errs.ErrKindMismatch, a.Kind())
	}

	return wrap(a), nil
}

func wrap(a *array.Array) *MAVector {
	return &MAVector{arr: a, ix: a.Index()}
}

// Len returns the number of elements.
func (v *MAVector) Len() int { return v.arr.Size() }

// Array returns the backing array.
func (v *MAVector) Array() *array.Array { return v.arr }

// Get returns element i.
func (v *MAVector) Get(i int) (float64, error) {
	ix, err := v.ix.Set(i)
	if err != nil {
		return 0, err
	}

	return v.arr.Double(ix), nil
}

// Set stores x at element i.
func (v *MAVector) Set(i int, x float64) error {
	ix, err := v.ix.Set(i)
	if err != nil {
		return err
	}
	v.arr.SetDouble(ix, x)

	return nil
}

// Copy returns a vector over a canonical double copy of the elements.
func (v *MAVector) Copy() *MAVector {
	data, cleanup := v.gather()
	defer cleanup()

	return FromValues(data...)
}

// blas returns the elements as a unit-stride BLAS vector and a release func.
func (v *MAVector) blas() (blas64.Vector, func()) {
	if data, ok := v.arr.Float64s(); ok {
		return blas64.Vector{N: len(data), Data: data, Inc: 1}, func() {}
	}

	data, cleanup := v.gather()

	return blas64.Vector{N: len(data), Data: data, Inc: 1}, cleanup
}

// gather copies the elements into a pooled slice.
func (v *MAVector) gather() ([]float64, func()) {
	data, cleanup := pool.Float64s.Get(v.Len())
	it := v.arr.Iterator()
	for i := range data {
		data[i] = it.DoubleNext()
	}

	return data, cleanup
}

// Dot returns the inner product with other.
func (v *MAVector) Dot(other *MAVector) (float64, error) {
	if v.Len() != other.Len() {
		return 0, fmt.Errorf("%w: dot of lengths %d and %d", errs.ErrShapeMismatch, v.Len(), other.Len())
	}
	if v.Len() == 0 {
		return 0, nil
	}

	x, releaseX := v.blas()
	defer releaseX()
	y, releaseY := other.blas()
	defer releaseY()

	return blas64.Dot(x, y), nil
}

// Norm returns the Euclidean length.
func (v *MAVector) Norm() float64 {
	if v.Len() == 0 {
		return 0
	}

	x, release := v.blas()
	defer release()

	return blas64.Nrm2(x)
}

// Cos returns the cosine of the angle between v and other, or 0 when either
// vector has zero length.
func (v *MAVector) Cos(other *MAVector) (float64, error) {
	dot, err := v.Dot(other)
	if err != nil {
		return 0, err
	}

	n1, n2 := v.Norm(), other.Norm()
	if n1 == 0 || n2 == 0 {
		return 0, nil
	}

	return dot / (n1 * n2), nil
}

// Normalize scales v in place to unit length. A vector whose norm is not
// positive is left unchanged.
func (v *MAVector) Normalize() {
	norm := v.Norm()
	if norm <= 0 || math.IsNaN(norm) {
		return
	}

	if data, ok := v.arr.Float64s(); ok {
		blas64.Scal(1/norm, blas64.Vector{N: len(data), Data: data, Inc: 1})
		return
	}

	it := v.arr.Iterator()
	for it.HasNext() {
		it.SetDoubleCurrent(it.DoubleNext() / norm)
	}
}

func (v *MAVector) String() string { return v.arr.Dump() }
