package array

import (
	"fmt"

	"github.com/arloliu/marray/errs"
	"github.com/arloliu/marray/format"
	"github.com/arloliu/marray/index"
)

// Factory allocates a zero-filled canonical array of the given kind and shape.
func Factory(kind format.DataKind, shape ...int) (*Array, error) {
	ix, err := index.New(shape)
	if err != nil {
		return nil, err
	}

	store, err := newStorage(kind, ix.Size())
	if err != nil {
		return nil, err
	}

	return newArray(ix, store), nil
}

// FromSlice wraps an existing Go slice as a canonical array without copying.
// The slice length must equal the product of shape; an empty shape means a
// rank-1 array over the whole slice.
//
// Supported slice types are the storage types of the primitive kinds:
// []int8, []uint8, []int16, []uint16, []int32, []uint32, []int64, []uint64,
// []float32, []float64, []bool, []string, []complex128, []time.Time and []any.
func FromSlice(data any, shape ...int) (*Array, error) {
	store, ok := storageOf(data)
	if !ok {
		return nil, fmt.Errorf("%w: slice of type %T", errs.ErrUnsupportedKind, data)
	}

	if len(shape) == 0 {
		shape = []int{store.length()}
	}

	ix, err := index.New(shape)
	if err != nil {
		return nil, err
	}
	if ix.Size() != store.length() {
		return nil, fmt.Errorf("%w: shape %v needs %d elements, slice has %d",
			errs.ErrShapeMismatch, shape, ix.Size(), store.length())
	}

	return newArray(ix, store), nil
}

// FromDoubles returns a rank-1 double array holding a copy of values.
func FromDoubles(values ...float64) *Array {
	data := make([]float64, len(values))
	copy(data, values)
	ix, _ := index.New([]int{len(data)})

	return newArray(ix, &numbers[float64]{k: format.KindDouble, data: data})
}
