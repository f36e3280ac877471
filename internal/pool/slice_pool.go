package pool

import "sync"

// SlicePool recycles slices of T.
type SlicePool[T any] struct {
	pool sync.Pool
}

// NewSlicePool creates an empty slice pool.
func NewSlicePool[T any]() *SlicePool[T] {
	return &SlicePool[T]{
		pool: sync.Pool{
			New: func() any { return &[]T{} },
		},
	}
}

// Get retrieves a slice of exactly size elements.
//
// The contents are unspecified; callers overwrite every element. The caller
// must call the returned cleanup function to hand the slice back.
//
// Example:
//
//	values, cleanup := pool.Float64s.Get(n)
//	defer cleanup()
func (p *SlicePool[T]) Get(size int) ([]T, func()) {
	ptr, _ := p.pool.Get().(*[]T)

	if cap(*ptr) < size {
		*ptr = make([]T, size)
	} else {
		*ptr = (*ptr)[:size]
	}

	return *ptr, func() { p.pool.Put(ptr) }
}

// Float64s pools the scratch vectors used to gather strided double data.
var Float64s = NewSlicePool[float64]()
