package array

import (
	"fmt"

	"github.com/arloliu/marray/errs"
	"github.com/arloliu/marray/format"
	"github.com/arloliu/marray/index"
)

// NewScalar wraps a single value as an immutable rank-0 array.
//
// The kind is derived from the dynamic type of v (see format.KindOf); Go int
// values are stored as int64, complex64 values as complex128. Reads at any
// offset return the value, and every setter is accepted and ignored.
//
// Example:
//
//	s, _ := array.NewScalar(int64(42))
//	s.DoubleAt(0) // 42
//	s.SetLongAt(0, 7)
//	s.LongAt(0) // still 42
func NewScalar(v any) (*Array, error) {
	kind, ok := format.KindOf(v)
	if !ok {
		return nil, fmt.Errorf("%w: scalar of type %T", errs.ErrUnsupportedKind, v)
	}

	return NewScalarKind(kind, v)
}

// NewScalarKind wraps v as an immutable rank-0 array of the given kind.
//
// Returns errs.ErrUnsupportedKind for a kind without storage and
// errs.ErrKindMismatch if v cannot be held as kind.
func NewScalarKind(kind format.DataKind, v any) (*Array, error) {
	switch n := v.(type) {
	case int:
		v = int64(n)
	case complex64:
		v = complex128(n)
	}

	probe, err := newStorage(kind, 1)
	if err != nil {
		return nil, err
	}
	if !probe.setObject(0, v) {
		return nil, fmt.Errorf("%w: %T value as %s scalar", errs.ErrKindMismatch, v, kind)
	}

	ix, err := index.New(nil)
	if err != nil {
		return nil, err
	}

	return newArray(ix, &scalarStorage{k: kind, value: v}), nil
}
