package array

import (
	"fmt"
	"time"

	"github.com/arloliu/marray/errs"
	"github.com/arloliu/marray/format"
)

// number is the set of Go types backing the numeric kinds.
type number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// storage is one flat buffer addressed by physical offset.
//
// The conversion methods report false when the representation cannot be viewed
// as the requested family; the Array turns that into a forbidden conversion.
type storage interface {
	kind() format.DataKind
	length() int
	float(i int) (float64, bool)
	integer(i int) (int64, bool)
	boolean(i int) (bool, bool)
	object(i int) any
	setFloat(i int, v float64) bool
	setInteger(i int, v int64) bool
	setBoolean(i int, v bool) bool
	setObject(i int, v any) bool
	slice() any
}

func newStorage(kind format.DataKind, n int) (storage, error) {
	switch kind {
	case format.KindByte:
		return &numbers[int8]{k: kind, data: make([]int8, n)}, nil
	case format.KindUByte, format.KindChar:
		return &numbers[uint8]{k: kind, data: make([]uint8, n)}, nil
	case format.KindShort:
		return &numbers[int16]{k: kind, data: make([]int16, n)}, nil
	case format.KindUShort:
		return &numbers[uint16]{k: kind, data: make([]uint16, n)}, nil
	case format.KindInt:
		return &numbers[int32]{k: kind, data: make([]int32, n)}, nil
	case format.KindUInt:
		return &numbers[uint32]{k: kind, data: make([]uint32, n)}, nil
	case format.KindLong:
		return &numbers[int64]{k: kind, data: make([]int64, n)}, nil
	case format.KindULong:
		return &numbers[uint64]{k: kind, data: make([]uint64, n)}, nil
	case format.KindFloat:
		return &numbers[float32]{k: kind, data: make([]float32, n)}, nil
	case format.KindDouble:
		return &numbers[float64]{k: kind, data: make([]float64, n)}, nil
	case format.KindBoolean:
		return &booleans{data: make([]bool, n)}, nil
	case format.KindString:
		return &objects[string]{k: kind, data: make([]string, n)}, nil
	case format.KindComplex:
		return &objects[complex128]{k: kind, data: make([]complex128, n)}, nil
	case format.KindDate:
		return &objects[time.Time]{k: kind, data: make([]time.Time, n)}, nil
	case format.KindStructure, format.KindObject:
		return &objects[any]{k: kind, data: make([]any, n)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedKind, kind)
	}
}

// storageOf wraps an existing Go slice without copying it.
func storageOf(data any) (storage, bool) {
	switch d := data.(type) {
	case []int8:
		return &numbers[int8]{k: format.KindByte, data: d}, true
	case []uint8:
		return &numbers[uint8]{k: format.KindUByte, data: d}, true
	case []int16:
		return &numbers[int16]{k: format.KindShort, data: d}, true
	case []uint16:
		return &numbers[uint16]{k: format.KindUShort, data: d}, true
	case []int32:
		return &numbers[int32]{k: format.KindInt, data: d}, true
	case []uint32:
		return &numbers[uint32]{k: format.KindUInt, data: d}, true
	case []int64:
		return &numbers[int64]{k: format.KindLong, data: d}, true
	case []uint64:
		return &numbers[uint64]{k: format.KindULong, data: d}, true
	case []float32:
		return &numbers[float32]{k: format.KindFloat, data: d}, true
	case []float64:
		return &numbers[float64]{k: format.KindDouble, data: d}, true
	case []bool:
		return &booleans{data: d}, true
	case []string:
		return &objects[string]{k: format.KindString, data: d}, true
	case []complex128:
		return &objects[complex128]{k: format.KindComplex, data: d}, true
	case []time.Time:
		return &objects[time.Time]{k: format.KindDate, data: d}, true
	case []any:
		return &objects[any]{k: format.KindObject, data: d}, true
	default:
		return nil, false
	}
}

type numbers[T number] struct {
	k    format.DataKind
	data []T
}

func (s *numbers[T]) kind() format.DataKind       { return s.k }
func (s *numbers[T]) length() int                 { return len(s.data) }
func (s *numbers[T]) float(i int) (float64, bool) { return float64(s.data[i]), true }
func (s *numbers[T]) integer(i int) (int64, bool) { return int64(s.data[i]), true }
func (s *numbers[T]) boolean(int) (bool, bool)    { return false, false }
func (s *numbers[T]) object(i int) any            { return s.data[i] }
func (s *numbers[T]) slice() any                  { return s.data }

func (s *numbers[T]) setFloat(i int, v float64) bool {
	s.data[i] = T(v)
	return true
}

func (s *numbers[T]) setInteger(i int, v int64) bool {
	s.data[i] = T(v)
	return true
}

func (s *numbers[T]) setBoolean(int, bool) bool { return false }

func (s *numbers[T]) setObject(i int, v any) bool {
	if tv, ok := v.(T); ok {
		s.data[i] = tv
		return true
	}
	if f, ok := toFloat64(v); ok {
		s.data[i] = T(f)
		return true
	}

	return false
}

type booleans struct {
	data []bool
}

func (s *booleans) kind() format.DataKind      { return format.KindBoolean }
func (s *booleans) length() int                { return len(s.data) }
func (s *booleans) float(int) (float64, bool)  { return 0, false }
func (s *booleans) integer(int) (int64, bool)  { return 0, false }
func (s *booleans) boolean(i int) (bool, bool) { return s.data[i], true }
func (s *booleans) object(i int) any           { return s.data[i] }
func (s *booleans) slice() any                 { return s.data }
func (s *booleans) setFloat(int, float64) bool { return false }
func (s *booleans) setInteger(int, int64) bool { return false }
func (s *booleans) setBoolean(i int, v bool) bool {
	s.data[i] = v
	return true
}

func (s *booleans) setObject(i int, v any) bool {
	b, ok := v.(bool)
	if ok {
		s.data[i] = b
	}

	return ok
}

// objects holds values the array never interprets: strings, complex numbers,
// dates, nested structures and arbitrary objects.
type objects[T any] struct {
	k    format.DataKind
	data []T
}

func (s *objects[T]) kind() format.DataKind      { return s.k }
func (s *objects[T]) length() int                { return len(s.data) }
func (s *objects[T]) float(int) (float64, bool)  { return 0, false }
func (s *objects[T]) integer(int) (int64, bool)  { return 0, false }
func (s *objects[T]) boolean(int) (bool, bool)   { return false, false }
func (s *objects[T]) object(i int) any           { return s.data[i] }
func (s *objects[T]) slice() any                 { return s.data }
func (s *objects[T]) setFloat(int, float64) bool { return false }
func (s *objects[T]) setInteger(int, int64) bool { return false }
func (s *objects[T]) setBoolean(int, bool) bool  { return false }
func (s *objects[T]) setObject(i int, v any) bool {
	tv, ok := v.(T)
	if ok {
		s.data[i] = tv
	}

	return ok
}

// scalarStorage holds a single immutable value and answers every offset with it.
type scalarStorage struct {
	k     format.DataKind
	value any
}

func (s *scalarStorage) kind() format.DataKind     { return s.k }
func (s *scalarStorage) length() int               { return 1 }
func (s *scalarStorage) float(int) (float64, bool) { return toFloat64(s.value) }
func (s *scalarStorage) integer(int) (int64, bool) { return toInt64(s.value) }
func (s *scalarStorage) boolean(int) (bool, bool) {
	b, ok := s.value.(bool)
	return b, ok
}
func (s *scalarStorage) object(int) any { return s.value }

func (s *scalarStorage) slice() any {
	st, err := newStorage(s.k, 1)
	if err != nil || !st.setObject(0, s.value) {
		return []any{s.value}
	}

	return st.slice()
}

// Scalar setters are accepted and ignored.
func (s *scalarStorage) setFloat(int, float64) bool { return true }
func (s *scalarStorage) setInteger(int, int64) bool { return true }
func (s *scalarStorage) setBoolean(int, bool) bool  { return true }
func (s *scalarStorage) setObject(int, any) bool    { return true }

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int8:
		return float64(n), true
	case uint8:
		return float64(n), true
	case int16:
		return float64(n), true
	case uint16:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case int:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int8:
		return int64(n), true
	case uint8:
		return int64(n), true
	case int16:
		return int64(n), true
	case uint16:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true //nolint: gosec
	case int:
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
