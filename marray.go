// Package marray provides strided multidimensional arrays and fixed-layout
// binary structure arrays decoded straight from byte buffers.
//
// An array is a typed storage vector viewed through an Index, which maps an
// N-dimensional counter to a flat element offset via per-dimension strides.
// Structure arrays describe records with a Members schema and read member
// values lazily from a byte buffer, in either uniform or positional layout.
//
// # Core Features
//
//   - Strided N-D indexing with a dedicated rank-3 fast path
//   - Views (slice, section, transpose, flip, reduce) that share storage
//   - Iterators over any layout, with a unit-stride fast iterator
//   - Structure arrays over big- or little-endian buffers with a string heap
//   - Composite arrays that concatenate parts into one record sequence
//   - Proxies that present a record under a different schema
//   - Optional payload compression (Zstd, S2, LZ4)
//   - BLAS-backed vector math over rank-1 arrays
//
// # Basic Usage
//
// Describing a record and encoding a payload:
//
//	import "github.com/arloliu/marray"
//
//	members := marray.NewMembers("obs")
//	temp, _ := members.AddMember("temp", "air temperature", "K", format.KindFloat, nil)
//	members.AddMember("station", "", "", format.KindString, nil)
//	members.Layout()
//
//	encoder, _ := marray.NewEncoder(members)
//	encoder.AddRecord(map[string]any{"temp": float32(281.5), "station": "KBOS"})
//	opts := encoder.ArrayOptions()
//	payload, _ := encoder.Finish()
//
// Decoding records:
//
//	arr, _ := marray.NewStructureBB(members, []int{encoder.Records()}, payload, opts...)
//	v, _ := arr.ScalarFloat(0, temp)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the index,
// array, structure and vector packages, simplifying the most common use cases.
// For advanced usage and fine-grained control, use those packages directly.
package marray

import (
	"github.com/arloliu/marray/array"
	"github.com/arloliu/marray/format"
	"github.com/arloliu/marray/index"
	"github.com/arloliu/marray/internal/hash"
	"github.com/arloliu/marray/structure"
	"github.com/arloliu/marray/vector"
)

// NewIndex creates a canonical (row-major) index over shape.
//
// Returns errs.ErrInvalidShape if any dimension is negative.
//
// Example:
//
//	ix, err := marray.NewIndex(2, 3, 4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ix.Set(1, 2, 3)
//	off := ix.CurrentElement() // 23
func NewIndex(shape ...int) (*index.Index, error) {
	return index.New(shape)
}

// NewArray creates a zero-filled array of the given kind and shape.
//
// Parameters:
//   - kind: Element kind (format.KindDouble, format.KindInt, ...)
//   - shape: Dimension lengths; no dimensions creates a scalar
//
// Returns:
//   - *array.Array: The created array.
//   - error: errs.ErrUnsupportedKind for kinds without storage, or
//     errs.ErrInvalidShape for a negative dimension.
//
// Example:
//
//	grid, err := marray.NewArray(format.KindDouble, 3, 4)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewArray(kind format.DataKind, shape ...int) (*array.Array, error) {
	return array.Factory(kind, shape...)
}

// NewScalar creates a rank-0 array holding v. The kind is inferred from v's Go type.
func NewScalar(v any) (*array.Array, error) {
	return array.NewScalar(v)
}

// NewVector creates a vector holding a copy of values.
//
// Example:
//
//	a := marray.NewVector(1, 2, 3)
//	b := marray.NewVector(4, 5, 6)
//	dot, _ := a.Dot(b) // 32
func NewVector(values ...float64) *vector.MAVector {
	return vector.FromValues(values...)
}

// VectorOf wraps a rank-1 numeric array as a vector sharing its storage.
func VectorOf(a *array.Array) (*vector.MAVector, error) {
	return vector.FromArray(a)
}

// NewMembers creates an empty structure schema named name.
//
// Add members with AddMember or Add, then call Layout to assign offsets in
// declaration order before building arrays over the schema.
func NewMembers(name string) *structure.Members {
	return structure.NewMembers(name)
}

// NewStructureBB creates a structure array reading records of members from buf.
//
// This is the most flexible factory function. Options select the byte order,
// record size, start offset, positional layout, payload compression and a
// prepopulated string heap.
//
// Parameters:
//   - members: The record schema; it is frozen by this call
//   - shape: Shape of the record array
//   - buf: The record bytes, or a compressed payload with WithCompression
//   - opts: Optional configuration functions (see structure.BBOption)
//
// Available options:
//   - structure.WithBigEndian() / structure.WithLittleEndian() / structure.WithNativeEndian()
//   - structure.WithRecordSize(n)
//   - structure.WithStartOffset(off)
//   - structure.WithPositions(positions)
//   - structure.WithCompression(format.CompressionNone|Zstd|S2|LZ4)
//   - structure.WithHeap(objects)
//
// Returns:
//   - *structure.ArrayStructureBB: The created structure array.
//   - error: An error if the configuration or buffer is invalid.
//
// Example:
//
//	arr, err := marray.NewStructureBB(members, []int{100}, buf,
//	    structure.WithLittleEndian(),
//	    structure.WithRecordSize(32),
//	)
func NewStructureBB(members *structure.Members, shape []int, buf []byte, opts ...structure.BBOption) (*structure.ArrayStructureBB, error) {
	return structure.NewArrayStructureBB(members, shape, buf, opts...)
}

// NewEncoder creates an encoder that packs records of members into a payload
// readable by NewStructureBB.
//
// Available options:
//   - structure.WithEncoderBigEndian() / structure.WithEncoderLittleEndian() / structure.WithEncoderNativeEndian()
//   - structure.WithEncoderRecordSize(n)
//   - structure.WithEncoderCompression(format.CompressionNone|Zstd|S2|LZ4)
func NewEncoder(members *structure.Members, opts ...structure.EncoderOption) (*structure.Encoder, error) {
	return structure.NewEncoder(members, opts...)
}

// NewComposite concatenates parts into one structure array of total records.
// A nil members reuses the schema of the first part.
func NewComposite(members *structure.Members, parts []structure.RecordReader, total int) (*structure.Composite, error) {
	return structure.NewComposite(members, parts, total)
}

// NewProxy presents org under members, resolving each member by name.
// A nil members keeps the original schema.
func NewProxy(members *structure.Members, org structure.StructureData) *structure.Proxy {
	return structure.NewProxy(members, org)
}

// MemberID returns the 64-bit hash ID a schema uses to identify a member name.
//
// Use this function to:
//   - Pre-compute IDs for members looked up in hot loops
//   - Compare member names across schemas cheaply
//
// Example:
//
//	id := marray.MemberID("temp")
//	if m.ID() == id {
//	    // ...
//	}
func MemberID(name string) uint64 {
	return hash.ID(name)
}
