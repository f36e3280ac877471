package structure

import (
	"fmt"
	"iter"
	"sync"

	"github.com/arloliu/marray/compress"
	"github.com/arloliu/marray/endian"
	"github.com/arloliu/marray/errs"
	"github.com/arloliu/marray/format"
	"github.com/arloliu/marray/index"
	"github.com/arloliu/marray/internal/options"
)

// ArrayStructureBB is an array of structure records stored in one shared byte
// buffer. The buffer is not copied; writes through SetMemberData are visible to
// every array sharing it.
//
// Two layouts are supported:
//
//	uniform:    byteOffset(rec, m) = start + rec*recordSize + m.DataParam
//	positional: byteOffset(rec, m) = positions[rec] + m.DataParam
//
// A uniform array decodes every member in the array byte order. A positional
// array lets a member override it by carrying an endian.EndianEngine in its
// DataObject.
//
// Strings are stored as 4-byte indices into an object heap shared with nested
// structure arrays (see AddObjectToHeap).
type ArrayStructureBB struct {
	members    *Members
	ix         *index.Index
	buf        []byte
	engine     endian.EndianEngine
	recSize    int
	start      int
	positions  []int
	positional bool
	heap       *objectHeap
}

var _ RecordReader = (*ArrayStructureBB)(nil)

// NewArrayStructureBB creates a structure array over buf.
//
// Parameters:
//   - members: Record schema; it is frozen by this call
//   - shape: Outer shape; the record count is its product
//   - buf: Backing bytes, or a compressed payload with WithCompression
//   - opts: Layout options
//
// Returns:
//   - errs.ErrInvalidShape for a negative dimension
//   - errs.ErrUnsupportedKind if a member kind has no byte layout
//   - errs.ErrPositionsMismatch if the positions table length differs from the record count
//   - errs.ErrBufferTooSmall if any record would extend past the buffer
//
// Example:
//
//	sm := structure.NewMembers("obs")
//	temp, _ := sm.AddMember("temp", "air temperature", "K", format.KindFloat, nil)
//	_, _ = sm.Layout()
//	arr, err := structure.NewArrayStructureBB(sm, []int{n}, buf, structure.WithLittleEndian())
//	t0, err := arr.ScalarFloat(0, temp)
func NewArrayStructureBB(members *Members, shape []int, buf []byte, opts ...BBOption) (*ArrayStructureBB, error) {
	if members == nil {
		return nil, fmt.Errorf("%w: nil members", errs.ErrIllegalArgument)
	}

	cfg := newBBConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	ix, err := index.New(shape)
	if err != nil {
		return nil, err
	}

	if err := checkLayout(members); err != nil {
		return nil, err
	}

	if cfg.compression != format.CompressionNone {
		codec, err := compress.GetCodec(cfg.compression)
		if err != nil {
			return nil, err
		}
		if buf, err = codec.Decompress(buf); err != nil {
			return nil, fmt.Errorf("failed to decompress %s structure payload: %w", cfg.compression, err)
		}
	}

	a := &ArrayStructureBB{
		members:    members,
		ix:         ix,
		buf:        buf,
		engine:     cfg.engine,
		recSize:    cfg.recSize,
		start:      cfg.start,
		positions:  cfg.positions,
		positional: cfg.positions != nil,
		heap:       &objectHeap{objs: cfg.heap},
	}

	structSize := members.StructureSize()
	if a.recSize == 0 {
		a.recSize = structSize
	}
	if a.recSize < structSize {
		return nil, fmt.Errorf("%w: record size %d smaller than structure size %d",
			errs.ErrIllegalArgument, a.recSize, structSize)
	}

	if err := a.checkBuffer(structSize); err != nil {
		return nil, err
	}

	members.Freeze()

	return a, nil
}

// checkLayout rejects members that cannot be placed in a byte buffer.
func checkLayout(members *Members) error {
	for _, m := range members.All() {
		if m.ElementSize() > 0 {
			continue
		}
		if m.Kind == format.KindStructure {
			if err := checkLayout(m.Members); err != nil {
				return err
			}
			// an empty nested structure occupies no bytes
			continue
		}

		return fmt.Errorf("%w: member %q of kind %s has no byte layout", errs.ErrUnsupportedKind, m.Name, m.Kind)
	}

	return nil
}

func (a *ArrayStructureBB) checkBuffer(structSize int) error {
	n := a.ix.Size()

	if a.positional {
		if len(a.positions) != n {
			return fmt.Errorf("%w: %d positions for %d records", errs.ErrPositionsMismatch, len(a.positions), n)
		}
		for rec, pos := range a.positions {
			if pos < 0 {
				return fmt.Errorf("%w: record %d at negative position %d", errs.ErrIllegalArgument, rec, pos)
			}
			if pos+structSize > len(a.buf) {
				return fmt.Errorf("%w: record %d needs bytes [%d,%d), buffer has %d",
					errs.ErrBufferTooSmall, rec, pos, pos+structSize, len(a.buf))
			}
		}

		return nil
	}

	if n == 0 {
		return nil
	}
	if need := a.start + (n-1)*a.recSize + structSize; need > len(a.buf) {
		return fmt.Errorf("%w: %d records need %d bytes, buffer has %d", errs.ErrBufferTooSmall, n, need, len(a.buf))
	}

	return nil
}

// Members returns the record schema.
func (a *ArrayStructureBB) Members() *Members { return a.members }

// Shape returns a copy of the outer shape.
func (a *ArrayStructureBB) Shape() []int { return a.ix.Shape() }

// RecordCount returns the number of records.
func (a *ArrayStructureBB) RecordCount() int { return a.ix.Size() }

// RecordSize returns the byte distance between records of a uniform array.
func (a *ArrayStructureBB) RecordSize() int { return a.recSize }

// IsPositional reports whether records are located through a positions table.
func (a *ArrayStructureBB) IsPositional() bool { return a.positional }

// ByteOrder returns the array byte order.
func (a *ArrayStructureBB) ByteOrder() endian.EndianEngine { return a.engine }

// Bytes returns the shared backing buffer.
func (a *ArrayStructureBB) Bytes() []byte { return a.buf }

// RecordIndex returns a fresh Index over the outer shape, for converting
// multi-dimensional record coordinates to record numbers.
func (a *ArrayStructureBB) RecordIndex() *index.Index { return a.ix.Clone() }

func (a *ArrayStructureBB) checkRecord(rec int) error {
	if rec < 0 || rec >= a.ix.Size() {
		return fmt.Errorf("%w: record %d not in [0,%d)", errs.ErrRecordOutOfRange, rec, a.ix.Size())
	}

	return nil
}

func (a *ArrayStructureBB) recordBase(rec int) int {
	if a.positional {
		return a.positions[rec]
	}

	return a.start + rec*a.recSize
}

// ByteOffset returns the offset in the buffer of member m in record rec.
//
// Returns errs.ErrRecordOutOfRange for a bad record number and
// errs.ErrMemberNotFound if m does not belong to the array's schema.
func (a *ArrayStructureBB) ByteOffset(rec int, m *Member) (int, error) {
	if err := a.checkRecord(rec); err != nil {
		return 0, err
	}
	if !a.members.contains(m) {
		return 0, memberNotFound(a.members, m)
	}

	return a.recordBase(rec) + m.DataParam, nil
}

// orderFor returns the byte order used to decode m.
func (a *ArrayStructureBB) orderFor(m *Member) endian.EndianEngine {
	if a.positional {
		return endian.Resolve(m.DataObject, a.engine)
	}

	return a.engine
}

// StructureData returns a view of record rec.
func (a *ArrayStructureBB) StructureData(rec int) (StructureData, error) {
	if err := a.checkRecord(rec); err != nil {
		return nil, err
	}

	return recordView{r: a, rec: rec}, nil
}

// Records yields every record in record-number order.
func (a *ArrayStructureBB) Records() iter.Seq2[int, StructureData] {
	return func(yield func(int, StructureData) bool) {
		for rec := range a.ix.Size() {
			if !yield(rec, recordView{r: a, rec: rec}) {
				return
			}
		}
	}
}

// AddObjectToHeap stores v in the object heap and returns its index, the value
// a string member holds in the buffer.
func (a *ArrayStructureBB) AddObjectToHeap(v any) int32 { return a.heap.add(v) }

// Heap returns a snapshot of the object heap.
func (a *ArrayStructureBB) Heap() []any { return a.heap.snapshot() }

// NestedArray returns the value of structure member m in record rec as an
// array of its nested records, sharing this array's buffer, byte order and heap.
func (a *ArrayStructureBB) NestedArray(rec int, m *Member) (*ArrayStructureBB, error) {
	off, order, err := a.locate(rec, m, format.KindStructure)
	if err != nil {
		return nil, err
	}

	nested := &ArrayStructureBB{
		members: m.Members,
		buf:     a.buf,
		engine:  order,
		recSize: m.Members.StructureSize(),
		start:   off,
		heap:    a.heap,
	}
	if nested.ix, err = index.New(m.Shape); err != nil {
		return nil, err
	}

	return nested, nil
}

func memberNotFound(s *Members, m *Member) error {
	if m == nil {
		return fmt.Errorf("%w: nil member in %q", errs.ErrMemberNotFound, s.Name())
	}

	return fmt.Errorf("%w: %q in %q", errs.ErrMemberNotFound, m.Name, s.Name())
}

// objectHeap holds the values string members refer to by index.
type objectHeap struct {
	mu   sync.RWMutex
	objs []any
}

func (h *objectHeap) add(v any) int32 {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.objs = append(h.objs, v)

	return int32(len(h.objs) - 1) //nolint: gosec
}

func (h *objectHeap) len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.objs)
}

// truncate drops every entry from index n on.
func (h *objectHeap) truncate(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clear(h.objs[n:])
	h.objs = h.objs[:n]
}

func (h *objectHeap) get(i int32) (any, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || int(i) >= len(h.objs) {
		return nil, fmt.Errorf("%w: heap index %d not in [0,%d)", errs.ErrIndexOutOfBounds, i, len(h.objs))
	}

	return h.objs[i], nil
}

func (h *objectHeap) snapshot() []any {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]any, len(h.objs))
	copy(out, h.objs)

	return out
}
