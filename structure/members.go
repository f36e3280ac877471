package structure

import (
	"fmt"
	"iter"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/arloliu/marray/errs"
	"github.com/arloliu/marray/format"
	"github.com/arloliu/marray/index"
	"github.com/arloliu/marray/internal/collision"
	"github.com/arloliu/marray/internal/hash"
)

// Member describes one named field of a structure record.
//
// Members are owned by a Members schema and must be treated as read-only once
// the schema is frozen.
type Member struct {
	Name  string
	Desc  string
	Units string
	Kind  format.DataKind
	// Shape of the member within one record; empty for a scalar member.
	Shape []int
	// Members is the nested schema of a KindStructure member.
	Members *Members
	// DataObject carries a per-member decoding parameter. An endian.EndianEngine
	// (or binary.ByteOrder) here overrides the byte order of positional arrays.
	DataObject any
	// DataParam is the byte offset of the member within a record.
	DataParam int

	id uint64
}

// ID returns the 64-bit hash of the member name.
func (m *Member) ID() uint64 { return m.id }

// Size returns the number of elements in one record's value of the member.
func (m *Member) Size() int { return index.ComputeSize(m.Shape) }

// IsScalar reports whether the member holds exactly one element per record.
func (m *Member) IsScalar() bool { return m.Size() == 1 }

// ElementSize returns the byte size of one element inside a record.
func (m *Member) ElementSize() int {
	if m.Kind == format.KindStructure {
		if m.Members == nil {
			return 0
		}

		return m.Members.StructureSize()
	}

	return m.Kind.Size()
}

// ByteSize returns the number of bytes the member occupies in a record.
func (m *Member) ByteSize() int { return m.Size() * m.ElementSize() }

func (m *Member) String() string {
	return fmt.Sprintf("%s %s%v @%d", m.Name, m.Kind, m.Shape, m.DataParam)
}

// Members is the ordered schema of a structure record.
//
// A schema is append-only while it is being built. Building an ArrayStructureBB or
// Encoder over it freezes it; later mutations fail with
// errs.ErrMembersFrozen. A frozen schema is safe for concurrent reads.
type Members struct {
	name    string
	mu      sync.Mutex // serializes schema building
	list    []*Member
	byID    map[uint64]int
	tracker *collision.Tracker
	frozen  atomic.Bool
}

// NewMembers creates an empty schema called name.
func NewMembers(name string) *Members {
	return &Members{
		name:    name,
		byID:    make(map[uint64]int),
		tracker: collision.NewTracker(),
	}
}

// Name returns the schema name.
func (s *Members) Name() string { return s.name }

// Len returns the number of members.
func (s *Members) Len() int { return len(s.list) }

// Member returns the i-th member in declaration order.
func (s *Members) Member(i int) *Member { return s.list[i] }

// All yields members in declaration order.
func (s *Members) All() iter.Seq2[int, *Member] {
	return func(yield func(int, *Member) bool) {
		for i, m := range s.list {
			if !yield(i, m) {
				return
			}
		}
	}
}

// Names returns the member names in declaration order.
func (s *Members) Names() []string {
	return slices.Clone(s.tracker.Names())
}

// AddMember appends a member and returns it. The member's DataParam is left at
// zero; call Layout to pack members sequentially, or use Add to place it.
func (s *Members) AddMember(name, desc, units string, kind format.DataKind, shape []int) (*Member, error) {
	return s.Add(Member{Name: name, Desc: desc, Units: units, Kind: kind, Shape: shape})
}

// Add appends a copy of m and returns the stored member.
//
// Returns:
//   - errs.ErrMembersFrozen if the schema is frozen
//   - errs.ErrInvalidMemberName if the name is empty
//   - errs.ErrDuplicateMember if the name is already present
//   - errs.ErrInvalidShape if the member shape has a negative dimension
//   - errs.ErrIllegalArgument for a negative DataParam or a structure without nested members
func (s *Members) Add(m Member) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen.Load() {
		return nil, fmt.Errorf("%w: add %q to %q", errs.ErrMembersFrozen, m.Name, s.name)
	}
	for _, d := range m.Shape {
		if d < 0 {
			return nil, fmt.Errorf("%w: member %q shape %v", errs.ErrInvalidShape, m.Name, m.Shape)
		}
	}
	if m.DataParam < 0 {
		return nil, fmt.Errorf("%w: member %q data param %d", errs.ErrIllegalArgument, m.Name, m.DataParam)
	}
	if m.Kind == format.KindStructure && m.Members == nil {
		return nil, fmt.Errorf("%w: structure member %q has no nested members", errs.ErrIllegalArgument, m.Name)
	}

	id := hash.ID(m.Name)
	if err := s.tracker.Track(m.Name, id); err != nil {
		return nil, fmt.Errorf("member %q of %q: %w", m.Name, s.name, err)
	}

	m.id = id
	m.Shape = slices.Clone(m.Shape)
	stored := &m
	if _, taken := s.byID[id]; !taken {
		s.byID[id] = len(s.list)
	}
	s.list = append(s.list, stored)

	return stored, nil
}

// FindMember returns the member called name.
func (s *Members) FindMember(name string) (*Member, bool) {
	if i, ok := s.byID[hash.ID(name)]; ok && s.list[i].Name == name {
		return s.list[i], true
	}
	if !s.tracker.HasCollision() {
		return nil, false
	}

	for _, m := range s.list {
		if m.Name == name {
			return m, true
		}
	}

	return nil, false
}

// Lookup is FindMember returning errs.ErrMemberNotFound for an unknown name.
func (s *Members) Lookup(name string) (*Member, error) {
	m, ok := s.FindMember(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %q", errs.ErrMemberNotFound, name, s.name)
	}

	return m, nil
}

// contains reports whether m is a member of this schema (pointer identity).
func (s *Members) contains(m *Member) bool {
	if m == nil {
		return false
	}
	found, ok := s.FindMember(m.Name)

	return ok && found == m
}

// Layout packs members back to back in declaration order by assigning each
// DataParam, and returns the resulting record size.
func (s *Members) Layout() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen.Load() {
		return 0, fmt.Errorf("%w: layout %q", errs.ErrMembersFrozen, s.name)
	}

	off := 0
	for _, m := range s.list {
		m.DataParam = off
		off += m.ByteSize()
	}

	return off, nil
}

// StructureSize returns the byte size of one record: the end of the member
// reaching furthest into the record.
func (s *Members) StructureSize() int {
	size := 0
	for _, m := range s.list {
		size = max(size, m.DataParam+m.ByteSize())
	}

	return size
}

// Freeze makes the schema and its nested schemas immutable.
func (s *Members) Freeze() {
	if s.frozen.Swap(true) {
		return
	}
	s.mu.Lock()
	list := s.list
	s.mu.Unlock()

	for _, m := range list {
		if m.Members != nil {
			m.Members.Freeze()
		}
	}
}

// IsFrozen reports whether the schema has been frozen.
func (s *Members) IsFrozen() bool { return s.frozen.Load() }
