package collision

import (
	"fmt"

	"github.com/arloliu/marray/errs"
)

// Tracker records member names by their 64-bit hash ID while a schema is being
// built. It rejects empty and repeated names and notes when two distinct names
// share an ID, so lookups know the ID alone is not enough.
type Tracker struct {
	names        map[uint64][]string // ID → names hashing to it
	ordered      []string            // names in insertion order
	hasCollision bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		names:   make(map[uint64][]string),
		ordered: make([]string, 0),
	}
}

// Track records name under id.
//
// Returns:
//   - errs.ErrInvalidMemberName if name is empty
//   - errs.ErrDuplicateMember if name was tracked before
//
// A different name with the same id is not an error; it sets the collision flag.
func (t *Tracker) Track(name string, id uint64) error {
	if name == "" {
		return errs.ErrInvalidMemberName
	}

	existing := t.names[id]
	for _, n := range existing {
		if n == name {
			return fmt.Errorf("%w: %q", errs.ErrDuplicateMember, name)
		}
	}
	if len(existing) > 0 {
		t.hasCollision = true
	}

	t.names[id] = append(existing, name)
	t.ordered = append(t.ordered, name)

	return nil
}

// HasCollision reports whether two tracked names share an ID.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the tracked names in insertion order.
func (t *Tracker) Names() []string {
	return t.ordered
}

