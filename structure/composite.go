package structure

import (
	"fmt"
	"slices"
	"sort"

	"github.com/arloliu/marray/array"
	"github.com/arloliu/marray/errs"
)

// Composite concatenates record readers end to end into one record sequence.
//
// Record r belongs to the part i with the largest start[i] <= r, where start
// holds the cumulative record counts of the preceding parts, and is read there
// as local record r-start[i]. Members are matched to each part's schema by name.
//
// Extracting a member across every record is not implemented for composites;
// ExtractMemberArray reports errs.ErrNotSupported.
type Composite struct {
	members *Members
	parts   []RecordReader
	start   []int
	total   int
}

var _ RecordReader = (*Composite)(nil)

// NewComposite builds a composite over parts holding total records overall.
// A nil members reuses the schema of the first part.
//
// Returns errs.ErrShapeMismatch if total differs from the sum of the part
// record counts, and errs.ErrIllegalArgument if there is no schema to use.
func NewComposite(members *Members, parts []RecordReader, total int) (*Composite, error) {
	if members == nil {
		if len(parts) == 0 {
			return nil, fmt.Errorf("%w: composite without members or parts", errs.ErrIllegalArgument)
		}
		members = parts[0].Members()
	}

	start := make([]int, len(parts))
	sum := 0
	for i, p := range parts {
		start[i] = sum
		sum += p.RecordCount()
	}
	if sum != total {
		return nil, fmt.Errorf("%w: parts hold %d records, total is %d", errs.ErrShapeMismatch, sum, total)
	}

	return &Composite{
		members: members,
		parts:   slices.Clone(parts),
		start:   start,
		total:   total,
	}, nil
}

// Members returns the composite schema.
func (c *Composite) Members() *Members { return c.members }

// RecordCount returns the combined record count.
func (c *Composite) RecordCount() int { return c.total }

// Start returns a copy of the cumulative start table.
func (c *Composite) Start() []int { return slices.Clone(c.start) }

// Parts returns the number of parts.
func (c *Composite) Parts() int { return len(c.parts) }

// Route resolves global record rec to a part index and a record number local
// to that part. Records outside [0, RecordCount()) fail with errs.ErrIllegalArgument.
func (c *Composite) Route(rec int) (part, local int, err error) {
	if rec < 0 || rec >= c.total {
		return 0, 0, fmt.Errorf("%w: record %d not in [0,%d)", errs.ErrIllegalArgument, rec, c.total)
	}

	// the largest i with start[i] <= rec; empty parts share a start with their
	// successor and are skipped
	part = sort.SearchInts(c.start, rec+1) - 1

	return part, rec - c.start[part], nil
}

// StructureData returns record rec of the part it routes to.
func (c *Composite) StructureData(rec int) (StructureData, error) {
	part, local, err := c.Route(rec)
	if err != nil {
		return nil, err
	}

	return c.parts[part].StructureData(local)
}

// resolve routes rec and maps m to the part's member of the same name.
func (c *Composite) resolve(rec int, m *Member) (RecordReader, int, *Member, error) {
	part, local, err := c.Route(rec)
	if err != nil {
		return nil, 0, nil, err
	}
	if m == nil {
		return nil, 0, nil, memberNotFound(c.members, m)
	}

	r := c.parts[part]
	pm, err := r.Members().Lookup(m.Name)
	if err != nil {
		return nil, 0, nil, err
	}

	return r, local, pm, nil
}

// routed resolves rec and m, then applies read to the owning part.
func routed[T any](c *Composite, rec int, m *Member, read func(RecordReader, int, *Member) (T, error)) (T, error) {
	r, local, pm, err := c.resolve(rec, m)
	if err != nil {
		var zero T
		return zero, err
	}

	return read(r, local, pm)
}

// ScalarDouble reads member m of global record rec from the part that holds it.
// The other Scalar readers route the same way.
func (c *Composite) ScalarDouble(rec int, m *Member) (float64, error) {
	return routed(c, rec, m, RecordReader.ScalarDouble)
}

func (c *Composite) ScalarFloat(rec int, m *Member) (float32, error) {
	return routed(c, rec, m, RecordReader.ScalarFloat)
}

func (c *Composite) ScalarLong(rec int, m *Member) (int64, error) {
	return routed(c, rec, m, RecordReader.ScalarLong)
}

func (c *Composite) ScalarInt(rec int, m *Member) (int32, error) {
	return routed(c, rec, m, RecordReader.ScalarInt)
}

func (c *Composite) ScalarShort(rec int, m *Member) (int16, error) {
	return routed(c, rec, m, RecordReader.ScalarShort)
}

func (c *Composite) ScalarByte(rec int, m *Member) (int8, error) {
	return routed(c, rec, m, RecordReader.ScalarByte)
}

func (c *Composite) ScalarChar(rec int, m *Member) (byte, error) {
	return routed(c, rec, m, RecordReader.ScalarChar)
}

func (c *Composite) ScalarString(rec int, m *Member) (string, error) {
	return routed(c, rec, m, RecordReader.ScalarString)
}

func (c *Composite) ScalarStructure(rec int, m *Member) (StructureData, error) {
	return routed(c, rec, m, RecordReader.ScalarStructure)
}

// ConvertDouble reads a numeric member of record rec widened to float64.
func (c *Composite) ConvertDouble(rec int, m *Member) (float64, error) {
	return routed(c, rec, m, RecordReader.ConvertDouble)
}

// ConvertLong reads an integral member of record rec widened to int64.
func (c *Composite) ConvertLong(rec int, m *Member) (int64, error) {
	return routed(c, rec, m, RecordReader.ConvertLong)
}

// MemberArray returns member m of record rec as an array.
func (c *Composite) MemberArray(rec int, m *Member) (*array.Array, error) {
	return routed(c, rec, m, RecordReader.MemberArray)
}

// ExtractMemberArray is not implemented for composites.
func (c *Composite) ExtractMemberArray(m *Member) (*array.Array, error) {
	name := "<nil>"
	if m != nil {
		name = m.Name
	}

	return nil, fmt.Errorf("%w: extract member %q across composite parts", errs.ErrNotSupported, name)
}
