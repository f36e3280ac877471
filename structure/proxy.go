package structure

import (
	"fmt"

	"github.com/arloliu/marray/array"
	"github.com/arloliu/marray/errs"
)

// Proxy presents a record under a different schema. Every read looks the
// member up by name in the wrapped record and forwards to it, so the proxy
// schema may reorder members or drop them without touching storage.
//
// A Proxy holds no decoded state.
type Proxy struct {
	members *Members
	org     StructureData
}

var _ StructureData = (*Proxy)(nil)

// NewProxy wraps org. A nil members reuses the schema of org.
func NewProxy(members *Members, org StructureData) *Proxy {
	if members == nil {
		members = org.Members()
	}

	return &Proxy{members: members, org: org}
}

// Members returns the presented schema.
func (p *Proxy) Members() *Members { return p.members }

// Original returns the wrapped record.
func (p *Proxy) Original() StructureData { return p.org }

// resolve maps m to the member of the wrapped record with the same name.
func (p *Proxy) resolve(m *Member) (*Member, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil member", errs.ErrMemberNotFound)
	}

	return p.org.Members().Lookup(m.Name)
}

// forward resolves m and applies read to the wrapped record.
func forward[T any](p *Proxy, m *Member, read func(StructureData, *Member) (T, error)) (T, error) {
	om, err := p.resolve(m)
	if err != nil {
		var zero T
		return zero, err
	}

	return read(p.org, om)
}

// ScalarDouble reads the original member whose name matches m.
// The other Scalar readers forward the same way.
func (p *Proxy) ScalarDouble(m *Member) (float64, error) {
	return forward(p, m, StructureData.ScalarDouble)
}

func (p *Proxy) ScalarFloat(m *Member) (float32, error) {
	return forward(p, m, StructureData.ScalarFloat)
}

func (p *Proxy) ScalarLong(m *Member) (int64, error) {
	return forward(p, m, StructureData.ScalarLong)
}

func (p *Proxy) ScalarInt(m *Member) (int32, error) {
	return forward(p, m, StructureData.ScalarInt)
}

func (p *Proxy) ScalarShort(m *Member) (int16, error) {
	return forward(p, m, StructureData.ScalarShort)
}

func (p *Proxy) ScalarByte(m *Member) (int8, error) {
	return forward(p, m, StructureData.ScalarByte)
}

func (p *Proxy) ScalarChar(m *Member) (byte, error) {
	return forward(p, m, StructureData.ScalarChar)
}

func (p *Proxy) ScalarString(m *Member) (string, error) {
	return forward(p, m, StructureData.ScalarString)
}

func (p *Proxy) ScalarStructure(m *Member) (StructureData, error) {
	return forward(p, m, StructureData.ScalarStructure)
}

// ConvertDouble reads the matching original member widened to float64.
func (p *Proxy) ConvertDouble(m *Member) (float64, error) {
	return forward(p, m, StructureData.ConvertDouble)
}

// ConvertLong reads the matching original member widened to int64.
func (p *Proxy) ConvertLong(m *Member) (int64, error) {
	return forward(p, m, StructureData.ConvertLong)
}

// MemberArray returns the matching original member as an array.
func (p *Proxy) MemberArray(m *Member) (*array.Array, error) {
	return forward(p, m, StructureData.MemberArray)
}
