package structure

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/arloliu/marray/endian"
	"github.com/arloliu/marray/errs"
	"github.com/arloliu/marray/format"
	"github.com/arloliu/marray/internal/options"
)

// BBConfig holds the layout parameters of an ArrayStructureBB.
type BBConfig struct {
	engine      endian.EndianEngine
	recSize     int // 0 means the schema's StructureSize
	start       int
	positions   []int
	compression format.CompressionType
	heap        []any
}

func newBBConfig() *BBConfig {
	return &BBConfig{
		engine:      endian.GetBigEndianEngine(),
		compression: format.CompressionNone,
	}
}

func (c *BBConfig) setByteOrder(order binary.ByteOrder) error {
	engine, ok := endian.Override(order)
	if !ok {
		return fmt.Errorf("%w: byte order %v", errs.ErrIllegalArgument, order)
	}
	c.engine = engine

	return nil
}

func (c *BBConfig) setRecordSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: record size %d", errs.ErrIllegalArgument, n)
	}
	c.recSize = n

	return nil
}

func (c *BBConfig) setStartOffset(off int) error {
	if off < 0 {
		return fmt.Errorf("%w: start offset %d", errs.ErrIllegalArgument, off)
	}
	c.start = off

	return nil
}

func (c *BBConfig) setCompression(comp format.CompressionType) error {
	switch comp {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		c.compression = comp
		return nil
	default:
		return fmt.Errorf("%w: compression %v", errs.ErrIllegalArgument, comp)
	}
}

// BBOption represents a functional option for configuring an ArrayStructureBB.
type BBOption = options.Option[*BBConfig]

// WithByteOrder sets the byte order of the buffer. Only binary.BigEndian and
// binary.LittleEndian are accepted.
func WithByteOrder(order binary.ByteOrder) BBOption {
	return options.New(func(c *BBConfig) error {
		return c.setByteOrder(order)
	})
}

// WithBigEndian decodes the buffer as big-endian. It is the default.
func WithBigEndian() BBOption {
	return options.NoError(func(c *BBConfig) {
		c.engine = endian.GetBigEndianEngine()
	})
}

// WithLittleEndian decodes the buffer as little-endian.
func WithLittleEndian() BBOption {
	return options.NoError(func(c *BBConfig) {
		c.engine = endian.GetLittleEndianEngine()
	})
}

// WithNativeEndian decodes the buffer in the host byte order, for buffers
// filled from memory by the same machine.
func WithNativeEndian() BBOption {
	return options.NoError(func(c *BBConfig) {
		c.engine = endian.GetNativeEngine()
	})
}

// WithRecordSize sets the distance in bytes between consecutive records of a
// uniform array. It defaults to the schema's StructureSize.
func WithRecordSize(n int) BBOption {
	return options.New(func(c *BBConfig) error {
		return c.setRecordSize(n)
	})
}

// WithStartOffset sets the byte offset of record 0 of a uniform array.
func WithStartOffset(off int) BBOption {
	return options.New(func(c *BBConfig) error {
		return c.setStartOffset(off)
	})
}

// WithPositions selects the positional layout: record r starts at positions[r].
// The table length must equal the record count.
func WithPositions(positions []int) BBOption {
	return options.NoError(func(c *BBConfig) {
		c.positions = slices.Clone(positions)
	})
}

// WithCompression declares the buffer to be a compressed payload. It is
// decompressed once at construction.
func WithCompression(comp format.CompressionType) BBOption {
	return options.New(func(c *BBConfig) error {
		return c.setCompression(comp)
	})
}

// WithHeap seeds the object heap that string members index into.
func WithHeap(objects []any) BBOption {
	return options.NoError(func(c *BBConfig) {
		c.heap = slices.Clone(objects)
	})
}
