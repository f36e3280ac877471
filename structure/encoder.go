package structure

import (
	"fmt"
	"time"

	"github.com/arloliu/marray/array"
	"github.com/arloliu/marray/compress"
	"github.com/arloliu/marray/endian"
	"github.com/arloliu/marray/errs"
	"github.com/arloliu/marray/format"
	"github.com/arloliu/marray/internal/options"
	"github.com/arloliu/marray/internal/pool"
)

// EncoderConfig holds the output parameters of an Encoder.
type EncoderConfig struct {
	engine      endian.EndianEngine
	recSize     int
	compression format.CompressionType
}

// EncoderOption represents a functional option for configuring an Encoder.
type EncoderOption = options.Option[*EncoderConfig]

// WithEncoderBigEndian writes big-endian records. It is the default.
func WithEncoderBigEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.engine = endian.GetBigEndianEngine()
	})
}

// WithEncoderLittleEndian writes little-endian records.
func WithEncoderLittleEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.engine = endian.GetLittleEndianEngine()
	})
}

// WithEncoderNativeEndian writes records in the host byte order.
func WithEncoderNativeEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.engine = endian.GetNativeEngine()
	})
}

// WithEncoderRecordSize pads every record to n bytes.
func WithEncoderRecordSize(n int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: record size %d", errs.ErrIllegalArgument, n)
		}
		c.recSize = n

		return nil
	})
}

// WithEncoderCompression compresses the finished payload.
func WithEncoderCompression(comp format.CompressionType) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if _, err := compress.CreateCodec(comp, "structure payload"); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrIllegalArgument, err)
		}
		c.compression = comp

		return nil
	})
}

// Encoder writes records of a schema into a uniform byte layout readable by
// ArrayStructureBB.
//
// Every member kind must have a write path; structures, complex numbers, dates
// and objects are rejected by NewEncoder, not when a record is added.
//
// Example:
//
//	enc, err := structure.NewEncoder(sm, structure.WithEncoderCompression(format.CompressionS2))
//	err = enc.AddRecord(map[string]any{"temp": float32(281.4), "station": "KBOS"})
//	n := enc.Records()
//	opts := enc.ArrayOptions()
//	payload, err := enc.Finish()
//	arr, err := structure.NewArrayStructureBB(sm, []int{n}, payload, opts...)
//
// Note: an Encoder is NOT thread-safe.
type Encoder struct {
	members  *Members
	cfg      *EncoderConfig
	codec    compress.Codec
	buf      *pool.ByteBuffer
	heap     objectHeap
	records  int
	finished bool
	stats    compress.CompressionStats
}

// NewEncoder creates an encoder for members, which it freezes.
//
// Returns errs.ErrUnsupportedKind for a member without a write path and
// errs.ErrIllegalArgument for a record size below the structure size.
func NewEncoder(members *Members, opts ...EncoderOption) (*Encoder, error) {
	if members == nil {
		return nil, fmt.Errorf("%w: nil members", errs.ErrIllegalArgument)
	}

	cfg := &EncoderConfig{
		engine:      endian.GetBigEndianEngine(),
		compression: format.CompressionNone,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	for _, m := range members.All() {
		if m.Kind == format.KindStructure || m.ElementSize() == 0 {
			return nil, fmt.Errorf("%w: member %q of kind %s has no write path", errs.ErrUnsupportedKind, m.Name, m.Kind)
		}
	}

	structSize := members.StructureSize()
	if cfg.recSize == 0 {
		cfg.recSize = structSize
	}
	if cfg.recSize < structSize {
		return nil, fmt.Errorf("%w: record size %d smaller than structure size %d",
			errs.ErrIllegalArgument, cfg.recSize, structSize)
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}

	members.Freeze()

	return &Encoder{
		members: members,
		cfg:     cfg,
		codec:   codec,
		buf:     pool.GetPayloadBuffer(),
	}, nil
}

// AddRecord appends one record. Members missing from values are zero, or empty
// for strings. Values are converted as for StructureDataScalar.AddMember. On
// error the record is not added.
func (e *Encoder) AddRecord(values map[string]any) error {
	if e.finished {
		return fmt.Errorf("%w: encoder already finished", errs.ErrIllegalArgument)
	}

	arrays := make(map[*Member]*array.Array, len(values))
	for name, v := range values {
		m, err := e.members.Lookup(name)
		if err != nil {
			return err
		}
		arr, err := toArray(v)
		if err != nil {
			return fmt.Errorf("member %q: %w", name, err)
		}
		arrays[m] = arr
	}

	start := e.buf.AppendZeros(e.cfg.recSize)
	heapLen := e.heap.len()
	rollback := func() {
		e.buf.SetLength(start)
		e.heap.truncate(heapLen)
	}
	scratch := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(scratch)

	for _, m := range e.members.All() {
		data, ok := arrays[m]
		if !ok {
			if m.Kind != format.KindString {
				continue
			}
			// unset strings still need heap entries of their own
			var err error
			if data, err = array.Factory(format.KindString, m.Shape...); err != nil {
				rollback()
				return err
			}
		}

		b, err := appendMember(scratch.B[:0], e.cfg.engine, m, data, e.heap.add)
		if err != nil {
			rollback()
			return err
		}
		copy(e.buf.B[start+m.DataParam:], b)
		scratch.B = b
	}
	e.records++

	return nil
}

// Records returns the number of records added.
func (e *Encoder) Records() int { return e.records }

// ArrayOptions returns the options that decode the finished payload with
// NewArrayStructureBB: byte order, record size, heap and compression.
func (e *Encoder) ArrayOptions() []BBOption {
	opts := []BBOption{
		WithByteOrder(e.cfg.engine),
		WithHeap(e.heap.snapshot()),
		WithCompression(e.cfg.compression),
	}
	if e.cfg.recSize > 0 {
		opts = append(opts, WithRecordSize(e.cfg.recSize))
	}

	return opts
}

// Finish returns the encoded payload, compressed if configured, and releases
// the encoder's buffer. The encoder cannot be used afterwards.
func (e *Encoder) Finish() ([]byte, error) {
	if e.finished {
		return nil, fmt.Errorf("%w: encoder already finished", errs.ErrIllegalArgument)
	}
	e.finished = true
	defer func() {
		pool.PutPayloadBuffer(e.buf)
		e.buf = nil
	}()

	e.stats = compress.CompressionStats{Algorithm: e.cfg.compression, OriginalSize: e.buf.Len()}

	if e.cfg.compression == format.CompressionNone {
		out := make([]byte, e.buf.Len())
		copy(out, e.buf.Bytes())
		e.stats.CompressedSize = len(out)

		return out, nil
	}

	began := time.Now()
	payload, err := e.codec.Compress(e.buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to compress structure payload: %w", err)
	}
	e.stats.Duration = time.Since(began)
	e.stats.CompressedSize = len(payload)

	return payload, nil
}

// Stats describes the payload compression done by Finish.
func (e *Encoder) Stats() compress.CompressionStats { return e.stats }
