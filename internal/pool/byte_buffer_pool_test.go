package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer(t *testing.T) {
	t.Run("NewByteBuffer", func(t *testing.T) {
		bb := NewByteBuffer(64)
		require.Equal(t, 0, bb.Len())
		require.Equal(t, 64, cap(bb.B))
		require.Empty(t, bb.Bytes())
	})

	t.Run("AppendZerosGrows", func(t *testing.T) {
		bb := NewByteBuffer(2)
		off := bb.AppendZeros(3)
		require.Equal(t, 0, off)
		require.Equal(t, []byte{0, 0, 0}, bb.Bytes())
	})

	t.Run("SetLength", func(t *testing.T) {
		bb := NewByteBuffer(8)
		bb.SetLength(4)
		require.Equal(t, 4, bb.Len())
		bb.SetLength(1)
		require.Equal(t, 1, bb.Len())

		require.Panics(t, func() { bb.SetLength(9) })
		require.Panics(t, func() { bb.SetLength(-1) })
	})

	t.Run("GrowKeepsContent", func(t *testing.T) {
		bb := NewByteBuffer(4)
		bb.B = append(bb.B, []byte{9, 8, 7}...)
		bb.Grow(100)
		require.GreaterOrEqual(t, cap(bb.B)-bb.Len(), 100)
		require.Equal(t, []byte{9, 8, 7}, bb.Bytes())
	})

	t.Run("GrowNoopWithCapacity", func(t *testing.T) {
		bb := NewByteBuffer(32)
		bb.Grow(16)
		require.Equal(t, 32, cap(bb.B))
	})

	t.Run("AppendZerosClearsRecycledMemory", func(t *testing.T) {
		bb := NewByteBuffer(8)
		bb.B = append(bb.B, []byte{1, 1, 1, 1, 1, 1}...)
		bb.SetLength(2)

		off := bb.AppendZeros(4)
		require.Equal(t, 2, off)
		require.Equal(t, []byte{1, 1, 0, 0, 0, 0}, bb.Bytes())
	})

	t.Run("Reset", func(t *testing.T) {
		bb := NewByteBuffer(8)
		bb.B = append(bb.B, []byte{1, 2}...)
		bb.Reset()
		require.Equal(t, 0, bb.Len())
		require.Equal(t, 8, cap(bb.B))
	})
}

func TestByteBufferPool(t *testing.T) {
	t.Run("GetReturnsEmptyBuffer", func(t *testing.T) {
		p := NewByteBufferPool(16, 0)
		bb := p.Get()
		require.NotNil(t, bb)
		require.Equal(t, 0, bb.Len())
		require.Equal(t, 16, cap(bb.B))

		bb.B = append(bb.B, []byte("abc")...)
		p.Put(bb)

		again := p.Get()
		require.Equal(t, 0, again.Len())
	})

	t.Run("PutNil", func(t *testing.T) {
		p := NewByteBufferPool(16, 0)
		require.NotPanics(t, func() { p.Put(nil) })
	})

	t.Run("DropsOversizedBuffers", func(t *testing.T) {
		p := NewByteBufferPool(4, 8)
		bb := p.Get()
		bb.Grow(64)
		require.NotPanics(t, func() { p.Put(bb) })
	})

	t.Run("DefaultPools", func(t *testing.T) {
		rb := GetRecordBuffer()
		require.Equal(t, 0, rb.Len())
		require.GreaterOrEqual(t, cap(rb.B), RecordBufferDefaultSize)
		PutRecordBuffer(rb)

		pb := GetPayloadBuffer()
		require.Equal(t, 0, pb.Len())
		require.GreaterOrEqual(t, cap(pb.B), PayloadBufferDefaultSize)
		PutPayloadBuffer(pb)
	})
}

func BenchmarkRecordBuffer(b *testing.B) {
	member := []byte{0, 0, 0, 1, 0, 0, 0, 2}
	b.ReportAllocs()
	for b.Loop() {
		bb := GetRecordBuffer()
		bb.B = append(bb.B, member...)
		PutRecordBuffer(bb)
	}
}
