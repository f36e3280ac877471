package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	require := require.New(t)

	result := CheckEndianness()

	var testValue uint16 = 0x0102
	testBytes := (*[2]byte)(unsafe.Pointer(&testValue))

	switch testBytes[0] {
	case 0x01:
		require.Equal(binary.BigEndian, result)
	case 0x02:
		require.Equal(binary.LittleEndian, result)
	default:
		require.Failf("Unexpected byte value", "got: %v", testBytes[0])
	}
}

func TestNativeEngine(t *testing.T) {
	engine := GetNativeEngine()

	if CheckEndianness() == binary.LittleEndian {
		require.Equal(t, GetLittleEndianEngine(), engine)
	} else {
		require.Equal(t, GetBigEndianEngine(), engine)
	}
	require.Equal(t, engine.String(), CheckEndianness().String())
}

func TestEngines(t *testing.T) {
	little := GetLittleEndianEngine()
	big := GetBigEndianEngine()

	require.Implements(t, (*EndianEngine)(nil), little)
	require.Implements(t, (*EndianEngine)(nil), big)

	var v uint32 = 0x01020304
	lb := make([]byte, 4)
	bb := make([]byte, 4)
	little.PutUint32(lb, v)
	big.PutUint32(bb, v)

	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, lb)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, bb)
	require.Equal(t, v, little.Uint32(lb))
	require.Equal(t, v, big.Uint32(bb))

	require.Equal(t, bb, big.AppendUint32(nil, v))
}

func TestOverride(t *testing.T) {
	tests := []struct {
		name   string
		object any
		want   EndianEngine
		ok     bool
	}{
		{"nil", nil, nil, false},
		{"little engine", binary.LittleEndian, binary.LittleEndian, true},
		{"big engine", binary.BigEndian, binary.BigEndian, true},
		{"unrelated string", "big", nil, false},
		{"unrelated int", 42, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Override(tt.object)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	little := GetLittleEndianEngine()
	big := GetBigEndianEngine()

	require.Equal(t, big, Resolve(nil, big))
	require.Equal(t, little, Resolve(little, big))
	require.Equal(t, big, Resolve(big, little))
	require.Equal(t, little, Resolve(struct{}{}, little))
}

func TestName(t *testing.T) {
	require.Equal(t, "little", Name(GetLittleEndianEngine()))
	require.Equal(t, "big", Name(GetBigEndianEngine()))
	require.Equal(t, "none", Name(nil))
}
