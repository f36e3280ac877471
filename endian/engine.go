// Package endian provides byte order utilities for decoding structure records.
//
// An EndianEngine combines encoding/binary's ByteOrder and AppendByteOrder so a
// single value can both decode member bytes in place and append encoded members
// to a growing record buffer.
//
// # Byte order precedence
//
// A record array carries the byte order of its buffer. Individual members may
// carry an override in their data object slot; Resolve picks the override when
// one is present and falls back to the buffer order otherwise:
//
//	engine := endian.Resolve(member.DataObject, arrayEngine)
//	v := engine.Uint32(buf[off : off+4])
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. On a little-endian host the low byte (0x00) comes first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetNativeEngine returns the engine matching the host byte order.
func GetNativeEngine() EndianEngine {
	if CheckEndianness() == binary.LittleEndian {
		return binary.LittleEndian
	}

	return binary.BigEndian
}

// Override extracts a byte order override from a member's data object.
//
// The data object may hold an EndianEngine directly or a plain binary.ByteOrder
// equal to one of the standard orders. Anything else is not an override.
func Override(dataObject any) (EndianEngine, bool) {
	switch v := dataObject.(type) {
	case nil:
		return nil, false
	case EndianEngine:
		return v, true
	case binary.ByteOrder:
		switch v.String() {
		case binary.LittleEndian.String():
			return binary.LittleEndian, true
		case binary.BigEndian.String():
			return binary.BigEndian, true
		}
	}

	return nil, false
}

// Resolve returns the override carried by dataObject, or fallback when there is none.
func Resolve(dataObject any, fallback EndianEngine) EndianEngine {
	if engine, ok := Override(dataObject); ok {
		return engine
	}

	return fallback
}

// Name returns "little" or "big" for the standard engines, and the engine's
// String() otherwise.
func Name(engine EndianEngine) string {
	switch engine {
	case binary.LittleEndian:
		return "little"
	case binary.BigEndian:
		return "big"
	case nil:
		return "none"
	default:
		return engine.String()
	}
}
