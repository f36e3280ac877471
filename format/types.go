package format

import "time"

type (
	DataKind        uint8
	CompressionType uint8
)

const (
	KindByte      DataKind = 0x1  // KindByte represents a signed 8-bit integer.
	KindUByte     DataKind = 0x2  // KindUByte represents an unsigned 8-bit integer.
	KindShort     DataKind = 0x3  // KindShort represents a signed 16-bit integer.
	KindUShort    DataKind = 0x4  // KindUShort represents an unsigned 16-bit integer.
	KindInt       DataKind = 0x5  // KindInt represents a signed 32-bit integer.
	KindUInt      DataKind = 0x6  // KindUInt represents an unsigned 32-bit integer.
	KindLong      DataKind = 0x7  // KindLong represents a signed 64-bit integer.
	KindULong     DataKind = 0x8  // KindULong represents an unsigned 64-bit integer.
	KindFloat     DataKind = 0x9  // KindFloat represents an IEEE 754 float32.
	KindDouble    DataKind = 0xA  // KindDouble represents an IEEE 754 float64.
	KindChar      DataKind = 0xB  // KindChar represents a single 8-bit character.
	KindBoolean   DataKind = 0xC  // KindBoolean represents a boolean.
	KindString    DataKind = 0xD  // KindString represents a variable length string.
	KindComplex   DataKind = 0xE  // KindComplex represents a complex128 value.
	KindDate      DataKind = 0xF  // KindDate represents a time.Time value.
	KindStructure DataKind = 0x10 // KindStructure represents a nested structure record.
	KindObject    DataKind = 0x11 // KindObject represents an arbitrary value.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (k DataKind) String() string {
	switch k {
	case KindByte:
		return "byte"
	case KindUByte:
		return "ubyte"
	case KindShort:
		return "short"
	case KindUShort:
		return "ushort"
	case KindInt:
		return "int"
	case KindUInt:
		return "uint"
	case KindLong:
		return "long"
	case KindULong:
		return "ulong"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindChar:
		return "char"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "String"
	case KindComplex:
		return "complex"
	case KindDate:
		return "date"
	case KindStructure:
		return "Structure"
	case KindObject:
		return "object"
	default:
		return "Unknown"
	}
}

// Size returns the number of bytes one element of the kind occupies inside a
// structure record. Strings occupy a 4-byte heap index. Kinds without a fixed
// record layout return 0.
func (k DataKind) Size() int {
	switch k {
	case KindByte, KindUByte, KindChar, KindBoolean:
		return 1
	case KindShort, KindUShort:
		return 2
	case KindInt, KindUInt, KindFloat, KindString:
		return 4
	case KindLong, KindULong, KindDouble:
		return 8
	default:
		return 0
	}
}

// IsUnsigned reports whether the kind is an unsigned integer.
func (k DataKind) IsUnsigned() bool {
	switch k {
	case KindUByte, KindUShort, KindUInt, KindULong:
		return true
	default:
		return false
	}
}

// IsIntegral reports whether the kind is a signed or unsigned integer.
func (k DataKind) IsIntegral() bool {
	switch k {
	case KindByte, KindUByte, KindShort, KindUShort, KindInt, KindUInt, KindLong, KindULong:
		return true
	default:
		return false
	}
}

// IsFloatingPoint reports whether the kind is float or double.
func (k DataKind) IsFloatingPoint() bool {
	return k == KindFloat || k == KindDouble
}

// IsNumeric reports whether the kind converts to and from float64 and int64.
// Char is numeric.
func (k DataKind) IsNumeric() bool {
	return k.IsIntegral() || k.IsFloatingPoint() || k == KindChar
}

// Signed returns the signed kind with the same width. Non-integral kinds are returned unchanged.
func (k DataKind) Signed() DataKind {
	switch k {
	case KindUByte:
		return KindByte
	case KindUShort:
		return KindShort
	case KindUInt:
		return KindInt
	case KindULong:
		return KindLong
	default:
		return k
	}
}

// KindOf returns the data kind that holds a Go value of v's type, or false if
// the type has no natural kind.
func KindOf(v any) (DataKind, bool) {
	switch v.(type) {
	case int8:
		return KindByte, true
	case uint8:
		return KindUByte, true
	case int16:
		return KindShort, true
	case uint16:
		return KindUShort, true
	case int32:
		return KindInt, true
	case uint32:
		return KindUInt, true
	case int64, int:
		return KindLong, true
	case uint64:
		return KindULong, true
	case float32:
		return KindFloat, true
	case float64:
		return KindDouble, true
	case bool:
		return KindBoolean, true
	case string:
		return KindString, true
	case complex128, complex64:
		return KindComplex, true
	case time.Time:
		return KindDate, true
	default:
		return 0, false
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
