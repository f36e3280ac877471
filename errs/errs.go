// Package errs defines the sentinel errors shared by the marray packages.
//
// Errors are returned wrapped with call-site context; match them with errors.Is.
package errs

import "errors"

// Addressing errors.
var (
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	ErrRecordOutOfRange = errors.New("record number out of range")
	ErrIllegalArgument  = errors.New("illegal argument")
)

// Shape errors.
var (
	ErrInvalidShape  = errors.New("invalid shape: dimension sizes must be non-negative")
	ErrShapeMismatch = errors.New("shape mismatch")
)

// Schema lookup and construction errors.
var (
	ErrMemberNotFound    = errors.New("member not found in structure")
	ErrDuplicateMember   = errors.New("duplicate member name")
	ErrInvalidMemberName = errors.New("invalid member name")
	ErrMembersFrozen     = errors.New("structure members are frozen")
	ErrPositionsMismatch = errors.New("positions table length does not match record count")
	ErrBufferTooSmall    = errors.New("byte buffer too small for record layout")
	ErrUnsupportedKind   = errors.New("unsupported data kind")
)

// Access errors.
var (
	ErrKindMismatch        = errors.New("member data kind mismatch")
	ErrForbiddenConversion = errors.New("forbidden data kind conversion")
	ErrNotSupported        = errors.New("operation not supported")
)
