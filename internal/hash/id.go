// Package hash derives the 64-bit IDs used to index structure members by name.
package hash

import "github.com/cespare/xxhash/v2"

// ID returns the xxHash64 of a member name.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}
