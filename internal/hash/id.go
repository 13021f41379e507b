package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given key name. Key directories map these
// IDs to entries for O(1) lookup.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Checksum computes the xxHash64 of a record payload, stored in the record
// trailer for integrity verification.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
