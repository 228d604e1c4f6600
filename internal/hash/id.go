package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
//
// The reader uses it to key the texture path lookup table; collisions are
// resolved by comparing the actual paths.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}
