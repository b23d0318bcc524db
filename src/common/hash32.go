package common

import "hash/fnv"

// Hash32 reduces arbitrary bytes to a 32-bit value with FNV-1a. It is how
// participant addresses are turned into node IDs.
func Hash32(data []byte) uint32 {
	h := fnv.New32a()

	h.Write(data)

	return h.Sum32()
}
