package util

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// ContentHash returns the xxhash64 of data as a fixed-width hex string
func ContentHash(data []byte) string {
	s := strconv.FormatUint(xxhash.Sum64(data), 16)
	for len(s) < 16 {
		s = "0" + s
	}
	return s
}
