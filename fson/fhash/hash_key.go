package fhash

import (
	"github.com/samber/lo"
)

// HashKey maps a column key to a stable 32-bit identifier. The same key
// always hashes to the same identifier within and across parses, which is
// what lets a field be correlated across sibling array elements.
func HashKey(s string) int32 {
	return lo.Reduce(
		[]byte(s),
		func(result int32, b byte, _ int) int32 {
			return result*53 + int32(b)
		},
		0,
	)
}
