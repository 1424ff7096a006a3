package ds

import (
	"strings"
)

// ConcatStrings joins the given parts with a single allocation,
// sized upfront from the total length of the parts.
func ConcatStrings(parts ...string) string {
	n := 0
	for _, part := range parts {
		n += len(part)
	}
	builder := strings.Builder{}
	builder.Grow(n)
	for _, part := range parts {
		builder.WriteString(part)
	}
	return builder.String()
}
