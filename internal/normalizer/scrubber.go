package normalizer

import "strings"

// Scrub removes tabs, then trims surrounding whitespace, then removes semicolons.
// The order matters: "\tFoo\t " becomes "Foo".
func Scrub(s string) string {
	s = strings.ReplaceAll(s, "\t", "")
	s = strings.TrimSpace(s)

	return strings.ReplaceAll(s, ";", "")
}

// ScrubValue scrubs strings and returns every other value unchanged.
func ScrubValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	return Scrub(s)
}
