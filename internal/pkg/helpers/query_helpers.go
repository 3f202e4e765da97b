package helpers

import (
	"strings"
	"unicode"
)

// NormalizeQuery prepares free-text search input before it reaches the query index.
//
// Input containing a digit is treated as a course code and loses all of its
// whitespace ("CMSC 1 31" becomes "CMSC131"). Whatever whitespace remains is
// collapsed to single spaces and trimmed. Applying it twice yields the same string.
func NormalizeQuery(raw string) string {
	if strings.IndexFunc(raw, unicode.IsDigit) >= 0 {
		raw = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, raw)
	}

	return strings.Join(strings.Fields(raw), " ")
}
