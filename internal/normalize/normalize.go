// Package normalize reduces object definition text to a canonical form so
// two definitions can be compared for semantic equality while ignoring
// whitespace and letter-case differences.
package normalize

import "strings"

// Definition collapses line endings and runs of whitespace to single
// spaces, trims the result, and uppercases it. Empty or whitespace-only
// input yields the empty string.
//
// This treats whitespace and case as insignificant everywhere, including
// inside string literals — a known imprecision, not guarded against here.
func Definition(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\v' || r == '\f' {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}

	return strings.ToUpper(strings.TrimSpace(b.String()))
}

// Equal reports whether two definitions are equal under Definition.
func Equal(a, b string) bool {
	return Definition(a) == Definition(b)
}
