// Package util collects small generic helpers shared across packages
// that need deterministic iteration over maps.
package util

import (
	"iter"
	"sort"
)

// CanonicalMapIter returns an iterator over m's entries in sorted key
// order, so callers building DDL text from a map get the same output
// on every run regardless of Go's randomized map iteration.
func CanonicalMapIter[T any](m map[string]T) iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}
