// Package scripter rebuilds deterministic DDL text for catalog entities:
// tables (with columns, keys, foreign keys, checks, indexes), and the raw
// module bodies of views, procedures, and functions.
package scripter

import "strings"

// BatchSeparator is the line-level token that splits a multi-statement
// script into executor-sized chunks.
const BatchSeparator = "GO"

// QuoteIdent brackets a single identifier part, doubling any "]" inside.
func QuoteIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// QuoteQualified brackets a schema-qualified identifier: "[schema].[name]".
func QuoteQualified(schema, name string) string {
	return QuoteIdent(schema) + "." + QuoteIdent(name)
}

// EnsureTrailingBatch appends a batch-separator line to s unless s
// already ends with one, so callers never duplicate it.
func EnsureTrailingBatch(s string) string {
	trimmed := strings.TrimRight(s, "\n")
	lines := strings.Split(trimmed, "\n")
	if len(lines) > 0 && strings.EqualFold(strings.TrimSpace(lines[len(lines)-1]), BatchSeparator) {
		return trimmed + "\n"
	}
	return trimmed + "\n" + BatchSeparator + "\n"
}
