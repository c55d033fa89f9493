// Package batchsplit splits a composed script into the batches a SQL
// Server connection must execute separately, on lines that are solely
// the batch-separator token (optionally followed by a line comment).
package batchsplit

import (
	"regexp"
	"strings"
)

var goLine = regexp.MustCompile(`(?i)^\s*GO\s*(--.*)?$`)

// Split breaks script into batches on standalone GO lines. Batches that
// are empty or whitespace-only after trimming are dropped.
func Split(script string) []string {
	lines := strings.Split(script, "\n")

	var batches []string
	var current []string

	flush := func() {
		batch := strings.TrimSpace(strings.Join(current, "\n"))
		if batch != "" {
			batches = append(batches, batch)
		}
		current = current[:0]
	}

	for _, line := range lines {
		if goLine.MatchString(line) {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return batches
}
