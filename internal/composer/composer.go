// Package composer assembles the final migration script text from a
// diff result: a header identifying source/target databases and the
// generation time, a drops section, and a creates/alters section whose
// pending creates Compose linearizes with the Dependency Orderer.
package composer

import (
	"strings"
	"time"

	"github.com/peopleworks/SqlSchemaDiff/internal/differ"
	"github.com/peopleworks/SqlSchemaDiff/internal/orderer"
)

const timestampLayout = "2006-01-02 15:04:05"

// Compose renders the full script text for a diff result.
func Compose(sourceDB, targetDB string, generatedAtUTC time.Time, result differ.Result) string {
	var b strings.Builder

	b.WriteString("-- SQLDiff source: [")
	b.WriteString(sourceDB)
	b.WriteString("]\n-- SQLDiff target: [")
	b.WriteString(targetDB)
	b.WriteString("]\n-- Generated (UTC): ")
	b.WriteString(generatedAtUTC.UTC().Format(timestampLayout))
	b.WriteString("\n")

	if len(result.Drops) > 0 {
		b.WriteString("\n-- Drops\n")
		for _, d := range result.Drops {
			b.WriteString(d)
		}
	}

	creates := orderer.Order(result.PendingCreates)
	if len(creates) > 0 || len(result.CreateNotes) > 0 {
		b.WriteString("\n-- Creates/Alters\n")
		for _, c := range creates {
			b.WriteString(c)
		}
		for _, n := range result.CreateNotes {
			b.WriteString(n)
		}
	}

	return b.String()
}
