package composer

import (
	"testing"
	"time"

	"github.com/peopleworks/SqlSchemaDiff/internal/differ"
	"github.com/peopleworks/SqlSchemaDiff/internal/snapshot"
	"github.com/stretchr/testify/assert"
)

func TestComposeHeaderAlwaysPresent(t *testing.T) {
	when := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	out := Compose("Src", "Tgt", when, differ.Result{})
	assert.Contains(t, out, "-- SQLDiff source: [Src]")
	assert.Contains(t, out, "-- SQLDiff target: [Tgt]")
	assert.Contains(t, out, "-- Generated (UTC): 2026-01-02 03:04:05")
	assert.NotContains(t, out, "-- Drops")
	assert.NotContains(t, out, "-- Creates/Alters")
}

func TestComposeOmitsEmptySections(t *testing.T) {
	out := Compose("Src", "Tgt", time.Now(), differ.Result{Drops: []string{"DROP TABLE [dbo].[T];\nGO\n"}})
	assert.Contains(t, out, "-- Drops")
	assert.NotContains(t, out, "-- Creates/Alters")
}

func TestComposeOrdersCreates(t *testing.T) {
	parent := snapshot.Object{Kind: snapshot.Table, Schema: "dbo", Name: "Parent"}
	child := snapshot.Object{Kind: snapshot.Table, Schema: "dbo", Name: "Child", Dependencies: []string{parent.Key()}}

	result := differ.Result{
		PendingCreates: []differ.PendingCreate{
			{Object: child, Statement: "CREATE TABLE Child\nGO\n"},
			{Object: parent, Statement: "CREATE TABLE Parent\nGO\n"},
		},
	}
	out := Compose("Src", "Tgt", time.Now(), result)
	assert.Less(t, indexOf(out, "Parent"), indexOf(out, "Child"))
}

func TestComposeIncludesCreateNotes(t *testing.T) {
	result := differ.Result{CreateNotes: []string{"-- WARNING: skipped\n"}}
	out := Compose("Src", "Tgt", time.Now(), result)
	assert.Contains(t, out, "-- Creates/Alters")
	assert.Contains(t, out, "WARNING: skipped")
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
