package differ

import (
	"testing"

	"github.com/peopleworks/SqlSchemaDiff/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(name, definition string) snapshot.Object {
	return snapshot.Object{Kind: snapshot.Table, Schema: "dbo", Name: name, Definition: definition}
}

func view(name, definition string) snapshot.Object {
	return snapshot.Object{Kind: snapshot.View, Schema: "dbo", Name: name, Definition: definition}
}

func TestDiffAddedObjectBecomesPendingCreate(t *testing.T) {
	source := snapshot.Snapshot{Objects: []snapshot.Object{table("T", "CREATE TABLE [dbo].[T] (\n    [Id] int\n);\nGO\n")}}
	target := snapshot.Snapshot{}

	result, err := Diff(source, target, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	require.Len(t, result.PendingCreates, 1)
	assert.Contains(t, result.PendingCreates[0].Statement, "CREATE TABLE")
}

func TestDiffIdenticalObjectSkippedSilently(t *testing.T) {
	def := "CREATE TABLE [dbo].[T] (\n    [Id] int\n);\nGO\n"
	source := snapshot.Snapshot{Objects: []snapshot.Object{table("T", def)}}
	target := snapshot.Snapshot{Objects: []snapshot.Object{table("T", def)}}

	result, err := Diff(source, target, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 0, result.Changed)
	assert.Empty(t, result.PendingCreates)
}

func TestDiffIdenticalObjectIgnoresWhitespaceAndCase(t *testing.T) {
	source := snapshot.Snapshot{Objects: []snapshot.Object{view("V", "create view [dbo].[V] as select 1")}}
	target := snapshot.Snapshot{Objects: []snapshot.Object{view("V", "CREATE  VIEW  [dbo].[V]  AS  SELECT  1")}}

	result, err := Diff(source, target, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Changed)
}

func TestDiffChangedProgrammableRewritesCreateOrAlter(t *testing.T) {
	source := snapshot.Snapshot{Objects: []snapshot.Object{view("V", "CREATE VIEW [dbo].[V] AS SELECT 2")}}
	target := snapshot.Snapshot{Objects: []snapshot.Object{view("V", "CREATE VIEW [dbo].[V] AS SELECT 1")}}

	result, err := Diff(source, target, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Changed)
	require.Len(t, result.PendingCreates, 1)
	assert.Contains(t, result.PendingCreates[0].Statement, "CREATE OR ALTER VIEW")
}

func TestDiffChangedTableWithoutRebuildIsSkippedWithNote(t *testing.T) {
	source := snapshot.Snapshot{Objects: []snapshot.Object{table("T", "CREATE TABLE [dbo].[T] (\n    [Id] int,\n    [Extra] int\n);\nGO\n")}}
	target := snapshot.Snapshot{Objects: []snapshot.Object{table("T", "CREATE TABLE [dbo].[T] (\n    [Id] int\n);\nGO\n")}}

	result, err := Diff(source, target, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Changed)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.PendingCreates)
	assert.Empty(t, result.Drops)
	require.Len(t, result.CreateNotes, 1)
	assert.Contains(t, result.CreateNotes[0], "allow-table-rebuild")
}

func TestDiffChangedTableWithRebuildDropsAndRecreates(t *testing.T) {
	source := snapshot.Snapshot{Objects: []snapshot.Object{table("T", "CREATE TABLE [dbo].[T] (\n    [Id] int,\n    [Extra] int\n);\nGO\n")}}
	target := snapshot.Snapshot{Objects: []snapshot.Object{table("T", "CREATE TABLE [dbo].[T] (\n    [Id] int\n);\nGO\n")}}

	result, err := Diff(source, target, Options{AllowTableRebuild: true})
	require.NoError(t, err)
	require.Len(t, result.Drops, 1)
	assert.Contains(t, result.Drops[0], "DROP TABLE")
	require.Len(t, result.PendingCreates, 1)
	assert.Empty(t, result.CreateNotes)
}

func TestDiffAddOnlySkipsChanges(t *testing.T) {
	source := snapshot.Snapshot{Objects: []snapshot.Object{view("V", "CREATE VIEW [dbo].[V] AS SELECT 2")}}
	target := snapshot.Snapshot{Objects: []snapshot.Object{view("V", "CREATE VIEW [dbo].[V] AS SELECT 1")}}

	result, err := Diff(source, target, Options{AddOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Changed)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.PendingCreates)
}

func TestDiffRemovedObjectGatedByIncludeDrops(t *testing.T) {
	source := snapshot.Snapshot{}
	target := snapshot.Snapshot{Objects: []snapshot.Object{view("V", "CREATE VIEW [dbo].[V] AS SELECT 1")}}

	result, err := Diff(source, target, Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Drops)
	assert.Equal(t, 0, result.Removed)

	result, err = Diff(source, target, Options{IncludeDrops: true})
	require.NoError(t, err)
	require.Len(t, result.Drops, 1)
	assert.Contains(t, result.Drops[0], "DROP VIEW")
	assert.Equal(t, 1, result.Removed)
}

func TestDiffRemovedTableRequiresIncludeTableDrops(t *testing.T) {
	source := snapshot.Snapshot{}
	target := snapshot.Snapshot{Objects: []snapshot.Object{table("T", "CREATE TABLE [dbo].[T] (\n    [Id] int\n);\nGO\n")}}

	result, err := Diff(source, target, Options{IncludeDrops: true})
	require.NoError(t, err)
	require.Len(t, result.Drops, 1)
	assert.Contains(t, result.Drops[0], "WARNING")
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Removed)

	result, err = Diff(source, target, Options{IncludeDrops: true, IncludeTableDrops: true})
	require.NoError(t, err)
	require.Len(t, result.Drops, 1)
	assert.Contains(t, result.Drops[0], "DROP TABLE")
	assert.Equal(t, 1, result.Removed)
}

func TestDiffIncludeDropsIgnoredWithAddOnly(t *testing.T) {
	source := snapshot.Snapshot{}
	target := snapshot.Snapshot{Objects: []snapshot.Object{view("V", "CREATE VIEW [dbo].[V] AS SELECT 1")}}

	result, err := Diff(source, target, Options{IncludeDrops: true, AddOnly: true})
	require.NoError(t, err)
	require.Len(t, result.Drops, 1)
	assert.Contains(t, result.Drops[0], "NOTE")
	assert.Equal(t, 0, result.Removed)
}
