// Package extract orchestrates a full snapshot extraction: it sequences
// the Catalog Reader's queries (tables first, then each table's
// sub-queries, then programmable objects, then dependency edges, per
// §5) and hands the results to the Object Scripter to build each
// snapshot.Object.
package extract

import (
	"context"
	"time"

	"github.com/peopleworks/SqlSchemaDiff/internal/catalog"
	"github.com/peopleworks/SqlSchemaDiff/internal/scripter"
	"github.com/peopleworks/SqlSchemaDiff/internal/snapshot"
	"github.com/peopleworks/SqlSchemaDiff/internal/util"
)

// Snapshot pulls a full snapshot from reader for the given database name.
// Per §5, extraction within a single connection is strictly sequential;
// the caller is responsible for running two Snapshot calls (source and
// target) concurrently on distinct Readers when both sides are needed.
// Any per-object extraction error is fatal for the whole snapshot — there
// is no partial-snapshot mode.
func Snapshot(ctx context.Context, reader catalog.Reader, databaseName string, now time.Time) (snapshot.Snapshot, error) {
	tables, err := reader.ListTables(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	objects := make([]snapshot.Object, 0, len(tables))
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return snapshot.Snapshot{}, err
		}

		input, err := gatherTable(ctx, reader, t)
		if err != nil {
			return snapshot.Snapshot{}, err
		}
		objects = append(objects, scripter.ScriptTable(input))
	}

	programmables, err := reader.ListProgrammables(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	edges, err := reader.DependencyEdges(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	for _, p := range programmables {
		var deps []string
		for k := range util.CanonicalMapIter(edges[p.ObjectID]) {
			deps = append(deps, k)
		}
		objects = append(objects, scripter.ScriptProgrammable(p, deps))
	}

	return snapshot.Snapshot{
		DatabaseName:   databaseName,
		GeneratedAtUTC: now.UTC(),
		Objects:        objects,
	}, nil
}

func gatherTable(ctx context.Context, reader catalog.Reader, t catalog.TableMeta) (scripter.TableInput, error) {
	columns, err := reader.Columns(ctx, t)
	if err != nil {
		return scripter.TableInput{}, err
	}

	keyConstraints, err := reader.KeyConstraints(ctx, t)
	if err != nil {
		return scripter.TableInput{}, err
	}
	keyConstraintColumns := make(map[string][]catalog.IndexColumn, len(keyConstraints))
	for _, kc := range keyConstraints {
		cols, err := reader.IndexColumns(ctx, t, kc.IndexID)
		if err != nil {
			return scripter.TableInput{}, err
		}
		keyConstraintColumns[kc.Name] = cols
	}

	foreignKeys, err := reader.ForeignKeys(ctx, t)
	if err != nil {
		return scripter.TableInput{}, err
	}
	foreignKeyColumns := make(map[string][]catalog.ForeignKeyColumn, len(foreignKeys))
	for _, fk := range foreignKeys {
		cols, err := reader.ForeignKeyColumns(ctx, t, fk.Name)
		if err != nil {
			return scripter.TableInput{}, err
		}
		foreignKeyColumns[fk.Name] = cols
	}

	checkConstraints, err := reader.CheckConstraints(ctx, t)
	if err != nil {
		return scripter.TableInput{}, err
	}

	indexes, err := reader.Indexes(ctx, t)
	if err != nil {
		return scripter.TableInput{}, err
	}
	indexColumns := make(map[string][]catalog.IndexColumn, len(indexes))
	for _, idx := range indexes {
		cols, err := reader.IndexColumns(ctx, t, idx.IndexID)
		if err != nil {
			return scripter.TableInput{}, err
		}
		indexColumns[idx.Name] = cols
	}

	return scripter.TableInput{
		Meta:                 t,
		Columns:              columns,
		KeyConstraints:       keyConstraints,
		KeyConstraintColumns: keyConstraintColumns,
		ForeignKeys:          foreignKeys,
		ForeignKeyColumns:    foreignKeyColumns,
		CheckConstraints:     checkConstraints,
		Indexes:              indexes,
		IndexColumns:         indexColumns,
	}, nil
}
