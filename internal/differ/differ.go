// Package differ computes the per-object verdict (add / change / remove
// / skip) between a source and target snapshot, emits drop statements
// directly, and produces a pending-create list for the Dependency
// Orderer to linearize before the Script Composer assembles the final
// text.
package differ

import (
	"fmt"
	"sort"
	"strings"

	"github.com/peopleworks/SqlSchemaDiff/internal/apperr"
	"github.com/peopleworks/SqlSchemaDiff/internal/normalize"
	"github.com/peopleworks/SqlSchemaDiff/internal/scripter"
	"github.com/peopleworks/SqlSchemaDiff/internal/snapshot"
)

// Options are the four diff-shaping flags from §4.4.
type Options struct {
	IncludeDrops      bool
	IncludeTableDrops bool
	AllowTableRebuild bool
	AddOnly           bool
}

// PendingCreate is a transient record awaiting topological placement:
// the object plus its fully rendered creation statement.
type PendingCreate struct {
	Object    snapshot.Object
	Statement string
}

// Result is the tallied output of a Diff call.
type Result struct {
	Drops          []string
	PendingCreates []PendingCreate
	// CreateNotes are comment lines destined for the creates section
	// directly, bypassing the Dependency Orderer — they have no DDL to
	// place, only a skip explanation (§4.4's "emit two comment lines
	// into the creates section").
	CreateNotes []string
	Added       int
	Changed     int
	Removed     int
	Skipped     int
}

// Diff compares source against target and returns the drop statements,
// pending creates, and tallies per §4.4.
func Diff(source, target snapshot.Snapshot, opts Options) (Result, error) {
	var result Result

	targetByKey := target.ByKey()
	sourceObjs := stableSort(source.Objects, func(o snapshot.Object) int { return o.Kind.CreatePriority() })

	for _, s := range sourceObjs {
		t, ok := targetByKey[s.Key()]
		switch {
		case !ok:
			stmt, err := renderCreate(s)
			if err != nil {
				return Result{}, err
			}
			result.PendingCreates = append(result.PendingCreates, PendingCreate{Object: s, Statement: stmt})
			result.Added++

		case normalize.Equal(s.Definition, t.Definition):
			// unchanged — skip silently

		default:
			result.Changed++
			switch {
			case opts.AddOnly:
				result.Skipped++

			case s.Kind == snapshot.Table:
				if opts.AllowTableRebuild {
					drop, err := renderDrop(s)
					if err != nil {
						return Result{}, err
					}
					result.Drops = append(result.Drops, drop)

					stmt, err := renderCreate(s)
					if err != nil {
						return Result{}, err
					}
					result.PendingCreates = append(result.PendingCreates, PendingCreate{Object: s, Statement: stmt})
				} else {
					result.Skipped++
					result.CreateNotes = append(result.CreateNotes, fmt.Sprintf(
						"-- WARNING: table %s changed but --allow-table-rebuild was not set; skipped.\n-- Pass --allow-table-rebuild to drop and recreate this table.\n",
						s.Identifier(),
					))
				}

			default:
				stmt, err := renderCreate(withCreateOrAlter(s))
				if err != nil {
					return Result{}, err
				}
				result.PendingCreates = append(result.PendingCreates, PendingCreate{Object: s, Statement: stmt})
			}
		}
	}

	if opts.IncludeDrops && !opts.AddOnly {
		targetObjs := stableSort(target.Objects, func(o snapshot.Object) int { return o.Kind.DropPriority() })
		sourceByKey := source.ByKey()

		for _, t := range targetObjs {
			if _, ok := sourceByKey[t.Key()]; ok {
				continue
			}
			if t.Kind == snapshot.Table && !opts.IncludeTableDrops {
				result.Skipped++
				result.Drops = append(result.Drops,
					fmt.Sprintf("-- WARNING: table %s exists only on target; skipped (pass --include-table-drops to drop it).\n", t.Identifier()))
				continue
			}
			drop, err := renderDrop(t)
			if err != nil {
				return Result{}, err
			}
			result.Drops = append(result.Drops, drop)
			result.Removed++
		}
	} else if opts.IncludeDrops && opts.AddOnly {
		result.Skipped++
		result.Drops = append(result.Drops, "-- NOTE: --include-drops was ignored because --add-only is set.\n")
	}

	return result, nil
}

// withCreateOrAlter returns a copy of a programmable object whose
// definition has had its leading CREATE rewritten to CREATE OR ALTER.
func withCreateOrAlter(o snapshot.Object) snapshot.Object {
	o.Definition = scripter.RewriteCreateOrAlter(o.Definition)
	return o
}

// renderCreate renders a pending-create statement for an object,
// terminated by a batch-separator line.
func renderCreate(o snapshot.Object) (string, error) {
	return scripter.EnsureTrailingBatch(o.Definition), nil
}

// renderDrop renders:
//
//	IF OBJECT_ID(N'<identifier>') IS NOT NULL
//	    DROP <KIND> <identifier>;
//	GO
func renderDrop(o snapshot.Object) (string, error) {
	keyword, ok := o.Kind.DDLKeyword()
	if !ok {
		return "", apperr.Composition(fmt.Sprintf("cannot render DROP for unsupported kind %v", o.Kind))
	}
	return fmt.Sprintf("IF OBJECT_ID(N'%s') IS NOT NULL\n    DROP %s %s;\nGO\n", o.Identifier(), keyword, o.Identifier()), nil
}

// stableSort returns objects ordered by (priority, case-insensitive
// key), matching §4.4's "create-priority then key" / "drop-priority then
// key" walk orders.
func stableSort(objs []snapshot.Object, priority func(snapshot.Object) int) []snapshot.Object {
	out := make([]snapshot.Object, len(objs))
	copy(out, objs)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := priority(out[i]), priority(out[j])
		if pi != pj {
			return pi < pj
		}
		return strings.Compare(strings.ToLower(out[i].Key()), strings.ToLower(out[j].Key())) < 0
	})
	return out
}
