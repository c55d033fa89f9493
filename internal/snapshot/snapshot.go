// Package snapshot holds the immutable in-memory model of a database's
// user-defined schema objects: its name, generation timestamp, and the
// set of schema objects the Catalog Reader and Object Scripter produced
// (or that were loaded from a persisted snapshot document).
package snapshot

import (
	"fmt"
	"strings"
	"time"
)

// Kind tags a schema object with its catalog kind. Kind drives creation
// priority, drop priority, DDL shape, and whether CREATE OR ALTER
// substitution applies.
type Kind int

const (
	Table Kind = iota
	View
	StoredProcedure
	Function
)

func (k Kind) String() string {
	switch k {
	case Table:
		return "Table"
	case View:
		return "View"
	case StoredProcedure:
		return "StoredProcedure"
	case Function:
		return "Function"
	default:
		return "Unknown"
	}
}

// ParseKind is the inverse of Kind.String, used when deserializing a
// snapshot document.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "Table":
		return Table, nil
	case "View":
		return View, nil
	case "StoredProcedure":
		return StoredProcedure, nil
	case "Function":
		return Function, nil
	default:
		return 0, fmt.Errorf("unknown object kind %q", s)
	}
}

// CreatePriority orders kinds for create emission: tables first, then
// functions, views, procedures. Low value = earlier.
func (k Kind) CreatePriority() int {
	switch k {
	case Table:
		return 0
	case Function:
		return 1
	case View:
		return 2
	case StoredProcedure:
		return 3
	default:
		return 99
	}
}

// DropPriority orders kinds for drop emission: the reverse of dependency
// order — views first, tables last. Low value = earlier.
func (k Kind) DropPriority() int {
	switch k {
	case View:
		return 0
	case StoredProcedure:
		return 1
	case Function:
		return 2
	case Table:
		return 3
	default:
		return 99
	}
}

// DDLKeyword is the keyword used in DROP/CREATE OR ALTER statements for
// this kind. Any other kind is a programming error at the call site.
func (k Kind) DDLKeyword() (string, bool) {
	switch k {
	case Table:
		return "TABLE", true
	case View:
		return "VIEW", true
	case StoredProcedure:
		return "PROCEDURE", true
	case Function:
		return "FUNCTION", true
	default:
		return "", false
	}
}

// Object is the atomic unit of a snapshot.
type Object struct {
	Kind         Kind
	Schema       string
	Name         string
	Definition   string
	Dependencies []string // dependency keys, see Key
}

// Identifier renders "[schema].[name]", escaping "]" by doubling it.
func (o Object) Identifier() string {
	return QuoteIdent(o.Schema) + "." + QuoteIdent(o.Name)
}

// QuoteIdent brackets a single identifier part, doubling any "]" inside.
func QuoteIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// Key returns "{kind}:{schema}.{name}", case-insensitively comparable.
// The form returned here lowercases schema/name so two Key() calls for
// the "same" object produce identical map keys regardless of the
// catalog's reported case; callers compare keys by plain equality.
func (o Object) Key() string {
	return Key(o.Kind, o.Schema, o.Name)
}

// Key builds the dependency-key form for any (kind, schema, name) triple,
// independent of a constructed Object. Used by the scripter when
// recording foreign-key dependencies and, through Object.Key, by the
// orderer/differ when looking keys up in a snapshot's object map.
func Key(kind Kind, schema, name string) string {
	return fmt.Sprintf("%s:%s.%s", kind, strings.ToLower(schema), strings.ToLower(name))
}

// Snapshot is an immutable projection of a database's schema objects.
type Snapshot struct {
	DatabaseName   string
	GeneratedAtUTC time.Time
	Objects        []Object
}

// ByKey indexes the snapshot's objects by their Key(), case-insensitively.
// Later objects with a colliding key overwrite earlier ones; catalog
// readers are expected not to produce duplicate keys within one snapshot
// (invariant 1 in §3 of the spec).
func (s Snapshot) ByKey() map[string]Object {
	m := make(map[string]Object, len(s.Objects))
	for _, o := range s.Objects {
		m[o.Key()] = o
	}
	return m
}
