// Package catalog pulls rows from system catalogs (tables, columns,
// constraints, indexes, programmable objects, and dependency edges) for
// a SQL-Server-family database. Building a full snapshot.Snapshot from
// those rows is done by internal/extract. It never constructs DDL text
// itself — that is the Object Scripter's job (internal/scripter).
package catalog

import (
	"fmt"

	"github.com/peopleworks/SqlSchemaDiff/internal/snapshot"
)

// TableMeta identifies a table: its catalog object id, schema and name.
type TableMeta struct {
	ObjectID int64
	Schema   string
	Name     string
}

// Column is one sys.columns row joined with type, identity, and default
// metadata, per §4.2.
type Column struct {
	Ordinal           int
	Name              string
	TypeSchema        string
	TypeName          string
	UserDefinedType   bool
	MaxLength         int
	Precision         int
	Scale             int
	Nullable          bool
	Identity          bool
	Computed          bool
	Collation         string
	RowGUIDCol        bool
	ComputedExpr      string
	Persisted         bool
	DefaultName       string
	DefaultExpr       string
	IdentitySeed      string
	IdentityIncrement string
}

// KeyConstraint is a PRIMARY KEY or UNIQUE constraint backed by an index.
type KeyConstraint struct {
	Name          string
	KindCode      string // "PK" or "UQ"
	IndexID       int
	IndexTypeDesc string // e.g. "CLUSTERED", "NONCLUSTERED"
}

// ForeignKey is one sys.foreign_keys row.
type ForeignKey struct {
	Name              string
	RefSchema         string
	RefTable          string
	DeleteAction      string // e.g. "NO_ACTION", "CASCADE", "SET_NULL", "SET_DEFAULT"
	UpdateAction      string
	NotForReplication bool
	NotTrusted        bool // is_not_trusted
	Disabled          bool
}

// ForeignKeyColumn maps one parent column to one referenced column within
// a foreign key, in ordinal order.
type ForeignKeyColumn struct {
	ParentColumn     string
	ReferencedColumn string
	Ordinal          int
}

// CheckConstraint is one sys.check_constraints row.
type CheckConstraint struct {
	Name              string
	Expression        string
	NotForReplication bool
	NotTrusted        bool
	Disabled          bool
}

// Index is a non-constraint index (not backing a PK/UQ constraint).
type Index struct {
	IndexID   int
	Name      string
	Unique    bool
	TypeDesc  string
	Filter    string
	HasFilter bool
	Disabled  bool
}

// IndexColumn is one sys.index_columns row for an index.
type IndexColumn struct {
	Name            string
	KeyOrdinal      int
	Descending      bool
	Included        bool
	TiebreakOrdinal int
}

// ProgrammableKind mirrors the catalog kind codes this reader understands.
type ProgrammableKind int

const (
	KindView ProgrammableKind = iota
	KindProcedure
	KindFunction
)

// Programmable is a view, stored procedure, or scalar/inline/table
// function: its identity and raw module body text.
type Programmable struct {
	ObjectID int64
	Kind     snapshot.Kind
	Schema   string
	Name     string
	Body     string // stripped of surrounding whitespace
}

// ResolveKindCode maps a sys.objects.type code to a snapshot.Kind per
// §4.2's table: U->Table, V->View, P->StoredProcedure,
// FN|IF|TF|FS|FT->Function. Any other code is an error — unknown codes
// fail fast rather than being silently dropped.
func ResolveKindCode(code string) (snapshot.Kind, error) {
	switch code {
	case "U":
		return snapshot.Table, nil
	case "V":
		return snapshot.View, nil
	case "P":
		return snapshot.StoredProcedure, nil
	case "FN", "IF", "TF", "FS", "FT":
		return snapshot.Function, nil
	default:
		return 0, fmt.Errorf("unsupported catalog object type code %q", code)
	}
}
