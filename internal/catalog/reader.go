package catalog

import "context"

// Reader is the abstraction over a single open database connection's
// catalog. Per §5, a Reader is not concurrency-safe relative to itself:
// there is exactly one caller active on it at any time, and its queries
// run as a cooperative, cancellable sequence.
type Reader interface {
	// ListTables returns object id, schema, and name for every user table.
	ListTables(ctx context.Context) ([]TableMeta, error)

	Columns(ctx context.Context, t TableMeta) ([]Column, error)
	KeyConstraints(ctx context.Context, t TableMeta) ([]KeyConstraint, error)
	ForeignKeys(ctx context.Context, t TableMeta) ([]ForeignKey, error)
	ForeignKeyColumns(ctx context.Context, t TableMeta, fkName string) ([]ForeignKeyColumn, error)
	CheckConstraints(ctx context.Context, t TableMeta) ([]CheckConstraint, error)
	Indexes(ctx context.Context, t TableMeta) ([]Index, error)
	IndexColumns(ctx context.Context, t TableMeta, indexID int) ([]IndexColumn, error)

	// ListProgrammables returns every view, procedure, and
	// scalar/inline/table function, with its module body trimmed of
	// surrounding whitespace.
	ListProgrammables(ctx context.Context) ([]Programmable, error)

	// DependencyEdges returns, for every referencing object id, the set
	// of dependency keys (already resolved via ResolveKindCode) it
	// references among supported-kind user objects.
	DependencyEdges(ctx context.Context) (map[int64]map[string]struct{}, error)

	Close() error
}
