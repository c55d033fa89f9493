package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/microsoft/go-mssqldb"
)

// Connect opens a SQL Server connection and pings it with exponential
// backoff, tolerating the brief unavailability windows that show up right
// after a database comes online or a connection pool is recycled.
// Grounded on the retry-with-backoff idiom used for establishing storage
// connections elsewhere in the pack (a cenkalti/backoff-wrapped dial
// loop around db.PingContext).
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening connection: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second

	pingErr := backoff.Retry(func() error {
		err := db.PingContext(ctx)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}, backoff.WithContext(bo, ctx))
	if pingErr != nil {
		db.Close()
		return nil, fmt.Errorf("pinging connection: %w", pingErr)
	}

	return db, nil
}

// mssqlReader is the Reader implementation backed by a live *sql.DB,
// querying sys.* catalog views. Query shapes are grounded on the
// teacher's sys.columns/sys.indexes/sys.foreign_keys joins.
type mssqlReader struct {
	db *sql.DB
}

// NewReader wraps an open *sql.DB as a Reader.
func NewReader(db *sql.DB) Reader {
	return &mssqlReader{db: db}
}

func (r *mssqlReader) Close() error {
	return r.db.Close()
}

func (r *mssqlReader) ListTables(ctx context.Context) ([]TableMeta, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT o.object_id, s.name, o.name
FROM sys.objects o
JOIN sys.schemas s ON s.schema_id = o.schema_id
WHERE o.type = 'U'
ORDER BY s.name, o.name`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []TableMeta
	for rows.Next() {
		var t TableMeta
		if err := rows.Scan(&t.ObjectID, &t.Schema, &t.Name); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (r *mssqlReader) Columns(ctx context.Context, t TableMeta) ([]Column, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT
	c.column_id,
	c.name,
	ts.name AS type_schema,
	tp.name AS type_name,
	CASE WHEN tp.is_user_defined = 1 THEN 1 ELSE 0 END,
	c.max_length,
	c.precision,
	c.scale,
	c.is_nullable,
	c.is_identity,
	c.is_computed,
	c.collation_name,
	c.is_rowguidcol,
	cc.definition,
	ISNULL(cc.is_persisted, 0),
	OBJECT_NAME(c.default_object_id),
	OBJECT_DEFINITION(c.default_object_id),
	ic.seed_value,
	ic.increment_value
FROM sys.columns c
JOIN sys.types tp ON tp.user_type_id = c.user_type_id
JOIN sys.schemas ts ON ts.schema_id = tp.schema_id
LEFT JOIN sys.computed_columns cc ON cc.object_id = c.object_id AND cc.column_id = c.column_id
LEFT JOIN sys.identity_columns ic ON ic.object_id = c.object_id AND ic.column_id = c.column_id
WHERE c.object_id = @p1
ORDER BY c.column_id`, t.ObjectID)
	if err != nil {
		return nil, fmt.Errorf("columns of %s.%s: %w", t.Schema, t.Name, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var (
			col                                                                     Column
			userDefined                                                             int
			collation, computedExpr, defaultName, defaultExpr, seed, increment sql.NullString
		)
		if err := rows.Scan(
			&col.Ordinal, &col.Name, &col.TypeSchema, &col.TypeName, &userDefined,
			&col.MaxLength, &col.Precision, &col.Scale, &col.Nullable, &col.Identity,
			&col.Computed, &collation, &col.RowGUIDCol, &computedExpr, &col.Persisted,
			&defaultName, &defaultExpr, &seed, &increment,
		); err != nil {
			return nil, err
		}
		col.UserDefinedType = userDefined == 1
		if collation.Valid {
			col.Collation = collation.String
		}
		if computedExpr.Valid {
			col.ComputedExpr = computedExpr.String
		}
		if defaultName.Valid {
			col.DefaultName = defaultName.String
		}
		if defaultExpr.Valid {
			col.DefaultExpr = defaultExpr.String
		}
		if seed.Valid {
			col.IdentitySeed = seed.String
		}
		if increment.Valid {
			col.IdentityIncrement = increment.String
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func (r *mssqlReader) KeyConstraints(ctx context.Context, t TableMeta) ([]KeyConstraint, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT
	kc.name,
	kc.type,
	i.index_id,
	i.type_desc
FROM sys.key_constraints kc
JOIN sys.indexes i ON i.object_id = kc.parent_object_id AND i.index_id = kc.unique_index_id
WHERE kc.parent_object_id = @p1
ORDER BY kc.type, kc.name`, t.ObjectID)
	if err != nil {
		return nil, fmt.Errorf("key constraints of %s.%s: %w", t.Schema, t.Name, err)
	}
	defer rows.Close()

	var out []KeyConstraint
	for rows.Next() {
		var kc KeyConstraint
		if err := rows.Scan(&kc.Name, &kc.KindCode, &kc.IndexID, &kc.IndexTypeDesc); err != nil {
			return nil, err
		}
		kc.KindCode = strings.TrimSpace(kc.KindCode)
		out = append(out, kc)
	}
	return out, rows.Err()
}

func (r *mssqlReader) ForeignKeys(ctx context.Context, t TableMeta) ([]ForeignKey, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT
	f.name,
	rs.name,
	ro.name,
	f.delete_referential_action_desc,
	f.update_referential_action_desc,
	f.is_not_for_replication,
	f.is_not_trusted,
	f.is_disabled
FROM sys.foreign_keys f
JOIN sys.objects ro ON ro.object_id = f.referenced_object_id
JOIN sys.schemas rs ON rs.schema_id = ro.schema_id
WHERE f.parent_object_id = @p1
ORDER BY f.name`, t.ObjectID)
	if err != nil {
		return nil, fmt.Errorf("foreign keys of %s.%s: %w", t.Schema, t.Name, err)
	}
	defer rows.Close()

	var out []ForeignKey
	for rows.Next() {
		var fk ForeignKey
		if err := rows.Scan(&fk.Name, &fk.RefSchema, &fk.RefTable, &fk.DeleteAction,
			&fk.UpdateAction, &fk.NotForReplication, &fk.NotTrusted, &fk.Disabled); err != nil {
			return nil, err
		}
		out = append(out, fk)
	}
	return out, rows.Err()
}

func (r *mssqlReader) ForeignKeyColumns(ctx context.Context, t TableMeta, fkName string) ([]ForeignKeyColumn, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT
	COL_NAME(fc.parent_object_id, fc.parent_column_id),
	COL_NAME(fc.referenced_object_id, fc.referenced_column_id),
	fc.constraint_column_id
FROM sys.foreign_key_columns fc
JOIN sys.foreign_keys f ON f.object_id = fc.constraint_object_id
WHERE f.parent_object_id = @p1 AND f.name = @p2
ORDER BY fc.constraint_column_id`, t.ObjectID, fkName)
	if err != nil {
		return nil, fmt.Errorf("foreign key columns of %s on %s.%s: %w", fkName, t.Schema, t.Name, err)
	}
	defer rows.Close()

	var out []ForeignKeyColumn
	for rows.Next() {
		var c ForeignKeyColumn
		if err := rows.Scan(&c.ParentColumn, &c.ReferencedColumn, &c.Ordinal); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *mssqlReader) CheckConstraints(ctx context.Context, t TableMeta) ([]CheckConstraint, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT name, definition, is_not_for_replication, is_not_trusted, is_disabled
FROM sys.check_constraints
WHERE parent_object_id = @p1
ORDER BY name`, t.ObjectID)
	if err != nil {
		return nil, fmt.Errorf("check constraints of %s.%s: %w", t.Schema, t.Name, err)
	}
	defer rows.Close()

	var out []CheckConstraint
	for rows.Next() {
		var c CheckConstraint
		if err := rows.Scan(&c.Name, &c.Expression, &c.NotForReplication, &c.NotTrusted, &c.Disabled); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *mssqlReader) Indexes(ctx context.Context, t TableMeta) ([]Index, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT
	i.index_id,
	i.name,
	i.is_unique,
	i.type_desc,
	i.filter_definition,
	i.is_disabled
FROM sys.indexes i
WHERE i.object_id = @p1
	AND i.name IS NOT NULL
	AND i.is_primary_key = 0
	AND i.is_unique_constraint = 0
	AND i.type_desc IN ('CLUSTERED', 'NONCLUSTERED', 'NONCLUSTERED COLUMNSTORE', 'CLUSTERED COLUMNSTORE')
ORDER BY i.name`, t.ObjectID)
	if err != nil {
		return nil, fmt.Errorf("indexes of %s.%s: %w", t.Schema, t.Name, err)
	}
	defer rows.Close()

	var out []Index
	for rows.Next() {
		var idx Index
		var filter sql.NullString
		if err := rows.Scan(&idx.IndexID, &idx.Name, &idx.Unique, &idx.TypeDesc, &filter, &idx.Disabled); err != nil {
			return nil, err
		}
		if filter.Valid {
			idx.Filter = filter.String
			idx.HasFilter = true
		}
		out = append(out, idx)
	}
	return out, rows.Err()
}

func (r *mssqlReader) IndexColumns(ctx context.Context, t TableMeta, indexID int) ([]IndexColumn, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT
	COL_NAME(ic.object_id, ic.column_id),
	ic.key_ordinal,
	ic.is_descending_key,
	ic.is_included_column,
	ic.index_column_id
FROM sys.index_columns ic
WHERE ic.object_id = @p1 AND ic.index_id = @p2
ORDER BY ic.index_column_id`, t.ObjectID, indexID)
	if err != nil {
		return nil, fmt.Errorf("index columns of index %d on %s.%s: %w", indexID, t.Schema, t.Name, err)
	}
	defer rows.Close()

	var out []IndexColumn
	for rows.Next() {
		var c IndexColumn
		if err := rows.Scan(&c.Name, &c.KeyOrdinal, &c.Descending, &c.Included, &c.TiebreakOrdinal); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *mssqlReader) ListProgrammables(ctx context.Context) ([]Programmable, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT o.object_id, o.type, s.name, o.name, m.definition
FROM sys.sql_modules m
JOIN sys.objects o ON o.object_id = m.object_id
JOIN sys.schemas s ON s.schema_id = o.schema_id
WHERE o.type IN ('V', 'P', 'FN', 'IF', 'TF', 'FS', 'FT')
ORDER BY s.name, o.name`)
	if err != nil {
		return nil, fmt.Errorf("listing programmable objects: %w", err)
	}
	defer rows.Close()

	var out []Programmable
	for rows.Next() {
		var (
			objectID   int64
			code       string
			schema     string
			name       string
			definition string
		)
		if err := rows.Scan(&objectID, &code, &schema, &name, &definition); err != nil {
			return nil, err
		}
		kind, err := ResolveKindCode(strings.TrimSpace(code))
		if err != nil {
			return nil, fmt.Errorf("programmable object %s.%s: %w", schema, name, err)
		}
		out = append(out, Programmable{
			ObjectID: objectID,
			Kind:     kind,
			Schema:   schema,
			Name:     name,
			Body:     strings.TrimSpace(definition),
		})
	}
	return out, rows.Err()
}

func (r *mssqlReader) DependencyEdges(ctx context.Context) (map[int64]map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT d.referencing_id, ro.type, rs.name, ro.name
FROM sys.sql_expression_dependencies d
JOIN sys.objects ro ON ro.object_id = d.referenced_id
JOIN sys.schemas rs ON rs.schema_id = ro.schema_id
WHERE d.referenced_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("listing dependency edges: %w", err)
	}
	defer rows.Close()

	edges := make(map[int64]map[string]struct{})
	for rows.Next() {
		var (
			referencingID int64
			code          string
			refSchema     string
			refName       string
		)
		if err := rows.Scan(&referencingID, &code, &refSchema, &refName); err != nil {
			return nil, err
		}
		kind, err := ResolveKindCode(strings.TrimSpace(code))
		if err != nil {
			// The referenced object is of a kind we don't model
			// (e.g. a type or assembly) — tolerated and ignored,
			// per §3 invariant 3.
			slog.Debug("ignoring dependency edge to unsupported kind", "code", code, "schema", refSchema, "name", refName)
			continue
		}
		key := fmt.Sprintf("%s:%s.%s", kind, strings.ToLower(refSchema), strings.ToLower(refName))
		if edges[referencingID] == nil {
			edges[referencingID] = make(map[string]struct{})
		}
		edges[referencingID][key] = struct{}{}
	}
	return edges, rows.Err()
}
