package scripter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/peopleworks/SqlSchemaDiff/internal/catalog"
	"github.com/peopleworks/SqlSchemaDiff/internal/snapshot"
)

// TableInput aggregates every catalog row the scripter needs for one
// table, already pulled by the Catalog Reader.
type TableInput struct {
	Meta catalog.TableMeta

	Columns []catalog.Column

	KeyConstraints       []catalog.KeyConstraint
	KeyConstraintColumns map[string][]catalog.IndexColumn // by constraint name, key_ordinal order

	ForeignKeys       []catalog.ForeignKey
	ForeignKeyColumns map[string][]catalog.ForeignKeyColumn // by FK name

	CheckConstraints []catalog.CheckConstraint

	Indexes      []catalog.Index
	IndexColumns map[string][]catalog.IndexColumn // by index name
}

// deleteUpdateActionClause maps a referential action description to its
// ON DELETE/ON UPDATE clause text per §4.3 item 3. An unrecognized value
// is omitted, same as NO_ACTION.
func deleteUpdateActionClause(verb, action string) string {
	switch action {
	case "NO_ACTION":
		return ""
	case "CASCADE":
		return fmt.Sprintf(" ON %s CASCADE", verb)
	case "SET_NULL":
		return fmt.Sprintf(" ON %s SET NULL", verb)
	case "SET_DEFAULT":
		return fmt.Sprintf(" ON %s SET DEFAULT", verb)
	default:
		return ""
	}
}

// clusteredKeyword derives CLUSTERED/NONCLUSTERED from an index type
// description, replacing underscores with spaces; any description
// lacking "CLUSTERED" defaults to NONCLUSTERED.
func clusteredKeyword(typeDesc string) string {
	desc := strings.ReplaceAll(typeDesc, "_", " ")
	if strings.Contains(strings.ToUpper(desc), "CLUSTERED") {
		return desc
	}
	return "NONCLUSTERED"
}

func keyColumnNames(cols []catalog.IndexColumn) []string {
	sorted := make([]catalog.IndexColumn, len(cols))
	copy(sorted, cols)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].KeyOrdinal < sorted[j].KeyOrdinal })

	names := make([]string, 0, len(sorted))
	for _, c := range sorted {
		names = append(names, QuoteIdent(c.Name))
	}
	return names
}

// ScriptTable builds the full table object per §4.3: a CREATE TABLE
// batch followed by ALTER TABLE / CREATE INDEX batches for keys,
// foreign keys, checks, and non-constraint indexes, each in alphabetical
// order within its category.
func ScriptTable(t TableInput) snapshot.Object {
	ident := QuoteQualified(t.Meta.Schema, t.Meta.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (", ident)
	for i, col := range t.Columns {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n" + indent)
		b.WriteString(renderColumn(col))
	}
	b.WriteString("\n);\n")
	b.WriteString(BatchSeparator + "\n")

	scriptKeyConstraints(&b, ident, t)
	scriptForeignKeys(&b, ident, t)
	scriptCheckConstraints(&b, ident, t)
	scriptIndexes(&b, ident, t)

	deps := make([]string, 0, len(t.ForeignKeys))
	seen := make(map[string]struct{})
	for _, fk := range t.ForeignKeys {
		key := snapshot.Key(snapshot.Table, fk.RefSchema, fk.RefTable)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deps = append(deps, key)
	}

	return snapshot.Object{
		Kind:         snapshot.Table,
		Schema:       t.Meta.Schema,
		Name:         t.Meta.Name,
		Definition:   b.String(),
		Dependencies: deps,
	}
}

const indent = "    "

func scriptKeyConstraints(b *strings.Builder, ident string, t TableInput) {
	pks := make([]catalog.KeyConstraint, 0)
	uqs := make([]catalog.KeyConstraint, 0)
	for _, kc := range t.KeyConstraints {
		if kc.KindCode == "PK" {
			pks = append(pks, kc)
		} else {
			uqs = append(uqs, kc)
		}
	}
	sort.Slice(pks, func(i, j int) bool { return pks[i].Name < pks[j].Name })
	sort.Slice(uqs, func(i, j int) bool { return uqs[i].Name < uqs[j].Name })

	emit := func(kc catalog.KeyConstraint, keyword string) {
		cols := keyColumnNames(t.KeyConstraintColumns[kc.Name])
		fmt.Fprintf(b, "ALTER TABLE %s ADD CONSTRAINT %s %s %s (%s);\n%s\n",
			ident, QuoteIdent(kc.Name), keyword, clusteredKeyword(kc.IndexTypeDesc), strings.Join(cols, ", "), BatchSeparator)
	}
	for _, kc := range pks {
		emit(kc, "PRIMARY KEY")
	}
	for _, kc := range uqs {
		emit(kc, "UNIQUE")
	}
}

func scriptForeignKeys(b *strings.Builder, ident string, t TableInput) {
	fks := make([]catalog.ForeignKey, len(t.ForeignKeys))
	copy(fks, t.ForeignKeys)
	sort.Slice(fks, func(i, j int) bool { return fks[i].Name < fks[j].Name })

	for _, fk := range fks {
		cols := t.ForeignKeyColumns[fk.Name]
		sorted := make([]catalog.ForeignKeyColumn, len(cols))
		copy(sorted, cols)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Ordinal < sorted[j].Ordinal })

		parentCols := make([]string, 0, len(sorted))
		refCols := make([]string, 0, len(sorted))
		for _, c := range sorted {
			parentCols = append(parentCols, QuoteIdent(c.ParentColumn))
			refCols = append(refCols, QuoteIdent(c.ReferencedColumn))
		}

		checkMode := "WITH CHECK"
		if fk.NotTrusted {
			checkMode = "WITH NOCHECK"
		}

		fmt.Fprintf(b, "ALTER TABLE %s %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
			ident, checkMode, QuoteIdent(fk.Name), strings.Join(parentCols, ", "),
			QuoteQualified(fk.RefSchema, fk.RefTable), strings.Join(refCols, ", "))

		b.WriteString(deleteUpdateActionClause("DELETE", fk.DeleteAction))
		b.WriteString(deleteUpdateActionClause("UPDATE", fk.UpdateAction))
		if fk.NotForReplication {
			b.WriteString(" NOT FOR REPLICATION")
		}
		b.WriteString(";\n")
		b.WriteString(BatchSeparator + "\n")

		if fk.Disabled {
			fmt.Fprintf(b, "ALTER TABLE %s NOCHECK CONSTRAINT %s;\n%s\n", ident, QuoteIdent(fk.Name), BatchSeparator)
		}
	}
}

func scriptCheckConstraints(b *strings.Builder, ident string, t TableInput) {
	checks := make([]catalog.CheckConstraint, len(t.CheckConstraints))
	copy(checks, t.CheckConstraints)
	sort.Slice(checks, func(i, j int) bool { return checks[i].Name < checks[j].Name })

	for _, c := range checks {
		checkMode := "WITH CHECK"
		if c.NotTrusted {
			checkMode = "WITH NOCHECK"
		}
		fmt.Fprintf(b, "ALTER TABLE %s %s ADD CONSTRAINT %s CHECK %s;\n%s\n",
			ident, checkMode, QuoteIdent(c.Name), c.Expression, BatchSeparator)

		if c.Disabled {
			fmt.Fprintf(b, "ALTER TABLE %s NOCHECK CONSTRAINT %s;\n%s\n", ident, QuoteIdent(c.Name), BatchSeparator)
		}
	}
}

func scriptIndexes(b *strings.Builder, ident string, t TableInput) {
	idxs := make([]catalog.Index, len(t.Indexes))
	copy(idxs, t.Indexes)
	sort.Slice(idxs, func(i, j int) bool { return idxs[i].Name < idxs[j].Name })

	for _, idx := range idxs {
		cols := t.IndexColumns[idx.Name]
		var keyCols, includedCols []string
		sorted := make([]catalog.IndexColumn, len(cols))
		copy(sorted, cols)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].TiebreakOrdinal < sorted[j].TiebreakOrdinal })
		for _, c := range sorted {
			if c.Included {
				includedCols = append(includedCols, QuoteIdent(c.Name))
				continue
			}
			name := QuoteIdent(c.Name)
			if c.Descending {
				name += " DESC"
			} else {
				name += " ASC"
			}
			keyCols = append(keyCols, name)
		}

		b.WriteString("CREATE ")
		if idx.Unique {
			b.WriteString("UNIQUE ")
		}
		typeDesc := strings.ReplaceAll(idx.TypeDesc, "_", " ")
		b.WriteString(typeDesc + " ")
		fmt.Fprintf(b, "INDEX %s ON %s (%s)", QuoteIdent(idx.Name), ident, strings.Join(keyCols, ", "))
		if len(includedCols) > 0 {
			fmt.Fprintf(b, " INCLUDE (%s)", strings.Join(includedCols, ", "))
		}
		if idx.HasFilter {
			fmt.Fprintf(b, " WHERE %s", idx.Filter)
		}
		b.WriteString(";\n")
		b.WriteString(BatchSeparator + "\n")

		if idx.Disabled {
			fmt.Fprintf(b, "ALTER INDEX %s ON %s DISABLE;\n%s\n", QuoteIdent(idx.Name), ident, BatchSeparator)
		}
	}
}
