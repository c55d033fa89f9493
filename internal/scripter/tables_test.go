package scripter

import (
	"testing"

	"github.com/peopleworks/SqlSchemaDiff/internal/catalog"
	"github.com/peopleworks/SqlSchemaDiff/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptTableSimple(t *testing.T) {
	input := TableInput{
		Meta: catalog.TableMeta{ObjectID: 1, Schema: "dbo", Name: "T"},
		Columns: []catalog.Column{
			{Ordinal: 1, Name: "Id", TypeName: "int", Nullable: false},
		},
	}
	obj := ScriptTable(input)
	assert.Equal(t, snapshot.Table, obj.Kind)
	assert.Contains(t, obj.Definition, "CREATE TABLE [dbo].[T] (\n    [Id] int NOT NULL\n);\nGO\n")
}

func TestScriptTablePrimaryKeyClustered(t *testing.T) {
	input := TableInput{
		Meta: catalog.TableMeta{ObjectID: 1, Schema: "dbo", Name: "T"},
		Columns: []catalog.Column{
			{Ordinal: 1, Name: "Id", TypeName: "int", Nullable: false},
		},
		KeyConstraints: []catalog.KeyConstraint{
			{Name: "PK_T", KindCode: "PK", IndexID: 1, IndexTypeDesc: "CLUSTERED"},
		},
		KeyConstraintColumns: map[string][]catalog.IndexColumn{
			"PK_T": {{Name: "Id", KeyOrdinal: 1}},
		},
	}
	obj := ScriptTable(input)
	assert.Contains(t, obj.Definition, "ALTER TABLE [dbo].[T] ADD CONSTRAINT [PK_T] PRIMARY KEY CLUSTERED ([Id]);")
}

func TestScriptTableForeignKeyAndDependency(t *testing.T) {
	input := TableInput{
		Meta: catalog.TableMeta{ObjectID: 2, Schema: "dbo", Name: "Child"},
		Columns: []catalog.Column{
			{Ordinal: 1, Name: "ParentId", TypeName: "int", Nullable: false},
		},
		ForeignKeys: []catalog.ForeignKey{
			{Name: "FK_Child_Parent", RefSchema: "dbo", RefTable: "Parent", DeleteAction: "CASCADE", UpdateAction: "NO_ACTION"},
		},
		ForeignKeyColumns: map[string][]catalog.ForeignKeyColumn{
			"FK_Child_Parent": {{ParentColumn: "ParentId", ReferencedColumn: "Id", Ordinal: 1}},
		},
	}
	obj := ScriptTable(input)
	require.Len(t, obj.Dependencies, 1)
	assert.Equal(t, "Table:dbo.parent", obj.Dependencies[0])
	assert.Contains(t, obj.Definition, "WITH CHECK ADD CONSTRAINT [FK_Child_Parent] FOREIGN KEY ([ParentId]) REFERENCES [dbo].[Parent] ([Id]) ON DELETE CASCADE;")
}

func TestScriptTableDisabledForeignKey(t *testing.T) {
	input := TableInput{
		Meta: catalog.TableMeta{ObjectID: 2, Schema: "dbo", Name: "Child"},
		ForeignKeys: []catalog.ForeignKey{
			{Name: "FK1", RefSchema: "dbo", RefTable: "Parent", NotTrusted: true, Disabled: true},
		},
		ForeignKeyColumns: map[string][]catalog.ForeignKeyColumn{
			"FK1": {{ParentColumn: "A", ReferencedColumn: "B", Ordinal: 1}},
		},
	}
	obj := ScriptTable(input)
	assert.Contains(t, obj.Definition, "WITH NOCHECK ADD CONSTRAINT [FK1]")
	assert.Contains(t, obj.Definition, "ALTER TABLE [dbo].[Child] NOCHECK CONSTRAINT [FK1];")
}

func TestScriptTableIndexWithIncludeAndFilter(t *testing.T) {
	input := TableInput{
		Meta: catalog.TableMeta{ObjectID: 1, Schema: "dbo", Name: "T"},
		Indexes: []catalog.Index{
			{IndexID: 2, Name: "IX_T", Unique: false, TypeDesc: "NONCLUSTERED", Filter: "[Active] = 1", HasFilter: true},
		},
		IndexColumns: map[string][]catalog.IndexColumn{
			"IX_T": {
				{Name: "A", KeyOrdinal: 1, TiebreakOrdinal: 1},
				{Name: "B", Included: true, TiebreakOrdinal: 2},
			},
		},
	}
	obj := ScriptTable(input)
	assert.Contains(t, obj.Definition, "CREATE NONCLUSTERED INDEX [IX_T] ON [dbo].[T] ([A] ASC) INCLUDE ([B]) WHERE [Active] = 1;")
}

func TestRenderTypeVariants(t *testing.T) {
	assert.Equal(t, "varchar(50)", renderType(catalog.Column{TypeName: "varchar", MaxLength: 50}))
	assert.Equal(t, "varchar(MAX)", renderType(catalog.Column{TypeName: "varchar", MaxLength: -1}))
	assert.Equal(t, "nvarchar(25)", renderType(catalog.Column{TypeName: "nvarchar", MaxLength: 50}))
	assert.Equal(t, "decimal(10,2)", renderType(catalog.Column{TypeName: "decimal", Precision: 10, Scale: 2}))
	assert.Equal(t, "float", renderType(catalog.Column{TypeName: "float", Precision: 53}))
	assert.Equal(t, "float(24)", renderType(catalog.Column{TypeName: "float", Precision: 24}))
	assert.Equal(t, "dbo.MyType", renderType(catalog.Column{TypeName: "MyType", TypeSchema: "dbo", UserDefinedType: true}))
}

func TestRenderColumnIdentityDefaults(t *testing.T) {
	c := catalog.Column{Name: "Id", TypeName: "int", Identity: true}
	rendered := renderColumn(c)
	assert.Contains(t, rendered, "IDENTITY(1,1)")
}

func TestRenderColumnComputed(t *testing.T) {
	c := catalog.Column{Name: "Total", Computed: true, ComputedExpr: "([A]+[B])", Persisted: true}
	assert.Equal(t, "[Total] AS ([A]+[B]) PERSISTED", renderColumn(c))
}

func TestRewriteCreateOrAlter(t *testing.T) {
	assert.Equal(t, "CREATE OR ALTER PROCEDURE dbo.P AS SELECT 1",
		RewriteCreateOrAlter("CREATE PROCEDURE dbo.P AS SELECT 1"))
	assert.Equal(t, "  CREATE OR ALTER VIEW dbo.V AS SELECT 1",
		RewriteCreateOrAlter("  create VIEW dbo.V AS SELECT 1"))
	assert.Equal(t, "ALTER PROCEDURE dbo.P AS SELECT 1",
		RewriteCreateOrAlter("ALTER PROCEDURE dbo.P AS SELECT 1"))
}
