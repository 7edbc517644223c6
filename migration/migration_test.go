package migration

import (
	"testing"

	"github.com/sqldef/migrator/expression"
	"github.com/sqldef/migrator/generator/sqlserver"
	"github.com/sqldef/migrator/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	m, err := New(1, "users").
		InSchema("app").
		CreateTable("Users").WithDescription("People").
		WithColumn("Id").AsInt32().PrimaryKey().Identity().
		WithColumn("Name").AsString(100).Nullable().WithExtension(sqlserver.Sparse{}).
		WithColumn("TeamId").AsInt32().References("Teams", "Id").OnDelete(schema.RuleCascade).
		CreateIndex("").OnTable("Users").OnColumn("Name").Descending().Unique().NullsDistinct(false).
		Insert("Users").Row("Id", 1, "Name", "root").Row("Id", 2, "Name", nil).
		Build()
	require.NoError(t, err)
	require.Len(t, m.Up, 3)

	table := m.Up[0].(*expression.CreateTable).Table
	assert.Equal(t, "app", table.SchemaName)
	assert.Equal(t, "People", table.Description)
	require.Len(t, table.Columns, 3)
	assert.True(t, table.Columns[0].PrimaryKey)
	assert.True(t, table.Columns[0].Identity)
	assert.Equal(t, schema.True, table.Columns[1].Nullable)
	assert.Equal(t, 100, *table.Columns[1].Size)
	_, sparse := schema.GetExtension[sqlserver.Sparse](&table.Columns[1].Extensions)
	assert.True(t, sparse)
	assert.Equal(t, &schema.ForeignKeyDefinition{
		PrimaryTable: "Teams", PrimaryTableSchema: "app", PrimaryColumns: []string{"Id"}, OnDelete: schema.RuleCascade,
	}, table.Columns[2].ForeignKey)

	index := m.Up[1].(*expression.CreateIndex).Index
	assert.Equal(t, []schema.IndexColumn{{Name: "Name", Direction: schema.Descending}}, index.Columns)
	assert.Equal(t, schema.False, index.NullsDistinct)

	insert := m.Up[2].(*expression.InsertData)
	assert.Equal(t, []expression.Row{
		{{Name: "Id", Value: 1}, {Name: "Name", Value: "root"}},
		{{Name: "Id", Value: 2}, {Name: "Name", Value: nil}},
	}, insert.Rows)
}

func TestBuilderErrors(t *testing.T) {
	_, err := New(2, "").Insert("Users").Row("Id").Build()
	assert.ErrorContains(t, err, "odd number of row values")

	_, err = New(2, "").AddColumn("Users", "A").AsInt32().WithColumn("B").Build()
	assert.ErrorContains(t, err, "outside CreateTable")
}

func TestDownExpressions(t *testing.T) {
	m, err := New(3, "").
		CreateTable("Users").WithColumn("Id").AsInt32().
		RenameTable("Users", "People").
		Build()
	require.NoError(t, err)

	down, err := m.DownExpressions()
	require.NoError(t, err)
	assert.Equal(t, []expression.Expression{
		&expression.RenameTable{OldName: "People", NewName: "Users"},
		&expression.DeleteTable{TableName: "Users"},
	}, down)

	m, err = New(4, "").Execute("SELECT 1").Build()
	require.NoError(t, err)
	_, err = m.DownExpressions()
	assert.ErrorIs(t, err, expression.ErrIrreversible)

	b := New(5, "").Execute("UPDATE t SET a = 1")
	b.Down().Execute("UPDATE t SET a = 0")
	m, err = b.Build()
	require.NoError(t, err)
	down, err = m.DownExpressions()
	require.NoError(t, err)
	assert.Equal(t, []expression.Expression{&expression.ExecuteSQL{SQL: "UPDATE t SET a = 0"}}, down)
}

func TestSort(t *testing.T) {
	migrations := []*Migration{{Version: 3}, {Version: 1}, {Version: 2}}
	require.NoError(t, Sort(migrations))
	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Equal(t, int64(3), migrations[2].Version)

	assert.ErrorContains(t, Sort([]*Migration{{Version: 1}, {Version: 1}}), "duplicate")
}
