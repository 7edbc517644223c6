package generic

import (
	"testing"

	"github.com/sqldef/migrator/expression"
	"github.com/sqldef/migrator/generator"
	"github.com/sqldef/migrator/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTable(t *testing.T) {
	g := New(generator.Options{})
	sql, err := generator.Generate(g, &expression.CreateTable{Table: &schema.TableDefinition{
		Name: "Users",
		Columns: []*schema.ColumnDefinition{
			{Name: "Id", Type: schema.Int32, PrimaryKey: true},
			{Name: "Name", Type: schema.String, Size: schema.Int(255), Nullable: schema.False},
		},
	}})
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE Users (Id INTEGER NOT NULL, Name VARCHAR(255) NOT NULL, PRIMARY KEY (Id))", sql)
}

func TestQuoting(t *testing.T) {
	g := New(generator.Options{})
	tests := []struct {
		expr     expression.Expression
		expected string
	}{
		{&expression.DeleteTable{TableName: "order"}, `DROP TABLE "order"`},
		{&expression.DeleteTable{SchemaName: "app", TableName: "order items"}, `DROP TABLE app."order items"`},
		{&expression.RenameTable{OldName: "a", NewName: "user"}, `ALTER TABLE a RENAME TO "user"`},
	}
	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			sql, err := generator.Generate(g, test.expr)
			require.NoError(t, err)
			assert.Equal(t, test.expected, sql)
		})
	}
}

func TestInsertNull(t *testing.T) {
	g := New(generator.Options{})
	sql, err := generator.Generate(g, &expression.InsertData{TableName: "Users", Rows: []expression.Row{
		{{Name: "Id", Value: 1}, {Name: "Nickname", Value: nil}, {Name: "Active", Value: true}},
	}})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO Users (Id, Nickname, Active) VALUES (1, NULL, TRUE)", sql)
}

func TestUnsupported(t *testing.T) {
	g := New(generator.Options{})
	_, err := generator.Generate(g, &expression.CreateIndex{Index: &schema.IndexDefinition{
		Name: "IX", TableName: "Users", Filter: "Active = TRUE", Columns: []schema.IndexColumn{{Name: "Name"}},
	}})
	assert.ErrorIs(t, err, generator.ErrUnsupportedFeature)

	loose := New(generator.Options{Compatibility: generator.CompatibilityLoose})
	sql, err := generator.Generate(loose, &expression.AlterSchema{SourceSchemaName: "a", TableName: "t", DestinationSchemaName: "b"})
	require.NoError(t, err)
	assert.True(t, generator.IsComment(sql))
}
