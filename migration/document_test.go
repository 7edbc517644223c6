package migration

import (
	"testing"

	"github.com/sqldef/migrator/expression"
	"github.com/sqldef/migrator/generator/mysql"
	"github.com/sqldef/migrator/generator/sqlserver"
	"github.com/sqldef/migrator/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `
- version: 2
  description: seed
  up:
    - insert:
        table: Users
        rows:
          - {Name: root, Id: 1, Nickname: null}
    - update:
        table: Users
        set: {Name: admin}
        where: {Id: 1}
- version: 1
  description: users
  up:
    - create_table:
        name: Users
        mysql: {engine: InnoDB}
        columns:
          - {name: Id, type: int32, primary_key: true, identity: true, sqlserver: {identity_seed: 10}}
          - {name: Name, type: string, size: 100, nullable: false, default: anonymous}
          - {name: Created, type: datetime, default_method: current_utc_datetime}
          - name: TeamId
            type: int
            references: {primary_table: Teams, primary_columns: [Id], on_delete: set_null}
    - create_index:
        table: Users
        columns: [Name]
        descending: [Created]
        unique: true
        nulls_distinct: false
    - create_constraint:
        table: Users
        type: unique
        columns: [Name]
    - sql: SELECT 1
  down:
    - delete_table: {table: Users}
`

func TestParse(t *testing.T) {
	migrations, err := Parse([]byte(document))
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	first := migrations[0]
	assert.Equal(t, int64(1), first.Version)
	require.Len(t, first.Up, 4)

	table := first.Up[0].(*expression.CreateTable).Table
	_, ok := schema.GetExtension[mysql.TableOptions](&table.Extensions)
	assert.True(t, ok)
	require.Len(t, table.Columns, 4)

	id, ok := schema.GetExtension[sqlserver.Identity](&table.Columns[0].Extensions)
	require.True(t, ok)
	assert.Equal(t, sqlserver.Identity{Seed: 10, Increment: 1}, id)

	name := table.Columns[1]
	assert.Equal(t, schema.String, name.Type)
	assert.Equal(t, schema.False, name.Nullable)
	assert.Equal(t, schema.ValueDefault("anonymous"), name.Default)
	assert.Equal(t, schema.MethodDefault(schema.CurrentUTCDateTime), table.Columns[2].Default)
	assert.Equal(t, schema.Int32, table.Columns[3].Type)
	assert.Equal(t, schema.RuleSetNull, table.Columns[3].ForeignKey.OnDelete)

	index := first.Up[1].(*expression.CreateIndex).Index
	assert.Equal(t, []schema.IndexColumn{{Name: "Name"}, {Name: "Created", Direction: schema.Descending}}, index.Columns)
	assert.Equal(t, schema.False, index.NullsDistinct)

	assert.Equal(t, schema.UniqueConstraint, first.Up[2].(*expression.CreateConstraint).Constraint.Type)
	assert.Equal(t, &expression.ExecuteSQL{SQL: "SELECT 1"}, first.Up[3])
	assert.Equal(t, []expression.Expression{&expression.DeleteTable{TableName: "Users"}}, first.Down)

	seed := migrations[1]
	insert := seed.Up[0].(*expression.InsertData)
	assert.Equal(t, []string{"Name", "Id", "Nickname"}, insert.Rows[0].Names())
	update := seed.Up[1].(*expression.UpdateData)
	assert.Equal(t, expression.Row{{Name: "Id", Value: 1}}, update.Where)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		document string
		message  string
	}{
		{"unknown key", "- version: 1\n  up:\n    - create_tabel: {name: x}", "create_tabel"},
		{"two keys in one step", "- version: 1\n  up:\n    - sql: SELECT 1\n      delete_table: {table: x}", "exactly one expression key"},
		{"unknown type", "- version: 1\n  up:\n    - add_column: {table: t, column: {name: c, type: blob}}", "unknown column type"},
		{"unknown rule", "- version: 1\n  up:\n    - create_foreign_key: {table: t, on_delete: explode}", "unknown foreign key rule"},
		{"duplicate version", "- version: 1\n- version: 1", "duplicate migration version"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse([]byte(test.document))
			assert.ErrorContains(t, err, test.message)
		})
	}
}
