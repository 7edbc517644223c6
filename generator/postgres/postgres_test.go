package postgres

import (
	"testing"

	"github.com/lib/pq"
	pgquery "github.com/pganalyze/pg_query_go/v2"
	"github.com/sqldef/migrator/expression"
	"github.com/sqldef/migrator/generator"
	"github.com/sqldef/migrator/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	g := New(generator.Options{})
	tests := []struct {
		name     string
		expr     expression.Expression
		expected string
	}{
		{
			name: "create table with descriptions",
			expr: &expression.CreateTable{Table: &schema.TableDefinition{
				Name: "users", SchemaName: "app", Description: "People",
				Columns: []*schema.ColumnDefinition{
					{Name: "id", Type: schema.Int64, PrimaryKey: true, Identity: true,
						Extensions: schema.NewExtensionSet(Identity{Always: true})},
					{Name: "name", Type: schema.String, Size: schema.Int(100), Description: "Display name"},
					{Name: "data", Type: schema.Binary, Nullable: schema.True},
				},
			}},
			expected: `CREATE TABLE "app"."users" ("id" bigint NOT NULL PRIMARY KEY GENERATED ALWAYS AS IDENTITY, "name" varchar(100) NOT NULL, "data" bytea);` + "\n" +
				`COMMENT ON TABLE "app"."users" IS 'People';` + "\n" +
				`COMMENT ON COLUMN "app"."users"."name" IS 'Display name'`,
		},
		{
			name: "alter column",
			expr: &expression.AlterColumn{TableName: "users", Column: &schema.ColumnDefinition{
				Name: "name", Type: schema.String, Nullable: schema.True, Default: schema.ValueDefault("x"),
			}},
			expected: `ALTER TABLE "users" ALTER COLUMN "name" TYPE text, ALTER COLUMN "name" DROP NOT NULL, ALTER COLUMN "name" SET DEFAULT 'x'`,
		},
		{
			name:     "move table",
			expr:     &expression.AlterSchema{SourceSchemaName: "public", TableName: "users", DestinationSchemaName: "app"},
			expected: `ALTER TABLE "public"."users" SET SCHEMA "app"`,
		},
		{
			name: "covering filtered index",
			expr: &expression.CreateIndex{Index: &schema.IndexDefinition{
				Name: "ix_users_email", TableName: "users", Unique: true,
				Columns:  []schema.IndexColumn{{Name: "email"}},
				Includes: []string{"name"},
				Filter:   `"deleted" IS NULL`,
			}},
			expected: `CREATE UNIQUE INDEX "ix_users_email" ON "users" ("email" ASC) INCLUDE ("name") WHERE "deleted" IS NULL`,
		},
		{
			name:     "bytes and booleans",
			expr:     &expression.InsertData{TableName: "blobs", Rows: []expression.Row{{{Name: "b", Value: []byte{1, 255}}, {Name: "t", Value: false}}}},
			expected: `INSERT INTO "blobs" ("b", "t") VALUES ('\x01ff', FALSE)`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sql, err := generator.Generate(g, test.expr)
			require.NoError(t, err)
			assert.Equal(t, test.expected, sql)
		})
	}
}

func TestNullsNotDistinct(t *testing.T) {
	g := New(generator.Options{})
	sql, err := generator.Generate(g, &expression.CreateIndex{Index: &schema.IndexDefinition{
		Name: "ux", TableName: "users", Unique: true, NullsDistinct: schema.False,
		Columns: []schema.IndexColumn{{Name: "email"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, `CREATE UNIQUE INDEX "ux" ON "users" ("email" ASC) NULLS NOT DISTINCT`, sql)
}

func TestQuoteIdentifierMatchesDriver(t *testing.T) {
	q := NewQuoter()
	for _, name := range []string{"users", `we"ird`, "Mixed Case", ""} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, pq.QuoteIdentifier(name), q.QuoteIdentifier(name))
		})
	}
}

// The output of every generated statement must be accepted by the PostgreSQL parser.
func TestParse(t *testing.T) {
	g := New(generator.Options{})
	exprs := []expression.Expression{
		&expression.CreateSchema{SchemaName: "app"},
		&expression.CreateTable{Table: &schema.TableDefinition{
			Name: "orders", SchemaName: "app",
			Columns: []*schema.ColumnDefinition{
				{Name: "id", Type: schema.Guid, PrimaryKey: true, Default: schema.MethodDefault(schema.NewGuid)},
				{Name: "total", Type: schema.Decimal, Size: schema.Int(10), Precision: schema.Int(2)},
				{Name: "tax", Type: schema.Decimal, Computed: "total * 0.2"},
				{Name: "created", Type: schema.DateTimeOffset, Default: schema.MethodDefault(schema.CurrentDateTimeOffset)},
				{Name: "code", Type: schema.String, Collation: "C"},
			},
		}},
		&expression.CreateForeignKey{ForeignKey: &schema.ForeignKeyDefinition{
			ForeignTable: "orders", ForeignTableSchema: "app", ForeignColumns: []string{"user_id"},
			PrimaryTable: "users", PrimaryColumns: []string{"id"}, OnDelete: schema.RuleSetNull,
		}},
		&expression.CreateConstraint{Constraint: &schema.ConstraintDefinition{
			SchemaName: "app", TableName: "orders", Type: schema.UniqueConstraint, Columns: []string{"code"},
		}},
		&expression.CreateSequence{Sequence: &schema.SequenceDefinition{
			Name: "seq", SchemaName: "app", StartWith: schema.Int64Ptr(1), Increment: schema.Int64Ptr(1), Cache: schema.Int64Ptr(10),
		}},
		&expression.AlterDefaultConstraint{SchemaName: "app", TableName: "orders", ColumnName: "code", Default: schema.ValueDefault("it's")},
		&expression.DeleteDefaultConstraint{SchemaName: "app", TableName: "orders", ColumnName: "code"},
		&expression.RenameColumn{SchemaName: "app", TableName: "orders", OldName: "code", NewName: "ref"},
		&expression.AlterTable{SchemaName: "app", TableName: "orders", Description: "Orders"},
		&expression.UpdateData{SchemaName: "app", TableName: "orders", Set: expression.Row{{Name: "ref", Value: "x"}}, AllRows: true},
		&expression.DeleteIndex{Index: &schema.IndexDefinition{Name: "ix", SchemaName: "app"}},
		&expression.DeleteTable{SchemaName: "app", TableName: "orders"},
	}
	for _, e := range exprs {
		sql, err := generator.Generate(g, e)
		require.NoError(t, err, e.Kind())
		_, err = pgquery.Parse(sql)
		assert.NoError(t, err, sql)
	}
}
