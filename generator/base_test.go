package generator

import (
	"testing"

	"github.com/sqldef/migrator/expression"
	"github.com/sqldef/migrator/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBase(mode CompatibilityMode, features ...Feature) *Base {
	b := NewBase("test", testQuoter(), testTypeMap())
	if len(features) > 0 {
		b.Features = NewFeatureSet(features...)
	}
	b.Policy.Mode = mode
	return b
}

func TestGenerate(t *testing.T) {
	b := testBase(CompatibilityStrict)
	tests := []struct {
		name     string
		expr     expression.Expression
		expected string
	}{
		{
			name:     "create schema",
			expr:     &expression.CreateSchema{SchemaName: "app"},
			expected: "CREATE SCHEMA app",
		},
		{
			name: "create table with column foreign key",
			expr: &expression.CreateTable{Table: &schema.TableDefinition{
				Name: "orders",
				Columns: []*schema.ColumnDefinition{
					{Name: "id", Type: schema.Int32, PrimaryKey: true},
					{Name: "user_id", Type: schema.Int32, ForeignKey: &schema.ForeignKeyDefinition{
						PrimaryTable: "users", PrimaryColumns: []string{"id"},
					}},
				},
			}},
			expected: "CREATE TABLE orders (id INTEGER NOT NULL PRIMARY KEY, user_id INTEGER NOT NULL, " +
				"CONSTRAINT FK_orders_user_id_users_id FOREIGN KEY (user_id) REFERENCES users (id))",
		},
		{
			name:     "delete columns",
			expr:     &expression.DeleteColumn{TableName: "users", ColumnNames: []string{"a", "b"}},
			expected: "ALTER TABLE users DROP COLUMN a;\nALTER TABLE users DROP COLUMN b",
		},
		{
			name:     "rename column",
			expr:     &expression.RenameColumn{TableName: "users", OldName: "a", NewName: "b"},
			expected: "ALTER TABLE users RENAME COLUMN a TO b",
		},
		{
			name: "conventional index name",
			expr: &expression.CreateIndex{Index: &schema.IndexDefinition{
				TableName: "users", Columns: []schema.IndexColumn{{Name: "email"}, {Name: "created", Direction: schema.Descending}},
			}},
			expected: "CREATE INDEX IX_users_email_created ON users (email ASC, created DESC)",
		},
		{
			name: "foreign key with rules",
			expr: &expression.CreateForeignKey{ForeignKey: &schema.ForeignKeyDefinition{
				ForeignTable: "orders", ForeignColumns: []string{"user_id"},
				PrimaryTable: "users", PrimaryColumns: []string{"id"},
				OnDelete: schema.RuleCascade, OnUpdate: schema.RuleNoAction,
			}},
			expected: "ALTER TABLE orders ADD CONSTRAINT FK_orders_user_id_users_id FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE ON UPDATE NO ACTION",
		},
		{
			name: "unique constraint",
			expr: &expression.CreateConstraint{Constraint: &schema.ConstraintDefinition{
				TableName: "users", Type: schema.UniqueConstraint, Columns: []string{"email"},
			}},
			expected: "ALTER TABLE users ADD CONSTRAINT UC_users_email UNIQUE (email)",
		},
		{
			name: "sequence",
			expr: &expression.CreateSequence{Sequence: &schema.SequenceDefinition{
				Name: "seq", Increment: schema.Int64Ptr(2), StartWith: schema.Int64Ptr(10), Cycle: true,
			}},
			expected: "CREATE SEQUENCE seq INCREMENT BY 2 START WITH 10 CYCLE",
		},
		{
			name: "insert rows",
			expr: &expression.InsertData{TableName: "users", Rows: []expression.Row{
				{{Name: "id", Value: 1}, {Name: "name", Value: nil}},
				{{Name: "id", Value: 2}, {Name: "name", Value: "bob"}},
			}},
			expected: "INSERT INTO users (id, name) VALUES (1, NULL);\nINSERT INTO users (id, name) VALUES (2, 'bob')",
		},
		{
			name: "update with null match",
			expr: &expression.UpdateData{
				TableName: "users",
				Set:       expression.Row{{Name: "name", Value: "x"}},
				Where:     expression.Row{{Name: "id", Value: 1}, {Name: "deleted", Value: nil}},
			},
			expected: "UPDATE users SET name = 'x' WHERE id = 1 AND deleted IS NULL",
		},
		{
			name:     "update all rows",
			expr:     &expression.UpdateData{TableName: "users", Set: expression.Row{{Name: "n", Value: 0}}, AllRows: true},
			expected: "UPDATE users SET n = 0",
		},
		{
			name:     "delete all rows",
			expr:     &expression.DeleteData{TableName: "users", AllRows: true},
			expected: "DELETE FROM users",
		},
		{
			name:     "raw sql is trimmed",
			expr:     &expression.ExecuteSQL{SQL: "  SELECT 1\n"},
			expected: "SELECT 1",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual, err := Generate(b, test.expr)
			require.NoError(t, err)
			assert.Equal(t, test.expected, actual)
		})
	}
}

func TestGenerateDoesNotMutate(t *testing.T) {
	b := testBase(CompatibilityStrict)
	table := &schema.TableDefinition{
		Name: "t",
		Columns: []*schema.ColumnDefinition{
			{Name: "a", Type: schema.Int32, PrimaryKey: true, PrimaryKeyName: "PK_t"},
			{Name: "b", Type: schema.Int32, ForeignKey: &schema.ForeignKeyDefinition{PrimaryTable: "u", PrimaryColumns: []string{"id"}}},
		},
	}
	before := table.Clone()
	_, err := Generate(b, &expression.CreateTable{Table: table})
	require.NoError(t, err)
	assert.Equal(t, before, table)
}

func TestMismatchedForeignKey(t *testing.T) {
	b := testBase(CompatibilityStrict)
	_, err := Generate(b, &expression.CreateForeignKey{ForeignKey: &schema.ForeignKeyDefinition{
		ForeignTable: "orders", ForeignColumns: []string{"a", "b"},
		PrimaryTable: "users", PrimaryColumns: []string{"id"},
	}})
	assert.ErrorIs(t, err, ErrMismatchedColumnCount)
}

func TestSetDefaultRule(t *testing.T) {
	setDefault := &expression.CreateForeignKey{ForeignKey: &schema.ForeignKeyDefinition{
		ForeignTable: "orders", ForeignColumns: []string{"user_id"},
		PrimaryTable: "users", PrimaryColumns: []string{"id"},
		OnDelete: schema.RuleSetDefault, OnUpdate: schema.RuleCascade,
	}}
	lacking := BaseFeatures.Without(FeatureSetDefaultRule)

	t.Run("strict fails", func(t *testing.T) {
		b := testBase(CompatibilityStrict)
		b.Features = lacking
		_, err := Generate(b, setDefault)
		var unsupported *UnsupportedFeatureError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, FeatureSetDefaultRule, unsupported.Feature)
	})

	t.Run("loose drops the rule", func(t *testing.T) {
		b := testBase(CompatibilityLoose)
		b.Features = lacking
		sql, err := Generate(b, setDefault)
		require.NoError(t, err)
		assert.Equal(t, "ALTER TABLE orders ADD CONSTRAINT FK_orders_user_id_users_id FOREIGN KEY (user_id) REFERENCES users (id) ON UPDATE CASCADE;\n"+
			"-- test does not support SET DEFAULT foreign key rules: ON DELETE SET DEFAULT on foreign key from orders to users", sql)
		// the expression itself is untouched
		assert.Equal(t, schema.RuleSetDefault, setDefault.ForeignKey.OnDelete)
	})

	t.Run("loose on a column foreign key", func(t *testing.T) {
		b := testBase(CompatibilityLoose)
		b.Features = lacking
		sql, err := Generate(b, &expression.CreateTable{Table: &schema.TableDefinition{
			Name: "orders",
			Columns: []*schema.ColumnDefinition{
				{Name: "user_id", Type: schema.Int32, ForeignKey: &schema.ForeignKeyDefinition{
					PrimaryTable: "users", PrimaryColumns: []string{"id"}, OnUpdate: schema.RuleSetDefault,
				}},
			},
		}})
		require.NoError(t, err)
		statements := SplitStatements(sql)
		require.Len(t, statements, 2)
		assert.NotContains(t, statements[0], "SET DEFAULT")
		assert.Equal(t, "-- test does not support SET DEFAULT foreign key rules: ON UPDATE SET DEFAULT on foreign key from orders to users", statements[1])
	})
}

func TestAlterColumn(t *testing.T) {
	b := testBase(CompatibilityStrict)
	sql, err := Generate(b, &expression.AlterColumn{TableName: "users", Column: &schema.ColumnDefinition{
		Name: "id", Type: schema.Int32, PrimaryKey: true, Unique: true,
	}})
	require.NoError(t, err)
	assert.Equal(t, "ALTER TABLE users ALTER COLUMN id INTEGER NOT NULL", sql)

	_, err = Generate(b, &expression.AlterColumn{TableName: "users", Column: &schema.ColumnDefinition{Name: "id", Type: schema.Int32, Identity: true}})
	assert.ErrorIs(t, err, ErrUnsupportedFeature)

	loose := testBase(CompatibilityLoose)
	sql, err = Generate(loose, &expression.AlterColumn{TableName: "users", Column: &schema.ColumnDefinition{Name: "total", Computed: "a + b"}})
	require.NoError(t, err)
	assert.Equal(t, "-- test does not support altering columns: changing the expression of computed column total", sql)
}

func TestPolicy(t *testing.T) {
	nullsNotDistinct := &expression.CreateIndex{Index: &schema.IndexDefinition{
		Name: "ux", TableName: "users", Unique: true, NullsDistinct: schema.False,
		Columns: []schema.IndexColumn{{Name: "email"}},
	}}

	t.Run("strict fails", func(t *testing.T) {
		b := testBase(CompatibilityStrict, FeatureSchemas)
		_, err := Generate(b, nullsNotDistinct)
		var unsupported *UnsupportedFeatureError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, FeatureNullsNotDistinct, unsupported.Feature)
	})

	t.Run("default is the dialect's strict", func(t *testing.T) {
		b := testBase(CompatibilityDefault, FeatureSchemas)
		_, err := Generate(b, nullsNotDistinct)
		assert.ErrorIs(t, err, ErrUnsupportedFeature)
	})

	t.Run("loose emits only a comment", func(t *testing.T) {
		b := testBase(CompatibilityLoose, FeatureSchemas)
		sql, err := Generate(b, nullsNotDistinct)
		require.NoError(t, err)
		assert.Equal(t, "-- test does not support unique indexes treating nulls as equal: index ux on users", sql)
		assert.True(t, IsComment(sql))
	})

	t.Run("supported", func(t *testing.T) {
		b := testBase(CompatibilityStrict, FeatureNullsNotDistinct)
		sql, err := Generate(b, nullsNotDistinct)
		require.NoError(t, err)
		assert.Equal(t, "CREATE UNIQUE INDEX ux ON users (email ASC) NULLS NOT DISTINCT", sql)
	})
}

func TestParseCompatibilityMode(t *testing.T) {
	for input, expected := range map[string]CompatibilityMode{
		"":       CompatibilityDefault,
		"Strict": CompatibilityStrict,
		"loose":  CompatibilityLoose,
	} {
		actual, err := ParseCompatibilityMode(input)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	}
	_, err := ParseCompatibilityMode("lenient")
	assert.Error(t, err)
}

func TestIsComment(t *testing.T) {
	assert.True(t, IsComment("-- a\n-- b"))
	assert.False(t, IsComment("-- a\nDROP TABLE x"))
	assert.False(t, IsComment(""))
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		mode     CompatibilityMode
		expr     expression.Expression
		expected Status
	}{
		{"ok", CompatibilityStrict, &expression.DeleteTable{TableName: "t"}, StatusOk},
		{"invalid", CompatibilityStrict, &expression.DeleteTable{}, StatusInvalid},
		{"unsupported strict", CompatibilityStrict, &expression.CreateSequence{Sequence: &schema.SequenceDefinition{Name: "s"}}, StatusUnsupported},
		{"unsupported loose", CompatibilityLoose, &expression.CreateSequence{Sequence: &schema.SequenceDefinition{Name: "s"}}, StatusUnsupported},
		{"nil", CompatibilityStrict, nil, StatusInvalid},
		{"empty insert row", CompatibilityStrict, &expression.InsertData{TableName: "t", Rows: []expression.Row{{}}}, StatusInvalid},
		{"empty delete row", CompatibilityStrict, &expression.DeleteData{TableName: "t", Rows: []expression.Row{{}}}, StatusInvalid},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := testBase(test.mode, FeatureSchemas)
			result := Evaluate(b, test.expr)
			assert.Equal(t, test.expected, result.Status)
		})
	}

	result := Evaluate(testBase(CompatibilityStrict), &expression.DeleteTable{})
	assert.ErrorIs(t, result.Err, ErrValidation)
	assert.NotEmpty(t, result.Messages)
}

func TestPreflight(t *testing.T) {
	b := testBase(CompatibilityStrict, FeatureSchemas, FeatureFilteredIndexes)
	exprs := []expression.Expression{
		&expression.CreateSchema{SchemaName: "app"},
		&expression.CreateIndex{Index: &schema.IndexDefinition{
			Name: "ix", TableName: "t", Filter: "a > 0", Includes: []string{"b"},
			Columns: []schema.IndexColumn{{Name: "a"}},
		}},
		&expression.CreateSequence{Sequence: &schema.SequenceDefinition{Name: "s"}},
	}
	assert.Equal(t, []MissingFeature{
		{Index: 1, Kind: exprs[1].Kind(), Feature: FeatureIndexIncludes},
		{Index: 2, Kind: exprs[2].Kind(), Feature: FeatureSequences},
	}, Preflight(b, exprs))
}

func TestScriptsMustBeLoaded(t *testing.T) {
	b := testBase(CompatibilityStrict)
	_, err := Generate(b, &expression.ExecuteSQLScript{ScriptPath: "/tmp/x.sql"})
	assert.ErrorContains(t, err, "has not been loaded")
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "A;\nB", Join("A", "", "  ", "B "))
	assert.Equal(t, "", Join())
	assert.Equal(t, []string{"A", "B"}, SplitStatements(Join("A", "B")))
}
