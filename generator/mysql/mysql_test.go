package mysql

import (
	"testing"

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
			name: "create table with options and comments",
			expr: &expression.CreateTable{Table: &schema.TableDefinition{
				Name: "users", Description: "People",
				Extensions: schema.NewExtensionSet(TableOptions{Engine: "InnoDB", Charset: "utf8mb4"}),
				Columns: []*schema.ColumnDefinition{
					{Name: "id", Type: schema.Int32, PrimaryKey: true, Identity: true},
					{Name: "bio", Type: schema.String, Size: schema.Int(100000), Nullable: schema.True, Description: "About"},
				},
			}},
			expected: "CREATE TABLE `users` (`id` INTEGER NOT NULL PRIMARY KEY AUTO_INCREMENT, `bio` MEDIUMTEXT COMMENT 'About') " +
				"ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COMMENT='People'",
		},
		{
			name:     "modify column",
			expr:     &expression.AlterColumn{TableName: "users", Column: &schema.ColumnDefinition{Name: "bio", Type: schema.String, Size: schema.Int(500)}},
			expected: "ALTER TABLE `users` MODIFY COLUMN `bio` VARCHAR(500) NOT NULL",
		},
		{
			name: "modify keeps key clauses out",
			expr: &expression.AlterColumn{TableName: "users", Column: &schema.ColumnDefinition{
				Name: "id", Type: schema.Int32, PrimaryKey: true, Unique: true, Identity: true,
			}},
			expected: "ALTER TABLE `users` MODIFY COLUMN `id` INTEGER NOT NULL AUTO_INCREMENT",
		},
		{
			name: "drop foreign key",
			expr: &expression.DeleteForeignKey{ForeignKey: &schema.ForeignKeyDefinition{
				Name: "FK_orders_users", ForeignTable: "orders",
			}},
			expected: "ALTER TABLE `orders` DROP FOREIGN KEY `FK_orders_users`",
		},
		{
			name:     "drop index",
			expr:     &expression.DeleteIndex{Index: &schema.IndexDefinition{Name: "ix", TableName: "users"}},
			expected: "DROP INDEX `ix` ON `users`",
		},
		{
			name: "drop primary key",
			expr: &expression.DeleteConstraint{Constraint: &schema.ConstraintDefinition{
				TableName: "users", Type: schema.PrimaryKeyConstraint,
			}},
			expected: "ALTER TABLE `users` DROP PRIMARY KEY",
		},
		{
			name:     "move table",
			expr:     &expression.AlterSchema{SourceSchemaName: "a", TableName: "t", DestinationSchemaName: "b"},
			expected: "RENAME TABLE `a`.`t` TO `b`.`t`",
		},
		{
			name:     "table comment",
			expr:     &expression.AlterTable{TableName: "users", Description: "It's"},
			expected: "ALTER TABLE `users` COMMENT = 'It''s'",
		},
		{
			name:     "backslashes are escaped",
			expr:     &expression.InsertData{TableName: "paths", Rows: []expression.Row{{{Name: "p", Value: `C:\temp`}, {Name: "ok", Value: true}}}},
			expected: "INSERT INTO `paths` (`p`, `ok`) VALUES ('C:\\\\temp', TRUE)",
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

func TestUnsupported(t *testing.T) {
	g := New(generator.Options{})
	tests := []struct {
		name string
		expr expression.Expression
	}{
		{"sequence", &expression.CreateSequence{Sequence: &schema.SequenceDefinition{Name: "s"}}},
		{"filtered index", &expression.CreateIndex{Index: &schema.IndexDefinition{
			Name: "ix", TableName: "t", Filter: "a > 0", Columns: []schema.IndexColumn{{Name: "a"}},
		}}},
		{"set default rule", &expression.CreateForeignKey{ForeignKey: &schema.ForeignKeyDefinition{
			ForeignTable: "o", ForeignColumns: []string{"u"}, PrimaryTable: "u", PrimaryColumns: []string{"id"},
			OnDelete: schema.RuleSetDefault,
		}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := generator.Generate(g, test.expr)
			assert.ErrorIs(t, err, generator.ErrUnsupportedFeature)
		})
	}
	assert.False(t, g.SupportsTransactionalDDL())
}

func TestSetDefaultRuleLoose(t *testing.T) {
	g := New(generator.Options{Compatibility: generator.CompatibilityLoose})
	sql, err := generator.Generate(g, &expression.CreateForeignKey{ForeignKey: &schema.ForeignKeyDefinition{
		ForeignTable: "o", ForeignColumns: []string{"u"}, PrimaryTable: "u", PrimaryColumns: []string{"id"},
		OnDelete: schema.RuleSetDefault,
	}})
	require.NoError(t, err)
	assert.Equal(t, "ALTER TABLE `o` ADD CONSTRAINT `FK_o_u_u_id` FOREIGN KEY (`u`) REFERENCES `u` (`id`);\n"+
		"-- mysql does not support SET DEFAULT foreign key rules: ON DELETE SET DEFAULT on foreign key from o to u", sql)
}
