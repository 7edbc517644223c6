// Package mysql generates SQL for MySQL 8.
package mysql

import (
	"strings"

	"github.com/sqldef/migrator/expression"
	"github.com/sqldef/migrator/generator"
	"github.com/sqldef/migrator/schema"
)

const Dialect = "mysql"

// TableOptions are rendered after the column list of CREATE TABLE.
type TableOptions struct {
	Engine    string
	Charset   string
	Collation string
}

func (TableOptions) Dialect() string { return Dialect }

type Generator struct {
	*generator.Base
}

func NewQuoter() *generator.BaseQuoter {
	return &generator.BaseQuoter{
		Dialect:     Dialect,
		OpenQuote:   "`",
		CloseQuote:  "`",
		AlwaysQuote: true,
		// backslash is an escape character unless NO_BACKSLASH_ESCAPES is set
		StringEscaper: strings.NewReplacer(`\`, `\\`, `'`, `''`),
		SystemMethods: map[schema.SystemMethod]string{
			schema.NewGuid:            "(UUID())",
			schema.CurrentDateTime:    "CURRENT_TIMESTAMP",
			schema.CurrentUTCDateTime: "(UTC_TIMESTAMP())",
			schema.CurrentUser:        "(CURRENT_USER())",
		},
	}
}

func NewTypeMap() *generator.TypeMap {
	m := generator.NewTypeMap(Dialect)
	for _, t := range []schema.DbType{schema.AnsiStringFixedLength, schema.StringFixedLength} {
		m.RegisterDefault(t, "CHAR(255)").
			RegisterSized(t, 255, "CHAR($size)")
	}
	for _, t := range []schema.DbType{schema.AnsiString, schema.String} {
		m.RegisterDefault(t, "VARCHAR(255)").
			RegisterSized(t, 65535, "VARCHAR($size)").
			RegisterSized(t, 16777215, "MEDIUMTEXT").
			RegisterSized(t, 2147483647, "LONGTEXT")
	}
	m.RegisterDefault(schema.Binary, "LONGBLOB").
		RegisterSized(schema.Binary, 255, "TINYBLOB").
		RegisterSized(schema.Binary, 65535, "BLOB").
		RegisterSized(schema.Binary, 16777215, "MEDIUMBLOB").
		RegisterSized(schema.Binary, 2147483647, "LONGBLOB")
	m.Register(schema.Boolean, "TINYINT(1)")
	m.Register(schema.Byte, "TINYINT UNSIGNED")
	m.Register(schema.Int16, "SMALLINT")
	m.Register(schema.Int32, "INTEGER")
	m.Register(schema.Int64, "BIGINT")
	m.RegisterDefault(schema.Decimal, "DECIMAL(19,5)").
		Register(schema.Decimal, "DECIMAL($size,$precision)")
	m.Register(schema.Currency, "DECIMAL(19,4)")
	m.Register(schema.Single, "FLOAT")
	m.Register(schema.Double, "DOUBLE")
	m.Register(schema.Date, "DATE")
	m.Register(schema.Time, "TIME")
	m.Register(schema.DateTime, "DATETIME")
	m.Register(schema.DateTime2, "DATETIME(6)")
	m.Register(schema.DateTimeOffset, "TIMESTAMP")
	m.Register(schema.Guid, "CHAR(36)")
	m.Register(schema.Xml, "TEXT")
	return m
}

var features = generator.NewFeatureSet(
	generator.FeatureSchemas,
	generator.FeatureAlterSchema,
	generator.FeatureAlterColumn,
	generator.FeatureForeignKeys,
	generator.FeaturePrimaryKeys,
	generator.FeatureUniqueConstraints,
	generator.FeatureDefaultConstraints,
	generator.FeatureDescriptions,
	generator.FeatureComputedColumns,
	generator.FeatureIdentityOutsidePrimaryKey,
)

func New(opts generator.Options) *Generator {
	quoter := NewQuoter()
	base := generator.NewBase(Dialect, quoter, NewTypeMap())
	base.Features = features
	base.Policy.Mode = opts.Compatibility
	base.DropForeignKey = "FOREIGN KEY"
	base.DropIndexOnTable = true
	base.InlineDescriptions = true
	base.TableDescription = func(schemaName, tableName, description string) (string, error) {
		return "ALTER TABLE " + quoter.QuoteTableName(schemaName, tableName) + " COMMENT = " + quoter.QuoteString(description), nil
	}
	base.CreateTableSuffix = func(table *schema.TableDefinition) (string, error) {
		var options []string
		if to, ok := schema.GetExtension[TableOptions](&table.Extensions); ok {
			if to.Engine != "" {
				options = append(options, "ENGINE="+to.Engine)
			}
			if to.Charset != "" {
				options = append(options, "DEFAULT CHARSET="+to.Charset)
			}
			if to.Collation != "" {
				options = append(options, "COLLATE="+to.Collation)
			}
		}
		if table.Description != "" {
			options = append(options, "COMMENT="+quoter.QuoteString(table.Description))
		}
		return strings.Join(options, " "), nil
	}

	column := base.Column
	column.Replace(generator.StepIdentity, func(c *schema.ColumnDefinition) (string, error) {
		if !c.Identity {
			return "", nil
		}
		return "AUTO_INCREMENT", nil
	})
	column.InsertAfter(generator.StepUnique, generator.ColumnStep{Name: "description", Format: func(c *schema.ColumnDefinition) (string, error) {
		if c.Description == "" {
			return "", nil
		}
		return "COMMENT " + quoter.QuoteString(c.Description), nil
	}})
	return &Generator{Base: base}
}

func (g *Generator) GenerateAlterSchema(e *expression.AlterSchema) (string, error) {
	return "RENAME TABLE " + g.TableName(e.SourceSchemaName, e.TableName) + " TO " + g.TableName(e.DestinationSchemaName, e.TableName), nil
}

// GenerateAlterColumn replaces the whole definition, comment included. MODIFY
// accepts AUTO_INCREMENT and generated columns but not key clauses.
func (g *Generator) GenerateAlterColumn(e *expression.AlterColumn) (string, error) {
	clause, err := g.Column.Format(generator.AlterableColumn(e))
	if err != nil {
		return "", err
	}
	return "ALTER TABLE " + g.TableName(e.SchemaName, e.TableName) + " MODIFY COLUMN " + clause, nil
}

func (g *Generator) GenerateDeleteConstraint(e *expression.DeleteConstraint) (string, error) {
	c := e.Constraint
	table := g.TableName(c.SchemaName, c.TableName)
	if c.Type == schema.PrimaryKeyConstraint {
		return "ALTER TABLE " + table + " DROP PRIMARY KEY", nil
	}
	return "ALTER TABLE " + table + " DROP INDEX " + g.Ident(generator.ConstraintName(c)), nil
}
