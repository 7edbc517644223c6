// Package sqlite generates SQL for SQLite 3.35 or later.
package sqlite

import (
	"github.com/sqldef/migrator/expression"
	"github.com/sqldef/migrator/generator"
	"github.com/sqldef/migrator/schema"
)

const Dialect = "sqlite"

type Generator struct {
	*generator.Base
}

func NewQuoter() *generator.BaseQuoter {
	return &generator.BaseQuoter{
		Dialect:      Dialect,
		OpenQuote:    `"`,
		CloseQuote:   `"`,
		AlwaysQuote:  true,
		TrueLiteral:  "1",
		FalseLiteral: "0",
		SystemMethods: map[schema.SystemMethod]string{
			schema.CurrentDateTime:    "(datetime('now','localtime'))",
			schema.CurrentUTCDateTime: "CURRENT_TIMESTAMP",
		},
	}
}

func NewTypeMap() *generator.TypeMap {
	m := generator.NewTypeMap(Dialect)
	for _, t := range []schema.DbType{schema.AnsiString, schema.AnsiStringFixedLength, schema.String, schema.StringFixedLength, schema.Xml} {
		m.Register(t, "TEXT")
	}
	m.Register(schema.Binary, "BLOB")
	for _, t := range []schema.DbType{schema.Boolean, schema.Byte, schema.Int16, schema.Int32, schema.Int64} {
		m.Register(t, "INTEGER")
	}
	m.Register(schema.Decimal, "NUMERIC")
	m.Register(schema.Currency, "NUMERIC")
	m.Register(schema.Single, "REAL")
	m.Register(schema.Double, "REAL")
	for _, t := range []schema.DbType{schema.Date, schema.Time, schema.DateTime, schema.DateTime2, schema.DateTimeOffset} {
		m.Register(t, "DATETIME")
	}
	m.Register(schema.Guid, "UNIQUEIDENTIFIER")
	return m
}

var features = generator.NewFeatureSet(
	generator.FeatureUniqueConstraints,
	generator.FeatureFilteredIndexes,
	generator.FeatureComputedColumns,
	generator.FeatureTransactionalDDL,
	generator.FeatureSetDefaultRule,
)

func New(opts generator.Options) *Generator {
	base := generator.NewBase(Dialect, NewQuoter(), NewTypeMap())
	base.Features = features
	base.QualifyIndexName = true
	base.Policy.Mode = opts.Compatibility

	column := base.Column
	column.InlinePrimaryKey = inlinePrimaryKey
	column.Replace(generator.StepIdentity, func(c *schema.ColumnDefinition) (string, error) {
		if !c.Identity {
			return "", nil
		}
		if !c.PrimaryKey {
			// cleared beforehand by identityGaps
			return "", &generator.UnsupportedFeatureError{Dialect: Dialect, Feature: generator.FeatureIdentityOutsidePrimaryKey, Detail: c.Name}
		}
		return "AUTOINCREMENT", nil
	})
	return &Generator{Base: base}
}

// AUTOINCREMENT only exists as part of a column-level PRIMARY KEY, so an identity
// key is inlined even when it is named.
func inlinePrimaryKey(pks []*schema.ColumnDefinition) bool {
	if len(pks) == 1 && pks[0].Identity {
		return true
	}
	return generator.InlineSingleUnnamedPrimaryKey(pks)
}

// AUTOINCREMENT needs the column to be the table's whole primary key. Other
// identity columns go through the policy; in loose mode they lose the identity
// and a comment follows the statement.
func (g *Generator) GenerateCreateTable(e *expression.CreateTable) (string, error) {
	pks := len(e.Table.PrimaryKeyColumns())
	table := e.Table
	var gaps []string
	for i, c := range e.Table.Columns {
		if !c.Identity || (c.PrimaryKey && pks == 1) {
			continue
		}
		comment, err := g.Unsupported(generator.FeatureIdentityOutsidePrimaryKey, "column "+e.Table.Name+"."+c.Name)
		if err != nil {
			return "", err
		}
		if table == e.Table {
			table = e.Table.Clone()
		}
		table.Columns[i].Identity = false
		gaps = append(gaps, comment)
	}

	sql, err := g.Base.GenerateCreateTable(&expression.CreateTable{Table: table})
	if err != nil {
		return "", err
	}
	return generator.Join(append([]string{sql}, gaps...)...), nil
}

// ADD COLUMN cannot add a primary key, so an added identity column is always a gap.
func (g *Generator) GenerateCreateColumn(e *expression.CreateColumn) (string, error) {
	if !e.Column.Identity {
		return g.Base.GenerateCreateColumn(e)
	}
	comment, err := g.Unsupported(generator.FeatureIdentityOutsidePrimaryKey, "column "+e.TableName+"."+e.Column.Name)
	if err != nil {
		return "", err
	}
	column := e.Column.Clone()
	column.Identity = false
	sql, err := g.Base.GenerateCreateColumn(&expression.CreateColumn{SchemaName: e.SchemaName, TableName: e.TableName, Column: column})
	if err != nil {
		return "", err
	}
	return generator.Join(sql, comment), nil
}

// GenerateCreateConstraint emulates UNIQUE constraints with unique indexes, since
// SQLite cannot add constraints to an existing table.
func (g *Generator) GenerateCreateConstraint(e *expression.CreateConstraint) (string, error) {
	c := e.Constraint
	if f, ok := g.ConstraintGap(c); ok {
		return g.Unsupported(f, c.Type.String()+" constraint on "+c.TableName)
	}
	return "CREATE UNIQUE INDEX " + g.TableName(c.SchemaName, generator.ConstraintName(c)) +
		" ON " + g.Ident(c.TableName) + " (" + g.Column.QuoteColumns(c.Columns) + ")", nil
}

func (g *Generator) GenerateDeleteConstraint(e *expression.DeleteConstraint) (string, error) {
	c := e.Constraint
	if c.Type == schema.PrimaryKeyConstraint {
		return g.Unsupported(generator.FeaturePrimaryKeys, "dropping primary key of "+c.TableName)
	}
	return "DROP INDEX " + g.TableName(c.SchemaName, generator.ConstraintName(c)), nil
}
