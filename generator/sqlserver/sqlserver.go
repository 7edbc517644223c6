// Package sqlserver generates T-SQL for SQL Server 2016 or later.
package sqlserver

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/sqldef/migrator/conventions"
	"github.com/sqldef/migrator/expression"
	"github.com/sqldef/migrator/generator"
	"github.com/sqldef/migrator/schema"
)

const (
	Dialect       = "sqlserver"
	DefaultSchema = "dbo"
)

// Sparse marks a column SPARSE.
type Sparse struct{}

func (Sparse) Dialect() string { return Dialect }

// RowGUID marks a uniqueidentifier column ROWGUIDCOL.
type RowGUID struct{}

func (RowGUID) Dialect() string { return Dialect }

// Identity overrides the IDENTITY(1,1) seed and increment. A zero Increment
// means 1, as SQL Server rejects an increment of 0.
type Identity struct {
	Seed      int64
	Increment int64
}

func (Identity) Dialect() string { return Dialect }

type Generator struct {
	*generator.Base
}

func NewQuoter() *generator.BaseQuoter {
	return &generator.BaseQuoter{
		Dialect:      Dialect,
		OpenQuote:    "[",
		CloseQuote:   "]",
		AlwaysQuote:  true,
		StringPrefix: "N",
		TrueLiteral:  "1",
		FalseLiteral: "0",
		SystemMethods: map[schema.SystemMethod]string{
			schema.NewGuid:               "NEWID()",
			schema.NewSequentialId:       "NEWSEQUENTIALID()",
			schema.CurrentDateTime:       "GETDATE()",
			schema.CurrentDateTimeOffset: "SYSDATETIMEOFFSET()",
			schema.CurrentUTCDateTime:    "GETUTCDATE()",
			schema.CurrentUser:           "CURRENT_USER",
		},
		FormatBytes: func(b []byte) string {
			return "0x" + strings.ToUpper(hex.EncodeToString(b))
		},
	}
}

func NewTypeMap() *generator.TypeMap {
	m := generator.NewTypeMap(Dialect)
	m.RegisterDefault(schema.AnsiStringFixedLength, "CHAR(255)").
		RegisterSized(schema.AnsiStringFixedLength, 8000, "CHAR($size)")
	m.RegisterDefault(schema.AnsiString, "VARCHAR(255)").
		RegisterSized(schema.AnsiString, 8000, "VARCHAR($size)").
		Register(schema.AnsiString, "VARCHAR(MAX)")
	m.RegisterDefault(schema.StringFixedLength, "NCHAR(255)").
		RegisterSized(schema.StringFixedLength, 4000, "NCHAR($size)")
	m.RegisterDefault(schema.String, "NVARCHAR(255)").
		RegisterSized(schema.String, 4000, "NVARCHAR($size)").
		Register(schema.String, "NVARCHAR(MAX)")
	m.RegisterDefault(schema.Binary, "VARBINARY(8000)").
		RegisterSized(schema.Binary, 8000, "VARBINARY($size)").
		Register(schema.Binary, "VARBINARY(MAX)")
	m.Register(schema.Boolean, "BIT")
	m.Register(schema.Byte, "TINYINT")
	m.Register(schema.Int16, "SMALLINT")
	m.Register(schema.Int32, "INT")
	m.Register(schema.Int64, "BIGINT")
	m.RegisterDefault(schema.Decimal, "DECIMAL(19,5)").
		RegisterSized(schema.Decimal, 38, "DECIMAL($size,$precision)")
	m.Register(schema.Currency, "MONEY")
	m.Register(schema.Single, "REAL")
	m.Register(schema.Double, "DOUBLE PRECISION")
	m.Register(schema.Date, "DATE")
	m.Register(schema.Time, "TIME")
	m.Register(schema.DateTime, "DATETIME")
	m.Register(schema.DateTime2, "DATETIME2")
	m.Register(schema.DateTimeOffset, "DATETIMEOFFSET")
	m.Register(schema.Guid, "UNIQUEIDENTIFIER")
	m.Register(schema.Xml, "XML")
	return m
}

var features = generator.BaseFeatures.With(
	generator.FeatureAlterSchema,
	generator.FeatureDescriptions,
	generator.FeatureIndexIncludes,
	generator.FeatureFilteredIndexes,
	generator.FeatureClusteredIndexes,
	generator.FeatureNullsNotDistinct,
)

func New(opts generator.Options) *Generator {
	quoter := NewQuoter()
	base := generator.NewBase(Dialect, quoter, NewTypeMap())
	base.Features = features
	base.Policy.Mode = opts.Compatibility
	base.AddColumn = "ADD"
	base.DropIndexOnTable = true
	g := &Generator{Base: base}
	base.TableDescription = func(schemaName, tableName, description string) (string, error) {
		return g.addDescription(schemaName, tableName, "", description), nil
	}
	base.ColumnDescription = func(schemaName, tableName, columnName, description string) (string, error) {
		return g.addDescription(schemaName, tableName, columnName, description), nil
	}

	column := base.Column
	column.NullKeyword = "NULL"
	column.Replace(generator.StepType, func(c *schema.ColumnDefinition) (string, error) {
		if c.Computed != "" {
			return "", nil
		}
		return column.FormatType(c)
	})
	column.Replace(generator.StepComputed, func(c *schema.ColumnDefinition) (string, error) {
		if c.Computed == "" {
			return "", nil
		}
		sql := "AS (" + c.Computed + ")"
		if c.ComputedStored {
			sql += " PERSISTED"
		}
		return sql, nil
	})
	column.Replace(generator.StepDefault, func(c *schema.ColumnDefinition) (string, error) {
		value, err := column.FormatDefaultValue(c.Default)
		if err != nil || value == "" {
			return "", err
		}
		if c.TableName == "" {
			return "DEFAULT " + value, nil
		}
		return "CONSTRAINT " + quoter.QuoteIdentifier(conventions.DefaultConstraintName(c.TableName, c.Name)) + " DEFAULT " + value, nil
	})
	column.Replace(generator.StepIdentity, func(c *schema.ColumnDefinition) (string, error) {
		if !c.Identity {
			return "", nil
		}
		seed, increment := int64(1), int64(1)
		if id, ok := schema.GetExtension[Identity](&c.Extensions); ok {
			seed = id.Seed
			if id.Increment != 0 {
				increment = id.Increment
			}
		}
		return fmt.Sprintf("IDENTITY(%d,%d)", seed, increment), nil
	})
	column.InsertAfter(generator.StepType, generator.ColumnStep{Name: "sparse", Format: func(c *schema.ColumnDefinition) (string, error) {
		if _, ok := schema.GetExtension[Sparse](&c.Extensions); ok {
			return "SPARSE", nil
		}
		return "", nil
	}})
	column.InsertAfter("sparse", generator.ColumnStep{Name: "rowguid", Format: func(c *schema.ColumnDefinition) (string, error) {
		if _, ok := schema.GetExtension[RowGUID](&c.Extensions); ok {
			return "ROWGUIDCOL", nil
		}
		return "", nil
	}})
	return g
}

func qualifiedSchema(schemaName string) string {
	if schemaName == "" {
		return DefaultSchema
	}
	return schemaName
}

func (g *Generator) addDescription(schemaName, tableName, columnName, description string) string {
	sql := "EXEC sys.sp_addextendedproperty @name = N'MS_Description', @value = " + g.Quoter.QuoteString(description) +
		", @level0type = N'SCHEMA', @level0name = " + g.Quoter.QuoteString(qualifiedSchema(schemaName)) +
		", @level1type = N'TABLE', @level1name = " + g.Quoter.QuoteString(tableName)
	if columnName != "" {
		sql += ", @level2type = N'COLUMN', @level2name = " + g.Quoter.QuoteString(columnName)
	}
	return sql
}

func (g *Generator) GenerateAlterSchema(e *expression.AlterSchema) (string, error) {
	return "ALTER SCHEMA " + g.Ident(e.DestinationSchemaName) + " TRANSFER " + g.TableName(e.SourceSchemaName, e.TableName), nil
}

// GenerateAlterTable replaces an existing description.
func (g *Generator) GenerateAlterTable(e *expression.AlterTable) (string, error) {
	if e.Description == "" {
		return "", nil
	}
	schemaName := g.Quoter.QuoteString(qualifiedSchema(e.SchemaName))
	tableName := g.Quoter.QuoteString(e.TableName)
	drop := "IF EXISTS (SELECT * FROM fn_listextendedproperty(N'MS_Description', N'SCHEMA', " + schemaName + ", N'TABLE', " + tableName + ", NULL, NULL))" +
		" EXEC sys.sp_dropextendedproperty @name = N'MS_Description', @level0type = N'SCHEMA', @level0name = " + schemaName +
		", @level1type = N'TABLE', @level1name = " + tableName
	return generator.Join(drop, g.addDescription(e.SchemaName, e.TableName, "", e.Description)), nil
}

func (g *Generator) GenerateRenameTable(e *expression.RenameTable) (string, error) {
	return "EXEC sp_rename " + g.Quoter.QuoteString(g.TableName(e.SchemaName, e.OldName)) + ", " + g.Quoter.QuoteString(e.NewName), nil
}

func (g *Generator) GenerateRenameColumn(e *expression.RenameColumn) (string, error) {
	return "EXEC sp_rename " + g.Quoter.QuoteString(g.TableName(e.SchemaName, e.TableName)+"."+g.Ident(e.OldName)) +
		", " + g.Quoter.QuoteString(e.NewName) + ", N'COLUMN'", nil
}

// dropDefault drops whatever default constraint the column has, whatever its name.
// n keeps the batch variables unique when one batch drops several defaults.
func (g *Generator) dropDefault(schemaName, tableName, columnName string, n int) string {
	table := g.TableName(qualifiedSchema(schemaName), tableName)
	variable := "@default" + strconv.Itoa(n)
	return "DECLARE " + variable + " sysname; " +
		"SELECT " + variable + " = name FROM sys.default_constraints WHERE parent_object_id = OBJECT_ID(" + g.Quoter.QuoteString(table) + ")" +
		" AND parent_column_id = COLUMNPROPERTY(OBJECT_ID(" + g.Quoter.QuoteString(table) + "), " + g.Quoter.QuoteString(columnName) + ", 'ColumnId'); " +
		"IF " + variable + " IS NOT NULL EXEC(N'ALTER TABLE " + strings.ReplaceAll(table, "'", "''") + " DROP CONSTRAINT [' + " + variable + " + N']')"
}

func (g *Generator) addDefault(schemaName, tableName, columnName string, d schema.Default) (string, error) {
	value, err := g.Column.FormatDefaultValue(d)
	if err != nil {
		return "", err
	}
	return "ALTER TABLE " + g.TableName(schemaName, tableName) + " ADD CONSTRAINT " +
		g.Ident(conventions.DefaultConstraintName(tableName, columnName)) + " DEFAULT " + value + " FOR " + g.Ident(columnName), nil
}

// GenerateAlterColumn keeps defaults out of ALTER COLUMN, which cannot carry them.
func (g *Generator) GenerateAlterColumn(e *expression.AlterColumn) (string, error) {
	if detail, ok := generator.AlterColumnGap(e.Column); ok {
		return g.Unsupported(generator.FeatureAlterColumn, detail)
	}
	column := generator.AlterableColumn(e)
	d := column.Default
	column.Default = schema.Default{}
	clause, err := g.Column.Format(column)
	if err != nil {
		return "", err
	}
	statements := []string{"ALTER TABLE " + g.TableName(e.SchemaName, e.TableName) + " ALTER COLUMN " + clause}
	if d.IsDefined() {
		add, err := g.addDefault(e.SchemaName, e.TableName, column.Name, d)
		if err != nil {
			return "", err
		}
		statements = append(statements, g.dropDefault(e.SchemaName, e.TableName, column.Name, 0), add)
	}
	return generator.Join(statements...), nil
}

// GenerateDeleteColumn drops the default constraints first; SQL Server refuses
// to drop a column that still has one.
func (g *Generator) GenerateDeleteColumn(e *expression.DeleteColumn) (string, error) {
	var statements []string
	for i, name := range e.ColumnNames {
		statements = append(statements,
			g.dropDefault(e.SchemaName, e.TableName, name, i),
			"ALTER TABLE "+g.TableName(e.SchemaName, e.TableName)+" DROP COLUMN "+g.Ident(name))
	}
	return generator.Join(statements...), nil
}

func (g *Generator) GenerateAlterDefaultConstraint(e *expression.AlterDefaultConstraint) (string, error) {
	add, err := g.addDefault(e.SchemaName, e.TableName, e.ColumnName, e.Default)
	if err != nil {
		return "", err
	}
	return generator.Join(g.dropDefault(e.SchemaName, e.TableName, e.ColumnName, 0), add), nil
}

func (g *Generator) GenerateDeleteDefaultConstraint(e *expression.DeleteDefaultConstraint) (string, error) {
	return g.dropDefault(e.SchemaName, e.TableName, e.ColumnName, 0), nil
}

// notNullFilter emulates NULLS DISTINCT: unique indexes treat NULLs as equal on
// SQL Server, so rows with a NULL key column are left out of the index.
func (g *Generator) notNullFilter(columns []string, filter string) string {
	conditions := make([]string, 0, len(columns)+1)
	if filter != "" {
		conditions = append(conditions, "("+filter+")")
	}
	for _, c := range columns {
		conditions = append(conditions, g.Ident(c)+" IS NOT NULL")
	}
	return strings.Join(conditions, " AND ")
}

func (g *Generator) GenerateCreateIndex(e *expression.CreateIndex) (string, error) {
	ix := *e.Index
	filter := ix.Filter
	if ix.Unique && ix.NullsDistinct == schema.True {
		filter = g.notNullFilter(ix.ColumnNames(), filter)
	}
	// NULLs are never distinct natively, so there is no clause to emit.
	ix.NullsDistinct = schema.Unset
	return g.FormatCreateIndex(&ix, filter), nil
}

func (g *Generator) GenerateCreateConstraint(e *expression.CreateConstraint) (string, error) {
	c := *e.Constraint
	if c.Type == schema.UniqueConstraint && c.NullsDistinct == schema.True {
		ix := &schema.IndexDefinition{
			Name:       generator.ConstraintName(&c),
			SchemaName: c.SchemaName,
			TableName:  c.TableName,
			Unique:     true,
		}
		for _, name := range c.Columns {
			ix.Columns = append(ix.Columns, schema.IndexColumn{Name: name})
		}
		return g.FormatCreateIndex(ix, g.notNullFilter(c.Columns, "")), nil
	}
	c.NullsDistinct = schema.Unset
	return g.Base.GenerateCreateConstraint(&expression.CreateConstraint{Constraint: &c})
}

// GenerateDeleteConstraint also drops the filtered index that emulates a
// NULLS DISTINCT unique constraint.
func (g *Generator) GenerateDeleteConstraint(e *expression.DeleteConstraint) (string, error) {
	c := e.Constraint
	name := generator.ConstraintName(c)
	table := g.TableName(c.SchemaName, c.TableName)
	if c.Type == schema.UniqueConstraint && c.NullsDistinct == schema.True {
		return "DROP INDEX " + g.Ident(name) + " ON " + table, nil
	}
	return "ALTER TABLE " + table + " DROP CONSTRAINT " + g.Ident(name), nil
}

func (g *Generator) GenerateCreateSequence(e *expression.CreateSequence) (string, error) {
	s := e.Sequence
	sql := "CREATE SEQUENCE " + g.TableName(s.SchemaName, s.Name)
	for _, opt := range []struct {
		keyword string
		value   *int64
	}{
		{"START WITH", s.StartWith},
		{"INCREMENT BY", s.Increment},
		{"MINVALUE", s.MinValue},
		{"MAXVALUE", s.MaxValue},
	} {
		if opt.value != nil {
			sql += " " + opt.keyword + " " + strconv.FormatInt(*opt.value, 10)
		}
	}
	if s.Cycle {
		sql += " CYCLE"
	}
	if s.Cache != nil {
		sql += " CACHE " + strconv.FormatInt(*s.Cache, 10)
	}
	return sql, nil
}
