// Package generic is the SQL-92 style reference dialect. It quotes only when
// needed and always emits primary keys as a trailing table constraint.
package generic

import (
	"github.com/sqldef/migrator/generator"
	"github.com/sqldef/migrator/schema"
)

const Dialect = "generic"

type Generator struct {
	*generator.Base
}

var reservedWords = generator.ReservedWords(
	"ADD", "ALL", "ALTER", "AND", "ANY", "AS", "ASC", "BETWEEN", "BY", "CASE", "CHECK", "COLUMN",
	"CONSTRAINT", "CREATE", "CROSS", "DEFAULT", "DELETE", "DESC", "DISTINCT", "DROP", "ELSE", "END",
	"EXISTS", "FOREIGN", "FROM", "FULL", "GROUP", "HAVING", "IN", "INDEX", "INNER", "INSERT", "INTO",
	"IS", "JOIN", "KEY", "LEFT", "LIKE", "NOT", "NULL", "ON", "OR", "ORDER", "OUTER", "PRIMARY",
	"REFERENCES", "RIGHT", "SELECT", "SET", "TABLE", "THEN", "TO", "UNION", "UNIQUE", "UPDATE",
	"USER", "VALUES", "WHEN", "WHERE", "WITH",
)

func NewQuoter() *generator.BaseQuoter {
	return &generator.BaseQuoter{
		Dialect:       Dialect,
		OpenQuote:     `"`,
		CloseQuote:    `"`,
		ReservedWords: reservedWords,
		SystemMethods: map[schema.SystemMethod]string{
			schema.CurrentDateTime: "CURRENT_TIMESTAMP",
			schema.CurrentUser:     "CURRENT_USER",
		},
	}
}

func NewTypeMap() *generator.TypeMap {
	m := generator.NewTypeMap(Dialect)
	m.RegisterDefault(schema.AnsiStringFixedLength, "CHAR(255)").
		RegisterSized(schema.AnsiStringFixedLength, 255, "CHAR($size)")
	m.RegisterDefault(schema.AnsiString, "VARCHAR(255)").
		RegisterSized(schema.AnsiString, 8000, "VARCHAR($size)").
		Register(schema.AnsiString, "CLOB")
	m.RegisterDefault(schema.StringFixedLength, "NCHAR(255)").
		RegisterSized(schema.StringFixedLength, 255, "NCHAR($size)")
	m.RegisterDefault(schema.String, "VARCHAR(255)").
		RegisterSized(schema.String, 8000, "VARCHAR($size)").
		Register(schema.String, "CLOB")
	m.RegisterDefault(schema.Binary, "BLOB").
		RegisterSized(schema.Binary, 8000, "VARBINARY($size)").
		Register(schema.Binary, "BLOB")
	m.Register(schema.Boolean, "BOOLEAN")
	m.Register(schema.Byte, "SMALLINT")
	m.Register(schema.Int16, "SMALLINT")
	m.Register(schema.Int32, "INTEGER")
	m.Register(schema.Int64, "BIGINT")
	m.RegisterDefault(schema.Decimal, "DECIMAL(19,5)").
		Register(schema.Decimal, "DECIMAL($size,$precision)")
	m.Register(schema.Currency, "DECIMAL(19,4)")
	m.Register(schema.Single, "REAL")
	m.Register(schema.Double, "DOUBLE PRECISION")
	m.Register(schema.Date, "DATE")
	m.Register(schema.Time, "TIME")
	m.Register(schema.DateTime, "TIMESTAMP")
	m.Register(schema.DateTime2, "TIMESTAMP")
	m.Register(schema.DateTimeOffset, "TIMESTAMP WITH TIME ZONE")
	m.Register(schema.Guid, "CHAR(36)")
	return m
}

func New(opts generator.Options) *Generator {
	base := generator.NewBase(Dialect, NewQuoter(), NewTypeMap())
	base.Column.InlinePrimaryKey = generator.NeverInlinePrimaryKey
	base.Policy.Mode = opts.Compatibility
	return &Generator{Base: base}
}
