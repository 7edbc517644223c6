// Package postgres generates SQL for PostgreSQL.
package postgres

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/sqldef/migrator/expression"
	"github.com/sqldef/migrator/generator"
	"github.com/sqldef/migrator/schema"
)

const Dialect = "postgres"

// Identity selects GENERATED ALWAYS instead of GENERATED BY DEFAULT for an identity column.
type Identity struct {
	Always bool
}

func (Identity) Dialect() string { return Dialect }

type Generator struct {
	*generator.Base
}

func NewQuoter() *generator.BaseQuoter {
	return &generator.BaseQuoter{
		Dialect:     Dialect,
		OpenQuote:   `"`,
		CloseQuote:  `"`,
		AlwaysQuote: true,
		SystemMethods: map[schema.SystemMethod]string{
			schema.NewGuid:               "gen_random_uuid()",
			schema.CurrentDateTime:       "now()",
			schema.CurrentDateTimeOffset: "current_timestamp",
			schema.CurrentUTCDateTime:    "(now() at time zone 'utc')",
			schema.CurrentUser:           "current_user",
		},
		FormatBytes: func(b []byte) string {
			return `'\x` + hex.EncodeToString(b) + "'"
		},
		FormatTime: func(t time.Time) string {
			return "'" + t.Format("2006-01-02 15:04:05.999999Z07:00") + "'"
		},
	}
}

func NewTypeMap() *generator.TypeMap {
	m := generator.NewTypeMap(Dialect)
	for _, t := range []schema.DbType{schema.AnsiStringFixedLength, schema.StringFixedLength} {
		m.RegisterDefault(t, "char(255)").
			RegisterSized(t, 10485760, "char($size)")
	}
	for _, t := range []schema.DbType{schema.AnsiString, schema.String} {
		m.RegisterDefault(t, "text").
			RegisterSized(t, 10485760, "varchar($size)").
			Register(t, "text")
	}
	m.Register(schema.Binary, "bytea")
	m.Register(schema.Boolean, "boolean")
	m.Register(schema.Byte, "smallint")
	m.Register(schema.Int16, "smallint")
	m.Register(schema.Int32, "integer")
	m.Register(schema.Int64, "bigint")
	m.RegisterDefault(schema.Decimal, "decimal(19,5)").
		Register(schema.Decimal, "decimal($size,$precision)")
	m.Register(schema.Currency, "money")
	m.Register(schema.Single, "real")
	m.Register(schema.Double, "double precision")
	m.Register(schema.Date, "date")
	m.Register(schema.Time, "time")
	m.Register(schema.DateTime, "timestamp")
	m.Register(schema.DateTime2, "timestamp")
	m.Register(schema.DateTimeOffset, "timestamptz")
	m.Register(schema.Guid, "uuid")
	m.Register(schema.Xml, "xml")
	return m
}

var features = generator.BaseFeatures.With(
	generator.FeatureAlterSchema,
	generator.FeatureDescriptions,
	generator.FeatureIndexIncludes,
	generator.FeatureFilteredIndexes,
	generator.FeatureNullsNotDistinct,
)

func New(opts generator.Options) *Generator {
	quoter := NewQuoter()
	base := generator.NewBase(Dialect, quoter, NewTypeMap())
	base.Features = features
	base.Policy.Mode = opts.Compatibility
	base.TableDescription = func(schemaName, tableName, description string) (string, error) {
		return "COMMENT ON TABLE " + quoter.QuoteTableName(schemaName, tableName) + " IS " + quoter.QuoteString(description), nil
	}
	base.ColumnDescription = func(schemaName, tableName, columnName, description string) (string, error) {
		return "COMMENT ON COLUMN " + quoter.QuoteTableName(schemaName, tableName) + "." + quoter.QuoteIdentifier(columnName) +
			" IS " + quoter.QuoteString(description), nil
	}

	column := base.Column
	column.Replace(generator.StepCollation, func(c *schema.ColumnDefinition) (string, error) {
		if c.Collation == "" {
			return "", nil
		}
		return "COLLATE " + quoter.QuoteIdentifier(c.Collation), nil
	})
	// PostgreSQL only has stored generated columns.
	column.Replace(generator.StepComputed, func(c *schema.ColumnDefinition) (string, error) {
		if c.Computed == "" {
			return "", nil
		}
		return "GENERATED ALWAYS AS (" + c.Computed + ") STORED", nil
	})
	column.Replace(generator.StepIdentity, func(c *schema.ColumnDefinition) (string, error) {
		if !c.Identity {
			return "", nil
		}
		if id, ok := schema.GetExtension[Identity](&c.Extensions); ok && id.Always {
			return "GENERATED ALWAYS AS IDENTITY", nil
		}
		return "GENERATED BY DEFAULT AS IDENTITY", nil
	})
	return &Generator{Base: base}
}

// GenerateAlterColumn changes type, nullability and default in one ALTER TABLE,
// since PostgreSQL has no statement replacing a whole column definition.
func (g *Generator) GenerateAlterColumn(e *expression.AlterColumn) (string, error) {
	c := e.Column
	if detail, ok := generator.AlterColumnGap(c); ok {
		return g.Unsupported(generator.FeatureAlterColumn, detail)
	}
	column := g.Ident(c.Name)
	var actions []string

	typ, err := g.Column.FormatType(c)
	if err != nil {
		return "", err
	}
	if typ != "" {
		action := "ALTER COLUMN " + column + " TYPE " + typ
		if collation, _ := g.Column.FormatCollation(c); collation != "" {
			action += " " + collation
		}
		actions = append(actions, action)
	}

	if c.Nullable == schema.True {
		actions = append(actions, "ALTER COLUMN "+column+" DROP NOT NULL")
	} else {
		actions = append(actions, "ALTER COLUMN "+column+" SET NOT NULL")
	}

	switch c.Default.Kind {
	case schema.DefaultUndefined:
	case schema.DefaultNull:
		actions = append(actions, "ALTER COLUMN "+column+" DROP DEFAULT")
	default:
		value, err := g.Column.FormatDefaultValue(c.Default)
		if err != nil {
			return "", err
		}
		actions = append(actions, "ALTER COLUMN "+column+" SET DEFAULT "+value)
	}

	statements := []string{"ALTER TABLE " + g.TableName(e.SchemaName, e.TableName) + " " + strings.Join(actions, ", ")}
	descriptions, err := g.Descriptions(e.SchemaName, e.TableName, "", []*schema.ColumnDefinition{c})
	if err != nil {
		return "", err
	}
	return generator.Join(append(statements, descriptions...)...), nil
}
