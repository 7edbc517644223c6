package migration

import (
	"fmt"
	"os"

	"github.com/sqldef/migrator/expression"
	"github.com/sqldef/migrator/generator/mysql"
	"github.com/sqldef/migrator/generator/postgres"
	"github.com/sqldef/migrator/generator/sqlserver"
	"github.com/sqldef/migrator/schema"
	"gopkg.in/yaml.v2"
)

// A migration document is a YAML list of migrations. Every step is a mapping
// with exactly one key naming the expression:
//
//	# migrations.yml
//	- version: 1
//	  description: users
//	  up:
//	    - create_table:
//	        name: Users
//	        columns:
//	          - {name: Id, type: int32, primary_key: true, identity: true}
//	    - insert:
//	        table: Users
//	        rows:
//	          - {Id: 1, Name: root}
type migrationDoc struct {
	Version     int64     `yaml:"version"`
	Description string    `yaml:"description"`
	Up          []stepDoc `yaml:"up"`
	Down        []stepDoc `yaml:"down"`
}

type stepDoc struct {
	CreateSchema     *schemaDoc     `yaml:"create_schema"`
	DeleteSchema     *schemaDoc     `yaml:"delete_schema"`
	MoveTable        *moveTableDoc  `yaml:"move_table"`
	CreateTable      *tableDoc      `yaml:"create_table"`
	DeleteTable      *tableRefDoc   `yaml:"delete_table"`
	RenameTable      *renameDoc     `yaml:"rename_table"`
	DescribeTable    *describeDoc   `yaml:"describe_table"`
	AddColumn        *columnOpDoc   `yaml:"add_column"`
	AlterColumn      *columnOpDoc   `yaml:"alter_column"`
	DeleteColumn     *deleteColsDoc `yaml:"delete_column"`
	RenameColumn     *renameDoc     `yaml:"rename_column"`
	CreateIndex      *indexDoc      `yaml:"create_index"`
	DeleteIndex      *indexDoc      `yaml:"delete_index"`
	CreateForeignKey *foreignKeyDoc `yaml:"create_foreign_key"`
	DeleteForeignKey *foreignKeyDoc `yaml:"delete_foreign_key"`
	CreateConstraint *constraintDoc `yaml:"create_constraint"`
	DeleteConstraint *constraintDoc `yaml:"delete_constraint"`
	CreateSequence   *sequenceDoc   `yaml:"create_sequence"`
	DeleteSequence   *sequenceDoc   `yaml:"delete_sequence"`
	AlterDefault     *defaultDoc    `yaml:"alter_default"`
	DeleteDefault    *defaultDoc    `yaml:"delete_default"`
	Insert           *rowsDoc       `yaml:"insert"`
	Update           *updateDoc     `yaml:"update"`
	DeleteRows       *rowsDoc       `yaml:"delete_rows"`
	SQL              *string        `yaml:"sql"`
	Script           *scriptDoc     `yaml:"script"`
	EmbeddedScript   *scriptDoc     `yaml:"embedded_script"`
}

type schemaDoc struct {
	Name string `yaml:"name"`
}

type moveTableDoc struct {
	Schema string `yaml:"schema"`
	Table  string `yaml:"table"`
	To     string `yaml:"to"`
}

type tableRefDoc struct {
	Schema string `yaml:"schema"`
	Table  string `yaml:"table"`
}

type renameDoc struct {
	Schema string `yaml:"schema"`
	Table  string `yaml:"table"` // rename_column only
	From   string `yaml:"from"`
	To     string `yaml:"to"`
}

type describeDoc struct {
	Schema      string `yaml:"schema"`
	Table       string `yaml:"table"`
	Description string `yaml:"description"`
}

type tableDoc struct {
	Schema      string       `yaml:"schema"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Columns     []*columnDoc `yaml:"columns"`
	MySQL       *mysqlDoc    `yaml:"mysql"`
}

type mysqlDoc struct {
	Engine    string `yaml:"engine"`
	Charset   string `yaml:"charset"`
	Collation string `yaml:"collation"`
}

type columnDoc struct {
	Name           string         `yaml:"name"`
	Type           string         `yaml:"type"`
	CustomType     string         `yaml:"custom_type"`
	Size           *int           `yaml:"size"`
	Precision      *int           `yaml:"precision"`
	Nullable       *bool          `yaml:"nullable"`
	Default        any            `yaml:"default"`
	DefaultNull    bool           `yaml:"default_null"`
	DefaultMethod  string         `yaml:"default_method"`
	Identity       bool           `yaml:"identity"`
	PrimaryKey     bool           `yaml:"primary_key"`
	PrimaryKeyName string         `yaml:"primary_key_name"`
	Unique         bool           `yaml:"unique"`
	References     *foreignKeyDoc `yaml:"references"`
	Computed       string         `yaml:"computed"`
	Stored         bool           `yaml:"stored"`
	Collation      string         `yaml:"collation"`
	Description    string         `yaml:"description"`
	SQLServer      *sqlserverDoc  `yaml:"sqlserver"`
	Postgres       *postgresDoc   `yaml:"postgres"`
}

type sqlserverDoc struct {
	Sparse            bool   `yaml:"sparse"`
	RowGUID           bool   `yaml:"rowguid"`
	IdentitySeed      *int64 `yaml:"identity_seed"`
	IdentityIncrement *int64 `yaml:"identity_increment"`
}

type postgresDoc struct {
	IdentityAlways bool `yaml:"identity_always"`
}

type columnOpDoc struct {
	Schema string     `yaml:"schema"`
	Table  string     `yaml:"table"`
	Column *columnDoc `yaml:"column"`
}

type deleteColsDoc struct {
	Schema  string   `yaml:"schema"`
	Table   string   `yaml:"table"`
	Columns []string `yaml:"columns"`
}

type indexDoc struct {
	Schema        string   `yaml:"schema"`
	Table         string   `yaml:"table"`
	Name          string   `yaml:"name"`
	Columns       []string `yaml:"columns"`
	Descending    []string `yaml:"descending"`
	Unique        bool     `yaml:"unique"`
	Clustered     bool     `yaml:"clustered"`
	NullsDistinct *bool    `yaml:"nulls_distinct"`
	Include       []string `yaml:"include"`
	Filter        string   `yaml:"filter"`
}

type foreignKeyDoc struct {
	Name           string   `yaml:"name"`
	Schema         string   `yaml:"schema"`
	Table          string   `yaml:"table"`
	Columns        []string `yaml:"columns"`
	PrimarySchema  string   `yaml:"primary_schema"`
	PrimaryTable   string   `yaml:"primary_table"`
	PrimaryColumns []string `yaml:"primary_columns"`
	OnDelete       string   `yaml:"on_delete"`
	OnUpdate       string   `yaml:"on_update"`
}

type constraintDoc struct {
	Schema        string   `yaml:"schema"`
	Table         string   `yaml:"table"`
	Name          string   `yaml:"name"`
	Type          string   `yaml:"type"`
	Columns       []string `yaml:"columns"`
	NullsDistinct *bool    `yaml:"nulls_distinct"`
}

type sequenceDoc struct {
	Schema    string `yaml:"schema"`
	Name      string `yaml:"name"`
	StartWith *int64 `yaml:"start_with"`
	Increment *int64 `yaml:"increment"`
	MinValue  *int64 `yaml:"min_value"`
	MaxValue  *int64 `yaml:"max_value"`
	Cache     *int64 `yaml:"cache"`
	Cycle     bool   `yaml:"cycle"`
}

type defaultDoc struct {
	Schema string `yaml:"schema"`
	Table  string `yaml:"table"`
	Column string `yaml:"column"`
	Value  any    `yaml:"value"`
	Method string `yaml:"method"`
}

type rowsDoc struct {
	Schema  string          `yaml:"schema"`
	Table   string          `yaml:"table"`
	Rows    []yaml.MapSlice `yaml:"rows"`
	AllRows bool            `yaml:"all_rows"`
}

type updateDoc struct {
	Schema  string        `yaml:"schema"`
	Table   string        `yaml:"table"`
	Set     yaml.MapSlice `yaml:"set"`
	Where   yaml.MapSlice `yaml:"where"`
	AllRows bool          `yaml:"all_rows"`
}

type scriptDoc struct {
	Path       string            `yaml:"path"`
	Name       string            `yaml:"name"`
	Parameters map[string]string `yaml:"parameters"`
}

func ParseFile(path string) ([]*Migration, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	migrations, err := Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return migrations, nil
}

// Parse decodes a migration document. Unknown keys are errors.
func Parse(buf []byte) ([]*Migration, error) {
	var docs []migrationDoc
	if err := yaml.UnmarshalStrict(buf, &docs); err != nil {
		return nil, err
	}
	migrations := make([]*Migration, 0, len(docs))
	for _, doc := range docs {
		m := &Migration{Version: doc.Version, Description: doc.Description}
		var err error
		if m.Up, err = decodeSteps(doc.Up); err != nil {
			return nil, fmt.Errorf("migration %d up: %w", doc.Version, err)
		}
		if m.Down, err = decodeSteps(doc.Down); err != nil {
			return nil, fmt.Errorf("migration %d down: %w", doc.Version, err)
		}
		migrations = append(migrations, m)
	}
	if err := Sort(migrations); err != nil {
		return nil, err
	}
	return migrations, nil
}

// ParseSteps decodes a bare list of steps, as written under up or down.
func ParseSteps(buf []byte) ([]expression.Expression, error) {
	var steps []stepDoc
	if err := yaml.UnmarshalStrict(buf, &steps); err != nil {
		return nil, err
	}
	return decodeSteps(steps)
}

func decodeSteps(steps []stepDoc) ([]expression.Expression, error) {
	exprs := make([]expression.Expression, 0, len(steps))
	for i, step := range steps {
		e, err := step.decode()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func (s stepDoc) decode() (expression.Expression, error) {
	var decoded []expression.Expression
	var err error
	emit := func(e expression.Expression, decodeErr error) {
		if decodeErr != nil && err == nil {
			err = decodeErr
		}
		decoded = append(decoded, e)
	}

	if s.CreateSchema != nil {
		emit(&expression.CreateSchema{SchemaName: s.CreateSchema.Name}, nil)
	}
	if s.DeleteSchema != nil {
		emit(&expression.DeleteSchema{SchemaName: s.DeleteSchema.Name}, nil)
	}
	if s.MoveTable != nil {
		emit(&expression.AlterSchema{SourceSchemaName: s.MoveTable.Schema, TableName: s.MoveTable.Table, DestinationSchemaName: s.MoveTable.To}, nil)
	}
	if s.CreateTable != nil {
		emit(s.CreateTable.decode())
	}
	if s.DeleteTable != nil {
		emit(&expression.DeleteTable{SchemaName: s.DeleteTable.Schema, TableName: s.DeleteTable.Table}, nil)
	}
	if s.RenameTable != nil {
		emit(&expression.RenameTable{SchemaName: s.RenameTable.Schema, OldName: s.RenameTable.From, NewName: s.RenameTable.To}, nil)
	}
	if s.DescribeTable != nil {
		d := s.DescribeTable
		emit(&expression.AlterTable{SchemaName: d.Schema, TableName: d.Table, Description: d.Description}, nil)
	}
	if s.AddColumn != nil {
		c, err := s.AddColumn.Column.decode()
		emit(&expression.CreateColumn{SchemaName: s.AddColumn.Schema, TableName: s.AddColumn.Table, Column: c}, err)
	}
	if s.AlterColumn != nil {
		c, err := s.AlterColumn.Column.decode()
		emit(&expression.AlterColumn{SchemaName: s.AlterColumn.Schema, TableName: s.AlterColumn.Table, Column: c}, err)
	}
	if s.DeleteColumn != nil {
		d := s.DeleteColumn
		emit(&expression.DeleteColumn{SchemaName: d.Schema, TableName: d.Table, ColumnNames: d.Columns}, nil)
	}
	if s.RenameColumn != nil {
		r := s.RenameColumn
		emit(&expression.RenameColumn{SchemaName: r.Schema, TableName: r.Table, OldName: r.From, NewName: r.To}, nil)
	}
	if s.CreateIndex != nil {
		emit(&expression.CreateIndex{Index: s.CreateIndex.decode()}, nil)
	}
	if s.DeleteIndex != nil {
		emit(&expression.DeleteIndex{Index: s.DeleteIndex.decode()}, nil)
	}
	if s.CreateForeignKey != nil {
		fk, err := s.CreateForeignKey.decode()
		emit(&expression.CreateForeignKey{ForeignKey: fk}, err)
	}
	if s.DeleteForeignKey != nil {
		fk, err := s.DeleteForeignKey.decode()
		emit(&expression.DeleteForeignKey{ForeignKey: fk}, err)
	}
	if s.CreateConstraint != nil {
		c, err := s.CreateConstraint.decode()
		emit(&expression.CreateConstraint{Constraint: c}, err)
	}
	if s.DeleteConstraint != nil {
		c, err := s.DeleteConstraint.decode()
		emit(&expression.DeleteConstraint{Constraint: c}, err)
	}
	if s.CreateSequence != nil {
		q := s.CreateSequence
		emit(&expression.CreateSequence{Sequence: &schema.SequenceDefinition{
			Name: q.Name, SchemaName: q.Schema, StartWith: q.StartWith, Increment: q.Increment,
			MinValue: q.MinValue, MaxValue: q.MaxValue, Cache: q.Cache, Cycle: q.Cycle,
		}}, nil)
	}
	if s.DeleteSequence != nil {
		emit(&expression.DeleteSequence{SchemaName: s.DeleteSequence.Schema, SequenceName: s.DeleteSequence.Name}, nil)
	}
	if s.AlterDefault != nil {
		d := s.AlterDefault
		def, err := decodeDefault(d.Value, false, d.Method)
		emit(&expression.AlterDefaultConstraint{SchemaName: d.Schema, TableName: d.Table, ColumnName: d.Column, Default: def}, err)
	}
	if s.DeleteDefault != nil {
		d := s.DeleteDefault
		emit(&expression.DeleteDefaultConstraint{SchemaName: d.Schema, TableName: d.Table, ColumnName: d.Column}, nil)
	}
	if s.Insert != nil {
		emit(&expression.InsertData{SchemaName: s.Insert.Schema, TableName: s.Insert.Table, Rows: decodeRows(s.Insert.Rows)}, nil)
	}
	if s.Update != nil {
		u := s.Update
		emit(&expression.UpdateData{SchemaName: u.Schema, TableName: u.Table, Set: decodeRow(u.Set), Where: decodeRow(u.Where), AllRows: u.AllRows}, nil)
	}
	if s.DeleteRows != nil {
		d := s.DeleteRows
		emit(&expression.DeleteData{SchemaName: d.Schema, TableName: d.Table, Rows: decodeRows(d.Rows), AllRows: d.AllRows}, nil)
	}
	if s.SQL != nil {
		emit(&expression.ExecuteSQL{SQL: *s.SQL}, nil)
	}
	if s.Script != nil {
		emit(&expression.ExecuteSQLScript{ScriptPath: s.Script.Path, Parameters: s.Script.Parameters}, nil)
	}
	if s.EmbeddedScript != nil {
		emit(&expression.ExecuteEmbeddedSQLScript{ResourceName: s.EmbeddedScript.Name, Parameters: s.EmbeddedScript.Parameters}, nil)
	}

	if len(decoded) != 1 {
		return nil, fmt.Errorf("a step must have exactly one expression key, got %d", len(decoded))
	}
	return decoded[0], err
}

func (t *tableDoc) decode() (expression.Expression, error) {
	table := &schema.TableDefinition{Name: t.Name, SchemaName: t.Schema, Description: t.Description}
	for _, doc := range t.Columns {
		c, err := doc.decode()
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Name, err)
		}
		table.Columns = append(table.Columns, c)
	}
	if t.MySQL != nil {
		table.Extensions.Set(mysql.TableOptions{Engine: t.MySQL.Engine, Charset: t.MySQL.Charset, Collation: t.MySQL.Collation})
	}
	return &expression.CreateTable{Table: table}, nil
}

func (c *columnDoc) decode() (*schema.ColumnDefinition, error) {
	if c == nil {
		return nil, fmt.Errorf("column is missing")
	}
	column := &schema.ColumnDefinition{
		Name:           c.Name,
		CustomType:     c.CustomType,
		Size:           c.Size,
		Precision:      c.Precision,
		Identity:       c.Identity,
		PrimaryKey:     c.PrimaryKey,
		PrimaryKeyName: c.PrimaryKeyName,
		Unique:         c.Unique,
		Computed:       c.Computed,
		ComputedStored: c.Stored,
		Collation:      c.Collation,
		Description:    c.Description,
	}
	if c.Type != "" {
		t, err := schema.ParseDbType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		column.Type = t
	}
	if c.Nullable != nil {
		column.Nullable = schema.Bool(*c.Nullable)
	}
	d, err := decodeDefault(c.Default, c.DefaultNull, c.DefaultMethod)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", c.Name, err)
	}
	column.Default = d
	if c.References != nil {
		fk, err := c.References.decode()
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		column.ForeignKey = fk
	}
	if ss := c.SQLServer; ss != nil {
		if ss.Sparse {
			column.Extensions.Set(sqlserver.Sparse{})
		}
		if ss.RowGUID {
			column.Extensions.Set(sqlserver.RowGUID{})
		}
		if ss.IdentitySeed != nil || ss.IdentityIncrement != nil {
			id := sqlserver.Identity{Seed: 1, Increment: 1}
			if ss.IdentitySeed != nil {
				id.Seed = *ss.IdentitySeed
			}
			if ss.IdentityIncrement != nil {
				id.Increment = *ss.IdentityIncrement
			}
			column.Extensions.Set(id)
		}
	}
	if c.Postgres != nil && c.Postgres.IdentityAlways {
		column.Extensions.Set(postgres.Identity{Always: true})
	}
	return column, nil
}

func decodeDefault(value any, null bool, method string) (schema.Default, error) {
	switch {
	case method != "":
		m, err := schema.ParseSystemMethod(method)
		if err != nil {
			return schema.Default{}, err
		}
		return schema.MethodDefault(m), nil
	case null:
		return schema.NullDefault(), nil
	case value != nil:
		return schema.ValueDefault(value), nil
	default:
		return schema.Default{}, nil
	}
}

func (f *foreignKeyDoc) decode() (*schema.ForeignKeyDefinition, error) {
	onDelete, err := schema.ParseRule(f.OnDelete)
	if err != nil {
		return nil, err
	}
	onUpdate, err := schema.ParseRule(f.OnUpdate)
	if err != nil {
		return nil, err
	}
	return &schema.ForeignKeyDefinition{
		Name:               f.Name,
		ForeignTable:       f.Table,
		ForeignTableSchema: f.Schema,
		ForeignColumns:     f.Columns,
		PrimaryTable:       f.PrimaryTable,
		PrimaryTableSchema: f.PrimarySchema,
		PrimaryColumns:     f.PrimaryColumns,
		OnDelete:           onDelete,
		OnUpdate:           onUpdate,
	}, nil
}

func (i *indexDoc) decode() *schema.IndexDefinition {
	ix := &schema.IndexDefinition{
		Name:       i.Name,
		SchemaName: i.Schema,
		TableName:  i.Table,
		Unique:     i.Unique,
		Clustered:  i.Clustered,
		Includes:   i.Include,
		Filter:     i.Filter,
	}
	for _, name := range i.Columns {
		ix.Columns = append(ix.Columns, schema.IndexColumn{Name: name})
	}
	for _, name := range i.Descending {
		ix.Columns = append(ix.Columns, schema.IndexColumn{Name: name, Direction: schema.Descending})
	}
	if i.NullsDistinct != nil {
		ix.NullsDistinct = schema.Bool(*i.NullsDistinct)
	}
	return ix
}

func (c *constraintDoc) decode() (*schema.ConstraintDefinition, error) {
	constraint := &schema.ConstraintDefinition{Name: c.Name, SchemaName: c.Schema, TableName: c.Table, Columns: c.Columns}
	switch c.Type {
	case "", "primary_key":
		constraint.Type = schema.PrimaryKeyConstraint
	case "unique":
		constraint.Type = schema.UniqueConstraint
	default:
		return nil, fmt.Errorf("unknown constraint type %q (expected primary_key or unique)", c.Type)
	}
	if c.NullsDistinct != nil {
		constraint.NullsDistinct = schema.Bool(*c.NullsDistinct)
	}
	return constraint, nil
}

func decodeRows(docs []yaml.MapSlice) []expression.Row {
	rows := make([]expression.Row, len(docs))
	for i, doc := range docs {
		rows[i] = decodeRow(doc)
	}
	return rows
}

// decodeRow keeps the column order of the document.
func decodeRow(doc yaml.MapSlice) expression.Row {
	if len(doc) == 0 {
		return nil
	}
	row := make(expression.Row, len(doc))
	for i, item := range doc {
		row[i] = expression.ColumnValue{Name: fmt.Sprint(item.Key), Value: item.Value}
	}
	return row
}
