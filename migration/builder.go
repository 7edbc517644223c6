package migration

import (
	"errors"
	"fmt"

	"github.com/sqldef/migrator/expression"
	"github.com/sqldef/migrator/schema"
)

// Builder collects the expressions of one migration through a fluent API.
// Mistakes such as an odd number of row values are recorded and returned by
// Build instead of panicking mid-chain. A Builder is not safe for concurrent use.
//
//	m, err := migration.New(1, "users").
//		CreateTable("Users").
//		WithColumn("Id").AsInt32().PrimaryKey().Identity().
//		WithColumn("Name").AsString(255).
//		Build()
type Builder struct {
	migration  *Migration
	down       bool
	schemaName string
	errs       *[]error
}

func New(version int64, description string) *Builder {
	return &Builder{
		migration: &Migration{Version: version, Description: description},
		errs:      &[]error{},
	}
}

// Down returns a builder adding to the Down expressions instead of Up.
func (b *Builder) Down() *Builder {
	clone := *b
	clone.down = true
	return &clone
}

// InSchema returns a builder whose expressions default to schemaName.
func (b *Builder) InSchema(schemaName string) *Builder {
	clone := *b
	clone.schemaName = schemaName
	return &clone
}

func (b *Builder) Build() (*Migration, error) {
	if len(*b.errs) > 0 {
		return nil, fmt.Errorf("migration %d: %w", b.migration.Version, errors.Join(*b.errs...))
	}
	return b.migration, nil
}

func (b *Builder) add(e expression.Expression) {
	if b.down {
		b.migration.Down = append(b.migration.Down, e)
	} else {
		b.migration.Up = append(b.migration.Up, e)
	}
}

func (b *Builder) fail(format string, args ...any) {
	*b.errs = append(*b.errs, fmt.Errorf(format, args...))
}

func (b *Builder) CreateSchema(name string) *Builder {
	b.add(&expression.CreateSchema{SchemaName: name})
	return b
}

func (b *Builder) DeleteSchema(name string) *Builder {
	b.add(&expression.DeleteSchema{SchemaName: name})
	return b
}

// MoveTable moves a table from the builder's schema to another one.
func (b *Builder) MoveTable(tableName, destinationSchema string) *Builder {
	b.add(&expression.AlterSchema{SourceSchemaName: b.schemaName, TableName: tableName, DestinationSchemaName: destinationSchema})
	return b
}

func (b *Builder) CreateTable(name string) *TableBuilder {
	table := &schema.TableDefinition{Name: name, SchemaName: b.schemaName}
	b.add(&expression.CreateTable{Table: table})
	return &TableBuilder{Builder: b, table: table}
}

func (b *Builder) DeleteTable(name string) *Builder {
	b.add(&expression.DeleteTable{SchemaName: b.schemaName, TableName: name})
	return b
}

func (b *Builder) RenameTable(oldName, newName string) *Builder {
	b.add(&expression.RenameTable{SchemaName: b.schemaName, OldName: oldName, NewName: newName})
	return b
}

func (b *Builder) DescribeTable(name, description string) *Builder {
	b.add(&expression.AlterTable{SchemaName: b.schemaName, TableName: name, Description: description})
	return b
}

// AddColumn adds one column to an existing table.
func (b *Builder) AddColumn(tableName, columnName string) *ColumnBuilder {
	column := &schema.ColumnDefinition{Name: columnName}
	b.add(&expression.CreateColumn{SchemaName: b.schemaName, TableName: tableName, Column: column})
	return &ColumnBuilder{Builder: b, column: column}
}

// AlterColumn replaces the definition of an existing column.
func (b *Builder) AlterColumn(tableName, columnName string) *ColumnBuilder {
	column := &schema.ColumnDefinition{Name: columnName}
	b.add(&expression.AlterColumn{SchemaName: b.schemaName, TableName: tableName, Column: column})
	return &ColumnBuilder{Builder: b, column: column}
}

func (b *Builder) DeleteColumns(tableName string, columnNames ...string) *Builder {
	b.add(&expression.DeleteColumn{SchemaName: b.schemaName, TableName: tableName, ColumnNames: columnNames})
	return b
}

func (b *Builder) RenameColumn(tableName, oldName, newName string) *Builder {
	b.add(&expression.RenameColumn{SchemaName: b.schemaName, TableName: tableName, OldName: oldName, NewName: newName})
	return b
}

// CreateIndex starts an index; an empty name is filled by the naming conventions.
func (b *Builder) CreateIndex(name string) *IndexBuilder {
	index := &schema.IndexDefinition{Name: name, SchemaName: b.schemaName}
	b.add(&expression.CreateIndex{Index: index})
	return &IndexBuilder{Builder: b, index: index}
}

func (b *Builder) DeleteIndex(tableName, name string) *Builder {
	b.add(&expression.DeleteIndex{Index: &schema.IndexDefinition{Name: name, SchemaName: b.schemaName, TableName: tableName}})
	return b
}

// CreateForeignKey starts a foreign key; an empty name is filled by the naming conventions.
func (b *Builder) CreateForeignKey(name string) *ForeignKeyBuilder {
	fk := &schema.ForeignKeyDefinition{Name: name, ForeignTableSchema: b.schemaName, PrimaryTableSchema: b.schemaName}
	b.add(&expression.CreateForeignKey{ForeignKey: fk})
	return &ForeignKeyBuilder{Builder: b, fk: fk}
}

func (b *Builder) DeleteForeignKey(tableName, name string) *Builder {
	b.add(&expression.DeleteForeignKey{ForeignKey: &schema.ForeignKeyDefinition{
		Name: name, ForeignTable: tableName, ForeignTableSchema: b.schemaName,
	}})
	return b
}

func (b *Builder) CreatePrimaryKey(name, tableName string, columns ...string) *Builder {
	return b.constraint(true, schema.PrimaryKeyConstraint, name, tableName, columns, schema.Unset)
}

func (b *Builder) CreateUniqueConstraint(name, tableName string, columns ...string) *Builder {
	return b.constraint(true, schema.UniqueConstraint, name, tableName, columns, schema.Unset)
}

// CreateUniqueConstraintNulls is CreateUniqueConstraint with explicit NULL handling.
func (b *Builder) CreateUniqueConstraintNulls(name, tableName string, nullsDistinct bool, columns ...string) *Builder {
	return b.constraint(true, schema.UniqueConstraint, name, tableName, columns, schema.Bool(nullsDistinct))
}

func (b *Builder) DeletePrimaryKey(name, tableName string) *Builder {
	return b.constraint(false, schema.PrimaryKeyConstraint, name, tableName, nil, schema.Unset)
}

func (b *Builder) DeleteUniqueConstraint(name, tableName string, columns ...string) *Builder {
	return b.constraint(false, schema.UniqueConstraint, name, tableName, columns, schema.Unset)
}

func (b *Builder) constraint(create bool, typ schema.ConstraintType, name, tableName string, columns []string, nullsDistinct schema.Tristate) *Builder {
	c := &schema.ConstraintDefinition{
		Name: name, SchemaName: b.schemaName, TableName: tableName,
		Type: typ, Columns: columns, NullsDistinct: nullsDistinct,
	}
	if create {
		b.add(&expression.CreateConstraint{Constraint: c})
	} else {
		b.add(&expression.DeleteConstraint{Constraint: c})
	}
	return b
}

func (b *Builder) CreateSequence(name string) *SequenceBuilder {
	seq := &schema.SequenceDefinition{Name: name, SchemaName: b.schemaName}
	b.add(&expression.CreateSequence{Sequence: seq})
	return &SequenceBuilder{Builder: b, seq: seq}
}

func (b *Builder) DeleteSequence(name string) *Builder {
	b.add(&expression.DeleteSequence{SchemaName: b.schemaName, SequenceName: name})
	return b
}

func (b *Builder) AlterDefault(tableName, columnName string, value any) *Builder {
	b.add(&expression.AlterDefaultConstraint{
		SchemaName: b.schemaName, TableName: tableName, ColumnName: columnName, Default: schema.ValueDefault(value),
	})
	return b
}

func (b *Builder) DeleteDefault(tableName, columnName string) *Builder {
	b.add(&expression.DeleteDefaultConstraint{SchemaName: b.schemaName, TableName: tableName, ColumnName: columnName})
	return b
}

// Insert starts an InsertData; add rows with Row.
func (b *Builder) Insert(tableName string) *InsertBuilder {
	e := &expression.InsertData{SchemaName: b.schemaName, TableName: tableName}
	b.add(e)
	return &InsertBuilder{Builder: b, e: e}
}

func (b *Builder) Update(tableName string) *UpdateBuilder {
	e := &expression.UpdateData{SchemaName: b.schemaName, TableName: tableName}
	b.add(e)
	return &UpdateBuilder{Builder: b, e: e}
}

// DeleteRows starts a DeleteData; add matching rows with Row or call AllRows.
func (b *Builder) DeleteRows(tableName string) *DeleteBuilder {
	e := &expression.DeleteData{SchemaName: b.schemaName, TableName: tableName}
	b.add(e)
	return &DeleteBuilder{Builder: b, e: e}
}

func (b *Builder) Execute(sql string) *Builder {
	b.add(&expression.ExecuteSQL{SQL: sql})
	return b
}

// ExecuteScript runs a SQL file resolved against the working directory.
func (b *Builder) ExecuteScript(path string, parameters map[string]string) *Builder {
	b.add(&expression.ExecuteSQLScript{ScriptPath: path, Parameters: parameters})
	return b
}

// ExecuteEmbeddedScript runs a SQL resource resolved against the embedded file system.
func (b *Builder) ExecuteEmbeddedScript(name string, parameters map[string]string) *Builder {
	b.add(&expression.ExecuteEmbeddedSQLScript{ResourceName: name, Parameters: parameters})
	return b
}

// row turns alternating name/value pairs into a Row.
func (b *Builder) row(pairs []any) expression.Row {
	if len(pairs)%2 != 0 {
		b.fail("odd number of row values: %v", pairs)
		return nil
	}
	row := make(expression.Row, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			b.fail("row column name %v is not a string", pairs[i])
			return nil
		}
		row = append(row, expression.ColumnValue{Name: name, Value: pairs[i+1]})
	}
	return row
}

type TableBuilder struct {
	*Builder
	table *schema.TableDefinition
}

func (t *TableBuilder) WithDescription(description string) *TableBuilder {
	t.table.Description = description
	return t
}

// WithExtension attaches dialect-owned table data, such as mysql.TableOptions.
func (t *TableBuilder) WithExtension(e schema.Extension) *TableBuilder {
	t.table.Extensions.Set(e)
	return t
}

func (t *TableBuilder) WithColumn(name string) *ColumnBuilder {
	column := &schema.ColumnDefinition{Name: name}
	t.table.Columns = append(t.table.Columns, column)
	return &ColumnBuilder{Builder: t.Builder, column: column, table: t}
}

type ColumnBuilder struct {
	*Builder
	column *schema.ColumnDefinition
	table  *TableBuilder
}

// WithColumn adds the next column of the table being created.
func (c *ColumnBuilder) WithColumn(name string) *ColumnBuilder {
	if c.table == nil {
		c.fail("WithColumn(%q) outside CreateTable", name)
		return c
	}
	return c.table.WithColumn(name)
}

func (c *ColumnBuilder) As(t schema.DbType) *ColumnBuilder {
	c.column.Type = t
	return c
}

func (c *ColumnBuilder) sized(t schema.DbType, size []int) *ColumnBuilder {
	c.column.Type = t
	if len(size) > 0 {
		c.column.Size = schema.Int(size[0])
	}
	return c
}

func (c *ColumnBuilder) AsString(size ...int) *ColumnBuilder {
	return c.sized(schema.String, size)
}

func (c *ColumnBuilder) AsAnsiString(size ...int) *ColumnBuilder {
	return c.sized(schema.AnsiString, size)
}

func (c *ColumnBuilder) AsFixedLengthString(size int) *ColumnBuilder {
	return c.sized(schema.StringFixedLength, []int{size})
}

func (c *ColumnBuilder) AsBinary(size ...int) *ColumnBuilder {
	return c.sized(schema.Binary, size)
}

func (c *ColumnBuilder) AsDecimal(size, precision int) *ColumnBuilder {
	c.column.Type = schema.Decimal
	c.column.Size = schema.Int(size)
	c.column.Precision = schema.Int(precision)
	return c
}

func (c *ColumnBuilder) AsBoolean() *ColumnBuilder        { return c.As(schema.Boolean) }
func (c *ColumnBuilder) AsInt16() *ColumnBuilder          { return c.As(schema.Int16) }
func (c *ColumnBuilder) AsInt32() *ColumnBuilder          { return c.As(schema.Int32) }
func (c *ColumnBuilder) AsInt64() *ColumnBuilder          { return c.As(schema.Int64) }
func (c *ColumnBuilder) AsDouble() *ColumnBuilder         { return c.As(schema.Double) }
func (c *ColumnBuilder) AsDate() *ColumnBuilder           { return c.As(schema.Date) }
func (c *ColumnBuilder) AsDateTime() *ColumnBuilder       { return c.As(schema.DateTime) }
func (c *ColumnBuilder) AsDateTimeOffset() *ColumnBuilder { return c.As(schema.DateTimeOffset) }
func (c *ColumnBuilder) AsGuid() *ColumnBuilder           { return c.As(schema.Guid) }

// AsCustom uses a native type verbatim.
func (c *ColumnBuilder) AsCustom(nativeType string) *ColumnBuilder {
	c.column.CustomType = nativeType
	return c
}

func (c *ColumnBuilder) Nullable() *ColumnBuilder {
	c.column.Nullable = schema.True
	return c
}

func (c *ColumnBuilder) NotNullable() *ColumnBuilder {
	c.column.Nullable = schema.False
	return c
}

func (c *ColumnBuilder) PrimaryKey() *ColumnBuilder {
	c.column.PrimaryKey = true
	return c
}

func (c *ColumnBuilder) PrimaryKeyNamed(name string) *ColumnBuilder {
	c.column.PrimaryKey = true
	c.column.PrimaryKeyName = name
	return c
}

func (c *ColumnBuilder) Identity() *ColumnBuilder {
	c.column.Identity = true
	return c
}

func (c *ColumnBuilder) Unique() *ColumnBuilder {
	c.column.Unique = true
	return c
}

// WithDefault sets a literal default; nil means DEFAULT NULL and a
// schema.SystemMethod means the database function.
func (c *ColumnBuilder) WithDefault(value any) *ColumnBuilder {
	c.column.Default = schema.ValueDefault(value)
	return c
}

// References makes the column a foreign key to primaryTable(primaryColumn).
func (c *ColumnBuilder) References(primaryTable, primaryColumn string) *ColumnBuilder {
	c.column.ForeignKey = &schema.ForeignKeyDefinition{
		PrimaryTable: primaryTable, PrimaryTableSchema: c.schemaName, PrimaryColumns: []string{primaryColumn},
	}
	return c
}

func (c *ColumnBuilder) OnDelete(rule schema.Rule) *ColumnBuilder {
	if c.column.ForeignKey == nil {
		c.fail("OnDelete on column %s without References", c.column.Name)
		return c
	}
	c.column.ForeignKey.OnDelete = rule
	return c
}

func (c *ColumnBuilder) Computed(sql string, stored bool) *ColumnBuilder {
	c.column.Computed = sql
	c.column.ComputedStored = stored
	return c
}

func (c *ColumnBuilder) WithCollation(collation string) *ColumnBuilder {
	c.column.Collation = collation
	return c
}

func (c *ColumnBuilder) WithDescription(description string) *ColumnBuilder {
	c.column.Description = description
	return c
}

// WithExtension attaches dialect-owned column data, such as sqlserver.Sparse.
func (c *ColumnBuilder) WithExtension(e schema.Extension) *ColumnBuilder {
	c.column.Extensions.Set(e)
	return c
}

type IndexBuilder struct {
	*Builder
	index *schema.IndexDefinition
}

func (i *IndexBuilder) OnTable(name string) *IndexBuilder {
	i.index.TableName = name
	return i
}

func (i *IndexBuilder) OnColumn(name string) *IndexBuilder {
	i.index.Columns = append(i.index.Columns, schema.IndexColumn{Name: name})
	return i
}

// Descending applies to the last column added with OnColumn.
func (i *IndexBuilder) Descending() *IndexBuilder {
	if n := len(i.index.Columns); n > 0 {
		i.index.Columns[n-1].Direction = schema.Descending
	} else {
		i.fail("Descending before OnColumn on index %s", i.index.Name)
	}
	return i
}

func (i *IndexBuilder) Unique() *IndexBuilder {
	i.index.Unique = true
	return i
}

func (i *IndexBuilder) Clustered() *IndexBuilder {
	i.index.Clustered = true
	return i
}

func (i *IndexBuilder) NullsDistinct(distinct bool) *IndexBuilder {
	i.index.NullsDistinct = schema.Bool(distinct)
	return i
}

func (i *IndexBuilder) Include(columns ...string) *IndexBuilder {
	i.index.Includes = append(i.index.Includes, columns...)
	return i
}

func (i *IndexBuilder) Filter(predicate string) *IndexBuilder {
	i.index.Filter = predicate
	return i
}

type ForeignKeyBuilder struct {
	*Builder
	fk *schema.ForeignKeyDefinition
}

func (f *ForeignKeyBuilder) FromTable(name string, columns ...string) *ForeignKeyBuilder {
	f.fk.ForeignTable = name
	f.fk.ForeignColumns = columns
	return f
}

func (f *ForeignKeyBuilder) ToTable(name string, columns ...string) *ForeignKeyBuilder {
	f.fk.PrimaryTable = name
	f.fk.PrimaryColumns = columns
	return f
}

func (f *ForeignKeyBuilder) ToSchema(name string) *ForeignKeyBuilder {
	f.fk.PrimaryTableSchema = name
	return f
}

func (f *ForeignKeyBuilder) OnDelete(rule schema.Rule) *ForeignKeyBuilder {
	f.fk.OnDelete = rule
	return f
}

func (f *ForeignKeyBuilder) OnUpdate(rule schema.Rule) *ForeignKeyBuilder {
	f.fk.OnUpdate = rule
	return f
}

type SequenceBuilder struct {
	*Builder
	seq *schema.SequenceDefinition
}

func (s *SequenceBuilder) StartWith(n int64) *SequenceBuilder {
	s.seq.StartWith = schema.Int64Ptr(n)
	return s
}

func (s *SequenceBuilder) IncrementBy(n int64) *SequenceBuilder {
	s.seq.Increment = schema.Int64Ptr(n)
	return s
}

func (s *SequenceBuilder) MinValue(n int64) *SequenceBuilder {
	s.seq.MinValue = schema.Int64Ptr(n)
	return s
}

func (s *SequenceBuilder) MaxValue(n int64) *SequenceBuilder {
	s.seq.MaxValue = schema.Int64Ptr(n)
	return s
}

func (s *SequenceBuilder) Cache(n int64) *SequenceBuilder {
	s.seq.Cache = schema.Int64Ptr(n)
	return s
}

func (s *SequenceBuilder) Cycle() *SequenceBuilder {
	s.seq.Cycle = true
	return s
}

type InsertBuilder struct {
	*Builder
	e *expression.InsertData
}

// Row adds one row from alternating column names and values.
func (i *InsertBuilder) Row(pairs ...any) *InsertBuilder {
	if row := i.row(pairs); row != nil {
		i.e.Rows = append(i.e.Rows, row)
	}
	return i
}

type UpdateBuilder struct {
	*Builder
	e *expression.UpdateData
}

func (u *UpdateBuilder) Set(pairs ...any) *UpdateBuilder {
	u.e.Set = append(u.e.Set, u.row(pairs)...)
	return u
}

func (u *UpdateBuilder) Where(pairs ...any) *UpdateBuilder {
	u.e.Where = append(u.e.Where, u.row(pairs)...)
	return u
}

func (u *UpdateBuilder) AllRows() *UpdateBuilder {
	u.e.AllRows = true
	return u
}

type DeleteBuilder struct {
	*Builder
	e *expression.DeleteData
}

func (d *DeleteBuilder) Row(pairs ...any) *DeleteBuilder {
	if row := d.row(pairs); row != nil {
		d.e.Rows = append(d.e.Rows, row)
	}
	return d
}

func (d *DeleteBuilder) AllRows() *DeleteBuilder {
	d.e.AllRows = true
	return d
}
