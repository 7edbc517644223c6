package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sqldef/migrator/conventions"
	"github.com/sqldef/migrator/expression"
	"github.com/sqldef/migrator/schema"
)

// Base generates conservative SQL-92 style statements. Every knob is set by the
// dialect constructor; nothing changes after construction.
type Base struct {
	Dialect     string
	Quoter      Quoter
	Types       *TypeMap
	Column      *Column
	ForeignKeys *ForeignKeys
	Features    FeatureSet
	Policy      Policy

	// AddColumn is the clause introducing a new column, "ADD COLUMN" or "ADD".
	AddColumn string
	// DropForeignKey is the keyword after DROP for foreign keys.
	DropForeignKey string
	// DropIndexOnTable renders DROP INDEX name ON table instead of DROP INDEX schema.name.
	DropIndexOnTable bool
	// QualifyIndexName puts the schema on the index name in CREATE INDEX instead of on the table.
	QualifyIndexName bool

	// TableDescription and ColumnDescription render description statements. A nil
	// hook routes descriptions through the policy, unless InlineDescriptions says
	// the column formatter and CreateTableSuffix already render them.
	TableDescription   func(schemaName, tableName, description string) (string, error)
	ColumnDescription  func(schemaName, tableName, columnName, description string) (string, error)
	InlineDescriptions bool
	// CreateTableSuffix renders table options after the closing parenthesis.
	CreateTableSuffix func(table *schema.TableDefinition) (string, error)
}

// BaseFeatures is what a SQL-92 style database is assumed to support.
var BaseFeatures = NewFeatureSet(
	FeatureSchemas,
	FeatureAlterColumn,
	FeatureForeignKeys,
	FeaturePrimaryKeys,
	FeatureUniqueConstraints,
	FeatureDefaultConstraints,
	FeatureSequences,
	FeatureComputedColumns,
	FeatureTransactionalDDL,
	FeatureIdentityOutsidePrimaryKey,
	FeatureSetDefaultRule,
)

func NewBase(dialect string, quoter Quoter, types *TypeMap) *Base {
	return &Base{
		Dialect:        dialect,
		Quoter:         quoter,
		Types:          types,
		Column:         NewColumn(dialect, quoter, types),
		ForeignKeys:    &ForeignKeys{Dialect: dialect, Quoter: quoter},
		Features:       BaseFeatures,
		Policy:         Policy{Dialect: dialect, DialectDefault: CompatibilityStrict},
		AddColumn:      "ADD COLUMN",
		DropForeignKey: "CONSTRAINT",
	}
}

func (b *Base) Name() string {
	return b.Dialect
}

func (b *Base) IsFeatureSupported(f Feature) bool {
	return b.Features[f]
}

func (b *Base) SupportsTransactionalDDL() bool {
	return b.Features[FeatureTransactionalDDL]
}

// Unsupported routes a gap through the compatibility policy.
func (b *Base) Unsupported(f Feature, detail string) (string, error) {
	return b.Policy.Handle(f, detail)
}

func (b *Base) TableName(schemaName, name string) string {
	return b.Quoter.QuoteTableName(schemaName, name)
}

func (b *Base) Ident(name string) string {
	return b.Quoter.QuoteIdentifier(name)
}

func (b *Base) GenerateCreateSchema(e *expression.CreateSchema) (string, error) {
	if !b.Features[FeatureSchemas] {
		return b.Unsupported(FeatureSchemas, "CREATE SCHEMA "+e.SchemaName)
	}
	return "CREATE SCHEMA " + b.Ident(e.SchemaName), nil
}

func (b *Base) GenerateDeleteSchema(e *expression.DeleteSchema) (string, error) {
	if !b.Features[FeatureSchemas] {
		return b.Unsupported(FeatureSchemas, "DROP SCHEMA "+e.SchemaName)
	}
	return "DROP SCHEMA " + b.Ident(e.SchemaName), nil
}

func (b *Base) GenerateAlterSchema(e *expression.AlterSchema) (string, error) {
	if !b.Features[FeatureAlterSchema] {
		return b.Unsupported(FeatureAlterSchema, fmt.Sprintf("moving %s to schema %s", e.TableName, e.DestinationSchemaName))
	}
	return fmt.Sprintf("ALTER TABLE %s SET SCHEMA %s", b.TableName(e.SourceSchemaName, e.TableName), b.Ident(e.DestinationSchemaName)), nil
}

func (b *Base) GenerateCreateTable(e *expression.CreateTable) (string, error) {
	table := e.Table
	body, err := b.Column.FormatColumnList(table)
	if err != nil {
		return "", err
	}
	var gaps []string
	for _, c := range table.Columns {
		if c.ForeignKey == nil {
			continue
		}
		fk, comments, err := b.SupportedRules(columnForeignKey(c, table.SchemaName, table.Name))
		if err != nil {
			return "", err
		}
		gaps = append(gaps, comments...)
		clause, err := b.ForeignKeys.Format(fk, nil)
		if err != nil {
			return "", err
		}
		body += ", " + clause
	}

	sql := "CREATE TABLE " + b.TableName(table.SchemaName, table.Name) + " (" + body + ")"
	if b.CreateTableSuffix != nil {
		suffix, err := b.CreateTableSuffix(table)
		if err != nil {
			return "", err
		}
		if suffix != "" {
			sql += " " + suffix
		}
	}

	descriptions, err := b.Descriptions(table.SchemaName, table.Name, table.Description, table.Columns)
	if err != nil {
		return "", err
	}
	statements := append([]string{sql}, gaps...)
	return Join(append(statements, descriptions...)...), nil
}

// SupportedRules clears the referential actions the dialect lacks on a copy of fk.
// Each one goes through the policy: strict fails, loose returns a comment to emit
// after the statement.
func (b *Base) SupportedRules(fk *schema.ForeignKeyDefinition) (*schema.ForeignKeyDefinition, []string, error) {
	if b.Features[FeatureSetDefaultRule] || (fk.OnDelete != schema.RuleSetDefault && fk.OnUpdate != schema.RuleSetDefault) {
		return fk, nil, nil
	}
	fk = fk.Clone()
	var comments []string
	for _, r := range []struct {
		rule   *schema.Rule
		clause string
	}{
		{&fk.OnDelete, "ON DELETE"},
		{&fk.OnUpdate, "ON UPDATE"},
	} {
		if *r.rule != schema.RuleSetDefault {
			continue
		}
		comment, err := b.Unsupported(FeatureSetDefaultRule, r.clause+" SET DEFAULT on foreign key from "+fk.ForeignTable+" to "+fk.PrimaryTable)
		if err != nil {
			return nil, nil, err
		}
		*r.rule = schema.RuleNone
		comments = append(comments, comment)
	}
	return fk, comments, nil
}

// columnForeignKey fills the foreign side of a column-level foreign key on a copy.
func columnForeignKey(c *schema.ColumnDefinition, schemaName, tableName string) *schema.ForeignKeyDefinition {
	fk := c.ForeignKey.Clone()
	if fk.ForeignTable == "" {
		fk.ForeignTable = tableName
	}
	if fk.ForeignTableSchema == "" {
		fk.ForeignTableSchema = schemaName
	}
	if len(fk.ForeignColumns) == 0 {
		fk.ForeignColumns = []string{c.Name}
	}
	return fk
}

// Descriptions renders the description statements of a table and its columns.
func (b *Base) Descriptions(schemaName, tableName, tableDescription string, columns []*schema.ColumnDefinition) ([]string, error) {
	if b.InlineDescriptions {
		return nil, nil
	}
	var statements []string
	if tableDescription != "" {
		sql, err := b.tableDescription(schemaName, tableName, tableDescription)
		if err != nil {
			return nil, err
		}
		statements = append(statements, sql)
	}
	for _, c := range columns {
		if c.Description == "" {
			continue
		}
		sql, err := b.columnDescription(schemaName, tableName, c.Name, c.Description)
		if err != nil {
			return nil, err
		}
		statements = append(statements, sql)
	}
	return statements, nil
}

func (b *Base) tableDescription(schemaName, tableName, description string) (string, error) {
	if b.TableDescription == nil {
		return b.Unsupported(FeatureDescriptions, "description of table "+tableName)
	}
	return b.TableDescription(schemaName, tableName, description)
}

func (b *Base) columnDescription(schemaName, tableName, columnName, description string) (string, error) {
	if b.ColumnDescription == nil {
		return b.Unsupported(FeatureDescriptions, "description of column "+tableName+"."+columnName)
	}
	return b.ColumnDescription(schemaName, tableName, columnName, description)
}

func (b *Base) GenerateDeleteTable(e *expression.DeleteTable) (string, error) {
	return "DROP TABLE " + b.TableName(e.SchemaName, e.TableName), nil
}

func (b *Base) GenerateRenameTable(e *expression.RenameTable) (string, error) {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", b.TableName(e.SchemaName, e.OldName), b.Ident(e.NewName)), nil
}

func (b *Base) GenerateAlterTable(e *expression.AlterTable) (string, error) {
	if e.Description == "" {
		return "", nil
	}
	return b.tableDescription(e.SchemaName, e.TableName, e.Description)
}

// OwnedColumn returns a copy of c that knows its table, for dialects naming
// column-level constraints after it.
func OwnedColumn(c *schema.ColumnDefinition, schemaName, tableName string) *schema.ColumnDefinition {
	clone := c.Clone()
	if clone.TableName == "" {
		clone.TableName = tableName
	}
	if clone.SchemaName == "" {
		clone.SchemaName = schemaName
	}
	return clone
}

func (b *Base) GenerateCreateColumn(e *expression.CreateColumn) (string, error) {
	column := OwnedColumn(e.Column, e.SchemaName, e.TableName)
	clause, err := b.Column.Format(column)
	if err != nil {
		return "", err
	}
	table := b.TableName(e.SchemaName, e.TableName)
	statements := []string{"ALTER TABLE " + table + " " + b.AddColumn + " " + clause}

	if column.ForeignKey != nil {
		fk := columnForeignKey(column, e.SchemaName, e.TableName)
		sql, err := b.GenerateCreateForeignKey(&expression.CreateForeignKey{ForeignKey: fk})
		if err != nil {
			return "", err
		}
		statements = append(statements, sql)
	}

	descriptions, err := b.Descriptions(e.SchemaName, e.TableName, "", []*schema.ColumnDefinition{column})
	if err != nil {
		return "", err
	}
	return Join(append(statements, descriptions...)...), nil
}

func (b *Base) GenerateAlterColumn(e *expression.AlterColumn) (string, error) {
	if !b.Features[FeatureAlterColumn] {
		return b.Unsupported(FeatureAlterColumn, "altering column "+e.TableName+"."+e.Column.Name)
	}
	if detail, ok := AlterColumnGap(e.Column); ok {
		return b.Unsupported(FeatureAlterColumn, detail)
	}
	clause, err := b.Column.Format(AlterableColumn(e))
	if err != nil {
		return "", err
	}
	return "ALTER TABLE " + b.TableName(e.SchemaName, e.TableName) + " ALTER COLUMN " + clause, nil
}

// AlterColumnGap reports a change ALTER COLUMN cannot make in place.
func AlterColumnGap(c *schema.ColumnDefinition) (string, bool) {
	switch {
	case c.Computed != "":
		return "changing the expression of computed column " + c.Name, true
	case c.Identity:
		return "changing the identity of column " + c.Name, true
	}
	return "", false
}

// AlterableColumn is the owned copy of e's column rendered in ALTER COLUMN
// clauses. Primary keys and uniqueness are constraints with expressions of
// their own, so they are left out.
func AlterableColumn(e *expression.AlterColumn) *schema.ColumnDefinition {
	c := OwnedColumn(e.Column, e.SchemaName, e.TableName)
	c.PrimaryKey = false
	c.PrimaryKeyName = ""
	c.Unique = false
	return c
}

func (b *Base) GenerateDeleteColumn(e *expression.DeleteColumn) (string, error) {
	table := b.TableName(e.SchemaName, e.TableName)
	statements := make([]string, len(e.ColumnNames))
	for i, name := range e.ColumnNames {
		statements[i] = "ALTER TABLE " + table + " DROP COLUMN " + b.Ident(name)
	}
	return Join(statements...), nil
}

func (b *Base) GenerateRenameColumn(e *expression.RenameColumn) (string, error) {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
		b.TableName(e.SchemaName, e.TableName), b.Ident(e.OldName), b.Ident(e.NewName)), nil
}

// IndexGap returns the first index option the dialect cannot express.
func (b *Base) IndexGap(ix *schema.IndexDefinition) (Feature, bool) {
	switch {
	case len(ix.Includes) > 0 && !b.Features[FeatureIndexIncludes]:
		return FeatureIndexIncludes, true
	case ix.Filter != "" && !b.Features[FeatureFilteredIndexes]:
		return FeatureFilteredIndexes, true
	case ix.Clustered && !b.Features[FeatureClusteredIndexes]:
		return FeatureClusteredIndexes, true
	case ix.Unique && ix.NullsDistinct == schema.False && !b.Features[FeatureNullsNotDistinct]:
		return FeatureNullsNotDistinct, true
	}
	return "", false
}

func (b *Base) GenerateCreateIndex(e *expression.CreateIndex) (string, error) {
	ix := e.Index
	if f, ok := b.IndexGap(ix); ok {
		return b.Unsupported(f, "index "+b.indexName(ix)+" on "+ix.TableName)
	}
	return b.FormatCreateIndex(ix, ix.Filter), nil
}

// FormatCreateIndex renders CREATE INDEX with the given filter predicate.
func (b *Base) FormatCreateIndex(ix *schema.IndexDefinition, filter string) string {
	var sb strings.Builder
	sb.WriteString("CREATE ")
	if ix.Unique {
		sb.WriteString("UNIQUE ")
	}
	if ix.Clustered {
		sb.WriteString("CLUSTERED ")
	}
	sb.WriteString("INDEX ")
	if b.QualifyIndexName {
		sb.WriteString(b.TableName(ix.SchemaName, b.indexName(ix)))
		sb.WriteString(" ON ")
		sb.WriteString(b.Ident(ix.TableName))
	} else {
		sb.WriteString(b.Ident(b.indexName(ix)))
		sb.WriteString(" ON ")
		sb.WriteString(b.TableName(ix.SchemaName, ix.TableName))
	}

	columns := make([]string, len(ix.Columns))
	for i, c := range ix.Columns {
		columns[i] = b.Ident(c.Name) + " " + directionKeyword(c.Direction)
	}
	sb.WriteString(" (" + strings.Join(columns, ", ") + ")")

	if len(ix.Includes) > 0 {
		sb.WriteString(" INCLUDE (" + b.Column.QuoteColumns(ix.Includes) + ")")
	}
	if ix.Unique && ix.NullsDistinct == schema.False && b.Features[FeatureNullsNotDistinct] {
		sb.WriteString(" NULLS NOT DISTINCT")
	}
	if filter != "" {
		sb.WriteString(" WHERE " + filter)
	}
	return sb.String()
}

func directionKeyword(d schema.Direction) string {
	if d == schema.Descending {
		return "DESC"
	}
	return "ASC"
}

func (b *Base) indexName(ix *schema.IndexDefinition) string {
	if ix.Name != "" {
		return ix.Name
	}
	return conventions.IndexName(ix)
}

func (b *Base) GenerateDeleteIndex(e *expression.DeleteIndex) (string, error) {
	ix := e.Index
	if b.DropIndexOnTable {
		return "DROP INDEX " + b.Ident(b.indexName(ix)) + " ON " + b.TableName(ix.SchemaName, ix.TableName), nil
	}
	return "DROP INDEX " + b.TableName(ix.SchemaName, b.indexName(ix)), nil
}

func (b *Base) GenerateCreateForeignKey(e *expression.CreateForeignKey) (string, error) {
	fk := e.ForeignKey
	if !b.Features[FeatureForeignKeys] {
		return b.Unsupported(FeatureForeignKeys, "foreign key from "+fk.ForeignTable+" to "+fk.PrimaryTable)
	}
	fk, gaps, err := b.SupportedRules(fk)
	if err != nil {
		return "", err
	}
	clause, err := b.ForeignKeys.Format(fk, nil)
	if err != nil {
		return "", err
	}
	return Join(append([]string{"ALTER TABLE " + b.TableName(fk.ForeignTableSchema, fk.ForeignTable) + " ADD " + clause}, gaps...)...), nil
}

func (b *Base) GenerateDeleteForeignKey(e *expression.DeleteForeignKey) (string, error) {
	fk := e.ForeignKey
	if !b.Features[FeatureForeignKeys] {
		return b.Unsupported(FeatureForeignKeys, "dropping foreign key of "+fk.ForeignTable)
	}
	name := fk.Name
	if name == "" {
		name = conventions.ForeignKeyName(fk)
	}
	return "ALTER TABLE " + b.TableName(fk.ForeignTableSchema, fk.ForeignTable) + " DROP " + b.DropForeignKey + " " + b.Ident(name), nil
}

// ConstraintName returns the explicit or conventional name of c.
func ConstraintName(c *schema.ConstraintDefinition) string {
	if c.Name != "" {
		return c.Name
	}
	return conventions.ConstraintName(c)
}

// ConstraintGap returns the feature c needs that the dialect lacks.
func (b *Base) ConstraintGap(c *schema.ConstraintDefinition) (Feature, bool) {
	if c.Type == schema.PrimaryKeyConstraint {
		return FeaturePrimaryKeys, !b.Features[FeaturePrimaryKeys]
	}
	if !b.Features[FeatureUniqueConstraints] {
		return FeatureUniqueConstraints, true
	}
	if c.NullsDistinct == schema.False && !b.Features[FeatureNullsNotDistinct] {
		return FeatureNullsNotDistinct, true
	}
	return "", false
}

func (b *Base) GenerateCreateConstraint(e *expression.CreateConstraint) (string, error) {
	c := e.Constraint
	if f, ok := b.ConstraintGap(c); ok {
		return b.Unsupported(f, c.Type.String()+" constraint on "+c.TableName)
	}
	sql := "ALTER TABLE " + b.TableName(c.SchemaName, c.TableName) + " ADD CONSTRAINT " + b.Ident(ConstraintName(c)) + " " + c.Type.String()
	if c.Type == schema.UniqueConstraint && c.NullsDistinct == schema.False {
		sql += " NULLS NOT DISTINCT"
	}
	return sql + " (" + b.Column.QuoteColumns(c.Columns) + ")", nil
}

func (b *Base) GenerateDeleteConstraint(e *expression.DeleteConstraint) (string, error) {
	c := e.Constraint
	if c.Type == schema.PrimaryKeyConstraint && !b.Features[FeaturePrimaryKeys] {
		return b.Unsupported(FeaturePrimaryKeys, "dropping primary key of "+c.TableName)
	}
	return "ALTER TABLE " + b.TableName(c.SchemaName, c.TableName) + " DROP CONSTRAINT " + b.Ident(ConstraintName(c)), nil
}

func (b *Base) GenerateCreateSequence(e *expression.CreateSequence) (string, error) {
	s := e.Sequence
	if !b.Features[FeatureSequences] {
		return b.Unsupported(FeatureSequences, "CREATE SEQUENCE "+s.Name)
	}
	sql := "CREATE SEQUENCE " + b.TableName(s.SchemaName, s.Name)
	for _, opt := range []struct {
		keyword string
		value   *int64
	}{
		{"INCREMENT BY", s.Increment},
		{"MINVALUE", s.MinValue},
		{"MAXVALUE", s.MaxValue},
		{"START WITH", s.StartWith},
		{"CACHE", s.Cache},
	} {
		if opt.value != nil {
			sql += " " + opt.keyword + " " + strconv.FormatInt(*opt.value, 10)
		}
	}
	if s.Cycle {
		sql += " CYCLE"
	}
	return sql, nil
}

func (b *Base) GenerateDeleteSequence(e *expression.DeleteSequence) (string, error) {
	if !b.Features[FeatureSequences] {
		return b.Unsupported(FeatureSequences, "DROP SEQUENCE "+e.SequenceName)
	}
	return "DROP SEQUENCE " + b.TableName(e.SchemaName, e.SequenceName), nil
}

func (b *Base) GenerateAlterDefaultConstraint(e *expression.AlterDefaultConstraint) (string, error) {
	if !b.Features[FeatureDefaultConstraints] {
		return b.Unsupported(FeatureDefaultConstraints, "default of "+e.TableName+"."+e.ColumnName)
	}
	value, err := b.Column.FormatDefaultValue(e.Default)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s", b.TableName(e.SchemaName, e.TableName), b.Ident(e.ColumnName), value), nil
}

func (b *Base) GenerateDeleteDefaultConstraint(e *expression.DeleteDefaultConstraint) (string, error) {
	if !b.Features[FeatureDefaultConstraints] {
		return b.Unsupported(FeatureDefaultConstraints, "default of "+e.TableName+"."+e.ColumnName)
	}
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT", b.TableName(e.SchemaName, e.TableName), b.Ident(e.ColumnName)), nil
}

func (b *Base) GenerateInsertData(e *expression.InsertData) (string, error) {
	table := b.TableName(e.SchemaName, e.TableName)
	statements := make([]string, len(e.Rows))
	for i, row := range e.Rows {
		values, err := b.values(row)
		if err != nil {
			return "", err
		}
		statements[i] = "INSERT INTO " + table + " (" + b.Column.QuoteColumns(row.Names()) + ") VALUES (" + strings.Join(values, ", ") + ")"
	}
	return Join(statements...), nil
}

func (b *Base) values(row expression.Row) ([]string, error) {
	values := make([]string, len(row))
	for i, cv := range row {
		v, err := b.Quoter.QuoteValue(cv.Value)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", cv.Name, err)
		}
		values[i] = v
	}
	return values, nil
}

func (b *Base) GenerateUpdateData(e *expression.UpdateData) (string, error) {
	assignments := make([]string, len(e.Set))
	for i, cv := range e.Set {
		v, err := b.Quoter.QuoteValue(cv.Value)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", cv.Name, err)
		}
		assignments[i] = b.Ident(cv.Name) + " = " + v
	}
	sql := "UPDATE " + b.TableName(e.SchemaName, e.TableName) + " SET " + strings.Join(assignments, ", ")
	if !e.AllRows || len(e.Where) > 0 {
		where, err := b.Where(e.Where)
		if err != nil {
			return "", err
		}
		sql += " WHERE " + where
	}
	return sql, nil
}

// Where renders row as a conjunction; nil values match with IS NULL.
func (b *Base) Where(row expression.Row) (string, error) {
	conditions := make([]string, len(row))
	for i, cv := range row {
		if cv.Value == nil {
			conditions[i] = b.Ident(cv.Name) + " IS NULL"
			continue
		}
		v, err := b.Quoter.QuoteValue(cv.Value)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", cv.Name, err)
		}
		conditions[i] = b.Ident(cv.Name) + " = " + v
	}
	return strings.Join(conditions, " AND "), nil
}

func (b *Base) GenerateDeleteData(e *expression.DeleteData) (string, error) {
	table := b.TableName(e.SchemaName, e.TableName)
	if e.AllRows && len(e.Rows) == 0 {
		return "DELETE FROM " + table, nil
	}
	statements := make([]string, len(e.Rows))
	for i, row := range e.Rows {
		where, err := b.Where(row)
		if err != nil {
			return "", err
		}
		statements[i] = "DELETE FROM " + table + " WHERE " + where
	}
	return Join(statements...), nil
}

func (b *Base) GenerateExecuteSQL(e *expression.ExecuteSQL) (string, error) {
	return strings.TrimSpace(e.SQL), nil
}

func (b *Base) GenerateExecuteSQLScript(e *expression.ExecuteSQLScript) (string, error) {
	if e.SQL == "" {
		return "", fmt.Errorf("script %s has not been loaded", e.ScriptPath)
	}
	return strings.TrimSpace(e.SQL), nil
}

func (b *Base) GenerateExecuteEmbeddedSQLScript(e *expression.ExecuteEmbeddedSQLScript) (string, error) {
	if e.SQL == "" {
		return "", fmt.Errorf("embedded script %s has not been loaded", e.ResourceName)
	}
	return strings.TrimSpace(e.SQL), nil
}
