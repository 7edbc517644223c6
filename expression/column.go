package expression

import "github.com/sqldef/migrator/schema"

type CreateColumn struct {
	SchemaName string
	TableName  string
	Column     *schema.ColumnDefinition
}

func (e *CreateColumn) Kind() string { return "CreateColumn" }

func (e *CreateColumn) Validate() []string {
	return validateColumnChange(e.TableName, e.Column)
}

func (e *CreateColumn) Reverse() Expression {
	return &DeleteColumn{SchemaName: e.SchemaName, TableName: e.TableName, ColumnNames: []string{e.Column.Name}}
}

// AlterColumn replaces the definition of an existing column with Column.
type AlterColumn struct {
	SchemaName string
	TableName  string
	Column     *schema.ColumnDefinition
}

func (e *AlterColumn) Kind() string { return "AlterColumn" }

func (e *AlterColumn) Validate() []string {
	return validateColumnChange(e.TableName, e.Column)
}

type DeleteColumn struct {
	SchemaName  string
	TableName   string
	ColumnNames []string
}

func (e *DeleteColumn) Kind() string { return "DeleteColumn" }

func (e *DeleteColumn) Validate() []string {
	var errs []string
	if e.TableName == "" {
		errs = append(errs, schema.ErrTableNameEmpty)
	}
	if len(e.ColumnNames) == 0 {
		errs = append(errs, schema.ErrColumnNamesEmpty)
	}
	for _, name := range e.ColumnNames {
		if name == "" {
			errs = append(errs, schema.ErrColumnNameEmpty)
		}
	}
	return errs
}

type RenameColumn struct {
	SchemaName string
	TableName  string
	OldName    string
	NewName    string
}

func (e *RenameColumn) Kind() string { return "RenameColumn" }

func (e *RenameColumn) Validate() []string {
	var errs []string
	if e.TableName == "" {
		errs = append(errs, schema.ErrTableNameEmpty)
	}
	return append(errs, validateRename(e.OldName, e.NewName)...)
}

func (e *RenameColumn) Reverse() Expression {
	return &RenameColumn{SchemaName: e.SchemaName, TableName: e.TableName, OldName: e.NewName, NewName: e.OldName}
}

// AlterDefaultConstraint replaces the default of an existing column.
type AlterDefaultConstraint struct {
	SchemaName string
	TableName  string
	ColumnName string
	Default    schema.Default
}

func (e *AlterDefaultConstraint) Kind() string { return "AlterDefaultConstraint" }

func (e *AlterDefaultConstraint) Validate() []string {
	errs := validateTableColumn(e.TableName, e.ColumnName)
	if !e.Default.IsDefined() {
		errs = append(errs, "The default value must be defined")
	}
	return errs
}

type DeleteDefaultConstraint struct {
	SchemaName string
	TableName  string
	ColumnName string
}

func (e *DeleteDefaultConstraint) Kind() string { return "DeleteDefaultConstraint" }

func (e *DeleteDefaultConstraint) Validate() []string {
	return validateTableColumn(e.TableName, e.ColumnName)
}

func validateColumnChange(tableName string, column *schema.ColumnDefinition) []string {
	var errs []string
	if tableName == "" {
		errs = append(errs, schema.ErrTableNameEmpty)
	}
	if column == nil {
		return append(errs, schema.ErrColumnNameEmpty)
	}
	return append(errs, column.Validate()...)
}

func validateTableColumn(tableName, columnName string) []string {
	var errs []string
	if tableName == "" {
		errs = append(errs, schema.ErrTableNameEmpty)
	}
	if columnName == "" {
		errs = append(errs, schema.ErrColumnNameEmpty)
	}
	return errs
}
