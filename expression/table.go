package expression

import "github.com/sqldef/migrator/schema"

type CreateSchema struct {
	SchemaName string
}

func (e *CreateSchema) Kind() string { return "CreateSchema" }

func (e *CreateSchema) Validate() []string {
	if e.SchemaName == "" {
		return []string{schema.ErrSchemaNameEmpty}
	}
	return nil
}

func (e *CreateSchema) Reverse() Expression {
	return &DeleteSchema{SchemaName: e.SchemaName}
}

type DeleteSchema struct {
	SchemaName string
}

func (e *DeleteSchema) Kind() string { return "DeleteSchema" }

func (e *DeleteSchema) Validate() []string {
	if e.SchemaName == "" {
		return []string{schema.ErrSchemaNameEmpty}
	}
	return nil
}

// AlterSchema moves a table from SourceSchemaName to DestinationSchemaName.
type AlterSchema struct {
	SourceSchemaName      string
	TableName             string
	DestinationSchemaName string
}

func (e *AlterSchema) Kind() string { return "AlterSchema" }

func (e *AlterSchema) Validate() []string {
	var errs []string
	if e.TableName == "" {
		errs = append(errs, schema.ErrTableNameEmpty)
	}
	if e.DestinationSchemaName == "" {
		errs = append(errs, schema.ErrSchemaNameEmpty)
	}
	return errs
}

func (e *AlterSchema) Reverse() Expression {
	return &AlterSchema{
		SourceSchemaName:      e.DestinationSchemaName,
		TableName:             e.TableName,
		DestinationSchemaName: e.SourceSchemaName,
	}
}

type CreateTable struct {
	Table *schema.TableDefinition
}

func (e *CreateTable) Kind() string { return "CreateTable" }

func (e *CreateTable) Validate() []string {
	if e.Table == nil {
		return []string{schema.ErrTableNameEmpty}
	}
	return e.Table.Validate()
}

func (e *CreateTable) Reverse() Expression {
	return &DeleteTable{SchemaName: e.Table.SchemaName, TableName: e.Table.Name}
}

type DeleteTable struct {
	SchemaName string
	TableName  string
}

func (e *DeleteTable) Kind() string { return "DeleteTable" }

func (e *DeleteTable) Validate() []string {
	if e.TableName == "" {
		return []string{schema.ErrTableNameEmpty}
	}
	return nil
}

type RenameTable struct {
	SchemaName string
	OldName    string
	NewName    string
}

func (e *RenameTable) Kind() string { return "RenameTable" }

func (e *RenameTable) Validate() []string {
	return validateRename(e.OldName, e.NewName)
}

func (e *RenameTable) Reverse() Expression {
	return &RenameTable{SchemaName: e.SchemaName, OldName: e.NewName, NewName: e.OldName}
}

// AlterTable changes table-level attributes. Only the description for now.
type AlterTable struct {
	SchemaName  string
	TableName   string
	Description string
}

func (e *AlterTable) Kind() string { return "AlterTable" }

func (e *AlterTable) Validate() []string {
	if e.TableName == "" {
		return []string{schema.ErrTableNameEmpty}
	}
	return nil
}

func validateRename(oldName, newName string) []string {
	var errs []string
	if oldName == "" {
		errs = append(errs, schema.ErrOldNameEmpty)
	}
	if newName == "" {
		errs = append(errs, schema.ErrNewNameEmpty)
	}
	return errs
}
