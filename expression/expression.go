// Package expression has the closed set of schema and data changes a migration
// is made of. Expressions only describe a change; rendering belongs to generators.
package expression

import (
	"errors"
	"fmt"
)

// ErrIrreversible is returned by Reverse for expressions with no structural inverse.
var ErrIrreversible = errors.New("expression cannot be reversed")

type Expression interface {
	// Kind is the variant name, e.g. "CreateTable".
	Kind() string
	// Validate collects every structural problem instead of stopping at the first.
	Validate() []string
}

type Reversible interface {
	Expression
	Reverse() Expression
}

// Reverse returns the inverse of e, or ErrIrreversible.
func Reverse(e Expression) (Expression, error) {
	if r, ok := e.(Reversible); ok {
		return r.Reverse(), nil
	}
	return nil, fmt.Errorf("%s: %w", e.Kind(), ErrIrreversible)
}

// ReverseAll reverses expressions and their order, so the result undoes exprs.
func ReverseAll(exprs []Expression) ([]Expression, error) {
	reversed := make([]Expression, 0, len(exprs))
	for i := len(exprs) - 1; i >= 0; i-- {
		r, err := Reverse(exprs[i])
		if err != nil {
			return nil, err
		}
		reversed = append(reversed, r)
	}
	return reversed, nil
}

// ColumnValue is one column assignment. Rows keep their column order.
type ColumnValue struct {
	Name  string
	Value any
}

type Row []ColumnValue

func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, cv := range r {
		names[i] = cv.Name
	}
	return names
}

// Get returns the value for name, if present.
func (r Row) Get(name string) (any, bool) {
	for _, cv := range r {
		if cv.Name == name {
			return cv.Value, true
		}
	}
	return nil, false
}

func (r Row) clone() Row {
	return append(Row(nil), r...)
}

// Target returns the schema-qualified object an expression acts on, for messages.
func Target(e Expression) string {
	schemaName, name := "", ""
	switch e := e.(type) {
	case *CreateSchema:
		name = e.SchemaName
	case *DeleteSchema:
		name = e.SchemaName
	case *AlterSchema:
		schemaName, name = e.SourceSchemaName, e.TableName
	case *CreateTable:
		schemaName, name = e.Table.SchemaName, e.Table.Name
	case *DeleteTable:
		schemaName, name = e.SchemaName, e.TableName
	case *RenameTable:
		schemaName, name = e.SchemaName, e.OldName
	case *AlterTable:
		schemaName, name = e.SchemaName, e.TableName
	case *CreateColumn:
		schemaName, name = e.SchemaName, e.TableName+"."+e.Column.Name
	case *AlterColumn:
		schemaName, name = e.SchemaName, e.TableName+"."+e.Column.Name
	case *DeleteColumn:
		schemaName, name = e.SchemaName, e.TableName
	case *RenameColumn:
		schemaName, name = e.SchemaName, e.TableName+"."+e.OldName
	case *CreateIndex:
		schemaName, name = e.Index.SchemaName, e.Index.TableName
	case *DeleteIndex:
		schemaName, name = e.Index.SchemaName, e.Index.TableName
	case *CreateForeignKey:
		schemaName, name = e.ForeignKey.ForeignTableSchema, e.ForeignKey.ForeignTable
	case *DeleteForeignKey:
		schemaName, name = e.ForeignKey.ForeignTableSchema, e.ForeignKey.ForeignTable
	case *CreateConstraint:
		schemaName, name = e.Constraint.SchemaName, e.Constraint.TableName
	case *DeleteConstraint:
		schemaName, name = e.Constraint.SchemaName, e.Constraint.TableName
	case *CreateSequence:
		schemaName, name = e.Sequence.SchemaName, e.Sequence.Name
	case *DeleteSequence:
		schemaName, name = e.SchemaName, e.SequenceName
	case *AlterDefaultConstraint:
		schemaName, name = e.SchemaName, e.TableName+"."+e.ColumnName
	case *DeleteDefaultConstraint:
		schemaName, name = e.SchemaName, e.TableName+"."+e.ColumnName
	case *InsertData:
		schemaName, name = e.SchemaName, e.TableName
	case *UpdateData:
		schemaName, name = e.SchemaName, e.TableName
	case *DeleteData:
		schemaName, name = e.SchemaName, e.TableName
	case *ExecuteSQLScript:
		name = e.ScriptPath
	case *ExecuteEmbeddedSQLScript:
		name = e.ResourceName
	}
	if schemaName != "" && name != "" {
		return schemaName + "." + name
	}
	return name
}
