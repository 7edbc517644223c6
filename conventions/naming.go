package conventions

import (
	"strings"

	"github.com/sqldef/migrator/schema"
)

// ForeignKeyName is FK_<foreignTable>_<foreignCols>_<primaryTable>_<primaryCols>.
func ForeignKeyName(fk *schema.ForeignKeyDefinition) string {
	var sb strings.Builder
	sb.WriteString("FK_")
	sb.WriteString(fk.ForeignTable)
	for _, c := range fk.ForeignColumns {
		sb.WriteString("_" + c)
	}
	sb.WriteString("_" + fk.PrimaryTable)
	for _, c := range fk.PrimaryColumns {
		sb.WriteString("_" + c)
	}
	return sb.String()
}

// IndexName is IX_<table>_<cols>.
func IndexName(ix *schema.IndexDefinition) string {
	return "IX_" + ix.TableName + "_" + strings.Join(ix.ColumnNames(), "_")
}

// PrimaryKeyName is PK_<table>.
func PrimaryKeyName(tableName string) string {
	return "PK_" + tableName
}

// UniqueConstraintName is UC_<table>_<cols>.
func UniqueConstraintName(tableName string, columns []string) string {
	return "UC_" + tableName + "_" + strings.Join(columns, "_")
}

// DefaultConstraintName is DF_<table>_<col>, for dialects with named default constraints.
func DefaultConstraintName(tableName, columnName string) string {
	return "DF_" + tableName + "_" + columnName
}

// ConstraintName names a table-level constraint by its type.
func ConstraintName(c *schema.ConstraintDefinition) string {
	if c.Type == schema.PrimaryKeyConstraint {
		return PrimaryKeyName(c.TableName)
	}
	return UniqueConstraintName(c.TableName, c.Columns)
}
