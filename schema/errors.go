package schema

// Validation messages shared by definitions and expressions.
const (
	ErrTableNameEmpty        = "The table name cannot be empty"
	ErrColumnNameEmpty       = "The column name cannot be empty"
	ErrColumnNamesEmpty      = "At least one column name must be given"
	ErrColumnsEmpty          = "The table must have at least one column"
	ErrColumnTypeMissing     = "The column does not have a type defined"
	ErrIdentityWithDefault   = "An identity column cannot have a default value"
	ErrComputedWithDefault   = "A computed column cannot have a default value"
	ErrNegativeSize          = "The column size cannot be negative"
	ErrDuplicateColumn       = "The column is defined more than once"
	ErrSchemaNameEmpty       = "The schema name cannot be empty"
	ErrIndexColumnsEmpty     = "The index must have at least one column"
	ErrForeignTableEmpty     = "The foreign table name cannot be empty"
	ErrPrimaryTableEmpty     = "The primary table name cannot be empty"
	ErrForeignColumnsEmpty   = "The foreign key must have at least one foreign column"
	ErrPrimaryColumnsEmpty   = "The foreign key must have at least one primary column"
	ErrMismatchedColumnCount = "The foreign key must have the same number of foreign and primary columns"
	ErrConstraintColumnsNone = "The constraint must have at least one column"
	ErrSequenceNameEmpty     = "The sequence name cannot be empty"
	ErrSequenceIncrementZero = "The sequence increment cannot be zero"
	ErrSequenceMinAboveMax   = "The sequence minimum value cannot exceed its maximum value"
	ErrOldNameEmpty          = "The old name cannot be empty"
	ErrNewNameEmpty          = "The new name cannot be empty"
	ErrIndexNameEmpty        = "The index name cannot be empty"
	ErrForeignKeyNameEmpty   = "The foreign key name cannot be empty"
	ErrConstraintNameEmpty   = "The constraint name cannot be empty"
	ErrRowsEmpty             = "At least one row must be given"
	ErrRowEmpty              = "A row must have at least one column"
	ErrSetEmpty              = "At least one column must be set"
	ErrWhereRequired         = "Rows must be matched by a where clause or all rows must be selected explicitly"
	ErrSQLEmpty              = "The SQL statement cannot be empty"
	ErrScriptEmpty           = "The script path or resource name cannot be empty"
)
