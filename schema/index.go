package schema

type IndexColumn struct {
	Name      string
	Direction Direction
}

// IndexDefinition describes an index. An empty Name is assigned by the naming convention.
type IndexDefinition struct {
	Name       string
	SchemaName string
	TableName  string
	Columns    []IndexColumn
	Unique     bool
	Clustered  bool
	// NullsDistinct is only meaningful for unique indexes.
	NullsDistinct Tristate
	// Includes are non-key payload columns.
	Includes []string
	// Filter is a predicate for partial (filtered) indexes, emitted verbatim.
	Filter string

	Extensions ExtensionSet
}

func (ix *IndexDefinition) ColumnNames() []string {
	names := make([]string, len(ix.Columns))
	for i, c := range ix.Columns {
		names[i] = c.Name
	}
	return names
}

func (ix *IndexDefinition) Validate() []string {
	var errs []string
	if ix.TableName == "" {
		errs = append(errs, ErrTableNameEmpty)
	}
	if len(ix.Columns) == 0 {
		errs = append(errs, ErrIndexColumnsEmpty)
	}
	for _, c := range ix.Columns {
		if c.Name == "" {
			errs = append(errs, ErrColumnNameEmpty)
		}
	}
	return errs
}

type ConstraintType int

const (
	PrimaryKeyConstraint ConstraintType = iota
	UniqueConstraint
)

func (t ConstraintType) String() string {
	if t == UniqueConstraint {
		return "UNIQUE"
	}
	return "PRIMARY KEY"
}

// ConstraintDefinition is a table-level primary key or unique constraint.
type ConstraintDefinition struct {
	Name       string
	SchemaName string
	TableName  string
	Type       ConstraintType
	Columns    []string
	// NullsDistinct is only meaningful for unique constraints.
	NullsDistinct Tristate
}

func (c *ConstraintDefinition) Validate() []string {
	var errs []string
	if c.TableName == "" {
		errs = append(errs, ErrTableNameEmpty)
	}
	if len(c.Columns) == 0 {
		errs = append(errs, ErrConstraintColumnsNone)
	}
	return errs
}

// SequenceDefinition describes a standalone sequence. Nil fields are left to the database.
type SequenceDefinition struct {
	Name       string
	SchemaName string
	StartWith  *int64
	Increment  *int64
	MinValue   *int64
	MaxValue   *int64
	Cache      *int64
	Cycle      bool
}

func (s *SequenceDefinition) Validate() []string {
	var errs []string
	if s.Name == "" {
		errs = append(errs, ErrSequenceNameEmpty)
	}
	if s.Increment != nil && *s.Increment == 0 {
		errs = append(errs, ErrSequenceIncrementZero)
	}
	if s.MinValue != nil && s.MaxValue != nil && *s.MinValue > *s.MaxValue {
		errs = append(errs, ErrSequenceMinAboveMax)
	}
	return errs
}
