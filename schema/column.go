package schema

// ColumnDefinition describes one column. TableName and SchemaName are filled by
// the owning expression or by the convention pipeline.
type ColumnDefinition struct {
	Name       string
	Type       DbType
	CustomType string // used verbatim when set, bypassing the type map
	Size       *int
	Precision  *int
	Nullable   Tristate
	Default    Default

	Identity       bool
	PrimaryKey     bool
	PrimaryKeyName string
	Unique         bool
	// ForeignKey is set when the column references another table; CREATE TABLE
	// renders it as a table-level constraint.
	ForeignKey *ForeignKeyDefinition

	Computed       string
	ComputedStored bool
	Collation      string
	Description    string

	TableName  string
	SchemaName string

	Extensions ExtensionSet
}

// Clone returns a deep copy that shares nothing mutable with c.
func (c *ColumnDefinition) Clone() *ColumnDefinition {
	clone := *c
	if c.Size != nil {
		clone.Size = Int(*c.Size)
	}
	if c.Precision != nil {
		clone.Precision = Int(*c.Precision)
	}
	if c.ForeignKey != nil {
		clone.ForeignKey = c.ForeignKey.Clone()
	}
	clone.Extensions = c.Extensions.Clone()
	return &clone
}

func (c *ColumnDefinition) IsNullable() bool {
	return c.Nullable == True
}

// Validate collects validation errors for the column without stopping at the first.
func (c *ColumnDefinition) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, ErrColumnNameEmpty)
	}
	if c.Type == TypeUnset && c.CustomType == "" && c.Computed == "" {
		errs = append(errs, ErrColumnTypeMissing+": "+c.Name)
	}
	if c.Identity && c.Default.IsDefined() {
		errs = append(errs, ErrIdentityWithDefault+": "+c.Name)
	}
	if c.Computed != "" && c.Default.IsDefined() {
		errs = append(errs, ErrComputedWithDefault+": "+c.Name)
	}
	if c.Size != nil && *c.Size < 0 {
		errs = append(errs, ErrNegativeSize+": "+c.Name)
	}
	if c.ForeignKey != nil {
		errs = append(errs, c.ForeignKey.validateColumns()...)
	}
	return errs
}
