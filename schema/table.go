package schema

// TableDefinition is an ordered list of columns. Column order is the physical
// order and the order in which clauses are emitted.
type TableDefinition struct {
	Name        string
	SchemaName  string
	Description string
	Columns     []*ColumnDefinition

	Extensions ExtensionSet
}

func (t *TableDefinition) Clone() *TableDefinition {
	clone := *t
	clone.Columns = make([]*ColumnDefinition, len(t.Columns))
	for i, c := range t.Columns {
		clone.Columns[i] = c.Clone()
	}
	clone.Extensions = t.Extensions.Clone()
	return &clone
}

// PrimaryKeyColumns returns the columns flagged as primary key, in table order.
func (t *TableDefinition) PrimaryKeyColumns() []*ColumnDefinition {
	var pks []*ColumnDefinition
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pks = append(pks, c)
		}
	}
	return pks
}

func (t *TableDefinition) Validate() []string {
	var errs []string
	if t.Name == "" {
		errs = append(errs, ErrTableNameEmpty)
	}
	if len(t.Columns) == 0 {
		errs = append(errs, ErrColumnsEmpty)
	}
	seen := map[string]bool{}
	for _, c := range t.Columns {
		errs = append(errs, c.Validate()...)
		if c.Name != "" {
			if seen[c.Name] {
				errs = append(errs, ErrDuplicateColumn+": "+c.Name)
			}
			seen[c.Name] = true
		}
	}
	return errs
}
