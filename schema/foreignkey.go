package schema

// ForeignKeyDefinition references PrimaryTable(PrimaryColumns) from
// ForeignTable(ForeignColumns). An empty Name is assigned by the naming convention.
type ForeignKeyDefinition struct {
	Name               string
	ForeignTable       string
	ForeignTableSchema string
	PrimaryTable       string
	PrimaryTableSchema string
	ForeignColumns     []string
	PrimaryColumns     []string
	OnDelete           Rule
	OnUpdate           Rule
}

func (fk *ForeignKeyDefinition) Clone() *ForeignKeyDefinition {
	clone := *fk
	clone.ForeignColumns = append([]string(nil), fk.ForeignColumns...)
	clone.PrimaryColumns = append([]string(nil), fk.PrimaryColumns...)
	return &clone
}

func (fk *ForeignKeyDefinition) Validate() []string {
	var errs []string
	if fk.ForeignTable == "" {
		errs = append(errs, ErrForeignTableEmpty)
	}
	if len(fk.ForeignColumns) == 0 {
		errs = append(errs, ErrForeignColumnsEmpty)
	}
	return append(errs, fk.validateColumns()...)
}

// validateColumns checks the referenced side. Column-level foreign keys only know
// their foreign columns once the owning table is known.
func (fk *ForeignKeyDefinition) validateColumns() []string {
	var errs []string
	if fk.PrimaryTable == "" {
		errs = append(errs, ErrPrimaryTableEmpty)
	}
	if len(fk.PrimaryColumns) == 0 {
		errs = append(errs, ErrPrimaryColumnsEmpty)
	}
	if len(fk.ForeignColumns) > 0 && len(fk.PrimaryColumns) > 0 && len(fk.ForeignColumns) != len(fk.PrimaryColumns) {
		errs = append(errs, ErrMismatchedColumnCount)
	}
	return errs
}
