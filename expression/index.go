package expression

import "github.com/sqldef/migrator/schema"

type CreateIndex struct {
	Index *schema.IndexDefinition
}

func (e *CreateIndex) Kind() string { return "CreateIndex" }

func (e *CreateIndex) Validate() []string {
	if e.Index == nil {
		return []string{schema.ErrIndexColumnsEmpty}
	}
	return e.Index.Validate()
}

func (e *CreateIndex) Reverse() Expression {
	ix := *e.Index
	ix.Columns = append([]schema.IndexColumn(nil), e.Index.Columns...)
	return &DeleteIndex{Index: &ix}
}

// DeleteIndex drops Index by name. Columns only matter when the name is left to conventions.
type DeleteIndex struct {
	Index *schema.IndexDefinition
}

func (e *DeleteIndex) Kind() string { return "DeleteIndex" }

func (e *DeleteIndex) Validate() []string {
	if e.Index == nil {
		return []string{schema.ErrIndexNameEmpty}
	}
	var errs []string
	if e.Index.TableName == "" {
		errs = append(errs, schema.ErrTableNameEmpty)
	}
	if e.Index.Name == "" && len(e.Index.Columns) == 0 {
		errs = append(errs, schema.ErrIndexNameEmpty)
	}
	return errs
}

type CreateForeignKey struct {
	ForeignKey *schema.ForeignKeyDefinition
}

func (e *CreateForeignKey) Kind() string { return "CreateForeignKey" }

func (e *CreateForeignKey) Validate() []string {
	if e.ForeignKey == nil {
		return []string{schema.ErrForeignTableEmpty}
	}
	return e.ForeignKey.Validate()
}

func (e *CreateForeignKey) Reverse() Expression {
	return &DeleteForeignKey{ForeignKey: e.ForeignKey.Clone()}
}

// DeleteForeignKey drops a foreign key of ForeignTable by name, or by the
// conventional name derived from its columns.
type DeleteForeignKey struct {
	ForeignKey *schema.ForeignKeyDefinition
}

func (e *DeleteForeignKey) Kind() string { return "DeleteForeignKey" }

func (e *DeleteForeignKey) Validate() []string {
	if e.ForeignKey == nil {
		return []string{schema.ErrForeignKeyNameEmpty}
	}
	fk := e.ForeignKey
	var errs []string
	if fk.ForeignTable == "" {
		errs = append(errs, schema.ErrForeignTableEmpty)
	}
	if fk.Name == "" && (len(fk.ForeignColumns) == 0 || fk.PrimaryTable == "" || len(fk.PrimaryColumns) == 0) {
		errs = append(errs, schema.ErrForeignKeyNameEmpty)
	}
	return errs
}

type CreateConstraint struct {
	Constraint *schema.ConstraintDefinition
}

func (e *CreateConstraint) Kind() string { return "CreateConstraint" }

func (e *CreateConstraint) Validate() []string {
	if e.Constraint == nil {
		return []string{schema.ErrConstraintColumnsNone}
	}
	return e.Constraint.Validate()
}

func (e *CreateConstraint) Reverse() Expression {
	c := *e.Constraint
	c.Columns = append([]string(nil), e.Constraint.Columns...)
	return &DeleteConstraint{Constraint: &c}
}

type DeleteConstraint struct {
	Constraint *schema.ConstraintDefinition
}

func (e *DeleteConstraint) Kind() string { return "DeleteConstraint" }

func (e *DeleteConstraint) Validate() []string {
	if e.Constraint == nil {
		return []string{schema.ErrConstraintNameEmpty}
	}
	var errs []string
	if e.Constraint.TableName == "" {
		errs = append(errs, schema.ErrTableNameEmpty)
	}
	// Primary key names are derivable from the table alone.
	if e.Constraint.Name == "" && e.Constraint.Type == schema.UniqueConstraint && len(e.Constraint.Columns) == 0 {
		errs = append(errs, schema.ErrConstraintNameEmpty)
	}
	return errs
}

type CreateSequence struct {
	Sequence *schema.SequenceDefinition
}

func (e *CreateSequence) Kind() string { return "CreateSequence" }

func (e *CreateSequence) Validate() []string {
	if e.Sequence == nil {
		return []string{schema.ErrSequenceNameEmpty}
	}
	return e.Sequence.Validate()
}

func (e *CreateSequence) Reverse() Expression {
	return &DeleteSequence{SchemaName: e.Sequence.SchemaName, SequenceName: e.Sequence.Name}
}

type DeleteSequence struct {
	SchemaName   string
	SequenceName string
}

func (e *DeleteSequence) Kind() string { return "DeleteSequence" }

func (e *DeleteSequence) Validate() []string {
	if e.SequenceName == "" {
		return []string{schema.ErrSequenceNameEmpty}
	}
	return nil
}
