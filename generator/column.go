package generator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sqldef/migrator/schema"
	"github.com/sqldef/migrator/util"
)

// Names of the column clause steps, in their default order.
const (
	StepIdentifier  = "identifier"
	StepType        = "type"
	StepCollation   = "collation"
	StepComputed    = "computed"
	StepNullability = "nullability"
	StepDefault     = "default"
	StepPrimaryKey  = "primary-key"
	StepIdentity    = "identity"
	StepUnique      = "unique"
)

// StepFunc renders one fragment of a column clause; "" contributes nothing.
type StepFunc func(c *schema.ColumnDefinition) (string, error)

type ColumnStep struct {
	Name   string
	Format StepFunc
}

// Column renders column clauses from an ordered list of steps. Dialects replace,
// insert or remove individual steps instead of re-implementing the assembly.
// Configure it at construction; it is read-only afterwards.
type Column struct {
	Dialect string
	Quoter  Quoter
	Types   *TypeMap

	// NullKeyword is emitted for explicitly nullable columns. Most dialects need nothing.
	NullKeyword string
	// InlinePrimaryKey decides whether the primary key columns of a CREATE TABLE
	// keep their inline PRIMARY KEY fragment. When it returns false the key is
	// emitted as one trailing PRIMARY KEY clause.
	InlinePrimaryKey func(pks []*schema.ColumnDefinition) bool

	steps []ColumnStep
}

func NewColumn(dialect string, quoter Quoter, types *TypeMap) *Column {
	c := &Column{Dialect: dialect, Quoter: quoter, Types: types, InlinePrimaryKey: InlineSingleUnnamedPrimaryKey}
	c.steps = []ColumnStep{
		{StepIdentifier, c.FormatIdentifier},
		{StepType, c.FormatType},
		{StepCollation, c.FormatCollation},
		{StepComputed, c.FormatComputed},
		{StepNullability, c.FormatNullability},
		{StepDefault, c.FormatDefault},
		{StepPrimaryKey, c.FormatPrimaryKey},
		{StepIdentity, c.FormatIdentity},
		{StepUnique, c.FormatUnique},
	}
	return c
}

// InlineSingleUnnamedPrimaryKey inlines a primary key of exactly one column without a constraint name.
func InlineSingleUnnamedPrimaryKey(pks []*schema.ColumnDefinition) bool {
	return len(pks) == 1 && pks[0].PrimaryKeyName == ""
}

// NeverInlinePrimaryKey always emits a trailing PRIMARY KEY clause.
func NeverInlinePrimaryKey([]*schema.ColumnDefinition) bool {
	return false
}

func (c *Column) Steps() []string {
	names := make([]string, len(c.steps))
	for i, s := range c.steps {
		names[i] = s.Name
	}
	return names
}

func (c *Column) index(name string) int {
	return slices.IndexFunc(c.steps, func(s ColumnStep) bool { return s.Name == name })
}

// Replace swaps the function of an existing step. It panics on an unknown step,
// which is a programming error in a dialect definition.
func (c *Column) Replace(name string, f StepFunc) *Column {
	i := c.index(name)
	if i < 0 {
		panic(fmt.Sprintf("unknown column step %q", name))
	}
	c.steps[i].Format = f
	return c
}

// InsertAfter adds a new step right after an existing one.
func (c *Column) InsertAfter(after string, step ColumnStep) *Column {
	i := c.index(after)
	if i < 0 {
		panic(fmt.Sprintf("unknown column step %q", after))
	}
	c.steps = slices.Insert(c.steps, i+1, step)
	return c
}

func (c *Column) Remove(name string) *Column {
	if i := c.index(name); i >= 0 {
		c.steps = slices.Delete(c.steps, i, i+1)
	}
	return c
}

// Format renders one column clause, e.g. for ALTER TABLE ADD COLUMN.
func (c *Column) Format(col *schema.ColumnDefinition) (string, error) {
	fragments := make([]string, 0, len(c.steps))
	for _, step := range c.steps {
		fragment, err := step.Format(col)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", col.Name, err)
		}
		fragments = append(fragments, fragment)
	}
	return util.JoinNonEmpty(" ", fragments...), nil
}

// FormatColumnList renders a CREATE TABLE body from copies of the table's
// columns. Primary keys that are not inlined are cleared on the copies and
// emitted as a trailing PRIMARY KEY clause.
func (c *Column) FormatColumnList(table *schema.TableDefinition) (string, error) {
	columns := make([]*schema.ColumnDefinition, len(table.Columns))
	var pks []*schema.ColumnDefinition
	for i, col := range table.Columns {
		columns[i] = OwnedColumn(col, table.SchemaName, table.Name)
		if col.PrimaryKey {
			pks = append(pks, columns[i])
		}
	}

	trailing := ""
	if len(pks) > 0 && !c.InlinePrimaryKey(pks) {
		name := ""
		names := make([]string, len(pks))
		for i, pk := range pks {
			if name == "" {
				name = pk.PrimaryKeyName
			}
			names[i] = pk.Name
			pk.PrimaryKey = false
			pk.PrimaryKeyName = ""
			// a cleared key column must not turn into a UNIQUE one
			pk.Unique = false
		}
		trailing = c.FormatPrimaryKeyConstraint(name, names)
	}

	clauses := make([]string, 0, len(columns)+1)
	for _, col := range columns {
		clause, err := c.Format(col)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, clause)
	}
	if trailing != "" {
		clauses = append(clauses, trailing)
	}
	return strings.Join(clauses, ", "), nil
}

// FormatPrimaryKeyConstraint renders [CONSTRAINT name] PRIMARY KEY (cols).
func (c *Column) FormatPrimaryKeyConstraint(name string, columns []string) string {
	sql := "PRIMARY KEY (" + c.QuoteColumns(columns) + ")"
	if name != "" {
		sql = "CONSTRAINT " + c.Quoter.QuoteIdentifier(name) + " " + sql
	}
	return sql
}

func (c *Column) QuoteColumns(columns []string) string {
	quoted := make([]string, len(columns))
	for i, name := range columns {
		quoted[i] = c.Quoter.QuoteIdentifier(name)
	}
	return strings.Join(quoted, ", ")
}

func (c *Column) FormatIdentifier(col *schema.ColumnDefinition) (string, error) {
	return c.Quoter.QuoteIdentifier(col.Name), nil
}

func (c *Column) FormatType(col *schema.ColumnDefinition) (string, error) {
	if col.CustomType != "" {
		return col.CustomType, nil
	}
	if col.Type == schema.TypeUnset {
		// computed columns may leave the type to the expression
		return "", nil
	}
	return c.Types.Resolve(col.Type, col.Size, col.Precision)
}

func (c *Column) FormatCollation(col *schema.ColumnDefinition) (string, error) {
	if col.Collation == "" {
		return "", nil
	}
	return "COLLATE " + col.Collation, nil
}

func (c *Column) FormatComputed(col *schema.ColumnDefinition) (string, error) {
	if col.Computed == "" {
		return "", nil
	}
	sql := "GENERATED ALWAYS AS (" + col.Computed + ")"
	if col.ComputedStored {
		sql += " STORED"
	}
	return sql, nil
}

func (c *Column) FormatNullability(col *schema.ColumnDefinition) (string, error) {
	switch col.Nullable {
	case schema.True:
		return c.NullKeyword, nil
	case schema.Unset:
		if col.Computed != "" {
			return "", nil
		}
	}
	return "NOT NULL", nil
}

func (c *Column) FormatDefault(col *schema.ColumnDefinition) (string, error) {
	value, err := c.FormatDefaultValue(col.Default)
	if err != nil || value == "" {
		return "", err
	}
	return "DEFAULT " + value, nil
}

// FormatDefaultValue renders the value of a default without the DEFAULT keyword.
func (c *Column) FormatDefaultValue(d schema.Default) (string, error) {
	switch d.Kind {
	case schema.DefaultNull:
		return "NULL", nil
	case schema.DefaultValue:
		return c.Quoter.QuoteValue(d.Value)
	case schema.DefaultMethod:
		return c.Quoter.FormatSystemMethod(d.Method)
	default:
		return "", nil
	}
}

func (c *Column) FormatPrimaryKey(col *schema.ColumnDefinition) (string, error) {
	if !col.PrimaryKey {
		return "", nil
	}
	if col.PrimaryKeyName != "" {
		return "CONSTRAINT " + c.Quoter.QuoteIdentifier(col.PrimaryKeyName) + " PRIMARY KEY", nil
	}
	return "PRIMARY KEY", nil
}

func (c *Column) FormatIdentity(col *schema.ColumnDefinition) (string, error) {
	if !col.Identity {
		return "", nil
	}
	return "GENERATED BY DEFAULT AS IDENTITY", nil
}

func (c *Column) FormatUnique(col *schema.ColumnDefinition) (string, error) {
	if !col.Unique || col.PrimaryKey {
		return "", nil
	}
	return "UNIQUE", nil
}
