// Package conventions fills in what a migration author may leave blank: the
// default schema, constraint and index names, and script locations. Every step
// only fills empty fields, so applying a Set twice changes nothing.
package conventions

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/sqldef/migrator/expression"
	"github.com/sqldef/migrator/schema"
	"github.com/sqldef/migrator/util"
)

type Set struct {
	// DefaultSchema is used for every expression without a schema. Empty keeps them unqualified.
	DefaultSchema string
	// MaxIdentifierLength truncates generated names. Explicit names are never touched.
	MaxIdentifierLength int
	// WorkingDirectory resolves relative script paths.
	WorkingDirectory string
	// Resources holds the scripts of ExecuteEmbeddedSQLScript.
	Resources fs.FS
}

// Apply runs the pipeline over every expression in order: schema, names, scripts.
func (s *Set) Apply(exprs []expression.Expression) error {
	for i, e := range exprs {
		if err := s.ApplyOne(e); err != nil {
			return fmt.Errorf("expression %d (%s): %w", i, e.Kind(), err)
		}
	}
	return nil
}

func (s *Set) ApplyOne(e expression.Expression) error {
	s.applySchema(e)
	s.applyNames(e)
	return s.applyScripts(e)
}

func (s *Set) applySchema(e expression.Expression) {
	def := func(name *string) {
		if *name == "" {
			*name = s.DefaultSchema
		}
	}

	switch e := e.(type) {
	case *expression.AlterSchema:
		def(&e.SourceSchemaName)
	case *expression.CreateTable:
		def(&e.Table.SchemaName)
		for _, c := range e.Table.Columns {
			attachColumn(c, e.Table.SchemaName, e.Table.Name)
		}
	case *expression.DeleteTable:
		def(&e.SchemaName)
	case *expression.RenameTable:
		def(&e.SchemaName)
	case *expression.AlterTable:
		def(&e.SchemaName)
	case *expression.CreateColumn:
		def(&e.SchemaName)
		attachColumn(e.Column, e.SchemaName, e.TableName)
	case *expression.AlterColumn:
		def(&e.SchemaName)
		attachColumn(e.Column, e.SchemaName, e.TableName)
	case *expression.DeleteColumn:
		def(&e.SchemaName)
	case *expression.RenameColumn:
		def(&e.SchemaName)
	case *expression.CreateIndex:
		def(&e.Index.SchemaName)
	case *expression.DeleteIndex:
		def(&e.Index.SchemaName)
	case *expression.CreateForeignKey:
		def(&e.ForeignKey.ForeignTableSchema)
		def(&e.ForeignKey.PrimaryTableSchema)
	case *expression.DeleteForeignKey:
		def(&e.ForeignKey.ForeignTableSchema)
		def(&e.ForeignKey.PrimaryTableSchema)
	case *expression.CreateConstraint:
		def(&e.Constraint.SchemaName)
	case *expression.DeleteConstraint:
		def(&e.Constraint.SchemaName)
	case *expression.CreateSequence:
		def(&e.Sequence.SchemaName)
	case *expression.DeleteSequence:
		def(&e.SchemaName)
	case *expression.AlterDefaultConstraint:
		def(&e.SchemaName)
	case *expression.DeleteDefaultConstraint:
		def(&e.SchemaName)
	case *expression.InsertData:
		def(&e.SchemaName)
	case *expression.UpdateData:
		def(&e.SchemaName)
	case *expression.DeleteData:
		def(&e.SchemaName)
	}
}

// attachColumn records the owning table on a column and on its foreign key.
func attachColumn(c *schema.ColumnDefinition, schemaName, tableName string) {
	if c.TableName == "" {
		c.TableName = tableName
	}
	if c.SchemaName == "" {
		c.SchemaName = schemaName
	}
	if fk := c.ForeignKey; fk != nil {
		if fk.ForeignTable == "" {
			fk.ForeignTable = tableName
		}
		if fk.ForeignTableSchema == "" {
			fk.ForeignTableSchema = schemaName
		}
		if len(fk.ForeignColumns) == 0 {
			fk.ForeignColumns = []string{c.Name}
		}
		if fk.PrimaryTableSchema == "" {
			fk.PrimaryTableSchema = schemaName
		}
	}
}

func (s *Set) applyNames(e expression.Expression) {
	switch e := e.(type) {
	case *expression.CreateTable:
		for _, c := range e.Table.Columns {
			s.nameForeignKey(c.ForeignKey)
		}
	case *expression.CreateColumn:
		s.nameForeignKey(e.Column.ForeignKey)
	case *expression.CreateIndex:
		s.nameIndex(e.Index)
	case *expression.DeleteIndex:
		s.nameIndex(e.Index)
	case *expression.CreateForeignKey:
		s.nameForeignKey(e.ForeignKey)
	case *expression.DeleteForeignKey:
		s.nameForeignKey(e.ForeignKey)
	case *expression.CreateConstraint:
		s.nameConstraint(e.Constraint)
	case *expression.DeleteConstraint:
		s.nameConstraint(e.Constraint)
	}
}

func (s *Set) nameForeignKey(fk *schema.ForeignKeyDefinition) {
	if fk != nil && fk.Name == "" {
		fk.Name = s.truncate(ForeignKeyName(fk))
	}
}

func (s *Set) nameIndex(ix *schema.IndexDefinition) {
	if ix.Name == "" && len(ix.Columns) > 0 {
		ix.Name = s.truncate(IndexName(ix))
	}
}

func (s *Set) nameConstraint(c *schema.ConstraintDefinition) {
	if c.Name == "" {
		c.Name = s.truncate(ConstraintName(c))
	}
}

func (s *Set) truncate(name string) string {
	return util.TruncateIdentifier(name, s.MaxIdentifierLength)
}

func (s *Set) applyScripts(e expression.Expression) error {
	switch e := e.(type) {
	case *expression.ExecuteSQLScript:
		resolved, err := s.resolveScriptPath(e.ScriptPath)
		if err != nil {
			return err
		}
		e.ScriptPath = resolved
	case *expression.ExecuteEmbeddedSQLScript:
		resolved, err := s.resolveResourceName(e.ResourceName)
		if err != nil {
			return err
		}
		e.ResourceName = resolved
	}
	return nil
}

func (s *Set) resolveScriptPath(p string) (string, error) {
	if s.WorkingDirectory == "" || filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := filepath.Abs(s.WorkingDirectory)
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

// resolveResourceName keeps a name that exists in Resources and otherwise
// looks for exactly one file whose path ends with it.
func (s *Set) resolveResourceName(name string) (string, error) {
	if s.Resources == nil {
		return "", fmt.Errorf("no embedded resources configured for %q", name)
	}
	if _, err := fs.Stat(s.Resources, name); err == nil {
		return name, nil
	}

	var matches []string
	err := fs.WalkDir(s.Resources, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && (p == name || strings.HasSuffix(p, "/"+name) || path.Base(p) == name) {
			matches = append(matches, p)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("embedded script %q not found", name)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("embedded script %q is ambiguous: %s", name, strings.Join(matches, ", "))
	}
}
