// Package migrator turns versioned migrations into dialect SQL and applies it.
package migrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/sqldef/migrator/database"
	"github.com/sqldef/migrator/expression"
	"github.com/sqldef/migrator/generator"
	"github.com/sqldef/migrator/migration"
	"github.com/sqldef/migrator/util"
)

type Options struct {
	MigrationFile string
	DryRun        bool
	Down          bool
	Check         bool
	Debug         bool
	// Target limits the run: up applies versions <= Target, down reverts versions > Target.
	// Zero means every migration.
	Target    int64
	Config    GeneratorConfig
	Resources fs.FS
}

// StatementError tells which expression of which migration failed to generate.
type StatementError struct {
	Version int64
	Index   int
	Kind    string
	Err     error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("migration %d: expression %d (%s): %v", e.Version, e.Index, e.Kind, e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// ValidationErrors holds every invalid expression of a batch.
type ValidationErrors []*generator.ValidationError

func (errs ValidationErrors) Error() string {
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "\n")
}

func (errs ValidationErrors) Unwrap() []error {
	return util.TransformSlice(errs, func(err *generator.ValidationError) error { return err })
}

// Validate checks every expression and reports all failures at once.
func Validate(exprs []expression.Expression) error {
	var errs ValidationErrors
	for i, e := range exprs {
		if e == nil {
			errs = append(errs, &generator.ValidationError{Index: i, Kind: "nil", Messages: []string{"expression is nil"}})
			continue
		}
		if messages := e.Validate(); len(messages) > 0 {
			errs = append(errs, &generator.ValidationError{Index: i, Kind: e.Kind(), Messages: messages})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

var parameterPattern = regexp.MustCompile(`\$\(([A-Za-z_][A-Za-z0-9_]*)\)`)

// substituteParameters replaces $(name) tokens. Unknown names are left alone.
func substituteParameters(sql string, parameters map[string]string) string {
	if len(parameters) == 0 {
		return sql
	}
	for name := range util.CanonicalMapIter(parameters) {
		if !strings.Contains(sql, "$("+name+")") {
			slog.Warn("Script parameter is not referenced", "name", name)
		}
	}
	return parameterPattern.ReplaceAllStringFunc(sql, func(token string) string {
		if value, ok := parameters[token[2:len(token)-1]]; ok {
			return value
		}
		return token
	})
}

// LoadScripts reads the SQL of script expressions whose SQL is still empty.
// Paths must already be resolved by the conventions.
func LoadScripts(exprs []expression.Expression, resources fs.FS) error {
	for i, e := range exprs {
		switch e := e.(type) {
		case *expression.ExecuteSQLScript:
			if e.SQL != "" {
				continue
			}
			buf, err := os.ReadFile(e.ScriptPath)
			if err != nil {
				return fmt.Errorf("expression %d (%s): %w", i, e.Kind(), err)
			}
			e.SQL = substituteParameters(string(buf), e.Parameters)
		case *expression.ExecuteEmbeddedSQLScript:
			if e.SQL != "" {
				continue
			}
			if resources == nil {
				return fmt.Errorf("expression %d (%s): no embedded resources configured", i, e.Kind())
			}
			buf, err := fs.ReadFile(resources, e.ResourceName)
			if err != nil {
				return fmt.Errorf("expression %d (%s): %w", i, e.Kind(), err)
			}
			e.SQL = substituteParameters(string(buf), e.Parameters)
		}
	}
	return nil
}

// Generate validates exprs, applies conventions, loads scripts and generates
// one SQL string per expression, in input order.
func Generate(g generator.Generator, exprs []expression.Expression, config GeneratorConfig, resources fs.FS) ([]string, error) {
	if err := Validate(exprs); err != nil {
		return nil, err
	}
	if err := config.Conventions(resources).Apply(exprs); err != nil {
		return nil, err
	}
	if err := LoadScripts(exprs, resources); err != nil {
		return nil, err
	}
	return util.ConcurrentMapFuncWithError(exprs, config.Concurrency, func(i int, e expression.Expression) (string, error) {
		sql, err := generator.Generate(g, e)
		if err != nil {
			return "", &StatementError{Index: i, Kind: e.Kind(), Err: err}
		}
		return sql, nil
	})
}

// Step is the SQL of one migration, one entry per expression.
type Step struct {
	Migration  *migration.Migration
	Statements []string
}

type Plan struct {
	Dialect       string
	Down          bool
	Transactional bool
	Steps         []Step
}

// Statements flattens the plan, dropping expressions that rendered nothing.
func (p *Plan) Statements() []string {
	var statements []string
	for _, step := range p.Steps {
		for _, sql := range step.Statements {
			if sql != "" {
				statements = append(statements, sql)
			}
		}
	}
	return statements
}

// selectMigrations sorts migrations and returns them in execution order.
func selectMigrations(migrations []*migration.Migration, down bool, target int64) ([]*migration.Migration, error) {
	sorted := append([]*migration.Migration(nil), migrations...)
	if err := migration.Sort(sorted); err != nil {
		return nil, err
	}

	var selected []*migration.Migration
	if !down {
		for _, m := range sorted {
			if target == 0 || m.Version <= target {
				selected = append(selected, m)
			}
		}
		return selected, nil
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Version > target {
			selected = append(selected, sorted[i])
		}
	}
	return selected, nil
}

func expressionsOf(m *migration.Migration, down bool) ([]expression.Expression, error) {
	if down {
		return m.DownExpressions()
	}
	return m.Up, nil
}

func NewPlan(g generator.Generator, migrations []*migration.Migration, options *Options) (*Plan, error) {
	selected, err := selectMigrations(migrations, options.Down, options.Target)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Dialect:       g.Name(),
		Down:          options.Down,
		Transactional: g.SupportsTransactionalDDL(),
	}
	for _, m := range selected {
		exprs, err := expressionsOf(m, options.Down)
		if err != nil {
			return nil, err
		}
		statements, err := Generate(g, exprs, options.Config, options.Resources)
		if err != nil {
			var stmtErr *StatementError
			if errors.As(err, &stmtErr) {
				stmtErr.Version = m.Version
				return nil, stmtErr
			}
			return nil, fmt.Errorf("migration %s: %w", m, err)
		}
		for i, sql := range statements {
			if generator.IsComment(sql) {
				slog.Warn("Unsupported feature emitted as comment", "dialect", g.Name(), "version", m.Version, "index", i, "kind", exprs[i].Kind(), "sql", sql)
			} else {
				slog.Debug("Generated statement", "dialect", g.Name(), "version", m.Version, "index", i, "kind", exprs[i].Kind(), "sql", sql)
			}
		}
		plan.Steps = append(plan.Steps, Step{Migration: m, Statements: statements})
	}
	return plan, nil
}

// MissingFeature is a Preflight finding located in its migration.
type MissingFeature struct {
	Version int64
	generator.MissingFeature
}

// Check lists the features the selected migrations need that g lacks.
func Check(g generator.Generator, migrations []*migration.Migration, options *Options) ([]MissingFeature, error) {
	selected, err := selectMigrations(migrations, options.Down, options.Target)
	if err != nil {
		return nil, err
	}
	var missing []MissingFeature
	for _, m := range selected {
		exprs, err := expressionsOf(m, options.Down)
		if err != nil {
			return nil, err
		}
		for _, f := range generator.Preflight(g, exprs) {
			missing = append(missing, MissingFeature{Version: m.Version, MissingFeature: f})
		}
	}
	return missing, nil
}

// Run is the main function shared by all commands.
func Run(ctx context.Context, g generator.Generator, db database.Database, migrations []*migration.Migration, options *Options, logger database.Logger) error {
	if options.Debug {
		dumpMigrations(os.Stderr, migrations)
	}

	if options.Check {
		missing, err := Check(g, migrations, options)
		if err != nil {
			return err
		}
		if len(missing) == 0 {
			logger.Section(g.Name() + " supports every feature used")
			return nil
		}
		for _, m := range missing {
			logger.Note("migration %d: expression %d (%s) needs %s", m.Version, m.Index, m.Kind, m.Feature)
		}
		return fmt.Errorf("%s lacks %d feature(s) used by the migrations", g.Name(), len(missing))
	}

	plan, err := NewPlan(g, migrations, options)
	if err != nil {
		return err
	}
	statements := plan.Statements()
	if len(statements) == 0 {
		logger.Section("Nothing is modified")
		return nil
	}

	if options.DryRun || db == nil {
		db = database.NewDryRunDatabase(db)
	}
	return database.RunStatements(ctx, db, statements, plan.Transactional, logger)
}

func dumpMigrations(w io.Writer, migrations []*migration.Migration) {
	for _, m := range migrations {
		pp.Fprintln(w, m)
	}
}

// ReadFile reads path, or stdin when path is "-".
func ReadFile(path string) ([]byte, error) {
	if path != "-" {
		return os.ReadFile(path)
	}
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return nil, fmt.Errorf("stdin is not piped")
	}
	return io.ReadAll(os.Stdin)
}

// LoadMigrations reads a migration document from a file or stdin.
func LoadMigrations(path string) ([]*migration.Migration, error) {
	buf, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	migrations, err := migration.Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return migrations, nil
}
