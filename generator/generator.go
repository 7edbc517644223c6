// Package generator renders expressions into SQL for one dialect. Base is the
// generic dialect; dialect packages embed it and override only what differs.
// Generators are immutable once built and safe for concurrent use.
package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sqldef/migrator/expression"
)

// StatementSeparator joins the statements of one expression.
const StatementSeparator = ";\n"

type Generator interface {
	Name() string
	IsFeatureSupported(f Feature) bool
	// SupportsTransactionalDDL is what the runner asks before wrapping a migration in a transaction.
	SupportsTransactionalDDL() bool

	GenerateCreateSchema(e *expression.CreateSchema) (string, error)
	GenerateDeleteSchema(e *expression.DeleteSchema) (string, error)
	GenerateAlterSchema(e *expression.AlterSchema) (string, error)
	GenerateCreateTable(e *expression.CreateTable) (string, error)
	GenerateDeleteTable(e *expression.DeleteTable) (string, error)
	GenerateRenameTable(e *expression.RenameTable) (string, error)
	GenerateAlterTable(e *expression.AlterTable) (string, error)
	GenerateCreateColumn(e *expression.CreateColumn) (string, error)
	GenerateAlterColumn(e *expression.AlterColumn) (string, error)
	GenerateDeleteColumn(e *expression.DeleteColumn) (string, error)
	GenerateRenameColumn(e *expression.RenameColumn) (string, error)
	GenerateCreateIndex(e *expression.CreateIndex) (string, error)
	GenerateDeleteIndex(e *expression.DeleteIndex) (string, error)
	GenerateCreateForeignKey(e *expression.CreateForeignKey) (string, error)
	GenerateDeleteForeignKey(e *expression.DeleteForeignKey) (string, error)
	GenerateCreateConstraint(e *expression.CreateConstraint) (string, error)
	GenerateDeleteConstraint(e *expression.DeleteConstraint) (string, error)
	GenerateCreateSequence(e *expression.CreateSequence) (string, error)
	GenerateDeleteSequence(e *expression.DeleteSequence) (string, error)
	GenerateAlterDefaultConstraint(e *expression.AlterDefaultConstraint) (string, error)
	GenerateDeleteDefaultConstraint(e *expression.DeleteDefaultConstraint) (string, error)
	GenerateInsertData(e *expression.InsertData) (string, error)
	GenerateUpdateData(e *expression.UpdateData) (string, error)
	GenerateDeleteData(e *expression.DeleteData) (string, error)
	GenerateExecuteSQL(e *expression.ExecuteSQL) (string, error)
	GenerateExecuteSQLScript(e *expression.ExecuteSQLScript) (string, error)
	GenerateExecuteEmbeddedSQLScript(e *expression.ExecuteEmbeddedSQLScript) (string, error)
}

// Generate dispatches e to the method of g for its variant.
func Generate(g Generator, e expression.Expression) (string, error) {
	switch e := e.(type) {
	case *expression.CreateSchema:
		return g.GenerateCreateSchema(e)
	case *expression.DeleteSchema:
		return g.GenerateDeleteSchema(e)
	case *expression.AlterSchema:
		return g.GenerateAlterSchema(e)
	case *expression.CreateTable:
		return g.GenerateCreateTable(e)
	case *expression.DeleteTable:
		return g.GenerateDeleteTable(e)
	case *expression.RenameTable:
		return g.GenerateRenameTable(e)
	case *expression.AlterTable:
		return g.GenerateAlterTable(e)
	case *expression.CreateColumn:
		return g.GenerateCreateColumn(e)
	case *expression.AlterColumn:
		return g.GenerateAlterColumn(e)
	case *expression.DeleteColumn:
		return g.GenerateDeleteColumn(e)
	case *expression.RenameColumn:
		return g.GenerateRenameColumn(e)
	case *expression.CreateIndex:
		return g.GenerateCreateIndex(e)
	case *expression.DeleteIndex:
		return g.GenerateDeleteIndex(e)
	case *expression.CreateForeignKey:
		return g.GenerateCreateForeignKey(e)
	case *expression.DeleteForeignKey:
		return g.GenerateDeleteForeignKey(e)
	case *expression.CreateConstraint:
		return g.GenerateCreateConstraint(e)
	case *expression.DeleteConstraint:
		return g.GenerateDeleteConstraint(e)
	case *expression.CreateSequence:
		return g.GenerateCreateSequence(e)
	case *expression.DeleteSequence:
		return g.GenerateDeleteSequence(e)
	case *expression.AlterDefaultConstraint:
		return g.GenerateAlterDefaultConstraint(e)
	case *expression.DeleteDefaultConstraint:
		return g.GenerateDeleteDefaultConstraint(e)
	case *expression.InsertData:
		return g.GenerateInsertData(e)
	case *expression.UpdateData:
		return g.GenerateUpdateData(e)
	case *expression.DeleteData:
		return g.GenerateDeleteData(e)
	case *expression.ExecuteSQL:
		return g.GenerateExecuteSQL(e)
	case *expression.ExecuteSQLScript:
		return g.GenerateExecuteSQLScript(e)
	case *expression.ExecuteEmbeddedSQLScript:
		return g.GenerateExecuteEmbeddedSQLScript(e)
	case nil:
		return "", errors.New("nil expression")
	default:
		return "", fmt.Errorf("unexpected expression type %T", e)
	}
}

type Status int

const (
	StatusOk Status = iota
	// StatusUnsupported means the dialect cannot express the expression. SQL holds
	// the loose-mode comment when the policy chose to continue.
	StatusUnsupported
	// StatusInvalid means the expression itself is malformed.
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusUnsupported:
		return "unsupported"
	default:
		return "invalid"
	}
}

type Result struct {
	Status   Status
	SQL      string
	Err      error
	Messages []string
}

// Evaluate validates e and generates it, classifying the outcome instead of
// mixing dialect gaps with malformed input.
func Evaluate(g Generator, e expression.Expression) Result {
	if e == nil {
		return Result{Status: StatusInvalid, Err: errors.New("nil expression")}
	}
	if messages := e.Validate(); len(messages) > 0 {
		return Result{
			Status:   StatusInvalid,
			Messages: messages,
			Err:      &ValidationError{Index: -1, Kind: e.Kind(), Messages: messages},
		}
	}

	sql, err := Generate(g, e)
	switch {
	case err == nil && IsComment(sql):
		return Result{Status: StatusUnsupported, SQL: sql}
	case err == nil:
		return Result{Status: StatusOk, SQL: sql}
	case IsUnsupported(err):
		return Result{Status: StatusUnsupported, Err: err}
	default:
		return Result{Status: StatusInvalid, Err: err, Messages: []string{err.Error()}}
	}
}

// Join concatenates statements with the separator, skipping empty ones.
func Join(statements ...string) string {
	kept := statements[:0:0]
	for _, s := range statements {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, StatementSeparator)
}

// SplitStatements reverses Join for output produced by a generator.
func SplitStatements(sql string) []string {
	var statements []string
	for _, s := range strings.Split(sql, StatementSeparator) {
		if s = strings.TrimSpace(s); s != "" {
			statements = append(statements, s)
		}
	}
	return statements
}
