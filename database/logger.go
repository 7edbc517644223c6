package database

import (
	"fmt"
	"io"
	"os"

	"github.com/sqldef/migrator/generator"
)

// Logger writes the transcript of a run. Every line is valid input for a SQL
// client: titles and notes are comments, executed statements end with ";".
type Logger interface {
	// Section prints a title line such as "-- Apply --".
	Section(title string)
	// Note prints a one-line comment.
	Note(format string, args ...any)
	// Statement prints stmt as it is sent to the database. Comment-only
	// statements are never sent and are printed unterminated.
	Statement(stmt string)
}

type WriterLogger struct {
	W io.Writer
}

func NewStdoutLogger() WriterLogger {
	return WriterLogger{W: os.Stdout}
}

func (l WriterLogger) Section(title string) {
	fmt.Fprintf(l.W, "-- %s --\n", title)
}

func (l WriterLogger) Note(format string, args ...any) {
	fmt.Fprintf(l.W, "-- %s\n", fmt.Sprintf(format, args...))
}

func (l WriterLogger) Statement(stmt string) {
	if generator.IsComment(stmt) {
		fmt.Fprintln(l.W, stmt)
		return
	}
	fmt.Fprintf(l.W, "%s;\n", stmt)
}

type NullLogger struct{}

func (NullLogger) Section(string)      {}
func (NullLogger) Note(string, ...any) {}
func (NullLogger) Statement(string)    {}
