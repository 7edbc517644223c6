// Package database is the connection layer. It never builds SQL.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sqldef/migrator/generator"
)

type Config struct {
	DbName   string
	User     string
	Password string
	Host     string
	Port     int
	Socket   string
	SslMode  string
	SslCa    string

	// Only MySQL
	MySQLEnableCleartextPlugin bool
}

// Abstraction layer for multiple kinds of databases
type Database interface {
	DB() *sql.DB
	Close() error
}

// RunStatements applies statements in order. Each statement is the full output
// of one expression and is executed with a single Exec. Comment-only
// statements are printed but never sent to the server. When transactional is
// false every statement runs on its own, as some engines commit DDL implicitly.
func RunStatements(ctx context.Context, d Database, statements []string, transactional bool, logger Logger) error {
	if _, ok := d.(*DryRunDatabase); ok {
		logger.Section("dry run")
	} else {
		logger.Section("Apply")
	}

	if !transactional {
		return execAll(ctx, d.DB(), statements, logger)
	}

	tx, err := d.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := execAll(ctx, tx, statements, logger); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execAll(ctx context.Context, db execer, statements []string, logger Logger) error {
	for _, stmt := range statements {
		logger.Statement(stmt)
		if generator.IsComment(stmt) {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
