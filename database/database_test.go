package database

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDatabase struct {
	db *sql.DB
}

func (m *mockDatabase) DB() *sql.DB  { return m.db }
func (m *mockDatabase) Close() error { return m.db.Close() }

func newMock(t *testing.T) (*mockDatabase, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &mockDatabase{db: db}, mock
}

func TestRunStatements(t *testing.T) {
	statements := []string{
		`CREATE TABLE "Users" ("Id" INTEGER NOT NULL PRIMARY KEY)`,
		"-- sqlite does not support altering columns: altering column Users.Name",
		`CREATE INDEX "IX_Users_Id" ON "Users" ("Id")`,
	}

	t.Run("transactional", func(t *testing.T) {
		d, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(statements[0]).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(statements[2]).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		out := &bytes.Buffer{}
		logger := WriterLogger{W: out}
		require.NoError(t, RunStatements(context.Background(), d, statements, true, logger))
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Equal(t, "-- Apply --\n"+
			statements[0]+";\n"+
			statements[1]+"\n"+
			statements[2]+";\n", out.String())
	})

	t.Run("rollback on failure", func(t *testing.T) {
		d, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(statements[0]).WillReturnError(errors.New("table exists"))
		mock.ExpectRollback()

		err := RunStatements(context.Background(), d, statements, true, NullLogger{})
		assert.EqualError(t, err, "table exists")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non transactional", func(t *testing.T) {
		d, mock := newMock(t)
		mock.ExpectExec(statements[0]).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(statements[2]).WillReturnError(errors.New("boom"))

		err := RunStatements(context.Background(), d, statements, false, NullLogger{})
		assert.EqualError(t, err, "boom")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		d, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectCommit()
		assert.NoError(t, RunStatements(context.Background(), d, nil, true, NullLogger{}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDryRunDatabase(t *testing.T) {
	d, mock := newMock(t)
	dryRun := NewDryRunDatabase(d)

	out := &bytes.Buffer{}
	logger := WriterLogger{W: out}
	statements := []string{
		"CREATE SCHEMA [audit]",
		"-- comment only",
		"DROP TABLE [dbo].[Users]",
	}
	require.NoError(t, RunStatements(context.Background(), dryRun, statements, true, logger))

	assert.Equal(t, []string{"CREATE SCHEMA [audit]", "DROP TABLE [dbo].[Users]"}, dryRun.Statements())
	assert.Equal(t, "-- dry run --\nCREATE SCHEMA [audit];\n-- comment only\nDROP TABLE [dbo].[Users];\n", out.String())

	mock.ExpectClose()
	assert.NoError(t, dryRun.Close())
	// nothing reached the wrapped database
	assert.NoError(t, mock.ExpectationsWereMet())
}
