package sqlite3

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sqldef/migrator/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)", sqliteBuildDSN(database.Config{DbName: ":memory:"}))
	assert.Equal(t, "file:/tmp/app.db?_pragma=foreign_keys(1)", sqliteBuildDSN(database.Config{DbName: "/tmp/app.db"}))
}

func TestRunStatements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	db, err := NewDatabase(database.Config{DbName: path})
	require.NoError(t, err)
	defer db.Close()

	statements := []string{
		`CREATE TABLE "Users" ("Id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT, "Name" TEXT NOT NULL)`,
		`CREATE TABLE "Orders" ("Id" INTEGER NOT NULL PRIMARY KEY, "UserId" INTEGER NOT NULL, CONSTRAINT "FK_Orders_UserId_Users_Id" FOREIGN KEY ("UserId") REFERENCES "Users" ("Id"))`,
		"-- sqlite does not support altering columns: altering column Users.Name",
		`INSERT INTO "Users" ("Name") VALUES ('alice')`,
	}
	require.NoError(t, database.RunStatements(context.Background(), db, statements, true, database.NullLogger{}))

	var count int
	require.NoError(t, db.DB().QueryRow(`SELECT COUNT(*) FROM "Users"`).Scan(&count))
	assert.Equal(t, 1, count)

	// foreign keys are enforced
	err = database.RunStatements(context.Background(), db, []string{
		`INSERT INTO "Orders" ("Id", "UserId") VALUES (1, 42)`,
	}, true, database.NullLogger{})
	assert.Error(t, err)
}
