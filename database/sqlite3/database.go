package sqlite3

import (
	"database/sql"

	"github.com/sqldef/migrator/database"
	_ "modernc.org/sqlite"
)

type Sqlite3Database struct {
	config database.Config
	db     *sql.DB
}

// NewDatabase opens DbName as a file path. ":memory:" opens a private
// in-memory database, pinned to one connection so every statement sees it.
func NewDatabase(config database.Config) (database.Database, error) {
	db, err := sql.Open("sqlite", sqliteBuildDSN(config))
	if err != nil {
		return nil, err
	}
	if config.DbName == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	return &Sqlite3Database{
		db:     db,
		config: config,
	}, nil
}

func (d *Sqlite3Database) DB() *sql.DB {
	return d.db
}

func (d *Sqlite3Database) Close() error {
	return d.db.Close()
}

// Foreign keys are off by default in SQLite.
func sqliteBuildDSN(config database.Config) string {
	if config.DbName == ":memory:" {
		return ":memory:?_pragma=foreign_keys(1)"
	}
	return "file:" + config.DbName + "?_pragma=foreign_keys(1)"
}
