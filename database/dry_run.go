package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"sync"
)

// DryRunDatabase accepts every statement without reaching the wrapped
// database and remembers what it was asked to execute.
type DryRunDatabase struct {
	wrapped  Database
	dryRunDB *sql.DB
	conn     *dryRunConn
}

func NewDryRunDatabase(db Database) *DryRunDatabase {
	conn := &dryRunConn{}
	return &DryRunDatabase{
		wrapped:  db,
		dryRunDB: sql.OpenDB(&dryRunConnector{conn: conn}),
		conn:     conn,
	}
}

func (d *DryRunDatabase) DB() *sql.DB {
	return d.dryRunDB
}

// Statements returns every statement executed so far.
func (d *DryRunDatabase) Statements() []string {
	d.conn.mu.Lock()
	defer d.conn.mu.Unlock()
	return append([]string(nil), d.conn.executed...)
}

func (d *DryRunDatabase) Close() error {
	if err := d.dryRunDB.Close(); err != nil {
		return err
	}
	if d.wrapped == nil {
		return nil
	}
	return d.wrapped.Close()
}

type dryRunConnector struct {
	conn *dryRunConn
}

func (c *dryRunConnector) Connect(context.Context) (driver.Conn, error) {
	return c.conn, nil
}

func (c *dryRunConnector) Driver() driver.Driver {
	return dryRunDriver{conn: c.conn}
}

type dryRunDriver struct {
	conn *dryRunConn
}

func (d dryRunDriver) Open(string) (driver.Conn, error) {
	return d.conn, nil
}

type dryRunConn struct {
	mu       sync.Mutex
	executed []string
}

func (c *dryRunConn) Prepare(query string) (driver.Stmt, error) {
	return &dryRunStmt{conn: c, query: query}, nil
}

func (c *dryRunConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	c.executed = append(c.executed, query)
	c.mu.Unlock()
	return driver.ResultNoRows, nil
}

func (c *dryRunConn) Close() error {
	return nil
}

func (c *dryRunConn) Begin() (driver.Tx, error) {
	return dryRunTx{}, nil
}

type dryRunTx struct{}

func (dryRunTx) Commit() error   { return nil }
func (dryRunTx) Rollback() error { return nil }

type dryRunStmt struct {
	conn  *dryRunConn
	query string
}

func (s *dryRunStmt) Close() error {
	return nil
}

func (s *dryRunStmt) NumInput() int {
	return -1
}

func (s *dryRunStmt) Exec([]driver.Value) (driver.Result, error) {
	return s.conn.ExecContext(context.Background(), s.query, nil)
}

func (s *dryRunStmt) Query([]driver.Value) (driver.Rows, error) {
	return dryRunRows{}, nil
}

type dryRunRows struct{}

func (dryRunRows) Columns() []string         { return []string{} }
func (dryRunRows) Close() error              { return nil }
func (dryRunRows) Next([]driver.Value) error { return io.EOF }
