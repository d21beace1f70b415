package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
)

// NewStubDB returns a database handle backed by a no-op driver. Transactions
// begin, commit and roll back without a server, so services that pass *sql.Tx
// to mocked repositories can be tested in isolation. commitErr, when set, is
// returned by every Commit call.
func NewStubDB(commitErr error) *sql.DB {
	return sql.OpenDB(stubConnector{commitErr: commitErr})
}

type stubConnector struct {
	commitErr error
}

func (c stubConnector) Connect(ctx context.Context) (driver.Conn, error) {
	return stubConn{commitErr: c.commitErr}, nil
}

func (c stubConnector) Driver() driver.Driver { return stubDriver{} }

type stubDriver struct{}

func (stubDriver) Open(name string) (driver.Conn, error) {
	return stubConn{}, nil
}

type stubConn struct {
	commitErr error
}

func (c stubConn) Prepare(query string) (driver.Stmt, error) {
	return nil, driver.ErrSkip
}

func (c stubConn) Close() error { return nil }

func (c stubConn) Begin() (driver.Tx, error) {
	return stubTx{commitErr: c.commitErr}, nil
}

type stubTx struct {
	commitErr error
}

func (tx stubTx) Commit() error   { return tx.commitErr }
func (tx stubTx) Rollback() error { return nil }
