package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync/atomic"
)

// txStats counts transaction outcomes on the stub driver so tests can
// assert that a failed flow rolled back and never committed.
type txStats struct {
	commits   atomic.Int64
	rollbacks atomic.Int64
}

// newStubDB opens a *sql.DB over a driver that only supports Begin, Commit
// and Rollback. Repositories are faked in these tests, so no statement ever
// reaches the driver; the services' transactional plumbing still runs for
// real.
func newStubDB(stats *txStats) *sql.DB {
	return sql.OpenDB(stubConnector{stats: stats})
}

type stubConnector struct {
	stats *txStats
}

func (c stubConnector) Connect(context.Context) (driver.Conn, error) {
	return &stubConn{stats: c.stats}, nil
}

func (c stubConnector) Driver() driver.Driver { return stubDriver{} }

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("stub driver must be opened via sql.OpenDB")
}

type stubConn struct {
	stats *txStats
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("stub driver does not execute statements")
}

func (c *stubConn) Close() error { return nil }

func (c *stubConn) Begin() (driver.Tx, error) {
	return stubTx{stats: c.stats}, nil
}

type stubTx struct {
	stats *txStats
}

func (t stubTx) Commit() error {
	if t.stats != nil {
		t.stats.commits.Add(1)
	}
	return nil
}

func (t stubTx) Rollback() error {
	if t.stats != nil {
		t.stats.rollbacks.Add(1)
	}
	return nil
}
