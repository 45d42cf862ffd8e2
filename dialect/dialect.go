package dialect

import (
	"context"
	"log/slog"
)

// Crate is the dialect name used throughout the adapter. Table hints and
// CREATE TABLE options are namespaced with this name.
const Crate = "crate"

// Wildcard matches any dialect in hint declarations.
const Wildcard = "*"

// ExecQuerier wraps the two standard database operations.
type ExecQuerier interface {
	// Exec executes a query that does not return records. For example, in
	// SQL, INSERT or UPDATE. It scans the result into the pointer v for
	// supported types.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows, typically a SELECT.
	// It scans the result into the pointer v.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all database operations.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps transaction behavior on top of ExecQuerier.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}

// DebugDriver is a driver that logs all driver operations.
type DebugDriver struct {
	Driver              // underlying driver.
	log    *slog.Logger // log used for logging.
}

// Debug gets a driver and returns a new debugged driver logging with
// slog.Default.
func Debug(d Driver) Driver {
	return &DebugDriver{d, slog.Default()}
}

// DebugWithLogger gets a driver and a logger, and returns a new debugged
// driver.
func DebugWithLogger(d Driver, log *slog.Logger) Driver {
	return &DebugDriver{d, log}
}

// Exec logs its params and calls the underlying driver Exec method.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.log.Log(ctx, slog.LevelDebug, "driver.Exec", "query", query, "args", args)
	return d.Driver.Exec(ctx, query, args, v)
}

// Query logs its params and calls the underlying driver Query method.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	d.log.Log(ctx, slog.LevelDebug, "driver.Query", "query", query, "args", args)
	return d.Driver.Query(ctx, query, args, v)
}

// Tx adds a log-id for the transaction and calls the underlying driver
// Tx command.
func (d *DebugDriver) Tx(ctx context.Context) (Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	d.log.Log(ctx, slog.LevelDebug, "driver.Tx started")
	return &DebugTx{tx, d.log, ctx}, nil
}

// DebugTx is a transaction implementation that logs all transaction operations.
type DebugTx struct {
	Tx                  // underlying transaction.
	log    *slog.Logger // log used for logging.
	ctx    context.Context
}

// Exec logs its params and calls the underlying transaction Exec method.
func (d *DebugTx) Exec(ctx context.Context, query string, args, v any) error {
	d.log.Log(ctx, slog.LevelDebug, "tx.Exec", "query", query, "args", args)
	return d.Tx.Exec(ctx, query, args, v)
}

// Query logs its params and calls the underlying transaction Query method.
func (d *DebugTx) Query(ctx context.Context, query string, args, v any) error {
	d.log.Log(ctx, slog.LevelDebug, "tx.Query", "query", query, "args", args)
	return d.Tx.Query(ctx, query, args, v)
}

// Commit logs this step and calls the underlying transaction Commit method.
func (d *DebugTx) Commit() error {
	d.log.Log(d.ctx, slog.LevelDebug, "tx.Commit")
	return d.Tx.Commit()
}

// Rollback logs this step and calls the underlying transaction Rollback method.
func (d *DebugTx) Rollback() error {
	d.log.Log(d.ctx, slog.LevelDebug, "tx.Rollback")
	return d.Tx.Rollback()
}
