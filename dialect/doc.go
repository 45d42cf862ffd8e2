// Package dialect provides the database abstraction consumed by the
// CrateDB adapter.
//
// It defines the interfaces and the dialect name constant used for
// database operations; the concrete implementation over database/sql
// lives in dialect/sql.
//
// # Driver Interface
//
// The package defines the Driver interface for database operations:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// # Transaction Interface
//
// The Tx interface extends ExecQuerier with transaction methods:
//
//	type Tx interface {
//	    ExecQuerier
//	    Commit() error
//	    Rollback() error
//	}
//
// # Usage
//
// Opening a connection (CrateDB speaks the PostgreSQL wire protocol):
//
//	import "github.com/syssam/crate/dialect/sql"
//
//	drv, err := sql.Open("postgres://crate@localhost:5432/doc?sslmode=disable")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// # Sub-packages
//
//   - dialect/sql: statement descriptors, the SQL compiler, and the driver
//     implementation
//   - dialect/sql/schema: column type mapping and CREATE TABLE rendering
package dialect
