// Package sql provides the CrateDB statement descriptors, the SQL
// compiler, and the driver implementation of the dialect interfaces.
//
// # Statement Descriptors
//
// Statements are described with builders and compiled into SQL text:
//
//   - Builder: low-level SQL string builder with identifier quoting
//   - InsertBuilder: INSERT statement descriptor (single row, multi-row,
//     INSERT ... SELECT, or DEFAULT VALUES)
//   - UpdateBuilder: UPDATE statement descriptor with SET, FROM, WHERE,
//     LIMIT and RETURNING clauses
//
// # Compilation
//
// A Compiler is configured once from the server's Capabilities and can
// then be shared by any number of goroutines; every call compiles into
// its own working state:
//
//	caps := sql.DefaultCapabilities()
//	c := sql.NewCompiler(caps)
//
//	users := sql.NewTable("users", &sql.Column{Name: "id"}, &sql.Column{Name: "name"})
//	stmt := sql.Insert(users).Columns("id", "name").
//	    Set("id", 1).
//	    Set("name", "crate")
//	compiled, err := c.CompileInsert(stmt)
//	// compiled.Query: INSERT INTO users (id, name) VALUES (?, ?)
//	// compiled.Args:  [1 crate]
//
// # Partial Updates
//
// Document-typed columns use TrackedDocument values; RewriteUpdate turns
// whole-document parameters into per-path assignments:
//
//	doc, _ := sql.NewTrackedDocument(map[string]any{"a": 1, "b": 2})
//	doc.Set("a", 42)
//	doc.Delete("b")
//	stmt := sql.RewriteUpdate(sql.Update(tbl).Set("doc", doc))
//	// SET doc['a'] = ?, doc['b'] = ?  with args (42, NULL)
//
// # Driver
//
// The driver wraps database/sql; CrateDB speaks the PostgreSQL wire
// protocol, so connections are opened through the pq driver:
//
//	drv, err := sql.Open("postgres://crate@localhost:5432/doc?sslmode=disable")
package sql
