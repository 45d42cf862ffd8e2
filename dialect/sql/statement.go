package sql

import (
	"github.com/google/uuid"

	"github.com/syssam/crate/dialect"
)

// Table describes a compilation target: its name and column metadata.
// Tables are write-once; the compiler only reads them.
type Table struct {
	name    string
	columns []*Column
}

// NewTable returns a table descriptor with the given columns, in order.
func NewTable(name string, columns ...*Column) *Table {
	return &Table{name: name, columns: columns}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns the table columns in declaration order.
func (t *Table) Columns() []*Column { return t.columns }

// Column returns the named column, or nil if the table has no such column.
func (t *Table) Column(name string) *Column {
	for _, c := range t.columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Column holds the per-column metadata the parameter resolver consults.
type Column struct {
	// Name is the column name.
	Name string

	// Default is the client-computed insert default. It is either a value
	// or a func() any evaluated once per resolved row. Columns resolved
	// from their Default are reported as prefetch columns.
	Default any

	// OnUpdate is the client-computed update default, with the same value
	// semantics as Default.
	OnUpdate any

	// ServerDefault marks a column whose default is computed by the
	// server. Such columns are omitted from the statement and reported as
	// postfetch columns, to be read back after execution.
	ServerDefault bool

	// ServerOnUpdate marks a column the server recomputes on every
	// update. Such columns are omitted from the SET list and reported as
	// postfetch columns.
	ServerOnUpdate bool
}

// UUIDDefault is a column default generating a random UUID string per row.
//
//	&sql.Column{Name: "id", Default: sql.UUIDDefault}
func UUIDDefault() any {
	return uuid.NewString()
}

// hintKey identifies a statement hint by target table and dialect name.
type hintKey struct {
	table   string
	dialect string
}

// selectSource is the SELECT body of an INSERT ... SELECT statement.
type selectSource struct {
	query string
	args  []any
}

// RawExpr is a SQL fragment used verbatim as a bound value expression, for
// example Expr("qty + ?", 1).
type RawExpr struct {
	S    string
	Args []any
}

// Expr returns a raw value expression with its arguments.
func Expr(s string, args ...any) RawExpr {
	return RawExpr{S: s, Args: args}
}

// InsertBuilder describes one INSERT statement. Exactly one of the
// parameter sources — single mapping (Set), multi-row sets (Values),
// source select (FromSelect), or an intentionally empty insert
// (DefaultValues) — may be populated; the compiler rejects statements
// violating this.
type InsertBuilder struct {
	table     *Table
	columns   []string
	values    *Params
	rows      []*Params
	sel       *selectSource
	defaults  bool
	returning []string
	prefixes  []string
	hints     map[hintKey]string
}

// Insert returns an INSERT statement descriptor for the given table.
func Insert(t *Table) *InsertBuilder {
	return &InsertBuilder{table: t}
}

// Table returns the statement's target table.
func (i *InsertBuilder) Table() *Table { return i.table }

// Columns declares the statement's column keys.
func (i *InsertBuilder) Columns(cols ...string) *InsertBuilder {
	i.columns = append(i.columns, cols...)
	return i
}

// Set binds v to the column key k in the single parameter mapping.
func (i *InsertBuilder) Set(k string, v any) *InsertBuilder {
	if i.values == nil {
		i.values = NewParams()
	}
	i.values.Set(k, v)
	return i
}

// Values appends multi-row parameter sets. All rows must share the first
// row's key set.
func (i *InsertBuilder) Values(rows ...*Params) *InsertBuilder {
	i.rows = append(i.rows, rows...)
	return i
}

// FromSelect sets a SELECT body, turning the statement into an
// INSERT ... SELECT. The query must carry its own `?` placeholders.
func (i *InsertBuilder) FromSelect(query string, args ...any) *InsertBuilder {
	i.sel = &selectSource{query: query, args: args}
	return i
}

// DefaultValues marks the statement as an intentionally empty insert,
// compiled to INSERT ... DEFAULT VALUES when the dialect supports it.
func (i *InsertBuilder) DefaultValues() *InsertBuilder {
	i.defaults = true
	return i
}

// Returning sets the RETURNING column list.
func (i *InsertBuilder) Returning(cols ...string) *InsertBuilder {
	i.returning = append(i.returning, cols...)
	return i
}

// Prefix adds prefixes rendered between INSERT and INTO.
func (i *InsertBuilder) Prefix(ps ...string) *InsertBuilder {
	i.prefixes = append(i.prefixes, ps...)
	return i
}

// Hint attaches hint text to the statement for the given table and dialect
// name. The dialect.Wildcard name matches any dialect.
func (i *InsertBuilder) Hint(table, dialectName, text string) *InsertBuilder {
	if i.hints == nil {
		i.hints = make(map[hintKey]string)
	}
	i.hints[hintKey{table: table, dialect: dialectName}] = text
	return i
}

// UpdateBuilder describes one UPDATE statement.
type UpdateBuilder struct {
	table     *Table
	columns   []string
	values    *Params
	rows      []*Params
	where     *Predicate
	from      []*Table
	limit     int
	returning []string
	prefixes  []string
	hints     map[hintKey]string
	with      string
	withArgs  []any

	// pathRewritten is set by RewriteUpdate when document parameters were
	// expanded into path assignments; it forces the custom compilation
	// path even when no top-level parameters remain.
	pathRewritten bool
}

// Update returns an UPDATE statement descriptor for the given table.
func Update(t *Table) *UpdateBuilder {
	return &UpdateBuilder{table: t}
}

// Table returns the statement's target table.
func (u *UpdateBuilder) Table() *Table { return u.table }

// Columns declares the statement's column keys.
func (u *UpdateBuilder) Columns(cols ...string) *UpdateBuilder {
	u.columns = append(u.columns, cols...)
	return u
}

// Set binds v to the column key k in the single parameter mapping.
func (u *UpdateBuilder) Set(k string, v any) *UpdateBuilder {
	if u.values == nil {
		u.values = NewParams()
	}
	u.values.Set(k, v)
	return u
}

// Values appends multi-row parameter sets for batched updates.
func (u *UpdateBuilder) Values(rows ...*Params) *UpdateBuilder {
	u.rows = append(u.rows, rows...)
	return u
}

// Where sets the WHERE predicate.
func (u *UpdateBuilder) Where(p *Predicate) *UpdateBuilder {
	if u.where == nil {
		u.where = p
	} else {
		u.where = And(u.where, p)
	}
	return u
}

// From adds extra source tables for a multi-table update.
func (u *UpdateBuilder) From(ts ...*Table) *UpdateBuilder {
	u.from = append(u.from, ts...)
	return u
}

// Limit sets the LIMIT clause.
func (u *UpdateBuilder) Limit(n int) *UpdateBuilder {
	u.limit = n
	return u
}

// Returning sets the RETURNING column list.
func (u *UpdateBuilder) Returning(cols ...string) *UpdateBuilder {
	u.returning = append(u.returning, cols...)
	return u
}

// Prefix adds prefixes rendered after the UPDATE keyword.
func (u *UpdateBuilder) Prefix(ps ...string) *UpdateBuilder {
	u.prefixes = append(u.prefixes, ps...)
	return u
}

// Hint attaches hint text to the statement for the given table and dialect
// name.
func (u *UpdateBuilder) Hint(table, dialectName, text string) *UpdateBuilder {
	if u.hints == nil {
		u.hints = make(map[hintKey]string)
	}
	u.hints[hintKey{table: table, dialect: dialectName}] = text
	return u
}

// With sets a CTE prefix rendered before the UPDATE keyword. The clause
// must carry its own `?` placeholders.
func (u *UpdateBuilder) With(clause string, args ...any) *UpdateBuilder {
	u.with = clause
	u.withArgs = args
	return u
}

// params returns the statement's effective single parameter mapping: the
// single mapping if set, otherwise the first multi-row set.
func (u *UpdateBuilder) params() *Params {
	if u.values != nil {
		return u.values
	}
	if len(u.rows) > 0 {
		return u.rows[0]
	}
	return nil
}

// clone returns a shallow copy of the statement; parameter sources are the
// only fields the rewrite stage replaces.
func (u *UpdateBuilder) clone() *UpdateBuilder {
	c := *u
	return &c
}

// hintText returns the hint attached to the given table under the active
// dialect or the wildcard dialect.
func hintText(hints map[hintKey]string, table string) (string, bool) {
	if h, ok := hints[hintKey{table: table, dialect: dialect.Crate}]; ok {
		return h, true
	}
	if h, ok := hints[hintKey{table: table, dialect: dialect.Wildcard}]; ok {
		return h, true
	}
	return "", false
}
