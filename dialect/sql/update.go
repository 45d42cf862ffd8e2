package sql

import (
	"strconv"

	"github.com/syssam/crate"
)

// renderUpdate writes the UPDATE statement text from the resolved plan.
// The single SET renderer covers both plain and path-rewritten statements;
// subscript targets are written verbatim while column targets go through
// identifier quoting.
func (c *Compiler) renderUpdate(u *UpdateBuilder, plan *updatePlan) (*Compiled, error) {
	row0 := plan.rows[0]
	if len(row0) == 0 {
		return nil, crate.NewConfigurationError("update has no values")
	}
	b := &Builder{}
	if u.with != "" {
		b.WriteString(u.with).WriteString(" ")
		b.AppendArgs(u.withArgs...)
	}
	b.WriteString("UPDATE ")
	for _, p := range u.prefixes {
		b.WriteString(p).WriteString(" ")
	}
	c.writeTable(b, u.table.name)
	if h, ok := hintText(u.hints, u.table.name); ok {
		b.WriteString(" ").WriteString(h)
	}
	b.WriteString(" SET ")
	qualify := c.caps.QualifiedSetColumns && len(u.from) > 0
	for i, a := range row0 {
		if i > 0 {
			b.Comma()
		}
		writeSetTarget(b, u.table, a, qualify)
		b.WriteString(" = ")
		writeAssignmentValue(b, a)
	}
	if c.caps.ReturningPrecedes {
		writeReturning(b, u.returning)
	}
	// The primary table is excluded from the FROM list to avoid a
	// duplicate table reference.
	if extra := extraFrom(u); len(extra) > 0 {
		b.WriteString(" FROM ")
		for i, t := range extra {
			if i > 0 {
				b.Comma()
			}
			c.writeTable(b, t.name)
		}
	}
	var whereArgs []any
	if u.where != nil {
		b.WriteString(" WHERE ")
		before := len(b.args)
		u.where.compile(b)
		whereArgs = b.args[before:]
	}
	if u.limit > 0 {
		b.WriteString(" LIMIT ").WriteString(strconv.Itoa(u.limit))
	}
	if !c.caps.ReturningPrecedes {
		writeReturning(b, u.returning)
	}
	query, args := b.Query()
	out := &Compiled{
		Query:     query,
		Args:      args,
		Prefetch:  plan.prefetch,
		Postfetch: plan.postfetch,
		Returning: u.returning,
	}
	// Batched rows reuse the statement text with their own argument sets.
	for _, row := range plan.rows[1:] {
		batch := append([]any{}, u.withArgs...)
		for _, a := range row {
			if a.expr != nil {
				batch = append(batch, a.expr.Args...)
			} else {
				batch = append(batch, a.value)
			}
		}
		batch = append(batch, whereArgs...)
		out.BatchArgs = append(out.BatchArgs, batch)
	}
	return out, nil
}

// writeSetTarget writes the left side of a SET assignment. Path targets
// like data['x'] are written as-is; primary-table columns are qualified
// with the table name when a multi-table update requires it.
func writeSetTarget(b *Builder, table *Table, a assignment, qualify bool) {
	if a.path {
		b.WriteString(a.name)
		return
	}
	if qualify && a.column != nil && table.Column(a.column.Name) == a.column {
		b.Ident(table.name).WriteString(".")
	}
	b.Ident(a.name)
}

// extraFrom returns the from-tables minus any reference to the primary
// target.
func extraFrom(u *UpdateBuilder) []*Table {
	out := make([]*Table, 0, len(u.from))
	for _, t := range u.from {
		if t == u.table || t.name == u.table.name {
			continue
		}
		out = append(out, t)
	}
	return out
}
