package sql

import (
	"strings"

	"github.com/syssam/crate"
)

// assignment is one resolved parameter of a compiled statement: a target
// name and the value, expression or default bound to it.
type assignment struct {
	// name is the rendered target: a column name, a qualified
	// "table.column" name, or a subscript path such as "data['x']".
	name string
	// column is the resolved column, nil for path targets.
	column *Column
	// key is the parameter key the assignment was resolved from, empty
	// for default-derived assignments.
	key         string
	value       any
	expr        *RawExpr
	fromDefault bool
	// defaultSrc is the default the entry was derived from, re-evaluated
	// for the later rows of a batch.
	defaultSrc any
	path       bool
}

// insertPlan is the resolver output for an INSERT statement.
type insertPlan struct {
	columns   []string
	rows      [][]assignment
	selectFor []string
	defaults  bool
	prefetch  []string
	postfetch []string
}

// updatePlan is the resolver output for an UPDATE statement.
type updatePlan struct {
	rows      [][]assignment
	prefetch  []string
	postfetch []string
}

// resolveValue unwraps parameter values: tracked documents bind their full
// current document, raw expressions are rendered inline.
func resolveValue(v any) (any, *RawExpr) {
	switch v := v.(type) {
	case *TrackedDocument:
		return v.Value(), nil
	case RawExpr:
		return nil, &v
	case *RawExpr:
		return nil, v
	default:
		return v, nil
	}
}

// evalDefault evaluates a column default. Function defaults are invoked
// once per row so generated values differ across a batch.
func evalDefault(d any) any {
	if fn, ok := d.(func() any); ok {
		return fn()
	}
	return d
}

// resolveInsert computes the column list and per-row assignments of an
// INSERT statement. Columns follow table declaration order; client
// defaults fill unmentioned columns and are reported as prefetch, server
// defaults are omitted and reported as postfetch.
func resolveInsert(i *InsertBuilder, caps Capabilities, mode Mode) (*insertPlan, error) {
	plan := &insertPlan{}
	switch {
	case i.sel != nil:
		cols := i.columns
		if len(cols) == 0 {
			for _, c := range i.table.columns {
				cols = append(cols, c.Name)
			}
		}
		plan.selectFor = cols
		return plan, nil
	case i.defaults:
		if mode == Legacy {
			return nil, crate.NewVersionGatedError(
				"INSERT without values",
				insertSelectWithoutParenthesesMinVersion.String(),
			)
		}
		if !caps.DefaultValues {
			if caps.BatchedExecute {
				return defaultTupleFallback(i.table), nil
			}
			return nil, crate.NewUnsupportedFeatureError("INSERT without values")
		}
		plan.defaults = true
		return plan, nil
	case i.values.Len() == 0 && len(i.rows) == 0:
		if caps.BatchedExecute && len(i.columns) == 0 {
			return defaultTupleFallback(i.table), nil
		}
		// No parameter source at all. Every column must resolve from a
		// default; anything else is a missing required value.
		row := make([]assignment, 0, len(i.table.columns))
		for _, c := range i.table.columns {
			switch {
			case c.Default != nil:
				row = append(row, assignment{
					name: c.Name, column: c,
					value: evalDefault(c.Default), fromDefault: true, defaultSrc: c.Default,
				})
				plan.columns = append(plan.columns, c.Name)
				plan.prefetch = append(plan.prefetch, c.Name)
			case c.ServerDefault:
				plan.postfetch = append(plan.postfetch, c.Name)
			default:
				return nil, crate.NewMissingRequiredValueError(c.Name)
			}
		}
		plan.rows = [][]assignment{row}
		return plan, nil
	}

	first := i.values
	if first == nil {
		first = i.rows[0]
	}
	if len(i.rows) > 1 {
		if mode == Legacy {
			return nil, crate.NewVersionGatedError(
				"multi-row INSERT",
				insertSelectWithoutParenthesesMinVersion.String(),
			)
		}
		if !caps.MultiRowValues {
			return nil, crate.NewUnsupportedFeatureError("multi-row INSERT")
		}
	}

	template, err := resolveRow(i.table, first, nil, false)
	if err != nil {
		return nil, err
	}
	for _, c := range i.table.columns {
		if hasAssignment(template, c.Name) {
			continue
		}
		switch {
		case c.Default != nil:
			template = append(template, assignment{
				name: c.Name, column: c,
				value: evalDefault(c.Default), fromDefault: true, defaultSrc: c.Default,
			})
			plan.prefetch = append(plan.prefetch, c.Name)
		case c.ServerDefault:
			plan.postfetch = append(plan.postfetch, c.Name)
		}
	}
	// Declared column keys with no bound value and no default are
	// required values the caller failed to supply.
	for _, name := range i.columns {
		if hasAssignment(template, name) || contains(plan.postfetch, name) {
			continue
		}
		if i.table.Column(name) == nil {
			return nil, crate.NewUnconsumedColumnsError([]string{name})
		}
		return nil, crate.NewMissingRequiredValueError(name)
	}
	// A parameter source that resolved to nothing degrades to the same
	// shapes as an absent source; a bare VALUES () is never emitted.
	if len(template) == 0 {
		switch {
		case caps.BatchedExecute:
			return defaultTupleFallback(i.table), nil
		case mode == Legacy:
			return nil, crate.NewVersionGatedError(
				"INSERT without values",
				insertSelectWithoutParenthesesMinVersion.String(),
			)
		case !caps.DefaultValues:
			return nil, crate.NewUnsupportedFeatureError("INSERT without values")
		}
		plan.defaults = true
		return plan, nil
	}
	template = sortByTable(i.table, template)
	for _, a := range template {
		plan.columns = append(plan.columns, a.name)
	}
	plan.rows = append(plan.rows, template)

	// Remaining rows fill the template: a row value when present, a
	// re-evaluated default for default-derived entries, and the first
	// row's value otherwise.
	for _, row := range i.rows[min(1, len(i.rows)):] {
		expanded, err := expandRow(template, row)
		if err != nil {
			return nil, err
		}
		plan.rows = append(plan.rows, expanded)
	}
	return plan, nil
}

// resolveUpdate computes per-row SET assignments of an UPDATE statement.
// Resolved columns come first in table order, then OnUpdate defaults for
// unmentioned columns, then subscript path assignments in parameter order.
func resolveUpdate(u *UpdateBuilder) (*updatePlan, error) {
	plan := &updatePlan{}
	first := u.params()
	if first == nil {
		first = NewParams()
	}
	template, err := resolveRow(u.table, first, u.from, true)
	if err != nil {
		return nil, err
	}
	for _, c := range u.table.columns {
		if hasAssignment(template, c.Name) {
			continue
		}
		switch {
		case c.OnUpdate != nil:
			template = append(template, assignment{
				name: c.Name, column: c,
				value: evalDefault(c.OnUpdate), fromDefault: true, defaultSrc: c.OnUpdate,
			})
			plan.prefetch = append(plan.prefetch, c.Name)
		case c.ServerOnUpdate:
			plan.postfetch = append(plan.postfetch, c.Name)
		}
	}
	// Declared column keys with no bound value and no update default are
	// required values the caller failed to supply. Subscript path keys
	// are satisfied by their path assignments.
	for _, name := range u.columns {
		if strings.Contains(name, "[") || hasAssignment(template, name) || contains(plan.postfetch, name) {
			continue
		}
		if c, _ := matchColumn(u.table, u.from, name); c == nil {
			return nil, crate.NewUnconsumedColumnsError([]string{name})
		}
		return nil, crate.NewMissingRequiredValueError(name)
	}
	template = sortUpdate(u.table, u.from, template)
	plan.rows = append(plan.rows, template)
	if u.values == nil {
		for _, row := range u.rows[min(1, len(u.rows)):] {
			expanded, err := expandRow(template, row)
			if err != nil {
				return nil, err
			}
			plan.rows = append(plan.rows, expanded)
		}
	}
	return plan, nil
}

// resolveRow resolves one parameter set against the statement tables.
// Subscript keys become path assignments when paths is set; any other key
// that matches no column is an unconsumed column error.
func resolveRow(table *Table, p *Params, extra []*Table, paths bool) ([]assignment, error) {
	var out []assignment
	var unconsumed []string
	for _, key := range p.Keys() {
		raw, _ := p.Get(key)
		val, expr := resolveValue(raw)
		switch c, name := matchColumn(table, extra, key); {
		case c != nil:
			out = append(out, assignment{name: name, column: c, key: key, value: val, expr: expr})
		case paths && strings.Contains(key, "["):
			out = append(out, assignment{name: key, key: key, value: val, expr: expr, path: true})
		default:
			unconsumed = append(unconsumed, key)
		}
	}
	if len(unconsumed) > 0 {
		return nil, crate.NewUnconsumedColumnsError(unconsumed)
	}
	return out, nil
}

// matchColumn resolves a parameter key to a column of the primary or an
// extra table. Qualified "table.column" keys must name their table.
func matchColumn(table *Table, extra []*Table, key string) (*Column, string) {
	if name, ok := strings.CutPrefix(key, table.name+"."); ok {
		if c := table.Column(name); c != nil {
			return c, name
		}
		return nil, ""
	}
	for _, t := range extra {
		if name, ok := strings.CutPrefix(key, t.name+"."); ok {
			if c := t.Column(name); c != nil {
				return c, t.name + "." + name
			}
			return nil, ""
		}
	}
	if strings.Contains(key, "[") {
		return nil, ""
	}
	if c := table.Column(key); c != nil {
		return c, key
	}
	return nil, ""
}

// expandRow fills the template with one additional parameter set.
func expandRow(template []assignment, p *Params) ([]assignment, error) {
	var unconsumed []string
	for _, key := range p.Keys() {
		found := false
		for _, a := range template {
			if a.key == key {
				found = true
				break
			}
		}
		if !found {
			unconsumed = append(unconsumed, key)
		}
	}
	if len(unconsumed) > 0 {
		return nil, crate.NewUnconsumedColumnsError(unconsumed)
	}
	out := make([]assignment, len(template))
	for i, a := range template {
		b := a
		if a.key != "" && p.Has(a.key) {
			raw, _ := p.Get(a.key)
			b.value, b.expr = resolveValue(raw)
		} else if a.fromDefault {
			b.value = evalDefault(a.defaultSrc)
		}
		out[i] = b
	}
	return out, nil
}

// defaultTupleFallback represents an insert with no values as a one-column
// tuple binding the DEFAULT keyword, the shape the bulk endpoint accepts.
func defaultTupleFallback(t *Table) *insertPlan {
	c := t.columns[0]
	return &insertPlan{
		columns: []string{c.Name},
		rows: [][]assignment{{{
			name: c.Name, column: c, expr: &RawExpr{S: "DEFAULT"},
		}}},
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func hasAssignment(as []assignment, name string) bool {
	for _, a := range as {
		if a.name == name || a.column != nil && a.column.Name == name {
			return true
		}
	}
	return false
}

// sortByTable orders assignments by table column declaration order.
func sortByTable(table *Table, as []assignment) []assignment {
	out := make([]assignment, 0, len(as))
	for _, c := range table.columns {
		for _, a := range as {
			if a.column == c {
				out = append(out, a)
			}
		}
	}
	for _, a := range as {
		if a.column == nil || table.Column(a.column.Name) != a.column {
			out = append(out, a)
		}
	}
	return out
}

// sortUpdate orders update assignments: primary table columns in
// declaration order, extra table columns in table order, then path
// assignments in their original parameter order.
func sortUpdate(table *Table, extra []*Table, as []assignment) []assignment {
	out := make([]assignment, 0, len(as))
	for _, c := range table.columns {
		for _, a := range as {
			if a.column == c {
				out = append(out, a)
			}
		}
	}
	for _, t := range extra {
		for _, c := range t.columns {
			for _, a := range as {
				if a.column == c {
					out = append(out, a)
				}
			}
		}
	}
	for _, a := range as {
		if a.path {
			out = append(out, a)
		}
	}
	return out
}
