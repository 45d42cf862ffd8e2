package sql

// renderInsert writes the INSERT statement text from the resolved plan.
// In legacy mode the SELECT body of an INSERT ... SELECT is wrapped in
// parentheses, as servers before 1.0.1 require.
func (c *Compiler) renderInsert(i *InsertBuilder, plan *insertPlan) (*Compiled, error) {
	b := &Builder{}
	b.WriteString("INSERT ")
	for _, p := range i.prefixes {
		b.WriteString(p).WriteString(" ")
	}
	b.WriteString("INTO ")
	c.writeTable(b, i.table.name)
	if h, ok := hintText(i.hints, i.table.name); ok {
		b.WriteString(" ").WriteString(h)
	}
	switch {
	case plan.selectFor != nil:
		b.WriteString(" (").IdentComma(plan.selectFor...).WriteString(")")
		if c.caps.ReturningPrecedes {
			writeReturning(b, i.returning)
		}
		b.WriteString(" ")
		if c.mode == Legacy {
			b.WriteString("(").WriteString(i.sel.query).WriteString(")")
		} else {
			b.WriteString(i.sel.query)
		}
		b.AppendArgs(i.sel.args...)
	case plan.defaults:
		if c.caps.ReturningPrecedes {
			writeReturning(b, i.returning)
		}
		b.WriteString(" DEFAULT VALUES")
	default:
		b.WriteString(" (").IdentComma(plan.columns...).WriteString(")")
		if c.caps.ReturningPrecedes {
			writeReturning(b, i.returning)
		}
		b.WriteString(" VALUES ")
		for ri, row := range plan.rows {
			if ri > 0 {
				b.Comma()
			}
			b.WriteString("(")
			for ai, a := range row {
				if ai > 0 {
					b.Comma()
				}
				writeAssignmentValue(b, a)
			}
			b.WriteString(")")
		}
	}
	if !c.caps.ReturningPrecedes {
		writeReturning(b, i.returning)
	}
	query, args := b.Query()
	return &Compiled{
		Query:     query,
		Args:      args,
		Prefetch:  plan.prefetch,
		Postfetch: plan.postfetch,
		Returning: i.returning,
	}, nil
}

// writeTable writes a table name, qualified with the default schema when
// one is configured and the name itself is unqualified.
func (c *Compiler) writeTable(b *Builder, name string) {
	if c.caps.DefaultSchema != "" && !isQualified(name) {
		b.Ident(c.caps.DefaultSchema).WriteString(".")
	}
	b.Ident(name)
}

func isQualified(name string) bool {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return true
		}
	}
	return false
}

func writeAssignmentValue(b *Builder, a assignment) {
	if a.expr != nil {
		b.WriteString(a.expr.S)
		b.AppendArgs(a.expr.Args...)
		return
	}
	b.Arg(a.value)
}

func writeReturning(b *Builder, cols []string) {
	if len(cols) == 0 {
		return
	}
	b.WriteString(" RETURNING ").IdentComma(cols...)
}
