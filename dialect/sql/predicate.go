package sql

// Predicate represents a WHERE-clause fragment and the arguments bound to
// its placeholders.
type Predicate struct {
	fns []func(*Builder)
}

// P wraps a builder function as a predicate.
func P(fn func(*Builder)) *Predicate {
	return &Predicate{fns: []func(*Builder){fn}}
}

// ExprP wraps a raw SQL expression with its arguments as a predicate. The
// expression must carry its own `?` placeholders.
func ExprP(expr string, args ...any) *Predicate {
	return P(func(b *Builder) {
		b.WriteString(expr)
		b.AppendArgs(args...)
	})
}

// EQ returns a `column = value` predicate.
func EQ(col string, v any) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteString(" = ").Arg(v)
	})
}

// NEQ returns a `column <> value` predicate.
func NEQ(col string, v any) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteString(" <> ").Arg(v)
	})
}

// GT returns a `column > value` predicate.
func GT(col string, v any) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteString(" > ").Arg(v)
	})
}

// GTE returns a `column >= value` predicate.
func GTE(col string, v any) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteString(" >= ").Arg(v)
	})
}

// LT returns a `column < value` predicate.
func LT(col string, v any) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteString(" < ").Arg(v)
	})
}

// LTE returns a `column <= value` predicate.
func LTE(col string, v any) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteString(" <= ").Arg(v)
	})
}

// In returns a `column IN (...)` predicate.
func In(col string, vs ...any) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteString(" IN ")
		b.Wrap(func(b *Builder) {
			for i, v := range vs {
				if i > 0 {
					b.Comma()
				}
				b.Arg(v)
			}
		})
	})
}

// IsNull returns a `column IS NULL` predicate.
func IsNull(col string) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteString(" IS NULL")
	})
}

// NotNull returns a `column IS NOT NULL` predicate.
func NotNull(col string) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteString(" IS NOT NULL")
	})
}

// And joins the given predicates with AND.
func And(ps ...*Predicate) *Predicate {
	return P(func(b *Builder) {
		for i, p := range ps {
			if i > 0 {
				b.WriteString(" AND ")
			}
			p.compile(b)
		}
	})
}

// Or joins the given predicates with OR, wrapping each side in parentheses.
func Or(ps ...*Predicate) *Predicate {
	return P(func(b *Builder) {
		for i, p := range ps {
			if i > 0 {
				b.WriteString(" OR ")
			}
			b.Wrap(p.compile)
		}
	})
}

// Not negates the given predicate.
func Not(p *Predicate) *Predicate {
	return P(func(b *Builder) {
		b.WriteString("NOT ")
		b.Wrap(p.compile)
	})
}

// compile writes the predicate text and arguments into b.
func (p *Predicate) compile(b *Builder) {
	for _, fn := range p.fns {
		fn(b)
	}
}

// Query returns the predicate text and its bound arguments.
func (p *Predicate) Query() (string, []any) {
	b := &Builder{}
	p.compile(b)
	return b.Query()
}
