package sql

import (
	"strings"
)

// Builder is the low-level SQL text builder used by the compiler. It
// accumulates the query text and the arguments bound to its placeholders.
// The zero value is ready for use. A Builder is not safe for concurrent
// use; every compilation constructs its own.
type Builder struct {
	sb   strings.Builder
	args []any
}

// WriteString appends s to the query text.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// Ident appends the given identifier, quoting it with double quotes if it
// is not a plain identifier. Qualified names ("table.column") pass through
// unquoted.
func (b *Builder) Ident(s string) *Builder {
	if isValidIdentifier(s) {
		b.sb.WriteString(s)
		return b
	}
	b.sb.WriteByte('"')
	b.sb.WriteString(strings.ReplaceAll(s, `"`, `""`))
	b.sb.WriteByte('"')
	return b
}

// IdentComma appends the given identifiers separated by commas.
func (b *Builder) IdentComma(ss ...string) *Builder {
	for i, s := range ss {
		if i > 0 {
			b.Comma()
		}
		b.Ident(s)
	}
	return b
}

// Comma appends a comma separator to the query text.
func (b *Builder) Comma() *Builder {
	b.sb.WriteString(", ")
	return b
}

// Arg appends a `?` placeholder and binds v to it.
func (b *Builder) Arg(v any) *Builder {
	b.sb.WriteByte('?')
	b.args = append(b.args, v)
	return b
}

// AppendArgs binds additional arguments without writing placeholders.
// Used for raw fragments that carry their own placeholders.
func (b *Builder) AppendArgs(vs ...any) *Builder {
	b.args = append(b.args, vs...)
	return b
}

// Wrap writes the output of f wrapped in parentheses.
func (b *Builder) Wrap(f func(*Builder)) *Builder {
	b.sb.WriteByte('(')
	f(b)
	b.sb.WriteByte(')')
	return b
}

// Len returns the number of bytes written to the query text so far.
func (b *Builder) Len() int { return b.sb.Len() }

// String returns the query text accumulated so far.
func (b *Builder) String() string { return b.sb.String() }

// Query returns the query text and its bound arguments.
func (b *Builder) Query() (string, []any) {
	return b.sb.String(), b.args
}
