package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderIdent(t *testing.T) {
	b := &Builder{}
	b.Ident("users").WriteString(".").Ident("select from")
	assert.Equal(t, `users."select from"`, b.String())

	b = &Builder{}
	b.Ident(`we"ird`)
	assert.Equal(t, `"we""ird"`, b.String())
}

func TestBuilderArgs(t *testing.T) {
	b := &Builder{}
	b.WriteString("x IN ").Wrap(func(b *Builder) {
		b.Arg(1).Comma().Arg(2)
	})
	query, args := b.Query()
	assert.Equal(t, "x IN (?, ?)", query)
	assert.Equal(t, []any{1, 2}, args)
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name     string
		p        *Predicate
		wantText string
		wantArgs []any
	}{
		{"eq", EQ("id", 1), "id = ?", []any{1}},
		{"neq", NEQ("id", 1), "id <> ?", []any{1}},
		{"range", And(GTE("n", 1), LT("n", 10)), "n >= ? AND n < ?", []any{1, 10}},
		{"or", Or(EQ("a", 1), EQ("b", 2)), "(a = ?) OR (b = ?)", []any{1, 2}},
		{"not", Not(IsNull("x")), "NOT (x IS NULL)", nil},
		{"in", In("id", 1, 2, 3), "id IN (?, ?, ?)", []any{1, 2, 3}},
		{"not null", NotNull("x"), "x IS NOT NULL", nil},
		{"raw", ExprP("data['k'] = ?", "v"), "data['k'] = ?", []any{"v"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, args := tt.p.Query()
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
