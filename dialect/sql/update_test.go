package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crate"
)

func TestCompileUpdate(t *testing.T) {
	users := NewTable("users", &Column{Name: "id"}, &Column{Name: "name"}, &Column{Name: "data"})
	c := NewCompiler(DefaultCapabilities())

	t.Run("simple set", func(t *testing.T) {
		out, err := c.CompileUpdate(Update(users).Set("name", "a").Where(EQ("id", 1)))
		require.NoError(t, err)
		assert.Equal(t, "UPDATE users SET name = ? WHERE id = ?", out.Query)
		assert.Equal(t, []any{"a", 1}, out.Args)
	})

	t.Run("set order follows table declaration", func(t *testing.T) {
		out, err := c.CompileUpdate(Update(users).Set("name", "a").Set("id", 2))
		require.NoError(t, err)
		assert.Equal(t, "UPDATE users SET id = ?, name = ?", out.Query)
		assert.Equal(t, []any{2, "a"}, out.Args)
	})

	t.Run("document rewrite produces path assignments", func(t *testing.T) {
		doc, err := NewTrackedDocument(map[string]any{"a": 1, "b": 2})
		require.NoError(t, err)
		doc.Set("a", 42)
		doc.Delete("b")
		u := RewriteUpdate(Update(users).Set("data", doc).Where(EQ("id", 7)))
		out, err := c.CompileUpdate(u)
		require.NoError(t, err)
		assert.Equal(t, "UPDATE users SET data['a'] = ?, data['b'] = ? WHERE id = ?", out.Query)
		assert.Equal(t, []any{42, nil, 7}, out.Args)
	})

	t.Run("paths follow plain assignments", func(t *testing.T) {
		doc, err := NewTrackedDocument(map[string]any{"a": 1})
		require.NoError(t, err)
		doc.Set("a", 2)
		u := RewriteUpdate(Update(users).Set("data", doc).Set("name", "n"))
		out, err := c.CompileUpdate(u)
		require.NoError(t, err)
		assert.Equal(t, "UPDATE users SET name = ?, data['a'] = ?", out.Query)
		assert.Equal(t, []any{"n", 2}, out.Args)
	})

	t.Run("unmodified document binds whole value", func(t *testing.T) {
		doc, err := NewTrackedDocument(map[string]any{"a": 1})
		require.NoError(t, err)
		u := RewriteUpdate(Update(users).Set("data", doc))
		out, err := c.CompileUpdate(u)
		require.NoError(t, err)
		assert.Equal(t, "UPDATE users SET data = ?", out.Query)
		require.Len(t, out.Args, 1)
		assert.Equal(t, map[string]any{"a": 1}, out.Args[0])
	})

	t.Run("limit and returning", func(t *testing.T) {
		out, err := c.CompileUpdate(
			Update(users).Set("name", "a").Where(GT("id", 10)).Limit(5).Returning("id", "name"),
		)
		require.NoError(t, err)
		assert.Equal(t, "UPDATE users SET name = ? WHERE id > ? LIMIT 5 RETURNING id, name", out.Query)
		assert.Equal(t, []string{"id", "name"}, out.Returning)
	})

	t.Run("cte prefix renders first", func(t *testing.T) {
		out, err := c.CompileUpdate(
			Update(users).
				With("WITH ids AS (SELECT id FROM staged WHERE batch = ?)", 3).
				Set("name", "a").
				Where(ExprP("id IN (SELECT id FROM ids)")),
		)
		require.NoError(t, err)
		assert.Equal(t,
			"WITH ids AS (SELECT id FROM staged WHERE batch = ?) UPDATE users SET name = ? WHERE id IN (SELECT id FROM ids)",
			out.Query,
		)
		assert.Equal(t, []any{3, "a"}, out.Args)
	})

	t.Run("onupdate default fills unmentioned column", func(t *testing.T) {
		tbl := NewTable("t",
			&Column{Name: "x"},
			&Column{Name: "rev", OnUpdate: func() any { return 9 }},
		)
		out, err := c.CompileUpdate(Update(tbl).Set("x", 1))
		require.NoError(t, err)
		assert.Equal(t, "UPDATE t SET x = ?, rev = ?", out.Query)
		assert.Equal(t, []any{1, 9}, out.Args)
		assert.Equal(t, []string{"rev"}, out.Prefetch)
	})

	t.Run("batched rows share the statement text", func(t *testing.T) {
		out, err := c.CompileUpdate(Update(users).
			Values(
				NewParams().Set("name", "a"),
				NewParams().Set("name", "b"),
			).
			Where(EQ("id", 1)))
		require.NoError(t, err)
		assert.Equal(t, "UPDATE users SET name = ? WHERE id = ?", out.Query)
		assert.Equal(t, []any{"a", 1}, out.Args)
		require.Len(t, out.BatchArgs, 1)
		assert.Equal(t, []any{"b", 1}, out.BatchArgs[0])
	})

	t.Run("no values", func(t *testing.T) {
		_, err := c.CompileUpdate(Update(users).Where(EQ("id", 1)))
		require.Error(t, err)
		assert.True(t, crate.IsConfigurationError(err))
	})

	t.Run("unconsumed parameter key", func(t *testing.T) {
		_, err := c.CompileUpdate(Update(users).Set("nope", 1))
		require.Error(t, err)
		assert.True(t, crate.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "unconsumed column names: nope")
	})

	t.Run("declared column without a value is required", func(t *testing.T) {
		_, err := c.CompileUpdate(Update(users).Columns("name").Set("id", 1))
		require.Error(t, err)
		assert.True(t, crate.IsMissingRequiredValue(err))
		assert.Contains(t, err.Error(), `missing required value for column "name"`)
	})

	t.Run("declared onupdate column is not required", func(t *testing.T) {
		tbl := NewTable("t",
			&Column{Name: "x"},
			&Column{Name: "rev", OnUpdate: 9},
		)
		out, err := c.CompileUpdate(Update(tbl).Columns("rev").Set("x", 1))
		require.NoError(t, err)
		assert.Equal(t, "UPDATE t SET x = ?, rev = ?", out.Query)
	})

	t.Run("declared unknown column is unconsumed", func(t *testing.T) {
		_, err := c.CompileUpdate(Update(users).Columns("nope").Set("id", 1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unconsumed column names: nope")
	})

	t.Run("declared path key needs no top-level value", func(t *testing.T) {
		out, err := c.CompileUpdate(Update(users).Columns("data['a']").Set("name", "n"))
		require.NoError(t, err)
		assert.Equal(t, "UPDATE users SET name = ?", out.Query)
	})

	t.Run("hint renders after the table name", func(t *testing.T) {
		out, err := c.CompileUpdate(
			Update(users).Hint("users", "*", "/* hot */").Set("name", "a"),
		)
		require.NoError(t, err)
		assert.Equal(t, "UPDATE users /* hot */ SET name = ?", out.Query)
	})

	t.Run("server onupdate column reports postfetch", func(t *testing.T) {
		tbl := NewTable("t",
			&Column{Name: "x"},
			&Column{Name: "updated_at", ServerOnUpdate: true},
		)
		out, err := c.CompileUpdate(Update(tbl).Columns("updated_at").Set("x", 1))
		require.NoError(t, err)
		assert.Equal(t, "UPDATE t SET x = ?", out.Query)
		assert.Equal(t, []string{"updated_at"}, out.Postfetch)
	})
}

func TestCompileUpdateMultiTable(t *testing.T) {
	orders := NewTable("orders", &Column{Name: "id"}, &Column{Name: "status"})
	audits := NewTable("audits", &Column{Name: "note"})

	t.Run("extra table columns resolve through qualified keys", func(t *testing.T) {
		c := NewCompiler(DefaultCapabilities())
		out, err := c.CompileUpdate(
			Update(orders).From(audits).
				Set("status", "done").
				Set("audits.note", "closed").
				Where(ExprP("orders.id = audits.order_id")),
		)
		require.NoError(t, err)
		assert.Equal(t,
			"UPDATE orders SET status = ?, audits.note = ? FROM audits WHERE orders.id = audits.order_id",
			out.Query,
		)
		assert.Equal(t, []any{"done", "closed"}, out.Args)
	})

	t.Run("qualified set columns", func(t *testing.T) {
		caps := DefaultCapabilities()
		caps.QualifiedSetColumns = true
		c := NewCompiler(caps)
		out, err := c.CompileUpdate(
			Update(orders).From(audits).Set("status", "done"),
		)
		require.NoError(t, err)
		assert.Equal(t, "UPDATE orders SET orders.status = ? FROM audits", out.Query)
	})

	t.Run("primary table is excluded from the from list", func(t *testing.T) {
		c := NewCompiler(DefaultCapabilities())
		out, err := c.CompileUpdate(
			Update(orders).From(orders, audits).Set("status", "done"),
		)
		require.NoError(t, err)
		assert.Equal(t, "UPDATE orders SET status = ? FROM audits", out.Query)
	})
}
