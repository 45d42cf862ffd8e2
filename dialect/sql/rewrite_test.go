package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteUpdate(t *testing.T) {
	users := NewTable("users", &Column{Name: "id"}, &Column{Name: "data"})

	t.Run("plain values pass through", func(t *testing.T) {
		u := Update(users).Set("id", 1).Set("data", map[string]any{"k": "v"})
		out := RewriteUpdate(u)
		assert.False(t, out.pathRewritten)
		assert.Equal(t, []string{"id", "data"}, out.values.Keys())
	})

	t.Run("unmodified document is the identity transform", func(t *testing.T) {
		doc, err := NewTrackedDocument(map[string]any{"a": 1})
		require.NoError(t, err)
		u := Update(users).Set("data", doc)
		out := RewriteUpdate(u)
		assert.False(t, out.pathRewritten)
		v, ok := out.values.Get("data")
		require.True(t, ok)
		assert.Same(t, doc, v)
	})

	t.Run("changed and deleted keys expand to paths", func(t *testing.T) {
		doc, err := NewTrackedDocument(map[string]any{"a": 1, "b": 2, "c": 3})
		require.NoError(t, err)
		doc.Set("a", 42)
		doc.Delete("b")
		u := Update(users).Set("data", doc)
		out := RewriteUpdate(u)
		assert.True(t, out.pathRewritten)
		assert.Equal(t, []string{"data['a']", "data['b']"}, out.values.Keys())
		a, _ := out.values.Get("data['a']")
		assert.Equal(t, 42, a)
		b, _ := out.values.Get("data['b']")
		assert.Nil(t, b)
		// The unchanged key produces no entry.
		assert.False(t, out.values.Has("data['c']"))
	})

	t.Run("documents in multi-row sets rewrite independently", func(t *testing.T) {
		d1, err := NewTrackedDocument(map[string]any{"x": 1})
		require.NoError(t, err)
		d1.Set("x", 2)
		d2, err := NewTrackedDocument(map[string]any{"y": 1})
		require.NoError(t, err)
		u := Update(users).Values(
			NewParams().Set("data", d1),
			NewParams().Set("data", d2),
		)
		out := RewriteUpdate(u)
		assert.True(t, out.pathRewritten)
		assert.Equal(t, []string{"data['x']"}, out.rows[0].Keys())
		assert.Equal(t, []string{"data"}, out.rows[1].Keys())
	})

	t.Run("input statement is not mutated", func(t *testing.T) {
		doc, err := NewTrackedDocument(map[string]any{"a": 1})
		require.NoError(t, err)
		doc.Set("a", 2)
		u := Update(users).Set("data", doc)
		_ = RewriteUpdate(u)
		assert.Equal(t, []string{"data"}, u.values.Keys())
		assert.False(t, u.pathRewritten)
	})
}
