package wikitree_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/wikitree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionTree(t *testing.T) {
	t.Parallel()

	t.Run("keeps insertion order", func(t *testing.T) {
		t.Parallel()

		tree := wikitree.NewSectionTree()
		tree.SetContent("content", "intro")
		tree.SetChild("Zeta", wikitree.NewSectionTree())
		tree.SetChild("Alpha", wikitree.NewSectionTree())

		assert.Equal(t, []string{"content", "Zeta", "Alpha"}, tree.Keys())
		assert.Equal(t, 3, tree.Len())
	})

	t.Run("replacing a key keeps its position", func(t *testing.T) {
		t.Parallel()

		tree := wikitree.NewSectionTree()
		tree.SetChild("A", wikitree.NewSectionTree())
		tree.SetChild("B", wikitree.NewSectionTree())
		tree.SetContent("A", "replaced")

		assert.Equal(t, []string{"A", "B"}, tree.Keys())
		v, ok := tree.Content("A")
		require.True(t, ok)
		assert.Equal(t, "replaced", v)
		_, ok = tree.Child("A")
		assert.False(t, ok)
	})

	t.Run("zero value is usable", func(t *testing.T) {
		t.Parallel()

		var tree wikitree.SectionTree
		tree.SetContent("content", "x")

		assert.Equal(t, []string{"content"}, tree.Keys())
	})

	t.Run("marshals keys in order without escaping HTML", func(t *testing.T) {
		t.Parallel()

		child := wikitree.NewSectionTree()
		child.SetContent("content", []string{"<ref>", "é"})

		tree := wikitree.NewSectionTree()
		tree.SetContent("content", "a & b")
		tree.SetChild("B", child)
		tree.SetChild("A", wikitree.NewSectionTree())

		data, err := json.Marshal(tree)
		require.NoError(t, err)

		// json.Marshal re-escapes HTML in Marshaler output, so check order
		// and structure through the direct encoding instead.
		raw, err := tree.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, `{"content":"a & b","B":{"content":["<ref>","é"]},"A":{}}`, string(raw))
		assert.JSONEq(t, string(raw), string(data))
	})

	t.Run("round-trips through generic JSON", func(t *testing.T) {
		t.Parallel()

		leaf := wikitree.NewSectionTree()
		leaf.SetContent("content", []string{"x", "y"})
		tree := wikitree.NewSectionTree()
		tree.SetContent("content", "intro\n")
		tree.SetChild("Leaf", leaf)

		raw, err := tree.MarshalJSON()
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(raw, &decoded))

		assert.Equal(t, tree.Map(), decoded)
	})
}

func TestIsEmptyContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{name: "nil", value: nil, want: true},
		{name: "empty string", value: "", want: true},
		{name: "string", value: "x", want: false},
		{name: "empty string slice", value: []string{}, want: true},
		{name: "nil string slice", value: []string(nil), want: true},
		{name: "string slice", value: []string{""}, want: false},
		{name: "empty map", value: map[string]int{}, want: true},
		{name: "number", value: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, wikitree.IsEmptyContent(tt.value))
		})
	}
}

func TestContextPath(t *testing.T) {
	t.Parallel()

	t.Run("renders slash-joined", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Paris/History/Middle Ages", wikitree.ContextPath{"Paris", "History", "Middle Ages"}.String())
		assert.Empty(t, wikitree.ContextPath(nil).String())
	})

	t.Run("push does not alias the parent", func(t *testing.T) {
		t.Parallel()

		parent := make(wikitree.ContextPath, 1, 8)
		parent[0] = "root"

		a := parent.Push("a")
		b := parent.Push("b")

		assert.Equal(t, wikitree.ContextPath{"root", "a"}, a)
		assert.Equal(t, wikitree.ContextPath{"root", "b"}, b)
		assert.Equal(t, wikitree.ContextPath{"root"}, parent)
	})
}
