package main_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/wikitree"
	main "github.com/fwojciec/wikitree/cmd/wikitree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// defaults returns a ParseCmd with the flag defaults.
func defaults() main.ParseCmd {
	return main.ParseCmd{
		Bra:        "{{",
		Ket:        "}}",
		ContentKey: "content",
		DefaultKey: "unnamed",
	}
}

func TestParseCmd_Builder(t *testing.T) {
	t.Parallel()

	page := wikitree.ContextPath{"chat"}
	text := "== {{S|nom|fr}} ==\n{{lien|félin|fr}} et {{lien|chat sauvage|fr}}<ref>source</ref>\n"

	t.Run("identity by default", func(t *testing.T) {
		t.Parallel()

		c := defaults()
		b, err := c.Builder()
		require.NoError(t, err)

		tree, err := b.Build(text, page)

		require.NoError(t, err)
		assert.Equal(t, []string{"{{S|nom|fr}}"}, tree.Keys())
	})

	t.Run("normalizes titles and extracts values", func(t *testing.T) {
		t.Parallel()

		c := defaults()
		c.Norm = "1"
		c.Template = "lien"
		c.Extract = "1"
		b, err := c.Builder()
		require.NoError(t, err)

		tree, err := b.Build(text, page)

		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"nom": map[string]any{"content": []any{"félin", "chat sauvage"}},
		}, tree.Map())
	})

	t.Run("template without selector keeps whole spans", func(t *testing.T) {
		t.Parallel()

		c := defaults()
		c.Template = "lien"
		b, err := c.Builder()
		require.NoError(t, err)

		tree, err := b.Build("{{lien|a|fr}} {{autre|b}}", page)

		require.NoError(t, err)
		v, ok := tree.Content("content")
		require.True(t, ok)
		assert.Equal(t, []string{"{{lien|a|fr}}"}, v)
	})

	t.Run("strips markup", func(t *testing.T) {
		t.Parallel()

		c := defaults()
		c.StripMarkup = true
		b, err := c.Builder()
		require.NoError(t, err)

		tree, err := b.Build("a<ref>b</ref><!-- c -->d", page)

		require.NoError(t, err)
		v, _ := tree.Content("content")
		assert.Equal(t, "ad", v)
	})

	t.Run("rejects a non-numeric title index", func(t *testing.T) {
		t.Parallel()

		c := defaults()
		c.Norm = "first"

		_, err := c.Builder()

		assert.Equal(t, wikitree.EINVALID, wikitree.ErrorCode(err))
	})

	t.Run("rejects an invalid attribute pattern", func(t *testing.T) {
		t.Parallel()

		c := defaults()
		c.Extract = "("

		_, err := c.Builder()

		assert.Error(t, err)
	})

	t.Run("rejects empty brackets", func(t *testing.T) {
		t.Parallel()

		c := defaults()
		c.Ket = ""

		_, err := c.Builder()

		assert.Equal(t, wikitree.EINVALID, wikitree.ErrorCode(err))
	})
}

func TestExpandDumps(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a.xml", "b.xml.bz2", "sub/c.xml.bz2"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, nil, 0644))
	}

	t.Run("keeps plain paths", func(t *testing.T) {
		t.Parallel()

		got, err := main.ExpandDumps([]string{"missing.xml", filepath.Join(dir, "a.xml")})

		require.NoError(t, err)
		assert.Equal(t, []string{"missing.xml", filepath.Join(dir, "a.xml")}, got)
	})

	t.Run("expands recursive patterns", func(t *testing.T) {
		t.Parallel()

		got, err := main.ExpandDumps([]string{filepath.Join(dir, "**", "*.bz2")})

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(dir, "b.xml.bz2"),
			filepath.Join(dir, "sub", "c.xml.bz2"),
		}, got)
	})

	t.Run("pattern without match", func(t *testing.T) {
		t.Parallel()

		_, err := main.ExpandDumps([]string{filepath.Join(dir, "*.json")})

		assert.Equal(t, wikitree.ENOTFOUND, wikitree.ErrorCode(err))
	})
}
