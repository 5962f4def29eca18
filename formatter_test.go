package wikitree_test

import (
	"testing"

	"github.com/fwojciec/wikitree"
	"github.com/stretchr/testify/assert"
)

func TestFormatErrorRow(t *testing.T) {
	t.Parallel()

	t.Run("formats kind, localization and expression", func(t *testing.T) {
		t.Parallel()

		e := &wikitree.ParseError{
			Kind:         wikitree.KindUnbalancedEquals,
			Localization: "Paris/History",
			Expression:   "== Early history =",
		}

		assert.Equal(t, "unbalanced_equals\tParis/History\t== Early history =\n", wikitree.FormatErrorRow(e))
	})

	t.Run("escapes newlines in expression", func(t *testing.T) {
		t.Parallel()

		e := &wikitree.ParseError{
			Kind:         wikitree.KindExpectedBracketedExpression,
			Localization: "Paris",
			Expression:   "a\nb",
		}

		assert.Equal(t, "expected_bracketed_expression\tParis\ta\\nb\n", wikitree.FormatErrorRow(e))
	})

	t.Run("header has three columns", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "error\tlocalization\texpression\n", wikitree.ErrorHeader)
	})
}
