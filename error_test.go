package wikitree_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/wikitree"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := wikitree.Errorf(wikitree.ENOTFOUND, "page %q not found", "test")

	assert.Equal(t, wikitree.ENOTFOUND, wikitree.ErrorCode(err))
	assert.Equal(t, "page \"test\" not found", wikitree.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, wikitree.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, wikitree.ErrorMessage(nil))
}

func TestErrorCode_ParseError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("page: %w", wikitree.NewParseError(wikitree.KindUnbalancedEquals, wikitree.ContextPath{"P"}, "== A ="))

	assert.Equal(t, wikitree.EINVALID, wikitree.ErrorCode(err))
	assert.Equal(t, "unbalanced_equals", wikitree.ErrorMessage(err))
	assert.True(t, wikitree.IsParseError(err))
}

func TestErrorCode_UnknownError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, wikitree.EINTERNAL, wikitree.ErrorCode(err))
	assert.Equal(t, "Internal error.", wikitree.ErrorMessage(err))
	assert.False(t, wikitree.IsFatal(err), "only application EINTERNAL errors are fatal")
}

func TestIsFatal(t *testing.T) {
	t.Parallel()

	assert.True(t, wikitree.IsFatal(wikitree.Errorf(wikitree.EINTERNAL, "broken")))
	assert.False(t, wikitree.IsFatal(wikitree.Errorf(wikitree.ESTRATEGY, "selector")))
	assert.False(t, wikitree.IsFatal(&wikitree.ParseError{Kind: wikitree.KindIndexOutOfRange}))
	assert.False(t, wikitree.IsFatal(nil))
}

func TestNewParseError(t *testing.T) {
	t.Parallel()

	err := wikitree.NewParseError(wikitree.KindExpectedBracketedExpression, wikitree.ContextPath{"Page", "Section"}, "line one\nline two")

	assert.Equal(t, wikitree.KindExpectedBracketedExpression, err.Kind)
	assert.Equal(t, "Page/Section", err.Localization)
	assert.Equal(t, `line one\nline two`, err.Expression)
}

func TestStreamError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("unexpected EOF")
	err := &wikitree.StreamError{Offset: 42, Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "offset 42")
}
