package wikitree

import (
	"errors"
	"fmt"
	"strings"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
	ESTRATEGY = "strategy"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("wikitree error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Parse errors report EINVALID. Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	var pe *ParseError
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	} else if errors.As(err, &pe) {
		return EINVALID
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	var pe *ParseError
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	} else if errors.As(err, &pe) {
		return string(pe.Kind)
	}
	return "Internal error."
}

// IsFatal reports whether err signals a broken invariant that must stop the
// whole run rather than a single page.
func IsFatal(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == EINTERNAL
}

// ErrorKind tags a page-level parse failure.
type ErrorKind string

// Parse error kinds.
const (
	KindUnbalancedEquals            ErrorKind = "unbalanced_equals"
	KindExpectedBracketedExpression ErrorKind = "expected_bracketed_expression"
	KindIndexOutOfRange             ErrorKind = "index_out_of_range"
)

// ParseError is a recoverable error in the input markup. It is localized by
// the rendered context path and carries the offending expression on a
// single line.
type ParseError struct {
	Kind         ErrorKind
	Localization string
	Expression   string
}

// NewParseError returns a ParseError localized at path. Newlines in expr are
// escaped so the error fits on one log row.
func NewParseError(kind ErrorKind, path ContextPath, expr string) *ParseError {
	return &ParseError{
		Kind:         kind,
		Localization: path.String(),
		Expression:   EscapeNewlines(expr),
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %q: %s", e.Kind, e.Localization, e.Expression)
}

// IsParseError reports whether err is, or wraps, a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// EscapeNewlines replaces each newline with the two characters `\n`.
func EscapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}

// StreamError reports malformed XML framing in a dump. The reader that
// returned it may be able to resume at the next page.
type StreamError struct {
	Offset int64
	Err    error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	return fmt.Sprintf("stream error at offset %d: %v", e.Offset, e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *StreamError) Unwrap() error {
	return e.Err
}
