package wikitree

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrIndexOutOfRange is returned by positional selectors that address a
// segment the span does not have.
var ErrIndexOutOfRange = errors.New("index out of range")

// Selector picks values out of the segments of a bracketed span. The
// package provides two variants: positional selectors (Index, Slice,
// SliceFrom or any SelectorFunc) and attribute selectors (MatchAttribute).
type Selector interface {
	Select(segments []string, path ContextPath) ([]string, error)
}

// SelectorFunc adapts a function to Selector. Functions signal a segment
// index that does not exist by returning ErrIndexOutOfRange.
type SelectorFunc func(segments []string, path ContextPath) ([]string, error)

// Select calls f(segments, path).
func (f SelectorFunc) Select(segments []string, path ContextPath) ([]string, error) {
	return f(segments, path)
}

// Index selects the segment at i. Negative values count from the end.
func Index(i int) Selector {
	return SelectorFunc(func(segments []string, _ ContextPath) ([]string, error) {
		j := i
		if j < 0 {
			j += len(segments)
		}
		if j < 0 || j >= len(segments) {
			return nil, fmt.Errorf("segment %d of %d: %w", i, len(segments), ErrIndexOutOfRange)
		}
		return []string{segments[j]}, nil
	})
}

// Slice selects segments[lo:hi]. Negative bounds count from the end and
// out-of-range bounds are clamped, so Slice never fails.
func Slice(lo, hi int) Selector {
	return SelectorFunc(func(segments []string, _ ContextPath) ([]string, error) {
		return sliceSegments(segments, lo, hi), nil
	})
}

// SliceFrom selects segments[lo:].
func SliceFrom(lo int) Selector {
	return SelectorFunc(func(segments []string, _ ContextPath) ([]string, error) {
		return sliceSegments(segments, lo, len(segments)), nil
	})
}

func sliceSegments(segments []string, lo, hi int) []string {
	n := len(segments)
	lo, hi = clampBound(lo, n), clampBound(hi, n)
	if lo >= hi {
		return []string{}
	}
	out := make([]string, hi-lo)
	copy(out, segments[lo:hi])
	return out
}

func clampBound(i, n int) int {
	if i < 0 {
		i += n
	}
	return max(0, min(i, n))
}

// AttributeSelector selects the values of `name=value` segments whose name
// matches a pattern anchored at the start of the name.
type AttributeSelector struct {
	re *regexp.Regexp
}

// MatchAttribute compiles pattern into an AttributeSelector.
func MatchAttribute(pattern string) (*AttributeSelector, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid attribute pattern %q: %v", pattern, err)
	}
	return &AttributeSelector{re: re}, nil
}

// MustMatchAttribute is like MatchAttribute but panics on an invalid pattern.
func MustMatchAttribute(pattern string) *AttributeSelector {
	s, err := MatchAttribute(pattern)
	if err != nil {
		panic(err)
	}
	return s
}

// Select returns the right-hand side of every matching assignment.
func (s *AttributeSelector) Select(segments []string, _ ContextPath) ([]string, error) {
	var values []string
	for _, seg := range segments {
		name, value, ok := strings.Cut(seg, "=")
		if !ok {
			continue
		}
		if s.re.MatchString(name) {
			values = append(values, value)
		}
	}
	return values, nil
}

var indexExprRe = regexp.MustCompile(`^(-?\d+)(?::(-?\d*))?$`)

// ParseSelector interprets s as a positional selector when it has the form
// `i`, `i:j` or `i:`, and as an attribute pattern otherwise.
func ParseSelector(s string) (Selector, error) {
	m := indexExprRe.FindStringSubmatch(s)
	if m == nil {
		return MatchAttribute(s)
	}

	lo, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, Errorf(EINVALID, "invalid index %q", m[1])
	}
	if !strings.Contains(s, ":") {
		return Index(lo), nil
	}
	if m[2] == "" {
		return SliceFrom(lo), nil
	}
	hi, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, Errorf(EINVALID, "invalid index %q", m[2])
	}
	return Slice(lo, hi), nil
}
