package wikitree

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

// SegmentSeparator splits the interior of a bracketed span into segments.
const SegmentSeparator = "|"

// Brackets is an open/close marker pair delimiting a span.
type Brackets struct {
	Open  string
	Close string
}

// Common marker pairs.
var (
	TemplateBrackets = Brackets{Open: "{{", Close: "}}"}
	LinkBrackets     = Brackets{Open: "[[", Close: "]]"}
)

// Validate returns an error if either marker is empty.
func (b Brackets) Validate() error {
	if b.Open == "" || b.Close == "" {
		return Errorf(EINVALID, "brackets require both an open and a close marker")
	}
	return nil
}

// BracketEngine locates bracketed spans in text and extracts values from
// them. Spans are matched without nesting: the first character of the close
// marker ends the span's interior, so `{{a|{{b}}}}` matches as `{{a|{{b}}`.
//
// A BracketEngine is safe for concurrent use.
type BracketEngine struct {
	// Strict makes a positional selector that runs past the last segment
	// fail with ESTRATEGY instead of a recoverable index_out_of_range
	// ParseError.
	Strict bool

	mu       sync.Mutex
	patterns map[spanPattern]*regexp.Regexp
}

type spanPattern struct {
	name     string
	brackets Brackets
}

// NewBracketEngine returns an engine with the default span patterns compiled.
func NewBracketEngine() *BracketEngine {
	e := &BracketEngine{patterns: make(map[spanPattern]*regexp.Regexp)}
	e.pattern("", TemplateBrackets)
	e.pattern("", LinkBrackets)
	return e
}

// pattern returns the compiled regexp for spans named name, or any span
// when name is empty.
func (e *BracketEngine) pattern(name string, b Brackets) *regexp.Regexp {
	key := spanPattern{name: name, brackets: b}

	e.mu.Lock()
	defer e.mu.Unlock()
	if re, ok := e.patterns[key]; ok {
		return re
	}

	var sb strings.Builder
	sb.WriteString(regexp.QuoteMeta(b.Open))
	if name != "" {
		sb.WriteString(regexp.QuoteMeta(name + SegmentSeparator))
	}
	stop, _ := utf8.DecodeRuneInString(b.Close)
	sb.WriteString("[^" + regexp.QuoteMeta(string(stop)) + "]*")
	sb.WriteString(regexp.QuoteMeta(b.Close))

	re := regexp.MustCompile(sb.String())
	if e.patterns == nil {
		e.patterns = make(map[spanPattern]*regexp.Regexp)
	}
	e.patterns[key] = re
	return re
}

// FindAll normalizes every span in text whose first segment is name, or
// every span when name is empty, and concatenates the results in document
// order. When keepEmpty is false the first span that normalizes to nothing
// ends the extraction: later spans in text are not examined.
func (e *BracketEngine) FindAll(text string, path ContextPath, name string, brackets Brackets, normalizer SpanNormalizer, keepEmpty bool) ([]string, error) {
	if err := brackets.Validate(); err != nil {
		return nil, err
	}
	if normalizer == nil {
		normalizer = IdentitySpan
	}

	out := []string{}
	for _, span := range e.pattern(name, brackets).FindAllString(text, -1) {
		values, err := normalizer.NormalizeSpan(span, path)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 && !keepEmpty {
			break
		}
		out = append(out, values...)
	}
	return out, nil
}

// Segments finds the first span in expr, strips its markers and splits it
// into segments.
func (e *BracketEngine) Segments(expr string, path ContextPath, brackets Brackets) ([]string, error) {
	if err := brackets.Validate(); err != nil {
		return nil, err
	}

	span := e.pattern("", brackets).FindString(expr)
	if span == "" {
		return nil, NewParseError(KindExpectedBracketedExpression, path, expr)
	}
	inner := strings.TrimRight(strings.TrimLeft(span, brackets.Open), brackets.Close)
	return strings.Split(inner, SegmentSeparator), nil
}

// NormalizeSpan applies selector to the segments of the first span in expr
// and returns the post-processed values, deduplicated in first-seen order.
func (e *BracketEngine) NormalizeSpan(expr string, path ContextPath, selector Selector, post PostProcessor, brackets Brackets) ([]string, error) {
	segments, err := e.Segments(expr, path, brackets)
	if err != nil {
		return nil, err
	}

	values, err := selector.Select(segments, path)
	if errors.Is(err, ErrIndexOutOfRange) {
		joined := strings.Join(segments, SegmentSeparator)
		if e.Strict {
			return nil, Errorf(ESTRATEGY, "selector on %q at %q: %v", EscapeNewlines(joined), path.String(), err)
		}
		return nil, NewParseError(KindIndexOutOfRange, path, joined)
	} else if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if post != nil {
			v = post(v, path)
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// Normalizer binds selector, post and brackets into a SpanNormalizer.
func (e *BracketEngine) Normalizer(selector Selector, post PostProcessor, brackets Brackets) SpanNormalizer {
	return SpanNormalizerFunc(func(span string, path ContextPath) ([]string, error) {
		return e.NormalizeSpan(span, path, selector, post, brackets)
	})
}

// TitleNormalizer returns a TitleNormalizer for headings written as a
// bracketed span, e.g. `=== {{S|noun|en}} ===`. Headings without a span
// fail with a ParseError, which the builder answers with the raw title.
func (e *BracketEngine) TitleNormalizer(selector Selector, brackets Brackets) TitleNormalizer {
	return TitleNormalizerFunc(func(title string, path ContextPath) ([]string, error) {
		return e.NormalizeSpan(title, path, selector, nil, brackets)
	})
}

// ContentExtractor returns a ContentExtractor yielding the normalized values
// of the spans named name (any span when name is empty) as a []string.
func (e *BracketEngine) ContentExtractor(name string, brackets Brackets, normalizer SpanNormalizer, keepEmpty bool) ContentExtractor {
	return ContentExtractorFunc(func(content string, path ContextPath) (any, error) {
		return e.FindAll(content, path, name, brackets, normalizer, keepEmpty)
	})
}
