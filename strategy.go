package wikitree

// TitleNormalizer maps a raw heading title to the key used in the tree.
// Implementations must return exactly one value. Returning a *ParseError
// makes the builder fall back to the raw title.
type TitleNormalizer interface {
	NormalizeTitle(title string, path ContextPath) ([]string, error)
}

// TitleNormalizerFunc adapts a function to TitleNormalizer.
type TitleNormalizerFunc func(title string, path ContextPath) ([]string, error)

// NormalizeTitle calls f(title, path).
func (f TitleNormalizerFunc) NormalizeTitle(title string, path ContextPath) ([]string, error) {
	return f(title, path)
}

// ContentExtractor turns the text of a section, minus its subsections, into
// the value stored under the content key.
type ContentExtractor interface {
	ExtractContent(content string, path ContextPath) (any, error)
}

// ContentExtractorFunc adapts a function to ContentExtractor.
type ContentExtractorFunc func(content string, path ContextPath) (any, error)

// ExtractContent calls f(content, path).
func (f ContentExtractorFunc) ExtractContent(content string, path ContextPath) (any, error) {
	return f(content, path)
}

// SpanNormalizer turns one bracketed span into zero or more values.
type SpanNormalizer interface {
	NormalizeSpan(span string, path ContextPath) ([]string, error)
}

// SpanNormalizerFunc adapts a function to SpanNormalizer.
type SpanNormalizerFunc func(span string, path ContextPath) ([]string, error)

// NormalizeSpan calls f(span, path).
func (f SpanNormalizerFunc) NormalizeSpan(span string, path ContextPath) ([]string, error) {
	return f(span, path)
}

// PostProcessor rewrites a value selected from a span. A nil PostProcessor
// leaves values unchanged.
type PostProcessor func(value string, path ContextPath) string

// Default strategies.
var (
	IdentityTitle TitleNormalizer = TitleNormalizerFunc(func(title string, _ ContextPath) ([]string, error) {
		return []string{title}, nil
	})

	IdentityContent ContentExtractor = ContentExtractorFunc(func(content string, _ ContextPath) (any, error) {
		return content, nil
	})

	IdentitySpan SpanNormalizer = SpanNormalizerFunc(func(span string, _ ContextPath) ([]string, error) {
		return []string{span}, nil
	})
)
