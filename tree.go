package wikitree

import (
	"fmt"
	"regexp"
	"strings"
)

// Default keys used by Builder.
const (
	DefaultContentKey = "content"
	DefaultUnnamedKey = "unnamed"
)

// MaxHeadingLevel is the longest run of `=` recognized as a heading marker.
const MaxHeadingLevel = 7

// Option configures a Builder.
type Option func(*Builder)

// WithTitleNormalizer sets the strategy used to turn heading titles into keys.
func WithTitleNormalizer(n TitleNormalizer) Option {
	return func(b *Builder) {
		b.titles = n
	}
}

// WithContentExtractor sets the strategy applied to section content.
func WithContentExtractor(x ContentExtractor) Option {
	return func(b *Builder) {
		b.content = x
	}
}

// WithKeepEmptyContent stores content values even when they are empty.
func WithKeepEmptyContent(keep bool) Option {
	return func(b *Builder) {
		b.keepEmpty = keep
	}
}

// WithContentKey sets the key under which section content is stored.
// An empty key falls back to the default key.
func WithContentKey(key string) Option {
	return func(b *Builder) {
		b.contentKey = key
	}
}

// WithDefaultKey sets the key used for untitled sections and, when the
// content key is empty, for content.
func WithDefaultKey(key string) Option {
	return func(b *Builder) {
		b.defaultKey = key
	}
}

// Builder converts the wikitext of a page into a SectionTree.
//
// A Builder holds no per-call state and may be shared between goroutines
// as long as its strategies allow it.
type Builder struct {
	titles     TitleNormalizer
	content    ContentExtractor
	keepEmpty  bool
	contentKey string
	defaultKey string

	headingRe *regexp.Regexp
}

// NewBuilder returns a Builder with identity strategies, the "content"
// content key and the "unnamed" default key.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		titles:     IdentityTitle,
		content:    IdentityContent,
		contentKey: DefaultContentKey,
		defaultKey: DefaultUnnamedKey,
		// Title must neither start nor end with '=' so that both marker
		// runs are captured whole.
		headingRe: regexp.MustCompile(fmt.Sprintf(`^\s*(={1,%d})([^=](?:.*[^=])?)(={1,%d})\s*$`, MaxHeadingLevel, MaxHeadingLevel)),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.titles == nil {
		b.titles = IdentityTitle
	}
	if b.content == nil {
		b.content = IdentityContent
	}
	return b
}

// heading is a validated heading line.
type heading struct {
	level int
	title string
}

// Build converts text into a tree. path is the context of the page,
// usually just its title. Parse errors are returned as *ParseError;
// a title normalizer that breaks its contract yields an EINTERNAL error.
func (b *Builder) Build(text string, path ContextPath) (*SectionTree, error) {
	return b.build(text, path, 1)
}

func (b *Builder) build(text string, path ContextPath, depth int) (*SectionTree, error) {
	lines := splitLines(text)

	headings := make([]*heading, len(lines))
	first := -1
	for i, line := range lines {
		h, err := b.parseHeading(line, path)
		if err != nil {
			return nil, err
		}
		headings[i] = h
		if h != nil && h.level > depth && first < 0 {
			first = i
		}
	}

	tree := NewSectionTree()

	if first < 0 {
		if err := b.setContent(tree, text, path); err != nil {
			return nil, err
		}
		return tree, nil
	}

	if lead := strings.Join(lines[:first], ""); lead != "" {
		if err := b.setContent(tree, lead, path); err != nil {
			return nil, err
		}
	}

	var (
		key  string
		body strings.Builder
	)
	flush := func() error {
		if key == "" {
			key = b.defaultKey
		}
		child, err := b.build(body.String(), path.Push(key), depth+1)
		if err != nil {
			return err
		}
		tree.SetChild(key, child)
		body.Reset()
		return nil
	}

	open := false
	for i := first; i < len(lines); i++ {
		h := headings[i]
		if h == nil || h.level != depth+1 {
			// Text, deeper headings and shallower headings all belong to
			// the section being accumulated.
			open = true
			body.WriteString(lines[i])
			continue
		}

		next, err := b.normalizeTitle(h.title, path)
		if err != nil {
			return nil, err
		}
		if open {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		key = next
		open = true
	}
	if open {
		if err := flush(); err != nil {
			return nil, err
		}
	}

	return tree, nil
}

// parseHeading returns nil for lines that are not heading-shaped.
func (b *Builder) parseHeading(line string, path ContextPath) (*heading, error) {
	trimmed := strings.TrimRight(line, "\r\n")
	if !strings.Contains(trimmed, "=") {
		return nil, nil
	}
	m := b.headingRe.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, nil
	}
	if len(m[1]) != len(m[3]) {
		return nil, NewParseError(KindUnbalancedEquals, path, trimmed)
	}
	return &heading{level: len(m[1]), title: strings.TrimSpace(m[2])}, nil
}

func (b *Builder) normalizeTitle(title string, path ContextPath) (string, error) {
	values, err := b.titles.NormalizeTitle(title, path)
	if IsParseError(err) {
		return title, nil
	} else if err != nil {
		return "", err
	}
	if len(values) != 1 {
		return "", Errorf(EINTERNAL, "title normalizer returned %d values for %q at %q, want 1", len(values), title, path.String())
	}
	return values[0], nil
}

func (b *Builder) setContent(tree *SectionTree, text string, path ContextPath) error {
	v, err := b.content.ExtractContent(text, path)
	if err != nil {
		return err
	}
	if IsEmptyContent(v) && !b.keepEmpty {
		return nil
	}
	key := b.contentKey
	if key == "" {
		key = b.defaultKey
	}
	tree.SetContent(key, v)
	return nil
}

// splitLines splits s after each newline, keeping the terminators.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
