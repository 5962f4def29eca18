// Package html removes inline HTML from wikitext.
package html

import (
	"strings"

	"github.com/fwojciec/wikitree"
	"golang.org/x/net/html"
)

// Stripper removes HTML comments and tags from wikitext while leaving the
// surrounding text byte for byte. Elements listed in Drop are removed
// together with their content; names are lower case.
//
// A Stripper is safe for concurrent use once configured.
type Stripper struct {
	Drop []string
}

// NewStripper returns a Stripper that drops <ref> footnotes.
func NewStripper() *Stripper {
	return &Stripper{Drop: []string{"ref"}}
}

// Strip returns text without its HTML markup.
func (s *Stripper) Strip(text string) string {
	if !strings.ContainsRune(text, '<') {
		return text
	}

	var buf strings.Builder
	buf.Grow(len(text))

	z := html.NewTokenizer(strings.NewReader(text))
	depth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF: a string reader fails in no other way.
			return buf.String()
		case html.TextToken:
			if depth == 0 {
				buf.Write(z.Raw())
			}
		case html.StartTagToken:
			if s.drops(z) {
				depth++
			}
		case html.EndTagToken:
			if depth > 0 && s.drops(z) {
				depth--
			}
		}
	}
}

func (s *Stripper) drops(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	for _, d := range s.Drop {
		if string(name) == d {
			return true
		}
	}
	return false
}

// Wrap returns a ContentExtractor that strips markup before handing the
// content to next. A nil next keeps the stripped content as is.
func (s *Stripper) Wrap(next wikitree.ContentExtractor) wikitree.ContentExtractor {
	if next == nil {
		next = wikitree.IdentityContent
	}
	return wikitree.ContentExtractorFunc(func(content string, path wikitree.ContextPath) (any, error) {
		return next.ExtractContent(s.Strip(content), path)
	})
}
