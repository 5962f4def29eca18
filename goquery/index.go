// Package goquery reads dump file links out of mirror index pages.
package goquery

import (
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/wikitree"
)

// Ensure IndexParser implements wikitree.IndexParser at compile time.
var _ wikitree.IndexParser = (*IndexParser)(nil)

// dumpSuffixes are the file extensions of XML dumps.
var dumpSuffixes = []string{".xml", ".xml.bz2"}

// IndexParser finds dump files in the HTML index of a dump run. It reads
// both the run status pages and the plain directory listings of mirrors.
type IndexParser struct{}

// NewIndexParser creates a new IndexParser.
func NewIndexParser() *IndexParser {
	return &IndexParser{}
}

// ParseIndex returns the XML dump files linked from the page, resolved
// against base, in document order and without duplicates.
func (p *IndexParser) ParseIndex(r io.Reader, base *url.URL) ([]*wikitree.DumpFile, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, wikitree.Errorf(wikitree.EINVALID, "failed to parse dump index: %v", err)
	}

	seen := make(map[string]bool)
	files := []*wikitree.DumpFile{}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}

		u := base.ResolveReference(ref)
		if u.Scheme != "http" && u.Scheme != "https" {
			return
		}
		u.Fragment = ""

		name := path.Base(u.Path)
		if !isDumpFile(name) || seen[u.String()] {
			return
		}
		seen[u.String()] = true

		files = append(files, &wikitree.DumpFile{Name: name, URL: u.String()})
	})

	return files, nil
}

func isDumpFile(name string) bool {
	for _, suffix := range dumpSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
