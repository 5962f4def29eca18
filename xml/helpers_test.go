package xml_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/beevik/etree"
	"github.com/fwojciec/wikitree"
	"github.com/stretchr/testify/require"
)

type fixturePage struct {
	title     string
	ns        string
	id        string
	revisions []string
}

// newDump renders pages as a MediaWiki export document.
func newDump(t *testing.T, pages ...fixturePage) string {
	t.Helper()

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("mediawiki")
	root.CreateAttr("xmlns", "http://www.mediawiki.org/xml/export-0.10/")
	root.CreateAttr("xml:lang", "fr")

	si := root.CreateElement("siteinfo")
	si.CreateElement("sitename").SetText("Wiktionnaire")
	si.CreateElement("dbname").SetText("frwiktionary")
	si.CreateElement("base").SetText("https://fr.wiktionary.org/wiki/Wiktionnaire:Page_d%E2%80%99accueil")
	si.CreateElement("generator").SetText("MediaWiki 1.42.0-wmf.5")
	nss := si.CreateElement("namespaces")
	for _, ns := range []wikitree.Namespace{{Key: "-2", Name: "Média"}, {Key: "0", Name: ""}, {Key: "100", Name: "Annexe"}} {
		el := nss.CreateElement("namespace")
		el.CreateAttr("key", ns.Key)
		el.CreateAttr("case", "case-sensitive")
		if ns.Name != "" {
			el.SetText(ns.Name)
		}
	}

	for i, p := range pages {
		pe := root.CreateElement("page")
		pe.CreateElement("title").SetText(p.title)
		pe.CreateElement("ns").SetText(p.ns)
		if p.id != "" {
			pe.CreateElement("id").SetText(p.id)
		}
		for j, text := range p.revisions {
			rev := pe.CreateElement("revision")
			rev.CreateElement("id").SetText(fmt.Sprintf("9%d%d", i, j))
			c := rev.CreateElement("contributor")
			c.CreateElement("username").SetText("Bot")
			c.CreateElement("id").SetText("42")
			rev.CreateElement("model").SetText("wikitext")
			txt := rev.CreateElement("text")
			txt.CreateAttr("bytes", "1")
			txt.CreateAttr("xml:space", "preserve")
			txt.SetText(text)
		}
	}

	s, err := doc.WriteToString()
	require.NoError(t, err)
	return s
}

// readAll drains r, collecting pages and stream errors.
func readAll(t *testing.T, r wikitree.PageSource) ([]*wikitree.Page, []*wikitree.StreamError) {
	t.Helper()

	var (
		pages   []*wikitree.Page
		streams []*wikitree.StreamError
	)
	for range 1000 {
		p, err := r.Next(context.Background())
		if err == io.EOF {
			return pages, streams
		}
		var se *wikitree.StreamError
		if errors.As(err, &se) {
			streams = append(streams, se)
			continue
		}
		require.NoError(t, err)
		pages = append(pages, p)
	}
	t.Fatal("reader did not reach EOF")
	return nil, nil
}
