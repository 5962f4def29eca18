package goquery_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/fwojciec/wikitree"
	"github.com/fwojciec/wikitree/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseURL(t *testing.T, s string) *url.URL {
	t.Helper()

	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestIndexParser_ParseIndex(t *testing.T) {
	t.Parallel()

	t.Run("reads a run status page", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<ul>
	<li class="done"><span class="updates">2024-01-02</span>
		<span class="status">done</span> <span class="title">Articles, templates, media/file descriptions.</span>
		<ul>
			<li class="file"><a href="/frwiktionary/20240101/frwiktionary-20240101-pages-articles.xml.bz2">frwiktionary-20240101-pages-articles.xml.bz2</a> 812.3 MB</li>
			<li class="file"><a href="/frwiktionary/20240101/frwiktionary-20240101-pages-articles-multistream-index.txt.bz2">index</a> 12 MB</li>
		</ul>
	</li>
	<li class="done">
		<ul>
			<li class="file"><a href="/frwiktionary/20240101/frwiktionary-20240101-pages-meta-current.xml.bz2">frwiktionary-20240101-pages-meta-current.xml.bz2</a></li>
		</ul>
	</li>
</ul>
<a href="../">All runs</a>
</body>
</html>`

		files, err := goquery.NewIndexParser().ParseIndex(strings.NewReader(html),
			mustParseURL(t, "https://dumps.wikimedia.org/frwiktionary/20240101/"))

		require.NoError(t, err)
		assert.Equal(t, []*wikitree.DumpFile{
			{
				Name: "frwiktionary-20240101-pages-articles.xml.bz2",
				URL:  "https://dumps.wikimedia.org/frwiktionary/20240101/frwiktionary-20240101-pages-articles.xml.bz2",
			},
			{
				Name: "frwiktionary-20240101-pages-meta-current.xml.bz2",
				URL:  "https://dumps.wikimedia.org/frwiktionary/20240101/frwiktionary-20240101-pages-meta-current.xml.bz2",
			},
		}, files)
	})

	t.Run("reads a directory listing", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Index of /frwiktionary/latest/</title></head><body>
<h1>Index of /frwiktionary/latest/</h1><hr><pre><a href="../">../</a>
<a href="frwiktionary-latest-abstract.xml.gz">frwiktionary-latest-abstract.xml.gz</a>   02-Jan-2024 10:00  40M
<a href="frwiktionary-latest-pages-articles.xml.bz2">frwiktionary-latest-pages-articles.xml.bz2</a>   02-Jan-2024 10:00  812M
<a href="frwiktionary-latest-pages-articles.xml.bz2-rss.xml">frwiktionary-latest-pages-articles.xml.bz2-rss.xml</a>   02-Jan-2024 10:00  1K
</pre><hr></body></html>`

		files, err := goquery.NewIndexParser().ParseIndex(strings.NewReader(html),
			mustParseURL(t, "https://dumps.wikimedia.org/frwiktionary/latest/"))

		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, "frwiktionary-latest-pages-articles.xml.bz2", files[0].Name)
		assert.Equal(t, "https://dumps.wikimedia.org/frwiktionary/latest/frwiktionary-latest-pages-articles.xml.bz2", files[0].URL)
		assert.Equal(t, "frwiktionary-latest-pages-articles.xml.bz2-rss.xml", files[1].Name)
	})

	t.Run("deduplicates links", func(t *testing.T) {
		t.Parallel()

		html := `<a href="a.xml">a</a><a href="a.xml#top">again</a><a href="mailto:x@y.z">mail</a>`

		files, err := goquery.NewIndexParser().ParseIndex(strings.NewReader(html),
			mustParseURL(t, "https://mirror.example/w/"))

		require.NoError(t, err)
		assert.Equal(t, []*wikitree.DumpFile{{Name: "a.xml", URL: "https://mirror.example/w/a.xml"}}, files)
	})

	t.Run("returns empty slice when nothing matches", func(t *testing.T) {
		t.Parallel()

		files, err := goquery.NewIndexParser().ParseIndex(strings.NewReader("<p>no dumps</p>"),
			mustParseURL(t, "https://mirror.example/"))

		require.NoError(t, err)
		assert.NotNil(t, files)
		assert.Empty(t, files)
	})
}
