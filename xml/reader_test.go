package xml_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/fwojciec/wikitree"
	"github.com/fwojciec/wikitree/xml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageReader_ReadsPages(t *testing.T) {
	t.Parallel()

	dump := newDump(t,
		fixturePage{title: "chat", ns: "0", id: "1", revisions: []string{"== {{langue|fr}} ==\nmiaou\n"}},
		fixturePage{title: "Annexe:Chats", ns: "100", id: "2", revisions: []string{"liste"}},
	)

	pages, streams := readAll(t, xml.NewPageReader(strings.NewReader(dump)))

	assert.Empty(t, streams)
	assert.Equal(t, []*wikitree.Page{
		{ID: "1", Namespace: "0", Title: "chat", Text: "== {{langue|fr}} ==\nmiaou\n"},
		{ID: "2", Namespace: "100", Title: "Annexe:Chats", Text: "liste"},
	}, pages)
}

func TestPageReader_IgnoresRevisionAndContributorIDs(t *testing.T) {
	t.Parallel()

	dump := newDump(t,
		fixturePage{title: "A", ns: "0", id: "7", revisions: []string{"a"}},
		fixturePage{title: "B", ns: "0", revisions: []string{"b"}},
	)

	pages, _ := readAll(t, xml.NewPageReader(strings.NewReader(dump)))

	require.Len(t, pages, 2)
	assert.Equal(t, "7", pages[0].ID)
	assert.Empty(t, pages[1].ID, "id must not leak from the previous page or come from a revision")
}

func TestPageReader_OneRecordPerRevision(t *testing.T) {
	t.Parallel()

	dump := newDump(t, fixturePage{title: "A", ns: "0", id: "3", revisions: []string{"first", "second"}})

	pages, _ := readAll(t, xml.NewPageReader(strings.NewReader(dump)))

	require.Len(t, pages, 2)
	assert.Equal(t, "first", pages[0].Text)
	assert.Equal(t, "second", pages[1].Text)
	assert.Equal(t, "3", pages[1].ID)
	assert.Equal(t, "A", pages[1].Title)
}

func TestPageReader_DecodesEntities(t *testing.T) {
	t.Parallel()

	text := "<ref>Littré</ref> & \"quotes\"\n"
	dump := newDump(t, fixturePage{title: "R&D", ns: "0", id: "1", revisions: []string{text}})

	pages, _ := readAll(t, xml.NewPageReader(strings.NewReader(dump)))

	require.Len(t, pages, 1)
	assert.Equal(t, "R&D", pages[0].Title)
	assert.Equal(t, text, pages[0].Text)
}

func TestPageReader_ResumesAfterMalformedPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		corrupt func(string) string
	}{
		{
			name:    "mismatched end tag",
			corrupt: func(s string) string { return strings.Replace(s, "BROKEN</text>", "BROKEN</txet>", 1) },
		},
		{
			name:    "raw ampersand in title",
			corrupt: func(s string) string { return strings.Replace(s, "<title>B</title>", "<title>B & b</title>", 1) },
		},
		{
			name:    "unterminated tag",
			corrupt: func(s string) string { return strings.Replace(s, "<ns>5</ns>", "<ns 5</ns>", 1) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dump := tt.corrupt(newDump(t,
				fixturePage{title: "A", ns: "0", id: "1", revisions: []string{"a"}},
				fixturePage{title: "B", ns: "5", id: "2", revisions: []string{"BROKEN"}},
				fixturePage{title: "C", ns: "0", id: "3", revisions: []string{"c"}},
			))

			pages, streams := readAll(t, xml.NewPageReader(strings.NewReader(dump)))

			require.Len(t, pages, 2)
			assert.Equal(t, "A", pages[0].Title)
			assert.Equal(t, &wikitree.Page{ID: "3", Namespace: "0", Title: "C", Text: "c"}, pages[1])
			require.Len(t, streams, 1)
			assert.Positive(t, streams[0].Offset)
		})
	}
}

func TestPageReader_TruncatedDump(t *testing.T) {
	t.Parallel()

	dump := newDump(t,
		fixturePage{title: "A", ns: "0", id: "1", revisions: []string{"a"}},
		fixturePage{title: "B", ns: "0", id: "2", revisions: []string{"cut here"}},
	)
	dump = dump[:strings.Index(dump, "cut here")]

	pages, streams := readAll(t, xml.NewPageReader(strings.NewReader(dump)))

	require.Len(t, pages, 1)
	assert.Equal(t, "A", pages[0].Title)
	assert.Len(t, streams, 1)
}

func TestPageReader_ReadErrorIsFinal(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk failure")
	r := xml.NewPageReader(io.MultiReader(strings.NewReader("<mediawiki><page>"), iotest.ErrReader(boom)))

	_, err := r.Next(context.Background())
	require.ErrorIs(t, err, boom)
	var se *wikitree.StreamError
	assert.False(t, errors.As(err, &se))

	_, err = r.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestPageReader_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dump := newDump(t, fixturePage{title: "A", ns: "0", id: "1", revisions: []string{"a"}})

	_, err := xml.NewPageReader(strings.NewReader(dump)).Next(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPageReader_Progress(t *testing.T) {
	t.Parallel()

	t.Run("reports decoded bytes", func(t *testing.T) {
		t.Parallel()

		dump := newDump(t,
			fixturePage{title: "A", ns: "0", id: "1", revisions: []string{"a"}},
			fixturePage{title: "B", ns: "0", id: "2", revisions: []string{"b"}},
		)
		var reports []wikitree.Progress
		r := xml.NewPageReader(strings.NewReader(dump), xml.WithProgress(3, func(p wikitree.Progress) {
			reports = append(reports, p)
		}))

		_, _ = readAll(t, r)

		require.GreaterOrEqual(t, len(reports), 2)
		last := reports[len(reports)-1]
		assert.Equal(t, int64(len(dump)), last.Bytes)
		assert.Zero(t, last.Total)
		assert.Equal(t, r.Progress(), last)
		for i := 1; i < len(reports); i++ {
			assert.GreaterOrEqual(t, reports[i].Elements, reports[i-1].Elements)
		}
	})

	t.Run("uses the file position of sized sources", func(t *testing.T) {
		t.Parallel()

		dump := newDump(t, fixturePage{title: "A", ns: "0", id: "1", revisions: []string{"a"}})
		src := &sizedReader{Reader: strings.NewReader(dump), size: int64(len(dump))}
		var last wikitree.Progress
		r := xml.NewPageReader(src, xml.WithProgress(0, func(p wikitree.Progress) { last = p }))

		_, _ = readAll(t, r)

		assert.Equal(t, int64(len(dump)), last.Total)
		assert.Equal(t, int64(len(dump)), last.Bytes)
		assert.InDelta(t, 1.0, last.Fraction(), 1e-9)
		assert.Positive(t, last.Elements)
	})
}

type sizedReader struct {
	*strings.Reader
	size int64
}

func (r *sizedReader) Offset() int64 { return r.size - int64(r.Len()) }
func (r *sizedReader) Size() int64   { return r.size }
