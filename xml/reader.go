// Package xml reads pages out of MediaWiki XML dumps.
package xml

import (
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/wikitree"
	"golang.org/x/time/rate"
)

// DefaultProgressPeriod is the number of XML elements between two progress
// reports.
const DefaultProgressPeriod = 100000

// Ensure PageReader implements wikitree.PageSource at compile time.
var _ wikitree.PageSource = (*PageReader)(nil)

// Option configures a PageReader.
type Option func(*PageReader)

// WithProgress calls fn every period elements and once more at the end of
// the dump. A period of zero or less uses DefaultProgressPeriod.
func WithProgress(period int, fn wikitree.ProgressFunc) Option {
	return func(r *PageReader) {
		if period <= 0 {
			period = DefaultProgressPeriod
		}
		r.sometimes = &rate.Sometimes{Every: period}
		r.progress = fn
	}
}

// sized is implemented by sources that know their position in an
// underlying file, such as fs.Dump.
type sized interface {
	Offset() int64
	Size() int64
}

// PageReader streams pages out of a dump.
//
// Page fields are reset at every <page>. The first <id> directly under a
// page is its id; revision and contributor ids are ignored. A page is
// returned at every </text>, so a page with several revisions yields one
// Page per revision.
//
// Malformed XML yields a *wikitree.StreamError. The next call to Next skips
// to the following <page> and carries on from there.
type PageReader struct {
	src io.Reader
	br  *bufio.Reader
	dec *xml.Decoder
	pos int64 // bytes handed to the decoder or skipped while resyncing

	broken bool
	done   bool

	depth     int
	pageDepth int
	page      wikitree.Page
	hasID     bool

	elements  int64
	progress  wikitree.ProgressFunc
	sometimes *rate.Sometimes
}

// NewPageReader returns a PageReader decoding r.
func NewPageReader(r io.Reader, opts ...Option) *PageReader {
	p := &PageReader{
		src:       r,
		br:        bufio.NewReaderSize(r, 64<<10),
		pageDepth: -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.dec = p.newDecoder(nil)
	return p
}

func (p *PageReader) newDecoder(prefix []byte) *xml.Decoder {
	return xml.NewDecoder(&prefixReader{prefix: prefix, r: p.br, pos: &p.pos})
}

// Next returns the next page, or io.EOF once the dump is exhausted.
func (p *PageReader) Next(ctx context.Context) (*wikitree.Page, error) {
	if p.done {
		return nil, io.EOF
	}
	if p.broken {
		ok, err := p.resync()
		if err != nil {
			return nil, err
		}
		if !ok {
			p.finish()
			return nil, io.EOF
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tok, err := p.dec.Token()
		if err == io.EOF {
			p.finish()
			return nil, io.EOF
		} else if err != nil {
			return nil, p.fail(err)
		}

		switch tok := tok.(type) {
		case xml.EndElement:
			p.depth--
			if tok.Name.Local == "page" {
				p.pageDepth = -1
			}
			continue
		case xml.StartElement:
			p.tick()
			page, err := p.start(&tok)
			if err != nil {
				return nil, p.fail(err)
			}
			if page != nil {
				return page, nil
			}
		}
	}
}

// start handles one start element. Leaf elements are consumed whole.
func (p *PageReader) start(el *xml.StartElement) (*wikitree.Page, error) {
	switch el.Name.Local {
	case "page":
		p.page = wikitree.Page{}
		p.hasID = false
		p.pageDepth = p.depth
	case "title":
		return nil, p.dec.DecodeElement(&p.page.Title, el)
	case "ns":
		return nil, p.dec.DecodeElement(&p.page.Namespace, el)
	case "id":
		if p.hasID || p.depth != p.pageDepth+1 {
			return nil, p.dec.Skip()
		}
		p.hasID = true
		return nil, p.dec.DecodeElement(&p.page.ID, el)
	case "text":
		page := p.page
		if err := p.dec.DecodeElement(&page.Text, el); err != nil {
			return nil, err
		}
		return &page, nil
	}
	p.depth++
	return nil, nil
}

func (p *PageReader) fail(err error) error {
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		p.broken = true
		return &wikitree.StreamError{Offset: p.pos, Err: err}
	}
	p.done = true
	return fmt.Errorf("read dump: %w", err)
}

var pageTag = []byte("page")

// resync skips to the next <page> start tag and restarts decoding there
// inside a synthetic root element. It reports false when no page follows.
func (p *PageReader) resync() (bool, error) {
	p.broken = false
	for {
		b, err := p.br.ReadByte()
		if err == io.EOF {
			return false, nil
		} else if err != nil {
			p.done = true
			return false, fmt.Errorf("read dump: %w", err)
		}
		p.pos++
		if b != '<' {
			continue
		}

		next, _ := p.br.Peek(len(pageTag) + 1)
		if len(next) <= len(pageTag) || !bytes.HasPrefix(next, pageTag) || !isTagEnd(next[len(pageTag)]) {
			continue
		}
		n, _ := p.br.Discard(len(pageTag))
		p.pos += int64(n)

		p.depth, p.pageDepth = 0, -1
		p.dec = p.newDecoder([]byte("<mediawiki><page"))
		return true, nil
	}
}

func isTagEnd(b byte) bool {
	switch b {
	case '>', '/', ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

func (p *PageReader) tick() {
	p.elements++
	if p.progress != nil {
		p.sometimes.Do(p.report)
	}
}

func (p *PageReader) finish() {
	p.done = true
	if p.progress != nil {
		p.report()
	}
}

func (p *PageReader) report() {
	p.progress(p.Progress())
}

// Progress returns how far the dump has been read.
func (p *PageReader) Progress() wikitree.Progress {
	pr := wikitree.Progress{Elements: p.elements, Bytes: p.pos}
	if s, ok := p.src.(sized); ok {
		pr.Bytes = s.Offset()
		pr.Total = s.Size()
	}
	return pr
}

// prefixReader yields prefix and then reads from r, counting the bytes
// taken from r. It implements io.ByteReader so the decoder reads from it
// directly and never buffers past the point where it stopped.
type prefixReader struct {
	prefix []byte
	r      *bufio.Reader
	pos    *int64
}

func (r *prefixReader) ReadByte() (byte, error) {
	if len(r.prefix) > 0 {
		b := r.prefix[0]
		r.prefix = r.prefix[1:]
		return b, nil
	}
	b, err := r.r.ReadByte()
	if err == nil {
		*r.pos++
	}
	return b, err
}

func (r *prefixReader) Read(b []byte) (int, error) {
	if len(r.prefix) > 0 {
		n := copy(b, r.prefix)
		r.prefix = r.prefix[n:]
		return n, nil
	}
	n, err := r.r.Read(b)
	*r.pos += int64(n)
	return n, err
}
