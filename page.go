package wikitree

import "context"

// Page is one page record read from a dump.
type Page struct {
	// ID is the page identifier. Empty when the dump did not provide one.
	ID        string
	Namespace string
	Title     string
	Text      string // Raw wikitext
}

// Path returns the root context path of the page.
func (p *Page) Path() ContextPath {
	return ContextPath{p.Title}
}

// Record is a successfully converted page.
type Record struct {
	Page    *Page
	Content *SectionTree
}

// PageSource streams pages out of a dump in archive order.
//
// Next returns io.EOF when the dump is exhausted. A *StreamError reports
// malformed framing; callers may call Next again to resume at the next
// page. Any other error is unrecoverable.
type PageSource interface {
	Next(ctx context.Context) (*Page, error)
}

// RecordWriter writes converted pages to an output.
type RecordWriter interface {
	WriteRecord(ctx context.Context, rec *Record) error

	// Close finishes the output. It does not close any underlying file.
	Close() error
}

// ErrorWriter writes page-level parse failures to an error log.
type ErrorWriter interface {
	WriteError(ctx context.Context, perr *ParseError) error
	Close() error
}

// Progress reports how far a dump has been read.
type Progress struct {
	Elements int64 // XML elements processed
	Bytes    int64 // Bytes consumed from the underlying file
	Total    int64 // Size of the underlying file, 0 if unknown
}

// Fraction returns the consumed share of the file in [0, 1], or 0 when the
// total is unknown.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(1, float64(p.Bytes)/float64(p.Total))
}

// ProgressFunc is called periodically while a dump is read.
type ProgressFunc func(Progress)

// TitleSet remembers titles already emitted. Implementations may be
// probabilistic and report false positives.
type TitleSet interface {
	Add(title string)
	Test(title string) bool
}

// MultiRecordWriter returns a RecordWriter that writes each record to all
// of writers in order, stopping at the first error.
func MultiRecordWriter(writers ...RecordWriter) RecordWriter {
	return multiRecordWriter(writers)
}

type multiRecordWriter []RecordWriter

func (m multiRecordWriter) WriteRecord(ctx context.Context, rec *Record) error {
	for _, w := range m {
		if err := w.WriteRecord(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (m multiRecordWriter) Close() error {
	var first error
	for _, w := range m {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// MultiErrorWriter returns an ErrorWriter that writes each error to all of
// writers in order, stopping at the first error.
func MultiErrorWriter(writers ...ErrorWriter) ErrorWriter {
	return multiErrorWriter(writers)
}

type multiErrorWriter []ErrorWriter

func (m multiErrorWriter) WriteError(ctx context.Context, perr *ParseError) error {
	for _, w := range m {
		if err := w.WriteError(ctx, perr); err != nil {
			return err
		}
	}
	return nil
}

func (m multiErrorWriter) Close() error {
	var first error
	for _, w := range m {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// SiteInfo describes the wiki a dump was exported from.
type SiteInfo struct {
	SiteName   string
	DBName     string
	Base       string
	Generator  string
	Namespaces []Namespace
}

// Namespace is one entry of a dump's namespace table.
type Namespace struct {
	Key  string
	Name string
}
