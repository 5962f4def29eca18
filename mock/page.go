package mock

import (
	"context"

	"github.com/fwojciec/wikitree"
)

// Compile-time interface verification.
var (
	_ wikitree.PageSource   = (*PageSource)(nil)
	_ wikitree.RecordWriter = (*RecordWriter)(nil)
	_ wikitree.ErrorWriter  = (*ErrorWriter)(nil)
	_ wikitree.TitleSet     = (*TitleSet)(nil)
)

// PageSource is a mock implementation of wikitree.PageSource.
type PageSource struct {
	NextFn func(ctx context.Context) (*wikitree.Page, error)
}

func (s *PageSource) Next(ctx context.Context) (*wikitree.Page, error) {
	return s.NextFn(ctx)
}

// RecordWriter is a mock implementation of wikitree.RecordWriter.
type RecordWriter struct {
	WriteRecordFn func(ctx context.Context, rec *wikitree.Record) error
	CloseFn       func() error
}

func (w *RecordWriter) WriteRecord(ctx context.Context, rec *wikitree.Record) error {
	return w.WriteRecordFn(ctx, rec)
}

func (w *RecordWriter) Close() error {
	return w.CloseFn()
}

// ErrorWriter is a mock implementation of wikitree.ErrorWriter.
type ErrorWriter struct {
	WriteErrorFn func(ctx context.Context, perr *wikitree.ParseError) error
	CloseFn      func() error
}

func (w *ErrorWriter) WriteError(ctx context.Context, perr *wikitree.ParseError) error {
	return w.WriteErrorFn(ctx, perr)
}

func (w *ErrorWriter) Close() error {
	return w.CloseFn()
}

// TitleSet is a mock implementation of wikitree.TitleSet.
type TitleSet struct {
	AddFn  func(title string)
	TestFn func(title string) bool
}

func (s *TitleSet) Add(title string) {
	s.AddFn(title)
}

func (s *TitleSet) Test(title string) bool {
	return s.TestFn(title)
}
