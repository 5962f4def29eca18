package mock

import (
	"context"
	"io"
	"net/url"

	"github.com/fwojciec/wikitree"
)

var (
	_ wikitree.DumpService = (*DumpService)(nil)
	_ wikitree.IndexParser = (*IndexParser)(nil)
)

// DumpService is a mock implementation of wikitree.DumpService.
type DumpService struct {
	FindDumpFilesFn func(ctx context.Context, wiki, date string) ([]*wikitree.DumpFile, error)
	DownloadFn      func(ctx context.Context, file *wikitree.DumpFile, w io.Writer, progress wikitree.ProgressFunc) (int64, error)
}

func (s *DumpService) FindDumpFiles(ctx context.Context, wiki, date string) ([]*wikitree.DumpFile, error) {
	return s.FindDumpFilesFn(ctx, wiki, date)
}

func (s *DumpService) Download(ctx context.Context, file *wikitree.DumpFile, w io.Writer, progress wikitree.ProgressFunc) (int64, error) {
	return s.DownloadFn(ctx, file, w, progress)
}

// IndexParser is a mock implementation of wikitree.IndexParser.
type IndexParser struct {
	ParseIndexFn func(r io.Reader, base *url.URL) ([]*wikitree.DumpFile, error)
}

func (p *IndexParser) ParseIndex(r io.Reader, base *url.URL) ([]*wikitree.DumpFile, error) {
	return p.ParseIndexFn(r, base)
}
