package wikitree

import (
	"context"
	"io"
	"net/url"
)

// DumpFile is one file published by a dump run, such as
// frwiktionary-latest-pages-articles.xml.bz2.
type DumpFile struct {
	Name string
	URL  string
}

// DumpService finds and downloads dump files from a mirror.
type DumpService interface {
	// FindDumpFiles lists the XML dump files of a wiki's run. date is
	// YYYYMMDD or "latest". Returns ENOTFOUND if the run does not exist.
	FindDumpFiles(ctx context.Context, wiki, date string) ([]*DumpFile, error)

	// Download writes the content of file to w and returns the number of
	// bytes written. progress, if not nil, is called as bytes arrive.
	Download(ctx context.Context, file *DumpFile, w io.Writer, progress ProgressFunc) (int64, error)
}

// IndexParser extracts the dump files linked from a run's index page.
type IndexParser interface {
	ParseIndex(r io.Reader, base *url.URL) ([]*DumpFile, error)
}
