package fs

import (
	"context"
	"io"
	"sync"

	"github.com/fwojciec/wikitree"
)

// Ensure ErrorLog implements wikitree.ErrorWriter at compile time.
var _ wikitree.ErrorWriter = (*ErrorLog)(nil)

// ErrorLog writes parse failures as tab-separated rows under a fixed header.
// The header is written even when no row follows.
type ErrorLog struct {
	mu     sync.Mutex
	w      io.Writer
	header bool
	rows   int
}

// NewErrorLog returns an ErrorLog writing to w.
func NewErrorLog(w io.Writer) *ErrorLog {
	return &ErrorLog{w: w}
}

// WriteError appends one row for perr.
func (l *ErrorLog) WriteError(ctx context.Context, perr *wikitree.ParseError) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.writeHeader(); err != nil {
		return err
	}
	if _, err := io.WriteString(l.w, wikitree.FormatErrorRow(perr)); err != nil {
		return err
	}
	l.rows++
	return nil
}

// Rows returns the number of rows written.
func (l *ErrorLog) Rows() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rows
}

// Close writes the header if nothing was written yet.
func (l *ErrorLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writeHeader()
}

func (l *ErrorLog) writeHeader() error {
	if l.header {
		return nil
	}
	if _, err := io.WriteString(l.w, wikitree.ErrorHeader); err != nil {
		return err
	}
	l.header = true
	return nil
}
