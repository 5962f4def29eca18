// Package slog decorates wikitree services with structured logging.
package slog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/wikitree"
)

// Compile-time interface verification.
var (
	_ wikitree.PageSource   = (*LoggingPageSource)(nil)
	_ wikitree.RecordWriter = (*LoggingRecordWriter)(nil)
	_ wikitree.ErrorWriter  = (*LoggingErrorWriter)(nil)
)

// LoggingPageSource wraps a PageSource with debug logging of every page and
// warnings for malformed fragments.
type LoggingPageSource struct {
	next   wikitree.PageSource
	logger *slog.Logger
}

// NewLoggingPageSource creates a new LoggingPageSource.
func NewLoggingPageSource(next wikitree.PageSource, logger *slog.Logger) *LoggingPageSource {
	return &LoggingPageSource{next: next, logger: logger}
}

// Next delegates to the wrapped source and logs the page read.
func (s *LoggingPageSource) Next(ctx context.Context) (page *wikitree.Page, err error) {
	defer func(begin time.Time) {
		var se *wikitree.StreamError
		switch {
		case err == nil:
			s.logger.Debug("page read",
				"title", page.Title,
				"id", page.ID,
				"ns", page.Namespace,
				"bytes", len(page.Text),
				"duration", time.Since(begin),
			)
		case errors.As(err, &se):
			s.logger.Warn("malformed dump fragment",
				"offset", se.Offset,
				"err", se.Err,
			)
		case err != io.EOF:
			s.logger.Error("page read failed", "err", err)
		}
	}(time.Now())
	return s.next.Next(ctx)
}

// LoggingRecordWriter wraps a RecordWriter with debug logging.
type LoggingRecordWriter struct {
	next   wikitree.RecordWriter
	logger *slog.Logger
}

// NewLoggingRecordWriter creates a new LoggingRecordWriter.
func NewLoggingRecordWriter(next wikitree.RecordWriter, logger *slog.Logger) *LoggingRecordWriter {
	return &LoggingRecordWriter{next: next, logger: logger}
}

// WriteRecord delegates to the wrapped writer and logs the operation.
func (w *LoggingRecordWriter) WriteRecord(ctx context.Context, rec *wikitree.Record) (err error) {
	defer func(begin time.Time) {
		w.logger.Debug("record written",
			"title", rec.Page.Title,
			"sections", rec.Content.Len(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteRecord(ctx, rec)
}

// Close delegates to the wrapped writer.
func (w *LoggingRecordWriter) Close() (err error) {
	defer func() {
		if err != nil {
			w.logger.Error("record writer close failed", "err", err)
		}
	}()
	return w.next.Close()
}

// LoggingErrorWriter wraps an ErrorWriter with logging of every error row.
type LoggingErrorWriter struct {
	next   wikitree.ErrorWriter
	logger *slog.Logger
}

// NewLoggingErrorWriter creates a new LoggingErrorWriter.
func NewLoggingErrorWriter(next wikitree.ErrorWriter, logger *slog.Logger) *LoggingErrorWriter {
	return &LoggingErrorWriter{next: next, logger: logger}
}

// WriteError delegates to the wrapped writer and logs the parse error.
func (w *LoggingErrorWriter) WriteError(ctx context.Context, perr *wikitree.ParseError) (err error) {
	defer func() {
		w.logger.Info("page rejected",
			"kind", perr.Kind,
			"localization", perr.Localization,
			"expression", perr.Expression,
			"err", err,
		)
	}()
	return w.next.WriteError(ctx, perr)
}

// Close delegates to the wrapped writer.
func (w *LoggingErrorWriter) Close() (err error) {
	defer func() {
		if err != nil {
			w.logger.Error("error writer close failed", "err", err)
		}
	}()
	return w.next.Close()
}
