package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/wikitree"
)

// Ensure LoggingDumpService implements wikitree.DumpService.
var _ wikitree.DumpService = (*LoggingDumpService)(nil)

// LoggingDumpService wraps a DumpService with logging of mirror requests.
type LoggingDumpService struct {
	next   wikitree.DumpService
	logger *slog.Logger
}

// NewLoggingDumpService creates a new LoggingDumpService.
func NewLoggingDumpService(next wikitree.DumpService, logger *slog.Logger) *LoggingDumpService {
	return &LoggingDumpService{next: next, logger: logger}
}

// FindDumpFiles delegates to the wrapped service and logs the listing.
func (s *LoggingDumpService) FindDumpFiles(ctx context.Context, wiki, date string) (files []*wikitree.DumpFile, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("dump run listed",
			"wiki", wiki,
			"date", date,
			"files", len(files),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDumpFiles(ctx, wiki, date)
}

// Download delegates to the wrapped service and logs the transfer.
func (s *LoggingDumpService) Download(ctx context.Context, file *wikitree.DumpFile, w io.Writer, progress wikitree.ProgressFunc) (n int64, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "dump downloaded",
			"file", file.Name,
			"url", file.URL,
			"bytes", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Download(ctx, file, w, progress)
}
