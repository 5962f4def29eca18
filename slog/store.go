package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/wikitree"
)

// Ensure LoggingRunService implements wikitree.RunService.
var _ wikitree.RunService = (*LoggingRunService)(nil)

// LoggingRunService wraps a RunService with logging of run lifecycle events.
type LoggingRunService struct {
	next   wikitree.RunService
	logger *slog.Logger
}

// NewLoggingRunService creates a new LoggingRunService.
func NewLoggingRunService(next wikitree.RunService, logger *slog.Logger) *LoggingRunService {
	return &LoggingRunService{next: next, logger: logger}
}

// CreateRun delegates to the wrapped service and logs the new run.
func (s *LoggingRunService) CreateRun(ctx context.Context, run *wikitree.Run) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("run started",
			"run", run.ID,
			"source", run.Source,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRun(ctx, run)
}

// FinishRun delegates to the wrapped service and logs the totals.
func (s *LoggingRunService) FinishRun(ctx context.Context, id string, upd wikitree.RunUpdate) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("run finished",
			"run", id,
			"records", upd.Records,
			"failed", upd.Failed,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FinishRun(ctx, id, upd)
}

// FindRunByID delegates to the wrapped service.
func (s *LoggingRunService) FindRunByID(ctx context.Context, id string) (*wikitree.Run, error) {
	return s.next.FindRunByID(ctx, id)
}
