package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/wikitree"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ wikitree.RunService = (*RunService)(nil)

// RunService implements wikitree.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun creates a new run.
func (s *RunService) CreateRun(ctx context.Context, run *wikitree.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source, started_at)
		VALUES (?, ?, ?)
	`, run.ID, run.Source, formatTime(run.StartedAt))

	return err
}

// FinishRun records the totals and finish time of a run.
func (s *RunService) FinishRun(ctx context.Context, id string, upd wikitree.RunUpdate) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET records = ?, failed = ?, finished_at = ?
		WHERE id = ?
	`, upd.Records, upd.Failed, formatTime(time.Now()), id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return wikitree.Errorf(wikitree.ENOTFOUND, "run not found")
	}
	return nil
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*wikitree.Run, error) {
	var run wikitree.Run
	var startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, records, failed, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Source, &run.Records, &run.Failed, &startedAt, &finishedAt)

	if err == sql.ErrNoRows {
		return nil, wikitree.Errorf(wikitree.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
		return nil, err
	}

	return &run, nil
}
