package wikitree

import (
	"context"
	"time"
)

// Run is one ingestion of a dump into a store.
type Run struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Records    int       `json:"records"`
	Failed     int       `json:"failed"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Source == "" {
		return Errorf(EINVALID, "run source required")
	}
	return nil
}

// RunUpdate holds the totals recorded when a run finishes.
type RunUpdate struct {
	Records int
	Failed  int
}

// RunService represents a service for managing ingestion runs.
type RunService interface {
	// CreateRun creates a new run and assigns its ID and start time.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun records the totals and finish time of a run.
	// Returns ENOTFOUND if run does not exist.
	FinishRun(ctx context.Context, id string, upd RunUpdate) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)
}

// StoredPage is a converted page persisted by a store.
type StoredPage struct {
	ID          string    `json:"id"`
	RunID       string    `json:"runId"`
	PageID      string    `json:"pageId"`
	Namespace   string    `json:"ns"`
	Title       string    `json:"title"`
	Content     string    `json:"content"` // JSON-encoded SectionTree
	ContentHash string    `json:"contentHash"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PageService represents a service for querying stored pages.
type PageService interface {
	// FindPages retrieves stored pages matching the filter, newest first.
	FindPages(ctx context.Context, filter PageFilter) ([]*StoredPage, error)
}

// PageFilter represents a filter for FindPages.
type PageFilter struct {
	RunID *string `json:"runId"`
	Title *string `json:"title"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
