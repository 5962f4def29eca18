package mock

import (
	"context"

	"github.com/fwojciec/wikitree"
)

var (
	_ wikitree.RunService  = (*RunService)(nil)
	_ wikitree.PageService = (*PageService)(nil)
)

// RunService is a mock implementation of wikitree.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *wikitree.Run) error
	FinishRunFn   func(ctx context.Context, id string, upd wikitree.RunUpdate) error
	FindRunByIDFn func(ctx context.Context, id string) (*wikitree.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *wikitree.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FinishRun(ctx context.Context, id string, upd wikitree.RunUpdate) error {
	return s.FinishRunFn(ctx, id, upd)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*wikitree.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

// PageService is a mock implementation of wikitree.PageService.
type PageService struct {
	FindPagesFn func(ctx context.Context, filter wikitree.PageFilter) ([]*wikitree.StoredPage, error)
}

func (s *PageService) FindPages(ctx context.Context, filter wikitree.PageFilter) ([]*wikitree.StoredPage, error) {
	return s.FindPagesFn(ctx, filter)
}
