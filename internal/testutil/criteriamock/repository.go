package criteriamock

import (
	"context"
	"time"

	domain "dealmatch-backend/internal/domain/criteria"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn            func(ctx context.Context, c *domain.Criteria) error
	GetActiveByLenderFn func(ctx context.Context, lenderID string) (*domain.Criteria, error)
	LatestVersionFn     func(ctx context.Context, lenderID string) (int, error)
	SupersedeActiveFn   func(ctx context.Context, lenderID string, at time.Time) error
	ListActiveFn        func(ctx context.Context) ([]domain.Criteria, error)
}

func (m *Repo) Create(ctx context.Context, c *domain.Criteria) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetActiveByLender(ctx context.Context, lenderID string) (*domain.Criteria, error) {
	if m.GetActiveByLenderFn != nil {
		return m.GetActiveByLenderFn(ctx, lenderID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) LatestVersion(ctx context.Context, lenderID string) (int, error) {
	if m.LatestVersionFn != nil {
		return m.LatestVersionFn(ctx, lenderID)
	}
	return 0, nil
}

func (m *Repo) SupersedeActive(ctx context.Context, lenderID string, at time.Time) error {
	if m.SupersedeActiveFn != nil {
		return m.SupersedeActiveFn(ctx, lenderID, at)
	}
	return nil
}

func (m *Repo) ListActive(ctx context.Context) ([]domain.Criteria, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx)
	}
	return nil, nil
}
