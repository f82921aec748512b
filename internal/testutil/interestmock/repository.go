package interestmock

import (
	"context"

	domain "dealmatch-backend/internal/domain/interest"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn             func(ctx context.Context, i *domain.Interest) error
	SaveFn               func(ctx context.Context, i *domain.Interest) error
	GetByDealAndLenderFn func(ctx context.Context, dealID, lenderID string) (*domain.Interest, error)
	ListByDealFn         func(ctx context.Context, dealID string) ([]domain.Interest, error)
	ListByLenderFn       func(ctx context.Context, lenderID string) ([]domain.Interest, error)
	CountByDealsFn       func(ctx context.Context, dealIDs []string) (map[string]int64, error)
}

func (m *Repo) Create(ctx context.Context, i *domain.Interest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, i)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, i *domain.Interest) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, i)
	}
	return nil
}

func (m *Repo) GetByDealAndLender(ctx context.Context, dealID, lenderID string) (*domain.Interest, error) {
	if m.GetByDealAndLenderFn != nil {
		return m.GetByDealAndLenderFn(ctx, dealID, lenderID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByDeal(ctx context.Context, dealID string) ([]domain.Interest, error) {
	if m.ListByDealFn != nil {
		return m.ListByDealFn(ctx, dealID)
	}
	return nil, nil
}

func (m *Repo) ListByLender(ctx context.Context, lenderID string) ([]domain.Interest, error) {
	if m.ListByLenderFn != nil {
		return m.ListByLenderFn(ctx, lenderID)
	}
	return nil, nil
}

func (m *Repo) CountByDeals(ctx context.Context, dealIDs []string) (map[string]int64, error) {
	if m.CountByDealsFn != nil {
		return m.CountByDealsFn(ctx, dealIDs)
	}
	return map[string]int64{}, nil
}
