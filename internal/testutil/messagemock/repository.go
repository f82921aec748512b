package messagemock

import (
	"context"

	domain "dealmatch-backend/internal/domain/message"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn     func(ctx context.Context, m *domain.Message) error
	ListByDealFn func(ctx context.Context, dealID string, limit int) ([]domain.Message, error)
}

func (m *Repo) Create(ctx context.Context, msg *domain.Message) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, msg)
	}
	return nil
}

func (m *Repo) ListByDeal(ctx context.Context, dealID string, limit int) ([]domain.Message, error) {
	if m.ListByDealFn != nil {
		return m.ListByDealFn(ctx, dealID, limit)
	}
	return []domain.Message{}, nil
}
