package dealmock

import (
	"context"
	"time"

	domain "dealmatch-backend/internal/domain/deal"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset getters return context.Canceled; unset writers are no-ops.
type Repo struct {
	CreateFn           func(ctx context.Context, d *domain.Deal) error
	GetByIDFn          func(ctx context.Context, id string) (*domain.Deal, error)
	GetByIDForUpdateFn func(ctx context.Context, id string) (*domain.Deal, error)
	SaveFn             func(ctx context.Context, d *domain.Deal) error
	ListByBrokerFn     func(ctx context.Context, brokerID string) ([]domain.Deal, error)
	ListActiveFn       func(ctx context.Context) ([]domain.Deal, error)
	CloseAllByBrokerFn func(ctx context.Context, brokerID string, at time.Time) (int64, error)
}

func (m *Repo) Create(ctx context.Context, d *domain.Deal) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Deal, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, d *domain.Deal) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, d)
	}
	return nil
}

func (m *Repo) ListByBroker(ctx context.Context, brokerID string) ([]domain.Deal, error) {
	if m.ListByBrokerFn != nil {
		return m.ListByBrokerFn(ctx, brokerID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListActive(ctx context.Context) ([]domain.Deal, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) CloseAllByBroker(ctx context.Context, brokerID string, at time.Time) (int64, error) {
	if m.CloseAllByBrokerFn != nil {
		return m.CloseAllByBrokerFn(ctx, brokerID, at)
	}
	return 0, nil
}
