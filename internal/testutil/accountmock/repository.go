package accountmock

import (
	"context"

	domain "dealmatch-backend/internal/domain/account"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset getters return context.Canceled; unset writers are no-ops.
type Repo struct {
	CreateFn           func(ctx context.Context, a *domain.Account) error
	GetByIDFn          func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFn func(ctx context.Context, id string) (*domain.Account, error)
	GetByEmailFn       func(ctx context.Context, email string) (*domain.Account, error)
	DeactivateFn       func(ctx context.Context, id string) error
}

func (m *Repo) Create(ctx context.Context, a *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, context.Canceled
}

func (m *Repo) Deactivate(ctx context.Context, id string) error {
	if m.DeactivateFn != nil {
		return m.DeactivateFn(ctx, id)
	}
	return nil
}
