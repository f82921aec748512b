package uow

import (
	"context"

	"dealmatch-backend/internal/domain/account"
	"dealmatch-backend/internal/domain/criteria"
	"dealmatch-backend/internal/domain/deal"
	"dealmatch-backend/internal/domain/interest"
)

// Repos are bound to the surrounding transaction.
type Repos struct {
	Accounts  account.Repository
	Deals     deal.Repository
	Criteria  criteria.Repository
	Interests interest.Repository
}

// UnitOfWork runs fn atomically: every mutation commits or none does.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinDealTx locks the deal row before calling fn; serializes interest
	// submissions and closing on the same deal.
	WithinDealTx(ctx context.Context, dealID string, fn func(r Repos, d *deal.Deal) error) error
	// WithinAccountTx locks the account row; serializes criteria replacement and
	// deactivation for one account.
	WithinAccountTx(ctx context.Context, accountID string, fn func(r Repos, a *account.Account) error) error
}
