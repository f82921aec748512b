package uowmock

import (
	"context"
	"errors"

	"dealmatch-backend/internal/domain/account"
	"dealmatch-backend/internal/domain/deal"
	"dealmatch-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn        func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinDealTxFn    func(ctx context.Context, dealID string, fn func(r uow.Repos, d *deal.Deal) error) error
	WithinAccountTxFn func(ctx context.Context, accountID string, fn func(r uow.Repos, a *account.Account) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough runs every callback directly against repos, loading the locked
// row through the repos' ForUpdate getters. Nothing is rolled back.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinDealTxFn: func(ctx context.Context, dealID string, fn func(uow.Repos, *deal.Deal) error) error {
			d, err := repos.Deals.GetByIDForUpdate(ctx, dealID)
			if err != nil {
				return err
			}
			return fn(repos, d)
		},
		WithinAccountTxFn: func(ctx context.Context, accountID string, fn func(uow.Repos, *account.Account) error) error {
			a, err := repos.Accounts.GetByIDForUpdate(ctx, accountID)
			if err != nil {
				return err
			}
			return fn(repos, a)
		},
	}
}

func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinDealTx(fn func(context.Context, string, func(uow.Repos, *deal.Deal) error) error) *UoW {
	m.WithinDealTxFn = fn
	return m
}
func (m *UoW) WithWithinAccountTx(fn func(context.Context, string, func(uow.Repos, *account.Account) error) error) *UoW {
	m.WithinAccountTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinDealTx(ctx context.Context, dealID string, fn func(r uow.Repos, d *deal.Deal) error) error {
	if m.WithinDealTxFn != nil {
		return m.WithinDealTxFn(ctx, dealID, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinAccountTx(ctx context.Context, accountID string, fn func(r uow.Repos, a *account.Account) error) error {
	if m.WithinAccountTxFn != nil {
		return m.WithinAccountTxFn(ctx, accountID, fn)
	}
	return errUnimplemented
}
