package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dealmatch-backend/internal/domain/account"
	"dealmatch-backend/internal/domain/apperr"
	"dealmatch-backend/internal/domain/deal"
	"dealmatch-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGormUoW bounds every transaction by timeout; 0 disables the bound.
func NewGormUoW(db *gorm.DB, timeout time.Duration) *GormUoW {
	return &GormUoW{db: db, timeout: timeout}
}

func txRepos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Accounts:  &AccountRepository{conn{db: tx, inTx: true}},
		Deals:     &DealRepository{conn{db: tx, inTx: true}},
		Criteria:  &CriteriaRepository{conn{db: tx, inTx: true}},
		Interests: &InterestRepository{conn{db: tx, inTx: true}},
	}
}

func (u *GormUoW) run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	ctx, cancel := bound(ctx, u.timeout)
	defer cancel()
	err := u.db.WithContext(ctx).Transaction(fn)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, apperr.ErrUnavailable) {
		return fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
	}
	return translate(err, nil)
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.run(ctx, func(tx *gorm.DB) error {
		return fn(txRepos(tx))
	})
}

func (u *GormUoW) WithinDealTx(ctx context.Context, dealID string, fn func(r uow.Repos, d *deal.Deal) error) error {
	return u.run(ctx, func(tx *gorm.DB) error {
		r := txRepos(tx)
		// lock the deal row up-front so concurrent submissions serialize
		d, err := r.Deals.GetByIDForUpdate(ctx, dealID)
		if err != nil {
			return err
		}
		return fn(r, d)
	})
}

func (u *GormUoW) WithinAccountTx(ctx context.Context, accountID string, fn func(r uow.Repos, a *account.Account) error) error {
	return u.run(ctx, func(tx *gorm.DB) error {
		r := txRepos(tx)
		a, err := r.Accounts.GetByIDForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		return fn(r, a)
	})
}
