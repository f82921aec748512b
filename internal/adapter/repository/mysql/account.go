package mysql

import (
	"context"
	"time"

	accountDomain "dealmatch-backend/internal/domain/account"
	"dealmatch-backend/internal/domain/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository struct {
	conn
}

func NewAccountRepository(db *gorm.DB, timeout time.Duration) *AccountRepository {
	return &AccountRepository{conn{db: db, timeout: timeout}}
}

func (r *AccountRepository) Create(ctx context.Context, a *accountDomain.Account) error {
	db, cancel := r.session(ctx)
	defer cancel()
	err := db.Create(a).Error
	if err != nil && isDuplicate(err) {
		// only unique key on accounts is the email
		return apperr.Invalid("email", "is already registered")
	}
	return translate(err, nil)
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*accountDomain.Account, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var out accountDomain.Account
	if err := db.Where("id = ?", id).First(&out).Error; err != nil {
		return nil, translate(err, accountDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id string) (*accountDomain.Account, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var out accountDomain.Account
	err := db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out).Error
	if err != nil {
		return nil, translate(err, accountDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*accountDomain.Account, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var out accountDomain.Account
	if err := db.Where("email = ?", email).First(&out).Error; err != nil {
		return nil, translate(err, accountDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *AccountRepository) Deactivate(ctx context.Context, id string) error {
	db, cancel := r.session(ctx)
	defer cancel()
	res := db.Where("id = ?", id).Delete(&accountDomain.Account{})
	if res.Error != nil {
		return translate(res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return accountDomain.ErrNotFound
	}
	return nil
}
