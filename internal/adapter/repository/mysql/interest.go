package mysql

import (
	"context"
	"time"

	interestDomain "dealmatch-backend/internal/domain/interest"

	"gorm.io/gorm"
)

type dealCount struct {
	DealID string
	N      int64
}

type InterestRepository struct {
	conn
}

func NewInterestRepository(db *gorm.DB, timeout time.Duration) *InterestRepository {
	return &InterestRepository{conn{db: db, timeout: timeout}}
}

func (r *InterestRepository) Create(ctx context.Context, i *interestDomain.Interest) error {
	db, cancel := r.session(ctx)
	defer cancel()
	return translate(db.Create(i).Error, nil)
}

func (r *InterestRepository) Save(ctx context.Context, i *interestDomain.Interest) error {
	db, cancel := r.session(ctx)
	defer cancel()
	return translate(db.Save(i).Error, nil)
}

func (r *InterestRepository) GetByDealAndLender(ctx context.Context, dealID, lenderID string) (*interestDomain.Interest, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var out interestDomain.Interest
	err := db.
		Where("deal_id = ? AND lender_id = ?", dealID, lenderID).
		First(&out).Error
	if err != nil {
		return nil, translate(err, interestDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *InterestRepository) ListByDeal(ctx context.Context, dealID string) ([]interestDomain.Interest, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var out []interestDomain.Interest
	err := db.
		Where("deal_id = ?", dealID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, translate(err, nil)
}

func (r *InterestRepository) ListByLender(ctx context.Context, lenderID string) ([]interestDomain.Interest, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var out []interestDomain.Interest
	err := db.
		Where("lender_id = ?", lenderID).
		Order("updated_at DESC, id ASC").
		Find(&out).Error
	return out, translate(err, nil)
}

func (r *InterestRepository) CountByDeals(ctx context.Context, dealIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(dealIDs))
	if len(dealIDs) == 0 {
		return out, nil
	}
	db, cancel := r.session(ctx)
	defer cancel()
	var rows []dealCount
	err := db.
		Model(&interestDomain.Interest{}).
		Select("deal_id, COUNT(*) AS n").
		Where("deal_id IN ?", dealIDs).
		Group("deal_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	for _, row := range rows {
		out[row.DealID] = row.N
	}
	return out, nil
}
