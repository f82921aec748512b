package mysql

import (
	"context"
	"time"

	dealDomain "dealmatch-backend/internal/domain/deal"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DealRepository struct {
	conn
}

func NewDealRepository(db *gorm.DB, timeout time.Duration) *DealRepository {
	return &DealRepository{conn{db: db, timeout: timeout}}
}

func (r *DealRepository) Create(ctx context.Context, d *dealDomain.Deal) error {
	db, cancel := r.session(ctx)
	defer cancel()
	return translate(db.Create(d).Error, nil)
}

func (r *DealRepository) Save(ctx context.Context, d *dealDomain.Deal) error {
	db, cancel := r.session(ctx)
	defer cancel()
	return translate(db.Save(d).Error, nil)
}

func (r *DealRepository) GetByID(ctx context.Context, id string) (*dealDomain.Deal, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var out dealDomain.Deal
	if err := db.Where("id = ?", id).First(&out).Error; err != nil {
		return nil, translate(err, dealDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *DealRepository) GetByIDForUpdate(ctx context.Context, id string) (*dealDomain.Deal, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var out dealDomain.Deal
	err := db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out).Error
	if err != nil {
		return nil, translate(err, dealDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *DealRepository) ListByBroker(ctx context.Context, brokerID string) ([]dealDomain.Deal, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var out []dealDomain.Deal
	err := db.
		Where("broker_id = ?", brokerID).
		Order("created_at DESC, id ASC").
		Find(&out).Error
	return out, translate(err, nil)
}

func (r *DealRepository) ListActive(ctx context.Context) ([]dealDomain.Deal, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var out []dealDomain.Deal
	err := db.
		Where("status IN ?", []dealDomain.Status{dealDomain.StatusOpen, dealDomain.StatusMatched}).
		Order("created_at DESC, id ASC").
		Find(&out).Error
	return out, translate(err, nil)
}

func (r *DealRepository) CloseAllByBroker(ctx context.Context, brokerID string, at time.Time) (int64, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	res := db.
		Model(&dealDomain.Deal{}).
		Where("broker_id = ? AND status <> ?", brokerID, dealDomain.StatusClosed).
		Updates(map[string]any{"status": dealDomain.StatusClosed, "status_updated_at": at})
	return res.RowsAffected, translate(res.Error, nil)
}
