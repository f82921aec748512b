package mysql

import (
	"context"
	"time"

	criteriaDomain "dealmatch-backend/internal/domain/criteria"

	"gorm.io/gorm"
)

type CriteriaRepository struct {
	conn
}

func NewCriteriaRepository(db *gorm.DB, timeout time.Duration) *CriteriaRepository {
	return &CriteriaRepository{conn{db: db, timeout: timeout}}
}

func (r *CriteriaRepository) Create(ctx context.Context, c *criteriaDomain.Criteria) error {
	db, cancel := r.session(ctx)
	defer cancel()
	return translate(db.Create(c).Error, nil)
}

func (r *CriteriaRepository) GetActiveByLender(ctx context.Context, lenderID string) (*criteriaDomain.Criteria, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var out criteriaDomain.Criteria
	err := db.
		Where("lender_id = ? AND superseded_at IS NULL", lenderID).
		Order("version DESC").
		First(&out).Error
	if err != nil {
		return nil, translate(err, criteriaDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *CriteriaRepository) LatestVersion(ctx context.Context, lenderID string) (int, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var v int
	err := db.
		Model(&criteriaDomain.Criteria{}).
		Where("lender_id = ?", lenderID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&v).Error
	return v, translate(err, nil)
}

func (r *CriteriaRepository) SupersedeActive(ctx context.Context, lenderID string, at time.Time) error {
	db, cancel := r.session(ctx)
	defer cancel()
	err := db.
		Model(&criteriaDomain.Criteria{}).
		Where("lender_id = ? AND superseded_at IS NULL", lenderID).
		Update("superseded_at", at).Error
	return translate(err, nil)
}

func (r *CriteriaRepository) ListActive(ctx context.Context) ([]criteriaDomain.Criteria, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var out []criteriaDomain.Criteria
	err := db.
		Where("superseded_at IS NULL").
		Order("lender_id ASC").
		Find(&out).Error
	return out, translate(err, nil)
}
