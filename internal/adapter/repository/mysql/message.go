package mysql

import (
	"context"
	"slices"
	"time"

	messageDomain "dealmatch-backend/internal/domain/message"

	"gorm.io/gorm"
)

type MessageRepository struct {
	conn
}

func NewMessageRepository(db *gorm.DB, timeout time.Duration) *MessageRepository {
	return &MessageRepository{conn{db: db, timeout: timeout}}
}

func (r *MessageRepository) Create(ctx context.Context, m *messageDomain.Message) error {
	db, cancel := r.session(ctx)
	defer cancel()
	return translate(db.Create(m).Error, nil)
}

func (r *MessageRepository) ListByDeal(ctx context.Context, dealID string, limit int) ([]messageDomain.Message, error) {
	db, cancel := r.session(ctx)
	defer cancel()
	var out []messageDomain.Message
	err := db.
		Where("deal_id = ?", dealID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	slices.Reverse(out)
	return out, nil
}
