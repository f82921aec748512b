package message

import "context"

type Repository interface {
	Create(ctx context.Context, m *Message) error
	// ListByDeal returns the latest limit messages of a deal, oldest first.
	ListByDeal(ctx context.Context, dealID string, limit int) ([]Message, error)
}
