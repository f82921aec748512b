package deal

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, d *Deal) error
	GetByID(ctx context.Context, id string) (*Deal, error)
	// GetByIDForUpdate locks the deal row for the rest of the tx.
	GetByIDForUpdate(ctx context.Context, id string) (*Deal, error)
	Save(ctx context.Context, d *Deal) error
	// ListByBroker returns the broker's deals, newest first.
	ListByBroker(ctx context.Context, brokerID string) ([]Deal, error)
	// ListActive returns every open or matched deal, newest first.
	ListActive(ctx context.Context) ([]Deal, error)
	// CloseAllByBroker closes the broker's non-closed deals and returns how many changed.
	CloseAllByBroker(ctx context.Context, brokerID string, at time.Time) (int64, error)
}
