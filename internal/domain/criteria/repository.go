package criteria

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, c *Criteria) error
	// GetActiveByLender returns ErrNotFound when the lender never set criteria.
	GetActiveByLender(ctx context.Context, lenderID string) (*Criteria, error)
	// LatestVersion returns 0 when the lender has no criteria rows.
	LatestVersion(ctx context.Context, lenderID string) (int, error)
	SupersedeActive(ctx context.Context, lenderID string, at time.Time) error
	ListActive(ctx context.Context) ([]Criteria, error)
}
