package interest

import "context"

type Repository interface {
	Create(ctx context.Context, i *Interest) error
	Save(ctx context.Context, i *Interest) error
	GetByDealAndLender(ctx context.Context, dealID, lenderID string) (*Interest, error)
	ListByDeal(ctx context.Context, dealID string) ([]Interest, error)
	ListByLender(ctx context.Context, lenderID string) ([]Interest, error)
	// CountByDeals maps deal id to number of interests; deals without any are absent.
	CountByDeals(ctx context.Context, dealIDs []string) (map[string]int64, error)
}
