package account

import "context"

type Repository interface {
	// Create fails with a validation error when the email is already registered.
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	// GetByIDForUpdate locks the account row; only meaningful inside a tx.
	GetByIDForUpdate(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	// Deactivate soft-deletes the account.
	Deactivate(ctx context.Context, id string) error
}
