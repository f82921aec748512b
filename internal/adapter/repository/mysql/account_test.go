package mysql

import (
	"context"
	"errors"
	"testing"

	"dealmatch-backend/internal/domain/account"
	"dealmatch-backend/internal/domain/apperr"
	"dealmatch-backend/pkg/id"
)

func makeAccount(email string, role account.Role) *account.Account {
	return &account.Account{
		ID:           id.NewID32(),
		Role:         role,
		Email:        email,
		DisplayName:  "Test " + string(role),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}
}

func TestAccount_CreateAndLookup(t *testing.T) {
	repo := NewAccountRepository(openTestDB(t), 0)
	ctx := context.Background()

	a := makeAccount("broker@example.com", account.RoleBroker)
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byID, err := repo.GetByID(ctx, a.ID)
	if err != nil || byID.Email != a.Email || byID.Role != account.RoleBroker {
		t.Fatalf("GetByID = %+v, %v", byID, err)
	}
	byEmail, err := repo.GetByEmail(ctx, "broker@example.com")
	if err != nil || byEmail.ID != a.ID {
		t.Fatalf("GetByEmail = %+v, %v", byEmail, err)
	}
	if _, err := repo.GetByID(ctx, id.NewID32()); !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("missing id: got %v", err)
	}
}

func TestAccount_DuplicateEmail(t *testing.T) {
	repo := NewAccountRepository(openTestDB(t), 0)
	ctx := context.Background()

	if err := repo.Create(ctx, makeAccount("dup@example.com", account.RoleLender)); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	err := repo.Create(ctx, makeAccount("dup@example.com", account.RoleBroker))
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) || ve.Violations[0].Field != "email" {
		t.Fatalf("duplicate email: got %v", err)
	}
}

func TestAccount_DeactivateHidesAccount(t *testing.T) {
	repo := NewAccountRepository(openTestDB(t), 0)
	ctx := context.Background()

	a := makeAccount("gone@example.com", account.RoleLender)
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Deactivate(ctx, a.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if _, err := repo.GetByID(ctx, a.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("deactivated account still visible: %v", err)
	}
	if err := repo.Deactivate(ctx, a.ID); !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("second Deactivate: got %v", err)
	}
	// email stays reserved after deactivation
	if err := repo.Create(ctx, makeAccount("gone@example.com", account.RoleLender)); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("re-register deactivated email: got %v", err)
	}
}
