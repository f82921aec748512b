package criteria

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dealmatch-backend/internal/domain/access"
	"dealmatch-backend/internal/domain/account"
	"dealmatch-backend/internal/domain/apperr"
	"dealmatch-backend/internal/testutil/testdb"
	"dealmatch-backend/internal/usecase/retry"

	"go.uber.org/zap"
)

var lender = access.Principal{AccountID: "lender-1", Role: account.RoleLender}

func newFixture(t *testing.T) (*Usecase, testdb.Stores) {
	t.Helper()
	stores := testdb.NewStores(testdb.Open(t))
	err := stores.Accounts.Create(context.Background(), &account.Account{
		ID: lender.AccountID, Role: account.RoleLender, Email: "l1@example.com",
		DisplayName: "Lender One", PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	uc := NewUsecase(stores.Criteria, stores.UoW, retry.Policy{Attempts: 3, Backoff: time.Millisecond}, zap.NewNop())
	return uc, stores
}

func input() ReplaceCriteriaInput {
	return ReplaceCriteriaInput{
		LoanTypes:      []string{"residential", "commercial", "residential"},
		MinAmount:      100_000,
		MaxAmount:      1_000_000,
		Regions:        []string{" CA", "ca", "TX"},
		CreditScoreMin: 680,
		LTVMax:         0.8,
	}
}

func TestReplace_VersionsAndSupersedes(t *testing.T) {
	uc, stores := newFixture(t)
	ctx := context.Background()

	first, err := uc.Replace(ctx, lender, input())
	if err != nil {
		t.Fatalf("first Replace: %v", err)
	}
	if first.Version != 1 {
		t.Fatalf("first version = %d", first.Version)
	}
	if len(first.LoanTypes) != 2 || len(first.Regions) != 2 || first.Regions[0] != "CA" {
		t.Fatalf("criteria not normalized: %+v", first)
	}

	in := input()
	in.Regions = nil
	second, err := uc.Replace(ctx, lender, in)
	if err != nil {
		t.Fatalf("second Replace: %v", err)
	}
	if second.Version != 2 || second.ID == first.ID {
		t.Fatalf("second = %+v", second)
	}

	cur, err := uc.Current(ctx, lender)
	if err != nil || cur.ID != second.ID || len(cur.Regions) != 0 {
		t.Fatalf("Current = %+v / %v", cur, err)
	}

	active, err := stores.Criteria.ListActive(ctx)
	if err != nil || len(active) != 1 {
		t.Fatalf("active rows = %d / %v", len(active), err)
	}
}

func TestReplace_InvalidLeavesCurrentUntouched(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()
	if _, err := uc.Replace(ctx, lender, input()); err != nil {
		t.Fatalf("seed Replace: %v", err)
	}

	bad := input()
	bad.MinAmount = 2_000_000
	bad.LTVMax = 0
	_, err := uc.Replace(ctx, lender, bad)
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) || len(ve.Violations) != 2 {
		t.Fatalf("want 2 violations, got %v", err)
	}

	cur, err := uc.Current(ctx, lender)
	if err != nil || cur.Version != 1 {
		t.Fatalf("current changed after rejected replace: %+v / %v", cur, err)
	}
}

func TestReplace_RoleAndMissing(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()
	broker := access.Principal{AccountID: "b", Role: account.RoleBroker}

	if _, err := uc.Replace(ctx, broker, input()); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("broker replace: want forbidden, got %v", err)
	}
	if _, err := uc.Current(ctx, broker); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("broker current: want forbidden, got %v", err)
	}
	if _, err := uc.Current(ctx, lender); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("no criteria yet: want not found, got %v", err)
	}
	ghost := access.Principal{AccountID: "ghost", Role: account.RoleLender}
	if _, err := uc.Replace(ctx, ghost, input()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown account: want not found, got %v", err)
	}
}

func TestReplace_ConcurrentKeepsOneActive(t *testing.T) {
	uc, stores := newFixture(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Replace(ctx, lender, input())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Replace: %v", err)
		}
	}

	active, err := stores.Criteria.ListActive(ctx)
	if err != nil || len(active) != 1 {
		t.Fatalf("active rows = %d / %v", len(active), err)
	}
	if active[0].Version != n {
		t.Fatalf("active version = %d, want %d", active[0].Version, n)
	}
}
