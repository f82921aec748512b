package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"dealmatch-backend/internal/domain/deal"
	"dealmatch-backend/pkg/id"
)

func makeDeal(brokerID string, createdAt time.Time) *deal.Deal {
	return &deal.Deal{
		ID:                  id.NewID32(),
		BrokerID:            brokerID,
		Title:               "Harbor view condo",
		LoanType:            deal.LoanResidential,
		Amount:              300_000,
		Region:              "CA",
		BorrowerCreditScore: 720,
		LTVRatio:            0.75,
		PropertyType:        "condo",
		Status:              deal.StatusOpen,
		StatusUpdatedAt:     createdAt,
		CreatedAt:           createdAt,
	}
}

func TestDeal_CreateGetSave(t *testing.T) {
	repo := NewDealRepository(openTestDB(t), time.Second)
	ctx := context.Background()

	d := makeDeal("b1", time.Now().UTC())
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Amount != 300_000 || got.LTVRatio != 0.75 || got.Status != deal.StatusOpen {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	got.MarkMatched(time.Now().UTC())
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	locked, err := repo.GetByIDForUpdate(ctx, d.ID)
	if err != nil || locked.Status != deal.StatusMatched {
		t.Fatalf("GetByIDForUpdate = %+v, %v", locked, err)
	}
	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, deal.ErrNotFound) {
		t.Fatalf("missing deal: got %v", err)
	}
}

func TestDeal_ListOrderingAndActive(t *testing.T) {
	repo := NewDealRepository(openTestDB(t), 0)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	older := makeDeal("b1", base)
	newer := makeDeal("b1", base.Add(time.Hour))
	closed := makeDeal("b1", base.Add(2*time.Hour))
	closed.Status = deal.StatusClosed
	foreign := makeDeal("b2", base.Add(3*time.Hour))
	for _, d := range []*deal.Deal{older, newer, closed, foreign} {
		if err := repo.Create(ctx, d); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	mine, err := repo.ListByBroker(ctx, "b1")
	if err != nil {
		t.Fatalf("ListByBroker: %v", err)
	}
	if len(mine) != 3 || mine[0].ID != closed.ID || mine[2].ID != older.ID {
		t.Fatalf("ListByBroker order wrong: %+v", mine)
	}

	active, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("ListActive len = %d, want 3", len(active))
	}
	for _, d := range active {
		if d.Status == deal.StatusClosed {
			t.Fatalf("closed deal in active list: %s", d.ID)
		}
	}
}

func TestDeal_CloseAllByBroker(t *testing.T) {
	repo := NewDealRepository(openTestDB(t), 0)
	ctx := context.Background()
	now := time.Now().UTC()

	a, b, other := makeDeal("b1", now), makeDeal("b1", now), makeDeal("b2", now)
	b.Status = deal.StatusMatched
	for _, d := range []*deal.Deal{a, b, other} {
		if err := repo.Create(ctx, d); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	n, err := repo.CloseAllByBroker(ctx, "b1", now)
	if err != nil || n != 2 {
		t.Fatalf("CloseAllByBroker = %d, %v", n, err)
	}
	if got, _ := repo.GetByID(ctx, other.ID); got.Status != deal.StatusOpen {
		t.Fatalf("other broker's deal touched: %s", got.Status)
	}
	if n, _ := repo.CloseAllByBroker(ctx, "b1", now); n != 0 {
		t.Fatalf("second close changed %d rows", n)
	}
}
