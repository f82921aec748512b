package deal

import (
	"context"
	"errors"
	"testing"
	"time"

	"dealmatch-backend/internal/domain/access"
	"dealmatch-backend/internal/domain/account"
	"dealmatch-backend/internal/domain/apperr"
	"dealmatch-backend/internal/domain/criteria"
	domain "dealmatch-backend/internal/domain/deal"
	"dealmatch-backend/internal/domain/interest"
	"dealmatch-backend/internal/testutil/testdb"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var (
	brokerA = access.Principal{AccountID: "broker-a", Role: account.RoleBroker}
	brokerB = access.Principal{AccountID: "broker-b", Role: account.RoleBroker}
	lender1 = access.Principal{AccountID: "lender-1", Role: account.RoleLender}
	lender2 = access.Principal{AccountID: "lender-2", Role: account.RoleLender}
)

type countingRecorder struct{ created int }

func (c *countingRecorder) DealCreated() { c.created++ }

type fixture struct {
	uc      *Usecase
	stores  testdb.Stores
	metrics *countingRecorder
	logs    *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stores := testdb.NewStores(testdb.Open(t))
	core, logs := observer.New(zap.InfoLevel)
	rec := &countingRecorder{}
	uc := NewUsecase(stores.Deals, stores.Criteria, stores.Interests, stores.UoW, rec, zap.New(core))
	return &fixture{uc: uc, stores: stores, metrics: rec, logs: logs}
}

func (f *fixture) setCriteria(t *testing.T, lenderID string, regions ...string) {
	t.Helper()
	c := &criteria.Criteria{
		ID:             lenderID + "-c1",
		LenderID:       lenderID,
		Version:        1,
		LoanTypes:      []domain.LoanType{domain.LoanResidential},
		MinAmount:      100_000,
		MaxAmount:      1_000_000,
		Regions:        regions,
		CreditScoreMin: 680,
		LTVMax:         0.8,
	}
	if err := f.stores.Criteria.Create(context.Background(), c); err != nil {
		t.Fatalf("seed criteria: %v", err)
	}
}

func (f *fixture) seedDeal(t *testing.T, id, brokerID string, created time.Time, status domain.Status) *domain.Deal {
	t.Helper()
	d := &domain.Deal{
		ID: id, BrokerID: brokerID, Title: "deal " + id,
		LoanType: domain.LoanResidential, Amount: 500_000, Region: "CA",
		BorrowerCreditScore: 720, LTVRatio: 0.75, PropertyType: "sfr",
		Status: status, StatusUpdatedAt: created, CreatedAt: created,
	}
	if err := f.stores.Deals.Create(context.Background(), d); err != nil {
		t.Fatalf("seed deal: %v", err)
	}
	return d
}

func validInput() CreateDealInput {
	return CreateDealInput{
		Title: "Bay Area SFR", LoanType: "residential", Amount: 500_000, Region: "CA",
		BorrowerCreditScore: 720, LTVRatio: 0.75, PropertyType: "single_family",
	}
}

func TestCreate_StoresOpenDealAndLogsMatches(t *testing.T) {
	f := newFixture(t)
	f.setCriteria(t, lender1.AccountID, "CA", "TX")
	f.setCriteria(t, lender2.AccountID, "NY")

	dto, err := f.uc.Create(context.Background(), brokerA, validInput())
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if dto.Status != "open" || dto.BrokerID != brokerA.AccountID || len(dto.ID) != 32 {
		t.Fatalf("unexpected dto %+v", dto)
	}
	if f.metrics.created != 1 {
		t.Fatalf("DealCreated calls = %d", f.metrics.created)
	}
	entries := f.logs.FilterMessage("deal created").All()
	if len(entries) != 1 {
		t.Fatalf("want one creation log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["matching_lenders"]; got != int64(1) {
		t.Fatalf("matching_lenders = %v, want 1", got)
	}
}

func TestCreate_RejectsInvalidAndWrongRole(t *testing.T) {
	f := newFixture(t)

	in := validInput()
	in.Amount = 0
	in.LTVRatio = 1.2
	_, err := f.uc.Create(context.Background(), brokerA, in)
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) || len(ve.Violations) != 2 {
		t.Fatalf("want 2 violations, got %v", err)
	}

	if _, err := f.uc.Create(context.Background(), lender1, validInput()); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("lender create: want forbidden, got %v", err)
	}
	if _, err := f.uc.Create(context.Background(), access.Principal{}, validInput()); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("anonymous create: want unauthorized, got %v", err)
	}
	if f.metrics.created != 0 {
		t.Fatal("rejected creates must not be counted")
	}
}

func TestListMine_OwnDealsWithInterestCounts(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()
	d1 := f.seedDeal(t, "d1", brokerA.AccountID, now.Add(-2*time.Hour), domain.StatusOpen)
	f.seedDeal(t, "d2", brokerA.AccountID, now.Add(-time.Hour), domain.StatusOpen)
	f.seedDeal(t, "d3", brokerB.AccountID, now, domain.StatusOpen)

	for _, l := range []string{"l1", "l2"} {
		err := f.stores.Interests.Create(context.Background(), &interest.Interest{
			ID: d1.ID + l, DealID: d1.ID, LenderID: l, InterestType: interest.TypeFull,
		})
		if err != nil {
			t.Fatalf("seed interest: %v", err)
		}
	}

	got, err := f.uc.ListMine(context.Background(), brokerA)
	if err != nil {
		t.Fatalf("ListMine err: %v", err)
	}
	if len(got) != 2 || got[0].ID != "d2" || got[1].ID != "d1" {
		t.Fatalf("unexpected list %+v", got)
	}
	if got[0].InterestCount != 0 || got[1].InterestCount != 2 {
		t.Fatalf("counts = %d,%d", got[0].InterestCount, got[1].InterestCount)
	}
}

func TestGet_AccessMasking(t *testing.T) {
	f := newFixture(t)
	f.seedDeal(t, "d1", brokerA.AccountID, time.Now().UTC(), domain.StatusOpen)
	f.setCriteria(t, lender1.AccountID, "ca")
	f.setCriteria(t, lender2.AccountID, "NY")

	cases := []struct {
		name    string
		p       access.Principal
		id      string
		wantErr error
	}{
		{"owner", brokerA, "d1", nil},
		{"other broker", brokerB, "d1", apperr.ErrNotFound},
		{"eligible lender", lender1, "d1", nil},
		{"ineligible lender", lender2, "d1", apperr.ErrNotFound},
		{"lender without criteria", access.Principal{AccountID: "lender-3", Role: account.RoleLender}, "d1", apperr.ErrNotFound},
		{"missing deal", brokerA, "nope", apperr.ErrNotFound},
		{"anonymous", access.Principal{}, "d1", apperr.ErrUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dto, err := f.uc.Get(context.Background(), tc.p, tc.id)
			if tc.wantErr == nil {
				if err != nil || dto.ID != tc.id {
					t.Fatalf("want deal, got %+v / %v", dto, err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestClose_OwnerOnlyAndRepeatable(t *testing.T) {
	f := newFixture(t)
	f.seedDeal(t, "d1", brokerA.AccountID, time.Now().UTC(), domain.StatusMatched)
	ctx := context.Background()

	if _, err := f.uc.Close(ctx, brokerB, "d1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("non-owner close: want not found, got %v", err)
	}
	if _, err := f.uc.Close(ctx, lender1, "d1"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("lender close: want forbidden, got %v", err)
	}

	first, err := f.uc.Close(ctx, brokerA, "d1")
	if err != nil || first.Status != "closed" {
		t.Fatalf("close: %+v / %v", first, err)
	}
	second, err := f.uc.Close(ctx, brokerA, "d1")
	if err != nil || second.Status != "closed" {
		t.Fatalf("second close must be a no-op: %+v / %v", second, err)
	}
	if n := len(f.logs.FilterMessage("deal closed").All()); n != 1 {
		t.Fatalf("want one close log, got %d", n)
	}

	stored, _ := f.stores.Deals.GetByID(ctx, "d1")
	if !stored.Closed() {
		t.Fatalf("stored status = %s", stored.Status)
	}
}

func TestInterests_OwnerSeesLenders(t *testing.T) {
	f := newFixture(t)
	f.seedDeal(t, "d1", brokerA.AccountID, time.Now().UTC(), domain.StatusMatched)
	amt := 250_000.0
	if err := f.stores.Interests.Create(context.Background(), &interest.Interest{
		ID: "i1", DealID: "d1", LenderID: lender1.AccountID, InterestType: interest.TypePartial, Amount: &amt,
	}); err != nil {
		t.Fatalf("seed interest: %v", err)
	}

	got, err := f.uc.Interests(context.Background(), brokerA, "d1")
	if err != nil || len(got) != 1 || got[0].LenderID != lender1.AccountID || *got[0].Amount != amt {
		t.Fatalf("Interests: %+v / %v", got, err)
	}
	if _, err := f.uc.Interests(context.Background(), brokerB, "d1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("non-owner: want not found, got %v", err)
	}
}

func TestFeed_FiltersAndOrders(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f.seedDeal(t, "b-old", brokerA.AccountID, base, domain.StatusOpen)
	f.seedDeal(t, "a-new", brokerA.AccountID, base.Add(time.Hour), domain.StatusMatched)
	f.seedDeal(t, "c-new", brokerB.AccountID, base.Add(time.Hour), domain.StatusOpen)
	f.seedDeal(t, "closed", brokerB.AccountID, base.Add(2*time.Hour), domain.StatusClosed)
	f.setCriteria(t, lender1.AccountID)

	got, err := f.uc.Feed(context.Background(), lender1)
	if err != nil {
		t.Fatalf("Feed err: %v", err)
	}
	want := []string{"a-new", "c-new", "b-old"}
	if len(got) != len(want) {
		t.Fatalf("feed = %+v", got)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("feed[%d] = %s, want %s", i, got[i].ID, id)
		}
	}

	empty, err := f.uc.Feed(context.Background(), lender2)
	if err != nil || len(empty) != 0 {
		t.Fatalf("lender without criteria: %+v / %v", empty, err)
	}
	if _, err := f.uc.Feed(context.Background(), brokerA); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("broker feed: want forbidden, got %v", err)
	}
}

func TestSelectLender_RequiresInterestAndOpenDeal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDeal(t, "d1", brokerA.AccountID, time.Now().UTC(), domain.StatusMatched)
	f.setCriteria(t, lender1.AccountID, "CA")
	f.setCriteria(t, lender2.AccountID, "CA")
	if err := f.stores.Interests.Create(ctx, &interest.Interest{
		ID: "i1", DealID: "d1", LenderID: lender1.AccountID, InterestType: interest.TypeFull,
	}); err != nil {
		t.Fatalf("seed interest: %v", err)
	}

	if _, err := f.uc.SelectLender(ctx, lender1, "d1", lender1.AccountID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("lender selecting: want forbidden, got %v", err)
	}
	if _, err := f.uc.SelectLender(ctx, brokerB, "d1", lender1.AccountID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("non-owner: want not found, got %v", err)
	}
	var ve *apperr.ValidationError
	if _, err := f.uc.SelectLender(ctx, brokerA, "d1", lender2.AccountID); !errors.As(err, &ve) || ve.Violations[0].Field != "lender_id" {
		t.Fatalf("lender without interest: want lender_id violation, got %v", err)
	}

	got, err := f.uc.SelectLender(ctx, brokerA, "d1", lender1.AccountID)
	if err != nil || got.SelectedLenderID == nil || *got.SelectedLenderID != lender1.AccountID {
		t.Fatalf("select: %+v / %v", got, err)
	}
	if got.Status != "matched" {
		t.Fatalf("selection changed status to %s", got.Status)
	}
	if f.logs.FilterMessage("lender selected").Len() != 1 {
		t.Fatal("selection not logged")
	}

	// only the selected lender learns who was selected
	if mine, err := f.uc.Get(ctx, lender1, "d1"); err != nil || mine.SelectedLenderID == nil {
		t.Fatalf("selected lender view: %+v / %v", mine, err)
	}
	if other, err := f.uc.Get(ctx, lender2, "d1"); err != nil || other.SelectedLenderID != nil {
		t.Fatalf("other lender view leaks selection: %+v / %v", other, err)
	}

	if _, err := f.uc.Close(ctx, brokerA, "d1"); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := f.uc.SelectLender(ctx, brokerA, "d1", lender1.AccountID); !errors.Is(err, apperr.ErrDealClosed) {
		t.Fatalf("closed deal: want DealClosed, got %v", err)
	}
}
