package matching

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"dealmatch-backend/internal/domain/criteria"
	"dealmatch-backend/internal/domain/deal"
)

func scenarioDeal() *deal.Deal {
	return &deal.Deal{
		ID:                  "d1",
		LoanType:            deal.LoanResidential,
		Amount:              300_000,
		Region:              "CA",
		BorrowerCreditScore: 720,
		LTVRatio:            0.75,
		Status:              deal.StatusOpen,
	}
}

func scenarioCriteria() *criteria.Criteria {
	return &criteria.Criteria{
		LenderID:       "l1",
		LoanTypes:      []deal.LoanType{deal.LoanResidential},
		MinAmount:      200_000,
		MaxAmount:      400_000,
		Regions:        []string{"CA"},
		CreditScoreMin: 680,
		LTVMax:         0.8,
	}
}

// permissive criteria accept any valid deal, so each filter can be exercised alone.
func permissive() *criteria.Criteria {
	return &criteria.Criteria{
		LoanTypes: []deal.LoanType{deal.LoanResidential, deal.LoanCommercial, deal.LoanConstruction, deal.LoanRefinance},
		MinAmount: 0,
		MaxAmount: 1e12,
		Regions:   nil,
		LTVMax:    1,
	}
}

func TestScenario1_Eligible(t *testing.T) {
	if !Eligible(scenarioDeal(), scenarioCriteria()) {
		t.Fatalf("scenario 1 should match, failed filters: %v", Check(scenarioDeal(), scenarioCriteria()))
	}
}

func TestScenario2_RegionMismatch(t *testing.T) {
	c := scenarioCriteria()
	c.Regions = []string{"NY"}
	if Eligible(scenarioDeal(), c) {
		t.Fatal("scenario 2 must not match")
	}
	if got := Check(scenarioDeal(), c); !reflect.DeepEqual(got, []Filter{FilterRegion}) {
		t.Fatalf("Check = %v, want [region]", got)
	}
	if feed := Feed([]deal.Deal{*scenarioDeal()}, c); len(feed) != 0 {
		t.Fatalf("feed should be empty, got %d", len(feed))
	}
}

func TestNilInputsNeverMatch(t *testing.T) {
	if Eligible(nil, scenarioCriteria()) || Eligible(scenarioDeal(), nil) {
		t.Fatal("nil deal or criteria must not match")
	}
}

// Each property varies one filter while the other four are held at trivially passing values.

func TestProperty_LoanType(t *testing.T) {
	types := []deal.LoanType{deal.LoanResidential, deal.LoanCommercial, deal.LoanConstruction, deal.LoanRefinance}
	for mask := 0; mask < 1<<len(types); mask++ {
		c := permissive()
		c.LoanTypes = nil
		for i, lt := range types {
			if mask&(1<<i) != 0 {
				c.LoanTypes = append(c.LoanTypes, lt)
			}
		}
		for i, lt := range types {
			d := scenarioDeal()
			d.LoanType = lt
			want := mask&(1<<i) != 0
			if got := Eligible(d, c); got != want {
				t.Fatalf("loan type %s with set %v: got %v want %v", lt, c.LoanTypes, got, want)
			}
		}
	}
}

func TestProperty_EmptyLoanTypesFailClosed(t *testing.T) {
	c := permissive()
	c.LoanTypes = []deal.LoanType{}
	if Eligible(scenarioDeal(), c) {
		t.Fatal("empty loan type set must not match anything")
	}
}

func TestProperty_Amount(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		c := permissive()
		c.MinAmount = float64(r.Intn(1_000_000))
		c.MaxAmount = c.MinAmount + float64(r.Intn(1_000_000))
		d := scenarioDeal()
		d.Amount = float64(1 + r.Intn(2_500_000))
		want := c.MinAmount <= d.Amount && d.Amount <= c.MaxAmount
		if got := Eligible(d, c); got != want {
			t.Fatalf("amount %.0f in [%.0f,%.0f]: got %v want %v", d.Amount, c.MinAmount, c.MaxAmount, got, want)
		}
	}
	// inclusive bounds
	c := permissive()
	c.MinAmount, c.MaxAmount = 300_000, 300_000
	if !Eligible(scenarioDeal(), c) {
		t.Fatal("amount bounds are inclusive")
	}
}

func TestProperty_Region(t *testing.T) {
	cases := []struct {
		region  string
		regions []string
		want    bool
	}{
		{"CA", nil, true},
		{"CA", []string{}, true},
		{"CA", []string{"CA"}, true},
		{"  ca ", []string{"CA"}, true},
		{"CA", []string{" california", "ca "}, true},
		{"California", []string{"CA"}, false},
		{"CA", []string{"NY", "TX"}, false},
	}
	for _, tc := range cases {
		c := permissive()
		c.Regions = tc.regions
		d := scenarioDeal()
		d.Region = tc.region
		if got := Eligible(d, c); got != tc.want {
			t.Errorf("region %q in %v: got %v want %v", tc.region, tc.regions, got, tc.want)
		}
	}
}

func TestProperty_CreditScore(t *testing.T) {
	for min := 0; min <= 850; min += 10 {
		for score := 300; score <= 850; score += 25 {
			c := permissive()
			c.CreditScoreMin = min
			d := scenarioDeal()
			d.BorrowerCreditScore = score
			if got, want := Eligible(d, c), score >= min; got != want {
				t.Fatalf("score %d min %d: got %v want %v", score, min, got, want)
			}
		}
	}
}

func TestProperty_LTV(t *testing.T) {
	for max := 1; max <= 100; max++ {
		for ltv := 1; ltv <= 100; ltv += 3 {
			c := permissive()
			c.LTVMax = float64(max) / 100
			d := scenarioDeal()
			d.LTVRatio = float64(ltv) / 100
			if got, want := Eligible(d, c), ltv <= max; got != want {
				t.Fatalf("ltv %.2f max %.2f: got %v want %v", d.LTVRatio, c.LTVMax, got, want)
			}
		}
	}
}

func TestEligibleAgreesWithCheck(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	types := []deal.LoanType{deal.LoanResidential, deal.LoanCommercial}
	for i := 0; i < 1000; i++ {
		d := scenarioDeal()
		d.LoanType = types[r.Intn(2)]
		d.Amount = float64(100_000 + r.Intn(400_000))
		d.BorrowerCreditScore = 600 + r.Intn(200)
		d.LTVRatio = float64(50+r.Intn(50)) / 100
		c := scenarioCriteria()
		if Eligible(d, c) != (len(Check(d, c)) == 0) {
			t.Fatalf("Eligible and Check disagree for %+v", d)
		}
	}
}

func TestFeed_OrderAndDeterminism(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id string, at time.Time, region string) deal.Deal {
		d := *scenarioDeal()
		d.ID, d.CreatedAt, d.Region = id, at, region
		return d
	}
	in := []deal.Deal{
		mk("b", base, "CA"),
		mk("c", base.Add(time.Hour), "CA"),
		mk("a", base, "CA"),
		mk("z", base.Add(2*time.Hour), "NY"),
	}
	snapshot := append([]deal.Deal(nil), in...)

	got := Feed(in, scenarioCriteria())
	ids := make([]string, len(got))
	for i := range got {
		ids[i] = got[i].ID
	}
	if want := []string{"c", "a", "b"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("feed ids = %v, want %v", ids, want)
	}
	if !reflect.DeepEqual(in, snapshot) {
		t.Fatal("Feed must not reorder its input")
	}
	if again := Feed(in, scenarioCriteria()); !reflect.DeepEqual(again, got) {
		t.Fatal("Feed must be deterministic")
	}
}

func TestMatchingLenders(t *testing.T) {
	ny := *scenarioCriteria()
	ny.LenderID, ny.Regions = "l2", []string{"NY"}
	anyRegion := *scenarioCriteria()
	anyRegion.LenderID, anyRegion.Regions = "l3", nil

	got := MatchingLenders(scenarioDeal(), []criteria.Criteria{*scenarioCriteria(), ny, anyRegion})
	if want := []string{"l1", "l3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("MatchingLenders = %v, want %v", got, want)
	}
}
