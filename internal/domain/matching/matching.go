// Package matching decides which deals a lender's criteria accept.
//
// Everything here is a pure function of the deal and criteria values passed in,
// so the result computed while building a feed is the same one re-checked when
// the lender submits interest.
package matching

import (
	"sort"
	"strings"

	"dealmatch-backend/internal/domain/criteria"
	"dealmatch-backend/internal/domain/deal"
)

// Filter names one conjunct of the eligibility predicate.
type Filter string

const (
	FilterLoanType    Filter = "loan_type"
	FilterAmount      Filter = "amount"
	FilterRegion      Filter = "region"
	FilterCreditScore Filter = "credit_score"
	FilterLTV         Filter = "ltv"
)

// Eligible reports whether every filter passes. Nil inputs never match.
func Eligible(d *deal.Deal, c *criteria.Criteria) bool {
	if d == nil || c == nil {
		return false
	}
	return loanTypeMatches(d, c) &&
		amountInRange(d, c) &&
		regionMatches(d, c) &&
		creditScoreMeets(d, c) &&
		ltvWithin(d, c)
}

// Check returns the filters that failed, in evaluation order. Used for logging.
func Check(d *deal.Deal, c *criteria.Criteria) []Filter {
	if d == nil || c == nil {
		return []Filter{FilterLoanType, FilterAmount, FilterRegion, FilterCreditScore, FilterLTV}
	}
	var failed []Filter
	if !loanTypeMatches(d, c) {
		failed = append(failed, FilterLoanType)
	}
	if !amountInRange(d, c) {
		failed = append(failed, FilterAmount)
	}
	if !regionMatches(d, c) {
		failed = append(failed, FilterRegion)
	}
	if !creditScoreMeets(d, c) {
		failed = append(failed, FilterCreditScore)
	}
	if !ltvWithin(d, c) {
		failed = append(failed, FilterLTV)
	}
	return failed
}

// An empty loan type set fails closed: lenders opt in explicitly.
func loanTypeMatches(d *deal.Deal, c *criteria.Criteria) bool {
	for _, t := range c.LoanTypes {
		if t == d.LoanType {
			return true
		}
	}
	return false
}

func amountInRange(d *deal.Deal, c *criteria.Criteria) bool {
	return c.MinAmount <= d.Amount && d.Amount <= c.MaxAmount
}

// An empty region set means any region.
func regionMatches(d *deal.Deal, c *criteria.Criteria) bool {
	if len(c.Regions) == 0 {
		return true
	}
	want := NormalizeRegion(d.Region)
	for _, r := range c.Regions {
		if NormalizeRegion(r) == want {
			return true
		}
	}
	return false
}

func creditScoreMeets(d *deal.Deal, c *criteria.Criteria) bool {
	return d.BorrowerCreditScore >= c.CreditScoreMin
}

func ltvWithin(d *deal.Deal, c *criteria.Criteria) bool {
	return d.LTVRatio <= c.LTVMax
}

func NormalizeRegion(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Feed keeps the eligible deals and orders them newest first, ties by id.
// The input slice is not modified.
func Feed(deals []deal.Deal, c *criteria.Criteria) []deal.Deal {
	out := make([]deal.Deal, 0, len(deals))
	for i := range deals {
		if Eligible(&deals[i], c) {
			out = append(out, deals[i])
		}
	}
	SortFeed(out)
	return out
}

func SortFeed(deals []deal.Deal) {
	sort.SliceStable(deals, func(i, j int) bool {
		if !deals[i].CreatedAt.Equal(deals[j].CreatedAt) {
			return deals[i].CreatedAt.After(deals[j].CreatedAt)
		}
		return deals[i].ID < deals[j].ID
	})
}

// MatchingLenders lists the lenders whose criteria accept d.
func MatchingLenders(d *deal.Deal, all []criteria.Criteria) []string {
	var out []string
	for i := range all {
		if Eligible(d, &all[i]) {
			out = append(out, all[i].LenderID)
		}
	}
	return out
}
