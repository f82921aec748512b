package criteria

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"dealmatch-backend/internal/domain/apperr"
	"dealmatch-backend/internal/domain/money"
	"dealmatch-backend/internal/domain/deal"
)

var ErrNotFound = fmt.Errorf("criteria %w", apperr.ErrNotFound)

// Criteria is a versioned record. The active version per lender is the one with
// SupersededAt == nil; replacing criteria supersedes it and inserts version+1.
type Criteria struct {
	ID             string          `gorm:"column:id;primaryKey;size:32"`
	LenderID       string          `gorm:"column:lender_id;size:32;not null;uniqueIndex:ux_criteria_lender_version"`
	Version        int             `gorm:"column:version;not null;uniqueIndex:ux_criteria_lender_version"`
	LoanTypes      []deal.LoanType `gorm:"column:loan_types;serializer:json;type:text;not null"`
	MinAmount      float64         `gorm:"column:min_amount;type:decimal(18,2);not null"`
	MaxAmount      float64         `gorm:"column:max_amount;type:decimal(18,2);not null"`
	Regions        []string        `gorm:"column:regions;serializer:json;type:text;not null"`
	CreditScoreMin int             `gorm:"column:credit_score_min;not null"`
	LTVMax         float64         `gorm:"column:ltv_max;type:decimal(6,4);not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	SupersededAt   *time.Time      `gorm:"column:superseded_at;index"`
}

func (Criteria) TableName() string { return "lender_criteria" }

func (c *Criteria) Active() bool { return c.SupersededAt == nil }

// Normalize dedupes loan types and regions. Regions are trimmed; the original
// casing of the first occurrence is kept for display.
func (c *Criteria) Normalize() {
	seenType := map[deal.LoanType]bool{}
	types := make([]deal.LoanType, 0, len(c.LoanTypes))
	for _, t := range c.LoanTypes {
		t = deal.LoanType(strings.ToLower(strings.TrimSpace(string(t))))
		if !seenType[t] {
			seenType[t] = true
			types = append(types, t)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	c.LoanTypes = types

	seenRegion := map[string]bool{}
	regions := make([]string, 0, len(c.Regions))
	for _, r := range c.Regions {
		r = strings.TrimSpace(r)
		key := strings.ToLower(r)
		if !seenRegion[key] {
			seenRegion[key] = true
			regions = append(regions, r)
		}
	}
	c.Regions = regions
}

func (c *Criteria) Validate() error {
	ve := &apperr.ValidationError{}
	for _, t := range c.LoanTypes {
		if !t.Valid() {
			ve.Add("loan_types", fmt.Sprintf("unknown loan type %q", t))
			break
		}
	}
	if math.IsNaN(c.MinAmount) || c.MinAmount < 0 {
		ve.Add("min_amount", "must be 0 or greater")
	} else if msg := money.AmountViolation(c.MinAmount); msg != "" {
		ve.Add("min_amount", msg)
	}
	if math.IsNaN(c.MaxAmount) || math.IsInf(c.MaxAmount, 0) || c.MaxAmount <= 0 {
		ve.Add("max_amount", "must be greater than 0")
	} else if msg := money.AmountViolation(c.MaxAmount); msg != "" {
		ve.Add("max_amount", msg)
	} else if c.MinAmount > c.MaxAmount {
		ve.Add("max_amount", "must be greater than or equal to min_amount")
	}
	for _, r := range c.Regions {
		if strings.TrimSpace(r) == "" {
			ve.Add("regions", "must not contain blank entries")
			break
		}
	}
	if c.CreditScoreMin < 0 || c.CreditScoreMin > deal.MaxCreditScore {
		ve.Add("credit_score_min", fmt.Sprintf("must be between 0 and %d", deal.MaxCreditScore))
	}
	if math.IsNaN(c.LTVMax) || c.LTVMax <= 0 || c.LTVMax > 1 {
		ve.Add("ltv_max", "must be in (0, 1]")
	} else if msg := money.RatioViolation(c.LTVMax); msg != "" {
		ve.Add("ltv_max", msg)
	}
	return ve.OrNil()
}
