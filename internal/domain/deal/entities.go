package deal

import (
	"fmt"
	"math"
	"strings"
	"time"

	"dealmatch-backend/internal/domain/apperr"
	"dealmatch-backend/internal/domain/money"
)

var (
	ErrNotFound = fmt.Errorf("deal %w", apperr.ErrNotFound)
	ErrClosed   = apperr.ErrDealClosed
)

type LoanType string

const (
	LoanResidential  LoanType = "residential"
	LoanCommercial   LoanType = "commercial"
	LoanConstruction LoanType = "construction"
	LoanRefinance    LoanType = "refinance"
)

func (t LoanType) Valid() bool {
	switch t {
	case LoanResidential, LoanCommercial, LoanConstruction, LoanRefinance:
		return true
	}
	return false
}

type Status string

const (
	StatusOpen    Status = "open"
	StatusMatched Status = "matched"
	StatusClosed  Status = "closed"
)

const (
	MinCreditScore = 300
	MaxCreditScore = 850
)

type Deal struct {
	ID                  string    `gorm:"column:id;primaryKey;size:32"`
	BrokerID            string    `gorm:"column:broker_id;size:32;not null;index:idx_deals_broker"`
	Title               string    `gorm:"column:title;size:255;not null"`
	LoanType            LoanType  `gorm:"column:loan_type;type:varchar(16);not null"`
	Amount              float64   `gorm:"column:amount;type:decimal(18,2);not null"`
	Region              string    `gorm:"column:region;size:128;not null"`
	BorrowerCreditScore int       `gorm:"column:borrower_credit_score;not null"`
	LTVRatio            float64   `gorm:"column:ltv_ratio;type:decimal(6,4);not null"`
	PropertyType        string    `gorm:"column:property_type;size:64;not null"`
	Description         string    `gorm:"column:description;type:text"`
	Status              Status    `gorm:"column:status;type:varchar(16);not null;default:'open';index:idx_deals_status_created"`
	SelectedLenderID    *string   `gorm:"column:selected_lender_id;size:32"`
	StatusUpdatedAt     time.Time `gorm:"column:status_updated_at"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime;index:idx_deals_status_created"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Deal) TableName() string { return "deals" }

// Validate rejects out-of-range financial fields; nothing is clamped.
func (d *Deal) Validate() error {
	ve := &apperr.ValidationError{}
	if strings.TrimSpace(d.Title) == "" {
		ve.Add("title", "is required")
	}
	if !d.LoanType.Valid() {
		ve.Add("loan_type", "must be one of residential, commercial, construction, refinance")
	}
	if math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) || d.Amount <= 0 {
		ve.Add("amount", "must be greater than 0")
	} else if msg := money.AmountViolation(d.Amount); msg != "" {
		ve.Add("amount", msg)
	}
	if strings.TrimSpace(d.Region) == "" {
		ve.Add("region", "is required")
	}
	if d.BorrowerCreditScore < MinCreditScore || d.BorrowerCreditScore > MaxCreditScore {
		ve.Add("borrower_credit_score", fmt.Sprintf("must be between %d and %d", MinCreditScore, MaxCreditScore))
	}
	if math.IsNaN(d.LTVRatio) || d.LTVRatio <= 0 || d.LTVRatio > 1 {
		ve.Add("ltv_ratio", "must be in (0, 1]")
	} else if msg := money.RatioViolation(d.LTVRatio); msg != "" {
		ve.Add("ltv_ratio", msg)
	}
	if strings.TrimSpace(d.PropertyType) == "" {
		ve.Add("property_type", "is required")
	}
	return ve.OrNil()
}

func (d *Deal) Closed() bool { return d.Status == StatusClosed }

// MarkMatched moves an open deal to matched and reports whether it changed.
// Matched and closed deals are left alone.
func (d *Deal) MarkMatched(now time.Time) bool {
	if d.Status != StatusOpen {
		return false
	}
	d.Status = StatusMatched
	d.StatusUpdatedAt = now
	return true
}

// SelectLender records which interested lender the broker is working with.
// The choice may change until the deal closes and leaves the status alone.
// It reports whether the selection changed.
func (d *Deal) SelectLender(lenderID string) (bool, error) {
	if d.Closed() {
		return false, ErrClosed
	}
	if d.IsSelected(lenderID) {
		return false, nil
	}
	d.SelectedLenderID = &lenderID
	return true, nil
}

func (d *Deal) IsSelected(lenderID string) bool {
	return d.SelectedLenderID != nil && *d.SelectedLenderID == lenderID
}

// Close is terminal. Closing a closed deal reports false without error.
func (d *Deal) Close(now time.Time) bool {
	if d.Status == StatusClosed {
		return false
	}
	d.Status = StatusClosed
	d.StatusUpdatedAt = now
	return true
}
