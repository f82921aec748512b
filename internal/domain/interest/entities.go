package interest

import (
	"fmt"
	"math"
	"time"

	"dealmatch-backend/internal/domain/apperr"
	"dealmatch-backend/internal/domain/money"
)

var ErrNotFound = fmt.Errorf("interest %w", apperr.ErrNotFound)

type Type string

const (
	TypeFull    Type = "full"
	TypePartial Type = "partial"
)

func (t Type) Valid() bool { return t == TypeFull || t == TypePartial }

// Interest is unique per (deal, lender); a re-submission updates the row.
type Interest struct {
	ID           string    `gorm:"column:id;primaryKey;size:32"`
	DealID       string    `gorm:"column:deal_id;size:32;not null;uniqueIndex:ux_interests_deal_lender"`
	LenderID     string    `gorm:"column:lender_id;size:32;not null;uniqueIndex:ux_interests_deal_lender;index:idx_interests_lender"`
	InterestType Type      `gorm:"column:interest_type;type:varchar(16);not null"`
	Amount       *float64  `gorm:"column:amount;type:decimal(18,2)"`
	Message      string    `gorm:"column:message;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Interest) TableName() string { return "interests" }

// ValidateTerms checks type and amount against the deal's requested amount.
// A partial interest needs an amount in (0, dealAmount]; a full one must not carry one.
func ValidateTerms(t Type, amount *float64, dealAmount float64) error {
	if !t.Valid() {
		return apperr.Invalid("interest_type", "must be one of full, partial")
	}
	switch t {
	case TypePartial:
		if amount == nil {
			return apperr.Invalid("amount", "is required for partial interest")
		}
		if math.IsNaN(*amount) || *amount <= 0 || *amount > dealAmount {
			return apperr.Invalid("amount", "must be greater than 0 and at most the deal amount")
		}
		if msg := money.AmountViolation(*amount); msg != "" {
			return apperr.Invalid("amount", msg)
		}
	case TypeFull:
		if amount != nil {
			return apperr.Invalid("amount", "must be omitted for full interest")
		}
	}
	return nil
}
