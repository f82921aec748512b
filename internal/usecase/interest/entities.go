package interest

import "time"

type SubmitInput struct {
	DealID       string
	InterestType string
	Amount       *float64
	Message      string
}

type InterestDTO struct {
	ID           string    `json:"id"`
	DealID       string    `json:"deal_id"`
	LenderID     string    `json:"lender_id"`
	InterestType string    `json:"interest_type"`
	Amount       *float64  `json:"amount,omitempty"`
	Message      string    `json:"message"`
	DealStatus   string    `json:"deal_status,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SubmitResult tells the caller whether the submission inserted a new row.
type SubmitResult struct {
	Interest InterestDTO
	Created  bool
}
