package deal

import "time"

type CreateDealInput struct {
	Title               string
	LoanType            string
	Amount              float64
	Region              string
	BorrowerCreditScore int
	LTVRatio            float64
	PropertyType        string
	Description         string
}

type DealDTO struct {
	ID                  string    `json:"id"`
	BrokerID            string    `json:"broker_id"`
	Title               string    `json:"title"`
	LoanType            string    `json:"loan_type"`
	Amount              float64   `json:"amount"`
	Region              string    `json:"region"`
	BorrowerCreditScore int       `json:"borrower_credit_score"`
	LTVRatio            float64   `json:"ltv_ratio"`
	PropertyType        string    `json:"property_type"`
	Description         string    `json:"description"`
	Status              string    `json:"status"`
	SelectedLenderID    *string   `json:"selected_lender_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// forLender hides which lender was selected unless it is the viewer.
func (d DealDTO) forLender(lenderID string) DealDTO {
	if d.SelectedLenderID != nil && *d.SelectedLenderID != lenderID {
		d.SelectedLenderID = nil
	}
	return d
}

// BrokerDealDTO is a broker's own deal with the number of lenders interested.
type BrokerDealDTO struct {
	DealDTO
	InterestCount int64 `json:"interest_count"`
}

type InterestDTO struct {
	ID           string    `json:"id"`
	DealID       string    `json:"deal_id"`
	LenderID     string    `json:"lender_id"`
	InterestType string    `json:"interest_type"`
	Amount       *float64  `json:"amount,omitempty"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
