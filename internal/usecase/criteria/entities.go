package criteria

import "time"

type ReplaceCriteriaInput struct {
	LoanTypes      []string
	MinAmount      float64
	MaxAmount      float64
	Regions        []string
	CreditScoreMin int
	LTVMax         float64
}

type CriteriaDTO struct {
	ID             string    `json:"id"`
	LenderID       string    `json:"lender_id"`
	Version        int       `json:"version"`
	LoanTypes      []string  `json:"loan_types"`
	MinAmount      float64   `json:"min_amount"`
	MaxAmount      float64   `json:"max_amount"`
	Regions        []string  `json:"regions"`
	CreditScoreMin int       `json:"credit_score_min"`
	LTVMax         float64   `json:"ltv_max"`
	CreatedAt      time.Time `json:"created_at"`
}
