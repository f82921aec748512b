package message

import "time"

type SendInput struct {
	DealID string
	Body   string
}

type MessageDTO struct {
	ID         string    `json:"id"`
	DealID     string    `json:"deal_id"`
	SenderID   string    `json:"sender_id"`
	SenderRole string    `json:"sender_role"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}
