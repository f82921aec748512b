package message

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"dealmatch-backend/internal/domain/account"
	"dealmatch-backend/internal/domain/apperr"
)

const MaxBodyLen = 5000

// Message is one entry in a deal's thread between the owner broker and the
// selected lender. Messages are append-only.
type Message struct {
	ID         string       `gorm:"column:id;primaryKey;size:32"`
	DealID     string       `gorm:"column:deal_id;size:32;not null;index:idx_messages_deal_created"`
	SenderID   string       `gorm:"column:sender_id;size:32;not null"`
	SenderRole account.Role `gorm:"column:sender_role;type:varchar(16);not null"`
	Body       string       `gorm:"column:body;type:text;not null"`
	CreatedAt  time.Time    `gorm:"column:created_at;index:idx_messages_deal_created"`
}

func (Message) TableName() string { return "deal_messages" }

func (m *Message) Validate() error {
	switch {
	case strings.TrimSpace(m.Body) == "":
		return apperr.Invalid("body", "is required")
	case utf8.RuneCountInString(m.Body) > MaxBodyLen:
		return apperr.Invalid("body", fmt.Sprintf("must be at most %d characters", MaxBodyLen))
	}
	return nil
}
