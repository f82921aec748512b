package account

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"dealmatch-backend/internal/domain/apperr"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = fmt.Errorf("account %w", apperr.ErrNotFound)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
)

type Role string

const (
	RoleBroker Role = "broker"
	RoleLender Role = "lender"
)

func (r Role) Valid() bool { return r == RoleBroker || r == RoleLender }

// Table: accounts. Deactivation is a soft delete; rows are never removed while
// deals, criteria or interests reference them.
type Account struct {
	ID           string         `gorm:"column:id;primaryKey;size:32"`
	Role         Role           `gorm:"column:role;type:varchar(16);not null"`
	Email        string         `gorm:"column:email;size:255;not null;uniqueIndex:ux_accounts_email"`
	DisplayName  string         `gorm:"column:display_name;size:255;not null"`
	PasswordHash string         `gorm:"column:password_hash;size:72;not null"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Account) TableName() string { return "accounts" }

// NormalizeEmail lower-cases and trims so uniqueness is case-insensitive.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Validate checks the registration fields. The credential hash is set by the caller.
func (a *Account) Validate() error {
	ve := &apperr.ValidationError{}
	if !a.Role.Valid() {
		ve.Add("role", "must be one of broker, lender")
	}
	if addr, err := mail.ParseAddress(a.Email); err != nil || addr.Address != a.Email || a.Email != NormalizeEmail(a.Email) {
		ve.Add("email", "must be a valid lower-case email address")
	}
	if strings.TrimSpace(a.DisplayName) == "" {
		ve.Add("display_name", "is required")
	}
	return ve.OrNil()
}
