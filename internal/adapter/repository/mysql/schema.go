package mysql

import (
	"dealmatch-backend/internal/domain/account"
	"dealmatch-backend/internal/domain/criteria"
	"dealmatch-backend/internal/domain/deal"
	"dealmatch-backend/internal/domain/interest"
	"dealmatch-backend/internal/domain/message"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the repositories use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&account.Account{},
		&deal.Deal{},
		&criteria.Criteria{},
		&interest.Interest{},
		&message.Message{},
	)
}
