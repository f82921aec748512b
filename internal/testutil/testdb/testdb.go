// Package testdb opens a migrated in-memory sqlite database for usecase and
// handler tests that want the real gorm repositories.
package testdb

import (
	"testing"

	"dealmatch-backend/internal/adapter/repository/mysql"
	"dealmatch-backend/internal/domain/uow"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh database closed at test cleanup. It is capped at one
// connection, so a transaction blocks every other query until it finishes.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := mysql.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Stores bundles the gorm repositories and unit of work over one database.
type Stores struct {
	uow.Repos
	Messages *mysql.MessageRepository
	UoW      *mysql.GormUoW
}

func NewStores(db *gorm.DB) Stores {
	return Stores{
		Repos: uow.Repos{
			Accounts:  mysql.NewAccountRepository(db, 0),
			Deals:     mysql.NewDealRepository(db, 0),
			Criteria:  mysql.NewCriteriaRepository(db, 0),
			Interests: mysql.NewInterestRepository(db, 0),
		},
		Messages: mysql.NewMessageRepository(db, 0),
		UoW:      mysql.NewGormUoW(db, 0),
	}
}
