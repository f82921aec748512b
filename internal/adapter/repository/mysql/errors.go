package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealmatch-backend/internal/domain/apperr"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const (
	mysqlOutOfRange      = 1264
	mysqlDataTooLong     = 1406
	mysqlDupEntry        = 1062
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// translate maps gorm and driver errors onto the apperr taxonomy. Errors that
// are already classified pass through untouched.
func translate(err error, notFound error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if notFound != nil {
			return notFound
		}
		return apperr.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
	case isDuplicate(err):
		return fmt.Errorf("%w: %v", apperr.ErrConflict, err)
	}

	var me *mysqldrv.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDeadlock:
			return fmt.Errorf("%w: %v", apperr.ErrConflict, err)
		case mysqlLockWaitTimeout:
			return fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
		case mysqlOutOfRange, mysqlDataTooLong:
			// strict mode refuses the row instead of truncating it
			return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
		}
	}

	// sqlite errors only surface as text through gorm
	if strings.Contains(err.Error(), "database is locked") {
		return fmt.Errorf("%w: %v", apperr.ErrConflict, err)
	}
	return err
}

// isDuplicate reports a unique-key violation. Deadlocks also translate to
// ErrConflict, so callers that need to tell the two apart ask here.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDupEntry {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// bound applies the per-call store timeout; 0 disables it.
func bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// conn is the handle every repository queries through. A conn bound to a
// transaction keeps the transaction's own context, which carries the
// STORE_TIMEOUT deadline set when the transaction began.
type conn struct {
	db      *gorm.DB
	timeout time.Duration
	inTx    bool
}

func (c conn) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if c.inTx {
		return c.db, func() {}
	}
	ctx, cancel := bound(ctx, c.timeout)
	return c.db.WithContext(ctx), cancel
}
