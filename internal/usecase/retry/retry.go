// Package retry re-runs transactional usecase steps that lost a write race.
package retry

import (
	"context"
	"errors"
	"time"

	"dealmatch-backend/internal/domain/apperr"

	"go.uber.org/zap"
)

// Policy bounds how often a conflicting transaction is re-run.
type Policy struct {
	Attempts int
	Backoff  time.Duration
}

// OnConflict runs fn until it succeeds, fails with something other than
// apperr.ErrConflict, or the attempts are used up. The backoff grows linearly
// per attempt. A non-positive Attempts runs fn once.
func (p Policy) OnConflict(ctx context.Context, log *zap.Logger, op string, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(); !errors.Is(err, apperr.ErrConflict) {
			return err
		}
		if i == attempts {
			break
		}
		log.Warn("write conflict, retrying", zap.String("op", op), zap.Int("attempt", i), zap.Error(err))
		select {
		case <-ctx.Done():
			return errors.Join(apperr.ErrUnavailable, ctx.Err())
		case <-time.After(time.Duration(i) * p.Backoff):
		}
	}
	return err
}
