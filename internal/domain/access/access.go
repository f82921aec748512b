// Package access is the authorization boundary between brokers and lenders.
// Every core operation receives a Principal resolved from the caller's bearer
// credential; the checks here run before any repository mutation.
package access

import (
	"context"
	"fmt"

	"dealmatch-backend/internal/domain/account"
	"dealmatch-backend/internal/domain/apperr"
	"dealmatch-backend/internal/domain/criteria"
	"dealmatch-backend/internal/domain/deal"
	"dealmatch-backend/internal/domain/matching"
)

type Principal struct {
	AccountID string
	Role      account.Role
}

func (p Principal) IsBroker() bool { return p.Role == account.RoleBroker }
func (p Principal) IsLender() bool { return p.Role == account.RoleLender }

// Require fails Unauthorized for an unresolved principal and Forbidden for the wrong role.
func Require(p Principal, role account.Role) error {
	if p.AccountID == "" || !p.Role.Valid() {
		return apperr.ErrUnauthorized
	}
	if p.Role != role {
		return fmt.Errorf("%s role required: %w", role, apperr.ErrForbidden)
	}
	return nil
}

// RequireAny only checks that the principal is resolved.
func RequireAny(p Principal) error {
	if p.AccountID == "" || !p.Role.Valid() {
		return apperr.ErrUnauthorized
	}
	return nil
}

// BrokerOwns masks other brokers' deals as not found.
func BrokerOwns(p Principal, d *deal.Deal) error {
	if err := Require(p, account.RoleBroker); err != nil {
		return err
	}
	if d == nil || d.BrokerID != p.AccountID {
		return deal.ErrNotFound
	}
	return nil
}

// LenderMayView masks deals that fail the lender's current criteria as not
// found; a lender without criteria, or holding only a superseded version,
// sees nothing.
func LenderMayView(p Principal, d *deal.Deal, c *criteria.Criteria) error {
	if err := Require(p, account.RoleLender); err != nil {
		return err
	}
	if d == nil || c == nil || !c.Active() || c.LenderID != p.AccountID || !matching.Eligible(d, c) {
		return deal.ErrNotFound
	}
	return nil
}

// MayConverse admits the owner broker and the lender the broker selected to a
// deal's message thread; anyone else sees the deal as not found.
func MayConverse(p Principal, d *deal.Deal) error {
	if err := RequireAny(p); err != nil {
		return err
	}
	if d == nil {
		return deal.ErrNotFound
	}
	switch {
	case p.IsBroker() && d.BrokerID == p.AccountID:
		return nil
	case p.IsLender() && d.IsSelected(p.AccountID):
		return nil
	}
	return deal.ErrNotFound
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the principal set by the auth middleware, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
