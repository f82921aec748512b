package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"dealmatch-backend/internal/domain/access"
	"dealmatch-backend/internal/domain/account"
	"dealmatch-backend/internal/domain/apperr"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type TokenVerifier interface {
	Verify(token string) (access.Principal, error)
}

type AccountLookup interface {
	GetByID(ctx context.Context, id string) (*account.Account, error)
}

// Auth resolves the bearer token to a Principal and stores it in the request
// context. The account is re-read on every request so deactivated accounts
// stop authenticating immediately, whatever their token's expiry.
func Auth(tokens TokenVerifier, accounts AccountLookup, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="dealmatch"`)
				return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			}
			p, err := tokens.Verify(raw)
			if err != nil {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer error="invalid_token"`)
				return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			}

			a, err := accounts.GetByID(c.Request().Context(), p.AccountID)
			switch {
			case errors.Is(err, apperr.ErrNotFound):
				return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "account is not active")
			case errors.Is(err, apperr.ErrUnavailable):
				return fail(c, http.StatusServiceUnavailable, "UNAVAILABLE", "account store unavailable")
			case err != nil:
				log.Error("principal lookup failed", zap.String("account_id", p.AccountID), zap.Error(err))
				return fail(c, http.StatusInternalServerError, "INTERNAL", "internal error")
			}
			if a.Role != p.Role {
				return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "token role does not match account")
			}

			c.SetRequest(c.Request().WithContext(access.WithPrincipal(c.Request().Context(), p)))
			return next(c)
		}
	}
}

func bearer(h string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
