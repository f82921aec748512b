package auth

import (
	"errors"
	"fmt"
	"time"

	"dealmatch-backend/internal/domain/access"
	"dealmatch-backend/internal/domain/account"
	"dealmatch-backend/internal/domain/apperr"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "dealmatch"

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWT issues and verifies HS256 bearer tokens carrying the account id and role.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	return &JWT{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (j *JWT) Issue(accountID string, role account.Role) (string, time.Time, error) {
	now := j.now().UTC()
	exp := now.Add(j.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := tok.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify returns the principal named by a valid, unexpired token. Every failure
// is reported as apperr.ErrUnauthorized.
func (j *JWT) Verify(token string) (access.Principal, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return j.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return access.Principal{}, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	role := account.Role(c.Role)
	if c.Subject == "" || !role.Valid() {
		return access.Principal{}, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, errors.New("token missing subject or role"))
	}
	return access.Principal{AccountID: c.Subject, Role: role}, nil
}
