package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"dealmatch-backend/internal/domain/access"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"

	// How long we hold the "in-progress" lock before it must be refreshed by finishing the handler.
	provisionalLockTTL = 60 * time.Second
	storeTimeout       = 2 * time.Second

	// MaxBodyBytes caps the request body buffered for hashing and replay.
	MaxBodyBytes = 1 << 20
)

// ---- Data types ----
type idempEntry struct {
	InProgress bool      `json:"in_progress"`
	Code       int       `json:"code"`
	Body       []byte    `json:"body"`
	BodySHA256 string    `json:"body_sha256"`
	CreatedAt  time.Time `json:"created_at"`
}

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	if r.buf != nil {
		r.buf.Write(b)
	}
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

// Idempotency replays the stored response for a repeated Idempotency-Key.
// The header is optional; requests without it pass straight through. It must
// run after Auth: keys are scoped per account. Server errors release the key
// so the client can retry.
func Idempotency(rdb *redis.Client, ttl time.Duration, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			clientKey := strings.TrimSpace(req.Header.Get(HeaderIdempotencyKey))
			if clientKey == "" {
				return next(c)
			}
			if !validKey(clientKey) {
				return fail(c, http.StatusBadRequest, "INVALID_IDEMPOTENCY_KEY",
					"Idempotency-Key must be 8-128 characters of letters, digits, '.', '_', ':' or '-'")
			}
			p, ok := access.FromContext(req.Context())
			if !ok {
				return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			}

			// Buffer & hash body
			var body []byte
			if req.Body != nil {
				var err error
				body, err = io.ReadAll(http.MaxBytesReader(c.Response(), req.Body, MaxBodyBytes))
				if err != nil {
					var tooLarge *http.MaxBytesError
					if errors.As(err, &tooLarge) {
						return fail(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
							"request body must not exceed 1 MiB")
					}
					return fail(c, http.StatusBadRequest, "BAD_REQUEST", "request body could not be read")
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			bhash := bodyHash(body)

			key := buildKey(req.Method, c.Path(), p.AccountID, clientKey)
			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()

			ok, err := provisionalSet(ctx, rdb, key, idempEntry{InProgress: true, BodySHA256: bhash, CreatedAt: nowUTC()})
			if err != nil {
				log.Warn("idempotency store unavailable", zap.String("key", key), zap.Error(err))
				return fail(c, http.StatusServiceUnavailable, "UNAVAILABLE", "idempotency store unavailable")
			}
			if !ok {
				cur, errLoad := loadEntry(ctx, rdb, key)
				if errLoad != nil {
					log.Warn("idempotency entry unreadable", zap.String("key", key), zap.Error(errLoad))
				}
				if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
					return fail(c, http.StatusUnprocessableEntity, "IDEMPOTENCY_KEY_REUSED",
						"Idempotency-Key reused with a different body")
				}
				if !cur.InProgress && cur.Code != 0 {
					c.Response().Header().Set(HeaderReplayed, "true")
					return c.Blob(cur.Code, echo.MIMEApplicationJSONCharsetUTF8, cur.Body)
				}
				return fail(c, http.StatusConflict, "REQUEST_IN_PROGRESS", "request is already in progress")
			}

			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may already be done; the bookkeeping must still land
			bg, cancelBg := context.WithTimeout(context.WithoutCancel(req.Context()), storeTimeout)
			defer cancelBg()
			if rec.code >= http.StatusInternalServerError {
				if err := release(bg, rdb, key); err != nil {
					log.Warn("idempotency release failed", zap.String("key", key), zap.Error(err))
				}
				return nil
			}
			final := idempEntry{Code: rec.code, Body: rec.buf.Bytes(), BodySHA256: bhash, CreatedAt: nowUTC()}
			if err := saveFinal(bg, rdb, key, final, ttl); err != nil {
				log.Warn("idempotency save failed", zap.String("key", key), zap.Error(err))
			}
			return nil
		}
	}
}
