package http

import (
	"errors"
	"net/http"

	"dealmatch-backend/internal/domain/apperr"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type errorKind struct {
	target error
	status int
	code   string
}

var errorKinds = []errorKind{
	// store-side rejections that carry no field details
	{apperr.ErrValidation, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	{apperr.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{apperr.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{apperr.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{apperr.ErrIneligible, http.StatusUnprocessableEntity, "INELIGIBLE"},
	{apperr.ErrDealClosed, http.StatusConflict, "DEAL_CLOSED"},
	{apperr.ErrConflict, http.StatusConflict, "CONFLICT"},
	{apperr.ErrUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE"},
}

// writeError maps a usecase error onto the HTTP error taxonomy. Anything
// unclassified is logged and reported as a bare 500.
func writeError(c echo.Context, log *zap.Logger, err error) error {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		details := make([]FieldError, 0, len(ve.Violations))
		for _, v := range ve.Violations {
			details = append(details, FieldError{Field: v.Field, Message: v.Message})
		}
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: "validation failed", Code: "VALIDATION_ERROR", Details: details,
		})
	}
	for _, k := range errorKinds {
		if !errors.Is(err, k.target) {
			continue
		}
		msg := err.Error()
		retryable := apperr.Retryable(err)
		switch {
		case retryable:
			// driver text stays in the logs
			log.Warn("retryable store error", zap.String("route", c.Path()), zap.Error(err))
			msg = k.target.Error() + ", retry later"
		case k.target == apperr.ErrValidation:
			log.Warn("store rejected input", zap.String("route", c.Path()), zap.Error(err))
			msg = k.target.Error()
		}
		return c.JSON(k.status, ErrorResponse{Error: msg, Code: k.code, Retryable: retryable})
	}
	log.Error("unhandled error", zap.String("route", c.Path()), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: "INTERNAL"})
}

// ErrorHandler renders echo's own errors (unknown route, wrong method, binder
// failures) in the same shape as handler errors.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			_ = writeError(c, log, err)
			return
		}
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		if he.Code >= http.StatusInternalServerError {
			log.Error("http error", zap.Int("status", he.Code), zap.Error(err))
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(he.Code)
			return
		}
		_ = c.JSON(he.Code, ErrorResponse{Error: msg, Code: httpCode(he.Code), Retryable: he.Code == http.StatusServiceUnavailable})
	}
}

func httpCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusUnsupportedMediaType:
		return "UNSUPPORTED_MEDIA_TYPE"
	case http.StatusServiceUnavailable:
		return "UNAVAILABLE"
	}
	if status >= 500 {
		return "INTERNAL"
	}
	return "ERROR"
}
