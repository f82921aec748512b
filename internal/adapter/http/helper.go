package http

import (
	"errors"
	"net/http"

	"dealmatch-backend/internal/domain/access"

	"github.com/labstack/echo/v4"
)

// bindValid binds and validates req. On failure it has already written the
// response and ok is false; the returned error is what the handler returns.
func bindValid(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg, _ := he.Message.(string)
			return false, c.JSON(he.Code, ErrorResponse{Error: msg, Code: httpCode(he.Code)})
		}
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: "BAD_REQUEST"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// principal is the caller resolved by the auth middleware; the zero value
// makes every usecase fail with ErrUnauthorized.
func principal(c echo.Context) access.Principal {
	p, _ := access.FromContext(c.Request().Context())
	return p
}
