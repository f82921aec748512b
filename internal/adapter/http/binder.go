package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const maxBodyBytes = 1 << 20

// StrictBinder decodes JSON request bodies only. Unknown fields, trailing data
// and non-JSON content types are rejected instead of silently ignored.
type StrictBinder struct{}

func (StrictBinder) Bind(i any, c echo.Context) error {
	req := c.Request()
	ctype := req.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(ctype), echo.MIMEApplicationJSON) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "Content-Type must be application/json")
	}
	if req.Body == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "request body is empty")
	}

	dec := json.NewDecoder(http.MaxBytesReader(c.Response(), req.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(i); err != nil {
		var typeErr *json.UnmarshalTypeError
		var syntaxErr *json.SyntaxError
		var sizeErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return echo.NewHTTPError(http.StatusBadRequest, "request body is empty")
		case errors.As(err, &sizeErr):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
		case errors.As(err, &typeErr):
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("field %q must be %s", typeErr.Field, typeErr.Type))
		case errors.As(err, &syntaxErr):
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return echo.NewHTTPError(http.StatusBadRequest, strings.TrimPrefix(err.Error(), "json: "))
		}
		return echo.NewHTTPError(http.StatusBadRequest, "malformed JSON body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return echo.NewHTTPError(http.StatusBadRequest, "unexpected data after JSON body")
	}
	return nil
}
