package http

import (
	"net/http"

	ucInterest "dealmatch-backend/internal/usecase/interest"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type InterestHandler struct {
	uc  *ucInterest.Usecase
	log *zap.Logger
}

func NewInterestHandler(uc *ucInterest.Usecase, log *zap.Logger) *InterestHandler {
	return &InterestHandler{uc: uc, log: log}
}

type submitInterestReq struct {
	DealID       string   `json:"deal_id"       validate:"required,hex32"`
	InterestType string   `json:"interest_type" validate:"required,oneof=full partial"`
	Amount       *float64 `json:"amount"        validate:"omitempty,gt=0,lt=1e16,maxscale=2"`
	Message      string   `json:"message"       validate:"max=2000"`
}

// Submit answers 201 for a new interest and 200 when an existing one was updated.
func (h *InterestHandler) Submit(c echo.Context) error {
	var req submitInterestReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	res, err := h.uc.Submit(c.Request().Context(), principal(c), ucInterest.SubmitInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	return c.JSON(status, res.Interest)
}

func (h *InterestHandler) ListMine(c echo.Context) error {
	out, err := h.uc.ListMine(c.Request().Context(), principal(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
