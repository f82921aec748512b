package http

import (
	"net/http"

	"dealmatch-backend/internal/domain/deal"
	ucMessage "dealmatch-backend/internal/usecase/message"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type MessageHandler struct {
	uc  *ucMessage.Usecase
	log *zap.Logger
}

func NewMessageHandler(uc *ucMessage.Usecase, log *zap.Logger) *MessageHandler {
	return &MessageHandler{uc: uc, log: log}
}

type sendMessageReq struct {
	Body string `json:"body" validate:"required,notblank,max=5000"`
}

func (h *MessageHandler) Send(c echo.Context) error {
	dealID, ok := dealParam(c)
	if !ok {
		return writeError(c, h.log, deal.ErrNotFound)
	}
	var req sendMessageReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Send(c.Request().Context(), principal(c), ucMessage.SendInput{DealID: dealID, Body: req.Body})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *MessageHandler) List(c echo.Context) error {
	dealID, ok := dealParam(c)
	if !ok {
		return writeError(c, h.log, deal.ErrNotFound)
	}
	out, err := h.uc.List(c.Request().Context(), principal(c), dealID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
