package http

import (
	"net/http"

	ucAccount "dealmatch-backend/internal/usecase/account"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AccountHandler struct {
	uc  *ucAccount.Usecase
	log *zap.Logger
}

func NewAccountHandler(uc *ucAccount.Usecase, log *zap.Logger) *AccountHandler {
	return &AccountHandler{uc: uc, log: log}
}

type registerReq struct {
	Email       string `json:"email"        validate:"required,email,max=255"`
	Password    string `json:"password"     validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"required,notblank,max=255"`
	Role        string `json:"role"         validate:"required,oneof=broker lender"`
}

type loginReq struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AccountHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Register(c.Request().Context(), ucAccount.RegisterInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AccountHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	session, err := h.uc.Login(c.Request().Context(), ucAccount.LoginInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (h *AccountHandler) Profile(c echo.Context) error {
	dto, err := h.uc.Profile(c.Request().Context(), principal(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AccountHandler) Deactivate(c echo.Context) error {
	if err := h.uc.Deactivate(c.Request().Context(), principal(c)); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
