package http

import (
	"net/http"

	"dealmatch-backend/internal/domain/deal"
	ucDeal "dealmatch-backend/internal/usecase/deal"
	"dealmatch-backend/pkg/id"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type DealHandler struct {
	uc  *ucDeal.Usecase
	log *zap.Logger
}

func NewDealHandler(uc *ucDeal.Usecase, log *zap.Logger) *DealHandler {
	return &DealHandler{uc: uc, log: log}
}

type createDealReq struct {
	Title               string   `json:"title"                 validate:"required,notblank,max=255"`
	LoanType            string   `json:"loan_type"             validate:"required,oneof=residential commercial construction refinance"`
	Amount              *float64 `json:"amount"                validate:"required,gt=0,lt=1e16,maxscale=2"`
	Region              string   `json:"region"                validate:"required,notblank,max=128"`
	BorrowerCreditScore *int     `json:"borrower_credit_score" validate:"required,gte=300,lte=850"`
	LTVRatio            *float64 `json:"ltv_ratio"             validate:"required,gt=0,lte=1,maxscale=4"`
	PropertyType        string   `json:"property_type"         validate:"required,notblank,max=64"`
	Description         string   `json:"description"           validate:"max=5000"`
}

func (h *DealHandler) Create(c echo.Context) error {
	var req createDealReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), principal(c), ucDeal.CreateDealInput{
		Title:               req.Title,
		LoanType:            req.LoanType,
		Amount:              *req.Amount,
		Region:              req.Region,
		BorrowerCreditScore: *req.BorrowerCreditScore,
		LTVRatio:            *req.LTVRatio,
		PropertyType:        req.PropertyType,
		Description:         req.Description,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *DealHandler) List(c echo.Context) error {
	out, err := h.uc.ListMine(c.Request().Context(), principal(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DealHandler) Get(c echo.Context) error {
	dealID, ok := dealParam(c)
	if !ok {
		return writeError(c, h.log, deal.ErrNotFound)
	}
	dto, err := h.uc.Get(c.Request().Context(), principal(c), dealID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DealHandler) Close(c echo.Context) error {
	dealID, ok := dealParam(c)
	if !ok {
		return writeError(c, h.log, deal.ErrNotFound)
	}
	dto, err := h.uc.Close(c.Request().Context(), principal(c), dealID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DealHandler) Interests(c echo.Context) error {
	dealID, ok := dealParam(c)
	if !ok {
		return writeError(c, h.log, deal.ErrNotFound)
	}
	out, err := h.uc.Interests(c.Request().Context(), principal(c), dealID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

type selectLenderReq struct {
	LenderID string `json:"lender_id" validate:"required,hex32"`
}

// SelectLender records which interested lender the broker will work with.
func (h *DealHandler) SelectLender(c echo.Context) error {
	dealID, ok := dealParam(c)
	if !ok {
		return writeError(c, h.log, deal.ErrNotFound)
	}
	var req selectLenderReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.SelectLender(c.Request().Context(), principal(c), dealID, req.LenderID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Feed is the lender's deal list.
func (h *DealHandler) Feed(c echo.Context) error {
	out, err := h.uc.Feed(c.Request().Context(), principal(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// malformed ids are reported like unknown ones
func dealParam(c echo.Context) (string, bool) {
	v := c.Param("deal_id")
	return v, id.Valid(v)
}
