package http

import (
	"net/http"

	ucCriteria "dealmatch-backend/internal/usecase/criteria"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CriteriaHandler struct {
	uc  *ucCriteria.Usecase
	log *zap.Logger
}

func NewCriteriaHandler(uc *ucCriteria.Usecase, log *zap.Logger) *CriteriaHandler {
	return &CriteriaHandler{uc: uc, log: log}
}

// regions omitted or empty means any region
type criteriaReq struct {
	LoanTypes      []string `json:"loan_types"       validate:"required,max=4,dive,oneof=residential commercial construction refinance"`
	MinAmount      *float64 `json:"min_amount"       validate:"required,gte=0,lt=1e16,maxscale=2"`
	MaxAmount      *float64 `json:"max_amount"       validate:"required,gt=0,lt=1e16,maxscale=2"`
	Regions        []string `json:"regions"          validate:"max=100,dive,notblank,max=128"`
	CreditScoreMin *int     `json:"credit_score_min" validate:"required,gte=0,lte=850"`
	LTVMax         *float64 `json:"ltv_max"          validate:"required,gt=0,lte=1,maxscale=4"`
}

func (h *CriteriaHandler) Replace(c echo.Context) error {
	var req criteriaReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Replace(c.Request().Context(), principal(c), ucCriteria.ReplaceCriteriaInput{
		LoanTypes:      req.LoanTypes,
		MinAmount:      *req.MinAmount,
		MaxAmount:      *req.MaxAmount,
		Regions:        req.Regions,
		CreditScoreMin: *req.CreditScoreMin,
		LTVMax:         *req.LTVMax,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *CriteriaHandler) Get(c echo.Context) error {
	dto, err := h.uc.Current(c.Request().Context(), principal(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
