package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Routes holds everything the router mounts. Auth and Idempotency are
// middleware built by the caller; Metrics serves the scrape endpoint.
type Routes struct {
	Health    *Handler
	Accounts  *AccountHandler
	Deals     *DealHandler
	Criteria  *CriteriaHandler
	Interests *InterestHandler
	Messages  *MessageHandler

	Auth        echo.MiddlewareFunc
	Idempotency echo.MiddlewareFunc
	Metrics     http.Handler
}

// Configure installs the strict binder, validator and JSON error handler.
func Configure(e *echo.Echo, log *zap.Logger) {
	e.HideBanner = true
	e.HidePort = true
	e.Binder = StrictBinder{}
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(log)
}

func Register(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Health)
	if r.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.Metrics))
	}

	e.POST("/auth/register", r.Accounts.Register)
	e.POST("/auth/login", r.Accounts.Login)

	// per-route auth keeps unknown paths a plain 404
	auth := r.Auth
	idem := r.Idempotency
	if idem == nil {
		idem = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	e.GET("/auth/profile", r.Accounts.Profile, auth)
	e.DELETE("/auth/account", r.Accounts.Deactivate, auth)

	// broker
	e.POST("/deals", r.Deals.Create, auth, idem)
	e.GET("/deals", r.Deals.List, auth)
	e.GET("/deals/:deal_id", r.Deals.Get, auth)
	e.POST("/deals/:deal_id/close", r.Deals.Close, auth)
	e.GET("/deals/:deal_id/interests", r.Deals.Interests, auth)
	e.POST("/deals/:deal_id/select-lender", r.Deals.SelectLender, auth)

	// lender
	e.POST("/criteria", r.Criteria.Replace, auth)
	e.GET("/criteria", r.Criteria.Get, auth)
	e.GET("/lender/deals", r.Deals.Feed, auth)
	e.POST("/interest", r.Interests.Submit, auth)
	e.GET("/lender/interests", r.Interests.ListMine, auth)

	// broker and selected lender
	if r.Messages != nil {
		e.POST("/deals/:deal_id/messages", r.Messages.Send, auth)
		e.GET("/deals/:deal_id/messages", r.Messages.List, auth)
	}
}
