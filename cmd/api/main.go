package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"dealmatch-backend/internal/adapter/auth"
	httpadp "dealmatch-backend/internal/adapter/http"
	"dealmatch-backend/internal/adapter/middleware"
	"dealmatch-backend/internal/adapter/repository/mysql"
	"dealmatch-backend/internal/config"
	"dealmatch-backend/internal/infrastructure/cache"
	"dealmatch-backend/internal/infrastructure/db"
	"dealmatch-backend/internal/infrastructure/logging"
	"dealmatch-backend/internal/infrastructure/metrics"
	ucAccount "dealmatch-backend/internal/usecase/account"
	ucCriteria "dealmatch-backend/internal/usecase/criteria"
	ucDeal "dealmatch-backend/internal/usecase/deal"
	ucInterest "dealmatch-backend/internal/usecase/interest"
	ucMessage "dealmatch-backend/internal/usecase/message"
	"dealmatch-backend/internal/usecase/retry"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	gdb, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}
	defer sqlDB.Close()
	if err := mysql.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB, cfg.StoreTimeout)
	if err != nil {
		return fmt.Errorf("open redis: %w", err)
	}
	defer rdb.Close()

	m := metrics.New()
	tokens := auth.NewJWT(cfg.JWTSecret, cfg.TokenTTL)

	accounts := mysql.NewAccountRepository(gdb, cfg.StoreTimeout)
	deals := mysql.NewDealRepository(gdb, cfg.StoreTimeout)
	crit := mysql.NewCriteriaRepository(gdb, cfg.StoreTimeout)
	interests := mysql.NewInterestRepository(gdb, cfg.StoreTimeout)
	messages := mysql.NewMessageRepository(gdb, cfg.StoreTimeout)
	tx := mysql.NewGormUoW(gdb, cfg.StoreTimeout)
	policy := retry.Policy{Attempts: cfg.ConflictRetries, Backoff: 20 * time.Millisecond}

	accountUC := ucAccount.NewUsecase(accounts, tx, tokens, logger)
	dealUC := ucDeal.NewUsecase(deals, crit, interests, tx, m, logger)
	criteriaUC := ucCriteria.NewUsecase(crit, tx, policy, logger)
	interestUC := ucInterest.NewUsecase(interests, tx, policy, m, logger)
	messageUC := ucMessage.NewUsecase(deals, messages, logger)

	e := echo.New()
	httpadp.Configure(e, logger)
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.Metrics(m), middleware.RequestLogger(logger))

	httpadp.Register(e, httpadp.Routes{
		Health: httpadp.NewHandler(map[string]httpadp.HealthCheck{
			"db":    sqlDB.PingContext,
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Accounts:    httpadp.NewAccountHandler(accountUC, logger),
		Deals:       httpadp.NewDealHandler(dealUC, logger),
		Criteria:    httpadp.NewCriteriaHandler(criteriaUC, logger),
		Interests:   httpadp.NewInterestHandler(interestUC, logger),
		Messages:    httpadp.NewMessageHandler(messageUC, logger),
		Auth:        middleware.Auth(tokens, accounts, logger),
		Idempotency: middleware.Idempotency(rdb, cfg.IdempotencyTTL(), logger),
		Metrics:     m.Handler(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("db_driver", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
