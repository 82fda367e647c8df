package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/medbill/medbill/internal/app"
	"github.com/medbill/medbill/internal/auth"
	"github.com/medbill/medbill/internal/billing"
	"github.com/medbill/medbill/internal/inventory"
	"github.com/medbill/medbill/internal/masterdata/categories"
	"github.com/medbill/medbill/internal/masterdata/companies"
	"github.com/medbill/medbill/internal/masterdata/products"
	"github.com/medbill/medbill/internal/observability"
	"github.com/medbill/medbill/internal/platform/cache"
	"github.com/medbill/medbill/internal/platform/db"
	"github.com/medbill/medbill/internal/shared"
	"github.com/medbill/medbill/internal/users"
	"github.com/medbill/medbill/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Default().Warn("load .env", slog.Any("error", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	connector := db.NewConnector(cfg.PGDSN)
	defer connector.Close()
	dbpool, err := connector.Pool(ctx)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient := jobs.NewClient(redisOpts, cfg.OTPTTL)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(dbpool)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	if err := ensureAdmin(ctx, usersService, cfg); err != nil {
		logger.Error("bootstrap admin", slog.Any("error", err))
		os.Exit(1)
	}

	otpStore := auth.NewOTPStore(cache.NewStore(redisClient, "medbill:otp:"), cfg.OTPTTL)
	authService := auth.NewService(usersRepo, otpStore, tokens, jobClient, logger)

	companiesService := companies.NewService(companies.NewRepository(dbpool))
	categoriesService := categories.NewService(categories.NewRepository(dbpool))
	productsService := products.NewService(products.NewRepository(dbpool), companiesService)
	inventoryService := inventory.NewService(inventory.NewRepository(dbpool), auditLogger, logger)
	billingService := billing.NewService(billing.NewRepository(dbpool), usersService, companiesService, auditLogger, metrics, logger)

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Tokens:            tokens,
		AuthHandler:       auth.NewHandler(logger, authService, tokens),
		UsersHandler:      users.NewHandler(logger, usersService),
		CompaniesHandler:  companies.NewHandler(logger, companiesService),
		CategoriesHandler: categories.NewHandler(logger, categoriesService),
		ProductsHandler:   products.NewHandler(logger, productsService),
		BillingHandler:    billing.NewHandler(logger, billingService),
		InventoryHandler:  inventory.NewHandler(logger, inventoryService),
		JobHandler:        jobs.NewHandler(inspector, logger),
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// ensureAdmin creates the bootstrap admin named by ADMIN_EMAIL when it does not exist yet.
func ensureAdmin(ctx context.Context, svc *users.Service, cfg *app.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	_, err := svc.Create(ctx, users.CreateUserRequest{
		Name:     "Administrator",
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Role:     shared.RoleAdmin,
	})
	if errors.Is(err, shared.ErrDuplicate) {
		return nil
	}
	return err
}
