package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dhruvpatel3d/printquote-backend/api/routes"
	"github.com/dhruvpatel3d/printquote-backend/internal/auth"
	"github.com/dhruvpatel3d/printquote-backend/internal/catalog"
	"github.com/dhruvpatel3d/printquote-backend/internal/orderlines"
	"github.com/dhruvpatel3d/printquote-backend/internal/quotes"
	"github.com/dhruvpatel3d/printquote-backend/internal/settings"
	"github.com/dhruvpatel3d/printquote-backend/internal/users"
	"github.com/dhruvpatel3d/printquote-backend/internal/volume"
	"github.com/dhruvpatel3d/printquote-backend/pkg/auth/session"
	"github.com/dhruvpatel3d/printquote-backend/pkg/config"
	"github.com/dhruvpatel3d/printquote-backend/pkg/db"
	pkgerrors "github.com/dhruvpatel3d/printquote-backend/pkg/errors"
	"github.com/dhruvpatel3d/printquote-backend/pkg/logger"
	"github.com/dhruvpatel3d/printquote-backend/pkg/metrics"
	"github.com/dhruvpatel3d/printquote-backend/pkg/migrate"
	"github.com/dhruvpatel3d/printquote-backend/pkg/redis"
)

// lateRefiner breaks the construction cycle between the line service and
// the refiner: the service needs a refiner handle, the refiner needs the
// service.
type lateRefiner struct {
	mu      sync.RWMutex
	refiner *volume.Refiner
}

func (e *lateRefiner) Set(r *volume.Refiner) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refiner = r
}

func (e *lateRefiner) Enqueue(lineID uuid.UUID, ref volume.FileRef) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.refiner == nil {
		return false
	}
	return e.refiner.Enqueue(lineID, ref)
}

func (e *lateRefiner) RefineNow(ctx context.Context, lines map[uuid.UUID]volume.FileRef) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.refiner == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "volume refiner not ready")
	}
	return e.refiner.RefineNow(ctx, lines)
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	quoteMetrics := metrics.NewQuoteMetrics(registry)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	refinerHandle := &lateRefiner{}
	linesService, err := orderlines.NewService(
		orderlines.NewRepository(dbClient.DB()),
		catalogService,
		settingsService,
		refinerHandle,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create order-line service", err)
		os.Exit(1)
	}

	refiner, err := volume.NewRefiner(volume.SizeProvider{}, linesService, logg, quoteMetrics, volume.RefinerOptions{
		Workers:   cfg.Quotation.RefineWorkers,
		QueueSize: cfg.Quotation.RefineQueueSize,
		Timeout:   cfg.Quotation.RefineTimeout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create volume refiner", err)
		os.Exit(1)
	}
	refinerHandle.Set(refiner)
	defer refiner.Close()

	quotesRepo := quotes.NewRepository(dbClient.DB())
	counter, err := quotes.NewCounter(quotesRepo, cfg.Quotation.CounterSeed, cfg.Quotation.NumberPrefix)
	if err != nil {
		logg.Error(context.Background(), "failed to create quotation counter", err)
		os.Exit(1)
	}

	quotesService, err := quotes.NewService(
		quotesRepo,
		counter,
		linesService,
		settingsService,
		quotes.NewPDFRenderer(cfg.Company, cfg.Quotation.CurrencySymbol),
		nil,
		logg,
		quoteMetrics,
		quotes.Options{ValidityDays: cfg.Quotation.PDFValidityDays},
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create quotes service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			Sessions:        sessionManager,
			Registry:        registry,
			AuthService:     authService,
			CatalogService:  catalogService,
			SettingsService: settingsService,
			LinesService:    linesService,
			QuotesService:   quotesService,
		}),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
