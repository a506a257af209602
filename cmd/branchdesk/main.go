package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/app"
	"github.com/branchdesk/branchdesk/internal/auth"
	"github.com/branchdesk/branchdesk/internal/dashboard"
	"github.com/branchdesk/branchdesk/internal/invoices"
	"github.com/branchdesk/branchdesk/internal/masterdata"
	"github.com/branchdesk/branchdesk/internal/observability"
	"github.com/branchdesk/branchdesk/internal/platform/cache"
	"github.com/branchdesk/branchdesk/internal/shared"
	"github.com/branchdesk/branchdesk/internal/state"
	"github.com/branchdesk/branchdesk/internal/view"
	"github.com/branchdesk/branchdesk/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

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

	metrics := observability.NewMetrics()
	metrics.Registerer().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	api := apiclient.NewClient(cfg.APIBaseURL, cfg.APITimeout, apiclient.WithObserver(metrics))

	sessionManager := shared.NewSessionManager(redisClient, "branchdesk_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}
	page := view.NewPage(templates, csrfManager, logger)

	store := state.NewStore(redisClient, cfg.WorkspaceTTL)
	controller := state.NewController(api, store, logger)

	pdfClient := report.NewClient(cfg.GotenbergURL, cfg.GotenbergTimeout)
	pingCtx, cancelPing := context.WithTimeout(ctx, 3*time.Second)
	if err := pdfClient.Ping(pingCtx); err != nil {
		logger.Warn("gotenberg unreachable, invoice PDFs will fail", slog.Any("error", err))
	}
	cancelPing()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		CSRFManager:       csrfManager,
		AuthHandler:       auth.NewHandler(logger, auth.NewService(api), page, sessionManager, store),
		DashboardHandler:  dashboard.NewHandler(logger, api, controller, page),
		MasterDataHandler: masterdata.NewHandler(logger, api, controller, page),
		InvoiceHandler:    invoices.NewHandler(logger, api, controller, page, pdfClient),
		ReportHandler:     report.NewHandler(pdfClient, logger),
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("api", cfg.APIBaseURL))
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
