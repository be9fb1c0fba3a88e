package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/leadflow/internal/api/router"
	"github.com/wolfman30/leadflow/internal/app/bootstrap"
	"github.com/wolfman30/leadflow/internal/campaigns"
	appconfig "github.com/wolfman30/leadflow/internal/config"
	"github.com/wolfman30/leadflow/internal/importer"
	"github.com/wolfman30/leadflow/internal/leads"
	"github.com/wolfman30/leadflow/internal/notify"
	"github.com/wolfman30/leadflow/internal/observability/metrics"
	"github.com/wolfman30/leadflow/internal/team"
	"github.com/wolfman30/leadflow/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadflow API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Stores: postgres when configured, in-memory otherwise.
	var (
		campaignRepo campaigns.Repository
		leadStore    leads.Store
		teamRepo     team.Repository
	)
	if pool := bootstrap.OpenPgxPool(ctx, cfg, logger); pool != nil {
		defer pool.Close()
		pgRepo := campaigns.NewPostgresRepository(pool)
		campaignRepo = pgRepo
		leadStore = leads.NewPostgresStore(pool, pgRepo)
		if db := bootstrap.OpenSQL(cfg, logger); db != nil {
			defer db.Close()
			teamRepo = team.NewSQLRepository(db)
		} else {
			teamRepo = team.NewInMemoryRepository()
		}
		logger.Info("using postgres stores")
	} else {
		memRepo := campaigns.NewInMemoryRepository()
		campaignRepo = memRepo
		leadStore = leads.NewInMemoryStore(memRepo)
		teamRepo = team.NewInMemoryRepository()
		logger.Warn("no database configured, using in-memory stores")
	}

	// Dashboard overview cache, enabled when redis is reachable.
	var overview campaigns.OverviewSource = campaignRepo
	if redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true); redisClient != nil {
		defer redisClient.Close()
		overview = campaigns.NewCachedOverview(campaignRepo, redisClient, cfg.StatsCacheTTL, logger)
		logger.Info("overview cache enabled", "ttl", cfg.StatsCacheTTL)
	}

	importMetrics := metrics.NewImportMetrics(nil)
	imp := importer.NewImporter(campaignRepo, leadStore, importMetrics, logger)
	imp.SetDefaultBatchSize(cfg.ImportBatchSize)

	var completion importer.Completion
	if sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sender != nil && cfg.ImportNotifyEmail != "" {
		completion = notify.NewService(sender, cfg.ImportNotifyEmail, logger)
	}

	r := router.New(&router.Config{
		Logger:             logger,
		CampaignsHandler:   campaigns.NewHandler(campaignRepo, overview, logger),
		LeadsHandler:       leads.NewHandler(leadStore, logger),
		ImportHandler:      importer.NewHandler(imp, completion, logger),
		TeamHandler:        team.NewHandler(teamRepo, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		ImportRateLimit:    2,
		ImportRateBurst:    5,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
