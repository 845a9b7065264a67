package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/avilamfg/exhibit-backend/api/controllers"
	"github.com/avilamfg/exhibit-backend/api/routes"
	admin "github.com/avilamfg/exhibit-backend/internal/admins"
	"github.com/avilamfg/exhibit-backend/internal/events"
	inquiry "github.com/avilamfg/exhibit-backend/internal/inquiries"
	"github.com/avilamfg/exhibit-backend/internal/media"
	product "github.com/avilamfg/exhibit-backend/internal/products"
	"github.com/avilamfg/exhibit-backend/internal/settings"
	"github.com/avilamfg/exhibit-backend/pkg/auth/session"
	"github.com/avilamfg/exhibit-backend/pkg/cache"
	"github.com/avilamfg/exhibit-backend/pkg/config"
	"github.com/avilamfg/exhibit-backend/pkg/db"
	"github.com/avilamfg/exhibit-backend/pkg/logger"
	"github.com/avilamfg/exhibit-backend/pkg/metrics"
	"github.com/avilamfg/exhibit-backend/pkg/migrate"
	"github.com/avilamfg/exhibit-backend/pkg/pubsub"
	"github.com/avilamfg/exhibit-backend/pkg/redis"
	"github.com/avilamfg/exhibit-backend/pkg/storage/gcs"
)

const shutdownGrace = 15 * time.Second

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	requireResource(ctx, logg, "object storage", err)

	readyChecks := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
		"gcs":      gcsClient,
	}

	var inquiryPublisher *events.Publisher
	var pubsubClient *pubsub.Client
	if cfg.FeatureFlags.Eventing {
		pubsubClient, err = pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		requireResource(ctx, logg, "pubsub", err)

		inquiryPublisher, err = events.NewPublisher(pubsubClient.InquiryPublisher(), logg)
		requireResource(ctx, logg, "inquiry publisher", err)
		readyChecks["pubsub"] = pubsubClient
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(ctx, logg, "session manager", err)

	settingsCache, err := cache.New(redisClient, cfg.Settings.CacheTTL)
	requireResource(ctx, logg, "settings cache", err)

	productRepo := product.NewRepository(dbClient.DB())

	productService, err := product.NewService(productRepo)
	requireResource(ctx, logg, "product service", err)

	inquiryService, err := inquiry.NewService(inquiry.NewRepository(dbClient.DB()), productRepo, inquiryPublisher, logg)
	requireResource(ctx, logg, "inquiry service", err)

	adminService, err := admin.NewService(admin.NewRepository(dbClient.DB()), sessionManager, cfg.JWT, logg)
	requireResource(ctx, logg, "admin service", err)

	settingsService, err := settings.NewService(redisClient, settingsCache, logg)
	requireResource(ctx, logg, "settings service", err)

	mediaService, err := media.NewService(
		media.NewRepository(dbClient.DB()),
		gcsClient,
		cfg.GCS.BucketName,
		cfg.GCS.PublicBaseURL,
		cfg.GCS.UploadURLExpiry,
		cfg.Media.MaxUploadMB,
	)
	requireResource(ctx, logg, "media service", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.RouterParams{
		Config:         cfg,
		Logger:         logg,
		Redis:          redisClient,
		Sessions:       sessionManager,
		HTTPMetrics:    httpMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Inquiries:      inquiryService,
		Products:       productService,
		Admins:         adminService,
		Settings:       settingsService,
		Media:          mediaService,
		ReadyChecks:    readyChecks,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(runCtx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(runCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(runCtx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(runCtx, "graceful shutdown failed", err)
		}
	}

	var closeErr error
	if pubsubClient != nil {
		closeErr = multierr.Append(closeErr, pubsubClient.Close())
	}
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(runCtx, "error closing resources", closeErr)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
