package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	appsyncing "github.com/stocksync/backend/internal/application/syncing"
	"github.com/stocksync/backend/internal/domain/syncing"
	"github.com/stocksync/backend/internal/infrastructure/bling"
	"github.com/stocksync/backend/internal/infrastructure/config"
	"github.com/stocksync/backend/internal/infrastructure/logger"
	"github.com/stocksync/backend/internal/infrastructure/persistence"
	"github.com/stocksync/backend/internal/infrastructure/scheduler"
	"github.com/stocksync/backend/internal/infrastructure/shopify"
	"github.com/stocksync/backend/internal/interfaces/http/handler"
	"github.com/stocksync/backend/internal/interfaces/http/middleware"
	"github.com/stocksync/backend/internal/interfaces/http/router"
)

func main() {
	// A missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting StockSync",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected")

	// Repositories and audit trail
	mappingRepo := persistence.NewGormMappingRepository(db.DB)
	bindingRepo := persistence.NewGormSkuBindingRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)
	eventRepo := persistence.NewGormSyncEventRepository(db.DB)
	recorder := persistence.NewSyncEventRecorder(eventRepo, log)

	// Connectors
	blingClient, err := bling.NewClient(&bling.Config{
		BaseURL:     cfg.Bling.BaseURL,
		AccessToken: cfg.Bling.AccessToken,
		PageSize:    cfg.Sync.CatalogPageSize,
		Timeout:     cfg.Bling.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to configure ERP client", zap.Error(err))
	}

	shopifyClient, err := shopify.NewClient(&shopify.Config{
		ShopDomain:  cfg.Shopify.ShopDomain,
		AccessToken: cfg.Shopify.AccessToken,
		APIVersion:  cfg.Shopify.APIVersion,
		Timeout:     cfg.Shopify.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to configure storefront client", zap.Error(err))
	}
	resolver := shopify.NewSkuResolver(shopifyClient, bindingRepo, log)

	// Orchestration
	syncService := appsyncing.NewService(
		mappingRepo, settingRepo, blingClient, resolver,
		recorder, eventRepo, cfg.Sync.IntervalMinutes, log,
	)

	syncScheduler := scheduler.NewIntervalScheduler(syncService, syncService, log)
	if cfg.Sync.SchedulerEnabled {
		if err := syncScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := syncScheduler.Stop(stopCtx); err != nil {
				log.Error("Error stopping sync scheduler", zap.Error(err))
			}
		}()
	}

	// The webhook secret is a runtime setting with the static config as
	// fallback, so rotation does not need a restart
	webhookSecret := func(c *gin.Context) string {
		secret, err := settingRepo.Get(c.Request.Context(), syncing.SettingWebhookSecret, cfg.Webhook.Secret)
		if err != nil {
			log.Warn("Failed to read webhook secret setting", zap.Error(err))
			return cfg.Webhook.Secret
		}
		return secret
	}

	// HTTP surface
	engine := router.NewEngine(log)
	handler.NewHealthHandler(db).RegisterRoutes(engine)

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithWebhooks(handler.NewWebhookHandler(syncService), middleware.SecretProvider(webhookSecret), recorder),
	)
	r.Register(handler.NewSyncHandler(syncService)).
		Register(handler.NewMappingHandler(syncService)).
		Register(handler.NewReferenceHandler(syncService)).
		Register(handler.NewEventHandler(syncService)).
		Register(handler.NewSettingHandler(syncService, syncScheduler))
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
