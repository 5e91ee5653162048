package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	identityapp "github.com/shopsync/backend/internal/application/identity"
	syncapp "github.com/shopsync/backend/internal/application/sync"
	"github.com/shopsync/backend/internal/domain/shared"
	"github.com/shopsync/backend/internal/infrastructure/auth"
	"github.com/shopsync/backend/internal/infrastructure/cache"
	"github.com/shopsync/backend/internal/infrastructure/config"
	"github.com/shopsync/backend/internal/infrastructure/logger"
	"github.com/shopsync/backend/internal/infrastructure/persistence"
	"github.com/shopsync/backend/internal/infrastructure/scheduler"
	"github.com/shopsync/backend/internal/infrastructure/shopify"
	"github.com/shopsync/backend/internal/interfaces/http/handler"
	"github.com/shopsync/backend/internal/interfaces/http/middleware"
	"github.com/shopsync/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(&cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting shopsync backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, gormlogger.Warn))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	var idempotency shared.IdempotencyStore
	if cfg.Redis.Enabled() {
		redisStore, err := cache.NewRedisIdempotencyStore(&cfg.Redis)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisStore.Close()
		idempotency = redisStore
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		idempotency = cache.NewMemoryIdempotencyStore()
		log.Warn("redis not configured, webhook dedupe is per-instance only")
	}

	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	runRepo := persistence.NewGormRunRepository(db.DB)
	syncStore := persistence.NewGormSyncStore(db.DB)

	platformClient := shopify.NewClient(shopify.Options{
		APIVersion:  cfg.Shopify.APIVersion,
		PageSize:    cfg.Sync.PageSize,
		PageTimeout: cfg.Sync.PageTimeout,
		MaxRetries:  cfg.Sync.MaxRetries,
		RetryBase:   cfg.Sync.RetryBase,
	}, log)

	syncService := syncapp.NewService(tenantRepo, platformClient, syncStore, runRepo, log)
	ingestService := syncapp.NewIngestService(tenantRepo, syncStore, idempotency, cfg.Sync.WebhookDedupeTTL, log)
	tenantService := identityapp.NewTenantService(tenantRepo, log)
	tokenService := auth.NewTokenService(&cfg.JWT)

	fleet := scheduler.NewFleetScheduler(tenantRepo, syncService, cfg.Sync.Interval, log)
	if cfg.Sync.SchedulerEnabled {
		if err := fleet.Start(); err != nil {
			log.Fatal("failed to start fleet scheduler", zap.Error(err))
		}
		defer fleet.Stop()
	} else {
		log.Warn("fleet scheduler disabled by configuration")
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(logger.GinRecovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	systemHandler := handler.NewSystemHandler(db)
	engine.GET("/healthz", systemHandler.Healthz)

	adminAuth := middleware.JWTAuth(tokenService)
	router.NewRouter(engine).
		Register(handler.NewWebhookHandler(ingestService, log)).
		Register(handler.NewAuthHandler(tokenService, cfg.JWT.AdminSecret)).
		Register(guarded{adminAuth, handler.NewSyncHandler(syncService, log)}).
		Register(guarded{adminAuth, handler.NewTenantHandler(tenantService)}).
		Register(guarded{adminAuth, handler.NewStoreDataHandler(customerRepo, productRepo, orderRepo)}).
		Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

// guarded mounts a registrar's routes behind the admin JWT middleware
type guarded struct {
	auth      gin.HandlerFunc
	registrar router.RouteRegistrar
}

func (g guarded) RegisterRoutes(rg *gin.RouterGroup) {
	g.registrar.RegisterRoutes(rg.Group("", g.auth))
}
