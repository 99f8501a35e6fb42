package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	identityapp "github.com/revendo/backend/internal/application/identity"
	inventoryapp "github.com/revendo/backend/internal/application/inventory"
	marketapp "github.com/revendo/backend/internal/application/market"
	statsapp "github.com/revendo/backend/internal/application/stats"
	"github.com/revendo/backend/internal/infrastructure/auth"
	"github.com/revendo/backend/internal/infrastructure/cache"
	"github.com/revendo/backend/internal/infrastructure/config"
	"github.com/revendo/backend/internal/infrastructure/logger"
	"github.com/revendo/backend/internal/infrastructure/persistence"
	"github.com/revendo/backend/internal/infrastructure/telemetry"
	"github.com/revendo/backend/internal/infrastructure/vinted"
	"github.com/revendo/backend/internal/interfaces/http/handler"
	"github.com/revendo/backend/internal/interfaces/http/middleware"
	"github.com/revendo/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	db, err := persistence.NewDatabase(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()

	// Redis backs the token blacklist and the report cache. Without it
	// both fall back to in-process implementations.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("redis unreachable, falling back to in-memory stores", zap.Error(err))
			redisClient = nil
		}
	}

	var blacklist auth.TokenBlacklist
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	var reportCache cache.ReportCache = cache.NopReportCache{}
	if cfg.Cache.Enabled {
		if redisClient != nil {
			reportCache = cache.NewRedisReportCache(redisClient, cfg.Cache.ReportTTL, log)
		} else {
			reportCache = cache.NewInMemoryReportCache(cfg.Cache.ReportTTL)
		}
	}

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Repositories
	itemRepo := persistence.NewGormItemRepository(db.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	analysisRepo := persistence.NewGormAnalysisRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, identityapp.DefaultAuthServiceConfig(), log)
	itemService := inventoryapp.NewItemService(itemRepo, shipmentRepo)
	shipmentService := inventoryapp.NewShipmentService(shipmentRepo, itemRepo)
	pipelineObserver := telemetry.NewPipelineObserver(tracerProvider, log)
	statsService := statsapp.NewStatsService(itemRepo, pipelineObserver, log)
	marketClient := vinted.NewClient(cfg.Market, log)
	analyzerService := marketapp.NewAnalyzerService(marketClient, analysisRepo, log)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	itemHandler := handler.NewItemHandler(itemService, reportCache)
	shipmentHandler := handler.NewShipmentHandler(shipmentService, reportCache)
	statsHandler := handler.NewStatsHandler(statsService, reportCache)
	marketHandler := handler.NewMarketHandler(analyzerService)
	systemHandler := handler.NewSystemHandler(db, redisClient)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSFromHTTPConfig(cfg.HTTP)))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Probes outside API versioning for load balancers
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Credential endpoints get a stricter limiter to slow brute force
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimit := middleware.RateLimit(authLimiter)
		engine.Use(func(c *gin.Context) {
			switch c.Request.URL.Path {
			case "/api/v1/auth/login", "/api/v1/auth/register", "/api/v1/auth/refresh":
				authLimit(c)
			default:
				c.Next()
			}
		})
	}

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthWithConfig(jwtConfig))
	engine.Use(middleware.TracingAttributeInjector())

	r := router.NewRouter(engine)
	r.Register(systemHandler).
		Register(authHandler).
		Register(itemHandler).
		Register(shipmentHandler).
		Register(statsHandler).
		Register(marketHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited gracefully")
}
