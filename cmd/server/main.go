package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"story-magic/internal/config"
	"story-magic/internal/generation"
	"story-magic/internal/handler"
	"story-magic/internal/repository"
	"story-magic/internal/service"
	"story-magic/pkg/database"
	"story-magic/pkg/logger"
	"story-magic/pkg/middleware"
	"story-magic/pkg/migration"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
		Service:  "story-magic",
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	zap.ReplaceGlobals(log)
	zap.L().Info("Logger initialized successfully", zap.String("logLevel", cfg.LogLevel), zap.String("env", cfg.Env))

	// --- External Connections ---
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conns, err := connectAll(rootCtx, cfg, log)
	if err != nil {
		zap.L().Fatal("Failed to connect to storage", zap.Error(err))
	}
	defer conns.Close()

	if err := migration.NewMigrator(repository.MigrationConfig(), conns.pg).Up(); err != nil {
		zap.L().Fatal("Failed to apply migrations", zap.Error(err))
	}

	// --- Dependency Injection ---
	userRepo := repository.NewPgUserRepository(conns.pg, log)
	tokenRepo := repository.NewRedisTokenRepository(conns.redis, log)
	storyRepo := repository.NewMongoStoryRepository(conns.mongo.Database(cfg.MongoDatabase), log)

	indexCtx, indexCancel := context.WithTimeout(rootCtx, 30*time.Second)
	if err := storyRepo.EnsureIndexes(indexCtx); err != nil {
		zap.L().Fatal("Failed to ensure story indexes", zap.Error(err))
	}
	indexCancel()

	generator, err := generation.NewFromConfig(rootCtx, cfg, log)
	if err != nil {
		zap.L().Fatal("Failed to configure story generation", zap.Error(err))
	}

	authSvc := service.NewAuthService(userRepo, tokenRepo, cfg, log)
	storySvc := service.NewStoryService(storyRepo, generator, cfg.PublicFeedCacheTTL, log)
	apiHandler := handler.NewHandler(authSvc, storySvc, cfg, log)

	limits := handler.RateLimits{
		Auth:     handler.NewRedisRateLimiter(conns.redis, "auth", cfg.AuthRatePerMinute, log),
		Generate: handler.NewRedisRateLimiter(conns.redis, "generate", cfg.GenerateRatePerMinute, log),
	}
	zap.L().Info("Rate limiter middleware initialized",
		zap.Uint("authPerMinute", cfg.AuthRatePerMinute),
		zap.Uint("generatePerMinute", cfg.GenerateRatePerMinute),
	)

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.GinZapLogger(log))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	apiHandler.RegisterRoutes(router, limits)

	// Prometheus middleware подключается после регистрации роутов
	p := ginprometheus.NewPrometheus("gin")
	p.Use(router)

	// --- Start HTTP Server ---
	// WriteTimeout покрывает полный прогон генерации с паузами между картинками
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ServerTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zap.L().Info("Starting HTTP server", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-rootCtx.Done()
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}

type connections struct {
	pg    *pgxpool.Pool
	redis *redis.Client
	mongo *mongo.Client
}

// connectAll подключается к PostgreSQL, Redis и MongoDB параллельно.
func connectAll(ctx context.Context, cfg *config.Config, log *zap.Logger) (*connections, error) {
	conns := &connections{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		conns.pg, err = database.ConnectPostgres(gctx, database.PostgresConfig{
			DSN:         cfg.PostgresDSN(),
			MaxConns:    cfg.DBMaxConns,
			MaxIdleTime: 5 * time.Minute,
		}, database.DefaultRetry, log.Named("Postgres"))
		return err
	})
	g.Go(func() (err error) {
		conns.redis, err = database.ConnectRedis(gctx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, database.DefaultRetry, log.Named("Redis"))
		return err
	})
	g.Go(func() (err error) {
		conns.mongo, err = database.ConnectMongo(gctx, cfg.MongoURI, database.DefaultRetry, log.Named("MongoDB"))
		return err
	})

	if err := g.Wait(); err != nil {
		conns.Close()
		return nil, err
	}
	return conns, nil
}

func (c *connections) Close() {
	if c.pg != nil {
		c.pg.Close()
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
	if c.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.mongo.Disconnect(ctx)
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	allowedOrigins := cfg.GetAllowedOrigins()
	if len(allowedOrigins) > 0 {
		corsCfg.AllowOrigins = allowedOrigins
	} else {
		corsCfg.AllowOrigins = []string{"http://localhost:3000"}
		zap.L().Info("CORSAllowedOrigins not set, allowing default", zap.String("origin", "http://localhost:3000"))
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsCfg.AllowCredentials = true
	corsCfg.MaxAge = 12 * time.Hour
	return corsCfg
}
