package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Retry параметры повторных попыток подключения при старте.
// Сервисы в docker compose поднимаются не одновременно.
type Retry struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetry около двух минут ожидания.
var DefaultRetry = Retry{Attempts: 40, Delay: 3 * time.Second}

// PostgresConfig содержит настройки пула PostgreSQL
type PostgresConfig struct {
	DSN         string
	MaxConns    int32
	MaxIdleTime time.Duration
}

// ConnectPostgres создает пул pgx и проверяет его через Ping.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig, retry Retry, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("unable to parse postgres config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MaxIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxIdleTime
	}

	var pool *pgxpool.Pool
	err = withRetry(ctx, "postgres", retry, logger, func(attemptCtx context.Context) error {
		p, err := pgxpool.NewWithConfig(attemptCtx, poolConfig)
		if err != nil {
			return fmt.Errorf("unable to create postgres connection pool: %w", err)
		}
		if err := p.Ping(attemptCtx); err != nil {
			p.Close()
			return fmt.Errorf("unable to ping postgres database: %w", err)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// ConnectRedis создает клиента Redis и проверяет его через Ping.
func ConnectRedis(ctx context.Context, opts *redis.Options, retry Retry, logger *zap.Logger) (*redis.Client, error) {
	logger.Info("Redis connection options configured", zap.String("address", opts.Addr), zap.Int("db", opts.DB))

	var client *redis.Client
	err := withRetry(ctx, "redis", retry, logger, func(attemptCtx context.Context) error {
		c := redis.NewClient(opts)
		if err := c.Ping(attemptCtx).Err(); err != nil {
			_ = c.Close()
			return fmt.Errorf("unable to ping redis: %w", err)
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// ConnectMongo подключается к MongoDB и возвращает клиента. База выбирается вызывающим.
func ConnectMongo(ctx context.Context, uri string, retry Retry, logger *zap.Logger) (*mongo.Client, error) {
	var client *mongo.Client
	err := withRetry(ctx, "mongodb", retry, logger, func(attemptCtx context.Context) error {
		c, err := mongo.Connect(attemptCtx, options.Client().ApplyURI(uri))
		if err != nil {
			return fmt.Errorf("unable to create mongodb client: %w", err)
		}
		if err := c.Ping(attemptCtx, nil); err != nil {
			_ = c.Disconnect(context.Background())
			return fmt.Errorf("unable to ping mongodb: %w", err)
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func withRetry(ctx context.Context, name string, retry Retry, logger *zap.Logger, connect func(context.Context) error) error {
	attempts := retry.Attempts
	if attempts < 1 {
		attempts = 1
	}
	logger.Info("Attempting to connect", zap.String("target", name), zap.Int("max_retries", attempts), zap.Duration("retry_delay", retry.Delay))

	var lastErr error
	for i := 0; i < attempts; i++ {
		attempt := i + 1
		attemptCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		lastErr = connect(attemptCtx)
		cancel()
		if lastErr == nil {
			logger.Info("Successfully connected", zap.String("target", name), zap.Int("attempt", attempt))
			return nil
		}

		logger.Warn("Connection failed, retrying...",
			zap.String("target", name),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", attempts),
			zap.Error(lastErr),
		)
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("connecting to %s: %w", name, ctx.Err())
		case <-time.After(retry.Delay):
		}
	}

	logger.Error("Failed to connect after all retries", zap.String("target", name), zap.Int("attempts", attempts), zap.Error(lastErr))
	return fmt.Errorf("failed to connect to %s after %d attempts: %w", name, attempts, lastErr)
}
