package handler

import (
	"net/http"
	"time"

	"story-magic/internal/models"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisRateLimiter ограничивает число запросов с одного IP в минуту.
// Счетчики хранятся в Redis и общие для всех экземпляров сервера.
func NewRedisRateLimiter(client *redis.Client, scope string, perMinute uint, logger *zap.Logger) gin.HandlerFunc {
	store := rateli.RedisStore(&rateli.RedisOptions{
		RedisClient: client,
		Rate:        time.Minute,
		Limit:       perMinute,
	})
	return newRateLimiter(store, scope, logger)
}

// NewInMemoryRateLimiter то же ограничение в памяти процесса (CLI, тесты).
func NewInMemoryRateLimiter(scope string, perMinute uint, logger *zap.Logger) gin.HandlerFunc {
	store := rateli.InMemoryStore(&rateli.InMemoryOptions{
		Rate:  time.Minute,
		Limit: perMinute,
	})
	return newRateLimiter(store, scope, logger)
}

func newRateLimiter(store rateli.Store, scope string, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("RateLimiter").With(zap.String("scope", scope))
	return rateli.RateLimiter(store, &rateli.Options{
		ErrorHandler: func(c *gin.Context, info rateli.Info) {
			rateLimitedTotal.WithLabelValues(scope).Inc()
			log.Warn("Rate limit exceeded",
				zap.String("clientIP", c.ClientIP()),
				zap.Time("resetTime", info.ResetTime),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Code:  models.ErrCodeRateLimited,
				Error: msgRateLimited,
			})
		},
		KeyFunc: func(c *gin.Context) string {
			return scope + ":" + c.ClientIP()
		},
	})
}
