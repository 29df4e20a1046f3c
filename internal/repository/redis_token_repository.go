package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"story-magic/internal/interfaces"
	"story-magic/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check to ensure redisTokenRepository implements TokenRepository
var _ interfaces.TokenRepository = (*redisTokenRepository)(nil)

type redisTokenRepository struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewRedisTokenRepository creates a new Redis-backed TokenRepository.
func NewRedisTokenRepository(client redis.UniversalClient, logger *zap.Logger) interfaces.TokenRepository {
	return &redisTokenRepository{
		client: client,
		logger: logger.Named("RedisTokenRepo"),
	}
}

func sessionKey(tokenID string) string { return fmt.Sprintf("session:%s", tokenID) }
func userSessionsKey(userID uuid.UUID) string { return fmt.Sprintf("user_sessions:%s", userID.String()) }

// SetToken stores the session key and adds it to the user's set:
// session:{jti} -> userID (TTL), user_sessions:{userID} -> {jti...}
func (r *redisTokenRepository) SetToken(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("non-positive session ttl %s", ttl)
	}
	setKey := userSessionsKey(userID)

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(tokenID), userID.String(), ttl)
	pipe.SAdd(ctx, setKey, tokenID)
	// Множество живет не меньше самой долгой сессии
	pipe.ExpireGT(ctx, setKey, ttl)
	pipe.ExpireNX(ctx, setKey, ttl)

	r.logger.Debug("Setting session token in Redis",
		zap.String("userID", userID.String()),
		zap.String("tokenID", tokenID),
		zap.Duration("ttl", ttl),
	)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to set session token in redis", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to set session token in redis: %w", err)
	}
	return nil
}

// GetUserIDByTokenID retrieves the UserID associated with a session jti.
func (r *redisTokenRepository) GetUserIDByTokenID(ctx context.Context, tokenID string) (uuid.UUID, error) {
	key := sessionKey(tokenID)
	userIDStr, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Session token not found in Redis", zap.String("tokenID", tokenID))
			return uuid.Nil, models.ErrTokenNotFound
		}
		r.logger.Error("Failed to get session token from redis", zap.Error(err), zap.String("key", key))
		return uuid.Nil, fmt.Errorf("failed to get session token from redis: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		r.logger.Error("Failed to parse userID from redis session data",
			zap.Error(err),
			zap.String("tokenID", tokenID),
			zap.String("value", userIDStr),
		)
		return uuid.Nil, fmt.Errorf("corrupted userID data in redis for session %s: %w", tokenID, err)
	}
	return userID, nil
}

// DeleteToken removes one session and its identifier from the user's set.
func (r *redisTokenRepository) DeleteToken(ctx context.Context, userID uuid.UUID, tokenID string) (int64, error) {
	pipe := r.client.TxPipeline()
	delCmd := pipe.Del(ctx, sessionKey(tokenID))
	pipe.SRem(ctx, userSessionsKey(userID), tokenID)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to delete session token", zap.Error(err), zap.String("tokenID", tokenID))
		return 0, fmt.Errorf("failed to delete session token: %w", err)
	}
	deleted := delCmd.Val()
	r.logger.Info("Session token deleted", zap.String("userID", userID.String()), zap.Int64("deletedCount", deleted))
	return deleted, nil
}

// DeleteTokensByUserID removes all sessions of the user.
func (r *redisTokenRepository) DeleteTokensByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	setKey := userSessionsKey(userID)
	tokenIDs, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		r.logger.Error("Failed to list user sessions", zap.Error(err), zap.String("userID", userID.String()))
		return 0, fmt.Errorf("failed to list user sessions: %w", err)
	}
	if len(tokenIDs) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(tokenIDs)+1)
	for _, id := range tokenIDs {
		keys = append(keys, sessionKey(id))
	}

	pipe := r.client.TxPipeline()
	delCmd := pipe.Del(ctx, keys...)
	pipe.Del(ctx, setKey)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to delete user sessions", zap.Error(err), zap.String("userID", userID.String()))
		return 0, fmt.Errorf("failed to delete user sessions: %w", err)
	}

	deleted := delCmd.Val()
	r.logger.Info("All user sessions deleted", zap.String("userID", userID.String()), zap.Int64("deletedCount", deleted))
	return deleted, nil
}
