package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenRepository хранит идентификаторы (jti) действующих сессий в Redis.
// Токен, которого нет в хранилище, считается отозванным.
type TokenRepository interface {
	// SetToken сохраняет jti с TTL, равным оставшемуся сроку жизни токена.
	SetToken(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error

	// GetUserIDByTokenID возвращает владельца jti.
	// Returns models.ErrTokenNotFound if the token is unknown or expired.
	GetUserIDByTokenID(ctx context.Context, tokenID string) (uuid.UUID, error)

	// DeleteToken удаляет один jti. Возвращает число удаленных ключей.
	DeleteToken(ctx context.Context, userID uuid.UUID, tokenID string) (int64, error)

	// DeleteTokensByUserID удаляет все сессии пользователя.
	DeleteTokensByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}
