package models

import (
	"context"

	"github.com/google/uuid"
)

// contextKey - приватный тип для ключей контекста, чтобы избежать коллизий.
type contextKey string

// UserContextKey ключ для UserID в context.Context (и в gin.Context).
const UserContextKey contextKey = "userID"

// GinUserIDKey ключ для UserID в gin.Context.
const GinUserIDKey = "user_id"

// GinClaimsKey ключ для *Claims в gin.Context.
const GinClaimsKey = "claims"

// WithUserID возвращает контекст с UserID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserContextKey, userID)
}

// GetUserIDFromContext извлекает UserID из контекста.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserContextKey).(uuid.UUID)
	return userID, ok
}
