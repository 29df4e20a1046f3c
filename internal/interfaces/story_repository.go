package interfaces

import (
	"context"

	"story-magic/internal/models"
)

// StoryRepository хранилище историй (MongoDB). Все операции изменения
// ограничены владельцем: чужая история неотличима от несуществующей.
type StoryRepository interface {
	// Create сохраняет историю целиком. ID, UserID и CreatedAt должны быть заполнены.
	Create(ctx context.Context, story *models.Story) error

	// GetByID возвращает историю владельца. Returns models.ErrStoryNotFound.
	GetByID(ctx context.Context, id, userID string) (*models.Story, error)

	// ListByUser истории пользователя, новые первыми.
	ListByUser(ctx context.Context, userID string) ([]models.Story, error)

	// ListPublic истории всех пользователей, кроме excludeUserID, новые первыми.
	// limit <= 0 означает без ограничения.
	ListPublic(ctx context.Context, excludeUserID string, limit int) ([]models.Story, error)

	// Update применяет заданные поля и возвращает обновленную историю.
	Update(ctx context.Context, id, userID string, update models.StoryUpdate) (*models.Story, error)

	// Delete удаляет историю владельца. Returns models.ErrStoryNotFound.
	Delete(ctx context.Context, id, userID string) error

	// ToggleLike атомарно ставит или снимает лайк userID на любой истории.
	ToggleLike(ctx context.Context, id, userID string) (*models.LikeResult, error)

	// EnsureIndexes создает индексы коллекции.
	EnsureIndexes(ctx context.Context) error
}
