package service

import (
	"context"

	"story-magic/internal/models"

	"github.com/google/uuid"
)

// StoryService истории пользователя, публичная лента и генерация.
// Все операции, кроме GenerateStory, требуют аутентифицированного userID.
type StoryService interface {
	ListStories(ctx context.Context, userID uuid.UUID) ([]models.Story, error)
	ListPublicStories(ctx context.Context, viewerID uuid.UUID) ([]models.Story, error)
	GetStory(ctx context.Context, userID uuid.UUID, storyID string) (*models.Story, error)
	CreateStory(ctx context.Context, userID uuid.UUID, input models.CreateStoryInput) (*models.Story, error)
	UpdateStory(ctx context.Context, userID uuid.UUID, storyID string, update models.StoryUpdate) (*models.Story, error)
	DeleteStory(ctx context.Context, userID uuid.UUID, storyID string) error
	ToggleLike(ctx context.Context, userID uuid.UUID, storyID string) (*models.LikeResult, error)
	CreateSampleStory(ctx context.Context, userID uuid.UUID) (*models.Story, error)
	// GenerateStory запускает конвейер. uuid.Nil означает анонимного
	// пользователя: история возвращается без сохранения.
	GenerateStory(ctx context.Context, userID uuid.UUID, input models.StoryInput) (*models.Story, error)
}
