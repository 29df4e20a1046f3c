package mocks

import (
	"context"

	"story-magic/internal/models"
	"story-magic/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStoryService is a mock type for the StoryService type
type MockStoryService struct {
	mock.Mock
}

func (_m *MockStoryService) story(ret mock.Arguments) (*models.Story, error) {
	var r0 *models.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Story)
	}
	return r0, ret.Error(1)
}

func (_m *MockStoryService) stories(ret mock.Arguments) ([]models.Story, error) {
	var r0 []models.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Story)
	}
	return r0, ret.Error(1)
}

// ListStories provides a mock function with given fields: ctx, userID
func (_m *MockStoryService) ListStories(ctx context.Context, userID uuid.UUID) ([]models.Story, error) {
	return _m.stories(_m.Called(ctx, userID))
}

// ListPublicStories provides a mock function with given fields: ctx, viewerID
func (_m *MockStoryService) ListPublicStories(ctx context.Context, viewerID uuid.UUID) ([]models.Story, error) {
	return _m.stories(_m.Called(ctx, viewerID))
}

// GetStory provides a mock function with given fields: ctx, userID, storyID
func (_m *MockStoryService) GetStory(ctx context.Context, userID uuid.UUID, storyID string) (*models.Story, error) {
	return _m.story(_m.Called(ctx, userID, storyID))
}

// CreateStory provides a mock function with given fields: ctx, userID, input
func (_m *MockStoryService) CreateStory(ctx context.Context, userID uuid.UUID, input models.CreateStoryInput) (*models.Story, error) {
	return _m.story(_m.Called(ctx, userID, input))
}

// UpdateStory provides a mock function with given fields: ctx, userID, storyID, update
func (_m *MockStoryService) UpdateStory(ctx context.Context, userID uuid.UUID, storyID string, update models.StoryUpdate) (*models.Story, error) {
	return _m.story(_m.Called(ctx, userID, storyID, update))
}

// DeleteStory provides a mock function with given fields: ctx, userID, storyID
func (_m *MockStoryService) DeleteStory(ctx context.Context, userID uuid.UUID, storyID string) error {
	ret := _m.Called(ctx, userID, storyID)
	return ret.Error(0)
}

// ToggleLike provides a mock function with given fields: ctx, userID, storyID
func (_m *MockStoryService) ToggleLike(ctx context.Context, userID uuid.UUID, storyID string) (*models.LikeResult, error) {
	ret := _m.Called(ctx, userID, storyID)

	var r0 *models.LikeResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.LikeResult)
	}
	return r0, ret.Error(1)
}

// CreateSampleStory provides a mock function with given fields: ctx, userID
func (_m *MockStoryService) CreateSampleStory(ctx context.Context, userID uuid.UUID) (*models.Story, error) {
	return _m.story(_m.Called(ctx, userID))
}

// GenerateStory provides a mock function with given fields: ctx, userID, input
func (_m *MockStoryService) GenerateStory(ctx context.Context, userID uuid.UUID, input models.StoryInput) (*models.Story, error) {
	return _m.story(_m.Called(ctx, userID, input))
}

// NewMockStoryService creates a new instance of MockStoryService.
func NewMockStoryService(t interface {
	mock.TestingT
	Helper()
}) *MockStoryService {
	m := &MockStoryService{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.StoryService = (*MockStoryService)(nil)
