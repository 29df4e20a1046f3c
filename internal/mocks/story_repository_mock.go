package mocks

import (
	"context"

	"story-magic/internal/interfaces"
	"story-magic/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStoryRepository is a mock type for the StoryRepository type
type MockStoryRepository struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, story
func (_m *MockStoryRepository) Create(ctx context.Context, story *models.Story) error {
	ret := _m.Called(ctx, story)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *models.Story) error); ok {
		r0 = rf(ctx, story)
	} else {
		r0 = ret.Error(0)
	}
	return r0
}

// GetByID provides a mock function with given fields: ctx, id, userID
func (_m *MockStoryRepository) GetByID(ctx context.Context, id string, userID string) (*models.Story, error) {
	ret := _m.Called(ctx, id, userID)

	var r0 *models.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Story)
	}
	return r0, ret.Error(1)
}

// ListByUser provides a mock function with given fields: ctx, userID
func (_m *MockStoryRepository) ListByUser(ctx context.Context, userID string) ([]models.Story, error) {
	ret := _m.Called(ctx, userID)

	var r0 []models.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Story)
	}
	return r0, ret.Error(1)
}

// ListPublic provides a mock function with given fields: ctx, excludeUserID, limit
func (_m *MockStoryRepository) ListPublic(ctx context.Context, excludeUserID string, limit int) ([]models.Story, error) {
	ret := _m.Called(ctx, excludeUserID, limit)

	var r0 []models.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Story)
	}
	return r0, ret.Error(1)
}

// Update provides a mock function with given fields: ctx, id, userID, update
func (_m *MockStoryRepository) Update(ctx context.Context, id string, userID string, update models.StoryUpdate) (*models.Story, error) {
	ret := _m.Called(ctx, id, userID, update)

	var r0 *models.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Story)
	}
	return r0, ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, id, userID
func (_m *MockStoryRepository) Delete(ctx context.Context, id string, userID string) error {
	ret := _m.Called(ctx, id, userID)
	return ret.Error(0)
}

// ToggleLike provides a mock function with given fields: ctx, id, userID
func (_m *MockStoryRepository) ToggleLike(ctx context.Context, id string, userID string) (*models.LikeResult, error) {
	ret := _m.Called(ctx, id, userID)

	var r0 *models.LikeResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.LikeResult)
	}
	return r0, ret.Error(1)
}

// EnsureIndexes provides a mock function with given fields: ctx
func (_m *MockStoryRepository) EnsureIndexes(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// NewMockStoryRepository creates a new instance of MockStoryRepository.
func NewMockStoryRepository(t interface {
	mock.TestingT
	Helper()
}) *MockStoryRepository {
	m := &MockStoryRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ interfaces.StoryRepository = (*MockStoryRepository)(nil)
