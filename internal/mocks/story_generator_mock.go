package mocks

import (
	"context"

	"story-magic/internal/generation"
	"story-magic/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStoryGenerator is a mock type for the StoryGenerator type
type MockStoryGenerator struct {
	mock.Mock
}

// Generate provides a mock function with given fields: ctx, in
func (_m *MockStoryGenerator) Generate(ctx context.Context, in models.StoryInput) (*models.Story, error) {
	ret := _m.Called(ctx, in)

	var r0 *models.Story
	if rf, ok := ret.Get(0).(func(context.Context, models.StoryInput) *models.Story); ok {
		r0 = rf(ctx, in)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*models.Story)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, models.StoryInput) error); ok {
		r1 = rf(ctx, in)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockStoryGenerator creates a new instance of MockStoryGenerator.
func NewMockStoryGenerator(t interface {
	mock.TestingT
	Helper()
}) *MockStoryGenerator {
	m := &MockStoryGenerator{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ generation.StoryGenerator = (*MockStoryGenerator)(nil)
