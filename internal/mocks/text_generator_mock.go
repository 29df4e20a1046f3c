package mocks

import (
	"context"

	"story-magic/internal/generation"
	"story-magic/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockTextGenerator is a mock type for the TextGenerator type
type MockTextGenerator struct {
	mock.Mock
}

// GenerateStoryDraft provides a mock function with given fields: ctx, in
func (_m *MockTextGenerator) GenerateStoryDraft(ctx context.Context, in models.StoryInput) (*generation.StoryDraft, error) {
	ret := _m.Called(ctx, in)

	var r0 *generation.StoryDraft
	if rf, ok := ret.Get(0).(func(context.Context, models.StoryInput) *generation.StoryDraft); ok {
		r0 = rf(ctx, in)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*generation.StoryDraft)
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

// NewMockTextGenerator creates a new instance of MockTextGenerator. It also registers a testing interface on the mock.
// The first argument is typically a *testing.T value.
func NewMockTextGenerator(t interface {
	mock.TestingT
	Helper()
}) *MockTextGenerator {
	m := &MockTextGenerator{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ generation.TextGenerator = (*MockTextGenerator)(nil)
