package mocks

import (
	"context"

	"story-magic/internal/generation"

	"github.com/stretchr/testify/mock"
)

// MockImageResolver is a mock type for the ImageResolver type
type MockImageResolver struct {
	mock.Mock
}

// ResolveAll provides a mock function with given fields: ctx, scenes
func (_m *MockImageResolver) ResolveAll(ctx context.Context, scenes []generation.SceneDraft) []string {
	ret := _m.Called(ctx, scenes)

	var r0 []string
	if rf, ok := ret.Get(0).(func(context.Context, []generation.SceneDraft) []string); ok {
		r0 = rf(ctx, scenes)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]string)
		}
	}

	return r0
}

// NewMockImageResolver creates a new instance of MockImageResolver.
func NewMockImageResolver(t interface {
	mock.TestingT
	Helper()
}) *MockImageResolver {
	m := &MockImageResolver{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ generation.ImageResolver = (*MockImageResolver)(nil)
