package mocks

import (
	"context"
	"time"

	"story-magic/internal/interfaces"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTokenRepository is a mock type for the TokenRepository type
type MockTokenRepository struct {
	mock.Mock
}

// SetToken provides a mock function with given fields: ctx, userID, tokenID, ttl
func (_m *MockTokenRepository) SetToken(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	ret := _m.Called(ctx, userID, tokenID, ttl)
	return ret.Error(0)
}

// GetUserIDByTokenID provides a mock function with given fields: ctx, tokenID
func (_m *MockTokenRepository) GetUserIDByTokenID(ctx context.Context, tokenID string) (uuid.UUID, error) {
	ret := _m.Called(ctx, tokenID)

	var r0 uuid.UUID
	if rf, ok := ret.Get(0).(func(context.Context, string) uuid.UUID); ok {
		r0 = rf(ctx, tokenID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(uuid.UUID)
	}
	return r0, ret.Error(1)
}

// DeleteToken provides a mock function with given fields: ctx, userID, tokenID
func (_m *MockTokenRepository) DeleteToken(ctx context.Context, userID uuid.UUID, tokenID string) (int64, error) {
	ret := _m.Called(ctx, userID, tokenID)

	var r0 int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(int64)
	}
	return r0, ret.Error(1)
}

// DeleteTokensByUserID provides a mock function with given fields: ctx, userID
func (_m *MockTokenRepository) DeleteTokensByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	ret := _m.Called(ctx, userID)

	var r0 int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(int64)
	}
	return r0, ret.Error(1)
}

// NewMockTokenRepository creates a new instance of MockTokenRepository.
func NewMockTokenRepository(t interface {
	mock.TestingT
	Helper()
}) *MockTokenRepository {
	m := &MockTokenRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ interfaces.TokenRepository = (*MockTokenRepository)(nil)
