package mocks

import (
	"context"

	"story-magic/internal/models"
	"story-magic/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAuthService is a mock type for the AuthService type
type MockAuthService struct {
	mock.Mock
}

// Register provides a mock function with given fields: ctx, input
func (_m *MockAuthService) Register(ctx context.Context, input models.RegisterInput) (*models.AuthResult, error) {
	ret := _m.Called(ctx, input)

	var r0 *models.AuthResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.AuthResult)
	}
	return r0, ret.Error(1)
}

// Login provides a mock function with given fields: ctx, input
func (_m *MockAuthService) Login(ctx context.Context, input models.LoginInput) (*models.AuthResult, error) {
	ret := _m.Called(ctx, input)

	var r0 *models.AuthResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.AuthResult)
	}
	return r0, ret.Error(1)
}

// Logout provides a mock function with given fields: ctx, claims
func (_m *MockAuthService) Logout(ctx context.Context, claims *models.Claims) error {
	ret := _m.Called(ctx, claims)
	return ret.Error(0)
}

// VerifyToken provides a mock function with given fields: ctx, tokenString
func (_m *MockAuthService) VerifyToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	ret := _m.Called(ctx, tokenString)

	var r0 *models.Claims
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Claims)
	}
	return r0, ret.Error(1)
}

// GetUser provides a mock function with given fields: ctx, userID
func (_m *MockAuthService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	ret := _m.Called(ctx, userID)

	var r0 *models.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.User)
	}
	return r0, ret.Error(1)
}

// NewMockAuthService creates a new instance of MockAuthService.
func NewMockAuthService(t interface {
	mock.TestingT
	Helper()
}) *MockAuthService {
	m := &MockAuthService{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.AuthService = (*MockAuthService)(nil)
