package service

import (
	"context"

	"story-magic/internal/models"

	"github.com/google/uuid"
)

// AuthService регистрация, вход и проверка сессий пользователей.
type AuthService interface {
	Register(ctx context.Context, input models.RegisterInput) (*models.AuthResult, error)
	Login(ctx context.Context, input models.LoginInput) (*models.AuthResult, error)
	Logout(ctx context.Context, claims *models.Claims) error
	VerifyToken(ctx context.Context, tokenString string) (*models.Claims, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}
