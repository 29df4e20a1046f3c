package models

import (
	"time"

	"github.com/google/uuid"
)

// User зарегистрированный пользователь (ребенок или родитель).
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"` // Не отдаем хеш пароля
	Age          *int      `db:"age" json:"age,omitempty"`
	ParentEmail  *string   `db:"parent_email" json:"parentEmail,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// RegisterInput данные регистрации.
type RegisterInput struct {
	Name        string  `json:"name" validate:"required,notblank,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=6"`
	Age         *int    `json:"age,omitempty" validate:"omitempty,min=1,max=120"`
	ParentEmail *string `json:"parentEmail,omitempty" validate:"omitempty,email"`
}

// LoginInput данные входа.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult пользователь и выданный ему токен.
type AuthResult struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}
