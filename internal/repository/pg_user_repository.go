package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"story-magic/internal/interfaces"
	"story-magic/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	userColumns = `id, name, email, password_hash, age, parent_email, created_at, updated_at`

	createUserQuery = `
        INSERT INTO users (name, email, password_hash, age, parent_email)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	getUserByEmailQuery = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	getUserByIDQuery    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	// unique_violation
	pgUniqueViolation = "23505"
)

// Compile-time check to ensure pgUserRepository implements UserRepository
var _ interfaces.UserRepository = (*pgUserRepository)(nil)

type pgUserRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgUserRepository creates a new PostgreSQL-backed UserRepository.
func NewPgUserRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.UserRepository {
	return &pgUserRepository{
		db:     db,
		logger: logger.Named("PgUserRepo"),
	}
}

// CreateUser inserts a new user into the database. Email хранится в нижнем регистре.
func (r *pgUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	if user.ParentEmail != nil {
		pe := normalizeEmail(*user.ParentEmail)
		user.ParentEmail = &pe
	}

	r.logger.Debug("Executing query", zap.String("query", "createUser"), zap.String("email", user.Email))
	err := r.db.QueryRow(ctx, createUserQuery, user.Name, user.Email, user.PasswordHash, user.Age, user.ParentEmail).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			r.logger.Warn("Attempted to create duplicate user by email",
				zap.String("email", user.Email),
				zap.String("constraint", pgErr.ConstraintName),
			)
			return models.ErrEmailAlreadyExists
		}
		r.logger.Error("Failed to create user in postgres", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("failed to create user in postgres: %w", err)
	}

	r.logger.Info("User created successfully", zap.String("userID", user.ID.String()), zap.String("email", user.Email))
	return nil
}

// GetUserByEmail retrieves a user by their email.
func (r *pgUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = normalizeEmail(email)
	var user models.User
	if err := pgxscan.Get(ctx, r.db, &user, getUserByEmailQuery, email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by email", zap.String("email", email))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by email from postgres", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email from postgres: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *pgUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := pgxscan.Get(ctx, r.db, &user, getUserByIDQuery, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by ID", zap.String("id", id.String()))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by id from postgres", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get user by id from postgres: %w", err)
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
