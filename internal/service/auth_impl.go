package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"story-magic/internal/config"
	"story-magic/internal/interfaces"
	"story-magic/internal/models"
	"story-magic/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer       = "story-magic"
	minPasswordLength = 6
)

// Compile-time check to ensure authServiceImpl implements AuthService
var _ AuthService = (*authServiceImpl)(nil)

type authServiceImpl struct {
	userRepo  interfaces.UserRepository
	tokenRepo interfaces.TokenRepository
	cfg       *config.Config
	validate  *validator.Validate
	now       func() time.Time
	logger    *zap.Logger
}

// NewAuthService creates a new instance of authServiceImpl.
func NewAuthService(userRepo interfaces.UserRepository, tokenRepo interfaces.TokenRepository, cfg *config.Config, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
		validate:  validation.New(),
		now:       time.Now,
		logger:    logger.Named("AuthService"),
	}
}

// Register создает пользователя и сразу выдает ему токен.
func (s *authServiceImpl) Register(ctx context.Context, input models.RegisterInput) (result *models.AuthResult, err error) {
	defer func() { observeOp(authOperationsTotal, "register", err) }()

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	logFields := []zap.Field{zap.String("email", email)}

	if name == "" || email == "" || input.Password == "" {
		s.logger.Warn("Registration attempt with missing fields", logFields...)
		return nil, models.ErrRegistrationFieldsMissing
	}
	if utf8.RuneCountInString(input.Password) < minPasswordLength {
		s.logger.Warn("Registration attempt with short password", logFields...)
		return nil, models.ErrPasswordTooShort
	}
	if err := s.validate.Var(email, "email"); err != nil {
		s.logger.Warn("Registration attempt with invalid email format", logFields...)
		return nil, fmt.Errorf("invalid email format: %w", models.ErrInvalidInput)
	}

	var parentEmail *string
	if input.ParentEmail != nil {
		if pe := strings.ToLower(strings.TrimSpace(*input.ParentEmail)); pe != "" {
			if err := s.validate.Var(pe, "email"); err != nil {
				return nil, fmt.Errorf("invalid parent email format: %w", models.ErrInvalidInput)
			}
			parentEmail = &pe
		}
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		s.logger.Error("Error checking existing email during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("error checking existing email: %w", err)
	}
	if existing != nil {
		s.logger.Warn("Registration attempt for existing email", logFields...)
		return nil, models.ErrEmailAlreadyExists
	}

	hashedPassword, err := hashPassword(input.Password, s.cfg.PasswordPepper)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Age:          input.Age,
		ParentEmail:  parentEmail,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		// ErrEmailAlreadyExists при гонке двух регистраций приходит из репозитория
		return nil, err
	}

	result, err = s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User registered successfully", zap.String("userID", user.ID.String()), zap.String("email", user.Email))
	return result, nil
}

// Login проверяет пароль и выдает новый токен.
func (s *authServiceImpl) Login(ctx context.Context, input models.LoginInput) (result *models.AuthResult, err error) {
	defer func() { observeOp(authOperationsTotal, "login", err) }()

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, models.ErrCredentialsMissing
	}

	s.logger.Info("Login attempt", zap.String("email", email))
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Warn("Login failed: user not found", zap.String("email", email))
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("Login failed: error getting user from repository", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !checkPasswordHash(input.Password, user.PasswordHash, s.cfg.PasswordPepper) {
		s.logger.Warn("Login failed: invalid password", zap.String("userID", user.ID.String()))
		return nil, models.ErrInvalidCredentials
	}

	result, err = s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User logged in successfully", zap.String("userID", user.ID.String()))
	return result, nil
}

// Logout отзывает токен. Уже отозванный или истекший токен ошибкой не считается.
func (s *authServiceImpl) Logout(ctx context.Context, claims *models.Claims) error {
	defer observeOp(authOperationsTotal, "logout", nil)
	if claims == nil || claims.ID == "" {
		return nil
	}

	log := s.logger.With(zap.String("userID", claims.UserID.String()), zap.String("tokenID", claims.ID))
	deletedCount, err := s.tokenRepo.DeleteToken(ctx, claims.UserID, claims.ID)
	if err != nil {
		log.Error("Failed to delete token during logout", zap.Error(err))
		return nil
	}
	if deletedCount > 0 {
		log.Info("Token revoked during logout")
	} else {
		log.Info("No token found to revoke during logout (already expired or logged out)")
	}
	return nil
}

// VerifyToken проверяет подпись, срок и наличие jti в хранилище сессий.
func (s *authServiceImpl) VerifyToken(ctx context.Context, tokenString string) (claims *models.Claims, err error) {
	defer func() { observeOp(authOperationsTotal, "verify", err) }()

	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Debug("Token verification failed: expired")
			return nil, models.ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			s.logger.Warn("Token verification failed: malformed")
			return nil, models.ErrTokenMalformed
		}
		s.logger.Warn("Failed to parse token", zap.Error(err))
		return nil, models.ErrTokenInvalid
	}

	parsed, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid || parsed.ID == "" || parsed.UserID == uuid.Nil {
		s.logger.Warn("Token verification failed (invalid claims)")
		return nil, models.ErrTokenInvalid
	}

	storedUserID, err := s.tokenRepo.GetUserIDByTokenID(ctx, parsed.ID)
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Debug("Token not found in store (revoked/logged out)", zap.String("tokenID", parsed.ID))
			return nil, models.ErrTokenInvalid
		}
		s.logger.Error("Error checking token existence via repository", zap.Error(err), zap.String("tokenID", parsed.ID))
		return nil, fmt.Errorf("error checking token existence: %w", err)
	}
	if storedUserID != parsed.UserID {
		s.logger.Error("Token user ID mismatch",
			zap.String("tokenUserID", parsed.UserID.String()),
			zap.String("storedUserID", storedUserID.String()),
		)
		return nil, models.ErrTokenInvalid
	}
	return parsed, nil
}

// GetUser возвращает пользователя по ID.
func (s *authServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, models.ErrUserNotFound) {
			s.logger.Error("Failed to get user", zap.String("userID", userID.String()), zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}

// issueToken подписывает JWT и регистрирует его jti в хранилище сессий.
func (s *authServiceImpl) issueToken(ctx context.Context, user *models.User) (*models.AuthResult, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.TokenTTL)
	tokenID := uuid.NewString()

	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   user.ID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if err := s.tokenRepo.SetToken(ctx, user.ID, tokenID, s.cfg.TokenTTL); err != nil {
		s.logger.Error("Failed to save token via repository", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	return &models.AuthResult{User: user, Token: signed, ExpiresAt: expiresAt}, nil
}

// applyPepper смешивает пароль с серверным секретом через HMAC-SHA256.
// Результат (32 байта) укладывается в лимит bcrypt в 72 байта.
func applyPepper(password, pepper string) []byte {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(password))
	return mac.Sum(nil)
}

func hashPassword(password, pepper string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(applyPepper(password, pepper), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash, pepper string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), applyPepper(password, pepper))
	return err == nil
}
