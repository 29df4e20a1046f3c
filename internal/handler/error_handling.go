package handler

import (
	"errors"
	"net/http"

	"story-magic/internal/generation"
	"story-magic/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Сообщения об ошибках генерации, которые видит клиент.
const (
	msgUpstreamConfig   = "Invalid Hugging Face API key. Please check your configuration."
	msgRateLimited      = "Rate limit exceeded. Please wait a moment and try again!"
	msgGenerationFailed = "Failed to generate story. Please try again."
	msgStoryNotSaved    = "Story was generated but could not be saved. Please try again."
)

func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp models.ErrorResponse

	var validationErr *generation.ValidationError
	var upstreamErr *generation.UpstreamError
	var persistenceErr *generation.PersistenceError

	switch {
	// --- Генерация ---
	case errors.As(err, &validationErr):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeValidation, Error: validationErr.Message}
	case errors.As(err, &persistenceErr):
		zap.L().Error("Generated story was not persisted", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.StoryNotSavedResponse{
			ErrorResponse: models.ErrorResponse{Code: models.ErrCodeStoryNotSaved, Error: msgStoryNotSaved},
			Story:         persistenceErr.Story,
		})
		return
	case errors.As(err, &upstreamErr) && upstreamErr.AuthFailed():
		zap.L().Error("Text provider rejected credentials", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = models.ErrorResponse{Code: models.ErrCodeUpstreamConfig, Error: msgUpstreamConfig}
	case errors.As(err, &upstreamErr) && upstreamErr.RateLimited:
		statusCode = http.StatusTooManyRequests
		errResp = models.ErrorResponse{Code: models.ErrCodeRateLimited, Error: msgRateLimited}
	case errors.Is(err, generation.ErrTextGenerationFailed):
		zap.L().Error("Story generation failed", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = models.ErrorResponse{Code: models.ErrCodeGeneration, Error: msgGenerationFailed}

	// --- Аутентификация ---
	case errors.Is(err, models.ErrRegistrationFieldsMissing):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeValidation, Error: "Please provide name, email, and password"}
	case errors.Is(err, models.ErrCredentialsMissing):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeValidation, Error: "Please provide email and password"}
	case errors.Is(err, models.ErrPasswordTooShort):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeValidation, Error: "Password must be at least 6 characters"}
	case errors.Is(err, models.ErrEmailAlreadyExists):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeConflict, Error: "User with this email already exists"}
	case errors.Is(err, models.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		errResp = models.ErrorResponse{Code: models.ErrCodeUnauthorized, Error: "Invalid email or password"}
	case errors.Is(err, models.ErrUnauthorized),
		errors.Is(err, models.ErrTokenInvalid),
		errors.Is(err, models.ErrTokenMalformed),
		errors.Is(err, models.ErrTokenExpired),
		errors.Is(err, models.ErrTokenNotFound):
		statusCode = http.StatusUnauthorized
		errResp = models.ErrorResponse{Code: models.ErrCodeUnauthorized, Error: "Not authenticated"}
	case errors.Is(err, models.ErrUserNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Error: "User not found"}

	// --- Истории ---
	case errors.Is(err, models.ErrInvalidStoryID):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeValidation, Error: "Invalid story ID"}
	case errors.Is(err, models.ErrStoryNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Error: "Story not found"}
	case errors.Is(err, models.ErrMissingFields):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeValidation, Error: "Missing required fields"}
	case errors.Is(err, models.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeValidation, Error: err.Error()}
	case errors.Is(err, models.ErrBadRequest):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeValidation, Error: "Invalid request body"}

	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = models.ErrorResponse{Code: models.ErrCodeInternal, Error: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}
