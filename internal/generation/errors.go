package generation

import (
	"errors"
	"fmt"
	"net/http"

	"story-magic/internal/models"
)

// ErrTextGenerationFailed базовая ошибка шага генерации текста, на которую
// ссылаются UpstreamError и MalformedResponseError через errors.Is.
var ErrTextGenerationFailed = errors.New("text generation failed")

// ValidationError входные данные истории некорректны. Сетевых вызовов не было.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// UpstreamError провайдер генерации текста ответил ошибкой или недоступен.
type UpstreamError struct {
	Provider    string
	StatusCode  int // 0, если ответа не было (сеть, таймаут)
	RateLimited bool
	Err         error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream %s error: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrTextGenerationFailed }

// AuthFailed ключ провайдера отклонен. Это ошибка конфигурации сервера.
func (e *UpstreamError) AuthFailed() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// MalformedResponseError в ответе модели нет разбираемого JSON истории.
type MalformedResponseError struct {
	Raw string // начало ответа, для логов
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed story response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrTextGenerationFailed }

// PersistenceError история собрана, но сохранить ее не удалось.
type PersistenceError struct {
	Story *models.Story
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("story generated but not saved: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
