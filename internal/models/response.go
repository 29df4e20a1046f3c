package models

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
// Code заполняется только там, где клиенту нужно различать ошибки программно.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Коды ошибок API
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeUpstreamConfig = "UPSTREAM_CONFIG"
	ErrCodeGeneration     = "GENERATION_FAILED"
	ErrCodeStoryNotSaved  = "STORY_NOT_SAVED"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// StoryNotSavedResponse история сгенерирована, но не сохранена.
// Клиент получает саму историю, чтобы не терять результат генерации.
type StoryNotSavedResponse struct {
	ErrorResponse
	Story *Story `json:"story"`
}
