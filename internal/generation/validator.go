package generation

import (
	"strings"

	"story-magic/internal/models"
	"story-magic/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// Сообщения валидации, которые видит клиент.
const (
	MsgCharactersRequired  = "At least one character is required"
	MsgDescriptionRequired = "Story description is required"
	MsgGenreRequired       = "At least one genre is required"
)

// PromptValidator проверяет StoryInput до любых внешних вызовов.
type PromptValidator struct {
	validate *validator.Validate
}

func NewPromptValidator() *PromptValidator {
	return &PromptValidator{validate: validation.New()}
}

// Validate возвращает *ValidationError для первого некорректного поля
// в порядке characters, description, genre.
func (v *PromptValidator) Validate(in models.StoryInput) error {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}

	fe := validation.FirstError(err)
	if fe == nil {
		// InvalidValidationError и подобное: вход не структура
		return &ValidationError{Field: "input", Message: err.Error()}
	}

	field := fe.Field()
	switch {
	case strings.HasPrefix(field, "characters"):
		return &ValidationError{Field: "characters", Message: MsgCharactersRequired}
	case field == "description":
		return &ValidationError{Field: "description", Message: MsgDescriptionRequired}
	case field == "genre":
		return &ValidationError{Field: "genre", Message: MsgGenreRequired}
	default:
		return &ValidationError{Field: field, Message: fe.Error()}
	}
}
