package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New возвращает validator с правилом notblank и именами полей из json-тегов.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// Ошибка возможна только при пустом имени тега
	_ = v.RegisterValidation("notblank", NotBlank)
	return v
}

// NotBlank строка не пуста после TrimSpace.
func NotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(field.String()) != ""
}

// FirstError возвращает первую ошибку поля или nil.
func FirstError(err error) validator.FieldError {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return verrs[0]
	}
	return nil
}
