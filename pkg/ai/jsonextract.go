package ai

import (
	"errors"
	"strings"
)

var (
	// ErrNoJSONObject в тексте нет открывающей '{'
	ErrNoJSONObject = errors.New("no JSON object found in text")
	// ErrUnbalancedJSON объект начинается, но скобки не сбалансированы
	ErrUnbalancedJSON = errors.New("unbalanced braces in JSON object")
)

// ExtractJSONObject возвращает первый сбалансированный фрагмент {...} из ответа модели.
// Модели часто оборачивают JSON в пояснения или markdown-блоки, поэтому
// весь ответ как JSON не разбирается. Скобки внутри строковых литералов
// не учитываются, экранирование внутри строк поддерживается.
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", ErrNoJSONObject
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", ErrUnbalancedJSON
}
