package generation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	placeholderBaseURL   = "https://placehold.co/1024x768"
	placeholderTextColor = "FFFFFF"
	placeholderLabelLen  = 80
	coverPrompt          = "Story cover"
)

type placeholderStyle struct {
	background string // градиент "from/to"
	emoji      string
}

var placeholderPalette = []placeholderStyle{
	{background: "9333EA/EC4899", emoji: "🌟"},
	{background: "3B82F6/8B5CF6", emoji: "✨"},
	{background: "EC4899/F97316", emoji: "🎨"},
	{background: "10B981/3B82F6", emoji: "🌈"},
	{background: "F59E0B/EF4444", emoji: "🎭"},
}

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// Placeholder детерминированная картинка-заглушка для сцены.
// Палитра выбирается по index mod 5, подпись строится из начала промта.
func Placeholder(prompt string, index int) string {
	style := placeholderPalette[paletteIndex(index)]

	runes := []rune(prompt)
	if len(runes) > placeholderLabelLen {
		runes = runes[:placeholderLabelLen]
	}
	shortDesc := strings.TrimSpace(nonWordRe.ReplaceAllString(string(runes), " "))
	label := fmt.Sprintf("Scene %d: %s...", index+1, shortDesc)

	return fmt.Sprintf("%s/%s/%s/png?text=%s+%s&font=roboto",
		placeholderBaseURL,
		style.background,
		placeholderTextColor,
		escapeComponent(style.emoji),
		escapeComponent(label),
	)
}

// IsPlaceholder true для URL, построенных Placeholder.
func IsPlaceholder(imageURL string) bool {
	return strings.HasPrefix(imageURL, placeholderBaseURL+"/")
}

func paletteIndex(index int) int {
	n := len(placeholderPalette)
	return ((index % n) + n) % n
}

// escapeComponent экранирует компонент URL, пробел кодируется как %20.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
