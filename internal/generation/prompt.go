package generation

import (
	"fmt"
	"strings"

	"story-magic/internal/models"
)

// ReferenceSceneCount сколько сцен запрашивается у модели.
// Фактическое число сцен берется из ответа.
const ReferenceSceneCount = 5

// StorySystemPrompt фиксированная системная инструкция для модели.
const StorySystemPrompt = "You are a creative children's storyteller who writes safe, engaging stories for kids aged 5-10. You always respond with valid JSON only."

const storyPromptTemplate = `Create a kid-friendly story (ages 5-10) with these details:
- Characters: %s
- Description: %s
- Genres: %s

Format your response as JSON with this exact structure:
{
  "title": "Story Title Here",
  "scenes": [
    {
      "text": "Scene text here (2-3 sentences, engaging and age-appropriate)",
      "imagePrompt": "Detailed description for realistic illustration (high-quality, detailed, kid-friendly)"
    }
  ]
}

Create exactly %d scenes that tell a complete story with:
- A beginning that introduces the characters and setting
- An exciting middle with adventure or discovery
- A happy, positive ending
- Each scene should be 2-3 sentences
- Each imagePrompt should be detailed and describe a realistic, high-quality illustration

Keep it:
- Appropriate for ages 5-10
- No violence, scary content, or inappropriate themes
- Positive and encouraging
- Educational when possible
- Fun and engaging

IMPORTANT: Return ONLY valid JSON, no other text.`

// BuildStoryPrompt собирает пользовательский промт из входных данных.
func BuildStoryPrompt(in models.StoryInput) string {
	return fmt.Sprintf(storyPromptTemplate,
		strings.Join(in.Characters, ", "),
		strings.TrimSpace(in.Description),
		strings.Join(in.Genre, ", "),
		ReferenceSceneCount,
	)
}
