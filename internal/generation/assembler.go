package generation

import (
	"fmt"
	"time"

	"story-magic/internal/models"

	"github.com/google/uuid"
)

// Assembler собирает Story из входа, черновика и картинок. Генератор
// идентификаторов и часы подменяются в тестах.
type Assembler struct {
	newID func() string
	now   func() time.Time
}

func NewAssembler() *Assembler {
	return &Assembler{
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// NewAssemblerWith creates an Assembler with explicit id source and clock.
func NewAssemblerWith(newID func() string, now func() time.Time) *Assembler {
	return &Assembler{newID: newID, now: now}
}

// Assemble возвращает полностью заполненную историю. Идентификаторы сцен
// имеют вид {storyId}-scene-{index}. Обложка повторяет картинку первой сцены.
func (a *Assembler) Assemble(in models.StoryInput, draft *StoryDraft, imageURLs []string) *models.Story {
	storyID := a.newID()
	createdAt := a.now()

	scenes := make([]models.Scene, len(draft.Scenes))
	for i, sd := range draft.Scenes {
		imageURL := ""
		if i < len(imageURLs) {
			imageURL = imageURLs[i]
		}
		if imageURL == "" {
			imageURL = Placeholder(sd.ImagePrompt, i)
		}
		scenes[i] = models.Scene{
			ID:          fmt.Sprintf("%s-scene-%d", storyID, i),
			Text:        sd.Text,
			ImagePrompt: sd.ImagePrompt,
			ImageURL:    imageURL,
		}
	}

	coverImage := Placeholder(coverPrompt, 0)
	if len(scenes) > 0 {
		coverImage = scenes[0].ImageURL
	}

	return &models.Story{
		ID:          storyID,
		Title:       draft.Title,
		Genre:       append([]string(nil), in.Genre...),
		Characters:  append([]string(nil), in.Characters...),
		Description: in.Description,
		Scenes:      scenes,
		CoverImage:  coverImage,
		Likes:       []string{},
		CreatedAt:   createdAt,
	}
}
