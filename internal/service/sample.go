package service

import (
	"fmt"

	"story-magic/internal/models"
)

const unsplashImage = "https://images.unsplash.com/%s?w=800&h=600&fit=crop"

// SampleStory фиксированная история из четырех сцен для проверки
// удаления и отображения без обращения к провайдерам генерации.
func SampleStory() models.CreateStoryInput {
	scene := func(id, text, prompt, photo string) models.Scene {
		return models.Scene{ID: id, Text: text, ImagePrompt: prompt, ImageURL: fmt.Sprintf(unsplashImage, photo)}
	}
	return models.CreateStoryInput{
		Title:       "🧪 Test Story - Delete Me!",
		Genre:       []string{"Adventure", "Fantasy"},
		Characters:  []string{"Bobby the Bear", "Lucy the Lion"},
		Description: "This is a test story created for testing the delete functionality. Feel free to delete this!",
		Scenes: []models.Scene{
			scene("scene-1",
				"Once upon a time, Bobby the Bear woke up in a magical forest. The sun was shining through the tall trees!",
				"A friendly bear waking up in a beautiful forest with sunlight",
				"photo-1504006833117-8886a355efbf"),
			scene("scene-2",
				"Bobby met Lucy the Lion near a sparkling river. She was playing with colorful butterflies.",
				"A lion playing with butterflies near a river",
				"photo-1516192518150-0d8fee5425e3"),
			scene("scene-3",
				"Together, they discovered a hidden treasure chest filled with golden stars and magical crystals!",
				"A treasure chest with stars and crystals",
				"photo-1523475496153-3d6cc0f0bf19"),
			scene("scene-4",
				"Bobby and Lucy became best friends and promised to have more adventures together. The End!",
				"Two friends together in a beautiful sunset",
				"photo-1501594907352-04cda38ebc29"),
		},
		CoverImage: fmt.Sprintf(unsplashImage, "photo-1544947950-fa07a98d237f"),
	}
}
