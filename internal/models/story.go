package models

import "time"

// StoryInput параметры генерации истории, которые присылает клиент.
// Порядок полей совпадает с порядком проверок валидатора.
type StoryInput struct {
	Characters  []string `json:"characters" validate:"required,min=1,dive,notblank"`
	Description string   `json:"description" validate:"notblank"`
	Genre       []string `json:"genre" validate:"required,min=1"`
}

// Scene одна сцена истории: текст и иллюстрация.
type Scene struct {
	ID          string `json:"id" bson:"id"`
	Text        string `json:"text" bson:"text"`
	ImagePrompt string `json:"imagePrompt" bson:"imagePrompt"`
	ImageURL    string `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
}

// Story сохраненная история.
type Story struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"userId,omitempty" bson:"userId,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Genre       []string  `json:"genre" bson:"genre"`
	Characters  []string  `json:"characters" bson:"characters"`
	Description string    `json:"description" bson:"description"`
	Scenes      []Scene   `json:"scenes" bson:"scenes"`
	CoverImage  string    `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	Likes       []string  `json:"likes" bson:"likes"`
	LikesCount  int       `json:"likesCount" bson:"likesCount"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero" bson:"updatedAt,omitempty"`
}

// StoryUpdate поля, которые владелец может изменить. nil означает "не менять".
type StoryUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Genre       *[]string `json:"genre,omitempty"`
	Characters  *[]string `json:"characters,omitempty"`
	Description *string   `json:"description,omitempty"`
	Scenes      *[]Scene  `json:"scenes,omitempty"`
	CoverImage  *string   `json:"coverImage,omitempty"`
}

// IsEmpty true, если ни одно поле не задано.
func (u StoryUpdate) IsEmpty() bool {
	return u.Title == nil && u.Genre == nil && u.Characters == nil &&
		u.Description == nil && u.Scenes == nil && u.CoverImage == nil
}

// LikeResult результат переключения лайка.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// CreateStoryInput история, присланная клиентом целиком (например, сохраненная
// после анонимной генерации).
type CreateStoryInput struct {
	Title       string   `json:"title" validate:"required"`
	Genre       []string `json:"genre" validate:"required"`
	Characters  []string `json:"characters" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Scenes      []Scene  `json:"scenes" validate:"required"`
	CoverImage  string   `json:"coverImage,omitempty"`
}
