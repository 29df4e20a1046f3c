package handler

import (
	"time"

	"story-magic/internal/models"
)

// --- Request/Response Structs ---

type userResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Age         *int       `json:"age,omitempty"`
	ParentEmail *string    `json:"parentEmail,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

func toUserResponse(user *models.User, withCreatedAt bool) userResponse {
	resp := userResponse{
		ID:          user.ID.String(),
		Name:        user.Name,
		Email:       user.Email,
		Age:         user.Age,
		ParentEmail: user.ParentEmail,
	}
	if withCreatedAt {
		createdAt := user.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

type authResponse struct {
	Success bool         `json:"success"`
	User    userResponse `json:"user"`
	Token   string       `json:"token"`
}

type meResponse struct {
	Success bool         `json:"success"`
	User    userResponse `json:"user"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type storyResponse struct {
	Success bool          `json:"success"`
	Story   *models.Story `json:"story"`
}

type storiesResponse struct {
	Success bool           `json:"success"`
	Stories []models.Story `json:"stories"`
}

type sampleStoryResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Story   *models.Story `json:"story"`
}

type likeResponse struct {
	Success    bool `json:"success"`
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

type checkConfigResponse struct {
	Configured    bool   `json:"configured"`
	TextProvider  string `json:"textProvider"`
	ImageProvider string `json:"imageProvider"`
	Message       string `json:"message"`
}
