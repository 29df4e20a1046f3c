package handler

import (
	"net/http"

	"story-magic/internal/models"

	"github.com/gin-gonic/gin"
)

// generateStory POST /api/generate-story. Для вошедшего пользователя история
// сохраняется, анонимный получает ее без сохранения.
func (h *Handler) generateStory(c *gin.Context) {
	var req models.StoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, models.ErrBadRequest)
		return
	}

	story, err := h.storyService.GenerateStory(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

// checkConfig GET /api/check-config
func (h *Handler) checkConfig(c *gin.Context) {
	textOK := h.cfg.Text.TextConfigured()
	imageOK := h.cfg.Image.ImageConfigured()

	resp := checkConfigResponse{
		Configured:    textOK,
		TextProvider:  h.cfg.Text.Provider,
		ImageProvider: "placeholder",
	}
	if imageOK {
		resp.ImageProvider = "replicate"
	}

	switch {
	case textOK && imageOK:
		resp.Message = "Text and image providers are configured"
	case textOK:
		resp.Message = "Text provider is configured. Set REPLICATE_API_TOKEN to generate illustrations, placeholders are used until then."
	default:
		resp.Message = "Text provider API key not found. Please add HUGGINGFACE_API_KEY to your environment."
	}
	c.JSON(http.StatusOK, resp)
}
