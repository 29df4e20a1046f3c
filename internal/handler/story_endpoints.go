package handler

import (
	"net/http"

	"story-magic/internal/models"

	"github.com/gin-gonic/gin"
)

// listStories GET /api/stories
func (h *Handler) listStories(c *gin.Context) {
	stories, err := h.storyService.ListStories(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, storiesResponse{Success: true, Stories: stories})
}

// listPublicStories GET /api/stories/public
func (h *Handler) listPublicStories(c *gin.Context) {
	stories, err := h.storyService.ListPublicStories(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, storiesResponse{Success: true, Stories: stories})
}

// createStory POST /api/stories
func (h *Handler) createStory(c *gin.Context) {
	var req models.CreateStoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, models.ErrMissingFields)
		return
	}

	story, err := h.storyService.CreateStory(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, storyResponse{Success: true, Story: story})
}

// createSampleStory POST /api/stories/create-sample
func (h *Handler) createSampleStory(c *gin.Context) {
	story, err := h.storyService.CreateSampleStory(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sampleStoryResponse{
		Success: true,
		Message: "Sample test story created successfully!",
		Story:   story,
	})
}

// getStory GET /api/stories/:id
func (h *Handler) getStory(c *gin.Context) {
	story, err := h.storyService.GetStory(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, storyResponse{Success: true, Story: story})
}

// updateStory PUT /api/stories/:id. Отсутствующие поля не меняются.
func (h *Handler) updateStory(c *gin.Context) {
	var req models.StoryUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, models.ErrBadRequest)
		return
	}

	story, err := h.storyService.UpdateStory(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, storyResponse{Success: true, Story: story})
}

// deleteStory DELETE /api/stories/:id
func (h *Handler) deleteStory(c *gin.Context) {
	if err := h.storyService.DeleteStory(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Story deleted successfully"})
}

// toggleLike POST /api/stories/:id/like
func (h *Handler) toggleLike(c *gin.Context) {
	result, err := h.storyService.ToggleLike(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, likeResponse{Success: true, Liked: result.Liked, LikesCount: result.LikesCount})
}
