package handler

import (
	"net/http"

	"story-magic/internal/models"

	"github.com/gin-gonic/gin"
)

// register POST /api/auth/register
func (h *Handler) register(c *gin.Context) {
	var req models.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, models.ErrBadRequest)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	registrationsTotal.Inc()
	h.setAuthCookie(c, result.Token)
	c.JSON(http.StatusCreated, authResponse{
		Success: true,
		User:    toUserResponse(result.User, false),
		Token:   result.Token,
	})
}

// login POST /api/auth/login
func (h *Handler) login(c *gin.Context) {
	var req models.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, models.ErrBadRequest)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.setAuthCookie(c, result.Token)
	c.JSON(http.StatusOK, authResponse{
		Success: true,
		User:    toUserResponse(result.User, false),
		Token:   result.Token,
	})
}

// logout POST /api/auth/logout. Cookie очищается всегда, токен отзывается, если он действителен.
func (h *Handler) logout(c *gin.Context) {
	if claims := currentClaims(c); claims != nil {
		_ = h.authService.Logout(c.Request.Context(), claims)
	}
	h.clearAuthCookie(c)
	c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Logged out successfully"})
}

// getMe GET /api/auth/me
func (h *Handler) getMe(c *gin.Context) {
	user, err := h.authService.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, meResponse{Success: true, User: toUserResponse(user, true)})
}
