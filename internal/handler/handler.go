package handler

import (
	"story-magic/internal/config"
	"story-magic/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimits middleware ограничения частоты запросов. nil означает без ограничения.
type RateLimits struct {
	Auth     gin.HandlerFunc
	Generate gin.HandlerFunc
}

// Handler HTTP API приложения.
type Handler struct {
	authService  service.AuthService
	storyService service.StoryService
	cfg          *config.Config
	logger       *zap.Logger
}

func NewHandler(authService service.AuthService, storyService service.StoryService, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		authService:  authService,
		storyService: storyService,
		cfg:          cfg,
		logger:       logger.Named("Handler"),
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine, limits RateLimits) {
	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", orNoop(limits.Auth), h.register)
		authGroup.POST("/login", orNoop(limits.Auth), h.login)
		authGroup.POST("/logout", h.OptionalAuthMiddleware(), h.logout)
		authGroup.GET("/me", h.AuthMiddleware(), h.getMe)
	}

	stories := api.Group("/stories")
	stories.Use(h.AuthMiddleware())
	{
		stories.GET("", h.listStories)
		stories.POST("", h.createStory)
		stories.GET("/public", h.listPublicStories)
		stories.POST("/create-sample", h.createSampleStory)
		stories.GET("/:id", h.getStory)
		stories.PUT("/:id", h.updateStory)
		stories.DELETE("/:id", h.deleteStory)
		stories.POST("/:id/like", h.toggleLike)
	}

	api.POST("/generate-story", orNoop(limits.Generate), h.OptionalAuthMiddleware(), h.generateStory)
	api.GET("/check-config", h.checkConfig)
}

func orNoop(mw gin.HandlerFunc) gin.HandlerFunc {
	if mw == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return mw
}
