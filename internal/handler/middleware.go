package handler

import (
	"net/http"
	"strings"

	"story-magic/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type tokenCandidate struct {
	token  string
	source string
}

// requestTokens токены запроса по порядку: cookie сессии, затем заголовок
// Authorization. Совпадающий с cookie заголовок не дублируется.
func (h *Handler) requestTokens(c *gin.Context) []tokenCandidate {
	var out []tokenCandidate
	if cookie, err := c.Cookie(h.cfg.AuthCookieName); err == nil && cookie != "" {
		out = append(out, tokenCandidate{token: cookie, source: "cookie"})
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		header := strings.TrimSpace(parts[1])
		if header != "" && (len(out) == 0 || out[0].token != header) {
			out = append(out, tokenCandidate{token: header, source: "header"})
		}
	}
	return out
}

// authenticate проверяет токены запроса по очереди. Устаревшая cookie не
// мешает действующему заголовку. Возвращает ошибку последней проверки.
func (h *Handler) authenticate(c *gin.Context) (*models.Claims, error) {
	candidates := h.requestTokens(c)
	if len(candidates) == 0 {
		return nil, models.ErrUnauthorized
	}

	var lastErr error
	for _, cand := range candidates {
		claims, err := h.authService.VerifyToken(c.Request.Context(), cand.token)
		if err == nil {
			tokenVerificationsTotal.WithLabelValues(cand.source, "success").Inc()
			return claims, nil
		}
		tokenVerificationsTotal.WithLabelValues(cand.source, "failure").Inc()
		h.logger.Debug("Token verification failed", zap.String("source", cand.source), zap.Error(err))
		lastErr = err
	}
	return nil, lastErr
}

// AuthMiddleware требует действующий токен. Без него запрос отклоняется с 401.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := h.authenticate(c)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware проверяет токен, если он есть. Недействительный
// токен не ошибка: запрос продолжается как анонимный.
func (h *Handler) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := h.authenticate(c); err == nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *models.Claims) {
	c.Set(models.GinUserIDKey, claims.UserID)
	c.Set(models.GinClaimsKey, claims)
	c.Request = c.Request.WithContext(models.WithUserID(c.Request.Context(), claims.UserID))
}

// currentUserID uuid.Nil для анонимного запроса.
func currentUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(models.GinUserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func currentClaims(c *gin.Context) *models.Claims {
	if v, ok := c.Get(models.GinClaimsKey); ok {
		if claims, ok := v.(*models.Claims); ok {
			return claims
		}
	}
	return nil
}

// setAuthCookie httpOnly cookie сессии, secure только в production.
func (h *Handler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.AuthCookieName, token, int(h.cfg.TokenTTL.Seconds()), "/", "", h.cfg.IsProduction(), true)
}

func (h *Handler) clearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.AuthCookieName, "", -1, "/", "", h.cfg.IsProduction(), true)
}
