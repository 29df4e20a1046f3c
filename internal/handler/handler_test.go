package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"story-magic/internal/config"
	"story-magic/internal/generation"
	"story-magic/internal/handler"
	"story-magic/internal/mocks"
	"story-magic/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testToken = "valid-token"

type apiFixture struct {
	auth    *mocks.MockAuthService
	stories *mocks.MockStoryService
	router  *gin.Engine
	cfg     *config.Config
	userID  uuid.UUID
}

func newAPIFixture(t *testing.T) *apiFixture {
	return newAPIFixtureWithLimits(t, handler.RateLimits{})
}

func newAPIFixtureWithLimits(t *testing.T, limits handler.RateLimits) *apiFixture {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:            "development",
		AuthCookieName: "auth-token",
		TokenTTL:       7 * 24 * time.Hour,
		Text:           config.TextConfig{Provider: "openai", APIKey: "hf_key"},
	}
	f := &apiFixture{
		auth:    mocks.NewMockAuthService(t),
		stories: mocks.NewMockStoryService(t),
		router:  gin.New(),
		cfg:     cfg,
		userID:  uuid.New(),
	}
	h := handler.NewHandler(f.auth, f.stories, cfg, zaptest.NewLogger(t))
	h.RegisterRoutes(f.router, limits)
	return f
}

func (f *apiFixture) expectAuth() *models.Claims {
	claims := &models.Claims{UserID: f.userID, Email: "mia@example.com", Name: "Mia", RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1"}}
	f.auth.On("VerifyToken", mock.Anything, testToken).Return(claims, nil)
	return claims
}

func (f *apiFixture) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// --- Auth ---

func TestRegister_Success(t *testing.T) {
	f := newAPIFixture(t)
	age := 8
	user := &models.User{ID: f.userID, Name: "Mia", Email: "mia@example.com", Age: &age}
	input := models.RegisterInput{Name: "Mia", Email: "mia@example.com", Password: "secret1", Age: &age}
	f.auth.On("Register", mock.Anything, input).Return(&models.AuthResult{User: user, Token: "jwt-token"}, nil).Once()

	w := f.do(t, http.MethodPost, "/api/auth/register", input, false)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "jwt-token", body["token"])
	u := body["user"].(map[string]any)
	assert.Equal(t, f.userID.String(), u["id"])
	assert.Equal(t, float64(8), u["age"])
	assert.NotContains(t, u, "createdAt")
	assert.NotContains(t, u, "passwordHash")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth-token", cookies[0].Name)
	assert.Equal(t, "jwt-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.False(t, cookies[0].Secure)
	assert.Equal(t, 7*24*60*60, cookies[0].MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, "/", cookies[0].Path)
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"missing fields", models.ErrRegistrationFieldsMissing, http.StatusBadRequest, "Please provide name, email, and password"},
		{"short password", models.ErrPasswordTooShort, http.StatusBadRequest, "Password must be at least 6 characters"},
		{"duplicate email", models.ErrEmailAlreadyExists, http.StatusBadRequest, "User with this email already exists"},
		{"unexpected", errors.New("db down"), http.StatusInternalServerError, "An unexpected internal error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			f.auth.On("Register", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			w := f.do(t, http.MethodPost, "/api/auth/register", map[string]string{"name": "Mia"}, false)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantMsg, decode(t, w)["error"])
			assert.Empty(t, w.Result().Cookies())
		})
	}
}

func TestRegister_InvalidJSON(t *testing.T) {
	f := newAPIFixture(t)
	w := f.do(t, http.MethodPost, "/api/auth/register", "{not json", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	f := newAPIFixture(t)
	user := &models.User{ID: f.userID, Name: "Mia", Email: "mia@example.com"}
	f.auth.On("Login", mock.Anything, models.LoginInput{Email: "mia@example.com", Password: "secret1"}).
		Return(&models.AuthResult{User: user, Token: "jwt-token"}, nil).Once()
	f.auth.On("Login", mock.Anything, models.LoginInput{Email: "mia@example.com", Password: "wrong"}).
		Return(nil, models.ErrInvalidCredentials).Once()

	w := f.do(t, http.MethodPost, "/api/auth/login", models.LoginInput{Email: "mia@example.com", Password: "secret1"}, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jwt-token", decode(t, w)["token"])
	require.Len(t, w.Result().Cookies(), 1)

	w = f.do(t, http.MethodPost, "/api/auth/login", models.LoginInput{Email: "mia@example.com", Password: "wrong"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decode(t, w)["error"])
}

func TestLogout_RevokesAndClearsCookie(t *testing.T) {
	f := newAPIFixture(t)
	claims := f.expectAuth()
	f.auth.On("Logout", mock.Anything, claims).Return(nil).Once()

	w := f.do(t, http.MethodPost, "/api/auth/logout", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", decode(t, w)["message"])
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
	f.auth.AssertExpectations(t)
}

func TestLogout_Anonymous(t *testing.T) {
	f := newAPIFixture(t)
	w := f.do(t, http.MethodPost, "/api/auth/logout", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	f.auth.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
}

func TestMe(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		f := newAPIFixture(t)
		w := f.do(t, http.MethodGet, "/api/auth/me", nil, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Not authenticated", decode(t, w)["error"])
	})

	t.Run("expired token", func(t *testing.T) {
		f := newAPIFixture(t)
		f.auth.On("VerifyToken", mock.Anything, testToken).Return(nil, models.ErrTokenExpired).Once()
		w := f.do(t, http.MethodGet, "/api/auth/me", nil, true)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("success via cookie", func(t *testing.T) {
		f := newAPIFixture(t)
		f.expectAuth()
		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		f.auth.On("GetUser", mock.Anything, f.userID).Return(&models.User{ID: f.userID, Name: "Mia", Email: "mia@example.com", CreatedAt: created}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: "auth-token", Value: testToken})
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "2026-01-02T03:04:05Z", body["user"].(map[string]any)["createdAt"])
	})

	t.Run("user deleted", func(t *testing.T) {
		f := newAPIFixture(t)
		f.expectAuth()
		f.auth.On("GetUser", mock.Anything, f.userID).Return(nil, models.ErrUserNotFound).Once()
		w := f.do(t, http.MethodGet, "/api/auth/me", nil, true)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "User not found", decode(t, w)["error"])
	})

	t.Run("stale cookie falls back to header", func(t *testing.T) {
		f := newAPIFixture(t)
		f.expectAuth()
		f.auth.On("VerifyToken", mock.Anything, "stale-token").Return(nil, models.ErrTokenInvalid).Once()
		f.auth.On("GetUser", mock.Anything, f.userID).Return(&models.User{ID: f.userID, Name: "Mia", Email: "mia@example.com"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: "auth-token", Value: "stale-token"})
		req.Header.Set("Authorization", "Bearer "+testToken)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		f.auth.AssertCalled(t, "VerifyToken", mock.Anything, "stale-token")
		f.auth.AssertCalled(t, "VerifyToken", mock.Anything, testToken)
	})

	t.Run("stale cookie without header", func(t *testing.T) {
		f := newAPIFixture(t)
		f.auth.On("VerifyToken", mock.Anything, "stale-token").Return(nil, models.ErrTokenInvalid).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: "auth-token", Value: "stale-token"})
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Not authenticated", decode(t, w)["error"])
	})
}

// --- Stories ---

func TestStories_RequireAuth(t *testing.T) {
	f := newAPIFixture(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/stories"},
		{http.MethodPost, "/api/stories"},
		{http.MethodGet, "/api/stories/public"},
		{http.MethodGet, "/api/stories/" + uuid.NewString()},
		{http.MethodPost, "/api/stories/create-sample"},
		{http.MethodPost, "/api/stories/" + uuid.NewString() + "/like"},
	} {
		w := f.do(t, route.method, route.path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}
}

func TestStories_ListAndPublic(t *testing.T) {
	f := newAPIFixture(t)
	f.expectAuth()
	f.stories.On("ListStories", mock.Anything, f.userID).Return([]models.Story{{ID: "a", Title: "Mine", Likes: []string{}}}, nil).Once()
	f.stories.On("ListPublicStories", mock.Anything, f.userID).Return([]models.Story{}, nil).Once()

	w := f.do(t, http.MethodGet, "/api/stories", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["stories"], 1)

	w = f.do(t, http.MethodGet, "/api/stories/public", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["stories"])
}

func TestStories_GetErrors(t *testing.T) {
	f := newAPIFixture(t)
	f.expectAuth()
	f.stories.On("GetStory", mock.Anything, f.userID, "bad-id").Return(nil, models.ErrInvalidStoryID).Once()
	missing := uuid.NewString()
	f.stories.On("GetStory", mock.Anything, f.userID, missing).Return(nil, models.ErrStoryNotFound).Once()

	w := f.do(t, http.MethodGet, "/api/stories/bad-id", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid story ID", decode(t, w)["error"])

	w = f.do(t, http.MethodGet, "/api/stories/"+missing, nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Story not found", decode(t, w)["error"])
}

func TestStories_CreateUpdateDelete(t *testing.T) {
	f := newAPIFixture(t)
	f.expectAuth()
	id := uuid.NewString()
	input := models.CreateStoryInput{Title: "T", Genre: []string{"Fantasy"}, Characters: []string{"Dino"}, Description: "D", Scenes: []models.Scene{}}
	f.stories.On("CreateStory", mock.Anything, f.userID, input).Return(&models.Story{ID: id, Title: "T"}, nil).Once()
	f.stories.On("CreateStory", mock.Anything, f.userID, models.CreateStoryInput{Title: "T"}).Return(nil, models.ErrMissingFields).Once()

	w := f.do(t, http.MethodPost, "/api/stories", input, true)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, id, decode(t, w)["story"].(map[string]any)["id"])

	w = f.do(t, http.MethodPost, "/api/stories", map[string]string{"title": "T"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields", decode(t, w)["error"])

	title := "Renamed"
	f.stories.On("UpdateStory", mock.Anything, f.userID, id, models.StoryUpdate{Title: &title}).Return(&models.Story{ID: id, Title: title}, nil).Once()
	w = f.do(t, http.MethodPut, "/api/stories/"+id, map[string]string{"title": title}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, title, decode(t, w)["story"].(map[string]any)["title"])

	f.stories.On("DeleteStory", mock.Anything, f.userID, id).Return(nil).Once()
	w = f.do(t, http.MethodDelete, "/api/stories/"+id, nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Story deleted successfully", decode(t, w)["message"])
}

func TestStories_LikeAndSample(t *testing.T) {
	f := newAPIFixture(t)
	f.expectAuth()
	id := uuid.NewString()
	f.stories.On("ToggleLike", mock.Anything, f.userID, id).Return(&models.LikeResult{Liked: true, LikesCount: 3}, nil).Once()
	f.stories.On("CreateSampleStory", mock.Anything, f.userID).Return(&models.Story{ID: id, Title: "🧪 Test Story - Delete Me!"}, nil).Once()

	w := f.do(t, http.MethodPost, "/api/stories/"+id+"/like", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(3), body["likesCount"])

	w = f.do(t, http.MethodPost, "/api/stories/create-sample", nil, true)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Sample test story created successfully!", decode(t, w)["message"])
}

// --- Generation ---

var generateInput = models.StoryInput{Characters: []string{"Mia"}, Description: "A picnic", Genre: []string{"Adventure"}}

func TestGenerateStory_AnonymousAndAuthenticated(t *testing.T) {
	f := newAPIFixture(t)
	story := &models.Story{ID: "s1", Title: "Picnic", Scenes: []models.Scene{{ID: "s1-scene-0"}}}
	f.stories.On("GenerateStory", mock.Anything, uuid.Nil, generateInput).Return(story, nil).Once()

	w := f.do(t, http.MethodPost, "/api/generate-story", generateInput, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Picnic", decode(t, w)["title"])

	f.expectAuth()
	f.stories.On("GenerateStory", mock.Anything, f.userID, generateInput).Return(story, nil).Once()
	w = f.do(t, http.MethodPost, "/api/generate-story", generateInput, true)
	require.Equal(t, http.StatusOK, w.Code)
	f.stories.AssertExpectations(t)
}

func TestGenerateStory_InvalidTokenFallsBackToAnonymous(t *testing.T) {
	f := newAPIFixture(t)
	f.auth.On("VerifyToken", mock.Anything, testToken).Return(nil, models.ErrTokenInvalid).Once()
	f.stories.On("GenerateStory", mock.Anything, uuid.Nil, generateInput).Return(&models.Story{ID: "s1"}, nil).Once()

	w := f.do(t, http.MethodPost, "/api/generate-story", generateInput, true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateStory_ErrorMapping(t *testing.T) {
	saved := &models.Story{ID: "s1", Title: "Unsaved"}
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMsg     string
		wantErrCode string
	}{
		{"validation", &generation.ValidationError{Field: "genre", Message: generation.MsgGenreRequired}, http.StatusBadRequest, "At least one genre is required", models.ErrCodeValidation},
		{"upstream auth", &generation.UpstreamError{Provider: "openai", StatusCode: http.StatusUnauthorized}, http.StatusInternalServerError, "Invalid Hugging Face API key. Please check your configuration.", models.ErrCodeUpstreamConfig},
		{"upstream forbidden", &generation.UpstreamError{Provider: "openai", StatusCode: http.StatusForbidden}, http.StatusInternalServerError, "Invalid Hugging Face API key. Please check your configuration.", models.ErrCodeUpstreamConfig},
		{"upstream rate limit", &generation.UpstreamError{Provider: "openai", StatusCode: http.StatusTooManyRequests, RateLimited: true}, http.StatusTooManyRequests, "Rate limit exceeded. Please wait a moment and try again!", models.ErrCodeRateLimited},
		{"upstream other", &generation.UpstreamError{Provider: "openai", StatusCode: http.StatusBadGateway}, http.StatusInternalServerError, "Failed to generate story. Please try again.", models.ErrCodeGeneration},
		{"malformed", &generation.MalformedResponseError{Raw: "oops", Err: errors.New("no json")}, http.StatusInternalServerError, "Failed to generate story. Please try again.", models.ErrCodeGeneration},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "An unexpected internal error occurred", models.ErrCodeInternal},
		{"not saved", &generation.PersistenceError{Story: saved, Err: errors.New("mongo down")}, http.StatusInternalServerError, "Story was generated but could not be saved. Please try again.", models.ErrCodeStoryNotSaved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			f.stories.On("GenerateStory", mock.Anything, uuid.Nil, generateInput).Return(nil, tt.err).Once()

			w := f.do(t, http.MethodPost, "/api/generate-story", generateInput, false)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.wantMsg, body["error"])
			assert.Equal(t, tt.wantErrCode, body["code"])
			if tt.wantErrCode == models.ErrCodeStoryNotSaved {
				assert.Equal(t, "Unsaved", body["story"].(map[string]any)["title"])
			}
		})
	}
}

func TestCheckConfig(t *testing.T) {
	f := newAPIFixture(t)
	w := f.do(t, http.MethodGet, "/api/check-config", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["configured"])
	assert.Equal(t, "openai", body["textProvider"])
	assert.Equal(t, "placeholder", body["imageProvider"])
	assert.NotEmpty(t, body["message"])

	f.cfg.Text.APIKey = ""
	f.cfg.Image.APIToken = "r8_token"
	body = decode(t, f.do(t, http.MethodGet, "/api/check-config", nil, false))
	assert.Equal(t, false, body["configured"])
	assert.Equal(t, "replicate", body["imageProvider"])
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	logger := zaptest.NewLogger(t)
	f := newAPIFixtureWithLimits(t, handler.RateLimits{
		Generate: handler.NewInMemoryRateLimiter("generate", 1, logger),
	})
	f.stories.On("GenerateStory", mock.Anything, uuid.Nil, generateInput).Return(&models.Story{ID: "s1"}, nil).Once()

	w := f.do(t, http.MethodPost, "/api/generate-story", generateInput, false)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/generate-story", generateInput, false)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Rate limit exceeded. Please wait a moment and try again!", decode(t, w)["error"])
	f.stories.AssertNumberOfCalls(t, "GenerateStory", 1)
}
