package generation_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"story-magic/internal/generation"
	"story-magic/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const validStoryJSON = `{"title":"Mia and the Talking Cat","scenes":[
{"text":"Mia met a cat.","imagePrompt":"girl meets cat"},
{"text":"The cat spoke!","imagePrompt":"cat speaking"},
{"text":"They explored.","imagePrompt":"garden adventure"},
{"text":"They found a key.","imagePrompt":"golden key"},
{"text":"Best friends forever.","imagePrompt":"sunset hug"}]}`

var miaInput = models.StoryInput{
	Characters:  []string{"Mia"},
	Description: "Mia finds a talking cat",
	Genre:       []string{"Fantasy"},
}

func TestParseStoryDraft(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantTitle  string
		wantScenes int
		wantErr    bool
	}{
		{"plain JSON", validStoryJSON, "Mia and the Talking Cat", 5, false},
		{"prose around JSON", "Sure! Here is your story:\n" + validStoryJSON + "\nEnjoy!", "Mia and the Talking Cat", 5, false},
		{"code fence", "```json\n" + validStoryJSON + "\n```", "Mia and the Talking Cat", 5, false},
		{"three scenes", `{"title":"Short","scenes":[{"text":"a","imagePrompt":"b"},{"text":"c","imagePrompt":"d"},{"text":"e","imagePrompt":"f"}]}`, "Short", 3, false},
		{"no scenes key", `{"title":"Empty"}`, "Empty", 0, false},
		{"no JSON", "I cannot write that story.", "", 0, true},
		{"unbalanced", `{"title":"Broken","scenes":[`, "", 0, true},
		{"wrong types", `{"title":"X","scenes":"nope"}`, "", 0, true},
		{"missing title", `{"scenes":[]}`, "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := generation.ParseStoryDraft(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				var me *generation.MalformedResponseError
				assert.True(t, errors.As(err, &me))
				assert.ErrorIs(t, err, generation.ErrTextGenerationFailed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, draft.Title)
			assert.Len(t, draft.Scenes, tt.wantScenes)
			assert.NotNil(t, draft.Scenes)
		})
	}
}

// newOpenAIServer имитирует /chat/completions OpenAI-совместимого роутера.
func newOpenAIServer(t *testing.T, status int, body string, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))

		var req struct {
			Model       string  `json:"model"`
			MaxTokens   int     `json:"max_tokens"`
			Temperature float32 `json:"temperature"`
			TopP        float32 `json:"top_p"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Qwen/Qwen2.5-72B-Instruct", req.Model)
		assert.Equal(t, 2000, req.MaxTokens)
		assert.InDelta(t, 0.8, req.Temperature, 0.001)
		assert.InDelta(t, 0.9, req.TopP, 0.001)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, generation.StorySystemPrompt, req.Messages[0].Content)
		assert.Contains(t, req.Messages[1].Content, "- Characters: Mia")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func chatCompletionBody(t *testing.T, content string) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   "Qwen/Qwen2.5-72B-Instruct",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 120, "completion_tokens": 400, "total_tokens": 520},
	})
	require.NoError(t, err)
	return string(b)
}

func TestTextClient_OpenAI(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          func(t *testing.T) string
		wantScenes    int
		wantRateLimit bool
		wantAuth      bool
		wantMalformed bool
	}{
		{
			name:       "success",
			status:     http.StatusOK,
			body:       func(t *testing.T) string { return chatCompletionBody(t, "Here you go:\n"+validStoryJSON) },
			wantScenes: 5,
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body: func(*testing.T) string {
				return `{"error":{"message":"Rate limit reached","type":"rate_limit_exceeded","code":"rate_limit_exceeded"}}`
			},
			wantRateLimit: true,
		},
		{
			name:   "invalid key",
			status: http.StatusUnauthorized,
			body: func(*testing.T) string {
				return `{"error":{"message":"Invalid API key","type":"invalid_request_error"}}`
			},
			wantAuth: true,
		},
		{
			name:          "not JSON content",
			status:        http.StatusOK,
			body:          func(t *testing.T) string { return chatCompletionBody(t, "Once upon a time...") },
			wantMalformed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := newOpenAIServer(t, tt.status, tt.body(t), &calls)
			defer server.Close()

			provider := generation.NewOpenAIProvider("hf_test", server.URL+"/v1", "Qwen/Qwen2.5-72B-Instruct", server.Client())
			client := generation.NewTextClient(provider, generation.DefaultSamplingParams, nil, zaptest.NewLogger(t))

			draft, err := client.GenerateStoryDraft(context.Background(), miaInput)
			assert.Equal(t, 1, calls, "exactly one upstream call")

			switch {
			case tt.wantRateLimit, tt.wantAuth:
				require.Error(t, err)
				var ue *generation.UpstreamError
				require.True(t, errors.As(err, &ue))
				assert.Equal(t, tt.status, ue.StatusCode)
				assert.Equal(t, tt.wantRateLimit, ue.RateLimited)
				assert.Equal(t, tt.wantAuth, ue.AuthFailed())
				assert.ErrorIs(t, err, generation.ErrTextGenerationFailed)
			case tt.wantMalformed:
				var me *generation.MalformedResponseError
				require.True(t, errors.As(err, &me))
			default:
				require.NoError(t, err)
				assert.Equal(t, "Mia and the Talking Cat", draft.Title)
				assert.Len(t, draft.Scenes, tt.wantScenes)
			}
		})
	}
}

type countingEstimator struct{ calls int }

func (e *countingEstimator) Count(model, text string) int {
	e.calls++
	return len(text) / 4
}

func TestTextClient_Ollama(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var req struct {
			Model    string         `json:"model"`
			Stream   *bool          `json:"stream"`
			Options  map[string]any `json:"options"`
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.1", req.Model)
		require.NotNil(t, req.Stream)
		assert.False(t, *req.Stream)
		assert.EqualValues(t, 2000, req.Options["num_predict"])
		require.Len(t, req.Messages, 2)

		resp, _ := json.Marshal(map[string]any{
			"model":      "llama3.1",
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
			"message":    map[string]any{"role": "assistant", "content": validStoryJSON},
			"done":       true,
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(append(resp, '\n'))
	}))
	defer server.Close()

	provider, err := generation.NewOllamaProvider(server.URL+"/v1", "llama3.1", server.Client())
	require.NoError(t, err)
	estimator := &countingEstimator{}
	client := generation.NewTextClient(provider, generation.DefaultSamplingParams, estimator, zaptest.NewLogger(t))

	draft, err := client.GenerateStoryDraft(context.Background(), miaInput)
	require.NoError(t, err)
	assert.Len(t, draft.Scenes, 5)
	assert.Positive(t, estimator.calls, "usage is estimated when provider omits counts")
}

func TestTextClient_OllamaRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"server busy, please try again"}` + "\n"))
	}))
	defer server.Close()

	provider, err := generation.NewOllamaProvider(server.URL, "llama3.1", server.Client())
	require.NoError(t, err)
	client := generation.NewTextClient(provider, generation.DefaultSamplingParams, nil, zaptest.NewLogger(t))

	_, err = client.GenerateStoryDraft(context.Background(), miaInput)
	var ue *generation.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusTooManyRequests, ue.StatusCode)
	assert.True(t, ue.RateLimited)
}

func TestTextClient_OllamaUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized"}` + "\n"))
	}))
	defer server.Close()

	provider, err := generation.NewOllamaProvider(server.URL, "llama3.1", nil)
	require.NoError(t, err)
	client := generation.NewTextClient(provider, generation.DefaultSamplingParams, nil, zaptest.NewLogger(t))

	_, err = client.GenerateStoryDraft(context.Background(), miaInput)
	var ue *generation.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusUnauthorized, ue.StatusCode)
	assert.True(t, ue.AuthFailed())
	assert.False(t, ue.RateLimited)
}

func TestTiktokenEstimator_Empty(t *testing.T) {
	e := generation.NewTiktokenEstimator()
	assert.Zero(t, e.Count("gpt-4o", ""))
}
