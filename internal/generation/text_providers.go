package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"story-magic/internal/config"

	"github.com/ollama/ollama/api"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Поддерживаемые провайдеры текста.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// NewChatProvider создает провайдера по конфигурации.
func NewChatProvider(ctx context.Context, cfg config.TextConfig, logger *zap.Logger) (ChatProvider, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		logger.Info("Creating OpenAI-compatible text provider", zap.String("baseURL", cfg.BaseURL), zap.String("model", cfg.Model))
		return NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, httpClient), nil
	case ProviderOllama:
		logger.Info("Creating Ollama text provider", zap.String("baseURL", cfg.BaseURL), zap.String("model", cfg.Model))
		return NewOllamaProvider(cfg.BaseURL, cfg.Model, httpClient)
	case ProviderGemini:
		logger.Info("Creating Gemini text provider", zap.String("model", cfg.Model))
		return NewGeminiProvider(ctx, cfg.APIKey, cfg.Model, httpClient)
	default:
		return nil, fmt.Errorf("unsupported text provider: %q", cfg.Provider)
	}
}

// --- OpenAI-compatible (Hugging Face router, OpenAI, vLLM) ---

type openAIProvider struct {
	client *openaigo.Client
	model  string
}

// NewOpenAIProvider провайдер для любого OpenAI-совместимого /chat/completions.
func NewOpenAIProvider(apiKey, baseURL, model string, httpClient *http.Client) ChatProvider {
	cfg := openaigo.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &openAIProvider{client: openaigo.NewClientWithConfig(cfg), model: model}
}

func (p *openAIProvider) Name() string  { return ProviderOpenAI }
func (p *openAIProvider) Model() string { return p.model }

func (p *openAIProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: p.model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openaigo.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		MaxTokens:   req.Params.MaxTokens,
		Temperature: req.Params.Temperature,
		TopP:        req.Params.TopP,
	})
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	out := &ChatResponse{Usage: Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}}
	if len(resp.Choices) > 0 {
		out.Content = resp.Choices[0].Message.Content
	}
	return out, nil
}

func classifyOpenAIError(err error) *UpstreamError {
	ue := &UpstreamError{Provider: ProviderOpenAI, Err: err}

	var apiErr *openaigo.APIError
	var reqErr *openaigo.RequestError
	switch {
	case errors.As(err, &apiErr):
		ue.StatusCode = apiErr.HTTPStatusCode
		if apiErr.Type == "rate_limit_exceeded" || fmt.Sprint(apiErr.Code) == "rate_limit_exceeded" {
			ue.RateLimited = true
		}
		if strings.Contains(apiErr.Message, "Invalid API key") && ue.StatusCode == 0 {
			ue.StatusCode = http.StatusUnauthorized
		}
	case errors.As(err, &reqErr):
		ue.StatusCode = reqErr.HTTPStatusCode
	}

	if ue.StatusCode == http.StatusTooManyRequests || mentionsRateLimit(err) {
		ue.RateLimited = true
	}
	return ue
}

// --- Ollama ---

type ollamaProvider struct {
	client *api.Client
	model  string
}

// NewOllamaProvider провайдер для локального Ollama. baseURL без суффикса /v1.
func NewOllamaProvider(baseURL, model string, httpClient *http.Client) (ChatProvider, error) {
	base := strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")
	parsedURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse Ollama base URL %q: %w", base, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	// Клиент ollama/api теряет HTTP-статус, если в теле есть поле "error",
	// поэтому статус снимаем на уровне транспорта.
	withStatus := *httpClient
	next := withStatus.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	withStatus.Transport = statusRecorder{next: next}
	return &ollamaProvider{client: api.NewClient(parsedURL, &withStatus), model: model}, nil
}

type statusKey struct{}

// statusRecorder пишет код ответа в *int из контекста запроса.
type statusRecorder struct {
	next http.RoundTripper
}

func (t statusRecorder) RoundTrip(r *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(r)
	if resp != nil {
		if status, ok := r.Context().Value(statusKey{}).(*int); ok {
			*status = resp.StatusCode
		}
	}
	return resp, err
}

func (p *ollamaProvider) Name() string  { return ProviderOllama }
func (p *ollamaProvider) Model() string { return p.model }

func (p *ollamaProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	stream := false
	chatReq := &api.ChatRequest{
		Model: p.model,
		Messages: []api.Message{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": req.Params.Temperature,
			"top_p":       req.Params.TopP,
			"num_predict": req.Params.MaxTokens,
		},
	}

	var status int
	ctx = context.WithValue(ctx, statusKey{}, &status)

	var last api.ChatResponse
	err := p.client.Chat(ctx, chatReq, func(r api.ChatResponse) error {
		// Без стриминга колбэк вызывается один раз с полным ответом
		last = r
		return nil
	})
	if err != nil {
		return nil, classifyOllamaError(err, status)
	}

	return &ChatResponse{
		Content: last.Message.Content,
		Usage:   Usage{PromptTokens: last.PromptEvalCount, CompletionTokens: last.EvalCount},
	}, nil
}

// classifyOllamaError берёт код из api.StatusError, а если его нет, то
// код, снятый транспортом. 2xx при ошибке означает сбой разбора потока.
func classifyOllamaError(err error, status int) *UpstreamError {
	ue := &UpstreamError{Provider: ProviderOllama, Err: err}
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		ue.StatusCode = statusErr.StatusCode
	} else if status >= http.StatusBadRequest {
		ue.StatusCode = status
	}
	if ue.StatusCode == http.StatusTooManyRequests || mentionsRateLimit(err) {
		ue.RateLimited = true
	}
	return ue
}

// --- Google Gemini ---

type geminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider провайдер Gemini API.
func NewGeminiProvider(ctx context.Context, apiKey, model string, httpClient *http.Client) (ChatProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiProvider{client: client, model: model}, nil
}

func (p *geminiProvider) Name() string  { return ProviderGemini }
func (p *geminiProvider) Model() string { return p.model }

func (p *geminiProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	result, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.UserPrompt), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.SystemPrompt}}},
		Temperature:       genai.Ptr(req.Params.Temperature),
		TopP:              genai.Ptr(req.Params.TopP),
		MaxOutputTokens:   int32(req.Params.MaxTokens),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	out := &ChatResponse{Content: result.Text()}
	if result.UsageMetadata != nil {
		out.Usage = Usage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}

func classifyGeminiError(err error) *UpstreamError {
	ue := &UpstreamError{Provider: ProviderGemini, Err: err}
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		ue.StatusCode = apiErr.Code
	}
	// Gemini сообщает о квоте статусом RESOURCE_EXHAUSTED
	msg := strings.ToLower(err.Error())
	if ue.StatusCode == 0 && strings.Contains(msg, "error 429") {
		ue.StatusCode = http.StatusTooManyRequests
	}
	if ue.StatusCode == http.StatusTooManyRequests || strings.Contains(msg, "resource_exhausted") || mentionsRateLimit(err) {
		ue.RateLimited = true
	}
	return ue
}

func mentionsRateLimit(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "rate_limit")
}
