package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"story-magic/internal/models"
	"story-magic/pkg/ai"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// SceneDraft сцена в том виде, в каком ее вернула модель.
type SceneDraft struct {
	Text        string `json:"text"`
	ImagePrompt string `json:"imagePrompt"`
}

// StoryDraft разобранный ответ модели. Число сцен не проверяется.
type StoryDraft struct {
	Title  string       `json:"title"`
	Scenes []SceneDraft `json:"scenes"`
}

// SamplingParams параметры сэмплирования чат-запроса.
type SamplingParams struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// DefaultSamplingParams значения, с которыми генерировались эталонные истории.
var DefaultSamplingParams = SamplingParams{Temperature: 0.8, TopP: 0.9, MaxTokens: 2000}

// ChatRequest один запрос к чат-модели: системная и пользовательская реплики.
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	Params       SamplingParams
}

// Usage расход токенов. Нули означают, что провайдер их не сообщил.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// ChatResponse текст ответа модели.
type ChatResponse struct {
	Content string
	Usage   Usage
}

// ChatProvider один вызов chat-completion у конкретного провайдера.
// Ошибки вызова возвращаются как *UpstreamError.
type ChatProvider interface {
	Name() string
	Model() string
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// TextGenerator генерирует черновик истории по входным данным.
type TextGenerator interface {
	GenerateStoryDraft(ctx context.Context, in models.StoryInput) (*StoryDraft, error)
}

// TextClient строит промт, вызывает провайдера и разбирает JSON из ответа.
type TextClient struct {
	provider  ChatProvider
	params    SamplingParams
	estimator TokenEstimator
	logger    *zap.Logger
}

var _ TextGenerator = (*TextClient)(nil)

// NewTextClient creates a TextClient. estimator may be nil.
func NewTextClient(provider ChatProvider, params SamplingParams, estimator TokenEstimator, logger *zap.Logger) *TextClient {
	return &TextClient{
		provider:  provider,
		params:    params,
		estimator: estimator,
		logger:    logger.Named("TextClient"),
	}
}

// GenerateStoryDraft выполняет ровно один запрос к провайдеру.
func (c *TextClient) GenerateStoryDraft(ctx context.Context, in models.StoryInput) (*StoryDraft, error) {
	name, model := c.provider.Name(), c.provider.Model()
	userPrompt := BuildStoryPrompt(in)

	c.logger.Info("Requesting story text",
		zap.String("provider", name),
		zap.String("model", model),
		zap.Int("promptBytes", len(userPrompt)),
	)

	start := time.Now()
	resp, err := c.provider.Chat(ctx, ChatRequest{
		SystemPrompt: StorySystemPrompt,
		UserPrompt:   userPrompt,
		Params:       c.params,
	})
	textRequestDuration.With(prometheus.Labels{"provider": name, "model": model}).Observe(time.Since(start).Seconds())

	if err != nil {
		status := "error"
		var ue *UpstreamError
		if errors.As(err, &ue) && ue.RateLimited {
			status = "rate_limited"
		}
		textRequestsTotal.With(prometheus.Labels{"provider": name, "model": model, "status": status}).Inc()
		c.logger.Error("Text provider call failed", zap.String("provider", name), zap.Error(err))
		return nil, err
	}

	c.observeUsage(name, model, userPrompt, resp)

	draft, err := ParseStoryDraft(resp.Content)
	if err != nil {
		textRequestsTotal.With(prometheus.Labels{"provider": name, "model": model, "status": "malformed"}).Inc()
		c.logger.Warn("Text provider returned malformed story", zap.String("provider", name), zap.Error(err))
		return nil, err
	}

	textRequestsTotal.With(prometheus.Labels{"provider": name, "model": model, "status": "success"}).Inc()
	c.logger.Info("Story text generated",
		zap.String("title", draft.Title),
		zap.Int("scenes", len(draft.Scenes)),
		zap.Duration("duration", time.Since(start)),
	)
	if len(draft.Scenes) != ReferenceSceneCount {
		c.logger.Warn("Unexpected scene count from model",
			zap.Int("expected", ReferenceSceneCount),
			zap.Int("got", len(draft.Scenes)),
		)
	}
	return draft, nil
}

func (c *TextClient) observeUsage(provider, model, prompt string, resp *ChatResponse) {
	usage := resp.Usage
	if usage.PromptTokens == 0 && usage.CompletionTokens == 0 && c.estimator != nil {
		// Провайдер не сообщил расход, оцениваем сами
		usage.PromptTokens = c.estimator.Count(model, StorySystemPrompt) + c.estimator.Count(model, prompt)
		usage.CompletionTokens = c.estimator.Count(model, resp.Content)
	}
	if usage.PromptTokens > 0 {
		textTokens.With(prometheus.Labels{"provider": provider, "model": model, "kind": "prompt"}).Observe(float64(usage.PromptTokens))
	}
	if usage.CompletionTokens > 0 {
		textTokens.With(prometheus.Labels{"provider": provider, "model": model, "kind": "completion"}).Observe(float64(usage.CompletionTokens))
	}
}

// ParseStoryDraft извлекает первый JSON-объект из ответа модели и разбирает его.
// Заголовок обязателен, пустой список сцен допустим.
func ParseStoryDraft(raw string) (*StoryDraft, error) {
	fragment, err := ai.ExtractJSONObject(raw)
	if err != nil {
		return nil, &MalformedResponseError{Raw: truncate(raw, 200), Err: err}
	}

	var draft StoryDraft
	if err := json.Unmarshal([]byte(fragment), &draft); err != nil {
		return nil, &MalformedResponseError{Raw: truncate(raw, 200), Err: fmt.Errorf("decode story JSON: %w", err)}
	}
	if strings.TrimSpace(draft.Title) == "" {
		return nil, &MalformedResponseError{Raw: truncate(raw, 200), Err: errors.New("story JSON has no title")}
	}
	if draft.Scenes == nil {
		draft.Scenes = []SceneDraft{}
	}
	return &draft, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
