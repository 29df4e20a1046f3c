package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Статусы предсказания Replicate.
const (
	PredictionStarting   = "starting"
	PredictionProcessing = "processing"
	PredictionSucceeded  = "succeeded"
	PredictionFailed     = "failed"
	PredictionCanceled   = "canceled"
)

// ErrPredictionNotFinished Wait прерван до терминального статуса.
var ErrPredictionNotFinished = errors.New("prediction did not reach a terminal status")

// PredictionInput параметры модели синтеза изображения.
type PredictionInput struct {
	Prompt           string `json:"prompt"`
	AspectRatio      string `json:"aspect_ratio"`
	OutputFormat     string `json:"output_format"`
	OutputQuality    int    `json:"output_quality"`
	SafetyTolerance  int    `json:"safety_tolerance"`
	PromptUpsampling bool   `json:"prompt_upsampling"`
}

// Prediction состояние предсказания. Output бывает строкой, массивом строк или чем угодно еще.
type Prediction struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Output any    `json:"output"`
	Error  any    `json:"error"`
	URLs   struct {
		Get    string `json:"get"`
		Cancel string `json:"cancel"`
	} `json:"urls"`
}

// Terminal true для succeeded, failed и canceled.
func (p *Prediction) Terminal() bool {
	switch p.Status {
	case PredictionSucceeded, PredictionFailed, PredictionCanceled:
		return true
	}
	return false
}

// Predictor контракт провайдера изображений: создать предсказание и дождаться результата.
type Predictor interface {
	CreatePrediction(ctx context.Context, model string, input PredictionInput) (*Prediction, error)
	Wait(ctx context.Context, prediction *Prediction) (*Prediction, error)
}

// ReplicateError ответ API с кодом, отличным от 2xx.
type ReplicateError struct {
	StatusCode int
	Detail     string
}

func (e *ReplicateError) Error() string {
	return fmt.Sprintf("replicate API returned status %d: %s", e.StatusCode, e.Detail)
}

// ReplicateClient REST-клиент Replicate (predictions API).
type ReplicateClient struct {
	logger       *zap.Logger
	httpClient   *http.Client
	baseURL      string
	token        string
	pollInterval time.Duration
}

var _ Predictor = (*ReplicateClient)(nil)

// NewReplicateClient creates a Replicate client. pollInterval задает частоту опроса в Wait.
func NewReplicateClient(baseURL, token string, pollInterval, timeout time.Duration, logger *zap.Logger) *ReplicateClient {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &ReplicateClient{
		logger:       logger.Named("ReplicateClient"),
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		token:        token,
		pollInterval: pollInterval,
	}
}

// CreatePrediction POST /models/{owner}/{name}/predictions
func (c *ReplicateClient) CreatePrediction(ctx context.Context, model string, input PredictionInput) (*Prediction, error) {
	payload, err := json.Marshal(map[string]any{"input": input})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prediction input: %w", err)
	}

	endpointURL := fmt.Sprintf("%s/models/%s/predictions", c.baseURL, model)
	var prediction Prediction
	if err := c.do(ctx, http.MethodPost, endpointURL, payload, &prediction); err != nil {
		return nil, err
	}
	c.logger.Debug("Prediction created", zap.String("predictionID", prediction.ID), zap.String("status", prediction.Status))
	return &prediction, nil
}

// Wait опрашивает предсказание до терминального статуса или отмены контекста.
func (c *ReplicateClient) Wait(ctx context.Context, prediction *Prediction) (*Prediction, error) {
	if prediction.Terminal() {
		return prediction, nil
	}

	getURL := prediction.URLs.Get
	if getURL == "" {
		getURL = fmt.Sprintf("%s/predictions/%s", c.baseURL, prediction.ID)
	}

	limiter := rate.NewLimiter(rate.Every(c.pollInterval), 1)
	current := prediction
	for !current.Terminal() {
		if err := limiter.Wait(ctx); err != nil {
			return current, fmt.Errorf("%w: %v", ErrPredictionNotFinished, err)
		}
		var next Prediction
		if err := c.do(ctx, http.MethodGet, getURL, nil, &next); err != nil {
			return current, err
		}
		current = &next
	}

	c.logger.Debug("Prediction finished", zap.String("predictionID", current.ID), zap.String("status", current.Status))
	return current, nil
}

func (c *ReplicateClient) do(ctx context.Context, method, endpointURL string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpointURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Replicate API returned non-OK status",
			zap.String("method", method),
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("response_body", truncateBytes(respBody, 512)),
		)
		return &ReplicateError{StatusCode: resp.StatusCode, Detail: replicateDetail(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode prediction: %w", err)
	}
	return nil
}

// replicateDetail достает поле detail из тела ошибки, иначе возвращает тело как есть.
func replicateDetail(body []byte) string {
	var problem struct {
		Detail string `json:"detail"`
		Title  string `json:"title"`
	}
	if err := json.Unmarshal(body, &problem); err == nil {
		if problem.Detail != "" {
			return problem.Detail
		}
		if problem.Title != "" {
			return problem.Title
		}
	}
	return string(truncateBytes(body, 256))
}

func truncateBytes(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
