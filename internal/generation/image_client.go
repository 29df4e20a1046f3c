package generation

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// imageStyleSuffix дописывается к промту каждой сцены.
const imageStyleSuffix = ". High-quality realistic children's book illustration, vibrant colors, detailed, professional quality, kid-friendly, cheerful atmosphere, photorealistic storybook art, 4K, masterpiece"

// Исходы разрешения картинки сцены (метка метрики story_image_outcomes_total).
const (
	ImageOutcomeSuccess      = "success"
	ImageOutcomeRetrySuccess = "retry_success"
	ImageOutcomeInvalid      = "invalid_output"
	ImageOutcomeFailed       = "failed"
	ImageOutcomeRetryFailed  = "retry_failed"
	ImageOutcomeDisabled     = "disabled"
)

// Значения, которые никогда не считаются ссылкой на картинку.
var invalidImageMarkers = map[string]struct{}{
	"[object Object]": {},
	"undefined":       {},
	"null":            {},
	"invalid":         {},
}

// ImageOptions параметры генерации картинок.
type ImageOptions struct {
	Model      string
	SceneDelay time.Duration // пауза между сценами
	RetryDelay time.Duration // пауза перед повтором после rate limit
	Enabled    bool          // false: все сцены получают заглушки без сетевых вызовов
}

// DefaultPredictionInput фиксированные параметры синтеза.
func DefaultPredictionInput(prompt string) PredictionInput {
	return PredictionInput{
		Prompt:           prompt,
		AspectRatio:      "4:3",
		OutputFormat:     "jpg",
		OutputQuality:    90,
		SafetyTolerance:  6,
		PromptUpsampling: true,
	}
}

// ImageResolver превращает черновики сцен в ссылки на картинки.
// Результат всегда той же длины, что и scenes.
type ImageResolver interface {
	ResolveAll(ctx context.Context, scenes []SceneDraft) []string
}

// ImageClient генерирует картинки сцен строго по очереди. Ошибка одной сцены
// заменяется заглушкой и наружу не выходит.
type ImageClient struct {
	predictor Predictor
	pacer     Pacer
	opts      ImageOptions
	logger    *zap.Logger
}

var _ ImageResolver = (*ImageClient)(nil)

// NewImageClient creates an ImageClient. pacer == nil означает TimerPacer.
func NewImageClient(predictor Predictor, pacer Pacer, opts ImageOptions, logger *zap.Logger) *ImageClient {
	if pacer == nil {
		pacer = TimerPacer{}
	}
	if predictor == nil {
		opts.Enabled = false
	}
	return &ImageClient{
		predictor: predictor,
		pacer:     pacer,
		opts:      opts,
		logger:    logger.Named("ImageClient"),
	}
}

// ResolveAll обрабатывает сцены последовательно, выдерживая SceneDelay
// после каждой сцены, кроме последней.
func (c *ImageClient) ResolveAll(ctx context.Context, scenes []SceneDraft) []string {
	urls := make([]string, len(scenes))

	if !c.opts.Enabled {
		c.logger.Warn("Image provider not configured, using placeholders", zap.Int("scenes", len(scenes)))
		for i, scene := range scenes {
			urls[i] = Placeholder(scene.ImagePrompt, i)
			imageOutcomesTotal.With(prometheus.Labels{"outcome": ImageOutcomeDisabled}).Inc()
		}
		return urls
	}

	for i, scene := range scenes {
		urls[i] = c.Resolve(ctx, scene.ImagePrompt, i)

		if i < len(scenes)-1 {
			c.logger.Debug("Pausing before next scene", zap.Int("scene", i+1), zap.Duration("delay", c.opts.SceneDelay))
			if err := c.pacer.Pause(ctx, c.opts.SceneDelay); err != nil {
				// Следующие сцены быстро упадут на том же контексте и получат заглушки
				c.logger.Warn("Scene pause interrupted", zap.Int("scene", i+1), zap.Error(err))
			}
		}
	}
	return urls
}

// Resolve возвращает ссылку на картинку одной сцены, при любой ошибке заглушку.
// После rate limit делается ровно один повтор.
func (c *ImageClient) Resolve(ctx context.Context, imagePrompt string, index int) string {
	log := c.logger.With(zap.Int("scene", index+1), zap.String("model", c.opts.Model))

	imageURL, err := c.attempt(ctx, imagePrompt)
	if err == nil {
		return c.accept(log, imageURL, imagePrompt, index, ImageOutcomeSuccess)
	}

	if !IsRateLimited(err) {
		log.Error("Image generation failed, using placeholder", zap.Error(err))
		imageOutcomesTotal.With(prometheus.Labels{"outcome": ImageOutcomeFailed}).Inc()
		return Placeholder(imagePrompt, index)
	}

	log.Warn("Image provider rate limited, retrying once", zap.Duration("delay", c.opts.RetryDelay), zap.Error(err))
	if err := c.pacer.Pause(ctx, c.opts.RetryDelay); err != nil {
		log.Warn("Retry pause interrupted, using placeholder", zap.Error(err))
		imageOutcomesTotal.With(prometheus.Labels{"outcome": ImageOutcomeRetryFailed}).Inc()
		return Placeholder(imagePrompt, index)
	}

	imageURL, err = c.attempt(ctx, imagePrompt)
	if err != nil {
		log.Error("Image retry failed, using placeholder", zap.Error(err))
		imageOutcomesTotal.With(prometheus.Labels{"outcome": ImageOutcomeRetryFailed}).Inc()
		return Placeholder(imagePrompt, index)
	}
	return c.accept(log, imageURL, imagePrompt, index, ImageOutcomeRetrySuccess)
}

func (c *ImageClient) accept(log *zap.Logger, imageURL, imagePrompt string, index int, outcome string) string {
	if !ValidImageURL(imageURL) {
		log.Warn("Image provider returned invalid output, using placeholder", zap.String("output", truncate(imageURL, 80)))
		imageOutcomesTotal.With(prometheus.Labels{"outcome": ImageOutcomeInvalid}).Inc()
		return Placeholder(imagePrompt, index)
	}
	log.Info("Scene image generated", zap.String("imageUrl", truncate(imageURL, 80)), zap.String("outcome", outcome))
	imageOutcomesTotal.With(prometheus.Labels{"outcome": outcome}).Inc()
	return imageURL
}

// attempt один цикл create + wait. Неуспешный статус предсказания или
// неожиданная форма output не ошибка: возвращается пустая строка.
func (c *ImageClient) attempt(ctx context.Context, imagePrompt string) (string, error) {
	start := time.Now()
	status := "error"
	defer func() {
		imageRequestDuration.With(prometheus.Labels{"status": status}).Observe(time.Since(start).Seconds())
	}()

	prediction, err := c.predictor.CreatePrediction(ctx, c.opts.Model, DefaultPredictionInput(imagePrompt+imageStyleSuffix))
	if err != nil {
		return "", err
	}
	prediction, err = c.predictor.Wait(ctx, prediction)
	if err != nil {
		return "", err
	}

	status = prediction.Status
	if prediction.Status != PredictionSucceeded {
		c.logger.Warn("Prediction did not succeed",
			zap.String("predictionID", prediction.ID),
			zap.String("status", prediction.Status),
			zap.Any("error", prediction.Error),
		)
	}
	return ExtractImageURL(prediction), nil
}

// ExtractImageURL достает ссылку из output успешного предсказания: строка,
// начинающаяся с http, или первый элемент непустого массива строк.
func ExtractImageURL(p *Prediction) string {
	if p == nil || p.Status != PredictionSucceeded || p.Output == nil {
		return ""
	}
	switch out := p.Output.(type) {
	case string:
		if strings.HasPrefix(out, "http") {
			return out
		}
	case []string:
		if len(out) > 0 {
			return out[0]
		}
	case []any:
		if len(out) > 0 {
			if s, ok := out[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// ValidImageURL отсекает пустые значения, маркеры вида "undefined" и
// все, что не является абсолютным http(s) URL.
func ValidImageURL(s string) bool {
	if s == "" {
		return false
	}
	if _, bad := invalidImageMarkers[s]; bad {
		return false
	}
	if strings.Contains(s, "function") || strings.Contains(s, "url()") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsRateLimited HTTP 429 или сообщение об ошибке, похожее на rate limit.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var re *ReplicateError
	if errors.As(err, &re) && re.StatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit")
}
