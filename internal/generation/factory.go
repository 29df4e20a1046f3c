package generation

import (
	"context"
	"fmt"

	"story-magic/internal/config"

	"go.uber.org/zap"
)

// NewFromConfig собирает конвейер: провайдер текста, Replicate (если токен
// настроен) и Generator с дедлайном из конфигурации.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Generator, error) {
	provider, err := NewChatProvider(ctx, cfg.Text, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create text provider: %w", err)
	}
	estimator := NewTiktokenEstimator()
	estimator.Warm(provider.Model())
	text := NewTextClient(provider, SamplingParams{
		Temperature: cfg.Text.Temperature,
		TopP:        cfg.Text.TopP,
		MaxTokens:   cfg.Text.MaxTokens,
	}, estimator, logger)

	// Типизированный nil в интерфейсе Predictor отключил бы проверку в NewImageClient
	var predictor Predictor
	if cfg.Image.ImageConfigured() {
		predictor = NewReplicateClient(cfg.Image.BaseURL, cfg.Image.APIToken, cfg.Image.PollInterval, cfg.Image.Timeout, logger)
	} else {
		logger.Warn("REPLICATE_API_TOKEN is not configured, scenes will use placeholder images")
	}
	images := NewImageClient(predictor, nil, ImageOptions{
		Model:      cfg.Image.Model,
		SceneDelay: cfg.Image.SceneDelay,
		RetryDelay: cfg.Image.RetryDelay,
		Enabled:    predictor != nil,
	}, logger)

	logger.Info("Story generation pipeline configured",
		zap.String("textProvider", provider.Name()),
		zap.String("textModel", provider.Model()),
		zap.Bool("imagesEnabled", predictor != nil),
		zap.Duration("deadline", cfg.Pipeline.Deadline),
	)
	return NewGenerator(text, images, NewAssembler(), cfg.Pipeline.Deadline, logger), nil
}
