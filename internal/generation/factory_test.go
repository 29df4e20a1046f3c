package generation

import (
	"context"
	"testing"
	"time"

	"story-magic/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewFromConfig_PlaceholdersWithoutReplicateToken(t *testing.T) {
	cfg := &config.Config{
		Text:     config.TextConfig{Provider: ProviderOpenAI, APIKey: "hf_test", BaseURL: "http://localhost:1/v1", Model: "m", Timeout: time.Second},
		Image:    config.ImageConfig{APIToken: "your_replicate_api_key_here"},
		Pipeline: config.PipelineConfig{Deadline: time.Minute},
	}

	g, err := NewFromConfig(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, time.Minute, g.deadline)

	images, ok := g.images.(*ImageClient)
	require.True(t, ok)
	assert.False(t, images.opts.Enabled)
	assert.Nil(t, images.predictor)
}

func TestNewFromConfig_ReplicateEnabled(t *testing.T) {
	cfg := &config.Config{
		Text:  config.TextConfig{Provider: ProviderOpenAI, APIKey: "hf_test", Model: "m"},
		Image: config.ImageConfig{APIToken: "r8_real", BaseURL: "http://localhost:1/v1", Model: "flux"},
	}

	g, err := NewFromConfig(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	images := g.images.(*ImageClient)
	assert.True(t, images.opts.Enabled)
	assert.Equal(t, "flux", images.opts.Model)
}

func TestNewFromConfig_UnknownProvider(t *testing.T) {
	cfg := &config.Config{Text: config.TextConfig{Provider: "bard"}}
	_, err := NewFromConfig(context.Background(), cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}
