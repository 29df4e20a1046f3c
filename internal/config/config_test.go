package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"story-magic/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateSecrets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev := utils.SecretsDir
	utils.SecretsDir = dir
	t.Cleanup(func() { utils.SecretsDir = prev })
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolateSecrets(t)
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "openai", cfg.Text.Provider)
	assert.Equal(t, "https://router.huggingface.co/v1", cfg.Text.BaseURL)
	assert.Equal(t, "Qwen/Qwen2.5-72B-Instruct", cfg.Text.Model)
	assert.InDelta(t, 0.8, cfg.Text.Temperature, 1e-6)
	assert.InDelta(t, 0.9, cfg.Text.TopP, 1e-6)
	assert.Equal(t, 2000, cfg.Text.MaxTokens)
	assert.Equal(t, "black-forest-labs/flux-1.1-pro", cfg.Image.Model)
	assert.Equal(t, 12*time.Second, cfg.Image.SceneDelay)
	assert.Equal(t, 15*time.Second, cfg.Image.RetryDelay)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "auth-token", cfg.AuthCookieName)
	assert.False(t, cfg.Image.ImageConfigured())
}

func TestLoadConfig_EnvFileAndSecrets(t *testing.T) {
	dir := isolateSecrets(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-file"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "replicate_api_token"), []byte("r8_live"), 0o600))

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TEXT_PROVIDER=ollama\nTEXT_MODEL=llama3\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("TEXT_PROVIDER")
		os.Unsetenv("TEXT_MODEL")
	})
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "ollama", cfg.Text.Provider)
	assert.Equal(t, "llama3", cfg.Text.Model)
	assert.True(t, cfg.Text.TextConfigured())
	assert.True(t, cfg.Image.ImageConfigured())
}

func TestValidate(t *testing.T) {
	cfg := &Config{Text: TextConfig{Provider: "bard"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "unsupported TEXT_PROVIDER")
}

func TestImageConfigured_PlaceholderToken(t *testing.T) {
	assert.False(t, ImageConfig{APIToken: "your_replicate_api_key_here"}.ImageConfigured())
	assert.True(t, ImageConfig{APIToken: "r8_abc"}.ImageConfigured())
}

func TestGetAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: "http://a.test, http://b.test"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.GetAllowedOrigins())
}
