package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"story-magic/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Значения-заглушки из примеров .env, которые считаются "не настроено".
const (
	replicatePlaceholderToken = "your_replicate_api_key_here"
	huggingFacePlaceholderKey = "your_huggingface_api_key_here"
)

// Config holds the application configuration.
type Config struct {
	Env           string        `envconfig:"ENV" default:"development"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding   string        `envconfig:"LOG_ENCODING" default:"json"`
	ServerPort    string        `envconfig:"SERVER_PORT" default:"8080"`
	ServerTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10m"`

	// CORS Settings
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	Text     TextConfig
	Image    ImageConfig
	Pipeline PipelineConfig

	// PostgreSQL (пользователи)
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"story"`
	DBName     string `envconfig:"DB_NAME" default:"story_magic"`
	DBSSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`

	// MongoDB (истории)
	MongoURI      string `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGODB_DATABASE" default:"story_magic"`

	// Redis (отзыв токенов, rate limit)
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	// Auth
	JWTSecret      string        `envconfig:"JWT_SECRET"`
	PasswordPepper string        `envconfig:"PASSWORD_PEPPER"`
	TokenTTL       time.Duration `envconfig:"JWT_TOKEN_TTL" default:"168h"` // 7 дней
	AuthCookieName string        `envconfig:"AUTH_COOKIE_NAME" default:"auth-token"`

	// Ограничения запросов
	GenerateRatePerMinute uint `envconfig:"GENERATE_RATE_PER_MINUTE" default:"5"`
	AuthRatePerMinute     uint `envconfig:"AUTH_RATE_PER_MINUTE" default:"10"`

	PublicFeedCacheTTL time.Duration `envconfig:"PUBLIC_FEED_CACHE_TTL" default:"30s"`
}

// TextConfig настройки провайдера генерации текста.
type TextConfig struct {
	Provider    string        `envconfig:"TEXT_PROVIDER" default:"openai"` // openai, ollama, gemini
	BaseURL     string        `envconfig:"TEXT_BASE_URL" default:"https://router.huggingface.co/v1"`
	APIKey      string        `envconfig:"HUGGINGFACE_API_KEY"`
	Model       string        `envconfig:"TEXT_MODEL" default:"Qwen/Qwen2.5-72B-Instruct"`
	Timeout     time.Duration `envconfig:"TEXT_TIMEOUT" default:"90s"`
	Temperature float32       `envconfig:"TEXT_TEMPERATURE" default:"0.8"`
	TopP        float32       `envconfig:"TEXT_TOP_P" default:"0.9"`
	MaxTokens   int           `envconfig:"TEXT_MAX_TOKENS" default:"2000"`
}

// ImageConfig настройки провайдера генерации изображений (Replicate).
type ImageConfig struct {
	APIToken     string        `envconfig:"REPLICATE_API_TOKEN"`
	BaseURL      string        `envconfig:"REPLICATE_BASE_URL" default:"https://api.replicate.com/v1"`
	Model        string        `envconfig:"IMAGE_MODEL" default:"black-forest-labs/flux-1.1-pro"`
	PollInterval time.Duration `envconfig:"IMAGE_POLL_INTERVAL" default:"1s"`
	Timeout      time.Duration `envconfig:"IMAGE_TIMEOUT" default:"3m"`
	SceneDelay   time.Duration `envconfig:"IMAGE_SCENE_DELAY" default:"12s"`
	RetryDelay   time.Duration `envconfig:"IMAGE_RETRY_DELAY" default:"15s"`
}

// PipelineConfig общие настройки конвейера генерации.
type PipelineConfig struct {
	Deadline time.Duration `envconfig:"PIPELINE_DEADLINE" default:"8m"`
}

// TextConfigured есть ли ключ у провайдера текста. Ollama ключ не нужен.
func (c TextConfig) TextConfigured() bool {
	if strings.EqualFold(c.Provider, "ollama") {
		return true
	}
	return c.APIKey != "" && c.APIKey != huggingFacePlaceholderKey
}

// ImageConfigured false, если токен пуст или оставлен значением из примера.
func (c ImageConfig) ImageConfigured() bool {
	return c.APIToken != "" && c.APIToken != replicatePlaceholderToken
}

// GetAllowedOrigins splits the CORSAllowedOrigins string into a slice.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// PostgresDSN строка подключения pgx.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// IsProduction включает secure-cookie и release-режим gin.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig loads configuration from an optional .env file, environment variables and secrets.
func LoadConfig(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if _, err := os.Stat(envFilePath); err == nil {
			if err := godotenv.Load(envFilePath); err != nil {
				log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
			} else {
				log.Printf("Loaded configuration from %s", envFilePath)
			}
		} else if !os.IsNotExist(err) {
			log.Printf("Warning: Error checking %s file: %v", envFilePath, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	// Секреты из /run/secrets имеют приоритет над переменными окружения
	cfg.DBPassword = utils.SecretOr("db_password", cfg.DBPassword)
	cfg.RedisPassword = utils.SecretOr("redis_password", cfg.RedisPassword)
	cfg.JWTSecret = utils.SecretOr("jwt_secret", cfg.JWTSecret)
	cfg.PasswordPepper = utils.SecretOr("password_pepper", cfg.PasswordPepper)
	cfg.Text.APIKey = utils.SecretOr("huggingface_api_key", cfg.Text.APIKey)
	cfg.Image.APIToken = utils.SecretOr("replicate_api_token", cfg.Image.APIToken)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет значения, без которых сервер не может работать.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET (or secret jwt_secret) is required"))
	}
	switch strings.ToLower(c.Text.Provider) {
	case "openai", "ollama", "gemini":
	default:
		errs = append(errs, fmt.Errorf("unsupported TEXT_PROVIDER %q", c.Text.Provider))
	}
	if c.Image.SceneDelay < 0 || c.Image.RetryDelay < 0 {
		errs = append(errs, errors.New("image delays must not be negative"))
	}
	return errors.Join(errs...)
}
