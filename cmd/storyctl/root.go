package main

import (
	"context"
	"fmt"
	"os"

	"story-magic/internal/config"
	"story-magic/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions глобальные флаги storyctl.
type rootOptions struct {
	EnvFile  string
	LogLevel string
}

var opts rootOptions

var rootCmd = &cobra.Command{
	Use:           "storyctl",
	Short:         "Служебные команды Story Magic: миграции, генерация, тестовые данные",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "путь к .env файлу")
	rootCmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "уровень логирования (по умолчанию LOG_LEVEL)")

	rootCmd.AddCommand(newMigrateCmd(), newGenerateCmd(), newSeedSampleCmd())
}

// Execute запускает разбор командной строки.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadEnv читает конфигурацию и создает консольный логгер.
func loadEnv() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(opts.EnvFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	log, err := logger.New(logger.Config{Level: level, Encoding: "console", OutputPath: "stderr", Service: "storyctl"})
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(log)
	return cfg, log, nil
}
