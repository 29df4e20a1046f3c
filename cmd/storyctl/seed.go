package main

import (
	"context"
	"fmt"
	"time"

	"story-magic/internal/repository"
	"story-magic/internal/service"
	"story-magic/pkg/database"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedSampleCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "seed-sample",
		Short: "Сохранить тестовую историю для пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user-id %q: %w", userID, err)
			}

			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			client, err := database.ConnectMongo(cmd.Context(), cfg.MongoURI,
				database.Retry{Attempts: 3, Delay: 2 * time.Second}, log.Named("MongoDB"))
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = client.Disconnect(ctx)
			}()

			repo := repository.NewMongoStoryRepository(client.Database(cfg.MongoDatabase), log)
			// Генератор не нужен: сохраняется готовая история
			svc := service.NewStoryService(repo, nil, 0, log)
			story, err := svc.CreateSampleStory(cmd.Context(), owner)
			if err != nil {
				log.Error("Failed to seed sample story", zap.Error(err))
				return err
			}
			return writeJSON(cmd, story)
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "UUID владельца истории")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
