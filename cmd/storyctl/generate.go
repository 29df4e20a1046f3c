package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"story-magic/internal/generation"
	"story-magic/internal/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type generateOptions struct {
	Characters  []string
	Genres      []string
	Description string
}

func newGenerateCmd() *cobra.Command {
	var gopts generateOptions
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Сгенерировать историю и вывести ее JSON без сохранения",
		Example: `  storyctl generate --character "Mia the Cat" --genre Adventure --description "A picnic in the forest"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			generator, err := generation.NewFromConfig(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			story, err := generator.Generate(cmd.Context(), gopts.input())
			if err != nil {
				log.Error("Story generation failed", zap.Error(err))
				return err
			}
			return writeJSON(cmd, story)
		},
	}
	cmd.Flags().StringArrayVar(&gopts.Characters, "character", nil, "персонаж (флаг можно повторять)")
	cmd.Flags().StringSliceVar(&gopts.Genres, "genre", nil, "жанры через запятую")
	cmd.Flags().StringVar(&gopts.Description, "description", "", "о чем история")
	return cmd
}

func (o generateOptions) input() models.StoryInput {
	return models.StoryInput{
		Characters:  trimAll(o.Characters),
		Description: strings.TrimSpace(o.Description),
		Genre:       trimAll(o.Genres),
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
