package main

import (
	"fmt"
	"strconv"
	"time"

	"story-magic/internal/repository"
	"story-magic/pkg/database"
	"story-magic/pkg/migration"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Управление миграциями PostgreSQL (таблица users)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Применить все миграции",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *migration.Migrator) error { return m.Up() })
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Откатить все миграции",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *migration.Migrator) error { return m.Down() })
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Показать текущую версию схемы",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *migration.Migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force VERSION",
			Short: "Принудительно выставить версию и снять флаг dirty",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := parseVersion(args[0])
				if err != nil {
					return err
				}
				return withMigrator(cmd, func(m *migration.Migrator) error { return m.ForceVersion(version) })
			},
		},
	)
	return cmd
}

func parseVersion(arg string) (uint, error) {
	v, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid migration version %q: must be a non-negative integer", arg)
	}
	return uint(v), nil
}

func withMigrator(cmd *cobra.Command, fn func(*migration.Migrator) error) error {
	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	pool, err := database.ConnectPostgres(cmd.Context(), database.PostgresConfig{DSN: cfg.PostgresDSN(), MaxConns: 2},
		database.Retry{Attempts: 3, Delay: 2 * time.Second}, log.Named("Postgres"))
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := fn(migration.NewMigrator(repository.MigrationConfig(), pool)); err != nil {
		log.Error("Migration command failed", zap.String("command", cmd.Name()), zap.Error(err))
		return err
	}
	return nil
}
