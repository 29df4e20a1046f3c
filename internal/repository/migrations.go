package repository

import (
	"embed"

	"story-magic/pkg/migration"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationConfig конфигурация мигратора для встроенных SQL-миграций.
func MigrationConfig() migration.Config {
	return migration.Config{
		MigrationsFS:   migrationsFS,
		MigrationsPath: "migrations",
	}
}
