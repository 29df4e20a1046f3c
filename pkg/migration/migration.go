package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

const defaultMigrationsTable = "schema_migrations"

// Config содержит настройки для миграций
type Config struct {
	MigrationsFS    fs.FS
	MigrationsPath  string // каталог внутри MigrationsFS
	MigrationsTable string // по умолчанию schema_migrations
	LockTimeout     time.Duration
}

// Migrator выполняет миграции схемы PostgreSQL из встроенной FS.
type Migrator struct {
	config Config
	pool   *pgxpool.Pool
}

// NewMigrator создает новый экземпляр Migrator
func NewMigrator(config Config, pool *pgxpool.Pool) *Migrator {
	if config.MigrationsTable == "" {
		config.MigrationsTable = defaultMigrationsTable
	}
	if config.LockTimeout <= 0 {
		config.LockTimeout = 30 * time.Second
	}
	return &Migrator{config: config, pool: pool}
}

// Up применяет все доступные миграции
func (m *Migrator) Up() error {
	return m.run("applied", func(mg *migrate.Migrate) error { return mg.Up() })
}

// Down откатывает все миграции
func (m *Migrator) Down() error {
	return m.run("rolled back", func(mg *migrate.Migrate) error { return mg.Down() })
}

// ForceVersion устанавливает версию миграции принудительно (снимает флаг dirty)
func (m *Migrator) ForceVersion(version uint) error {
	return m.run("forced", func(mg *migrate.Migrate) error { return mg.Force(int(version)) })
}

// Version возвращает текущую версию миграции и флаг dirty
func (m *Migrator) Version() (uint, bool, error) {
	mg, err := m.createMigrator()
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrator: %w", err)
	}
	defer mg.Close()

	version, dirty, err := mg.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

func (m *Migrator) run(action string, fn func(*migrate.Migrate) error) error {
	mg, err := m.createMigrator()
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer mg.Close()

	if err := fn(mg); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Str("table", m.config.MigrationsTable).Msg("database schema is up to date")
			return nil
		}
		return fmt.Errorf("migration %s failed: %w", action, err)
	}

	log.Info().Str("table", m.config.MigrationsTable).Msgf("database migrations %s successfully", action)
	return nil
}

// createMigrator создает экземпляр migrate.Migrate поверх пула pgx
func (m *Migrator) createMigrator() (*migrate.Migrate, error) {
	db := stdlib.OpenDBFromPool(m.pool)

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable:       m.config.MigrationsTable,
		MigrationsTableQuoted: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	source, err := iofs.New(m.config.MigrationsFS, m.config.MigrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	mg, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	mg.LockTimeout = m.config.LockTimeout

	return mg, nil
}
