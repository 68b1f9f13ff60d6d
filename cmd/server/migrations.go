package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/phrazzld/shoplist-api/internal/ciutil"
	"github.com/phrazzld/shoplist-api/internal/config"
	"github.com/phrazzld/shoplist-api/internal/platform/postgres/migrations"
	"github.com/phrazzld/shoplist-api/internal/redact"
)

// errNoMigrationOperation is returned when neither a command nor verification was requested.
var errNoMigrationOperation = errors.New("no migration operation specified")

// supportedMigrationCommands lists the goose commands exposed through -migrate.
var supportedMigrationCommands = map[string]bool{
	"up":      true,
	"down":    true,
	"status":  true,
	"version": true,
	"reset":   true,
	"create":  true,
}

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages to slog.Error.
// It does not exit; the error is returned to main which handles the exit.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// handleMigrations handles the execution of database migrations.
// It's called from main() when migration-related flags are detected.
func handleMigrations(
	cfg *config.Config,
	migrateCmd string,
	migrationName string,
	verbose bool,
	verifyOnly bool,
) error {
	switch {
	case verifyOnly:
		slog.Info("Verifying migrations only (not applying)", "verbose", verbose)
		return withMigrationDB(cfg, "verify", verbose, func(ctx context.Context, db *sql.DB, log *slog.Logger) error {
			return verifyAppliedMigrations(ctx, db, log)
		})
	case migrateCmd != "":
		if !supportedMigrationCommands[migrateCmd] {
			return fmt.Errorf("unsupported migration command %q", migrateCmd)
		}
		if migrateCmd == "create" {
			if migrationName == "" {
				return errors.New("create requires -name")
			}
			return createMigration(migrationName)
		}
		return withMigrationDB(cfg, migrateCmd, verbose, func(ctx context.Context, db *sql.DB, _ *slog.Logger) error {
			return goose.RunContext(ctx, migrateCmd, db, ".")
		})
	default:
		return errNoMigrationOperation
	}
}

// configureGoose points goose at the embedded migrations.
func configureGoose(log *slog.Logger, verbose bool) error {
	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetVerbose(verbose)
	goose.SetTableName(migrations.TableName)
	goose.SetBaseFS(migrations.FS)
	return goose.SetDialect("postgres")
}

// withMigrationDB opens a short-lived connection for a migration command and
// logs its duration under a correlation ID.
func withMigrationDB(
	cfg *config.Config,
	command string,
	verbose bool,
	fn func(ctx context.Context, db *sql.DB, log *slog.Logger) error,
) (err error) {
	log := slog.Default().With(
		"correlation_id", uuid.NewString(),
		"component", "migrations",
		"command", command,
		"mode", ciutil.ExecutionMode(),
	)

	if cfg.Database.URL == "" {
		return errors.New("database URL is empty: check your configuration")
	}
	if err := configureGoose(log, verbose); err != nil {
		return fmt.Errorf("failed to configure goose: %w", err)
	}

	start := time.Now()
	log.Info("Starting migration operation", "url", redact.DatabaseURL(cfg.Database.URL))

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Error closing database connection", "error", closeErr)
		}
		log.Info("Migration operation completed",
			"duration_ms", time.Since(start).Milliseconds(),
			"success", err == nil)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := fn(ctx, db, log); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}

// createMigration writes a new SQL migration into the source tree.
func createMigration(name string) error {
	dir, err := ciutil.FindMigrationsDir(slog.Default())
	if err != nil {
		return fmt.Errorf("failed to locate migrations directory: %w", err)
	}

	goose.SetLogger(&slogGooseLogger{logger: slog.Default()})
	goose.SetBaseFS(nil)
	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration %q: %w", name, err)
	}
	return nil
}

// verifyAppliedMigrations checks that the database is at the latest embedded
// migration version.
func verifyAppliedMigrations(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	available, err := goose.CollectMigrations(".", 0, goose.MaxVersion)
	if err != nil {
		return fmt.Errorf("failed to collect migrations: %w", err)
	}
	if len(available) == 0 {
		return errors.New("no embedded migrations found")
	}
	latest := available[len(available)-1].Version

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read database version: %w", err)
	}

	if current < latest {
		var pending []int64
		for _, m := range available {
			if m.Version > current {
				pending = append(pending, m.Version)
			}
		}
		log.Error("Not all migrations have been applied",
			"current_version", current,
			"expected_version", latest,
			"pending", pending)
		return fmt.Errorf("database at version %d but latest migration is %d", current, latest)
	}

	log.Info("Migration verification completed successfully",
		"version", current,
		"migrations_available", len(available))
	return nil
}
