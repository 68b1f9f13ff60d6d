// Package main implements the entry point for the shopping list API server.
// Besides serving HTTP it can apply, roll back and verify the database
// migrations embedded in the binary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// cliFlags holds the command line options.
type cliFlags struct {
	migrateCmd    string
	migrationName string
	verbose       bool
	verifyOnly    bool
}

func parseFlags(args []string) (cliFlags, error) {
	var f cliFlags
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&f.migrateCmd, "migrate", "", "run a migration command: up, down, status, version, reset or create")
	fs.StringVar(&f.migrationName, "name", "", "name for a new migration (with -migrate=create)")
	fs.BoolVar(&f.verbose, "verbose", false, "enable verbose migration output")
	fs.BoolVar(&f.verifyOnly, "verify-migrations", false, "check that every embedded migration is applied")
	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}
	return f, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// run loads configuration and either handles a migration command or serves
// the API until SIGINT or SIGTERM.
func run(args []string) error {
	flags, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	if flags.migrateCmd != "" || flags.verifyOnly {
		return handleMigrations(cfg, flags.migrateCmd, flags.migrationName, flags.verbose, flags.verifyOnly)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("Error closing database connection", "error", closeErr)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
