package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/shoplist-api/internal/config"
)

func TestSlogGooseLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &slogGooseLogger{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	l.Printf("applied %d migrations", 3)
	l.Fatalf("failed at %s", "20250401120000")

	out := buf.String()
	assert.Contains(t, out, "applied 3 migrations")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "failed at 20250401120000")
}

func TestHandleMigrations_Arguments(t *testing.T) {
	cfg := &config.Config{}

	err := handleMigrations(cfg, "", "", false, false)
	assert.ErrorIs(t, err, errNoMigrationOperation)

	err = handleMigrations(cfg, "drop-everything", "", false, false)
	assert.ErrorContains(t, err, "unsupported migration command")

	err = handleMigrations(cfg, "create", "", false, false)
	assert.ErrorContains(t, err, "requires -name")

	err = handleMigrations(cfg, "up", "", false, false)
	assert.ErrorContains(t, err, "database URL is empty")
}

func TestParseFlags(t *testing.T) {
	f, err := parseFlags([]string{"-migrate=create", "-name=add_index", "-verbose"})
	require.NoError(t, err)
	assert.Equal(t, cliFlags{migrateCmd: "create", migrationName: "add_index", verbose: true}, f)

	f, err = parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, cliFlags{}, f)

	_, err = parseFlags([]string{"-unknown"})
	assert.Error(t, err)
}
