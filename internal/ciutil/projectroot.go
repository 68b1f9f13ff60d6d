package ciutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Project root marker files
const (
	GoModFile    = "go.mod" // Primary marker file for Go projects
	GitDirectory = ".git"   // Git directory marker
)

// Common errors for project root detection
var (
	ErrProjectRootNotFound = errors.New("unable to find project root")
	ErrInvalidProjectRoot  = errors.New("invalid project root: no go.mod file found")
)

// FindProjectRoot returns the absolute path to the project root directory.
// SHOPLIST_PROJECT_ROOT wins, then the CI workspace variables, then an
// upward search for go.mod from the working directory.
func FindProjectRoot(logger *slog.Logger) (string, error) {
	candidates := []struct {
		source string
		dir    string
	}{
		{EnvProjectRoot, os.Getenv(EnvProjectRoot)},
	}
	if IsGitHubActions() {
		candidates = append(candidates, struct{ source, dir string }{EnvGitHubWorkspace, os.Getenv(EnvGitHubWorkspace)})
	}
	if IsGitLabCI() {
		candidates = append(candidates, struct{ source, dir string }{EnvGitLabProjectDir, os.Getenv(EnvGitLabProjectDir)})
	}

	for _, c := range candidates {
		if c.dir == "" {
			continue
		}
		if !isValidProjectRoot(c.dir) {
			return "", fmt.Errorf("%w at %s", ErrInvalidProjectRoot, c.dir)
		}
		if logger != nil {
			logger.Debug("Using project root from environment", "source", c.source, "project_root", c.dir)
		}
		return c.dir, nil
	}

	workingDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return findProjectRootByTraversal(workingDir, logger)
}

// findProjectRootByTraversal walks up from startDir until it finds a
// directory holding go.mod, or .git as a weaker marker.
func findProjectRootByTraversal(startDir string, logger *slog.Logger) (string, error) {
	const maxDepth = 10

	dir := startDir
	for i := 0; i < maxDepth; i++ {
		if fileExists(filepath.Join(dir, GoModFile)) || dirExists(filepath.Join(dir, GitDirectory)) {
			if logger != nil {
				logger.Debug("Found project root", "project_root", dir, "depth", i)
			}
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if logger != nil {
		logger.Error("Failed to find project root by directory traversal", "start_dir", startDir)
	}
	return "", ErrProjectRootNotFound
}

// isValidProjectRoot checks if the given directory exists and contains a go.mod file.
func isValidProjectRoot(dir string) bool {
	if !dirExists(dir) {
		return false
	}

	goModPath := filepath.Join(dir, GoModFile)
	return fileExists(goModPath)
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// dirExists checks if a directory exists.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// FindMigrationsDir returns the absolute path to the migrations directory.
// It first finds the project root, then appends the path to the migrations directory.
func FindMigrationsDir(logger *slog.Logger) (string, error) {
	projectRoot, err := FindProjectRoot(logger)
	if err != nil {
		return "", fmt.Errorf("failed to find project root: %w", err)
	}

	migrationsPath := filepath.Join(projectRoot, "internal", "platform", "postgres", "migrations")

	if logger != nil {
		logger.Debug("Resolved migrations directory path",
			"project_root", projectRoot,
			"migrations_path", migrationsPath,
		)
	}

	// Verify the directory exists
	if !dirExists(migrationsPath) {
		return "", fmt.Errorf("migrations directory not found at %s", migrationsPath)
	}

	return migrationsPath, nil
}
