// Package cli provides common initialization shared by the carteira
// subcommands.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"carteira/internal/config"
	"carteira/internal/storage"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitStore builds the configured ledger store.
// Returns the store and its cleanup or exits the process on failure.
func InitStore(logger *slog.Logger, cfg *config.Config) (storage.Store, storage.CleanupFunc) {
	store, cleanup, err := storage.New(storage.Config{
		Type:         storage.BackendType(cfg.StorageBackend),
		CSVPath:      cfg.CSVPath,
		SQLiteDBPath: cfg.SQLiteDBPath,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "backend", cfg.StorageBackend)
		os.Exit(1)
	}
	return store, cleanup
}
