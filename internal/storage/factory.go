package storage

import (
	"fmt"
	"log/slog"

	"carteira/internal/storage/csvfile"
	"carteira/internal/storage/sqlite"
)

// CleanupFunc releases whatever resources a backend holds open.
type CleanupFunc func() error

// Config holds what the factory needs to build a backend.
type Config struct {
	Type         BackendType
	CSVPath      string
	SQLiteDBPath string
}

// New builds the configured Store. The returned cleanup may be nil for
// backends with nothing to release.
func New(cfg Config, logger *slog.Logger) (Store, CleanupFunc, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Type.IsValid() {
		return nil, nil, fmt.Errorf("invalid storage backend: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLiteBackend:
		s, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return s, s.Close, nil
	default:
		s := csvfile.New(cfg.CSVPath)
		logger.Info("Initialized CSV backend", "path", cfg.CSVPath)
		return s, nil, nil
	}
}
