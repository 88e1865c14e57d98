package storage

import (
	"context"

	"carteira/internal/core"
)

// Store is the port for durable ledger persistence. Load reads the whole
// persisted ledger (normalizing as it goes); Save writes the whole ledger
// back with full-overwrite semantics. There is no partial persistence and
// no locking: the last writer wins.
type Store interface {
	Load(ctx context.Context) (core.Ledger, error)
	Save(ctx context.Context, l core.Ledger) error
}

// BackendType selects a Store implementation.
type BackendType string

const (
	CSVBackend    BackendType = "csv"
	SQLiteBackend BackendType = "sqlite"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case CSVBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
