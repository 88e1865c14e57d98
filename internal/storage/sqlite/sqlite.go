// Package sqlite is the alternative ledger backend over a SQLite database.
// It keeps the same full-overwrite, load-everything semantics as the CSV
// store: the table mirrors the CSV columns and Save replaces its contents.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"carteira/internal/core"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads every row in id order, normalizing as the CSV store does:
// unparseable dates become null, empty categories become the default.
func (s *Store) Load(ctx context.Context) (core.Ledger, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data, tipo, descricao, valor_cents, categoria FROM transacoes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var ledger core.Ledger
	for rows.Next() {
		var (
			id        int64
			data      string
			tipo      string
			descricao string
			cents     int64
			categoria string
		)
		if err := rows.Scan(&id, &data, &tipo, &descricao, &cents, &categoria); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		kind, err := core.ParseKind(tipo)
		if err != nil {
			slog.WarnContext(ctx, "Dropping row with invalid kind", "id", id, "tipo", tipo)
			continue
		}
		ledger = append(ledger, core.Transaction{
			ID:          id,
			Date:        core.ParseDate(data),
			Kind:        kind,
			Description: descricao,
			Amount:      core.Money{Cents: cents},
			Category:    core.NormalizeCategory(categoria),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	slog.InfoContext(ctx, "Ledger loaded from SQLite", "transactions", len(ledger))
	return ledger, nil
}

// Save replaces the table contents with the given ledger in a single
// transaction, mirroring the CSV store's full-overwrite semantics.
func (s *Store) Save(ctx context.Context, l core.Ledger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transacoes`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	for _, t := range l {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transacoes (id, data, tipo, descricao, valor_cents, categoria)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, t.Date.String(), string(t.Kind), t.Description, t.Amount.Cents, t.Category)
		if err != nil {
			return fmt.Errorf("insert transaction %d: %w", t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	slog.InfoContext(ctx, "Ledger saved to SQLite", "transactions", len(l))
	return nil
}
