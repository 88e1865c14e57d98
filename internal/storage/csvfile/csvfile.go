// Package csvfile persists the ledger as a tabular CSV file.
//
// The column set is a storage contract: ID, Data, Tipo, Descrição, Valor,
// Categoria. Loading is forgiving (missing columns become nulls, bad cells
// are normalized or the row is dropped); saving is a full overwrite.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"carteira/internal/core"
)

// Header is the exact column contract of the durable ledger file.
var Header = []string{"ID", "Data", "Tipo", "Descrição", "Valor", "Categoria"}

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted ledger. A missing file is initialized with a
// header-only file and yields an empty ledger; an unreadable file logs a
// warning and also yields an empty ledger rather than failing the system.
func (s *Store) Load(ctx context.Context) (core.Ledger, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		if err := s.init(); err != nil {
			return nil, fmt.Errorf("initialize ledger file: %w", err)
		}
		slog.InfoContext(ctx, "Ledger file created", "path", s.path)
		return core.Ledger{}, nil
	}
	if err != nil {
		slog.WarnContext(ctx, "Ledger file unreadable, starting empty", "path", s.path, "error", err)
		return core.Ledger{}, nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return core.Ledger{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := columnIndex(header)

	var ledger core.Ledger
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed CSV record", "path", s.path, "line", line, "error", err)
			continue
		}
		tx, ok := s.parseRow(ctx, cols, record, line)
		if !ok {
			continue
		}
		ledger = append(ledger, tx)
	}

	slog.InfoContext(ctx, "Ledger loaded", "path", s.path, "transactions", len(ledger))
	return ledger, nil
}

// Save writes the full ledger, header first, overwriting whatever was
// there. No locking: concurrent writers clobber each other, last one wins.
func (s *Store) Save(ctx context.Context, l core.Ledger) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create ledger file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range l {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Date.String(),
			string(t.Kind),
			t.Description,
			core.FormatDecimal(t.Amount.Cents),
			t.Category,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write transaction %d: %w", t.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush ledger file: %w", err)
	}

	slog.InfoContext(ctx, "Ledger saved", "path", s.path, "transactions", len(l))
	return nil
}

func (s *Store) init() error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// parseRow normalizes one CSV record into a transaction. Rows whose ID,
// kind or amount cannot be recovered are dropped with a warning; bad dates
// become the null date and empty categories collapse to the default.
func (s *Store) parseRow(ctx context.Context, cols map[string]int, record []string, line int) (core.Transaction, bool) {
	id, err := strconv.ParseInt(cell(cols, record, "ID"), 10, 64)
	if err != nil || id < 1 {
		slog.WarnContext(ctx, "Dropping row with invalid ID", "path", s.path, "line", line)
		return core.Transaction{}, false
	}

	kind, err := core.ParseKind(cell(cols, record, "Tipo"))
	if err != nil {
		slog.WarnContext(ctx, "Dropping row with invalid kind", "path", s.path, "line", line, "id", id)
		return core.Transaction{}, false
	}

	cents, err := core.ParseDecimalToCents(cell(cols, record, "Valor"))
	if err != nil {
		slog.WarnContext(ctx, "Dropping row with invalid amount", "path", s.path, "line", line, "id", id)
		return core.Transaction{}, false
	}

	return core.Transaction{
		ID:          id,
		Date:        core.ParseDate(cell(cols, record, "Data")),
		Kind:        kind,
		Description: cell(cols, record, "Descrição"),
		Amount:      core.Money{Cents: cents},
		Category:    core.NormalizeCategory(cell(cols, record, "Categoria")),
	}, true
}

// columnIndex maps header names to positions so a file with reordered or
// missing columns still loads; a missing column simply reads as empty.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	return cols
}

func cell(cols map[string]int, record []string, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}
