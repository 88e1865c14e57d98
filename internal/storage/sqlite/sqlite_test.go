package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"carteira/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "carteira.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadEmptyDatabase(t *testing.T) {
	s := newTestStore(t)
	l, err := s.Load(context.Background())
	assert.Nil(t, err)
	assert.Len(t, l, 0)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := core.Ledger{
		{ID: 1, Date: core.NewDate(2024, 5, 1), Kind: core.Income, Description: "salário", Amount: core.Money{Cents: 500000}, Category: "Salário"},
		{ID: 2, Date: core.Date{}, Kind: core.Expense, Description: "sem data", Amount: core.Money{Cents: 1999}, Category: "Outros"},
	}
	assert.Nil(t, s.Save(ctx, in))

	out, err := s.Load(ctx)
	assert.Nil(t, err)
	assert.Equal(t, in, out)
}

func TestSaveReplacesContents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := core.Ledger{
		{ID: 1, Date: core.NewDate(2024, 1, 1), Kind: core.Income, Description: "a", Amount: core.Money{Cents: 100}, Category: "Outros"},
		{ID: 2, Date: core.NewDate(2024, 1, 2), Kind: core.Income, Description: "b", Amount: core.Money{Cents: 200}, Category: "Outros"},
	}
	assert.Nil(t, s.Save(ctx, first))
	assert.Nil(t, s.Save(ctx, core.Ledger{first[1]}))

	out, err := s.Load(ctx)
	assert.Nil(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].ID)
}
