package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"carteira/internal/core"
	"carteira/internal/storage"
)

// EventPublisher announces committed mutations to downstream consumers.
// Publishing is best-effort: a failure is logged, never surfaced, and
// never rolls back a mutation.
type EventPublisher interface {
	PublishTransactionCreated(ctx context.Context, tx core.Transaction) error
	PublishTransactionDeleted(ctx context.Context, id int64) error
	Close() error
}

// LedgerService is the single owning context for the ledger value: it loads
// once at start, threads the current Ledger through the pure core
// operations, and persists after every committed mutation. A mutex
// serializes mutations; each load -> mutate -> save cycle runs to
// completion before the next begins.
type LedgerService struct {
	mu     sync.Mutex
	store  storage.Store
	events EventPublisher // may be nil
	ledger core.Ledger
}

// CreateInput is what a caller supplies for a new transaction; the ID is
// assigned internally.
type CreateInput struct {
	Date        core.Date
	Kind        core.Kind
	Description string
	Amount      core.Money
	Category    string
}

func NewLedgerService(ctx context.Context, store storage.Store, events EventPublisher) (*LedgerService, error) {
	ledger, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return &LedgerService{
		store:  store,
		events: events,
		ledger: ledger,
	}, nil
}

// Snapshot returns a copy of the current ledger for read paths; callers may
// filter and aggregate it freely without holding any lock.
func (s *LedgerService) Snapshot() core.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(core.Ledger, len(s.ledger))
	copy(out, s.ledger)
	return out
}

// Create validates the input, enforces the balance gate for expenses, and
// commits the new transaction. Rejections of either kind leave the ledger
// untouched and unsaved: core.ErrInsufficientBalance is the business-rule
// rejection, everything else from Validate is an input validation failure.
//
// The gate lives here rather than in core.Append so no caller can slip an
// uncovered expense past it.
func (s *LedgerService) Create(ctx context.Context, in CreateInput) (core.Transaction, error) {
	candidate := core.Transaction{
		Date:        in.Date,
		Kind:        in.Kind,
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
	}
	if err := candidate.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if in.Kind == core.Expense && !core.CanSpend(s.ledger, in.Amount) {
		return core.Transaction{}, core.ErrInsufficientBalance
	}

	next, stored := core.Append(s.ledger, candidate)
	if err := s.store.Save(ctx, next); err != nil {
		return core.Transaction{}, fmt.Errorf("save ledger: %w", err)
	}
	s.ledger = next

	slog.InfoContext(ctx, "Transaction created",
		"id", stored.ID,
		"kind", stored.Kind,
		"amount_cents", stored.Amount.Cents,
		"category", stored.Category)

	s.publishCreated(ctx, stored)
	return stored, nil
}

// Delete removes all rows matching id and persists. Deleting an unknown ID
// is a no-op that still rewrites storage, keeping the operation idempotent.
func (s *LedgerService) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := core.Remove(s.ledger, id)
	if err := s.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	removed := len(s.ledger) - len(next)
	s.ledger = next

	slog.InfoContext(ctx, "Transaction deleted", "id", id, "removed", removed)

	s.publishDeleted(ctx, id)
	return nil
}

func (s *LedgerService) publishCreated(ctx context.Context, tx core.Transaction) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionCreated(ctx, tx); err != nil {
		// Don't fail the request - the mutation is already saved
		slog.ErrorContext(ctx, "Failed to publish create event", "id", tx.ID, "error", err)
	}
}

func (s *LedgerService) publishDeleted(ctx context.Context, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionDeleted(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete event", "id", id, "error", err)
	}
}

// Close releases the event publisher, if any.
func (s *LedgerService) Close() error {
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			return fmt.Errorf("close events: %w", err)
		}
	}
	return nil
}
