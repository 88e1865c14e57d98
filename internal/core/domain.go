package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// Income and Expense are the only transaction kinds. The Portuguese
	// labels are part of the storage contract, not display prose.
	Income  Kind = "Ganho"
	Expense Kind = "Gasto"

	// DefaultCategory is what missing or empty categories collapse to
	// during normalization.
	DefaultCategory = "Outros"

	// DateLayout is the wire format for dates in storage and the API.
	DateLayout = "2006-01-02"
)

type (
	// Kind says whether a transaction adds to or subtracts from the balance.
	Kind string

	// Date wraps time.Time. The zero value is the explicit marker for a
	// missing or unparseable date produced by load-time normalization.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single ledger row. It is immutable once created:
	// the only ledger operations are Append and Remove.
	Transaction struct {
		ID          int64
		Date        Date
		Kind        Kind
		Description string
		Amount      Money
		Category    string
	}

	// Ledger is the full ordered collection of transactions. Insertion
	// order is preserved; nothing sorts it implicitly.
	Ledger []Transaction
)

var (
	ErrInvalidKind         = errors.New("invalid transaction kind")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyDescription    = errors.New("empty description")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// ParseKind maps a storage label to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.TrimSpace(s)) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	default:
		return "", ErrInvalidKind
	}
}

func (k Kind) Validate() error {
	if k != Income && k != Expense {
		return ErrInvalidKind
	}
	return nil
}

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate coerces a wire date string to a Date. Anything unparseable
// becomes the null Date rather than an error; a bad date cell never fails
// a load.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		// Tolerate full timestamps written by older versions.
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return Date{}
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return Date{Time: t}
}

// IsNull reports whether the date is the missing/unparseable marker.
func (d Date) IsNull() bool {
	return d.IsZero()
}

// String renders the wire format, or the empty string for a null date.
func (d Date) String() string {
	if d.IsNull() {
		return ""
	}
	return d.Format(DateLayout)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// NormalizeCategory collapses empty or blank categories to the default.
func NormalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultCategory
	}
	return s
}

// Validate checks the invariants a transaction must hold before it may be
// appended. Balance checks are separate (see CanSpend); a rejection here is
// an input validation failure, not a business-rule violation.
func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return nil
}
