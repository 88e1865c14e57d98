package core

import (
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"Ganho", Income, true},
		{"Gasto", Expense, true},
		{" Ganho ", Income, true},
		{"ganho", "", false},
		{"Income", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q: expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestParseDateCoercesToNull(t *testing.T) {
	if d := ParseDate("2024-01-02"); d.IsNull() || d.Year() != 2024 || d.Month() != time.January || d.Day() != 2 {
		t.Fatalf("unexpected date: %v", d)
	}
	// RFC3339 timestamps from older files collapse to their date.
	if d := ParseDate("2024-03-05T14:30:00Z"); d.String() != "2024-03-05" {
		t.Fatalf("unexpected timestamp coercion: %q", d.String())
	}
	for _, in := range []string{"", "  ", "not-a-date", "31/12/2024", "2024-13-40"} {
		if d := ParseDate(in); !d.IsNull() {
			t.Fatalf("%q: expected null date, got %v", in, d)
		}
	}
}

func TestDateString(t *testing.T) {
	if s := NewDate(2024, 1, 2).String(); s != "2024-01-02" {
		t.Fatalf("unexpected format: %q", s)
	}
	if s := (Date{}).String(); s != "" {
		t.Fatalf("null date should render empty, got %q", s)
	}
}

func TestNormalizeCategory(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", DefaultCategory},
		{"   ", DefaultCategory},
		{"Lazer", "Lazer"},
		{" Saúde ", "Saúde"},
	}
	for _, tc := range cases {
		if got := NormalizeCategory(tc.in); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:        NewDate(2024, 1, 1),
		Kind:        Expense,
		Description: "mercado",
		Amount:      Money{Cents: 1500},
		Category:    "Alimentação",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Kind: "Outro", Description: "a", Amount: Money{Cents: 1}},
		{Kind: Income, Description: "", Amount: Money{Cents: 1}},
		{Kind: Income, Description: "  ", Amount: Money{Cents: 1}},
		{Kind: Income, Description: "a", Amount: Money{Cents: 0}},
		{Kind: Expense, Description: "a", Amount: Money{Cents: -100}},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
