package core

import "testing"

func TestTotalAndBalance(t *testing.T) {
	if got := Total(nil, ""); got.Cents != 0 {
		t.Fatalf("empty ledger total should be 0, got %d", got.Cents)
	}
	if got := Balance(nil); got.Cents != 0 {
		t.Fatalf("empty ledger balance should be 0, got %d", got.Cents)
	}

	l := Ledger{
		tx(1, Income, 10000),
		tx(2, Expense, 2500),
		tx(3, Income, 500),
		tx(4, Expense, 1000),
	}
	if got := Total(l, Income); got.Cents != 10500 {
		t.Fatalf("income total: expected 10500, got %d", got.Cents)
	}
	if got := Total(l, Expense); got.Cents != 3500 {
		t.Fatalf("expense total: expected 3500, got %d", got.Cents)
	}
	if got := Total(l, ""); got.Cents != 14000 {
		t.Fatalf("overall total: expected 14000, got %d", got.Cents)
	}
	if got := Balance(l); got.Cents != 7000 {
		t.Fatalf("balance: expected 7000, got %d", got.Cents)
	}
}

// Total restricted to a kind must equal the unrestricted total over a
// kind-filtered subset.
func TestTotalMatchesFilteredTotal(t *testing.T) {
	l := Ledger{
		tx(1, Income, 100),
		tx(2, Expense, 40),
		tx(3, Income, 10),
		tx(4, Expense, 5),
	}
	for _, k := range []Kind{Income, Expense} {
		sub := Filter{Kinds: []Kind{k}}.Apply(l)
		if Total(l, k) != Total(sub, "") {
			t.Fatalf("kind %q: totals diverge", k)
		}
	}
}

func TestGroupSumByCategoryAndKind(t *testing.T) {
	l := Ledger{
		{ID: 1, Kind: Expense, Description: "a", Amount: Money{Cents: 2000}, Category: "Alimentação"},
		{ID: 2, Kind: Expense, Description: "b", Amount: Money{Cents: 3000}, Category: "Alimentação"},
		{ID: 3, Kind: Income, Description: "c", Amount: Money{Cents: 10000}, Category: "Salário"},
	}
	got := GroupSum(l, ByCategoryAndKind)
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d: %v", len(got), got)
	}
	// First-appearance order.
	if got[0].Key != (GroupKey{Primary: "Alimentação", Secondary: "Gasto"}) || got[0].Amount.Cents != 5000 {
		t.Fatalf("unexpected first group: %+v", got[0])
	}
	if got[1].Key != (GroupKey{Primary: "Salário", Secondary: "Ganho"}) || got[1].Amount.Cents != 10000 {
		t.Fatalf("unexpected second group: %+v", got[1])
	}
}

func TestGroupSumDropsNullDatesForDateKeys(t *testing.T) {
	l := Ledger{
		{ID: 1, Date: NewDate(2024, 2, 10), Kind: Expense, Description: "a", Amount: Money{Cents: 100}, Category: "Outros"},
		{ID: 2, Date: Date{}, Kind: Expense, Description: "b", Amount: Money{Cents: 999}, Category: "Outros"},
	}
	got := GroupSum(l, ByMonthAndKind)
	if len(got) != 1 {
		t.Fatalf("expected the null-date row dropped, got %v", got)
	}
	if got[0].Key.Primary != "2024-02" {
		t.Fatalf("unexpected month key: %+v", got[0].Key)
	}

	byDay := GroupSum(l, ByWeekdayAndMonth)
	if len(byDay) != 1 || byDay[0].Key.Primary != "Saturday" || byDay[0].Key.Secondary != "February" {
		t.Fatalf("unexpected weekday grouping: %v", byDay)
	}
}

func TestBalanceHistory(t *testing.T) {
	l := Ledger{
		{ID: 1, Date: NewDate(2024, 1, 1), Kind: Income, Description: "a", Amount: Money{Cents: 10000}},
		{ID: 2, Date: NewDate(2024, 1, 2), Kind: Expense, Description: "b", Amount: Money{Cents: 4000}},
		{ID: 3, Date: NewDate(2024, 1, 3), Kind: Income, Description: "c", Amount: Money{Cents: 1000}},
	}
	got := BalanceHistory(l)
	want := []struct {
		date  string
		cents int64
	}{
		{"2024-01-01", 10000},
		{"2024-01-02", 6000},
		{"2024-01-03", 7000},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Date.String() != w.date || got[i].Balance.Cents != w.cents {
			t.Fatalf("point %d: expected (%s, %d), got (%s, %d)",
				i, w.date, w.cents, got[i].Date.String(), got[i].Balance.Cents)
		}
	}
}

func TestBalanceHistoryUnsortedInputAndNullDates(t *testing.T) {
	l := Ledger{
		{ID: 1, Date: NewDate(2024, 1, 3), Kind: Income, Description: "late", Amount: Money{Cents: 100}},
		{ID: 2, Date: Date{}, Kind: Income, Description: "undated", Amount: Money{Cents: 555}},
		{ID: 3, Date: NewDate(2024, 1, 1), Kind: Income, Description: "early", Amount: Money{Cents: 200}},
		{ID: 4, Date: NewDate(2024, 1, 1), Kind: Expense, Description: "same day", Amount: Money{Cents: 50}},
	}
	got := BalanceHistory(l)
	if len(got) != 2 {
		t.Fatalf("expected 2 points, got %v", got)
	}
	if got[0].Date.String() != "2024-01-01" || got[0].Balance.Cents != 150 {
		t.Fatalf("unexpected first point: %+v", got[0])
	}
	if got[1].Date.String() != "2024-01-03" || got[1].Balance.Cents != 250 {
		t.Fatalf("unexpected second point: %+v", got[1])
	}
}

func TestTopN(t *testing.T) {
	groups := []GroupTotal{
		{Key: GroupKey{Primary: "a"}, Amount: Money{Cents: 10}},
		{Key: GroupKey{Primary: "b"}, Amount: Money{Cents: 30}},
		{Key: GroupKey{Primary: "c"}, Amount: Money{Cents: 30}},
		{Key: GroupKey{Primary: "d"}, Amount: Money{Cents: 20}},
	}
	got := TopN(groups, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3, got %d", len(got))
	}
	// Descending, stable on ties: b before c.
	if got[0].Key.Primary != "b" || got[1].Key.Primary != "c" || got[2].Key.Primary != "d" {
		t.Fatalf("unexpected order: %v", got)
	}
	// Input must stay untouched.
	if groups[0].Key.Primary != "a" {
		t.Fatalf("TopN mutated its input: %v", groups)
	}
	// n larger than the slice returns everything.
	if all := TopN(groups, 10); len(all) != 4 {
		t.Fatalf("expected all groups, got %d", len(all))
	}
}
