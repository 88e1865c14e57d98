package core

import "time"

// SeedCategories is the default category list offered even on an empty
// ledger.
var SeedCategories = []string{
	"Salário", "Investimentos", "Lazer", "Saúde",
	"Educação", "Transporte", "Alimentação", DefaultCategory,
}

// Filter selects a ledger subset by kind, category and date range.
//
// Empty Kinds or Categories widen to "everything present", they do not
// narrow to nothing. That is deliberate, long-standing behavior the UI
// depends on; changing it silently alters what users see.
type Filter struct {
	Kinds      []Kind
	Categories []string
	From       Date
	To         Date
}

// Apply returns the matching subset in the ledger's own order. The date
// range is inclusive on both ends. Transactions with a null date never
// match a date-bounded filter: a comparison against null always fails.
func (f Filter) Apply(l Ledger) Ledger {
	dated := !f.From.IsNull() || !f.To.IsNull()
	out := make(Ledger, 0, len(l))
	for _, t := range l {
		if len(f.Kinds) > 0 && !containsKind(f.Kinds, t.Kind) {
			continue
		}
		if len(f.Categories) > 0 && !containsString(f.Categories, t.Category) {
			continue
		}
		if dated {
			if t.Date.IsNull() {
				continue
			}
			if !f.From.IsNull() && t.Date.Before(f.From.Time) {
				continue
			}
			if !f.To.IsNull() && t.Date.After(f.To.Time) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// DefaultRange is the date window to preselect: the ledger's min and max
// dates when every row carries a parseable date, or the last 30 days
// through today when the ledger is empty or any row's date is null.
func DefaultRange(l Ledger) (Date, Date) {
	var min, max Date
	allDated := len(l) > 0
	for _, t := range l {
		if t.Date.IsNull() {
			allDated = false
			break
		}
		if min.IsNull() || t.Date.Before(min.Time) {
			min = t.Date
		}
		if max.IsNull() || t.Date.After(max.Time) {
			max = t.Date
		}
	}
	if !allDated {
		now := time.Now().UTC()
		today := NewDate(now.Year(), int(now.Month()), now.Day())
		return Date{Time: today.AddDate(0, 0, -30)}, today
	}
	return min, max
}

// Categories returns the distinct categories in first-appearance order.
func Categories(l Ledger) []string {
	seen := make(map[string]struct{}, len(l))
	var out []string
	for _, t := range l {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	return out
}

// CategoryOptions merges SeedCategories with the ledger's own categories:
// the seed list first, then ledger categories not already seeded, in
// first-appearance order.
func CategoryOptions(l Ledger) []string {
	out := make([]string, len(SeedCategories))
	copy(out, SeedCategories)
	seen := make(map[string]struct{}, len(out))
	for _, c := range out {
		seen[c] = struct{}{}
	}
	for _, c := range Categories(l) {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func containsKind(ks []Kind, k Kind) bool {
	for _, v := range ks {
		if v == k {
			return true
		}
	}
	return false
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
