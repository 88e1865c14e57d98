package core

import (
	"sort"
	"time"
)

type (
	// GroupKey identifies a group in one or two dimensions. Secondary is
	// empty for single-dimension groupings.
	GroupKey struct {
		Primary   string
		Secondary string
	}

	// GroupTotal is an amount summed over one group.
	GroupTotal struct {
		Key    GroupKey
		Amount Money
	}

	// BalancePoint is one step of the cumulative balance series.
	BalancePoint struct {
		Date    Date
		Balance Money
	}
)

// Total sums transaction amounts, optionally restricted to one kind.
// An empty kind means all transactions. The sum of an empty set is zero.
func Total(l Ledger, kind Kind) Money {
	var cents int64
	for _, t := range l {
		if kind != "" && t.Kind != kind {
			continue
		}
		cents += t.Amount.Cents
	}
	return Money{Cents: cents}
}

// Balance is the income total minus the expense total, in signed cents,
// over whatever subset it is given (full ledger or a filtered view).
func Balance(l Ledger) Money {
	return Money{Cents: Total(l, Income).Cents - Total(l, Expense).Cents}
}

// GroupSum aggregates amounts by the key the function derives from each
// transaction. Group order is first-appearance order, not sorted; consumers
// that need a stable presentation order sort explicitly (TopN, or
// chronological sorts on date keys). A key function may return ok=false to
// drop a transaction from the grouping, which is how rows with null dates
// fall out of date-based groupings.
func GroupSum(l Ledger, key func(Transaction) (GroupKey, bool)) []GroupTotal {
	index := make(map[GroupKey]int)
	var out []GroupTotal
	for _, t := range l {
		k, ok := key(t)
		if !ok {
			continue
		}
		i, seen := index[k]
		if !seen {
			index[k] = len(out)
			out = append(out, GroupTotal{Key: k})
			i = len(out) - 1
		}
		out[i].Amount.Cents += t.Amount.Cents
	}
	return out
}

// Key functions for the chart views.

// ByCategory groups by category alone.
func ByCategory(t Transaction) (GroupKey, bool) {
	return GroupKey{Primary: t.Category}, true
}

// ByCategoryAndKind feeds the stacked income-vs-expense bar chart.
func ByCategoryAndKind(t Transaction) (GroupKey, bool) {
	return GroupKey{Primary: t.Category, Secondary: string(t.Kind)}, true
}

// ByKind feeds the income/expense distribution pie.
func ByKind(t Transaction) (GroupKey, bool) {
	return GroupKey{Primary: string(t.Kind)}, true
}

// ByMonthAndKind feeds the monthly evolution lines. Months render as
// "2006-01"; rows without a date are dropped.
func ByMonthAndKind(t Transaction) (GroupKey, bool) {
	if t.Date.IsNull() {
		return GroupKey{}, false
	}
	return GroupKey{Primary: t.Date.Format("2006-01"), Secondary: string(t.Kind)}, true
}

// ByDescriptionAndKind feeds the top-N transactions chart.
func ByDescriptionAndKind(t Transaction) (GroupKey, bool) {
	return GroupKey{Primary: t.Description, Secondary: string(t.Kind)}, true
}

// ByWeekdayAndMonth feeds the weekday-by-month concentration heatmap.
func ByWeekdayAndMonth(t Transaction) (GroupKey, bool) {
	if t.Date.IsNull() {
		return GroupKey{}, false
	}
	return GroupKey{Primary: t.Date.Weekday().String(), Secondary: t.Date.Month().String()}, true
}

// BalanceHistory produces the cumulative balance series: each amount signed
// by kind, summed per date, sorted ascending by date, then accumulated.
// Only dates present in the ledger appear; there are no explicit zero-delta
// points, and rows with a null date are skipped.
func BalanceHistory(l Ledger) []BalancePoint {
	perDay := make(map[int64]int64)
	for _, t := range l {
		if t.Date.IsNull() {
			continue
		}
		delta := t.Amount.Cents
		if t.Kind == Expense {
			delta = -delta
		}
		perDay[t.Date.Unix()] += delta
	}

	days := make([]int64, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	out := make([]BalancePoint, 0, len(days))
	var running int64
	for _, d := range days {
		running += perDay[d]
		out = append(out, BalancePoint{
			Date:    Date{Time: unixDate(d)},
			Balance: Money{Cents: running},
		})
	}
	return out
}

func unixDate(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// TopN returns the n largest groups by amount, descending. The sort is
// stable, so ties keep their original first-appearance order.
func TopN(groups []GroupTotal, n int) []GroupTotal {
	out := make([]GroupTotal, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}
