package core

// Ledger operations. All of them are pure: mutating operations return a new
// Ledger value and never touch the one they were given. A single owning
// context (the service layer) is responsible for threading the current value
// through load-at-start and save-after-mutation.

// NextID returns the ID the next transaction will be assigned: the highest
// existing ID plus one, or 1 on an empty ledger. IDs only ever grow; deleting
// the highest row does not make its ID reusable within a running process,
// but after a reload the rule applies to whatever survived.
func NextID(l Ledger) int64 {
	var max int64
	for _, t := range l {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// Append returns a new Ledger with tx appended under a freshly assigned ID,
// along with the stored transaction. It does not gate on the balance; that
// check (CanSpend) is enforced by the owning service before an expense is
// committed.
func Append(l Ledger, tx Transaction) (Ledger, Transaction) {
	tx.ID = NextID(l)
	tx.Category = NormalizeCategory(tx.Category)
	out := make(Ledger, len(l), len(l)+1)
	copy(out, l)
	return append(out, tx), tx
}

// Remove returns a new Ledger without any transaction whose ID matches id.
// Removing an unknown ID is a no-op, not an error: deleting zero rows is
// valid and idempotent.
func Remove(l Ledger, id int64) Ledger {
	out := make(Ledger, 0, len(l))
	for _, t := range l {
		if t.ID == id {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CanSpend reports whether the current balance covers an expense of the
// given amount. The balance is always computed over the entire ledger,
// never over a filtered view.
func CanSpend(l Ledger, amount Money) bool {
	return Balance(l).Cents >= amount.Cents
}
