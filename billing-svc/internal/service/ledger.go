package service

import "billing-counter/billing-svc/internal/domain"

// Ledger is the append-only list of finalized transactions plus the
// running daily-sales rollup. Append and the rollup fold happen
// together; callers serialize access (the session holds the lock).
type Ledger struct {
	catalog *domain.Catalog
	entries []domain.Transaction
	rollup  domain.DailyRollup
}

func NewLedger(catalog *domain.Catalog) *Ledger {
	l := &Ledger{catalog: catalog}
	l.Reset()
	return l
}

// Append adds the transaction and folds it into the rollup as one unit.
func (l *Ledger) Append(tx domain.Transaction) {
	l.entries = append(l.entries, tx)

	// Old data can reference items outside the current catalog; those
	// get their own counter instead of being dropped.
	for _, line := range tx.Lines {
		l.rollup.ItemQuantities[line.ID] += line.Quantity
	}
	l.rollup.TotalRevenue = domain.Round2(l.rollup.TotalRevenue + tx.GrandTotal)
}

func (l *Ledger) Get(index int) (domain.Transaction, error) {
	if index < 0 || index >= len(l.entries) {
		return domain.Transaction{}, ErrIndexOutOfRange
	}
	return l.entries[index], nil
}

func (l *Ledger) Len() int { return len(l.entries) }

func (l *Ledger) Entries() []domain.Transaction {
	entries := make([]domain.Transaction, len(l.entries))
	copy(entries, l.entries)
	return entries
}

func (l *Ledger) Rollup() domain.DailyRollup {
	rollup := domain.DailyRollup{
		TotalRevenue:   l.rollup.TotalRevenue,
		ItemQuantities: make(map[string]int, len(l.rollup.ItemQuantities)),
	}
	for id, qty := range l.rollup.ItemQuantities {
		rollup.ItemQuantities[id] = qty
	}
	return rollup
}

// Reset clears the ledger and zeroes the rollup for every catalog item.
// The catalog itself is untouched.
func (l *Ledger) Reset() {
	l.entries = nil
	l.rollup = domain.DailyRollup{
		TotalRevenue:   0,
		ItemQuantities: make(map[string]int, l.catalog.Len()),
	}
	for _, id := range l.catalog.IDs() {
		l.rollup.ItemQuantities[id] = 0
	}
}

// Restore replaces the ledger content with normalized persisted state.
func (l *Ledger) Restore(entries []domain.Transaction, rollup domain.DailyRollup) {
	l.Reset()
	l.entries = entries
	l.rollup = rollup
}
