package service

import (
	"context"

	"billing-counter/billing-svc/internal/domain"
)

// SessionStore is the persistence adapter: a key-value store for the
// ledger, rollup and next sequence number. Loads hand back raw records
// (never trusted; routed through the normalizer); saves take canonical
// state. A missing or corrupt key is absent, not an error.
type SessionStore interface {
	Load(ctx context.Context) (domain.SessionRecord, error)
	Save(ctx context.Context, state domain.SessionState) error
	Clear(ctx context.Context) error
}

// TransactionPublisher emits finalized transactions to an event feed.
// Best effort; a nil publisher disables it.
type TransactionPublisher interface {
	PublishTransaction(ctx context.Context, tx domain.Transaction) error
}

type SessionInterface interface {
	Restore(ctx context.Context)
	Menu() []domain.MenuItem
	CurrentOrder() domain.Order
	AddLine(itemID string, quantity int) (domain.Order, error)
	RemoveLine(index int) (domain.Order, error)
	ClearBill(confirmed bool) (domain.Order, error)
	Finalize(ctx context.Context, note string) (domain.Transaction, error)
	Reset(ctx context.Context, confirmed bool) error
	Transactions() []domain.Transaction
	Transaction(index int) (domain.Transaction, error)
	Rollup() domain.DailyRollup
	BillCount() int
}

var _ SessionInterface = (*Session)(nil)
