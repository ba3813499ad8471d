package service

import (
	"context"
	"log"
	"sync"
	"time"

	"billing-counter/billing-svc/internal/domain"
)

// Session is the single live operator session: the in-progress order,
// the ledger, the rollup and the next sequence number, behind one lock.
// The in-memory structures are the source of truth; the store is written
// best-effort after every finalize and reset.
type Session struct {
	mu        sync.Mutex
	agg       *Aggregator
	catalog   *domain.Catalog
	ledger    *Ledger
	order     domain.Order
	store     SessionStore
	publisher TransactionPublisher
}

func NewSession(catalog *domain.Catalog, taxRate float64, store SessionStore, publisher TransactionPublisher) *Session {
	s := &Session{
		agg:       NewAggregator(catalog, taxRate),
		catalog:   catalog,
		ledger:    NewLedger(catalog),
		store:     store,
		publisher: publisher,
	}
	s.order = domain.Order{SequenceNumber: 1, CreatedAt: time.Now()}
	return s
}

// Restore loads persisted state once, at session start. It never fails:
// a storage error or corrupt key degrades to the empty defaults.
func (s *Session) Restore(ctx context.Context) {
	if s.store == nil {
		return
	}

	record, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("Warning: failed to load persisted state, starting empty: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(record.Transactions) > 0 {
		now := time.Now()
		entries := make([]domain.Transaction, 0, len(record.Transactions))
		for _, rec := range record.Transactions {
			entries = append(entries, NormalizeTransaction(rec, s.agg.TaxRate(), now))
		}
		s.ledger.Restore(entries, NormalizeRollup(record.Rollup, s.catalog))
	} else {
		s.ledger.Restore(nil, NormalizeRollup(record.Rollup, s.catalog))
	}

	if record.NextSequence >= 1 {
		s.order.SequenceNumber = record.NextSequence
	}
}

func (s *Session) Menu() []domain.MenuItem {
	return s.catalog.Items()
}

func (s *Session) CurrentOrder() domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOrder(s.order)
}

func (s *Session) AddLine(itemID string, quantity int) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.agg.AddLine(&s.order, itemID, quantity); err != nil {
		return copyOrder(s.order), err
	}
	return copyOrder(s.order), nil
}

func (s *Session) RemoveLine(index int) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.agg.RemoveLine(&s.order, index); err != nil {
		return copyOrder(s.order), err
	}
	return copyOrder(s.order), nil
}

// ClearBill discards the in-progress order. Discarding actual lines is
// destructive and needs the caller's explicit confirmation.
func (s *Session) ClearBill(confirmed bool) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order.Lines) > 0 && !confirmed {
		return copyOrder(s.order), ErrConfirmationRequired
	}
	s.agg.Clear(&s.order, time.Now())
	return copyOrder(s.order), nil
}

// Finalize snapshots the order, appends it to the ledger, folds the
// rollup, advances the sequence number and persists — all under the one
// lock, so revenue is never double- or under-counted.
func (s *Session) Finalize(ctx context.Context, note string) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.agg.Finalize(&s.order, note, time.Now())
	if err != nil {
		return domain.Transaction{}, err
	}

	s.ledger.Append(tx)
	s.order.SequenceNumber++

	s.persist(ctx)

	if s.publisher != nil {
		if err := s.publisher.PublishTransaction(ctx, tx); err != nil {
			log.Printf("Warning: failed to publish transaction %d: %v", tx.SequenceNumber, err)
		}
	}

	return tx, nil
}

// Reset wipes the ledger, rollup and current bill and starts the
// sequence over at 1. A reset with nothing to lose is a no-op.
func (s *Session) Reset(ctx context.Context, confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ledger.Len() == 0 && len(s.order.Lines) == 0 {
		return nil
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	s.ledger.Reset()
	s.order = domain.Order{SequenceNumber: 1, CreatedAt: time.Now()}

	if s.store != nil {
		if err := s.store.Clear(ctx); err != nil {
			log.Printf("Warning: failed to clear persisted state: %v", err)
		}
	}
	s.persist(ctx)
	return nil
}

func (s *Session) Transactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Entries()
}

func (s *Session) Transaction(index int) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Get(index)
}

func (s *Session) Rollup() domain.DailyRollup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Rollup()
}

func (s *Session) BillCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Len()
}

// persist is best effort: a storage failure is logged and the session
// keeps running in memory. Callers hold the lock.
func (s *Session) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	state := domain.SessionState{
		Transactions: s.ledger.Entries(),
		Rollup:       s.ledger.Rollup(),
		NextSequence: s.order.SequenceNumber,
	}
	if err := s.store.Save(ctx, state); err != nil {
		log.Printf("Warning: failed to persist session state: %v", err)
	}
}

func copyOrder(order domain.Order) domain.Order {
	snapshot := order
	snapshot.Lines = make([]domain.LineItem, len(order.Lines))
	copy(snapshot.Lines, order.Lines)
	return snapshot
}
