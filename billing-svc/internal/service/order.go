package service

import (
	"errors"
	"time"

	"billing-counter/billing-svc/internal/domain"
)

var (
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrUnknownItem          = errors.New("item is not on the menu")
	ErrIndexOutOfRange      = errors.New("index is out of range")
	ErrEmptyOrder           = errors.New("order has no items")
	ErrConfirmationRequired = errors.New("operation discards data and was not confirmed")
)

// Aggregator builds the in-progress order against a fixed catalog.
// All totals are derived by Recompute after every mutation.
type Aggregator struct {
	catalog *domain.Catalog
	taxRate float64
}

func NewAggregator(catalog *domain.Catalog, taxRate float64) *Aggregator {
	return &Aggregator{catalog: catalog, taxRate: taxRate}
}

func (a *Aggregator) TaxRate() float64 { return a.taxRate }

// AddLine merges quantity into an existing line for the item, or appends
// a new line at the end. Insertion order is display order only.
func (a *Aggregator) AddLine(order *domain.Order, itemID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	item, ok := a.catalog.Get(itemID)
	if !ok {
		return ErrUnknownItem
	}

	merged := false
	for i := range order.Lines {
		if order.Lines[i].ID == itemID {
			order.Lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		order.Lines = append(order.Lines, domain.LineItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: quantity,
		})
	}

	a.Recompute(order)
	return nil
}

// RemoveLine drops the line at index; remaining lines keep their order.
func (a *Aggregator) RemoveLine(order *domain.Order, index int) error {
	if index < 0 || index >= len(order.Lines) {
		return ErrIndexOutOfRange
	}
	order.Lines = append(order.Lines[:index], order.Lines[index+1:]...)
	a.Recompute(order)
	return nil
}

// Totals is the pure totals computation over a set of lines.
func (a *Aggregator) Totals(lines []domain.LineItem) domain.Totals {
	var raw float64
	var count int
	for _, line := range lines {
		raw += line.Price * float64(line.Quantity)
		count += line.Quantity
	}
	subtotal := domain.Round2(raw)
	tax := domain.Round2(subtotal * a.taxRate)
	return domain.Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: domain.Round2(subtotal + tax),
		ItemCount:  count,
	}
}

func (a *Aggregator) Recompute(order *domain.Order) {
	totals := a.Totals(order.Lines)
	order.Subtotal = totals.Subtotal
	order.Tax = totals.Tax
	order.GrandTotal = totals.GrandTotal
	order.ItemCount = totals.ItemCount
}

// Clear empties the order; the sequence number is advanced only on
// finalize and stays as it is.
func (a *Aggregator) Clear(order *domain.Order, now time.Time) {
	order.Lines = nil
	order.Subtotal = 0
	order.Tax = 0
	order.GrandTotal = 0
	order.ItemCount = 0
	order.CreatedAt = now
}

// Finalize snapshots the order into an immutable transaction and clears
// the order for the next bill. Appending to the ledger is the caller's
// job.
func (a *Aggregator) Finalize(order *domain.Order, note string, now time.Time) (domain.Transaction, error) {
	if len(order.Lines) == 0 {
		return domain.Transaction{}, ErrEmptyOrder
	}

	a.Recompute(order)

	lines := make([]domain.LineItem, len(order.Lines))
	copy(lines, order.Lines)

	tx := domain.Transaction{
		SequenceNumber: order.SequenceNumber,
		Lines:          lines,
		Subtotal:       order.Subtotal,
		Tax:            order.Tax,
		GrandTotal:     order.GrandTotal,
		ItemCount:      order.ItemCount,
		Note:           note,
		FinalizedAt:    now,
	}

	a.Clear(order, now)
	return tx, nil
}
