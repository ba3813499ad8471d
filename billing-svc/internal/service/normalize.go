package service

import (
	"encoding/json"
	"strconv"
	"time"

	"billing-counter/billing-svc/internal/domain"
)

// NormalizeTransaction reconciles a persisted record of any vintage into
// the canonical shape. Explicit stored values win over recomputation;
// recomputation is a last resort only, so that rounding differences
// between schema versions never rewrite old totals. It never fails:
// every malformed field has a defined fallback.
func NormalizeTransaction(rec domain.TransactionRecord, taxRate float64, now time.Time) domain.Transaction {
	lines := normalizeLines(rec.Items)

	var computed float64
	var quantitySum int
	for _, line := range lines {
		computed += line.Price * float64(line.Quantity)
		quantitySum += line.Quantity
	}
	computedSubtotal := domain.Round2(computed)

	subtotal := computedSubtotal
	if v, ok := numField(rec.Subtotal); ok {
		subtotal = v
	}

	storedTotal, hasTotal := numField(rec.Total)

	tax, hasTax := numField(rec.Tax)
	if !hasTax {
		if hasTotal {
			tax = domain.Round2(storedTotal - subtotal)
		} else {
			tax = domain.Round2(subtotal * taxRate)
		}
	}

	grandTotal := domain.Round2(subtotal + tax)
	if hasTotal {
		grandTotal = storedTotal
	}

	itemCount := quantitySum
	if v, ok := numField(rec.ItemCount); ok {
		itemCount = int(v)
	}

	var sequence int64
	if v, ok := numField(rec.BillNumber); ok {
		sequence = int64(v)
	}

	note, _ := strField(rec.Note)

	finalizedAt := now
	if s, ok := strField(rec.Date); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			finalizedAt = t
		}
	}

	return domain.Transaction{
		SequenceNumber: sequence,
		Lines:          lines,
		Subtotal:       subtotal,
		Tax:            tax,
		GrandTotal:     grandTotal,
		ItemCount:      itemCount,
		Note:           note,
		FinalizedAt:    finalizedAt,
	}
}

// NormalizeRollup coerces a persisted daily-sales record, zero-filling a
// counter for every current catalog item.
func NormalizeRollup(rec domain.RollupRecord, catalog *domain.Catalog) domain.DailyRollup {
	rollup := domain.DailyRollup{
		TotalRevenue:   coerceNumber(rec.TotalRevenue),
		ItemQuantities: make(map[string]int),
	}
	for id, raw := range rec.ItemQuantities {
		if v, ok := numField(raw); ok {
			rollup.ItemQuantities[id] = int(v)
		}
	}
	for _, id := range catalog.IDs() {
		if _, ok := rollup.ItemQuantities[id]; !ok {
			rollup.ItemQuantities[id] = 0
		}
	}
	return rollup
}

func normalizeLines(raw json.RawMessage) []domain.LineItem {
	var elements []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &elements) != nil {
		return []domain.LineItem{}
	}

	lines := make([]domain.LineItem, 0, len(elements))
	for _, element := range elements {
		var rec domain.LineItemRecord
		if err := json.Unmarshal(element, &rec); err != nil {
			continue
		}
		var line domain.LineItem
		line.ID, _ = strField(rec.ID)
		line.Name, _ = strField(rec.Name)
		if v, ok := numField(rec.Price); ok {
			line.Price = v
		}
		if v, ok := numField(rec.Quantity); ok {
			line.Quantity = int(v)
		}
		lines = append(lines, line)
	}
	return lines
}

// numField accepts only a stored JSON number, matching the original
// schema's strict "is numeric" checks.
func numField(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

func strField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// coerceNumber is looser than numField: revenue survived being stored as
// a numeric string in old data, so strings that parse are accepted.
func coerceNumber(raw json.RawMessage) float64 {
	if v, ok := numField(raw); ok {
		return v
	}
	if s, ok := strField(raw); ok {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return 0
}
