package service

import (
	"fmt"

	"billing-counter/billing-svc/internal/domain"
)

// ExportRow is one line of a printable summary. Document layout lives
// outside the core; this is the tabular content only.
type ExportRow struct {
	Item      string  `json:"item"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// TransactionRows renders a finalized bill as receipt rows.
func TransactionRows(tx domain.Transaction) []ExportRow {
	rows := make([]ExportRow, 0, len(tx.Lines))
	for _, line := range tx.Lines {
		rows = append(rows, ExportRow{
			Item:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.Price,
			LineTotal: domain.Round2(line.Price * float64(line.Quantity)),
		})
	}
	return rows
}

// RollupRows renders item-wise sales in catalog order, skipping items
// that sold nothing.
func RollupRows(rollup domain.DailyRollup, catalog *domain.Catalog) []ExportRow {
	var rows []ExportRow
	for _, item := range catalog.Items() {
		qty := rollup.ItemQuantities[item.ID]
		if qty == 0 {
			continue
		}
		rows = append(rows, ExportRow{
			Item:      item.Name,
			Quantity:  qty,
			UnitPrice: item.Price,
			LineTotal: domain.Round2(item.Price * float64(qty)),
		})
	}
	return rows
}

// FormatCurrency renders an amount for a textual boundary: fixed symbol
// prefix, fixed 2 decimal places.
func FormatCurrency(symbol string, amount float64) string {
	return fmt.Sprintf("%s%.2f", symbol, amount)
}
