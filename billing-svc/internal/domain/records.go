package domain

import "encoding/json"

// TransactionRecord is a persisted transaction of unknown vintage. Fields
// are kept raw so that a single malformed field never sinks the record;
// the normalizer decides what each one means.
type TransactionRecord struct {
	BillNumber json.RawMessage `json:"bill_number"`
	Items      json.RawMessage `json:"items"`
	Subtotal   json.RawMessage `json:"subtotal"`
	Tax        json.RawMessage `json:"tax"`
	Total      json.RawMessage `json:"total"`
	ItemCount  json.RawMessage `json:"item_count"`
	Note       json.RawMessage `json:"note"`
	Date       json.RawMessage `json:"date"`
}

// LineItemRecord is one element of a persisted items array.
type LineItemRecord struct {
	ID       json.RawMessage `json:"id"`
	Name     json.RawMessage `json:"name"`
	Price    json.RawMessage `json:"price"`
	Quantity json.RawMessage `json:"quantity"`
}

// RollupRecord is the persisted daily-sales shape before normalization.
type RollupRecord struct {
	TotalRevenue   json.RawMessage            `json:"total_revenue"`
	ItemQuantities map[string]json.RawMessage `json:"item_quantities"`
}

// SessionRecord is what the persistence adapter hands back on load:
// the three stored keys, each possibly absent.
type SessionRecord struct {
	Transactions []TransactionRecord
	Rollup       RollupRecord
	NextSequence int64
}
