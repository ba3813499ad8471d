package domain

import "time"

type MenuItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Totals is the derived part of a bill; it is recomputed after every
// mutation and never set by hand.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	GrandTotal float64 `json:"total"`
	ItemCount  int     `json:"item_count"`
}

// Order is the in-progress bill for the current customer.
type Order struct {
	SequenceNumber int64      `json:"bill_number"`
	Lines          []LineItem `json:"items"`
	Subtotal       float64    `json:"subtotal"`
	Tax            float64    `json:"tax"`
	GrandTotal     float64    `json:"total"`
	ItemCount      int        `json:"item_count"`
	CreatedAt      time.Time  `json:"date"`
}

// Transaction is an immutable snapshot of a finalized order.
type Transaction struct {
	SequenceNumber int64      `json:"bill_number"`
	Lines          []LineItem `json:"items"`
	Subtotal       float64    `json:"subtotal"`
	Tax            float64    `json:"tax"`
	GrandTotal     float64    `json:"total"`
	ItemCount      int        `json:"item_count"`
	Note           string     `json:"note"`
	FinalizedAt    time.Time  `json:"date"`
}

type DailyRollup struct {
	TotalRevenue   float64        `json:"total_revenue"`
	ItemQuantities map[string]int `json:"item_quantities"`
}

// SessionState is the durable shape of a session: everything the
// persistence adapter writes after a finalize or reset.
type SessionState struct {
	Transactions []Transaction `json:"transactions"`
	Rollup       DailyRollup   `json:"daily_sales"`
	NextSequence int64         `json:"bill_number"`
}
