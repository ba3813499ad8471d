package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"billing-counter/billing-svc/internal/domain"
	"billing-counter/billing-svc/internal/service"
)

type Handler struct {
	Session        service.SessionInterface
	Catalog        *domain.Catalog
	QR             service.QRGenerator
	CurrencySymbol string
}

func NewHandler(session service.SessionInterface, catalog *domain.Catalog, qr service.QRGenerator, currencySymbol string) *Handler {
	return &Handler{Session: session, Catalog: catalog, QR: qr, CurrencySymbol: currencySymbol}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/api/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/bill", h.getBill).Methods("GET")
	r.HandleFunc("/api/bill/items", h.addLine).Methods("POST")
	r.HandleFunc("/api/bill/items/{index}", h.removeLine).Methods("DELETE")
	r.HandleFunc("/api/bill/clear", h.clearBill).Methods("POST")
	r.HandleFunc("/api/bill/finalize", h.finalizeBill).Methods("POST")
	r.HandleFunc("/api/transactions", h.getTransactions).Methods("GET")
	r.HandleFunc("/api/transactions/{index}", h.getTransaction).Methods("GET")
	r.HandleFunc("/api/transactions/{index}/receipt", h.getReceipt).Methods("GET")
	r.HandleFunc("/api/transactions/{index}/qrcode", h.getTransactionQRCode).Methods("GET")
	r.HandleFunc("/api/sales", h.getSales).Methods("GET")
	r.HandleFunc("/api/sales/report", h.getSalesReport).Methods("GET")
	r.HandleFunc("/api/reset", h.resetAll).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "billing-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Session.Menu())
}

func (h *Handler) getBill(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Session.CurrentOrder())
}

func (h *Handler) addLine(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ItemID   string `json:"item_id"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Session.AddLine(payload.ItemID, payload.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}

	order, err := h.Session.RemoveLine(index)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) clearBill(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Confirm bool `json:"confirm"`
	}
	// Empty body means an unconfirmed clear.
	_ = json.NewDecoder(r.Body).Decode(&payload)

	order, err := h.Session.ClearBill(payload.Confirm)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) finalizeBill(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Note string `json:"note"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	tx, err := h.Session.Finalize(r.Context(), payload.Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *Handler) getTransactions(w http.ResponseWriter, r *http.Request) {
	transactions := h.Session.Transactions()

	type summary struct {
		Index      int     `json:"index"`
		BillNumber int64   `json:"bill_number"`
		Date       string  `json:"date"`
		Total      float64 `json:"total"`
		Tax        float64 `json:"tax"`
		ItemCount  int     `json:"item_count"`
	}

	summaries := make([]summary, 0, len(transactions))
	for i, tx := range transactions {
		summaries = append(summaries, summary{
			Index:      i,
			BillNumber: tx.SequenceNumber,
			Date:       tx.FinalizedAt.Format(time.RFC3339),
			Total:      tx.GrandTotal,
			Tax:        tx.Tax,
			ItemCount:  tx.ItemCount,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.lookupTransaction(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *Handler) getReceipt(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.lookupTransaction(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bill_number": tx.SequenceNumber,
		"date":        tx.FinalizedAt.Format(time.RFC3339),
		"rows":        service.TransactionRows(tx),
		"item_count":  tx.ItemCount,
		"subtotal":    service.FormatCurrency(h.CurrencySymbol, tx.Subtotal),
		"tax":         service.FormatCurrency(h.CurrencySymbol, tx.Tax),
		"grand_total": service.FormatCurrency(h.CurrencySymbol, tx.GrandTotal),
		"note":        tx.Note,
	})
}

func (h *Handler) getTransactionQRCode(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.lookupTransaction(w, r)
	if !ok {
		return
	}

	png, err := h.QR.Generate(tx)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) getSales(w http.ResponseWriter, r *http.Request) {
	rollup := h.Session.Rollup()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_revenue":   rollup.TotalRevenue,
		"item_quantities": rollup.ItemQuantities,
		"total_bills":     h.Session.BillCount(),
	})
}

func (h *Handler) getSalesReport(w http.ResponseWriter, r *http.Request) {
	rollup := h.Session.Rollup()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":          time.Now().Format("2006-01-02"),
		"total_revenue": service.FormatCurrency(h.CurrencySymbol, rollup.TotalRevenue),
		"total_bills":   h.Session.BillCount(),
		"rows":          service.RollupRows(rollup, h.Catalog),
	})
}

func (h *Handler) resetAll(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Confirm bool `json:"confirm"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	if err := h.Session.Reset(r.Context(), payload.Confirm); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) lookupTransaction(w http.ResponseWriter, r *http.Request) (tx domain.Transaction, ok bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return tx, false
	}
	tx, err = h.Session.Transaction(index)
	if err != nil {
		writeServiceError(w, err)
		return tx, false
	}
	return tx, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrUnknownItem),
		errors.Is(err, service.ErrEmptyOrder):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrIndexOutOfRange):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrConfirmationRequired):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
