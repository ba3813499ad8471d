package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "billing-counter/billing-svc/internal/api/http"
	"billing-counter/billing-svc/internal/domain"
	"billing-counter/billing-svc/internal/service"
)

func newTestServer(t *testing.T) (*httptest.Server, *service.Session) {
	t.Helper()
	catalog := domain.DefaultCatalog()
	session := service.NewSession(catalog, 0.05, nil, nil)
	qr := &service.DefaultQRGenerator{CounterName: "Test Counter"}
	handler := httpapi.NewHandler(session, catalog, qr, "₹")

	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, session
}

func doJSON(t *testing.T, method, url string, body string) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "billing-svc", body["service"])
}

func TestGetMenu(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/menu")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var menu []domain.MenuItem
	decodeBody(t, resp, &menu)
	require.Len(t, menu, 7)
	assert.Equal(t, "idli", menu[0].ID)
	assert.Equal(t, 6.0, menu[0].Price)
}

func TestAddLine(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid item", `{"item_id":"dosa","quantity":2}`, http.StatusOK},
		{"unknown item", `{"item_id":"biriyani","quantity":1}`, http.StatusBadRequest},
		{"zero quantity", `{"item_id":"dosa","quantity":0}`, http.StatusBadRequest},
		{"negative quantity", `{"item_id":"dosa","quantity":-3}`, http.StatusBadRequest},
		{"malformed body", `{"item_id":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t)
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/bill/items", tt.body)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestBillLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/bill/items", `{"item_id":"dosa","quantity":2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/bill/items", `{"item_id":"tea","quantity":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var order domain.Order
	decodeBody(t, resp, &order)
	assert.Equal(t, int64(1), order.SequenceNumber)
	assert.Equal(t, 70.0, order.Subtotal)
	assert.Equal(t, 3.5, order.Tax)
	assert.Equal(t, 73.5, order.GrandTotal)
	assert.Equal(t, 3, order.ItemCount)

	// Remove the tea line, leaving only the dosas.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/bill/items/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &order)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, 52.5, order.GrandTotal)

	// Finalize and expect a numbered transaction back.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/bill/finalize", `{"note":"takeaway"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var tx domain.Transaction
	decodeBody(t, resp, &tx)
	assert.Equal(t, int64(1), tx.SequenceNumber)
	assert.Equal(t, 52.5, tx.GrandTotal)
	assert.Equal(t, "takeaway", tx.Note)

	// The live bill is empty again with the next number.
	resp, err := http.Get(srv.URL + "/api/bill")
	require.NoError(t, err)
	decodeBody(t, resp, &order)
	assert.Empty(t, order.Lines)
	assert.Equal(t, int64(2), order.SequenceNumber)
}

func TestRemoveLineOutOfRange(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/bill/items/5", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/bill/items/abc", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestClearBillRequiresConfirmation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/bill/items", `{"item_id":"idli","quantity":4}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/bill/clear", `{}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/bill/clear", `{"confirm":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var order domain.Order
	decodeBody(t, resp, &order)
	assert.Empty(t, order.Lines)
	assert.Equal(t, int64(1), order.SequenceNumber)
}

func TestFinalizeEmptyBill(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/bill/finalize", `{}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransactionsAndReceipt(t *testing.T) {
	srv, session := newTestServer(t)

	_, err := session.AddLine("poori", 1)
	require.NoError(t, err)
	_, err = session.Finalize(context.Background(), "")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/api/transactions")
	require.NoError(t, err)
	var summaries []map[string]interface{}
	decodeBody(t, resp, &summaries)
	require.Len(t, summaries, 1)
	assert.Equal(t, 63.0, summaries[0]["total"])

	resp, err = http.Get(srv.URL + "/api/transactions/0")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var tx domain.Transaction
	decodeBody(t, resp, &tx)
	assert.Equal(t, int64(1), tx.SequenceNumber)

	resp, err = http.Get(srv.URL + "/api/transactions/0/receipt")
	require.NoError(t, err)
	var receipt map[string]interface{}
	decodeBody(t, resp, &receipt)
	assert.Equal(t, "₹63.00", receipt["grand_total"])
	assert.Equal(t, "₹3.00", receipt["tax"])

	resp, err = http.Get(srv.URL + "/api/transactions/3")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTransactionQRCode(t *testing.T) {
	srv, session := newTestServer(t)

	_, err := session.AddLine("coffee", 2)
	require.NoError(t, err)
	_, err = session.Finalize(context.Background(), "")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/api/transactions/0/qrcode")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestSalesEndpoints(t *testing.T) {
	srv, session := newTestServer(t)

	_, err := session.AddLine("dosa", 2)
	require.NoError(t, err)
	_, err = session.Finalize(context.Background(), "")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/api/sales")
	require.NoError(t, err)
	var sales map[string]interface{}
	decodeBody(t, resp, &sales)
	assert.Equal(t, 52.5, sales["total_revenue"])
	assert.Equal(t, 1.0, sales["total_bills"])

	resp, err = http.Get(srv.URL + "/api/sales/report")
	require.NoError(t, err)
	var report map[string]interface{}
	decodeBody(t, resp, &report)
	assert.Equal(t, "₹52.50", report["total_revenue"])
	rows, ok := report["rows"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1, "report lists only items that actually sold")
}

func TestResetEndpoint(t *testing.T) {
	srv, session := newTestServer(t)

	// An empty session resets without a confirmation.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/reset", `{}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err := session.AddLine("tea", 1)
	require.NoError(t, err)
	_, err = session.Finalize(context.Background(), "")
	require.NoError(t, err)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/reset", `{}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/reset", `{"confirm":true}`)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, session.BillCount())
}
