package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/riceledger/internal/domain/models"
	"github.com/mamadbah2/riceledger/internal/metrics"
	"github.com/mamadbah2/riceledger/internal/repository/memory"
	"github.com/mamadbah2/riceledger/internal/server/handlers"
	"github.com/mamadbah2/riceledger/internal/server/router"
	"github.com/mamadbah2/riceledger/internal/service/export"
	"github.com/mamadbah2/riceledger/internal/service/records"
	"github.com/mamadbah2/riceledger/internal/service/reporting"
	"github.com/mamadbah2/riceledger/internal/service/sales"
	"github.com/mamadbah2/riceledger/internal/service/stock"
)

const tenant = "T1"

func newEngine(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.New()
	m := metrics.New()
	clock := func() time.Time { return time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC) }

	ledger := stock.NewLedger(store, nil, stock.WithClock(clock), stock.WithMetrics(m))
	processor := sales.NewProcessor(store, ledger, nil, sales.WithClock(clock), sales.WithMetrics(m))
	reports := reporting.NewService(store, nil, reporting.WithClock(clock), reporting.WithMetrics(m))

	engine := router.New(router.Handlers{
		Stock:     handlers.NewStockHandler(ledger, nil),
		Sales:     handlers.NewSalesHandler(processor, time.UTC, nil),
		Records:   handlers.NewRecordsHandler(records.NewService(store, nil), time.UTC, nil),
		Dashboard: handlers.NewDashboardHandler(reports, nil),
	}, m, nil)
	return engine, store
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func huskQuantity(t *testing.T, h http.Handler) float64 {
	t.Helper()
	rec := do(t, h, http.MethodGet, "/api/stock?clientId="+tenant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.StockItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	for _, item := range items {
		if item.ItemType == models.ItemHusk {
			return item.AvailableQuantity
		}
	}
	t.Fatalf("husk not registered")
	return 0
}

func saleBody(qty float64) map[string]any {
	return map[string]any{
		"clientId":    tenant,
		"name":        "Ravi",
		"phoneNumber": "9800000000",
		"address":     "Main road",
		"items": []map[string]any{
			{"itemType": "husk", "quantity": qty, "rate": 2, "amount": 999},
		},
	}
}

func TestSaleLifecycle(t *testing.T) {
	h, _ := newEngine(t)

	rec := do(t, h, http.MethodPost, "/api/stock", map[string]any{"clientId": tenant, "itemType": "husk", "availableQuantity": 100})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/stock", map[string]any{"clientId": tenant, "itemType": "husk"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/sales", saleBody(30))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sale models.Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))
	assert.Equal(t, 60.0, sale.TotalAmount)
	assert.Equal(t, 60.0, sale.Items[0].Amount)
	assert.Equal(t, models.PaymentPending, sale.PaymentStatus)
	assert.Equal(t, models.PaymentCash, sale.PaymentMethod)
	assert.Equal(t, 70.0, huskQuantity(t, h))

	rec = do(t, h, http.MethodPost, "/api/sales", saleBody(80))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 70.0, huskQuantity(t, h))

	rec = do(t, h, http.MethodPut, "/api/sales/"+sale.ID, map[string]any{
		"clientId":      tenant,
		"paymentStatus": "Paid",
		"items":         []map[string]any{{"itemType": "husk", "quantity": 50, "rate": 3}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 150.0, updated.TotalAmount)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, "Ravi", updated.Name)
	assert.Equal(t, 50.0, huskQuantity(t, h))

	rec = do(t, h, http.MethodGet, "/api/sales?clientId="+tenant+"&startDate=2025-03-01&endDate=2025-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = do(t, h, http.MethodDelete, "/api/sales/"+sale.ID+"?clientId="+tenant, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 100.0, huskQuantity(t, h))

	rec = do(t, h, http.MethodGet, "/api/sales/"+sale.ID+"?clientId="+tenant, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStockUpdateOperations(t *testing.T) {
	h, _ := newEngine(t)

	rec := do(t, h, http.MethodPost, "/api/stock", map[string]any{"clientId": tenant, "itemType": "husk", "availableQuantity": 10})
	require.Equal(t, http.StatusCreated, rec.Code)
	var item models.StockItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, models.DefaultStockUnit, item.Unit)

	rec = do(t, h, http.MethodPut, "/api/stock/"+item.ID, map[string]any{"clientId": tenant, "operation": "add", "quantity": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 15.0, huskQuantity(t, h))

	rec = do(t, h, http.MethodPut, "/api/stock/"+item.ID, map[string]any{"clientId": tenant, "operation": "subtract", "quantity": 20})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/stock/"+item.ID, map[string]any{"clientId": tenant, "quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3.0, huskQuantity(t, h))

	rec = do(t, h, http.MethodPut, "/api/stock/"+item.ID, map[string]any{"clientId": tenant, "operation": "add"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/stock/"+item.ID+"?clientId=other", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/stock/"+item.ID+"?clientId="+tenant, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestValidationErrors(t *testing.T) {
	h, _ := newEngine(t)

	body := saleBody(1)
	delete(body, "clientId")
	rec := do(t, h, http.MethodPost, "/api/sales", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/employees?clientId="+tenant+"&active=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"active"`)

	rec = do(t, h, http.MethodGet, "/api/dashboard?clientId="+tenant+"&month=13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/orders?clientId="+tenant+"&startDate=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordsAndDashboard(t *testing.T) {
	h, store := newEngine(t)
	store.AddExpense(models.Expense{ID: "e1", ClientID: tenant, Amount: 500, Date: time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)})
	store.AddEmployee(models.Employee{ID: "emp1", ClientID: tenant, Salary: 2000, IsActive: true})

	rec := do(t, h, http.MethodGet, "/api/expenses?clientId="+tenant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var expenses []models.Expense
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &expenses))
	assert.Len(t, expenses, 1)

	rec = do(t, h, http.MethodGet, "/api/employees?clientId="+tenant+"&active=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/dashboard?clientId="+tenant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report struct {
		Profit json.Number `json:"profit"`
		Yearly struct {
			Months []json.RawMessage `json:"months"`
		} `json:"yearly"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "-2500", report.Profit.String())
	assert.Len(t, report.Yearly.Months, 12)

	rec = do(t, h, http.MethodGet, "/api/dashboard/export?clientId="+tenant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "dashboard-T1-20250315.xlsx")
}

func TestHealthAndMetrics(t *testing.T) {
	h, _ := newEngine(t)

	rec := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "riceledger_http_requests_total")
}
