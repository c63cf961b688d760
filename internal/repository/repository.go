// Package repository declares the persistence operations the services rely on.
// Every method takes the client id as a required argument; implementations
// must never issue a query that is not scoped to it.
package repository

import (
	"context"
	"time"

	"github.com/mamadbah2/riceledger/internal/domain/models"
)

// StockStore persists stock items.
type StockStore interface {
	// InsertStockItem fails with models.ErrConflict when the (client, item type) pair exists.
	InsertStockItem(ctx context.Context, item models.StockItem) error
	FindStockItem(ctx context.Context, clientID string, itemType models.ItemType) (models.StockItem, error)
	FindStockItemByID(ctx context.Context, clientID, id string) (models.StockItem, error)
	ListStockItems(ctx context.Context, clientID string) ([]models.StockItem, error)

	// AdjustStockQuantity adds delta to the available quantity as one atomic
	// conditional update. It fails with *models.InsufficientStockError when
	// the result would be negative and with models.ErrNotFound when the pair
	// was never registered.
	AdjustStockQuantity(ctx context.Context, clientID string, itemType models.ItemType, delta float64, at time.Time) (models.StockItem, error)

	SetStockQuantity(ctx context.Context, clientID, id string, quantity float64, at time.Time) (models.StockItem, error)
	DeleteStockItem(ctx context.Context, clientID, id string) error
}

// SaleStore persists sales together with their line items.
type SaleStore interface {
	InsertSale(ctx context.Context, sale models.Sale) error
	FindSale(ctx context.Context, clientID, id string) (models.Sale, error)
	// ReplaceSale overwrites the sale only while its stored updatedAt still
	// equals loadedAt; a sale changed in between fails with models.ErrConflict.
	ReplaceSale(ctx context.Context, sale models.Sale, loadedAt time.Time) error
	// DeleteSale removes the sale and returns it as stored, in one step, so
	// only one caller can ever claim a given sale.
	DeleteSale(ctx context.Context, clientID, id string) (models.Sale, error)
	// ListSales returns the sales created inside window, newest first.
	ListSales(ctx context.Context, clientID string, window models.Window) ([]models.Sale, error)
}

// RecordStore reads the plain ledger records maintained elsewhere.
type RecordStore interface {
	ListOrders(ctx context.Context, clientID string, window models.Window) ([]models.Order, error)
	ListWages(ctx context.Context, clientID string, window models.Window) ([]models.Wage, error)
	ListExpenses(ctx context.Context, clientID string, window models.Window) ([]models.Expense, error)
	ListEmployees(ctx context.Context, clientID string, activeOnly bool) ([]models.Employee, error)
}

// ReportStore runs the read-only aggregations behind the dashboard. Absent
// data yields zero totals, never an error.
type ReportStore interface {
	OrderTotals(ctx context.Context, clientID string, window models.Window) (models.OrderTotals, error)
	PaidSaleTotals(ctx context.Context, clientID string, window models.Window) (models.SaleTotals, error)
	WageTotal(ctx context.Context, clientID string, window models.Window) (float64, error)
	ExpenseTotal(ctx context.Context, clientID string, window models.Window) (float64, error)
	ActiveSalaryTotal(ctx context.Context, clientID string) (float64, error)
	StockLevels(ctx context.Context, clientID string) ([]models.StockLevel, error)
}

// SnapshotStore keeps the summaries produced by the monthly report job.
type SnapshotStore interface {
	SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
}

// Store is everything a storage backend provides.
type Store interface {
	StockStore
	SaleStore
	RecordStore
	ReportStore
	SnapshotStore
	Close(ctx context.Context) error
}
