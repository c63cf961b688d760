// Package memory is an in-process implementation of repository.Store, used
// in development mode and by tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mamadbah2/riceledger/internal/domain/models"
	"github.com/mamadbah2/riceledger/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type stockKey struct {
	clientID string
	itemType models.ItemType
}

// stockEntry guards one stock item with its own lock so adjustments to
// different keys never wait on each other.
type stockEntry struct {
	mu   sync.Mutex
	item models.StockItem
}

// Store keeps every collection in maps guarded by a read/write lock. The
// structure lock is only held exclusively to add or remove entries.
type Store struct {
	mu        sync.RWMutex
	stock     map[stockKey]*stockEntry
	stockByID map[string]stockKey
	sales     map[string]models.Sale
	orders    []models.Order
	wages     []models.Wage
	expenses  []models.Expense
	employees []models.Employee
	snapshots []models.DashboardSnapshot
}

// New returns an empty store.
func New() *Store {
	return &Store{
		stock:     make(map[stockKey]*stockEntry),
		stockByID: make(map[string]stockKey),
		sales:     make(map[string]models.Sale),
	}
}

// Close is a no-op.
func (s *Store) Close(context.Context) error {
	return nil
}

// AddOrder seeds an order record.
func (s *Store) AddOrder(order models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, order)
}

// AddWage seeds a wage record.
func (s *Store) AddWage(wage models.Wage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wages = append(s.wages, wage)
}

// AddExpense seeds an expense record.
func (s *Store) AddExpense(expense models.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, expense)
}

// AddEmployee seeds an employee record.
func (s *Store) AddEmployee(employee models.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = append(s.employees, employee)
}

// SaveDashboardSnapshot appends a snapshot.
func (s *Store) SaveDashboardSnapshot(_ context.Context, snapshot models.DashboardSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

// Snapshots returns the stored snapshots in insertion order.
func (s *Store) Snapshots() []models.DashboardSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.DashboardSnapshot(nil), s.snapshots...)
}

// ListOrders returns the tenant's orders created inside window, newest first.
func (s *Store) ListOrders(_ context.Context, clientID string, window models.Window) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Order
	for _, o := range s.orders {
		if o.ClientID == clientID && window.Contains(o.CreatedAt) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ListWages returns the tenant's wages dated inside window, newest first.
func (s *Store) ListWages(_ context.Context, clientID string, window models.Window) ([]models.Wage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Wage
	for _, w := range s.wages {
		if w.ClientID == clientID && window.Contains(w.Date) {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// ListExpenses returns the tenant's expenses dated inside window, newest first.
func (s *Store) ListExpenses(_ context.Context, clientID string, window models.Window) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Expense
	for _, e := range s.expenses {
		if e.ClientID == clientID && window.Contains(e.Date) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// ListEmployees returns the tenant's employees in insertion order.
func (s *Store) ListEmployees(_ context.Context, clientID string, activeOnly bool) ([]models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Employee
	for _, e := range s.employees {
		if e.ClientID != clientID || (activeOnly && !e.IsActive) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func byNewest(sales []models.Sale) {
	sort.Slice(sales, func(i, j int) bool {
		if sales[i].CreatedAt.Equal(sales[j].CreatedAt) {
			return sales[i].ID < sales[j].ID
		}
		return sales[i].CreatedAt.After(sales[j].CreatedAt)
	})
}

func cloneSale(sale models.Sale) models.Sale {
	sale.Items = append([]models.SaleLineItem(nil), sale.Items...)
	return sale
}
