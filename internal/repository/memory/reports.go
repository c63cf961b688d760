package memory

import (
	"context"
	"sort"

	"github.com/mamadbah2/riceledger/internal/domain/models"
)

// OrderTotals sums the tenant's orders created inside window.
func (s *Store) OrderTotals(_ context.Context, clientID string, window models.Window) (models.OrderTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var totals models.OrderTotals
	for _, o := range s.orders {
		if o.ClientID != clientID || !window.Contains(o.CreatedAt) {
			continue
		}
		totals.TotalBags += o.NumberOfBags
		totals.TotalCount++
		if o.Status == models.OrderPaidClosed {
			totals.PaidAmount += o.TotalAmount
			totals.PaidBags += o.NumberOfBags
			totals.PaidCount++
		}
	}
	return totals, nil
}

// PaidSaleTotals sums the tenant's paid sales created inside window and
// groups their lines by stored item label.
func (s *Store) PaidSaleTotals(_ context.Context, clientID string, window models.Window) (models.SaleTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var totals models.SaleTotals
	byLabel := make(map[string]*models.ItemTotals)
	for _, sale := range s.sales {
		if sale.ClientID != clientID || sale.PaymentStatus != models.PaymentPaid || !window.Contains(sale.CreatedAt) {
			continue
		}
		totals.PaidAmount += sale.TotalAmount
		totals.PaidCount++

		for _, line := range sale.Items {
			label := string(line.ItemType)
			agg, ok := byLabel[label]
			if !ok {
				agg = &models.ItemTotals{ItemType: label}
				byLabel[label] = agg
			}
			agg.Quantity += line.Quantity
			agg.Amount += line.Amount
		}
	}

	for _, agg := range byLabel {
		totals.Items = append(totals.Items, *agg)
	}
	sort.Slice(totals.Items, func(i, j int) bool { return totals.Items[i].ItemType < totals.Items[j].ItemType })
	return totals, nil
}

// WageTotal sums totalWage of wages dated inside window.
func (s *Store) WageTotal(_ context.Context, clientID string, window models.Window) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, w := range s.wages {
		if w.ClientID == clientID && window.Contains(w.Date) {
			total += w.TotalWage
		}
	}
	return total, nil
}

// ExpenseTotal sums amount of expenses dated inside window.
func (s *Store) ExpenseTotal(_ context.Context, clientID string, window models.Window) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, e := range s.expenses {
		if e.ClientID == clientID && window.Contains(e.Date) {
			total += e.Amount
		}
	}
	return total, nil
}

// ActiveSalaryTotal sums the salaries of active employees.
func (s *Store) ActiveSalaryTotal(_ context.Context, clientID string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, e := range s.employees {
		if e.ClientID == clientID && e.IsActive {
			total += e.Salary
		}
	}
	return total, nil
}

// StockLevels returns the tenant's current quantities.
func (s *Store) StockLevels(ctx context.Context, clientID string) ([]models.StockLevel, error) {
	items, err := s.ListStockItems(ctx, clientID)
	if err != nil {
		return nil, err
	}

	levels := make([]models.StockLevel, 0, len(items))
	for _, item := range items {
		levels = append(levels, models.StockLevel{
			ItemType:          string(item.ItemType),
			AvailableQuantity: item.AvailableQuantity,
		})
	}
	return levels, nil
}
