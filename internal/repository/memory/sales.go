package memory

import (
	"context"
	"time"

	"github.com/mamadbah2/riceledger/internal/domain/models"
)

// InsertSale stores a new sale.
func (s *Store) InsertSale(_ context.Context, sale models.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sales[sale.ID]; exists {
		return &models.ConflictError{Kind: "sale", Key: sale.ID}
	}
	s.sales[sale.ID] = cloneSale(sale)
	return nil
}

// FindSale returns the tenant's sale with id.
func (s *Store) FindSale(_ context.Context, clientID, id string) (models.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sale, ok := s.sales[id]
	if !ok || sale.ClientID != clientID {
		return models.Sale{}, &models.NotFoundError{Kind: "sale", ID: id}
	}
	return cloneSale(sale), nil
}

// ReplaceSale overwrites an existing sale of the same tenant while its
// updatedAt still equals loadedAt.
func (s *Store) ReplaceSale(_ context.Context, sale models.Sale, loadedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.sales[sale.ID]
	if !ok || existing.ClientID != sale.ClientID {
		return &models.NotFoundError{Kind: "sale", ID: sale.ID}
	}
	if !existing.UpdatedAt.Equal(loadedAt) {
		return &models.ConflictError{Kind: "sale", Key: sale.ID}
	}
	s.sales[sale.ID] = cloneSale(sale)
	return nil
}

// DeleteSale removes the tenant's sale with id and returns it.
func (s *Store) DeleteSale(_ context.Context, clientID, id string) (models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.sales[id]
	if !ok || sale.ClientID != clientID {
		return models.Sale{}, &models.NotFoundError{Kind: "sale", ID: id}
	}
	delete(s.sales, id)
	return sale, nil
}

// ListSales returns the tenant's sales created inside window, newest first.
func (s *Store) ListSales(_ context.Context, clientID string, window models.Window) ([]models.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Sale
	for _, sale := range s.sales {
		if sale.ClientID == clientID && window.Contains(sale.CreatedAt) {
			out = append(out, cloneSale(sale))
		}
	}
	byNewest(out)
	return out, nil
}
