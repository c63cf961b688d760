package memory

import (
	"context"
	"sort"
	"time"

	"github.com/mamadbah2/riceledger/internal/domain/models"
)

// InsertStockItem registers a new (client, item type) pair.
func (s *Store) InsertStockItem(_ context.Context, item models.StockItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := stockKey{clientID: item.ClientID, itemType: item.ItemType}
	if _, exists := s.stock[key]; exists {
		return &models.ConflictError{Kind: "stock item", Key: string(item.ItemType)}
	}
	if _, exists := s.stockByID[item.ID]; exists {
		return &models.ConflictError{Kind: "stock item", Key: item.ID}
	}

	s.stock[key] = &stockEntry{item: item}
	s.stockByID[item.ID] = key
	return nil
}

// FindStockItem looks an item up by its natural key.
func (s *Store) FindStockItem(_ context.Context, clientID string, itemType models.ItemType) (models.StockItem, error) {
	entry := s.entry(stockKey{clientID: clientID, itemType: itemType})
	if entry == nil {
		return models.StockItem{}, &models.NotFoundError{Kind: "stock item", ID: string(itemType)}
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.item, nil
}

// FindStockItemByID looks an item up by id within the tenant.
func (s *Store) FindStockItemByID(_ context.Context, clientID, id string) (models.StockItem, error) {
	entry := s.entryByID(clientID, id)
	if entry == nil {
		return models.StockItem{}, &models.NotFoundError{Kind: "stock item", ID: id}
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.item, nil
}

// ListStockItems returns the tenant's items ordered by item type.
func (s *Store) ListStockItems(_ context.Context, clientID string) ([]models.StockItem, error) {
	s.mu.RLock()
	entries := make([]*stockEntry, 0, len(s.stock))
	for key, entry := range s.stock {
		if key.clientID == clientID {
			entries = append(entries, entry)
		}
	}
	s.mu.RUnlock()

	items := make([]models.StockItem, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		items = append(items, entry.item)
		entry.mu.Unlock()
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemType < items[j].ItemType })
	return items, nil
}

// AdjustStockQuantity applies delta under the item's own lock.
func (s *Store) AdjustStockQuantity(_ context.Context, clientID string, itemType models.ItemType, delta float64, at time.Time) (models.StockItem, error) {
	entry := s.entry(stockKey{clientID: clientID, itemType: itemType})
	if entry == nil {
		return models.StockItem{}, &models.NotFoundError{Kind: "stock item", ID: string(itemType)}
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// The entry may have been deleted between the lookup and the lock.
	if s.entry(stockKey{clientID: clientID, itemType: itemType}) != entry {
		return models.StockItem{}, &models.NotFoundError{Kind: "stock item", ID: string(itemType)}
	}

	next := entry.item.AvailableQuantity + delta
	if next < 0 {
		return models.StockItem{}, &models.InsufficientStockError{
			ClientID:  clientID,
			ItemType:  itemType,
			Available: entry.item.AvailableQuantity,
			Requested: -delta,
		}
	}

	entry.item.AvailableQuantity = next
	entry.item.LastUpdated = at
	entry.item.UpdatedAt = at
	return entry.item, nil
}

// SetStockQuantity overwrites the available quantity.
func (s *Store) SetStockQuantity(_ context.Context, clientID, id string, quantity float64, at time.Time) (models.StockItem, error) {
	entry := s.entryByID(clientID, id)
	if entry == nil {
		return models.StockItem{}, &models.NotFoundError{Kind: "stock item", ID: id}
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.item.AvailableQuantity = quantity
	entry.item.LastUpdated = at
	entry.item.UpdatedAt = at
	return entry.item, nil
}

// DeleteStockItem removes the item. Sales that reference its type are untouched.
func (s *Store) DeleteStockItem(_ context.Context, clientID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.stockByID[id]
	if !ok || key.clientID != clientID {
		return &models.NotFoundError{Kind: "stock item", ID: id}
	}

	delete(s.stock, key)
	delete(s.stockByID, id)
	return nil
}

func (s *Store) entry(key stockKey) *stockEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stock[key]
}

func (s *Store) entryByID(clientID, id string) *stockEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.stockByID[id]
	if !ok || key.clientID != clientID {
		return nil
	}
	return s.stock[key]
}
