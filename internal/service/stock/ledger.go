// Package stock owns the available quantity of every (client, item type)
// pair and guarantees it never drops below zero.
package stock

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/riceledger/internal/domain/models"
	"github.com/mamadbah2/riceledger/internal/metrics"
	"github.com/mamadbah2/riceledger/internal/repository"
)

// Ledger mutates stock quantities. Atomicity per key is delegated to
// repository.StockStore.AdjustStockQuantity, so different keys never block
// each other here.
type Ledger struct {
	store   repository.StockStore
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option customizes a Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithMetrics records adjust outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// NewLedger wires a ledger over store.
func NewLedger(store repository.StockStore, logger *zap.Logger, opts ...Option) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Ledger{store: store, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register creates the stock item of a (client, item type) pair.
func (l *Ledger) Register(ctx context.Context, clientID, itemType string, initialQuantity float64, unit string) (models.StockItem, error) {
	if strings.TrimSpace(clientID) == "" {
		return models.StockItem{}, models.ErrMissingTenant
	}
	t, err := models.ParseItemType(itemType)
	if err != nil {
		return models.StockItem{}, err
	}
	if initialQuantity < 0 {
		return models.StockItem{}, models.Invalid("availableQuantity", "must not be negative")
	}
	if strings.TrimSpace(unit) == "" {
		unit = models.DefaultStockUnit
	}

	now := l.now()
	item := models.StockItem{
		ID:                uuid.NewString(),
		ClientID:          clientID,
		ItemType:          t,
		AvailableQuantity: initialQuantity,
		Unit:              unit,
		LastUpdated:       now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := l.store.InsertStockItem(ctx, item); err != nil {
		return models.StockItem{}, err
	}

	l.logger.Info("stock item registered",
		zap.String("client_id", clientID),
		zap.String("item_type", string(t)),
		zap.Float64("quantity", initialQuantity))
	return item, nil
}

// Get returns the current available quantity of the pair.
func (l *Ledger) Get(ctx context.Context, clientID string, itemType models.ItemType) (float64, error) {
	item, err := l.Item(ctx, clientID, itemType)
	if err != nil {
		return 0, err
	}
	return item.AvailableQuantity, nil
}

// Item returns the full stock item of the pair.
func (l *Ledger) Item(ctx context.Context, clientID string, itemType models.ItemType) (models.StockItem, error) {
	if strings.TrimSpace(clientID) == "" {
		return models.StockItem{}, models.ErrMissingTenant
	}
	return l.store.FindStockItem(ctx, clientID, itemType)
}

// List returns every stock item of the client.
func (l *Ledger) List(ctx context.Context, clientID string) ([]models.StockItem, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, models.ErrMissingTenant
	}
	return l.store.ListStockItems(ctx, clientID)
}

// Adjust adds delta (negative for a debit) and returns the new quantity.
// A debit that would go below zero fails with models.ErrInsufficientStock
// and changes nothing.
func (l *Ledger) Adjust(ctx context.Context, clientID string, itemType models.ItemType, delta float64) (float64, error) {
	if strings.TrimSpace(clientID) == "" {
		return 0, models.ErrMissingTenant
	}

	item, err := l.store.AdjustStockQuantity(ctx, clientID, itemType, delta, l.now())
	l.metrics.StockAdjusted(delta, adjustOutcome(err))
	if err != nil {
		return 0, err
	}

	l.logger.Debug("stock adjusted",
		zap.String("client_id", clientID),
		zap.String("item_type", string(itemType)),
		zap.Float64("delta", delta),
		zap.Float64("quantity", item.AvailableQuantity))
	return item.AvailableQuantity, nil
}

// Update applies a manual add, subtract or set to the item with id.
func (l *Ledger) Update(ctx context.Context, clientID, id string, op models.StockOperation, quantity float64) (models.StockItem, error) {
	if strings.TrimSpace(clientID) == "" {
		return models.StockItem{}, models.ErrMissingTenant
	}
	if quantity < 0 {
		return models.StockItem{}, models.Invalid("quantity", "must not be negative")
	}

	current, err := l.store.FindStockItemByID(ctx, clientID, id)
	if err != nil {
		return models.StockItem{}, err
	}

	switch op {
	case models.StockAdd, models.StockSubtract:
		delta := quantity
		if op == models.StockSubtract {
			delta = -quantity
		}
		item, err := l.store.AdjustStockQuantity(ctx, clientID, current.ItemType, delta, l.now())
		l.metrics.StockAdjusted(delta, adjustOutcome(err))
		return item, err
	case models.StockSet:
		item, err := l.store.SetStockQuantity(ctx, clientID, id, quantity, l.now())
		if err != nil {
			return models.StockItem{}, err
		}
		l.logger.Info("stock quantity overwritten",
			zap.String("client_id", clientID),
			zap.String("item_type", string(item.ItemType)),
			zap.Float64("quantity", quantity))
		return item, nil
	default:
		return models.StockItem{}, models.Invalid("operation", "unsupported operation %q", op)
	}
}

// Remove deletes a stock item. Historical sales keep their line items.
func (l *Ledger) Remove(ctx context.Context, clientID, id string) error {
	if strings.TrimSpace(clientID) == "" {
		return models.ErrMissingTenant
	}
	if err := l.store.DeleteStockItem(ctx, clientID, id); err != nil {
		return err
	}
	l.logger.Info("stock item removed", zap.String("client_id", clientID), zap.String("stock_id", id))
	return nil
}

func adjustOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeApplied
	case errors.Is(err, models.ErrInsufficientStock):
		return metrics.OutcomeInsufficient
	case errors.Is(err, models.ErrNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
