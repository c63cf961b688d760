package stock_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/riceledger/internal/domain/models"
	"github.com/mamadbah2/riceledger/internal/repository/memory"
	"github.com/mamadbah2/riceledger/internal/service/stock"
)

const tenant = "T1"

var fixedNow = time.Date(2025, time.March, 15, 9, 0, 0, 0, time.UTC)

func newLedger(t *testing.T) *stock.Ledger {
	t.Helper()
	return stock.NewLedger(memory.New(), nil, stock.WithClock(func() time.Time { return fixedNow }))
}

func TestRegister(t *testing.T) {
	ledger := newLedger(t)
	ctx := context.Background()

	item, err := ledger.Register(ctx, tenant, "Black-Rice", 12, "")
	require.NoError(t, err)
	assert.Equal(t, models.ItemBlackRice, item.ItemType)
	assert.Equal(t, models.DefaultStockUnit, item.Unit)
	assert.Equal(t, fixedNow, item.LastUpdated)
	assert.NotEmpty(t, item.ID)

	_, err = ledger.Register(ctx, tenant, "black rice", 1, "Bags")
	assert.ErrorIs(t, err, models.ErrConflict)

	legacy, err := ledger.Register(ctx, tenant, "others", 0, "Kg")
	require.NoError(t, err)
	assert.Equal(t, models.ItemOther, legacy.ItemType)

	_, err = ledger.Register(ctx, tenant, "paddy", 1, "")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = ledger.Register(ctx, tenant, "husk", -1, "")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = ledger.Register(ctx, "", "husk", 1, "")
	assert.ErrorIs(t, err, models.ErrMissingTenant)

	// the same item type under another tenant is a different key
	_, err = ledger.Register(ctx, "T2", "black rice", 1, "")
	assert.NoError(t, err)
}

func TestAdjust(t *testing.T) {
	ledger := newLedger(t)
	ctx := context.Background()
	_, err := ledger.Register(ctx, tenant, "husk", 100, "")
	require.NoError(t, err)

	qty, err := ledger.Adjust(ctx, tenant, models.ItemHusk, -30)
	require.NoError(t, err)
	assert.Equal(t, 70.0, qty)

	_, err = ledger.Adjust(ctx, tenant, models.ItemHusk, -80)
	var short *models.InsufficientStockError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, 70.0, short.Available)
	assert.Equal(t, 80.0, short.Requested)

	got, err := ledger.Get(ctx, tenant, models.ItemHusk)
	require.NoError(t, err)
	assert.Equal(t, 70.0, got)

	qty, err = ledger.Adjust(ctx, tenant, models.ItemHusk, -70)
	require.NoError(t, err)
	assert.Zero(t, qty)

	_, err = ledger.Adjust(ctx, tenant, models.ItemBran, 5)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = ledger.Get(ctx, "T2", models.ItemHusk)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAdjust_ConcurrentDebitsNeverOversell(t *testing.T) {
	ledger := newLedger(t)
	ctx := context.Background()
	_, err := ledger.Register(ctx, tenant, "bran", 50, "")
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.Adjust(ctx, tenant, models.ItemBran, -1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, models.ErrInsufficientStock)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, succeeded)
	qty, err := ledger.Get(ctx, tenant, models.ItemBran)
	require.NoError(t, err)
	assert.Zero(t, qty)
}

func TestUpdate(t *testing.T) {
	ledger := newLedger(t)
	ctx := context.Background()
	item, err := ledger.Register(ctx, tenant, "broken rice", 10, "")
	require.NoError(t, err)

	updated, err := ledger.Update(ctx, tenant, item.ID, models.StockAdd, 5)
	require.NoError(t, err)
	assert.Equal(t, 15.0, updated.AvailableQuantity)

	updated, err = ledger.Update(ctx, tenant, item.ID, models.StockSubtract, 15)
	require.NoError(t, err)
	assert.Zero(t, updated.AvailableQuantity)

	_, err = ledger.Update(ctx, tenant, item.ID, models.StockSubtract, 1)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	updated, err = ledger.Update(ctx, tenant, item.ID, models.StockSet, 42)
	require.NoError(t, err)
	assert.Equal(t, 42.0, updated.AvailableQuantity)

	_, err = ledger.Update(ctx, tenant, item.ID, models.StockSet, -1)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = ledger.Update(ctx, tenant, item.ID, "double", 1)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = ledger.Update(ctx, "T2", item.ID, models.StockAdd, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRemoveAndList(t *testing.T) {
	ledger := newLedger(t)
	ctx := context.Background()
	husk, err := ledger.Register(ctx, tenant, "husk", 1, "")
	require.NoError(t, err)
	_, err = ledger.Register(ctx, tenant, "bran", 1, "")
	require.NoError(t, err)

	items, err := ledger.List(ctx, tenant)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	assert.ErrorIs(t, ledger.Remove(ctx, "T2", husk.ID), models.ErrNotFound)
	require.NoError(t, ledger.Remove(ctx, tenant, husk.ID))

	_, err = ledger.Get(ctx, tenant, models.ItemHusk)
	assert.ErrorIs(t, err, models.ErrNotFound)

	items, err = ledger.List(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.ItemBran, items[0].ItemType)
}
