// Package sales creates, edits and deletes sales while keeping stock in step
// with their line items.
package sales

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/riceledger/internal/domain/models"
	"github.com/mamadbah2/riceledger/internal/metrics"
	"github.com/mamadbah2/riceledger/internal/repository"
)

// StockAdjuster is the slice of the stock ledger a sale needs.
type StockAdjuster interface {
	Adjust(ctx context.Context, clientID string, itemType models.ItemType, delta float64) (float64, error)
}

// CreateSaleInput is a new sale as submitted by a caller.
type CreateSaleInput struct {
	Customer      models.Customer
	Items         []models.LineItemInput
	PaymentStatus string
	PaymentMethod string
}

// Processor orchestrates sale mutations. Debits across several item types
// are not one transaction: every failure path issues compensating credits
// for the debits it already applied.
type Processor struct {
	sales   repository.SaleStore
	stock   StockAdjuster
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option customizes a Processor.
type Option func(*Processor)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithMetrics records mutation and compensation outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// NewProcessor wires a processor.
func NewProcessor(sales repository.SaleStore, stock StockAdjuster, logger *zap.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Processor{sales: sales, stock: stock, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CreateSale debits stock for every line item and persists the sale with
// server-computed amounts. Either every debit sticks or none does.
func (p *Processor) CreateSale(ctx context.Context, clientID string, in CreateSaleInput) (sale models.Sale, err error) {
	defer func() { p.metrics.SaleMutated("create", err) }()

	if strings.TrimSpace(clientID) == "" {
		return models.Sale{}, models.ErrMissingTenant
	}
	if err := in.Customer.Validate(); err != nil {
		return models.Sale{}, err
	}
	status, err := models.ParsePaymentStatus(in.PaymentStatus)
	if err != nil {
		return models.Sale{}, err
	}
	method, err := models.ParseSalePaymentMethod(in.PaymentMethod)
	if err != nil {
		return models.Sale{}, err
	}
	lines, total, err := buildLineItems(in.Items)
	if err != nil {
		return models.Sale{}, err
	}

	if err := p.debit(ctx, clientID, lines, "create"); err != nil {
		return models.Sale{}, err
	}

	now := p.now()
	sale = models.Sale{
		ID:            uuid.NewString(),
		ClientID:      clientID,
		Customer:      in.Customer,
		Items:         lines,
		TotalAmount:   total,
		PaymentStatus: status,
		PaymentMethod: method,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := p.sales.InsertSale(ctx, sale); err != nil {
		p.compensate(ctx, clientID, lines, "create")
		return models.Sale{}, fmt.Errorf("persist sale: %w", err)
	}

	p.logger.Info("sale created",
		zap.String("client_id", clientID),
		zap.String("sale_id", sale.ID),
		zap.Int("items", len(lines)),
		zap.Float64("total_amount", total))
	return sale, nil
}

// UpdateSale overwrites the fields present in patch. A replacement item list
// first releases every existing line back to stock, then claims the new
// lines all-or-nothing. If the claim fails the release stays in effect.
// The write only lands while the sale is unchanged since it was loaded; a
// lost race or a failed write undoes this call's stock movements.
func (p *Processor) UpdateSale(ctx context.Context, clientID, saleID string, patch models.SalePatch) (sale models.Sale, err error) {
	defer func() { p.metrics.SaleMutated("update", err) }()

	if strings.TrimSpace(clientID) == "" {
		return models.Sale{}, models.ErrMissingTenant
	}

	existing, err := p.sales.FindSale(ctx, clientID, saleID)
	if err != nil {
		return models.Sale{}, err
	}

	updated, err := applyPatch(existing, patch)
	if err != nil {
		return models.Sale{}, err
	}

	var released, newLines []models.SaleLineItem
	replaceItems := patch.Items != nil
	if replaceItems {
		var total float64
		newLines, total, err = buildLineItems(patch.Items)
		if err != nil {
			return models.Sale{}, err
		}

		released = p.release(ctx, clientID, existing.Items, "update")
		if err := p.debit(ctx, clientID, newLines, "update"); err != nil {
			return models.Sale{}, err
		}
		updated.Items = newLines
		updated.TotalAmount = total
	}

	updated.UpdatedAt = p.now()
	if err := p.sales.ReplaceSale(ctx, updated, existing.UpdatedAt); err != nil {
		if replaceItems {
			// The stored sale still lists its old items, so they go back out.
			p.compensate(ctx, clientID, newLines, "update")
			p.reclaim(ctx, clientID, released, "update")
		}
		if models.IsClientError(err) {
			return models.Sale{}, err
		}
		return models.Sale{}, fmt.Errorf("persist sale: %w", err)
	}

	p.logger.Info("sale updated",
		zap.String("client_id", clientID),
		zap.String("sale_id", saleID),
		zap.Bool("items_replaced", replaceItems))
	return updated, nil
}

// DeleteSale removes the sale and returns every line item to stock. The
// removal comes first and is atomic, so concurrent deletes credit once.
// Credits that fail, for instance because the item type was unregistered
// since, are logged and do not undo the deletion.
func (p *Processor) DeleteSale(ctx context.Context, clientID, saleID string) (err error) {
	defer func() { p.metrics.SaleMutated("delete", err) }()

	if strings.TrimSpace(clientID) == "" {
		return models.ErrMissingTenant
	}

	removed, err := p.sales.DeleteSale(ctx, clientID, saleID)
	if err != nil {
		return err
	}

	p.release(context.WithoutCancel(ctx), clientID, removed.Items, "delete")

	p.logger.Info("sale deleted", zap.String("client_id", clientID), zap.String("sale_id", saleID))
	return nil
}

// GetSale returns one sale of the client.
func (p *Processor) GetSale(ctx context.Context, clientID, saleID string) (models.Sale, error) {
	if strings.TrimSpace(clientID) == "" {
		return models.Sale{}, models.ErrMissingTenant
	}
	return p.sales.FindSale(ctx, clientID, saleID)
}

// ListSales returns the client's sales inside window, newest first.
func (p *Processor) ListSales(ctx context.Context, clientID string, window models.Window) ([]models.Sale, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, models.ErrMissingTenant
	}
	return p.sales.ListSales(ctx, clientID, window)
}

// debit takes every line out of stock in order. On the first failure the
// lines already taken are credited back and the failure is returned.
func (p *Processor) debit(ctx context.Context, clientID string, lines []models.SaleLineItem, operation string) error {
	applied := make([]models.SaleLineItem, 0, len(lines))
	for _, line := range lines {
		if _, err := p.stock.Adjust(ctx, clientID, line.ItemType, -line.Quantity); err != nil {
			p.logger.Info("sale debit rejected",
				zap.String("operation", operation),
				zap.String("client_id", clientID),
				zap.String("item_type", string(line.ItemType)),
				zap.Float64("quantity", line.Quantity),
				zap.Error(err))
			p.compensate(ctx, clientID, applied, operation)
			return err
		}
		applied = append(applied, line)
	}
	return nil
}

// compensate credits back debits in reverse order. It runs detached from
// ctx cancellation so an aborted request cannot strand a partial debit.
func (p *Processor) compensate(ctx context.Context, clientID string, applied []models.SaleLineItem, operation string) {
	ctx = context.WithoutCancel(ctx)
	for i := len(applied) - 1; i >= 0; i-- {
		line := applied[i]
		_, err := p.stock.Adjust(ctx, clientID, line.ItemType, line.Quantity)
		p.metrics.Compensated(operation, err)
		if err != nil {
			p.logger.Error("compensating stock credit failed",
				zap.String("operation", operation),
				zap.String("client_id", clientID),
				zap.String("item_type", string(line.ItemType)),
				zap.Float64("quantity", line.Quantity),
				zap.Error(err))
		}
	}
}

// release returns lines of an existing sale to stock, best effort, and
// reports the lines actually credited.
func (p *Processor) release(ctx context.Context, clientID string, lines []models.SaleLineItem, operation string) []models.SaleLineItem {
	released := make([]models.SaleLineItem, 0, len(lines))
	for _, line := range lines {
		line.ItemType = models.NormalizeItemLabel(string(line.ItemType))
		if _, err := p.stock.Adjust(ctx, clientID, line.ItemType, line.Quantity); err != nil {
			p.logger.Warn("stock credit skipped",
				zap.String("operation", operation),
				zap.String("client_id", clientID),
				zap.String("item_type", string(line.ItemType)),
				zap.Float64("quantity", line.Quantity),
				zap.Error(err))
			continue
		}
		released = append(released, line)
	}
	return released
}

// reclaim debits released lines again after an update could not be stored.
// Like compensate it ignores ctx cancellation; a debit that no longer fits
// is logged and skipped.
func (p *Processor) reclaim(ctx context.Context, clientID string, released []models.SaleLineItem, operation string) {
	ctx = context.WithoutCancel(ctx)
	for _, line := range released {
		_, err := p.stock.Adjust(ctx, clientID, line.ItemType, -line.Quantity)
		p.metrics.Compensated(operation, err)
		if err != nil {
			p.logger.Error("reclaiming released stock failed",
				zap.String("operation", operation),
				zap.String("client_id", clientID),
				zap.String("item_type", string(line.ItemType)),
				zap.Float64("quantity", line.Quantity),
				zap.Error(err))
		}
	}
}

func applyPatch(sale models.Sale, patch models.SalePatch) (models.Sale, error) {
	if v := present(patch.Name); v != "" {
		sale.Name = v
	}
	if v := present(patch.PhoneNumber); v != "" {
		sale.PhoneNumber = v
	}
	if v := present(patch.Address); v != "" {
		sale.Address = v
	}
	if v := present(patch.PaymentStatus); v != "" {
		status, err := models.ParsePaymentStatus(v)
		if err != nil {
			return models.Sale{}, err
		}
		sale.PaymentStatus = status
	}
	if v := present(patch.PaymentMethod); v != "" {
		method, err := models.ParseSalePaymentMethod(v)
		if err != nil {
			return models.Sale{}, err
		}
		sale.PaymentMethod = method
	}
	sale.Items = append([]models.SaleLineItem(nil), sale.Items...)
	return sale, nil
}

func present(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

// buildLineItems validates the inputs and computes amount = quantity × rate
// per line in decimal. The total is the exact sum of the stored line amounts.
func buildLineItems(inputs []models.LineItemInput) ([]models.SaleLineItem, float64, error) {
	if len(inputs) == 0 {
		return nil, 0, models.Invalid("items", "at least one line item is required")
	}

	lines := make([]models.SaleLineItem, 0, len(inputs))
	for i, in := range inputs {
		field := fmt.Sprintf("items[%d]", i)

		itemType, err := models.ParseItemType(in.ItemType)
		if err != nil {
			return nil, 0, models.Invalid(field+".itemType", "unsupported item type %q", in.ItemType)
		}
		if !finite(in.Quantity) || in.Quantity <= 0 {
			return nil, 0, models.Invalid(field+".quantity", "must be a positive number")
		}
		if !finite(in.Rate) || in.Rate < 0 {
			return nil, 0, models.Invalid(field+".rate", "must not be negative")
		}

		amount := decimal.NewFromFloat(in.Quantity).Mul(decimal.NewFromFloat(in.Rate))
		lines = append(lines, models.SaleLineItem{
			ItemType: itemType,
			Quantity: in.Quantity,
			Rate:     in.Rate,
			Amount:   amount.InexactFloat64(),
		})
	}

	return lines, models.SumAmounts(lines).InexactFloat64(), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
