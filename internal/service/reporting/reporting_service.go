// Package reporting builds the financial dashboard of a client from the
// order, sale, wage, expense, employee and stock collections.
package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/riceledger/internal/domain/models"
	"github.com/mamadbah2/riceledger/internal/metrics"
	"github.com/mamadbah2/riceledger/internal/repository"
)

// DashboardQuery selects the report window and the yearly breakdown.
type DashboardQuery struct {
	ClientID string
	// StartDate and EndDate widen to whole days. When both are nil the
	// window is the calendar month containing now.
	StartDate *time.Time
	EndDate   *time.Time
	// Year defaults to the current year.
	Year int
	// Month restricts the yearly breakdown to one bucket when set (1-12).
	Month int
}

// Service computes dashboards. It only reads; stock is never mutated here.
type Service struct {
	store   repository.ReportStore
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	loc     *time.Location
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the calendar used for day and month boundaries.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithMetrics records dashboard latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService wires a new reporting service instance.
func NewService(store repository.ReportStore, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{store: store, logger: logger, now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location is the calendar the service reports in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// periodFigures is the raw aggregation of one window.
type periodFigures struct {
	orders   models.OrderTotals
	sales    models.SaleTotals
	wages    float64
	expenses float64
}

// GetDashboard builds the summary of the query window, the yearly breakdown
// and the stock snapshot. Every sub-aggregation runs concurrently.
func (s *Service) GetDashboard(ctx context.Context, q DashboardQuery) (*models.DashboardReport, error) {
	started := time.Now()
	defer s.metrics.DashboardBuilt(started)

	if strings.TrimSpace(q.ClientID) == "" {
		return nil, models.ErrMissingTenant
	}
	if q.Month < 0 || q.Month > 12 {
		return nil, models.Invalid("month", "must be between 1 and 12")
	}
	if q.Year < 0 || q.Year > 9999 {
		return nil, models.Invalid("year", "out of range")
	}

	now := s.now().In(s.loc)
	window, err := s.resolveWindow(q, now)
	if err != nil {
		return nil, err
	}

	year := q.Year
	if year == 0 {
		year = now.Year()
	}
	months := bucketMonths(q.Month)

	var (
		summary periodFigures
		buckets = make([]periodFigures, len(months))
		salary  float64
		levels  []models.StockLevel
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := s.collect(gctx, q.ClientID, window)
		summary = f
		return err
	})
	for i, month := range months {
		g.Go(func() error {
			f, err := s.collect(gctx, q.ClientID, models.MonthWindow(year, month, s.loc))
			buckets[i] = f
			return err
		})
	}
	g.Go(func() error {
		total, err := s.store.ActiveSalaryTotal(gctx, q.ClientID)
		if err != nil {
			return fmt.Errorf("active salaries: %w", err)
		}
		salary = total
		return nil
	})
	g.Go(func() error {
		l, err := s.store.StockLevels(gctx, q.ClientID)
		if err != nil {
			return fmt.Errorf("stock levels: %w", err)
		}
		levels = l
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build dashboard: %w", err)
	}

	payroll := decimal.NewFromFloat(salary)
	top := summarize(summary, payroll)

	report := &models.DashboardReport{
		ClientID:       q.ClientID,
		Window:         window,
		GeneratedAt:    now,
		Revenue:        top.Revenue,
		Expense:        top.Expense,
		Profit:         top.Profit,
		PaddyProcessed: top.PaddyProcessed,
		Sales:          top.Sales,
		Stock:          stockSnapshot(levels),
		Yearly: models.YearlyBreakdown{
			Year:   year,
			Months: make([]models.MonthBreakdown, len(months)),
		},
	}
	for i, month := range months {
		b := summarize(buckets[i], payroll)
		b.Month = int(month)
		b.Label = month.String()
		report.Yearly.Months[i] = b
	}

	s.logger.Debug("dashboard built",
		zap.String("client_id", q.ClientID),
		zap.Time("from", window.From),
		zap.Time("to", window.To),
		zap.Int("year", year),
		zap.Int("buckets", len(months)),
		zap.Duration("elapsed", time.Since(started)))
	return report, nil
}

// resolveWindow defaults to the calendar month of now.
func (s *Service) resolveWindow(q DashboardQuery, now time.Time) (models.Window, error) {
	if q.StartDate == nil && q.EndDate == nil {
		return models.MonthWindow(now.Year(), now.Month(), s.loc), nil
	}

	window := models.DayWindow(q.StartDate, q.EndDate, s.loc)
	if !window.From.IsZero() && !window.To.IsZero() && window.From.After(window.To) {
		return models.Window{}, models.Invalid("startDate", "must not be after endDate")
	}
	return window, nil
}

// collect runs the four windowed aggregations of one period concurrently.
func (s *Service) collect(ctx context.Context, clientID string, window models.Window) (periodFigures, error) {
	var f periodFigures

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		totals, err := s.store.OrderTotals(gctx, clientID, window)
		if err != nil {
			return fmt.Errorf("order totals: %w", err)
		}
		f.orders = totals
		return nil
	})
	g.Go(func() error {
		totals, err := s.store.PaidSaleTotals(gctx, clientID, window)
		if err != nil {
			return fmt.Errorf("sale totals: %w", err)
		}
		f.sales = totals
		return nil
	})
	g.Go(func() error {
		total, err := s.store.WageTotal(gctx, clientID, window)
		if err != nil {
			return fmt.Errorf("wage total: %w", err)
		}
		f.wages = total
		return nil
	})
	g.Go(func() error {
		total, err := s.store.ExpenseTotal(gctx, clientID, window)
		if err != nil {
			return fmt.Errorf("expense total: %w", err)
		}
		f.expenses = total
		return nil
	})

	if err := g.Wait(); err != nil {
		return periodFigures{}, err
	}
	return f, nil
}

// summarize derives revenue, expense and profit of one period. Salary is
// the same payroll snapshot for every period.
func summarize(f periodFigures, salary decimal.Decimal) models.MonthBreakdown {
	revenue := models.Revenue{
		Orders: decimal.NewFromFloat(f.orders.PaidAmount),
		Sales:  decimal.NewFromFloat(f.sales.PaidAmount),
	}
	revenue.Total = revenue.Orders.Add(revenue.Sales)

	expense := models.Expenses{
		Wages:  decimal.NewFromFloat(f.wages),
		Salary: salary,
		Other:  decimal.NewFromFloat(f.expenses),
	}
	expense.Total = expense.Wages.Add(expense.Salary).Add(expense.Other)

	return models.MonthBreakdown{
		Revenue: revenue,
		Expense: expense,
		Profit:  revenue.Total.Sub(expense.Total),
		PaddyProcessed: models.PaddyProcessed{
			TotalBags: decimal.NewFromFloat(f.orders.TotalBags),
			PaidBags:  decimal.NewFromFloat(f.orders.PaidBags),
		},
		Sales: salesBreakdown(f.sales.Items),
	}
}

// salesBreakdown folds stored labels into canonical item types. Every
// canonical type is present, zero when nothing sold.
func salesBreakdown(items []models.ItemTotals) models.SalesBreakdown {
	byType := make(map[models.ItemType]models.ItemFigures, len(models.ItemTypes))
	for _, t := range models.ItemTypes {
		byType[t] = models.ItemFigures{Quantity: decimal.Zero, Amount: decimal.Zero}
	}
	for _, item := range items {
		key := models.NormalizeItemLabel(item.ItemType)
		cur := byType[key]
		cur.Quantity = cur.Quantity.Add(decimal.NewFromFloat(item.Quantity))
		cur.Amount = cur.Amount.Add(decimal.NewFromFloat(item.Amount))
		byType[key] = cur
	}
	return models.SalesBreakdown{ByItemType: byType}
}

func stockSnapshot(levels []models.StockLevel) models.StockSnapshot {
	available := make(map[models.ItemType]decimal.Decimal, len(models.ItemTypes))
	for _, t := range models.ItemTypes {
		available[t] = decimal.Zero
	}
	for _, level := range levels {
		key := models.NormalizeItemLabel(level.ItemType)
		available[key] = available[key].Add(decimal.NewFromFloat(level.AvailableQuantity))
	}
	return models.StockSnapshot{Available: available}
}

func bucketMonths(month int) []time.Month {
	if month != 0 {
		return []time.Month{time.Month(month)}
	}
	months := make([]time.Month, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, m)
	}
	return months
}
