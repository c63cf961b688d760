package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/riceledger/internal/config"
	"github.com/mamadbah2/riceledger/internal/domain/models"
	"github.com/mamadbah2/riceledger/internal/repository"
	"github.com/mamadbah2/riceledger/internal/service/reporting"
)

// DashboardBuilder computes the report a snapshot is taken from.
type DashboardBuilder interface {
	GetDashboard(ctx context.Context, q reporting.DashboardQuery) (*models.DashboardReport, error)
}

// SnapshotAppender exports a snapshot, e.g. to a spreadsheet.
type SnapshotAppender interface {
	AppendSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
}

// TextSender delivers a plain text message.
type TextSender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	clientIDs []string
	loc       *time.Location
	now       func() time.Time
	timeout   time.Duration

	reports   DashboardBuilder
	snapshots repository.SnapshotStore
	sheet     SnapshotAppender
	messenger TextSender
	recipient string

	logger *zap.Logger
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithSheet exports every snapshot through appender.
func WithSheet(appender SnapshotAppender) Option {
	return func(s *Scheduler) { s.sheet = appender }
}

// WithMessenger texts a summary of every snapshot to recipient.
func WithMessenger(sender TextSender, recipient string) Option {
	return func(s *Scheduler) {
		s.messenger = sender
		s.recipient = recipient
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.ReportingConfig, loc *time.Location, reports DashboardBuilder, snapshots repository.SnapshotStore, logger *zap.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		schedule:  strings.TrimSpace(cfg.CronSchedule),
		clientIDs: cfg.ClientIDs,
		loc:       loc,
		now:       time.Now,
		timeout:   5 * time.Minute,
		reports:   reports,
		snapshots: snapshots,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers the monthly report job and starts the cron loop. An empty
// schedule leaves the scheduler idle.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		s.logger.Info("monthly report disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runMonthlyReport); err != nil {
		return fmt.Errorf("schedule monthly report %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler",
		zap.String("schedule", s.schedule),
		zap.String("timezone", s.loc.String()),
		zap.Int("clients", len(s.clientIDs)))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runMonthlyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.RunMonthlyReport(ctx); err != nil {
		s.logger.Error("monthly report finished with errors", zap.Error(err))
		return
	}
	s.logger.Info("monthly report finished")
}

// RunMonthlyReport snapshots the previous calendar month of every configured
// client. Each step of each client is attempted regardless of earlier
// failures; the failures are joined into the returned error.
func (s *Scheduler) RunMonthlyReport(ctx context.Context) error {
	year, month := previousMonth(s.now().In(s.loc))

	var errs []error
	for _, clientID := range s.clientIDs {
		if err := s.reportClient(ctx, clientID, year, month); err != nil {
			errs = append(errs, fmt.Errorf("client %s: %w", clientID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) reportClient(ctx context.Context, clientID string, year int, month time.Month) error {
	window := models.MonthWindow(year, month, s.loc)
	report, err := s.reports.GetDashboard(ctx, reporting.DashboardQuery{
		ClientID:  clientID,
		StartDate: &window.From,
		EndDate:   &window.To,
		Year:      year,
		Month:     int(month),
	})
	if err != nil {
		s.logger.Error("monthly report failed", zap.String("client_id", clientID), zap.Error(err))
		return fmt.Errorf("build report: %w", err)
	}

	snapshot := report.Snapshot(s.now())
	var errs []error

	if err := s.snapshots.SaveDashboardSnapshot(ctx, snapshot); err != nil {
		s.logger.Error("failed to save dashboard snapshot", zap.String("client_id", clientID), zap.Error(err))
		errs = append(errs, fmt.Errorf("save snapshot: %w", err))
	}

	if s.sheet != nil {
		if err := s.sheet.AppendSnapshot(ctx, snapshot); err != nil {
			s.logger.Error("failed to export snapshot to sheet", zap.String("client_id", clientID), zap.Error(err))
			errs = append(errs, fmt.Errorf("export snapshot: %w", err))
		}
	}

	if s.messenger != nil {
		if _, err := s.messenger.SendText(ctx, s.recipient, FormatSummary(report, year, month)); err != nil {
			s.logger.Error("failed to send monthly report", zap.String("client_id", clientID), zap.Error(err))
			errs = append(errs, fmt.Errorf("send summary: %w", err))
		}
	}

	if len(errs) == 0 {
		s.logger.Info("monthly report delivered",
			zap.String("client_id", clientID),
			zap.Int("year", year),
			zap.String("month", month.String()))
	}
	return errors.Join(errs...)
}

// FormatSummary renders the text message of a monthly report.
func FormatSummary(report *models.DashboardReport, year int, month time.Month) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Monthly report %s %d (%s)\n", month, year, report.ClientID)
	fmt.Fprintf(&b, "Revenue: %s (orders %s, sales %s)\n",
		report.Revenue.Total.StringFixed(2), report.Revenue.Orders.StringFixed(2), report.Revenue.Sales.StringFixed(2))
	fmt.Fprintf(&b, "Expense: %s (wages %s, salary %s, other %s)\n",
		report.Expense.Total.StringFixed(2), report.Expense.Wages.StringFixed(2),
		report.Expense.Salary.StringFixed(2), report.Expense.Other.StringFixed(2))
	fmt.Fprintf(&b, "Profit: %s\n", report.Profit.StringFixed(2))
	fmt.Fprintf(&b, "Paddy bags: %s (paid %s)",
		report.PaddyProcessed.TotalBags.String(), report.PaddyProcessed.PaidBags.String())
	return b.String()
}

func previousMonth(now time.Time) (int, time.Month) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prev := first.AddDate(0, -1, 0)
	return prev.Year(), prev.Month()
}
