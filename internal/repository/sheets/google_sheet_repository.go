// Package sheets appends monthly dashboard snapshots to a Google Sheet.
package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/riceledger/internal/config"
	"github.com/mamadbah2/riceledger/internal/domain/models"
)

// SnapshotRange is the sheet range snapshot rows are appended to.
const SnapshotRange = "Snapshots!A:R"

// GoogleSheetRepository writes rows through the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSnapshot writes one row describing snapshot.
func (r *GoogleSheetRepository) AppendSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error {
	return r.WriteRow(ctx, SnapshotRange, SnapshotRow(snapshot))
}

// WriteRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// SnapshotRow flattens a snapshot into sheet columns: client, period,
// revenue, expense, profit, bags, then one column per canonical item type.
func SnapshotRow(s models.DashboardSnapshot) []interface{} {
	row := []interface{}{
		s.ClientID,
		s.PeriodStart.Format(time.DateOnly),
		s.PeriodEnd.Format(time.DateOnly),
		s.RevenueOrders,
		s.RevenueSales,
		s.RevenueTotal,
		s.ExpenseWages,
		s.ExpenseSalary,
		s.ExpenseOther,
		s.ExpenseTotal,
		s.Profit,
		s.TotalBags,
		s.PaidBags,
	}
	for _, t := range models.ItemTypes {
		row = append(row, s.Stock[string(t)])
	}
	return row
}
