// Package export renders dashboard reports as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/riceledger/internal/domain/models"
)

// Sheet names of the dashboard workbook.
const (
	SummarySheet = "Summary"
	MonthlySheet = "Monthly"
	StockSheet   = "Stock"
)

// ContentType is the MIME type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteDashboard writes report as an XLSX workbook with a summary sheet, one
// row per month bucket and the current stock levels.
func WriteDashboard(w io.Writer, report *models.DashboardReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SummarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	for _, name := range []string{MonthlySheet, StockSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create %s sheet: %w", name, err)
		}
	}

	if err := writeRows(f, SummarySheet, summaryRows(report)); err != nil {
		return err
	}
	if err := writeRows(f, MonthlySheet, monthlyRows(report)); err != nil {
		return err
	}
	if err := writeRows(f, StockSheet, stockRows(report)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func summaryRows(r *models.DashboardReport) [][]any {
	rows := [][]any{
		{"Metric", "Value"},
		{"Client", r.ClientID},
		{"From", formatBound(r.Window.From)},
		{"To", formatBound(r.Window.To)},
		{"Revenue (orders)", r.Revenue.Orders.InexactFloat64()},
		{"Revenue (sales)", r.Revenue.Sales.InexactFloat64()},
		{"Revenue (total)", r.Revenue.Total.InexactFloat64()},
		{"Expense (wages)", r.Expense.Wages.InexactFloat64()},
		{"Expense (salary)", r.Expense.Salary.InexactFloat64()},
		{"Expense (other)", r.Expense.Other.InexactFloat64()},
		{"Expense (total)", r.Expense.Total.InexactFloat64()},
		{"Profit", r.Profit.InexactFloat64()},
		{"Paddy bags (total)", r.PaddyProcessed.TotalBags.InexactFloat64()},
		{"Paddy bags (paid)", r.PaddyProcessed.PaidBags.InexactFloat64()},
	}
	for _, t := range models.ItemTypes {
		fig := r.Sales.ByItemType[t]
		rows = append(rows,
			[]any{fmt.Sprintf("Sold %s (qty)", t), fig.Quantity.InexactFloat64()},
			[]any{fmt.Sprintf("Sold %s (amount)", t), fig.Amount.InexactFloat64()},
		)
	}
	return rows
}

func monthlyRows(r *models.DashboardReport) [][]any {
	rows := [][]any{{"Year", "Month", "Revenue", "Expense", "Profit", "Total bags", "Paid bags"}}
	for _, m := range r.Yearly.Months {
		rows = append(rows, []any{
			r.Yearly.Year,
			m.Label,
			m.Revenue.Total.InexactFloat64(),
			m.Expense.Total.InexactFloat64(),
			m.Profit.InexactFloat64(),
			m.PaddyProcessed.TotalBags.InexactFloat64(),
			m.PaddyProcessed.PaidBags.InexactFloat64(),
		})
	}
	return rows
}

func stockRows(r *models.DashboardReport) [][]any {
	rows := [][]any{{"Item type", "Available"}}
	for _, t := range models.ItemTypes {
		rows = append(rows, []any{string(t), r.Stock.Available[t].InexactFloat64()})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return "unbounded"
	}
	return t.Format("2006-01-02 15:04:05 MST")
}
