package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/riceledger/internal/domain/models"
	"github.com/mamadbah2/riceledger/internal/service/export"
)

func sampleReport() *models.DashboardReport {
	stock := map[models.ItemType]decimal.Decimal{}
	byType := map[models.ItemType]models.ItemFigures{}
	for _, t := range models.ItemTypes {
		stock[t] = decimal.Zero
		byType[t] = models.ItemFigures{Quantity: decimal.Zero, Amount: decimal.Zero}
	}
	stock[models.ItemHusk] = decimal.NewFromInt(70)

	return &models.DashboardReport{
		ClientID: "c1",
		Window:   models.MonthWindow(2025, time.March, time.UTC),
		Revenue:  models.Revenue{Total: decimal.NewFromInt(60), Sales: decimal.NewFromInt(60)},
		Expense:  models.Expenses{Total: decimal.NewFromInt(2500)},
		Profit:   decimal.NewFromInt(-2440),
		Sales:    models.SalesBreakdown{ByItemType: byType},
		Stock:    models.StockSnapshot{Available: stock},
		Yearly: models.YearlyBreakdown{
			Year: 2025,
			Months: []models.MonthBreakdown{
				{Month: 1, Label: "January", Profit: decimal.NewFromInt(-2500)},
				{Month: 2, Label: "February", Profit: decimal.NewFromInt(10)},
			},
		},
	}
}

func TestWriteDashboard_Sheets(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteDashboard(&buf, sampleReport()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{export.SummarySheet, export.MonthlySheet, export.StockSheet}, f.GetSheetList())

	profit, err := f.GetCellValue(export.SummarySheet, "B12")
	require.NoError(t, err)
	assert.Equal(t, "-2440", profit)

	monthly, err := f.GetRows(export.MonthlySheet)
	require.NoError(t, err)
	require.Len(t, monthly, 3)
	assert.Equal(t, "February", monthly[2][1])

	stock, err := f.GetRows(export.StockSheet)
	require.NoError(t, err)
	require.Len(t, stock, len(models.ItemTypes)+1)
	assert.Equal(t, []string{"husk", "70"}, stock[2])
}
