package reporting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/riceledger/internal/domain/models"
	"github.com/mamadbah2/riceledger/internal/metrics"
	"github.com/mamadbah2/riceledger/internal/repository/memory"
	"github.com/mamadbah2/riceledger/internal/service/reporting"
)

const tenant = "client-1"

var fixedNow = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T, store *memory.Store) *reporting.Service {
	t.Helper()
	return reporting.NewService(store, nil,
		reporting.WithClock(func() time.Time { return fixedNow }),
		reporting.WithLocation(time.UTC),
		reporting.WithMetrics(metrics.New()))
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func assertDecimal(t *testing.T, want float64, got decimal.Decimal, msg string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: want %v, got %s", msg, want, got)
}

func TestGetDashboard_ExpenseAndSalaryOnly(t *testing.T) {
	store := memory.New()
	store.AddExpense(models.Expense{ID: "e1", ClientID: tenant, Amount: 500, Date: fixedNow.AddDate(0, 0, -2)})
	store.AddEmployee(models.Employee{ID: "emp1", ClientID: tenant, Salary: 2000, IsActive: true})

	report, err := newService(t, store).GetDashboard(context.Background(), reporting.DashboardQuery{ClientID: tenant})
	require.NoError(t, err)

	assertDecimal(t, 0, report.Revenue.Total, "revenue")
	assertDecimal(t, 2500, report.Expense.Total, "expense")
	assertDecimal(t, -2500, report.Profit, "profit")
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), report.Window.From)
	assert.Len(t, report.Yearly.Months, 12)
	assert.Equal(t, 2025, report.Yearly.Year)
}

func TestGetDashboard_RevenueFromPaidOrdersAndSales(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	inMarch := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	store.AddOrder(models.Order{ID: "o1", ClientID: tenant, NumberOfBags: 10, TotalAmount: 1000, Status: models.OrderPaidClosed, CreatedAt: inMarch})
	store.AddOrder(models.Order{ID: "o2", ClientID: tenant, NumberOfBags: 5, TotalAmount: 700, Status: models.OrderCreated, CreatedAt: inMarch})
	store.AddOrder(models.Order{ID: "o3", ClientID: "other-client", NumberOfBags: 50, TotalAmount: 9000, Status: models.OrderPaidClosed, CreatedAt: inMarch})

	require.NoError(t, store.InsertSale(ctx, models.Sale{
		ID: "s1", ClientID: tenant, PaymentStatus: models.PaymentPaid, TotalAmount: 60, CreatedAt: inMarch,
		Items: []models.SaleLineItem{{ItemType: models.ItemHusk, Quantity: 30, Rate: 2, Amount: 60}},
	}))
	require.NoError(t, store.InsertSale(ctx, models.Sale{
		ID: "s2", ClientID: tenant, PaymentStatus: models.PaymentPaid, TotalAmount: 40, CreatedAt: inMarch,
		Items: []models.SaleLineItem{{ItemType: "others", Quantity: 4, Rate: 10, Amount: 40}},
	}))
	require.NoError(t, store.InsertSale(ctx, models.Sale{
		ID: "s3", ClientID: tenant, PaymentStatus: models.PaymentPending, TotalAmount: 300, CreatedAt: inMarch,
		Items: []models.SaleLineItem{{ItemType: models.ItemBran, Quantity: 3, Rate: 100, Amount: 300}},
	}))
	store.AddWage(models.Wage{ID: "w1", ClientID: tenant, TotalWage: 150, Date: inMarch})
	store.AddEmployee(models.Employee{ID: "emp1", ClientID: tenant, Salary: 900, IsActive: false})

	report, err := newService(t, store).GetDashboard(ctx, reporting.DashboardQuery{ClientID: tenant})
	require.NoError(t, err)

	assertDecimal(t, 1000, report.Revenue.Orders, "order revenue")
	assertDecimal(t, 100, report.Revenue.Sales, "sale revenue")
	assertDecimal(t, 1100, report.Revenue.Total, "total revenue")
	assertDecimal(t, 150, report.Expense.Total, "expense")
	assertDecimal(t, 950, report.Profit, "profit")
	assertDecimal(t, 15, report.PaddyProcessed.TotalBags, "total bags")
	assertDecimal(t, 10, report.PaddyProcessed.PaidBags, "paid bags")

	byType := report.Sales.ByItemType
	require.Len(t, byType, len(models.ItemTypes))
	assertDecimal(t, 30, byType[models.ItemHusk].Quantity, "husk quantity")
	assertDecimal(t, 40, byType[models.ItemOther].Amount, "legacy others folded into other")
	assertDecimal(t, 0, byType[models.ItemBran].Quantity, "pending sale excluded")

	march := report.Yearly.Months[2]
	assert.Equal(t, 3, march.Month)
	assert.Equal(t, "March", march.Label)
	assertDecimal(t, 1100, march.Revenue.Total, "march revenue")
	assertDecimal(t, 0, report.Yearly.Months[0].Revenue.Total, "january revenue")
}

func TestGetDashboard_MonthFilterYieldsSingleBucket(t *testing.T) {
	store := memory.New()
	store.AddExpense(models.Expense{ID: "e1", ClientID: tenant, Amount: 80, Date: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)})

	report, err := newService(t, store).GetDashboard(context.Background(), reporting.DashboardQuery{
		ClientID: tenant,
		Year:     2024,
		Month:    6,
	})
	require.NoError(t, err)

	require.Len(t, report.Yearly.Months, 1)
	assert.Equal(t, 2024, report.Yearly.Year)
	assert.Equal(t, "June", report.Yearly.Months[0].Label)
	assertDecimal(t, 80, report.Yearly.Months[0].Expense.Other, "june expense")
}

func TestGetDashboard_CustomWindowWidensToWholeDays(t *testing.T) {
	store := memory.New()
	start := time.Date(2025, time.January, 10, 15, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.January, 12, 8, 0, 0, 0, time.UTC)

	store.AddExpense(models.Expense{ID: "early", ClientID: tenant, Amount: 10, Date: time.Date(2025, time.January, 10, 0, 30, 0, 0, time.UTC)})
	store.AddExpense(models.Expense{ID: "late", ClientID: tenant, Amount: 20, Date: time.Date(2025, time.January, 12, 23, 59, 0, 0, time.UTC)})
	store.AddExpense(models.Expense{ID: "outside", ClientID: tenant, Amount: 40, Date: time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC)})

	report, err := newService(t, store).GetDashboard(context.Background(), reporting.DashboardQuery{
		ClientID:  tenant,
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)

	assertDecimal(t, 30, report.Expense.Other, "windowed expense")
	assert.Equal(t, time.Date(2025, time.January, 12, 23, 59, 59, int(999*time.Millisecond), time.UTC), report.Window.To)
}

func TestGetDashboard_StockSnapshotIsZeroFilled(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.InsertStockItem(ctx, models.StockItem{ID: "st1", ClientID: tenant, ItemType: models.ItemBran, AvailableQuantity: 12}))

	report, err := newService(t, store).GetDashboard(ctx, reporting.DashboardQuery{ClientID: tenant})
	require.NoError(t, err)

	require.Len(t, report.Stock.Available, len(models.ItemTypes))
	assertDecimal(t, 12, report.Stock.Available[models.ItemBran], "bran")
	assertDecimal(t, 0, report.Stock.Available[models.ItemBlackRice], "black rice")
}

func TestGetDashboard_Validation(t *testing.T) {
	svc := newService(t, memory.New())
	ctx := context.Background()

	_, err := svc.GetDashboard(ctx, reporting.DashboardQuery{})
	assert.ErrorIs(t, err, models.ErrMissingTenant)

	_, err = svc.GetDashboard(ctx, reporting.DashboardQuery{ClientID: tenant, Month: 13})
	assert.ErrorIs(t, err, models.ErrValidation)

	start := time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.GetDashboard(ctx, reporting.DashboardQuery{ClientID: tenant, StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, models.ErrValidation)
}

type failingWages struct {
	*memory.Store
}

var errStoreDown = errors.New("store down")

func (failingWages) WageTotal(context.Context, string, models.Window) (float64, error) {
	return 0, errStoreDown
}

func TestGetDashboard_PropagatesStoreFailure(t *testing.T) {
	svc := reporting.NewService(failingWages{memory.New()}, nil, reporting.WithClock(func() time.Time { return fixedNow }))

	_, err := svc.GetDashboard(context.Background(), reporting.DashboardQuery{ClientID: tenant})
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
	assert.False(t, models.IsClientError(err))
}
