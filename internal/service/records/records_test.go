package records_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/riceledger/internal/domain/models"
	"github.com/mamadbah2/riceledger/internal/repository/memory"
	"github.com/mamadbah2/riceledger/internal/service/records"
)

func TestListOrders_ScopedAndNewestFirst(t *testing.T) {
	store := memory.New()
	day := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	store.AddOrder(models.Order{ID: "old", ClientID: "c1", CreatedAt: day})
	store.AddOrder(models.Order{ID: "new", ClientID: "c1", CreatedAt: day.Add(time.Hour)})
	store.AddOrder(models.Order{ID: "foreign", ClientID: "c2", CreatedAt: day})

	orders, err := records.NewService(store, nil).ListOrders(context.Background(), "c1", models.Window{})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "new", orders[0].ID)
	assert.Equal(t, "old", orders[1].ID)
}

func TestListWagesAndExpenses_UseRecordDate(t *testing.T) {
	store := memory.New()
	april := models.MonthWindow(2025, time.April, time.UTC)
	store.AddWage(models.Wage{ID: "w1", ClientID: "c1", Date: time.Date(2025, time.April, 5, 0, 0, 0, 0, time.UTC)})
	store.AddWage(models.Wage{ID: "w2", ClientID: "c1", Date: time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC)})
	store.AddExpense(models.Expense{ID: "e1", ClientID: "c1", Date: time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)})

	svc := records.NewService(store, nil)

	wages, err := svc.ListWages(context.Background(), "c1", april)
	require.NoError(t, err)
	require.Len(t, wages, 1)
	assert.Equal(t, "w1", wages[0].ID)

	expenses, err := svc.ListExpenses(context.Background(), "c1", april)
	require.NoError(t, err)
	assert.NotNil(t, expenses)
	assert.Empty(t, expenses)
}

func TestListEmployees_ActiveFilter(t *testing.T) {
	store := memory.New()
	store.AddEmployee(models.Employee{ID: "a", ClientID: "c1", IsActive: true})
	store.AddEmployee(models.Employee{ID: "b", ClientID: "c1", IsActive: false})

	svc := records.NewService(store, nil)

	all, err := svc.ListEmployees(context.Background(), "c1", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.ListEmployees(context.Background(), "c1", true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].ID)
}

func TestRecords_RequireTenant(t *testing.T) {
	svc := records.NewService(memory.New(), nil)

	_, err := svc.ListOrders(context.Background(), " ", models.Window{})
	assert.ErrorIs(t, err, models.ErrMissingTenant)

	_, err = svc.ListEmployees(context.Background(), "", true)
	assert.ErrorIs(t, err, models.ErrMissingTenant)
}
