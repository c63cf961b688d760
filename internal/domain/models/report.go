package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderTotals is the order aggregation of one window.
type OrderTotals struct {
	PaidAmount float64 `bson:"paidAmount"`
	PaidBags   float64 `bson:"paidBags"`
	PaidCount  int64   `bson:"paidCount"`
	TotalBags  float64 `bson:"totalBags"`
	TotalCount int64   `bson:"totalCount"`
}

// ItemTotals sums paid sale lines of one stored item label.
type ItemTotals struct {
	ItemType string  `bson:"_id"`
	Quantity float64 `bson:"quantity"`
	Amount   float64 `bson:"amount"`
}

// SaleTotals is the paid-sale aggregation of one window. Items carry raw
// stored labels; reporting normalizes them.
type SaleTotals struct {
	PaidAmount float64
	PaidCount  int64
	Items      []ItemTotals
}

// StockLevel is the current quantity under a stored item label.
type StockLevel struct {
	ItemType          string  `bson:"itemType"`
	AvailableQuantity float64 `bson:"availableQuantity"`
}

// Revenue of a report period.
type Revenue struct {
	Orders decimal.Decimal `json:"orders"`
	Sales  decimal.Decimal `json:"sales"`
	Total  decimal.Decimal `json:"total"`
}

// Expenses of a report period. Salary is the current payroll, not a historical figure.
type Expenses struct {
	Wages  decimal.Decimal `json:"wages"`
	Salary decimal.Decimal `json:"salary"`
	Other  decimal.Decimal `json:"other"`
	Total  decimal.Decimal `json:"total"`
}

// PaddyProcessed counts bags taken in during a period.
type PaddyProcessed struct {
	TotalBags decimal.Decimal `json:"totalBags"`
	PaidBags  decimal.Decimal `json:"paidBags"`
}

// ItemFigures is the paid quantity and amount of one item type.
type ItemFigures struct {
	Quantity decimal.Decimal `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// SalesBreakdown groups paid sale lines by normalized item type.
type SalesBreakdown struct {
	ByItemType map[ItemType]ItemFigures `json:"byItemType"`
}

// StockSnapshot is the current available quantity per normalized item type.
type StockSnapshot struct {
	Available map[ItemType]decimal.Decimal `json:"available"`
}

// MonthBreakdown is one bucket of the yearly breakdown.
type MonthBreakdown struct {
	Month          int             `json:"month"`
	Label          string          `json:"label"`
	Revenue        Revenue         `json:"revenue"`
	Expense        Expenses        `json:"expense"`
	Profit         decimal.Decimal `json:"profit"`
	PaddyProcessed PaddyProcessed  `json:"paddyProcessed"`
	Sales          SalesBreakdown  `json:"sales"`
}

// YearlyBreakdown holds twelve month buckets, or one when filtered by month.
type YearlyBreakdown struct {
	Year   int              `json:"year"`
	Months []MonthBreakdown `json:"months"`
}

// DashboardReport is the financial rollup of a tenant. It is computed on
// demand and never persisted as is.
type DashboardReport struct {
	ClientID       string          `json:"clientId"`
	Window         Window          `json:"window"`
	GeneratedAt    time.Time       `json:"generatedAt"`
	Revenue        Revenue         `json:"revenue"`
	Expense        Expenses        `json:"expense"`
	Profit         decimal.Decimal `json:"profit"`
	PaddyProcessed PaddyProcessed  `json:"paddyProcessed"`
	Sales          SalesBreakdown  `json:"sales"`
	Stock          StockSnapshot   `json:"stock"`
	Yearly         YearlyBreakdown `json:"yearly"`
}

// DashboardSnapshot is the flattened summary stored by the monthly report job.
type DashboardSnapshot struct {
	ClientID      string             `bson:"clientId" json:"clientId"`
	PeriodStart   time.Time          `bson:"periodStart" json:"periodStart"`
	PeriodEnd     time.Time          `bson:"periodEnd" json:"periodEnd"`
	RevenueOrders float64            `bson:"revenueOrders" json:"revenueOrders"`
	RevenueSales  float64            `bson:"revenueSales" json:"revenueSales"`
	RevenueTotal  float64            `bson:"revenueTotal" json:"revenueTotal"`
	ExpenseWages  float64            `bson:"expenseWages" json:"expenseWages"`
	ExpenseSalary float64            `bson:"expenseSalary" json:"expenseSalary"`
	ExpenseOther  float64            `bson:"expenseOther" json:"expenseOther"`
	ExpenseTotal  float64            `bson:"expenseTotal" json:"expenseTotal"`
	Profit        float64            `bson:"profit" json:"profit"`
	TotalBags     float64            `bson:"totalBags" json:"totalBags"`
	PaidBags      float64            `bson:"paidBags" json:"paidBags"`
	Stock         map[string]float64 `bson:"stock" json:"stock"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// Snapshot flattens the report's top-level summary.
func (r *DashboardReport) Snapshot(createdAt time.Time) DashboardSnapshot {
	stock := make(map[string]float64, len(r.Stock.Available))
	for itemType, qty := range r.Stock.Available {
		stock[string(itemType)] = qty.InexactFloat64()
	}

	return DashboardSnapshot{
		ClientID:      r.ClientID,
		PeriodStart:   r.Window.From,
		PeriodEnd:     r.Window.To,
		RevenueOrders: r.Revenue.Orders.InexactFloat64(),
		RevenueSales:  r.Revenue.Sales.InexactFloat64(),
		RevenueTotal:  r.Revenue.Total.InexactFloat64(),
		ExpenseWages:  r.Expense.Wages.InexactFloat64(),
		ExpenseSalary: r.Expense.Salary.InexactFloat64(),
		ExpenseOther:  r.Expense.Other.InexactFloat64(),
		ExpenseTotal:  r.Expense.Total.InexactFloat64(),
		Profit:        r.Profit.InexactFloat64(),
		TotalBags:     r.PaddyProcessed.TotalBags.InexactFloat64(),
		PaidBags:      r.PaddyProcessed.PaidBags.InexactFloat64(),
		Stock:         stock,
		CreatedAt:     createdAt,
	}
}
