package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashFlowSection of a forecast row
type CashFlowSection string

const (
	SectionOperating CashFlowSection = "Operating"
	SectionFinancing CashFlowSection = "Financing"
)

// WeeklyForecastRow represents one projected cash movement inside a forecast week
type WeeklyForecastRow struct {
	WeekNumber      int             `json:"week_number"`
	WeekStart       time.Time       `json:"week_start"`
	WeekEnd         time.Time       `json:"week_end"`
	TransactionDate time.Time       `json:"transaction_date"`
	Section         CashFlowSection `json:"cash_flow_section"`
	Category        string          `json:"cash_flow_category"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Scenario        string          `json:"scenario"`
}

// CashPositionSnapshot represents the cash position at the end of a forecast week
type CashPositionSnapshot struct {
	WeekNumber  int             `json:"week_number"`
	WeekStart   time.Time       `json:"week_start"`
	WeekEnd     time.Time       `json:"week_end"`
	NetCashFlow decimal.Decimal `json:"net_cash_flow"`
	CashBalance decimal.Decimal `json:"cash_balance"`
}

// CashPosition is the weekly cash position of a forecast and its runway.
// RunwayWeek is nil when the balance stays non-negative across the horizon.
type CashPosition struct {
	Scenario        string                 `json:"scenario"`
	StartingBalance decimal.Decimal        `json:"starting_balance"`
	Weeks           []CashPositionSnapshot `json:"weeks"`
	RunwayWeek      *int                   `json:"runway_week,omitempty"`
}

// RunRates summarizes historical actuals
type RunRates struct {
	WeeklyRevenue     decimal.Decimal            `json:"weekly_revenue"`
	WeeklyExpense     decimal.Decimal            `json:"weekly_expense"`
	RevenueByCategory map[string]decimal.Decimal `json:"revenue_by_category,omitempty"`
	ExpenseByCategory map[string]decimal.Decimal `json:"expense_by_category,omitempty"`
}
