package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency of a recurring transaction
type Frequency string

const FrequencyMonthly Frequency = "Monthly"

// RecurringTransaction is a named periodic cash event. Negative amounts are outflows.
type RecurringTransaction struct {
	RecurringID string          `json:"recurring_id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Frequency   Frequency       `json:"frequency"`
	DayOfMonth  int             `json:"day_of_month"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	IsActive    bool            `json:"is_active"`
}

// ActiveOn reports whether the transaction is active on day
func (r RecurringTransaction) ActiveOn(day time.Time) bool {
	if !r.IsActive || r.StartDate.After(day) {
		return false
	}
	return r.EndDate == nil || !r.EndDate.Before(day)
}

// HistoricalActual is a realized, signed cash movement
type HistoricalActual struct {
	CashDate time.Time       `json:"cash_date"`
	Section  string          `json:"cash_flow_section"`
	Category string          `json:"cash_flow_category"`
	Amount   decimal.Decimal `json:"amount"`
}
