package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleRecord is the persisted shape of a PaymentScheduleEntry (debt_schedule)
type ScheduleRecord struct {
	ScheduleID         string          `json:"schedule_id"`
	LoanID             string          `json:"loan_id"`
	LoanName           string          `json:"loan_name"`
	Lender             string          `json:"lender"`
	PaymentDate        time.Time       `json:"payment_date"`
	PaymentNumber      int             `json:"payment_number"`
	PaymentAmount      decimal.Decimal `json:"payment_amount"`
	PrincipalAmount    decimal.Decimal `json:"principal_amount"`
	InterestAmount     decimal.Decimal `json:"interest_amount"`
	FeesAmount         decimal.Decimal `json:"fees_amount"`
	BeginningPrincipal decimal.Decimal `json:"beginning_principal"`
	EndingPrincipal    decimal.Decimal `json:"ending_principal"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	DaysInPeriod       int             `json:"days_in_period"`
	IsPaid             bool            `json:"is_paid"`
	PaymentType        string          `json:"payment_type"`
	IsForecast         bool            `json:"is_forecast"`
}

// ForecastRecord is the persisted shape of a WeeklyForecastRow (cash_transactions)
type ForecastRecord struct {
	TransactionID   string          `json:"transaction_id"`
	TransactionDate time.Time       `json:"transaction_date"`
	CashDate        time.Time       `json:"cash_date"`
	ValueDate       time.Time       `json:"value_date"`
	SourceSystem    string          `json:"source_system"`
	BankAccountID   string          `json:"bank_account_id"`
	Section         string          `json:"cash_flow_section"`
	Category        string          `json:"cash_flow_category"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Description     string          `json:"description"`
	IsForecast      bool            `json:"is_forecast"`
	ScenarioID      string          `json:"scenario_id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	CreatedBy       string          `json:"created_by"`
}

// NewScheduleRecord converts an entry to its persisted shape
func NewScheduleRecord(scheduleID string, e PaymentScheduleEntry) ScheduleRecord {
	return ScheduleRecord{
		ScheduleID:         scheduleID,
		LoanID:             e.LoanID,
		LoanName:           e.LoanName,
		Lender:             e.Lender,
		PaymentDate:        e.PaymentDate,
		PaymentNumber:      e.PaymentNumber,
		PaymentAmount:      e.PaymentAmount,
		PrincipalAmount:    e.PrincipalAmount,
		InterestAmount:     e.InterestAmount,
		FeesAmount:         decimal.Zero,
		BeginningPrincipal: e.BeginningPrincipal,
		EndingPrincipal:    e.EndingPrincipal,
		InterestRate:       e.InterestRate,
		DaysInPeriod:       e.DaysInPeriod,
		IsPaid:             e.IsPaid,
		PaymentType:        string(e.PaymentType),
		IsForecast:         e.IsProjected,
	}
}

// Entry converts a persisted record back to a schedule entry
func (r ScheduleRecord) Entry() PaymentScheduleEntry {
	return PaymentScheduleEntry{
		LoanID:             r.LoanID,
		LoanName:           r.LoanName,
		Lender:             r.Lender,
		PaymentNumber:      r.PaymentNumber,
		PaymentDate:        r.PaymentDate,
		PaymentAmount:      r.PaymentAmount,
		PrincipalAmount:    r.PrincipalAmount,
		InterestAmount:     r.InterestAmount,
		BeginningPrincipal: r.BeginningPrincipal,
		EndingPrincipal:    r.EndingPrincipal,
		InterestRate:       r.InterestRate,
		DaysInPeriod:       r.DaysInPeriod,
		PaymentType:        PaymentType(r.PaymentType),
		IsProjected:        r.IsForecast,
		IsPaid:             r.IsPaid,
	}
}
