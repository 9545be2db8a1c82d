package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType tags a scheduled payment
type PaymentType string

const (
	PaymentInterestOnly         PaymentType = "Interest Only"
	PaymentPrincipalAndInterest PaymentType = "Principal & Interest"
	PaymentFixed                PaymentType = "Fixed Payment"
	PaymentRegular              PaymentType = "Regular Payment"
	PaymentBalloon              PaymentType = "Balloon Payment"
)

// PaymentScheduleEntry represents one scheduled payment of a loan
type PaymentScheduleEntry struct {
	LoanID             string          `json:"loan_id"`
	LoanName           string          `json:"loan_name"`
	Lender             string          `json:"lender"`
	PaymentNumber      int             `json:"payment_number"`
	PaymentDate        time.Time       `json:"payment_date"`
	PaymentAmount      decimal.Decimal `json:"payment_amount"`
	PrincipalAmount    decimal.Decimal `json:"principal_amount"`
	InterestAmount     decimal.Decimal `json:"interest_amount"`
	BeginningPrincipal decimal.Decimal `json:"beginning_principal"`
	EndingPrincipal    decimal.Decimal `json:"ending_principal"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	DaysInPeriod       int             `json:"days_in_period"`
	PaymentType        PaymentType     `json:"payment_type"`
	IsProjected        bool            `json:"is_projected"`
	IsPaid             bool            `json:"is_paid"`
}

// ScheduleSummary totals a generated schedule
type ScheduleSummary struct {
	Payments       int             `json:"payments"`
	TotalPrincipal decimal.Decimal `json:"total_principal"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalPayments  decimal.Decimal `json:"total_payments"`
	FinalBalance   decimal.Decimal `json:"final_balance"`
}
