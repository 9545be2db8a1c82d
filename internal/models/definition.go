package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/cash-runway/internal/amortization"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// LoanDefinition is the flat, serializable form of a LoanConfiguration used by
// the API and by loan definition files. Currency values are decimal strings.
type LoanDefinition struct {
	LoanID         string           `json:"loan_id" toml:"loan_id"`
	LoanName       string           `json:"loan_name" toml:"loan_name"`
	Lender         string           `json:"lender" toml:"lender"`
	Structure      StructureKind    `json:"structure" toml:"structure"`
	OriginalAmount decimal.Decimal  `json:"original_amount" toml:"original_amount"`
	CurrentBalance *decimal.Decimal `json:"current_balance,omitempty" toml:"current_balance"`
	AnnualRate     decimal.Decimal  `json:"annual_rate" toml:"annual_rate"`
	RateIndex      string           `json:"rate_index,omitempty" toml:"rate_index"`
	RateMargin     decimal.Decimal  `json:"rate_margin" toml:"rate_margin"`
	PaymentDay     int              `json:"payment_day" toml:"payment_day"`
	StartDate      string           `json:"start_date" toml:"start_date"`
	MaturityDate   string           `json:"maturity_date" toml:"maturity_date"`
	IOMonths       int              `json:"io_months,omitempty" toml:"io_months"`
	AmortMonths    int              `json:"amort_months,omitempty" toml:"amort_months"`
	FixedPayment   decimal.Decimal  `json:"fixed_payment" toml:"fixed_payment"`
	BalloonAmount  decimal.Decimal  `json:"balloon_amount" toml:"balloon_amount"`
}

// ToConfiguration builds the LoanConfiguration described by d. An absent current
// balance means nothing has been repaid yet; zero means the loan is paid off.
// For the interest-only structure a zero AmortMonths is derived from the start
// to maturity span.
func (d LoanDefinition) ToConfiguration() (LoanConfiguration, error) {
	start, err := time.Parse(DateLayout, d.StartDate)
	if err != nil {
		return LoanConfiguration{}, fmt.Errorf("invalid start_date %q: %w", d.StartDate, err)
	}
	maturity, err := time.Parse(DateLayout, d.MaturityDate)
	if err != nil {
		return LoanConfiguration{}, fmt.Errorf("invalid maturity_date %q: %w", d.MaturityDate, err)
	}

	balance := d.OriginalAmount
	if d.CurrentBalance != nil {
		balance = *d.CurrentBalance
	}

	var structure PaymentStructure
	switch d.Structure {
	case StructureInterestOnlyThenAmortizing:
		amort := d.AmortMonths
		if amort == 0 {
			amort = amortization.MonthsBetween(start, maturity) - d.IOMonths
		}
		structure = InterestOnlyThenAmortizing{IOMonths: d.IOMonths, AmortMonths: amort}
	case StructureAmortizingFromStart:
		structure = AmortizingFromStart{}
	case StructureFixedPayment:
		structure = FixedPayment{Payment: d.FixedPayment}
	case StructureFixedPaymentWithBalloon:
		structure = FixedPaymentWithBalloon{Payment: d.FixedPayment, Balloon: d.BalloonAmount}
	default:
		return LoanConfiguration{}, fmt.Errorf("unknown payment structure %q", d.Structure)
	}

	return LoanConfiguration{
		LoanID:         d.LoanID,
		LoanName:       d.LoanName,
		Lender:         d.Lender,
		OriginalAmount: d.OriginalAmount,
		CurrentBalance: balance,
		AnnualRate:     d.AnnualRate,
		PaymentDay:     d.PaymentDay,
		StartDate:      start,
		MaturityDate:   maturity,
		Structure:      structure,
		RateIndex:      d.RateIndex,
		RateMargin:     d.RateMargin,
	}, nil
}
