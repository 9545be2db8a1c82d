package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StructureKind names a payment structure variant
type StructureKind string

const (
	StructureInterestOnlyThenAmortizing StructureKind = "interest_only_then_amortizing"
	StructureAmortizingFromStart        StructureKind = "amortizing_from_start"
	StructureFixedPayment               StructureKind = "fixed_payment"
	StructureFixedPaymentWithBalloon    StructureKind = "fixed_payment_with_balloon"
)

// PaymentStructure is one of InterestOnlyThenAmortizing, AmortizingFromStart,
// FixedPayment or FixedPaymentWithBalloon.
type PaymentStructure interface {
	Kind() StructureKind
	paymentStructure()
}

// InterestOnlyThenAmortizing pays interest only for IOMonths, then amortizes over AmortMonths
type InterestOnlyThenAmortizing struct {
	IOMonths    int
	AmortMonths int
}

// AmortizingFromStart amortizes over the whole start to maturity span
type AmortizingFromStart struct{}

// FixedPayment pays a constant amount each period until the balance or the term runs out
type FixedPayment struct {
	Payment decimal.Decimal
}

// FixedPaymentWithBalloon pays a constant amount each period and settles the rest at maturity
type FixedPaymentWithBalloon struct {
	Payment decimal.Decimal
	Balloon decimal.Decimal
}

func (InterestOnlyThenAmortizing) Kind() StructureKind { return StructureInterestOnlyThenAmortizing }
func (AmortizingFromStart) Kind() StructureKind        { return StructureAmortizingFromStart }
func (FixedPayment) Kind() StructureKind               { return StructureFixedPayment }
func (FixedPaymentWithBalloon) Kind() StructureKind    { return StructureFixedPaymentWithBalloon }

func (InterestOnlyThenAmortizing) paymentStructure() {}
func (AmortizingFromStart) paymentStructure()        {}
func (FixedPayment) paymentStructure()               {}
func (FixedPaymentWithBalloon) paymentStructure()    {}

// LoanConfiguration describes a loan to build a payment schedule for
type LoanConfiguration struct {
	LoanID         string
	LoanName       string
	Lender         string
	OriginalAmount decimal.Decimal
	CurrentBalance decimal.Decimal
	AnnualRate     decimal.Decimal // fraction, e.g. 0.1075
	PaymentDay     int
	StartDate      time.Time
	MaturityDate   time.Time
	Structure      PaymentStructure

	// Floating rate loans quote a margin over a reference index (e.g. prime + 2.25%).
	// When RateIndex is set AnnualRate is resolved before generation.
	RateIndex  string
	RateMargin decimal.Decimal
}

// IsFloating reports whether the rate must be resolved from a reference index
func (c LoanConfiguration) IsFloating() bool {
	return c.RateIndex != ""
}
