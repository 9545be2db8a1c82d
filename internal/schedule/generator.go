// Package schedule synthesizes amortizing payment schedules from a loan configuration.
package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/cash-runway/internal/amortization"
	"github.com/Dan9191/cash-runway/internal/models"
)

// Generate builds the full payment schedule of cfg. Entries dated before asOf are
// reported as paid, the rest as projected. Generate performs no I/O and returns
// the same entries for the same inputs.
func Generate(cfg models.LoanConfiguration, asOf time.Time) ([]models.PaymentScheduleEntry, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	b := &builder{
		cfg:     cfg,
		asOf:    amortization.Day(asOf),
		balance: amortization.RoundCents(cfg.CurrentBalance),
	}

	switch s := cfg.Structure.(type) {
	case models.InterestOnlyThenAmortizing:
		b.interestOnly(s.IOMonths)
		b.amortize(s.AmortMonths)
	case models.AmortizingFromStart:
		b.amortize(amortization.MonthsBetween(cfg.StartDate, cfg.MaturityDate))
	case models.FixedPayment:
		b.fixed(s.Payment)
	case models.FixedPaymentWithBalloon:
		b.balloon(s.Payment, s.Balloon)
	}

	return b.entries, nil
}

// builder carries the declining balance across periods. The balance is kept at
// cent precision so every emitted entry reconciles exactly.
type builder struct {
	cfg     models.LoanConfiguration
	asOf    time.Time
	balance decimal.Decimal
	entries []models.PaymentScheduleEntry
}

func (b *builder) nextDate() time.Time {
	return amortization.PaymentDate(b.cfg.StartDate, len(b.entries), b.cfg.PaymentDay)
}

// periodic reports whether the loan has periods before maturity. A loan
// maturing on its start date has none.
func (b *builder) periodic() bool {
	return !b.cfg.StartDate.Equal(b.cfg.MaturityDate)
}

func (b *builder) interest() decimal.Decimal {
	return amortization.RoundCents(
		amortization.PeriodInterest(b.balance, b.cfg.AnnualRate, amortization.DaysInPeriod))
}

func (b *builder) emit(date time.Time, kind models.PaymentType, payment, principal, interest decimal.Decimal) {
	beginning := b.balance
	ending := beginning.Sub(principal)
	projected := !date.Before(b.asOf)

	b.entries = append(b.entries, models.PaymentScheduleEntry{
		LoanID:             b.cfg.LoanID,
		LoanName:           b.cfg.LoanName,
		Lender:             b.cfg.Lender,
		PaymentNumber:      len(b.entries) + 1,
		PaymentDate:        date,
		PaymentAmount:      payment,
		PrincipalAmount:    principal,
		InterestAmount:     interest,
		BeginningPrincipal: beginning,
		EndingPrincipal:    ending,
		InterestRate:       b.cfg.AnnualRate,
		DaysInPeriod:       amortization.DaysInPeriod,
		PaymentType:        kind,
		IsProjected:        projected,
		IsPaid:             !projected,
	})
	b.balance = ending
}

func (b *builder) interestOnly(months int) {
	for i := 0; i < months && b.balance.IsPositive(); i++ {
		interest := b.interest()
		b.emit(b.nextDate(), models.PaymentInterestOnly, interest, decimal.Zero, interest)
	}
}

// amortize recomputes the level payment each period against the declining
// balance. The last period retires whatever balance is left.
func (b *builder) amortize(months int) {
	for remaining := months; remaining > 0 && b.balance.IsPositive(); remaining-- {
		interest := b.interest()
		payment := amortization.RoundCents(
			amortization.LevelPayment(b.balance, b.cfg.AnnualRate, remaining))
		principal := payment.Sub(interest)

		if remaining == 1 || principal.GreaterThan(b.balance) {
			principal = b.balance
			payment = principal.Add(interest)
		}
		b.emit(b.nextDate(), models.PaymentPrincipalAndInterest, payment, principal, interest)
	}
}

// fixed stops when the balance is retired or at maturity, whichever comes
// first. A payment too small to amortize leaves a balance at maturity.
func (b *builder) fixed(amount decimal.Decimal) {
	for b.periodic() && b.balance.IsPositive() {
		date := b.nextDate()
		if date.After(b.cfg.MaturityDate) {
			return
		}
		interest := b.interest()
		principal := minDecimal(amount.Sub(interest), b.balance)
		b.emit(date, models.PaymentFixed, principal.Add(interest), principal, interest)
	}
}

// balloon pays amount every period strictly before maturity, then settles the
// remaining balance with one balloon payment dated at maturity. The balloon
// total is contractual and does not reconcile against its interest.
func (b *builder) balloon(amount, balloon decimal.Decimal) {
	for b.periodic() && b.balance.IsPositive() {
		date := b.nextDate()
		if !date.Before(b.cfg.MaturityDate) {
			break
		}
		interest := b.interest()
		principal := amount.Sub(interest)
		payment := amount
		if principal.GreaterThan(b.balance) {
			principal = b.balance
			payment = principal.Add(interest)
		}
		b.emit(date, models.PaymentRegular, payment, principal, interest)
	}

	if !b.balance.IsPositive() {
		return
	}
	b.emit(b.cfg.MaturityDate, models.PaymentBalloon, amortization.RoundCents(balloon), b.balance, b.interest())
}

// Summarize totals a generated schedule
func Summarize(entries []models.PaymentScheduleEntry) models.ScheduleSummary {
	summary := models.ScheduleSummary{
		Payments:       len(entries),
		TotalPrincipal: decimal.Zero,
		TotalInterest:  decimal.Zero,
		TotalPayments:  decimal.Zero,
		FinalBalance:   decimal.Zero,
	}
	for _, e := range entries {
		summary.TotalPrincipal = summary.TotalPrincipal.Add(e.PrincipalAmount)
		summary.TotalInterest = summary.TotalInterest.Add(e.InterestAmount)
		summary.TotalPayments = summary.TotalPayments.Add(e.PaymentAmount)
	}
	if len(entries) > 0 {
		summary.FinalBalance = entries[len(entries)-1].EndingPrincipal
	}
	return summary
}

func minDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
