package schedule

import (
	"github.com/Dan9191/cash-runway/internal/amortization"
	"github.com/Dan9191/cash-runway/internal/models"
)

// Validate rejects loan configurations a schedule cannot be generated from.
// A loan maturing on its start date is a boundary, not an error.
func Validate(cfg models.LoanConfiguration) error {
	if cfg.OriginalAmount.IsNegative() {
		return invalid("original_amount", "must not be negative")
	}
	if cfg.CurrentBalance.IsNegative() {
		return invalid("current_balance", "must not be negative")
	}
	if cfg.CurrentBalance.GreaterThan(cfg.OriginalAmount) {
		return invalid("current_balance", "%s exceeds original amount %s", cfg.CurrentBalance, cfg.OriginalAmount)
	}
	if cfg.AnnualRate.IsNegative() {
		return invalid("annual_rate", "must not be negative")
	}
	if cfg.PaymentDay < 1 || cfg.PaymentDay > 31 {
		return invalid("payment_day", "%d is outside 1-31", cfg.PaymentDay)
	}
	if cfg.StartDate.IsZero() {
		return invalid("start_date", "is required")
	}
	if cfg.MaturityDate.IsZero() {
		return invalid("maturity_date", "is required")
	}
	if cfg.MaturityDate.Before(cfg.StartDate) {
		return invalid("maturity_date", "%s is before start date %s",
			cfg.MaturityDate.Format(models.DateLayout), cfg.StartDate.Format(models.DateLayout))
	}

	span := amortization.MonthsBetween(cfg.StartDate, cfg.MaturityDate)

	switch s := cfg.Structure.(type) {
	case nil:
		return invalid("structure", "is required")
	case models.InterestOnlyThenAmortizing:
		if s.IOMonths < 0 {
			return invalid("io_months", "must not be negative")
		}
		if s.AmortMonths < 0 {
			return invalid("amort_months", "must not be negative")
		}
		if err := requireAmortization(cfg, s.AmortMonths); err != nil {
			return err
		}
		if s.IOMonths+s.AmortMonths != span {
			return invalid("amort_months", "io_months %d + amort_months %d do not match the %d month term",
				s.IOMonths, s.AmortMonths, span)
		}
	case models.AmortizingFromStart:
		if err := requireAmortization(cfg, span); err != nil {
			return err
		}
	case models.FixedPayment:
		if !s.Payment.IsPositive() {
			return invalid("fixed_payment", "must be positive")
		}
		interest := amortization.RoundCents(
			amortization.PeriodInterest(cfg.CurrentBalance, cfg.AnnualRate, amortization.DaysInPeriod))
		if cfg.CurrentBalance.IsPositive() && s.Payment.LessThanOrEqual(interest) {
			return invalid("fixed_payment",
				"%s does not exceed the first period interest %s: negative amortization is not supported",
				s.Payment, interest)
		}
	case models.FixedPaymentWithBalloon:
		if !s.Payment.IsPositive() {
			return invalid("fixed_payment", "must be positive")
		}
		if !s.Balloon.IsPositive() {
			return invalid("balloon_amount", "must be positive")
		}
	default:
		return invalid("structure", "unsupported kind %q", s.Kind())
	}
	return nil
}

// requireAmortization rejects a nonzero balance with no months to amortize it
// over. Only a loan maturing on its start date may have none.
func requireAmortization(cfg models.LoanConfiguration, months int) error {
	if months == 0 && cfg.CurrentBalance.IsPositive() && !cfg.StartDate.Equal(cfg.MaturityDate) {
		return invalid("amort_months", "zero-month amortization of a nonzero balance")
	}
	return nil
}
