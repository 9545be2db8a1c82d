package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/cash-runway/internal/models"
)

var cent = decimal.RequireFromString("0.01")

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func within(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(cent)
}

// requireReconciles checks the per-entry identities every schedule must hold
func requireReconciles(t *testing.T, entries []models.PaymentScheduleEntry) {
	t.Helper()
	for i, e := range entries {
		assert.Equal(t, i+1, e.PaymentNumber)
		assert.True(t, within(e.BeginningPrincipal.Sub(e.PrincipalAmount), e.EndingPrincipal),
			"payment %d: %s - %s != %s", e.PaymentNumber, e.BeginningPrincipal, e.PrincipalAmount, e.EndingPrincipal)
		if e.PaymentType != models.PaymentBalloon {
			assert.True(t, within(e.PrincipalAmount.Add(e.InterestAmount), e.PaymentAmount),
				"payment %d: %s + %s != %s", e.PaymentNumber, e.PrincipalAmount, e.InterestAmount, e.PaymentAmount)
		}
		assert.False(t, e.EndingPrincipal.IsNegative(), "payment %d ends negative", e.PaymentNumber)
		if i > 0 {
			prev := entries[i-1].PaymentDate
			assert.True(t, e.PaymentDate.After(prev), "payment %d is not after %s", e.PaymentNumber, prev)
			assert.GreaterOrEqual(t, e.PaymentDate.Year()*12+int(e.PaymentDate.Month()), prev.Year()*12+int(prev.Month()))
		}
	}
}

func totalPrincipal(entries []models.PaymentScheduleEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.PrincipalAmount)
	}
	return total
}

func loan(balance, rate string, start, maturity time.Time, day int, s models.PaymentStructure) models.LoanConfiguration {
	return models.LoanConfiguration{
		LoanID:         "loan_test",
		LoanName:       "Test Loan",
		Lender:         "Test Bank",
		OriginalAmount: d(balance),
		CurrentBalance: d(balance),
		AnnualRate:     d(rate),
		PaymentDay:     day,
		StartDate:      start,
		MaturityDate:   maturity,
		Structure:      s,
	}
}

func TestGenerateTwelveMonthAmortization(t *testing.T) {
	cfg := loan("100000", "0.12", date(2025, time.January, 15), date(2026, time.January, 15), 15,
		models.InterestOnlyThenAmortizing{IOMonths: 0, AmortMonths: 12})

	entries, err := Generate(cfg, date(2025, time.January, 1))
	require.NoError(t, err)
	require.Len(t, entries, 12)
	requireReconciles(t, entries)

	assert.Equal(t, "1000.00", entries[0].InterestAmount.StringFixed(2))
	assert.Equal(t, "8884.88", entries[0].PaymentAmount.StringFixed(2))
	assert.Equal(t, "2025-01-15", entries[0].PaymentDate.Format(models.DateLayout))
	assert.Equal(t, "2025-12-15", entries[11].PaymentDate.Format(models.DateLayout))
	assert.True(t, entries[11].EndingPrincipal.IsZero())
	assert.True(t, within(totalPrincipal(entries), d("100000")))
	for _, e := range entries {
		assert.Equal(t, models.PaymentPrincipalAndInterest, e.PaymentType)
		assert.Equal(t, 30, e.DaysInPeriod)
	}
}

func TestGenerateInterestOnlyThenAmortizing(t *testing.T) {
	cfg := loan("350000", "0.1075", date(2024, time.May, 30), date(2031, time.May, 30), 30,
		models.InterestOnlyThenAmortizing{IOMonths: 24, AmortMonths: 60})
	cfg.OriginalAmount = d("500000")

	entries, err := Generate(cfg, date(2025, time.October, 1))
	require.NoError(t, err)
	require.Len(t, entries, 84)
	requireReconciles(t, entries)

	for _, e := range entries[:24] {
		assert.Equal(t, models.PaymentInterestOnly, e.PaymentType)
		assert.True(t, e.PrincipalAmount.IsZero())
		assert.Equal(t, "3135.42", e.InterestAmount.StringFixed(2))
		assert.True(t, e.BeginningPrincipal.Equal(d("350000")))
	}
	for _, e := range entries[24:] {
		assert.Equal(t, models.PaymentPrincipalAndInterest, e.PaymentType)
	}

	// february has no 30th
	assert.Equal(t, "2025-02-28", entries[9].PaymentDate.Format(models.DateLayout))
	assert.Equal(t, "2026-05-30", entries[24].PaymentDate.Format(models.DateLayout))

	last := entries[len(entries)-1]
	assert.True(t, last.EndingPrincipal.IsZero())
	assert.True(t, within(totalPrincipal(entries), d("350000")))

	assert.True(t, entries[0].IsPaid)
	assert.False(t, entries[0].IsProjected)
	assert.False(t, last.IsPaid)
	assert.True(t, last.IsProjected)
}

func TestGenerateAmortizingFromStart(t *testing.T) {
	cfg := loan("48000", "0.085", date(2025, time.March, 10), date(2028, time.March, 10), 10,
		models.AmortizingFromStart{})

	entries, err := Generate(cfg, date(2025, time.March, 1))
	require.NoError(t, err)
	require.Len(t, entries, 36)
	requireReconciles(t, entries)
	assert.True(t, entries[35].EndingPrincipal.IsZero())
	assert.True(t, within(totalPrincipal(entries), d("48000")))

	// level payments stay flat until the final true-up
	for _, e := range entries[1:35] {
		assert.True(t, within(e.PaymentAmount, entries[0].PaymentAmount), "payment %d drifted to %s", e.PaymentNumber, e.PaymentAmount)
	}
}

func TestGenerateZeroRateIsStraightLine(t *testing.T) {
	cfg := loan("12000", "0", date(2025, time.January, 5), date(2026, time.January, 5), 5,
		models.AmortizingFromStart{})

	entries, err := Generate(cfg, date(2025, time.January, 1))
	require.NoError(t, err)
	require.Len(t, entries, 12)
	requireReconciles(t, entries)
	for _, e := range entries {
		assert.True(t, e.InterestAmount.IsZero())
		assert.Equal(t, "1000.00", e.PaymentAmount.StringFixed(2))
	}
}

func TestGenerateUnevenBalanceClosesAtZero(t *testing.T) {
	cfg := loan("77777.77", "0.0999", date(2025, time.January, 31), date(2032, time.January, 31), 31,
		models.AmortizingFromStart{})

	entries, err := Generate(cfg, date(2025, time.January, 1))
	require.NoError(t, err)
	require.Len(t, entries, 84)
	requireReconciles(t, entries)
	assert.True(t, entries[83].EndingPrincipal.IsZero())
	assert.True(t, within(totalPrincipal(entries), d("77777.77")))
}

func TestGeneratePaymentDayClampsToMonthEnd(t *testing.T) {
	cfg := loan("6000", "0.06", date(2025, time.April, 1), date(2025, time.October, 1), 31,
		models.AmortizingFromStart{})

	entries, err := Generate(cfg, date(2025, time.April, 1))
	require.NoError(t, err)
	require.Len(t, entries, 6)
	assert.Equal(t, "2025-04-30", entries[0].PaymentDate.Format(models.DateLayout))
	assert.Equal(t, "2025-05-31", entries[1].PaymentDate.Format(models.DateLayout))
	assert.Equal(t, "2025-06-30", entries[2].PaymentDate.Format(models.DateLayout))
}

func TestGenerateFixedPaymentRetiresEarly(t *testing.T) {
	cfg := loan("10000", "0.06", date(2025, time.January, 1), date(2030, time.January, 1), 1,
		models.FixedPayment{Payment: d("1000")})

	entries, err := Generate(cfg, date(2025, time.January, 1))
	require.NoError(t, err)
	requireReconciles(t, entries)

	assert.Len(t, entries, 11)
	last := entries[len(entries)-1]
	assert.True(t, last.EndingPrincipal.IsZero())
	assert.True(t, last.PaymentAmount.LessThan(d("1000")))
	for _, e := range entries[:len(entries)-1] {
		assert.Equal(t, models.PaymentFixed, e.PaymentType)
		assert.Equal(t, "1000.00", e.PaymentAmount.StringFixed(2))
	}
}

func TestGenerateFixedPaymentStopsAtMaturity(t *testing.T) {
	cfg := loan("10000", "0.06", date(2025, time.January, 1), date(2025, time.June, 1), 1,
		models.FixedPayment{Payment: d("500")})

	entries, err := Generate(cfg, date(2025, time.January, 1))
	require.NoError(t, err)
	requireReconciles(t, entries)

	// January through June, all on or before maturity
	require.Len(t, entries, 6)
	assert.Equal(t, "2025-06-01", entries[5].PaymentDate.Format(models.DateLayout))
	assert.True(t, entries[5].EndingPrincipal.IsPositive())
}

func TestGenerateBalloon(t *testing.T) {
	cfg := loan("100000", "0.06", date(2025, time.January, 1), date(2027, time.January, 1), 1,
		models.FixedPaymentWithBalloon{Payment: d("1000"), Balloon: d("80000")})

	entries, err := Generate(cfg, date(2025, time.January, 1))
	require.NoError(t, err)
	require.Len(t, entries, 25)
	requireReconciles(t, entries)

	for _, e := range entries[:24] {
		assert.Equal(t, models.PaymentRegular, e.PaymentType)
		assert.Equal(t, "1000.00", e.PaymentAmount.StringFixed(2))
		assert.True(t, e.PaymentDate.Before(cfg.MaturityDate))
	}
	// first period: 500 interest, 500 principal
	assert.Equal(t, "500.00", entries[0].InterestAmount.StringFixed(2))
	assert.Equal(t, "500.00", entries[0].PrincipalAmount.StringFixed(2))

	balloon := entries[24]
	assert.Equal(t, models.PaymentBalloon, balloon.PaymentType)
	assert.True(t, balloon.PaymentDate.Equal(cfg.MaturityDate))
	assert.Equal(t, "80000.00", balloon.PaymentAmount.StringFixed(2))
	assert.True(t, balloon.PrincipalAmount.Equal(entries[23].EndingPrincipal))
	assert.True(t, balloon.EndingPrincipal.IsZero())
	assert.True(t, balloon.InterestAmount.IsPositive())
}

func TestGenerateStartEqualsMaturity(t *testing.T) {
	day := date(2025, time.March, 15)

	entries, err := Generate(loan("5000", "0.05", day, day, 15, models.AmortizingFromStart{}), day)
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = Generate(loan("5000", "0.05", day, day, 15,
		models.FixedPaymentWithBalloon{Payment: d("100"), Balloon: d("5000")}), day)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.PaymentBalloon, entries[0].PaymentType)
	assert.True(t, entries[0].EndingPrincipal.IsZero())
}

func TestGenerateStartEqualsMaturityEarlyPaymentDay(t *testing.T) {
	day := date(2025, time.March, 15)

	entries, err := Generate(loan("5000", "0.05", day, day, 1,
		models.FixedPaymentWithBalloon{Payment: d("100"), Balloon: d("5000")}), day)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.PaymentBalloon, entries[0].PaymentType)
	assert.True(t, entries[0].PaymentDate.Equal(day))

	entries, err = Generate(loan("5000", "0.05", day, day, 1, models.FixedPayment{Payment: d("500")}), day)
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = Generate(loan("5000", "0.05", day, day, 1, models.InterestOnlyThenAmortizing{}), day)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateSameMonthZeroBalanceIsEmpty(t *testing.T) {
	entries, err := Generate(loan("0", "0.05", date(2025, time.March, 1), date(2025, time.March, 31), 15,
		models.AmortizingFromStart{}), date(2025, time.March, 1))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateZeroBalanceIsEmpty(t *testing.T) {
	cfg := loan("0", "0.05", date(2025, time.January, 1), date(2026, time.January, 1), 1, models.AmortizingFromStart{})
	entries, err := Generate(cfg, date(2025, time.January, 1))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := loan("250000", "0.0725", date(2025, time.February, 28), date(2030, time.February, 28), 28,
		models.InterestOnlyThenAmortizing{IOMonths: 6, AmortMonths: 54})
	asOf := date(2025, time.June, 1)

	first, err := Generate(cfg, asOf)
	require.NoError(t, err)
	second, err := Generate(cfg, asOf)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidateRejectsBadConfigurations(t *testing.T) {
	start, maturity := date(2025, time.January, 1), date(2026, time.January, 1)
	tests := []struct {
		name  string
		field string
		cfg   models.LoanConfiguration
	}{
		{"negative rate", "annual_rate", loan("1000", "-0.01", start, maturity, 1, models.AmortizingFromStart{})},
		{"maturity before start", "maturity_date", loan("1000", "0.05", maturity, start, 1, models.AmortizingFromStart{})},
		{"zero amortization", "amort_months", loan("1000", "0.05", start, maturity, 1,
			models.InterestOnlyThenAmortizing{IOMonths: 12, AmortMonths: 0})},
		{"inconsistent term", "amort_months", loan("1000", "0.05", start, maturity, 1,
			models.InterestOnlyThenAmortizing{IOMonths: 6, AmortMonths: 12})},
		{"same month amortizing", "amort_months", loan("5000", "0.05", date(2025, time.March, 1), date(2025, time.March, 31), 15,
			models.AmortizingFromStart{})},
		{"same month interest only", "amort_months", loan("5000", "0.05", date(2025, time.March, 1), date(2025, time.March, 31), 15,
			models.InterestOnlyThenAmortizing{})},
		{"payment day", "payment_day", loan("1000", "0.05", start, maturity, 32, models.AmortizingFromStart{})},
		{"missing structure", "structure", loan("1000", "0.05", start, maturity, 1, nil)},
		{"fixed below interest", "fixed_payment", loan("100000", "0.12", start, maturity, 1,
			models.FixedPayment{Payment: d("1000")})},
		{"balloon without amount", "balloon_amount", loan("1000", "0.05", start, maturity, 1,
			models.FixedPaymentWithBalloon{Payment: d("10")})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.cfg, start)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration))

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestValidateRejectsBalanceAboveOriginal(t *testing.T) {
	cfg := loan("1000", "0.05", date(2025, time.January, 1), date(2026, time.January, 1), 1, models.AmortizingFromStart{})
	cfg.CurrentBalance = d("1000.01")
	err := Validate(cfg)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestSummarize(t *testing.T) {
	cfg := loan("100000", "0.12", date(2025, time.January, 15), date(2026, time.January, 15), 15,
		models.AmortizingFromStart{})
	entries, err := Generate(cfg, date(2025, time.January, 1))
	require.NoError(t, err)

	summary := Summarize(entries)
	assert.Equal(t, 12, summary.Payments)
	assert.True(t, summary.TotalPrincipal.Equal(d("100000")))
	assert.True(t, summary.TotalPayments.Equal(summary.TotalPrincipal.Add(summary.TotalInterest)))
	assert.True(t, summary.FinalBalance.IsZero())
}

func TestValidateFixedPaymentNegativeAmortization(t *testing.T) {
	cfg := loan("100000", "0.12", date(2025, time.January, 1), date(2026, time.January, 1), 1,
		models.FixedPayment{Payment: d("1000")})
	err := Validate(cfg)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "negative amortization is not supported")
}
