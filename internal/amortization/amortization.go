// Package amortization holds the day-count and level-payment math shared by the
// schedule generator and the forecast engine. Every function is pure.
package amortization

import (
	"github.com/shopspring/decimal"
)

const (
	// DaysInPeriod is the fixed day count of a monthly period
	DaysInPeriod = 30
	// DayCountBasis is the denominator of the actual/360 convention
	DayCountBasis = 360
	// MonthsPerYear converts an annual rate into a monthly one
	MonthsPerYear = 12

	// CurrencyPlaces is the number of decimal places a finalized amount carries
	CurrencyPlaces = 2

	// precision of intermediate divisions
	precision = 20
)

var (
	one           = decimal.NewFromInt(1)
	dayCountBasis = decimal.NewFromInt(DayCountBasis)
	monthsPerYear = decimal.NewFromInt(MonthsPerYear)
)

// PeriodInterest returns balance * (annualRate / 360) * daysInPeriod at full precision
func PeriodInterest(balance, annualRate decimal.Decimal, daysInPeriod int) decimal.Decimal {
	return balance.
		Mul(annualRate).
		Mul(decimal.NewFromInt(int64(daysInPeriod))).
		DivRound(dayCountBasis, precision)
}

// LevelPayment returns the constant payment that retires principal over
// periodsRemaining monthly periods: P * r(1+r)^n / ((1+r)^n - 1) with r = annualRate/12.
// A zero rate falls back to straight-line principal/n and no remaining periods
// returns the full principal.
func LevelPayment(principal, annualRate decimal.Decimal, periodsRemaining int) decimal.Decimal {
	if periodsRemaining <= 0 {
		return principal
	}
	n := decimal.NewFromInt(int64(periodsRemaining))
	if annualRate.IsZero() {
		return principal.DivRound(n, precision)
	}

	r := annualRate.DivRound(monthsPerYear, precision)
	compound := Compound(one.Add(r), periodsRemaining)
	return principal.
		Mul(r).
		Mul(compound).
		DivRound(compound.Sub(one), precision)
}

// Compound raises base to the non-negative integer power n, holding the
// intermediate product to a bounded precision.
func Compound(base decimal.Decimal, n int) decimal.Decimal {
	result := one
	for i := 0; i < n; i++ {
		result = result.Mul(base).Round(precision)
	}
	return result
}

// RoundCents rounds a currency amount half-up (away from zero) to cents
func RoundCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(CurrencyPlaces)
}
