package forecast

import (
	"github.com/shopspring/decimal"

	"github.com/Dan9191/cash-runway/internal/amortization"
	"github.com/Dan9191/cash-runway/internal/models"
)

var weekDays = decimal.NewFromInt(DaysPerWeek)

// AnalyzeActuals derives weekly revenue and expense run-rates from historical
// actuals. Each side is its total divided by the weeks its own entries span,
// never less than one week. Expense figures are magnitudes.
func AnalyzeActuals(actuals []models.HistoricalActual) models.RunRates {
	var revenue, expense []models.HistoricalActual
	for _, a := range actuals {
		switch {
		case a.Amount.IsPositive():
			revenue = append(revenue, a)
		case a.Amount.IsNegative():
			expense = append(expense, a)
		}
	}

	rates := models.RunRates{
		WeeklyRevenue:     decimal.Zero,
		WeeklyExpense:     decimal.Zero,
		RevenueByCategory: map[string]decimal.Decimal{},
		ExpenseByCategory: map[string]decimal.Decimal{},
	}
	if len(revenue) > 0 {
		total := sumByCategory(revenue, rates.RevenueByCategory)
		rates.WeeklyRevenue = total.DivRound(spanInWeeks(revenue), 10)
	}
	if len(expense) > 0 {
		total := sumByCategory(expense, rates.ExpenseByCategory).Abs()
		rates.WeeklyExpense = total.DivRound(spanInWeeks(expense), 10)
	}
	return rates
}

func sumByCategory(actuals []models.HistoricalActual, into map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range actuals {
		total = total.Add(a.Amount)
		into[a.Category] = into[a.Category].Add(a.Amount)
	}
	return total
}

func spanInWeeks(actuals []models.HistoricalActual) decimal.Decimal {
	first, last := actuals[0].CashDate, actuals[0].CashDate
	for _, a := range actuals[1:] {
		if a.CashDate.Before(first) {
			first = a.CashDate
		}
		if a.CashDate.After(last) {
			last = a.CashDate
		}
	}
	weeks := decimal.NewFromInt(int64(amortization.DaysBetween(first, last))).DivRound(weekDays, 10)
	if weeks.LessThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return weeks
}
