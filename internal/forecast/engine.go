// Package forecast projects a rolling weekly cash forecast from historical
// actuals, recurring transactions and scheduled debt payments.
package forecast

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/cash-runway/internal/amortization"
	"github.com/Dan9191/cash-runway/internal/models"
	"github.com/Dan9191/cash-runway/internal/scenario"
)

const (
	DaysPerWeek = 7

	CategoryRevenue           = "Revenue - Ecommerce"
	CategoryOperatingExpenses = "Operating Expenses"
	CategoryDebtService       = "Debt Service"
)

// Options parameterize a forecast run
type Options struct {
	// AsOf is the evaluation date; week 1 starts on it.
	AsOf         time.Time
	HorizonWeeks int
	Scenario     string
	// ManualWeeklyRevenue is the revenue projected for every week. Revenue is
	// never derived from actuals; zero emits no revenue rows.
	ManualWeeklyRevenue decimal.Decimal
}

// Week returns the start and end date of forecast week n (1-based)
func (o Options) Week(n int) (time.Time, time.Time) {
	start := amortization.Day(o.AsOf).AddDate(0, 0, DaysPerWeek*(n-1))
	return start, start.AddDate(0, 0, DaysPerWeek-1)
}

// Build projects the weekly forecast rows over the horizon. Sparse or empty
// inputs contribute nothing; Build never fails. Rows are ordered by week.
func Build(actuals []models.HistoricalActual, recurring []models.RecurringTransaction,
	debtPayments []models.PaymentScheduleEntry, opts Options) []models.WeeklyForecastRow {
	if opts.HorizonWeeks <= 0 {
		return nil
	}

	name, factors := scenario.Resolve(opts.Scenario)
	revenue, expense := factors.Adjust(opts.ManualWeeklyRevenue, AnalyzeActuals(actuals).WeeklyExpense)
	revenue, expense = amortization.RoundCents(revenue), amortization.RoundCents(expense)

	b := &rowBuilder{opts: opts, scenario: string(name)}

	for week := 1; week <= opts.HorizonWeeks; week++ {
		_, end := opts.Week(week)
		if revenue.IsPositive() {
			b.add(week, end, models.SectionOperating, CategoryRevenue,
				fmt.Sprintf("Week %d - Revenue (forecast)", week), revenue)
		}
		b.add(week, end, models.SectionOperating, CategoryOperatingExpenses,
			fmt.Sprintf("Week %d - OpEx (forecast)", week), expense.Neg())
	}

	asOf := amortization.Day(opts.AsOf)
	for _, rec := range recurring {
		if !rec.ActiveOn(asOf) {
			continue
		}
		for week := 1; week <= opts.HorizonWeeks; week++ {
			day, ok := anchorInWeek(opts, week, rec.DayOfMonth)
			if !ok {
				continue
			}
			b.add(week, day, recurringSection(rec.Category), rec.Category,
				rec.Name+" (recurring)", amortization.RoundCents(rec.Amount))
		}
	}

	for _, payment := range debtPayments {
		if payment.IsPaid {
			continue
		}
		days := amortization.DaysBetween(asOf, payment.PaymentDate)
		if days < 0 {
			continue
		}
		week := days/DaysPerWeek + 1
		if week > opts.HorizonWeeks {
			continue
		}
		b.add(week, amortization.Day(payment.PaymentDate), models.SectionFinancing, CategoryDebtService,
			debtDescription(payment), payment.PaymentAmount.Neg())
	}

	sort.SliceStable(b.rows, func(i, j int) bool {
		return b.rows[i].WeekNumber < b.rows[j].WeekNumber
	})
	return b.rows
}

type rowBuilder struct {
	opts     Options
	scenario string
	rows     []models.WeeklyForecastRow
}

func (b *rowBuilder) add(week int, on time.Time, section models.CashFlowSection, category, description string, amount decimal.Decimal) {
	start, end := b.opts.Week(week)
	b.rows = append(b.rows, models.WeeklyForecastRow{
		WeekNumber:      week,
		WeekStart:       start,
		WeekEnd:         end,
		TransactionDate: on,
		Section:         section,
		Category:        category,
		Description:     description,
		Amount:          amount,
		Scenario:        b.scenario,
	})
}

// anchorInWeek finds the day of week n whose day-of-month is anchor. A monthly
// anchor lands in at most one week of any month.
func anchorInWeek(opts Options, week, anchor int) (time.Time, bool) {
	start, _ := opts.Week(week)
	for i := 0; i < DaysPerWeek; i++ {
		day := start.AddDate(0, 0, i)
		if day.Day() == anchor {
			return day, true
		}
	}
	return time.Time{}, false
}

func recurringSection(category string) models.CashFlowSection {
	if strings.Contains(category, "Debt") || strings.Contains(category, "Loan") {
		return models.SectionFinancing
	}
	return models.SectionOperating
}

func debtDescription(p models.PaymentScheduleEntry) string {
	if p.Lender == "" {
		return p.LoanName
	}
	return p.LoanName + " - " + p.Lender
}
