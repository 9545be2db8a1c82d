package forecast

import (
	"github.com/shopspring/decimal"

	"github.com/Dan9191/cash-runway/internal/models"
	"github.com/Dan9191/cash-runway/internal/scenario"
)

// Position aggregates forecast rows into a weekly cash position. Every week of
// the horizon gets a snapshot, including weeks without rows. The runway is the
// first week whose cumulative balance is negative.
func Position(rows []models.WeeklyForecastRow, startingBalance decimal.Decimal, opts Options) models.CashPosition {
	name, _ := scenario.Resolve(opts.Scenario)
	position := models.CashPosition{
		Scenario:        string(name),
		StartingBalance: startingBalance,
	}
	if opts.HorizonWeeks <= 0 {
		return position
	}

	net := make([]decimal.Decimal, opts.HorizonWeeks+1)
	for i := range net {
		net[i] = decimal.Zero
	}
	for _, row := range rows {
		if row.WeekNumber < 1 || row.WeekNumber > opts.HorizonWeeks {
			continue
		}
		net[row.WeekNumber] = net[row.WeekNumber].Add(row.Amount)
	}

	balance := startingBalance
	for week := 1; week <= opts.HorizonWeeks; week++ {
		balance = balance.Add(net[week])
		start, end := opts.Week(week)
		position.Weeks = append(position.Weeks, models.CashPositionSnapshot{
			WeekNumber:  week,
			WeekStart:   start,
			WeekEnd:     end,
			NetCashFlow: net[week],
			CashBalance: balance,
		})
		if position.RunwayWeek == nil && balance.IsNegative() {
			runway := week
			position.RunwayWeek = &runway
		}
	}
	return position
}
