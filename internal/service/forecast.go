package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/cash-runway/internal/cache"
	"github.com/Dan9191/cash-runway/internal/forecast"
	"github.com/Dan9191/cash-runway/internal/models"
	"github.com/Dan9191/cash-runway/internal/scenario"
)

const (
	forecastSourceSystem = "forecast"
	forecastCreatedBy    = "forecast_engine"
)

// ForecastRequest parameterizes a forecast run. Zero Weeks means the configured
// horizon; a nil StartingBalance means the configured cash balance.
type ForecastRequest struct {
	Weeks           int              `json:"weeks"`
	Scenario        string           `json:"scenario"`
	WeeklyRevenue   decimal.Decimal  `json:"weekly_revenue"`
	StartingBalance *decimal.Decimal `json:"starting_balance,omitempty"`
	Preview         bool             `json:"preview"`
}

// ForecastResult is a forecast run with its weekly position
type ForecastResult struct {
	AsOf      time.Time                  `json:"as_of"`
	Rows      []models.WeeklyForecastRow `json:"rows"`
	Position  models.CashPosition        `json:"position"`
	RunRates  models.RunRates            `json:"run_rates"`
	Persisted bool                       `json:"persisted"`
}

// BuildForecast projects the cash forecast as of today. Unless preview is set
// the stored forecast of the scenario is replaced and the position cached.
func (s *Service) BuildForecast(ctx context.Context, req ForecastRequest) (*ForecastResult, error) {
	weeks := req.Weeks
	if weeks == 0 {
		weeks = s.config.ForecastWeeks
	}
	if weeks < 0 {
		return nil, fmt.Errorf("%w: weeks must not be negative", ErrInvalidRequest)
	}
	if req.WeeklyRevenue.IsNegative() {
		return nil, fmt.Errorf("%w: weekly revenue must not be negative", ErrInvalidRequest)
	}
	starting := s.config.StartingCashBalance
	if req.StartingBalance != nil {
		starting = *req.StartingBalance
	}

	asOf := s.today()
	opts := forecast.Options{
		AsOf:                asOf,
		HorizonWeeks:        weeks,
		Scenario:            req.Scenario,
		ManualWeeklyRevenue: req.WeeklyRevenue,
	}

	actuals, err := s.repo.HistoricalActuals(ctx, asOf.AddDate(0, 0, -forecast.DaysPerWeek*s.config.LookbackWeeks))
	if err != nil {
		return nil, fmt.Errorf("failed to load historical actuals: %w", err)
	}
	recurring, err := s.repo.RecurringTransactions(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load recurring transactions: %w", err)
	}
	var debt []models.PaymentScheduleEntry
	if weeks > 0 {
		_, horizonEnd := opts.Week(weeks)
		if debt, err = s.repo.DebtPayments(ctx, asOf, horizonEnd); err != nil {
			return nil, fmt.Errorf("failed to load debt payments: %w", err)
		}
	}

	rows := forecast.Build(actuals, recurring, debt, opts)
	result := &ForecastResult{
		AsOf:     asOf,
		Rows:     rows,
		Position: forecast.Position(rows, starting, opts),
		RunRates: forecast.AnalyzeActuals(actuals),
	}
	log := s.log.WithFields(logrus.Fields{"scenario": result.Position.Scenario, "weeks": weeks, "rows": len(rows)})
	if result.Position.RunwayWeek != nil {
		log = log.WithField("runway_week", *result.Position.RunwayWeek)
	}

	if req.Preview {
		log.Info("Forecast previewed")
		return result, nil
	}

	if err := s.repo.ReplaceForecast(ctx, result.Position.Scenario, s.forecastRecords(rows)); err != nil {
		return nil, fmt.Errorf("failed to store %s forecast: %w", result.Position.Scenario, err)
	}
	result.Persisted = true
	s.cachePosition(ctx, result.Position, weeks)
	s.alertRunway(result.Position, asOf)

	log.Info("Forecast stored")
	return result, nil
}

// CashPosition returns the weekly position of a scenario, from cache when possible.
// On a miss the position is computed with the configured revenue and balance.
func (s *Service) CashPosition(ctx context.Context, scenarioID string, weeks int) (*models.CashPosition, error) {
	name, _ := scenario.Resolve(scenarioID)
	if weeks == 0 {
		weeks = s.config.ForecastWeeks
	}
	key := cache.PositionKey(string(name), weeks)

	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warnf("Failed to read cached position %s: %v", key, err)
	}
	if ok {
		var position models.CashPosition
		if err := json.Unmarshal([]byte(raw), &position); err == nil {
			return &position, nil
		}
		s.log.Warnf("Discarding malformed cached position %s", key)
	}

	result, err := s.BuildForecast(ctx, ForecastRequest{
		Weeks:         weeks,
		Scenario:      string(name),
		WeeklyRevenue: s.config.WeeklyRevenue,
		Preview:       true,
	})
	if err != nil {
		return nil, err
	}
	s.cachePosition(ctx, result.Position, weeks)
	return &result.Position, nil
}

// RebuildForecasts regenerates and stores the forecast of every scenario
func (s *Service) RebuildForecasts(ctx context.Context) error {
	for _, name := range scenario.Names() {
		if _, err := s.BuildForecast(ctx, ForecastRequest{
			Scenario:      string(name),
			WeeklyRevenue: s.config.WeeklyRevenue,
		}); err != nil {
			return fmt.Errorf("failed to rebuild %s forecast: %w", name, err)
		}
	}
	return nil
}

func (s *Service) forecastRecords(rows []models.WeeklyForecastRow) []models.ForecastRecord {
	now := s.now().UTC()
	records := make([]models.ForecastRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.ForecastRecord{
			TransactionID:   uuid.NewString(),
			TransactionDate: row.TransactionDate,
			CashDate:        row.TransactionDate,
			ValueDate:       row.TransactionDate,
			SourceSystem:    forecastSourceSystem,
			BankAccountID:   s.config.BankAccountID,
			Section:         string(row.Section),
			Category:        row.Category,
			Amount:          row.Amount,
			Currency:        s.config.Currency,
			Description:     row.Description,
			IsForecast:      true,
			ScenarioID:      row.Scenario,
			CreatedAt:       now,
			UpdatedAt:       now,
			CreatedBy:       forecastCreatedBy,
		})
	}
	return records
}

func (s *Service) cachePosition(ctx context.Context, position models.CashPosition, weeks int) {
	raw, err := json.Marshal(position)
	if err != nil {
		s.log.Warnf("Failed to encode cash position: %v", err)
		return
	}
	key := cache.PositionKey(position.Scenario, weeks)
	if err := s.cache.Set(ctx, key, string(raw), s.config.CacheTTL); err != nil {
		s.log.Warnf("Failed to cache position %s: %v", key, err)
	}
}
