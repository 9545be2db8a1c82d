package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/cash-runway/internal/models"
)

var _ Store = (*Memory)(nil)

// Memory is an in-memory Store used for previews and tests
type Memory struct {
	mu        sync.RWMutex
	actuals   []models.HistoricalActual
	recurring []models.RecurringTransaction
	schedule  []models.ScheduleRecord
	forecasts map[string][]models.ForecastRecord
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{forecasts: make(map[string][]models.ForecastRecord)}
}

// AddActuals seeds historical actuals
func (m *Memory) AddActuals(actuals ...models.HistoricalActual) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actuals = append(m.actuals, actuals...)
}

// AddRecurring seeds recurring transactions
func (m *Memory) AddRecurring(recurring ...models.RecurringTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recurring = append(m.recurring, recurring...)
}

// Forecast returns the stored forecast of scenario
func (m *Memory) Forecast(scenario string) []models.ForecastRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.ForecastRecord(nil), m.forecasts[scenario]...)
}

func (m *Memory) HistoricalActuals(_ context.Context, since time.Time) ([]models.HistoricalActual, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.HistoricalActual
	for _, a := range m.actuals {
		if !a.CashDate.Before(since) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CashDate.Before(out[j].CashDate) })
	return out, nil
}

func (m *Memory) RecurringTransactions(_ context.Context, asOf time.Time) ([]models.RecurringTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.RecurringTransaction
	for _, r := range m.recurring {
		if r.ActiveOn(asOf) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) DebtPayments(_ context.Context, from, to time.Time) ([]models.PaymentScheduleEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.PaymentScheduleEntry
	for _, rec := range m.schedule {
		if rec.IsPaid || rec.PaymentDate.Before(from) || rec.PaymentDate.After(to) {
			continue
		}
		out = append(out, rec.Entry())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaymentDate.Before(out[j].PaymentDate) })
	return out, nil
}

func (m *Memory) LoanSchedule(_ context.Context, loanID string) ([]models.ScheduleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.ScheduleRecord
	for _, rec := range m.schedule {
		if rec.LoanID == loanID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaymentNumber < out[j].PaymentNumber })
	return out, nil
}

func (m *Memory) MarkPaid(_ context.Context, loanID string, paymentNumbers []int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wanted := make(map[int]bool, len(paymentNumbers))
	for _, n := range paymentNumbers {
		wanted[n] = true
	}
	var changed int64
	for i := range m.schedule {
		rec := &m.schedule[i]
		if rec.LoanID == loanID && wanted[rec.PaymentNumber] && !rec.IsPaid {
			rec.IsPaid = true
			changed++
		}
	}
	return changed, nil
}

// InsertSchedule skips records whose loan and payment number are already stored
func (m *Memory) InsertSchedule(_ context.Context, records []models.ScheduleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	type key struct {
		loanID string
		number int
	}
	seen := make(map[key]bool, len(m.schedule))
	for _, rec := range m.schedule {
		seen[key{rec.LoanID, rec.PaymentNumber}] = true
	}
	for _, rec := range records {
		k := key{rec.LoanID, rec.PaymentNumber}
		if seen[k] {
			continue
		}
		seen[k] = true
		m.schedule = append(m.schedule, rec)
	}
	return nil
}

func (m *Memory) ReplaceForecast(_ context.Context, scenario string, records []models.ForecastRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forecasts[scenario] = append([]models.ForecastRecord(nil), records...)
	return nil
}
