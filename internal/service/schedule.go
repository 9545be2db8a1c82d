package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/cash-runway/internal/cache"
	"github.com/Dan9191/cash-runway/internal/models"
	"github.com/Dan9191/cash-runway/internal/schedule"
)

// ScheduleResult is a generated loan schedule
type ScheduleResult struct {
	LoanID     string                        `json:"loan_id"`
	AnnualRate decimal.Decimal               `json:"annual_rate"`
	Entries    []models.PaymentScheduleEntry `json:"entries"`
	Summary    models.ScheduleSummary        `json:"summary"`
	Persisted  bool                          `json:"persisted"`
}

// GenerateSchedule builds the payment schedule of a loan and stores it unless preview is set
func (s *Service) GenerateSchedule(ctx context.Context, def models.LoanDefinition, preview bool) (*ScheduleResult, error) {
	if def.LoanID == "" {
		def.LoanID = NewLoanID()
	}

	cfg, err := def.ToConfiguration()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schedule.ErrInvalidConfiguration, err)
	}

	if cfg.IsFloating() {
		index, err := s.ReferenceRate(ctx, cfg.RateIndex)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve floating rate of loan %s: %w", cfg.LoanID, err)
		}
		cfg.AnnualRate = index.Add(cfg.RateMargin)
	}

	entries, err := schedule.Generate(cfg, s.today())
	if err != nil {
		return nil, err
	}

	result := &ScheduleResult{
		LoanID:     cfg.LoanID,
		AnnualRate: cfg.AnnualRate,
		Entries:    entries,
		Summary:    schedule.Summarize(entries),
	}
	log := s.log.WithFields(logrus.Fields{"loan_id": cfg.LoanID, "payments": len(entries)})

	if preview || len(entries) == 0 {
		log.Info("Schedule generated")
		return result, nil
	}

	records := make([]models.ScheduleRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, models.NewScheduleRecord(uuid.NewString(), e))
	}
	if err := s.repo.InsertSchedule(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to store schedule of loan %s: %w", cfg.LoanID, err)
	}
	s.invalidatePositions(ctx)

	result.Persisted = true
	log.Info("Schedule generated and stored")
	return result, nil
}

// LoanSchedule returns the stored schedule of a loan
func (s *Service) LoanSchedule(ctx context.Context, loanID string) ([]models.PaymentScheduleEntry, error) {
	records, err := s.repo.LoanSchedule(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrLoanNotFound, loanID)
	}
	entries := make([]models.PaymentScheduleEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, rec.Entry())
	}
	return entries, nil
}

// MarkPaymentsPaid flags payments of a loan as paid so forecasts no longer project them
func (s *Service) MarkPaymentsPaid(ctx context.Context, loanID string, paymentNumbers []int) (int64, error) {
	if len(paymentNumbers) == 0 {
		return 0, fmt.Errorf("%w: no payment numbers", ErrInvalidRequest)
	}
	changed, err := s.repo.MarkPaid(ctx, loanID, paymentNumbers)
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		s.invalidatePositions(ctx)
	}
	s.log.WithFields(logrus.Fields{"loan_id": loanID, "changed": changed}).Info("Payments marked paid")
	return changed, nil
}

// invalidatePositions drops every cached position, whatever its horizon
func (s *Service) invalidatePositions(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, cache.PositionPrefix); err != nil {
		s.log.Warnf("Failed to invalidate cached cash positions: %v", err)
	}
}
