package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/cash-runway/internal/models"
)

// alertRunway mails the alert address when a stored forecast runs out of cash.
// Delivery failures are logged only.
func (s *Service) alertRunway(position models.CashPosition, asOf time.Time) {
	if position.RunwayWeek == nil || s.mailer == nil || s.config.AlertEmail == "" {
		return
	}
	if err := s.mailer.SendRunwayAlert(s.config.AlertEmail, position, asOf); err != nil {
		s.log.Errorf("Runway alert for %s not delivered: %v", position.Scenario, err)
	}
}

// SendPaymentReminders mails the unpaid debt payments due within the reminder
// window and returns how many were listed
func (s *Service) SendPaymentReminders(ctx context.Context) (int, error) {
	from := s.today()
	to := from.AddDate(0, 0, s.config.ReminderDays)

	due, err := s.repo.DebtPayments(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to load upcoming debt payments: %w", err)
	}
	if len(due) == 0 || s.mailer == nil || s.config.AlertEmail == "" {
		s.log.Debugf("No payment reminder sent (%d due)", len(due))
		return 0, nil
	}

	if err := s.mailer.SendPaymentReminder(s.config.AlertEmail, due); err != nil {
		return 0, err
	}
	s.log.Infof("Payment reminder sent for %d payments due by %s", len(due), to.Format(models.DateLayout))
	return len(due), nil
}
