package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/cash-runway/internal/config"
	"github.com/Dan9191/cash-runway/internal/models"
)

// Sender handles sending treasury notifications via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
	}
	s.send = s.smtpSend
	return s
}

func (s *Sender) smtpSend(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	return e.Send(addr, auth)
}

// SendRunwayAlert notifies that the forecast balance turns negative
func (s *Sender) SendRunwayAlert(to string, position models.CashPosition, asOf time.Time) error {
	if position.RunwayWeek == nil {
		return nil
	}
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Cash runway alert: balance negative in week %d (%s)", *position.RunwayWeek, position.Scenario)
	e.Text = []byte(runwayBody(position, asOf, s.cfg.Currency))

	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send runway alert to %s: %v", to, err)
		return fmt.Errorf("failed to send runway alert: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

// SendPaymentReminder lists upcoming unpaid debt payments
func (s *Sender) SendPaymentReminder(to string, payments []models.PaymentScheduleEntry) error {
	if len(payments) == 0 {
		return nil
	}
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Upcoming debt payments: %d due", len(payments))
	e.Text = []byte(reminderBody(payments, s.cfg.Currency))

	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send payment reminder to %s: %v", to, err)
		return fmt.Errorf("failed to send payment reminder: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func runwayBody(position models.CashPosition, asOf time.Time, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The %s cash forecast as of %s turns negative in week %d.\n\n",
		position.Scenario, asOf.Format(models.DateLayout), *position.RunwayWeek)
	fmt.Fprintf(&b, "Starting balance: %s %s\n\n", position.StartingBalance.StringFixed(2), currency)
	for _, w := range position.Weeks {
		fmt.Fprintf(&b, "Week %2d (%s - %s): net %s, balance %s\n", w.WeekNumber,
			w.WeekStart.Format(models.DateLayout), w.WeekEnd.Format(models.DateLayout),
			w.NetCashFlow.StringFixed(2), w.CashBalance.StringFixed(2))
	}
	b.WriteString("\nCash Runway")
	return b.String()
}

func reminderBody(payments []models.PaymentScheduleEntry, currency string) string {
	var b strings.Builder
	b.WriteString("The following debt payments are due soon:\n\n")
	for _, p := range payments {
		fmt.Fprintf(&b, "%s  %s - %s #%d: %s %s (principal %s, interest %s)\n",
			p.PaymentDate.Format(models.DateLayout), p.LoanName, p.Lender, p.PaymentNumber,
			p.PaymentAmount.StringFixed(2), currency,
			p.PrincipalAmount.StringFixed(2), p.InterestAmount.StringFixed(2))
	}
	b.WriteString("\nPlease ensure sufficient funds are available in the operating account.\n\nCash Runway")
	return b.String()
}
