package email

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/cash-runway/internal/config"
	"github.com/Dan9191/cash-runway/internal/models"
)

func newTestSender(sent *[]*email.Email, err error) *Sender {
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := NewSender(&config.Config{SenderEmail: "treasury@example.com", Currency: "USD"}, log)
	s.send = func(e *email.Email) error {
		*sent = append(*sent, e)
		return err
	}
	return s
}

func TestSendRunwayAlert(t *testing.T) {
	var sent []*email.Email
	s := newTestSender(&sent, nil)
	asOf := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SendRunwayAlert("cfo@example.com", models.CashPosition{Scenario: "base"}, asOf))
	assert.Empty(t, sent)

	runway := 2
	position := models.CashPosition{
		Scenario:        "worst",
		StartingBalance: decimal.NewFromInt(1000),
		RunwayWeek:      &runway,
		Weeks: []models.CashPositionSnapshot{
			{WeekNumber: 1, WeekStart: asOf, WeekEnd: asOf.AddDate(0, 0, 6), NetCashFlow: decimal.NewFromInt(-600), CashBalance: decimal.NewFromInt(400)},
			{WeekNumber: 2, WeekStart: asOf.AddDate(0, 0, 7), WeekEnd: asOf.AddDate(0, 0, 13), NetCashFlow: decimal.NewFromInt(-600), CashBalance: decimal.NewFromInt(-200)},
		},
	}
	require.NoError(t, s.SendRunwayAlert("cfo@example.com", position, asOf))
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"cfo@example.com"}, sent[0].To)
	assert.Contains(t, sent[0].Subject, "week 2")
	assert.Contains(t, string(sent[0].Text), "balance -200.00")
	assert.Contains(t, string(sent[0].Text), "Starting balance: 1000.00 USD")
}

func TestSendPaymentReminder(t *testing.T) {
	var sent []*email.Email
	s := newTestSender(&sent, errors.New("smtp down"))

	require.NoError(t, s.SendPaymentReminder("ap@example.com", nil))
	assert.Empty(t, sent)

	err := s.SendPaymentReminder("ap@example.com", []models.PaymentScheduleEntry{{
		LoanName:        "SBA Loan",
		Lender:          "Bank",
		PaymentNumber:   3,
		PaymentDate:     time.Date(2025, time.January, 30, 0, 0, 0, 0, time.UTC),
		PaymentAmount:   decimal.RequireFromString("4500"),
		PrincipalAmount: decimal.Zero,
		InterestAmount:  decimal.RequireFromString("4500"),
	}})
	require.Error(t, err)
	require.Len(t, sent, 1)
	assert.Contains(t, string(sent[0].Text), "2025-01-30  SBA Loan - Bank #3: 4500.00 USD")
}
