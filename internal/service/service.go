package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/cash-runway/internal/amortization"
	"github.com/Dan9191/cash-runway/internal/cache"
	"github.com/Dan9191/cash-runway/internal/config"
	"github.com/Dan9191/cash-runway/internal/models"
	"github.com/Dan9191/cash-runway/internal/repository"
)

var (
	// ErrInvalidRequest marks input the service refuses before touching storage
	ErrInvalidRequest = errors.New("invalid request")
	ErrLoanNotFound   = errors.New("loan not found")
)

// RateSource resolves reference rates of floating-rate loans
type RateSource interface {
	ReferenceRate(ctx context.Context, index string) (decimal.Decimal, error)
}

// Notifier delivers treasury notifications
type Notifier interface {
	SendRunwayAlert(to string, position models.CashPosition, asOf time.Time) error
	SendPaymentReminder(to string, payments []models.PaymentScheduleEntry) error
}

// Service handles business logic. Storage is read before and written after the
// pure schedule and forecast computations.
type Service struct {
	repo   repository.Store
	cache  cache.Cache
	rates  RateSource
	mailer Notifier
	log    *logrus.Logger
	config *config.Config
	now    func() time.Time
}

// NewService initializes a new service. rates and mailer may be nil.
func NewService(repo repository.Store, c cache.Cache, rates RateSource, mailer Notifier, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:   repo,
		cache:  c,
		rates:  rates,
		mailer: mailer,
		log:    log,
		config: cfg,
		now:    time.Now,
	}
}

func (s *Service) today() time.Time {
	return amortization.Day(s.now())
}

// ReferenceRate returns the current value of a rate index
func (s *Service) ReferenceRate(ctx context.Context, index string) (decimal.Decimal, error) {
	if s.rates == nil {
		return decimal.Zero, errors.New("rate feed is not configured")
	}
	rate, err := s.rates.ReferenceRate(ctx, index)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get reference rate %s: %w", index, err)
	}
	return rate, nil
}

// NewLoanID generates an identifier of the form loan_<8 hex>
func NewLoanID() string {
	return "loan_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
