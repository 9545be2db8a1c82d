package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/cash-runway/internal/config"
)

const jobTimeout = 5 * time.Minute

// Runner is the work the scheduler triggers
type Runner interface {
	RebuildForecasts(ctx context.Context) error
	SendPaymentReminders(ctx context.Context) (int, error)
}

// Scheduler runs the periodic forecast rebuild and payment reminders
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	log    *logrus.Logger
}

// NewScheduler registers the jobs on the configured cron expressions. An empty one
// disables its job.
func NewScheduler(runner Runner, cfg *config.Config, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.PrintfLogger(log)),
			cron.SkipIfStillRunning(cron.PrintfLogger(log)),
		)),
		runner: runner,
		log:    log,
	}

	if cfg.ForecastCron != "" {
		if _, err := s.cron.AddFunc(cfg.ForecastCron, s.RebuildForecasts); err != nil {
			return nil, fmt.Errorf("invalid FORECAST_CRON %q: %w", cfg.ForecastCron, err)
		}
	}
	if cfg.ReminderCron != "" {
		if _, err := s.cron.AddFunc(cfg.ReminderCron, s.SendReminders); err != nil {
			return nil, fmt.Errorf("invalid REMINDER_CRON %q: %w", cfg.ReminderCron, err)
		}
	}
	return s, nil
}

// Jobs returns the number of registered jobs
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("Scheduler started with %d jobs", s.Jobs())
}

// Stop waits for running jobs to finish or ctx to expire
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Scheduler stopped before running jobs finished")
	}
}

// RebuildForecasts regenerates every scenario forecast
func (s *Scheduler) RebuildForecasts() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.runner.RebuildForecasts(ctx); err != nil {
		s.log.Errorf("Forecast rebuild failed: %v", err)
		return
	}
	s.log.Info("Forecasts rebuilt")
}

// SendReminders mails upcoming debt payments
func (s *Scheduler) SendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.runner.SendPaymentReminders(ctx)
	if err != nil {
		s.log.Errorf("Payment reminders failed: %v", err)
		return
	}
	s.log.Debugf("Payment reminders sent for %d payments", n)
}
