// Command loanschedule generates debt payment schedules from a TOML file of
// loan definitions, prints them and stores them unless -preview is set.
//
//	[[loan]]
//	loan_id = "loan_sba"
//	loan_name = "SBA Loan"
//	lender = "Bank"
//	structure = "interest_only_then_amortizing"
//	original_amount = "2000000"
//	annual_rate = "0.1075"
//	payment_day = 30
//	start_date = "2024-05-30"
//	maturity_date = "2031-05-30"
//	io_months = 24
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	_ "github.com/lib/pq"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/cash-runway/internal/cache"
	"github.com/Dan9191/cash-runway/internal/config"
	"github.com/Dan9191/cash-runway/internal/integrations/ratefeed"
	"github.com/Dan9191/cash-runway/internal/models"
	"github.com/Dan9191/cash-runway/internal/repository"
	"github.com/Dan9191/cash-runway/internal/service"
)

type loanFile struct {
	Loans []models.LoanDefinition `toml:"loan"`
}

func main() {
	os.Exit(run())
}

// run generates the schedules and returns the process exit code
func run() int {
	path := flag.String("config", "loans.toml", "TOML file with [[loan]] definitions")
	preview := flag.Bool("preview", false, "print schedules without storing them")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		return 1
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	defs, err := loadDefinitions(*path)
	if err != nil {
		logger.Errorf("Failed to load loan definitions: %v", err)
		return 1
	}

	var repo repository.Store = repository.NewMemory()
	if !*preview {
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			logger.Errorf("Failed to connect to database: %v", err)
			return 1
		}
		defer db.Close()
		repo = repository.NewRepository(db, cfg.DBSchema, cfg.InsertBatchSize)
	}
	var rates service.RateSource
	if cfg.RateFeedURL != "" {
		rates = ratefeed.NewClient(cfg, logger)
	}
	svc := service.NewService(repo, cache.NewMemory(), rates, nil, logger, cfg)

	ctx := context.Background()
	failed := 0
	for _, def := range defs {
		result, err := svc.GenerateSchedule(ctx, def, *preview)
		if err != nil {
			logger.Errorf("Loan %q: %v", def.LoanName, err)
			failed++
			continue
		}
		if err := printSchedule(os.Stdout, def, result); err != nil {
			logger.Errorf("Failed to print schedule: %v", err)
			return 1
		}
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// loadDefinitions decodes the loan definitions of a TOML file
func loadDefinitions(path string) ([]models.LoanDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var file loanFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if len(file.Loans) == 0 {
		return nil, fmt.Errorf("%s defines no [[loan]]", path)
	}
	return file.Loans, nil
}

func printSchedule(w io.Writer, def models.LoanDefinition, result *service.ScheduleResult) error {
	fmt.Fprintf(w, "%s (%s) %s  rate %s  stored=%t\n", def.LoanName, result.LoanID, def.Lender,
		result.AnnualRate.String(), result.Persisted)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tDate\tType\tPayment\tPrincipal\tInterest\tBalance\t")
	for _, e := range result.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t\n", e.PaymentNumber, e.PaymentDate.Format(models.DateLayout),
			e.PaymentType, e.PaymentAmount.StringFixed(2), e.PrincipalAmount.StringFixed(2),
			e.InterestAmount.StringFixed(2), e.EndingPrincipal.StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := result.Summary
	_, err := fmt.Fprintf(w, "payments %d  principal %s  interest %s  total %s  final balance %s\n\n",
		s.Payments, s.TotalPrincipal.StringFixed(2), s.TotalInterest.StringFixed(2),
		s.TotalPayments.StringFixed(2), s.FinalBalance.StringFixed(2))
	return err
}
