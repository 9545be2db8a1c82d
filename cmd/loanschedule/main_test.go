package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/cash-runway/internal/models"
	"github.com/Dan9191/cash-runway/internal/service"
)

const loansTOML = `
[[loan]]
loan_id = "loan_sba"
loan_name = "SBA Loan"
lender = "Bank"
structure = "interest_only_then_amortizing"
original_amount = "2000000"
annual_rate = "0.1075"
payment_day = 30
start_date = "2024-05-30"
maturity_date = "2031-05-30"
io_months = 24

[[loan]]
loan_name = "Equipment"
structure = "fixed_payment_with_balloon"
original_amount = "50000"
current_balance = "42000"
annual_rate = "0.08"
payment_day = 1
start_date = "2025-01-01"
maturity_date = "2027-01-01"
fixed_payment = "1000"
balloon_amount = "30000"
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loans.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefinitions(t *testing.T) {
	defs, err := loadDefinitions(writeFile(t, loansTOML))
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, "loan_sba", defs[0].LoanID)
	assert.Equal(t, models.StructureInterestOnlyThenAmortizing, defs[0].Structure)
	assert.True(t, decimal.RequireFromString("0.1075").Equal(defs[0].AnnualRate))
	assert.Equal(t, 24, defs[0].IOMonths)

	cfg, err := defs[0].ToConfiguration()
	require.NoError(t, err)
	assert.Equal(t, models.InterestOnlyThenAmortizing{IOMonths: 24, AmortMonths: 60}, cfg.Structure)

	assert.Nil(t, defs[0].CurrentBalance)
	assert.Empty(t, defs[1].LoanID)
	require.NotNil(t, defs[1].CurrentBalance)
	assert.True(t, decimal.NewFromInt(42000).Equal(*defs[1].CurrentBalance))
	assert.True(t, decimal.NewFromInt(30000).Equal(defs[1].BalloonAmount))
}

func TestLoadDefinitionsErrors(t *testing.T) {
	_, err := loadDefinitions(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = loadDefinitions(writeFile(t, "title = \"no loans\"\n"))
	assert.Error(t, err)

	_, err = loadDefinitions(writeFile(t, "[[loan]\n"))
	assert.Error(t, err)
}

func TestPrintSchedule(t *testing.T) {
	var buf bytes.Buffer
	result := &service.ScheduleResult{
		LoanID:     "loan_1",
		AnnualRate: decimal.RequireFromString("0.06"),
		Entries: []models.PaymentScheduleEntry{{
			PaymentNumber:   1,
			PaymentDate:     time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
			PaymentType:     models.PaymentPrincipalAndInterest,
			PaymentAmount:   decimal.RequireFromString("10327.97"),
			PrincipalAmount: decimal.RequireFromString("9727.97"),
			InterestAmount:  decimal.RequireFromString("600"),
			EndingPrincipal: decimal.RequireFromString("110272.03"),
		}},
		Summary: models.ScheduleSummary{Payments: 1},
	}

	require.NoError(t, printSchedule(&buf, models.LoanDefinition{LoanName: "Term", Lender: "Bank"}, result))
	out := buf.String()
	assert.Contains(t, out, "Term (loan_1) Bank")
	assert.Contains(t, out, "2025-02-01")
	assert.Contains(t, out, "110272.03")
	assert.Contains(t, out, "payments 1")
}

func TestRunReturnsExitCode(t *testing.T) {
	args := os.Args
	defer func() { os.Args = args }()
	os.Args = []string{"loanschedule", "-preview", "-config", filepath.Join(t.TempDir(), "missing.toml")}

	assert.Equal(t, 1, run())
}
