package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/Dan9191/cash-runway/internal/models"
)

var scheduleColumns = []string{
	"schedule_id", "loan_id", "loan_name", "lender", "payment_date", "payment_number",
	"payment_amount", "principal_amount", "interest_amount", "fees_amount",
	"beginning_principal", "ending_principal", "interest_rate", "days_in_period",
	"is_paid", "payment_type", "is_forecast",
}

var forecastColumns = []string{
	"transaction_id", "transaction_date", "cash_date", "value_date", "source_system",
	"bank_account_id", "cash_flow_section", "cash_flow_category", "amount", "currency",
	"description", "is_forecast", "scenario_id", "created_at", "updated_at", "created_by",
}

// HistoricalActuals retrieves realized cash transactions dated on or after since
func (r *Repository) HistoricalActuals(ctx context.Context, since time.Time) ([]models.HistoricalActual, error) {
	query := `
		SELECT cash_date, cash_flow_section, cash_flow_category, amount
		FROM ` + r.table(tableCashTransactions) + `
		WHERE is_forecast = FALSE AND cash_date >= $1
		ORDER BY cash_date`

	var actuals []models.HistoricalActual
	err := r.queryRows(ctx, query, []any{since}, func(rows *sql.Rows) error {
		var a models.HistoricalActual
		if err := rows.Scan(&a.CashDate, &a.Section, &a.Category, &a.Amount); err != nil {
			return err
		}
		actuals = append(actuals, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query historical actuals: %w", describe(err))
	}
	return actuals, nil
}

// RecurringTransactions retrieves recurring transactions active on asOf
func (r *Repository) RecurringTransactions(ctx context.Context, asOf time.Time) ([]models.RecurringTransaction, error) {
	query := `
		SELECT recurring_id, transaction_name, amount, cash_flow_category, frequency,
		       day_of_month, start_date, end_date, is_active
		FROM ` + r.table(tableRecurring) + `
		WHERE is_active = TRUE
		  AND start_date <= $1
		  AND (end_date IS NULL OR end_date >= $1)`

	var recurring []models.RecurringTransaction
	err := r.queryRows(ctx, query, []any{asOf}, func(rows *sql.Rows) error {
		var (
			rec     models.RecurringTransaction
			endDate sql.NullTime
		)
		if err := rows.Scan(&rec.RecurringID, &rec.Name, &rec.Amount, &rec.Category, &rec.Frequency,
			&rec.DayOfMonth, &rec.StartDate, &endDate, &rec.IsActive); err != nil {
			return err
		}
		if endDate.Valid {
			rec.EndDate = &endDate.Time
		}
		recurring = append(recurring, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring transactions: %w", describe(err))
	}
	return recurring, nil
}

// DebtPayments retrieves unpaid scheduled debt payments between from and to inclusive
func (r *Repository) DebtPayments(ctx context.Context, from, to time.Time) ([]models.PaymentScheduleEntry, error) {
	query := `
		SELECT ` + strings.Join(scheduleColumns, ", ") + `
		FROM ` + r.table(tableDebtSchedule) + `
		WHERE payment_date >= $1 AND payment_date <= $2 AND is_paid = FALSE
		ORDER BY payment_date`

	records, err := r.scheduleRecords(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query debt payments: %w", err)
	}
	entries := make([]models.PaymentScheduleEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, rec.Entry())
	}
	return entries, nil
}

// LoanSchedule retrieves the stored schedule of a loan
func (r *Repository) LoanSchedule(ctx context.Context, loanID string) ([]models.ScheduleRecord, error) {
	query := `
		SELECT ` + strings.Join(scheduleColumns, ", ") + `
		FROM ` + r.table(tableDebtSchedule) + `
		WHERE loan_id = $1
		ORDER BY payment_number`

	records, err := r.scheduleRecords(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule of loan %s: %w", loanID, err)
	}
	return records, nil
}

func (r *Repository) scheduleRecords(ctx context.Context, query string, args ...any) ([]models.ScheduleRecord, error) {
	var records []models.ScheduleRecord
	err := r.queryRows(ctx, query, args, func(rows *sql.Rows) error {
		var rec models.ScheduleRecord
		if err := rows.Scan(&rec.ScheduleID, &rec.LoanID, &rec.LoanName, &rec.Lender, &rec.PaymentDate,
			&rec.PaymentNumber, &rec.PaymentAmount, &rec.PrincipalAmount, &rec.InterestAmount, &rec.FeesAmount,
			&rec.BeginningPrincipal, &rec.EndingPrincipal, &rec.InterestRate, &rec.DaysInPeriod,
			&rec.IsPaid, &rec.PaymentType, &rec.IsForecast); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, describe(err)
	}
	return records, nil
}

// MarkPaid flags the given payments of a loan as paid and returns how many changed
func (r *Repository) MarkPaid(ctx context.Context, loanID string, paymentNumbers []int) (int64, error) {
	if len(paymentNumbers) == 0 {
		return 0, nil
	}
	numbers := make([]int64, len(paymentNumbers))
	for i, n := range paymentNumbers {
		numbers[i] = int64(n)
	}

	query := `
		UPDATE ` + r.table(tableDebtSchedule) + `
		SET is_paid = TRUE
		WHERE loan_id = $1 AND payment_number = ANY($2) AND is_paid = FALSE`
	res, err := r.db.ExecContext(ctx, query, loanID, pq.Array(numbers))
	if err != nil {
		return 0, fmt.Errorf("failed to mark payments of loan %s paid: %w", loanID, describe(err))
	}
	return res.RowsAffected()
}

// InsertSchedule persists schedule records. Records that already exist are skipped.
func (r *Repository) InsertSchedule(ctx context.Context, records []models.ScheduleRecord) error {
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []any{
			rec.ScheduleID, rec.LoanID, rec.LoanName, rec.Lender, rec.PaymentDate, rec.PaymentNumber,
			rec.PaymentAmount, rec.PrincipalAmount, rec.InterestAmount, rec.FeesAmount,
			rec.BeginningPrincipal, rec.EndingPrincipal, rec.InterestRate, rec.DaysInPeriod,
			rec.IsPaid, rec.PaymentType, rec.IsForecast,
		})
	}
	if err := r.insertRows(ctx, r.db, r.table(tableDebtSchedule), scheduleColumns, rows); err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}
	return nil
}

// ReplaceForecast swaps the stored forecast of scenario for records in one transaction
func (r *Repository) ReplaceForecast(ctx context.Context, scenario string, records []models.ForecastRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `DELETE FROM ` + r.table(tableCashTransactions) + ` WHERE is_forecast = TRUE AND scenario_id = $1`
	if _, err := tx.ExecContext(ctx, query, scenario); err != nil {
		return fmt.Errorf("failed to clear %s forecast: %w", scenario, describe(err))
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []any{
			rec.TransactionID, rec.TransactionDate, rec.CashDate, rec.ValueDate, rec.SourceSystem,
			rec.BankAccountID, rec.Section, rec.Category, rec.Amount, rec.Currency,
			rec.Description, rec.IsForecast, rec.ScenarioID, rec.CreatedAt, rec.UpdatedAt, rec.CreatedBy,
		})
	}
	if err := r.insertRows(ctx, tx, r.table(tableCashTransactions), forecastColumns, rows); err != nil {
		return fmt.Errorf("failed to insert %s forecast: %w", scenario, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s forecast: %w", scenario, err)
	}
	return nil
}
