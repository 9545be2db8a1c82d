package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Dan9191/cash-runway/internal/models"
)

const (
	tableCashTransactions = "cash_transactions"
	tableRecurring        = "recurring_transactions"
	tableDebtSchedule     = "debt_schedule"

	defaultBatchSize = 500
)

// Store is the data-access collaborator of the engines. Reads happen before and
// writes after a computation; nothing calls back into a Store mid-computation.
type Store interface {
	HistoricalActuals(ctx context.Context, since time.Time) ([]models.HistoricalActual, error)
	RecurringTransactions(ctx context.Context, asOf time.Time) ([]models.RecurringTransaction, error)
	DebtPayments(ctx context.Context, from, to time.Time) ([]models.PaymentScheduleEntry, error)
	LoanSchedule(ctx context.Context, loanID string) ([]models.ScheduleRecord, error)
	MarkPaid(ctx context.Context, loanID string, paymentNumbers []int) (int64, error)
	InsertSchedule(ctx context.Context, records []models.ScheduleRecord) error
	ReplaceForecast(ctx context.Context, scenario string, records []models.ForecastRecord) error
}

var _ Store = (*Repository)(nil)

// Repository provides warehouse operations on Postgres
type Repository struct {
	db        *sql.DB
	schema    string
	batchSize int
}

// NewRepository initializes a new repository. Tables are looked up in schema.
func NewRepository(db *sql.DB, schema string, batchSize int) *Repository {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Repository{db: db, schema: schema, batchSize: batchSize}
}

func (r *Repository) table(name string) string {
	if r.schema == "" {
		return pq.QuoteIdentifier(name)
	}
	return pq.QuoteIdentifier(r.schema) + "." + pq.QuoteIdentifier(name)
}

// queryRows runs query and hands every row to scan
func (r *Repository) queryRows(ctx context.Context, query string, args []any, scan func(*sql.Rows) error) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertRows writes rows in batches of multi-row INSERT statements. Rows that
// already exist are skipped.
func (r *Repository) insertRows(ctx context.Context, ex execer, table string, columns []string, rows [][]any) error {
	for start := 0; start < len(rows); start += r.batchSize {
		end := start + r.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		query, args := buildInsert(table, columns, rows[start:end])
		if _, err := ex.ExecContext(ctx, query, args...); err != nil && !isDuplicate(err) {
			return describe(err)
		}
	}
	return nil
}

// buildInsert renders a multi-row INSERT with positional placeholders
func buildInsert(table string, columns []string, rows [][]any) (string, []any) {
	query := "INSERT INTO " + table + " ("
	for i, c := range columns {
		if i > 0 {
			query += ", "
		}
		query += pq.QuoteIdentifier(c)
	}
	query += ") VALUES "

	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			query += ", "
		}
		query += "("
		for j, v := range row {
			if j > 0 {
				query += ", "
			}
			args = append(args, v)
			query += fmt.Sprintf("$%d", len(args))
		}
		query += ")"
	}
	return query + " ON CONFLICT DO NOTHING", args
}

// isDuplicate reports a unique violation
func isDuplicate(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%s (%s): %w", pqErr.Message, pqErr.Code.Name(), err)
	}
	return err
}
