package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kopilka/internal/core"

	_ "modernc.org/sqlite"
)

// timeLayout is how created_at is stored. SQLite's date() understands it
// directly, which keeps the window queries in plain SQL. All timestamps
// are UTC so they compare cleanly against SQLite's 'now'.
const timeLayout = "2006-01-02 15:04:05"

// Store is the SQLite-backed transaction store. Expense and income rows
// are append-only; credits are the only mutable relation. All writes are
// single-row inserts or deletes, so the engine's own locking is enough for
// concurrent use.
type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RegisterUser is an idempotent insert; registering an existing user is a
// no-op.
func (s *Store) RegisterUser(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (id, created_at) VALUES (?, ?)`,
		id, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("register user %d: %w", id, err)
	}
	return nil
}

// RecordExpense validates and appends an expense row with a server-assigned
// timestamp, returning the new row id.
func (s *Store) RecordExpense(ctx context.Context, userID, amount int64, category string) (int64, error) {
	return s.recordExpenseAt(ctx, userID, amount, category, time.Now().UTC())
}

func (s *Store) recordExpenseAt(ctx context.Context, userID, amount int64, category string, at time.Time) (int64, error) {
	e := core.Expense{UserID: userID, Amount: amount, Category: category}
	if err := e.Validate(); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, amount, category, created_at) VALUES (?, ?, ?, ?)`,
		userID, amount, category, at.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense recorded",
		"id", id, "user_id", userID, "amount", amount, "category", category)
	return id, nil
}

// RecordIncome validates and appends an income row, returning the row id.
func (s *Store) RecordIncome(ctx context.Context, userID, amount int64) (int64, error) {
	return s.recordIncomeAt(ctx, userID, amount, time.Now().UTC())
}

func (s *Store) recordIncomeAt(ctx context.Context, userID, amount int64, at time.Time) (int64, error) {
	i := core.Income{UserID: userID, Amount: amount}
	if err := i.Validate(); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO incomes (user_id, amount, created_at) VALUES (?, ?, ?)`,
		userID, amount, at.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert income: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("income insert id: %w", err)
	}

	slog.InfoContext(ctx, "Income recorded", "id", id, "user_id", userID, "amount", amount)
	return id, nil
}

// RecordCredit appends a credit row. Credits are not timestamped and no
// uniqueness is enforced on (user, name).
func (s *Store) RecordCredit(ctx context.Context, userID int64, name string, amount int64, payDay int) (int64, error) {
	c := core.Credit{UserID: userID, Name: name, Amount: amount, PayDay: payDay}
	if err := c.Validate(); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO credits (user_id, name, amount, pay_day) VALUES (?, ?, ?, ?)`,
		userID, name, amount, payDay,
	)
	if err != nil {
		return 0, fmt.Errorf("insert credit: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("credit insert id: %w", err)
	}

	slog.InfoContext(ctx, "Credit recorded",
		"id", id, "user_id", userID, "name", name, "amount", amount, "pay_day", payDay)
	return id, nil
}

// DeleteCredit removes every credit row with an exact name match for the
// user and returns the number of rows removed. Zero is a valid outcome.
func (s *Store) DeleteCredit(ctx context.Context, userID int64, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM credits WHERE user_id = ? AND name = ?`,
		userID, name,
	)
	if err != nil {
		return 0, fmt.Errorf("delete credit: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete credit rows affected: %w", err)
	}

	slog.InfoContext(ctx, "Credits deleted", "user_id", userID, "name", name, "count", n)
	return n, nil
}

// ListCredits returns the user's credit rows in insertion order.
func (s *Store) ListCredits(ctx context.Context, userID int64) ([]core.Credit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, amount, pay_day FROM credits WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list credits: %w", err)
	}
	defer rows.Close()

	var credits []core.Credit
	for rows.Next() {
		var c core.Credit
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Amount, &c.PayDay); err != nil {
			return nil, fmt.Errorf("scan credit: %w", err)
		}
		credits = append(credits, c)
	}

	return credits, rows.Err()
}

// SumExpenses sums the user's expenses. days == 0 means all time; otherwise
// rows whose calendar date falls within the trailing window are counted:
// date(created_at) >= date('now', '-N days').
func (s *Store) SumExpenses(ctx context.Context, userID int64, days int) (int64, error) {
	return s.sumAmounts(ctx, "expenses", userID, days)
}

// SumIncomes sums the user's incomes with the same window semantics as
// SumExpenses.
func (s *Store) SumIncomes(ctx context.Context, userID int64, days int) (int64, error) {
	return s.sumAmounts(ctx, "incomes", userID, days)
}

func (s *Store) sumAmounts(ctx context.Context, table string, userID int64, days int) (int64, error) {
	q := `SELECT COALESCE(SUM(amount), 0) FROM ` + table + ` WHERE user_id = ?`
	args := []any{userID}
	if days > 0 {
		q += ` AND date(created_at) >= date('now', ?)`
		args = append(args, fmt.Sprintf("-%d days", days))
	}

	var sum int64
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum %s: %w", table, err)
	}
	return sum, nil
}

// ExpensesByCategory returns per-category sums for the window. Categories
// without matching rows are absent from the result.
func (s *Store) ExpensesByCategory(ctx context.Context, userID int64, days int) (map[string]int64, error) {
	q := `SELECT category, SUM(amount) FROM expenses WHERE user_id = ?`
	args := []any{userID}
	if days > 0 {
		q += ` AND date(created_at) >= date('now', ?)`
		args = append(args, fmt.Sprintf("-%d days", days))
	}
	q += ` GROUP BY category`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]int64)
	for rows.Next() {
		var category string
		var amount int64
		if err := rows.Scan(&category, &amount); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		sums[category] = amount
	}

	return sums, rows.Err()
}
