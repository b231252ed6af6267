// Package report computes rolling-window aggregates over the transaction
// store.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kopilka/internal/cache"
	"kopilka/internal/core"
)

// Window is a trailing range in whole days. Zero means all time.
//
// Filtering truncates created_at to a calendar date before comparing, so
// WindowToday (1 day) also covers yesterday's rows: the filter is
// date(created_at) >= date('now', '-1 day'). Reports have always worked
// this way and callers rely on it; redefining "today" as a strict
// calendar-day filter is a product decision, not a bug fix.
type Window int

const (
	WindowAll   Window = 0
	WindowToday Window = 1
	WindowWeek  Window = 7
	WindowMonth Window = 30
)

// Reader is the read side of the transaction store. days == 0 means no
// window filter.
type Reader interface {
	SumExpenses(ctx context.Context, userID int64, days int) (int64, error)
	SumIncomes(ctx context.Context, userID int64, days int) (int64, error)
	ExpensesByCategory(ctx context.Context, userID int64, days int) (map[string]int64, error)
}

// CategoryAmount is one breakdown row.
type CategoryAmount struct {
	Key    string `json:"category"`
	Amount int64  `json:"amount"`
}

// Summary is a full windowed report for one user. ByCategory holds only
// categories with at least one matching expense, in registry order.
type Summary struct {
	Window     Window           `json:"window_days"`
	Incomes    int64            `json:"incomes"`
	Expenses   int64            `json:"expenses"`
	Balance    int64            `json:"balance"`
	ByCategory []CategoryAmount `json:"by_category"`
}

// queryTimeout bounds every store read so a stuck query fails the report
// instead of hanging the turn.
const queryTimeout = 5 * time.Second

// Engine answers aggregate queries, memoizing summaries per (user, window)
// until the next write invalidates them.
type Engine struct {
	reader    Reader
	summaries *cache.LRU[Summary]
}

func NewEngine(reader Reader) *Engine {
	return &Engine{
		reader:    reader,
		summaries: cache.NewLRU[Summary](512, time.Minute),
	}
}

// SumExpenses returns the user's expense total for the window; zero when no
// rows match.
func (e *Engine) SumExpenses(ctx context.Context, userID int64, w Window) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return e.reader.SumExpenses(ctx, userID, int(w))
}

// SumIncomes returns the user's income total for the window.
func (e *Engine) SumIncomes(ctx context.Context, userID int64, w Window) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return e.reader.SumIncomes(ctx, userID, int(w))
}

// Balance is incomes minus expenses for the window; it may be negative.
func (e *Engine) Balance(ctx context.Context, userID int64, w Window) (int64, error) {
	s, err := e.Summary(ctx, userID, w)
	if err != nil {
		return 0, err
	}
	return s.Balance, nil
}

// Breakdown returns per-category expense sums for the window. Categories
// with no matching rows are absent.
func (e *Engine) Breakdown(ctx context.Context, userID int64, w Window) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return e.reader.ExpensesByCategory(ctx, userID, int(w))
}

// Summary computes the full windowed report, serving from cache when a
// fresh copy exists.
func (e *Engine) Summary(ctx context.Context, userID int64, w Window) (Summary, error) {
	key := summaryKey(userID, w)
	if s, ok := e.summaries.Get(key); ok {
		slog.DebugContext(ctx, "Summary cache hit", "user_id", userID, "window_days", int(w))
		return s, nil
	}

	cctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	incomes, err := e.reader.SumIncomes(cctx, userID, int(w))
	if err != nil {
		return Summary{}, fmt.Errorf("sum incomes: %w", err)
	}
	expenses, err := e.reader.SumExpenses(cctx, userID, int(w))
	if err != nil {
		return Summary{}, fmt.Errorf("sum expenses: %w", err)
	}
	byCat, err := e.reader.ExpensesByCategory(cctx, userID, int(w))
	if err != nil {
		return Summary{}, fmt.Errorf("expenses by category: %w", err)
	}

	s := Summary{
		Window:   w,
		Incomes:  incomes,
		Expenses: expenses,
		Balance:  incomes - expenses,
	}
	for _, c := range core.Categories {
		if amount, ok := byCat[c.Key]; ok {
			s.ByCategory = append(s.ByCategory, CategoryAmount{Key: c.Key, Amount: amount})
		}
	}

	e.summaries.Set(key, s)
	return s, nil
}

// Invalidate drops the user's cached summaries; called after every write.
func (e *Engine) Invalidate(userID int64) {
	for _, w := range []Window{WindowAll, WindowToday, WindowWeek, WindowMonth} {
		e.summaries.Delete(summaryKey(userID, w))
	}
}

func summaryKey(userID int64, w Window) string {
	return fmt.Sprintf("%d:%d", userID, int(w))
}
