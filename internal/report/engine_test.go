package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader serves canned aggregates and counts how often each query runs,
// so caching behavior is observable.
type fakeReader struct {
	incomes  int64
	expenses int64
	byCat    map[string]int64
	err      error

	calls int
}

func (f *fakeReader) SumExpenses(ctx context.Context, userID int64, days int) (int64, error) {
	f.calls++
	return f.expenses, f.err
}

func (f *fakeReader) SumIncomes(ctx context.Context, userID int64, days int) (int64, error) {
	f.calls++
	return f.incomes, f.err
}

func (f *fakeReader) ExpensesByCategory(ctx context.Context, userID int64, days int) (map[string]int64, error) {
	f.calls++
	return f.byCat, f.err
}

func TestSummaryComputesBalance(t *testing.T) {
	reader := &fakeReader{incomes: 5000, expenses: 1200, byCat: map[string]int64{"food": 1200}}
	engine := NewEngine(reader)

	s, err := engine.Summary(context.Background(), 1, WindowMonth)
	require.NoError(t, err)

	assert.Equal(t, int64(5000), s.Incomes)
	assert.Equal(t, int64(1200), s.Expenses)
	assert.Equal(t, int64(3800), s.Balance)
	assert.Equal(t, WindowMonth, s.Window)
}

func TestBalanceMayBeNegative(t *testing.T) {
	reader := &fakeReader{incomes: 100, expenses: 500}
	engine := NewEngine(reader)

	balance, err := engine.Balance(context.Background(), 1, WindowAll)
	require.NoError(t, err)
	assert.Equal(t, int64(-400), balance)
}

func TestSummaryBreakdownInRegistryOrder(t *testing.T) {
	// Map iteration order is random; the summary must come out in fixed
	// registry order regardless.
	reader := &fakeReader{
		incomes:  0,
		expenses: 975,
		byCat:    map[string]int64{"other": 25, "food": 700, "transport": 250},
	}
	engine := NewEngine(reader)

	s, err := engine.Summary(context.Background(), 1, WindowWeek)
	require.NoError(t, err)

	require.Len(t, s.ByCategory, 3)
	assert.Equal(t, "food", s.ByCategory[0].Key)
	assert.Equal(t, "transport", s.ByCategory[1].Key)
	assert.Equal(t, "other", s.ByCategory[2].Key)
	assert.Equal(t, int64(700), s.ByCategory[0].Amount)
}

func TestSummaryOmitsEmptyCategories(t *testing.T) {
	reader := &fakeReader{byCat: map[string]int64{"fun": 300}}
	engine := NewEngine(reader)

	s, err := engine.Summary(context.Background(), 1, WindowToday)
	require.NoError(t, err)

	require.Len(t, s.ByCategory, 1)
	assert.Equal(t, "fun", s.ByCategory[0].Key)
}

func TestSummaryIsCachedUntilInvalidated(t *testing.T) {
	reader := &fakeReader{incomes: 100, expenses: 50, byCat: map[string]int64{}}
	engine := NewEngine(reader)
	ctx := context.Background()

	_, err := engine.Summary(ctx, 1, WindowWeek)
	require.NoError(t, err)
	afterFirst := reader.calls

	_, err = engine.Summary(ctx, 1, WindowWeek)
	require.NoError(t, err)
	assert.Equal(t, afterFirst, reader.calls, "second read should be served from cache")

	engine.Invalidate(1)

	_, err = engine.Summary(ctx, 1, WindowWeek)
	require.NoError(t, err)
	assert.Greater(t, reader.calls, afterFirst, "invalidation should force a recompute")
}

func TestSummaryCacheIsPerUserAndWindow(t *testing.T) {
	reader := &fakeReader{}
	engine := NewEngine(reader)
	ctx := context.Background()

	_, err := engine.Summary(ctx, 1, WindowWeek)
	require.NoError(t, err)
	afterFirst := reader.calls

	_, err = engine.Summary(ctx, 2, WindowWeek)
	require.NoError(t, err)
	assert.Greater(t, reader.calls, afterFirst, "different user must not share a cache entry")

	afterSecond := reader.calls
	_, err = engine.Summary(ctx, 1, WindowMonth)
	require.NoError(t, err)
	assert.Greater(t, reader.calls, afterSecond, "different window must not share a cache entry")
}

func TestSummaryPropagatesReaderErrors(t *testing.T) {
	readErr := errors.New("db is gone")
	engine := NewEngine(&fakeReader{err: readErr})

	_, err := engine.Summary(context.Background(), 1, WindowWeek)
	assert.ErrorIs(t, err, readErr)
}

func TestInvalidateIsSafeWithoutEntries(t *testing.T) {
	engine := NewEngine(&fakeReader{})
	engine.Invalidate(42)
}
