package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kopilka/internal/core"
	"kopilka/internal/events"
	"kopilka/internal/storage"
)

// Publisher is the outbound event stream. May be absent when AMQP is not
// configured.
type Publisher interface {
	PublishTransaction(ctx context.Context, msg *events.TransactionMessage) error
}

// Invalidator drops cached aggregates for a user after a write.
type Invalidator interface {
	Invalidate(userID int64)
}

// Ledger orchestrates transaction writes: validate-and-store first, then
// best-effort event publish and cache invalidation. The store write is the
// only step that can fail a request.
type Ledger struct {
	store     *storage.Store
	publisher Publisher
	reports   Invalidator
}

func NewLedger(store *storage.Store, publisher Publisher, reports Invalidator) *Ledger {
	return &Ledger{
		store:     store,
		publisher: publisher,
		reports:   reports,
	}
}

func (l *Ledger) RegisterUser(ctx context.Context, id int64) error {
	return l.store.RegisterUser(ctx, id)
}

func (l *Ledger) AddExpense(ctx context.Context, userID, amount int64, category string) (int64, error) {
	id, err := l.store.RecordExpense(ctx, userID, amount, category)
	if err != nil {
		return 0, fmt.Errorf("record expense: %w", err)
	}

	l.afterWrite(ctx, &events.TransactionMessage{
		UserID:     userID,
		Kind:       events.KindExpense,
		Amount:     amount,
		Category:   category,
		RecordedAt: time.Now().UTC(),
	})
	return id, nil
}

func (l *Ledger) AddIncome(ctx context.Context, userID, amount int64) (int64, error) {
	id, err := l.store.RecordIncome(ctx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("record income: %w", err)
	}

	l.afterWrite(ctx, &events.TransactionMessage{
		UserID:     userID,
		Kind:       events.KindIncome,
		Amount:     amount,
		RecordedAt: time.Now().UTC(),
	})
	return id, nil
}

func (l *Ledger) AddCredit(ctx context.Context, userID int64, name string, amount int64, payDay int) (int64, error) {
	id, err := l.store.RecordCredit(ctx, userID, name, amount, payDay)
	if err != nil {
		return 0, fmt.Errorf("record credit: %w", err)
	}

	l.afterWrite(ctx, &events.TransactionMessage{
		UserID:     userID,
		Kind:       events.KindCredit,
		Amount:     amount,
		Name:       name,
		PayDay:     payDay,
		RecordedAt: time.Now().UTC(),
	})
	return id, nil
}

// RemoveCredit deletes every credit with the exact name and returns the
// count, which may be zero.
func (l *Ledger) RemoveCredit(ctx context.Context, userID int64, name string) (int64, error) {
	n, err := l.store.DeleteCredit(ctx, userID, name)
	if err != nil {
		return 0, fmt.Errorf("delete credit: %w", err)
	}

	l.afterWrite(ctx, &events.TransactionMessage{
		UserID:     userID,
		Kind:       events.KindCreditDelete,
		Name:       name,
		RecordedAt: time.Now().UTC(),
	})
	return n, nil
}

func (l *Ledger) Credits(ctx context.Context, userID int64) ([]core.Credit, error) {
	return l.store.ListCredits(ctx, userID)
}

// afterWrite runs the non-fatal side effects of a successful write.
func (l *Ledger) afterWrite(ctx context.Context, msg *events.TransactionMessage) {
	if l.reports != nil {
		l.reports.Invalidate(msg.UserID)
	}

	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishTransaction(ctx, msg); err != nil {
		// The row is already stored; losing an event must not fail the turn.
		slog.ErrorContext(ctx, "Failed to publish transaction message",
			"user_id", msg.UserID, "kind", msg.Kind, "error", err)
	}
}
