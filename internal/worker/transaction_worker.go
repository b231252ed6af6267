package worker

import (
	"context"
	"fmt"
	"log/slog"

	"kopilka/internal/events"
)

// Exporter pushes a transaction to an external sink.
type Exporter interface {
	Append(ctx context.Context, msg *events.TransactionMessage) error
}

// TransactionWorker consumes the transaction stream: every message is
// audit-logged and, when an exporter is configured, forwarded to it.
// Credit deletions are logged but not exported; the sheet is an
// append-only record.
type TransactionWorker struct {
	exporter Exporter
}

func NewTransactionWorker(exporter Exporter) *TransactionWorker {
	return &TransactionWorker{exporter: exporter}
}

// HandleTransaction processes one message. An export failure makes the
// message requeue; logging alone never fails.
func (w *TransactionWorker) HandleTransaction(ctx context.Context, msg *events.TransactionMessage) error {
	slog.InfoContext(ctx, "Transaction observed",
		"user_id", msg.UserID,
		"kind", msg.Kind,
		"amount", msg.Amount,
		"category", msg.Category,
		"name", msg.Name,
		"recorded_at", msg.RecordedAt)

	if w.exporter == nil || msg.Kind == events.KindCreditDelete {
		return nil
	}

	if err := w.exporter.Append(ctx, msg); err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}
	return nil
}
