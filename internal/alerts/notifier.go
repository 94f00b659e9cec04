package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agilerecords/records-frontend/internal/receipts"
	"github.com/agilerecords/records-frontend/internal/validation"
)

// Metric names published per notification.
const (
	MetricCommitted    = "RecordCommitted"
	MetricCommitFailed = "RecordCommitFailed"
)

// Writer appends one line per notification. *Log satisfies it.
type Writer interface {
	Append(msg string) error
}

// ReceiptUpdater advances a receipt's status. *receipts.Store satisfies it.
type ReceiptUpdater interface {
	Transition(ctx context.Context, plotNumber, newStatus string, from ...string) error
}

// Metrics counts notifications.
type Metrics interface {
	Incr(ctx context.Context, name string)
}

// Notifier handles the backend's commit notifications.
type Notifier struct {
	log      Writer
	receipts ReceiptUpdater
	metrics  Metrics
	logger   *slog.Logger
}

// NewNotifier wires a Notifier. receipts may be nil.
func NewNotifier(w Writer, receipts ReceiptUpdater, metrics Metrics, logger *slog.Logger) *Notifier {
	return &Notifier{log: w, receipts: receipts, metrics: metrics, logger: logger}
}

// Message renders the alert log line for a payload.
func Message(p validation.AlertPayload) string {
	if p.Success != "" {
		return fmt.Sprintf("Record %s committed to the ledger", p.Success)
	}
	return fmt.Sprintf("Record %s failed to commit to the ledger", p.Failure)
}

// Notify appends exactly one log line for the payload. The payload must
// already be validated: exactly one of Success and Failure set.
func (n *Notifier) Notify(ctx context.Context, p validation.AlertPayload) error {
	if err := n.log.Append(Message(p)); err != nil {
		return err
	}

	plot, status, from, metric := p.Success, receipts.StatusCommitted, []string{receipts.StatusQueued, receipts.StatusFailed}, MetricCommitted
	if p.Success == "" {
		plot, status, from, metric = p.Failure, receipts.StatusFailed, []string{receipts.StatusQueued}, MetricCommitFailed
	}
	n.metrics.Incr(ctx, metric)

	if n.receipts == nil {
		return nil
	}
	err := n.receipts.Transition(ctx, plot, status, from...)
	switch {
	case err == nil:
	case errors.Is(err, receipts.ErrStatusMismatch):
		// duplicate delivery, or a record queued before receipts were enabled
		n.logger.Info("receipt_not_advanced", slog.String("plot_num", plot), slog.String("status", status))
	default:
		n.logger.Warn("receipt_update_failed", slog.String("plot_num", plot), slog.Any("err", err))
	}
	return nil
}
