package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agilerecords/records-frontend/internal/backend"
	"github.com/agilerecords/records-frontend/internal/records"
	"github.com/agilerecords/records-frontend/internal/store"
)

// User-facing messages. Raw causes stay in the server log.
const (
	MsgCaptured              = "Record Captured"
	MsgValidationUnavailable = "Validation service is unavailable, please try again later"
	MsgQueueUnavailable      = "Record could not be queued, please try again later"
)

// Metric names published per outcome.
const (
	MetricCaptured              = "SubmissionCaptured"
	MetricRejected              = "SubmissionRejected"
	MetricValidationUnavailable = "ValidationUnavailable"
	MetricQueueWriteFailed      = "QueueWriteFailed"
	MetricSaleValue             = "SaleValue"
)

// receiptTimeout bounds the receipt write, which outlives a cancelled request.
const receiptTimeout = 5 * time.Second

// Validator returns the verdict of the validation backend for a record.
type Validator interface {
	Validate(ctx context.Context, rec records.TransactionRecord) backend.Outcome
}

// ReceiptRecorder tracks queued records. Optional.
type ReceiptRecorder interface {
	Create(ctx context.Context, rec records.TransactionRecord) error
}

// Metrics counts outcomes. aws.Metrics and aws.NopMetrics satisfy it.
type Metrics interface {
	Incr(ctx context.Context, name string)
	Observe(ctx context.Context, name string, value float64)
}

// Submitter validates a record and hands it to the queue.
type Submitter struct {
	validator Validator
	queue     store.Queue
	receipts  ReceiptRecorder
	metrics   Metrics
	log       *slog.Logger
}

// NewSubmitter wires a Submitter. receipts may be nil.
func NewSubmitter(validator Validator, queue store.Queue, receipts ReceiptRecorder, metrics Metrics, log *slog.Logger) *Submitter {
	return &Submitter{
		validator: validator,
		queue:     queue,
		receipts:  receipts,
		metrics:   metrics,
		log:       log,
	}
}

// Submit runs one submission: a single validation call, then at most one
// queue write if the backend accepted the record. It never retries.
func (s *Submitter) Submit(ctx context.Context, rec records.TransactionRecord) Outcome {
	log := s.log.With(slog.String("plot_num", rec.PlotNumber), slog.String("submission_id", rec.SubmissionID))

	verdict := s.validator.Validate(ctx, rec)
	switch verdict.Status {
	case backend.Accepted:
	case backend.Rejected:
		log.Info("submission_rejected", slog.String("reason", verdict.Reason))
		s.metrics.Incr(ctx, MetricRejected)
		return Outcome{Level: LevelError, Kind: KindRejected, Message: verdict.Reason}
	default:
		err := verdict.Err
		if err == nil {
			err = backend.ErrTransport
		}
		log.Error("validation_unavailable", slog.Any("err", err))
		s.metrics.Incr(ctx, MetricValidationUnavailable)
		return Outcome{Level: LevelError, Kind: KindValidationUnavailable, Message: MsgValidationUnavailable, Err: err}
	}

	if err := s.queue.Enqueue(ctx, rec); err != nil {
		if !errors.Is(err, store.ErrQueueWrite) {
			err = fmt.Errorf("%w: %w", store.ErrQueueWrite, err)
		}
		log.Error("enqueue_failed", slog.Any("err", err))
		s.metrics.Incr(ctx, MetricQueueWriteFailed)
		return Outcome{Level: LevelError, Kind: KindQueueFailed, Message: MsgQueueUnavailable, Err: err}
	}
	log.Info("record_queued")

	// the record now belongs to the backend; bookkeeping failures are only logged
	if s.receipts != nil {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), receiptTimeout)
		err := s.receipts.Create(rctx, rec)
		cancel()
		if err != nil {
			log.Warn("receipt_create_failed", slog.Any("err", err))
		}
	}
	s.metrics.Incr(ctx, MetricCaptured)
	if v, ok := rec.SaleValue(); ok {
		s.metrics.Observe(ctx, MetricSaleValue, v.InexactFloat64())
	}

	return Outcome{Level: LevelInfo, Kind: KindCaptured, Message: MsgCaptured}
}
