package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/agilerecords/records-frontend/internal/validation"
)

// Notifier is the notification handler shared with the HTTP /alerts route.
type Notifier interface {
	Notify(ctx context.Context, p validation.AlertPayload) error
}

// Processor feeds alert messages delivered through SQS into the Notifier.
type Processor struct {
	notifier Notifier
	validate *validatorv10.Validate
	log      *slog.Logger
}

// NewProcessor creates a new worker processor.
func NewProcessor(n Notifier, log *slog.Logger) *Processor {
	return &Processor{notifier: n, validate: validation.New(), log: log}
}

// Handle processes an SQS batch. Messages whose log write failed are reported
// back as batch item failures so only they are redelivered; malformed
// messages are dropped since redelivery cannot fix them.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			p.log.Error("alert_processing_failed", slog.String("message_id", rec.MessageId), slog.Any("err", err))
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: rec.MessageId})
		}
	}
	return resp, nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg validation.AlertPayload
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		p.log.Warn("alert_dropped", slog.String("message_id", rec.MessageId), slog.String("reason", "invalid body"), slog.Any("err", err))
		return nil
	}
	if err := p.validate.Struct(msg); err != nil {
		p.log.Warn("alert_dropped", slog.String("message_id", rec.MessageId), slog.String("reason", "invalid payload"), slog.Any("err", err))
		return nil
	}

	if err := p.notifier.Notify(ctx, msg); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	p.log.Info("alert_processed", slog.String("message_id", rec.MessageId), slog.String("success", msg.Success), slog.String("failure", msg.Failure))
	return nil
}
