package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agilerecords/records-frontend/internal/aws"
	"github.com/agilerecords/records-frontend/internal/records"
)

// SQSQueue delivers records to an SQS queue instead of the Redis list.
type SQSQueue struct {
	publisher *aws.Publisher
}

func NewSQSQueue(publisher *aws.Publisher) *SQSQueue {
	return &SQSQueue{publisher: publisher}
}

func (q *SQSQueue) Enqueue(ctx context.Context, rec records.TransactionRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: marshal record: %w", ErrQueueWrite, err)
	}

	attrs := map[string]string{
		"plot_num":      rec.PlotNumber,
		"submission_id": rec.SubmissionID,
	}
	if _, err := q.publisher.SendRecordMessage(ctx, string(body), attrs); err != nil {
		return fmt.Errorf("%w: %w", ErrQueueWrite, err)
	}
	return nil
}
