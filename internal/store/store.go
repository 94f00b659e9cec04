package store

import (
	"context"
	"errors"

	"github.com/agilerecords/records-frontend/internal/records"
)

var (
	// ErrQueueWrite wraps any failure to append a record to the queue.
	ErrQueueWrite = errors.New("queue write failed")
	// ErrCacheRead wraps any failure to read or decode a cached record.
	ErrCacheRead = errors.New("cache read failed")
	// ErrRecordNotFound is returned by Lookup when no record exists for the key.
	ErrRecordNotFound = errors.New("record not found")
)

// Queue accepts validated records for the ledger backend. Once Enqueue
// returns nil the record belongs to the backend.
type Queue interface {
	Enqueue(ctx context.Context, rec records.TransactionRecord) error
}

// Cache resolves committed records by plot number (exact match).
type Cache interface {
	Lookup(ctx context.Context, plotNumber string) (records.CachedRecord, error)
}
