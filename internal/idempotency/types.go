package idempotency

import "time"

// Entry statuses.
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// Entry guards one submitted form, keyed by its submission id (or the
// Idempotency-Key header). DONE entries carry the rendered outcome so a
// re-submission can be answered without running the pipeline again.
type Entry struct {
	Key            string    `dynamodbav:"idempotency_key"`
	Status         string    `dynamodbav:"status"`
	PlotNumber     string    `dynamodbav:"plot_num,omitempty"`
	ResponseBody   string    `dynamodbav:"response_body,omitempty"`
	ResponseStatus int       `dynamodbav:"response_status,omitempty"`
	Note           string    `dynamodbav:"note,omitempty"`
	CreatedAt      time.Time `dynamodbav:"created_at"`
	UpdatedAt      time.Time `dynamodbav:"updated_at"`
	ExpiresAt      int64     `dynamodbav:"expires_at"` // DynamoDB TTL, epoch seconds
}
