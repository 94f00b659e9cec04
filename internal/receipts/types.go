package receipts

import "time"

// Receipt statuses
const (
	StatusQueued    = "QUEUED"
	StatusCommitted = "COMMITTED"
	StatusFailed    = "FAILED"
)

// Receipt tracks one queued submission until the ledger backend reports on it.
type Receipt struct {
	PlotNumber   string    `dynamodbav:"plot_num" json:"plot_num"` // PK
	SubmissionID string    `dynamodbav:"submission_id,omitempty" json:"submission_id,omitempty"`
	Status       string    `dynamodbav:"status" json:"status"` // QUEUED | COMMITTED | FAILED
	Value        string    `dynamodbav:"value,omitempty" json:"value,omitempty"`
	CreatedAt    time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt    time.Time `dynamodbav:"updated_at" json:"updated_at"`
	Attempts     int       `dynamodbav:"attempts,omitempty" json:"attempts,omitempty"` // failed commit reports
}
