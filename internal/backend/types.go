package backend

import "errors"

// Status is the verdict of a validation call.
type Status int

const (
	Accepted Status = iota
	Rejected
	TransportError
)

func (s Status) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case TransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// ErrTransport wraps every failure to obtain a verdict: connection errors,
// timeouts and unexpected status codes.
var ErrTransport = errors.New("validation backend unavailable")

// Outcome is the tri-state result of Validate. Reason is set for Rejected,
// Err for TransportError.
type Outcome struct {
	Status Status
	Reason string
	Err    error
}

// DefaultRejectReason is used when the backend rejects without a body.
const DefaultRejectReason = "Invalid transaction"
