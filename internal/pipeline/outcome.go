package pipeline

import "net/http"

// Level is the badge a rendered outcome carries.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Kind tells apart the ways a submission can end.
type Kind int

const (
	KindCaptured Kind = iota
	KindRejected
	KindValidationUnavailable
	KindQueueFailed
)

// Outcome is what the user sees after a submission. Err carries the raw
// cause for logging and is never rendered.
type Outcome struct {
	Level   Level  `json:"level"`
	Kind    Kind   `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// HTTPStatus maps the outcome to a response status code.
func (o Outcome) HTTPStatus() int {
	switch o.Kind {
	case KindCaptured:
		return http.StatusOK
	case KindRejected:
		return http.StatusUnprocessableEntity
	case KindValidationUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusServiceUnavailable
	}
}

// Retryable reports whether resubmitting the same form may succeed.
func (o Outcome) Retryable() bool {
	return o.Kind == KindValidationUnavailable || o.Kind == KindQueueFailed
}
