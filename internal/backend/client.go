package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agilerecords/records-frontend/internal/records"
)

// maxReasonBytes bounds how much of a rejection body is read.
const maxReasonBytes = 4 << 10

// Client calls the ledger backend's transaction validation endpoint.
type Client struct {
	url     string
	fields  []string
	timeout time.Duration
	h       *http.Client
}

// New returns a Client posting the given record fields to url. Each call is
// bounded by timeout.
func New(url string, fields []string, timeout time.Duration) *Client {
	return &Client{
		url:     url,
		fields:  fields,
		timeout: timeout,
		h:       &http.Client{Timeout: timeout},
	}
}

// Validate makes a single round trip to the backend. 200 accepts the record,
// 400 rejects it with the response body as reason; anything else, including
// timeouts, is a transport error. No retry is attempted.
func (c *Client) Validate(ctx context.Context, rec records.TransactionRecord) Outcome {
	payload := make(map[string]string, len(c.fields))
	for _, f := range c.fields {
		if v, ok := rec.Field(f); ok {
			payload[f] = v
		}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return transportError(fmt.Errorf("marshal payload: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return transportError(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.h.Do(req)
	if err != nil {
		return transportError(fmt.Errorf("post %s: %w", c.url, err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxReasonBytes))
		return Outcome{Status: Accepted}
	case http.StatusBadRequest:
		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReasonBytes))
		if err != nil {
			return transportError(fmt.Errorf("read rejection: %w", err))
		}
		return Outcome{Status: Rejected, Reason: rejectReason(raw)}
	default:
		return transportError(fmt.Errorf("unexpected status %d from %s", resp.StatusCode, c.url))
	}
}

func transportError(err error) Outcome {
	return Outcome{Status: TransportError, Err: fmt.Errorf("%w: %w", ErrTransport, err)}
}

// rejectReason extracts a human readable reason from a 400 body. The backend
// answers with a JSON string, or an object carrying "message".
func rejectReason(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return DefaultRejectReason
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
		return DefaultRejectReason
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return string(raw)
}
