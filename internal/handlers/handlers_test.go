package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"

	"github.com/agilerecords/records-frontend/internal/aws"
	"github.com/agilerecords/records-frontend/internal/backend"
	"github.com/agilerecords/records-frontend/internal/idempotency"
	"github.com/agilerecords/records-frontend/internal/logging"
	"github.com/agilerecords/records-frontend/internal/pipeline"
	"github.com/agilerecords/records-frontend/internal/receipts"
	"github.com/agilerecords/records-frontend/internal/records"
	"github.com/agilerecords/records-frontend/internal/store"
	"github.com/agilerecords/records-frontend/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- fakes ---

type fakeSubmitter struct {
	out   pipeline.Outcome
	calls int
	got   records.TransactionRecord
}

func (f *fakeSubmitter) Submit(ctx context.Context, rec records.TransactionRecord) pipeline.Outcome {
	f.calls++
	f.got = rec
	return f.out
}

type fakeCache struct {
	rec records.CachedRecord
	err error
}

func (f fakeCache) Lookup(ctx context.Context, plot string) (records.CachedRecord, error) {
	return f.rec, f.err
}

type fakeNotifier struct {
	err error
	got []validation.AlertPayload
}

func (f *fakeNotifier) Notify(ctx context.Context, p validation.AlertPayload) error {
	f.got = append(f.got, p)
	return f.err
}

type fakeLog struct {
	lines []string
	err   error
}

func (f fakeLog) Tail(n int) ([]string, error) { return f.lines, f.err }

type fakeReceipts map[string]*receipts.Receipt

func (f fakeReceipts) Get(ctx context.Context, plot string) (*receipts.Receipt, error) {
	return f[plot], nil
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("dial tcp: connection refused") }

// memIdempotency is an in-memory IdempotencyStore. Like the DynamoDB client,
// it refuses to work on a done context.
type memIdempotency struct {
	mu   sync.Mutex
	recs map[string]*idempotency.Entry
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{recs: map[string]*idempotency.Entry{}}
}

func (m *memIdempotency) Claim(ctx context.Context, key, plot string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[key]; ok {
		return false, nil
	}
	m.recs[key] = &idempotency.Entry{Key: key, PlotNumber: plot, Status: idempotency.StatusInProgress}
	return true, nil
}

func (m *memIdempotency) Get(ctx context.Context, key string) (*idempotency.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recs[key], nil
}

func (m *memIdempotency) Reopen(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[key]
	if !ok || r.Status != idempotency.StatusFailed {
		return false, nil
	}
	r.Status = idempotency.StatusInProgress
	return true, nil
}

func (m *memIdempotency) Complete(ctx context.Context, key, body string, status int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.recs[key]
	r.Status, r.ResponseBody, r.ResponseStatus = idempotency.StatusDone, body, status
	return nil
}

func (m *memIdempotency) Fail(ctx context.Context, key, note string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.recs[key]
	r.Status, r.Note = idempotency.StatusFailed, note
	return nil
}

func baseConfig() HandlerConfig {
	return HandlerConfig{
		Submitter: &fakeSubmitter{out: pipeline.Outcome{Level: pipeline.LevelInfo, Kind: pipeline.KindCaptured, Message: pipeline.MsgCaptured}},
		Cache:     fakeCache{err: store.ErrRecordNotFound},
		Notifier:  &fakeNotifier{},
		AlertLog:  fakeLog{},
		LogsTail:  10,
		Metrics:   aws.NopMetrics{},
		Logger:    logging.Discard(),
	}
}

func postForm(r http.Handler, path string, form url.Values, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, w.Body.String())
	}
	return out
}

func submission(id string) url.Values {
	return url.Values{
		"p_num": {"P1"}, "b_id": {"B1"}, "s_id": {"S1"},
		"sale_val": {"1,000"}, "submission_id": {id},
	}
}

// --- landing page ---

func TestIndex_RendersFormWithSubmissionID(t *testing.T) {
	r := NewRouter(baseConfig())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `name="submission_id" value="`) || !strings.Contains(body, "Agile Records MIS") {
		t.Fatalf("unexpected page: %s", body)
	}
}

// --- submission ---

func TestAdd_Captured(t *testing.T) {
	cfg := baseConfig()
	sub := cfg.Submitter.(*fakeSubmitter)
	r := NewRouter(cfg)

	w := postForm(r, "/add", submission(""), "application/json")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	if got["level"] != "info" || got["message"] != "Record Captured" {
		t.Fatalf("unexpected body: %v", got)
	}
	if sub.got.PlotNumber != "P1" || sub.got.BuyerID != "B1" || sub.got.Value != "1,000" {
		t.Fatalf("record not built from form: %+v", sub.got)
	}
}

func TestAdd_HTMLShowsSuccessBadge(t *testing.T) {
	r := NewRouter(baseConfig())

	w := postForm(r, "/add", submission(""), "")

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `class="badge info">Record Captured`) {
		t.Fatalf("unexpected page (%d): %s", w.Code, w.Body.String())
	}
}

func TestAdd_Rejected(t *testing.T) {
	cfg := baseConfig()
	cfg.Submitter = &fakeSubmitter{out: pipeline.Outcome{Level: pipeline.LevelError, Kind: pipeline.KindRejected, Message: "duplicate plot"}}
	r := NewRouter(cfg)

	w := postForm(r, "/add", submission(""), "application/json")

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if got := decode(t, w); got["level"] != "error" || got["message"] != "duplicate plot" {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestAdd_RawCauseIsNotRendered(t *testing.T) {
	cfg := baseConfig()
	cfg.Submitter = &fakeSubmitter{out: pipeline.Outcome{
		Level: pipeline.LevelError, Kind: pipeline.KindQueueFailed,
		Message: pipeline.MsgQueueUnavailable, Err: errors.New("NOAUTH secret-password"),
	}}
	r := NewRouter(cfg)

	w := postForm(r, "/add", submission(""), "")

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "secret-password") {
		t.Fatal("raw cause leaked into response")
	}
}

func TestAdd_FieldTooLong(t *testing.T) {
	cfg := baseConfig()
	sub := cfg.Submitter.(*fakeSubmitter)
	r := NewRouter(cfg)

	form := submission("")
	form.Set("county", strings.Repeat("x", 300))
	w := postForm(r, "/add", form, "application/json")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if sub.calls != 0 {
		t.Fatal("expected pipeline not to run")
	}
}

func TestAdd_EmptyFieldsAreAccepted(t *testing.T) {
	cfg := baseConfig()
	sub := cfg.Submitter.(*fakeSubmitter)
	r := NewRouter(cfg)

	w := postForm(r, "/add", url.Values{}, "application/json")

	if w.Code != http.StatusOK || sub.calls != 1 {
		t.Fatalf("expected empty submission to reach the pipeline, got %d calls=%d", w.Code, sub.calls)
	}
}

func TestAdd_ResubmissionReplaysOutcome(t *testing.T) {
	cfg := baseConfig()
	sub := cfg.Submitter.(*fakeSubmitter)
	idem := newMemIdempotency()
	cfg.Idempotency = idem
	r := NewRouter(cfg)

	first := postForm(r, "/add", submission("sub-1"), "application/json")
	second := postForm(r, "/add", submission("sub-1"), "application/json")

	if sub.calls != 1 {
		t.Fatalf("expected one pipeline run, got %d", sub.calls)
	}
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected 200 twice, got %d and %d", first.Code, second.Code)
	}
	if got := decode(t, second); got["message"] != "Record Captured" {
		t.Fatalf("unexpected replay: %v", got)
	}
	if idem.recs["sub-1"].Status != idempotency.StatusDone {
		t.Fatalf("expected DONE, got %s", idem.recs["sub-1"].Status)
	}
}

func TestAdd_IdempotencyKeyHeader(t *testing.T) {
	cfg := baseConfig()
	sub := cfg.Submitter.(*fakeSubmitter)
	cfg.Idempotency = newMemIdempotency()
	r := NewRouter(cfg)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(submission("").Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Idempotency-Key", "hdr-1")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	if sub.calls != 1 {
		t.Fatalf("expected one pipeline run, got %d", sub.calls)
	}
}

func TestAdd_RetryAfterFailure(t *testing.T) {
	cfg := baseConfig()
	sub := &fakeSubmitter{out: pipeline.Outcome{Level: pipeline.LevelError, Kind: pipeline.KindValidationUnavailable, Message: pipeline.MsgValidationUnavailable}}
	cfg.Submitter = sub
	idem := newMemIdempotency()
	cfg.Idempotency = idem
	r := NewRouter(cfg)

	w := postForm(r, "/add", submission("sub-2"), "application/json")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if idem.recs["sub-2"].Status != idempotency.StatusFailed {
		t.Fatalf("expected FAILED, got %s", idem.recs["sub-2"].Status)
	}

	sub.out = pipeline.Outcome{Level: pipeline.LevelInfo, Kind: pipeline.KindCaptured, Message: pipeline.MsgCaptured}
	w = postForm(r, "/add", submission("sub-2"), "application/json")
	if w.Code != http.StatusOK || sub.calls != 2 {
		t.Fatalf("expected retry to run the pipeline, got %d calls=%d", w.Code, sub.calls)
	}
}

// cancellingSubmitter drops the client connection while the pipeline runs.
type cancellingSubmitter struct {
	cancel context.CancelFunc
	out    pipeline.Outcome
	calls  int
}

func (s *cancellingSubmitter) Submit(ctx context.Context, rec records.TransactionRecord) pipeline.Outcome {
	s.calls++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return s.out
}

func TestAdd_ClientGoneDuringSubmitStillRecordsOutcome(t *testing.T) {
	cfg := baseConfig()
	sub := &cancellingSubmitter{out: pipeline.Outcome{Level: pipeline.LevelError, Kind: pipeline.KindValidationUnavailable, Message: pipeline.MsgValidationUnavailable}}
	cfg.Submitter = sub
	idem := newMemIdempotency()
	cfg.Idempotency = idem
	r := NewRouter(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub.cancel = cancel
	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(submission("sub-4").Encode())).WithContext(ctx)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got := idem.recs["sub-4"].Status; got != idempotency.StatusFailed {
		t.Fatalf("expected FAILED after cancelled request, got %s", got)
	}

	sub.out = pipeline.Outcome{Level: pipeline.LevelInfo, Kind: pipeline.KindCaptured, Message: pipeline.MsgCaptured}
	w := postForm(r, "/add", submission("sub-4"), "application/json")
	if w.Code != http.StatusOK || sub.calls != 2 {
		t.Fatalf("expected retry to run the pipeline, got %d calls=%d", w.Code, sub.calls)
	}
	if got := idem.recs["sub-4"].Status; got != idempotency.StatusDone {
		t.Fatalf("expected DONE after retry, got %s", got)
	}
}

func TestAdd_IdempotencyKeyHeaderTooLong(t *testing.T) {
	cfg := baseConfig()
	sub := cfg.Submitter.(*fakeSubmitter)
	cfg.Idempotency = newMemIdempotency()
	r := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(submission("").Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(IdempotencyKeyHeader, strings.Repeat("k", 65))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest || sub.calls != 0 {
		t.Fatalf("expected 400 without pipeline run, got %d calls=%d", w.Code, sub.calls)
	}
	if got := decode(t, w)["error"]; got != "Idempotency-Key must be at most 64 characters" {
		t.Fatalf("unexpected error: %v", got)
	}
}

func TestAdd_InProgressConflict(t *testing.T) {
	cfg := baseConfig()
	sub := cfg.Submitter.(*fakeSubmitter)
	idem := newMemIdempotency()
	_, _ = idem.Claim(context.Background(), "sub-3", "P1")
	cfg.Idempotency = idem
	r := NewRouter(cfg)

	w := postForm(r, "/add", submission("sub-3"), "application/json")
	if w.Code != http.StatusConflict || sub.calls != 0 {
		t.Fatalf("expected 409 without pipeline run, got %d calls=%d", w.Code, sub.calls)
	}
}

// --- lookup ---

func TestFind_FromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.HSet("records_cache", "P1", `{"size":"2"}`)
	rs := store.NewRedisStore(store.RedisOptions{Addr: mr.Addr(), QueueKey: "records_queue", CacheKey: "records_cache"})
	t.Cleanup(func() { _ = rs.Close() })

	cfg := baseConfig()
	cfg.Cache = rs
	r := NewRouter(cfg)

	w := postForm(r, "/find", url.Values{"query": {"P1"}}, "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	rec, ok := decode(t, w)["record"].(map[string]any)
	if !ok || rec["size"] != "2" || rec["PlotNumber"] != "P1" {
		t.Fatalf("unexpected record: %v", rec)
	}

	w = postForm(r, "/find", url.Values{"query": {"P1"}}, "")
	body := w.Body.String()
	if !strings.Contains(body, "<th>PlotNumber</th><td>P1</td>") || !strings.Contains(body, "<th>size</th><td>2</td>") {
		t.Fatalf("unexpected page: %s", body)
	}
}

func TestAddThenFind_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	rs := store.NewRedisStore(store.RedisOptions{Addr: mr.Addr(), QueueKey: "records_queue", CacheKey: "records_cache"})
	t.Cleanup(func() { _ = rs.Close() })

	cfg := baseConfig()
	cfg.Submitter = pipeline.NewSubmitter(
		backend.New(srv.URL, []string{"plot_number", "buyer_id", "seller_id"}, time.Second),
		rs, nil, aws.NopMetrics{}, logging.Discard())
	cfg.Cache = rs
	r := NewRouter(cfg)

	form := submission("rt-1")
	form.Set("county", "Nakuru")
	w := postForm(r, "/add", form, "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	items, err := mr.List("records_queue")
	if err != nil || len(items) != 1 {
		t.Fatalf("expected one queued record, got %v %v", items, err)
	}
	// the backend stores the queued record under its plot number
	mr.HSet("records_cache", "P1", items[0])

	w = postForm(r, "/find", url.Values{"query": {"P1"}}, "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	rec, ok := decode(t, w)["record"].(map[string]any)
	if !ok {
		t.Fatalf("missing record: %s", w.Body.String())
	}
	want := map[string]string{
		"PlotNumber": "P1", "buyer_id": "B1", "seller_id": "S1",
		"value": "1,000", "county": "Nakuru",
	}
	for k, v := range want {
		if rec[k] != v {
			t.Fatalf("%s: expected %q, got %v", k, v, rec[k])
		}
	}
}

func TestFind_NotFound(t *testing.T) {
	r := NewRouter(baseConfig())

	w := postForm(r, "/find", url.Values{"query": {"NOPE"}}, "application/json")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if got := decode(t, w); got["error"] != MsgRecordNotFound {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestFind_ReadErrorIsDistinct(t *testing.T) {
	cfg := baseConfig()
	cfg.Cache = fakeCache{err: fmt.Errorf("%w: i/o timeout", store.ErrCacheRead)}
	r := NewRouter(cfg)

	w := postForm(r, "/find", url.Values{"query": {"P1"}}, "application/json")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if got := decode(t, w); got["error"] != MsgCacheUnavailable {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestFind_MissingQuery(t *testing.T) {
	r := NewRouter(baseConfig())

	w := postForm(r, "/find", url.Values{}, "application/json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

// --- alerts ---

func TestAlerts_JSONAndForm(t *testing.T) {
	cfg := baseConfig()
	n := cfg.Notifier.(*fakeNotifier)
	r := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/alerts", strings.NewReader(`{"success":"P1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for JSON alert, got %d", w.Code)
	}

	w = postForm(r, "/alerts", url.Values{"failure": {"P2"}}, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for form alert, got %d", w.Code)
	}

	if len(n.got) != 2 || n.got[0].Success != "P1" || n.got[1].Failure != "P2" {
		t.Fatalf("unexpected notifications: %+v", n.got)
	}
}

func TestAlerts_InvalidPayload(t *testing.T) {
	cfg := baseConfig()
	n := cfg.Notifier.(*fakeNotifier)
	r := NewRouter(cfg)

	for _, body := range []string{`{}`, `{"success":"P1","failure":"P1"}`} {
		req := httptest.NewRequest(http.MethodPost, "/alerts", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, w.Code)
		}
	}
	if len(n.got) != 0 {
		t.Fatalf("expected no notifications, got %+v", n.got)
	}
}

func TestAlerts_LogWriteFailure(t *testing.T) {
	cfg := baseConfig()
	cfg.Notifier = &fakeNotifier{err: errors.New("disk full")}
	r := NewRouter(cfg)

	w := postForm(r, "/alerts", url.Values{"success": {"P1"}}, "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", w.Body.String())
	}
}

func TestLogs(t *testing.T) {
	cfg := baseConfig()
	cfg.AlertLog = fakeLog{lines: []string{"[07-03-2024 09:05:01] Record P1 committed to the ledger"}}
	r := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/logs", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	lines, ok := decode(t, w)["lines"].([]any)
	if w.Code != http.StatusOK || !ok || len(lines) != 1 {
		t.Fatalf("unexpected logs response (%d): %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logs", nil))
	if !strings.Contains(w.Body.String(), "Record P1 committed to the ledger") {
		t.Fatalf("unexpected page: %s", w.Body.String())
	}
}

// --- receipts & health ---

func TestReceipts(t *testing.T) {
	cfg := baseConfig()
	r := NewRouter(cfg)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/receipts/P1", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when receipts are disabled, got %d", w.Code)
	}

	cfg.Receipts = fakeReceipts{"P1": {PlotNumber: "P1", Status: receipts.StatusQueued}}
	r = NewRouter(cfg)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/receipts/P1", nil))
	if w.Code != http.StatusOK || decode(t, w)["status"] != receipts.StatusQueued {
		t.Fatalf("unexpected receipt response (%d): %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/receipts/P9", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown plot, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	cfg := baseConfig()
	cfg.Ready = failingPinger{}
	r := NewRouter(cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected liveness 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected readiness 503, got %d", w.Code)
	}
}
