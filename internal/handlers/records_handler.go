package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agilerecords/records-frontend/internal/idempotency"
	"github.com/agilerecords/records-frontend/internal/pipeline"
	"github.com/agilerecords/records-frontend/internal/records"
	"github.com/agilerecords/records-frontend/internal/store"
	"github.com/agilerecords/records-frontend/internal/validation"
)

// User-facing lookup messages.
const (
	MsgRecordNotFound   = "Record does not exist"
	MsgCacheUnavailable = "Records are temporarily unavailable"
	MsgInProgress       = "This submission is already being processed"
)

// Lookup metric names.
const (
	MetricLookupFound    = "LookupFound"
	MetricLookupNotFound = "LookupNotFound"
	MetricLookupFailed   = "LookupFailed"
)

// outcomeTimeout bounds recording a submission outcome after the pipeline
// ran. The client may already be gone by then.
const outcomeTimeout = 5 * time.Second

// IdempotencyKeyHeader carries the submission id for API clients that do not
// post the hidden form field.
const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyStore guards against the same form being submitted twice.
// *idempotency.Store satisfies it.
type IdempotencyStore interface {
	Claim(ctx context.Context, key, plotNumber string) (bool, error)
	Get(ctx context.Context, key string) (*idempotency.Entry, error)
	Reopen(ctx context.Context, key string) (bool, error)
	Complete(ctx context.Context, key, responseBody string, responseStatus int) error
	Fail(ctx context.Context, key, note string) error
}

// indexData is the landing page model. Every render carries a fresh
// submission id for the next form post.
func indexData(extra gin.H) gin.H {
	h := gin.H{"Title": pageTitle, "SubmissionID": uuid.NewString()}
	for k, v := range extra {
		h[k] = v
	}
	return h
}

// RegisterRecordRoutes registers the landing page, submission and lookup routes.
func RegisterRecordRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.tmpl", indexData(nil))
	})

	r.POST("/add", func(c *gin.Context) {
		ctx := c.Request.Context()

		var form validation.SubmitForm
		if err := validation.Bind(c, &form, v); err != nil {
			render(c, http.StatusBadRequest, "index.tmpl",
				indexData(gin.H{"Error": "Some fields are invalid", "FieldErrors": validation.FieldErrors(err)}),
				gin.H{"level": pipeline.LevelError, "errors": validation.FieldErrors(err)})
			return
		}
		rec := records.FromForm(form)
		if rec.SubmissionID == "" {
			key := c.GetHeader(IdempotencyKeyHeader)
			if err := v.Var(key, "omitempty,max=64"); err != nil {
				msg := IdempotencyKeyHeader + " must be at most 64 characters"
				render(c, http.StatusBadRequest, "index.tmpl",
					indexData(gin.H{"Error": msg}),
					gin.H{"level": pipeline.LevelError, "error": msg})
				return
			}
			rec.SubmissionID = key
		}

		guarded := false
		if cfg.Idempotency != nil && rec.SubmissionID != "" {
			var replay *storedResponse
			replay, guarded = claimSubmission(ctx, cfg, rec)
			if replay != nil {
				renderOutcome(c, replay.status, replay.outcome)
				return
			}
		}

		out := cfg.Submitter.Submit(ctx, rec)

		if guarded {
			recordOutcome(ctx, cfg, rec.SubmissionID, out)
		}

		renderOutcome(c, out.HTTPStatus(), out)
	})

	r.POST("/find", func(c *gin.Context) {
		ctx := c.Request.Context()

		var form validation.FindForm
		if err := validation.Bind(c, &form, v); err != nil {
			render(c, http.StatusBadRequest, "index.tmpl",
				indexData(gin.H{"Error": "Enter a plot number"}),
				gin.H{"error": "Enter a plot number", "errors": validation.FieldErrors(err)})
			return
		}

		rec, err := cfg.Cache.Lookup(ctx, form.Query)
		switch {
		case err == nil:
			cfg.Metrics.Incr(ctx, MetricLookupFound)
			rec = rec.WithPlotNumber(form.Query)
			render(c, http.StatusOK, "index.tmpl",
				indexData(gin.H{"Record": rec.Fields()}),
				gin.H{"record": rec})
		case errors.Is(err, store.ErrRecordNotFound):
			cfg.Metrics.Incr(ctx, MetricLookupNotFound)
			render(c, http.StatusNotFound, "index.tmpl",
				indexData(gin.H{"Error": MsgRecordNotFound}),
				gin.H{"error": MsgRecordNotFound})
		default:
			cfg.Metrics.Incr(ctx, MetricLookupFailed)
			cfg.Logger.Error("lookup_failed", slog.String("query", form.Query), slog.Any("err", err))
			render(c, http.StatusServiceUnavailable, "index.tmpl",
				indexData(gin.H{"Error": MsgCacheUnavailable}),
				gin.H{"error": MsgCacheUnavailable})
		}
	})
}

type storedResponse struct {
	status  int
	outcome pipeline.Outcome
}

// claimSubmission takes the idempotency slot for rec.SubmissionID. A non-nil
// response means the pipeline must not run and the response is rendered
// instead. guarded reports whether the outcome must be recorded afterwards.
func claimSubmission(ctx context.Context, cfg HandlerConfig, rec records.TransactionRecord) (*storedResponse, bool) {
	key := rec.SubmissionID
	log := cfg.Logger.With(slog.String("key", key))
	inProgress := &storedResponse{
		status:  http.StatusConflict,
		outcome: pipeline.Outcome{Level: pipeline.LevelError, Message: MsgInProgress},
	}

	created, err := cfg.Idempotency.Claim(ctx, key, rec.PlotNumber)
	if err != nil {
		// submissions go through unguarded while the table is unreachable
		log.Warn("idempotency_unavailable", slog.Any("err", err))
		return nil, false
	}
	if created {
		return nil, true
	}

	existing, err := cfg.Idempotency.Get(ctx, key)
	if err != nil || existing == nil {
		log.Warn("idempotency_lookup_failed", slog.Any("err", err))
		return inProgress, false
	}

	switch existing.Status {
	case idempotency.StatusDone:
		var out pipeline.Outcome
		if err := json.Unmarshal([]byte(existing.ResponseBody), &out); err != nil || existing.ResponseStatus == 0 {
			out = pipeline.Outcome{Level: pipeline.LevelInfo, Message: pipeline.MsgCaptured}
			return &storedResponse{status: http.StatusOK, outcome: out}, false
		}
		log.Info("submission_replayed")
		return &storedResponse{status: existing.ResponseStatus, outcome: out}, false
	case idempotency.StatusFailed:
		reopened, err := cfg.Idempotency.Reopen(ctx, key)
		if err != nil {
			log.Warn("idempotency_reopen_failed", slog.Any("err", err))
		}
		if reopened {
			return nil, true
		}
	}
	return inProgress, false
}

// recordOutcome stores the result of a guarded submission. It runs detached
// from the request so a disconnected client cannot leave the key IN_PROGRESS.
func recordOutcome(ctx context.Context, cfg HandlerConfig, key string, out pipeline.Outcome) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), outcomeTimeout)
	defer cancel()

	if out.Retryable() {
		note := out.Message
		if out.Err != nil {
			note = out.Err.Error()
		}
		if err := cfg.Idempotency.Fail(ctx, key, note); err != nil {
			cfg.Logger.Warn("idempotency_fail_error", slog.String("key", key), slog.Any("err", err))
		}
		return
	}
	body, _ := json.Marshal(out)
	if err := cfg.Idempotency.Complete(ctx, key, string(body), out.HTTPStatus()); err != nil {
		cfg.Logger.Warn("idempotency_complete_error", slog.String("key", key), slog.Any("err", err))
	}
}

func renderOutcome(c *gin.Context, code int, out pipeline.Outcome) {
	html := gin.H{}
	if out.Level == pipeline.LevelInfo {
		html["Success"] = out.Message
	} else {
		html["Error"] = out.Message
	}
	render(c, code, "index.tmpl", indexData(html), out)
}

// formatValue renders a cached field value for the record table.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
