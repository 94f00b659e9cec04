package handlers

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agilerecords/records-frontend/internal/pipeline"
	"github.com/agilerecords/records-frontend/internal/receipts"
	"github.com/agilerecords/records-frontend/internal/records"
	"github.com/agilerecords/records-frontend/internal/store"
	"github.com/agilerecords/records-frontend/internal/validation"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const pageTitle = "Agile Records MIS"

// Submitter runs the submission pipeline. *pipeline.Submitter satisfies it.
type Submitter interface {
	Submit(ctx context.Context, rec records.TransactionRecord) pipeline.Outcome
}

// Notifier handles backend notifications. *alerts.Notifier satisfies it.
type Notifier interface {
	Notify(ctx context.Context, p validation.AlertPayload) error
}

// LogReader serves the alert log page. *alerts.Log satisfies it.
type LogReader interface {
	Tail(n int) ([]string, error)
}

// ReceiptReader serves GET /receipts/:plot. *receipts.Store satisfies it.
type ReceiptReader interface {
	Get(ctx context.Context, plotNumber string) (*receipts.Receipt, error)
}

// Pinger reports whether the records store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Metrics counts lookup outcomes.
type Metrics interface {
	Incr(ctx context.Context, name string)
}

// HandlerConfig groups dependencies for the frontend routes.
// Receipts, Idempotency and Ready are optional.
type HandlerConfig struct {
	Submitter   Submitter
	Cache       store.Cache
	Notifier    Notifier
	AlertLog    LogReader
	LogsTail    int
	Receipts    ReceiptReader
	Idempotency IdempotencyStore
	Ready       Pinger
	Metrics     Metrics
	Logger      *slog.Logger
}

// NewRouter builds the gin engine with every frontend route registered.
func NewRouter(cfg HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), accessLog(cfg.Logger))
	r.SetHTMLTemplate(template.Must(template.New("").Funcs(template.FuncMap{"value": formatValue}).ParseFS(templatesFS, "templates/*.tmpl")))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		if cfg.Ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := cfg.Ready.Ping(ctx); err != nil {
				cfg.Logger.Warn("readiness_failed", slog.Any("err", err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	RegisterRecordRoutes(r, cfg)
	RegisterAlertRoutes(r, cfg)
	RegisterReceiptRoutes(r, cfg)
	return r
}

// accessLog logs one line per request.
func accessLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

// render answers with the HTML page by default, or JSON when the client asks for it.
func render(c *gin.Context, code int, page string, html gin.H, data any) {
	c.Negotiate(code, gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: page,
		HTMLData: html,
		JSONData: data,
	})
}
