package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agilerecords/records-frontend/internal/validation"
)

// RegisterAlertRoutes registers the backend notification callback and the log page.
func RegisterAlertRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	// The backend posts either JSON or form-encoded data; nothing is rendered back.
	r.POST("/alerts", func(c *gin.Context) {
		var p validation.AlertPayload
		if err := validation.Bind(c, &p, v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_alert", "details": validation.FieldErrors(err)})
			return
		}
		if err := cfg.Notifier.Notify(c.Request.Context(), p); err != nil {
			cfg.Logger.Error("alert_log_write_failed", slog.Any("err", err))
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.GET("/logs", func(c *gin.Context) {
		lines, err := cfg.AlertLog.Tail(cfg.LogsTail)
		if err != nil {
			cfg.Logger.Error("alert_log_read_failed", slog.Any("err", err))
			render(c, http.StatusServiceUnavailable, "logs.tmpl",
				gin.H{"Title": pageTitle, "Error": "Logs are temporarily unavailable"},
				gin.H{"error": "Logs are temporarily unavailable"})
			return
		}
		if lines == nil {
			lines = []string{}
		}
		render(c, http.StatusOK, "logs.tmpl",
			gin.H{"Title": pageTitle, "Lines": lines},
			gin.H{"lines": lines})
	})
}
