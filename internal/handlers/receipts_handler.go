package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterReceiptRoutes exposes the status of queued submissions.
func RegisterReceiptRoutes(r *gin.Engine, cfg HandlerConfig) {
	r.GET("/receipts/:plot", func(c *gin.Context) {
		if cfg.Receipts == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "receipts_disabled"})
			return
		}
		plot := c.Param("plot")
		rec, err := cfg.Receipts.Get(c.Request.Context(), plot)
		if err != nil {
			cfg.Logger.Error("receipt_lookup_failed", slog.String("plot_num", plot), slog.Any("err", err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "receipts_unavailable"})
			return
		}
		if rec == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusOK, rec)
	})
}
