package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rebeen/zanist/internal/storage"
)

// AdminHandler serves operational endpoints: provider call statistics
// from the audit log. This is where per-provider success detail lives —
// the public API deliberately never exposes it.
type AdminHandler struct {
	calls  storage.ProviderCallRepository
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler. calls may be nil when the
// audit log is disabled; stats then report zero.
func NewAdminHandler(calls storage.ProviderCallRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{calls: calls, logger: logger}
}

// Stats returns aggregate provider call counts.
// Route: GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	if h.calls == nil {
		c.JSON(http.StatusOK, gin.H{"total_calls": 0, "by_provider": []storage.CallStats{}})
		return
	}

	ctx := c.Request.Context()

	total, err := h.calls.Count(ctx)
	if err != nil {
		h.logger.Error("counting provider calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}

	stats, err := h.calls.Stats(ctx)
	if err != nil {
		h.logger.Error("querying provider call stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_calls": total,
		"by_provider": stats,
	})
}
