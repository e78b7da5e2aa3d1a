// Package handler contains HTTP request handlers.
// In Gin, a handler is any function with signature func(*gin.Context).
// No need for controller classes — just functions grouped by file.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rebeen/zanist/internal/model"
	"github.com/rebeen/zanist/internal/service"
)

// AnalyzeHandler handles structured-analysis requests. It is thin on
// purpose: decode, delegate to the pipeline, map the one possible error.
type AnalyzeHandler struct {
	svc    *service.AnalysisService
	logger *zap.Logger
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(svc *service.AnalysisService, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc, logger: logger}
}

// Analyze runs the dual-provider analysis pipeline.
// Route: POST /api/v1/analyze
//
// The only error contract with callers is the aggregate failure: both
// providers unusable maps to 502. Which provider failed and why is
// logged inside the service, not exposed here.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req model.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}

	if len(req.Tables) == 0 && len(req.Texts) == 0 && req.Notes == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "request contains no tables, texts, or notes",
		})
		return
	}

	result, err := h.svc.AnalyzeStructured(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrAllProvidersFailed) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "no analysis provider produced a usable result",
			})
			return
		}
		h.logger.Error("analysis pipeline error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal error",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
