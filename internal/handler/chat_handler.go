package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rebeen/zanist/internal/model"
	"github.com/rebeen/zanist/internal/service"
)

// ChatHandler handles conversational requests.
type ChatHandler struct {
	svc    *service.AnalysisService
	logger *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(svc *service.AnalysisService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: logger}
}

// Chat runs the dual-provider conversation pipeline.
// Route: POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}

	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "message is required",
		})
		return
	}

	result, err := h.svc.Chat(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrAllProvidersFailed) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "no chat provider produced a usable result",
			})
			return
		}
		h.logger.Error("chat pipeline error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal error",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
