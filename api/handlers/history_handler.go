package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/ytgrab/internal/domain"
)

// HistoryHandler exposes the download history
type HistoryHandler struct {
	repo   domain.HistoryRepository
	logger *zap.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(repo domain.HistoryRepository, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		repo:   repo,
		logger: logger,
	}
}

// List handles GET /api/history
func (h *HistoryHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		respondError(c, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	failedOnly := c.Query("failed") == "true"

	entries, err := h.repo.List(limit, failedOnly)
	if err != nil {
		h.logger.Error("Failed to list history", zap.Error(err))
		respondError(c, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Stats handles GET /api/history/stats
func (h *HistoryHandler) Stats(c *gin.Context) {
	stats, err := h.repo.GetStats()
	if err != nil {
		h.logger.Error("Failed to get history stats", zap.Error(err))
		respondError(c, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	c.JSON(http.StatusOK, stats)
}
