package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/ytgrab/internal/domain"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	kind domain.MediaKind
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(kind domain.MediaKind) *HealthHandler {
	return &HealthHandler{kind: kind}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health handles GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Message: fmt.Sprintf("YouTube %s Downloader API is running", h.kind.Title()),
	})
}
