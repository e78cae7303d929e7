package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/ytgrab/internal/app"
	"github.com/yourusername/ytgrab/internal/domain"
)

const internalErrorMessage = "Internal server error"

// maxDescriptionLength bounds the description returned with extraction metadata
const maxDescriptionLength = 500

// MediaHandler serves extraction, retrieval and cleanup for one media kind
type MediaHandler struct {
	workspaces *app.WorkspaceManager
	logger     *zap.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(workspaces *app.WorkspaceManager, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		workspaces: workspaces,
		logger:     logger,
	}
}

// ExtractRequest is the body of an extraction request
type ExtractRequest struct {
	URL *string `json:"url"`
}

// MetadataResponse is the metadata returned for an extraction
type MetadataResponse struct {
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	Uploader    string  `json:"uploader"`
	Description string  `json:"description"`
	UploadDate  string  `json:"upload_date"`
	ViewCount   int64   `json:"view_count"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
}

// ExtractResponse is returned for a successful extraction
type ExtractResponse struct {
	Success     bool             `json:"success"`
	RequestID   string           `json:"request_id"`
	Filename    string           `json:"filename"`
	DownloadURL string           `json:"download_url"`
	Strategy    string           `json:"strategy,omitempty"`
	Metadata    MetadataResponse `json:"metadata"`
}

// Extract handles POST /api/extract-{kind}
func (h *MediaHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == nil {
		respondError(c, http.StatusBadRequest, "Missing YouTube URL in request body")
		return
	}

	target := strings.TrimSpace(*req.URL)
	if target == "" {
		respondError(c, http.StatusBadRequest, "Empty YouTube URL provided")
		return
	}

	extraction, err := h.workspaces.Extract(c.Request.Context(), target)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			respondError(c, http.StatusBadRequest, "Invalid YouTube URL. Please provide a valid YouTube video URL.")
			return
		}
		h.logger.Error("Extraction failed",
			zap.String("url", target),
			zap.String("kind", domain.FailureKind(err)),
			zap.Error(err))
		respondError(c, http.StatusInternalServerError, h.extractionFailureMessage(err))
		return
	}

	kind := h.workspaces.Kind()
	c.JSON(http.StatusOK, ExtractResponse{
		Success:     true,
		RequestID:   extraction.RequestID,
		Filename:    extraction.Filename,
		DownloadURL: fmt.Sprintf("/api/download-%s/%s/%s", kind, extraction.RequestID, url.PathEscape(extraction.Filename)),
		Strategy:    extraction.Result.Strategy,
		Metadata:    toMetadataResponse(extraction.Result.Metadata),
	})
}

// Download handles GET /api/download-{kind}/:request_id/:filename.
// The whole file is always sent; range and conditional requests are not
// honoured because the workspace is removed once a full body has been written.
func (h *MediaHandler) Download(c *gin.Context) {
	requestID := c.Param("request_id")
	filename := c.Param("filename")

	f, info, err := h.workspaces.Open(requestID, filename)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondError(c, http.StatusBadRequest, "Invalid request ID")
		case errors.Is(err, domain.ErrNotFound):
			respondError(c, http.StatusNotFound, fmt.Sprintf("%s file not found or expired", h.workspaces.Kind().Title()))
		default:
			h.logger.Error("Failed to open download", zap.String("request_id", requestID), zap.Error(err))
			respondError(c, http.StatusInternalServerError, internalErrorMessage)
		}
		return
	}
	defer f.Close()

	c.Header("Content-Type", h.workspaces.Kind().ContentTypeHeader())
	c.Header("Content-Length", strconv.FormatInt(info.Size(), 10))
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": info.Name()}))
	c.Header("Accept-Ranges", "none")
	c.Status(http.StatusOK)

	written, err := io.Copy(c.Writer, f)
	if err != nil || written != info.Size() {
		h.logger.Warn("Download interrupted, keeping workspace",
			zap.String("request_id", requestID),
			zap.Int64("written", written),
			zap.Int64("size", info.Size()),
			zap.Error(err))
		return
	}

	if _, err := h.workspaces.Release(requestID); err != nil {
		h.logger.Error("Failed to release workspace", zap.String("request_id", requestID), zap.Error(err))
	}
}

// Cleanup handles DELETE /api/cleanup/:request_id
func (h *MediaHandler) Cleanup(c *gin.Context) {
	removed, err := h.workspaces.Release(c.Param("request_id"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			respondError(c, http.StatusBadRequest, "Invalid request ID")
			return
		}
		h.logger.Error("Cleanup failed", zap.String("request_id", c.Param("request_id")), zap.Error(err))
		respondError(c, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	message := "No files to clean up"
	if removed {
		message = "Files cleaned up"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// extractionFailureMessage describes a failed extraction without exposing
// server paths or raw extractor output
func (h *MediaHandler) extractionFailureMessage(err error) string {
	kind := h.workspaces.Kind()
	switch {
	case errors.Is(err, domain.ErrLikelyBlocked):
		return "YouTube returned a web page instead of media. Please try again later."
	case errors.Is(err, domain.ErrExtraction), errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrResolution):
		return fmt.Sprintf("Failed to download %s. The video may be private or unavailable.", kind)
	default:
		return internalErrorMessage
	}
}

func toMetadataResponse(m *domain.Metadata) MetadataResponse {
	if m == nil {
		return MetadataResponse{}
	}
	return MetadataResponse{
		Title:       m.Title,
		Duration:    m.Duration,
		Uploader:    m.Uploader,
		Description: truncateDescription(m.Description),
		UploadDate:  m.UploadDate,
		ViewCount:   m.ViewCount,
		Thumbnail:   m.Thumbnail,
	}
}

// truncateDescription cuts descriptions longer than maxDescriptionLength runes
func truncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDescriptionLength {
		return s
	}
	return string(runes[:maxDescriptionLength]) + "..."
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}
