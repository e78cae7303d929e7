package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/ytgrab/internal/domain"
)

// Extraction is a successful API extraction awaiting retrieval
type Extraction struct {
	RequestID string
	Filename  string
	Result    domain.DownloadResult
}

// WorkspaceManager owns the per-request directories of the HTTP API.
// Each request gets a directory named by a fresh UUID; the directory is
// removed after its file is served, on failure, on explicit cleanup, or
// by the startup sweep.
type WorkspaceManager struct {
	root       string
	kind       domain.MediaKind
	hosts      []string
	downloader domain.Downloader
	history    domain.HistoryRepository
	logger     *zap.Logger
}

// NewWorkspaceManager creates a workspace manager. history may be nil.
func NewWorkspaceManager(
	config *domain.APIConfig,
	downloader domain.Downloader,
	history domain.HistoryRepository,
	logger *zap.Logger,
) *WorkspaceManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkspaceManager{
		root:       config.WorkspaceRoot,
		kind:       config.MediaKind,
		hosts:      config.AllowedHosts,
		downloader: downloader,
		history:    history,
		logger:     logger,
	}
}

// Kind returns the media kind served
func (w *WorkspaceManager) Kind() domain.MediaKind {
	return w.kind
}

// Sweep removes every existing workspace under the root and ensures the root exists
func (w *WorkspaceManager) Sweep() (int, error) {
	if err := os.MkdirAll(w.root, 0755); err != nil {
		return 0, fmt.Errorf("%w: failed to create workspace root: %v", domain.ErrWorkspace, err)
	}

	entries, err := os.ReadDir(w.root)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read workspace root: %v", domain.ErrWorkspace, err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(w.root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			w.logger.Warn("Failed to remove stale workspace", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}

	w.logger.Info("Swept stale workspaces", zap.String("root", w.root), zap.Int("removed", removed))
	return removed, nil
}

// Extract downloads url into a fresh workspace.
// On failure the workspace is removed before the error is returned.
func (w *WorkspaceManager) Extract(ctx context.Context, url string) (*Extraction, error) {
	url = strings.TrimSpace(url)
	if err := ValidateHost(url, w.hosts); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	dir := filepath.Join(w.root, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create workspace: %v", domain.ErrWorkspace, err)
	}

	logger := w.logger.With(zap.String("request_id", id), zap.String("url", url))
	logger.Info("Extracting")

	req := domain.NewDownloadRequest(url, dir, w.kind == domain.MediaAudio)
	result := w.downloader.Download(ctx, req)
	w.record(req, result)

	if !result.Success {
		w.discard(id)
		err := result.Err
		if err == nil {
			err = fmt.Errorf("%w: %s", domain.ErrExtraction, result.Message)
		}
		logger.Warn("Extraction failed", zap.String("kind", domain.FailureKind(err)), zap.Error(err))
		return nil, err
	}

	rel, err := filepath.Rel(dir, result.FilePath)
	if result.FilePath == "" || err != nil || rel != filepath.Base(rel) {
		w.discard(id)
		return nil, fmt.Errorf("%w: downloaded file is outside the workspace", domain.ErrResolution)
	}

	logger.Info("Extraction completed", zap.String("file", rel), zap.String("strategy", result.Strategy))
	return &Extraction{
		RequestID: id,
		Filename:  rel,
		Result:    result,
	}, nil
}

// Open opens the file served for a request
func (w *WorkspaceManager) Open(requestID, filename string) (*os.File, os.FileInfo, error) {
	dir, err := w.dir(requestID)
	if err != nil {
		return nil, nil, err
	}
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return nil, nil, fmt.Errorf("%w: invalid filename", domain.ErrInvalidInput)
	}

	path := filepath.Join(dir, filename)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, nil, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, requestID, filename)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	return f, info, nil
}

// Release removes a workspace. It reports whether anything was removed;
// releasing an absent workspace is not an error.
func (w *WorkspaceManager) Release(requestID string) (bool, error) {
	dir, err := w.dir(requestID)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", domain.ErrWorkspace, err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return false, fmt.Errorf("%w: failed to remove workspace: %v", domain.ErrWorkspace, err)
	}
	w.logger.Debug("Released workspace", zap.String("request_id", requestID))
	return true, nil
}

// dir validates requestID and returns its workspace path
func (w *WorkspaceManager) dir(requestID string) (string, error) {
	id, err := uuid.Parse(requestID)
	if err != nil || id.String() != strings.ToLower(requestID) {
		return "", fmt.Errorf("%w: invalid request ID", domain.ErrInvalidInput)
	}
	return filepath.Join(w.root, id.String()), nil
}

func (w *WorkspaceManager) discard(id string) {
	if _, err := w.Release(id); err != nil {
		w.logger.Error("Failed to remove workspace", zap.String("request_id", id), zap.Error(err))
	}
}

func (w *WorkspaceManager) record(req domain.DownloadRequest, result domain.DownloadResult) {
	if w.history == nil {
		return
	}
	if err := w.history.Record(domain.NewHistoryEntry(result, req.Kind(), "api")); err != nil {
		w.logger.Warn("Failed to record download history", zap.Error(err))
	}
}
