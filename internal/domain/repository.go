package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is a persisted record of a finished download
type HistoryEntry struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	URL         string      `json:"url" gorm:"not null;index"`
	Kind        MediaKind   `json:"kind" gorm:"not null"`
	ContentType ContentType `json:"content_type"`
	Success     bool        `json:"success" gorm:"index"`
	FilePath    string      `json:"file_path,omitempty"`
	Title       string      `json:"title,omitempty"`
	Strategy    string      `json:"strategy,omitempty"`
	Message     string      `json:"message" gorm:"type:text"`
	Source      string      `json:"source"` // cli or api
	DurationMS  int64       `json:"duration_ms"`
	CreatedAt   time.Time   `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for GORM
func (HistoryEntry) TableName() string {
	return "download_history"
}

// NewHistoryEntry builds a history record from a download result
func NewHistoryEntry(result DownloadResult, kind MediaKind, source string) *HistoryEntry {
	entry := &HistoryEntry{
		ID:          uuid.New().String(),
		URL:         result.URL,
		Kind:        kind,
		ContentType: result.ContentType,
		Success:     result.Success,
		FilePath:    result.FilePath,
		Strategy:    result.Strategy,
		Message:     result.Message,
		Source:      source,
		DurationMS:  result.Elapsed.Milliseconds(),
		CreatedAt:   time.Now(),
	}
	if result.Metadata != nil {
		entry.Title = result.Metadata.Title
	}
	return entry
}

// HistoryRepository defines the interface for download history persistence
type HistoryRepository interface {
	// Record stores a finished download
	Record(entry *HistoryEntry) error

	// List returns the most recent entries, newest first
	List(limit int, failedOnly bool) ([]*HistoryEntry, error)

	// FindByURL returns entries for a URL, newest first
	FindByURL(url string) ([]*HistoryEntry, error)

	// GetStats returns aggregate counts
	GetStats() (*HistoryStats, error)
}

// HistoryStats represents download history statistics
type HistoryStats struct {
	Total     int64 `json:"total"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}
