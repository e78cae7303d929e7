package domain

import (
	"context"
	"path/filepath"
	"strings"
	"time"
)

// ContentType represents what a YouTube URL points at
type ContentType string

const (
	ContentVideo    ContentType = "video"
	ContentPlaylist ContentType = "playlist"
	ContentChannel  ContentType = "channel"
)

// Title returns the capitalised content type for user-facing messages
func (c ContentType) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// MediaKind represents the kind of media a job produces
type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// ValidateMediaKind checks if a media kind is valid
func ValidateMediaKind(kind MediaKind) bool {
	return kind == MediaVideo || kind == MediaAudio
}

// Title returns the capitalised media kind for user-facing messages
func (k MediaKind) Title() string {
	return ContentType(k).Title()
}

// ContentTypeHeader returns the HTTP content type served for this kind
func (k MediaKind) ContentTypeHeader() string {
	if k == MediaAudio {
		return "audio/mpeg"
	}
	return "video/mp4"
}

// Metadata is the subset of extractor information surfaced to callers
type Metadata struct {
	ID          string  `json:"id,omitempty"`
	Type        string  `json:"type,omitempty"` // extractor _type: video, playlist, url...
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	Uploader    string  `json:"uploader"`
	UploaderID  string  `json:"uploader_id,omitempty"`
	ChannelID   string  `json:"channel_id,omitempty"`
	Description string  `json:"description"`
	UploadDate  string  `json:"upload_date"`
	ViewCount   int64   `json:"view_count"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
	WebpageURL  string  `json:"webpage_url,omitempty"`
	EntryCount  int     `json:"entry_count,omitempty"`
}

// IsPlaylist reports whether the extractor described a multi-item result
func (m *Metadata) IsPlaylist() bool {
	return m != nil && m.Type == "playlist"
}

// UploaderIdentity returns the most specific uploader identifier available
func (m *Metadata) UploaderIdentity() string {
	if m == nil {
		return ""
	}
	if m.UploaderID != "" {
		return m.UploaderID
	}
	return m.ChannelID
}

// ClassificationResult is the outcome of classifying a URL.
// Info is nil when classification fell back to URL pattern matching.
type ClassificationResult struct {
	ContentType ContentType `json:"content_type"`
	Info        *Metadata   `json:"info,omitempty"`
}

// DownloadRequest is one unit of download work
type DownloadRequest struct {
	URL       string
	OutputDir string
	AudioOnly bool
}

// NewDownloadRequest creates a new download request
func NewDownloadRequest(url, outputDir string, audioOnly bool) DownloadRequest {
	return DownloadRequest{
		URL:       strings.TrimSpace(url),
		OutputDir: outputDir,
		AudioOnly: audioOnly,
	}
}

// Kind returns the media kind requested
func (r DownloadRequest) Kind() MediaKind {
	if r.AudioOnly {
		return MediaAudio
	}
	return MediaVideo
}

// AttemptOutcome records a single strategy attempt
type AttemptOutcome struct {
	Strategy Strategy
	Success  bool
	FilePath string
	Metadata *Metadata
	Err      error
}

// DownloadResult is the terminal result of a DownloadRequest
type DownloadResult struct {
	URL         string        `json:"url"`
	Success     bool          `json:"success"`
	FilePath    string        `json:"file_path,omitempty"`
	Metadata    *Metadata     `json:"metadata,omitempty"`
	ContentType ContentType   `json:"content_type,omitempty"`
	Strategy    string        `json:"strategy,omitempty"`
	Message     string        `json:"message"`
	Elapsed     time.Duration `json:"elapsed"`
	Err         error         `json:"-"`
}

// FailedResult builds an unsuccessful result carrying err
func FailedResult(url string, err error, started time.Time) DownloadResult {
	return DownloadResult{
		URL:     url,
		Message: err.Error(),
		Elapsed: time.Since(started),
		Err:     err,
	}
}

// Downloader turns a DownloadRequest into a DownloadResult.
// Implementations never return a nil result; failures are reported in it.
type Downloader interface {
	Download(ctx context.Context, req DownloadRequest) DownloadResult
}

// OutputTemplate returns the extractor filename template for a content type
func OutputTemplate(contentType ContentType, dir string) string {
	switch contentType {
	case ContentPlaylist:
		return filepath.Join(dir, "%(playlist_title)s", "%(playlist_index)s-%(title)s.%(ext)s")
	case ContentChannel:
		return filepath.Join(dir, "%(uploader)s", "%(upload_date)s-%(title)s.%(ext)s")
	default:
		return filepath.Join(dir, "%(title)s.%(ext)s")
	}
}
