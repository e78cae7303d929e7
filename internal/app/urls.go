package app

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/yourusername/ytgrab/internal/domain"
)

var (
	urlSeparators = regexp.MustCompile(`[,\s]+`)

	// supportedPathMarkers are the URL shapes the batch downloader understands
	supportedPathMarkers = []string{"/watch?", "/playlist?", "/@", "/channel/", "/c/", "/user/", "youtu.be/"}

	channelPathMarkers = []string{"/@", "/channel/", "/c/", "/user/"}
)

// ParseURLs splits free-form input on commas and whitespace and keeps the
// tokens that look like supported YouTube URLs, preserving input order.
// Rejected tokens are returned in skipped.
func ParseURLs(input string) (valid, skipped []string) {
	for _, token := range urlSeparators.Split(input, -1) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if IsSupportedURL(token) {
			valid = append(valid, token)
		} else {
			skipped = append(skipped, token)
		}
	}
	return valid, skipped
}

// IsSupportedURL reports whether raw names a YouTube video, playlist or channel
func IsSupportedURL(raw string) bool {
	if !strings.Contains(raw, "youtube.com") && !strings.Contains(raw, "youtu.be") {
		return false
	}
	for _, marker := range supportedPathMarkers {
		if strings.Contains(raw, marker) {
			return true
		}
	}
	return false
}

// ValidateHost checks that raw is an http(s) URL whose host is in allowed
func ValidateHost(raw string, allowed []string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: empty URL", domain.ErrInvalidInput)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", domain.ErrInvalidInput, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	for _, h := range allowed {
		if host == strings.ToLower(h) {
			return nil
		}
	}
	return fmt.Errorf("%w: host %q is not allowed", domain.ErrInvalidInput, host)
}

// IsChannelURL reports whether raw has a channel-shaped path
func IsChannelURL(raw string) bool {
	path := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		path = u.Path
	}
	for _, marker := range channelPathMarkers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

// HasListParam reports whether raw carries a list query parameter
func HasListParam(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Query().Has("list")
}

// ClassifyByPattern classifies a URL from its shape alone
func ClassifyByPattern(raw string) domain.ContentType {
	switch {
	case IsChannelURL(raw):
		return domain.ContentChannel
	case HasListParam(raw):
		return domain.ContentPlaylist
	default:
		return domain.ContentVideo
	}
}
