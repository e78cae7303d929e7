package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	mobileUserAgent  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1"
	genericUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0"
)

// MaxExtraHeaders is how many headers besides User-Agent and Referer the
// extractor can send per invocation
const MaxExtraHeaders = 1

// IdentityProfile is the user agent and header set presented to the remote site
type IdentityProfile struct {
	UserAgent string
	Referer   string
	Headers   map[string]string
}

// Strategy is one named download configuration.
// Strategies are immutable once built by NewStrategy.
type Strategy struct {
	Name             string
	Format           string
	Identity         IdentityProfile
	GeoBypassCountry string
	SocketTimeout    time.Duration
	Retries          int
	FragmentRetries  int
	MergeFormat      string // container to merge split streams into, video only
	ExtractAudio     bool
	AudioFormat      string
	AudioQuality     string
	SkipCertCheck    bool
}

// NewStrategy validates a strategy definition
func NewStrategy(s Strategy) (Strategy, error) {
	if strings.TrimSpace(s.Name) == "" {
		return Strategy{}, fmt.Errorf("strategy name is required")
	}
	if strings.TrimSpace(s.Format) == "" {
		return Strategy{}, fmt.Errorf("strategy %s: format selector is required", s.Name)
	}
	if s.SocketTimeout <= 0 {
		return Strategy{}, fmt.Errorf("strategy %s: socket timeout must be positive", s.Name)
	}
	if s.Retries < 0 || s.FragmentRetries < 0 {
		return Strategy{}, fmt.Errorf("strategy %s: retry counts cannot be negative", s.Name)
	}
	if s.ExtractAudio && s.AudioFormat == "" {
		return Strategy{}, fmt.Errorf("strategy %s: audio format is required when extracting audio", s.Name)
	}
	if s.GeoBypassCountry != "" && len(s.GeoBypassCountry) != 2 {
		return Strategy{}, fmt.Errorf("strategy %s: geo bypass country must be a two-letter code", s.Name)
	}

	if err := validateIdentity(s.Identity); err != nil {
		return Strategy{}, fmt.Errorf("strategy %s: %w", s.Name, err)
	}

	headers := make(map[string]string, len(s.Identity.Headers))
	for k, v := range s.Identity.Headers {
		headers[k] = v
	}
	s.Identity.Headers = headers
	return s, nil
}

func validateIdentity(id IdentityProfile) error {
	if strings.ContainsAny(id.UserAgent, "\r\n") {
		return fmt.Errorf("user agent cannot contain line breaks")
	}
	if id.Referer != "" && !strings.HasPrefix(id.Referer, "https://") && !strings.HasPrefix(id.Referer, "http://") {
		return fmt.Errorf("referer must be an http(s) URL")
	}
	if len(id.Headers) > MaxExtraHeaders {
		return fmt.Errorf("at most %d extra header is supported, got %d", MaxExtraHeaders, len(id.Headers))
	}
	for name, value := range id.Headers {
		switch {
		case strings.TrimSpace(name) == "" || strings.ContainsAny(name, ":\r\n "):
			return fmt.Errorf("invalid header name %q", name)
		case strings.EqualFold(name, "User-Agent"), strings.EqualFold(name, "Referer"):
			return fmt.Errorf("header %s must be set through the identity field", name)
		case strings.ContainsAny(value, "\r\n"):
			return fmt.Errorf("header %s value cannot contain line breaks", name)
		}
	}
	return nil
}

func mustStrategy(s Strategy) Strategy {
	built, err := NewStrategy(s)
	if err != nil {
		panic(err)
	}
	return built
}

func desktopIdentity() IdentityProfile {
	return IdentityProfile{
		UserAgent: desktopUserAgent,
		Referer:   "https://www.youtube.com/",
		Headers:   map[string]string{"Accept-Language": "en-us,en;q=0.5"},
	}
}

// VideoFormat returns the combined video+audio selector capped at maxHeight,
// falling back to the best single stream
func VideoFormat(maxHeight int) string {
	return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]/best", maxHeight, maxHeight)
}

// VideoStrategies returns the ordered strategy table for video jobs.
// Socket timeouts shrink for the later, faster-retry strategies.
func VideoStrategies(maxHeight int) []Strategy {
	return []Strategy{
		mustStrategy(Strategy{
			Name:          "mp4-720-desktop",
			Format:        "best[height<=720][ext=mp4]/best[height<=720]/best[ext=mp4]/best",
			Identity:      desktopIdentity(),
			SocketTimeout: 120 * time.Second,
			Retries:       3,
			SkipCertCheck: true,
		}),
		mustStrategy(Strategy{
			Name:             fmt.Sprintf("combined-%d-desktop", maxHeight),
			Format:           VideoFormat(maxHeight),
			Identity:         desktopIdentity(),
			GeoBypassCountry: "US",
			SocketTimeout:    90 * time.Second,
			Retries:          3,
			FragmentRetries:  3,
			MergeFormat:      "mp4",
		}),
		mustStrategy(Strategy{
			Name:             "mobile-any",
			Format:           "best[ext=mp4]/best",
			Identity:         IdentityProfile{UserAgent: mobileUserAgent},
			GeoBypassCountry: "US",
			SocketTimeout:    60 * time.Second,
			Retries:          2,
		}),
		mustStrategy(Strategy{
			Name:          "worst-fallback",
			Format:        "worst[ext=mp4]/worst",
			Identity:      IdentityProfile{UserAgent: genericUserAgent},
			SocketTimeout: 30 * time.Second,
			Retries:       1,
		}),
	}
}

// AudioStrategies returns the ordered strategy table for audio jobs
func AudioStrategies(bitrate string) []Strategy {
	return []Strategy{
		SingleAudioStrategy(bitrate),
		mustStrategy(Strategy{
			Name:          "audio-any",
			Format:        "bestaudio*/best",
			Identity:      IdentityProfile{UserAgent: mobileUserAgent},
			SocketTimeout: 60 * time.Second,
			Retries:       2,
			ExtractAudio:  true,
			AudioFormat:   "mp3",
			AudioQuality:  bitrate,
		}),
	}
}

// SingleVideoStrategy is the fixed configuration for plain video jobs
func SingleVideoStrategy(maxHeight int) Strategy {
	return mustStrategy(Strategy{
		Name:            "video",
		Format:          VideoFormat(maxHeight),
		SocketTimeout:   120 * time.Second,
		Retries:         3,
		FragmentRetries: 3,
		MergeFormat:     "mp4",
	})
}

// SingleAudioStrategy is the fixed configuration for plain audio jobs
func SingleAudioStrategy(bitrate string) Strategy {
	return mustStrategy(Strategy{
		Name:            "audio-mp3",
		Format:          "bestaudio/best",
		SocketTimeout:   120 * time.Second,
		Retries:         3,
		FragmentRetries: 3,
		ExtractAudio:    true,
		AudioFormat:     "mp3",
		AudioQuality:    bitrate,
	})
}

// StrategiesFor returns the strategy table for a media kind
func StrategiesFor(kind MediaKind, cfg DownloadConfig) []Strategy {
	if kind == MediaAudio {
		return AudioStrategies(cfg.AudioBitrate)
	}
	return VideoStrategies(cfg.MaxResolution)
}

// SingleStrategyFor returns the single fixed strategy for a media kind
func SingleStrategyFor(kind MediaKind, cfg DownloadConfig) Strategy {
	if kind == MediaAudio {
		return SingleAudioStrategy(cfg.AudioBitrate)
	}
	return SingleVideoStrategy(cfg.MaxResolution)
}
