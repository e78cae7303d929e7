package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Download     DownloadConfig     `mapstructure:"download"`
	API          APIConfig          `mapstructure:"api"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

// DownloadConfig contains download-related configuration
type DownloadConfig struct {
	OutputDir     string        `mapstructure:"output_dir"`
	MaxResolution int           `mapstructure:"max_resolution"`
	AudioBitrate  string        `mapstructure:"audio_bitrate"` // passed to the extractor as audio quality, e.g. 192K
	Concurrency   int           `mapstructure:"concurrency"`
	YTDLPBinary   string        `mapstructure:"ytdlp_binary"`
	Backoff       time.Duration `mapstructure:"backoff"` // pause between strategy attempts
	CacheSize     int           `mapstructure:"cache_size"`
	HistoryPath   string        `mapstructure:"history_path"` // empty disables history
}

// APIConfig contains HTTP API configuration
type APIConfig struct {
	MediaKind     MediaKind `mapstructure:"media_kind"`
	WorkspaceRoot string    `mapstructure:"workspace_root"`
	AllowedHosts  []string  `mapstructure:"allowed_hosts"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultAllowedHosts are the host names accepted by the API
var DefaultAllowedHosts = []string{"youtube.com", "www.youtube.com", "youtu.be", "m.youtube.com"}

const (
	DefaultConcurrency = 3
	MinConcurrency     = 1
	MaxConcurrency     = 5
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5002,
		},
		Download: DownloadConfig{
			OutputDir:     "./downloads",
			MaxResolution: 1080,
			AudioBitrate:  "192K",
			Concurrency:   DefaultConcurrency,
			YTDLPBinary:   "yt-dlp",
			Backoff:       2 * time.Second,
			CacheSize:     128,
			HistoryPath:   "",
		},
		API: APIConfig{
			MediaKind:     MediaVideo,
			WorkspaceRoot: "$TMPDIR/youtube_extractor",
			AllowedHosts:  append([]string(nil), DefaultAllowedHosts...),
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}

// ClampConcurrency bounds a worker count to the supported range
func ClampConcurrency(n int) int {
	if n < MinConcurrency {
		return MinConcurrency
	}
	if n > MaxConcurrency {
		return MaxConcurrency
	}
	return n
}
