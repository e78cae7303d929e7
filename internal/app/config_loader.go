package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/yourusername/ytgrab/internal/domain"
)

// LoadConfig loads configuration from defaults, an optional file and the environment
func LoadConfig(configPath string) (*domain.Config, error) {
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.ytgrab")
		v.AddConfigPath("/etc/ytgrab")
	}

	v.SetEnvPrefix("YTGRAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v, config)

	// Unprefixed aliases kept for deployments that only set PORT and DEBUG
	if err := v.BindEnv("server.port", "YTGRAB_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind PORT: %w", err)
	}
	if err := v.BindEnv("server.debug", "YTGRAB_SERVER_DEBUG", "DEBUG", "FLASK_DEBUG"); err != nil {
		return nil, fmt.Errorf("failed to bind DEBUG: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)
	if config.Server.Debug {
		config.Logging.Level = "debug"
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// bindEnvKeys registers every config key with viper so AutomaticEnv
// can override values that no config file mentions
func bindEnvKeys(v *viper.Viper, config *domain.Config) {
	v.SetDefault("server.host", config.Server.Host)
	v.SetDefault("server.port", config.Server.Port)
	v.SetDefault("server.debug", config.Server.Debug)
	v.SetDefault("download.output_dir", config.Download.OutputDir)
	v.SetDefault("download.max_resolution", config.Download.MaxResolution)
	v.SetDefault("download.audio_bitrate", config.Download.AudioBitrate)
	v.SetDefault("download.concurrency", config.Download.Concurrency)
	v.SetDefault("download.ytdlp_binary", config.Download.YTDLPBinary)
	v.SetDefault("download.backoff", config.Download.Backoff)
	v.SetDefault("download.cache_size", config.Download.CacheSize)
	v.SetDefault("download.history_path", config.Download.HistoryPath)
	v.SetDefault("api.media_kind", string(config.API.MediaKind))
	v.SetDefault("api.workspace_root", config.API.WorkspaceRoot)
	v.SetDefault("api.allowed_hosts", config.API.AllowedHosts)
	v.SetDefault("notification.enabled", config.Notification.Enabled)
	v.SetDefault("notification.method", config.Notification.Method)
	v.SetDefault("logging.level", config.Logging.Level)
	v.SetDefault("logging.format", config.Logging.Format)
	v.SetDefault("logging.output_path", config.Logging.OutputPath)
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Download.OutputDir = expandPath(config.Download.OutputDir)
	config.Download.HistoryPath = expandPath(config.Download.HistoryPath)
	config.API.WorkspaceRoot = expandPath(config.API.WorkspaceRoot)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables, ~ and $TMPDIR in paths.
// $TMPDIR falls back to the system temp directory when unset.
func expandPath(path string) string {
	if path == "" {
		return path
	}

	path = os.Expand(path, func(key string) string {
		if key == "TMPDIR" {
			return strings.TrimSuffix(os.TempDir(), string(os.PathSeparator))
		}
		return os.Getenv(key)
	})

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return path
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Download.OutputDir == "" {
		return fmt.Errorf("download output directory not configured")
	}

	if config.Download.MaxResolution < 144 {
		return fmt.Errorf("max resolution too low: %d", config.Download.MaxResolution)
	}

	if config.Download.Concurrency < domain.MinConcurrency || config.Download.Concurrency > domain.MaxConcurrency {
		return fmt.Errorf("concurrency must be between %d and %d, got %d",
			domain.MinConcurrency, domain.MaxConcurrency, config.Download.Concurrency)
	}

	if config.Download.Backoff < 0 {
		return fmt.Errorf("backoff cannot be negative")
	}

	if config.Download.CacheSize < 1 {
		return fmt.Errorf("classifier cache size must be at least 1")
	}

	if !domain.ValidateMediaKind(config.API.MediaKind) {
		return fmt.Errorf("invalid api media kind: %q", config.API.MediaKind)
	}

	if config.API.WorkspaceRoot == "" {
		return fmt.Errorf("api workspace root not configured")
	}

	if len(config.API.AllowedHosts) == 0 {
		return fmt.Errorf("api allowed hosts cannot be empty")
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}
