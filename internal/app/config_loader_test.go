package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/ytgrab/internal/domain"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5002, cfg.Server.Port)
	assert.Equal(t, domain.DefaultConcurrency, cfg.Download.Concurrency)
	assert.Equal(t, domain.MediaVideo, cfg.API.MediaKind)
	assert.Equal(t, domain.DefaultAllowedHosts, cfg.API.AllowedHosts)
	assert.NotContains(t, cfg.API.WorkspaceRoot, "$TMPDIR")
	assert.Equal(t, "youtube_extractor", filepath.Base(cfg.API.WorkspaceRoot))
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 8080
download:
  output_dir: /srv/media
  concurrency: 5
  backoff: 500ms
  audio_bitrate: 320K
api:
  media_kind: audio
  workspace_root: /var/tmp/ytgrab
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/srv/media", cfg.Download.OutputDir)
	assert.Equal(t, 5, cfg.Download.Concurrency)
	assert.Equal(t, 500*time.Millisecond, cfg.Download.Backoff)
	assert.Equal(t, "320K", cfg.Download.AudioBitrate)
	assert.Equal(t, domain.MediaAudio, cfg.API.MediaKind)
	assert.Equal(t, "/var/tmp/ytgrab", cfg.API.WorkspaceRoot)
	assert.Equal(t, 1080, cfg.Download.MaxResolution, "unset keys keep defaults")
}

func TestLoadConfig_EnvironmentAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7000\n"), 0644))

	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "true")
	t.Setenv("YTGRAB_API_MEDIA_KIND", "audio")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, domain.MediaAudio, cfg.API.MediaKind)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"port":        "server:\n  port: 70000\n",
		"concurrency": "download:\n  concurrency: 9\n",
		"media kind":  "api:\n  media_kind: podcast\n",
		"resolution":  "download:\n  max_resolution: 10\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("YTGRAB_TEST_DIR", "/data")
	assert.Equal(t, "/data/out", expandPath("$YTGRAB_TEST_DIR/out"))
	assert.Equal(t, "", expandPath(""))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "media"), expandPath("~/media"))
}
