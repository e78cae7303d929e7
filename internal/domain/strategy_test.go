package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStrategy_Validation(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		wantErr  string
	}{
		{"missing name", Strategy{Format: "best", SocketTimeout: time.Second}, "name is required"},
		{"missing format", Strategy{Name: "x", SocketTimeout: time.Second}, "format selector is required"},
		{"zero timeout", Strategy{Name: "x", Format: "best"}, "socket timeout"},
		{"negative retries", Strategy{Name: "x", Format: "best", SocketTimeout: time.Second, Retries: -1}, "retry counts"},
		{"audio without format", Strategy{Name: "x", Format: "best", SocketTimeout: time.Second, ExtractAudio: true}, "audio format"},
		{"bad geo code", Strategy{Name: "x", Format: "best", SocketTimeout: time.Second, GeoBypassCountry: "USA"}, "two-letter"},
		{"too many headers", Strategy{Name: "x", Format: "best", SocketTimeout: time.Second,
			Identity: IdentityProfile{Headers: map[string]string{"Accept": "*/*", "Accept-Language": "en"}}}, "at most 1 extra header"},
		{"user agent as header", Strategy{Name: "x", Format: "best", SocketTimeout: time.Second,
			Identity: IdentityProfile{Headers: map[string]string{"user-agent": "curl"}}}, "identity field"},
		{"relative referer", Strategy{Name: "x", Format: "best", SocketTimeout: time.Second,
			Identity: IdentityProfile{Referer: "/watch"}}, "referer must be"},
		{"header name with colon", Strategy{Name: "x", Format: "best", SocketTimeout: time.Second,
			Identity: IdentityProfile{Headers: map[string]string{"X-A:b": "c"}}}, "invalid header name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStrategy(tt.strategy)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewStrategy_CopiesHeaders(t *testing.T) {
	headers := map[string]string{"Accept-Language": "en-us"}
	s, err := NewStrategy(Strategy{
		Name:          "copy",
		Format:        "best",
		SocketTimeout: time.Second,
		Identity:      IdentityProfile{Referer: "https://www.youtube.com/", Headers: headers},
	})
	require.NoError(t, err)

	headers["Accept-Language"] = "changed"
	assert.Equal(t, "en-us", s.Identity.Headers["Accept-Language"])
}

func TestVideoStrategies_DesktopIdentity(t *testing.T) {
	for _, s := range VideoStrategies(1080)[:2] {
		assert.Contains(t, s.Identity.UserAgent, "Chrome")
		assert.Equal(t, "https://www.youtube.com/", s.Identity.Referer)
		assert.Equal(t, "en-us,en;q=0.5", s.Identity.Headers["Accept-Language"])
	}
}

func TestVideoStrategies(t *testing.T) {
	strategies := VideoStrategies(1080)

	require.Len(t, strategies, 4)
	assert.Equal(t, "mp4-720-desktop", strategies[0].Name)
	assert.Equal(t, "combined-1080-desktop", strategies[1].Name)
	assert.Equal(t, "bestvideo[height<=1080]+bestaudio/best[height<=1080]/best", strategies[1].Format)
	assert.Equal(t, "mp4", strategies[1].MergeFormat)

	for i := 1; i < len(strategies); i++ {
		assert.Less(t, strategies[i].SocketTimeout, strategies[i-1].SocketTimeout,
			"later strategies should time out sooner")
	}
}

func TestAudioStrategies(t *testing.T) {
	strategies := AudioStrategies("128K")

	require.Len(t, strategies, 2)
	for _, s := range strategies {
		assert.True(t, s.ExtractAudio)
		assert.Equal(t, "mp3", s.AudioFormat)
		assert.Equal(t, "128K", s.AudioQuality)
	}
	assert.Equal(t, "bestaudio/best", strategies[0].Format)
}

func TestStrategiesFor(t *testing.T) {
	cfg := DefaultConfig().Download

	assert.Len(t, StrategiesFor(MediaVideo, cfg), 4)
	assert.Len(t, StrategiesFor(MediaAudio, cfg), 2)
	assert.Equal(t, "video", SingleStrategyFor(MediaVideo, cfg).Name)
	assert.Equal(t, "audio-mp3", SingleStrategyFor(MediaAudio, cfg).Name)
}
