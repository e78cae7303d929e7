package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/ytgrab/internal/app"
	"github.com/yourusername/ytgrab/internal/domain"
	"github.com/yourusername/ytgrab/internal/infrastructure"
)

func TestCollectURLs_FromArgs(t *testing.T) {
	var out bytes.Buffer
	urls, err := collectURLs(&out, []string{
		"https://www.youtube.com/watch?v=abc,https://youtu.be/xyz",
		"not-a-url",
	}, strings.NewReader(""))

	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.youtube.com/watch?v=abc", "https://youtu.be/xyz"}, urls)
	assert.Contains(t, out.String(), "Skipping invalid URL: not-a-url")
	assert.Contains(t, out.String(), "Skipped 1 invalid URL(s)")
}

func TestCollectURLs_FromStdin(t *testing.T) {
	stdin := strings.NewReader("https://www.youtube.com/playlist?list=PL1\n\thttps://www.youtube.com/@someone\n")

	for _, args := range [][]string{nil, {"-"}} {
		var out bytes.Buffer
		urls, err := collectURLs(&out, args, stdin)
		require.NoError(t, err)
		assert.Len(t, urls, 2)
		assert.Empty(t, out.String())
		stdin = strings.NewReader("https://www.youtube.com/playlist?list=PL1 https://www.youtube.com/@someone")
	}
}

func TestCollectURLs_NoneValid(t *testing.T) {
	var out bytes.Buffer
	_, err := collectURLs(&out, []string{"https://example.com/video"}, strings.NewReader(""))
	assert.Error(t, err)
	assert.Contains(t, out.String(), "Skipping invalid URL")
}

func newFlagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "download"}
	addDownloadFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestDownloadOptionsFromFlags_Defaults(t *testing.T) {
	config := domain.DefaultConfig()
	opts, err := downloadOptionsFromFlags(newFlagCommand(t), config)

	require.NoError(t, err)
	assert.Equal(t, config.Download.OutputDir, opts.OutputDir)
	assert.Equal(t, domain.MediaVideo, opts.Kind)
	assert.Equal(t, domain.DefaultConcurrency, opts.Concurrency)
	assert.Equal(t, modeAuto, opts.Mode)
}

func TestDownloadOptionsFromFlags_Overrides(t *testing.T) {
	cmd := newFlagCommand(t, "-o", "/tmp/music", "-f", "audio", "-c", "9", "--mode", "single")
	opts, err := downloadOptionsFromFlags(cmd, domain.DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, "/tmp/music", opts.OutputDir)
	assert.Equal(t, domain.MediaAudio, opts.Kind)
	assert.Equal(t, domain.MaxConcurrency, opts.Concurrency)
	assert.Equal(t, modeSingle, opts.Mode)
}

func TestDownloadOptionsFromFlags_Invalid(t *testing.T) {
	_, err := downloadOptionsFromFlags(newFlagCommand(t, "-f", "flac"), domain.DefaultConfig())
	assert.ErrorContains(t, err, "invalid format")

	_, err = downloadOptionsFromFlags(newFlagCommand(t, "--mode", "parallel"), domain.DefaultConfig())
	assert.ErrorContains(t, err, "invalid mode")
}

func TestBuildDownloader(t *testing.T) {
	config := domain.DefaultConfig()
	extractor := infrastructure.NewYTDLPExtractor("yt-dlp", zap.NewNop())
	classifier, err := app.NewClassifier(extractor, 8, zap.NewNop())
	require.NoError(t, err)

	rt := &runtime{config: config, log: zap.NewNop(), extractor: extractor, classifier: classifier}

	assert.IsType(t, &app.ContentDispatcher{}, buildDownloader(rt, modeAuto))
	assert.IsType(t, &app.SingleDownloader{}, buildDownloader(rt, modeSingle))
	assert.IsType(t, &app.Orchestrator{}, buildDownloader(rt, modeMulti))
	assert.Nil(t, rt.historyRepository())
}

func TestPrintContentSummary(t *testing.T) {
	var out bytes.Buffer
	printContentSummary(&out, map[domain.ContentType]int{
		domain.ContentPlaylist: 2,
		domain.ContentVideo:    1,
	})
	assert.Contains(t, out.String(), "Content: 2 playlists + 1 video\n")

	out.Reset()
	printContentSummary(&out, map[domain.ContentType]int{})
	assert.Contains(t, out.String(), "Content: unknown")
}

func TestStatusPrinter(t *testing.T) {
	var out bytes.Buffer
	status := newStatusPrinter(&out, 3)

	status.started(0, domain.NewDownloadRequest("https://youtu.be/a", "/tmp", false))
	status.finished(0, domain.DownloadResult{Success: true, Message: "Video download completed successfully!"})
	status.finished(2, domain.DownloadResult{Success: false, Message: "boom"})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "[1/3] Downloading https://youtu.be/a", lines[0])
	assert.Equal(t, "[1/3] OK   Video download completed successfully!", lines[1])
	assert.Equal(t, "[3/3] FAIL boom", lines[2])
}

func TestPrintSummary(t *testing.T) {
	summary := app.Summarize([]domain.DownloadResult{
		{URL: "https://youtu.be/a", Success: true},
		domain.FailedResult("https://youtu.be/b", errors.New("video unavailable"), time.Now()),
	}, 1500*time.Millisecond)

	var out bytes.Buffer
	printSummary(&out, summary, "/downloads")
	text := out.String()

	assert.Contains(t, text, "Successful downloads: 1")
	assert.Contains(t, text, "Failed downloads:     1")
	assert.Contains(t, text, "Elapsed:              1.5s")
	assert.Contains(t, text, "FAILED URL")
	assert.Regexp(t, `https://youtu\.be/b\s+video unavailable`, text)
	assert.Contains(t, text, "All files saved to: /downloads")
}

func TestPrintSummary_AllFailed(t *testing.T) {
	summary := app.Summarize([]domain.DownloadResult{
		domain.FailedResult("https://youtu.be/b", errors.New("nope"), time.Now()),
	}, time.Second)

	var out bytes.Buffer
	printSummary(&out, summary, "/downloads")
	assert.NotContains(t, out.String(), "All files saved to")
}

func TestPrintHistory(t *testing.T) {
	created := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	entries := []*domain.HistoryEntry{
		{URL: "https://youtu.be/a", Kind: domain.MediaAudio, Success: true, Message: "Audio download completed successfully!", CreatedAt: created},
		{URL: "https://youtu.be/b", Kind: domain.MediaVideo, Success: false, Message: "failed", CreatedAt: created},
	}

	var out bytes.Buffer
	printHistory(&out, entries, &domain.HistoryStats{Total: 2, Succeeded: 1, Failed: 1})
	text := out.String()

	assert.Contains(t, text, "2024-03-01 14:30")
	assert.Regexp(t, `audio\s+ok\s+https://youtu\.be/a`, text)
	assert.Regexp(t, `video\s+failed\s+https://youtu\.be/b`, text)
	assert.Contains(t, text, "Total: 2  Succeeded: 1  Failed: 1")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééé...", truncate("éééééééé", 6))
}
