package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/yourusername/ytgrab/internal/domain"
)

// YTDLPExtractor implements domain.Extractor on top of the yt-dlp binary
type YTDLPExtractor struct {
	binary string
	logger *zap.Logger
}

// NewYTDLPExtractor creates a new yt-dlp backed extractor
func NewYTDLPExtractor(binary string, logger *zap.Logger) *YTDLPExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YTDLPExtractor{
		binary: binary,
		logger: logger,
	}
}

// ytdlpInfo mirrors the fields we read from yt-dlp's JSON output
type ytdlpInfo struct {
	Type          string            `json:"_type"`
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Duration      float64           `json:"duration"`
	Uploader      string            `json:"uploader"`
	UploaderID    string            `json:"uploader_id"`
	ChannelID     string            `json:"channel_id"`
	Description   string            `json:"description"`
	UploadDate    string            `json:"upload_date"`
	ViewCount     int64             `json:"view_count"`
	Thumbnail     string            `json:"thumbnail"`
	WebpageURL    string            `json:"webpage_url"`
	PlaylistCount int               `json:"playlist_count"`
	Entries       []json.RawMessage `json:"entries"`
}

// Probe returns metadata for url without downloading
func (e *YTDLPExtractor) Probe(ctx context.Context, url string, opts domain.ExtractOptions) (*domain.Metadata, error) {
	cmd := e.command(opts.Strategy).
		DumpSingleJSON().
		SkipDownload().
		NoWarnings()
	if opts.Flat {
		cmd.FlatPlaylist()
	}
	if opts.FirstItemOnly {
		cmd.PlaylistItems("1")
	}
	if opts.NoPlaylist {
		cmd.NoPlaylist()
	}

	result, err := cmd.Run(ctx, url)
	e.logCommand("probe", result, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrExtraction, describeFailure(result, err))
	}

	return parseInfo(result.Stdout)
}

// Fetch downloads media for url into the directory named by the output template
func (e *YTDLPExtractor) Fetch(ctx context.Context, url string, opts domain.ExtractOptions) error {
	cmd := e.command(opts.Strategy).
		Output(opts.OutputTemplate).
		NoProgress()
	if opts.NoPlaylist {
		cmd.NoPlaylist()
	} else {
		cmd.YesPlaylist()
	}
	if opts.IgnoreErrors {
		cmd.IgnoreErrors()
	}

	result, err := cmd.Run(ctx, url)
	e.logCommand("fetch", result, err)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrExtraction, describeFailure(result, err))
	}
	return nil
}

// ListFormats returns yt-dlp's format table for url
func (e *YTDLPExtractor) ListFormats(ctx context.Context, url string) (string, error) {
	result, err := e.command(domain.Strategy{}).ListFormats().Run(ctx, url)
	e.logCommand("list-formats", result, err)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrExtraction, describeFailure(result, err))
	}
	return result.Stdout, nil
}

// command builds a yt-dlp invocation carrying a strategy's settings
func (e *YTDLPExtractor) command(s domain.Strategy) *ytdlp.Command {
	cmd := ytdlp.New()
	if e.binary != "" {
		cmd.SetExecutable(e.binary)
	}

	if s.Format != "" {
		cmd.Format(s.Format)
	}
	if s.Identity.UserAgent != "" {
		cmd.UserAgent(s.Identity.UserAgent)
	}
	if s.Identity.Referer != "" {
		cmd.Referer(s.Identity.Referer)
	}
	// the builder keeps a single --add-headers value
	for name, value := range s.Identity.Headers {
		cmd.AddHeaders(name + ":" + value)
	}
	if s.GeoBypassCountry != "" {
		cmd.GeoBypassCountry(s.GeoBypassCountry)
	}
	if s.SocketTimeout > 0 {
		cmd.SocketTimeout(s.SocketTimeout.Seconds())
	}
	if s.Retries > 0 {
		cmd.Retries(strconv.Itoa(s.Retries))
	}
	if s.FragmentRetries > 0 {
		cmd.FragmentRetries(strconv.Itoa(s.FragmentRetries))
	}
	if s.MergeFormat != "" {
		cmd.MergeOutputFormat(s.MergeFormat)
	}
	if s.ExtractAudio {
		cmd.ExtractAudio().AudioFormat(s.AudioFormat)
		if s.AudioQuality != "" {
			cmd.AudioQuality(s.AudioQuality)
		}
	}
	if s.SkipCertCheck {
		cmd.NoCheckCertificates()
	}

	return cmd
}

func (e *YTDLPExtractor) logCommand(op string, result *ytdlp.Result, err error) {
	if result == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("command", ShellEscapeCommand(result.Executable, result.Args...)),
		zap.Int("exit_code", result.ExitCode),
	}
	if err != nil {
		e.logger.Debug("yt-dlp invocation failed", append(fields, zap.Error(err))...)
		return
	}
	e.logger.Debug("yt-dlp invocation", fields...)
}

// parseInfo decodes yt-dlp's single JSON document
func parseInfo(stdout string) (*domain.Metadata, error) {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "" || trimmed == "null" {
		return nil, fmt.Errorf("%w: no information returned, the video may be private or unavailable", domain.ErrExtraction)
	}

	var info ytdlpInfo
	if err := json.Unmarshal([]byte(trimmed), &info); err != nil {
		return nil, fmt.Errorf("%w: failed to parse yt-dlp output: %v", domain.ErrExtraction, err)
	}

	entryCount := len(info.Entries)
	if entryCount == 0 && info.Entries == nil {
		entryCount = info.PlaylistCount
	}

	return &domain.Metadata{
		ID:          info.ID,
		Type:        info.Type,
		Title:       info.Title,
		Duration:    info.Duration,
		Uploader:    info.Uploader,
		UploaderID:  info.UploaderID,
		ChannelID:   info.ChannelID,
		Description: info.Description,
		UploadDate:  info.UploadDate,
		ViewCount:   info.ViewCount,
		Thumbnail:   info.Thumbnail,
		WebpageURL:  info.WebpageURL,
		EntryCount:  entryCount,
	}, nil
}

// describeFailure picks the most useful line out of a failed run
func describeFailure(result *ytdlp.Result, err error) string {
	if result != nil {
		lines := strings.Split(strings.TrimSpace(result.Stderr), "\n")
		for i := len(lines) - 1; i >= 0; i-- {
			line := strings.TrimSpace(lines[i])
			if strings.HasPrefix(line, "ERROR:") {
				return strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
			}
		}
	}
	return err.Error()
}
