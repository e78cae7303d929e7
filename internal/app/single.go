package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/ytgrab/internal/domain"
)

// SingleDownloader downloads with one fixed strategy per media kind.
// Playlists and channels are handled by the output template rather than by retries.
type SingleDownloader struct {
	extractor  domain.Extractor
	classifier *Classifier
	resolver   domain.FileResolver
	config     *domain.DownloadConfig
	logger     *zap.Logger
}

// NewSingleDownloader creates a single-strategy downloader.
// resolver may be nil, in which case results carry no file path.
func NewSingleDownloader(
	extractor domain.Extractor,
	classifier *Classifier,
	resolver domain.FileResolver,
	config *domain.DownloadConfig,
	logger *zap.Logger,
) *SingleDownloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SingleDownloader{
		extractor:  extractor,
		classifier: classifier,
		resolver:   resolver,
		config:     config,
		logger:     logger,
	}
}

// Download fetches req with the fixed strategy for its media kind
func (d *SingleDownloader) Download(ctx context.Context, req domain.DownloadRequest) domain.DownloadResult {
	started := time.Now()
	classification := d.classifier.Classify(ctx, req.URL)
	contentType := classification.ContentType
	multi := contentType != domain.ContentVideo
	strategy := domain.SingleStrategyFor(req.Kind(), *d.config)

	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		return d.failed(req, contentType, fmt.Errorf("%w: failed to create output directory: %v", domain.ErrWorkspace, err), started)
	}

	// A flat listing counts entries without resolving every video
	info, err := d.extractor.Probe(ctx, req.URL, domain.ExtractOptions{
		Strategy:   strategy,
		Flat:       multi,
		NoPlaylist: !multi,
	})
	if err != nil || info == nil {
		d.logger.Warn("Info extraction failed", zap.String("url", req.URL), zap.Error(err))
		return d.failed(req, contentType,
			fmt.Errorf("%w: failed to extract video information, the video may be private or unavailable", domain.ErrExtraction),
			started)
	}

	if multi && info.EntryCount == 0 {
		return d.failed(req, contentType,
			fmt.Errorf("%w: %s appears to be empty or private", domain.ErrExtraction, contentType.Title()),
			started)
	}

	opts := domain.ExtractOptions{
		Strategy:       strategy,
		OutputTemplate: domain.OutputTemplate(contentType, req.OutputDir),
		NoPlaylist:     !multi,
		IgnoreErrors:   multi,
	}

	d.logger.Info("Downloading",
		zap.String("url", req.URL),
		zap.String("content_type", string(contentType)),
		zap.String("strategy", strategy.Name),
		zap.Int("entries", info.EntryCount))

	if err := d.extractor.Fetch(ctx, req.URL, opts); err != nil {
		return d.failed(req, contentType, err, started)
	}

	result := domain.DownloadResult{
		URL:         req.URL,
		Success:     true,
		Metadata:    info,
		ContentType: contentType,
		Strategy:    strategy.Name,
		Elapsed:     time.Since(started),
	}

	if multi {
		unit := "videos"
		if req.AudioOnly {
			unit = "MP3s"
		}
		result.Message = fmt.Sprintf("%s '%s' download completed! (%d %s)", contentType.Title(), info.Title, info.EntryCount, unit)
		return result
	}

	result.Message = fmt.Sprintf("%s download completed successfully!", req.Kind().Title())
	if d.resolver != nil {
		if path, err := d.resolver.Resolve(req.OutputDir, info.Title); err == nil {
			result.FilePath = path
		} else {
			d.logger.Debug("Could not locate downloaded file", zap.String("url", req.URL), zap.Error(err))
		}
	}
	return result
}

func (d *SingleDownloader) failed(req domain.DownloadRequest, contentType domain.ContentType, err error, started time.Time) domain.DownloadResult {
	result := domain.FailedResult(req.URL, err, started)
	result.ContentType = contentType
	return result
}

// ContentDispatcher routes single videos to the multi-strategy orchestrator
// and playlists or channels to the single-strategy downloader
type ContentDispatcher struct {
	classifier *Classifier
	videos     domain.Downloader
	collection domain.Downloader
}

// NewContentDispatcher creates a dispatcher over the two download variants
func NewContentDispatcher(classifier *Classifier, videos, collection domain.Downloader) *ContentDispatcher {
	return &ContentDispatcher{
		classifier: classifier,
		videos:     videos,
		collection: collection,
	}
}

// Download classifies req and delegates it
func (d *ContentDispatcher) Download(ctx context.Context, req domain.DownloadRequest) domain.DownloadResult {
	if d.classifier.Classify(ctx, req.URL).ContentType == domain.ContentVideo {
		return d.videos.Download(ctx, req)
	}
	return d.collection.Download(ctx, req)
}
