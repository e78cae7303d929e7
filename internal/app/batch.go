package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/yourusername/ytgrab/internal/domain"
)

// BatchHooks receive progress callbacks. Hooks run on worker goroutines
// and may be called concurrently.
type BatchHooks struct {
	OnStart  func(index int, req domain.DownloadRequest)
	OnResult func(index int, result domain.DownloadResult)
}

// BatchSummary aggregates the results of a batch in completion order
type BatchSummary struct {
	Results   []domain.DownloadResult
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

// Failures returns the unsuccessful results
func (s *BatchSummary) Failures() []domain.DownloadResult {
	var failed []domain.DownloadResult
	for _, r := range s.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// Summarize counts successes and failures
func Summarize(results []domain.DownloadResult, elapsed time.Duration) *BatchSummary {
	summary := &BatchSummary{Results: results, Elapsed: elapsed}
	for _, r := range results {
		if r.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	return summary
}

// BatchCoordinator fans download requests out over a bounded worker pool
type BatchCoordinator struct {
	downloader domain.Downloader
	history    domain.HistoryRepository
	logger     *zap.Logger
}

// NewBatchCoordinator creates a batch coordinator. history may be nil.
func NewBatchCoordinator(downloader domain.Downloader, history domain.HistoryRepository, logger *zap.Logger) *BatchCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchCoordinator{
		downloader: downloader,
		history:    history,
		logger:     logger,
	}
}

// Run downloads every request with at most concurrency in flight.
// Requests are independent: a failure never cancels its siblings.
func (b *BatchCoordinator) Run(ctx context.Context, reqs []domain.DownloadRequest, concurrency int, hooks BatchHooks) *BatchSummary {
	started := time.Now()
	workers := domain.ClampConcurrency(concurrency)

	b.logger.Info("Starting batch",
		zap.Int("urls", len(reqs)),
		zap.Int("workers", workers))

	var (
		mu      sync.Mutex
		results = make([]domain.DownloadResult, 0, len(reqs))
	)

	p := pool.New().WithMaxGoroutines(workers)
	for i, req := range reqs {
		p.Go(func() {
			if hooks.OnStart != nil {
				hooks.OnStart(i, req)
			}

			result := b.download(ctx, req)
			b.record(req, result)

			mu.Lock()
			results = append(results, result)
			mu.Unlock()

			if hooks.OnResult != nil {
				hooks.OnResult(i, result)
			}
		})
	}
	p.Wait()

	summary := Summarize(results, time.Since(started))
	b.logger.Info("Batch finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", summary.Elapsed))
	return summary
}

// download runs one request, converting a panic into a failed result
func (b *BatchCoordinator) download(ctx context.Context, req domain.DownloadRequest) (result domain.DownloadResult) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Download panicked", zap.String("url", req.URL), zap.Any("panic", r))
			result = domain.FailedResult(req.URL, fmt.Errorf("%w: unexpected error: %v", domain.ErrExtraction, r), started)
		}
	}()
	return b.downloader.Download(ctx, req)
}

func (b *BatchCoordinator) record(req domain.DownloadRequest, result domain.DownloadResult) {
	if b.history == nil {
		return
	}
	if err := b.history.Record(domain.NewHistoryEntry(result, req.Kind(), "cli")); err != nil {
		b.logger.Warn("Failed to record download history", zap.String("url", req.URL), zap.Error(err))
	}
}
