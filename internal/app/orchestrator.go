package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/yourusername/ytgrab/internal/domain"
)

// stagingPattern names the per-request directories created under an output directory
const stagingPattern = ".ytgrab-*"

// AttemptState is the position of a request in the strategy state machine
type AttemptState string

const (
	StatePending    AttemptState = "pending"
	StateAttempting AttemptState = "attempting"
	StateSucceeded  AttemptState = "succeeded"
	StateExhausted  AttemptState = "exhausted"
)

// Transition returns the state that follows an attempt.
// From Pending the machine always enters Attempting(0) when strategies exist.
// From Attempting(i) a success ends in Succeeded; a failure moves to
// Attempting(i+1) or, after the last strategy, to Exhausted.
// Terminal states are absorbing.
func Transition(state AttemptState, index, total int, succeeded bool) (AttemptState, int) {
	switch state {
	case StatePending:
		if total == 0 {
			return StateExhausted, 0
		}
		return StateAttempting, 0
	case StateAttempting:
		if succeeded {
			return StateSucceeded, index
		}
		if index+1 < total {
			return StateAttempting, index + 1
		}
		return StateExhausted, index
	default:
		return state, index
	}
}

// Orchestrator downloads a single item by trying strategies in order until
// one yields a file that resolves and validates
type Orchestrator struct {
	extractor  domain.Extractor
	resolver   domain.FileResolver
	validator  domain.ArtifactValidator
	cleaner    domain.PartialCleaner
	strategies map[domain.MediaKind][]domain.Strategy
	backoff    time.Duration
	logger     *zap.Logger
}

// NewOrchestrator creates an orchestrator using the configured strategy tables
func NewOrchestrator(
	extractor domain.Extractor,
	resolver domain.FileResolver,
	validator domain.ArtifactValidator,
	cleaner domain.PartialCleaner,
	config *domain.DownloadConfig,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		extractor: extractor,
		resolver:  resolver,
		validator: validator,
		cleaner:   cleaner,
		strategies: map[domain.MediaKind][]domain.Strategy{
			domain.MediaVideo: domain.StrategiesFor(domain.MediaVideo, *config),
			domain.MediaAudio: domain.StrategiesFor(domain.MediaAudio, *config),
		},
		backoff: config.Backoff,
		logger:  logger,
	}
}

// SetStrategies replaces the strategy table for a media kind
func (o *Orchestrator) SetStrategies(kind domain.MediaKind, strategies []domain.Strategy) {
	o.strategies[kind] = append([]domain.Strategy(nil), strategies...)
}

// Strategies returns the strategy table for a media kind
func (o *Orchestrator) Strategies(kind domain.MediaKind) []domain.Strategy {
	return o.strategies[kind]
}

// Download runs the strategy table against req. Strategies run strictly in
// sequence; attempt failures never escape, only exhaustion is reported.
func (o *Orchestrator) Download(ctx context.Context, req domain.DownloadRequest) domain.DownloadResult {
	started := time.Now()
	strategies := o.strategies[req.Kind()]
	pacer := rate.NewLimiter(rate.Every(o.backoff), 1)

	staging, err := o.stage(req.OutputDir)
	if err != nil {
		return domain.FailedResult(req.URL, err, started)
	}
	defer o.unstage(staging)

	var lastErr error
	state, index := Transition(StatePending, 0, len(strategies), false)
	for state == StateAttempting {
		if err := pacer.Wait(ctx); err != nil {
			lastErr = fmt.Errorf("%w: %v", domain.ErrExtraction, err)
			break
		}

		strategy := strategies[index]
		o.logger.Info("Attempting download",
			zap.String("url", req.URL),
			zap.String("strategy", strategy.Name),
			zap.Int("attempt", index+1),
			zap.Int("of", len(strategies)))

		outcome := o.attempt(ctx, req, strategy, staging)
		if outcome.Success {
			outcome = o.publish(outcome, req.OutputDir)
		}
		state, index = Transition(state, index, len(strategies), outcome.Success)
		if state == StateSucceeded {
			return domain.DownloadResult{
				URL:         req.URL,
				Success:     true,
				FilePath:    outcome.FilePath,
				Metadata:    outcome.Metadata,
				ContentType: domain.ContentVideo,
				Strategy:    strategy.Name,
				Message:     fmt.Sprintf("%s download completed successfully!", req.Kind().Title()),
				Elapsed:     time.Since(started),
			}
		}

		lastErr = outcome.Err
		o.logger.Warn("Download attempt failed",
			zap.String("url", req.URL),
			zap.String("strategy", strategy.Name),
			zap.String("kind", domain.FailureKind(outcome.Err)),
			zap.Error(outcome.Err))
		o.cleanup(staging)
	}

	switch {
	case lastErr == nil:
		lastErr = fmt.Errorf("%w: no download strategies configured for %s", domain.ErrExtraction, req.Kind())
	case state == StateExhausted:
		lastErr = fmt.Errorf("all %d download strategies failed, last error: %w", len(strategies), lastErr)
	}
	o.logger.Error("All download strategies failed",
		zap.String("url", req.URL),
		zap.Int("strategies", len(strategies)),
		zap.Error(lastErr))

	return domain.FailedResult(req.URL, lastErr, started)
}

// stage creates a private directory under outputDir for one request.
// Attempts, resolution and partial cleanup only ever see this directory, so
// requests sharing an output directory cannot touch each other's files.
func (o *Orchestrator) stage(outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("%w: failed to create output directory: %v", domain.ErrWorkspace, err)
	}
	staging, err := os.MkdirTemp(outputDir, stagingPattern)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create staging directory: %v", domain.ErrWorkspace, err)
	}
	return staging, nil
}

func (o *Orchestrator) unstage(staging string) {
	if err := os.RemoveAll(staging); err != nil {
		o.logger.Warn("Failed to remove staging directory", zap.String("dir", staging), zap.Error(err))
	}
}

// publish moves an accepted file from the staging directory into outputDir
func (o *Orchestrator) publish(outcome domain.AttemptOutcome, outputDir string) domain.AttemptOutcome {
	dest := filepath.Join(outputDir, filepath.Base(outcome.FilePath))
	if err := os.Rename(outcome.FilePath, dest); err != nil {
		outcome.Success = false
		outcome.FilePath = ""
		outcome.Err = &domain.AttemptError{
			Strategy: outcome.Strategy.Name,
			Err:      fmt.Errorf("%w: failed to move downloaded file: %v", domain.ErrWorkspace, err),
		}
		return outcome
	}
	outcome.FilePath = dest
	return outcome
}

// attempt runs one strategy inside dir: probe, fetch, resolve, validate
func (o *Orchestrator) attempt(ctx context.Context, req domain.DownloadRequest, strategy domain.Strategy, dir string) domain.AttemptOutcome {
	outcome := domain.AttemptOutcome{Strategy: strategy}
	fail := func(err error) domain.AttemptOutcome {
		outcome.Err = &domain.AttemptError{Strategy: strategy.Name, Err: err}
		return outcome
	}

	opts := domain.ExtractOptions{
		Strategy:       strategy,
		OutputTemplate: domain.OutputTemplate(domain.ContentVideo, dir),
		NoPlaylist:     true,
	}

	info, err := o.extractor.Probe(ctx, req.URL, opts)
	if err != nil {
		return fail(err)
	}
	if info == nil {
		return fail(fmt.Errorf("%w: no information returned", domain.ErrExtraction))
	}
	outcome.Metadata = info

	if err := o.extractor.Fetch(ctx, req.URL, opts); err != nil {
		return fail(err)
	}

	path, err := o.resolver.Resolve(dir, info.Title)
	if err != nil {
		return fail(err)
	}

	if err := o.validator.Validate(path); err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			o.logger.Warn("Failed to remove rejected file", zap.String("path", path), zap.Error(rmErr))
		}
		return fail(err)
	}

	outcome.Success = true
	outcome.FilePath = path
	return outcome
}

func (o *Orchestrator) cleanup(dir string) {
	if o.cleaner == nil {
		return
	}
	if _, err := o.cleaner.Cleanup(dir); err != nil {
		o.logger.Warn("Failed to clean partial files", zap.String("dir", dir), zap.Error(err))
	}
}
