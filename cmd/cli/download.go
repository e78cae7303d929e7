package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yourusername/ytgrab/internal/app"
	"github.com/yourusername/ytgrab/internal/domain"
	"github.com/yourusername/ytgrab/internal/infrastructure"
)

const (
	modeAuto   = "auto"
	modeSingle = "single"
	modeMulti  = "multi"
)

// downloadOptions are the resolved settings for one download run
type downloadOptions struct {
	OutputDir   string
	Kind        domain.MediaKind
	Concurrency int
	Mode        string
}

func downloadOptionsFromFlags(cmd *cobra.Command, config *domain.Config) (downloadOptions, error) {
	opts := downloadOptions{
		OutputDir:   config.Download.OutputDir,
		Concurrency: config.Download.Concurrency,
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		opts.OutputDir = output
	}

	format, _ := cmd.Flags().GetString("format")
	opts.Kind = domain.MediaKind(format)
	if !domain.ValidateMediaKind(opts.Kind) {
		return opts, fmt.Errorf("invalid format %q: must be video or audio", format)
	}

	if c, _ := cmd.Flags().GetInt("concurrency"); c != 0 {
		opts.Concurrency = c
	}
	opts.Concurrency = domain.ClampConcurrency(opts.Concurrency)

	opts.Mode, _ = cmd.Flags().GetString("mode")
	switch opts.Mode {
	case modeAuto, modeSingle, modeMulti:
	default:
		return opts, fmt.Errorf("invalid mode %q: must be auto, single or multi", opts.Mode)
	}

	return opts, nil
}

// buildDownloader assembles the downloader for a mode. Auto sends single
// videos through the strategy table and collections through the
// single-strategy downloader.
func buildDownloader(rt *runtime, mode string) domain.Downloader {
	single := app.NewSingleDownloader(rt.extractor, rt.classifier, infrastructure.NewDirectoryResolver(), &rt.config.Download, rt.log)
	if mode == modeSingle {
		return single
	}

	orchestrator := app.NewOrchestrator(
		rt.extractor,
		infrastructure.NewDirectoryResolver(),
		infrastructure.NewFileValidator(),
		infrastructure.NewPartialFileCleaner(rt.log),
		&rt.config.Download,
		rt.log,
	)
	if mode == modeMulti {
		return orchestrator
	}
	return app.NewContentDispatcher(rt.classifier, orchestrator, single)
}

func runDownloads(ctx context.Context, out io.Writer, rt *runtime, urls []string, opts downloadOptions) error {
	workers := 1
	if len(urls) > 1 {
		workers = opts.Concurrency
	}

	printHeader(out, len(urls), opts, workers)
	printContentSummary(out, countContent(ctx, rt.classifier, urls))

	reqs := make([]domain.DownloadRequest, 0, len(urls))
	for _, u := range urls {
		reqs = append(reqs, domain.NewDownloadRequest(u, opts.OutputDir, opts.Kind == domain.MediaAudio))
	}

	status := newStatusPrinter(out, len(reqs))
	coordinator := app.NewBatchCoordinator(buildDownloader(rt, opts.Mode), rt.historyRepository(), rt.log)
	summary := coordinator.Run(ctx, reqs, workers, app.BatchHooks{
		OnStart:  status.started,
		OnResult: status.finished,
	})

	printSummary(out, summary, opts.OutputDir)

	notifier := infrastructure.NewNotificationService(&rt.config.Notification, rt.log)
	if len(reqs) == 1 && summary.Failed == 1 {
		notifier.NotifyDownloadFailed(reqs[0].URL)
	} else {
		notifier.NotifyBatchCompleted(summary.Succeeded, summary.Failed)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", summary.Failed, len(reqs))
	}
	return nil
}

// countContent classifies every URL; the classifier cache makes the later
// per-download classification free
func countContent(ctx context.Context, classifier *app.Classifier, urls []string) map[domain.ContentType]int {
	counts := make(map[domain.ContentType]int)
	for _, u := range urls {
		counts[classifier.Classify(ctx, u).ContentType]++
	}
	return counts
}
