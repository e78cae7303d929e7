package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/yourusername/ytgrab/internal/app"
	"github.com/yourusername/ytgrab/internal/domain"
)

const rule = "------------------------------------------------------------"

func printHeader(out io.Writer, count int, opts downloadOptions, workers int) {
	format := "MP4 Video"
	if opts.Kind == domain.MediaAudio {
		format = "MP3 Audio"
	}
	fmt.Fprintf(out, "Starting %d download(s)\n", count)
	fmt.Fprintf(out, "Output directory: %s\n", opts.OutputDir)
	fmt.Fprintf(out, "Format: %s\n", format)
	if count > 1 {
		fmt.Fprintf(out, "Concurrent workers: %d\n", workers)
	}
}

// printContentSummary prints e.g. "Content: 2 playlists + 1 video"
func printContentSummary(out io.Writer, counts map[domain.ContentType]int) {
	var parts []string
	for _, ct := range []domain.ContentType{domain.ContentPlaylist, domain.ContentChannel, domain.ContentVideo} {
		if n := counts[ct]; n > 0 {
			parts = append(parts, plural(n, string(ct)))
		}
	}
	if len(parts) == 0 {
		fmt.Fprintln(out, "Content: unknown")
	} else {
		fmt.Fprintf(out, "Content: %s\n", strings.Join(parts, " + "))
	}
	fmt.Fprintln(out, rule)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// statusPrinter writes one line per download event; hooks run concurrently
type statusPrinter struct {
	mu    sync.Mutex
	out   io.Writer
	total int
}

func newStatusPrinter(out io.Writer, total int) *statusPrinter {
	return &statusPrinter{out: out, total: total}
}

func (s *statusPrinter) started(index int, req domain.DownloadRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "[%d/%d] Downloading %s\n", index+1, s.total, req.URL)
}

func (s *statusPrinter) finished(index int, result domain.DownloadResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mark := "OK  "
	if !result.Success {
		mark = "FAIL"
	}
	fmt.Fprintf(s.out, "[%d/%d] %s %s\n", index+1, s.total, mark, result.Message)
}

func printSummary(out io.Writer, summary *app.BatchSummary, outputDir string) {
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "DOWNLOAD SUMMARY")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Successful downloads: %d\n", summary.Succeeded)
	fmt.Fprintf(out, "Failed downloads:     %d\n", summary.Failed)
	fmt.Fprintf(out, "Elapsed:              %s\n", summary.Elapsed.Round(10*time.Millisecond))

	if failures := summary.Failures(); len(failures) > 0 {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FAILED URL\tREASON")
		for _, r := range failures {
			fmt.Fprintf(w, "%s\t%s\n", r.URL, r.Message)
		}
		w.Flush()
	}

	if summary.Succeeded > 0 {
		fmt.Fprintf(out, "\nAll files saved to: %s\n", outputDir)
	}
}

func printClassifications(ctx context.Context, out io.Writer, classifier *app.Classifier, urls []string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "URL\tTYPE\tTITLE\tENTRIES")
	for _, u := range urls {
		result := classifier.Classify(ctx, u)
		title, entries := "-", "-"
		if result.Info != nil {
			title = truncate(result.Info.Title, 40)
			if result.ContentType != domain.ContentVideo && result.Info.EntryCount > 0 {
				entries = fmt.Sprintf("%d+", result.Info.EntryCount)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u, result.ContentType, title, entries)
	}
	w.Flush()
}

func printHistory(out io.Writer, entries []*domain.HistoryEntry, stats *domain.HistoryStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tKIND\tSTATUS\tURL\tMESSAGE")
	for _, e := range entries {
		status := "ok"
		if !e.Success {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.Kind,
			status,
			truncate(e.URL, 50),
			truncate(e.Message, 60))
	}
	w.Flush()

	if stats != nil {
		fmt.Fprintf(out, "\nTotal: %d  Succeeded: %d  Failed: %d\n", stats.Total, stats.Succeeded, stats.Failed)
	}
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
