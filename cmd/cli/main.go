package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/ytgrab/internal/app"
	"github.com/yourusername/ytgrab/internal/domain"
	"github.com/yourusername/ytgrab/internal/infrastructure"
	"github.com/yourusername/ytgrab/pkg/logger"
)

var (
	configPath string
	verbose    bool
	rootCmd    = &cobra.Command{
		Use:   "ytgrab",
		Short: "ytgrab - YouTube video, playlist and channel downloader",
		Long: `Download YouTube videos, playlists and channels as MP4 video or MP3 audio.
URLs may be separated by commas, spaces, tabs or newlines, and are read
from stdin when none are given on the command line.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")

	addDownloadFlags(downloadCmd)

	historyCmd.Flags().Int("limit", 20, "Number of entries to show")
	historyCmd.Flags().Bool("failed", false, "Only show failed downloads")
	historyCmd.Flags().String("url", "", "Only show downloads of this URL")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(historyCmd)
}

func addDownloadFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output directory (default from config, ./downloads)")
	cmd.Flags().StringP("format", "f", "video", "Download format: video or audio")
	cmd.Flags().IntP("concurrency", "c", 0, "Concurrent downloads, 1-5 (default from config, 3)")
	cmd.Flags().Bool("list-formats", false, "List the formats available for the first URL and exit")
	cmd.Flags().String("mode", modeAuto, "Download mode: auto, single or multi")
}

// runtime bundles the services built from configuration
type runtime struct {
	config     *domain.Config
	log        *zap.Logger
	extractor  *infrastructure.YTDLPExtractor
	classifier *app.Classifier
	history    *infrastructure.SQLiteHistoryRepository
}

func newRuntime() (*runtime, error) {
	config, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewCLI(verbose || config.Server.Debug)
	extractor := infrastructure.NewYTDLPExtractor(config.Download.YTDLPBinary, log)
	classifier, err := app.NewClassifier(extractor, config.Download.CacheSize, log)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		config:     config,
		log:        log,
		extractor:  extractor,
		classifier: classifier,
	}
	if config.Download.HistoryPath != "" {
		rt.history, err = infrastructure.NewSQLiteHistoryRepository(config.Download.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
	}
	return rt, nil
}

func (rt *runtime) Close() {
	if rt.history != nil {
		rt.history.Close()
	}
	rt.log.Sync()
}

// historyRepository returns the repository as an interface, nil when disabled
func (rt *runtime) historyRepository() domain.HistoryRepository {
	if rt.history == nil {
		return nil
	}
	return rt.history
}

var downloadCmd = &cobra.Command{
	Use:   "download [urls...]",
	Short: "Download one or more YouTube URLs",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		urls, err := collectURLs(cmd.OutOrStdout(), args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if listFormats, _ := cmd.Flags().GetBool("list-formats"); listFormats {
			formats, err := rt.extractor.ListFormats(ctx, urls[0])
			if err != nil {
				return fmt.Errorf("error listing formats: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Available formats for the first provided URL:")
			fmt.Fprint(cmd.OutOrStdout(), formats)
			return nil
		}

		opts, err := downloadOptionsFromFlags(cmd, rt.config)
		if err != nil {
			return err
		}

		return runDownloads(ctx, cmd.OutOrStdout(), rt, urls, opts)
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify [urls...]",
	Short: "Show whether URLs are videos, playlists or channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		urls, err := collectURLs(cmd.OutOrStdout(), args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		printClassifications(cmd.Context(), cmd.OutOrStdout(), rt.classifier, urls)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent downloads",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		if rt.history == nil {
			return fmt.Errorf("download history is disabled; set download.history_path to enable it")
		}

		limit, _ := cmd.Flags().GetInt("limit")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		var entries []*domain.HistoryEntry
		if url, _ := cmd.Flags().GetString("url"); url != "" {
			entries, err = rt.history.FindByURL(url)
		} else {
			entries, err = rt.history.List(limit, failedOnly)
		}
		if err != nil {
			return err
		}
		stats, err := rt.history.GetStats()
		if err != nil {
			return err
		}

		printHistory(cmd.OutOrStdout(), entries, stats)
		return nil
	},
}

// collectURLs parses URLs from args, or from stdin when no args are given
func collectURLs(out io.Writer, args []string, stdin io.Reader) ([]string, error) {
	input := strings.Join(args, " ")
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read URLs from stdin: %w", err)
		}
		input = string(data)
	}

	urls, skipped := app.ParseURLs(input)
	for _, s := range skipped {
		fmt.Fprintf(out, "Skipping invalid URL: %s\n", s)
	}
	if len(skipped) > 0 {
		fmt.Fprintf(out, "Skipped %d invalid URL(s)\n", len(skipped))
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no valid YouTube URLs found")
	}
	return urls, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
