package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/ytgrab/api"
	"github.com/yourusername/ytgrab/internal/app"
	"github.com/yourusername/ytgrab/internal/domain"
	"github.com/yourusername/ytgrab/internal/infrastructure"
	"github.com/yourusername/ytgrab/pkg/logger"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	mediaKind  = flag.String("kind", "", "Media kind to serve: audio or video (overrides config)")
)

func main() {
	flag.Parse()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *mediaKind != "" {
		kind := domain.MediaKind(*mediaKind)
		if !domain.ValidateMediaKind(kind) {
			fmt.Fprintf(os.Stderr, "Invalid media kind: %s\n", *mediaKind)
			os.Exit(1)
		}
		config.API.MediaKind = kind
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting ytgrab server",
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("media_kind", string(config.API.MediaKind)),
		zap.String("workspace_root", config.API.WorkspaceRoot),
		zap.Bool("debug", config.Server.Debug))

	var history domain.HistoryRepository
	if config.Download.HistoryPath != "" {
		repo, err := infrastructure.NewSQLiteHistoryRepository(config.Download.HistoryPath)
		if err != nil {
			log.Fatal("Failed to initialize history repository", zap.Error(err))
		}
		defer repo.Close()
		history = repo
	}

	extractor := infrastructure.NewYTDLPExtractor(config.Download.YTDLPBinary, log)
	orchestrator := app.NewOrchestrator(
		extractor,
		infrastructure.NewDirectoryResolver(),
		infrastructure.NewFileValidator(),
		infrastructure.NewPartialFileCleaner(log),
		&config.Download,
		log,
	)

	workspaces := app.NewWorkspaceManager(&config.API, orchestrator, history, log)
	if _, err := workspaces.Sweep(); err != nil {
		log.Fatal("Failed to prepare workspace root", zap.Error(err))
	}

	router := api.SetupRouter(workspaces, history, log, config.Server.Debug)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
