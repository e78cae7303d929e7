package infrastructure

import (
	"fmt"
	"os/exec"

	"github.com/yourusername/ytgrab/internal/domain"
	"go.uber.org/zap"
)

// NotificationService sends desktop notifications
type NotificationService struct {
	config *domain.NotificationConfig
	logger *zap.Logger
	run    func(name string, args ...string) error
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *domain.NotificationConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		config: config,
		logger: logger,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Send sends a notification
func (n *NotificationService) Send(title, message string) error {
	if n.config == nil || !n.config.Enabled {
		n.logger.Debug("Notifications disabled, skipping",
			zap.String("title", title),
			zap.String("message", message))
		return nil
	}

	var err error
	switch n.config.Method {
	case "osascript":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		err = n.run("osascript", "-e", script)
	case "notify-send":
		err = n.run("notify-send", title, message)
	default:
		n.logger.Warn("Unknown notification method", zap.String("method", n.config.Method))
		return nil
	}

	if err != nil {
		n.logger.Error("Failed to send notification",
			zap.String("method", n.config.Method),
			zap.Error(err))
		return err
	}
	return nil
}

// NotifyBatchCompleted reports the outcome of a batch run
func (n *NotificationService) NotifyBatchCompleted(succeeded, failed int) {
	title := "Downloads Completed"
	if failed > 0 {
		title = "Downloads Finished With Errors"
	}
	n.Send(title, fmt.Sprintf("%d succeeded, %d failed", succeeded, failed))
}

// NotifyDownloadFailed reports a single failed URL
func (n *NotificationService) NotifyDownloadFailed(url string) {
	n.Send("Download Failed", fmt.Sprintf("Failed: %s", truncateString(url, 40)))
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
