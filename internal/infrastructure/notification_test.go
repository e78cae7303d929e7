package infrastructure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/ytgrab/internal/domain"
)

type recordedCall struct {
	name string
	args []string
}

func newRecordingService(cfg *domain.NotificationConfig, err error) (*NotificationService, *[]recordedCall) {
	calls := &[]recordedCall{}
	svc := NewNotificationService(cfg, nil)
	svc.run = func(name string, args ...string) error {
		*calls = append(*calls, recordedCall{name: name, args: args})
		return err
	}
	return svc, calls
}

func TestNotificationService_Disabled(t *testing.T) {
	svc, calls := newRecordingService(&domain.NotificationConfig{Enabled: false, Method: "notify-send"}, nil)

	assert.NoError(t, svc.Send("title", "message"))
	assert.Empty(t, *calls)
}

func TestNotificationService_NotifySend(t *testing.T) {
	svc, calls := newRecordingService(&domain.NotificationConfig{Enabled: true, Method: "notify-send"}, nil)

	svc.NotifyBatchCompleted(2, 1)

	if assert.Len(t, *calls, 1) {
		assert.Equal(t, "notify-send", (*calls)[0].name)
		assert.Equal(t, []string{"Downloads Finished With Errors", "2 succeeded, 1 failed"}, (*calls)[0].args)
	}
}

func TestNotificationService_Osascript(t *testing.T) {
	svc, calls := newRecordingService(&domain.NotificationConfig{Enabled: true, Method: "osascript"}, nil)

	svc.NotifyDownloadFailed("https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL123456")

	if assert.Len(t, *calls, 1) {
		assert.Equal(t, "osascript", (*calls)[0].name)
		assert.Contains(t, (*calls)[0].args[1], "Download Failed")
		assert.Contains(t, (*calls)[0].args[1], "...")
	}
}

func TestNotificationService_UnknownMethod(t *testing.T) {
	svc, calls := newRecordingService(&domain.NotificationConfig{Enabled: true, Method: "carrier-pigeon"}, nil)

	assert.NoError(t, svc.Send("title", "message"))
	assert.Empty(t, *calls)
}

func TestNotificationService_RunError(t *testing.T) {
	svc, _ := newRecordingService(&domain.NotificationConfig{Enabled: true, Method: "notify-send"}, errors.New("not installed"))

	assert.Error(t, svc.Send("title", "message"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abc...", truncateString("abcdef", 3))
}
