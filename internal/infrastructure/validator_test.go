package infrastructure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/ytgrab/internal/domain"
)

// binaryContent returns n bytes that never spell a markup marker
func binaryContent(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i%200) + 0x80
	}
	data[0], data[1], data[2], data[3] = 0x00, 0x00, 0x00, 0x18
	return data
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestFileValidator_RejectsUndersizedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "small.mp4", binaryContent(900))

	err := NewFileValidator().Validate(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "too small (900 bytes)")
}

func TestFileValidator_AcceptsBinaryMedia(t *testing.T) {
	path := writeFile(t, t.TempDir(), "video.mp4", binaryContent(50000))

	assert.NoError(t, NewFileValidator().Validate(path))
}

func TestFileValidator_RejectsMarkup(t *testing.T) {
	tests := map[string]string{
		"html":      "<html><head><title>blocked</title></head>",
		"uppercase": "<HTML><BODY>",
		"mhtml":     "From: <Saved by Blink>\r\nSnapshot-Content-Location: mhtml",
		"multipart": "MIME-Version: 1.0\r\nContent-Type: multipart/related;",
		"doctype":   "<!DOCTYPE html>\n<head>",
	}

	for name, prefix := range tests {
		t.Run(name, func(t *testing.T) {
			data := append([]byte(prefix), binaryContent(4096)...)
			path := writeFile(t, t.TempDir(), "video.mp4", data)

			err := NewFileValidator().Validate(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), "web page")
		})
	}
}

func TestFileValidator_MarkerBeyondSniffWindowIgnored(t *testing.T) {
	data := append(binaryContent(200), []byte("<html>")...)
	data = append(data, binaryContent(2000)...)
	path := writeFile(t, t.TempDir(), "video.mp4", data)

	assert.NoError(t, NewFileValidator().Validate(path))
}

func TestFileValidator_MissingFile(t *testing.T) {
	err := NewFileValidator().Validate(filepath.Join(t.TempDir(), "absent.mp4"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFileValidator_Directory(t *testing.T) {
	err := NewFileValidator().Validate(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrValidation)
}
