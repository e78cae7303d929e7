package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yourusername/ytgrab/internal/domain"
)

// fakeExtractor is a scripted domain.Extractor
type fakeExtractor struct {
	mu         sync.Mutex
	probe      func(url string, opts domain.ExtractOptions) (*domain.Metadata, error)
	fetch      func(url string, opts domain.ExtractOptions) error
	probes     int
	fetches    int
	strategies []string
	lastFetch  domain.ExtractOptions
}

func (f *fakeExtractor) Probe(ctx context.Context, url string, opts domain.ExtractOptions) (*domain.Metadata, error) {
	f.mu.Lock()
	f.probes++
	f.mu.Unlock()
	if f.probe == nil {
		return &domain.Metadata{Type: "video", Title: "Test Video"}, nil
	}
	return f.probe(url, opts)
}

func (f *fakeExtractor) Fetch(ctx context.Context, url string, opts domain.ExtractOptions) error {
	f.mu.Lock()
	f.fetches++
	f.strategies = append(f.strategies, opts.Strategy.Name)
	f.lastFetch = opts
	f.mu.Unlock()
	if f.fetch == nil {
		return nil
	}
	return f.fetch(url, opts)
}

func (f *fakeExtractor) ListFormats(ctx context.Context, url string) (string, error) {
	return "ID  EXT  RESOLUTION\n18  mp4  640x360\n", nil
}

func (f *fakeExtractor) probeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probes
}

// mediaBytes returns binary content large enough to pass validation
func mediaBytes(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(0x80 + i%100)
	}
	return data
}

// templateDir returns the directory an output template writes into
func templateDir(opts domain.ExtractOptions) string {
	return filepath.Dir(opts.OutputTemplate)
}

func writeTestFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
