package infrastructure

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// PartialFileCleaner implements domain.PartialCleaner.
// It removes partial transfers, saved web pages and undersized files.
type PartialFileCleaner struct {
	logger *zap.Logger
}

// NewPartialFileCleaner creates a new cleaner
func NewPartialFileCleaner(logger *zap.Logger) *PartialFileCleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartialFileCleaner{logger: logger}
}

// Cleanup removes leftovers from a failed attempt and returns the removed paths
func (c *PartialFileCleaner) Cleanup(dir string) ([]string, error) {
	files, err := listFiles(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var removed []string
	for _, f := range files {
		if !isPartial(f.name) && !hasExtension(f.name, markupExtensions) && f.size >= MinArtifactSize {
			continue
		}
		path := filepath.Join(dir, f.name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			c.logger.Warn("Failed to remove partial file", zap.String("path", path), zap.Error(err))
			continue
		}
		removed = append(removed, path)
	}

	if len(removed) > 0 {
		c.logger.Debug("Removed partial files", zap.String("dir", dir), zap.Strings("files", removed))
	}
	return removed, nil
}
