package app

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/yourusername/ytgrab/internal/domain"
)

// DefaultClassifierCacheSize bounds the classification cache when no size is configured
const DefaultClassifierCacheSize = 128

// Classifier maps URLs to content types, memoizing results per exact URL string
type Classifier struct {
	extractor domain.Extractor
	cache     *lru.Cache[string, domain.ClassificationResult]
	logger    *zap.Logger
}

// NewClassifier creates a classifier with its own bounded LRU cache
func NewClassifier(extractor domain.Extractor, cacheSize int, logger *zap.Logger) (*Classifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheSize <= 0 {
		cacheSize = DefaultClassifierCacheSize
	}

	cache, err := lru.New[string, domain.ClassificationResult](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier cache: %w", err)
	}

	return &Classifier{
		extractor: extractor,
		cache:     cache,
		logger:    logger,
	}, nil
}

// Classify returns the content type of url. It never fails: when the
// extractor cannot describe the URL the result comes from its shape alone.
func (c *Classifier) Classify(ctx context.Context, url string) domain.ClassificationResult {
	if cached, ok := c.cache.Get(url); ok {
		return cached
	}

	result := c.classify(ctx, url)
	c.cache.Add(url, result)
	return result
}

func (c *Classifier) classify(ctx context.Context, url string) domain.ClassificationResult {
	info, err := c.extractor.Probe(ctx, url, domain.ExtractOptions{
		Flat:          true,
		FirstItemOnly: true,
	})
	if err != nil || info == nil {
		contentType := ClassifyByPattern(url)
		c.logger.Debug("Classification fell back to URL pattern",
			zap.String("url", url),
			zap.String("content_type", string(contentType)),
			zap.Error(err))
		return domain.ClassificationResult{ContentType: contentType}
	}

	contentType := domain.ContentVideo
	if info.IsPlaylist() {
		contentType = domain.ContentPlaylist
		// The extractor reports channels as playlists owned by an uploader
		if IsChannelURL(url) && info.UploaderIdentity() != "" {
			contentType = domain.ContentChannel
		}
	}

	return domain.ClassificationResult{ContentType: contentType, Info: info}
}

// Len returns the number of cached classifications
func (c *Classifier) Len() int {
	return c.cache.Len()
}
