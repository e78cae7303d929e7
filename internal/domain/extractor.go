package domain

import "context"

// ExtractOptions configures one extractor invocation
type ExtractOptions struct {
	Strategy       Strategy
	OutputTemplate string
	// Flat lists playlist entries without resolving each one
	Flat bool
	// FirstItemOnly limits playlist traversal to the first entry
	FirstItemOnly bool
	// NoPlaylist downloads only the referenced video when a URL carries both
	NoPlaylist bool
	// IgnoreErrors keeps traversing a playlist past unavailable entries
	IgnoreErrors bool
}

// Extractor is the external media retrieval engine
type Extractor interface {
	// Probe returns metadata for url without downloading media
	Probe(ctx context.Context, url string, opts ExtractOptions) (*Metadata, error)

	// Fetch downloads media for url, writing files per opts.OutputTemplate
	Fetch(ctx context.Context, url string, opts ExtractOptions) error

	// ListFormats returns the human-readable table of formats available for url
	ListFormats(ctx context.Context, url string) (string, error)
}

// FileResolver locates the media file a download produced in a directory
type FileResolver interface {
	Resolve(dir, expectedTitle string) (string, error)
}

// ArtifactValidator accepts or rejects a downloaded file
type ArtifactValidator interface {
	Validate(path string) error
}

// PartialCleaner removes leftovers of a failed attempt from a directory
type PartialCleaner interface {
	Cleanup(dir string) ([]string, error)
}
