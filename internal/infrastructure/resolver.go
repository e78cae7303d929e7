package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yourusername/ytgrab/internal/domain"
)

var (
	mediaExtensions   = []string{".mp4", ".mkv", ".webm", ".avi", ".mov", ".flv", ".m4v", ".mp3", ".m4a", ".opus", ".ogg", ".wav", ".aac", ".flac"}
	partialSuffixes   = []string{".part", ".tmp", ".temp", ".ytdl"}
	textualExtensions = []string{".html", ".mhtml", ".xml", ".json", ".txt"}
	markupExtensions  = []string{".html", ".mhtml"}
	unsafeTitleChars  = strings.NewReplacer("/", "_", "\\", "_", ":", "_", "?", "_", "*", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
)

// DirectoryResolver implements domain.FileResolver by scanning a directory
type DirectoryResolver struct{}

// NewDirectoryResolver creates a new directory resolver
func NewDirectoryResolver() *DirectoryResolver {
	return &DirectoryResolver{}
}

type candidate struct {
	name    string
	size    int64
	modTime time.Time
}

// Resolve finds the media file produced for expectedTitle in dir.
// Candidates are tried by title match, then recency, then any non-textual file.
func (r *DirectoryResolver) Resolve(dir, expectedTitle string) (string, error) {
	files, err := listFiles(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrResolution, err)
	}

	var media []candidate
	for _, f := range files {
		if hasExtension(f.name, mediaExtensions) && !isPartial(f.name) && f.size >= MinArtifactSize {
			media = append(media, f)
		}
	}

	// Tier 1: title words
	words := TitleWords(expectedTitle)
	for _, f := range media {
		lower := strings.ToLower(f.name)
		for _, word := range words {
			if strings.Contains(lower, word) {
				return filepath.Join(dir, f.name), nil
			}
		}
	}

	// Tier 2: newest media file
	if len(media) > 0 {
		sort.SliceStable(media, func(i, j int) bool {
			return media[i].modTime.After(media[j].modTime)
		})
		return filepath.Join(dir, media[0].name), nil
	}

	// Tier 3: anything that is not a textual format
	var others []candidate
	for _, f := range files {
		if strings.HasPrefix(f.name, ".") || isPartial(f.name) {
			continue
		}
		others = append(others, f)
	}
	var markup []string
	for _, f := range others {
		if hasExtension(f.name, textualExtensions) {
			if hasExtension(f.name, markupExtensions) {
				markup = append(markup, f.name)
			}
			continue
		}
		if f.size >= MinArtifactSize {
			return filepath.Join(dir, f.name), nil
		}
	}

	if len(markup) > 0 {
		return "", fmt.Errorf("%w (%s)", domain.ErrLikelyBlocked, strings.Join(markup, ", "))
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.name)
	}
	return "", fmt.Errorf("%w in %s (available files: %v)", domain.ErrResolution, dir, names)
}

// listFiles returns the regular files directly inside dir in name order
func listFiles(dir string) ([]candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]candidate, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, candidate{name: entry.Name(), size: info.Size(), modTime: info.ModTime()})
	}
	return files, nil
}

// SanitizeTitle replaces characters that cannot appear in file names
func SanitizeTitle(title string) string {
	return unsafeTitleChars.Replace(title)
}

// TitleWords returns the lowercase matching words of a title: the first three
// whitespace-separated words of the sanitized title, ignoring words of two
// characters or less
func TitleWords(title string) []string {
	fields := strings.Fields(strings.ToLower(SanitizeTitle(title)))
	if len(fields) > 3 {
		fields = fields[:3]
	}

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 2 {
			words = append(words, f)
		}
	}
	return words
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func isPartial(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
