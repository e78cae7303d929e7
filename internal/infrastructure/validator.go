package infrastructure

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yourusername/ytgrab/internal/domain"
)

const (
	// MinArtifactSize is the smallest file accepted as a completed transfer
	MinArtifactSize = 1024
	sniffLength     = 100
)

// markupMarkers are lowercase byte sequences that betray a saved web page
var markupMarkers = [][]byte{
	[]byte("<html"),
	[]byte("<!doctype html"),
	[]byte("mhtml"),
	[]byte("mime-version:"),
	[]byte("content-type: multipart/"),
}

// FileValidator implements domain.ArtifactValidator using size and content sniffing
type FileValidator struct{}

// NewFileValidator creates a new file validator
func NewFileValidator() *FileValidator {
	return &FileValidator{}
}

// Validate rejects undersized files and files that are really web pages
func (v *FileValidator) Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", domain.ErrValidation, path)
	}
	if info.Size() < MinArtifactSize {
		return fmt.Errorf("%w: file is too small (%d bytes), the transfer likely failed or was blocked",
			domain.ErrValidation, info.Size())
	}

	head, err := readHead(path, sniffLength)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if looksLikeMarkup(head) {
		return fmt.Errorf("%w: file appears to be a web page, not media; YouTube may be blocking downloads from this host",
			domain.ErrValidation)
	}

	return nil
}

func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return buf[:read], nil
}

// looksLikeMarkup checks the leading bytes for HTML or MHTML content
func looksLikeMarkup(head []byte) bool {
	lower := bytes.ToLower(head)
	for _, marker := range markupMarkers {
		if bytes.Contains(lower, marker) {
			return true
		}
	}
	return mimetype.Detect(head).Is("text/html")
}
