package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed URLs, empty payloads and bad identifiers
	ErrInvalidInput = errors.New("invalid input")
	// ErrExtraction marks a failed info lookup or download call
	ErrExtraction = errors.New("extraction failed")
	// ErrResolution marks a download that left no usable file behind
	ErrResolution = errors.New("downloaded file not found")
	// ErrLikelyBlocked is a resolution failure where only a saved web page was found
	ErrLikelyBlocked = fmt.Errorf("%w: got a web page instead of media, the download was likely blocked", ErrResolution)
	// ErrValidation marks a file rejected by size or content sniffing
	ErrValidation = errors.New("downloaded file rejected")
	// ErrWorkspace marks a request directory that could not be created or removed
	ErrWorkspace = errors.New("workspace error")
	// ErrNotFound marks a missing workspace file
	ErrNotFound = errors.New("not found")
)

// AttemptError is the failure of one strategy attempt
type AttemptError struct {
	Strategy string
	Err      error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("strategy %s: %v", e.Strategy, e.Err)
}

func (e *AttemptError) Unwrap() error {
	return e.Err
}

// FailureKind returns a short label for the taxonomy member an error belongs to
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrLikelyBlocked):
		return "likely_blocked"
	case errors.Is(err, ErrResolution):
		return "resolution"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrWorkspace):
		return "workspace"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "extraction"
	}
}
