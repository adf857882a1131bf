package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoContent       = errors.New("no memory content available")
	ErrGeneration      = errors.New("question generation failed")
	ErrNotFound        = errors.New("not found")
	ErrStorageCorrupt  = errors.New("quiz pool storage is corrupt")
	ErrInvalidArgument = errors.New("invalid argument")
)

const (
	GenerationTimeout  = "timeout"
	GenerationUpstream = "upstream"
	GenerationParse    = "parse"
	GenerationInvalid  = "invalid"
)

// GenerationError is returned when the question oracle fails or times out.
// It matches ErrGeneration under errors.Is.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("question generation failed (%s)", e.Reason)
	}
	return fmt.Sprintf("question generation failed (%s): %v", e.Reason, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }

func NewGenerationError(reason string, err error) *GenerationError {
	return &GenerationError{Reason: reason, Err: err}
}

// Reason extracts a short failure label for logs and metrics.
func Reason(err error) string {
	var genErr *GenerationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &genErr):
		return "generation_" + genErr.Reason
	case errors.Is(err, ErrNoContent):
		return "no_content"
	case errors.Is(err, ErrStorageCorrupt):
		return "storage_corrupt"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
