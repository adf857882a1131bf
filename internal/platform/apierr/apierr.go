package apierr

import (
	"errors"
	"fmt"
	"net/http"

	types "github.com/yungbote/memoquiz-backend/internal/domain"
)

// Error carries the HTTP status and machine-readable code for a failure.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From classifies err. An *Error anywhere in the chain wins; otherwise domain
// sentinels pick the status.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, types.ErrNotFound):
		return New(http.StatusNotFound, "question_not_found", err)
	case errors.Is(err, types.ErrInvalidArgument):
		return New(http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, types.ErrStorageCorrupt):
		return New(http.StatusInternalServerError, "storage_corrupt", err)
	case errors.Is(err, types.ErrNoContent):
		return New(http.StatusUnprocessableEntity, "no_content", err)
	case errors.Is(err, types.ErrGeneration):
		return New(http.StatusBadGateway, "generation_failed", err)
	default:
		return New(http.StatusInternalServerError, "internal_error", err)
	}
}
