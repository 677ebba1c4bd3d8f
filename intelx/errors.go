package intelx

import (
	"errors"
	"fmt"
)

// Sentinel errors for consistent error handling by callers.
var (
	ErrInvalidSearchTerm = errors.New("invalid search term")
	ErrSubmitRejected    = errors.New("search submission rejected")
	ErrInvalidHandle     = errors.New("invalid job handle")
	ErrTreeUnavailable   = errors.New("file tree could not be generated")
)

// StatusError is a non-success HTTP response from the upstream API.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
