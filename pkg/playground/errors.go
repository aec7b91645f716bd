package playground

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrMissingFormID is returned when a reset request does not name a form.
	ErrMissingFormID = errors.New("playground: missing form identifier")
	// ErrNoSession is returned by handlers served without Middleware.
	ErrNoSession = errors.New("playground: request has no harness")
)

// HTTPError is implemented by errors that carry a response status.
type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Issue describes one schema rejection.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Keyword string `json:"keyword,omitempty"`
	Message string `json:"message"`
}

// ConfigError reports a form configuration that failed schema validation.
// It always maps to 400 Bad Request.
type ConfigError struct {
	Issues []Issue
}

func (e *ConfigError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "playground: invalid form config"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Field == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return fmt.Sprintf("playground: invalid form config: %s", strings.Join(parts, "; "))
}

func (e *ConfigError) StatusCode() int { return http.StatusBadRequest }

// StatusFromError extracts a response status from err, falling back to
// fallback when err carries none.
func StatusFromError(err error, fallback int) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		if code := httpErr.StatusCode(); code > 0 {
			return code
		}
	}
	return fallback
}
