package pages

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-formgen-playground/internal/view"
	"github.com/goliatone/go-formgen-playground/pkg/playground"
)

func renderPage(w http.ResponseWriter, r *http.Request, renderer view.Renderer, logger *log.Logger, name string, data any) {
	html, err := renderer.RenderTemplate(name, data)
	if err != nil {
		writeError(w, r, logger, playground.StatusError{Code: http.StatusInternalServerError, Err: err})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(html))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	status := playground.StatusFromError(err, http.StatusInternalServerError)
	if status >= http.StatusInternalServerError {
		logger.Error("page failed", "path", r.URL.Path, "status", status, "err", err)
	}
	message := http.StatusText(status)
	var statusErr playground.StatusError
	if status < http.StatusInternalServerError && errors.As(err, &statusErr) && statusErr.Err != nil {
		message = statusErr.Err.Error()
	}
	http.Error(w, message, status)
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func loggerOrDiscard(logger *log.Logger) *log.Logger {
	if logger != nil {
		return logger
	}
	return log.New(io.Discard)
}
