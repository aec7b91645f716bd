package playground

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-formgen-playground/pkg/formdata"
)

// Playground wires the configuration parser, echo handler, session stores,
// and reset handler together.
type Playground struct {
	opts     Options
	sessions *Sessions
	logger   *log.Logger

	mu        sync.RWMutex
	resetPath string
}

// New constructs a playground with default options plus any overrides.
func New(fns ...OptionFn) *Playground {
	opts := NewOptions(fns...)
	return &Playground{
		opts:      opts,
		sessions:  NewSessions(opts),
		logger:    opts.Logger,
		resetPath: mountPath("", opts.ResetPath),
	}
}

// Options returns a copy of the playground configuration.
func (p *Playground) Options() Options {
	return NewOptions(func(o *Options) { *o = p.opts })
}

// Sessions exposes the session registry.
func (p *Playground) Sessions() *Sessions {
	return p.sessions
}

// Run sweeps idle sessions until ctx is done.
func (p *Playground) Run(ctx context.Context, interval time.Duration) {
	p.sessions.Run(ctx, interval)
}

// Middleware installs a Harness for next.
//
// A query that fails the configuration schema is answered with 400 and next
// is not called. POST bodies are echoed; the echo is applied to the session
// store once next returns with a status below 500. A browser without a
// session gets one only when it posts a form, and Harness.Session is nil
// until then. The request body is replaced with the urlencoded entries so
// next may parse it again.
func (p *Playground) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg, err := ParseFormConfig(r.URL.Query())
		if err != nil {
			p.logger.Warn("rejecting form config", "path", r.URL.Path, "query", r.URL.RawQuery, "err", err)
			http.Error(w, "Bad request", StatusFromError(err, http.StatusBadRequest))
			return
		}

		var arriving *EchoedSubmission
		if r.Method == http.MethodPost {
			entries, err := formdata.ParseRequest(r, p.opts.MaxBodyBytes)
			if err != nil {
				p.logger.Warn("parse form body", "path", r.URL.Path, "err", err)
				writeParseError(w, err)
				return
			}
			sub := Echo(entries, p.opts.ReservedField)
			arriving = &sub
			body := entries.Encode()
			r.Body = io.NopCloser(strings.NewReader(body))
			r.ContentLength = int64(len(body))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}

		// Sessions start with the first submission tied to a form; the
		// store stays empty until the queued Apply below runs.
		session, created := p.sessions.FromRequest(r), false
		if session == nil && arriving != nil && arriving.HasForm {
			session, created = p.sessions.Resolve(w, r)
		}

		h := &Harness{
			config:     cfg,
			session:    session,
			submission: arriving,
			reserved:   p.opts.ReservedField,
			resetPath:  p.ResetPath(),
			queue:      &commitQueue{},
		}
		if arriving != nil && arriving.HasForm {
			sub := *arriving
			h.queue.add(func() { session.Store.Apply(sub) })
		}

		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r.WithContext(withHarness(r.Context(), h)))

		if status := rec.Status(); status >= http.StatusInternalServerError {
			if dropped := h.queue.discard(); dropped > 0 {
				p.logger.Warn("skipping replay update after server error", "path", r.URL.Path, "status", status, "created", created)
			}
			return
		}
		h.queue.run()
	})
}

// ResetHandler clears the stored submission of the form named by the posted
// reserved field. It must not be mounted behind Middleware, which would echo
// the reset request back into the store.
func (p *Playground) ResetHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		entries, err := formdata.ParseRequest(r, p.opts.MaxBodyBytes)
		if err != nil {
			writeParseError(w, err)
			return
		}
		form, _ := entries.Get(p.opts.ReservedField)
		if strings.TrimSpace(form) == "" {
			http.Error(w, ErrMissingFormID.Error(), http.StatusBadRequest)
			return
		}

		if session := p.sessions.FromRequest(r); session != nil {
			session.Store.Reset(form)
		}

		if wantsJSON(r) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		returnTo, _ := entries.Get("return")
		http.Redirect(w, r, redirectTarget(r, returnTo), http.StatusSeeOther)
	})
}

// ResetPath returns the path the reset handler is mounted on.
func (p *Playground) ResetPath() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.resetPath
}

func (p *Playground) setResetPath(path string) {
	p.mu.Lock()
	p.resetPath = path
	p.mu.Unlock()
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// redirectTarget only follows local paths so the reset form cannot be used
// as an open redirect.
func redirectTarget(r *http.Request, returnTo string) string {
	if isLocalPath(returnTo) {
		return returnTo
	}
	if referer := r.Header.Get("Referer"); referer != "" {
		if parsed, err := url.Parse(referer); err == nil && (parsed.Host == "" || parsed.Host == r.Host) {
			target := parsed.EscapedPath()
			if parsed.RawQuery != "" {
				target += "?" + parsed.RawQuery
			}
			if isLocalPath(target) {
				return target
			}
		}
	}
	return "/"
}

func isLocalPath(path string) bool {
	return strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "//") && !strings.HasPrefix(path, "/\\")
}
