package playground

import (
	"context"
	"strings"

	"github.com/goliatone/go-formgen-playground/pkg/formdata"
)

type harnessKey struct{}

// Harness is the per-request view of the playground handed to pages.
type Harness struct {
	config     FormConfig
	session    *Session
	submission *EchoedSubmission
	reserved   string
	resetPath  string
	queue      *commitQueue
}

// FromContext returns the Harness installed by Middleware.
func FromContext(ctx context.Context) (*Harness, bool) {
	if ctx == nil {
		return nil, false
	}
	h, ok := ctx.Value(harnessKey{}).(*Harness)
	return h, ok && h != nil
}

func withHarness(ctx context.Context, h *Harness) context.Context {
	return context.WithValue(ctx, harnessKey{}, h)
}

// Config returns the form configuration parsed from the request query.
func (h *Harness) Config() FormConfig {
	return h.config
}

// Session returns the browser session serving the request.
func (h *Harness) Session() *Session {
	return h.session
}

// Submission returns the submission echoed from the current request body.
func (h *Harness) Submission() (EchoedSubmission, bool) {
	if h.submission == nil {
		return EchoedSubmission{}, false
	}
	return *h.submission, true
}

// Lookup returns the latest fields submitted for form. A submission arriving
// with the current request takes precedence over the stored entry, which is
// only updated after the response is committed.
func (h *Harness) Lookup(form string) (formdata.Entries, bool) {
	if h.submission != nil && h.submission.HasForm && h.submission.Form == form {
		return h.submission.Entries.Clone(), true
	}
	if h.session == nil {
		return nil, false
	}
	return h.session.Store.Entries(form)
}

// Reconstruct looks up form and converts its fields with fn. It returns the
// zero value and false when nothing was submitted for form.
func Reconstruct[T any](h *Harness, form string, fn func(formdata.Entries) T) (T, bool) {
	var zero T
	if h == nil || fn == nil {
		return zero, false
	}
	entries, ok := h.Lookup(form)
	if !ok {
		return zero, false
	}
	return fn(entries), true
}

// ConfiguredAction returns targetPath with the current configuration encoded
// in its query, for use as the action of the next submission.
func (h *Harness) ConfiguredAction(targetPath string) string {
	query := h.config.Query()
	if query == "" {
		return targetPath
	}
	if strings.Contains(targetPath, "?") {
		return targetPath + "&" + query
	}
	return targetPath + "?" + query
}

// ReservedField returns the name of the form identifier field.
func (h *Harness) ReservedField() string {
	return h.reserved
}

// FormField returns the hidden field a page embeds to identify form.
func (h *Harness) FormField(form string) HiddenField {
	return Hidden(h.reserved, form)
}

// ResetAction returns the path of the reset handler.
func (h *Harness) ResetAction() string {
	return h.resetPath
}
