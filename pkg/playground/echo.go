package playground

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/goliatone/go-formgen-playground/pkg/formdata"
)

// DefaultReservedField is the posted field naming the originating form.
const DefaultReservedField = "playground"

// EchoedSubmission is the verbatim reflection of one posted form.
//
// ID is the submission's identity. Copies of the same value share an ID, so
// the ReplayStore can tell a re-delivery apart from a new submission that
// happens to carry equal fields.
type EchoedSubmission struct {
	ID      string
	Form    string
	HasForm bool
	Entries formdata.Entries
}

type echoPayload struct {
	Form    *string          `json:"form"`
	Entries formdata.Entries `json:"entries"`
}

// MarshalJSON emits {"form": <id|null>, "entries": [[key, value], ...]}.
func (s EchoedSubmission) MarshalJSON() ([]byte, error) {
	payload := echoPayload{Entries: s.Entries}
	if payload.Entries == nil {
		payload.Entries = formdata.Entries{}
	}
	if s.HasForm {
		form := s.Form
		payload.Form = &form
	}
	return json.Marshal(payload)
}

// UnmarshalJSON accepts the MarshalJSON shape. The decoded value gets no ID.
func (s *EchoedSubmission) UnmarshalJSON(data []byte) error {
	var payload echoPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	*s = EchoedSubmission{Entries: payload.Entries}
	if payload.Form != nil {
		s.Form = *payload.Form
		s.HasForm = true
	}
	return nil
}

// Echo splits the reserved field out of entries. A non-empty first reserved
// value becomes the form identifier and every reserved pair is dropped; the
// other pairs keep their order and duplicates. A missing or empty reserved
// field is not an error: the submission is not tied to a form and its pairs
// are echoed untouched.
func Echo(entries formdata.Entries, reservedField string) EchoedSubmission {
	if reservedField == "" {
		reservedField = DefaultReservedField
	}
	sub := EchoedSubmission{ID: uuid.NewString()}
	if form, _ := entries.Get(reservedField); form != "" {
		sub.Form = form
		sub.HasForm = true
		sub.Entries = entries.Delete(reservedField)
		return sub
	}
	sub.Entries = entries.Clone()
	if sub.Entries == nil {
		sub.Entries = formdata.Entries{}
	}
	return sub
}

// EchoHandler responds to POST with the echoed submission as JSON. Mounted
// behind Middleware it reuses the submission the middleware already parsed,
// so the echo also reaches the session's ReplayStore.
func (p *Playground) EchoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		var sub EchoedSubmission
		if h, ok := FromContext(r.Context()); ok && h.submission != nil {
			sub = *h.submission
		} else {
			entries, err := formdata.ParseRequest(r, p.opts.MaxBodyBytes)
			if err != nil {
				writeParseError(w, err)
				return
			}
			sub = Echo(entries, p.opts.ReservedField)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(true)
		if err := enc.Encode(sub); err != nil {
			p.logger.Error("write echo response", "err", err)
		}
	})
}

func writeParseError(w http.ResponseWriter, err error) {
	code := http.StatusBadRequest
	switch {
	case errors.Is(err, formdata.ErrBodyTooLarge):
		code = http.StatusRequestEntityTooLarge
	case errors.Is(err, formdata.ErrUnsupportedContentType):
		code = http.StatusUnsupportedMediaType
	}
	http.Error(w, http.StatusText(code), code)
}
