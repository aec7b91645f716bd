package submission

import (
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-formgen-playground/pkg/formdata"
	"github.com/goliatone/go-formgen-playground/pkg/validation"
)

// FormErrorKey holds errors that belong to the form rather than a field.
const FormErrorKey = ""

// Status values reported for submit intents.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Submission is posted form data reconstructed into a nested payload.
type Submission struct {
	Intent  Intent
	Payload map[string]any
	Error   map[string][]string
}

// Report is the serialisable result a page hands back to its form.
type Report struct {
	Intent       string              `json:"intent"`
	Status       string              `json:"status,omitempty"`
	InitialValue map[string]any      `json:"initialValue"`
	Error        map[string][]string `json:"error,omitempty"`
}

type config struct {
	schema   *jsonschema.Schema
	messages map[string]string
	lists    []string
}

// Option configures Parse.
type Option func(*config)

// WithSchema validates submit intents against schema.
func WithSchema(schema *jsonschema.Schema) Option {
	return func(cfg *config) {
		cfg.schema = schema
	}
}

// WithMessages replaces validator messages by JSON Schema keyword, for
// example {"pattern": "Number is not allowed"}.
func WithMessages(messages map[string]string) Option {
	return func(cfg *config) {
		if len(messages) == 0 {
			return
		}
		if cfg.messages == nil {
			cfg.messages = make(map[string]string, len(messages))
		}
		for keyword, message := range messages {
			cfg.messages[strings.TrimSpace(keyword)] = message
		}
	}
}

// WithLists declares list fields. A declared list that was not posted is
// an empty list rather than missing.
func WithLists(names ...string) Option {
	return func(cfg *config) {
		cfg.lists = append(cfg.lists, names...)
	}
}

// Parse reconstructs a submission from posted entries. The intent field is
// consumed; list intents are applied to the payload and skip validation.
func Parse(entries formdata.Entries, opts ...Option) Submission {
	cfg := &config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	sub := Submission{
		Intent:  Submit(),
		Payload: make(map[string]any),
	}

	rawIntent, _ := entries.Get(IntentField)
	intent, intentErr := ParseIntent(rawIntent)
	sub.Intent = intent

	slots := maxListSlots
	for _, entry := range entries {
		if entry.Key == IntentField {
			continue
		}
		segs := parseName(entry.Key)
		if len(segs) == 0 || len(segs) > maxNameDepth {
			continue
		}
		collect := !segs[len(segs)-1].isIndex
		sub.Payload = setField(sub.Payload, segs, normalizeValue(entry.Value), collect, &slots)
	}

	for _, name := range cfg.lists {
		segs := parseName(name)
		current, _ := lookup(sub.Payload, segs)
		sub.Payload = setField(sub.Payload, segs, asList(current), false, &slots)
	}

	if intent.IsList() {
		segs := parseName(intent.Payload.Name)
		current, _ := lookup(sub.Payload, segs)
		sub.Payload = setField(sub.Payload, segs, intent.apply(asList(current)), false, &slots)
		return sub
	}

	if intentErr != nil {
		sub.addError(FormErrorKey, intentErr.Error())
	}
	if cfg.schema != nil {
		result := validation.Validate(cfg.schema, stripUndefined(sub.Payload))
		for _, issue := range result.Issues {
			message := issue.Message
			if custom, ok := cfg.messages[issue.Keyword]; ok {
				message = custom
			}
			sub.addError(issue.Field, message)
		}
	}
	return sub
}

// setField assigns into the payload root. Names that start with an index
// have no field to live under and are dropped.
func setField(payload map[string]any, segs []segment, value any, collect bool, slots *int) map[string]any {
	if len(segs) == 0 || segs[0].isIndex {
		return payload
	}
	return assign(payload, segs, value, collect, slots).(map[string]any)
}

func (s *Submission) addError(field, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	if s.Error == nil {
		s.Error = make(map[string][]string)
	}
	for _, existing := range s.Error[field] {
		if existing == message {
			return
		}
	}
	s.Error[field] = append(s.Error[field], message)
}

// Valid reports a submit intent without errors.
func (s Submission) Valid() bool {
	return s.Intent.Type == IntentSubmit && len(s.Error) == 0
}

// Errors returns the messages for field.
func (s Submission) Errors(field string) []string {
	return s.Error[field]
}

// FormErrors returns messages not tied to a field.
func (s Submission) FormErrors() []string {
	return s.Error[FormErrorKey]
}

// Value returns the payload value stored under a field name such as
// "items[1]".
func (s Submission) Value(name string) (any, bool) {
	return lookup(s.Payload, parseName(name))
}

// List returns the list stored under name; a scalar becomes a one-item list.
func (s Submission) List(name string) []any {
	value, ok := s.Value(name)
	if !ok {
		return nil
	}
	return asList(value)
}

// Strings returns the list under name with undefined items as "".
func (s Submission) Strings(name string) []string {
	list := s.List(name)
	if list == nil {
		return nil
	}
	out := make([]string, len(list))
	for i, item := range list {
		if str, ok := item.(string); ok {
			out[i] = str
		}
	}
	return out
}

// Report summarises the submission for the page that rendered the form.
func (s Submission) Report() Report {
	report := Report{
		Intent:       string(s.Intent.Type),
		InitialValue: s.Payload,
	}
	if s.Intent.IsList() {
		report.Intent = s.Intent.String()
		return report
	}
	report.Status = StatusSuccess
	if len(s.Error) > 0 {
		report.Status = StatusError
		report.Error = s.Error
	}
	return report
}

// FieldName joins a list name and index the way posted names are written.
func FieldName(name string, index int) string {
	segs := append(parseName(name), segment{index: index, isIndex: true})
	return formatName(segs)
}
