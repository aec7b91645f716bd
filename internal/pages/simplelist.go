package pages

import (
	_ "embed"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-formgen-playground/internal/view"
	"github.com/goliatone/go-formgen-playground/pkg/formdata"
	"github.com/goliatone/go-formgen-playground/pkg/playground"
	"github.com/goliatone/go-formgen-playground/pkg/submission"
	"github.com/goliatone/go-formgen-playground/pkg/validation"
)

// SimpleListName identifies the simple list form, both as its path segment
// and as the value of the reserved form field.
const SimpleListName = "simple-list"

const simpleListField = "items"

//go:embed schemas/simple-list.schema.json
var simpleListSchemaJSON []byte

var simpleListMessages = map[string]string{
	"type":     "The field is required",
	"required": "At least one item is required",
	"pattern":  "Number is not allowed",
	"minItems": "At least one item is required",
	"maxItems": "Maximum 2 items are allowed",
}

var simpleListDefaults = []string{"default item 0", "default item 1"}

// SimpleList is a list of text items edited with insert, delete, reorder
// and clear buttons.
type SimpleList struct {
	renderer view.Renderer
	logger   *log.Logger
	schema   *jsonschema.Schema
}

var _ Page = (*SimpleList)(nil)

// NewSimpleList compiles the page schema.
func NewSimpleList(renderer view.Renderer, logger *log.Logger) (*SimpleList, error) {
	schema, err := validation.Compile("simple-list.schema.json", simpleListSchemaJSON)
	if err != nil {
		return nil, err
	}
	return &SimpleList{
		renderer: renderer,
		logger:   loggerOrDiscard(logger),
		schema:   schema,
	}, nil
}

func (p *SimpleList) Name() string  { return SimpleListName }
func (p *SimpleList) Title() string { return "Simple list" }

// Parse reconstructs a simple list submission from posted entries.
func (p *SimpleList) Parse(entries formdata.Entries) submission.Submission {
	return submission.Parse(entries,
		submission.WithSchema(p.schema),
		submission.WithMessages(simpleListMessages),
		submission.WithLists(simpleListField),
	)
}

func (p *SimpleList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h, ok := playground.FromContext(r.Context())
	if !ok {
		writeError(w, r, p.logger, playground.StatusError{Code: http.StatusInternalServerError, Err: playground.ErrNoSession})
		return
	}

	loader := simpleListLoader{
		hasDefaultValue:  r.URL.Query().Get("hasDefaultValue") == "yes",
		noClientValidate: r.URL.Query().Get("noClientValidate") == "yes",
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		p.render(w, r, h, loader, nil)
	case http.MethodPost:
		echoed, ok := h.Submission()
		if !ok {
			writeError(w, r, p.logger, playground.StatusError{Code: http.StatusInternalServerError, Err: playground.ErrNoSession})
			return
		}
		sub := p.Parse(echoed.Entries)
		report := sub.Report()
		p.logger.Debug("simple list submitted", "intent", report.Intent, "status", report.Status, "errors", len(sub.Error))
		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, report)
			return
		}
		p.render(w, r, h, loader, &sub)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodHead, http.MethodPost)
	}
}

type simpleListLoader struct {
	hasDefaultValue  bool
	noClientValidate bool
}

type simpleListView struct {
	Title             string                   `json:"title"`
	FormID            string                   `json:"formId"`
	Action            string                   `json:"action"`
	Hidden            []playground.HiddenField `json:"hidden"`
	IntentField       string                   `json:"intentField"`
	NoValidate        bool                     `json:"noValidate"`
	NativeConstraints bool                     `json:"nativeConstraints"`
	InitialReport     string                   `json:"initialReport,omitempty"`
	FormErrors        []string                 `json:"formErrors,omitempty"`
	ListErrors        []string                 `json:"listErrors,omitempty"`
	Items             []itemView               `json:"items"`
	Prepend           string                   `json:"prepend"`
	Append            string                   `json:"append"`
	Submit            string                   `json:"submit"`
	LastResult        *submission.Report       `json:"lastResult,omitempty"`
	Stored            *storedView              `json:"stored,omitempty"`
	Reset             resetView                `json:"reset"`
}

type itemView struct {
	Label     string   `json:"label"`
	Name      string   `json:"name"`
	Value     string   `json:"value"`
	Errors    []string `json:"errors,omitempty"`
	Remove    string   `json:"remove"`
	MoveToTop string   `json:"moveToTop"`
	Clear     string   `json:"clear"`
}

type storedView struct {
	Entries []entryView         `json:"entries"`
	Payload map[string]any      `json:"payload"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

type entryView struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type resetView struct {
	Action   string                 `json:"action"`
	Form     playground.HiddenField `json:"form"`
	ReturnTo string                 `json:"returnTo"`
}

func (p *SimpleList) render(w http.ResponseWriter, r *http.Request, h *playground.Harness, loader simpleListLoader, sub *submission.Submission) {
	cfg := h.Config()
	data := simpleListView{
		Title:             p.Title(),
		FormID:            SimpleListName,
		Action:            h.ConfiguredAction(r.URL.Path),
		Hidden:            []playground.HiddenField{h.FormField(SimpleListName)},
		IntentField:       submission.IntentField,
		NoValidate:        cfg.ValidationDisabled(),
		NativeConstraints: cfg.UseFallbackNative() && !loader.noClientValidate,
		Prepend:           submission.ListPrepend(simpleListField, "").String(),
		Append:            submission.ListAppend(simpleListField, "").String(),
		Submit:            submission.Submit().String(),
		Reset: resetView{
			Action:   h.ResetAction(),
			Form:     h.FormField(SimpleListName),
			ReturnTo: r.URL.RequestURI(),
		},
	}
	if cfg.InitialReport != nil {
		data.InitialReport = string(*cfg.InitialReport)
	}

	var values []string
	var fieldErrors map[string][]string
	switch {
	case sub != nil:
		report := sub.Report()
		data.LastResult = &report
		values = sub.Strings(simpleListField)
		fieldErrors = sub.Error
		data.FormErrors = sub.FormErrors()
		data.ListErrors = sub.Errors(simpleListField)
	case loader.hasDefaultValue:
		values = simpleListDefaults
	}

	for index, value := range values {
		name := submission.FieldName(simpleListField, index)
		data.Items = append(data.Items, itemView{
			Label:     "Item #" + strconv.Itoa(index+1),
			Name:      name,
			Value:     value,
			Errors:    fieldErrors[name],
			Remove:    submission.ListRemove(simpleListField, index).String(),
			MoveToTop: submission.ListReorder(simpleListField, index, 0).String(),
			Clear:     submission.ListReplace(simpleListField, index, "").String(),
		})
	}

	if stored, ok := playground.Reconstruct(h, SimpleListName, p.Parse); ok {
		entries, _ := h.Lookup(SimpleListName)
		panel := &storedView{
			Payload: stored.Payload,
			Errors:  stored.Error,
		}
		for _, entry := range entries {
			panel.Entries = append(panel.Entries, entryView{Key: entry.Key, Value: entry.Value})
		}
		data.Stored = panel
	}

	renderPage(w, r, p.renderer, p.logger, "simple_list", data)
}
