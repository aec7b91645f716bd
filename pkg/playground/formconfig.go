package playground

import (
	_ "embed"
	"net/url"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-formgen-playground/pkg/validation"
)

// ReportTiming controls when a form starts reporting validation errors.
type ReportTiming string

const (
	ReportOnSubmit ReportTiming = "onSubmit"
	ReportOnBlur   ReportTiming = "onBlur"
	ReportOnChange ReportTiming = "onChange"
)

// Query parameter names read by ParseFormConfig.
const (
	ParamInitialReport  = "initialReport"
	ParamNoValidate     = "noValidate"
	ParamFallbackNative = "fallbackNative"
)

// FormConfig is the per-request form configuration. Nil fields are absent
// and leave the page's default behaviour in place.
type FormConfig struct {
	InitialReport  *ReportTiming `json:"initialReport,omitempty"`
	NoValidate     *bool         `json:"noValidate,omitempty"`
	FallbackNative *bool         `json:"fallbackNative,omitempty"`
}

//go:embed formconfig.schema.json
var formConfigSchemaJSON []byte

var formConfigSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return validation.Compile("formconfig.schema.json", formConfigSchemaJSON)
})

// ParseFormConfig reads the recognised query parameters into a FormConfig.
// Unknown parameters are ignored. Input rejected by the configuration schema
// yields a *ConfigError and no configuration.
func ParseFormConfig(values url.Values) (FormConfig, error) {
	candidate := make(map[string]any, 3)
	if raw, ok := stringParam(values, ParamInitialReport); ok {
		candidate[ParamInitialReport] = raw
	}
	for _, key := range []string{ParamNoValidate, ParamFallbackNative} {
		if flag, ok := boolParam(values, key); ok {
			candidate[key] = flag
		}
	}

	schema, err := formConfigSchema()
	if err != nil {
		return FormConfig{}, err
	}
	result := validation.Validate(schema, candidate)
	if !result.Valid {
		return FormConfig{}, &ConfigError{Issues: toIssues(result.Issues)}
	}

	var cfg FormConfig
	if raw, ok := candidate[ParamInitialReport].(string); ok {
		timing := ReportTiming(raw)
		cfg.InitialReport = &timing
	}
	if flag, ok := candidate[ParamNoValidate].(bool); ok {
		cfg.NoValidate = &flag
	}
	if flag, ok := candidate[ParamFallbackNative].(bool); ok {
		cfg.FallbackNative = &flag
	}
	return cfg, nil
}

// stringParam mirrors form-data parsing: empty values are undefined and a
// repeated key becomes a list, which the schema then rejects.
func stringParam(values url.Values, key string) (any, bool) {
	var present []string
	for _, value := range values[key] {
		if value == "" {
			continue
		}
		present = append(present, value)
	}
	switch len(present) {
	case 0:
		return nil, false
	case 1:
		return present[0], true
	default:
		list := make([]any, len(present))
		for i, value := range present {
			list[i] = value
		}
		return list, true
	}
}

// boolParam treats presence as true. Only a single value spelled "false" or
// "0" (any case) turns the flag off.
func boolParam(values url.Values, key string) (bool, bool) {
	raw, ok := values[key]
	if !ok || len(raw) == 0 {
		return false, false
	}
	if len(raw) > 1 {
		return true, true
	}
	switch strings.ToLower(strings.TrimSpace(raw[0])) {
	case "false", "0":
		return false, true
	default:
		return true, true
	}
}

func toIssues(in []validation.SchemaIssue) []Issue {
	out := make([]Issue, 0, len(in))
	for _, issue := range in {
		out = append(out, Issue{Field: issue.Field, Keyword: issue.Keyword, Message: issue.Message})
	}
	return out
}

// ReportTimingOr returns the configured report timing or fallback.
func (c FormConfig) ReportTimingOr(fallback ReportTiming) ReportTiming {
	if c.InitialReport == nil {
		return fallback
	}
	return *c.InitialReport
}

// ValidationDisabled reports whether noValidate was set to true.
func (c FormConfig) ValidationDisabled() bool {
	return c.NoValidate != nil && *c.NoValidate
}

// UseFallbackNative reports whether fallbackNative was set to true.
func (c FormConfig) UseFallbackNative() bool {
	return c.FallbackNative != nil && *c.FallbackNative
}

// Query serialises the defined fields so the configuration survives the next
// submit. True flags become empty markers ("noValidate="); false flags are
// omitted. Keys keep declaration order.
func (c FormConfig) Query() string {
	parts := make([]string, 0, 3)
	if c.InitialReport != nil {
		parts = append(parts, ParamInitialReport+"="+url.QueryEscape(string(*c.InitialReport)))
	}
	if c.ValidationDisabled() {
		parts = append(parts, ParamNoValidate+"=")
	}
	if c.UseFallbackNative() {
		parts = append(parts, ParamFallbackNative+"=")
	}
	return strings.Join(parts, "&")
}
