package view

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

var (
	defaultFiltersOnce sync.Once

	plaintextPolicyOnce sync.Once
	plaintextPolicy     *bluemonday.Policy
)

func registerDefaultFilters() {
	defaultFiltersOnce.Do(func() {
		if !pongo2.FilterExists("trim") {
			_ = pongo2.RegisterFilter("trim", filterTrim)
		}
		if !pongo2.FilterExists("plaintext") {
			_ = pongo2.RegisterFilter("plaintext", filterPlaintext)
		}
		if !pongo2.FilterExists("tojson") {
			_ = pongo2.RegisterFilter("tojson", filterToJSON)
		}
	})
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterPlaintext strips all markup from echoed user input. The sanitizer
// output is already escaped.
func filterPlaintext(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsSafeValue(Plaintext(in.String())), nil
}

// filterToJSON pretty-prints a value for the debug panels.
func filterToJSON(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	raw, err := json.MarshalIndent(in.Interface(), "", "  ")
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:tojson", OrigError: err}
	}
	return pongo2.AsValue(string(raw)), nil
}

// Plaintext removes every HTML element from raw.
func Plaintext(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return plaintextSanitizer().Sanitize(raw)
}

func plaintextSanitizer() *bluemonday.Policy {
	plaintextPolicyOnce.Do(func() {
		plaintextPolicy = bluemonday.StrictPolicy()
	})
	return plaintextPolicy
}
