package validation

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaIssue represents a validation error with optional location metadata.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Keyword string `json:"keyword,omitempty"`
	Message string `json:"message"`
}

// SchemaValidationResult captures validation outcomes for an instance.
type SchemaValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// Compile builds a Draft 2020-12 schema from raw JSON. name identifies the
// resource in error messages and $ref resolution.
func Compile(name string, raw []byte) (*jsonschema.Schema, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "schema.json"
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("validation: add schema %q: %w", name, err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("validation: compile schema %q: %w", name, err)
	}
	return schema, nil
}

// MustCompile is Compile for schemas embedded at build time.
func MustCompile(name string, raw []byte) *jsonschema.Schema {
	schema, err := Compile(name, raw)
	if err != nil {
		panic(err)
	}
	return schema
}

// Validate checks instance against schema. instance must be made of decoded
// JSON values (map[string]any, []any, string, float64, bool, nil).
func Validate(schema *jsonschema.Schema, instance any) SchemaValidationResult {
	if schema == nil {
		return SchemaValidationResult{Valid: true}
	}
	if err := schema.Validate(instance); err != nil {
		return SchemaValidationResult{Issues: IssuesFromError(err)}
	}
	return SchemaValidationResult{Valid: true}
}

// IssuesFromError flattens a jsonschema validation error into leaf issues.
// Errors of any other type become a single form-level issue.
func IssuesFromError(err error) []SchemaIssue {
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []SchemaIssue{{Message: strings.TrimSpace(err.Error())}}
	}
	var issues []SchemaIssue
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		issues = append(issues, issueFromLeaf(ve)...)
	}
	return issues
}

func collectIssues(err *jsonschema.ValidationError, issues *[]SchemaIssue) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*issues = append(*issues, issueFromLeaf(err)...)
		return
	}
	for _, cause := range err.Causes {
		collectIssues(cause, issues)
	}
}

var quotedName = regexp.MustCompile(`'((?:[^'\\]|\\.)*)'`)

func issueFromLeaf(err *jsonschema.ValidationError) []SchemaIssue {
	keyword := lastSegment(err.KeywordLocation)
	message := strings.TrimSpace(err.Message)

	if keyword == "required" {
		// One issue per missing property so each lands on its own field.
		matches := quotedName.FindAllStringSubmatch(message, -1)
		if len(matches) > 0 {
			out := make([]SchemaIssue, 0, len(matches))
			for _, match := range matches {
				pointer := strings.TrimRight(err.InstanceLocation, "/") + "/" + escapePointer(match[1])
				out = append(out, SchemaIssue{
					Path:    pointer,
					Field:   FieldName(pointer),
					Keyword: keyword,
					Message: message,
				})
			}
			return out
		}
	}

	return []SchemaIssue{{
		Path:    err.InstanceLocation,
		Field:   FieldName(err.InstanceLocation),
		Keyword: keyword,
		Message: message,
	}}
}

// FieldName converts a JSON pointer into the form field naming convention:
// "/items/0" becomes "items[0]" and "/address/city" becomes "address.city".
func FieldName(pointer string) string {
	trimmed := strings.TrimSpace(pointer)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(trimmed, "/") {
		segment := strings.ReplaceAll(part, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		if isNumeric(segment) && b.Len() > 0 {
			b.WriteString("[" + segment + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(segment)
	}
	return b.String()
}

func lastSegment(location string) string {
	location = strings.TrimRight(strings.TrimSpace(location), "/")
	if idx := strings.LastIndex(location, "/"); idx >= 0 {
		return location[idx+1:]
	}
	return location
}

func escapePointer(segment string) string {
	if unquoted, err := strconv.Unquote(`"` + segment + `"`); err == nil {
		segment = unquoted
	}
	segment = strings.ReplaceAll(segment, "~", "~0")
	return strings.ReplaceAll(segment, "/", "~1")
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
