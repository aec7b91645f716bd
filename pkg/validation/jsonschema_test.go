package validation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const listSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["title"],
  "properties": {
    "title": { "type": "string" },
    "items": {
      "type": "array",
      "maxItems": 2,
      "items": { "type": "string", "pattern": "^[^0-9]+$" }
    }
  }
}`

func TestValidate_Valid(t *testing.T) {
	schema := MustCompile("list.json", []byte(listSchema))
	result := Validate(schema, map[string]any{
		"title": "Groceries",
		"items": []any{"milk", "eggs"},
	})
	if !result.Valid {
		t.Fatalf("expected instance to be valid: %#v", result.Issues)
	}
}

func TestValidate_LeafIssues(t *testing.T) {
	schema := MustCompile("list.json", []byte(listSchema))
	result := Validate(schema, map[string]any{
		"title": "Groceries",
		"items": []any{"milk", "2 eggs"},
	})
	if result.Valid {
		t.Fatalf("expected instance to be invalid")
	}
	if len(result.Issues) != 1 {
		t.Fatalf("expected one issue, got %#v", result.Issues)
	}
	issue := result.Issues[0]
	if issue.Field != "items[1]" || issue.Keyword != "pattern" || issue.Path != "/items/1" {
		t.Fatalf("unexpected issue %#v", issue)
	}
}

func TestValidate_RequiredLandsOnMissingField(t *testing.T) {
	schema := MustCompile("list.json", []byte(listSchema))
	result := Validate(schema, map[string]any{})
	if result.Valid {
		t.Fatalf("expected instance to be invalid")
	}
	if got := result.Issues[0].Field; got != "title" {
		t.Fatalf("expected issue on title, got %q", got)
	}
	if got := result.Issues[0].Keyword; got != "required" {
		t.Fatalf("expected required keyword, got %q", got)
	}
}

func TestCompile_InvalidSchema(t *testing.T) {
	if _, err := Compile("broken.json", []byte(`{"type": 12}`)); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestIssuesFromError_PlainError(t *testing.T) {
	issues := IssuesFromError(errors.New("  boom "))
	want := []SchemaIssue{{Message: "boom"}}
	if diff := cmp.Diff(want, issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldName(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"/":                "",
		"/items/0":         "items[0]",
		"#/address/city":   "address.city",
		"/rows/2/cells/10": "rows[2].cells[10]",
		"/a~1b":            "a/b",
		"/0":               "0",
	}
	for pointer, want := range cases {
		if got := FieldName(pointer); got != want {
			t.Errorf("FieldName(%q) = %q, want %q", pointer, got, want)
		}
	}
}
