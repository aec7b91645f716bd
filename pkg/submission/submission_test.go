package submission

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formgen-playground/pkg/formdata"
	"github.com/goliatone/go-formgen-playground/pkg/validation"
)

const itemsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "items": {
      "type": "array",
      "minItems": 1,
      "maxItems": 2,
      "items": { "type": "string", "pattern": "^[^0-9]+$" }
    }
  }
}`

var itemMessages = map[string]string{
	"type":     "The field is required",
	"pattern":  "Number is not allowed",
	"minItems": "At least one item is required",
	"maxItems": "Maximum 2 items are allowed",
}

func entriesOf(t *testing.T, raw string) formdata.Entries {
	t.Helper()
	entries, err := formdata.ParseQuery(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return entries
}

func parseItems(t *testing.T, raw string) Submission {
	t.Helper()
	schema := validation.MustCompile("items.json", []byte(itemsSchema))
	return Parse(entriesOf(t, raw),
		WithSchema(schema),
		WithMessages(itemMessages),
		WithLists("items"),
	)
}

func TestParse_RepeatedKeysBecomeList(t *testing.T) {
	sub := Parse(entriesOf(t, "items=a&items=b"))
	if diff := cmp.Diff([]string{"a", "b"}, sub.Strings("items")); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if !sub.Valid() {
		t.Fatalf("expected valid submission without schema: %#v", sub.Error)
	}
}

func TestParse_NestedNames(t *testing.T) {
	sub := Parse(entriesOf(t, "title=Plan&address.city=Lisbon&rows[1].name=second&rows[0].name=first&empty="))
	want := map[string]any{
		"title":   "Plan",
		"address": map[string]any{"city": "Lisbon"},
		"rows": []any{
			map[string]any{"name": "first"},
			map[string]any{"name": "second"},
		},
		"empty": nil,
	}
	if diff := cmp.Diff(want, sub.Payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if value, ok := sub.Value("rows[1].name"); !ok || value != "second" {
		t.Fatalf("unexpected value %v (%v)", value, ok)
	}
}

func TestParse_DropsIndexOnlyNames(t *testing.T) {
	sub := Parse(entriesOf(t, "%5B0%5D=x&ok=1"))
	if diff := cmp.Diff(map[string]any{"ok": "1"}, sub.Payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func countSlots(value any) int {
	switch v := value.(type) {
	case []any:
		n := len(v)
		for _, item := range v {
			n += countSlots(item)
		}
		return n
	case map[string]any:
		n := 0
		for _, item := range v {
			n += countSlots(item)
		}
		return n
	default:
		return 0
	}
}

func TestParse_BoundsListAllocation(t *testing.T) {
	entries := formdata.Entries{}
	for i := 0; i < 50; i++ {
		entries = entries.Add(fmt.Sprintf("grid[%d][%d]", i, maxListIndex), "x")
	}
	sub := Parse(entries)

	if got := countSlots(sub.Payload); got > maxListSlots {
		t.Fatalf("payload allocated %d list slots, limit %d", got, maxListSlots)
	}
	if value, ok := sub.Value(fmt.Sprintf("grid[0][%d]", maxListIndex)); !ok || value != "x" {
		t.Fatalf("entries within the limit are kept, got %v (%v)", value, ok)
	}
	if _, ok := sub.Value(fmt.Sprintf("grid[49][%d]", maxListIndex)); ok {
		t.Fatalf("entries past the limit must be dropped")
	}
}

func TestParse_DropsDeepNames(t *testing.T) {
	deep := "a" + strings.Repeat(".b", maxNameDepth)
	sub := Parse(formdata.Entries{{Key: deep, Value: "x"}, {Key: "ok", Value: "1"}})
	if diff := cmp.Diff(map[string]any{"ok": "1"}, sub.Payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Validation(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  map[string][]string
	}{
		{name: "valid", query: "items[0]=milk&items[1]=eggs"},
		{
			name:  "missing list",
			query: "",
			want:  map[string][]string{"items": {"At least one item is required"}},
		},
		{
			name:  "too many",
			query: "items=a&items=b&items=c",
			want:  map[string][]string{"items": {"Maximum 2 items are allowed"}},
		},
		{
			name:  "digits and empty item",
			query: "items[0]=2+eggs&items[1]=",
			want: map[string][]string{
				"items[0]": {"Number is not allowed"},
				"items[1]": {"The field is required"},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := parseItems(t, tc.query)
			if diff := cmp.Diff(tc.want, sub.Error); diff != "" {
				t.Fatalf("errors mismatch (-want +got):\n%s", diff)
			}
			report := sub.Report()
			wantStatus := StatusSuccess
			if len(tc.want) > 0 {
				wantStatus = StatusError
			}
			if report.Status != wantStatus || report.Intent != string(IntentSubmit) {
				t.Fatalf("unexpected report %#v", report)
			}
		})
	}
}

func TestParse_ListIntents(t *testing.T) {
	cases := []struct {
		name   string
		intent Intent
		want   []any
	}{
		{name: "append", intent: ListAppend("items", ""), want: []any{"a", "b", "c", nil}},
		{name: "prepend", intent: ListPrepend("items", "z"), want: []any{"z", "a", "b", "c"}},
		{name: "remove", intent: ListRemove("items", 1), want: []any{"a", "c"}},
		{name: "reorder to top", intent: ListReorder("items", 2, 0), want: []any{"c", "a", "b"}},
		{name: "reorder down", intent: ListReorder("items", 0, 2), want: []any{"b", "c", "a"}},
		{name: "replace", intent: ListReplace("items", 0, ""), want: []any{nil, "b", "c"}},
		{name: "remove out of range", intent: ListRemove("items", 9), want: []any{"a", "b", "c"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entries := entriesOf(t, "items[0]=a&items[1]=b&items[2]=c").Add(IntentField, tc.intent.String())
			sub := Parse(entries, WithSchema(validation.MustCompile("items.json", []byte(itemsSchema))))

			if diff := cmp.Diff(tc.want, sub.Payload["items"]); diff != "" {
				t.Fatalf("items mismatch (-want +got):\n%s", diff)
			}
			if len(sub.Error) != 0 {
				t.Fatalf("list intents must not validate, got %#v", sub.Error)
			}
			report := sub.Report()
			if report.Status != "" || report.Intent != tc.intent.String() {
				t.Fatalf("unexpected report %#v", report)
			}
		})
	}
}

func TestParse_AppendToMissingList(t *testing.T) {
	entries := formdata.Entries{}.Add(IntentField, ListAppend("items", "").String())
	sub := Parse(entries)
	if diff := cmp.Diff([]any{nil}, sub.Payload["items"]); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_InvalidIntent(t *testing.T) {
	entries := formdata.Entries{}.Add("items", "a").Add(IntentField, `{"type":"explode"}`)
	sub := Parse(entries)
	if sub.Intent.Type != IntentSubmit {
		t.Fatalf("invalid intents fall back to submit, got %q", sub.Intent.Type)
	}
	if len(sub.FormErrors()) != 1 {
		t.Fatalf("expected a form-level error, got %#v", sub.Error)
	}
}

func TestParseIntent(t *testing.T) {
	for _, raw := range []string{"", "submit", " submit "} {
		intent, err := ParseIntent(raw)
		if err != nil || intent.Type != IntentSubmit {
			t.Fatalf("%q: expected submit, got %#v (%v)", raw, intent, err)
		}
	}

	intent, err := ParseIntent(ListReorder("items", 3, 0).String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(ListReorder("items", 3, 0), intent); diff != "" {
		t.Fatalf("intent mismatch (-want +got):\n%s", diff)
	}

	for _, raw := range []string{"{", `{"type":"remove","payload":{}}`} {
		if _, err := ParseIntent(raw); err == nil {
			t.Fatalf("%q: expected error", raw)
		}
	}
}

func TestFieldName(t *testing.T) {
	if got := FieldName("items", 2); got != "items[2]" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := FieldName("rows[1].tags", 0); got != "rows[1].tags[0]" {
		t.Fatalf("unexpected name %q", got)
	}
}
