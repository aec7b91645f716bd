package formdata

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseQuery_PreservesOrderAndDuplicates(t *testing.T) {
	got, err := ParseQuery("items=a&title=Hello+world&items=b&empty=&flag")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := Entries{
		{Key: "items", Value: "a"},
		{Key: "title", Value: "Hello world"},
		{Key: "items", Value: "b"},
		{Key: "empty", Value: ""},
		{Key: "flag", Value: ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestParseQuery_InvalidEscape(t *testing.T) {
	if _, err := ParseQuery("items=%zz"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestEntries_Accessors(t *testing.T) {
	entries := Entries{}.
		Add("playground", "simple-list").
		Add("items", "a").
		Add("items", "b")

	if value, ok := entries.Get("items"); !ok || value != "a" {
		t.Fatalf("expected first items value a, got %q (%v)", value, ok)
	}
	if diff := cmp.Diff([]string{"a", "b"}, entries.Values("items")); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"playground", "items"}, entries.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	trimmed := entries.Delete("playground")
	if trimmed.Has("playground") {
		t.Fatalf("expected playground to be removed")
	}
	if !entries.Has("playground") {
		t.Fatalf("delete must not mutate the receiver")
	}
	if got := trimmed.Encode(); got != "items=a&items=b" {
		t.Fatalf("unexpected encoding %q", got)
	}
	if !trimmed.Equal(trimmed.Clone()) {
		t.Fatalf("clone should be equal")
	}
}

func TestEntries_JSONShape(t *testing.T) {
	entries := Entries{{Key: "items", Value: "a"}, {Key: "items", Value: "b"}}
	raw, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `[["items","a"],["items","b"]]` {
		t.Fatalf("unexpected json %s", raw)
	}

	var decoded Entries
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Equal(entries) {
		t.Fatalf("round trip mismatch: %#v", decoded)
	}

	if err := json.Unmarshal([]byte(`[["only-key"]]`), &decoded); err == nil {
		t.Fatalf("expected malformed pair error")
	}
}

func TestParseRequest_URLEncoded(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/simple-list", strings.NewReader("playground=simple-list&items=a&items=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	got, err := ParseRequest(req, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := Entries{
		{Key: "playground", Value: "simple-list"},
		{Key: "items", Value: "a"},
		{Key: "items", Value: "b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRequest_Multipart(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("items", "a")
	part, err := writer.CreateFormFile("upload", "report.pdf")
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	_, _ = part.Write([]byte("%PDF"))
	_ = writer.WriteField("items", "b")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	got, err := ParseRequest(req, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := Entries{
		{Key: "items", Value: "a"},
		{Key: "upload", Value: "report.pdf"},
		{Key: "items", Value: "b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRequest_Limits(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("items=abcdef"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if _, err := ParseRequest(req, 4); !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":["a"]}`))
	req.Header.Set("Content-Type", "application/json")
	if _, err := ParseRequest(req, 0); !errors.Is(err, ErrUnsupportedContentType) {
		t.Fatalf("expected ErrUnsupportedContentType, got %v", err)
	}
}

func TestParseRequest_NoBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got, err := ParseRequest(req, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no entries, got %#v", got)
	}
}
