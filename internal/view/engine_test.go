package view

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formgen-playground/pkg/testsupport"
)

func testFiles() fstest.MapFS {
	return fstest.MapFS{
		"hello.html":  {Data: []byte("Hello {{ name }}!")},
		"site.html":   {Data: []byte("{{ site.name }}:{% for item in nav %}{{ item.path }};{% endfor %}")},
		"layout.html": {Data: []byte("<main>{% block content %}{% endblock %}</main>")},
		"page.html":   {Data: []byte(`{% extends "layout.html" %}{% block content %}{{ title }}{% endblock %}`)},
		"echo.html":   {Data: []byte("{{ value|plaintext }}")},
	}
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	engine, err := New(append([]Option{WithFS(testFiles())}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	if result != "Hello Ada!" {
		t.Fatalf("unexpected result %q", result)
	}
	if written != result {
		t.Fatalf("writer mismatch %q", written)
	}
}

func TestEngine_RenderTemplateUsesJSONTags(t *testing.T) {
	engine := newEngine(t)

	type page struct {
		Title string `json:"title"`
	}
	result, err := engine.RenderTemplate("page.html", page{Title: "List & more"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "<main>List &amp; more</main>" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_RejectsNonObjectData(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("hello", []string{"a"}); err == nil {
		t.Fatalf("expected error for list data")
	}
}

func TestEngine_Globals(t *testing.T) {
	type link struct {
		Path string `json:"path"`
	}
	engine := newEngine(t, WithGlobals(map[string]any{
		"site": map[string]any{"name": "playground"},
	}))

	result, err := engine.RenderTemplate("site", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "playground:" {
		t.Fatalf("unexpected result %q", result)
	}

	if err := engine.SetGlobals(map[string]any{"nav": []link{{Path: "/a"}, {Path: "/b"}}}); err != nil {
		t.Fatalf("set globals: %v", err)
	}
	result, err = engine.RenderTemplate("site", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "playground:/a;/b;" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_DirOverridesFSAndReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.html")
	if err := os.WriteFile(path, []byte("Hi {{ name }}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	engine := newEngine(t, WithDir(dir))

	result, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Hi Ada" {
		t.Fatalf("disk template should win, got %q", result)
	}

	if err := os.WriteFile(path, []byte("Bye {{ name }}"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	result, err = engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Bye Ada" {
		t.Fatalf("edited template should be picked up, got %q", result)
	}

	result, err = engine.RenderTemplate("echo", map[string]any{"value": "x"})
	if err != nil || result != "x" {
		t.Fatalf("templates missing on disk fall back to the FS, got %q (%v)", result, err)
	}
}

func TestEngine_PlaintextFilter(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("echo", map[string]any{"value": "<b>bold</b> & co"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "bold &amp; co" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("nope", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error without templates")
	}
}

func TestPlaintext(t *testing.T) {
	cases := map[string]string{
		"":                          "",
		"plain":                     "plain",
		`<a href="x">link</a> text`: "link text",
	}
	for in, want := range cases {
		if got := Plaintext(in); got != want {
			t.Fatalf("Plaintext(%q) = %q, want %q", in, got, want)
		}
	}
}
