package view

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

const templateExt = ".html"

// Renderer is the template seam pages depend on.
type Renderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}

// Option configures the engine before construction.
type Option func(*Engine)

// WithFS loads page templates from files.
func WithFS(files fs.FS) Option {
	return func(e *Engine) {
		e.files = files
	}
}

// WithDir loads templates from a directory on disk ahead of the FS. Files
// found there are parsed again on every render so edits show on reload.
func WithDir(dir string) Option {
	return func(e *Engine) {
		e.dir = strings.TrimSpace(dir)
	}
}

// WithGlobals seeds values every template can read, such as the site name.
func WithGlobals(data map[string]any) Option {
	return func(e *Engine) {
		for key, value := range data {
			if key = strings.TrimSpace(key); key != "" {
				e.pending[key] = value
			}
		}
	}
}

// Engine renders the page templates with pongo2. Template data goes through
// JSON first, so view models are addressed by their json tags.
type Engine struct {
	files   fs.FS
	dir     string
	pending map[string]any

	mu    sync.RWMutex
	set   *pongo2.TemplateSet
	cache map[string]*pongo2.Template
}

var _ Renderer = (*Engine)(nil)

// New builds an engine. At least one of WithFS or WithDir is required.
func New(options ...Option) (*Engine, error) {
	e := &Engine{pending: make(map[string]any)}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.dir == "" && e.files == nil {
		return nil, errors.New("view: no template source configured")
	}

	var loaders []pongo2.TemplateLoader
	if e.dir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(e.dir)
		if err != nil {
			return nil, fmt.Errorf("view: template dir %s: %w", e.dir, err)
		}
		loaders = append(loaders, loader)
	}
	if e.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(e.files))
	}
	e.set = pongo2.NewSet("playground", loaders...)
	e.set.Globals = pongo2.Context{}
	if e.dir == "" {
		e.cache = make(map[string]*pongo2.Template)
	}
	registerDefaultFilters()

	if err := e.SetGlobals(e.pending); err != nil {
		return nil, err
	}
	e.pending = nil
	return e, nil
}

// RenderTemplate renders the named page template, ".html" optional, and
// copies the result to every writer in out.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if !strings.HasSuffix(name, templateExt) {
		name += templateExt
	}
	tmpl, err := e.template(name)
	if err != nil {
		return "", err
	}
	viewData, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("view: data for %s: %w", name, err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(viewData, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("view: render %s: %w", name, err)
	}

	for _, w := range out {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// SetGlobals merges data into the values shared by every template. Keys
// already set are replaced.
func (e *Engine) SetGlobals(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	globals, err := toContext(data)
	if err != nil {
		return fmt.Errorf("view: globals: %w", err)
	}
	e.mu.Lock()
	e.set.Globals.Update(globals)
	e.mu.Unlock()
	return nil
}

// template returns the parsed template for name. Without a disk directory
// parsed templates are kept for the life of the engine.
func (e *Engine) template(name string) (*pongo2.Template, error) {
	if e.cache == nil {
		tmpl, err := e.set.FromFile(name)
		if err != nil {
			return nil, fmt.Errorf("view: load %s: %w", name, err)
		}
		return tmpl, nil
	}

	e.mu.RLock()
	tmpl, ok := e.cache[name]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("view: load %s: %w", name, err)
	}
	e.cache[name] = tmpl
	return tmpl, nil
}

// toContext normalises data into plain maps, slices and scalars.
func toContext(data any) (pongo2.Context, error) {
	out := pongo2.Context{}
	if data == nil {
		return out, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("template data must encode as a JSON object: %w", err)
	}
	if out == nil {
		out = pongo2.Context{}
	}
	return out, nil
}
