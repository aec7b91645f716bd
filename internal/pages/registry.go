package pages

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// Page is an example form mounted at "/" + Name().
type Page interface {
	http.Handler
	Name() string
	Title() string
}

// Registry stores pages by name.
type Registry struct {
	mu    sync.RWMutex
	pages map[string]Page
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		pages: make(map[string]Page),
	}
}

// Register adds a page by its Name(). Duplicate names return an error.
func (r *Registry) Register(page Page) error {
	if page == nil {
		return fmt.Errorf("pages: page is required")
	}
	name := strings.TrimSpace(page.Name())
	if name == "" {
		return fmt.Errorf("pages: page name is required")
	}
	if strings.ContainsAny(name, "/?#") {
		return fmt.Errorf("pages: page name %q must be a single path segment", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pages[name]; exists {
		return fmt.Errorf("pages: page %q already registered", name)
	}
	r.pages[name] = page
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(page Page) {
	if err := r.Register(page); err != nil {
		panic(err)
	}
}

// Get retrieves a page by name.
func (r *Registry) Get(name string) (Page, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	page, ok := r.pages[name]
	return page, ok
}

// List returns the registered pages sorted by name.
func (r *Registry) List() []Page {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Page, 0, len(names))
	for _, name := range names {
		out = append(out, r.pages[name])
	}
	return out
}

// Path returns the URL path a page is served on.
func Path(page Page) string {
	return "/" + page.Name()
}
