package pages

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-formgen-playground/internal/view"
)

// NavLink points at a registered page.
type NavLink struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Nav lists the registered pages sorted by name.
func Nav(registry *Registry) []NavLink {
	var links []NavLink
	for _, page := range registry.List() {
		links = append(links, NavLink{
			Name:  page.Name(),
			Title: page.Title(),
			Path:  Path(page),
		})
	}
	return links
}

type indexView struct {
	Title string    `json:"title"`
	Pages []NavLink `json:"pages"`
}

// IndexHandler lists the registered pages.
func IndexHandler(registry *Registry, renderer view.Renderer, logger *log.Logger) http.Handler {
	logger = loggerOrDiscard(logger)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(w, http.MethodGet, http.MethodHead)
			return
		}
		renderPage(w, r, renderer, logger, "index", indexView{Title: "Playground", Pages: Nav(registry)})
	})
}
