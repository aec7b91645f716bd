package playground

import (
	"errors"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Routes lists the patterns registered by RegisterRoutes.
type Routes struct {
	Echo  string
	Reset string
}

// RegisterRoutes mounts the echo endpoint (behind Middleware) and the reset
// handler (without it) under basePath.
func (p *Playground) RegisterRoutes(mux Mux, basePath string) (Routes, error) {
	if mux == nil {
		return Routes{}, errors.New("playground: missing mux")
	}
	routes := Routes{
		Echo:  mountPath(basePath, p.opts.EchoPath),
		Reset: mountPath(basePath, p.opts.ResetPath),
	}
	mux.Handle(routes.Echo, p.Middleware(p.EchoHandler()))
	mux.Handle(routes.Reset, p.ResetHandler())
	p.setResetPath(routes.Reset)
	return routes, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
