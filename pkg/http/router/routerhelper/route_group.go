package routerhelper

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// HandleWrapper decorates a handler registered at route.
type HandleWrapper func(route string, handle httprouter.Handle) httprouter.Handle

// RouteGroup registers handlers under a common path prefix.
type RouteGroup struct {
	router   *httprouter.Router
	prefix   string
	wrappers []HandleWrapper
}

func NewRouteGroup(router *httprouter.Router, prefix string) *RouteGroup {
	return &RouteGroup{
		router: router,
		prefix: prefix,
	}
}

func (g *RouteGroup) Group(prefix string) *RouteGroup {
	sub := NewRouteGroup(g.router, g.prefix+prefix)
	sub.wrappers = append(sub.wrappers, g.wrappers...)
	return sub
}

// Use applies wrapper to every handler registered after the call, the first wrapper is the outermost.
func (g *RouteGroup) Use(wrapper HandleWrapper) {
	g.wrappers = append(g.wrappers, wrapper)
}

func (g *RouteGroup) Handle(method, path string, handle httprouter.Handle) {
	route := g.prefix + path
	for i := len(g.wrappers) - 1; i >= 0; i-- {
		handle = g.wrappers[i](route, handle)
	}
	g.router.Handle(method, route, handle)
}

func (g *RouteGroup) GET(path string, handle httprouter.Handle) {
	g.Handle(http.MethodGet, path, handle)
}

func (g *RouteGroup) POST(path string, handle httprouter.Handle) {
	g.Handle(http.MethodPost, path, handle)
}
