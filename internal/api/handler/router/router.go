package router

import (
	"net/http"
	"sort"

	"github.com/gouveiaesilva/dashmilo-api/pkg/apiErrors"
	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
)

// Route associa um handler a um método e caminho. Middlewares rodam só nesta
// rota, depois da cadeia global.
type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []alice.Constructor
}

type Router struct {
	router *httprouter.Router
	routes []string
}

type ConfigRouter func(router *Router)

func WithRoutes(routes ...Route) ConfigRouter {
	return func(router *Router) {
		router.AddRoutes(routes...)
	}
}

func New(configs ...ConfigRouter) *Router {
	base := httprouter.New()
	base.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Rota não encontrada", nil)
	})
	base.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiErrors.WriteError(w, apiErrors.ErrMethodNotAllowed, "Método não permitido", nil)
	})
	// OPTIONS é respondido pelo middleware de CORS
	base.HandleOPTIONS = false

	router := &Router{router: base}
	for _, config := range configs {
		config(router)
	}

	return router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

func (r *Router) AddRoutes(routes ...Route) {
	for _, route := range routes {
		handler := alice.New(route.Middlewares...).Then(route.Handler)
		r.router.Handler(route.Method, route.Path, handler)
		r.routes = append(r.routes, route.Method+" "+route.Path)
	}
}

// Routes lista as rotas registradas no formato "MÉTODO caminho", em ordem
func (r *Router) Routes() []string {
	out := append([]string(nil), r.routes...)
	sort.Strings(out)
	return out
}
