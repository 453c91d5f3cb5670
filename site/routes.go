package site

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Route binds a method and chi pattern to one handler. Patterns with an
// {action} segment are shared by several routes told apart by Action.
type Route struct {
	Name    string
	Method  string
	Pattern string
	Action  string
	Handler string // e.g. "Contact.submit"
	Title   string // nav label; empty keeps the route out of the nav

	serve       http.HandlerFunc
	middlewares chi.Middlewares
}

func (rt Route) hasAction() bool {
	return strings.Contains(rt.Pattern, "{action}")
}

// routeTable is built once in New and only read afterwards.
func (s *Site) routeTable() []Route {
	contact := chi.Middlewares{s.limitBody, s.csrf}
	return []Route{
		{Name: "home", Method: http.MethodGet, Pattern: "/", Action: "index", Handler: "Home.index", Title: "Home", serve: s.home},
		{Name: "about", Method: http.MethodGet, Pattern: "/about", Action: "index", Handler: "About.index", Title: "About", serve: s.about},
		{Name: "contact", Method: http.MethodGet, Pattern: "/contact", Action: "index", Handler: "Contact.index", Title: "Contact", serve: s.contactIndex, middlewares: contact},
		{Name: "contact", Method: http.MethodPost, Pattern: "/contact", Action: "index", Handler: "Contact.index", serve: s.contactIndex, middlewares: contact},
		{Name: "contact", Method: http.MethodGet, Pattern: "/contact/{action}", Action: "index", Handler: "Contact.index", serve: s.contactIndex, middlewares: contact},
		{Name: "contact", Method: http.MethodPost, Pattern: "/contact/{action}", Action: "submit", Handler: "Contact.submit", serve: s.contactSubmit, middlewares: contact},
	}
}

// mount registers every method+pattern pair of the table on r once.
func (s *Site) mount(r chi.Router) {
	type key struct{ method, pattern string }
	seen := map[key]bool{}
	for _, rt := range s.routes {
		k := key{rt.Method, rt.Pattern}
		if seen[k] {
			continue
		}
		seen[k] = true
		h := http.Handler(rt.serve)
		if rt.hasAction() {
			h = s.dispatch(rt.Method, rt.Pattern)
		}
		r.With(rt.middlewares...).Method(rt.Method, rt.Pattern, h)
	}
}

// dispatch picks the route for the {action} segment of the request.
func (s *Site) dispatch(method, pattern string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action := chi.URLParam(r, "action")
		if rt, ok := s.find(method, pattern, action); ok {
			rt.serve(w, r)
			return
		}
		var allow []string
		for _, rt := range s.routes {
			if rt.Pattern == pattern && rt.Action == action {
				allow = append(allow, rt.Method)
			}
		}
		if len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
			s.methodNotAllowed(w, r)
			return
		}
		s.notFound(w, r)
	}
}

func (s *Site) find(method, pattern, action string) (Route, bool) {
	for _, rt := range s.routes {
		if rt.Method != method || rt.Pattern != pattern {
			continue
		}
		if rt.hasAction() && rt.Action != action {
			continue
		}
		return rt, true
	}
	return Route{}, false
}

// Lookup reports which route serves method and path, using the same mux
// as the server. HEAD resolves like GET.
func (s *Site) Lookup(method, path string) (Route, bool) {
	if method == http.MethodHead {
		method = http.MethodGet
	}
	rctx := chi.NewRouteContext()
	if !s.mux.Match(rctx, method, path) {
		return Route{}, false
	}
	return s.find(method, rctx.RoutePattern(), rctx.URLParam("action"))
}

// Routes returns a copy of the route table.
func (s *Site) Routes() []Route {
	return append([]Route(nil), s.routes...)
}

func (s *Site) nav(path string) []NavItem {
	var items []NavItem
	for _, rt := range s.routes {
		if rt.Title == "" {
			continue
		}
		items = append(items, NavItem{Title: rt.Title, Path: rt.Pattern, Active: rt.Pattern == path})
	}
	return items
}
