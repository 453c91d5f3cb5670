// Package site serves the demo pages: home, about and the contact form.
package site

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/crewjam/csp"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/aerth/demosite/config"
	"github.com/aerth/demosite/form"
	"github.com/aerth/demosite/greylist"
)

const cdnHost = "https://cdnjs.cloudflare.com"

// Site is built once at startup; nothing in it changes while serving.
type Site struct {
	config   config.Config
	log      *zap.Logger
	renderer *Renderer
	contact  form.Form
	greylist *greylist.List
	csrf     func(http.Handler) http.Handler
	csp      string
	routes   []Route
	mux      *chi.Mux
}

// New builds the site from a checked config (see config.Check).
func New(cfg config.Config, logger *zap.Logger) (*Site, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	glist, err := greylist.New(cfg.Sec.Whitelist, cfg.Sec.Blacklist, logger)
	if err != nil {
		return nil, err
	}
	policy, err := cspHeader(cfg.Meta.SiteURL)
	if err != nil {
		return nil, err
	}
	s := &Site{
		config:   cfg,
		log:      logger,
		renderer: renderer,
		contact:  form.Contact(),
		greylist: glist,
		csp:      policy,
	}
	if cfg.Sec.AllMethods {
		glist.SetAllMethods(true)
	}
	s.csrf = noCSRF
	if cfg.Sec.CSRF {
		s.csrf = csrf.Protect([]byte(cfg.Sec.CSRFKey),
			csrf.Secure(!cfg.Meta.DevelopmentMode),
			csrf.FieldName("_csrf"),
			csrf.CookieName(cfg.Sec.CookieName+"_csrf"),
			csrf.Path("/"),
			csrf.ErrorHandler(http.HandlerFunc(s.csrfFailure)))
	}
	s.routes = s.routeTable()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// forwarding headers are client controlled unless a proxy we run sets them
	if cfg.Sec.ReverseProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)
	r.Use(s.greylist.Protect)
	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.methodNotAllowed)
	s.mount(r)
	s.mux = r
	return s, nil
}

// Handler returns the site's root http.Handler.
func (s *Site) Handler() http.Handler {
	return s.mux
}

func noCSRF(h http.Handler) http.Handler {
	return h
}

func cspHeader(siteURL string) (string, error) {
	u, err := url.Parse(siteURL)
	if err != nil {
		return "", fmt.Errorf("can't build Content-Security-Policy: %w", err)
	}
	self := []string{"'self'"}
	if host := u.Hostname(); host != "" {
		self = append(self, host)
	}
	return csp.Header{
		DefaultSrc: self,
		StyleSrc:   append([]string{"'unsafe-inline'", cdnHost}, self...),
		FontSrc:    append([]string{cdnHost}, self...),
	}.String(), nil
}
