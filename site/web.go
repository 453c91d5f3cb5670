package site

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type JSONError struct {
	Error string `json:"error"`
}

func serveJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func serveJSONError(w http.ResponseWriter, e string, code int) {
	serveJSON(w, code, JSONError{e})
}

// wantsHTML is true for browsers; everything else gets JSON.
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// serveHTML renders into a buffer first so a template error never leaves a
// half written page behind.
func (s *Site) serveHTML(w http.ResponseWriter, r *http.Request, code int, tname, title string, data any) {
	p := Page{
		Title:     title,
		SiteName:  s.config.Meta.SiteName,
		Copyright: s.config.Meta.CopyrightName,
		Nav:       s.nav(r.URL.Path),
		CSRF:      csrf.TemplateField(r),
		Data:      data,
	}
	buf := &bytes.Buffer{}
	if err := s.renderer.Render(buf, tname, p); err != nil {
		s.log.Error("error executing template", zap.String("template", tname), zap.Error(err))
		serveJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Security-Policy", s.csp)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

func (s *Site) notFound(w http.ResponseWriter, r *http.Request) {
	if !wantsHTML(r) {
		serveJSONError(w, "not found", http.StatusNotFound)
		return
	}
	s.serveHTML(w, r, http.StatusNotFound, "notfound.html", "Not Found", notFoundData{Title: "Page not found", Path: r.URL.Path})
}

func (s *Site) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	serveJSONError(w, "bad method", http.StatusMethodNotAllowed)
}

func (s *Site) csrfFailure(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	s.log.Info("rejected request", zap.String("path", r.URL.Path), zap.String("reason", reason))
	serveJSONError(w, "invalid CSRF token, reload the form and try again", http.StatusForbidden)
}

// limitBody refuses bodies over Security.max-form-bytes. The form is parsed
// here, under the limit, so later handlers (CSRF included) see it parsed.
func (s *Site) limitBody(next http.Handler) http.Handler {
	limit := s.config.Sec.MaxFormBytes
	parse := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				serveJSONError(w, "request body too large", http.StatusBadRequest)
				return
			}
			s.log.Info("error parsing form", zap.Error(err))
			serveJSONError(w, "form parse error", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
	limited := middleware.RequestSize(limit)(parse)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > limit {
			serveJSONError(w, "request body too large", http.StatusBadRequest)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request once it has been served.
func (s *Site) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t1 := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("took", time.Since(t1)),
			zap.String("remote", r.RemoteAddr),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("agent", truncate(r.UserAgent(), 50)),
		)
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
