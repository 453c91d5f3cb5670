package site

import (
	"errors"
	"net/http"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/aerth/demosite/form"
)

// StatusSent acknowledges an accepted contact submission.
const StatusSent = "Message Sent"

// Ack is the reply to an accepted submission.
type Ack struct {
	Status string `json:"status"`
}

// ValidationFailure is the reply to a rejected submission.
type ValidationFailure struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields"`
}

func (s *Site) home(w http.ResponseWriter, r *http.Request) {
	data := HomePage()
	s.serveHTML(w, r, http.StatusOK, "home.html", data.Title, data)
}

func (s *Site) about(w http.ResponseWriter, r *http.Request) {
	data := AboutPage()
	s.serveHTML(w, r, http.StatusOK, "about.html", data.Title, data)
}

func (s *Site) contactIndex(w http.ResponseWriter, r *http.Request) {
	if token := csrf.Token(r); token != "" {
		w.Header().Set("X-CSRF-Token", token)
	}
	data := ContactPage()
	s.serveHTML(w, r, http.StatusOK, "contact.html", data.Title, data)
}

// contactSubmit validates the posted form and acknowledges it. The
// submission is not stored or forwarded anywhere.
func (s *Site) contactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.log.Info("error parsing form", zap.Error(err))
		serveJSONError(w, "form parse error", http.StatusBadRequest)
		return
	}
	sub := form.FromValues(r.PostForm).Normalize()

	err := s.contact.Validate(sub)
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		s.log.Info("contact form rejected", zap.Strings("fields", verr.Names()))
		if wantsHTML(r) {
			data := ContactPage()
			data.Values = sub.Values()
			data.Errors = verr.Fields
			s.serveHTML(w, r, http.StatusBadRequest, "contact.html", data.Title, data)
			return
		}
		serveJSON(w, http.StatusBadRequest, ValidationFailure{Error: "validation failed", Fields: verr.Fields})
		return
	case err != nil:
		s.log.Error("error validating contact form", zap.Error(err))
		serveJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}

	// lengths only, the contents stay out of the logs
	s.log.Info("contact form accepted",
		zap.Int("name_len", len(sub.Name)),
		zap.Int("email_len", len(sub.Email)),
		zap.Int("message_len", len(sub.Message)))

	if wantsHTML(r) {
		data := ContactPage()
		data.Status = StatusSent
		s.serveHTML(w, r, http.StatusOK, "contact.html", data.Title, data)
		return
	}
	serveJSON(w, http.StatusOK, Ack{Status: StatusSent})
}
