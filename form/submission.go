package form

import (
	"html"
	"net/url"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Submission is a posted contact form. It is validated and then dropped;
// nothing keeps it past the request.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// FromValues reads a submission out of decoded form values.
func FromValues(v url.Values) Submission {
	return Submission{
		Name:    v.Get("name"),
		Email:   v.Get("email"),
		Message: v.Get("message"),
	}
}

// Get returns the value posted for the named field.
func (s Submission) Get(name string) string {
	switch name {
	case "name":
		return s.Name
	case "email":
		return s.Email
	case "message":
		return s.Message
	}
	return ""
}

// Values returns the submission keyed by field name, for refilling a form.
func (s Submission) Values() map[string]string {
	return map[string]string{
		"name":    s.Name,
		"email":   s.Email,
		"message": s.Message,
	}
}

// Normalize trims every field and strips any markup from it.
func (s Submission) Normalize() Submission {
	return Submission{
		Name:    Clean(s.Name),
		Email:   Clean(s.Email),
		Message: Clean(s.Message),
	}
}

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

// Clean returns raw as plain text: tags removed (script and style bodies
// included), entities decoded, surrounding space trimmed.
func Clean(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(trimmed)))
}
