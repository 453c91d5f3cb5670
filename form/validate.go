package form

import (
	"regexp"
	"sort"
	"strings"
)

// basic local@domain.tld shape, nothing more
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s.]+$`)

// ValidationError lists the messages for every field that failed.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Names(), ", ")
}

// Names returns the offending field names, sorted.
func (e *ValidationError) Names() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the named field failed.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Validate checks s against the rules of f: required fields must be
// non-empty and email fields must look like an address. The returned error
// is a *ValidationError, or nil when s is acceptable. Callers normally pass
// a normalized submission.
func (f Form) Validate(s Submission) error {
	verr := &ValidationError{}
	for _, fld := range f.Inputs() {
		v := s.Get(fld.Name)
		switch {
		case v == "":
			if fld.Required {
				verr.add(fld.Name, fld.Label+" is required")
			}
		case fld.Kind == Email && !emailPattern.MatchString(v):
			verr.add(fld.Name, fld.Label+" must be a valid email address")
		}
	}
	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}
