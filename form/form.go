// Package form describes the contact form as plain data and checks
// submissions against it.
package form

import "net/http"

// Kind is the input control a Field is rendered as.
type Kind string

const (
	Text     Kind = "text"
	Email    Kind = "email"
	Textarea Kind = "textarea"
	Submit   Kind = "submit"
)

// Field is one input control of a form.
type Field struct {
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	Label    string `json:"label,omitempty"`
	Required bool   `json:"required"`
	Value    string `json:"value,omitempty"` // caption for submit buttons
}

// Form is an ordered list of fields plus where the browser posts them.
type Form struct {
	Name   string  `json:"name"`
	Action string  `json:"action"`
	Method string  `json:"method"`
	Fields []Field `json:"fields"`
}

// Contact returns the contact form schema. Each call returns a fresh copy.
func Contact() Form {
	return Form{
		Name:   "contact",
		Action: "/contact/submit",
		Method: http.MethodPost,
		Fields: []Field{
			{Name: "name", Kind: Text, Label: "Name", Required: true},
			{Name: "email", Kind: Email, Label: "Email", Required: true},
			{Name: "message", Kind: Textarea, Label: "Message", Required: true},
			{Name: "submit", Kind: Submit, Value: "Send Message"},
		},
	}
}

// Field returns the field called name.
func (f Form) Field(name string) (Field, bool) {
	for _, fld := range f.Fields {
		if fld.Name == name {
			return fld, true
		}
	}
	return Field{}, false
}

// Inputs returns the fields that carry user data, skipping buttons.
func (f Form) Inputs() []Field {
	inputs := make([]Field, 0, len(f.Fields))
	for _, fld := range f.Fields {
		if fld.Kind == Submit {
			continue
		}
		inputs = append(inputs, fld)
	}
	return inputs
}
