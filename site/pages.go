package site

import "github.com/aerth/demosite/form"

// Feature is one tile on the home page. Icon is a Font Awesome class.
type Feature struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type HomeData struct {
	Title    string    `json:"title"`
	Features []Feature `json:"features"`
}

// AboutData.Content is a Markdown paragraph.
type AboutData struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ContactData drives the contact page. Values and Errors are only set when
// a submission is shown back to the visitor.
type ContactData struct {
	Title  string              `json:"title"`
	Form   form.Form           `json:"form"`
	Status string              `json:"status,omitempty"`
	Values map[string]string   `json:"values,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

type notFoundData struct {
	Title string
	Path  string
}

// HomePage builds the landing page record.
func HomePage() HomeData {
	return HomeData{
		Title: "Welcome to Laminas Framework",
		Features: []Feature{
			{Icon: "fa-cogs", Title: "Modular & Scalable", Description: "Easy to scale your application with reusable components."},
			{Icon: "fa-shield-alt", Title: "Built-in Security", Description: "Laminas provides security features out-of-the-box."},
			{Icon: "fa-plug", Title: "Integration Ready", Description: "Easily integrate with external systems like APIs, databases, and third-party services."},
		},
	}
}

func AboutPage() AboutData {
	return AboutData{
		Title:   "About Laminas",
		Content: "Laminas is an open-source enterprise-level PHP framework for building web applications.",
	}
}

// ContactPage builds the contact page around an empty form.
func ContactPage() ContactData {
	return ContactData{
		Title: "Contact Us",
		Form:  form.Contact(),
	}
}
