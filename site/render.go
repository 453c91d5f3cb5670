package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = []string{"home.html", "about.html", "contact.html", "notfound.html"}

// Page is what every template executes against: the layout fields plus the
// page record in Data.
type Page struct {
	Title     string
	SiteName  string
	Copyright string
	Nav       []NavItem
	CSRF      template.HTML
	Data      any
}

type NavItem struct {
	Title  string
	Path   string
	Active bool
}

// Renderer holds one parsed template set per page, each layered on the
// shared layout. It is safe for concurrent use.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"markdown": markdown,
	}
	templates := map[string]*template.Template{}
	for _, name := range pageTemplates {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("couldn't parse template %q: %w", name, err)
		}
		templates[name] = t
	}
	return &Renderer{templates: templates}, nil
}

// Render executes the named page into w.
func (rn *Renderer) Render(w io.Writer, name string, p Page) error {
	t, ok := rn.templates[name]
	if !ok {
		return fmt.Errorf("no template %q", name)
	}
	return t.ExecuteTemplate(w, "base", p)
}

var (
	md           = goldmark.New()
	mdPolicy     *bluemonday.Policy
	mdPolicyOnce sync.Once
)

// markdown converts src to sanitized HTML.
func markdown(src string) (template.HTML, error) {
	mdPolicyOnce.Do(func() {
		mdPolicy = bluemonday.UGCPolicy()
		mdPolicy.RequireNoFollowOnLinks(true)
	})
	buf := &bytes.Buffer{}
	if err := md.Convert([]byte(src), buf); err != nil {
		return "", err
	}
	return template.HTML(mdPolicy.SanitizeBytes(buf.Bytes())), nil
}
