package site

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomePageRecord(t *testing.T) {
	data := HomePage()
	assert.Equal(t, "Welcome to Laminas Framework", data.Title)
	require.Len(t, data.Features, 3)
	for _, f := range data.Features {
		assert.NotEmpty(t, f.Icon)
		assert.NotEmpty(t, f.Title)
		assert.NotEmpty(t, f.Description)
	}
	if diff := cmp.Diff(HomePage(), data); diff != "" {
		t.Fatalf("HomePage not deterministic (-want +got):\n%s", diff)
	}
}

func TestAboutPageRecord(t *testing.T) {
	data := AboutPage()
	assert.Equal(t, "About Laminas", data.Title)
	assert.NotEmpty(t, data.Content)
}

func TestContactPageRecord(t *testing.T) {
	data := ContactPage()
	assert.Equal(t, "Contact Us", data.Title)
	assert.Len(t, data.Form.Fields, 4)
	assert.Empty(t, data.Status)
	assert.Nil(t, data.Errors)
}

func TestRenderDeterministic(t *testing.T) {
	rn, err := NewRenderer()
	require.NoError(t, err)
	p := Page{
		Title:    "Welcome to Laminas Framework",
		SiteName: "Laminas Demo",
		Nav:      []NavItem{{Title: "Home", Path: "/", Active: true}, {Title: "About", Path: "/about"}},
		Data:     HomePage(),
	}
	a, b := &bytes.Buffer{}, &bytes.Buffer{}
	require.NoError(t, rn.Render(a, "home.html", p))
	require.NoError(t, rn.Render(b, "home.html", p))
	assert.NotZero(t, a.Len())
	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.Contains(t, a.String(), "<title>Welcome to Laminas Framework | Laminas Demo</title>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	rn, err := NewRenderer()
	require.NoError(t, err)
	assert.Error(t, rn.Render(&bytes.Buffer{}, "missing.html", Page{}))
}

func TestMarkdownSanitized(t *testing.T) {
	out, err := markdown("Hello *world* <script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<em>world</em>")
	assert.NotContains(t, string(out), "<script>")
}
