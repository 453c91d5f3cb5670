package form

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactSchema(t *testing.T) {
	f := Contact()
	want := []Field{
		{Name: "name", Kind: Text, Label: "Name", Required: true},
		{Name: "email", Kind: Email, Label: "Email", Required: true},
		{Name: "message", Kind: Textarea, Label: "Message", Required: true},
		{Name: "submit", Kind: Submit, Value: "Send Message"},
	}
	if diff := cmp.Diff(want, f.Fields); diff != "" {
		t.Fatalf("contact fields mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "/contact/submit", f.Action)
	assert.Len(t, f.Inputs(), 3)

	// callers get their own copy
	f.Fields[0].Label = "changed"
	assert.Equal(t, "Name", Contact().Fields[0].Label)

	fld, ok := f.Field("email")
	require.True(t, ok)
	assert.Equal(t, Email, fld.Kind)
	_, ok = f.Field("phone")
	assert.False(t, ok)
}

func TestValidateAccepts(t *testing.T) {
	s := Submission{Name: "Alice", Email: "alice@example.com", Message: "Hi"}
	assert.NoError(t, Contact().Validate(s))
}

func TestValidateEmptyName(t *testing.T) {
	s := Submission{Name: "", Email: "alice@example.com", Message: "Hi"}
	err := Contact().Validate(s)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"name"}, verr.Names())
	assert.Equal(t, []string{"Name is required"}, verr.Fields["name"])
	assert.False(t, verr.Has("email"))
	assert.False(t, verr.Has("message"))
	assert.EqualError(t, err, "validation failed: name")
}

func TestValidateEverythingMissing(t *testing.T) {
	err := Contact().Validate(Submission{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"email", "message", "name"}, verr.Names())
}

func TestValidateEmailShape(t *testing.T) {
	for _, addr := range []string{"alice", "alice@", "@example.com", "alice@example", "a lice@example.com", "alice@example."} {
		err := Contact().Validate(Submission{Name: "Alice", Email: addr, Message: "Hi"})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%q: expected validation error, got %v", addr, err)
		}
		assert.Equal(t, []string{"Email must be a valid email address"}, verr.Fields["email"], addr)
	}
	for _, addr := range []string{"a@b.co", "alice+tag@mail.example.com"} {
		assert.NoError(t, Contact().Validate(Submission{Name: "Alice", Email: addr, Message: "Hi"}), addr)
	}
}

func TestNormalize(t *testing.T) {
	in := Submission{
		Name:    "  <b>Alice</b> ",
		Email:   " alice@example.com\n",
		Message: "Tom & Jerry <script>alert(1)</script>",
	}
	got := in.Normalize()
	want := Submission{Name: "Alice", Email: "alice@example.com", Message: "Tom & Jerry"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkupOnlyFieldIsEmpty(t *testing.T) {
	s := Submission{Name: "<script>x</script>", Email: "alice@example.com", Message: "Hi"}.Normalize()
	err := Contact().Validate(s)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("name"))
}

func TestFromValues(t *testing.T) {
	v := url.Values{"name": {"Alice"}, "email": {"alice@example.com"}, "message": {"Hi"}, "_csrf": {"x"}}
	s := FromValues(v)
	assert.Equal(t, Submission{Name: "Alice", Email: "alice@example.com", Message: "Hi"}, s)
	assert.Equal(t, "Hi", s.Values()["message"])
	assert.Equal(t, "", s.Get("submit"))
}
