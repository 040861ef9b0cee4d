package scheme_test

import (
	"testing"

	"github.com/marrow/uri/scheme"
)

type ref struct {
	host string
	abs  bool
}

func (r ref) Host() string     { return r.host }
func (r ref) HasAbsPath() bool { return r.abs }

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"http", "http"},
		{" HTTP\t", "http"},
		{"Svn+SSH", "svn+ssh"},
	}

	for _, c := range cases {
		if got := scheme.Normalize(c.in); got != c.want {
			t.Errorf("scheme.Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestGeneric(t *testing.T) {
	t.Parallel()

	s := scheme.NewGeneric(" MailTo ")
	if got, want := s.Name(), "mailto"; got != want {
		t.Errorf("s.Name() = %q, want %q", got, want)
	}
	if s.Slashed() {
		t.Errorf("s.Slashed() = true, want false")
	}
	if s.IsRelative(ref{}) {
		t.Errorf("s.IsRelative(ref{}) = true, want false")
	}
	if got := s.String(); got != "mailto" {
		t.Errorf("s.String() = %q, want %q", got, "mailto")
	}
	if scheme.IsURL(s) {
		t.Errorf("scheme.IsURL(s) = true, want false")
	}
}

func TestURL_IsRelative(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		ref  scheme.Reference
		want bool
	}{
		{"nil", nil, true},
		{"no host", ref{abs: true}, true},
		{"rootless path", ref{host: "example.com"}, true},
		{"absolute", ref{host: "example.com", abs: true}, false},
	}

	s := scheme.NewURL("HTTP")
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := s.IsRelative(c.ref); got != c.want {
				t.Errorf("s.IsRelative(%v) = %v, want %v", c.ref, got, c.want)
			}
		})
	}
	if !s.Slashed() || !scheme.IsURL(s) || s.Name() != "http" {
		t.Errorf("unexpected URL scheme %v", s)
	}
}

func TestNone(t *testing.T) {
	t.Parallel()

	if scheme.None.Name() != "" || scheme.None.Slashed() {
		t.Errorf("scheme.None = %v, want empty generic scheme", scheme.None)
	}
}
