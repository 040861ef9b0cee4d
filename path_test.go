package uri_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/marrow/uri"
)

func TestNewPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want uri.Path
	}{
		{"", "."},
		{".", "."},
		{"./", "."},
		{"/", "/"},
		{"//", "/"},
		{"/foo/bar/", "/foo/bar"},
		{"/foo//bar", "/foo/bar"},
		{"/foo/./bar/.", "/foo/bar"},
		{"/foo/../bar", "/foo/../bar"},
		{"foo/bar", "foo/bar"},
		{"./foo", "foo"},
		{"c=GB", "c=GB"},
		{"oasis:names:specification", "oasis:names:specification"},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			t.Parallel()

			if got := uri.NewPath(c.in); got != c.want {
				t.Errorf("uri.NewPath(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestPath_Methods(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path      uri.Path
		wantAbs   bool
		wantParts []string
		wantName  string
		wantDir   uri.Path
	}{
		{".", false, nil, "", "."},
		{"/", true, nil, "", "/"},
		{"/foo", true, []string{"foo"}, "foo", "/"},
		{"/foo/bar.html", true, []string{"foo", "bar.html"}, "bar.html", "/foo"},
		{"foo/bar", false, []string{"foo", "bar"}, "bar", "foo"},
		{"foo", false, []string{"foo"}, "foo", "."},
	}

	for _, c := range cases {
		t.Run(string(c.path), func(t *testing.T) {
			t.Parallel()

			if got := c.path.IsAbs(); got != c.wantAbs {
				t.Errorf("p.IsAbs() = %v, want %v", got, c.wantAbs)
			}
			if diff := cmp.Diff(c.path.Parts(), c.wantParts); diff != "" {
				t.Errorf("p.Parts() diff (-got +want):\n%v", diff)
			}
			if got := c.path.Name(); got != c.wantName {
				t.Errorf("p.Name() = %q, want %q", got, c.wantName)
			}
			if got := c.path.Dir(); got != c.wantDir {
				t.Errorf("p.Dir() = %q, want %q", got, c.wantDir)
			}
		})
	}
}

func TestPath_Join(t *testing.T) {
	t.Parallel()

	if got, want := uri.Path("/foo").Join("bar", "baz/"), uri.Path("/foo/bar/baz"); got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}
	if got, want := uri.Path("/foo").Join("bar", "/diz"), uri.Path("/diz"); got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}
	if got, want := uri.Path(".").Join("a"), uri.Path("a"); got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}
}

func TestPath_AsURI(t *testing.T) {
	t.Parallel()

	if got, want := uri.Path("/foo/bar/baz").AsURI(), "file:///foo/bar/baz"; got != want {
		t.Errorf("AsURI() = %q, want %q", got, want)
	}
	if got, want := uri.Path("foo/bar").AsURI(), "foo/bar"; got != want {
		t.Errorf("AsURI() = %q, want %q", got, want)
	}
	if got, want := uri.Path("/tmp/a b/100%").AsURI(), "file:///tmp/a%20b/100%25"; got != want {
		t.Errorf("AsURI() = %q, want %q", got, want)
	}
}
