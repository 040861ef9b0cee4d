package uri_test

import (
	"net/http/httptest"
	"testing"

	"github.com/marrow/uri"
)

func TestFromEnviron(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		env  uri.Environ
		want string
	}{
		{
			"default port",
			uri.Environ{Scheme: "http", ServerName: "example.com", ServerPort: "80", ScriptName: "/app", PathInfo: "/foo", QueryString: "a=1"},
			"http://example.com/app/foo?a=1",
		},
		{
			"custom port",
			uri.Environ{Scheme: "http", ServerName: "example.com", ServerPort: "8080", PathInfo: "/foo"},
			"http://example.com:8080/foo",
		},
		{
			"https default port",
			uri.Environ{Scheme: "https", ServerName: "Example.COM", ServerPort: "443"},
			"https://example.com/",
		},
		{
			"rootless script",
			uri.Environ{Scheme: "http", ServerName: "example.com", ScriptName: "app"},
			"http://example.com/app",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := uri.FromEnviron(c.env).String(); got != c.want {
				t.Errorf("uri.FromEnviron() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestFromRequest(t *testing.T) {
	t.Parallel()

	cases := []struct {
		target string
		want   string
	}{
		{"https://example.com/foo/bar?baz=27", "https://example.com/foo/bar?baz=27"},
		{"http://example.com:8080/x", "http://example.com:8080/x"},
		{"http://example.com:80/", "http://example.com/"},
	}

	for _, c := range cases {
		t.Run(c.target, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("GET", c.target, nil)
			if got := uri.FromRequest(r).String(); got != c.want {
				t.Errorf("uri.FromRequest() = %q, want %q", got, c.want)
			}
		})
	}
}
