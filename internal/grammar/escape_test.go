package grammar_test

import (
	"testing"

	"github.com/marrow/uri/internal/grammar"
)

func TestQueryEscape(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want string
	}{
		{"empty", "", ""},
		{"plain", "ferret", "ferret"},
		{"space", "argument1 argument2", "argument1+argument2"},
		{"query safe", "objectClass?one/two", "objectClass?one/two"},
		{"reserved", "http://localhost:61020/", "http%3A//localhost%3A61020/"},
		{"percent", "100%", "100%25"},
		{"separators", "a=b&c", "a%3Db%26c"},
		{"unicode", "ü", "%C3%BC"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := grammar.QueryEscape(c.str); got != c.want {
				t.Errorf("grammar.QueryEscape(%q) = %q, want %q", c.str, got, c.want)
			}
		})
	}
}

func TestPathEscape(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want string
	}{
		{"empty", "", ""},
		{"plain", "/foo/bar.txt", "/foo/bar.txt"},
		{"space", "/tmp/a b", "/tmp/a%20b"},
		{"percent", "/100%", "/100%25"},
		{"reserved", "/a:b@c?d#e", "/a%3Ab%40c%3Fd%23e"},
		{"unicode", "/ü", "/%C3%BC"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := grammar.PathEscape(c.str); got != c.want {
				t.Errorf("grammar.PathEscape(%q) = %q, want %q", c.str, got, c.want)
			}
		})
	}
}

func TestQueryUnescape(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want string
	}{
		{"empty", "", ""},
		{"plus", "argument1+argument2", "argument1 argument2"},
		{"escapes", "http%3A//localhost%3a61020/", "http://localhost:61020/"},
		{"malformed", "abc%ax%", "abc%ax%"},
		{"trailing escape", "abc%41", "abcA"},
		{"unicode", "%C3%BC", "ü"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := grammar.QueryUnescape(c.str); got != c.want {
				t.Errorf("grammar.QueryUnescape(%q) = %q, want %q", c.str, got, c.want)
			}
		})
	}
}

func TestUnescape_Bytes(t *testing.T) {
	t.Parallel()

	if got, want := string(grammar.Unescape([]byte("a%20b+c"))), "a b+c"; got != want {
		t.Errorf("grammar.Unescape([]byte(\"a%%20b+c\")) = %q, want %q", got, want)
	}
}

func TestIsScheme(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"http", true},
		{"HTTP", true},
		{"svn+ssh", true},
		{"a1.b-c", true},
		{"1http", false},
		{"ht tp", false},
		{"+x", false},
	}

	for _, c := range cases {
		if got := grammar.IsScheme(c.in); got != c.want {
			t.Errorf("grammar.IsScheme(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
