package util_test

import (
	"testing"

	"github.com/marrow/uri/internal/util"
)

func TestIsASCII(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"example.com", true},
		{"127.0.0.1\tfoo", true},
		{"💩.la", false},
		{"пример.испытание", false},
	}

	for _, c := range cases {
		if got := util.IsASCII(c.in); got != c.want {
			t.Errorf("util.IsASCII(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestCutLast(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, sep       string
		before, after string
		found         bool
	}{
		{"foo@evil.com:80@google.com", "@", "foo@evil.com:80", "google.com", true},
		{"google.com", "@", "google.com", "", false},
		{"@host", "@", "", "host", true},
	}

	for _, c := range cases {
		before, after, found := util.CutLast(c.in, c.sep)
		if before != c.before || after != c.after || found != c.found {
			t.Errorf("util.CutLast(%q, %q) = (%q, %q, %v), want (%q, %q, %v)",
				c.in, c.sep, before, after, found, c.before, c.after, c.found)
		}
	}
}
