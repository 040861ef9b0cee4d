package uri

import (
	"strings"

	"github.com/marrow/uri/internal/grammar"
)

// Path is a normalized slash separated path.
//
// Repeated slashes are collapsed, "." segments and the trailing slash are dropped,
// ".." segments are kept. The empty path is ".".
type Path string

// NewPath normalizes s.
func NewPath(s string) Path {
	if s == "" {
		return "."
	}

	abs := strings.HasPrefix(s, "/")
	segs := make([]string, 0, strings.Count(s, "/")+1)
	for seg := range strings.SplitSeq(s, "/") {
		if seg == "" || seg == "." {
			continue
		}
		segs = append(segs, seg)
	}

	p := strings.Join(segs, "/")
	switch {
	case abs:
		return Path("/" + p)
	case p == "":
		return "."
	default:
		return Path(p)
	}
}

// IsAbs reports whether the path is rooted.
func (p Path) IsAbs() bool { return strings.HasPrefix(string(p), "/") }

// Parts returns the path segments without the root.
func (p Path) Parts() []string {
	s := strings.TrimPrefix(string(p), "/")
	if s == "" || s == "." {
		return nil
	}
	return strings.Split(s, "/")
}

// Name returns the last segment.
func (p Path) Name() string {
	parts := p.Parts()
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// Dir returns the path without its last segment.
func (p Path) Dir() Path {
	s := string(p)
	i := strings.LastIndexByte(s, '/')
	switch {
	case i < 0:
		return "."
	case i == 0:
		return "/"
	default:
		return Path(s[:i])
	}
}

// Join appends elems to the path and normalizes the result.
// Rooted elements replace what precedes them.
func (p Path) Join(elems ...string) Path {
	s := string(p)
	for _, e := range elems {
		if strings.HasPrefix(e, "/") {
			s = e
			continue
		}
		s += "/" + e
	}
	return NewPath(s)
}

// AsURI returns a file URI for a rooted path and the path reference otherwise.
// Characters other than unreserved ones and "/" are percent encoded.
func (p Path) AsURI() string {
	s := grammar.PathEscape(string(p))
	if p.IsAbs() {
		return "file://" + s
	}
	return s
}

func (p Path) String() string { return string(p) }
