package uri

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/marrow/uri/qs"
	"github.com/marrow/uri/scheme"
)

// Join resolves other as a path relative to the URI path, like joining file system paths.
//
//   - "." returns a copy without query and fragment;
//   - "#frag" returns a copy with the fragment replaced;
//   - a reference containing "://" replaces the whole URI;
//   - a reference starting with "//" is handled by [URI.Rehost];
//   - anything else is merged with the current path. The query and fragment
//     are taken from other and cleared when other has none.
//
// The receiver is never modified.
func (u *URI) Join(other string) (*URI, error) {
	switch {
	case other == ".":
		u2 := u.Clone()
		u2.query, u2.fragment = nil, ""
		return u2, nil
	case strings.HasPrefix(other, "#"):
		u2 := u.Clone()
		u2.fragment = other[1:]
		return u2, nil
	case strings.Contains(other, "://"):
		return u.derive(other), nil
	case strings.HasPrefix(other, "//"):
		return u.Rehost(other), nil
	}

	base := string(u.path)
	if base == "" {
		base = "."
	}
	switch {
	case base == "." || base == "/":
		base = "/"
	case u.trailing:
		base += "/"
	}

	ref := split(other)
	u2 := u.Clone()
	u2.query, u2.fragment = nil, ""
	if err := u2.SetPath(mergeRef(base, ref.path)); err != nil {
		return nil, errtrace.Wrap(err)
	}
	if ref.query != "" {
		if q, err := qs.Parse(ref.query, nil); err == nil {
			u2.query = q
		}
	}
	u2.fragment = ref.fragment
	return u2, nil
}

// Rehost replaces everything but the scheme with other.
// Anything up to and including the first "//" of other is dropped.
func (u *URI) Rehost(other string) *URI {
	if _, rest, ok := strings.Cut(other, "//"); ok {
		other = rest
	}
	if name := u.Scheme().Name(); name != "" {
		return u.derive(name + "://" + other)
	}
	return u.derive("//" + other)
}

// Resolve resolves ref against the URI following RFC 3986 section 5.2 and applies overrides
// to the result. A nil or empty ref resolves to a copy of the URI.
//
// A reference with the same URL-like scheme as the URI and no authority, such as "http:g",
// is resolved as the relative reference "g" for backward compatibility.
func (u *URI) Resolve(ref any, overrides ...Override) (*URI, error) {
	s, err := toString(ref)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	var res *URI
	if s == "" {
		res = u.Clone()
		if res == nil {
			res = new(URI)
		}
	} else {
		res = u.derive(resolveRef(split(u.String()), split(s), u.Scheme()).String())
	}

	for _, o := range overrides {
		if err := o.ApplyOverride(res); err != nil {
			return nil, errtrace.Wrap(err)
		}
	}
	return res, nil
}

// derive parses s into a new URI sharing the scheme registry.
func (u *URI) derive(s string) *URI {
	u2 := new(URI)
	if u != nil {
		u2.reg = u.reg
	}
	u2.parse(s)
	return u2
}

func resolveRef(base, ref components, bs scheme.Scheme) components {
	if ref.scheme != "" && !ref.hasAuthority && scheme.IsURL(bs) && scheme.Normalize(ref.scheme) == bs.Name() {
		ref.scheme = ""
	}

	var t components
	switch {
	case ref.scheme != "":
		t = ref
		t.path = removeDotSegments(ref.path)
	case ref.hasAuthority:
		t = ref
		t.scheme = base.scheme
		t.path = removeDotSegments(ref.path)
	default:
		t.scheme, t.authority, t.hasAuthority = base.scheme, base.authority, base.hasAuthority
		switch {
		case ref.path == "":
			t.path = base.path
			if ref.hasQuery {
				t.query, t.hasQuery = ref.query, true
			} else {
				t.query, t.hasQuery = base.query, base.hasQuery
			}
		case strings.HasPrefix(ref.path, "/"):
			t.path = removeDotSegments(ref.path)
			t.query, t.hasQuery = ref.query, ref.hasQuery
		default:
			t.path = removeDotSegments(merge(base, ref.path))
			t.query, t.hasQuery = ref.query, ref.hasQuery
		}
	}
	t.fragment, t.hasFragment = ref.fragment, ref.hasFragment
	return t
}

// merge implements RFC 3986 section 5.2.3.
func merge(base components, ref string) string {
	if base.hasAuthority && base.path == "" {
		return "/" + ref
	}
	i := strings.LastIndexByte(base.path, '/')
	return base.path[:i+1] + ref
}

// mergeRef merges a reference path with a base path the way [URI.Join] needs it.
func mergeRef(base, ref string) string {
	switch {
	case ref == "":
		return base
	case strings.HasPrefix(ref, "/"):
		return removeDotSegments(ref)
	default:
		return removeDotSegments(merge(components{path: base}, ref))
	}
}

// removeDotSegments implements RFC 3986 section 5.2.4.
// Excess ".." segments are dropped.
func removeDotSegments(p string) string {
	if !strings.Contains(p, ".") {
		return p
	}

	out := make([]string, 0, strings.Count(p, "/")+1)
	for p != "" {
		switch {
		case strings.HasPrefix(p, "../"):
			p = p[3:]
		case strings.HasPrefix(p, "./"):
			p = p[2:]
		case strings.HasPrefix(p, "/./"):
			p = p[2:]
		case p == "/.":
			p = "/"
		case strings.HasPrefix(p, "/../"):
			p = p[3:]
			out = dropLast(out)
		case p == "/..":
			p = "/"
			out = dropLast(out)
		case p == "." || p == "..":
			p = ""
		default:
			i := strings.IndexByte(p[1:], '/')
			if i < 0 {
				out = append(out, p)
				p = ""
			} else {
				out = append(out, p[:i+1])
				p = p[i+1:]
			}
		}
	}
	return strings.Join(out, "")
}

func dropLast(s []string) []string {
	if len(s) == 0 {
		return s
	}
	return s[:len(s)-1]
}
