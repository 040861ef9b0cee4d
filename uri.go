package uri

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/marrow/uri/internal/errorutil"
	"github.com/marrow/uri/internal/grammar"
	"github.com/marrow/uri/internal/ioutil"
	"github.com/marrow/uri/internal/types"
	"github.com/marrow/uri/internal/util"
	"github.com/marrow/uri/qs"
	"github.com/marrow/uri/scheme"
)

// RenderOptions controls URI rendering.
type RenderOptions = types.RenderOptions

// URI is a URI reference split into normalized components.
// The zero value is an empty URI resolving schemes through [scheme.Default].
//
// A URI is not safe for concurrent mutation. Derive variants with [URI.Clone]
// or with the methods returning new URIs.
type URI struct {
	scheme   scheme.Scheme
	user     string
	password string
	host     string
	port     uint16
	path     Path
	trailing bool
	query    *qs.QSO
	fragment string
	reg      *scheme.Registry
}

// Parse parses s leniently. It never fails, malformed input is kept verbatim
// in the closest component. An empty string yields an empty URI.
func Parse(s string) *URI {
	u := new(URI)
	u.parse(s)
	return u
}

// Linker is implemented by values linking to a resource.
// Link may return a func() string or any value accepted by [New].
type Linker interface {
	Link() any
}

// PathURIer is implemented by file system paths convertible to a URI, such as [Path].
type PathURIer interface {
	AsURI() string
}

// New builds a URI from src and applies overrides in order.
//
// src may be nil, string, []byte, *URI or URI (cloned), a [Linker], a [PathURIer],
// a func() string or a [fmt.Stringer].
func New(src any, overrides ...Override) (*URI, error) {
	if l, ok := src.(Linker); ok {
		src = l.Link()
	}
	if fn, ok := src.(func() string); ok {
		src = fn()
	}
	if p, ok := src.(PathURIer); ok {
		src = p.AsURI()
	}

	var u *URI
	switch v := src.(type) {
	case nil:
		u = new(URI)
	case string:
		u = Parse(v)
	case []byte:
		u = Parse(string(v))
	case *URI:
		if u = v.Clone(); u == nil {
			u = new(URI)
		}
	case URI:
		u = v.Clone()
	case fmt.Stringer:
		u = Parse(v.String())
	default:
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidArgument, "unsupported URI source %T", src))
	}

	for _, o := range overrides {
		if err := o.ApplyOverride(u); err != nil {
			return nil, errtrace.Wrap(err)
		}
	}
	return u, nil
}

// FromPath builds a file URI from a rooted file system path.
func FromPath(p string) (*URI, error) {
	if !strings.HasPrefix(p, "/") {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidArgument, "relative path %q", p))
	}
	u := Parse(NewPath(p).AsURI())
	u.trailing = strings.HasSuffix(p, "/")
	return u, nil
}

func (u *URI) parse(s string) {
	*u = URI{reg: u.reg}
	if s == "" {
		return
	}

	c := split(s)
	if c.scheme != "" {
		u.scheme = u.lookup(c.scheme)
	}
	if c.hasAuthority {
		a := splitAuthority(c.authority)
		u.user, u.password, u.port = a.user, a.password, a.port
		u.host = normHost(a.host)
	}
	if c.path != "" {
		u.path, u.trailing = NewPath(c.path), strings.HasSuffix(c.path, "/")
	}
	if c.query != "" {
		if q, err := qs.Parse(c.query, nil); err == nil {
			u.query = q
		}
	}
	u.fragment = c.fragment
}

func (u *URI) lookup(name string) scheme.Scheme {
	s := u.reg.Lookup(name)
	if s == nil || s.Name() == "" {
		return nil
	}
	return s
}

// Scheme returns the scheme or [scheme.None].
func (u *URI) Scheme() scheme.Scheme {
	if u == nil || u.scheme == nil {
		return scheme.None
	}
	return u.scheme
}

// SetScheme sets the scheme by name. An empty name removes the scheme.
func (u *URI) SetScheme(name string) error {
	name = scheme.Normalize(name)
	if name == "" {
		u.scheme = nil
		return nil
	}
	if !grammar.IsScheme(name) {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidArgument,
			errorutil.NewWrapperError(scheme.ErrInvalidScheme, "%q", name)))
	}
	u.scheme = u.lookup(name)
	return nil
}

// User returns the user name.
func (u *URI) User() string {
	if u == nil {
		return ""
	}
	return u.user
}

func (u *URI) SetUser(user string) { u.user = user }

// Password returns the password.
func (u *URI) Password() string {
	if u == nil {
		return ""
	}
	return u.password
}

func (u *URI) SetPassword(password string) { u.password = password }

// Host returns the decoded host, IDNA labels in Unicode and IPv6 literals without brackets.
func (u *URI) Host() string {
	if u == nil {
		return ""
	}
	return u.host
}

// SetHost normalizes and sets the host.
func (u *URI) SetHost(host string) { u.host = normHost(host) }

// Port returns the port or 0.
func (u *URI) Port() uint16 {
	if u == nil {
		return 0
	}
	return u.port
}

// SetPort sets the port, 0 removes it.
func (u *URI) SetPort(port uint16) { u.port = port }

// Path returns the path, "." when unset.
func (u *URI) Path() Path {
	if u == nil || u.path == "" {
		return "."
	}
	return u.path
}

// SetPath normalizes and sets the path. An empty string removes the path.
// A URI with an authority (user, password, host or port) only accepts rooted paths.
func (u *URI) SetPath(p string) error {
	if p == "" {
		u.path, u.trailing = "", false
		return nil
	}
	if u.hasAuthority() && !strings.HasPrefix(p, "/") {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidPathAssignment, "%q", p))
	}
	u.path, u.trailing = NewPath(p), strings.HasSuffix(p, "/")
	return nil
}

// HasAbsPath reports whether the path is rooted. An unset path is rooted when the URI has an authority.
func (u *URI) HasAbsPath() bool {
	if u == nil {
		return false
	}
	if u.path == "" {
		return u.hasAuthority()
	}
	return u.path.IsAbs()
}

// Query returns the query, creating an empty one on first use.
// The returned query is owned by the URI, modifications are reflected in it.
func (u *URI) Query() *qs.QSO {
	if u.query == nil {
		u.query = qs.New(nil)
	}
	return u.query
}

// QS returns the rendered query without the "?" prefix.
func (u *URI) QS() string {
	if u == nil {
		return ""
	}
	return u.query.String()
}

// SetQuery replaces the query.
// v may be nil (no query), string or []byte (parsed), *qs.QSO (copied)
// or anything [qs.QSO.Extend] accepts.
func (u *URI) SetQuery(v any) error {
	switch v := v.(type) {
	case nil:
		u.query = nil
	case *qs.QSO:
		u.query = v.Clone()
	case string:
		q, err := qs.Parse(v, nil)
		if err != nil {
			return errtrace.Wrap(err)
		}
		u.query = q
	case []byte:
		return errtrace.Wrap(u.SetQuery(string(v)))
	default:
		q := qs.New(nil)
		if err := q.Extend(v); err != nil {
			return errtrace.Wrap(err)
		}
		u.query = q
	}
	return nil
}

// Fragment returns the fragment.
func (u *URI) Fragment() string {
	if u == nil {
		return ""
	}
	return u.fragment
}

func (u *URI) SetFragment(fragment string) { u.fragment = fragment }

// Arg returns the values of the query argument name.
func (u *URI) Arg(name string) ([]string, error) {
	return errtrace.Wrap2(u.query.Get(name))
}

// SetArg assigns value to the query argument name, see [qs.QSO.Set].
func (u *URI) SetArg(name, value string) { u.Query().Set(name, value) }

// DelArg removes every query argument named name.
func (u *URI) DelArg(name string) error {
	if u.query == nil {
		return errtrace.Wrap(errorutil.NewWrapperError(qs.ErrNotFound, "%q", name))
	}
	return errtrace.Wrap(u.query.Delete(name))
}

// Args iterates over the query arguments in order. Bare tokens yield an empty name.
func (u *URI) Args() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if u == nil {
			return
		}
		for _, b := range u.query.All() {
			name, _ := b.Name()
			if !yield(name, b.Value()) {
				return
			}
		}
	}
}

// WithCredentials returns a copy of the URI with the user and password replaced.
func (u *URI) WithCredentials(user, password string) *URI {
	u2 := u.Clone()
	if u2 == nil {
		u2 = new(URI)
	}
	u2.user, u2.password = user, password
	return u2
}

func (u *URI) hasAuthority() bool {
	return u.user != "" || u.password != "" || u.host != "" || u.port != 0
}

// Part returns the value of p.
// Scalar parts return their stored value: the decoded host, the port digits, the normalized path.
// Compound parts return their rendering.
func (u *URI) Part(p Part) (string, error) {
	if !p.IsValid() {
		return "", errtrace.Wrap(errorutil.NewWrapperError(ErrUnknownComponent, "%s", p))
	}
	if u == nil {
		return "", nil
	}
	if c := parts[p]; c.read != nil {
		return c.read(u), nil
	}
	return u.renderPart(p, nil), nil
}

// SetPart assigns v to p. A nil v clears the part.
func (u *URI) SetPart(p Part, v any) error {
	if !p.IsValid() {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrUnknownComponent, "%s", p))
	}
	c := parts[p]
	if c.write == nil {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrReadOnlyComponent, "%s", p))
	}
	return errtrace.Wrap(c.write(u, v))
}

func (u *URI) renderPart(p Part, opts *RenderOptions) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	cw := ioutil.GetCountingWriter(sb)
	defer ioutil.FreeCountingWriter(cw)

	parts[p].render(u, cw, opts)
	return sb.String()
}

// IsRelative reports whether the URI is relative to some outer context.
// A URI without a scheme is relative, otherwise the scheme decides.
func (u *URI) IsRelative() bool {
	if u == nil || u.scheme == nil {
		return true
	}
	return u.scheme.IsRelative(u)
}

// Clone returns a deep copy of the URI.
func (u *URI) Clone() *URI {
	if u == nil {
		return nil
	}
	u2 := *u
	u2.query = u.query.Clone()
	return &u2
}

// IsZero reports whether the URI renders to an empty string.
func (u *URI) IsZero() bool { return u.String() == "" }

// RenderTo writes the URI to w.
func (u *URI) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if u == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)

	renderURI(u, cw, opts)
	return errtrace.Wrap2(cw.Result())
}

// Render returns the URI string.
func (u *URI) Render(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// String returns the URI string including the password.
func (u *URI) String() string { return u.Render(nil) }

// SafeString returns the URI string without the password.
func (u *URI) SafeString() string { return u.Render(&RenderOptions{Safe: true}) }

// Format implements [fmt.Formatter].
// The "q" verb quotes the URI, the "v" verb prints the URI without the password.
func (u *URI) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			u.RenderTo(f, nil) //nolint:errcheck
			return
		}
		fmt.Fprint(f, u.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
		return
	case 'v':
		if !f.Flag('#') && !f.Flag('+') {
			fmt.Fprint(f, u.SafeString())
			return
		}
		fallthrough
	default:
		type hideMethods URI
		type URI hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*URI)(u))
		return
	}
}

// LogValue implements [slog.LogValuer], the password is omitted.
func (u *URI) LogValue() slog.Value { return slog.StringValue(u.SafeString()) }

var equalParts = [...]Part{PartAuthority, PartPath, PartQuery, PartFragment}

// Equal reports whether the scheme, authority, path, query and fragment of both URIs
// render the same. val may be a *URI, URI, or anything accepted by [New].
func (u *URI) Equal(val any) bool {
	var other *URI
	switch v := val.(type) {
	case *URI:
		other = v
	case URI:
		other = &v
	default:
		o, err := New(v)
		if err != nil {
			return false
		}
		other = o
	}

	if u == other {
		return true
	} else if u == nil || other == nil {
		return u.IsZero() && other.IsZero()
	}

	if u.Scheme().Name() != other.Scheme().Name() {
		return false
	}
	for _, p := range equalParts {
		if u.renderPart(p, nil) != other.renderPart(p, nil) {
			return false
		}
	}
	return true
}

// MarshalText implements [encoding.TextMarshaler].
func (u *URI) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// The scheme registry of the receiver is kept.
func (u *URI) UnmarshalText(text []byte) error {
	u.parse(string(text))
	return nil
}
