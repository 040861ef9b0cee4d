package uri

import (
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/marrow/uri/internal/errorutil"
	"github.com/marrow/uri/internal/ioutil"
	"github.com/marrow/uri/internal/types"
	"github.com/marrow/uri/internal/util"
	"github.com/marrow/uri/scheme"
)

// Part names a URI component or a compound view over several components.
type Part uint8

const (
	PartScheme Part = iota
	PartUser
	PartPassword
	PartHost
	PartPort
	PartPath
	PartQuery
	PartFragment
	// PartAuth is user[:password].
	PartAuth
	// PartAuthority is auth@host:port.
	PartAuthority
	// PartHeirarchical is the authority followed by the path.
	PartHeirarchical
	// PartBase is the scheme followed by the heirarchical part.
	PartBase
	// PartSummary is the host followed by the path.
	PartSummary
	// PartOrigin is the scheme, host and port.
	PartOrigin
	// PartResource is the path, query and fragment.
	PartResource
	// PartURI is the whole URI. It is the only writable compound part.
	PartURI
	// PartSafeURI is the whole URI without the password.
	PartSafeURI

	numParts
)

// Aliases.
const (
	PartUsername       = PartUser
	PartHostname       = PartHost
	PartQS             = PartQuery
	PartAuthentication = PartAuth
	PartCredentials    = PartAuth
	PartNetloc         = PartAuthority
)

var partNames = map[string]Part{
	"scheme":         PartScheme,
	"user":           PartUser,
	"username":       PartUsername,
	"password":       PartPassword,
	"host":           PartHost,
	"hostname":       PartHostname,
	"port":           PartPort,
	"path":           PartPath,
	"query":          PartQuery,
	"qs":             PartQS,
	"fragment":       PartFragment,
	"auth":           PartAuth,
	"authentication": PartAuthentication,
	"credentials":    PartCredentials,
	"authority":      PartAuthority,
	"netloc":         PartNetloc,
	"heirarchical":   PartHeirarchical,
	"base":           PartBase,
	"summary":        PartSummary,
	"origin":         PartOrigin,
	"resource":       PartResource,
	"uri":            PartURI,
	"safe_uri":       PartSafeURI,
}

// ParsePart returns the part with the given name.
// Aliases such as "username" or "netloc" are accepted.
func ParsePart(name string) (Part, error) {
	if p, ok := partNames[util.LCase(name)]; ok {
		return p, nil
	}
	return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrUnknownComponent, "%q", name))
}

// IsValid reports whether p is a known part.
func (p Part) IsValid() bool { return p < numParts }

// IsCompound reports whether p is a view over several components.
func (p Part) IsCompound() bool { return p >= PartAuth && p < numParts }

func (p Part) String() string {
	if !p.IsValid() {
		return "Part(" + strconv.Itoa(int(p)) + ")"
	}
	return parts[p].name
}

// MarshalText implements [encoding.TextMarshaler].
func (p Part) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrUnknownComponent, "%d", int(p)))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (p *Part) UnmarshalText(text []byte) error {
	v, err := ParsePart(string(text))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*p = v
	return nil
}

type renderFunc func(u *URI, cw *ioutil.CountingWriter, opts *types.RenderOptions)

// component is the rule set of a single part.
// Compound parts have no read and write rules, their value is their rendering.
type component struct {
	name   string
	render renderFunc
	read   func(u *URI) string
	write  func(u *URI, v any) error
}

var parts = [numParts]component{
	PartScheme: {
		name:   "scheme",
		render: renderScheme,
		read:   func(u *URI) string { return u.Scheme().Name() },
		write: func(u *URI, v any) error {
			s, err := toString(v)
			if err != nil {
				return errtrace.Wrap(err)
			}
			return errtrace.Wrap(u.SetScheme(s))
		},
	},
	PartUser: {
		name:   "user",
		render: renderUser,
		read:   (*URI).User,
		write:  stringWriter((*URI).SetUser),
	},
	PartPassword: {
		name:   "password",
		render: renderPassword,
		read:   (*URI).Password,
		write:  stringWriter((*URI).SetPassword),
	},
	PartHost: {
		name:   "host",
		render: renderHost,
		read:   (*URI).Host,
		write:  stringWriter((*URI).SetHost),
	},
	PartPort: {
		name:   "port",
		render: renderPort,
		read: func(u *URI) string {
			if u.port == 0 {
				return ""
			}
			return strconv.Itoa(int(u.port))
		},
		write: func(u *URI, v any) error {
			n, err := toPort(v)
			if err != nil {
				return errtrace.Wrap(err)
			}
			u.SetPort(n)
			return nil
		},
	},
	PartPath: {
		name:   "path",
		render: renderPath,
		read:   func(u *URI) string { return string(u.path) },
		write: func(u *URI, v any) error {
			s, err := toString(v)
			if err != nil {
				return errtrace.Wrap(err)
			}
			return errtrace.Wrap(u.SetPath(s))
		},
	},
	PartQuery: {
		name:   "query",
		render: renderQuery,
		read:   (*URI).QS,
		write:  (*URI).SetQuery,
	},
	PartFragment: {
		name:   "fragment",
		render: renderFragment,
		read:   (*URI).Fragment,
		write:  stringWriter((*URI).SetFragment),
	},
	PartAuth:         {name: "auth", render: renderAuth},
	PartAuthority:    {name: "authority", render: renderAuthority},
	PartHeirarchical: {name: "heirarchical", render: renderHeirarchical},
	PartBase:         {name: "base", render: renderBase},
	PartSummary:      {name: "summary", render: renderSummary},
	PartOrigin:       {name: "origin", render: renderOrigin},
	PartResource:     {name: "resource", render: renderResource},
	PartURI: {
		name:   "uri",
		render: renderURI,
		write: func(u *URI, v any) error {
			s, err := toString(v)
			if err != nil {
				return errtrace.Wrap(err)
			}
			u.parse(s)
			return nil
		},
	},
	PartSafeURI: {
		name: "safe_uri",
		render: func(u *URI, cw *ioutil.CountingWriter, _ *types.RenderOptions) {
			renderURI(u, cw, &types.RenderOptions{Safe: true})
		},
	},
}

func stringWriter(set func(u *URI, s string)) func(u *URI, v any) error {
	return func(u *URI, v any) error {
		s, err := toString(v)
		if err != nil {
			return errtrace.Wrap(err)
		}
		set(u, s)
		return nil
	}
}

func toString(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case Path:
		return string(v), nil
	case scheme.Scheme:
		return v.Name(), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidArgument, "unsupported value %T", v))
	}
}

func toPort(v any) (uint16, error) {
	var n int64
	switch v := v.(type) {
	case nil:
		return 0, nil
	case uint16:
		return v, nil
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint:
		n = int64(v)
	case uint32:
		n = int64(v)
	case string:
		if v == "" {
			return 0, nil
		}
		i, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidArgument, err))
		}
		return uint16(i), nil
	default:
		return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidArgument, "unsupported port %T", v))
	}
	if n < 0 || n > 65535 {
		return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidArgument, "port %d out of range", n))
	}
	return uint16(n), nil
}

func renderScheme(u *URI, cw *ioutil.CountingWriter, _ *types.RenderOptions) {
	if u.scheme != nil {
		cw.Affix("", u.scheme.Name(), ":")
		if u.scheme.Slashed() || u.hasAuthority() {
			cw.WriteString("//") //nolint:errcheck
		}
		return
	}
	if u.hasAuthority() {
		cw.WriteString("//") //nolint:errcheck
	}
}

func renderUser(u *URI, cw *ioutil.CountingWriter, _ *types.RenderOptions) {
	cw.WriteString(u.user) //nolint:errcheck
}

func renderPassword(u *URI, cw *ioutil.CountingWriter, _ *types.RenderOptions) {
	cw.Affix(":", u.password, "")
}

func renderAuth(u *URI, cw *ioutil.CountingWriter, opts *types.RenderOptions) {
	renderUser(u, cw, opts)
	if !opts.IsSafe() {
		renderPassword(u, cw, opts)
	}
}

func hasAuth(u *URI, opts *types.RenderOptions) bool {
	return u.user != "" || (u.password != "" && !opts.IsSafe())
}

func renderHost(u *URI, cw *ioutil.CountingWriter, _ *types.RenderOptions) {
	cw.WriteString(encHost(u.host)) //nolint:errcheck
}

func renderPort(u *URI, cw *ioutil.CountingWriter, _ *types.RenderOptions) {
	if u.port != 0 {
		cw.WriteString(":")                        //nolint:errcheck
		cw.WriteString(strconv.Itoa(int(u.port))) //nolint:errcheck
	}
}

func renderAuthority(u *URI, cw *ioutil.CountingWriter, opts *types.RenderOptions) {
	if hasAuth(u, opts) {
		renderAuth(u, cw, opts)
		cw.WriteString("@") //nolint:errcheck
	}
	renderHost(u, cw, opts)
	renderPort(u, cw, opts)
}

func renderPath(u *URI, cw *ioutil.CountingWriter, _ *types.RenderOptions) {
	if u.path == "" || u.path == "." {
		if u.hasAuthority() {
			cw.WriteString("/") //nolint:errcheck
		}
		return
	}
	cw.WriteString(string(u.path)) //nolint:errcheck
	if u.trailing && u.path != "/" {
		cw.WriteString("/") //nolint:errcheck
	}
}

func renderQuery(u *URI, cw *ioutil.CountingWriter, opts *types.RenderOptions) {
	if u.query.IsZero() {
		return
	}
	cw.WriteString("?") //nolint:errcheck
	cw.Call(func(w io.Writer) (int, error) { return errtrace.Wrap2(u.query.RenderTo(w, opts)) })
}

func renderFragment(u *URI, cw *ioutil.CountingWriter, _ *types.RenderOptions) {
	cw.Affix("#", u.fragment, "")
}

func renderHeirarchical(u *URI, cw *ioutil.CountingWriter, opts *types.RenderOptions) {
	renderAuthority(u, cw, opts)
	renderPath(u, cw, opts)
}

func renderBase(u *URI, cw *ioutil.CountingWriter, opts *types.RenderOptions) {
	renderScheme(u, cw, opts)
	renderHeirarchical(u, cw, opts)
}

func renderSummary(u *URI, cw *ioutil.CountingWriter, opts *types.RenderOptions) {
	renderHost(u, cw, opts)
	renderPath(u, cw, opts)
}

func renderOrigin(u *URI, cw *ioutil.CountingWriter, opts *types.RenderOptions) {
	renderScheme(u, cw, opts)
	renderHost(u, cw, opts)
	renderPort(u, cw, opts)
}

func renderResource(u *URI, cw *ioutil.CountingWriter, opts *types.RenderOptions) {
	renderPath(u, cw, opts)
	renderQuery(u, cw, opts)
	renderFragment(u, cw, opts)
}

func renderURI(u *URI, cw *ioutil.CountingWriter, opts *types.RenderOptions) {
	renderScheme(u, cw, opts)
	renderAuthority(u, cw, opts)
	renderResource(u, cw, opts)
}

// Override modifies a URI built by [New] or returned by [URI.Resolve].
type Override interface {
	ApplyOverride(u *URI) error
}

type withPart struct {
	part  Part
	value any
}

func (o withPart) ApplyOverride(u *URI) error { return errtrace.Wrap(u.SetPart(o.part, o.value)) }

// With assigns value to part. A nil value clears the part.
func With(part Part, value any) Override { return withPart{part, value} }

type withName struct {
	name  string
	value any
}

func (o withName) ApplyOverride(u *URI) error {
	p, err := ParsePart(o.name)
	if err != nil {
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(u.SetPart(p, o.value))
}

// WithName assigns value to the part named name, see [ParsePart].
func WithName(name string, value any) Override { return withName{name, value} }

type withRegistry struct {
	reg *scheme.Registry
}

func (o withRegistry) ApplyOverride(u *URI) error {
	u.reg = o.reg
	if u.scheme != nil {
		return errtrace.Wrap(u.SetScheme(u.scheme.Name()))
	}
	return nil
}

// WithRegistry makes the URI resolve its scheme names through reg.
// The current scheme is looked up again.
func WithRegistry(reg *scheme.Registry) Override { return withRegistry{reg} }
