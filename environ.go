package uri

import (
	"net"
	"net/http"
	"strconv"

	"github.com/marrow/uri/internal/util"
	"github.com/marrow/uri/qs"
)

// Environ holds the request fields a server gateway exposes, already split.
type Environ struct {
	Scheme      string
	ServerName  string
	ServerPort  string
	ScriptName  string
	PathInfo    string
	QueryString string
}

// FromEnviron builds the URI of a request.
// The port is omitted when it is the well known port of the scheme.
func FromEnviron(env Environ) *URI {
	u := new(URI)
	u.SetScheme(env.Scheme) //nolint:errcheck
	u.SetHost(env.ServerName)
	if n, err := strconv.ParseUint(env.ServerPort, 10, 16); err == nil && !isDefaultPort(u.Scheme().Name(), int(n)) {
		u.port = uint16(n)
	}

	p := env.ScriptName + env.PathInfo
	if p == "" {
		p = "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	u.SetPath(p) //nolint:errcheck

	if env.QueryString != "" {
		if q, err := qs.Parse(env.QueryString, nil); err == nil {
			u.query = q
		}
	}
	return u
}

func isDefaultPort(scheme string, port int) bool {
	if scheme == "" {
		return false
	}
	def, err := net.LookupPort("tcp", scheme)
	return err == nil && def == port
}

// FromRequest builds the URI of an incoming HTTP request, see [FromEnviron].
func FromRequest(r *http.Request) *URI {
	env := Environ{
		Scheme:      "http",
		ServerName:  r.Host,
		PathInfo:    r.URL.EscapedPath(),
		QueryString: r.URL.RawQuery,
	}
	if r.TLS != nil {
		env.Scheme = "https"
	}
	if env.ServerName == "" {
		env.ServerName = r.URL.Host
	}
	if host, port, err := net.SplitHostPort(env.ServerName); err == nil {
		env.ServerName, env.ServerPort = host, port
	}
	if util.TrimSP(env.ServerName) == "" {
		env.ServerName = "localhost"
	}
	return FromEnviron(env)
}
