package uri

import (
	"strconv"
	"strings"

	"github.com/marrow/uri/internal/grammar"
	"github.com/marrow/uri/internal/util"
)

// components is a URI reference split into its five RFC 3986 parts.
type components struct {
	scheme       string
	authority    string
	path         string
	query        string
	fragment     string
	hasAuthority bool
	hasQuery     bool
	hasFragment  bool
}

// split breaks s into components without decoding or validating anything but the scheme name.
func split(s string) components {
	var c components

	if i := strings.IndexByte(s, ':'); i > 0 && grammar.IsScheme(s[:i]) {
		c.scheme, s = s[:i], s[i+1:]
	}
	if rest, ok := strings.CutPrefix(s, "//"); ok {
		i := strings.IndexAny(rest, "/?#")
		if i < 0 {
			i = len(rest)
		}
		c.authority, s, c.hasAuthority = rest[:i], rest[i:], true
	}
	s, c.fragment, c.hasFragment = strings.Cut(s, "#")
	c.path, c.query, c.hasQuery = strings.Cut(s, "?")
	return c
}

// String recomposes the components as described in RFC 3986 section 5.3.
func (c components) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	if c.scheme != "" {
		sb.WriteString(c.scheme)
		sb.WriteByte(':')
	}
	if c.hasAuthority {
		sb.WriteString("//")
		sb.WriteString(c.authority)
	}
	sb.WriteString(c.path)
	if c.hasQuery {
		sb.WriteByte('?')
		sb.WriteString(c.query)
	}
	if c.hasFragment {
		sb.WriteByte('#')
		sb.WriteString(c.fragment)
	}
	return sb.String()
}

type authority struct {
	user, password, host string
	port                 uint16
}

// splitAuthority splits userinfo at the last "@" and the password at the first ":".
// A port which is not a valid number leaves the whole host info as the host.
func splitAuthority(s string) authority {
	var a authority

	userinfo, hostinfo, ok := util.CutLast(s, "@")
	if ok {
		a.user, a.password, _ = strings.Cut(userinfo, ":")
	} else {
		hostinfo = s
	}

	host, port, hasPort := hostinfo, "", false
	if strings.HasPrefix(hostinfo, "[") {
		if i := strings.IndexByte(hostinfo, ']'); i > 0 {
			host = hostinfo[1:i]
			port, hasPort = strings.CutPrefix(hostinfo[i+1:], ":")
		}
	} else {
		host, port, hasPort = strings.Cut(hostinfo, ":")
	}
	if hasPort && port != "" {
		n, err := strconv.ParseUint(port, 10, 16)
		if err != nil {
			host = hostinfo
		} else {
			a.port = uint16(n)
		}
	}
	a.host = host
	return a
}
