package uri

import (
	"net/netip"
	"strings"

	"golang.org/x/net/idna"

	"github.com/marrow/uri/internal/util"
)

// normHost lowercases s, strips trailing dots and decodes punycode labels.
// Hosts which fail to decode are kept as they are.
func normHost(s string) string {
	s = strings.TrimRight(util.LCase(s), ".")
	if strings.Contains(s, "xn--") {
		if u, err := idna.Punycode.ToUnicode(s); err == nil {
			s = u
		}
	}
	return s
}

// encHost encodes s to ASCII and brackets IPv6 literals.
func encHost(s string) string {
	if s == "" {
		return ""
	}
	if !util.IsASCII(s) {
		if a, err := idna.Punycode.ToASCII(s); err == nil {
			s = a
		}
	}
	if isIPv6(s) {
		return "[" + s + "]"
	}
	return s
}

func isIPv6(s string) bool {
	if !strings.Contains(s, ":") {
		return false
	}
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is6()
}
