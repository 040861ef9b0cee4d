// Package grammar implements the character level rules of RFC 3986 used by the uri packages.
package grammar

import (
	"github.com/marrow/uri/internal/constraints"
)

// Unescape unescapes s by converting each 3-byte encoded substring of the form "% HEXDIG HEXDIG" into the hex-decoded byte.
// Malformed escapes are kept as is.
func Unescape[T constraints.Byteseq](s T) T {
	if len(s) == 0 {
		return s
	}

	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]) {
			b = append(b, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
		} else {
			b = append(b, s[i])
		}
	}
	return T(b)
}

// QueryUnescape decodes a query string component: "+" becomes a space, then percent escapes are decoded.
func QueryUnescape[T constraints.Byteseq](s T) T {
	if len(s) == 0 {
		return s
	}

	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '+' {
			b[i] = ' '
		} else {
			b[i] = s[i]
		}
	}
	return Unescape(T(b))
}

// QueryEscape encodes a query string component.
// Spaces become "+", unreserved characters together with "?" and "/" are kept literally,
// everything else is percent encoded.
func QueryEscape[T constraints.Byteseq](s T) T {
	if len(s) == 0 {
		return s
	}

	b := make([]byte, 0, len(s)+len(s)/2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b = append(b, '+')
		case IsCharUnreserved(c), c == '?', c == '/':
			b = append(b, c)
		default:
			b = append(b, '%', upperhex[c>>4], upperhex[c&15])
		}
	}
	return T(b)
}

// PathEscape encodes a file system path for use in a URI.
// Unreserved characters and "/" are kept literally, everything else is percent encoded.
func PathEscape[T constraints.Byteseq](s T) T {
	if len(s) == 0 {
		return s
	}

	b := make([]byte, 0, len(s)+len(s)/2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if IsCharUnreserved(c) || c == '/' {
			b = append(b, c)
		} else {
			b = append(b, '%', upperhex[c>>4], upperhex[c&15])
		}
	}
	return T(b)
}

const upperhex = "0123456789ABCDEF"

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// IsAlphaChar checks ALPHA rule.
func IsAlphaChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// IsAlphanumChar checks alphanum rule.
func IsAlphanumChar(c byte) bool {
	return IsAlphaChar(c) || '0' <= c && c <= '9'
}

// IsCharUnreserved checks on unreserved rule.
func IsCharUnreserved(c byte) bool {
	switch c {
	case '-', '.', '_', '~':
		return true
	}
	return IsAlphanumChar(c)
}
