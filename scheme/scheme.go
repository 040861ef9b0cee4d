// Package scheme describes URI schemes and keeps the registry the uri package resolves them from.
//
// A scheme is looked up by name through a [Registry]. Every distinct name is interned:
// repeated lookups of the same name return the same [Scheme] value for the registry lifetime.
// Names without a specialized entry resolve to a [Generic] scheme.
package scheme

//go:generate go tool errtrace -w .

import (
	"github.com/marrow/uri/internal/errorutil"
	"github.com/marrow/uri/internal/util"
)

type Error = errorutil.Error

const (
	// ErrInvalidScheme is returned for names not matching ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ).
	ErrInvalidScheme Error = "invalid scheme"
	// ErrAlreadyRegistered is returned when another scheme is already interned under the same name.
	ErrAlreadyRegistered Error = "scheme already registered"
)

// Reference is the view of a URI a scheme needs to classify it.
type Reference interface {
	// Host returns the decoded host or an empty string.
	Host() string
	// HasAbsPath reports whether the URI path is rooted.
	HasAbsPath() bool
}

// Scheme describes the behaviour of a URI scheme.
// Implementations must be comparable.
type Scheme interface {
	// Name returns the normalized (lowercase) scheme name.
	Name() string
	// Slashed reports whether the scheme introduces its authority with "//".
	Slashed() bool
	// IsRelative reports whether ref is relative to some outer context.
	IsRelative(ref Reference) bool
}

// Normalize trims and lowercases a scheme name.
func Normalize(name string) string { return util.LCase(util.TrimSP(name)) }

// Generic is a scheme without an authority convention, e.g. mailto or urn.
type Generic struct {
	name string
}

// NewGeneric returns a generic scheme with the normalized name.
func NewGeneric(name string) *Generic { return &Generic{Normalize(name)} }

func (s *Generic) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

func (*Generic) Slashed() bool { return false }

// IsRelative always returns false.
func (*Generic) IsRelative(Reference) bool { return false }

func (s *Generic) String() string { return s.Name() }

// URL is a slashed scheme of locator URIs like http or ftp.
type URL struct {
	name string
}

// NewURL returns a URL scheme with the normalized name.
func NewURL(name string) *URL { return &URL{Normalize(name)} }

func (s *URL) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

func (*URL) Slashed() bool { return true }

// IsRelative returns true when ref has no host or its path is not rooted.
func (*URL) IsRelative(ref Reference) bool {
	return ref == nil || ref.Host() == "" || !ref.HasAbsPath()
}

func (s *URL) String() string { return s.Name() }

// None is the sentinel of URIs without a scheme.
var None Scheme = &Generic{}

// IsURL reports whether s follows the slashed URL conventions.
func IsURL(s Scheme) bool { return s != nil && s.Slashed() }
