// Package qs implements the query string model of the uri package.
//
// A [QSO] is an ordered list of [Bucket] values that can also be addressed by name.
// The bucket list is the single source of truth for ordering; a per-name index references
// the same buckets and is kept in sync by every mutation.
//
//	q, _ := qs.Parse("key=value1&foo=bar&key=value2", nil)
//	q.Get("key")        // ["value1" "value2"]
//	q.Set("foo", "baz") // in place: key=value1&foo=baz&key=value2
//	q.Set("key", "x")   // collapsed: foo=baz&key=x
package qs

//go:generate go tool errtrace -w .

import "github.com/marrow/uri/internal/errorutil"

type Error = errorutil.Error

const (
	// ErrMalformedToken is returned by strict parsing of a token with several assignment separators.
	ErrMalformedToken Error = "malformed query token"
	// ErrNotFound is returned for absent names and out of range positions.
	ErrNotFound Error = "query argument not found"
	// ErrInvalidArgument is returned for unsupported source values.
	ErrInvalidArgument = errorutil.ErrInvalidArgument
)

const (
	DefaultAssignment = "="
	DefaultSeparator  = "&"
)

// Options configure parsing and rendering of a [QSO].
type Options struct {
	// Assignment separates names from values, "=" by default.
	Assignment string `json:"assignment,omitempty"`
	// Separator separates tokens, "&" by default.
	Separator string `json:"separator,omitempty"`
	// Strict rejects tokens with more than one assignment separator.
	Strict bool `json:"strict,omitempty"`
}

func (o *Options) assignment() string {
	if o == nil || o.Assignment == "" {
		return DefaultAssignment
	}
	return o.Assignment
}

func (o *Options) separator() string {
	if o == nil || o.Separator == "" {
		return DefaultSeparator
	}
	return o.Separator
}

func (o *Options) strict() bool { return o != nil && o.Strict }
