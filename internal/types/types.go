// Package types contains common interfaces implemented by the uri value types.
package types

import "io"

// Renderer is an interface that is used to render a type to a string or a writer.
type Renderer interface {
	// Render renders the type to a string with the given options.
	Render(opts *RenderOptions) string
	// RenderTo renders the type to a writer with the given options.
	RenderTo(w io.Writer, opts *RenderOptions) (int, error)
}

// RenderOptions is a struct that is used to pass options to rendering methods.
type RenderOptions struct {
	// Safe omits secrets (the password component) from the output.
	Safe bool `json:"safe,omitempty"`
}

// IsSafe reports whether opts request a secret-free rendering.
func (o *RenderOptions) IsSafe() bool { return o != nil && o.Safe }

type Equalable interface {
	Equal(val any) bool
}

type Cloneable[T any] interface {
	Clone() T
}
