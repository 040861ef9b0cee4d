package scheme

//go:generate go tool mockgen -destination=../internal/testutil/schememock/resolver.go -package=schememock github.com/marrow/uri/scheme Resolver

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"

	"braces.dev/errtrace"

	"github.com/marrow/uri/internal/errorutil"
	"github.com/marrow/uri/internal/grammar"
	"github.com/marrow/uri/internal/syncutil"
	"github.com/marrow/uri/log"
)

// Resolver provides specialized schemes for names seen by a [Registry] for the first time.
type Resolver interface {
	// Resolve returns the scheme registered for the normalized name.
	Resolve(name string) (Scheme, bool)
}

// ResolverFunc is an adapter to use ordinary functions as [Resolver].
type ResolverFunc func(name string) (Scheme, bool)

func (fn ResolverFunc) Resolve(name string) (Scheme, bool) { return fn(name) }

var builtinURLs = []string{"file", "ftp", "http", "https", "irc", "ldap", "telnet"}

// Builtin returns the resolver of the locator schemes known out of the box:
// file, ftp, http, https, irc, ldap and telnet resolve to [URL].
func Builtin() Resolver {
	return ResolverFunc(func(name string) (Scheme, bool) {
		if slices.Contains(builtinURLs, name) {
			return NewURL(name), true
		}
		return nil, false
	})
}

// RegistryOptions are the options of a [Registry].
type RegistryOptions struct {
	// Resolver is consulted on cache misses before falling back to [Generic].
	Resolver Resolver
	// Log is used for debug records about registrations.
	// If nil, [log.Default] is used.
	Log *slog.Logger
}

func (o *RegistryOptions) resolver() Resolver {
	if o == nil {
		return nil
	}
	return o.Resolver
}

func (o *RegistryOptions) log() *slog.Logger {
	if o == nil {
		return nil
	}
	return o.Log
}

// Registry interns schemes by normalized name.
// It is safe for concurrent use.
type Registry struct {
	cache    syncutil.RWMap[string, Scheme]
	resolver Resolver
	logger   *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(opts *RegistryOptions) *Registry {
	return &Registry{
		resolver: opts.resolver(),
		logger:   opts.log(),
	}
}

var defRegistry = sync.OnceValue(func() *Registry {
	return NewRegistry(&RegistryOptions{Resolver: Builtin()})
})

// Default returns the process registry, created on first use with the [Builtin] resolver.
func Default() *Registry { return defRegistry() }

// Lookup forwards to the [Default] registry.
func Lookup(name string) Scheme { return Default().Lookup(name) }

// Register forwards to the [Default] registry.
func Register(s Scheme) error { return errtrace.Wrap(Default().Register(s)) }

func (r *Registry) log() *slog.Logger {
	if r.logger == nil {
		return log.Default()
	}
	return r.logger
}

// Lookup returns the scheme interned under the normalized name.
// An empty name returns [None]. Unknown names are resolved once and cached;
// concurrent first lookups of the same name all observe the same instance.
// A nil registry forwards to [Default].
func (r *Registry) Lookup(name string) Scheme {
	if r == nil {
		return Default().Lookup(name)
	}

	name = Normalize(name)
	if name == "" {
		return None
	}
	if s, ok := r.cache.Get(name); ok {
		return s
	}

	var s Scheme
	if r.resolver != nil {
		if rs, ok := r.resolver.Resolve(name); ok && rs != nil {
			s = rs
		}
	}
	if s == nil {
		s = NewGeneric(name)
	}

	s, loaded := r.cache.GetOrSet(name, s)
	if !loaded {
		r.log().LogAttrs(context.Background(), slog.LevelDebug, "scheme cached",
			slog.String("scheme", name),
			slog.Bool("slashed", s.Slashed()),
		)
	}
	return s
}

// Register interns s under its name.
// Registering the same instance twice is a no-op.
func (r *Registry) Register(s Scheme) error {
	if s == nil {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("nil scheme"))
	}

	name := s.Name()
	if name != Normalize(name) || !grammar.IsScheme(name) {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidScheme, "%q", name))
	}

	cur, loaded := r.cache.GetOrSet(name, s)
	if loaded && cur != s {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrAlreadyRegistered, "%q", name))
	}
	if !loaded {
		r.log().LogAttrs(context.Background(), slog.LevelDebug, "scheme registered",
			slog.String("scheme", name),
			slog.Bool("slashed", s.Slashed()),
		)
	}
	return nil
}

// Has reports whether a scheme is already interned under the normalized name.
func (r *Registry) Has(name string) bool { return r.cache.Has(Normalize(name)) }

// Len returns the number of interned schemes.
func (r *Registry) Len() int { return r.cache.Len() }

// Entries returns a snapshot of interned schemes ordered by name.
func (r *Registry) Entries() []Scheme {
	entries := make([]Scheme, 0, r.cache.Len())
	for _, s := range r.cache.All() {
		entries = append(entries, s)
	}
	slices.SortFunc(entries, func(a, b Scheme) int { return cmp.Compare(a.Name(), b.Name()) })
	return entries
}
