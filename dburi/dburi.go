// Package dburi parses database connection strings of the form
//
//	engine://[user[:password]@]host[:port][,host[:port]...]/database[?options]
//
// on top of [uri.URI].
package dburi

//go:generate go tool errtrace -w .

import (
	"log/slog"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/marrow/uri"
	"github.com/marrow/uri/internal/errorutil"
	"github.com/marrow/uri/qs"
)

type Error = errorutil.Error

const (
	// ErrNoDatabase is returned for connection strings without a database name.
	ErrNoDatabase Error = "no database name"
	// ErrInvalidHost is returned when a host list contains empty entries.
	ErrInvalidHost Error = "invalid host"
)

// Config holds the parts of a connection string relevant to database drivers.
type Config struct {
	// Engine is the scheme name, empty when the string has no scheme.
	Engine string
	// Name is the first path segment.
	Name string
	// Host is the single host. It is empty when Hosts is set.
	Host string
	// Hosts lists the members of a comma separated host list, ports included.
	Hosts    []string
	User     string
	Password string
	Port     uint16
	// Options is the query, never nil.
	Options *qs.QSO
}

// Parse parses a connection string.
func Parse(s string) (*Config, error) {
	u := uri.Parse(s)

	cfg := &Config{
		Engine:   u.Scheme().Name(),
		User:     u.User(),
		Password: u.Password(),
		Port:     u.Port(),
		Options:  u.Query().Clone(),
	}

	var errs []error
	if segs := u.Path().Parts(); len(segs) > 0 && segs[0] != "" {
		cfg.Name = segs[0]
	} else {
		errs = append(errs, errtrace.Wrap(errorutil.NewWrapperError(ErrNoDatabase)))
	}

	host := u.Host()
	if strings.Contains(host, ",") {
		for i, h := range strings.Split(host, ",") {
			h = strings.TrimSpace(h)
			if h == "" {
				errs = append(errs, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidHost, "empty host at position %d", i)))
				continue
			}
			cfg.Hosts = append(cfg.Hosts, h)
		}
	} else {
		cfg.Host = host
	}

	if err := errorutil.JoinPrefix("invalid connection string:", errs...); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return cfg, nil
}

// Addrs returns the host:port addresses to dial.
// Hosts entries are returned as they are, a single host is joined with the port when one is set.
func (c *Config) Addrs() []string {
	if c == nil {
		return nil
	}
	if len(c.Hosts) > 0 {
		return append([]string(nil), c.Hosts...)
	}
	if c.Host == "" {
		return nil
	}
	if c.Port == 0 {
		return []string{c.Host}
	}
	return []string{c.Host + ":" + strconv.Itoa(int(c.Port))}
}

// LogValue implements [slog.LogValuer], the password is omitted.
func (c *Config) LogValue() slog.Value {
	if c == nil {
		return slog.Value{}
	}
	attrs := make([]slog.Attr, 0, 6)
	if c.Engine != "" {
		attrs = append(attrs, slog.String("engine", c.Engine))
	}
	attrs = append(attrs,
		slog.String("name", c.Name),
		slog.Any("addrs", c.Addrs()),
	)
	if c.User != "" {
		attrs = append(attrs, slog.String("user", c.User))
	}
	if !c.Options.IsZero() {
		attrs = append(attrs, slog.String("options", c.Options.String()))
	}
	return slog.GroupValue(attrs...)
}
