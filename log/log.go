// Package log provides the slog loggers used across the uri packages.
//
// The library is silent by default: [Default] returns [Noop] until an application
// installs its own logger with [SetDefault].
package log

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"sync/atomic"
	"time"

	"github.com/golang-cz/devslog"
	"github.com/phsym/console-slog"
	slogformatter "github.com/samber/slog-formatter"
)

var newHandler = slogformatter.NewFormatterHandler(
	slogformatter.ErrorFormatter("error"),
	slogformatter.FormatByType(func(u *url.URL) slog.Value {
		return slog.StringValue(u.Redacted())
	}),
)

// Def is a console logger.
var Def = slog.New(newHandler(
	console.NewHandler(os.Stdout, &console.HandlerOptions{
		AddSource:  true,
		Level:      slog.LevelDebug,
		TimeFormat: time.RFC3339Nano,
	}),
))

// Dev is a developer logger.
var Dev = slog.New(newHandler(
	devslog.NewHandler(os.Stdout, &devslog.Options{
		HandlerOptions: &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelDebug,
		},
		SortKeys:   true,
		TimeFormat: time.RFC3339Nano,
	}),
))

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h noopHandler) WithGroup(string) slog.Handler { return h }

// Noop is a noop logger.
var Noop = slog.New(noopHandler{})

var def atomic.Pointer[slog.Logger]

// Default returns the logger used by components configured without one.
func Default() *slog.Logger {
	if l := def.Load(); l != nil {
		return l
	}
	return Noop
}

// SetDefault replaces the logger returned by [Default].
// Passing nil restores [Noop].
func SetDefault(l *slog.Logger) { def.Store(l) }

// Wrap decorates h with the package value formatters.
func Wrap(h slog.Handler) slog.Handler { return newHandler(h) }
