package errorutil_test

import (
	"errors"
	"testing"

	"github.com/marrow/uri/internal/errorutil"
)

const errSentinel errorutil.Error = "sentinel"

func TestNewWrapperError(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")
	cases := []struct {
		name    string
		args    []any
		wantMsg string
	}{
		{"no args", nil, "sentinel"},
		{"error", []any{cause}, "sentinel: cause"},
		{"already wrapped", []any{errorutil.NewWrapperError(errSentinel, "inner")}, "sentinel: inner"},
		{"message", []any{"bad thing"}, "sentinel: bad thing"},
		{"format", []any{"bad %s #%d", "thing", 2}, "sentinel: bad thing #2"},
		{"unsupported", []any{42}, "sentinel"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			err := errorutil.NewWrapperError(errSentinel, c.args...)
			if !errors.Is(err, errSentinel) {
				t.Errorf("errors.Is(err, errSentinel) = false, want true")
			}
			if got := err.Error(); got != c.wantMsg {
				t.Errorf("err.Error() = %q, want %q", got, c.wantMsg)
			}
		})
	}
}

func TestJoinPrefix(t *testing.T) {
	t.Parallel()

	if err := errorutil.JoinPrefix("invalid", nil, nil); err != nil {
		t.Errorf("errorutil.JoinPrefix(\"invalid\", nil, nil) = %v, want nil", err)
	}

	e1 := errorutil.Error("first")
	e2 := errorutil.Error("second")

	err := errorutil.JoinPrefix("invalid:", e1)
	if got, want := err.Error(), "invalid: first"; got != want {
		t.Errorf("err.Error() = %q, want %q", got, want)
	}

	err = errorutil.JoinPrefix("invalid:", e1, nil, e2)
	if got, want := err.Error(), "invalid:\n  - first\n  - second"; got != want {
		t.Errorf("err.Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Errorf("joined error does not match its parts")
	}
}
