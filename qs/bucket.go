package qs

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/marrow/uri/internal/errorutil"
	"github.com/marrow/uri/internal/grammar"
	"github.com/marrow/uri/internal/ioutil"
	"github.com/marrow/uri/internal/types"
	"github.com/marrow/uri/internal/util"
)

// Bucket is one "name=value" or bare "value" token of a query string.
//
// A bucket parsed in lenient mode from a token holding more than one assignment
// separator is invalid: it keeps the original text and renders it back verbatim.
type Bucket struct {
	name    string
	hasName bool
	value   string
	sep     string
	valid   bool
}

// NewBucket creates a named bucket.
func NewBucket(name, value string) *Bucket {
	return &Bucket{name: name, hasName: true, value: value, sep: DefaultAssignment, valid: true}
}

// NewBareBucket creates a bucket without a name.
func NewBareBucket(value string) *Bucket {
	return &Bucket{value: value, sep: DefaultAssignment, valid: true}
}

// ParseBucket parses a raw query token split on the first sep.
//
// Name and value are percent decoded with "+" meaning a space.
// A token without sep yields a bare bucket holding the whole token as its value.
// A token with several sep occurrences fails with [ErrMalformedToken] in strict mode,
// otherwise it yields an invalid bucket split on the first sep with both parts kept undecoded.
func ParseBucket(token, sep string, strict bool) (*Bucket, error) {
	if sep == "" {
		sep = DefaultAssignment
	}

	b := &Bucket{sep: sep, valid: true}
	if strings.Count(token, sep) > 1 {
		if strict {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedToken, "multiple occurrences of %q in %q", sep, token))
		}
		b.valid = false
		b.name, b.value, b.hasName = strings.Cut(token, sep)
		return b, nil
	}

	name, value, found := strings.Cut(token, sep)
	if !found {
		b.value = grammar.QueryUnescape(token)
		return b, nil
	}
	b.name, b.hasName, b.value = grammar.QueryUnescape(name), true, grammar.QueryUnescape(value)
	return b, nil
}

// Name returns the bucket name and whether the bucket is named at all.
// An empty but present name ("=value") reports true.
func (b *Bucket) Name() (string, bool) {
	if b == nil {
		return "", false
	}
	return b.name, b.hasName
}

// Value returns the decoded value, or the raw remainder of an invalid bucket.
func (b *Bucket) Value() string {
	if b == nil {
		return ""
	}
	return b.value
}

// Sep returns the assignment separator.
func (b *Bucket) Sep() string {
	if b == nil {
		return ""
	}
	return b.sep
}

// IsValid reports whether the bucket was parsed from a well-formed token.
func (b *Bucket) IsValid() bool { return b != nil && b.valid }

func (b *Bucket) key() groupKey { return groupKey{b.name, b.hasName} }

// Clone returns a copy of the bucket.
func (b *Bucket) Clone() *Bucket {
	if b == nil {
		return nil
	}
	b2 := *b
	return &b2
}

// RenderTo writes the bucket to w.
func (b *Bucket) RenderTo(w io.Writer, _ *types.RenderOptions) (num int, err error) {
	if b == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)

	if !b.valid {
		cw.WriteString(b.name)  //nolint:errcheck
		cw.WriteString(b.sep)   //nolint:errcheck
		cw.WriteString(b.value) //nolint:errcheck
		return errtrace.Wrap2(cw.Result())
	}
	if b.hasName {
		cw.WriteString(grammar.QueryEscape(b.name)) //nolint:errcheck
		cw.WriteString(b.sep)                       //nolint:errcheck
	}
	cw.WriteString(grammar.QueryEscape(b.value)) //nolint:errcheck
	return errtrace.Wrap2(cw.Result())
}

// Render returns the bucket as a query token.
func (b *Bucket) Render(opts *types.RenderOptions) string {
	if b == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	b.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

func (b *Bucket) String() string { return b.Render(nil) }

// Format implements [fmt.Formatter].
func (b *Bucket) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			b.RenderTo(f, nil) //nolint:errcheck
			return
		}
		fmt.Fprint(f, b.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(b.String()))
		return
	default:
		type hideMethods Bucket
		type Bucket hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*Bucket)(b))
		return
	}
}

// Equal reports whether val renders to the same token.
// val may be a *Bucket, Bucket or string.
func (b *Bucket) Equal(val any) bool {
	switch v := val.(type) {
	case *Bucket:
		if b == nil || v == nil {
			return b == v
		}
		return b.String() == v.String()
	case Bucket:
		return b != nil && b.String() == v.String()
	case string:
		return b != nil && b.String() == v
	default:
		return false
	}
}
