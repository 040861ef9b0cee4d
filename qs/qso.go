package qs

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/marrow/uri/internal/errorutil"
	"github.com/marrow/uri/internal/grammar"
	"github.com/marrow/uri/internal/ioutil"
	"github.com/marrow/uri/internal/types"
	"github.com/marrow/uri/internal/util"
)

type groupKey struct {
	name  string
	named bool
}

// QSO is an ordered query string multi-map.
// It is not safe for concurrent mutation.
type QSO struct {
	buckets []*Bucket
	groups  map[groupKey][]*Bucket
	opts    Options
}

// New creates an empty query string.
func New(opts *Options) *QSO {
	return &QSO{
		groups: make(map[groupKey][]*Bucket),
		opts: Options{
			Assignment: opts.assignment(),
			Separator:  opts.separator(),
			Strict:     opts.strict(),
		},
	}
}

// Parse splits s on the separator and parses every token into a bucket.
// An empty string yields an empty query. Only strict mode can fail.
func Parse(s string, opts *Options) (*QSO, error) {
	q := New(opts)
	if s == "" {
		return q, nil
	}
	for tok := range strings.SplitSeq(s, q.opts.separator()) {
		if err := q.Append(tok); err != nil {
			return nil, errtrace.Wrap(err)
		}
	}
	return q, nil
}

// Options returns the options the query was created with.
func (q *QSO) Options() Options {
	if q == nil {
		return Options{Assignment: DefaultAssignment, Separator: DefaultSeparator}
	}
	return Options{
		Assignment: q.opts.assignment(),
		Separator:  q.opts.separator(),
		Strict:     q.opts.Strict,
	}
}

func (q *QSO) parse(token string) (*Bucket, error) {
	return errtrace.Wrap2(ParseBucket(token, q.opts.assignment(), q.opts.Strict))
}

func (q *QSO) pos(i int) (int, error) {
	n := q.Len()
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrNotFound, "index %d", i))
	}
	return i, nil
}

// link indexes the bucket at position i in its group at the position implied by bucket order.
func (q *QSO) link(i int) {
	b := q.buckets[i]
	k := b.key()
	n := 0
	for _, o := range q.buckets[:i] {
		if o.key() == k {
			n++
		}
	}
	if q.groups == nil {
		q.groups = make(map[groupKey][]*Bucket)
	}
	q.groups[k] = slices.Insert(q.groups[k], n, b)
}

func (q *QSO) unlink(b *Bucket) {
	k := b.key()
	g := q.groups[k]
	if j := slices.Index(g, b); j >= 0 {
		g = slices.Delete(g, j, j+1)
	}
	if len(g) == 0 {
		delete(q.groups, k)
		return
	}
	q.groups[k] = g
}

// rekey moves the bucket at position i to group k.
func (q *QSO) rekey(i int, k groupKey) {
	b := q.buckets[i]
	if b.key() == k {
		return
	}
	q.unlink(b)
	b.name, b.hasName = k.name, k.named
	q.link(i)
}

// revalue stores value in the bucket at position i.
// An invalid bucket becomes valid, its raw name is decoded.
func (q *QSO) revalue(i int, value string) {
	b := q.buckets[i]
	if !b.valid {
		q.rekey(i, groupKey{grammar.QueryUnescape(b.name), b.hasName})
	}
	b.value, b.valid = value, true
}

func (q *QSO) insertAt(i int, b *Bucket) {
	q.buckets = slices.Insert(q.buckets, i, b)
	q.link(i)
}

func (q *QSO) removeAt(i int) *Bucket {
	b := q.buckets[i]
	q.buckets = slices.Delete(q.buckets, i, i+1)
	q.unlink(b)
	return b
}

// Len returns the number of buckets.
func (q *QSO) Len() int {
	if q == nil {
		return 0
	}
	return len(q.buckets)
}

// At returns the bucket at position i. Negative positions count from the end.
func (q *QSO) At(i int) (*Bucket, error) {
	i, err := q.pos(i)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return q.buckets[i], nil
}

// Get returns the values of all buckets named name in order.
func (q *QSO) Get(name string) ([]string, error) {
	if q == nil {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrNotFound, "%q", name))
	}
	g, ok := q.groups[groupKey{name, true}]
	if !ok {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrNotFound, "%q", name))
	}
	vals := make([]string, len(g))
	for i, b := range g {
		vals[i] = b.value
	}
	return vals, nil
}

// First returns the value of the first bucket named name.
func (q *QSO) First(name string) (string, bool) {
	if q == nil {
		return "", false
	}
	if g := q.groups[groupKey{name, true}]; len(g) > 0 {
		return g[0].value, true
	}
	return "", false
}

// Last returns the value of the last bucket named name.
func (q *QSO) Last(name string) (string, bool) {
	if q == nil {
		return "", false
	}
	if g := q.groups[groupKey{name, true}]; len(g) > 0 {
		return g[len(g)-1].value, true
	}
	return "", false
}

// Bare returns the values of all buckets without a name.
func (q *QSO) Bare() []string {
	if q == nil {
		return nil
	}
	g := q.groups[groupKey{}]
	vals := make([]string, len(g))
	for i, b := range g {
		vals[i] = b.value
	}
	return vals
}

// Has reports whether a bucket named name exists.
func (q *QSO) Has(name string) bool {
	if q == nil {
		return false
	}
	_, ok := q.groups[groupKey{name, true}]
	return ok
}

// SetAt replaces the value of the bucket at position i keeping its name and position.
func (q *QSO) SetAt(i int, value string) error {
	i, err := q.pos(i)
	if err != nil {
		return errtrace.Wrap(err)
	}
	q.revalue(i, value)
	return nil
}

// ReplaceAt parses token and assigns it to the bucket at position i in place.
// The bucket is renamed when the token carries a name.
func (q *QSO) ReplaceAt(i int, token string) error {
	i, err := q.pos(i)
	if err != nil {
		return errtrace.Wrap(err)
	}
	nb, err := q.parse(token)
	if err != nil {
		return errtrace.Wrap(err)
	}

	b := q.buckets[i]
	k := b.key()
	switch {
	case nb.hasName:
		k = nb.key()
	case nb.valid && !b.valid:
		k.name = grammar.QueryUnescape(b.name)
	}
	q.rekey(i, k)
	b.value, b.valid = nb.value, nb.valid
	return nil
}

// Set assigns value to name.
// With no bucket named name a new one is appended. A single bucket is updated in place.
// Several buckets are all removed and a single new bucket is appended.
func (q *QSO) Set(name, value string) {
	q.set(groupKey{name, true}, value)
}

func (q *QSO) set(k groupKey, value string) {
	g := q.groups[k]
	switch len(g) {
	case 0:
	case 1:
		q.revalue(slices.Index(q.buckets, g[0]), value)
		return
	default:
		for _, b := range slices.Clone(g) {
			q.removeAt(slices.Index(q.buckets, b))
		}
	}
	q.insertAt(len(q.buckets), &Bucket{
		name:    k.name,
		hasName: k.named,
		value:   value,
		sep:     q.opts.assignment(),
		valid:   true,
	})
}

// DeleteAt removes the bucket at position i.
func (q *QSO) DeleteAt(i int) error {
	i, err := q.pos(i)
	if err != nil {
		return errtrace.Wrap(err)
	}
	q.removeAt(i)
	return nil
}

// Delete removes all buckets named name.
func (q *QSO) Delete(name string) error {
	g, ok := q.groups[groupKey{name, true}]
	if !ok {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrNotFound, "%q", name))
	}
	for _, b := range slices.Clone(g) {
		q.removeAt(slices.Index(q.buckets, b))
	}
	return nil
}

// Remove removes the given bucket instance.
func (q *QSO) Remove(b *Bucket) error {
	i := slices.Index(q.buckets, b)
	if i < 0 {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrNotFound, "bucket %q", b.String()))
	}
	q.removeAt(i)
	return nil
}

// Insert parses token and inserts it before position i.
// Negative positions count from the end; out of range positions are clamped.
func (q *QSO) Insert(i int, token string) error {
	b, err := q.parse(token)
	if err != nil {
		return errtrace.Wrap(err)
	}
	if i < 0 {
		i += len(q.buckets)
	}
	q.insertAt(min(max(i, 0), len(q.buckets)), b)
	return nil
}

// Append parses token and adds it to the end.
func (q *QSO) Append(token string) error {
	b, err := q.parse(token)
	if err != nil {
		return errtrace.Wrap(err)
	}
	q.insertAt(len(q.buckets), b)
	return nil
}

// AppendBucket adds a copy of b to the end.
func (q *QSO) AppendBucket(b *Bucket) {
	if b == nil {
		return
	}
	q.insertAt(len(q.buckets), q.adopt(b))
}

func (q *QSO) adopt(b *Bucket) *Bucket {
	b = b.Clone()
	if b.valid {
		b.sep = q.opts.assignment()
	}
	return b
}

// Extend appends every bucket of srcs in order.
//
// Supported sources are string (split on the separator), []string (one token per item),
// *Bucket, *QSO, map[string]string and map[string][]string (keys in sorted order).
func (q *QSO) Extend(srcs ...any) error {
	for _, src := range srcs {
		bs, err := q.collect(src)
		if err != nil {
			return errtrace.Wrap(err)
		}
		for _, b := range bs {
			q.insertAt(len(q.buckets), b)
		}
	}
	return nil
}

// Update sets every name of srcs like [QSO.Set], so it never adds duplicates.
// Bare tokens replace the bare values the same way. Sources are the same as for [QSO.Extend].
func (q *QSO) Update(srcs ...any) error {
	for _, src := range srcs {
		bs, err := q.collect(src)
		if err != nil {
			return errtrace.Wrap(err)
		}
		for _, b := range bs {
			q.set(b.key(), b.value)
		}
	}
	return nil
}

func (q *QSO) collect(src any) ([]*Bucket, error) {
	var bs []*Bucket
	switch v := src.(type) {
	case nil:
	case string:
		toks := []string{v}
		if sep := q.opts.separator(); strings.Contains(v, sep) {
			toks = strings.Split(v, sep)
		}
		for _, tok := range toks {
			b, err := q.parse(tok)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			bs = append(bs, b)
		}
	case []string:
		for _, tok := range v {
			b, err := q.parse(tok)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			bs = append(bs, b)
		}
	case *Bucket:
		if v != nil {
			bs = append(bs, q.adopt(v))
		}
	case *QSO:
		for _, b := range v.items() {
			bs = append(bs, q.adopt(b))
		}
	case map[string]string:
		for _, k := range slices.Sorted(maps.Keys(v)) {
			bs = append(bs, &Bucket{name: k, hasName: true, value: v[k], sep: q.opts.assignment(), valid: true})
		}
	case map[string][]string:
		for _, k := range slices.Sorted(maps.Keys(v)) {
			for _, val := range v[k] {
				bs = append(bs, &Bucket{name: k, hasName: true, value: val, sep: q.opts.assignment(), valid: true})
			}
		}
	default:
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidArgument, "unsupported query source %T", src))
	}
	return bs, nil
}

func (q *QSO) items() []*Bucket {
	if q == nil {
		return nil
	}
	return q.buckets
}

// Pop removes and returns the last bucket.
func (q *QSO) Pop() (*Bucket, error) {
	return errtrace.Wrap2(q.PopAt(-1))
}

// PopAt removes and returns the bucket at position i.
func (q *QSO) PopAt(i int) (*Bucket, error) {
	i, err := q.pos(i)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return q.removeAt(i), nil
}

// PopName removes the last bucket named name and returns its value.
func (q *QSO) PopName(name string) (string, error) {
	g := q.groups[groupKey{name, true}]
	if len(g) == 0 {
		return "", errtrace.Wrap(errorutil.NewWrapperError(ErrNotFound, "%q", name))
	}
	b := g[len(g)-1]
	q.removeAt(slices.Index(q.buckets, b))
	return b.value, nil
}

// Reverse reverses the buckets in place together with every name group.
func (q *QSO) Reverse() {
	slices.Reverse(q.buckets)
	for _, g := range q.groups {
		slices.Reverse(g)
	}
}

// Index returns the position of the first bucket rendering like token.
func (q *QSO) Index(token string) (int, error) {
	b, err := q.parse(token)
	if err != nil {
		return -1, errtrace.Wrap(err)
	}
	want := b.String()
	for i, o := range q.items() {
		if o.String() == want {
			return i, nil
		}
	}
	return -1, errtrace.Wrap(errorutil.NewWrapperError(ErrNotFound, "%q", token))
}

// Count returns the number of buckets named s.
// When no bucket is named s it counts the bare buckets rendering like the token s.
func (q *QSO) Count(s string) int {
	if q.Len() == 0 {
		return 0
	}
	if g, ok := q.groups[groupKey{s, true}]; ok {
		return len(g)
	}
	b, err := q.parse(s)
	if err != nil {
		return 0
	}
	want, n := b.String(), 0
	for _, o := range q.groups[groupKey{}] {
		if o.String() == want {
			n++
		}
	}
	return n
}

// Clear removes all buckets.
func (q *QSO) Clear() {
	q.buckets = q.buckets[:0]
	clear(q.groups)
}

// Clone returns a deep copy of the query.
func (q *QSO) Clone() *QSO {
	if q == nil {
		return nil
	}
	q2 := &QSO{
		buckets: make([]*Bucket, 0, len(q.buckets)),
		groups:  make(map[groupKey][]*Bucket, len(q.groups)),
		opts:    q.opts,
	}
	for _, b := range q.buckets {
		q2.buckets = append(q2.buckets, b.Clone())
		q2.link(len(q2.buckets) - 1)
	}
	return q2
}

// All iterates over positions and buckets.
func (q *QSO) All() iter.Seq2[int, *Bucket] {
	return slices.All(q.items())
}

// Keys iterates over bucket names in order, repeating names and yielding "" for bare buckets.
func (q *QSO) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, b := range q.items() {
			if !yield(b.name) {
				return
			}
		}
	}
}

// Values iterates over bucket values in order.
func (q *QSO) Values() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, b := range q.items() {
			if !yield(b.value) {
				return
			}
		}
	}
}

// Names returns the distinct bucket names in order of first appearance.
func (q *QSO) Names() []string {
	var names []string
	for _, b := range q.items() {
		if b.hasName && !slices.Contains(names, b.name) {
			names = append(names, b.name)
		}
	}
	return names
}

// IsZero reports whether the query has no buckets.
func (q *QSO) IsZero() bool { return q.Len() == 0 }

// RenderTo writes the buckets joined with the separator.
func (q *QSO) RenderTo(w io.Writer, opts *types.RenderOptions) (num int, err error) {
	if q == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)

	sep := q.opts.separator()
	for i, b := range q.buckets {
		if i > 0 {
			cw.WriteString(sep) //nolint:errcheck
		}
		cw.Call(func(w io.Writer) (int, error) { return errtrace.Wrap2(b.RenderTo(w, opts)) })
	}
	return errtrace.Wrap2(cw.Result())
}

// Render returns the query string.
func (q *QSO) Render(opts *types.RenderOptions) string {
	if q == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	q.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

func (q *QSO) String() string { return q.Render(nil) }

// Format implements [fmt.Formatter].
func (q *QSO) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			q.RenderTo(f, nil) //nolint:errcheck
			return
		}
		fmt.Fprint(f, q.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(q.String()))
		return
	default:
		type hideMethods QSO
		type QSO hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*QSO)(q))
		return
	}
}

// Equal reports whether val renders to the same query string.
// val may be a *QSO, QSO or string. Differently ordered queries are not equal.
func (q *QSO) Equal(val any) bool {
	switch v := val.(type) {
	case *QSO:
		return q.String() == v.String()
	case QSO:
		return q.String() == v.String()
	case string:
		return q.String() == v
	default:
		return false
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (q *QSO) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// The receiver options are kept.
func (q *QSO) UnmarshalText(text []byte) error {
	q2, err := Parse(string(text), &q.opts)
	if err != nil {
		return errtrace.Wrap(err)
	}
	*q = *q2
	return nil
}
