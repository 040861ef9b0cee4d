package ioutil_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"braces.dev/errtrace"

	"github.com/marrow/uri/internal/ioutil"
)

type errorWriter struct {
	failAfter int
	written   int
}

func (ew *errorWriter) Write(p []byte) (n int, err error) {
	if ew.written >= ew.failAfter {
		return 0, errtrace.Wrap(errors.New("write failed"))
	}
	n = len(p)
	if ew.written+n > ew.failAfter {
		n = ew.failAfter - ew.written
	}
	ew.written += n
	if n < len(p) {
		return n, errtrace.Wrap(errors.New("write failed"))
	}
	return n, nil
}

func TestCountingWriter_Write(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	cw := ioutil.NewCountingWriter(buf)

	n, err := cw.Write([]byte("http:"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5 bytes written, got %d", n)
	}

	n, err = cw.WriteString("//example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 13 {
		t.Errorf("expected 13 bytes written, got %d", n)
	}
	if cw.Count() != 18 {
		t.Errorf("expected count 18, got %d", cw.Count())
	}
	if buf.String() != "http://example.com" {
		t.Errorf("expected 'http://example.com', got %q", buf.String())
	}
}

func TestCountingWriter_Affix(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	cw := ioutil.NewCountingWriter(buf)

	cw.Affix("?", "", "").Affix("?", "a=1", "").Affix("#", "", "").Affix(":", "user", "@")
	num, err := cw.Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "?a=1:user@"; buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
	if num != 10 {
		t.Errorf("expected 10 bytes written, got %d", num)
	}
}

func TestCountingWriter_ErrorPropagation(t *testing.T) {
	t.Parallel()

	ew := &errorWriter{failAfter: 5}
	cw := ioutil.NewCountingWriter(ew)

	if _, err := cw.WriteString("hello"); err != nil {
		t.Fatalf("unexpected error on first write: %v", err)
	}

	n, err := cw.WriteString(" world")
	if err == nil {
		t.Fatal("expected error on second write")
	}
	if n != 0 {
		t.Errorf("expected 0 bytes written on error, got %d", n)
	}

	if _, err = cw.Write([]byte("test")); err == nil {
		t.Fatal("expected cached error")
	}
	if cw.Count() != 5 {
		t.Errorf("expected count 5, got %d", cw.Count())
	}
}

func TestCountingWriter_CallErrorStopsChain(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	cw := ioutil.GetCountingWriter(buf)
	defer ioutil.FreeCountingWriter(cw)

	render1 := func(w io.Writer) (int, error) {
		return errtrace.Wrap2(io.WriteString(w, "a"))
	}
	renderErr := func(io.Writer) (int, error) {
		return 0, errtrace.Wrap(errors.New("render error"))
	}
	render2 := func(w io.Writer) (int, error) {
		return errtrace.Wrap2(io.WriteString(w, "b"))
	}

	cw.Call(render1).Call(renderErr).Call(render2)
	num, err := cw.Result()
	if err == nil {
		t.Fatal("expected error from chain")
	}
	if num != 1 {
		t.Errorf("expected 1 byte written before error, got %d", num)
	}
	if buf.String() != "a" {
		t.Errorf("expected 'a', got %q", buf.String())
	}
}
