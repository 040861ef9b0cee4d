package syncutil_test

import (
	"sync"
	"testing"

	"github.com/marrow/uri/internal/syncutil"
)

func TestRWMap_GetOrSet(t *testing.T) {
	t.Parallel()

	var m syncutil.RWMap[string, int]

	if v, loaded := m.GetOrSet("http", 1); loaded || v != 1 {
		t.Errorf("m.GetOrSet(\"http\", 1) = (%d, %v), want (1, false)", v, loaded)
	}
	if v, loaded := m.GetOrSet("http", 2); !loaded || v != 1 {
		t.Errorf("m.GetOrSet(\"http\", 2) = (%d, %v), want (1, true)", v, loaded)
	}
	if v, ok := m.Get("http"); !ok || v != 1 {
		t.Errorf("m.Get(\"http\") = (%d, %v), want (1, true)", v, ok)
	}
	if !m.Has("http") || m.Has("ftp") {
		t.Errorf("m.Has() reports wrong membership")
	}
	if m.Len() != 1 {
		t.Errorf("m.Len() = %d, want 1", m.Len())
	}
}

func TestRWMap_Nil(t *testing.T) {
	t.Parallel()

	var m *syncutil.RWMap[string, int]
	if _, ok := m.Get("x"); ok {
		t.Errorf("nil map Get reported presence")
	}
	if m.Len() != 0 || m.Has("x") {
		t.Errorf("nil map is not empty")
	}
	for range m.All() {
		t.Errorf("nil map yielded a value")
	}
}

func TestRWMap_Concurrent(t *testing.T) {
	t.Parallel()

	var (
		m  syncutil.RWMap[string, *int]
		wg sync.WaitGroup
	)

	results := make([]*int, 64)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := i
			results[i], _ = m.GetOrSet("k", &v)
		}()
	}
	wg.Wait()

	for i, p := range results {
		if p != results[0] {
			t.Fatalf("results[%d] = %p, want %p", i, p, results[0])
		}
	}

	n := 0
	for k := range m.All() {
		if k != "k" {
			t.Errorf("unexpected key %q", k)
		}
		n++
	}
	if n != 1 {
		t.Errorf("m.All() yielded %d entries, want 1", n)
	}
}
