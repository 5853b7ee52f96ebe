package badgerstore

import (
	"bytes"
	"io/ioutil"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)

	s, err := Open(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("cannot open store: %+v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBadgerStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)

	k, v := []byte("escrow:abc"), []byte("payload")
	if s.Get(k) != nil {
		t.Fatal("expected miss on a fresh database")
	}
	s.Set(k, v)
	if !bytes.Equal(v, s.Get(k)) {
		t.Fatal("stored value not returned")
	}
	if !s.Has(k) {
		t.Fatal("expected Has to report the key")
	}
	s.Delete(k)
	if s.Get(k) != nil {
		t.Fatal("value not deleted")
	}
}

func TestBadgerStoreCacheWrap(t *testing.T) {
	s := newTestStore(t)

	cache := s.CacheWrap()
	cache.Set([]byte("a"), []byte("1"))
	cache.Set([]byte("b"), []byte("2"))

	if s.Get([]byte("a")) != nil {
		t.Fatal("cache write leaked before commit")
	}
	if err := cache.Write(); err != nil {
		t.Fatalf("cannot write cache: %+v", err)
	}
	if !bytes.Equal([]byte("1"), s.Get([]byte("a"))) {
		t.Fatal("cache write was not applied")
	}

	// a discarded wrap leaves no trace
	cache = s.CacheWrap()
	cache.Delete([]byte("a"))
	cache.Discard()
	if s.Get([]byte("a")) == nil {
		t.Fatal("discarded delete was applied")
	}
}

func TestBadgerStoreVersioning(t *testing.T) {
	s := newTestStore(t)

	if v := s.LatestVersion().Version; v != 0 {
		t.Fatalf("fresh database must be version 0, got %d", v)
	}
	id, err := s.Commit()
	if err != nil {
		t.Fatalf("cannot commit: %+v", err)
	}
	if id.Version != 1 {
		t.Fatalf("want version 1, got %d", id.Version)
	}
	if v := s.LatestVersion().Version; v != 1 {
		t.Fatalf("want persisted version 1, got %d", v)
	}
}

func TestBadgerStoreIterator(t *testing.T) {
	s := newTestStore(t)
	s.Set([]byte("a"), []byte("1"))
	s.Set([]byte("b"), []byte("2"))
	s.Set([]byte("c"), []byte("3"))

	var keys []string
	it := s.Iterator([]byte("a"), []byte("c"))
	defer it.Close()
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}
