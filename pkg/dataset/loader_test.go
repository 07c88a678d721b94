package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/syllascope/syllascope/pkg/cache"
)

func newTestLoader(t *testing.T, url string) (*Loader, *cache.Store) {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	l := New(store, url, nil)
	l.Client.RetryMax = 0
	return l, store
}

func datasetServer(t *testing.T, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if r.Header.Get("Cache-Control") != "no-cache" {
			t.Errorf("fetch must send Cache-Control: no-cache, got %q", r.Header.Get("Cache-Control"))
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadNetworkThenCache(t *testing.T) {
	var hits int32
	srv := datasetServer(t, `{"courses":[{"course_code":"CS1"}]}`, &hits)
	l, _ := newTestLoader(t, srv.URL)
	ctx := context.Background()

	first, err := l.Load(ctx, false)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.FromCache {
		t.Fatal("first load with empty cache must be network-served")
	}

	second, err := l.Load(ctx, false)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !second.FromCache {
		t.Fatal("second load must be cache-served")
	}
	if second.Raw != first.Raw {
		t.Fatal("cache-served dataset must be bit-identical to the fetched one")
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected exactly 1 network fetch, got %d", got)
	}
}

func TestLoadBustCache(t *testing.T) {
	var hits int32
	srv := datasetServer(t, `{"courses":[]}`, &hits)
	l, _ := newTestLoader(t, srv.URL)
	ctx := context.Background()

	if _, err := l.Load(ctx, false); err != nil {
		t.Fatalf("load: %v", err)
	}
	res, err := l.Load(ctx, true)
	if err != nil {
		t.Fatalf("busted load: %v", err)
	}
	if res.FromCache {
		t.Fatal("bustCache load must never be cache-served")
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Fatalf("expected 2 network fetches, got %d", got)
	}
}

func TestVersionBumpForcesRefresh(t *testing.T) {
	var hits int32
	srv := datasetServer(t, `{"courses":[]}`, &hits)
	l, store := newTestLoader(t, srv.URL)
	ctx := context.Background()

	// Cached dataset written by an older build.
	if err := store.Put(ctx, `{"courses":[{"course_code":"OLD"}]}`, "stale-version", "h"); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	res, err := l.Load(ctx, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.FromCache {
		t.Fatal("version mismatch must force a network fetch")
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatal("expected network fetch on version mismatch")
	}

	rec, err := store.Get(ctx)
	if err != nil || rec == nil {
		t.Fatalf("store after load: rec=%v err=%v", rec, err)
	}
	if rec.VersionTag != l.Version {
		t.Fatalf("stored version not upgraded: %q", rec.VersionTag)
	}
}

func TestCorruptCacheFallsThroughToNetwork(t *testing.T) {
	srv := datasetServer(t, `{"courses":[{"course_code":"FRESH"}]}`, nil)
	l, store := newTestLoader(t, srv.URL)
	ctx := context.Background()

	if err := store.Put(ctx, `{not json`, l.Version, "h"); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	res, err := l.Load(ctx, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.FromCache {
		t.Fatal("unparseable cache must fall through to network")
	}
	if len(res.Courses) != 1 || res.Courses[0].Code != "FRESH" {
		t.Fatalf("unexpected courses: %+v", res.Courses)
	}
}

func TestFetchErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`<html><head><title>Portal maintenance</title></head></html>`))
	}))
	t.Cleanup(srv.Close)
	l, _ := newTestLoader(t, srv.URL)

	_, err := l.Load(context.Background(), false)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", fe.StatusCode)
	}
	if fe.Title != "Portal maintenance" {
		t.Fatalf("error page title = %q", fe.Title)
	}
}

func TestParseErrorOnBadBody(t *testing.T) {
	srv := datasetServer(t, `not json at all`, nil)
	l, store := newTestLoader(t, srv.URL)

	_, err := l.Load(context.Background(), false)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Source != "network" {
		t.Fatalf("parse error source = %q", pe.Source)
	}

	// A failed fetch must not clobber the (empty) cache.
	rec, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Fatalf("cache written on parse failure: %+v", rec)
	}
}
