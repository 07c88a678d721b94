package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/syllascope/syllascope/pkg/cache"
	"github.com/syllascope/syllascope/pkg/course"
	"github.com/syllascope/syllascope/pkg/dataset"
	"github.com/syllascope/syllascope/pkg/refresher"
	"github.com/tidwall/gjson"
)

func newTestSession(t *testing.T, body string) *Session {
	t.Helper()
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	loader := dataset.New(store, srv.URL, nil)
	loader.Client.RetryMax = 0
	return New(loader)
}

func TestRefreshPopulatesSnapshot(t *testing.T) {
	s := newTestSession(t, `{"courses":[{"course_code":"CS2","semester":"S3"},{"course_code":"CS1","semester":"S1"}]}`)
	if err := s.Refresh(context.Background(), false); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	snap := s.Snapshot()
	if snap.Total != 2 || len(snap.Courses) != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.FromCache {
		t.Fatal("first load must be network-served")
	}
	if snap.Courses[0].Code != "CS1" {
		t.Fatalf("default sort should order CS1 first, got %v", snap.Courses[0].Code)
	}

	// A second refresh without force comes from the cache.
	if err := s.Refresh(context.Background(), false); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !s.Snapshot().FromCache {
		t.Fatal("second load must be cache-served")
	}
}

func TestApplyUpdatePreservesInteractionState(t *testing.T) {
	s := newTestSession(t, `{"courses":[{"course_code":"CS1","semester":"S1"}]}`)
	if err := s.Refresh(context.Background(), false); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// The user expands a card and narrows the filters.
	s.SetCardOpen("CS1", true)
	st := s.Filters()
	st.Semester = "S1"
	s.SetFilters(st)

	fresh := []course.Course{
		course.Normalize(gjson.Parse(`{"course_code":"CS1","semester":"S1","credits":4}`)),
		course.Normalize(gjson.Parse(`{"course_code":"CS9","semester":"S5"}`)),
	}
	s.ApplyUpdate(refresher.Update{Courses: fresh, Raw: "{}", Hash: "1"})

	open := s.OpenCards()
	if len(open) != 1 || open[0] != "CS1" {
		t.Fatalf("open cards lost across update: %v", open)
	}
	if s.Filters().Semester != "S1" {
		t.Fatal("filters lost across update")
	}
	snap := s.Snapshot()
	if snap.Total != 2 || len(snap.Courses) != 1 || snap.Courses[0].Code != "CS1" {
		t.Fatalf("snapshot after update = %+v", snap)
	}
}

func TestResetFilters(t *testing.T) {
	s := newTestSession(t, `{"courses":[]}`)
	st := s.Filters()
	st.Search = "graph"
	st.Semester = "S3"
	s.SetFilters(st)
	s.ResetFilters()
	if got := s.Filters(); got.Search != "" || got.Semester != "" {
		t.Fatalf("filters not reset: %+v", got)
	}
}

func TestStats(t *testing.T) {
	s := newTestSession(t, `{"courses":[
		{"course_code":"CS1","semester":"S1","course_type":"PCC"},
		{"course_code":"CS2","semester":"S1","course_type":"PCC"},
		{"course_code":"HU1","semester":"S2"}
	]}`)
	if err := s.Refresh(context.Background(), false); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	st := s.Stats()
	if st.Total != 3 || st.BySemester["S1"] != 2 || st.BySemester["S2"] != 1 || st.ByType["PCC"] != 2 {
		t.Fatalf("stats = %+v", st)
	}
}
