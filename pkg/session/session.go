// Package session holds the per-session application state that the
// original view layer kept in ambient globals: the normalized record
// list, the filter state, and the set of course cards the user has
// expanded. The open-card set belongs to the view; refresh cycles pass
// it through untouched.
package session

import (
	"context"
	"sort"
	"sync"

	"github.com/syllascope/syllascope/pkg/course"
	"github.com/syllascope/syllascope/pkg/dataset"
	"github.com/syllascope/syllascope/pkg/filtersort"
	"github.com/syllascope/syllascope/pkg/refresher"
)

// Snapshot is what the view renders on every state change.
type Snapshot struct {
	Courses   []course.Course `json:"courses"`
	Total     int             `json:"total"`
	FromCache bool            `json:"served_from_cache"`
}

// Stats are simple per-semester and per-course-type counts.
type Stats struct {
	Total      int            `json:"total"`
	BySemester map[string]int `json:"by_semester"`
	ByType     map[string]int `json:"by_type"`
}

type Session struct {
	mu        sync.RWMutex
	loader    *dataset.Loader
	records   []course.Course
	fromCache bool
	filters   filtersort.State
	openCards map[string]bool
}

func New(loader *dataset.Loader) *Session {
	return &Session{
		loader:    loader,
		filters:   filtersort.DefaultState(),
		openCards: make(map[string]bool),
	}
}

// Refresh (re)loads the dataset; forceNetwork busts the cache. This is
// the explicit user-triggered retry path, so errors are returned rather
// than swallowed. Filter and open-card state survive unchanged.
func (s *Session) Refresh(ctx context.Context, forceNetwork bool) error {
	res, err := s.loader.Load(ctx, forceNetwork)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.records = res.Courses
	s.fromCache = res.FromCache
	s.mu.Unlock()
	return nil
}

// ApplyUpdate ingests a background-refresher update. Only the record
// list changes; user interaction state is preserved.
func (s *Session) ApplyUpdate(u refresher.Update) {
	s.mu.Lock()
	s.records = u.Courses
	s.fromCache = false
	s.mu.Unlock()
}

// Snapshot derives the visible list from the current records and filter
// state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Courses:   filtersort.Apply(s.records, s.filters),
		Total:     len(s.records),
		FromCache: s.fromCache,
	}
}

func (s *Session) Filters() filtersort.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

func (s *Session) SetFilters(st filtersort.State) {
	s.mu.Lock()
	s.filters = st
	s.mu.Unlock()
}

func (s *Session) ResetFilters() {
	s.mu.Lock()
	s.filters.Reset()
	s.mu.Unlock()
}

// SetCardOpen records whether the detail card for a course code is
// expanded.
func (s *Session) SetCardOpen(code string, open bool) {
	s.mu.Lock()
	if open {
		s.openCards[code] = true
	} else {
		delete(s.openCards, code)
	}
	s.mu.Unlock()
}

// OpenCards returns the expanded course codes, sorted for determinism.
func (s *Session) OpenCards() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.openCards))
	for code := range s.openCards {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Stats summarizes the full (unfiltered) record list.
func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{
		Total:      len(s.records),
		BySemester: make(map[string]int),
		ByType:     make(map[string]int),
	}
	for _, c := range s.records {
		st.BySemester[c.Semester]++
		if c.CourseType != "" {
			st.ByType[c.CourseType]++
		}
	}
	return st
}
