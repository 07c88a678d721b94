// Package filtersort derives the visible, ordered subset of the catalog
// from the full normalized record list and the current filter state.
// Apply is pure: it never mutates its inputs.
package filtersort

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/syllascope/syllascope/pkg/course"
)

// SortKey selects the sort comparator.
type SortKey string

const (
	SortByCode     SortKey = "code"
	SortByTitle    SortKey = "title"
	SortBySemester SortKey = "semester"
	SortByCredits  SortKey = "credits"
)

// Direction of the final ordering.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// State is the user-controlled filter and sort selection. Empty filter
// fields are skipped.
type State struct {
	Semester     string    `json:"semester"`
	Credits      string    `json:"credits"`
	Search       string    `json:"search"`
	ModuleSearch string    `json:"module_search"`
	SortBy       SortKey   `json:"sort_by"`
	SortDir      Direction `json:"sort_dir"`
}

// DefaultState is the startup state: no filters, code ascending.
func DefaultState() State {
	return State{SortBy: SortByCode, SortDir: Ascending}
}

// Reset restores the defaults (explicit clear).
func (s *State) Reset() {
	*s = DefaultState()
}

// Apply filters records (all predicates AND-combined), sorts by the
// selected key, and reverses the result for descending order. The
// reverse is applied to a stable sort, so equal elements come out in
// inverted input order, still adjacent.
func Apply(records []course.Course, st State) []course.Course {
	semester := strings.TrimSpace(st.Semester)
	search := strings.ToLower(strings.TrimSpace(st.Search))
	moduleSearch := strings.ToLower(strings.TrimSpace(st.ModuleSearch))

	creditsRaw := strings.TrimSpace(st.Credits)
	var creditsWant float64
	creditsSet := creditsRaw != ""
	creditsValid := false
	if creditsSet {
		if f, err := strconv.ParseFloat(creditsRaw, 64); err == nil {
			creditsWant = f
			creditsValid = true
		}
	}

	out := make([]course.Course, 0, len(records))
	for _, rec := range records {
		if semester != "" && rec.Semester != semester {
			continue
		}
		if creditsSet {
			// A non-numeric credits filter matches nothing.
			if !creditsValid || rec.Credits != creditsWant {
				continue
			}
		}
		if search != "" && !strings.Contains(rec.SearchableText, search) {
			continue
		}
		if moduleSearch != "" && !strings.Contains(rec.ModuleSearchText, moduleSearch) {
			continue
		}
		out = append(out, rec)
	}

	sortCourses(out, st.SortBy)
	if st.SortDir == Descending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// sortCourses orders ascending by key. String keys use a locale-aware,
// case-insensitive, numeric-aware comparison so "CS10" sorts after
// "CS2". Unknown keys fall back to code.
func sortCourses(out []course.Course, key SortKey) {
	if key == SortByCredits {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Credits < out[j].Credits
		})
		return
	}

	field := func(c course.Course) string { return c.Code }
	switch key {
	case SortByTitle:
		field = func(c course.Course) string { return c.Title }
	case SortBySemester:
		field = func(c course.Course) string { return c.Semester }
	}

	coll := collate.New(language.English, collate.IgnoreCase, collate.Numeric)
	sort.SliceStable(out, func(i, j int) bool {
		return coll.CompareString(field(out[i]), field(out[j])) < 0
	})
}
