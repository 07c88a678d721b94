package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/syllascope/syllascope/pkg/dataset"
	"github.com/syllascope/syllascope/pkg/filtersort"
)

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("clear") == "true" {
		s.Session.ResetFilters()
	}

	st := s.Session.Filters()
	if q.Has("semester") {
		st.Semester = q.Get("semester")
	}
	if q.Has("credits") {
		st.Credits = q.Get("credits")
	}
	if q.Has("q") {
		st.Search = q.Get("q")
	}
	if q.Has("module_q") {
		st.ModuleSearch = q.Get("module_q")
	}
	if v := q.Get("sort"); v != "" {
		st.SortBy = filtersort.SortKey(v)
	}
	if v := q.Get("dir"); v == string(filtersort.Descending) {
		st.SortDir = filtersort.Descending
	} else if v == string(filtersort.Ascending) {
		st.SortDir = filtersort.Ascending
	}
	s.Session.SetFilters(st)

	writeJSON(w, http.StatusOK, s.Session.Snapshot())
}

// handleRefresh is the explicit user-triggered retry path: unlike the
// background refresher, its failures are reported.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	if err := s.Session.Refresh(r.Context(), force); err != nil {
		status := http.StatusInternalServerError
		var fe *dataset.FetchError
		if errors.As(err, &fe) {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.Session.Snapshot())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Session.Stats())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
