package server

import (
	"net/http"

	"github.com/syllascope/syllascope/internal/utils"
	"github.com/syllascope/syllascope/pkg/session"
)

// Server exposes the catalog pipeline to a view over JSON. Basic auth
// is a transport guard only; leave both credentials empty to disable it.
type Server struct {
	Session  *session.Session
	Username string
	Password string
}

func New(sess *session.Session, user, pass string) *Server {
	return &Server{
		Session:  sess,
		Username: user,
		Password: pass,
	}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/courses", s.basicAuth(s.handleCourses))
	mux.HandleFunc("POST /api/refresh", s.basicAuth(s.handleRefresh))
	mux.HandleFunc("GET /api/stats", s.basicAuth(s.handleStats))

	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
