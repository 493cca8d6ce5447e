package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct{ mux *chi.Mux }

func New() *Server {
	m := chi.NewRouter()

	// Middlewares before any routes. The websocket route opts out of the
	// timeout wrapper below.
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Instrument(log.Logger))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g. /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}

// WithTimeout wraps a group of routes with the per-request budget.
func (s *Server) WithTimeout(d time.Duration, register func(r chi.Router)) {
	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(d))
		register(r)
	})
}
