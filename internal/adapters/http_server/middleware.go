package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"tripmarket/internal/adapters/observability"
)

func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return http.TimeoutHandler(next, d, "timeout") }
}

// Instrument records metrics and an access-log line per request in one
// pass. Runs after chi's RealIP, so RemoteAddr already holds the client
// address.
func Instrument(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			elapsed := time.Since(start)
			observability.ObserveHTTP(route, r.Method, ww.Status(), elapsed)
			l.Info().
				Str("route", route).
				Str("method", r.Method).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", elapsed).
				Str("remote", r.RemoteAddr).
				Msg("http_request")
		})
	}
}
