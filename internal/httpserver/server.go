// internal/httpserver/server.go
//
// HTTP server wiring for the Konnections backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     request-scoped logger, JSON, CORS).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Puzzle endpoints (rate limited): GET /puzzle, HEAD /puzzle.
//
// Notes:
//   - The handler timeout must outlive the source timeout so a slow
//     generation still reaches the fallback path instead of a 504.
//   - CORS is single-origin (CLIENT_ORIGIN).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/konnections/internal/provider"
	"github.com/robalobadob/konnections/internal/store"
)

// Options carries the server's collaborators and settings.
type Options struct {
	Provider *provider.Provider
	Store    store.Store
	// Location decides which calendar day "today" is. Nil means UTC.
	Location       *time.Location
	ClientOrigin   string
	HandlerTimeout time.Duration
	// RateRPS <= 0 disables per-IP limiting.
	RateRPS   float64
	RateBurst int
	// Gatherer backs /metrics. Nil hides the endpoint.
	Gatherer prometheus.Gatherer
	Now      func() time.Time
}

// Server bundles router and dependencies.
type Server struct {
	r   *chi.Mux
	opt Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(opt Options) *Server {
	if opt.Location == nil {
		opt.Location = time.UTC
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.HandlerTimeout <= 0 {
		opt.HandlerTimeout = 90 * time.Second
	}
	if opt.ClientOrigin == "" {
		opt.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{r: chi.NewRouter(), opt: opt}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                   // add X-Request-ID
	s.r.Use(chimw.RealIP)                      // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                     // zerolog logger in the request context
	s.r.Use(chimw.Recoverer)                   // recover from panics
	s.r.Use(chimw.Timeout(opt.HandlerTimeout)) // bound handler time
	s.r.Use(jsonContentType)                   // default JSON responses
	s.r.Use(cors(opt.ClientOrigin))            // single-origin CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"konnections","endpoints":["/health","/metrics","GET /puzzle","HEAD /puzzle"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	if opt.Gatherer != nil {
		s.r.Handle("/metrics", promhttp.HandlerFor(opt.Gatherer, promhttp.HandlerOpts{}))
	}

	// Puzzle endpoints
	s.r.Group(func(r chi.Router) {
		if opt.RateRPS > 0 {
			r.Use(newIPLimiter(opt.RateRPS, opt.RateBurst).middleware)
		}
		s.mountPuzzle(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Run serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// requestLogger stores a logger tagged with the request id in the context,
// so log.Ctx(ctx) in deeper layers carries it.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := log.With().
			Str("request_id", chimw.GetReqID(ctx)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(logger.WithContext(ctx)))
		logger.Debug().
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// writeError writes {"error": code} with status.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeJSON writes v as a JSON body with status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// cors allows a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,HEAD,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
