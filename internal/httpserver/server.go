// internal/httpserver/server.go
//
// HTTP server wiring for the Wordle backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, access log, panic recovery,
//     timeouts, CORS, JSON content type, metrics).
//   - Public endpoints: "/", "/health", "/debug/words", "/metrics", "/leaderboard".
//   - Auth endpoints: /auth/signup, /auth/login, /auth/logout, /auth/me.
//   - Game endpoints (require auth): /wordle, /wordle/new, /wordle/guess,
//     /wordle/history, /stats/me.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Guess and auth routes are rate limited per client IP.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-rounds/internal/auth"
	"github.com/robalobadob/wordle-rounds/internal/game"
	"github.com/robalobadob/wordle-rounds/internal/metrics"
	"github.com/robalobadob/wordle-rounds/internal/store"
	"github.com/robalobadob/wordle-rounds/internal/users"
	"github.com/robalobadob/wordle-rounds/internal/words"
)

// Deps are the collaborators the handlers need.
type Deps struct {
	Engine  *game.Engine
	Games   store.GameStore
	Users   *users.Repo
	Corpus  *words.Corpus
	Tokens  *auth.Tokens
	Metrics *metrics.Metrics // nil disables /metrics
	Log     zerolog.Logger

	ClientOrigin   string
	RateLimit      int // per IP per minute; <= 0 disables
	RequestTimeout time.Duration
}

// Server bundles the router and its dependencies.
type Server struct {
	r *chi.Mux
	Deps
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 10 * time.Second
	}
	s := &Server{r: chi.NewRouter(), Deps: d}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger(d.Log))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(d.RequestTimeout))
	if d.Metrics != nil {
		s.r.Use(d.Metrics.Middleware)
	}
	s.r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{d.ClientOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- diagnostics ---
	s.r.Group(func(r chi.Router) {
		r.Use(jsonContentType)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service":   "wordle-rounds",
				"endpoints": []string{"/health", "GET /wordle", "POST /wordle/new", "POST /wordle/guess", "/auth/*"},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]int{"words": s.Corpus.Len()})
		})
		r.Get("/leaderboard", s.handleLeaderboard)
	})
	if d.Metrics != nil {
		s.r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	s.r.Group(func(r chi.Router) {
		r.Use(jsonContentType)
		s.mountAuthRoutes(r)
		s.mountWordle(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Handler is the root http.Handler.
func (s *Server) Handler() http.Handler { return s.r }

// limited wraps routes in the per-IP rate limiter when one is configured.
func (s *Server) limited(r chi.Router) chi.Router {
	if s.RateLimit <= 0 {
		return r
	}
	return r.With(httprate.LimitByIP(s.RateLimit, time.Minute))
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one access-log line per request.
func requestLogger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				ev := l.Info()
				if status >= http.StatusInternalServerError {
					ev = l.Error()
				}
				ev.Str("id", chimw.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", status).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
