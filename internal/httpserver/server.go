// internal/httpserver/server.go
//
// HTTP transport adapter for the game engine.
// Responsibilities:
//   - Router + middleware (JSON, CORS, rate limit, timeouts, panic
//     recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Game endpoints (optional auth): mode switches, guesses, selections,
//     history.
//   - Auth + stats endpoints: /auth/*, /stats/me.
//
// The adapter renders engine outcomes as JSON and maps engine error kinds
// to HTTP statuses; all game rules live in the engine packages.

package httpserver

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/afdhfjfkcm/spotle-football-bot/internal/config"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/engine"
)

// Server bundles router, engine, config, and DB handle (for user rows).
type Server struct {
	r      *chi.Mux
	engine *engine.Engine
	db     *sql.DB
	cfg    *config.Config
}

// New constructs a Server, installs middleware, and registers routes.
func New(eng *engine.Engine, db *sql.DB, cfg *config.Config) *Server {
	s := &Server{r: chi.NewRouter(), engine: eng, db: db, cfg: cfg}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler)
	if cfg.RateLimitRequests > 0 {
		s.r.Use(rateLimit(cfg.RateLimitRequests, time.Duration(cfg.RateLimitWindowSecs)*time.Second))
	}

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"spotle-bot","endpoints":["/health","POST /game/daily","POST /game/guess","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Handle("/metrics", promhttp.Handler())

	// Game endpoints (optional auth: guests play under an anon cookie)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/daily", s.handleStartDaily)
		r.Post("/game/random", s.handleStartRandom)
		r.Post("/game/challenge/{code}", s.handleStartChallenge)
		r.Post("/game/guess", s.handleGuess)
		r.Post("/game/select", s.handleSelect)
		r.Get("/game/history", s.handleHistory)
		r.Post("/challenge", s.handleCreateChallenge)
	})

	// Auth + stats (require auth where noted)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}
