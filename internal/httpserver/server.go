// internal/httpserver/server.go
//
// HTTP server wiring for the hangman backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/catalog".
//   - Round endpoints (optional auth): /game/* for human and AI rounds, including
//     the websocket AI watch stream.
//   - Daily word endpoints (optional auth): mounted under /daily.
//   - Auth + profile/history endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - CORS is origin‑aware and credentials‑enabled (so cookies work).
//   - A nil *sql.DB disables persistence: rounds still work, auth answers 503.
//   - Start runs a sweep that evicts rounds older than cfg.RoundTTL.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/solver"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

// Server bundles router, live-round store, word catalog and DB handle.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	store    store.Store
	catalog  *words.List
	db       *sql.DB
	daily    *daily.Store
	dailies  *dailyServer
	upgrader websocket.Upgrader
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
// db may be nil.
func New(cfg config.Config, st store.Store, catalog *words.List, db *sql.DB) *Server {
	s := &Server{r: chi.NewRouter(), cfg: cfg, store: st, catalog: catalog, db: db, now: time.Now}
	if db != nil {
		s.daily = daily.NewStore(db)
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger)) // request-scoped zerolog logger
	s.r.Use(accessLog)                   // one line per request
	s.r.Use(chimw.Recoverer)             // recover from panics
	s.r.Use(jsonContentType)             // default JSON responses
	s.r.Use(s.cors)                      // credentials-friendly CORS

	// Rounds: OPTIONAL AUTH (guests can play). The websocket watch stream
	// outlives the request timeout, so the timeout is applied per route there.
	s.r.With(s.withOptionalAuth()).Route("/game", s.mountGame)

	s.r.Group(func(r chi.Router) {
		r.Use(requestTimeout) // bound handler time

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service": "hangman-go",
				"endpoints": []string{
					"/health", "/catalog", "POST /game/new", "POST /game/guess", "POST /game/hint",
					"POST /game/ai/step", "POST /game/ai/play", "GET /game/{id}", "GET /game/{id}/watch",
					"/daily/*", "/auth/*",
				},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "live": s.store.Len(), "db": s.db != nil})
		})
		r.Get("/catalog", s.handleCatalog)

		// Daily word: OPTIONAL AUTH (guests can play; result persisted when the round ends)
		s.mountDaily(r.With(s.withOptionalAuth()))

		// Auth + profile/history
		s.mountAuthRoutes(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr and sweeps stale rounds until it returns.
func (s *Server) Start(addr string) error {
	ctx, cancel := context.WithCancel(log.Logger.WithContext(context.Background()))
	defer cancel()
	go s.sweepLoop(ctx)
	return http.ListenAndServe(addr, s.r)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// sessionOptions are applied to every round the server starts. Sessions read
// the server clock so elapsed time and eviction agree.
func (s *Server) sessionOptions() []game.Option {
	return []game.Option{
		game.WithProfile(s.cfg.Profile()),
		game.WithClock(func() time.Time { return s.now() }),
	}
}

// ------------------------------- sweep -------------------------------------

func (s *Server) sweepLoop(ctx context.Context) {
	t := time.NewTicker(max(s.cfg.RoundTTL/4, time.Minute))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

// sweep deletes stale rounds and returns how many it removed. Daily rounds
// live until their date has passed so a guest cannot replay today's word.
func (s *Server) sweep(ctx context.Context) int {
	now := s.now()
	today := daily.DateKey(now)
	n := 0
	for _, id := range s.store.IDs() {
		e, err := s.store.Get(ctx, id)
		if err != nil {
			continue
		}
		e.Lock()
		var stale bool
		switch {
		case e.Mode == store.ModeDaily:
			stale = e.DailyDate != today
		case e.Session.State().Terminal():
			stale = now.Sub(e.FinishedAt) > s.cfg.RoundTTL
		default:
			stale = e.Session.Elapsed() > s.cfg.RoundTTL
		}
		e.Unlock()
		if stale && s.store.Delete(ctx, id) == nil {
			n++
		}
	}
	dropped := 0
	if s.dailies != nil {
		dropped = s.dailies.prune()
	}
	if n > 0 || dropped > 0 {
		zerolog.Ctx(ctx).Info().Int("rounds", n).Int("dailyKeys", dropped).Int("live", s.store.Len()).Msg("swept stale rounds")
	}
	return n
}

// ----------------------------- middleware ----------------------------------

// requestTimeout bounds ordinary handlers.
var requestTimeout = chimw.Timeout(10 * time.Second)

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one debug line per request through the request logger.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
})

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkOrigin admits websocket upgrades from non-browser clients and the configured origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || origin == s.cfg.ClientOrigin || origin == "http://"+r.Host
}

// ------------------------------ catalog ------------------------------------

type catalogCategory struct {
	Name         string                  `json:"name"`
	Difficulties map[game.Difficulty]int `json:"difficulties"`
	Unreliable   bool                    `json:"unreliableHints,omitempty"`
}

// handleCatalog lists categories with their per-difficulty word counts.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	out := []catalogCategory{}
	for _, c := range s.catalog.Categories() {
		cc := catalogCategory{Name: c, Difficulties: map[game.Difficulty]int{}, Unreliable: c == game.RandomCategory}
		for _, d := range game.Difficulties {
			if n := len(s.catalog.Words(c, d)); n > 0 {
				cc.Difficulties[d] = n
			}
		}
		out = append(out, cc)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories":   out,
		"profile":      s.cfg.Profile(),
		"solverModes":  []solver.Mode{solver.ModeDictionary, solver.ModeUserWord},
		"userWordSize": []int{words.MinUserWordLen, words.MaxUserWordLen},
	})
}

// ------------------------------- errors ------------------------------------

// writeJSON encodes v with status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidInput),
		errors.Is(err, game.ErrInvalidWord),
		errors.Is(err, words.ErrInvalidUserWord):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrGameFinished),
		errors.Is(err, game.ErrHintUnavailable),
		errors.Is(err, solver.ErrNoMove):
		return http.StatusConflict
	case errors.Is(err, words.ErrNoWords):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// writeDomainError maps err through statusFor; unexpected errors are logged, not echoed.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, status, "internal_error")
		return
	}
	writeError(w, status, err.Error())
}
