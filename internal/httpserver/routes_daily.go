// internal/httpserver/routes_daily.go
//
// HTTP routes for the "daily word" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's round (creates or reuses the session)
//   - POST /daily/guess       → submit a letter for today's round
//   - GET  /daily/leaderboard → top 20 results for today (or ?date=YYYY-MM-DD)
//
// Every player gets the same word on a given UTC date; each player (or guest
// cookie) can finish it once per day (enforced by DB + in-memory session).
// Rounds live in the shared store and are persisted when they end.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/store"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	deck     *daily.Deck
	sessions map[string]string // game IDs keyed by owner|date
	mu       sync.Mutex        // guards sessions
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		deck:     daily.NewDeck(s.cfg.DailySalt, s.catalog.All()),
		sessions: make(map[string]string),
	}
	s.dailies = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// today returns today's puzzle; ok is false for an empty catalog.
func (d *dailyServer) today() (daily.Puzzle, bool) {
	return d.deck.For(d.srv.now())
}

// prune forgets session keys of other dates than today and returns how many it dropped.
func (d *dailyServer) prune() int {
	suffix := "|" + daily.DateKey(d.srv.now())
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for key := range d.sessions {
		if !strings.HasSuffix(key, suffix) {
			delete(d.sessions, key)
			n++
		}
	}
	return n
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string         `json:"gameId,omitempty"`
	Date   string         `json:"date"`
	Played bool           `json:"played"`
	Game   *game.Snapshot `json:"game,omitempty"`
}

// handleNew creates or reuses a daily session for the current date.
//   - If the caller already has a DB row for today → Played=true.
//   - Otherwise create/reuse an in-memory session and return its snapshot.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	playerID, anonID := d.srv.identity(w, r)
	owner := playerID + anonID
	p, ok := d.today()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "empty catalog")
		return
	}
	date := p.Date

	if d.srv.daily != nil {
		played, err := d.srv.daily.AlreadyPlayed(r.Context(), owner, date)
		if err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("daily already played")
		}
		if played {
			writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
			return
		}
	}

	key := owner + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.sessions[key]; ok {
		if e, err := d.srv.store.Get(r.Context(), id); err == nil {
			e.Lock()
			snap := e.Session.Snapshot()
			e.Unlock()
			writeJSON(w, http.StatusOK, dailyNewRes{GameID: id, Date: date, Played: snap.State.Terminal(), Game: &snap})
			return
		}
	}

	sess, err := game.New(p.Word, d.srv.sessionOptions()...)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	e := &store.Entry{
		Session:     sess,
		Mode:        store.ModeDaily,
		PlayerID:    playerID,
		AnonymousID: anonID,
		DailyDate:   date,
		WordIndex:   p.Index,
	}
	if err := d.srv.store.Save(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.srv.recordStart(r.Context(), e)
	d.sessions[key] = sess.ID()

	snap := sess.Snapshot()
	writeJSON(w, http.StatusOK, dailyNewRes{GameID: sess.ID(), Date: date, Game: &snap})
}

// -----------------------------------------------------------------------------
// /daily/guess

// handleGuess applies a letter to the caller's daily round for today.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	playerID, anonID := d.srv.identity(w, r)
	var req roundReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	p, _ := d.today()

	d.mu.Lock()
	id, ok := d.sessions[playerID+anonID+"|"+p.Date]
	d.mu.Unlock()
	if !ok || id != req.GameID {
		writeError(w, http.StatusConflict, "no session")
		return
	}
	e, err := d.srv.store.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	e.Lock()
	res, err := e.Session.Guess(req.Letter)
	snap := e.Session.Snapshot()
	if err == nil {
		d.srv.finish(r.Context(), e)
	}
	e.Unlock()

	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guessRes{Result: res, Game: snap})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	}
	if d.srv.daily == nil {
		writeJSON(w, http.StatusOK, lbRes{Date: date, Top: []daily.LBRow{}})
		return
	}
	rows, err := d.srv.daily.Leaderboard(r.Context(), date, 20)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
