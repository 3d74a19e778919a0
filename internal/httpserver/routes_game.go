// internal/httpserver/routes_game.go
//
// HTTP routes for hangman rounds, mounted under /game:
//   - POST /game/new      → start a human or AI round
//   - POST /game/guess    → submit a letter (human rounds)
//   - POST /game/hint     → buy a hint (human rounds)
//   - POST /game/ai/step  → let the solver make one guess (AI rounds)
//   - POST /game/ai/play  → let the solver play the round to the end (AI rounds)
//   - GET  /game/{id}     → current snapshot
//   - GET  /game/{id}/watch → websocket stream of paced AI guesses (watch.go)
//
// Rounds live in the in-memory store; each request locks its round so
// concurrent requests on one round are applied one at a time.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/solver"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

// mountGame registers the /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(requestTimeout)
		r.Post("/new", s.handleNewGame)
		r.Post("/guess", s.handleGuess)
		r.Post("/hint", s.handleHint)
		r.Post("/ai/step", s.handleAIStep)
		r.Post("/ai/play", s.handleAIPlay)
		r.Get("/{id}", s.handleGetGame)
	})
	r.Get("/{id}/watch", s.handleWatch)
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode       string `json:"mode"`       // "human" (default) | "ai_dictionary" | "ai_user"
	Category   string `json:"category"`   // empty → random playable category
	Difficulty string `json:"difficulty"` // empty → MEDIUM
	Word       string `json:"word"`       // required for ai_user
	Extended   bool   `json:"extended"`   // per-difficulty attempt budget
}
type newGameRes struct {
	GameID string        `json:"gameId"`
	Mode   store.Mode    `json:"mode"`
	Game   game.Snapshot `json:"game"`
}

// handleNewGame creates a round, stores it in memory and records its start.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	mode, _ := lo.Coalesce(store.Mode(req.Mode), store.ModeHuman)
	var (
		sel words.Selection
		err error
	)
	switch mode {
	case store.ModeHuman, store.ModeAIDictionary:
		sel, err = s.selectWord(req.Category, req.Difficulty)
	case store.ModeAIUser:
		sel.Word, err = words.ValidateUserWord(req.Word)
	default:
		writeError(w, http.StatusBadRequest, "unknown mode "+req.Mode)
		return
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	opts := append(sel.Options(), s.sessionOptions()...)
	if req.Extended {
		opts = append(opts, game.WithDifficultyAttempts())
	}
	sess, err := game.New(sel.Word, opts...)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	e := &store.Entry{Session: sess, Mode: mode}
	switch mode {
	case store.ModeAIDictionary:
		e.Solver = solver.New(solver.ModeDictionary, s.catalog.All())
	case store.ModeAIUser:
		e.Solver = solver.New(solver.ModeUserWord, s.catalog.All())
	}
	e.PlayerID, e.AnonymousID = s.identity(w, r)

	if err := s.store.Save(r.Context(), e); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("save round")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.recordStart(r.Context(), e)

	zerolog.Ctx(r.Context()).Info().
		Str("gameId", sess.ID()).
		Str("mode", string(mode)).
		Str("category", sess.Category()).
		Str("difficulty", string(sess.Difficulty())).
		Msg("round started")
	writeJSON(w, http.StatusOK, newGameRes{GameID: sess.ID(), Mode: mode, Game: sess.Snapshot()})
}

// selectWord resolves the requested category/difficulty and picks a word.
func (s *Server) selectWord(category, difficulty string) (words.Selection, error) {
	d, ok := game.ParseDifficulty(difficulty)
	if !ok {
		return words.Selection{}, fmt.Errorf("%w: difficulty %q", game.ErrInvalidInput, difficulty)
	}
	if d == game.DifficultyNone {
		d = game.DifficultyMedium
	}
	// EXPERT difficulty pools every category, so it needs none.
	if category == "" && d != game.DifficultyExpert {
		playable := lo.Filter(s.catalog.Categories(), func(c string, _ int) bool {
			return c != words.ExpertCategory && len(s.catalog.Words(c, d)) > 0
		})
		if len(playable) == 0 {
			return words.Selection{}, fmt.Errorf("%w: no category has %s words", words.ErrNoWords, d)
		}
		category = playable[game.SystemRand().IntN(len(playable))]
	}
	return words.Pick(s.catalog, category, d, nil)
}

// roundReq is the body of the per-round POST endpoints.
type roundReq struct {
	GameID string `json:"gameId"`
	Letter string `json:"letter"`
}

type guessRes struct {
	Result game.Result   `json:"result"`
	Game   game.Snapshot `json:"game"`
}

// handleGuess applies a letter to a human round.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	e, req, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	if e.Solver != nil {
		writeError(w, http.StatusConflict, "ai_round: use /game/ai/step")
		return
	}
	if e.Mode == store.ModeDaily {
		writeError(w, http.StatusConflict, "daily_round: use /daily/guess")
		return
	}

	e.Lock()
	res, err := e.Session.Guess(req.Letter)
	snap := e.Session.Snapshot()
	if err == nil {
		s.finish(r.Context(), e)
	}
	e.Unlock()

	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guessRes{Result: res, Game: snap})
}

type hintRes struct {
	Hint string        `json:"hint"`
	Game game.Snapshot `json:"game"`
}

// handleHint charges a hint on a human round.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	e, _, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	if e.Solver != nil {
		writeError(w, http.StatusConflict, "ai_round: hints are for people")
		return
	}
	if e.Mode == store.ModeDaily {
		writeError(w, http.StatusConflict, "daily_round: no hints")
		return
	}

	e.Lock()
	hint, err := e.Session.UseHint()
	snap := e.Session.Snapshot()
	e.Unlock()

	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hintRes{Hint: hint, Game: snap})
}

type aiStepRes struct {
	Letter string        `json:"letter,omitempty"`
	Result game.Result   `json:"result,omitempty"`
	GaveUp bool          `json:"gaveUp,omitempty"`
	Game   game.Snapshot `json:"game"`
}

// handleAIStep lets the round's solver make exactly one guess.
func (s *Server) handleAIStep(w http.ResponseWriter, r *http.Request) {
	e, _, ok := s.loadAIRound(w, r)
	if !ok {
		return
	}

	e.Lock()
	out, err := s.step(r.Context(), e)
	e.Unlock()

	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// step runs one solver move on a locked entry.
func (s *Server) step(ctx context.Context, e *store.Entry) (aiStepRes, error) {
	if e.Session.State().Terminal() {
		return aiStepRes{}, game.ErrGameFinished
	}
	letter, res, err := solver.Step(e.Session, e.Solver)
	if errors.Is(err, solver.ErrNoMove) {
		return aiStepRes{GaveUp: true, Game: e.Session.Snapshot()}, nil
	}
	if err != nil {
		return aiStepRes{}, err
	}
	s.finish(ctx, e)
	return aiStepRes{Letter: string(letter), Result: res, Game: e.Session.Snapshot()}, nil
}

type aiPlayRes struct {
	Outcome solver.Outcome `json:"outcome"`
	Game    game.Snapshot  `json:"game"`
}

// handleAIPlay lets the solver finish the round in one request.
func (s *Server) handleAIPlay(w http.ResponseWriter, r *http.Request) {
	e, _, ok := s.loadAIRound(w, r)
	if !ok {
		return
	}

	e.Lock()
	out, err := solver.Play(r.Context(), e.Session, e.Solver)
	if err == nil {
		s.finish(r.Context(), e)
	}
	snap := e.Session.Snapshot()
	e.Unlock()

	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, aiPlayRes{Outcome: out, Game: snap})
}

// handleGetGame returns the round's snapshot.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	e.Lock()
	snap := e.Session.Snapshot()
	e.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"mode": e.Mode, "game": snap})
}

// loadRound decodes a roundReq and fetches its entry, writing the error response itself.
func (s *Server) loadRound(w http.ResponseWriter, r *http.Request) (*store.Entry, roundReq, bool) {
	var req roundReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return nil, req, false
	}
	e, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		writeDomainError(w, r, err)
		return nil, req, false
	}
	return e, req, true
}

func (s *Server) loadAIRound(w http.ResponseWriter, r *http.Request) (*store.Entry, roundReq, bool) {
	e, req, ok := s.loadRound(w, r)
	if ok && e.Solver == nil {
		writeError(w, http.StatusConflict, "not an AI round")
		return nil, req, false
	}
	return e, req, ok
}
