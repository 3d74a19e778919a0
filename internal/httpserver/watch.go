// internal/httpserver/watch.go
//
// GET /game/{id}/watch upgrades to a websocket and lets the round's solver
// play, one guess every AI_STEP_DELAY, pushing a frame after each guess:
//
//	{"type":"start","game":{...}}
//	{"type":"step","letter":"E","result":"correct","game":{...}}
//	{"type":"done","gaveUp":false,"game":{...}}
//
// The stream ends when the round is over, the solver gives up or the client
// goes away. Steps lock the round, so /game/ai/step may interleave safely.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/store"
)

const writeWait = 5 * time.Second

type watchFrame struct {
	Type   string        `json:"type"`
	Letter string        `json:"letter,omitempty"`
	Result game.Result   `json:"result,omitempty"`
	GaveUp bool          `json:"gaveUp,omitempty"`
	Error  string        `json:"error,omitempty"`
	Game   game.Snapshot `json:"game"`
}

// handleWatch streams paced solver guesses over a websocket.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if e.Solver == nil {
		writeError(w, http.StatusConflict, "not an AI round")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client.
		return
	}
	defer conn.Close()

	logger := zerolog.Ctx(r.Context()).With().Str("gameId", e.Session.ID()).Logger()
	ctx, cancel := context.WithCancel(logger.WithContext(context.WithoutCancel(r.Context())))
	defer cancel()

	// Reader: processes control frames and notices the client leaving.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if err := s.stream(ctx, conn, e); err != nil && !errors.Is(err, context.Canceled) {
		logger.Debug().Err(err).Msg("watch stream ended")
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "round over"),
		time.Now().Add(writeWait))
}

// stream runs the solver until the round ends, writing one frame per step.
func (s *Server) stream(ctx context.Context, conn *websocket.Conn, e *store.Entry) error {
	send := func(f watchFrame) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(f)
	}

	e.Lock()
	start := e.Session.Snapshot()
	e.Unlock()
	if err := send(watchFrame{Type: "start", Game: start}); err != nil {
		return err
	}

	for {
		e.Lock()
		if e.Session.State().Terminal() {
			snap := e.Session.Snapshot()
			e.Unlock()
			return send(watchFrame{Type: "done", Game: snap})
		}
		out, err := s.step(ctx, e)
		e.Unlock()

		if err != nil {
			return send(watchFrame{Type: "error", Error: err.Error(), Game: out.Game})
		}
		if out.GaveUp {
			return send(watchFrame{Type: "done", GaveUp: true, Game: out.Game})
		}
		if err := send(watchFrame{Type: "step", Letter: out.Letter, Result: out.Result, Game: out.Game}); err != nil {
			return err
		}

		if s.cfg.AIStepDelay > 0 && !out.Game.State.Terminal() {
			t := time.NewTimer(s.cfg.AIStepDelay)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
	}
}
