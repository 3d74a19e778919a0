// internal/httpserver/history.go
//
// Round history persistence.
//   - recordStart inserts a rounds row owned by a player or an anonymous cookie.
//   - finish settles a terminal round once: rounds row, player stats and, for
//     daily rounds, the daily result.
//
// Every write is best effort: failures are logged and never fail the request.
// Without a database the functions are no-ops.

package httpserver

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/store"
)

// identity returns the signed-in player ID, or an anonymous cookie ID for guests.
func (s *Server) identity(w http.ResponseWriter, r *http.Request) (playerID, anonID string) {
	if me := currentUser(r); me != nil {
		return me.ID, ""
	}
	return "", s.ensureAnonID(w, r)
}

// recordStart persists the owner row of a new round. The word is never stored.
func (s *Server) recordStart(ctx context.Context, e *store.Entry) {
	if s.db == nil {
		return
	}
	sess := e.Session
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rounds (id, player_id, anonymous_id, mode, category, difficulty, word_length, started_at, status)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		sess.ID(), nullable(e.PlayerID), nullable(e.AnonymousID), string(e.Mode),
		sess.Category(), string(sess.Difficulty()), len(sess.Word()),
		s.now().UTC().Format(time.RFC3339), string(sess.State()),
	)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("gameId", sess.ID()).Msg("insert round row")
	}
}

// finish settles a terminal round exactly once. The caller holds the entry lock.
func (s *Server) finish(ctx context.Context, e *store.Entry) {
	sess := e.Session
	if !sess.State().Terminal() || e.Persisted {
		return
	}
	e.Persisted = true
	e.FinishedAt = s.now()
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("gameId", sess.ID()).
		Str("state", string(sess.State())).
		Int("finalScore", sess.FinalScore()).
		Msg("round finished")
	if s.db == nil {
		return
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("begin finish tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE rounds SET status=?, finished_at=?, guesses=?, wrong_guesses=?, final_score=? WHERE id=?`,
		string(sess.State()), s.now().UTC().Format(time.RFC3339),
		sess.Guessed().Len(), sess.WrongGuesses(), sess.FinalScore(), sess.ID(),
	); err != nil {
		logger.Warn().Err(err).Msg("finish round")
	}
	if e.PlayerID != "" && e.Solver == nil {
		if err := bumpStats(ctx, tx, e.PlayerID, sess.State() == game.StateWon, sess.FinalScore()); err != nil {
			logger.Warn().Err(err).Str("player", e.PlayerID).Msg("bump stats")
		}
	}
	if err := tx.Commit(); err != nil {
		logger.Warn().Err(err).Msg("commit finish tx")
	}

	if e.Mode == store.ModeDaily && s.daily != nil {
		if err := s.daily.InsertResult(ctx, daily.Result{
			PlayerID:     e.Owner(),
			Date:         e.DailyDate,
			WordIndex:    e.WordIndex,
			Won:          sess.State() == game.StateWon,
			WrongGuesses: sess.WrongGuesses(),
			FinalScore:   sess.FinalScore(),
			ElapsedMs:    sess.Elapsed().Milliseconds(),
		}); err != nil {
			logger.Warn().Err(err).Msg("insert daily result")
		}
	}
}

// bumpStats increments games played; updates wins, streak and best score (within tx).
func bumpStats(ctx context.Context, tx *sql.Tx, playerID string, won bool, finalScore int) error {
	var gp, wins, streak, best int
	row := tx.QueryRowContext(ctx, `SELECT games_played, wins, streak, best_score FROM players WHERE id=?`, playerID)
	if err := row.Scan(&gp, &wins, &streak, &best); err != nil {
		return err
	}
	gp++
	if won {
		wins++
		streak++
	} else {
		streak = 0
	}
	best = max(best, finalScore)
	_, err := tx.ExecContext(ctx,
		`UPDATE players SET games_played=?, wins=?, streak=?, best_score=? WHERE id=?`,
		gp, wins, streak, best, playerID)
	return err
}

// roundRow is one line of GET /games/mine.
type roundRow struct {
	ID           string `json:"id"`
	Mode         string `json:"mode"`
	Category     string `json:"category,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`
	WordLength   int    `json:"wordLength"`
	Status       string `json:"status"`
	Guesses      int    `json:"guesses"`
	WrongGuesses int    `json:"wrongGuesses"`
	FinalScore   int    `json:"finalScore"`
	StartedAt    string `json:"startedAt"`
	FinishedAt   string `json:"finishedAt,omitempty"`
}

// recentRounds lists a player's latest rounds, newest first.
func (s *Server) recentRounds(ctx context.Context, playerID string, limit int) ([]roundRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, COALESCE(category,''), COALESCE(difficulty,''), word_length, status,
		        guesses, wrong_guesses, final_score, started_at, COALESCE(finished_at,'')
		 FROM rounds WHERE player_id=? ORDER BY started_at DESC LIMIT ?`, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []roundRow{}
	for rows.Next() {
		var rr roundRow
		if err := rows.Scan(&rr.ID, &rr.Mode, &rr.Category, &rr.Difficulty, &rr.WordLength, &rr.Status,
			&rr.Guesses, &rr.WrongGuesses, &rr.FinalScore, &rr.StartedAt, &rr.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// nullable maps "" to SQL NULL.
func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
