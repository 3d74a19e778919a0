package daily

import (
	"context"
	"database/sql"
)

// Result is one player's finished daily round.
type Result struct {
	PlayerID     string `json:"playerId"`
	Date         string `json:"date"`
	WordIndex    int    `json:"wordIndex"`
	Won          bool   `json:"won"`
	WrongGuesses int    `json:"wrongGuesses"`
	FinalScore   int    `json:"finalScore"`
	ElapsedMs    int64  `json:"elapsedMs"`
}

// Store persists daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE player_id=? AND date=?",
		playerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records r. A second result for the same player and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(player_id, date, word_index, won, wrong_guesses, final_score, elapsed_ms)
		VALUES(?,?,?,?,?,?,?)`,
		r.PlayerID, r.Date, r.WordIndex, r.Won, r.WrongGuesses, r.FinalScore, r.ElapsedMs,
	)
	return err
}

// LBRow is one leaderboard line. Username is empty for anonymous players.
type LBRow struct {
	PlayerID     string `json:"playerId"`
	Username     string `json:"username,omitempty"`
	Won          bool   `json:"won"`
	WrongGuesses int    `json:"wrongGuesses"`
	FinalScore   int    `json:"finalScore"`
	ElapsedMs    int64  `json:"elapsedMs"`
}

// Leaderboard returns the best results of date: highest final score first,
// then fastest, then earliest.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.player_id, COALESCE(p.username, ''), d.won, d.wrong_guesses, d.final_score, d.elapsed_ms
		FROM daily_results d
		LEFT JOIN players p ON p.id = d.player_id
		WHERE d.date=?
		ORDER BY d.final_score DESC, d.elapsed_ms ASC, d.created_at ASC
		LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Username, &r.Won, &r.WrongGuesses, &r.FinalScore, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
