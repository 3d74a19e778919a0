package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/robalobadob/hangman/internal/game"
)

// ErrNoMove is returned by Step when the solver cannot propose a letter.
var ErrNoMove = errors.New("solver has no move left")

// Outcome summarises an autoplayed round.
type Outcome struct {
	Guesses int        `json:"guesses"`
	GaveUp  bool       `json:"gaveUp"`
	State   game.State `json:"state"`
}

// Step asks sv for one letter and applies it to s.
func Step(s *game.Session, sv Solver) (rune, game.Result, error) {
	letter, ok := sv.NextGuess(s)
	if !ok {
		return 0, "", ErrNoMove
	}
	res, err := s.Guess(string(letter))
	if err != nil {
		return letter, "", fmt.Errorf("apply %q: %w", letter, err)
	}
	if res == game.ResultAlreadyGuessed {
		return letter, res, fmt.Errorf("solver repeated letter %q", letter)
	}
	return letter, res, nil
}

// Play drives s with sv until the round is over, the solver gives up or ctx
// is done. Progress is logged to the zerolog logger carried by ctx.
func Play(ctx context.Context, s *game.Session, sv Solver) (Outcome, error) {
	logger := zerolog.Ctx(ctx)
	var out Outcome
	for !s.State().Terminal() {
		if err := ctx.Err(); err != nil {
			out.State = s.State()
			return out, err
		}
		letter, res, err := Step(s, sv)
		if errors.Is(err, ErrNoMove) {
			out.GaveUp = true
			logger.Debug().Str("session", s.ID()).Str("pattern", s.DisplayPattern()).Msg("solver gave up")
			break
		}
		if err != nil {
			out.State = s.State()
			return out, err
		}
		out.Guesses++
		logger.Debug().
			Str("session", s.ID()).
			Str("letter", string(letter)).
			Str("result", string(res)).
			Str("pattern", s.DisplayPattern()).
			Msg("solver guess")
	}
	out.State = s.State()
	return out, nil
}
