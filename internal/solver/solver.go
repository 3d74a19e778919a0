// internal/solver/solver.go
//
// Autonomous letter guessers for a hangman session.
//
// Two strategies share the Solver interface:
//   - FrequencySolver: the word came from the catalog; guess the letter that
//     occurs most often across the remaining candidates.
//   - AdversarialSolver: the word was typed by a person; treat the catalog as
//     an adversary and minimise the worst-case candidate bucket.
//
// Each solver owns its CandidateSet for exactly one session. The driver asks
// for a letter with NextGuess and feeds it to Session.Guess itself.
package solver

import (
	"fmt"

	"github.com/robalobadob/hangman/internal/game"
)

// Solver proposes the next letter to guess for a session.
// ok is false when the solver has no move left, which the driver treats as
// a lost round rather than an error.
type Solver interface {
	NextGuess(s *game.Session) (letter rune, ok bool)
}

// Mode selects the strategy.
type Mode string

const (
	// ModeDictionary is used when the target was drawn from the catalog.
	ModeDictionary Mode = "dictionary"
	// ModeUserWord is used when the target was entered by a person.
	ModeUserWord Mode = "user"
)

// ParseMode accepts "dictionary" or "user".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDictionary, ModeUserWord:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown solver mode %q", s)
}

// New returns a fresh solver for mode seeded with the catalog words.
func New(mode Mode, words []string) Solver {
	if mode == ModeUserWord {
		return NewAdversarialSolver(words)
	}
	return NewFrequencySolver(words)
}
