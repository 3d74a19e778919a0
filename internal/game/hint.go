package game

import (
	"fmt"
	"strings"
)

const randomDisclaimer = "WARNING: For RANDOM category, hints may be incorrect!"

// UseHint charges the hint cost and returns a hint.
//
// Hints are available while fewer than MaxHints have been used and the score
// covers HintCost. Otherwise the error wraps ErrHintUnavailable and nothing is
// charged. Hints for the RANDOM category are unreliable on purpose: half of
// them name an unguessed letter of the word, the other half a random letter.
func (s *Session) UseHint() (string, error) {
	if s.state.Terminal() {
		return "", ErrGameFinished
	}
	if s.hintsUsed >= MaxHints {
		return "", fmt.Errorf("%w: all %d hints used", ErrHintUnavailable, MaxHints)
	}
	cost := HintCost(s.profile)
	if s.score < cost {
		return "", fmt.Errorf("%w: need %d points, have %d", ErrHintUnavailable, cost, s.score)
	}

	s.score -= cost
	s.hintsUsed++

	if s.category == RandomCategory {
		return s.unreliableHint(), nil
	}
	if s.hint != "" {
		return s.hint, nil
	}
	category := "word"
	if s.category != "" {
		category = strings.ToLower(s.category)
	}
	return fmt.Sprintf("This is a %s with %d letters", category, len(s.word)), nil
}

func (s *Session) unreliableHint() string {
	if s.rng.IntN(2) == 0 {
		var unguessed []byte
		for i := 0; i < len(s.word); i++ {
			if !s.guessed.Has(rune(s.word[i])) {
				unguessed = append(unguessed, s.word[i])
			}
		}
		if len(unguessed) > 0 {
			c := unguessed[s.rng.IntN(len(unguessed))]
			return fmt.Sprintf("%s\nHint: Letter '%c' is in the word", randomDisclaimer, c)
		}
	}
	c := Alphabet[s.rng.IntN(len(Alphabet))]
	return fmt.Sprintf("%s\nHint: Letter '%c' might be in the word", randomDisclaimer, c)
}
