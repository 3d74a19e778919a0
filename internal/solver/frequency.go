package solver

import "github.com/robalobadob/hangman/internal/game"

// FrequencySolver guesses the unguessed letter that occurs most often across
// the remaining candidates. Ties go to the alphabetically first letter.
type FrequencySolver struct {
	candidates *CandidateSet
}

// NewFrequencySolver seeds a solver with the catalog words.
func NewFrequencySolver(words []string) *FrequencySolver {
	return &FrequencySolver{candidates: NewCandidateSet(words)}
}

// Candidates exposes the solver's candidate set (read-mostly; used by drivers for display).
func (f *FrequencySolver) Candidates() *CandidateSet { return f.candidates }

// NextGuess refines the candidates with the session feedback and returns the
// most frequent unguessed letter. It returns false when no candidate is left
// or every letter in them has been tried.
func (f *FrequencySolver) NextGuess(s *game.Session) (rune, bool) {
	f.candidates.RefineFrom(s)
	guessed := s.Guessed()

	var counts [26]int
	for _, w := range f.candidates.words {
		for i := 0; i < len(w); i++ {
			if r := rune(w[i]); r >= 'A' && r <= 'Z' && !guessed.Has(r) {
				counts[r-'A']++
			}
		}
	}

	best := -1
	for i, n := range counts {
		if n > 0 && (best < 0 || n > counts[best]) {
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return rune('A' + best), true
}
