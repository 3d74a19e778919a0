package solver

import (
	"strings"

	"github.com/robalobadob/hangman/internal/game"
)

// letterRank is English letter frequency, most common first. It orders vowels on ties.
const letterRank = "EARIOTNSLCUDPMHGBFYWKVXZJQ"

// AdversarialSolver is the minimax guesser used for words typed by a person.
// The catalog is treated as an adversary that keeps the candidate pool as
// large as possible; the solver picks the letter whose worst-case answer
// leaves the fewest candidates.
type AdversarialSolver struct {
	candidates *CandidateSet
}

// NewAdversarialSolver seeds a solver with the whole catalog. The real target
// does not need to be among the words.
func NewAdversarialSolver(words []string) *AdversarialSolver {
	return &AdversarialSolver{candidates: NewCandidateSet(words)}
}

// Candidates exposes the solver's candidate set.
func (a *AdversarialSolver) Candidates() *CandidateSet { return a.candidates }

// NextGuess returns the minimax letter. With a single candidate left it spells
// that word left to right instead. It returns false only when every letter of
// the alphabet has been guessed.
func (a *AdversarialSolver) NextGuess(s *game.Session) (rune, bool) {
	a.candidates.RefineFrom(s)
	guessed := s.Guessed()

	if a.candidates.Len() == 1 {
		w := a.candidates.words[0]
		for i := 0; i < len(w); i++ {
			if r := rune(w[i]); !guessed.Has(r) {
				return r, true
			}
		}
	}

	vowelsFound := s.Correct().Intersect(game.Vowels).Len()
	var best rune
	bestSize := 0
	for _, r := range game.Alphabet {
		if guessed.Has(r) {
			continue
		}
		size := worstBucket(a.candidates.words, r)
		switch {
		case best == 0 || size < bestSize:
			best, bestSize = r, size
		case size == bestSize && preferOnTie(r, best, vowelsFound):
			best = r
		}
	}
	return best, best != 0
}

// worstBucket partitions words by the set of positions at which letter occurs
// (the empty set included) and returns the size of the largest partition.
// Positions are packed into a uint64, which covers any realistic word length.
func worstBucket(words []string, letter rune) int {
	buckets := make(map[uint64]int)
	worst := 0
	for _, w := range words {
		var key uint64
		for i := 0; i < len(w); i++ {
			if rune(w[i]) == letter {
				key |= 1 << uint(i%64)
			}
		}
		buckets[key]++
		if buckets[key] > worst {
			worst = buckets[key]
		}
	}
	return worst
}

// preferOnTie reports whether candidate should replace best when both leave
// the same worst-case bucket. A vowel beats a consonant while fewer than two
// vowels are confirmed; between vowels the more frequent letter wins; anything
// else keeps the alphabetically earlier best.
func preferOnTie(candidate, best rune, vowelsFound int) bool {
	cv, bv := game.Vowels.Has(candidate), game.Vowels.Has(best)
	switch {
	case cv && !bv:
		return vowelsFound < 2
	case cv && bv:
		return strings.IndexRune(letterRank, candidate) < strings.IndexRune(letterRank, best)
	}
	return false
}
