package solver

import (
	"github.com/samber/lo"

	"github.com/robalobadob/hangman/internal/game"
)

// CandidateSet is the ordered list of dictionary words still consistent with
// the feedback of one session. It is owned by a single solver and only shrinks.
type CandidateSet struct {
	words []string
}

// NewCandidateSet copies words (deduplicated, order kept) into a new set.
func NewCandidateSet(words []string) *CandidateSet {
	return &CandidateSet{words: lo.Uniq(words)}
}

// Len returns the number of remaining candidates.
func (c *CandidateSet) Len() int { return len(c.words) }

// Words returns a copy of the remaining candidates.
func (c *CandidateSet) Words() []string { return append([]string(nil), c.words...) }

// Refine filters the set against the revealed pattern (letters or '_' per
// position, no separators) and the letters known to be wrong. The three passes
// run over the whole current list on every call, so calling it twice with the
// same feedback is a no-op.
func (c *CandidateSet) Refine(revealed string, wrong game.LetterSet) {
	n := len(revealed)
	words := lo.Filter(c.words, func(w string, _ int) bool { return len(w) == n })
	words = lo.Filter(words, func(w string, _ int) bool { return matchesPattern(w, revealed) })
	words = lo.Filter(words, func(w string, _ int) bool { return game.LettersOf(w).Intersect(wrong) == 0 })
	c.words = words
}

// RefineFrom refines the set with the current feedback of s.
func (c *CandidateSet) RefineFrom(s *game.Session) {
	c.Refine(s.Revealed(), s.WrongLetters())
}

// matchesPattern reports whether w agrees with every revealed position of pattern.
// Both strings have the same length.
func matchesPattern(w, pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '_' && w[i] != pattern[i] {
			return false
		}
	}
	return true
}
