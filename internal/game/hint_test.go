package game

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseHintChargesOnceThenUnavailable(t *testing.T) {
	s, _ := newSession(t, "ZEBRA", WithHint("Striped horse"))
	s.score = 30

	hint, err := s.UseHint()
	require.NoError(t, err)
	assert.Equal(t, "Striped horse", hint)
	assert.Equal(t, 5, s.Score())
	assert.Equal(t, 1, s.HintsUsed())

	_, err = s.UseHint()
	assert.ErrorIs(t, err, ErrHintUnavailable)
	assert.Equal(t, 5, s.Score())
	assert.Equal(t, 1, s.HintsUsed())
}

func TestUseHintQuota(t *testing.T) {
	s, _ := newSession(t, "ZEBRA", WithProfile(ProfileSimple))
	s.score = 100

	for i := 0; i < MaxHints; i++ {
		_, err := s.UseHint()
		require.NoError(t, err)
	}
	assert.Equal(t, 60, s.Score())

	_, err := s.UseHint()
	assert.ErrorIs(t, err, ErrHintUnavailable)
	assert.Equal(t, 60, s.Score())
	assert.Equal(t, MaxHints, s.HintsUsed())
}

func TestUseHintFallbackText(t *testing.T) {
	s, _ := newSession(t, "ZEBRA", WithCategory("ANIMALS"))
	s.score = 25
	hint, err := s.UseHint()
	require.NoError(t, err)
	assert.Equal(t, "This is a animals with 5 letters", hint)

	s, _ = newSession(t, "QUARTZ")
	s.score = 25
	hint, err = s.UseHint()
	require.NoError(t, err)
	assert.Equal(t, "This is a word with 6 letters", hint)
}

func TestUseHintAfterRoundIsOver(t *testing.T) {
	s, _ := newSession(t, "AB")
	guessAll(t, s, "A", "B")
	require.Equal(t, StateWon, s.State())
	score := s.Score()

	_, err := s.UseHint()
	assert.ErrorIs(t, err, ErrGameFinished)
	assert.Equal(t, score, s.Score())
}

func TestHintCostPerProfile(t *testing.T) {
	assert.Equal(t, 20, HintCost(ProfileSimple))
	assert.Equal(t, 25, HintCost(ProfileStreak))
}

func TestRandomCategoryHintsAreUnreliable(t *testing.T) {
	const trials = 2000
	rng := rand.New(rand.NewPCG(7, 11))

	var truthful, noisy int
	for i := 0; i < trials; i++ {
		s, _ := newSession(t, "ZEBRA", WithCategory(RandomCategory), WithRand(rng), WithHint("ignored"))
		s.score = 100
		_, err := s.Guess("E")
		require.NoError(t, err)

		hint, err := s.UseHint()
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(hint, randomDisclaimer+"\n"), "hint %q lacks disclaimer", hint)

		letter := hintLetter(t, hint)
		switch {
		case strings.HasSuffix(hint, "is in the word"):
			truthful++
			assert.Contains(t, "ZBRA", string(letter), "truthful hint must name an unguessed letter")
		case strings.HasSuffix(hint, "might be in the word"):
			noisy++
			assert.Contains(t, Alphabet, string(letter))
		default:
			t.Fatalf("unexpected hint %q", hint)
		}
	}

	assert.Equal(t, trials, truthful+noisy)
	assert.InDelta(t, 0.5, float64(truthful)/trials, 0.06)
	assert.InDelta(t, 0.5, float64(noisy)/trials, 0.06)
}

func hintLetter(t *testing.T, hint string) byte {
	t.Helper()
	i := strings.Index(hint, "Letter '")
	require.GreaterOrEqual(t, i, 0)
	return hint[i+len("Letter '")]
}
