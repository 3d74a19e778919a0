// internal/game/engine.go
//
// Core game engine for a single hangman round.
// Responsibilities:
//   - Create sessions for a target word plus optional category/difficulty/hint.
//   - Validate and apply letter guesses.
//   - Delegate per-guess and end-of-round scoring to the scoring functions.
//   - Track state transitions: in_progress → won/lost, freezing the clock.
//
// Notes:
//   - The clock is injected (WithClock) so timing is testable without sleeping.
//   - Once a round is terminal every mutation returns ErrGameFinished.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand/v2"
	"strings"
	"time"
)

// Option configures a Session at construction.
type Option func(*options)

type options struct {
	id            string
	category      string
	difficulty    Difficulty
	hint          string
	profile       Profile
	maxAttempts   int
	perDifficulty bool
	now           func() time.Time
	rng           Rand
}

// WithCategory sets the descriptive category (e.g. "ANIMALS", "RANDOM").
func WithCategory(c string) Option { return func(o *options) { o.category = upperASCII(c) } }

// WithDifficulty sets the word's difficulty tier.
func WithDifficulty(d Difficulty) Option { return func(o *options) { o.difficulty = d } }

// WithHint sets the pre-supplied hint text.
func WithHint(h string) Option { return func(o *options) { o.hint = strings.TrimSpace(h) } }

// WithProfile selects the scoring profile.
func WithProfile(p Profile) Option { return func(o *options) { o.profile = p } }

// WithMaxAttempts overrides the wrong-guess budget. Non-positive values are ignored.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithDifficultyAttempts derives the wrong-guess budget from the difficulty (extended mode).
func WithDifficultyAttempts() Option { return func(o *options) { o.perDifficulty = true } }

// WithClock injects the time source.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// WithRand injects the randomness used by unreliable hints.
func WithRand(r Rand) Option { return func(o *options) { o.rng = r } }

// WithID fixes the session identifier instead of generating one.
func WithID(id string) Option { return func(o *options) { o.id = id } }

// AttemptsFor returns the extended-mode wrong-guess budget for a difficulty.
func AttemptsFor(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return 8
	case DifficultyMedium:
		return 6
	case DifficultyHard, DifficultyExpert:
		return 4
	default:
		return DefaultMaxAttempts
	}
}

// New constructs a session for word. The word is upper-cased and must consist
// of letters A-Z only.
func New(word string, opts ...Option) (*Session, error) {
	o := options{profile: DefaultProfile, now: time.Now, rng: globalRand{}}
	for _, opt := range opts {
		opt(&o)
	}
	w := upperASCII(word)
	if !isUpperAlpha(w) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWord, word)
	}
	if o.id == "" {
		o.id = randomID()
	}
	budget := DefaultMaxAttempts
	switch {
	case o.maxAttempts > 0:
		budget = o.maxAttempts
	case o.perDifficulty:
		budget = AttemptsFor(o.difficulty)
	}
	return &Session{
		id:          o.id,
		word:        w,
		category:    o.category,
		difficulty:  o.difficulty,
		hint:        o.hint,
		profile:     o.profile,
		maxAttempts: budget,
		state:       StateInProgress,
		now:         o.now,
		started:     o.now(),
		rng:         o.rng,
	}, nil
}

// Guess applies one letter to the session.
//
// Validation rules:
//   - Session must not be finished (ErrGameFinished).
//   - Input must be exactly one letter, either case (ErrInvalidInput).
//
// A repeated letter yields ResultAlreadyGuessed and changes nothing.
func (s *Session) Guess(input string) (Result, error) {
	if s.state.Terminal() {
		return "", ErrGameFinished
	}
	letter, err := normalizeLetter(input)
	if err != nil {
		return "", err
	}
	if s.guessed.Has(letter) {
		return ResultAlreadyGuessed, nil
	}

	s.guessed = s.guessed.With(letter)
	var res Result
	if strings.ContainsRune(s.word, letter) {
		s.correct = s.correct.With(letter)
		s.streak++
		if s.streak > s.maxStreak {
			s.maxStreak = s.streak
		}
		s.consecutiveWrong = 0
		s.score += GuessDelta(s.profile, s.difficulty, true, s.streak, s.consecutiveWrong)
		res = ResultCorrect
	} else {
		s.wrong++
		s.streak = 0
		s.consecutiveWrong++
		s.score += GuessDelta(s.profile, s.difficulty, false, s.streak, s.consecutiveWrong)
		res = ResultIncorrect
	}
	s.transition()
	return res, nil
}

// transition moves to WON or LOST when the conditions hold and settles the round.
func (s *Session) transition() {
	switch {
	case LettersOf(s.word).SubsetOf(s.correct):
		s.state = StateWon
	case s.wrong >= s.maxAttempts:
		s.state = StateLost
	default:
		return
	}
	s.elapsed = s.now().Sub(s.started)
	if s.elapsed < 0 {
		s.elapsed = 0
	}
	s.finalScore = CalculateFinalScore(s.profile, s.stats())
}

func (s *Session) stats() RoundStats {
	return RoundStats{
		Score:        s.score,
		Difficulty:   s.difficulty,
		MaxAttempts:  s.maxAttempts,
		WrongGuesses: s.wrong,
		WordLength:   len(s.word),
		HintsUsed:    s.hintsUsed,
		Elapsed:      s.elapsed,
		Won:          s.state == StateWon,
	}
}

// normalizeLetter maps a single a-z/A-Z input to its uppercase rune.
func normalizeLetter(input string) (rune, error) {
	if len(input) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, input)
	}
	c := input[0]
	switch {
	case c >= 'a' && c <= 'z':
		return rune(c - 'a' + 'A'), nil
	case c >= 'A' && c <= 'Z':
		return rune(c), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidInput, input)
}

// ----------------------------- accessors -----------------------------------

func (s *Session) ID() string             { return s.id }
func (s *Session) Word() string           { return s.word }
func (s *Session) Category() string       { return s.category }
func (s *Session) Difficulty() Difficulty { return s.difficulty }
func (s *Session) HintText() string       { return s.hint }
func (s *Session) Profile() Profile       { return s.profile }
func (s *Session) Guessed() LetterSet     { return s.guessed }
func (s *Session) Correct() LetterSet     { return s.correct }
func (s *Session) WrongLetters() LetterSet {
	return s.guessed.Minus(s.correct)
}
func (s *Session) WrongGuesses() int     { return s.wrong }
func (s *Session) MaxAttempts() int      { return s.maxAttempts }
func (s *Session) AttemptsLeft() int     { return max(0, s.maxAttempts-s.wrong) }
func (s *Session) Score() int            { return s.score }
func (s *Session) HintsUsed() int        { return s.hintsUsed }
func (s *Session) Streak() int           { return s.streak }
func (s *Session) MaxStreak() int        { return s.maxStreak }
func (s *Session) ConsecutiveWrong() int { return s.consecutiveWrong }
func (s *Session) State() State          { return s.state }

// FinalScore is the end-of-round score. It equals Score until the round is over.
func (s *Session) FinalScore() int {
	if !s.state.Terminal() {
		return s.score
	}
	return s.finalScore
}

// Elapsed is the time since the round started, frozen once it is over.
func (s *Session) Elapsed() time.Duration {
	if s.state.Terminal() {
		return s.elapsed
	}
	return s.now().Sub(s.started)
}

// Revealed returns the word with unrevealed letters as '_' and no separators, e.g. "APP__".
func (s *Session) Revealed() string {
	b := []byte(s.word)
	for i := range b {
		if !s.correct.Has(rune(b[i])) {
			b[i] = '_'
		}
	}
	return string(b)
}

// DisplayPattern returns the revealed word spaced for display, e.g. "A P P _ _".
func (s *Session) DisplayPattern() string {
	r := s.Revealed()
	var b strings.Builder
	for i := 0; i < len(r); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(r[i])
	}
	return b.String()
}

// Snapshot returns a read-only view for presentation layers.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:               s.id,
		Pattern:          s.DisplayPattern(),
		Length:           len(s.word),
		Category:         s.category,
		Difficulty:       s.difficulty,
		Profile:          s.profile,
		Guessed:          s.guessed.String(),
		Wrong:            s.WrongLetters().String(),
		WrongGuesses:     s.wrong,
		MaxAttempts:      s.maxAttempts,
		AttemptsLeft:     s.AttemptsLeft(),
		Score:            s.score,
		FinalScore:       s.FinalScore(),
		HintsUsed:        s.hintsUsed,
		Streak:           s.streak,
		MaxStreak:        s.maxStreak,
		ConsecutiveWrong: s.consecutiveWrong,
		State:            s.state,
		ElapsedMs:        s.Elapsed().Milliseconds(),
	}
	if s.state.Terminal() {
		snap.Word = s.word
	}
	return snap
}

// globalRand adapts the math/rand/v2 top-level functions to Rand.
type globalRand struct{}

func (globalRand) IntN(n int) int { return mrand.IntN(n) }

// SystemRand returns a Rand backed by the process-wide math/rand/v2 source.
func SystemRand() Rand { return globalRand{} }

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
