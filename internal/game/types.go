// internal/game/types.go
//
// Core type definitions for the hangman game engine.
// Defines:
//   - State: lifecycle of a round (in_progress → won | lost).
//   - Result: outcome of a single letter guess.
//   - Difficulty / Profile: word tier and scoring formula selection.
//   - Session: state for a single in-progress or finished round.

package game

import (
	"time"
)

// State is the coarse lifecycle state of a session.
type State string

const (
	StateInProgress State = "in_progress"
	StateWon        State = "won"
	StateLost       State = "lost"
)

// Terminal reports whether no further guesses are accepted.
func (s State) Terminal() bool { return s == StateWon || s == StateLost }

// Result is the evaluation of one guessed letter.
//   - "correct":         letter occurs in the word.
//   - "incorrect":       letter does not occur in the word.
//   - "already_guessed": letter was tried before; nothing changed.
type Result string

const (
	ResultCorrect        Result = "correct"
	ResultIncorrect      Result = "incorrect"
	ResultAlreadyGuessed Result = "already_guessed"
)

// Difficulty is the declared tier of a word.
type Difficulty string

const (
	DifficultyNone   Difficulty = ""
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
	DifficultyExpert Difficulty = "EXPERT"
)

// Difficulties lists the selectable tiers in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}

// ParseDifficulty accepts a case-insensitive tier name. Empty input maps to DifficultyNone.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(upperASCII(s))
	switch d {
	case DifficultyNone, DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return d, true
	}
	return DifficultyNone, false
}

// Profile selects the scoring formula.
type Profile string

const (
	ProfileSimple Profile = "simple"
	ProfileStreak Profile = "streak"
)

// DefaultProfile is used when no profile is configured.
const DefaultProfile = ProfileStreak

// ParseProfile accepts "simple" or "streak" (case-insensitive).
func ParseProfile(s string) (Profile, bool) {
	switch Profile(lowerASCII(s)) {
	case ProfileSimple:
		return ProfileSimple, true
	case ProfileStreak:
		return ProfileStreak, true
	}
	return DefaultProfile, false
}

// RandomCategory is the catalog category whose hints are deliberately unreliable.
const RandomCategory = "RANDOM"

const (
	// DefaultMaxAttempts is the traditional number of wrong guesses allowed.
	DefaultMaxAttempts = 7
	// MaxHints is the per-round hint quota.
	MaxHints = 2
)

// Rand is the randomness source used for unreliable hints.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Session holds the state of a single hangman round.
// All fields are private; it is mutated only through Guess and UseHint.
type Session struct {
	id         string
	word       string
	category   string
	difficulty Difficulty
	hint       string
	profile    Profile

	guessed LetterSet
	correct LetterSet
	wrong   int

	maxAttempts int
	score       int
	finalScore  int
	hintsUsed   int

	streak           int
	maxStreak        int
	consecutiveWrong int

	state State

	now     func() time.Time
	started time.Time
	elapsed time.Duration // frozen at the terminal transition
	rng     Rand
}

// Snapshot is a read-only JSON view of a session for presentation layers.
// Word is only populated once the round is over.
type Snapshot struct {
	ID               string     `json:"id"`
	Pattern          string     `json:"pattern"`
	Length           int        `json:"length"`
	Word             string     `json:"word,omitempty"`
	Category         string     `json:"category,omitempty"`
	Difficulty       Difficulty `json:"difficulty,omitempty"`
	Profile          Profile    `json:"profile"`
	Guessed          string     `json:"guessed"`
	Wrong            string     `json:"wrong"`
	WrongGuesses     int        `json:"wrongGuesses"`
	MaxAttempts      int        `json:"maxAttempts"`
	AttemptsLeft     int        `json:"attemptsLeft"`
	Score            int        `json:"score"`
	FinalScore       int        `json:"finalScore"`
	HintsUsed        int        `json:"hintsUsed"`
	Streak           int        `json:"streak"`
	MaxStreak        int        `json:"maxStreak"`
	ConsecutiveWrong int        `json:"consecutiveWrong"`
	State            State      `json:"state"`
	ElapsedMs        int64      `json:"elapsedMs"`
}
