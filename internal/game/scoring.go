package game

import "time"

// RoundStats is the session state the end-of-round score is computed from.
type RoundStats struct {
	Score        int
	Difficulty   Difficulty
	MaxAttempts  int
	WrongGuesses int
	WordLength   int
	HintsUsed    int
	Elapsed      time.Duration
	Won          bool
}

// DifficultyBonus is the fixed increment for a correct guess on a word of tier d.
// Words without a tier score like HARD in both profiles.
func DifficultyBonus(p Profile, d Difficulty) int {
	if p == ProfileSimple {
		switch d {
		case DifficultyEasy:
			return 5
		case DifficultyMedium:
			return 10
		default:
			return 15
		}
	}
	switch d {
	case DifficultyEasy:
		return 8
	case DifficultyMedium:
		return 12
	case DifficultyExpert:
		return 25
	default:
		return 18
	}
}

// GuessDelta is the score change for one accepted guess. streak and
// consecutiveWrong are the counters after the guess has been applied.
func GuessDelta(p Profile, d Difficulty, correct bool, streak, consecutiveWrong int) int {
	if p == ProfileSimple {
		if correct {
			return DifficultyBonus(p, d)
		}
		return -2
	}
	if correct {
		return DifficultyBonus(p, d) + 5*streak
	}
	return -(5 + 2*consecutiveWrong)
}

// HintCost is the number of points a hint costs.
func HintCost(p Profile) int {
	if p == ProfileSimple {
		return 20
	}
	return 25
}

// CalculateFinalScore returns the end-of-round score.
//
// Streak profile:
//
//	score
//	+ max(0, 100-elapsedSeconds) / 10      time bonus
//	+ (maxAttempts-wrongGuesses) * 10      attempts bonus
//	+ wordLength * 2                       length bonus
//	+ 50 when no hint was used
//	+ 100 when no wrong guess was made
//
// Simple profile: score plus ten times the difficulty bonus on a win.
func CalculateFinalScore(p Profile, st RoundStats) int {
	if p == ProfileSimple {
		if st.Won {
			return st.Score + DifficultyBonus(p, st.Difficulty)*10
		}
		return st.Score
	}

	secs := int(st.Elapsed / time.Second)
	final := st.Score
	final += max(0, 100-secs) / 10
	final += (st.MaxAttempts - st.WrongGuesses) * 10
	final += st.WordLength * 2
	if st.HintsUsed == 0 {
		final += 50
	}
	if st.WrongGuesses == 0 {
		final += 100
	}
	return final
}
