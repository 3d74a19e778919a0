package game

import "errors"

var (
	// ErrInvalidInput is returned by Guess for anything other than a single letter A-Z.
	ErrInvalidInput = errors.New("invalid guess: expected a single letter A-Z")
	// ErrInvalidWord is returned by New for an empty or non-alphabetic target word.
	ErrInvalidWord = errors.New("invalid word: expected letters A-Z only")
	// ErrGameFinished is returned for any mutation attempted after WON or LOST.
	ErrGameFinished = errors.New("game finished")
	// ErrHintUnavailable is returned when the hint quota is spent or the score cannot cover the cost.
	ErrHintUnavailable = errors.New("hint unavailable")
)
