// Package daily deals one hangman word per UTC day and stores the results.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Puzzle is the word every player gets on one date.
type Puzzle struct {
	Date  string
	Index int // position in the deck's word list, stored with results
	Word  string
}

// Deck deals the day's word from a fixed word list. The salt keeps the
// sequence unpredictable without knowing it; the same salt and list always
// give the same word for a date.
type Deck struct {
	key   []byte
	words []string
}

// NewDeck copies words; later changes to the slice do not move the daily word.
func NewDeck(salt string, words []string) *Deck {
	return &Deck{key: []byte(salt), words: append([]string(nil), words...)}
}

// Len is the number of words the deck deals from.
func (d *Deck) Len() int { return len(d.words) }

// For returns the puzzle of t's UTC date. ok is false for an empty deck.
func (d *Deck) For(t time.Time) (p Puzzle, ok bool) {
	p.Date = DateKey(t)
	if len(d.words) == 0 {
		return p, false
	}
	mac := hmac.New(sha256.New, d.key)
	mac.Write([]byte("hangman/" + p.Date))
	v := binary.BigEndian.Uint64(mac.Sum(nil)[:8])
	p.Index = int(v % uint64(len(d.words)))
	p.Word = d.words[p.Index]
	return p, true
}
