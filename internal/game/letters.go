package game

import (
	"math/bits"
	"strings"
)

// Alphabet is the guessable alphabet in enumeration order.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// LetterSet is a set of uppercase letters A-Z packed into a bitmask.
// The zero value is an empty set.
type LetterSet uint32

// LettersOf returns the set of letters occurring in s. Non A-Z bytes are ignored.
func LettersOf(s string) LetterSet {
	var ls LetterSet
	for i := 0; i < len(s); i++ {
		ls = ls.With(rune(s[i]))
	}
	return ls
}

// With returns the set plus r. Runes outside A-Z leave the set unchanged.
func (ls LetterSet) With(r rune) LetterSet {
	if r < 'A' || r > 'Z' {
		return ls
	}
	return ls | 1<<uint(r-'A')
}

// Has reports whether r is in the set.
func (ls LetterSet) Has(r rune) bool {
	if r < 'A' || r > 'Z' {
		return false
	}
	return ls&(1<<uint(r-'A')) != 0
}

// Len returns the number of letters in the set.
func (ls LetterSet) Len() int { return bits.OnesCount32(uint32(ls)) }

// Minus returns the letters of ls not in other.
func (ls LetterSet) Minus(other LetterSet) LetterSet { return ls &^ other }

// Intersect returns the letters present in both sets.
func (ls LetterSet) Intersect(other LetterSet) LetterSet { return ls & other }

// SubsetOf reports whether every letter of ls is in other.
func (ls LetterSet) SubsetOf(other LetterSet) bool { return ls&^other == 0 }

// String returns the letters in alphabetical order, e.g. "AEP".
func (ls LetterSet) String() string {
	var b strings.Builder
	for i := 0; i < 26; i++ {
		if ls&(1<<uint(i)) != 0 {
			b.WriteByte(byte('A' + i))
		}
	}
	return b.String()
}

// Vowels is the set A, E, I, O, U.
var Vowels = LettersOf("AEIOU")

// upperASCII trims s and upper-cases a-z only. Other bytes are kept as they
// are, so non-ASCII letters never fold into A-Z.
func upperASCII(s string) string {
	b := []byte(strings.TrimSpace(s))
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func lowerASCII(s string) string {
	b := []byte(strings.TrimSpace(s))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}

// isUpperAlpha reports whether s is non-empty and consists only of A-Z.
func isUpperAlpha(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
