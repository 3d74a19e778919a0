// internal/words/catalog.go
//
// The word catalog consumed by the game core and the solvers.
//
// File formats (one item per line, blank lines ignored):
//
//	words:  [CATEGORY:DIFFICULTY] sections, or flat [CATEGORY] sections, then one word per line.
//	hints:  [CATEGORY] sections, then "WORD: hint text" lines; lines starting with '#' are comments.
//
// Words are normalised to uppercase. Lines that are not alphabetic are skipped.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/hangman/internal/game"
)

// ErrNoWords is returned when a category/difficulty yields no playable word.
var ErrNoWords = errors.New("words: no words for selection")

// Catalog supplies candidate words and optional hints.
type Catalog interface {
	// Words returns the words of a category at a difficulty. Flat categories
	// ignore the difficulty.
	Words(category string, difficulty game.Difficulty) []string
	// Hint returns the hint text for a word of a category, if any.
	Hint(category, word string) (string, bool)
}

// List is the in-memory Catalog parsed from the word and hint files.
type List struct {
	categories []string
	tiered     map[string]map[game.Difficulty][]string
	flat       map[string][]string
	hints      map[string]map[string]string
}

var _ Catalog = (*List)(nil)

// Parse reads a word file and an optional hint file (hints may be nil).
func Parse(wordsSrc, hintsSrc io.Reader) (*List, error) {
	l := &List{
		tiered: make(map[string]map[game.Difficulty][]string),
		flat:   make(map[string][]string),
		hints:  make(map[string]map[string]string),
	}
	if err := l.parseWords(wordsSrc); err != nil {
		return nil, fmt.Errorf("parse words: %w", err)
	}
	if hintsSrc != nil {
		if err := l.parseHints(hintsSrc); err != nil {
			return nil, fmt.Errorf("parse hints: %w", err)
		}
	}
	if len(l.All()) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrNoWords)
	}
	return l, nil
}

func (l *List) parseWords(r io.Reader) error {
	var category string
	var difficulty game.Difficulty
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if name, ok := sectionName(line); ok {
			cat, diff, tiered := strings.Cut(name, ":")
			category = strings.ToUpper(strings.TrimSpace(cat))
			if category == "" {
				log.Warn().Int("line", lineNo).Str("section", line).Msg("skipping section without category")
				continue
			}
			l.addCategory(category)
			if !tiered {
				difficulty = game.DifficultyNone
				continue
			}
			d, ok := game.ParseDifficulty(diff)
			if !ok || d == game.DifficultyNone {
				log.Warn().Int("line", lineNo).Str("section", line).Msg("skipping section with unknown difficulty")
				category = ""
				continue
			}
			difficulty = d
			continue
		}
		if category == "" {
			continue
		}
		word, ok := upperLetters(line)
		if !ok {
			log.Warn().Int("line", lineNo).Str("word", line).Msg("skipping non-alphabetic word")
			continue
		}
		if difficulty == game.DifficultyNone {
			l.flat[category] = append(l.flat[category], word)
			continue
		}
		if l.tiered[category] == nil {
			l.tiered[category] = make(map[game.Difficulty][]string)
		}
		l.tiered[category][difficulty] = append(l.tiered[category][difficulty], word)
	}
	return sc.Err()
}

func (l *List) parseHints(r io.Reader) error {
	var category string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if name, ok := sectionName(line); ok {
			category = strings.ToUpper(strings.TrimSpace(name))
			if l.hints[category] == nil {
				l.hints[category] = make(map[string]string)
			}
			continue
		}
		word, hint, ok := strings.Cut(line, ":")
		if !ok || category == "" {
			continue
		}
		l.hints[category][strings.ToUpper(strings.TrimSpace(word))] = strings.TrimSpace(hint)
	}
	return sc.Err()
}

func (l *List) addCategory(c string) {
	if !lo.Contains(l.categories, c) {
		l.categories = append(l.categories, c)
	}
}

// Categories returns category names in file order.
func (l *List) Categories() []string { return append([]string(nil), l.categories...) }

// Words implements Catalog.
func (l *List) Words(category string, difficulty game.Difficulty) []string {
	category = strings.ToUpper(strings.TrimSpace(category))
	if flat, ok := l.flat[category]; ok && len(l.tiered[category]) == 0 {
		return append([]string(nil), flat...)
	}
	return append([]string(nil), l.tiered[category][difficulty]...)
}

// Hint implements Catalog.
func (l *List) Hint(category, word string) (string, bool) {
	h, ok := l.hints[strings.ToUpper(category)][strings.ToUpper(word)]
	return h, ok && h != ""
}

// All returns every word of the catalog once, in file order.
func (l *List) All() []string {
	var all []string
	for _, c := range l.categories {
		all = append(all, l.flat[c]...)
		for _, d := range game.Difficulties {
			all = append(all, l.tiered[c][d]...)
		}
	}
	return lo.Uniq(all)
}

// Stats returns the number of categories and distinct words.
func (l *List) Stats() (categories int, words int) {
	return len(l.categories), len(l.All())
}

// sectionName extracts NAME from "[NAME]".
func sectionName(line string) (string, bool) {
	if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") && len(line) > 2 {
		return line[1 : len(line)-1], true
	}
	return "", false
}

// upperLetters upper-cases s if it consists of ASCII letters only.
// Unicode letters such as ſ or ı are rejected rather than folded into A-Z.
func upperLetters(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	b := []byte(s)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z':
			b[i] = c - 'a' + 'A'
		case c >= 'A' && c <= 'Z':
		default:
			return "", false
		}
	}
	return string(b), true
}
