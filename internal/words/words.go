// internal/words/words.go
//
// Loading and selecting words from the catalog.
//
// Responsibilities:
//   - Load the catalog from configured files or fall back to the embedded defaults.
//   - Pick a target word (plus hint) for a category/difficulty selection.
//   - Validate words typed by a person for the AI guesser.
//
// Initialization behavior (Load):
//  1. If a words path is given, parse it; a hints path is optional.
//  2. If no words path is given, use the embedded assets (Default).
//
// Constraints:
//   - Words are alphabetic A–Z and normalised to uppercase.
//   - The embedded catalog is parsed once (sync.Once).

package words

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/robalobadob/hangman/assets"
	"github.com/robalobadob/hangman/internal/game"
)

// ExpertCategory is the flat category of hard words offered on its own.
const ExpertCategory = "EXPERT"

const (
	MinUserWordLen = 3
	MaxUserWordLen = 15
)

// ErrInvalidUserWord rejects a word typed by a person for the AI to guess.
var ErrInvalidUserWord = errors.New("words: invalid user word")

var (
	defaultOnce sync.Once
	defaultList *List
	defaultErr  error
)

// Default returns the catalog parsed from the embedded assets.
func Default() (*List, error) {
	defaultOnce.Do(func() {
		wf, err := assets.Words()
		if err != nil {
			defaultErr = err
			return
		}
		defer wf.Close()
		hf, err := assets.Hints()
		if err != nil {
			defaultErr = err
			return
		}
		defer hf.Close()
		defaultList, defaultErr = Parse(wf, hf)
	})
	return defaultList, defaultErr
}

// Load parses the catalog from disk. An empty wordsPath selects the embedded
// defaults; an empty hintsPath loads no hints.
func Load(wordsPath, hintsPath string) (*List, error) {
	if wordsPath == "" {
		return Default()
	}
	wf, err := os.Open(wordsPath)
	if err != nil {
		return nil, fmt.Errorf("open words file: %w", err)
	}
	defer wf.Close()

	var hints io.Reader
	if hintsPath != "" {
		hf, err := os.Open(hintsPath)
		if err != nil {
			return nil, fmt.Errorf("open hints file: %w", err)
		}
		defer hf.Close()
		hints = hf
	}
	return Parse(wf, hints)
}

// Selection is a picked target word with its metadata.
type Selection struct {
	Word       string          `json:"-"`
	Category   string          `json:"category"`
	Difficulty game.Difficulty `json:"difficulty"`
	Hint       string          `json:"-"`
}

// Options turns the selection into session options.
func (s Selection) Options() []game.Option {
	return []game.Option{
		game.WithCategory(s.Category),
		game.WithDifficulty(s.Difficulty),
		game.WithHint(s.Hint),
	}
}

// categoryLister is implemented by catalogs that can enumerate categories.
type categoryLister interface {
	Categories() []string
}

// Pick draws a target word for the selection.
//
//   - EXPERT difficulty draws from the HARD words of every regular category, without a hint.
//   - The EXPERT category draws from its flat list, without a hint.
//   - Otherwise the category/difficulty list is used and the catalog hint attached.
//
// A nil rng uses the process-wide source.
func Pick(c Catalog, category string, difficulty game.Difficulty, rng game.Rand) (Selection, error) {
	if rng == nil {
		rng = game.SystemRand()
	}
	category = strings.ToUpper(strings.TrimSpace(category))
	sel := Selection{Category: category, Difficulty: difficulty}

	var pool []string
	withHint := true
	switch {
	case difficulty == game.DifficultyExpert:
		lister, ok := c.(categoryLister)
		if !ok {
			return Selection{}, fmt.Errorf("%w: catalog cannot list categories", ErrNoWords)
		}
		for _, cat := range lister.Categories() {
			if cat == ExpertCategory || cat == game.RandomCategory {
				continue
			}
			pool = append(pool, c.Words(cat, game.DifficultyHard)...)
		}
		pool = lo.Uniq(pool)
		withHint = false
	case category == ExpertCategory:
		pool = c.Words(category, difficulty)
		withHint = false
	default:
		pool = c.Words(category, difficulty)
	}
	if len(pool) == 0 {
		return Selection{}, fmt.Errorf("%w: category %q difficulty %q", ErrNoWords, category, difficulty)
	}

	sel.Word = pool[rng.IntN(len(pool))]
	if withHint {
		sel.Hint, _ = c.Hint(category, sel.Word)
	}
	return sel, nil
}

// ValidateUserWord normalises a typed word and checks it is 3 to 15 letters A–Z.
func ValidateUserWord(s string) (string, error) {
	raw := strings.TrimSpace(s)
	if len(raw) < MinUserWordLen || len(raw) > MaxUserWordLen {
		return "", fmt.Errorf("%w: must be %d to %d letters", ErrInvalidUserWord, MinUserWordLen, MaxUserWordLen)
	}
	w, ok := upperLetters(raw)
	if !ok {
		return "", fmt.Errorf("%w: letters A-Z only", ErrInvalidUserWord)
	}
	return w, nil
}
