// internal/match/match.go
//
// Two-player hot-seat match over a fixed number of rounds.
//
// Each round player 1 gets a random category (never EXPERT) at a random
// difficulty among EASY, MEDIUM and HARD; player 2 then plays the same
// difficulty in an independently drawn category. Turns run strictly one after
// another. A won turn adds the round score to the player's total; a lost or
// abandoned turn only counts as played.

package match

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/words"
)

var (
	// ErrRoundInProgress is returned by Next while the current turn is still being played.
	ErrRoundInProgress = errors.New("match: current round is still in progress")
	// ErrMatchOver is returned by Next once every turn has been played.
	ErrMatchOver = errors.New("match: all rounds played")
	// ErrNoTurn is returned by Abandon when no turn is being played.
	ErrNoTurn = errors.New("match: no turn in progress")
)

var turnDifficulties = []game.Difficulty{game.DifficultyEasy, game.DifficultyMedium, game.DifficultyHard}

// Catalog is a word catalog that can enumerate its categories.
type Catalog interface {
	words.Catalog
	Categories() []string
}

// Standing is a player's running result.
type Standing struct {
	Name   string `json:"name"`
	Total  int    `json:"total"`
	Played int    `json:"played"`
	Won    int    `json:"won"`
}

// Turn is one player's session within a round.
type Turn struct {
	Round   int
	Player  string
	Session *game.Session
}

// Option configures a Match.
type Option func(*Match)

// WithRand injects the randomness used to draw categories, difficulties and words.
func WithRand(r game.Rand) Option { return func(m *Match) { m.rng = r } }

// WithSessionOptions are applied to every session the match starts.
func WithSessionOptions(opts ...game.Option) Option {
	return func(m *Match) { m.sessionOpts = append(m.sessionOpts, opts...) }
}

// Match tracks turns and totals. It is not safe for concurrent use.
type Match struct {
	catalog     Catalog
	rounds      int
	players     [2]Standing
	rng         game.Rand
	sessionOpts []game.Option

	turns      int // turns started
	current    *Turn
	settled    bool
	abandoned  bool
	difficulty game.Difficulty // drawn for player 1, reused by player 2
}

// New starts a match between two named players.
func New(player1, player2 string, rounds int, catalog Catalog, opts ...Option) (*Match, error) {
	if player1 == "" || player2 == "" {
		return nil, errors.New("match: both players need a name")
	}
	if rounds <= 0 {
		return nil, fmt.Errorf("match: rounds must be positive, got %d", rounds)
	}
	m := &Match{
		catalog: catalog,
		rounds:  rounds,
		players: [2]Standing{{Name: player1}, {Name: player2}},
		rng:     game.SystemRand(),
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// Next settles the finished turn and starts the following one.
func (m *Match) Next() (*Turn, error) {
	if m.current != nil && !m.over() {
		return nil, ErrRoundInProgress
	}
	m.settle()
	if m.turns >= 2*m.rounds {
		return nil, ErrMatchOver
	}

	seat := m.turns % 2
	if seat == 0 {
		m.difficulty = turnDifficulties[m.rng.IntN(len(turnDifficulties))]
	}
	category, err := m.drawCategory(m.difficulty)
	if err != nil {
		return nil, err
	}
	sel, err := words.Pick(m.catalog, category, m.difficulty, m.rng)
	if err != nil {
		return nil, err
	}
	s, err := game.New(sel.Word, append(sel.Options(), m.sessionOpts...)...)
	if err != nil {
		return nil, err
	}

	m.turns++
	m.settled, m.abandoned = false, false
	m.current = &Turn{Round: (m.turns + 1) / 2, Player: m.players[seat].Name, Session: s}
	return m.current, nil
}

// drawCategory picks uniformly among non-EXPERT categories that have words at d.
func (m *Match) drawCategory(d game.Difficulty) (string, error) {
	playable := lo.Filter(m.catalog.Categories(), func(c string, _ int) bool {
		return c != words.ExpertCategory && len(m.catalog.Words(c, d)) > 0
	})
	if len(playable) == 0 {
		return "", fmt.Errorf("%w: no category has %s words", words.ErrNoWords, d)
	}
	return playable[m.rng.IntN(len(playable))], nil
}

// Abandon ends the current turn as a loss, e.g. when a solver has no move
// left. Its session is left untouched.
func (m *Match) Abandon() error {
	if m.current == nil || m.over() {
		return ErrNoTurn
	}
	m.abandoned = true
	m.settle()
	return nil
}

func (m *Match) over() bool {
	return m.abandoned || m.current.Session.State().Terminal()
}

// settle records a finished current turn in its player's standing, once.
// Only a won turn adds its round score.
func (m *Match) settle() {
	if m.current == nil || m.settled || !m.over() {
		return
	}
	p := &m.players[(m.turns-1)%2]
	p.Played++
	if !m.abandoned && m.current.Session.State() == game.StateWon {
		p.Total += m.current.Session.Score()
		p.Won++
	}
	m.settled = true
}

// Current returns the turn being played, or nil before the first Next.
func (m *Match) Current() *Turn { return m.current }

// Standings returns both players' totals, finished turns included.
func (m *Match) Standings() [2]Standing {
	m.settle()
	return m.players
}

// Done reports whether every turn has been played to the end.
func (m *Match) Done() bool {
	m.settle()
	return m.turns >= 2*m.rounds && m.settled
}

// Winner returns the name of the player with the higher total once the match
// is done. A tie, or an unfinished match, yields "".
func (m *Match) Winner() string {
	if !m.Done() {
		return ""
	}
	a, b := m.players[0], m.players[1]
	switch {
	case a.Total > b.Total:
		return a.Name
	case b.Total > a.Total:
		return b.Name
	}
	return ""
}
