// Command hangman-sim plays the solvers against every catalog word and
// reports how often each one wins. With -match it also runs a two-player
// match in which the frequency solver and the minimax solver take turns.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/match"
	"github.com/robalobadob/hangman/internal/solver"
	"github.com/robalobadob/hangman/internal/words"
)

// tally accumulates the results of one solver over many rounds.
type tally struct {
	played, won, gaveUp, wrong int
	lostOn                     []string
}

func main() {
	var (
		wordsFile string
		hintsFile string
		mode      string
		profile   string
		limit     int
		rounds    int
		verbose   bool
	)
	flag.StringVar(&wordsFile, "words", "", "word list file (default: embedded catalog)")
	flag.StringVar(&hintsFile, "hints", "", "hint file (default: embedded hints)")
	flag.StringVar(&mode, "mode", "both", "solver to evaluate: dictionary, user or both")
	flag.StringVar(&profile, "profile", string(game.DefaultProfile), "scoring profile: simple or streak")
	flag.IntVar(&limit, "limit", 0, "evaluate only the first N words (0 = all)")
	flag.IntVar(&rounds, "match", 0, "also play a match of N rounds between the two solvers")
	flag.BoolVar(&verbose, "v", false, "log every solver guess")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	p, ok := game.ParseProfile(profile)
	if !ok {
		log.Fatal().Str("profile", profile).Msg("unknown scoring profile")
	}
	var modes []solver.Mode
	if mode == "both" {
		modes = []solver.Mode{solver.ModeDictionary, solver.ModeUserWord}
	} else {
		m, err := solver.ParseMode(mode)
		if err != nil {
			log.Fatal().Err(err).Msg("bad -mode")
		}
		modes = []solver.Mode{m}
	}

	catalog, err := words.Load(wordsFile, hintsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	targets := catalog.All()
	if limit > 0 && limit < len(targets) {
		targets = targets[:limit]
	}
	for _, m := range modes {
		t, err := evaluate(ctx, m, p, catalog.All(), targets)
		if err != nil {
			log.Fatal().Err(err).Str("mode", string(m)).Msg("evaluation stopped")
		}
		report(m, t)
	}

	if rounds > 0 {
		if err := playMatch(ctx, catalog, p, rounds); err != nil {
			log.Fatal().Err(err).Msg("match stopped")
		}
	}
}

// evaluate plays one round per target with a fresh solver of mode.
func evaluate(ctx context.Context, mode solver.Mode, p game.Profile, dictionary, targets []string) (tally, error) {
	var t tally
	bar := progressbar.Default(int64(len(targets)), string(mode))
	defer bar.Finish()
	for _, w := range targets {
		s, err := game.New(w, game.WithProfile(p))
		if err != nil {
			return t, err
		}
		out, err := solver.Play(ctx, s, solver.New(mode, dictionary))
		if err != nil {
			return t, fmt.Errorf("word %s: %w", w, err)
		}
		t.played++
		t.wrong += s.WrongGuesses()
		switch {
		case out.State == game.StateWon:
			t.won++
		case out.GaveUp:
			t.gaveUp++
			t.lostOn = append(t.lostOn, w)
		default:
			t.lostOn = append(t.lostOn, w)
		}
		_ = bar.Add(1)
	}
	return t, nil
}

func report(mode solver.Mode, t tally) {
	if t.played == 0 {
		fmt.Printf("%-10s no words\n", mode)
		return
	}
	fmt.Printf("%-10s won %d/%d (%.1f%%), gave up %d, avg wrong %.2f\n",
		mode, t.won, t.played, 100*float64(t.won)/float64(t.played), t.gaveUp,
		float64(t.wrong)/float64(t.played))
	if n := len(t.lostOn); n > 0 {
		shown := t.lostOn[:min(n, 10)]
		fmt.Printf("%-10s lost on %v", "", shown)
		if n > len(shown) {
			fmt.Printf(" and %d more", n-len(shown))
		}
		fmt.Println()
	}
}

// playMatch seats the frequency solver against the minimax solver.
func playMatch(ctx context.Context, catalog *words.List, p game.Profile, rounds int) error {
	const freq, minimax = "frequency", "minimax"
	m, err := match.New(freq, minimax, rounds, catalog, match.WithSessionOptions(game.WithProfile(p)))
	if err != nil {
		return err
	}
	dictionary := catalog.All()
	for {
		turn, err := m.Next()
		if errors.Is(err, match.ErrMatchOver) {
			break
		}
		if err != nil {
			return err
		}
		mode := solver.ModeDictionary
		if turn.Player == minimax {
			mode = solver.ModeUserWord
		}
		out, err := solver.Play(ctx, turn.Session, solver.New(mode, dictionary))
		if err != nil {
			return err
		}
		if out.GaveUp {
			if err := m.Abandon(); err != nil {
				return err
			}
		}
		snap := turn.Session.Snapshot()
		log.Info().
			Int("round", turn.Round).
			Str("player", turn.Player).
			Str("word", snap.Word).
			Str("state", string(out.State)).
			Int("finalScore", snap.FinalScore).
			Msg("turn finished")
	}

	for _, st := range m.Standings() {
		fmt.Printf("%-10s total %d, won %d/%d\n", st.Name, st.Total, st.Won, st.Played)
	}
	if w := m.Winner(); w != "" {
		fmt.Printf("winner: %s\n", w)
	} else {
		fmt.Println("tie")
	}
	return nil
}
