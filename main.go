package main

import (
	"database/sql"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/assets"
	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/db"
	"github.com/robalobadob/hangman/internal/httpserver"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	catalog, err := words.Load(cfg.WordsFile, cfg.HintsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	nc, nw := catalog.Stats()
	log.Info().Int("categories", nc).Int("words", nw).Msg("catalog loaded")

	var conn *sql.DB
	if cfg.DBPath != "" {
		conn, err = db.Open(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
		}
		defer conn.Close()
		if err := db.Migrate(conn, assets.Migrations()); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
	} else {
		log.Warn().Msg("DB_PATH empty: accounts, history and daily results disabled")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(cfg, mem, catalog, conn)
	log.Info().Str("port", cfg.Port).Str("profile", string(cfg.Profile())).Msg("starting hangman server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
