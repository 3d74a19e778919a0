// internal/config/config.go
//
// Process configuration read from the environment (after godotenv has loaded
// any .env file in main).

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/robalobadob/hangman/internal/game"
)

// Config holds every tunable of the server.
type Config struct {
	Port     string `env:"PORT"      envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// DBPath is the SQLite file; empty disables persistence.
	DBPath string `env:"DB_PATH" envDefault:"./data/hangman.db"`

	WordsFile string `env:"WORDS_FILE"`
	HintsFile string `env:"HINTS_FILE"`

	JWTSecret      string `env:"JWT_SECRET"       envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME"      envDefault:"hangman_token"`
	ClientOrigin   string `env:"CLIENT_ORIGIN"    envDefault:"http://localhost:5173"`
	DailySalt      string `env:"DAILY_SALT"       envDefault:"local_dev_salt"`

	ScoringProfile string        `env:"SCORING_PROFILE" envDefault:"streak"`
	AIStepDelay    time.Duration `env:"AI_STEP_DELAY"   envDefault:"1s"`
	// RoundTTL is how long a finished round stays readable, and how long an
	// unfinished one may sit before it is evicted.
	RoundTTL time.Duration `env:"ROUND_TTL" envDefault:"2h"`

	Environment string `env:"NODE_ENV" envDefault:"development"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration with every default applied and no
// environment lookups. Tests start from it.
func Default() Config {
	var cfg Config
	_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	return cfg
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	if _, ok := game.ParseProfile(c.ScoringProfile); !ok {
		return fmt.Errorf("SCORING_PROFILE %q: want simple or streak", c.ScoringProfile)
	}
	if c.JWTExpiresDays <= 0 {
		return fmt.Errorf("JWT_EXPIRES_DAYS must be positive, got %d", c.JWTExpiresDays)
	}
	if c.AIStepDelay < 0 {
		return fmt.Errorf("AI_STEP_DELAY must not be negative, got %s", c.AIStepDelay)
	}
	if c.RoundTTL <= 0 {
		return fmt.Errorf("ROUND_TTL must be positive, got %s", c.RoundTTL)
	}
	return nil
}

// Profile is the configured scoring profile.
func (c Config) Profile() game.Profile {
	p, _ := game.ParseProfile(c.ScoringProfile)
	return p
}

// Production reports whether cookies must be Secure / SameSite=None.
func (c Config) Production() bool { return c.Environment == "production" }
