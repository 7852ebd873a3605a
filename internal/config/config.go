// Package config reads server settings from flags with environment
// fallbacks.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Addr          string
	AllowOrigins  string
	DataDir       string // empty keeps games in memory only
	Clock         time.Duration
	MatchInterval time.Duration
}

// Load parses args (without the program name) using getenv for defaults.
func Load(args []string, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	clockDefault, err := envDuration(env("CHESS_CLOCK", "10m"), "CHESS_CLOCK")
	if err != nil {
		return Config{}, err
	}
	intervalDefault, err := envDuration(env("CHESS_MATCH_INTERVAL", "1s"), "CHESS_MATCH_INTERVAL")
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", env("CHESS_ADDR", ":3000"), "listen address")
	fs.StringVar(&cfg.AllowOrigins, "origins", env("CHESS_ALLOW_ORIGINS", "http://localhost:5173"), "comma-separated CORS origins")
	fs.StringVar(&cfg.DataDir, "data-dir", env("CHESS_DATA_DIR", ""), "badger directory (empty: in-memory)")
	fs.DurationVar(&cfg.Clock, "clock", clockDefault, "time per side")
	fs.DurationVar(&cfg.MatchInterval, "match-interval", intervalDefault, "matchmaking tick")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr is required")
	}
	if c.Clock <= 0 {
		return fmt.Errorf("config: clock must be positive, got %s", c.Clock)
	}
	if c.MatchInterval <= 0 {
		return fmt.Errorf("config: match interval must be positive, got %s", c.MatchInterval)
	}
	return nil
}

func envDuration(v, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
