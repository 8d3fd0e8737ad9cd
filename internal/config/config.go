// Package config loads the bot's environment-variable configuration.
// Logging knobs (LOG_LEVEL, LOG_FORMAT) are read directly by pkg/logger,
// the way the teacher's own logger package does.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds everything the CLI entrypoint needs to dial the server and
// run a session.
type Config struct {
	UserID        string
	UserName      string
	Host          string
	ReplaysFolder string
	Level         *int
	Seed          *int64
}

// Load reads Config from the environment. USER_ID, USER_NAME, and HOST
// are required; their absence is a fatal configuration error reported
// before any connection is attempted.
func Load() (Config, error) {
	var cfg Config
	var missing []string

	cfg.UserID = os.Getenv("USER_ID")
	if cfg.UserID == "" {
		missing = append(missing, "USER_ID")
	}
	cfg.UserName = os.Getenv("USER_NAME")
	if cfg.UserName == "" {
		missing = append(missing, "USER_NAME")
	}
	cfg.Host = os.Getenv("HOST")
	if cfg.Host == "" {
		missing = append(missing, "HOST")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("config: missing required environment variables: %v", missing)
	}

	cfg.ReplaysFolder = os.Getenv("REPLAYS_FOLDER")

	if raw := os.Getenv("LEVEL"); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid LEVEL %q: %w", raw, err)
		}
		cfg.Level = &level
	}

	if raw := os.Getenv("SEED"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid SEED %q: %w", raw, err)
		}
		cfg.Seed = &seed
	}

	return cfg, nil
}
