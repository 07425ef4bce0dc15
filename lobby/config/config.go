// Package config holds the environment-driven configuration for the lobby
// server. Values come from the process environment (optionally seeded from a
// .env file by main), with defaults matching the production deployment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full configuration surface of the server.
type Config struct {
	// Port is the HTTP/WebSocket listen port.
	Port int `env:"PORT" envDefault:"4000"`

	// CORSOrigin is the allowed origin for cross-origin websocket upgrades.
	// "*" allows any origin.
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`

	// MaxSessions caps the number of concurrent live sessions.
	MaxSessions int `env:"MAX_SESSIONS" envDefault:"100"`

	// PlayersPerSession is the quorum that moves a session into scoring.
	PlayersPerSession int `env:"PLAYERS_PER_SESSION" envDefault:"4"`

	// SessionTimeout is the age after which a never-filled session is swept.
	SessionTimeout time.Duration `env:"SESSION_TIMEOUT" envDefault:"5m"`

	// SweepInterval is how often the expiry sweep runs.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"60s"`

	// StaticDir is the directory served at the HTTP root.
	StaticDir string `env:"STATIC_DIR" envDefault:"./static"`

	// RateLimitRPS and RateLimitBurst bound inbound messages per connection.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// KeepEmptySessions leaves a session in the store after its last
	// filling-phase player disconnects.
	KeepEmptySessions bool `env:"KEEP_EMPTY_SESSIONS" envDefault:"false"`
}

// Load parses the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.PlayersPerSession < 2 {
		return fmt.Errorf("PLAYERS_PER_SESSION must be at least 2, got %d", c.PlayersPerSession)
	}
	if c.MaxSessions < 1 {
		return fmt.Errorf("MAX_SESSIONS must be positive, got %d", c.MaxSessions)
	}
	if c.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive, got %s", c.SessionTimeout)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive, got %s", c.SweepInterval)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("invalid rate limit: rps=%v burst=%d", c.RateLimitRPS, c.RateLimitBurst)
	}
	return nil
}
