// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DevJWTSecret is the signing key used when JWT_SECRET is unset.
const DevJWTSecret = "dinnerparty-dev-secret"

// Config holds every tunable of the server.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	DBPath     string `env:"DB_PATH"     envDefault:"./data/party.db"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"dinnerparty-dev-secret"`
	JWTTTL    time.Duration `env:"JWT_TTL"    envDefault:"24h"`

	PaymentAPIURL  string        `env:"PAYMENT_API_URL"  envDefault:"http://localhost:9090"`
	PaymentAPIKey  string        `env:"PAYMENT_API_KEY"`
	PaymentAPIRPS  float64       `env:"PAYMENT_API_RPS"  envDefault:"5"`
	PaymentTimeout time.Duration `env:"PAYMENT_TIMEOUT"  envDefault:"10s"`

	SettlementTimeout time.Duration `env:"SETTLEMENT_TIMEOUT" envDefault:"5m"`
	OrderTTL          time.Duration `env:"ORDER_TTL"          envDefault:"30m"`
	JanitorInterval   time.Duration `env:"JANITOR_INTERVAL"   envDefault:"1m"`

	// GroupLeaderRole makes a group's creator its leader. A leader leaving
	// disbands the group.
	GroupLeaderRole bool `env:"GROUP_LEADER_ROLE" envDefault:"true"`
}

// Load parses the environment and validates the result.
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

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.PaymentAPIRPS < 0 {
		errs = append(errs, errors.New("PAYMENT_API_RPS must not be negative"))
	}
	for name, d := range map[string]time.Duration{
		"JWT_TTL":            c.JWTTTL,
		"PAYMENT_TIMEOUT":    c.PaymentTimeout,
		"SETTLEMENT_TIMEOUT": c.SettlementTimeout,
		"ORDER_TTL":          c.OrderTTL,
		"JANITOR_INTERVAL":   c.JanitorInterval,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	if c.OrderTTL > 0 && c.OrderTTL < c.SettlementTimeout {
		errs = append(errs, fmt.Errorf("ORDER_TTL (%s) must not be shorter than SETTLEMENT_TIMEOUT (%s)", c.OrderTTL, c.SettlementTimeout))
	}
	return errors.Join(errs...)
}
