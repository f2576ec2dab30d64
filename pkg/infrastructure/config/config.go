package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/shopspring/decimal"
)

// Config carries the CLI's pricing defaults, read from the environment.
// Request files may override every field per batch; these values only
// fill the gaps.
type Config struct {
	DefaultMarkup     decimal.Decimal `env:"BATCHCOST_MARKUP" envDefault:"0.5"`
	DefaultVatPercent decimal.Decimal `env:"BATCHCOST_VAT" envDefault:"0"`
	RoundingRule      string          `env:"BATCHCOST_ROUNDING_RULE" envDefault:"0.05"`
	CacheTTL          time.Duration   `env:"BATCHCOST_CACHE_TTL" envDefault:"60m"`
	LogLevel          string          `env:"BATCHCOST_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.DefaultMarkup.IsNegative() {
		return nil, fmt.Errorf("BATCHCOST_MARKUP must not be negative, got %s", cfg.DefaultMarkup)
	}
	if cfg.DefaultVatPercent.IsNegative() {
		return nil, fmt.Errorf("BATCHCOST_VAT must not be negative, got %s", cfg.DefaultVatPercent)
	}
	return &cfg, nil
}
