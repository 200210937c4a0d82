package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config carries every tunable the engine needs. All limits are explicit
// parameters so no business threshold hides inside validation logic.
type Config struct {
	// ChunkSize bounds how many rows each store write commits at once.
	ChunkSize int

	// HomeCountry is the country treated as domestic for address and
	// transfer rules.
	HomeCountry string

	// SupportedCurrencies is the closed set of accepted currency codes.
	SupportedCurrencies []string

	// Amount limits, in the home currency.
	MinAmount          decimal.Decimal
	MaxPrivateAmount   decimal.Decimal
	MaxBusinessAmount  decimal.Decimal
	InternationalLimit decimal.Decimal

	// Frequency limits, evaluated only when a lookback provider supplies
	// history.
	MaxDailyPrivate  int
	MaxDailyBusiness int
	MinTimeBetween   time.Duration

	// PivotYear resolves two-digit birth years: 2000+YY when that does not
	// exceed the pivot, 1900+YY otherwise.
	PivotYear int

	// DuplicateThreshold is the number of rows one identity may occupy in a
	// batch before the consistency analyzer reports it.
	DuplicateThreshold int
}

// Default returns the rule set the engine ships with.
func Default() Config {
	return Config{
		ChunkSize:   100,
		HomeCountry: "Sweden",
		SupportedCurrencies: []string{
			"SEK", "EUR", "USD", "DKK", "NOK", "GBP", "JPY", "RMB", "ZAR", "ZMW",
		},
		MinAmount:          decimal.NewFromInt(1),
		MaxPrivateAmount:   decimal.NewFromInt(50000),
		MaxBusinessAmount:  decimal.NewFromInt(500000),
		InternationalLimit: decimal.NewFromInt(15000),
		MaxDailyPrivate:    10,
		MaxDailyBusiness:   30,
		MinTimeBetween:     time.Minute,
		PivotYear:          time.Now().Year(),
		DuplicateThreshold: 2,
	}
}

// FromEnv overlays environment overrides on the defaults. Only the knobs
// that operators actually turn are exposed; rule constants stay in code.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv("BANKFLOW_CHUNK_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("config: BANKFLOW_CHUNK_SIZE must be a positive integer, got %q", v)
		}
		cfg.ChunkSize = n
	}
	if v := os.Getenv("BANKFLOW_HOME_COUNTRY"); v != "" {
		cfg.HomeCountry = v
	}
	if v := os.Getenv("BANKFLOW_PIVOT_YEAR"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("config: BANKFLOW_PIVOT_YEAR must be an integer, got %q", v)
		}
		cfg.PivotYear = n
	}

	return cfg, nil
}

// SupportsCurrency reports whether code is in the supported set.
func (c Config) SupportsCurrency(code string) bool {
	for _, cur := range c.SupportedCurrencies {
		if cur == code {
			return true
		}
	}
	return false
}

// Validate rejects configurations the loader cannot run with.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.HomeCountry == "" {
		return fmt.Errorf("config: home country is required")
	}
	if len(c.SupportedCurrencies) == 0 {
		return fmt.Errorf("config: at least one supported currency is required")
	}
	return nil
}
