// Package config loads the optional YAML configuration of the library shell.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseRate   = "0.50"
	DefaultMaxPerBook = "30.00"
	DefaultLoanDays   = 14
	DefaultJournalDSN = ":memory:"
)

// ErrInvalid marks a config file that parsed but holds unusable values.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Fines   Fines   `yaml:"fines"`
	Loans   Loans   `yaml:"loans"`
	Seed    string  `yaml:"seed"`
	Log     Log     `yaml:"log"`
	Journal Journal `yaml:"journal"`
}

// Fines holds money amounts as strings so they parse exactly.
type Fines struct {
	BaseRate   string `yaml:"base_rate"`
	MaxPerBook string `yaml:"max_per_book"`
}

type Loans struct {
	Days int `yaml:"days"`
}

type Log struct {
	Dir   string `yaml:"dir"`
	Debug bool   `yaml:"debug"`
}

type Journal struct {
	DSN string `yaml:"dsn"`
}

// Default is the configuration used when no file is given.
func Default() Config {
	return Config{
		Fines:   Fines{BaseRate: DefaultBaseRate, MaxPerBook: DefaultMaxPerBook},
		Loans:   Loans{Days: DefaultLoanDays},
		Journal: Journal{DSN: DefaultJournalDSN},
	}
}

// Load reads path over the defaults. An empty path returns Default().
// A relative seed path is resolved against the config file's directory.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config.load (path=%s): %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config.load (path=%s): %w: %v", path, ErrInvalid, err)
	}

	if cfg.Seed != "" && !filepath.IsAbs(cfg.Seed) {
		cfg.Seed = filepath.Join(filepath.Dir(path), cfg.Seed)
	}
	if cfg.Journal.DSN == "" {
		cfg.Journal.DSN = DefaultJournalDSN
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config.load (path=%s): %w", path, err)
	}
	return cfg, nil
}

// Validate checks rates and loan period.
func (c Config) Validate() error {
	if _, _, err := c.FineRates(); err != nil {
		return err
	}
	if c.Loans.Days < 1 {
		return fmt.Errorf("%w: loans.days must be at least 1, got %d", ErrInvalid, c.Loans.Days)
	}
	return nil
}

// FineRates parses the configured base rate and per-book maximum.
func (c Config) FineRates() (base, maxPerBook decimal.Decimal, err error) {
	base, err = decimal.NewFromString(c.Fines.BaseRate)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: fines.base_rate %q", ErrInvalid, c.Fines.BaseRate)
	}
	maxPerBook, err = decimal.NewFromString(c.Fines.MaxPerBook)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: fines.max_per_book %q", ErrInvalid, c.Fines.MaxPerBook)
	}
	if !base.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: fines.base_rate must be greater than zero", ErrInvalid)
	}
	if !maxPerBook.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: fines.max_per_book must be greater than zero", ErrInvalid)
	}
	return base, maxPerBook, nil
}
