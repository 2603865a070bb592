package infra

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds every application setting. Sensitive values can be overridden
// through environment variables after the file is loaded.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		Binance struct {
			RestURL   string   `yaml:"rest_url"`
			WSURL     string   `yaml:"ws_url"`
			APIKey    string   `yaml:"api_key"`
			APISecret string   `yaml:"api_secret"`
			Testnet   bool     `yaml:"testnet"`
			Symbols   []string `yaml:"symbols"` // symbols to stream prices for
		} `yaml:"binance"`
	} `yaml:"api"`

	Trading struct {
		// Decimal values are kept as strings in the file and parsed on
		// access; Validate rejects unparseable ones up front.
		DefaultTickSize string `yaml:"default_tick_size"`
		RecvWindowMS    int    `yaml:"recv_window_ms"`

		Grid struct {
			Levels  int    `yaml:"levels"`
			Percent string `yaml:"percent"`
		} `yaml:"grid"`

		TWAP struct {
			Slices      int `yaml:"slices"`
			IntervalSec int `yaml:"interval_sec"`
		} `yaml:"twap"`
	} `yaml:"trading"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.API.Binance.RestURL == "" || !hasPrefix(c.API.Binance.RestURL, "https://") {
		return fmt.Errorf("invalid Binance REST URL: %s", c.API.Binance.RestURL)
	}
	if c.API.Binance.WSURL != "" && !hasPrefix(c.API.Binance.WSURL, "ws://") && !hasPrefix(c.API.Binance.WSURL, "wss://") {
		return fmt.Errorf("invalid Binance WS URL: %s", c.API.Binance.WSURL)
	}
	if tick, err := decimal.NewFromString(c.Trading.DefaultTickSize); err != nil || tick.Sign() <= 0 {
		return fmt.Errorf("default tick size must be a positive decimal, got %q", c.Trading.DefaultTickSize)
	}
	if c.Trading.Grid.Levels < 1 {
		return fmt.Errorf("grid levels must be at least 1")
	}
	if pct, err := decimal.NewFromString(c.Trading.Grid.Percent); err != nil || pct.Sign() <= 0 {
		return fmt.Errorf("grid percent must be a positive decimal, got %q", c.Trading.Grid.Percent)
	}
	if c.Trading.TWAP.Slices < 1 {
		return fmt.Errorf("twap slices must be at least 1")
	}
	if c.Trading.TWAP.IntervalSec < 0 {
		return fmt.Errorf("twap interval must not be negative")
	}
	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv replaces credentials with environment variables when set.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("TRADING_API_KEY"); key != "" {
		cfg.API.Binance.APIKey = key
	}
	if secret := os.Getenv("TRADING_API_SECRET"); secret != "" {
		cfg.API.Binance.APISecret = secret
	}
}

// applyDefaults fills strategy parameters the file may omit.
func applyDefaults(cfg *Config) {
	if cfg.Trading.DefaultTickSize == "" {
		cfg.Trading.DefaultTickSize = "0.01"
	}
	if cfg.Trading.RecvWindowMS == 0 {
		cfg.Trading.RecvWindowMS = 5000
	}
	if cfg.Trading.Grid.Levels == 0 {
		cfg.Trading.Grid.Levels = 5
	}
	if cfg.Trading.Grid.Percent == "" {
		cfg.Trading.Grid.Percent = "2.0"
	}
	if cfg.Trading.TWAP.Slices == 0 {
		cfg.Trading.TWAP.Slices = 5
	}
	if cfg.Trading.TWAP.IntervalSec == 0 {
		cfg.Trading.TWAP.IntervalSec = 60
	}
}

// DefaultTick returns the parsed default tick size. Validate has already
// rejected unparseable values, so errors collapse to zero here.
func (c *Config) DefaultTick() decimal.Decimal {
	tick, _ := decimal.NewFromString(c.Trading.DefaultTickSize)
	return tick
}

// GridPercent returns the parsed default grid spacing percent.
func (c *Config) GridPercent() decimal.Decimal {
	pct, _ := decimal.NewFromString(c.Trading.Grid.Percent)
	return pct
}
