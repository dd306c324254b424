// Package config loads the settings of a live session from a YAML file and the environment.
package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rxtech-lab/dionysus/internal/trading"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load. They override the file.
const (
	EnvBinanceAPIKey    = "BINANCE_API_KEY"
	EnvBinanceSecretKey = "BINANCE_SECRET_KEY"
	EnvBinanceTestnet   = "BINANCE_TESTNET"
	EnvPolygonAPIKey    = "POLYGON_API_KEY"
	EnvLogLevel         = "DIONYSUS_LOG_LEVEL"
)

const (
	ExchangePaper   = "paper"
	ExchangeBinance = "binance"
)

// Config holds the settings of the run command.
type Config struct {
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
	// Capital is the free capital given to every new agent.
	Capital float64 `yaml:"capital" validate:"gt=0"`
	// Tokens are traded with the default strategy unless Records names them.
	Tokens []string `yaml:"tokens" validate:"dive,required"`
	// Records is a strategy record file loaded at start and saved on exit.
	Records     string         `yaml:"records"`
	MetricsAddr string         `yaml:"metrics_addr"`
	Store       StoreConfig    `yaml:"store"`
	Feed        FeedConfig     `yaml:"feed"`
	Exchange    ExchangeConfig `yaml:"exchange"`

	PolygonAPIKey string `yaml:"-"`
}

type StoreConfig struct {
	// Path of the DuckDB database. Empty keeps samples in memory.
	Path string `yaml:"path"`
}

type FeedConfig struct {
	PoolSize   int  `yaml:"pool_size" validate:"gte=0"`
	BufferSize int  `yaml:"buffer_size" validate:"gte=0"`
	Depth      int  `yaml:"depth" validate:"oneof=5 10 20"`
	Ticks      bool `yaml:"ticks"`
	// TouchInterval is how often queued events are applied, e.g. "1s".
	TouchInterval string `yaml:"touch_interval" validate:"required"`
}

type ExchangeConfig struct {
	Mode              string  `yaml:"mode" validate:"oneof=paper binance"`
	Testnet           bool    `yaml:"testnet"`
	BaseURL           string  `yaml:"base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gt=0"`

	APIKey    string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

// Default returns a paper trading configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Capital:  1000,
		Feed: FeedConfig{
			PoolSize:      8,
			BufferSize:    1024,
			Depth:         5,
			TouchInterval: "1s",
		},
		Exchange: ExchangeConfig{
			Mode:              ExchangePaper,
			RequestsPerSecond: 10,
		},
	}
}

// Load reads path over the defaults, then the environment. Variables in envFiles are
// loaded first when the files exist. An empty path skips the file.
func Load(path string, envFiles ...string) (Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config %s", path)
		}
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}

		if err := godotenv.Load(file); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to load %s", file)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c *Config) applyEnv() {
	if value := os.Getenv(EnvBinanceAPIKey); value != "" {
		c.Exchange.APIKey = value
	}

	if value := os.Getenv(EnvBinanceSecretKey); value != "" {
		c.Exchange.SecretKey = value
	}

	if value, err := strconv.ParseBool(os.Getenv(EnvBinanceTestnet)); err == nil {
		c.Exchange.Testnet = value
	}

	if value := os.Getenv(EnvPolygonAPIKey); value != "" {
		c.PolygonAPIKey = value
	}

	if value := os.Getenv(EnvLogLevel); value != "" {
		c.LogLevel = value
	}
}

// Validate checks field constraints, token syntax and exchange credentials.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if _, err := c.ParsedTokens(); err != nil {
		return err
	}

	if c.Exchange.Mode == ExchangeBinance {
		binance := c.BinanceConfig()
		if err := binance.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ParsedTokens parses Tokens. Every token must be a pair.
func (c *Config) ParsedTokens() ([]types.Token, error) {
	tokens := make([]types.Token, 0, len(c.Tokens))

	for _, text := range c.Tokens {
		token, err := types.ParseToken(text)
		if err != nil {
			return nil, err
		}

		if !token.IsPair() {
			return nil, errors.Newf(errors.ErrCodeInvalidToken, "token %q is not a pair", text)
		}

		tokens = append(tokens, token)
	}

	return tokens, nil
}

// BinanceConfig returns the exchange credentials for the Binance trader.
func (c *Config) BinanceConfig() trading.BinanceConfig {
	return trading.BinanceConfig{
		APIKey:    c.Exchange.APIKey,
		SecretKey: c.Exchange.SecretKey,
		BaseURL:   c.Exchange.BaseURL,
		Testnet:   c.Exchange.Testnet,
	}
}
