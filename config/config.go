// Package config loads paperdesk configuration from a YAML file or CLI
// flags. Vendor credentials come from the environment and can be
// overridden in the file.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderFinnhub      = "finnhub"
	ProviderAlphaVantage = "alphavantage"

	defaultListenAddr   = ":8080"
	defaultQuoteTimeout = 10 * time.Second
	defaultStateDir     = "./data"
	defaultJournalDir   = "./data/journal"
)

// Config is the resolved runtime configuration.
type Config struct {
	ListenAddr      string
	Provider        string
	FinnhubToken    string
	AlphaVantageKey string
	QuoteTimeout    time.Duration
	StateDir        string
	JournalDir      string
}

type configYaml struct {
	ListenAddr      string        `yaml:"listen_addr,omitempty"`
	Provider        string        `yaml:"provider,omitempty"`
	FinnhubToken    string        `yaml:"finnhub_token,omitempty"`
	AlphaVantageKey string        `yaml:"alpha_vantage_key,omitempty"`
	QuoteTimeout    time.Duration `yaml:"quote_timeout,omitempty"`
	StateDir        string        `yaml:"state_dir,omitempty"`
	JournalDir      string        `yaml:"journal_dir,omitempty"`
}

// Get resolves configuration: flags first, then the YAML file when
// --config is given, with env vars filling vendor credentials left empty.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	listen := flag.String("listen", defaultListenAddr, "HTTP listen address")
	provider := flag.String("provider", ProviderFinnhub, "market data provider: finnhub or alphavantage")
	quoteTimeout := flag.Duration("quote-timeout", defaultQuoteTimeout, "per-symbol quote fetch timeout")
	stateDir := flag.String("state-dir", defaultStateDir, "directory for the ledger state file")
	flag.Parse()

	cfg := Config{
		ListenAddr:   *listen,
		Provider:     *provider,
		QuoteTimeout: *quoteTimeout,
		StateDir:     *stateDir,
		JournalDir:   defaultJournalDir,
	}

	if *configPath != "" {
		if err := applyYaml(&cfg, *configPath); err != nil {
			return Config{}, err
		}
	}

	if cfg.FinnhubToken == "" {
		cfg.FinnhubToken = os.Getenv("FINNHUB_TOKEN")
	}
	if cfg.AlphaVantageKey == "" {
		cfg.AlphaVantageKey = os.Getenv("ALPHAVANTAGE_API_KEY")
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WriteFile saves the configuration as YAML, used by the setup wizard.
func (c Config) WriteFile(path string) error {
	out := configYaml{
		ListenAddr:      c.ListenAddr,
		Provider:        c.Provider,
		FinnhubToken:    c.FinnhubToken,
		AlphaVantageKey: c.AlphaVantageKey,
		QuoteTimeout:    c.QuoteTimeout,
		StateDir:        c.StateDir,
		JournalDir:      c.JournalDir,
	}
	payload, err := yaml.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

func applyYaml(cfg *Config, path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fileCfg configYaml
	if err := yaml.Unmarshal(payload, &fileCfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fileCfg.ListenAddr != "" {
		cfg.ListenAddr = fileCfg.ListenAddr
	}
	if fileCfg.Provider != "" {
		cfg.Provider = fileCfg.Provider
	}
	if fileCfg.FinnhubToken != "" {
		cfg.FinnhubToken = fileCfg.FinnhubToken
	}
	if fileCfg.AlphaVantageKey != "" {
		cfg.AlphaVantageKey = fileCfg.AlphaVantageKey
	}
	if fileCfg.QuoteTimeout > 0 {
		cfg.QuoteTimeout = fileCfg.QuoteTimeout
	}
	if fileCfg.StateDir != "" {
		cfg.StateDir = fileCfg.StateDir
	}
	if fileCfg.JournalDir != "" {
		cfg.JournalDir = fileCfg.JournalDir
	}
	return nil
}

func (c Config) validate() error {
	switch c.Provider {
	case ProviderFinnhub, ProviderAlphaVantage:
	default:
		return fmt.Errorf("unsupported market data provider: %q", c.Provider)
	}
	if c.QuoteTimeout <= 0 {
		return fmt.Errorf("quote timeout must be positive, got %s", c.QuoteTimeout)
	}
	if c.StateDir == "" {
		return fmt.Errorf("state dir is required")
	}
	return nil
}
