package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyYamlOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Config{
		ListenAddr:   defaultListenAddr,
		Provider:     ProviderFinnhub,
		QuoteTimeout: defaultQuoteTimeout,
		StateDir:     defaultStateDir,
		JournalDir:   defaultJournalDir,
	}
	saved := Config{
		ListenAddr:      ":9000",
		Provider:        ProviderAlphaVantage,
		AlphaVantageKey: "secret",
		QuoteTimeout:    3 * time.Second,
		StateDir:        "/tmp/ledger",
		JournalDir:      "/tmp/journal",
	}
	require.NoError(t, saved.WriteFile(path))

	require.NoError(t, applyYaml(&cfg, path))
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, ProviderAlphaVantage, cfg.Provider)
	assert.Equal(t, "secret", cfg.AlphaVantageKey)
	assert.Equal(t, 3*time.Second, cfg.QuoteTimeout)
	assert.Equal(t, "/tmp/ledger", cfg.StateDir)
	assert.Equal(t, "/tmp/journal", cfg.JournalDir)
}

func TestApplyYamlKeepsDefaultsForMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, Config{Provider: ProviderFinnhub}.WriteFile(path))

	cfg := Config{
		ListenAddr:   defaultListenAddr,
		Provider:     ProviderFinnhub,
		QuoteTimeout: defaultQuoteTimeout,
		StateDir:     defaultStateDir,
		JournalDir:   defaultJournalDir,
	}
	require.NoError(t, applyYaml(&cfg, path))
	assert.Equal(t, defaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, defaultQuoteTimeout, cfg.QuoteTimeout)
}

func TestValidate(t *testing.T) {
	valid := Config{Provider: ProviderFinnhub, QuoteTimeout: time.Second, StateDir: "./data"}
	assert.NoError(t, valid.validate())

	badProvider := valid
	badProvider.Provider = "bloomberg"
	assert.Error(t, badProvider.validate())

	badTimeout := valid
	badTimeout.QuoteTimeout = 0
	assert.Error(t, badTimeout.validate())

	noStateDir := valid
	noStateDir.StateDir = ""
	assert.Error(t, noStateDir.validate())
}
