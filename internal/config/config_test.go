package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "us", cfg.Country)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, 2*time.Second, cfg.Delay)
	assert.False(t, cfg.NoCache)
	assert.False(t, cfg.Debug)
	assert.NotEmpty(t, cfg.CacheDir)
}

func TestLoadOverrides(t *testing.T) {
	country := "ch"
	currency := "CHF"
	delayMS := 500

	cfg, err := Load(Overrides{
		Country:  &country,
		Currency: &currency,
		DelayMS:  &delayMS,
		NoCache:  true,
		Debug:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, "ch", cfg.Country)
	assert.Equal(t, "CHF", cfg.Currency)
	assert.Equal(t, 500*time.Millisecond, cfg.Delay)
	assert.True(t, cfg.NoCache)
	assert.True(t, cfg.Debug)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("IHERB_COUNTRY", "de")
	t.Setenv("IHERB_CURRENCY", "EUR")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "de", cfg.Country)
	assert.Equal(t, "EUR", cfg.Currency)
}

func TestLoadFlagBeatsEnvironment(t *testing.T) {
	t.Setenv("IHERB_COUNTRY", "de")
	country := "fr"

	cfg, err := Load(Overrides{Country: &country})
	require.NoError(t, err)
	assert.Equal(t, "fr", cfg.Country)
}

func writeConfigFile(t *testing.T, content string) {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("config dir redirection relies on XDG_CONFIG_HOME")
	}
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, "iherb-cli")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))
}

func TestLoadConfigFileDefaultsTable(t *testing.T) {
	writeConfigFile(t, "[defaults]\ncountry = \"de\"\ncurrency = \"EUR\"\ndelay_ms = 750\n")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "de", cfg.Country)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, 750*time.Millisecond, cfg.Delay)
}

func TestLoadEnvironmentBeatsConfigFile(t *testing.T) {
	writeConfigFile(t, "[defaults]\ncountry = \"de\"\n")
	t.Setenv("IHERB_COUNTRY", "fr")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "fr", cfg.Country)
}

func TestLoadRejectsUnknownCountry(t *testing.T) {
	country := "zz"
	_, err := Load(Overrides{Country: &country})
	assert.ErrorContains(t, err, "unknown country code")
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		country  string
		expected string
	}{
		{country: "us", expected: "https://www.iherb.com"},
		{country: "ch", expected: "https://ch.iherb.com"},
		{country: "jp", expected: "https://jp.iherb.com"},
	}

	for _, tt := range tests {
		cfg := &Config{Country: tt.country}
		assert.Equal(t, tt.expected, cfg.BaseURL())
	}
}
