package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved application configuration. Precedence per setting:
// command-line flag, IHERB_* environment variable, config.toml, default.
type Config struct {
	Country     string
	Currency    string
	NoCache     bool
	Delay       time.Duration
	Debug       bool
	BrowserPath string
	CacheDir    string
	DataDir     string
}

// Overrides carries values set explicitly on the command line. Nil fields
// defer to the lower-precedence sources.
type Overrides struct {
	Country  *string
	Currency *string
	NoCache  bool
	DelayMS  *int
	Debug    bool
}

var knownCountries = map[string]bool{
	"us": true, "ca": true, "au": true, "nz": true, "sg": true, "hk": true,
	"tw": true, "kr": true, "jp": true, "sa": true, "ae": true, "kw": true,
	"il": true, "de": true, "fr": true, "es": true, "it": true, "nl": true,
	"be": true, "at": true, "ch": true, "se": true, "no": true, "dk": true,
	"fi": true, "pl": true, "cz": true, "ie": true, "pt": true, "gr": true,
	"ru": true, "tr": true, "in": true, "th": true, "my": true, "ph": true,
	"id": true, "vn": true, "br": true, "mx": true, "cl": true, "co": true,
	"ar": true, "za": true, "eg": true, "ng": true, "ke": true, "cn": true,
}

// Load resolves configuration from all sources.
func Load(overrides Overrides) (*Config, error) {
	configDir := userDir(os.UserConfigDir, ".")
	cacheDir := userDir(os.UserCacheDir, ".cache")
	dataDir := userDir(dataHomeDir, ".local/share")

	v := viper.New()
	v.SetDefault("country", "us")
	v.SetDefault("currency", "USD")
	v.SetDefault("delay_ms", 2000)
	v.SetDefault("browser_path", "")

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; flags, env vars and defaults apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Settings in the file live under a [defaults] table. Re-registering them
	// as defaults keeps the precedence order: they beat the built-in defaults
	// set above but still lose to env vars and flags.
	for key, val := range v.GetStringMap("defaults") {
		v.SetDefault(key, val)
	}

	v.SetEnvPrefix("IHERB")
	v.AutomaticEnv()

	if overrides.Country != nil {
		v.Set("country", *overrides.Country)
	}
	if overrides.Currency != nil {
		v.Set("currency", *overrides.Currency)
	}
	if overrides.DelayMS != nil {
		v.Set("delay_ms", *overrides.DelayMS)
	}

	cfg := &Config{
		Country:     v.GetString("country"),
		Currency:    v.GetString("currency"),
		NoCache:     overrides.NoCache,
		Delay:       time.Duration(v.GetInt("delay_ms")) * time.Millisecond,
		Debug:       overrides.Debug,
		BrowserPath: v.GetString("browser_path"),
		CacheDir:    cacheDir,
		DataDir:     dataDir,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if !knownCountries[c.Country] {
		return fmt.Errorf("unknown country code %q; known codes include us, ca, de, fr, ch, au, jp, kr", c.Country)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative")
	}
	return nil
}

// BaseURL derives the site origin for the configured country subdomain.
func (c *Config) BaseURL() string {
	if c.Country == "us" {
		return "https://www.iherb.com"
	}
	return fmt.Sprintf("https://%s.iherb.com", c.Country)
}

func userDir(lookup func() (string, error), fallback string) string {
	dir, err := lookup()
	if err != nil {
		dir = fallback
	}
	return filepath.Join(dir, "iherb-cli")
}

func dataHomeDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}
