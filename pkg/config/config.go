/*
Package config manages TOML config for weathrly.

The file is created with defaults on first run. A malformed file is parsed
section by section so one bad value does not discard the rest. Provider
credentials can come from the environment, which always wins over the file:

	OPENWEATHER_API_KEY
	OPENWEATHER_API_BASE_URL
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/weathrly/internal/utils"
	"github.com/charmbracelet/log"
)

const (
	EnvAPIKey  = "OPENWEATHER_API_KEY"
	EnvBaseURL = "OPENWEATHER_API_BASE_URL"
)

// Config holds the entire config structure
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Weather WeatherConfig `toml:"weather"`
	Catalog CatalogConfig `toml:"catalog"`
	CLI     CliConfig     `toml:"cli"`
}

// ServerConfig has HTTP and IPC options.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	MaxLimit   int    `toml:"max_limit"`
	MaxPrefix  int    `toml:"max_prefix"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// WeatherConfig holds provider settings.
type WeatherConfig struct {
	APIKey     string `toml:"api_key"`
	BaseURL    string `toml:"base_url"`
	TimeoutSec int    `toml:"timeout_sec"`
	// ProxyURL makes the terminal client go through a running weathrly server instead of the provider.
	ProxyURL string `toml:"proxy_url"`
}

// CatalogConfig points at an alternative city dataset.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// CliConfig holds terminal options.
type CliConfig struct {
	DefaultCity string `toml:"default_city"`
	ShowPopular bool   `toml:"show_popular"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":8080",
			MaxLimit:   7,
			MaxPrefix:  60,
			TimeoutSec: 10,
		},
		Weather: WeatherConfig{
			BaseURL:    "https://api.openweathermap.org",
			TimeoutSec: 10,
		},
		CLI: CliConfig{
			DefaultCity: "cape town",
			ShowPopular: true,
		},
	}
}

// Timeout returns the provider timeout as a duration.
func (w WeatherConfig) Timeout() time.Duration {
	return time.Duration(w.TimeoutSec) * time.Second
}

// Timeout returns the HTTP server read/write timeout.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// ApplyEnv overrides provider credentials with environment values when set.
func (c *Config) ApplyEnv() {
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.Weather.APIKey = key
	}
	if base := os.Getenv(EnvBaseURL); base != "" {
		c.Weather.BaseURL = base
	}
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/weathrly/config.toml
// 3. Builtin defaults
// Environment overrides are applied to whichever config wins.
func LoadConfigWithPriority(customPath string, resolver *utils.PathResolver) (*Config, string) {
	config, path := loadConfig(customPath, resolver)
	config.ApplyEnv()
	return config, path
}

func loadConfig(customPath string, resolver *utils.PathResolver) (*Config, string) {
	if customPath != "" {
		if _, statErr := os.Stat(customPath); statErr == nil {
			config, err := LoadConfig(customPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customPath)
				return config, customPath
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customPath, statErr)
		}
	}

	if resolver == nil {
		return DefaultConfig(), ""
	}
	defaultPath, err := resolver.GetConfigPath("config.toml")
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), ""
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return InitConfig(defaultPath), defaultPath
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) *Config {
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		log.Warnf("Failed to create config directory for %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig()
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig()
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig()
	}
	return config
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.DecodeTOMLFile(configPath, config); err != nil {
		log.Warnf("TOML parsing error in config file %s: %v. Attempting partial recovery...", configPath, err)
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps whatever values survive a failed strict decode.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	raw, err := utils.DecodeTOMLTable(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if t, ok := raw.Sub("server"); ok {
		extractServerConfig(t, &config.Server)
	}
	if t, ok := raw.Sub("weather"); ok {
		extractWeatherConfig(t, &config.Weather)
	}
	if t, ok := raw.Sub("catalog"); ok {
		if val, ok := utils.Value[string](t, "path"); ok {
			config.Catalog.Path = val
		}
	}
	if t, ok := raw.Sub("cli"); ok {
		extractCliConfig(t, &config.CLI)
	}
	return config, nil
}

func extractServerConfig(t utils.Table, server *ServerConfig) {
	if val, ok := utils.Value[string](t, "addr"); ok {
		server.Addr = val
	}
	if val, ok := t.Int("max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := t.Int("max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := t.Int("timeout_sec"); ok {
		server.TimeoutSec = val
	}
}

func extractWeatherConfig(t utils.Table, weather *WeatherConfig) {
	if val, ok := utils.Value[string](t, "api_key"); ok {
		weather.APIKey = val
	}
	if val, ok := utils.Value[string](t, "base_url"); ok {
		weather.BaseURL = val
	}
	if val, ok := t.Int("timeout_sec"); ok {
		weather.TimeoutSec = val
	}
	if val, ok := utils.Value[string](t, "proxy_url"); ok {
		weather.ProxyURL = val
	}
}

func extractCliConfig(t utils.Table, cli *CliConfig) {
	if val, ok := utils.Value[string](t, "default_city"); ok {
		cli.DefaultCity = val
	}
	if val, ok := utils.Value[bool](t, "show_popular"); ok {
		cli.ShowPopular = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
