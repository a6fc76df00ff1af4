package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the importer
type Config struct {
	Server  ServerConfig
	Scraper ScraperConfig
	Dataset DatasetConfig
}

// ServerConfig holds environment-level configuration
type ServerConfig struct {
	Environment string `mapstructure:"environment"`
}

// ScraperConfig holds scraping-provider configuration. Which fields are
// required depends on the selected provider; the provider adapters validate
// their own keys at call time.
type ScraperConfig struct {
	Provider     string        `mapstructure:"provider"`
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Render       string        `mapstructure:"render"`
	Device       string        `mapstructure:"device"`
	CountryCode  string        `mapstructure:"country_code"`
	Autoparse    string        `mapstructure:"autoparse"`
	RenderJS     string        `mapstructure:"render_js"`
	PremiumProxy string        `mapstructure:"premium_proxy"`
	ActorWebhook string        `mapstructure:"actor_webhook"`
	ActorToken   string        `mapstructure:"actor_token"`
	Timeout      time.Duration `mapstructure:"timeout"`

	// Environment mirrors Server.Environment so a ScraperConfig is
	// self-contained when handed to the adapter registry.
	Environment string `mapstructure:"-"`
}

// DatasetConfig holds demo dataset API configuration
type DatasetConfig struct {
	DummyJSONBaseURL string        `mapstructure:"dummyjson_base_url"`
	FakeStoreBaseURL string        `mapstructure:"fakestore_base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/importer/")

	v.SetEnvPrefix("IMPORTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	config.Scraper.Environment = config.Server.Environment

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.environment", "development")

	v.SetDefault("scraper.provider", "scraperapi")
	v.SetDefault("scraper.api_key", "")
	v.SetDefault("scraper.base_url", "")
	v.SetDefault("scraper.render", "true")
	v.SetDefault("scraper.device", "desktop")
	v.SetDefault("scraper.country_code", "")
	v.SetDefault("scraper.autoparse", "")
	v.SetDefault("scraper.render_js", "false")
	v.SetDefault("scraper.premium_proxy", "")
	v.SetDefault("scraper.actor_webhook", "")
	v.SetDefault("scraper.actor_token", "")
	v.SetDefault("scraper.timeout", "30s")

	v.SetDefault("dataset.dummyjson_base_url", "https://dummyjson.com/products")
	v.SetDefault("dataset.fakestore_base_url", "https://fakestoreapi.com/products")
	v.SetDefault("dataset.timeout", "30s")
}

// validate validates the configuration
func validate(config *Config) error {
	env := config.Server.Environment
	if env != "development" && env != "production" {
		return fmt.Errorf("environment must be 'development' or 'production', got: %s", env)
	}

	if config.Scraper.Provider == "" {
		return fmt.Errorf("scraper provider is required (set IMPORTER_SCRAPER_PROVIDER)")
	}

	if config.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper timeout must be positive, got: %s", config.Scraper.Timeout)
	}

	if config.Dataset.Timeout <= 0 {
		return fmt.Errorf("dataset timeout must be positive, got: %s", config.Dataset.Timeout)
	}

	return nil
}
