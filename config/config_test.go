package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chtmp runs the test from an empty directory so no stray config.yaml from
// the repo root leaks into the loader.
func chtmp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chtmp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "scraperapi", cfg.Scraper.Provider)
	assert.Equal(t, "true", cfg.Scraper.Render)
	assert.Equal(t, "desktop", cfg.Scraper.Device)
	assert.Equal(t, 30*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, "https://dummyjson.com/products", cfg.Dataset.DummyJSONBaseURL)
	assert.Equal(t, "https://fakestoreapi.com/products", cfg.Dataset.FakeStoreBaseURL)
	assert.Equal(t, 30*time.Second, cfg.Dataset.Timeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	chtmp(t)

	t.Setenv("IMPORTER_SERVER_ENVIRONMENT", "production")
	t.Setenv("IMPORTER_SCRAPER_PROVIDER", "apify")
	t.Setenv("IMPORTER_SCRAPER_API_KEY", "test-key")
	t.Setenv("IMPORTER_SCRAPER_ACTOR_WEBHOOK", "https://hooks.example.com/actor")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Server.Environment)
	assert.Equal(t, "apify", cfg.Scraper.Provider)
	assert.Equal(t, "test-key", cfg.Scraper.APIKey)
	assert.Equal(t, "https://hooks.example.com/actor", cfg.Scraper.ActorWebhook)
}

func TestScraperConfigCarriesEnvironment(t *testing.T) {
	chtmp(t)

	t.Setenv("IMPORTER_SERVER_ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Scraper.Environment)
}

func TestLoadRejectsUnknownEnvironment(t *testing.T) {
	chtmp(t)

	t.Setenv("IMPORTER_SERVER_ENVIRONMENT", "staging")

	cfg, err := Load()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment must be")
}

func TestLoadFromConfigFile(t *testing.T) {
	chtmp(t)

	yaml := []byte(`
server:
  environment: development
scraper:
  provider: scrapingbee
  api_key: file-key
  timeout: 10s
dataset:
  timeout: 5s
`)
	require.NoError(t, os.WriteFile("config.yaml", yaml, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "scrapingbee", cfg.Scraper.Provider)
	assert.Equal(t, "file-key", cfg.Scraper.APIKey)
	assert.Equal(t, 10*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Dataset.Timeout)
}
