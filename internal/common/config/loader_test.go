package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  redis:
    address: localhost:6379
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "travelbot", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "DTW", cfg.Wizard.DefaultOrigin)
	assert.Equal(t, 10, cfg.Wizard.HotelRadiusKM)
	assert.Equal(t, 5.0, cfg.Wizard.ActivityRadiusKM)
	assert.Equal(t, "gpt-4o", cfg.APIs.LLM.Model)
	assert.Equal(t, 0.3, cfg.APIs.LLM.Temperature)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.APIs.Geocoding.BaseURL)
	assert.Equal(t, 1, cfg.APIs.Geocoding.MaxRetries)
	assert.Equal(t, "amadeus", cfg.Providers.AirportLookup)
	assert.Equal(t, "travelbot:session:", cfg.Session.KeyPrefix)
	assert.False(t, cfg.Database.Postgres.Enabled())
	assert.False(t, cfg.Notifications.Enabled())
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("TEST_AMADEUS_ID", "client-123")

	path := writeConfig(t, `
database:
  redis:
    address: ${TEST_REDIS_ADDR}
apis:
  amadeus:
    client_id: ${TEST_AMADEUS_ID}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6380", cfg.Database.Redis.Address)
	assert.Equal(t, "client-123", cfg.APIs.Amadeus.ClientID)
}

func TestLoadFromFile_UnsetPlaceholderDisablesBackend(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "")

	path := writeConfig(t, `
database:
  redis:
    address: localhost:6379
  postgres:
    host: ${TEST_DB_HOST}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Database.Postgres.Host)
	assert.False(t, cfg.Database.Postgres.Enabled())
}

func TestLoadFromFile_ProviderRetries(t *testing.T) {
	path := writeConfig(t, `
database:
  redis:
    address: localhost:6379
apis:
  llm:
    max_retries: 4
  amadeus:
    max_retries: 3
  geocoding:
    max_retries: 5
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.APIs.LLM.MaxRetries)
	assert.Equal(t, 3, cfg.APIs.Amadeus.MaxRetries)
	assert.Equal(t, 5, cfg.APIs.Geocoding.MaxRetries)
}

func TestLoadFromFile_OverridesEmptySecrets(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AMADEUS_CLIENT_SECRET", "shh")

	path := writeConfig(t, `
database:
  redis:
    address: localhost:6379
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.APIs.LLM.APIKey)
	assert.Equal(t, "shh", cfg.APIs.Amadeus.ClientSecret)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing redis",
			body:    "app:\n  name: travelbot\n",
			wantErr: "database.redis.address is required",
		},
		{
			name: "elasticsearch lookup without cluster",
			body: `
database:
  redis:
    address: localhost:6379
providers:
  airport_lookup: elasticsearch
`,
			wantErr: "database.elasticsearch",
		},
		{
			name: "unknown lookup",
			body: `
database:
  redis:
    address: localhost:6379
providers:
  airport_lookup: sabre
`,
			wantErr: "providers.airport_lookup",
		},
		{
			name: "postgres without user",
			body: `
database:
  redis:
    address: localhost:6379
  postgres:
    host: localhost
    database: travelbot
`,
			wantErr: "database.postgres.user is required",
		},
		{
			name: "email without sender",
			body: `
database:
  redis:
    address: localhost:6379
notifications:
  email:
    enabled: true
`,
			wantErr: "from_email",
		},
		{
			name: "bad origin",
			body: `
database:
  redis:
    address: localhost:6379
wizard:
  default_origin: DETROIT
`,
			wantErr: "default_origin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_USER", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "travel", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=travel sslmode=disable", p.GetDSN())
}

func TestElasticsearchConfig_GetURL(t *testing.T) {
	assert.Equal(t, "http://a:9200", ElasticsearchConfig{Addresses: []string{"http://a:9200"}}.GetURL())
	assert.Equal(t, "http://u:9200", ElasticsearchConfig{URL: "http://u:9200", Addresses: []string{"http://a:9200"}}.GetURL())
	assert.Empty(t, ElasticsearchConfig{}.GetURL())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
