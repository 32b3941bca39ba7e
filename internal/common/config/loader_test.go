// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
camunda:
  broker_address: "localhost:26500"
database:
  postgres:
    host: "localhost"
    database: "business_validation"
`

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfigFile(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "validation-workers", cfg.App.Name)
	assert.Equal(t, 9090, cfg.App.MetricsPort)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "localhost:6379", cfg.Database.Redis.Address)
	assert.Equal(t, 300, cfg.Database.Redis.CacheTTL)
	assert.Equal(t, 0.7, cfg.GenAI.ScoringTemperature)
	assert.Equal(t, 0.8, cfg.GenAI.CreativeTemperature)
	assert.Equal(t, 4, cfg.Personas.DefaultCount)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_GENAI_KEY", "sk-expanded")

	cfg, err := LoadFromFile(writeConfigFile(t, minimalConfig+`
genai:
  base_url: "https://api.example.com"
  api_key: "${TEST_GENAI_KEY}"
`))
	require.NoError(t, err)
	assert.Equal(t, "sk-expanded", cfg.GenAI.APIKey)
}

func TestLoadFromFile_EnvOverridesEmptyValues(t *testing.T) {
	t.Setenv("DB_USER", "validator")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := LoadFromFile(writeConfigFile(t, minimalConfig))
	require.NoError(t, err)
	assert.Equal(t, "validator", cfg.Database.Postgres.User)
	assert.Equal(t, "secret", cfg.Database.Postgres.Password)
}

func TestLoadFromFile_MissingBroker(t *testing.T) {
	_, err := LoadFromFile(writeConfigFile(t, `
database:
  postgres:
    host: "localhost"
    database: "business_validation"
`))
	assert.ErrorContains(t, err, "camunda.broker_address is required")
}

func TestLoadFromFile_TemperatureOutOfRange(t *testing.T) {
	_, err := LoadFromFile(writeConfigFile(t, minimalConfig+`
genai:
  scoring_temperature: 3.5
`))
	assert.ErrorContains(t, err, "scoring_temperature out of range")
}

func TestGetDSN(t *testing.T) {
	p := PostgresConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "validator",
		Password: "secret",
		Database: "business_validation",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=validator password=secret dbname=business_validation sslmode=require",
		p.GetDSN())
}
