package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_TypesenseConfig(t *testing.T) {
	t.Setenv("TYPESENSE_URL", "http://test-typesense:8108")
	t.Setenv("TYPESENSE_API_KEY", "test-key")
	t.Setenv("TYPESENSE_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://test-typesense:8108", cfg.Typesense.URL)
	assert.Equal(t, "test-key", cfg.Typesense.APIKey)
	assert.True(t, cfg.Typesense.Enabled)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8108", cfg.Typesense.URL)
	assert.Equal(t, "products", cfg.Typesense.Collection)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.Search.SpellingTimeout)
	assert.Equal(t, 1, cfg.Search.FoodModuleID)
	assert.Equal(t, 32, cfg.Search.MaxExpansionTerms)
	assert.Equal(t, 500, cfg.Similarity.BatchSize)
	assert.Zero(t, cfg.Similarity.Interval)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_SearchOverrides(t *testing.T) {
	t.Setenv("SPELLING_TIMEOUT", "750ms")
	t.Setenv("SEARCH_FOOD_MODULE_ID", "7")
	t.Setenv("SIMILARITY_INTERVAL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 750*time.Millisecond, cfg.Search.SpellingTimeout)
	assert.Equal(t, 7, cfg.Search.FoodModuleID)
	assert.Equal(t, time.Hour, cfg.Similarity.Interval)
}

func TestLoad_InvalidPoolSize(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=d sslmode=disable", c.DatabaseDSN())
}
