package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Equal(t, 200, cfg.Directory.MaxPages)
	assert.Equal(t, 10*time.Second, cfg.Directory.PageTimeout)
	assert.Less(t, cfg.Directory.SearchTimeout, cfg.WriteTimeout)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Admin.Enabled())
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"PORT":                   "9000",
		"REDIS_ADDR":             "localhost:6379",
		"REDIS_DB":               "2",
		"DIRECTORY_MAX_PAGES":    "5",
		"DIRECTORY_PAGE_TIMEOUT": "2s",
		"COOKIE_SECURE":          "true",
		"ADMIN_USERNAME":         "root",
		"ADMIN_PASSWORD":         "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 5, cfg.Directory.MaxPages)
	assert.Equal(t, 2*time.Second, cfg.Directory.PageTimeout)
	assert.True(t, cfg.Session.CookieSecure)
	assert.True(t, cfg.Admin.Enabled())
}

func TestFromLookup_InvalidValuesAreReported(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"REDIS_DB":    "two",
		"SESSION_TTL": "a week",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
	assert.Contains(t, err.Error(), "SESSION_TTL")
}

func TestFromLookup_DatabaseRequiresSessionSecret(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"DB_DSN": "postgres://localhost/petvet",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestFromLookup_SearchTimeoutBelowWriteTimeout(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"HTTP_WRITE_TIMEOUT":       "30s",
		"DIRECTORY_SEARCH_TIMEOUT": "20s",
	}))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 20*time.Second, cfg.Directory.SearchTimeout)

	_, err = FromLookup(lookupFrom(map[string]string{
		"HTTP_WRITE_TIMEOUT":       "30s",
		"DIRECTORY_SEARCH_TIMEOUT": "45s",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DIRECTORY_SEARCH_TIMEOUT")
}
