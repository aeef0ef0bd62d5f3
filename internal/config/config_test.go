package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{EnvToken, EnvAPIURL, EnvMaxInFlight, EnvConcurrency, EnvRPS} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Config{PageSize: 100, MaxInFlight: 16, Concurrency: 16}, cfg)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvToken, "s3cret")
	t.Setenv(EnvAPIURL, "https://ghe.example.com/api/v3/")
	t.Setenv(EnvMaxInFlight, "4")
	t.Setenv(EnvConcurrency, "8")
	t.Setenv(EnvRPS, "2.5")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Config{
		Token:             "s3cret",
		APIURL:            "https://ghe.example.com/api/v3/",
		PageSize:          100,
		MaxInFlight:       4,
		Concurrency:       8,
		RequestsPerSecond: 2.5,
	}, cfg)
}

func TestLoad_FromDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, even to "".
	require.NoError(t, os.Unsetenv(EnvToken))
	require.NoError(t, os.Unsetenv(EnvConcurrency))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GITHUB_TOKEN=from-file\nORG_STATS_CONCURRENCY=3\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv(EnvToken)
		os.Unsetenv(EnvConcurrency)
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Token)
	assert.Equal(t, 3, cfg.Concurrency)
}

func TestLoad_InvalidNumber(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvMaxInFlight, "many")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)

	var invalid *InvalidValueError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, EnvMaxInFlight, invalid.Key)
	assert.ErrorIs(t, err, strconv.ErrSyntax)
}
