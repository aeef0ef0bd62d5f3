// Package config loads settings from the environment and an optional .env file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvToken       = "GITHUB_TOKEN"
	EnvAPIURL      = "GITHUB_API_URL"
	EnvMaxInFlight = "ORG_STATS_MAX_IN_FLIGHT"
	EnvConcurrency = "ORG_STATS_CONCURRENCY"
	EnvRPS         = "ORG_STATS_RPS"
)

// Config holds the credential, API endpoint and fan-out limits of a run.
type Config struct {
	Token             string
	APIURL            string
	PageSize          int
	MaxInFlight       int
	Concurrency       int
	RequestsPerSecond float64
}

// Load reads .env files (if any) into the environment and builds a Config.
// A missing .env file is not an error; a malformed one or a malformed number is.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	maxInFlight, err := getEnvInt(EnvMaxInFlight, 16)
	if err != nil {
		return Config{}, err
	}
	concurrency, err := getEnvInt(EnvConcurrency, 16)
	if err != nil {
		return Config{}, err
	}
	rps, err := getEnvFloat(EnvRPS, 0)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Token:             os.Getenv(EnvToken),
		APIURL:            os.Getenv(EnvAPIURL),
		PageSize:          100,
		MaxInFlight:       maxInFlight,
		Concurrency:       concurrency,
		RequestsPerSecond: rps,
	}, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &InvalidValueError{Key: key, Value: value, Err: err}
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &InvalidValueError{Key: key, Value: value, Err: err}
	}
	return f, nil
}

// InvalidValueError reports an environment variable that could not be parsed.
type InvalidValueError struct {
	Key   string
	Value string
	Err   error
}

func (e *InvalidValueError) Error() string {
	return "invalid value " + strconv.Quote(e.Value) + " for " + e.Key + ": " + e.Err.Error()
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}
