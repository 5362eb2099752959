// Package config provides fail-open environment loaders and validators for
// job settings. An invalid value never aborts start-up: the default is used
// and a warning describing the fallback is returned.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadResult is a loaded configuration value. Warning is set only when the
// environment value was rejected and Value holds the default.
type LoadResult[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

func fallback[T any](envKey, raw string, err error, def T) LoadResult[T] {
	return LoadResult[T]{
		Value:           def,
		Warning:         fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'", envKey, raw, err, def),
		FallbackApplied: true,
	}
}

// LoadEnvString returns the variable or defaultValue when it is unset or empty.
func LoadEnvString(envKey, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v
	}
	return defaultValue
}

// LoadEnvWithFallback loads a string and checks it with validator (nil skips validation).
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) LoadResult[string] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return LoadResult[string]{Value: defaultValue}
	}
	if validator != nil {
		if err := validator(raw); err != nil {
			return fallback(envKey, raw, err, defaultValue)
		}
	}
	return LoadResult[string]{Value: raw}
}

// LoadEnvDuration loads a Go duration string such as "30s" or "1h30m".
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) LoadResult[time.Duration] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return LoadResult[time.Duration]{Value: defaultValue}
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback(envKey, raw, err, defaultValue)
	}
	if validator != nil {
		if err := validator(d); err != nil {
			return fallback(envKey, raw, err, defaultValue)
		}
	}
	return LoadResult[time.Duration]{Value: d}
}

// LoadEnvInt loads a base-10 integer.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) LoadResult[int] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return LoadResult[int]{Value: defaultValue}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback(envKey, raw, fmt.Errorf("invalid integer format"), defaultValue)
	}
	if validator != nil {
		if err := validator(n); err != nil {
			return fallback(envKey, raw, err, defaultValue)
		}
	}
	return LoadResult[int]{Value: n}
}

// LoadEnvBool loads a boolean in any form accepted by strconv.ParseBool.
func LoadEnvBool(envKey string, defaultValue bool) LoadResult[bool] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return LoadResult[bool]{Value: defaultValue}
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback(envKey, raw, fmt.Errorf("invalid boolean format, expected 'true' or 'false'"), defaultValue)
	}
	return LoadResult[bool]{Value: b}
}

// LoadEnvList loads a comma-separated list. Blank items are dropped and an
// unset or blank variable yields defaultValue.
func LoadEnvList(envKey string, defaultValue []string) []string {
	items := SplitList(os.Getenv(envKey))
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

// SplitList splits s on commas and trims every item, dropping blanks.
func SplitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
