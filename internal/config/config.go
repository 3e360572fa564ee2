package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Get returns the env value or a fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustGet returns the env value or exits; used for values the service
// cannot run without.
func MustGet(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("missing required env %s", key)
	}
	return v
}

// GetInt parses an integer env value, falling back on absence or a
// value that does not parse.
func GetInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("env %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

// GetDuration parses a duration env value ("60s", "2m"), falling back
// on absence or a value that does not parse.
func GetDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("env %s=%q is not a duration, using %s", key, v, fallback)
		return fallback
	}
	return d
}
