package hcloud

import (
	"os"
	"strconv"
	"time"
)

// Timeouts bounds the cloud operations and their retries.
type Timeouts struct {
	ServerCreate  time.Duration
	Delete        time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultTimeouts returns the values used when no environment overrides
// are present.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		ServerCreate:  10 * time.Minute,
		Delete:        5 * time.Minute,
		RetryAttempts: 5,
		RetryDelay:    time.Second,
	}
}

// LoadTimeouts reads timeout overrides from the environment. Unset or
// unparsable variables fall back to the defaults.
//
// Recognized variables:
//   - SLIPWAY_HCLOUD_TIMEOUT_SERVER_CREATE (default: 10m)
//   - SLIPWAY_HCLOUD_TIMEOUT_DELETE (default: 5m)
//   - SLIPWAY_HCLOUD_RETRY_ATTEMPTS (default: 5)
//   - SLIPWAY_HCLOUD_RETRY_DELAY (default: 1s)
func LoadTimeouts() Timeouts {
	def := DefaultTimeouts()
	return Timeouts{
		ServerCreate:  envDuration("SLIPWAY_HCLOUD_TIMEOUT_SERVER_CREATE", def.ServerCreate),
		Delete:        envDuration("SLIPWAY_HCLOUD_TIMEOUT_DELETE", def.Delete),
		RetryAttempts: envInt("SLIPWAY_HCLOUD_RETRY_ATTEMPTS", def.RetryAttempts),
		RetryDelay:    envDuration("SLIPWAY_HCLOUD_RETRY_DELAY", def.RetryDelay),
	}
}

func envDuration(name string, fallback time.Duration) time.Duration {
	val := os.Getenv(name)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return d
}

func envInt(name string, fallback int) int {
	val := os.Getenv(name)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
