package hcloud

import (
	"os"
	"testing"
	"time"
)

func TestLoadTimeouts_Defaults(t *testing.T) {
	clearTimeoutEnvVars()

	timeouts := LoadTimeouts()

	if timeouts.ServerCreate != 10*time.Minute {
		t.Errorf("expected ServerCreate default 10m, got %v", timeouts.ServerCreate)
	}
	if timeouts.Delete != 5*time.Minute {
		t.Errorf("expected Delete default 5m, got %v", timeouts.Delete)
	}
	if timeouts.RetryAttempts != 5 {
		t.Errorf("expected RetryAttempts default 5, got %d", timeouts.RetryAttempts)
	}
	if timeouts.RetryDelay != time.Second {
		t.Errorf("expected RetryDelay default 1s, got %v", timeouts.RetryDelay)
	}
}

func TestLoadTimeouts_EnvVars(t *testing.T) {
	t.Setenv("SLIPWAY_HCLOUD_TIMEOUT_SERVER_CREATE", "15m")
	t.Setenv("SLIPWAY_HCLOUD_TIMEOUT_DELETE", "3m")
	t.Setenv("SLIPWAY_HCLOUD_RETRY_ATTEMPTS", "10")
	t.Setenv("SLIPWAY_HCLOUD_RETRY_DELAY", "2s")

	timeouts := LoadTimeouts()

	if timeouts.ServerCreate != 15*time.Minute {
		t.Errorf("expected ServerCreate 15m, got %v", timeouts.ServerCreate)
	}
	if timeouts.Delete != 3*time.Minute {
		t.Errorf("expected Delete 3m, got %v", timeouts.Delete)
	}
	if timeouts.RetryAttempts != 10 {
		t.Errorf("expected RetryAttempts 10, got %d", timeouts.RetryAttempts)
	}
	if timeouts.RetryDelay != 2*time.Second {
		t.Errorf("expected RetryDelay 2s, got %v", timeouts.RetryDelay)
	}
}

func TestLoadTimeouts_InvalidEnvVars(t *testing.T) {
	t.Setenv("SLIPWAY_HCLOUD_TIMEOUT_SERVER_CREATE", "soon")
	t.Setenv("SLIPWAY_HCLOUD_RETRY_ATTEMPTS", "not-a-number")

	timeouts := LoadTimeouts()

	if timeouts.ServerCreate != 10*time.Minute {
		t.Errorf("expected ServerCreate default for invalid value, got %v", timeouts.ServerCreate)
	}
	if timeouts.RetryAttempts != 5 {
		t.Errorf("expected RetryAttempts default for invalid value, got %d", timeouts.RetryAttempts)
	}
}

func TestLoadTimeouts_RejectsNonPositiveAttempts(t *testing.T) {
	t.Setenv("SLIPWAY_HCLOUD_RETRY_ATTEMPTS", "0")

	timeouts := LoadTimeouts()
	if timeouts.RetryAttempts != 5 {
		t.Errorf("expected RetryAttempts default for zero value, got %d", timeouts.RetryAttempts)
	}
}

func TestLoadTimeouts_PartialEnvVars(t *testing.T) {
	clearTimeoutEnvVars()
	t.Setenv("SLIPWAY_HCLOUD_TIMEOUT_DELETE", "90s")

	timeouts := LoadTimeouts()

	if timeouts.Delete != 90*time.Second {
		t.Errorf("expected Delete 90s, got %v", timeouts.Delete)
	}
	if timeouts.ServerCreate != 10*time.Minute {
		t.Errorf("expected ServerCreate default 10m, got %v", timeouts.ServerCreate)
	}
}

func clearTimeoutEnvVars() {
	_ = os.Unsetenv("SLIPWAY_HCLOUD_TIMEOUT_SERVER_CREATE")
	_ = os.Unsetenv("SLIPWAY_HCLOUD_TIMEOUT_DELETE")
	_ = os.Unsetenv("SLIPWAY_HCLOUD_RETRY_ATTEMPTS")
	_ = os.Unsetenv("SLIPWAY_HCLOUD_RETRY_DELAY")
}
