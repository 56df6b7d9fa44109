package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func validSettings() Settings {
	return Defaults()
}

func TestValidate_Defaults(t *testing.T) {
	t.Parallel()
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("Defaults().Validate() error = %v", err)
	}
}

func TestValidate_ClusterName(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid", "my-cluster", false},
		{"empty", "", true},
		{"uppercase", "MyCluster", true},
		{"leading hyphen", "-cluster", true},
		{"trailing hyphen", "cluster-", true},
		{"double hyphen", "my--cluster", true},
		{"starts with digit", "1cluster", true},
		{"too long", strings.Repeat("a", 64), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSettings()
			s.ClusterName = tc.value
			err := s.Validate()
			if tc.wantErr && err == nil {
				t.Errorf("Validate() with cluster_name %q expected error", tc.value)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Validate() with cluster_name %q error = %v", tc.value, err)
			}
		})
	}
}

func TestValidate_Region(t *testing.T) {
	t.Parallel()
	s := validSettings()
	s.Region = "us-east-1"
	if err := s.Validate(); err == nil {
		t.Error("Validate() expected error for unknown region")
	}
}

func TestValidate_ServerType(t *testing.T) {
	t.Parallel()
	s := validSettings()
	s.ServerType = "m5.large"
	if err := s.Validate(); err == nil {
		t.Error("Validate() expected error for unknown server type")
	}
}

func TestValidate_Nodes(t *testing.T) {
	t.Parallel()
	for _, n := range []int{0, -1, 6, 100} {
		s := validSettings()
		s.Nodes = n
		if err := s.Validate(); err == nil {
			t.Errorf("Validate() expected error for nodes = %d", n)
		}
	}
	for _, n := range []int{1, 3, 5} {
		s := validSettings()
		s.Nodes = n
		if err := s.Validate(); err != nil {
			t.Errorf("Validate() with nodes = %d error = %v", n, err)
		}
	}
}

func TestValidate_Ports(t *testing.T) {
	t.Parallel()
	s := validSettings()
	s.LocalPort = 0
	if err := s.Validate(); err == nil {
		t.Error("Validate() expected error for local_port 0")
	}

	s = validSettings()
	s.RemotePort = 70000
	if err := s.Validate(); err == nil {
		t.Error("Validate() expected error for remote_port out of range")
	}
}

func TestValidate_RolloutTimeout(t *testing.T) {
	t.Parallel()
	s := validSettings()
	s.RolloutTimeout = Duration{}
	if err := s.Validate(); err == nil {
		t.Error("Validate() expected error for zero rollout_timeout")
	}
}

func TestValidate_StateBucketCredentials(t *testing.T) {
	s := validSettings()
	s.StateBucket = "my-state"

	t.Setenv("HETZNER_S3_ACCESS_KEY", "")
	t.Setenv("HETZNER_S3_SECRET_KEY", "")
	if err := s.Validate(); err == nil {
		t.Error("Validate() expected error when state_bucket set without credentials")
	}

	t.Setenv("HETZNER_S3_ACCESS_KEY", "key")
	t.Setenv("HETZNER_S3_SECRET_KEY", "secret")
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() with credentials error = %v", err)
	}
}

func TestServerType_Normalize(t *testing.T) {
	t.Parallel()
	cases := map[ServerType]ServerType{
		TypeCX22: TypeCX23,
		TypeCX32: TypeCX33,
		TypeCX42: TypeCX43,
		TypeCX23: TypeCX23,
		TypeCX43: TypeCX43,
	}
	for in, want := range cases {
		if got := in.Normalize(); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegion_ObjectStorageEndpoint(t *testing.T) {
	t.Parallel()
	got := RegionFalkenstein.ObjectStorageEndpoint()
	want := "https://fsn1.your-objectstorage.com"
	if got != want {
		t.Errorf("ObjectStorageEndpoint() = %q, want %q", got, want)
	}
}

func TestAgentCount(t *testing.T) {
	t.Parallel()
	cases := map[int]int{1: 0, 2: 1, 5: 4}
	for nodes, want := range cases {
		s := validSettings()
		s.Nodes = nodes
		if got := s.AgentCount(); got != want {
			t.Errorf("AgentCount() with nodes = %d: got %d, want %d", nodes, got, want)
		}
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	t.Parallel()
	var d Duration
	if err := yaml.Unmarshal([]byte(`"90s"`), &d); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if d.Duration != 90*time.Second {
		t.Errorf("Duration = %v, want %v", d.Duration, 90*time.Second)
	}

	if err := yaml.Unmarshal([]byte(`"not-a-duration"`), &d); err == nil {
		t.Error("Unmarshal() expected error for invalid duration")
	}
}

func TestDuration_MarshalYAML(t *testing.T) {
	t.Parallel()
	out, err := yaml.Marshal(Duration{5 * time.Minute})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.TrimSpace(string(out)) != "5m0s" {
		t.Errorf("Marshal() = %q, want %q", strings.TrimSpace(string(out)), "5m0s")
	}
}

func TestConfigError_Unwrap(t *testing.T) {
	t.Parallel()
	base := errors.New("boom")
	err := &ConfigError{Path: "slipway.yaml", Err: base}

	if !errors.Is(err, base) {
		t.Error("errors.Is() should match the wrapped error")
	}
	if !strings.Contains(err.Error(), "slipway.yaml") {
		t.Errorf("Error() = %q, want the path included", err.Error())
	}

	pathless := &ConfigError{Err: base}
	if !strings.Contains(pathless.Error(), "boom") {
		t.Errorf("Error() = %q, want the cause included", pathless.Error())
	}
}
