package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the resolved configuration snapshot for one slipway
// invocation. It is passed by value and never mutated after Resolve.
type Settings struct {
	// ClusterName is used for cloud resource naming and labeling.
	// Must be DNS-safe: lowercase alphanumeric and hyphens.
	ClusterName string `yaml:"cluster_name"`

	// Region is the Hetzner datacenter location.
	Region Region `yaml:"region"`

	// ServerType is the Hetzner instance type for cluster nodes.
	ServerType ServerType `yaml:"server_type"`

	// Nodes is the cluster size (1-5). The first node runs the k3s
	// server; additional nodes join as agents.
	Nodes int `yaml:"nodes"`

	// Release is the Helm release name for the application.
	Release string `yaml:"release"`

	// Namespace is the Kubernetes namespace the application runs in.
	Namespace string `yaml:"namespace"`

	// Chart is the path to the application's Helm chart.
	Chart string `yaml:"chart"`

	// ImageRepository is the container image repository deployed by the
	// chart (wired into image.repository).
	ImageRepository string `yaml:"image_repository"`

	// Tag pins the image tag. Empty means "resolve from git HEAD".
	Tag string `yaml:"tag,omitempty"`

	// LocalPort and RemotePort configure the port-forward tunnel.
	LocalPort  int `yaml:"local_port"`
	RemotePort int `yaml:"remote_port"`

	// StateDir is the working directory for provisioner state and the
	// cluster kubeconfig.
	StateDir string `yaml:"state_dir"`

	// Kubeconfig is the path to the cluster credentials file. Defaults
	// to <state_dir>/kubeconfig.
	Kubeconfig string `yaml:"kubeconfig,omitempty"`

	// RolloutTimeout bounds the post-deploy rollout wait.
	RolloutTimeout Duration `yaml:"rollout_timeout"`

	// StateBucket enables mirroring provisioner state to Hetzner Object
	// Storage. Requires HETZNER_S3_ACCESS_KEY and HETZNER_S3_SECRET_KEY.
	StateBucket string `yaml:"state_bucket,omitempty"`

	// StateEndpoint overrides the Object Storage endpoint. Defaults to
	// the endpoint of the configured region.
	StateEndpoint string `yaml:"state_endpoint,omitempty"`
}

// Overrides carries per-invocation flag values. Zero fields are unset
// and leave the underlying setting untouched.
type Overrides struct {
	ClusterName     string
	Region          string
	ServerType      string
	Nodes           int
	Release         string
	Namespace       string
	Chart           string
	ImageRepository string
	Tag             string
	LocalPort       int
	RemotePort      int
	StateDir        string
	Kubeconfig      string
	RolloutTimeout  time.Duration
}

// Region is a Hetzner datacenter location.
type Region string

const (
	// RegionNuremberg is the Nuremberg, Germany datacenter (nbg1).
	RegionNuremberg Region = "nbg1"
	// RegionFalkenstein is the Falkenstein, Germany datacenter (fsn1).
	RegionFalkenstein Region = "fsn1"
	// RegionHelsinki is the Helsinki, Finland datacenter (hel1).
	RegionHelsinki Region = "hel1"
)

// ValidRegions returns all valid regions.
func ValidRegions() []Region {
	return []Region{RegionNuremberg, RegionFalkenstein, RegionHelsinki}
}

// IsValid returns true if the region is a valid Hetzner location.
func (r Region) IsValid() bool {
	switch r {
	case RegionNuremberg, RegionFalkenstein, RegionHelsinki:
		return true
	default:
		return false
	}
}

// String returns a human-readable description of the region.
func (r Region) String() string {
	switch r {
	case RegionNuremberg:
		return "nbg1 (Nuremberg, Germany)"
	case RegionFalkenstein:
		return "fsn1 (Falkenstein, Germany)"
	case RegionHelsinki:
		return "hel1 (Helsinki, Finland)"
	default:
		return string(r)
	}
}

// ObjectStorageEndpoint returns the Hetzner Object Storage endpoint for
// this region.
func (r Region) ObjectStorageEndpoint() string {
	return "https://" + string(r) + ".your-objectstorage.com"
}

// ServerType is a Hetzner shared instance type.
// Note: Hetzner renamed server types in 2024 (cx22 → cx23, etc.).
// Both old and new names are accepted for backwards compatibility.
type ServerType string

const (
	// TypeCX22 is kept for backwards compatibility, maps to cx23.
	// Deprecated: Use TypeCX23 instead.
	TypeCX22 ServerType = "cx22"
	// TypeCX23 is 2 vCPU, 4GB RAM, 40GB disk.
	TypeCX23 ServerType = "cx23"
	// TypeCX32 is kept for backwards compatibility, maps to cx33.
	// Deprecated: Use TypeCX33 instead.
	TypeCX32 ServerType = "cx32"
	// TypeCX33 is 4 vCPU, 8GB RAM, 80GB disk.
	TypeCX33 ServerType = "cx33"
	// TypeCX42 is kept for backwards compatibility, maps to cx43.
	// Deprecated: Use TypeCX43 instead.
	TypeCX42 ServerType = "cx42"
	// TypeCX43 is 8 vCPU, 16GB RAM, 160GB disk.
	TypeCX43 ServerType = "cx43"
)

// ValidServerTypes returns all valid server types (new names only).
func ValidServerTypes() []ServerType {
	return []ServerType{TypeCX23, TypeCX33, TypeCX43}
}

// IsValid returns true if the server type is valid.
// Accepts both old (cx22) and new (cx23) names.
func (s ServerType) IsValid() bool {
	switch s {
	case TypeCX22, TypeCX23, TypeCX32, TypeCX33, TypeCX42, TypeCX43:
		return true
	default:
		return false
	}
}

// Normalize returns the current Hetzner server type name.
// Converts old names (cx22) to new names (cx23).
func (s ServerType) Normalize() ServerType {
	switch s {
	case TypeCX22:
		return TypeCX23
	case TypeCX32:
		return TypeCX33
	case TypeCX42:
		return TypeCX43
	default:
		return s
	}
}

// Duration wraps time.Duration so YAML files can use values like "5m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// ConfigError reports an unreadable or invalid configuration.
type ConfigError struct {
	// Path is the config file involved, empty when resolution failed on
	// overrides or defaults alone.
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// Validate validates the settings and returns an error listing every
// violated constraint.
func (s Settings) Validate() error {
	var errs []error

	if s.ClusterName == "" {
		errs = append(errs, errors.New("cluster_name is required"))
	} else if !isValidDNSName(s.ClusterName) {
		errs = append(errs, errors.New("cluster_name must be DNS-safe (lowercase alphanumeric and hyphens)"))
	}

	if !s.Region.IsValid() {
		errs = append(errs, fmt.Errorf("region must be one of: %v", ValidRegions()))
	}

	if !s.ServerType.IsValid() {
		errs = append(errs, fmt.Errorf("server_type must be one of: %v", ValidServerTypes()))
	}

	if s.Nodes < 1 || s.Nodes > 5 {
		errs = append(errs, errors.New("nodes must be 1-5"))
	}

	if s.Release == "" {
		errs = append(errs, errors.New("release is required"))
	} else if !isValidDNSName(s.Release) {
		errs = append(errs, errors.New("release must be DNS-safe (lowercase alphanumeric and hyphens)"))
	}

	if s.Namespace == "" {
		errs = append(errs, errors.New("namespace is required"))
	} else if !isValidDNSName(s.Namespace) {
		errs = append(errs, errors.New("namespace must be DNS-safe (lowercase alphanumeric and hyphens)"))
	}

	if s.Chart == "" {
		errs = append(errs, errors.New("chart is required"))
	}

	if s.ImageRepository == "" {
		errs = append(errs, errors.New("image_repository is required"))
	}

	if s.LocalPort < 1 || s.LocalPort > 65535 {
		errs = append(errs, errors.New("local_port must be 1-65535"))
	}
	if s.RemotePort < 1 || s.RemotePort > 65535 {
		errs = append(errs, errors.New("remote_port must be 1-65535"))
	}

	if s.RolloutTimeout.Duration <= 0 {
		errs = append(errs, errors.New("rollout_timeout must be positive"))
	}

	if s.StateBucket != "" {
		if os.Getenv("HETZNER_S3_ACCESS_KEY") == "" {
			errs = append(errs, errors.New("HETZNER_S3_ACCESS_KEY environment variable required when state_bucket is set"))
		}
		if os.Getenv("HETZNER_S3_SECRET_KEY") == "" {
			errs = append(errs, errors.New("HETZNER_S3_SECRET_KEY environment variable required when state_bucket is set"))
		}
	}

	return errors.Join(errs...)
}

// HasRemoteState returns true if provisioner state is mirrored to
// Object Storage.
func (s Settings) HasRemoteState() bool {
	return s.StateBucket != ""
}

// AgentCount returns the number of k3s agent nodes.
func (s Settings) AgentCount() int {
	if s.Nodes <= 1 {
		return 0
	}
	return s.Nodes - 1
}

// isValidDNSName checks if a string is a valid DNS label.
// Must be lowercase, alphanumeric with hyphens, start with a letter,
// max 63 chars.
func isValidDNSName(name string) bool {
	if len(name) == 0 || len(name) > 63 {
		return false
	}
	if name[0] < 'a' || name[0] > 'z' {
		return false
	}
	last := name[len(name)-1]
	if (last < 'a' || last > 'z') && (last < '0' || last > '9') {
		return false
	}
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	if strings.Contains(name, "--") {
		return false
	}
	return true
}
