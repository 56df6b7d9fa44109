package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFilename is the default configuration filename.
const DefaultConfigFilename = "slipway.yaml"

// Defaults returns the built-in settings. They describe a one-node k3s
// cluster in Nuremberg running a chart from ./charts/app.
func Defaults() Settings {
	return Settings{
		ClusterName:     "slipway",
		Region:          RegionNuremberg,
		ServerType:      TypeCX23,
		Nodes:           1,
		Release:         "app",
		Namespace:       "app",
		Chart:           "./charts/app",
		ImageRepository: "ghcr.io/imamik/slipway-demo",
		LocalPort:       3000,
		RemotePort:      3000,
		StateDir:        ".slipway",
		RolloutTimeout:  Duration{5 * time.Minute},
	}
}

// Resolve builds the settings snapshot for one invocation: built-in
// defaults, then the config file (explicit path, or slipway.yaml found
// by upward search), then flag overrides. The result is validated
// before it is returned; any failure is reported as a *ConfigError.
func Resolve(path string, ov Overrides) (Settings, error) {
	s := Defaults()

	if path == "" {
		// An auto-detected file is optional, an explicit one is not.
		if found, err := FindConfigFile(); err == nil {
			path = found
		}
	} else if _, err := os.Stat(path); err != nil {
		return Settings{}, &ConfigError{Path: path, Err: err}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, &ConfigError{Path: path, Err: err}
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, &ConfigError{Path: path, Err: fmt.Errorf("failed to parse YAML: %w", err)}
		}
	}

	s = applyOverrides(s, ov)
	s = fillDerived(s)

	if err := s.Validate(); err != nil {
		return Settings{}, &ConfigError{Path: path, Err: err}
	}

	return s, nil
}

// applyOverrides copies every set override onto the settings.
func applyOverrides(s Settings, ov Overrides) Settings {
	if ov.ClusterName != "" {
		s.ClusterName = ov.ClusterName
	}
	if ov.Region != "" {
		s.Region = Region(ov.Region)
	}
	if ov.ServerType != "" {
		s.ServerType = ServerType(ov.ServerType)
	}
	if ov.Nodes != 0 {
		s.Nodes = ov.Nodes
	}
	if ov.Release != "" {
		s.Release = ov.Release
	}
	if ov.Namespace != "" {
		s.Namespace = ov.Namespace
	}
	if ov.Chart != "" {
		s.Chart = ov.Chart
	}
	if ov.ImageRepository != "" {
		s.ImageRepository = ov.ImageRepository
	}
	if ov.Tag != "" {
		s.Tag = ov.Tag
	}
	if ov.LocalPort != 0 {
		s.LocalPort = ov.LocalPort
	}
	if ov.RemotePort != 0 {
		s.RemotePort = ov.RemotePort
	}
	if ov.StateDir != "" {
		s.StateDir = ov.StateDir
	}
	if ov.Kubeconfig != "" {
		s.Kubeconfig = ov.Kubeconfig
	}
	if ov.RolloutTimeout != 0 {
		s.RolloutTimeout = Duration{ov.RolloutTimeout}
	}
	return s
}

// fillDerived completes fields whose defaults depend on other fields.
func fillDerived(s Settings) Settings {
	if s.Kubeconfig == "" {
		s.Kubeconfig = filepath.Join(s.StateDir, "kubeconfig")
	}
	if s.StateBucket != "" && s.StateEndpoint == "" {
		s.StateEndpoint = s.Region.ObjectStorageEndpoint()
	}
	return s
}

// FindConfigFile searches for slipway.yaml in the current directory,
// then walks up the directory tree.
func FindConfigFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	path := filepath.Join(cwd, DefaultConfigFilename)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	dir := cwd
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent

		path := filepath.Join(dir, DefaultConfigFilename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("config file %s not found", DefaultConfigFilename)
}

// Save writes settings to a YAML file.
func Save(s Settings, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
