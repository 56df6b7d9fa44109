package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// WizardResult holds the user's choices from the init wizard.
type WizardResult struct {
	ClusterName     string
	Region          Region
	ServerType      ServerType
	Nodes           int
	ImageRepository string
	Chart           string
}

// RunWizard walks the user through the settings slipway cannot guess.
// Everything else keeps its built-in default.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	defaults := Defaults()
	result := &WizardResult{
		ClusterName: defaults.ClusterName,
		Region:      defaults.Region,
		ServerType:  defaults.ServerType,
		Nodes:       defaults.Nodes,
		Chart:       defaults.Chart,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster name").
				Description("Used for cloud resource naming (DNS-safe, lowercase)").
				Placeholder(defaults.ClusterName).
				Value(&result.ClusterName).
				Validate(validateClusterName),
		),

		huh.NewGroup(
			huh.NewSelect[Region]().
				Title("Region").
				Description("Hetzner Cloud datacenter location").
				Options(
					huh.NewOption("Nuremberg, Germany (nbg1)", RegionNuremberg),
					huh.NewOption("Falkenstein, Germany (fsn1)", RegionFalkenstein),
					huh.NewOption("Helsinki, Finland (hel1)", RegionHelsinki),
				).
				Value(&result.Region),
		),

		huh.NewGroup(
			huh.NewSelect[ServerType]().
				Title("Server type").
				Description("Shared vCPU instances (cost-effective)").
				Options(
					huh.NewOption("CX23 - 2 vCPU, 4GB RAM", TypeCX23),
					huh.NewOption("CX33 - 4 vCPU, 8GB RAM", TypeCX33),
					huh.NewOption("CX43 - 8 vCPU, 16GB RAM", TypeCX43),
				).
				Value(&result.ServerType),

			huh.NewSelect[int]().
				Title("Nodes").
				Description("First node runs the k3s server, the rest join as agents").
				Options(
					huh.NewOption("1 node", 1),
					huh.NewOption("2 nodes", 2),
					huh.NewOption("3 nodes", 3),
					huh.NewOption("4 nodes", 4),
					huh.NewOption("5 nodes", 5),
				).
				Value(&result.Nodes),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Image repository").
				Description("Container image the chart deploys (image.repository)").
				Placeholder(defaults.ImageRepository).
				Value(&result.ImageRepository).
				Validate(validateImageRepository),

			huh.NewInput().
				Title("Chart path").
				Description("Path to the application's Helm chart").
				Placeholder(defaults.Chart).
				Value(&result.Chart),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

// ToSettings merges the wizard choices onto the built-in defaults.
func (r *WizardResult) ToSettings() Settings {
	s := Defaults()
	s.ClusterName = r.ClusterName
	s.Region = r.Region
	s.ServerType = r.ServerType
	s.Nodes = r.Nodes
	if r.ImageRepository != "" {
		s.ImageRepository = r.ImageRepository
	}
	if r.Chart != "" {
		s.Chart = r.Chart
	}
	return s
}

// validateClusterName validates the cluster name.
func validateClusterName(s string) error {
	if s == "" {
		return fmt.Errorf("cluster name is required")
	}
	if len(s) > 63 {
		return fmt.Errorf("cluster name must be 63 characters or less")
	}
	for _, c := range s {
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-') {
			return fmt.Errorf("cluster name can only contain lowercase letters, numbers, and hyphens")
		}
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return fmt.Errorf("cluster name cannot start or end with a hyphen")
	}
	return nil
}

// validateImageRepository validates the image repository reference.
func validateImageRepository(s string) error {
	if s == "" {
		return nil
	}
	if strings.ContainsAny(s, " \t") {
		return fmt.Errorf("image repository cannot contain whitespace")
	}
	if strings.Contains(s, ":") && !strings.Contains(s, "/") {
		return fmt.Errorf("image repository must not include a tag")
	}
	return nil
}
