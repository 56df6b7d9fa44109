package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/slipway/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// runWizard runs the configuration wizard.
	runWizard = config.RunWizard

	// saveSettings writes the settings to a file.
	saveSettings = config.Save
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	settings := result.ToSettings()

	if err := saveSettings(settings, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, settings)

	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("slipway - one app on a small k3s cluster")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("This wizard creates a configuration with sensible defaults.")
	fmt.Println("Every value can be edited in the file afterwards.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, s config.Settings) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Cluster Summary")
	fmt.Println("---------------")
	fmt.Printf("  Name:   %s\n", s.ClusterName)
	fmt.Printf("  Region: %s\n", s.Region)
	fmt.Printf("  Nodes:  %d x %s\n", s.Nodes, s.ServerType)
	fmt.Println()

	fmt.Println("App Summary")
	fmt.Println("-----------")
	fmt.Printf("  Release:   %s\n", s.Release)
	fmt.Printf("  Namespace: %s\n", s.Namespace)
	fmt.Printf("  Chart:     %s\n", s.Chart)
	fmt.Printf("  Image:     %s\n", s.ImageRepository)
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Println("  1. Set your Hetzner Cloud API token:")
	fmt.Println("     export HCLOUD_TOKEN=<your-token>")
	fmt.Println()
	fmt.Println("  2. Create your cluster:")
	fmt.Println("     slipway cluster-up")
	fmt.Println()
	fmt.Println("  3. Deploy your app:")
	fmt.Println("     slipway deploy")
	fmt.Println()
}
