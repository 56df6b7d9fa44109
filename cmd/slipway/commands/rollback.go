package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/slipway/cmd/slipway/handlers"
	"github.com/imamik/slipway/internal/config"
)

// Rollback returns the command that reverts the app to its previous release.
func Rollback() *cobra.Command {
	var configPath string
	var ov config.Overrides

	cmd := &cobra.Command{
		Use:   "rollback",
		Short: "Roll the app back to the previous release",
		Long: `Roll the app back to the most recent previously deployed revision
and wait for the rollout to complete.

Examples:
  slipway rollback
  slipway rollback --release api`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Rollback(cmd.Context(), configPath, ov)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: slipway.yaml)")
	cmd.Flags().StringVar(&ov.Release, "release", "", "Helm release name")
	cmd.Flags().StringVar(&ov.Namespace, "namespace", "", "Kubernetes namespace for the app")

	return cmd
}
