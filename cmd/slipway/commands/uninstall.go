package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/slipway/cmd/slipway/handlers"
	"github.com/imamik/slipway/internal/config"
)

// Uninstall returns the command that removes the app from the cluster.
func Uninstall() *cobra.Command {
	var configPath string
	var ov config.Overrides

	cmd := &cobra.Command{
		Use:     "uninstall",
		Aliases: []string{"app-down"},
		Short:   "Remove the app from the cluster",
		Long: `Uninstall the Helm release and delete its namespace. The cluster
itself is left running. Steps that fail because the resource is
already gone are reported and skipped.

Examples:
  slipway uninstall
  slipway app-down --release api`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Uninstall(cmd.Context(), configPath, ov)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: slipway.yaml)")
	cmd.Flags().StringVar(&ov.Release, "release", "", "Helm release name")
	cmd.Flags().StringVar(&ov.Namespace, "namespace", "", "Kubernetes namespace for the app")

	return cmd
}
