package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/slipway/cmd/slipway/handlers"
	"github.com/imamik/slipway/internal/config"
)

// Status returns the command that reports the deployed release's state.
func Status() *cobra.Command {
	var configPath string
	var ov config.Overrides

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the deployed release's status",
		Long: `Show the deployed release: revision, chart, image tag, and whether
the rollout is Ready, Progressing, or Failed.

Examples:
  slipway status
  slipway status --release api --namespace api`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), configPath, ov)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: slipway.yaml)")
	cmd.Flags().StringVar(&ov.Release, "release", "", "Helm release name")
	cmd.Flags().StringVar(&ov.Namespace, "namespace", "", "Kubernetes namespace for the app")

	return cmd
}
