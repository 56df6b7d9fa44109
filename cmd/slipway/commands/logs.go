package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/slipway/cmd/slipway/handlers"
	"github.com/imamik/slipway/internal/config"
)

// Logs returns the command that streams the app's logs.
func Logs() *cobra.Command {
	var configPath string
	var ov config.Overrides

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Stream logs from the app's pods",
		Long: `Stream logs from the pods belonging to the deployed release.
Follows until interrupted with Ctrl+C.

Examples:
  slipway logs
  slipway logs --release api`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Logs(cmd.Context(), configPath, ov)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: slipway.yaml)")
	cmd.Flags().StringVar(&ov.Release, "release", "", "Helm release name")
	cmd.Flags().StringVar(&ov.Namespace, "namespace", "", "Kubernetes namespace for the app")

	return cmd
}
