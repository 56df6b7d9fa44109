package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/slipway/cmd/slipway/handlers"
	"github.com/imamik/slipway/internal/config"
)

// Pods returns the command that lists the app's pods.
func Pods() *cobra.Command {
	var configPath string
	var ov config.Overrides

	cmd := &cobra.Command{
		Use:   "pods",
		Short: "List the app's pods",
		Long: `List the pods in the app's namespace with readiness, status,
restart count, and age.

Examples:
  slipway pods
  slipway pods --namespace api`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Pods(cmd.Context(), configPath, ov)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: slipway.yaml)")
	cmd.Flags().StringVar(&ov.Namespace, "namespace", "", "Kubernetes namespace for the app")

	return cmd
}
