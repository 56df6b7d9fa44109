package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/slipway/cmd/slipway/handlers"
	"github.com/imamik/slipway/internal/config"
)

// PortForward returns the command that tunnels a local port to the app.
func PortForward() *cobra.Command {
	var configPath string
	var ov config.Overrides

	cmd := &cobra.Command{
		Use:   "port-forward",
		Short: "Forward a local port to the app",
		Long: `Forward a local port to a pod of the deployed release. The tunnel
reconnects automatically if the connection drops, and runs until
interrupted with Ctrl+C.

Examples:
  slipway port-forward
  slipway port-forward --local-port 9090 --remote-port 8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.PortForward(cmd.Context(), configPath, ov)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: slipway.yaml)")
	cmd.Flags().StringVar(&ov.Release, "release", "", "Helm release name")
	cmd.Flags().StringVar(&ov.Namespace, "namespace", "", "Kubernetes namespace for the app")
	cmd.Flags().IntVar(&ov.LocalPort, "local-port", 0, "Local port to listen on")
	cmd.Flags().IntVar(&ov.RemotePort, "remote-port", 0, "Pod port to forward to")

	return cmd
}
