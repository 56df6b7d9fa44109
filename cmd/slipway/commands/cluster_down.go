package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/slipway/cmd/slipway/handlers"
	"github.com/imamik/slipway/internal/config"
)

// ClusterDown returns the command that destroys the cluster.
//
// Requires the HCLOUD_TOKEN environment variable.
func ClusterDown() *cobra.Command {
	var configPath string
	var ov config.Overrides

	cmd := &cobra.Command{
		Use:   "cluster-down",
		Short: "Destroy the cluster and all its cloud resources",
		Long: `Uninstall the app, then delete every cloud resource belonging to the
cluster: servers, firewall, network, and SSH key. App teardown
failures are tolerated; infrastructure deletion failures abort.

Requires the HCLOUD_TOKEN environment variable.

Examples:
  slipway cluster-down
  slipway cluster-down --config prod.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ClusterDown(cmd.Context(), configPath, ov)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: slipway.yaml)")
	cmd.Flags().StringVar(&ov.ClusterName, "cluster", "", "Cluster name")

	return cmd
}
