package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/slipway/cmd/slipway/handlers"
	"github.com/imamik/slipway/internal/config"
)

// ClusterUp returns the command for provisioning the k3s cluster.
//
// Environment variables:
//
//	HCLOUD_TOKEN: Hetzner Cloud API token (required)
func ClusterUp() *cobra.Command {
	var configPath string
	var ov config.Overrides

	cmd := &cobra.Command{
		Use:   "cluster-up",
		Short: "Create or update the cluster",
		Long: `Create or update the k3s cluster on Hetzner Cloud.

This command converges the cloud infrastructure (network, firewall, SSH
key, servers), bootstraps k3s, writes the cluster kubeconfig, and waits
until every node reports Ready. Re-running against a live cluster is a
safe no-op.

Examples:
  # Create the cluster described by slipway.yaml
  slipway cluster-up

  # Use a specific config file
  slipway cluster-up -c production.yaml

  # Override the node count for this invocation
  slipway cluster-up --nodes 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ClusterUp(cmd.Context(), configPath, ov)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: slipway.yaml)")
	cmd.Flags().StringVar(&ov.ClusterName, "cluster", "", "Cluster name override")
	cmd.Flags().StringVar(&ov.Region, "region", "", "Hetzner location (nbg1, fsn1, hel1)")
	cmd.Flags().StringVar(&ov.ServerType, "server-type", "", "Hetzner server type for cluster nodes")
	cmd.Flags().IntVar(&ov.Nodes, "nodes", 0, "Number of cluster nodes")

	return cmd
}
