package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/slipway/cmd/slipway/handlers"
	"github.com/imamik/slipway/internal/config"
)

// Deploy returns the command that deploys the app onto the cluster.
func Deploy() *cobra.Command {
	var configPath string
	var ov config.Overrides

	cmd := &cobra.Command{
		Use:     "deploy",
		Aliases: []string{"app-up"},
		Short:   "Deploy the app to the cluster",
		Long: `Deploy the application's Helm chart to the cluster.

The image tag defaults to the short git commit hash of the working
tree; pin a specific build with --tag. The release namespace is created
when missing, and the command waits until the new revision's Deployment
has rolled out.

Examples:
  # Deploy the current commit
  slipway deploy

  # Deploy a specific image tag
  slipway deploy --tag v1.4.2

  # Deploy with a longer rollout budget
  slipway deploy --rollout-timeout 10m`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), configPath, ov)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: slipway.yaml)")
	cmd.Flags().StringVar(&ov.Tag, "tag", "", "Image tag to deploy (default: short git commit hash)")
	cmd.Flags().StringVar(&ov.Release, "release", "", "Helm release name")
	cmd.Flags().StringVar(&ov.Namespace, "namespace", "", "Kubernetes namespace for the app")
	cmd.Flags().StringVar(&ov.Chart, "chart", "", "Path to the app's Helm chart")
	cmd.Flags().StringVar(&ov.ImageRepository, "image-repo", "", "Container image repository")
	cmd.Flags().DurationVar(&ov.RolloutTimeout, "rollout-timeout", 0, "How long to wait for the rollout (default: 5m)")

	return cmd
}
