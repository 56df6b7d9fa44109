package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/slipway/cmd/slipway/handlers"
	"github.com/imamik/slipway/internal/config"
)

// Init returns the command that creates a slipway configuration file.
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file interactively",
		Long: `Create a slipway configuration file through a short wizard.

The wizard asks for the cluster essentials and writes a slipway.yaml
with everything else defaulted. Every value can be edited afterwards.

Examples:
  # Create slipway.yaml in the current directory
  slipway init

  # Write the configuration somewhere else
  slipway init -o deploy/slipway.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Path for the generated configuration file")

	return cmd
}
