// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/imamik/slipway/internal/logging"
)

// Root returns the root command for the slipway CLI.
//
// The root command serves as the entry point and parent for all
// subcommands. Its persistent pre-run builds the logger and threads it
// through the command context for every handler.
func Root() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "slipway",
		Short:         "Provision a k3s cluster on Hetzner Cloud and ship one app to it",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			cmd.SetContext(logr.NewContext(cmd.Context(), log))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Cluster lifecycle
	cmd.AddCommand(Init())
	cmd.AddCommand(ClusterUp())
	cmd.AddCommand(ClusterDown())

	// App lifecycle
	cmd.AddCommand(Deploy())
	cmd.AddCommand(Rollback())
	cmd.AddCommand(Uninstall())

	// Observability
	cmd.AddCommand(Status())
	cmd.AddCommand(Pods())
	cmd.AddCommand(Logs())
	cmd.AddCommand(PortForward())

	// Utility
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
