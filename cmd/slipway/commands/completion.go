package commands

import (
	"github.com/spf13/cobra"
)

// Completion returns the completion command for shell autocompletion.
func Completion() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for the given shell.

The script is written to stdout. Source it for the current session, or
install it wherever your shell loads completions from. Zsh users need
compinit enabled ("autoload -U compinit; compinit" in ~/.zshrc) and a
fresh shell after installing.

Examples:
  # Load into the current bash session
  source <(slipway completion bash)

  # Install for bash permanently (Linux)
  slipway completion bash > /etc/bash_completion.d/slipway

  # Install for zsh
  slipway completion zsh > "${fpath[1]}/_slipway"

  # Install for fish
  slipway completion fish > ~/.config/fish/completions/slipway.fish

  # Load into the current PowerShell session
  slipway completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
