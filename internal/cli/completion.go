package cli

import "github.com/spf13/cobra"

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for fragorder.

To load completions:

Bash:
  $ source <(fragorder completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ fragorder completion bash > /etc/bash_completion.d/fragorder
  # macOS:
  $ fragorder completion bash > $(brew --prefix)/etc/bash_completion.d/fragorder

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ fragorder completion zsh > "${fpath[1]}/_fragorder"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ fragorder completion fish | source

  # To load completions for each session, execute once:
  $ fragorder completion fish > ~/.config/fish/completions/fragorder.fish

PowerShell:
  PS> fragorder completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> fragorder completion powershell > fragorder.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}
