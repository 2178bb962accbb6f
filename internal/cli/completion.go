package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenticinfraops/infraviz/pkg/catalog"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for infraviz.

To load completions:

Bash:
  $ source <(infraviz completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ infraviz completion bash > /etc/bash_completion.d/infraviz
  # macOS:
  $ infraviz completion bash > $(brew --prefix)/etc/bash_completion.d/infraviz

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ infraviz completion zsh > "${fpath[1]}/_infraviz"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ infraviz completion fish | source

  # To load completions for each session, execute once:
  $ infraviz completion fish > ~/.config/fish/completions/infraviz.fish

PowerShell:
  PS> infraviz completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> infraviz completion powershell > infraviz.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.Out)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.Out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.Out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.Out)
			}
			return nil
		},
	}

	return cmd
}

// completeDiagramNames completes catalog entry names not already on the
// command line.
func completeDiagramNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, e := range catalog.Entries() {
		if strings.HasPrefix(e.Name, toComplete) && !slices.Contains(args, e.Name) {
			out = append(out, e.Name+"\t"+e.Description)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
