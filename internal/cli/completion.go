package cli

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// completionTimeout bounds the store lookup behind document completion so a
// slow backend never blocks the shell.
const completionTimeout = 2 * time.Second

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for framewright.

Document arguments complete to the ids in the configured document store,
or to .json files when the store has none.

  bash:        source <(framewright completion bash)
  zsh:         framewright completion zsh > "${fpath[1]}/_framewright"
  fish:        framewright completion fish | source
  powershell:  framewright completion powershell | Out-String | Invoke-Expression`,
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
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completeDocuments returns a completion function for document arguments.
// limit caps how many documents the command takes; 0 means no limit.
func (c *CLI) completeDocuments(limit int) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if limit > 0 && len(args) >= limit {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		files := []string{"json"}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, completionTimeout)
		defer cancel()

		ds, err := c.openStore(ctx)
		if err != nil {
			return files, cobra.ShellCompDirectiveFilterFileExt
		}
		defer ds.Close()
		ids, err := ds.List(ctx)
		if err != nil {
			return files, cobra.ShellCompDirectiveFilterFileExt
		}

		var out []string
		for _, id := range ids {
			if strings.HasPrefix(id, toComplete) && !slices.Contains(args, id) {
				out = append(out, id)
			}
		}
		if len(out) == 0 {
			return files, cobra.ShellCompDirectiveFilterFileExt
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
