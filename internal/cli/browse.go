package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// browseCommand creates the browse command for interactive tree editing.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <document>",
		Short: "Browse and reorder a document in the terminal",
		Long: `Open a document in an interactive tree view. Nodes can be reordered,
indented, duplicated and deleted; changes inside a viewport are propagated
to the other viewports and can be undone. Press w to save.`,
		Example: `  framewright browse landing.json
  framewright browse landing`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeDocuments(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runBrowse(ctx context.Context, arg string) error {
	d, err := parseDocument(arg)
	if err != nil {
		return err
	}
	ds, closeStore, err := c.storeFor(ctx, []document{d})
	if err != nil {
		return err
	}
	defer closeStore()

	ed, err := c.openEditor(ctx, d, ds)
	if err != nil {
		return err
	}
	defer ed.Close()

	m := NewTreeModel(ed, func() error { return saveDocument(ctx, ed, d) })
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if tm, ok := final.(TreeModel); ok && tm.Dirty {
		printWarning("%s has unsaved changes", d)
		printNextStep("Re-open to continue editing", appName+" browse "+arg)
	}
	return nil
}
