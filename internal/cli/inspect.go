package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/framewright/framewright/pkg/node"
	"github.com/framewright/framewright/pkg/store"
)

// inspectOpts holds options for the inspect command.
type inspectOpts struct {
	tree bool
	json bool
}

// inspectCommand creates the inspect command for summarizing a document.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{}

	cmd := &cobra.Command{
		Use:   "inspect <document>",
		Short: "Summarize a document's viewports and nodes",
		Long: `Print a document's viewports, node counts and sync status.

With --tree the full node tree is printed, one node per line, with its type,
shared id and lock state.`,
		Example: `  framewright inspect landing.json
  framewright inspect landing --tree
  framewright inspect landing.json --json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeDocuments(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.tree, "tree", "t", false, "print the node tree")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the summary as JSON")

	return cmd
}

// viewportSummary describes one viewport of a document.
type viewportSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Width       float64 `json:"width"`
	Nodes       int     `json:"nodes"`
	Independent int     `json:"independent"`
}

// summary describes a document.
type summary struct {
	Nodes     int               `json:"nodes"`
	Viewports []viewportSummary `json:"viewports"`
	Free      int               `json:"free"`
	Families  int               `json:"families"`
	Locked    int               `json:"locked"`
	InSync    bool              `json:"inSync"`
}

// summarize counts nodes per viewport. Placeholders are not counted.
func summarize(s *store.Store) summary {
	sum := summary{Viewports: []viewportSummary{}}
	families := make(map[string]bool)

	for _, n := range s.Snapshot() {
		if n.IsPlaceholder() {
			continue
		}
		sum.Nodes++
		if n.IsLocked {
			sum.Locked++
		}
		if n.DynamicFamilyID != "" {
			families[n.DynamicFamilyID] = true
		}
	}
	sum.Families = len(families)

	for _, vp := range s.Viewports() {
		n, _ := s.Node(vp)
		vs := viewportSummary{ID: vp, Name: displayName(n), Width: n.ViewportWidth}
		for _, id := range s.Descendants(vp) {
			d, _ := s.Node(id)
			if d.IsPlaceholder() {
				continue
			}
			vs.Nodes++
			vs.Independent += len(d.IndependentStyles)
		}
		sum.Viewports = append(sum.Viewports, vs)
	}

	for _, r := range s.Roots() {
		if n, _ := s.Node(r); !n.IsViewport && !n.IsPlaceholder() {
			sum.Free += len(s.Subtree(r))
		}
	}
	return sum
}

func (c *CLI) runInspect(ctx context.Context, arg string, opts inspectOpts) error {
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

	sum := summarize(ed.Store())
	tree := formatTree(ed.Store())

	// The editor is discarded, so the trial sync is never persisted.
	stats, err := ed.Sync()
	if err != nil {
		return fmt.Errorf("sync check: %w", err)
	}
	sum.InSync = !stats.Changed()

	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	fmt.Println(StyleTitle.Render(d.String()))
	printStats(sum.Nodes, len(sum.Viewports), sum.InSync)
	printNewline()
	if len(sum.Viewports) > 0 {
		fmt.Println(viewportTable(sum.Viewports))
	}
	printKeyValue("Free nodes", strconv.Itoa(sum.Free))
	printKeyValue("Families", strconv.Itoa(sum.Families))
	printKeyValue("Locked", strconv.Itoa(sum.Locked))

	if opts.tree {
		printNewline()
		fmt.Print(tree)
	}
	if !sum.InSync {
		printNewline()
		printNextStep("Propagate the primary viewport", appName+" sync "+arg)
	}
	return nil
}

// viewportTable renders viewports widest first.
func viewportTable(vps []viewportSummary) string {
	rows := make([][]string, 0, len(vps))
	for i, v := range vps {
		role := ""
		if i == 0 {
			role = "primary"
		}
		rows = append(rows, []string{
			v.Name,
			fmt.Sprintf("%gpx", v.Width),
			strconv.Itoa(v.Nodes),
			strconv.Itoa(v.Independent),
			role,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Viewport", "Width", "Nodes", "Overrides", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return styleViewport
			case col == 4:
				return StyleDim
			}
			return StyleValue
		})
	return t.Render()
}

// formatTree renders the tree as indented lines.
func formatTree(s *store.Store) string {
	var b strings.Builder
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		n, ok := s.Node(id)
		if !ok || n.IsPlaceholder() {
			return
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(treeLine(n))
		b.WriteByte('\n')
		for _, c := range s.Children(id) {
			walk(c, depth+1)
		}
	}
	for _, r := range s.Roots() {
		walk(r, 0)
	}
	return b.String()
}

func treeLine(n *node.Node) string {
	if n.IsViewport {
		return styleViewport.Render(fmt.Sprintf("%s (%gpx)", displayName(n), n.ViewportWidth))
	}
	line := StyleValue.Render(displayName(n)) + " " + styleType.Render(string(n.Type))
	if n.SharedID != "" {
		line += " " + styleShared.Render("#"+shortID(n.SharedID))
	}
	if n.IsLocked {
		line += " " + styleIconWarning.Render(iconLocked)
	}
	return line
}

func displayName(n *node.Node) string {
	switch {
	case n.IsViewport && n.ViewportName != "":
		return n.ViewportName
	case n.Name != "":
		return n.Name
	}
	return n.ID
}

// shortID trims long generated ids for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
