package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/framewright/framewright/pkg/errors"
	"github.com/framewright/framewright/pkg/node"
	"github.com/framewright/framewright/pkg/render/nodelink"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"

	defaultPNGScale = 2.0 // device pixels per SVG pixel
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatDOT: true, formatSVG: true, formatPDF: true, formatPNG: true}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output       string   // output file path, base path for several formats, or "-"
	formats      []string // output formats: "dot", "svg", "pdf", "png"
	detailed     bool     // add type and style keys to labels
	counterparts bool     // draw edges between shared-id counterparts
	scale        float64  // PNG scale factor
}

// renderCommand creates the render command for generating node-link diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: defaultPNGScale}

	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Render a document as a node-link diagram",
		Long: `Render a document's tree with Graphviz. Each viewport becomes a cluster;
free canvas nodes are drawn after the clusters. With --counterparts, nodes
sharing an id across viewports are joined by dashed edges.

PDF and PNG output require rsvg-convert on the PATH.`,
		Example: `  framewright render landing.json
  framewright render landing -f svg,png -o out/landing --counterparts
  framewright render landing.json -f dot -o - | dot -Tpng > landing.png`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeDocuments(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if opts.output == "-" && len(opts.formats) != 1 {
				return errors.New(errors.ErrCodeInvalidInput, "output - needs exactly one format")
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node types and style keys")
	cmd.Flags().BoolVar(&opts.counterparts, "counterparts", false, "link counterparts across viewports")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(parts[i]))
	}
	return parts
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'dot', 'svg', 'pdf', or 'png')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output flag and the
// document argument. A known format extension on output is stripped.
func basePath(output string, d document) string {
	if output == "" {
		if d.path != "" {
			return strings.TrimSuffix(d.path, filepath.Ext(d.path))
		}
		return d.id
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func (c *CLI) runRender(ctx context.Context, arg string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

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
	nodes := ed.Nodes()
	ed.Close()
	logger.Debugf("Loaded %s: %d nodes", d, len(nodes))

	dot := nodelink.ToDOT(nodes, nodelink.Options{Detailed: opts.detailed, Counterparts: opts.counterparts})

	if opts.output == "-" {
		data, err := renderDiagram(ctx, dot, opts.formats[0], opts.scale)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	base := basePath(opts.output, d)
	for _, format := range opts.formats {
		path := base + "." + format
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := renderToFile(ctx, dot, format, path, opts.scale); err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		printFile(path)
	}
	rendered := countRendered(nodes)
	printDetail("%d nodes · %d viewports", rendered, len(nodes)-rendered)
	return nil
}

// renderDiagram dispatches on format.
func renderDiagram(ctx context.Context, dot, format string, scale float64) ([]byte, error) {
	switch format {
	case formatDOT:
		return []byte(dot), nil
	case formatSVG:
		return nodelink.RenderSVG(dot)
	case formatPDF:
		return nodelink.RenderPDF(ctx, dot)
	case formatPNG:
		return nodelink.RenderPNG(ctx, dot, scale)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s", format)
}

func renderToFile(ctx context.Context, dot, format, path string, scale float64) error {
	data, err := renderDiagram(ctx, dot, format, scale)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func countRendered(nodes []node.Node) int {
	n := 0
	for i := range nodes {
		if !nodes[i].IsViewport {
			n++
		}
	}
	return n
}
