package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/framewright/framewright/pkg/node"
	"github.com/framewright/framewright/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node type and style to labels.
	// When false, the label is the node name, or its id.
	Detailed bool

	// Counterparts draws dashed edges between shared-id counterparts.
	Counterparts bool
}

// ToDOT converts nodes, in tree order, to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(nodes []node.Node, opts Options) string {
	byID := make(map[string]*node.Node, len(nodes))
	for i := range nodes {
		if !nodes[i].IsPlaceholder() {
			byID[nodes[i].ID] = &nodes[i]
		}
	}
	rootOf := func(id string) string {
		for seen := 0; seen <= len(byID); seen++ {
			n, ok := byID[id]
			if !ok || n.ParentID == "" {
				return id
			}
			id = n.ParentID
		}
		return id
	}

	clusters := make(map[string][]*node.Node)
	var free []*node.Node
	var viewports []string
	for i := range nodes {
		n := &nodes[i]
		if _, ok := byID[n.ID]; !ok {
			continue
		}
		root := rootOf(n.ID)
		if r, ok := byID[root]; ok && r.IsViewport {
			if root == n.ID {
				viewports = append(viewports, root)
			}
			clusters[root] = append(clusters[root], n)
			continue
		}
		free = append(free, n)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for _, vp := range viewports {
		v := byID[vp]
		fmt.Fprintf(&buf, "\n  subgraph %q {\n", "cluster_"+vp)
		fmt.Fprintf(&buf, "    label=%q;\n", viewportLabel(*v))
		buf.WriteString("    style=\"rounded,dashed\";\n")
		for _, n := range clusters[vp] {
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(fmtAttrs(*n, fmtLabel(*n, opts.Detailed)), ", "))
		}
		buf.WriteString("  }\n")
	}
	if len(free) > 0 {
		buf.WriteString("\n")
		for _, n := range free {
			fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(*n, fmtLabel(*n, opts.Detailed)), ", "))
		}
	}

	buf.WriteString("\n")
	for i := range nodes {
		n := &nodes[i]
		if _, ok := byID[n.ID]; !ok || n.ParentID == "" {
			continue
		}
		if _, ok := byID[n.ParentID]; ok {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.ParentID, n.ID)
		}
	}

	if opts.Counterparts {
		writeCounterparts(&buf, nodes, byID, rootOf)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeCounterparts chains the nodes of each shared id in tree order.
func writeCounterparts(buf *bytes.Buffer, nodes []node.Node, byID map[string]*node.Node, rootOf func(string) string) {
	groups := make(map[string][]string)
	for i := range nodes {
		n := &nodes[i]
		if _, ok := byID[n.ID]; !ok || n.SharedID == "" || n.IsViewport {
			continue
		}
		if r := byID[rootOf(n.ID)]; r == nil || !r.IsViewport {
			continue
		}
		groups[n.SharedID] = append(groups[n.SharedID], n.ID)
	}
	if len(groups) == 0 {
		return
	}
	buf.WriteString("\n")
	for _, sid := range slices.Sorted(maps.Keys(groups)) {
		ids := groups[sid]
		for i := 1; i < len(ids); i++ {
			fmt.Fprintf(buf, "  %q -> %q [style=dashed, dir=none, color=grey, constraint=false];\n", ids[i-1], ids[i])
		}
	}
}

func viewportLabel(n node.Node) string {
	name := n.ViewportName
	if name == "" {
		name = n.ID
	}
	return fmt.Sprintf("%s (%gpx)", name, n.ViewportWidth)
}

func fmtLabel(n node.Node, detailed bool) string {
	label := n.Name
	if label == "" {
		label = n.ID
	}
	if !detailed {
		return label
	}

	parts := []string{fmt.Sprintf("type: %s", n.Type)}
	for _, k := range slices.Sorted(maps.Keys(n.Style)) {
		v := fmt.Sprintf("%s: %v", k, n.Style[k])
		if n.Independent(k) {
			v += " *"
		}
		parts = append(parts, v)
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n node.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	style := []string{"rounded", "filled"}
	switch {
	case n.IsViewport:
		attrs = append(attrs, "shape=folder")
	case n.IsTopLevelDynamicNode:
		style = append(style, "bold")
	case n.IsDynamic:
		style = append(style, "dashed")
	}
	if n.IsLocked {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	if len(style) > 2 {
		attrs = append(attrs, fmt.Sprintf("style=%q", strings.Join(style, ",")))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.Convert].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.Convert(ctx, svg, render.PDF, 0)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.Convert(ctx, svg, render.PNG, scale)
}
