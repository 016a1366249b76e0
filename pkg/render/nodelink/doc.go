// Package nodelink renders a framewright node tree as a node-link diagram.
//
// # Usage
//
//	dot := nodelink.ToDOT(nodes, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Layout
//
// Nodes are drawn top to bottom with an edge from each parent to each
// child, in sibling order. Every viewport subtree is wrapped in its own
// cluster labelled with the viewport name and width; free canvas nodes sit
// outside any cluster. Placeholders are never drawn.
//
// Styling marks node state:
//   - viewports use a folder shape
//   - locked nodes are filled light grey
//   - dynamic nodes have a dashed outline, top-level ones a bold one
//
// With [Options].Counterparts set, dashed undirected edges join nodes that
// carry the same shared id in different viewports.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
