// Package render turns framewright documents into pictures.
//
// # Overview
//
// The [nodelink] subpackage renders the node tree as a Graphviz diagram:
// one cluster per viewport, parent-to-child edges, and optional dashed
// edges between counterparts that share a shared id.
//
// # Format Conversion
//
// [Convert] turns any SVG into PDF or PNG using the external rsvg-convert
// tool (from librsvg).
//
//	dot := nodelink.ToDOT(nodes, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := render.Convert(ctx, svg, render.PNG, 2.0)  // 2x scale
//
// [nodelink]: github.com/framewright/framewright/pkg/render/nodelink
package render
