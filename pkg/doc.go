// Package pkg provides the libraries behind the framewright page builder.
//
// # Overview
//
// Framewright edits a page as a flat store of nodes forming a tree. Root
// nodes are either responsive viewports (desktop, tablet, mobile) or free
// nodes on the canvas. The pkg directory is organized into three areas:
//
//  1. Core: the tree and the operations on it ([node], [store], [snap],
//     [drop], [drag], [viewport], [history])
//  2. Session: [editor] wires the core into one open document
//  3. Edges: persistence ([io], [docstore]), configuration ([config]),
//     rendering ([render]), the HTTP API ([httpapi]) and shared plumbing
//     ([errors], [observability], [geom], [buildinfo])
//
// # Architecture
//
// A drag gesture flows through the core like this:
//
//	pointer events
//	     ↓
//	[drag] controller (threshold, mode, placeholders, auto-scroll)
//	     ↓
//	[drop] resolver (hit test, before/after/inside)   [snap] engine (guides)
//	     ↓
//	[store] batch (one event per gesture)
//	     ↓
//	[viewport] sync → [history] entry
//
// # Quick Start
//
//	ed := editor.New(config.Default(), editor.WithStore(docstore.NewMemoryStore()))
//	defer ed.Close()
//	if err := ed.LoadNodes(nodes); err != nil {
//	    return err
//	}
//	id, err := ed.Add(node.Node{Type: node.TypeText}, "desktop", -1)
//	ed.Undo()
//
// [node]: github.com/framewright/framewright/pkg/node
// [store]: github.com/framewright/framewright/pkg/store
// [snap]: github.com/framewright/framewright/pkg/snap
// [drop]: github.com/framewright/framewright/pkg/drop
// [drag]: github.com/framewright/framewright/pkg/drag
// [viewport]: github.com/framewright/framewright/pkg/viewport
// [history]: github.com/framewright/framewright/pkg/history
// [editor]: github.com/framewright/framewright/pkg/editor
// [io]: github.com/framewright/framewright/pkg/io
// [docstore]: github.com/framewright/framewright/pkg/docstore
// [config]: github.com/framewright/framewright/pkg/config
// [render]: github.com/framewright/framewright/pkg/render
// [httpapi]: github.com/framewright/framewright/pkg/httpapi
// [errors]: github.com/framewright/framewright/pkg/errors
// [observability]: github.com/framewright/framewright/pkg/observability
// [geom]: github.com/framewright/framewright/pkg/geom
// [buildinfo]: github.com/framewright/framewright/pkg/buildinfo
package pkg
