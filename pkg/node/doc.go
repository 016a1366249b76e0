// Package node defines the Node record, the single entity of the editor core.
//
// # Overview
//
// A document is a flat collection of nodes forming an implicit forest through
// [Node.ParentID]. An empty ParentID means the node is a root: either a
// free-floating canvas node or a viewport root (desktop, tablet, mobile).
//
// The same logical element exists once per viewport. Its copies are linked by
// [Node.SharedID]. Per-viewport overrides are expressed by
// [Node.IndependentStyles]: a property flagged there is never overwritten by
// cross-viewport sync.
//
// # Style
//
// [Style] is an opaque property bag. The core only inspects geometry keys
// (position, left, top, width, height, rotate) and layout direction keys
// (display, flexDirection). Values are numbers or CSS-like strings and are
// read through [ParseLength], which never yields NaN.
//
// # Duplication
//
// [Rekey] copies a set of nodes with fresh identifiers. One mapping is used
// for every identifier family (ids, shared ids, dynamic family ids, variant
// responsive ids and variant info ids), so relations between the copies
// survive the operation.
package node
