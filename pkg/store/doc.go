// Package store provides the authoritative node collection of a document.
//
// # Overview
//
// A [Store] is an arena of [node.Node] records keyed by id, with a
// precomputed parent→children index (ordered) and correlation tables for the
// cross-viewport identifiers (shared ids, dynamic family ids and variant
// responsive ids). Reads such as [Store.Children] or [Store.CounterpartIn]
// never walk the whole tree.
//
// # Mutations
//
// Every mutation validates the tree invariants first. A violation (a cycle,
// a nested viewport, a duplicate shared id inside one viewport) is logged and
// returned as an error; the tree is left unchanged. Nothing in this package
// panics on bad input.
//
// Each primitive mutation is recorded as a [Change] that knows how to apply
// and revert itself. Changes are grouped by [Store.Batch] into one [Event]
// per logical gesture, which subscribers (renderers, the history engine)
// receive through [Store.Subscribe]:
//
//	err := s.Batch("reorder", func() error {
//	    if err := s.MoveNode("a", false, store.Target{ID: "b", Position: node.After}); err != nil {
//	        return err
//	    }
//	    return s.UpdateStyle("a", node.Style{"width": "120px"})
//	})
//
// A batch whose function fails is rolled back and emits nothing.
//
// Changes made inside [Store.Transient] (drag placeholders) are delivered to
// subscribers with [Event.Transient] set so that history can skip them.
//
// # Concurrency
//
// Store instances are not safe for concurrent use. The editor mutates the
// store from one logical call stack at a time; callers that share a store
// across goroutines must serialise access themselves.
package store
