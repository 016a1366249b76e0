// Package editor wires the framewright core into one document session.
//
// An [Editor] owns a node store and the components that work on it: the
// undo/redo history, the viewport syncer, the drop resolver and the drag
// controller. Every edit goes through the editor so that the responsive
// viewports stay consistent:
//
//   - structural edits (add, move, drag) are propagated from the viewport
//     they happened in to all other viewports
//   - style edits in the primary viewport are propagated; style edits in
//     any other viewport flag the touched properties independent on that
//     node, turning them into per-viewport overrides
//
// Each edit, its propagation included, is one undo entry.
//
// # Dynamic Edit Mode
//
// Nodes inside a dynamic family are edited as a unit: outside edit mode
// [Editor.ResolveTarget] maps them to the family's top-level node. After
// [Editor.EnterDynamicEdit] the family's children can be selected and
// dropped into individually.
//
// # Persistence
//
// [Editor.Load] and [Editor.Save] read and write through a
// [docstore.Store]; the default is an in-memory store.
package editor
