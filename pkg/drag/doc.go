// Package drag implements the drag-and-drop state machine of the canvas.
//
// # States
//
// A [Controller] starts Idle. [Controller.Down] arms it (Pending); the
// first [Controller.Move] that travels past the threshold starts the drag
// (Dragging). While dragging, each tick classifies the pointer into one of
// three modes:
//
//   - ModeReorder: the drop resolver found a flow target. A chain of
//     placeholder nodes, one per dragged node, sits at the target so that
//     surrounding content reflows.
//   - ModeFreeCanvas: no target. Placeholders are removed and the ghost
//     snaps against the other canvas roots.
//   - ModeAbsoluteInFrame: an absolutely positioned child moving inside its
//     own frame. It snaps against its siblings and the frame.
//
// [Controller.Up] commits the drop as one store batch and returns to Idle.
// [Controller.Cancel] and [Controller.Close] abort without committing.
// Every exit path removes all placeholders.
//
// # Ordering
//
// Each tick reads the captured [Layout] first and mutates the store last.
// Placeholders are only touched inside [store.Store.Transient], so they
// never reach the undo history, and the committed batch moves the real
// nodes relative to surviving siblings rather than by index.
//
// # Auto-scroll
//
// Near the edges of the canvas an [AutoScroller] computes a scroll velocity
// that grows quadratically towards the edge. A [FrameScheduler] drives the
// scroll loop; the loop stops as soon as the velocity drops to zero or the
// drag ends.
package drag
