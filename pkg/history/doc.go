// Package history implements undo and redo on top of the node store's
// change log.
//
// # Model
//
// The store records every primitive mutation as a [store.Change] that can
// revert itself, and delivers one [store.Event] per batch. [History]
// subscribes to those events and keeps each event's changes as one undo
// entry. Undo replays the entry backwards through [store.Store.Revert];
// redo replays it forwards through [store.Store.Reapply]. No snapshots are
// taken and no diffs are computed.
//
// The past stack is bounded (50 entries by default). Any new entry clears
// the redo stack.
//
// # Sessions
//
// Continuous gestures such as dragging a color slider produce many events.
// Between [History.StartRecording] and [History.StopRecording] they are
// accumulated and stored as one compacted entry, so the whole gesture is a
// single undo step.
//
// # Coalescing
//
// Entries that consist only of removals and arrive within the coalesce
// window (50ms by default) of a previous removal-only entry are merged into
// it. A multi-node delete issued as separate calls undoes in one step.
//
// # Replay Safety
//
// Replay events are flagged [store.OriginHistory] and never re-recorded.
// Transient events (drag placeholders) are ignored. If an entry no longer
// matches the tree, the store rolls back the partial replay, the entry is
// dropped with a warning and Undo/Redo report false.
package history
